package quadrature

import (
	"math"
	"testing"
)

func TestDefaultRegistry(t *testing.T) {
	t.Parallel()
	r := NewDefaultRegistry()

	names := r.List()
	want := []string{"exp", "pi", "sin-x2", "x2"}
	if len(names) != len(want) {
		t.Fatalf("List() = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("List()[%d] = %q, want %q", i, names[i], want[i])
		}
	}

	p, err := r.Get(DefaultProblemName)
	if err != nil {
		t.Fatalf("Get(default): %v", err)
	}
	if p.A != -1 || p.B != 1 || p.Reference != SinSquareReference {
		t.Errorf("default problem = %+v", p)
	}
}

func TestRegistry_Register(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		problem Problem
		wantErr bool
	}{
		{"valid", Problem{Name: "one", F: func(float64) float64 { return 1 }, A: 0, B: 1, Reference: 1}, false},
		{"duplicate", Problem{Name: "sin-x2", F: SinSquare, A: -1, B: 1}, true},
		{"empty name", Problem{F: SinSquare}, true},
		{"nil integrand", Problem{Name: "nil"}, true},
		{"reversed bounds", Problem{Name: "rev", F: SinSquare, A: 1, B: -1}, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := NewDefaultRegistry()
			err := r.Register(tt.problem)
			if (err != nil) != tt.wantErr {
				t.Errorf("Register() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRegistry_GetUnknown(t *testing.T) {
	t.Parallel()
	if _, err := NewDefaultRegistry().Get("nope"); err == nil {
		t.Error("expected error for unknown function")
	}
}

func TestErrorAgainst(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name       string
		value, ref float64
		abs, rel   float64
	}{
		{"exact", 2, 2, 0, 0},
		{"below", 0.5, 1, 0.5, 50},
		{"above negative reference", -1.5, -2, 0.5, 25},
		{"zero reference zero value", 0, 0, 0, 0},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			abs, rel := ErrorAgainst(tt.value, tt.ref)
			if math.Abs(abs-tt.abs) > 1e-15 || math.Abs(rel-tt.rel) > 1e-12 {
				t.Errorf("ErrorAgainst(%g, %g) = (%g, %g), want (%g, %g)", tt.value, tt.ref, abs, rel, tt.abs, tt.rel)
			}
		})
	}

	if _, rel := ErrorAgainst(1, 0); !math.IsInf(rel, 1) {
		t.Errorf("relative error against zero reference = %g, want +Inf", rel)
	}
}
