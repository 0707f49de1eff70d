package quadrature

import (
	"fmt"
	"math"
	"sort"
	"sync"
)

// SampleFunction is the integrand: a pure function of one real argument.
type SampleFunction func(x float64) float64

// Problem couples an integrand with its bounds and a known reference value
// for the definite integral over those bounds.
type Problem struct {
	// Name is the registry key (e.g. "sin-x2").
	Name string
	// Description is a human readable formula.
	Description string
	// F is the integrand.
	F SampleFunction
	// A and B are the lower and upper integration bounds.
	A, B float64
	// Reference is the exact (or tabulated) value of the integral.
	Reference float64
}

// StepSize returns h = (B - A) / totalIntervals.
func (p Problem) StepSize(totalIntervals int) float64 {
	return (p.B - p.A) / float64(totalIntervals)
}

const (
	// DefaultProblemName is the integrand used when none is selected.
	DefaultProblemName = "sin-x2"

	// SinSquareReference is the integral of sin(x²) over [-1, 1].
	SinSquareReference = 0.62053660344676220361
)

// SinSquare is the default integrand, sin(x²).
func SinSquare(x float64) float64 { return math.Sin(x * x) }

// DefaultProblem returns sin(x²) over [-1, 1].
func DefaultProblem() Problem {
	return Problem{
		Name:        DefaultProblemName,
		Description: "sin(x*x) on [-1, 1]",
		F:           SinSquare,
		A:           -1,
		B:           1,
		Reference:   SinSquareReference,
	}
}

// builtinProblems lists the integrands registered by NewDefaultRegistry.
func builtinProblems() []Problem {
	return []Problem{
		DefaultProblem(),
		{
			Name:        "x2",
			Description: "x*x on [-1, 1]",
			F:           func(x float64) float64 { return x * x },
			A:           -1,
			B:           1,
			Reference:   2.0 / 3.0,
		},
		{
			Name:        "exp",
			Description: "exp(x) on [0, 1]",
			F:           math.Exp,
			A:           0,
			B:           1,
			Reference:   math.E - 1,
		},
		{
			Name:        "pi",
			Description: "4/(1+x*x) on [0, 1]",
			F:           func(x float64) float64 { return 4 / (1 + x*x) },
			A:           0,
			B:           1,
			Reference:   math.Pi,
		},
	}
}

// Registry is a name-indexed, concurrency-safe set of problems.
type Registry struct {
	mu       sync.RWMutex
	problems map[string]Problem
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{problems: make(map[string]Problem)}
}

// NewDefaultRegistry returns a registry holding the built-in integrands.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	for _, p := range builtinProblems() {
		// Built-ins have unique names; Register cannot fail here.
		_ = r.Register(p)
	}
	return r
}

// Register adds p to the registry. It fails if the name is empty, already
// taken, the integrand is nil or the bounds are reversed.
func (r *Registry) Register(p Problem) error {
	if p.Name == "" {
		return fmt.Errorf("problem name must not be empty")
	}
	if p.F == nil {
		return fmt.Errorf("problem %q has no integrand", p.Name)
	}
	if p.A > p.B {
		return fmt.Errorf("problem %q has reversed bounds [%g, %g]", p.Name, p.A, p.B)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.problems[p.Name]; exists {
		return fmt.Errorf("problem %q already registered", p.Name)
	}
	r.problems[p.Name] = p
	return nil
}

// Get returns the problem registered under name.
func (r *Registry) Get(name string) (Problem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.problems[name]
	if !ok {
		return Problem{}, fmt.Errorf("unknown function %q", name)
	}
	return p, nil
}

// List returns the registered names in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.problems))
	for name := range r.problems {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ErrorAgainst returns the absolute error of value against reference and the
// relative error expressed as a percentage. The relative error is +Inf when
// the reference is zero and the value is not.
func ErrorAgainst(value, reference float64) (absErr, relPercent float64) {
	absErr = math.Abs(reference - value)
	switch {
	case reference != 0:
		relPercent = 100 * absErr / math.Abs(reference)
	case absErr != 0:
		relPercent = math.Inf(1)
	}
	return absErr, relPercent
}
