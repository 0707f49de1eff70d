package cli

import (
	"bytes"
	"strings"
	"testing"
)

func TestGenerateCompletion(t *testing.T) {
	t.Parallel()
	functions := []string{"exp", "pi", "sin-x2", "x2"}
	tests := []struct {
		shell    string
		contains []string
	}{
		{"bash", []string{"complete -F _midcalc_completions midcalc", "--function)", "exp pi sin-x2 x2", "--output|-o|--metrics-file"}},
		{"zsh", []string{"#compdef midcalc", "'--function[Integrand to use]:function:($functions)'", "'3:mode:(0 1 flat hierarchical)'"}},
		{"fish", []string{"complete -c midcalc -l function", "-xa 'exp pi sin-x2 x2'", "-s o -l output", "-rF"}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.shell, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			if err := GenerateCompletion(&buf, tt.shell, functions); err != nil {
				t.Fatalf("GenerateCompletion: %v", err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("%s script should contain %q", tt.shell, want)
				}
			}
		})
	}
}

func TestGenerateCompletion_UnsupportedShell(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	if err := GenerateCompletion(&buf, "powershell", nil); err == nil {
		t.Error("expected an error for an unsupported shell")
	}
	if buf.Len() != 0 {
		t.Error("nothing should be written for an unsupported shell")
	}
}
