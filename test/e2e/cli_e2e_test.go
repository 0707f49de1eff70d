package e2e

import (
	"errors"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"testing"
)

// sinSquareReference is the integral of sin(x²) over [-1, 1].
const sinSquareReference = 0.62053660344676220361

// buildBinary compiles cmd/midcalc into a temporary directory.
func buildBinary(t *testing.T) string {
	t.Helper()
	binName := "midcalc"
	if runtime.GOOS == "windows" {
		binName = "midcalc.exe"
	}
	binPath := filepath.Join(t.TempDir(), binName)

	// go test runs in the package directory; build from the module root.
	cmd := exec.Command("go", "build", "-o", binPath, "./cmd/midcalc")
	cmd.Dir = "../.."
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		t.Fatalf("Failed to build midcalc: %v", err)
	}
	return binPath
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

// TestCLI_E2E verifies the built binary functions correctly
func TestCLI_E2E(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping binary build in short mode")
	}
	binPath := buildBinary(t)

	tests := []struct {
		name     string
		args     []string
		wantOut  string // substring match (case-insensitive)
		wantCode int
	}{
		{
			name:     "Flat Run",
			args:     []string{"1000000", "4", "0"},
			wantOut:  "Computed value:",
			wantCode: 0,
		},
		{
			name:     "Hierarchical Run",
			args:     []string{"100000", "3", "1"},
			wantOut:  "hierarchical, 3 top-level workers",
			wantCode: 0,
		},
		{
			name:     "Degenerate Run",
			args:     []string{"--details", "5", "10", "0"},
			wantOut:  "Contributions:   10",
			wantCode: 0,
		},
		{
			name:     "Help",
			args:     []string{"--help"},
			wantOut:  "usage",
			wantCode: 0,
		},
		{
			name:     "Missing Positionals",
			args:     []string{"1000", "4"},
			wantOut:  "expected 3 positional parameters",
			wantCode: 4,
		},
		{
			name:     "Zero Workers",
			args:     []string{"1000", "0", "0"},
			wantOut:  "number of workers must be a positive integer",
			wantCode: 4,
		},
		{
			name:     "Non Numeric Intervals",
			args:     []string{"many", "4", "0"},
			wantOut:  "configuration error",
			wantCode: 4,
		},
		{
			name:     "Unknown Function",
			args:     []string{"--function", "tan", "1000", "4", "0"},
			wantOut:  "unknown function",
			wantCode: 4,
		},
		{
			name:     "Version Flag",
			args:     []string{"--version"},
			wantOut:  "midcalc",
			wantCode: 0,
		},
		{
			name:     "Completion",
			args:     []string{"--completion", "fish"},
			wantOut:  "complete -c midcalc",
			wantCode: 0,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			cmd := exec.Command(binPath, tt.args...)
			cmd.Env = append(os.Environ(), "NO_COLOR=1")
			output, err := cmd.CombinedOutput()
			outStr := string(output)

			if got := exitCode(err); got != tt.wantCode {
				t.Errorf("exit code = %d, want %d\nOutput: %s", got, tt.wantCode, outStr)
			}
			if !strings.Contains(strings.ToLower(outStr), strings.ToLower(tt.wantOut)) {
				t.Errorf("Output missing expected string.\nExpected: %q\nGot:\n%s", tt.wantOut, outStr)
			}
		})
	}
}

// TestCLI_E2E_Accuracy checks the quiet output of both topologies against
// the reference value.
func TestCLI_E2E_Accuracy(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping binary build in short mode")
	}
	binPath := buildBinary(t)

	for _, mode := range []string{"0", "1", "-3", "flat", "hierarchical"} {
		mode := mode
		t.Run(mode, func(t *testing.T) {
			out, err := exec.Command(binPath, "--quiet", "1000000", "4", mode).Output()
			if err != nil {
				t.Fatalf("run failed: %v", err)
			}
			value, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
			if err != nil {
				t.Fatalf("quiet output %q is not a number", out)
			}
			if math.Abs(value-sinSquareReference) > 1e-6 {
				t.Errorf("value %.17f differs from %.17f by more than 1e-6", value, sinSquareReference)
			}
		})
	}
}
