// Package apperrors provides tests for application error types.
package apperrors

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestConfigError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name        string
		err         error
		expected    string
		checkTypeAs bool
	}{
		{
			name:     "Error returns message",
			err:      ConfigError{Message: "wrong number of arguments"},
			expected: "wrong number of arguments",
		},
		{
			name:     "NewConfigError creates formatted error",
			err:      NewConfigError("expected %d positional arguments, got %d", 3, 1),
			expected: "expected 3 positional arguments, got 1",
		},
		{
			name:        "ConfigError type assertion",
			err:         NewConfigError("test error"),
			expected:    "test error",
			checkTypeAs: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if tt.err.Error() != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, tt.err.Error())
			}
			if tt.checkTypeAs {
				var configErr ConfigError
				if !errors.As(tt.err, &configErr) {
					t.Error("expected error to be ConfigError type")
				}
			}
		})
	}
}

func TestValidationError(t *testing.T) {
	t.Parallel()
	err := ValidationError{Field: "workers", Message: "must be at least 1"}
	want := `validation error for "workers": must be at least 1`
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
}

func TestResourceExhaustionError(t *testing.T) {
	t.Parallel()
	cause := errors.New("out of memory")
	err := ResourceExhaustionError{Worker: "worker 3/8", Cause: cause}

	if err.Error() != "worker 3/8 aborted: out of memory" {
		t.Errorf("unexpected message %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the cause in the chain")
	}
	wrapped := fmt.Errorf("run failed: %w", err)
	var target ResourceExhaustionError
	if !errors.As(wrapped, &target) || target.Worker != "worker 3/8" {
		t.Error("errors.As should recover ResourceExhaustionError through wrapping")
	}
}

func TestWrapError(t *testing.T) {
	t.Parallel()
	if WrapError(nil, "context") != nil {
		t.Error("WrapError(nil) should return nil")
	}
	base := errors.New("base")
	wrapped := WrapError(base, "building %s", "topology")
	if wrapped.Error() != "building topology: base" {
		t.Errorf("unexpected message %q", wrapped.Error())
	}
	if !errors.Is(wrapped, base) {
		t.Error("wrapped error should unwrap to base")
	}
}

func TestExitCodeFor(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"config", NewConfigError("bad"), ExitErrorConfig},
		{"wrapped config", WrapError(NewConfigError("bad"), "parse"), ExitErrorConfig},
		{"validation", ValidationError{Field: "n", Message: "bad"}, ExitErrorConfig},
		{"resource", ResourceExhaustionError{Worker: "w", Cause: errors.New("oom")}, ExitErrorResource},
		{"generic", errors.New("boom"), ExitErrorGeneric},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ExitCodeFor(tt.err); got != tt.want {
				t.Errorf("ExitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestHandleRunError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		err      error
		wantCode int
		contains string
	}{
		{"nil prints nothing", nil, ExitSuccess, ""},
		{"config", NewConfigError("expected 3 positional arguments"), ExitErrorConfig, "Configuration error"},
		{"resource", ResourceExhaustionError{Worker: "worker 0/1", Cause: errors.New("oom")}, ExitErrorResource, "Fatal"},
		{"generic", errors.New("boom"), ExitErrorGeneric, "Error: boom"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			code := HandleRunError(tt.err, &buf, nil)
			if code != tt.wantCode {
				t.Errorf("code = %d, want %d", code, tt.wantCode)
			}
			if tt.contains == "" && buf.Len() != 0 {
				t.Errorf("expected no output, got %q", buf.String())
			}
			if !strings.Contains(buf.String(), tt.contains) {
				t.Errorf("output %q should contain %q", buf.String(), tt.contains)
			}
		})
	}
}
