package apperrors

import (
	"errors"
	"fmt"
	"io"
)

// Application exit codes define the standard exit statuses for the application.
// These codes are used to signal the outcome of the program execution to the OS.
const (
	ExitSuccess       = 0 // Indicates successful execution.
	ExitErrorGeneric  = 1 // Indicates a generic error.
	ExitErrorMismatch = 2 // Indicates flat and hierarchical results disagree.
	ExitErrorResource = 3 // Indicates a worker could not be run to completion.
	ExitErrorConfig   = 4 // Indicates a configuration error.
)

// ConfigError represents a user configuration error, such as a wrong number
// of positional arguments or a non-positive count. It indicates that the
// application cannot proceed and that no worker has been started.
type ConfigError struct {
	// Message explains the specific configuration error.
	Message string
}

// Error returns the error message for a ConfigError.
func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a new ConfigError with a formatted message.
//
// Parameters:
//   - format: A format string (see fmt.Sprintf).
//   - a: Arguments to be formatted into the string.
//
// Returns:
//   - error: A new ConfigError instance containing the formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// ValidationError represents an input validation failure. It identifies which
// field failed validation and provides a human-readable explanation.
type ValidationError struct {
	// Field is the name of the field that failed validation.
	Field string
	// Message explains the validation failure.
	Message string
}

// Error returns a formatted message describing the validation failure.
func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error for %q: %s", e.Field, e.Message)
}

// ResourceExhaustionError reports a worker that aborted before contributing
// its partial sum, typically because the runtime could not allocate memory.
// It is fatal: the accumulated total is incomplete and must not be reported.
type ResourceExhaustionError struct {
	// Worker describes the worker that aborted.
	Worker string
	// Cause is the recovered failure.
	Cause error
}

// Error returns a formatted message naming the worker and the cause.
func (e ResourceExhaustionError) Error() string {
	return fmt.Sprintf("%s aborted: %v", e.Worker, e.Cause)
}

// Unwrap returns the original cause.
func (e ResourceExhaustionError) Unwrap() error { return e.Cause }

// WrapError wraps an error with additional context using fmt.Errorf and %w.
// This allows the wrapped error to be unwrapped with errors.Unwrap() and
// checked with errors.Is() and errors.As().
//
// Parameters:
//   - err: The error to wrap.
//   - format: A format string for the context message.
//   - args: Arguments for the format string.
//
// Returns:
//   - error: The wrapped error, or nil if err is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// IsConfigError reports whether err is, or wraps, a configuration error.
// Validation errors count as configuration errors.
func IsConfigError(err error) bool {
	var configErr ConfigError
	var validationErr ValidationError
	return errors.As(err, &configErr) || errors.As(err, &validationErr)
}

// ExitCodeFor maps an error onto the process exit status.
func ExitCodeFor(err error) int {
	var resourceErr ResourceExhaustionError
	switch {
	case err == nil:
		return ExitSuccess
	case IsConfigError(err):
		return ExitErrorConfig
	case errors.As(err, &resourceErr):
		return ExitErrorResource
	default:
		return ExitErrorGeneric
	}
}

// ColorProvider supplies the escape sequences used when reporting errors.
// A nil provider prints plain text.
type ColorProvider interface {
	Red() string
	Yellow() string
	Reset() string
}

// HandleRunError prints a user-facing description of err and returns the
// matching exit code. It is the single place where run failures are turned
// into output.
func HandleRunError(err error, out io.Writer, colors ColorProvider) int {
	if err == nil {
		return ExitSuccess
	}
	red, yellow, reset := "", "", ""
	if colors != nil {
		red, yellow, reset = colors.Red(), colors.Yellow(), colors.Reset()
	}

	code := ExitCodeFor(err)
	switch code {
	case ExitErrorConfig:
		fmt.Fprintf(out, "%sConfiguration error:%s %v\n", yellow, reset, err)
	case ExitErrorResource:
		fmt.Fprintf(out, "%sFatal:%s %v\n", red, reset, err)
	default:
		fmt.Fprintf(out, "%sError:%s %v\n", red, reset, err)
	}
	return code
}
