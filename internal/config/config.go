// Package config defines the command-line configuration of midcalc and the
// environment variable overrides applied on top of it.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	apperrors "github.com/agbru/midcalc/internal/errors"
	"github.com/agbru/midcalc/internal/logging"
	"github.com/agbru/midcalc/internal/quadrature"
	"github.com/agbru/midcalc/internal/topology"
)

// EnvPrefix is the prefix of every environment variable read by midcalc.
const EnvPrefix = "MIDCALC_"

// PositionalCount is the number of positional parameters of a run:
// intervals, workers and mode.
const PositionalCount = 3

// AppConfig aggregates the application's configuration parameters.
type AppConfig struct {
	// Intervals is the total number of midpoint samples.
	Intervals int
	// Workers is the number of top-level workers.
	Workers int
	// Mode selects the flat or hierarchical topology.
	Mode topology.Mode
	// Function is the name of the integrand in the problem registry.
	Function string

	// Quiet prints only the computed value.
	Quiet bool
	// Details adds per-worker partials and resource usage to the report.
	Details bool
	// OutputFile, if set, receives the result (text, JSON or YAML by
	// extension).
	OutputFile string
	// MetricsFile, if set, receives the run metrics in the Prometheus text
	// format.
	MetricsFile string
	// TUI shows the live worker grid instead of the spinner.
	TUI bool
	// NoColor disables ANSI colours.
	NoColor bool
	// LogLevel is the zerolog level name for diagnostic logs on stderr.
	LogLevel string
	// LogFormat is "json" for zerolog lines or "text" for plain log lines.
	LogFormat string

	// Calibrate sweeps worker counts up to Workers for both modes.
	Calibrate bool
	// CalibrateQuick runs a calibration over fewer worker counts, once each.
	CalibrateQuick bool
	// Interactive starts the REPL.
	Interactive bool
	// Completion, if set, prints the completion script for that shell.
	Completion string
	// ShowVersion prints the version and exits.
	ShowVersion bool
}

// needsPositionals reports whether the selected action runs an integration
// from the command line.
func (c AppConfig) needsPositionals() bool {
	return !c.Interactive && c.Completion == "" && !c.ShowVersion
}

// Validate checks the semantic consistency of the configuration.
//
// Parameters:
//   - functions: The names accepted for Function.
//
// Returns:
//   - error: A ValidationError for a bad positional value, a ConfigError for
//     any other problem, or nil.
func (c AppConfig) Validate(functions []string) error {
	if c.needsPositionals() {
		if c.Intervals < 1 {
			return positiveError("intervals", c.Intervals)
		}
		if c.Workers < 1 {
			return positiveError("workers", c.Workers)
		}
	}
	if !contains(functions, c.Function) {
		return apperrors.NewConfigError("unknown function %q (available: %s)", c.Function, strings.Join(functions, ", "))
	}
	switch c.Completion {
	case "", "bash", "zsh", "fish":
	default:
		return apperrors.NewConfigError("unsupported shell %q for --completion (use bash, zsh or fish)", c.Completion)
	}
	switch c.LogFormat {
	case logging.FormatJSON, logging.FormatText:
	default:
		return apperrors.NewConfigError("unsupported --log-format %q (use json or text)", c.LogFormat)
	}
	if c.TUI && c.Quiet {
		return apperrors.NewConfigError("--tui and --quiet cannot be combined")
	}
	return nil
}

// ParseConfig parses the command-line arguments into an AppConfig, applies
// MIDCALC_ environment overrides for flags that were not set, and validates
// the result.
//
// Flags may appear before, between or after the three positional
// parameters.
//
// Parameters:
//   - programName: The name used in usage messages.
//   - args: The arguments, without the program name.
//   - errorWriter: Where usage and parse errors are written.
//   - functions: The integrand names accepted by --function.
//
// Returns:
//   - AppConfig: The parsed configuration.
//   - error: flag.ErrHelp when help was requested, otherwise a ConfigError.
func ParseConfig(programName string, args []string, errorWriter io.Writer, functions []string) (AppConfig, error) {
	config := AppConfig{
		Function: quadrature.DefaultProblemName,
		LogLevel:  "warn",
		LogFormat: logging.FormatJSON,
	}

	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errorWriter)
	fs.Usage = func() {
		fmt.Fprintf(errorWriter, "Usage: %s [flags] <intervals> <workers> <mode>\n\n", programName)
		fmt.Fprintf(errorWriter, "  intervals  number of midpoint samples (positive integer)\n")
		fmt.Fprintf(errorWriter, "  workers    number of top-level workers (positive integer)\n")
		fmt.Fprintf(errorWriter, "  mode       0 or \"flat\" for flat, any other integer or \"hierarchical\" for hierarchical\n\n")
		fmt.Fprintf(errorWriter, "Flags:\n")
		fs.PrintDefaults()
	}

	fs.StringVar(&config.Function, "function", config.Function, "Integrand to use ("+strings.Join(functions, ", ")+").")
	fs.BoolVar(&config.Quiet, "quiet", false, "Print only the computed value.")
	fs.BoolVar(&config.Quiet, "q", false, "Shorthand for --quiet.")
	fs.BoolVar(&config.Details, "details", false, "Show per-worker partial sums and resource usage.")
	fs.BoolVar(&config.Details, "d", false, "Shorthand for --details.")
	fs.StringVar(&config.OutputFile, "output", "", "Write the result to a file (.txt, .json, .yaml).")
	fs.StringVar(&config.OutputFile, "o", "", "Shorthand for --output.")
	fs.StringVar(&config.MetricsFile, "metrics-file", "", "Write run metrics in the Prometheus text format.")
	fs.BoolVar(&config.TUI, "tui", false, "Show the interactive worker grid.")
	fs.BoolVar(&config.NoColor, "no-color", false, "Disable coloured output.")
	fs.StringVar(&config.LogLevel, "log-level", config.LogLevel, "Diagnostic log level (debug, info, warn, error).")
	fs.StringVar(&config.LogFormat, "log-format", config.LogFormat, "Diagnostic log format (json, text).")
	fs.BoolVar(&config.Calibrate, "calibrate", false, "Sweep worker counts up to <workers> in both modes.")
	fs.BoolVar(&config.CalibrateQuick, "calibrate-quick", false, "Like --calibrate, over fewer worker counts.")
	fs.BoolVar(&config.Interactive, "interactive", false, "Start the interactive mode.")
	fs.StringVar(&config.Completion, "completion", "", "Print the completion script for bash, zsh or fish.")
	fs.BoolVar(&config.ShowVersion, "version", false, "Print the version and exit.")

	positionals, err := parseInterleaved(fs, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return AppConfig{}, err
		}
		return AppConfig{}, apperrors.NewConfigError("%v", err)
	}

	applyEnvOverrides(&config, fs)

	if config.needsPositionals() {
		if len(positionals) != PositionalCount {
			fs.Usage()
			return AppConfig{}, apperrors.NewConfigError("expected %d positional parameters <intervals> <workers> <mode>, got %d",
				PositionalCount, len(positionals))
		}
		if err := config.applyPositionals(positionals); err != nil {
			return AppConfig{}, err
		}
	} else if len(positionals) > 0 {
		return AppConfig{}, apperrors.NewConfigError("unexpected positional parameters: %s", strings.Join(positionals, " "))
	}

	if err := config.Validate(functions); err != nil {
		return AppConfig{}, err
	}
	return config, nil
}

// parseInterleaved parses args with fs, collecting the non-flag arguments
// that the flag package would otherwise stop at. Negative integers are
// positionals, not flags, so that "-1" is accepted as a mode selector.
func parseInterleaved(fs *flag.FlagSet, args []string) ([]string, error) {
	var positionals []string
	for len(args) > 0 {
		if isNegativeInteger(args[0]) {
			positionals = append(positionals, args[0])
			args = args[1:]
			continue
		}
		end := len(args)
		for i, a := range args {
			if isNegativeInteger(a) {
				end = i
				break
			}
		}
		if err := fs.Parse(args[:end]); err != nil {
			return nil, err
		}
		rest := fs.Args()
		if len(rest) == 0 {
			args = args[end:]
			continue
		}
		positionals = append(positionals, rest[0])
		next := make([]string, 0, len(rest)-1+len(args)-end)
		next = append(next, rest[1:]...)
		args = append(next, args[end:]...)
	}
	return positionals, nil
}

func isNegativeInteger(s string) bool {
	if !strings.HasPrefix(s, "-") {
		return false
	}
	_, err := strconv.Atoi(s)
	return err == nil
}

// applyPositionals decodes <intervals> <workers> <mode>.
func (c *AppConfig) applyPositionals(positionals []string) error {
	intervals, err := parsePositive("intervals", positionals[0])
	if err != nil {
		return err
	}
	workers, err := parsePositive("workers", positionals[1])
	if err != nil {
		return err
	}
	mode, err := topology.ParseMode(positionals[2])
	if err != nil {
		return apperrors.NewConfigError("%v", err)
	}
	c.Intervals, c.Workers, c.Mode = intervals, workers, mode
	return nil
}

func parsePositive(name, value string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, apperrors.ValidationError{
			Field:   name,
			Message: fmt.Sprintf("number of %s must be an integer, got %q", name, value),
		}
	}
	if n < 1 {
		return 0, positiveError(name, n)
	}
	return n, nil
}

func positiveError(name string, n int) error {
	return apperrors.ValidationError{
		Field:   name,
		Message: fmt.Sprintf("number of %s must be a positive integer, got %d", name, n),
	}
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
