// Package app wires configuration, orchestration and presentation into the
// midcalc command. It is the only place where errors become exit codes.
package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/agbru/midcalc/internal/calibration"
	"github.com/agbru/midcalc/internal/cli"
	"github.com/agbru/midcalc/internal/config"
	apperrors "github.com/agbru/midcalc/internal/errors"
	"github.com/agbru/midcalc/internal/logging"
	"github.com/agbru/midcalc/internal/orchestration"
	"github.com/agbru/midcalc/internal/quadrature"
	"github.com/agbru/midcalc/internal/tui"
	"github.com/agbru/midcalc/internal/ui"
)

// Application represents the midcalc application instance.
type Application struct {
	Config    config.AppConfig
	Registry  *quadrature.Registry
	ErrWriter io.Writer
	// In feeds the interactive mode.
	In io.Reader
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithRegistry sets a custom problem registry for the application.
func WithRegistry(r *quadrature.Registry) AppOption {
	return func(a *Application) { a.Registry = r }
}

// WithInput sets the reader used by the interactive mode.
func WithInput(in io.Reader) AppOption {
	return func(a *Application) { a.In = in }
}

// New creates a new Application instance by parsing command-line arguments.
// args[0] is the program name.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{ErrWriter: errWriter, In: os.Stdin}
	for _, opt := range opts {
		opt(app)
	}
	if app.Registry == nil {
		app.Registry = quadrature.NewDefaultRegistry()
	}

	programName := "midcalc"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter, app.Registry.List())
	if err != nil {
		return nil, err
	}
	app.Config = cfg
	return app, nil
}

// Run executes the application based on the configured mode.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	if a.Config.ShowVersion {
		PrintVersion(out)
		return apperrors.ExitSuccess
	}
	if a.Config.Completion != "" {
		return a.runCompletion(out)
	}

	ui.InitTheme(a.Config.NoColor)
	logger := logging.New(a.ErrWriter, "midcalc", a.Config.LogFormat, logging.ParseLevel(a.Config.LogLevel))

	switch {
	case a.Config.Interactive:
		return a.runInteractive(ctx, out, logger)
	case a.Config.Calibrate, a.Config.CalibrateQuick:
		return a.runCalibration(ctx, out, logger)
	case a.Config.TUI:
		return a.runTUI(ctx, logger)
	default:
		return a.runCalculate(ctx, out, logger)
	}
}

// problem resolves the configured integrand.
func (a *Application) problem() (quadrature.Problem, error) {
	return a.Registry.Get(a.Config.Function)
}

// plan builds the integration plan from the positional parameters.
func (a *Application) plan() (orchestration.Plan, error) {
	problem, err := a.problem()
	if err != nil {
		return orchestration.Plan{}, apperrors.NewConfigError("%v", err)
	}
	return orchestration.Plan{
		Problem:   problem,
		Intervals: a.Config.Intervals,
		Workers:   a.Config.Workers,
		Mode:      a.Config.Mode,
	}, nil
}

// runCompletion generates shell completion scripts.
func (a *Application) runCompletion(out io.Writer) int {
	if err := cli.GenerateCompletion(out, a.Config.Completion, a.Registry.List()); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error generating completion: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	return apperrors.ExitSuccess
}

// runCalibration sweeps worker counts up to the requested one for both
// topologies. --calibrate-quick narrows the sweep.
func (a *Application) runCalibration(ctx context.Context, out io.Writer, logger logging.Logger) int {
	problem, err := a.problem()
	if err != nil {
		return apperrors.HandleRunError(apperrors.NewConfigError("%v", err), a.ErrWriter, ui.Palette{})
	}
	err = calibration.RunCalibration(ctx, out, calibration.Settings{
		Problem:    problem,
		Intervals:  a.Config.Intervals,
		MaxWorkers: a.Config.Workers,
		Quick:      a.Config.CalibrateQuick,
		Options:    []orchestration.Option{orchestration.WithLogger(logger)},
	})
	return apperrors.HandleRunError(err, a.ErrWriter, ui.Palette{})
}

// runInteractive starts the REPL.
func (a *Application) runInteractive(ctx context.Context, out io.Writer, logger logging.Logger) int {
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	repl := cli.NewREPL(a.Registry, cli.REPLConfig{
		DefaultFunction: a.Config.Function,
		Details:         a.Config.Details,
		Options:         []orchestration.Option{orchestration.WithLogger(logger)},
	})
	repl.SetInput(a.In)
	repl.SetOutput(out)
	repl.Start(ctx)
	return apperrors.ExitSuccess
}

// runTUI launches the live worker grid.
func (a *Application) runTUI(ctx context.Context, logger logging.Logger) int {
	plan, err := a.plan()
	if err != nil {
		return apperrors.HandleRunError(err, a.ErrWriter, ui.Palette{})
	}
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	return tui.Run(ctx, plan, Version, orchestration.WithLogger(logger))
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
