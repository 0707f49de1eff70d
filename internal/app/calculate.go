package app

import (
	"context"
	"fmt"
	"io"

	"github.com/agbru/midcalc/internal/cli"
	apperrors "github.com/agbru/midcalc/internal/errors"
	"github.com/agbru/midcalc/internal/logging"
	"github.com/agbru/midcalc/internal/metrics"
	"github.com/agbru/midcalc/internal/orchestration"
	"github.com/agbru/midcalc/internal/ui"
)

// runCalculate orchestrates a single command-line integration.
func (a *Application) runCalculate(ctx context.Context, out io.Writer, logger logging.Logger) int {
	plan, err := a.plan()
	if err != nil {
		return apperrors.HandleRunError(err, a.ErrWriter, ui.Palette{})
	}

	// Skip the banner in quiet mode
	if !a.Config.Quiet {
		cli.PrintExecutionConfig(a.Config, plan.Problem, out)
		cli.PrintExecutionMode(plan.Mode, plan.Workers, out)
	}

	// Choose progress reporter based on quiet mode
	var progressReporter orchestration.ProgressReporter = cli.CLIProgressReporter{Intervals: plan.Intervals}
	progressOut := out
	if a.Config.Quiet {
		progressOut = io.Discard
		progressReporter = orchestration.NullProgressReporter{}
	}

	var recorder metrics.Recorder = metrics.NopRecorder{}
	var prom *metrics.PrometheusRecorder
	if a.Config.MetricsFile != "" {
		prom = metrics.NewPrometheusRecorder()
		recorder = prom
	}

	var probe *metrics.Probe
	if a.Config.Details {
		probe = metrics.StartProbe()
	}

	logger.Info("run started",
		logging.String("function", plan.Problem.Name),
		logging.Int("intervals", plan.Intervals),
		logging.Int("workers", plan.Workers),
		logging.String("mode", plan.Mode.String()))

	res, err := orchestration.ExecuteIntegration(ctx, plan, progressReporter, progressOut,
		orchestration.WithLogger(logger),
		orchestration.WithRecorder(recorder))
	if err != nil {
		logger.Error("run failed", err, logging.String("function", plan.Problem.Name))
		return apperrors.HandleRunError(err, a.ErrWriter, ui.Palette{})
	}

	logger.Info("run finished",
		logging.String("run_id", res.RunID),
		logging.Float64("value", res.Value),
		logging.Float64("abs_error", res.AbsError),
		logging.Duration("elapsed", res.Duration))

	presOpts := orchestration.PresentationOptions{
		Details: a.Config.Details,
		Quiet:   a.Config.Quiet,
	}
	if probe != nil {
		resources := probe.Stop()
		presOpts.Resources = &resources
	}
	cli.CLIResultPresenter{}.PresentResult(res, presOpts, out)

	if err := a.saveResultIfNeeded(res, out); err != nil {
		return apperrors.HandleRunError(err, a.ErrWriter, ui.Palette{})
	}
	if prom != nil {
		if err := prom.WriteTextfile(a.Config.MetricsFile); err != nil {
			return apperrors.HandleRunError(apperrors.WrapError(err, "writing metrics file"), a.ErrWriter, ui.Palette{})
		}
	}
	return apperrors.ExitSuccess
}

// saveResultIfNeeded writes the result file requested with --output.
func (a *Application) saveResultIfNeeded(res orchestration.IntegrationResult, out io.Writer) error {
	if a.Config.OutputFile == "" {
		return nil
	}
	if err := cli.WriteResultToFile(res, a.Config.OutputFile); err != nil {
		return apperrors.WrapError(err, "saving result")
	}
	if !a.Config.Quiet {
		fmt.Fprintf(out, "\n%s✓ Result saved to: %s%s%s\n",
			ui.ColorGreen(), ui.ColorPrimary(), a.Config.OutputFile, ui.ColorReset())
	}
	return nil
}
