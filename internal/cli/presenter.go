package cli

import (
	"fmt"
	"io"
	"sync"

	"github.com/agbru/midcalc/internal/format"
	"github.com/agbru/midcalc/internal/orchestration"
	"github.com/agbru/midcalc/internal/ui"
)

// CLIProgressReporter implements orchestration.ProgressReporter with a
// spinner and progress bar.
type CLIProgressReporter struct {
	// Intervals is the sample count of the run being displayed.
	Intervals int
}

var _ orchestration.ProgressReporter = CLIProgressReporter{}

// DisplayProgress displays the spinner until the run completes.
func (r CLIProgressReporter) DisplayProgress(wg *sync.WaitGroup, events <-chan orchestration.WorkerEvent, slots int, out io.Writer) {
	DisplayProgress(wg, events, slots, r.Intervals, out)
}

// CLIResultPresenter implements orchestration.ResultPresenter for the
// terminal.
type CLIResultPresenter struct{}

var _ orchestration.ResultPresenter = CLIResultPresenter{}

// PresentComparisonTable displays one row per run with its mode, value,
// error and duration. Uses manual padding so ANSI colours do not break the
// alignment.
func (CLIResultPresenter) PresentComparisonTable(results []orchestration.IntegrationResult, out io.Writer) {
	fmt.Fprintf(out, "\n--- Comparison Summary ---\n")

	modeWidth, durWidth := len("Mode"), len("Duration")
	for _, res := range results {
		modeWidth = max(modeWidth, len(res.Mode.String()))
		durWidth = max(durWidth, len(format.FormatExecutionDuration(res.Duration)))
	}

	fmt.Fprintf(out, "%sMode%s%s   %sDuration%s%s   %sLeaves%s   %sValue%s\n",
		ui.ColorBold(), ui.ColorReset(), padRight("", modeWidth-len("Mode")),
		ui.ColorBold(), ui.ColorReset(), padRight("", durWidth-len("Duration")),
		ui.ColorBold(), ui.ColorReset(),
		ui.ColorBold(), ui.ColorReset())

	for _, res := range results {
		mode := res.Mode.String()
		duration := format.FormatExecutionDuration(res.Duration)
		fmt.Fprintf(out, "%s%s%s%s   %s%s%s%s   %6d   %s (abs err %s)\n",
			ui.ColorPrimary(), mode, ui.ColorReset(), padRight("", modeWidth-len(mode)),
			ui.ColorYellow(), duration, ui.ColorReset(), padRight("", durWidth-len(duration)),
			res.Leaves, format.FormatValue(res.Value), format.FormatError(res.AbsError))
	}
}

// padRight appends length spaces to s.
func padRight(s string, length int) string {
	if length <= 0 {
		return s
	}
	return s + fmt.Sprintf("%*s", length, "")
}

// PresentResult displays the final integration result.
func (CLIResultPresenter) PresentResult(result orchestration.IntegrationResult, opts orchestration.PresentationOptions, out io.Writer) {
	if opts.Quiet {
		DisplayQuietResult(out, result)
		return
	}
	DisplayResult(result, out)
	if opts.Details {
		DisplayDetails(result, opts.Resources, out)
	}
}
