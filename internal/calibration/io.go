package calibration

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/agbru/midcalc/internal/format"
	"github.com/agbru/midcalc/internal/quadrature"
	"github.com/agbru/midcalc/internal/topology"
	"github.com/agbru/midcalc/internal/ui"
)

// printCalibrationHeader announces the sweep.
func printCalibrationHeader(out io.Writer, s Settings) {
	fmt.Fprintf(out, "--- Calibration ---\n")
	fmt.Fprintf(out, "Function %s%s%s, %s%s%s intervals, worker counts %v, best of %d runs each\n",
		ui.ColorPrimary(), s.Problem.Name, ui.ColorReset(),
		ui.ColorPrimary(), format.FormatCount(s.Intervals), ui.ColorReset(),
		s.workerCounts(), s.repetitions())
}

// printCalibrationResults formats and prints the calibration results table.
func printCalibrationResults(out io.Writer, results []Result, best Result, haveBest bool) {
	fmt.Fprintf(out, "\n--- Calibration Summary ---\n")
	tw := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintf(tw, "  Mode\tWorkers\tLeaves\tDuration\tAbs error\t\n")
	fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\t%s\t\n",
		strings.Repeat("─", 12), strings.Repeat("─", 7), strings.Repeat("─", 6),
		strings.Repeat("─", 10), strings.Repeat("─", 12))
	for _, res := range results {
		leaves := res.Workers
		if res.Mode == topology.Hierarchical {
			leaves *= quadrature.FanOut
		}
		durationStr := fmt.Sprintf("%sN/A%s", ui.ColorRed(), ui.ColorReset())
		errStr := "-"
		if res.Err == nil {
			durationStr = format.FormatExecutionDuration(res.Duration)
			errStr = format.FormatError(res.AbsError)
		}
		highlight := ""
		if haveBest && res.Err == nil && res.Mode == best.Mode && res.Workers == best.Workers {
			highlight = fmt.Sprintf("%s(fastest)%s", ui.ColorGreen(), ui.ColorReset())
		}
		fmt.Fprintf(tw, "  %s\t%d\t%d\t%s\t%s\t%s\n", res.Mode, res.Workers, leaves, durationStr, errStr, highlight)
	}
	tw.Flush()
}

// printCalibrationOutput prints the recommended configuration.
func printCalibrationOutput(out io.Writer, best Result, numCPU int) {
	fmt.Fprintf(out, "\n%sFastest configuration%s: mode=%s%s%s workers=%s%d%s (%s)\n",
		ui.ColorGreen(), ui.ColorReset(),
		ui.ColorYellow(), best.Mode, ui.ColorReset(),
		ui.ColorYellow(), best.Workers, ui.ColorReset(),
		format.FormatExecutionDuration(best.Duration))
	fmt.Fprintf(out, "Estimate without measuring for %d logical CPUs: flat=%d hierarchical=%d\n",
		numCPU,
		EstimateOptimalWorkers(numCPU, topology.Flat),
		EstimateOptimalWorkers(numCPU, topology.Hierarchical))
}
