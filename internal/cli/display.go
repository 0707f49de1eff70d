package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/agbru/midcalc/internal/format"
	"github.com/agbru/midcalc/internal/metrics"
	"github.com/agbru/midcalc/internal/orchestration"
	"github.com/agbru/midcalc/internal/quadrature"
	"github.com/agbru/midcalc/internal/topology"
	"github.com/agbru/midcalc/internal/ui"
)

// DisplayResult prints the computed value next to the reference value with
// the absolute and relative error and the elapsed time.
func DisplayResult(res orchestration.IntegrationResult, out io.Writer) {
	fmt.Fprintf(out, "\n--- Results ---\n")
	fmt.Fprintf(out, "Computed value:  %s%s%s\n", ui.ColorGreen(), format.FormatValue(res.Value), ui.ColorReset())
	fmt.Fprintf(out, "Reference value: %s\n", format.FormatValue(res.Reference))
	fmt.Fprintf(out, "Absolute error:  %s%s%s\n", ui.ColorYellow(), format.FormatError(res.AbsError), ui.ColorReset())
	fmt.Fprintf(out, "Relative error:  %s\n", format.FormatPercent(res.RelErrorPercent))
	fmt.Fprintf(out, "Elapsed time:    %s%s%s\n", ui.ColorPrimary(), format.FormatExecutionDuration(res.Duration), ui.ColorReset())
}

// DisplayDetails prints the per-worker subtotals and, when available, the
// resources used by the run.
func DisplayDetails(res orchestration.IntegrationResult, resources *metrics.RunResources, out io.Writer) {
	fmt.Fprintf(out, "\n--- Details ---\n")
	fmt.Fprintf(out, "Run ID:          %s\n", res.RunID)
	fmt.Fprintf(out, "Function:        %s\n", res.Problem)
	fmt.Fprintf(out, "Topology:        %s, %d top-level workers, %d leaf partitions\n", res.Mode, res.Workers, res.Leaves)
	fmt.Fprintf(out, "Contributions:   %d\n", res.Contributions)
	fmt.Fprintf(out, "Intervals:       %s\n", format.FormatCount(res.Intervals))

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "\n%sWorker\tIntervals\tSubtotal%s\n", ui.ColorMuted(), ui.ColorReset())
	for i, partial := range res.Partials {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", i, format.FormatCount(topLevelIntervals(res, i)), format.FormatValue(partial))
	}
	tw.Flush()

	if resources == nil {
		return
	}
	fmt.Fprintf(out, "\nResources:\n")
	if resources.CPUAvailable {
		fmt.Fprintf(out, "  CPU time:        %s (user %s, system %s, %.2fx wall clock)\n",
			format.FormatExecutionDuration(resources.CPUTime()),
			format.FormatExecutionDuration(resources.CPUUser),
			format.FormatExecutionDuration(resources.CPUSystem),
			resources.Utilisation(res.Duration))
	}
	fmt.Fprintf(out, "  Allocated:       %s in %s objects, %d GC cycles\n",
		format.FormatBytes(resources.Memory.TotalAlloc), format.FormatCount(int(resources.Memory.Mallocs)), resources.Memory.NumGC)
	fmt.Fprintf(out, "  Heap in use:     %s\n", format.FormatBytes(resources.Memory.HeapAlloc))
	fmt.Fprintf(out, "  Host load:       CPU %.1f%%, memory %.1f%%, %d logical cores\n",
		resources.System.CPUPercent, resources.System.MemPercent, resources.System.LogicalCores)
}

// topLevelIntervals returns how many samples top-level worker i covered,
// including the sub-workers it spawned.
func topLevelIntervals(res orchestration.IntegrationResult, i int) int {
	task := quadrature.Task{WorkerIndex: i, GroupSize: res.Workers, TotalIntervals: res.Intervals}
	if res.Mode == topology.Hierarchical {
		n := 0
		base, spawned := task.Subdivide()
		for _, t := range append([]quadrature.Task{base}, spawned[:]...) {
			if r, ok := t.Range(); ok {
				n += r.Len()
			}
		}
		return n
	}
	r, _ := task.Range()
	return r.Len()
}

// FormatQuietResult returns the single-line output of quiet mode.
func FormatQuietResult(res orchestration.IntegrationResult) string {
	return format.FormatValue(res.Value)
}

// DisplayQuietResult outputs a result in quiet mode (value only).
func DisplayQuietResult(out io.Writer, res orchestration.IntegrationResult) {
	fmt.Fprintln(out, FormatQuietResult(res))
}
