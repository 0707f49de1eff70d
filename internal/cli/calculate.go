package cli

import (
	"fmt"
	"io"
	"runtime"

	"github.com/agbru/midcalc/internal/config"
	"github.com/agbru/midcalc/internal/format"
	"github.com/agbru/midcalc/internal/quadrature"
	"github.com/agbru/midcalc/internal/topology"
	"github.com/agbru/midcalc/internal/ui"
)

// PrintExecutionConfig displays the problem, the sample count and the
// runtime environment before a run.
func PrintExecutionConfig(cfg config.AppConfig, problem quadrature.Problem, out io.Writer) {
	fmt.Fprintf(out, "--- Execution Configuration ---\n")
	fmt.Fprintf(out, "Integrating %s%s%s with %s%s%s midpoint samples.\n",
		ui.ColorPrimary(), problem.Description, ui.ColorReset(),
		ui.ColorYellow(), format.FormatCount(cfg.Intervals), ui.ColorReset())
	fmt.Fprintf(out, "Environment: %s%d%s logical processors, GOMAXPROCS=%d, Go %s.\n",
		ui.ColorPrimary(), runtime.NumCPU(), ui.ColorReset(), runtime.GOMAXPROCS(0), runtime.Version())
}

// PrintExecutionMode displays the topology that is about to run.
func PrintExecutionMode(mode topology.Mode, workers int, out io.Writer) {
	var desc string
	if mode == topology.Hierarchical {
		desc = fmt.Sprintf("hierarchical, %d top-level workers each spawning %d sub-workers (%d leaf partitions)",
			workers, quadrature.SpawnCount, workers*quadrature.FanOut)
	} else {
		desc = fmt.Sprintf("flat, %d workers", workers)
	}
	fmt.Fprintf(out, "Execution mode: %s%s%s.\n", ui.ColorGreen(), desc, ui.ColorReset())
	fmt.Fprintf(out, "\n--- Starting Execution ---\n")
}
