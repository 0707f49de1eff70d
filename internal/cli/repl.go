package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/agbru/midcalc/internal/format"
	"github.com/agbru/midcalc/internal/orchestration"
	"github.com/agbru/midcalc/internal/quadrature"
	"github.com/agbru/midcalc/internal/topology"
	"github.com/agbru/midcalc/internal/ui"
)

// REPLConfig holds configuration for the REPL session.
type REPLConfig struct {
	// DefaultFunction is the integrand selected at startup.
	DefaultFunction string
	// Details shows per-worker subtotals after each run.
	Details bool
	// Options are passed to every integration (logger, recorder).
	Options []orchestration.Option
}

// REPL is an interactive session that runs integrations on demand.
type REPL struct {
	config   REPLConfig
	registry *quadrature.Registry
	problem  quadrature.Problem
	reporter orchestration.ProgressReporter
	in       io.Reader
	out      io.Writer
}

// NewREPL creates a new REPL instance. An unknown default function falls
// back to the default problem.
func NewREPL(registry *quadrature.Registry, config REPLConfig) *REPL {
	problem, err := registry.Get(config.DefaultFunction)
	if err != nil {
		problem = quadrature.DefaultProblem()
	}
	return &REPL{
		config:   config,
		registry: registry,
		problem:  problem,
		in:       os.Stdin,
		out:      os.Stdout,
	}
}

// SetInput sets a custom input reader (useful for testing).
func (r *REPL) SetInput(in io.Reader) {
	r.in = in
}

// SetOutput sets a custom output writer (useful for testing).
func (r *REPL) SetOutput(out io.Writer) {
	r.out = out
}

// SetProgressReporter overrides the spinner shown during runs.
func (r *REPL) SetProgressReporter(reporter orchestration.ProgressReporter) {
	r.reporter = reporter
}

// Start reads commands until "exit" or end of input.
func (r *REPL) Start(ctx context.Context) {
	r.printBanner()
	r.printHelp()
	fmt.Fprintln(r.out)

	reader := bufio.NewReader(r.in)
	for {
		fmt.Fprint(r.out, ui.ColorGreen()+"midcalc> "+ui.ColorReset())

		input, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			fmt.Fprintf(r.out, "%sRead error: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
			return
		}
		if line := strings.TrimSpace(input); line != "" {
			if !r.processCommand(ctx, line) {
				return
			}
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(r.out, "\nGoodbye!")
			return
		}
	}
}

func (r *REPL) printBanner() {
	fmt.Fprintf(r.out, "\n%s╔════════════════════════════════════════════════╗%s\n", ui.ColorPrimary(), ui.ColorReset())
	fmt.Fprintf(r.out, "%s║%s   %sMidpoint Integrator - Interactive Mode%s       %s║%s\n",
		ui.ColorPrimary(), ui.ColorReset(), ui.ColorBold(), ui.ColorReset(), ui.ColorPrimary(), ui.ColorReset())
	fmt.Fprintf(r.out, "%s╚════════════════════════════════════════════════╝%s\n\n", ui.ColorPrimary(), ui.ColorReset())
}

func (r *REPL) printHelp() {
	fmt.Fprintf(r.out, "%sAvailable commands:%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %srun <n> <w> <mode>%s  - Integrate with n intervals, w workers, mode 0/flat or 1/hierarchical\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %scompare <n> <w>%s     - Run both modes and check they agree\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sfn <name>%s           - Change function (%s)\n", ui.ColorYellow(), ui.ColorReset(), strings.Join(r.registry.List(), ", "))
	fmt.Fprintf(r.out, "  %slist%s                - List available functions\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sdetails%s             - Toggle per-worker details\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sstatus%s              - Display current configuration\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %shelp%s                - Display this help\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sexit%s / %squit%s         - Exit interactive mode\n", ui.ColorYellow(), ui.ColorReset(), ui.ColorYellow(), ui.ColorReset())
}

// processCommand executes one command line. Returns false if the REPL
// should exit.
func (r *REPL) processCommand(ctx context.Context, input string) bool {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return true
	}
	cmd, args := strings.ToLower(parts[0]), parts[1:]

	switch cmd {
	case "run", "r":
		r.cmdRun(ctx, args)
	case "compare", "cmp":
		r.cmdCompare(ctx, args)
	case "fn", "f", "function":
		r.cmdFunction(args)
	case "list", "ls":
		r.cmdList()
	case "details", "d":
		r.config.Details = !r.config.Details
		fmt.Fprintf(r.out, "Details: %s%v%s\n", ui.ColorGreen(), r.config.Details, ui.ColorReset())
	case "status", "st":
		r.cmdStatus()
	case "help", "h", "?":
		r.printHelp()
	case "exit", "quit", "q":
		fmt.Fprintf(r.out, "%sGoodbye!%s\n", ui.ColorGreen(), ui.ColorReset())
		return false
	default:
		fmt.Fprintf(r.out, "%sUnknown command: %s%s\n", ui.ColorRed(), cmd, ui.ColorReset())
		fmt.Fprintf(r.out, "Type %shelp%s to see available commands.\n", ui.ColorYellow(), ui.ColorReset())
	}
	return true
}

func (r *REPL) cmdRun(ctx context.Context, args []string) {
	if len(args) != 3 {
		fmt.Fprintf(r.out, "%sUsage: run <intervals> <workers> <mode>%s\n", ui.ColorRed(), ui.ColorReset())
		return
	}
	plan, ok := r.parsePlan(args[0], args[1])
	if !ok {
		return
	}
	mode, err := topology.ParseMode(args[2])
	if err != nil {
		fmt.Fprintf(r.out, "%sError: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
		return
	}
	plan.Mode = mode

	reporter := r.reporter
	if reporter == nil {
		reporter = CLIProgressReporter{Intervals: plan.Intervals}
	}
	res, err := orchestration.ExecuteIntegration(ctx, plan, reporter, r.out, r.config.Options...)
	if err != nil {
		fmt.Fprintf(r.out, "%sError: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
		return
	}
	CLIResultPresenter{}.PresentResult(res, orchestration.PresentationOptions{Details: r.config.Details}, r.out)
	fmt.Fprintln(r.out)
}

func (r *REPL) cmdCompare(ctx context.Context, args []string) {
	if len(args) != 2 {
		fmt.Fprintf(r.out, "%sUsage: compare <intervals> <workers>%s\n", ui.ColorRed(), ui.ColorReset())
		return
	}
	plan, ok := r.parsePlan(args[0], args[1])
	if !ok {
		return
	}
	results, err := orchestration.ExecuteComparison(ctx, plan, orchestration.NullProgressReporter{}, r.out, r.config.Options...)
	if err != nil {
		fmt.Fprintf(r.out, "%sError: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
		return
	}
	orchestration.AnalyzeComparisonResults(results, CLIResultPresenter{}, r.out)
	fmt.Fprintln(r.out)
}

// parsePlan decodes the interval and worker counts of a command. Range
// checks are left to the orchestrator so the REPL reports the same errors
// as the command line.
func (r *REPL) parsePlan(intervals, workers string) (orchestration.Plan, bool) {
	n, err := strconv.Atoi(intervals)
	if err != nil {
		fmt.Fprintf(r.out, "%sInvalid interval count: %s%s\n", ui.ColorRed(), intervals, ui.ColorReset())
		return orchestration.Plan{}, false
	}
	w, err := strconv.Atoi(workers)
	if err != nil {
		fmt.Fprintf(r.out, "%sInvalid worker count: %s%s\n", ui.ColorRed(), workers, ui.ColorReset())
		return orchestration.Plan{}, false
	}
	return orchestration.Plan{Problem: r.problem, Intervals: n, Workers: w}, true
}

func (r *REPL) cmdFunction(args []string) {
	if len(args) == 0 {
		fmt.Fprintf(r.out, "%sUsage: fn <name>%s\n", ui.ColorRed(), ui.ColorReset())
		return
	}
	p, err := r.registry.Get(strings.ToLower(args[0]))
	if err != nil {
		fmt.Fprintf(r.out, "%s%v%s\n", ui.ColorRed(), err, ui.ColorReset())
		fmt.Fprintf(r.out, "Available functions: %s\n", strings.Join(r.registry.List(), ", "))
		return
	}
	r.problem = p
	fmt.Fprintf(r.out, "Function changed to: %s%s%s\n", ui.ColorGreen(), p.Description, ui.ColorReset())
}

func (r *REPL) cmdList() {
	fmt.Fprintf(r.out, "\n%sAvailable functions:%s\n", ui.ColorBold(), ui.ColorReset())
	for _, name := range r.registry.List() {
		p, _ := r.registry.Get(name)
		marker := "  "
		if name == r.problem.Name {
			marker = ui.ColorGreen() + "> " + ui.ColorReset()
		}
		fmt.Fprintf(r.out, "%s%s%-8s%s %s (reference %s)\n", marker, ui.ColorYellow(), name, ui.ColorReset(),
			p.Description, format.FormatValue(p.Reference))
	}
	fmt.Fprintln(r.out)
}

func (r *REPL) cmdStatus() {
	fmt.Fprintf(r.out, "\n%sCurrent configuration:%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(r.out, "  Function:  %s%s%s (%s)\n", ui.ColorPrimary(), r.problem.Name, ui.ColorReset(), r.problem.Description)
	fmt.Fprintf(r.out, "  Details:   %s%v%s\n", ui.ColorPrimary(), r.config.Details, ui.ColorReset())
	fmt.Fprintln(r.out)
}
