package orchestration

import (
	"io"
	"sync"
	"time"

	"github.com/agbru/midcalc/internal/metrics"
	"github.com/agbru/midcalc/internal/quadrature"
	"github.com/agbru/midcalc/internal/topology"
)

// WorkerState is a lifecycle stage of a worker.
//
// Leaves go Created -> Running -> Finished. A hierarchical top-level worker
// goes Created -> Spawning -> Running -> Awaiting -> Finished.
type WorkerState int

const (
	StateCreated WorkerState = iota
	StateSpawning
	StateRunning
	StateAwaiting
	StateFinished
)

func (s WorkerState) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateSpawning:
		return "spawning"
	case StateRunning:
		return "running"
	case StateAwaiting:
		return "awaiting"
	case StateFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// WorkerEvent is a state transition published by a worker.
type WorkerEvent struct {
	// Slot is the leaf partition the worker integrates, in
	// [0, Tree.LeafCount()). A branch reports on its own base slot.
	Slot int
	// TopLevel is the index of the top-level worker the slot belongs to.
	TopLevel int
	Kind     topology.Kind
	State    WorkerState
	// Range and Partial are set once the worker has integrated.
	Range   quadrature.Range
	Partial float64
	// Elapsed is the time since the run started.
	Elapsed time.Duration
}

// IntegrationResult is the outcome of a single integration run. It is the
// shared domain type between orchestration and presentation layers.
type IntegrationResult struct {
	RunID     string
	Problem   string
	Mode      topology.Mode
	Workers   int
	Intervals int
	// Leaves is the number of leaf-level partitions (W or 4W).
	Leaves int
	// Contributions is the number of Add calls seen by the accumulator.
	Contributions int

	Value           float64
	Reference       float64
	AbsError        float64
	RelErrorPercent float64
	Duration        time.Duration

	// Partials holds the subtotal of every top-level worker, including the
	// sub-workers it spawned.
	Partials []float64
}

// PresentationOptions configures how results are presented to the user.
type PresentationOptions struct {
	Details bool
	Quiet   bool
	// Resources, if set, is shown with the details.
	Resources *metrics.RunResources
}

// ProgressReporter defines the interface for displaying worker progress.
// Implementations handle the visual representation (spinner, TUI grid)
// while the orchestration layer focuses on running the workers.
type ProgressReporter interface {
	// DisplayProgress consumes events until the channel is closed, then
	// calls wg.Done. slots is the number of leaf partitions of the run.
	DisplayProgress(wg *sync.WaitGroup, events <-chan WorkerEvent, slots int, out io.Writer)
}

// ProgressReporterFunc is a function adapter that implements ProgressReporter.
type ProgressReporterFunc func(wg *sync.WaitGroup, events <-chan WorkerEvent, slots int, out io.Writer)

// DisplayProgress calls the underlying function.
func (f ProgressReporterFunc) DisplayProgress(wg *sync.WaitGroup, events <-chan WorkerEvent, slots int, out io.Writer) {
	f(wg, events, slots, out)
}

// NullProgressReporter drains the event channel without displaying anything.
// Useful for quiet mode or testing.
type NullProgressReporter struct{}

// DisplayProgress drains the channel without output.
func (NullProgressReporter) DisplayProgress(wg *sync.WaitGroup, events <-chan WorkerEvent, _ int, _ io.Writer) {
	defer wg.Done()
	DrainChannel(events)
}

// ResultPresenter defines the interface for presenting integration results.
type ResultPresenter interface {
	// PresentComparisonTable displays flat and hierarchical runs side by side.
	PresentComparisonTable(results []IntegrationResult, out io.Writer)

	// PresentResult displays the final integration result.
	PresentResult(result IntegrationResult, opts PresentationOptions, out io.Writer)
}
