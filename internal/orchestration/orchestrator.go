package orchestration

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	apperrors "github.com/agbru/midcalc/internal/errors"
	"github.com/agbru/midcalc/internal/logging"
	"github.com/agbru/midcalc/internal/metrics"
	"github.com/agbru/midcalc/internal/quadrature"
	"github.com/agbru/midcalc/internal/topology"
)

// ProgressBufferMultiplier defines the event channel capacity per leaf
// partition. Every worker publishes at most five events.
const ProgressBufferMultiplier = 5

// ConsistencyTolerance is the largest difference accepted between the flat
// and hierarchical result of the same problem.
const ConsistencyTolerance = 1e-9

const tracerName = "github.com/agbru/midcalc/internal/orchestration"

// Plan describes one integration run.
type Plan struct {
	Problem   quadrature.Problem
	Intervals int
	Workers   int
	Mode      topology.Mode
}

// Validate rejects plans that must not spawn any worker.
func (p Plan) Validate() error {
	if p.Intervals < 1 {
		return apperrors.NewConfigError("number of intervals must be a positive integer, got %d", p.Intervals)
	}
	if p.Workers < 1 {
		return apperrors.NewConfigError("number of workers must be a positive integer, got %d", p.Workers)
	}
	if p.Problem.F == nil {
		return apperrors.NewConfigError("no integrand selected")
	}
	return nil
}

// Option customises ExecuteIntegration.
type Option func(*options)

type options struct {
	logger   logging.Logger
	recorder metrics.Recorder
	tracer   trace.Tracer
}

// WithLogger sets the logger used for worker lifecycle messages.
func WithLogger(l logging.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(o *options) { o.recorder = r }
}

// WithTracer overrides the tracer taken from the global otel provider.
func WithTracer(t trace.Tracer) Option {
	return func(o *options) { o.tracer = t }
}

// ExecuteIntegration integrates plan.Problem over plan.Intervals samples
// with plan.Workers top-level workers arranged according to plan.Mode.
//
// An invalid plan yields a ConfigError before any goroutine is started, and
// a worker count too large to lay out yields a ResourceExhaustionError. A
// worker that panics is reported as a ResourceExhaustionError once every
// other worker has been joined; no partial total is returned in that case.
// Running workers are never cancelled.
func ExecuteIntegration(ctx context.Context, plan Plan, reporter ProgressReporter, out io.Writer, opts ...Option) (IntegrationResult, error) {
	if err := plan.Validate(); err != nil {
		return IntegrationResult{}, err
	}

	o := options{
		logger:   logging.NewNopLogger(),
		recorder: metrics.NopRecorder{},
		tracer:   otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if reporter == nil {
		reporter = NullProgressReporter{}
	}

	tree, err := topology.Build(plan.Intervals, plan.Workers, plan.Mode)
	if errors.Is(err, topology.ErrTooManyTasks) {
		return IntegrationResult{}, apperrors.ResourceExhaustionError{Worker: plan.Mode.String() + " topology", Cause: err}
	}
	if err != nil {
		return IntegrationResult{}, apperrors.WrapError(err, "building %s topology", plan.Mode)
	}

	runID := uuid.NewString()
	ctx, span := o.tracer.Start(ctx, "orchestration.ExecuteIntegration",
		trace.WithAttributes(
			attribute.String("run_id", runID),
			attribute.String("problem", plan.Problem.Name),
			attribute.String("mode", plan.Mode.String()),
			attribute.Int("intervals", plan.Intervals),
			attribute.Int("workers", plan.Workers),
			attribute.Int("leaves", tree.LeafCount()),
		),
	)
	defer span.End()

	o.logger.Debug("integration started",
		logging.String("run_id", runID),
		logging.String("problem", plan.Problem.Name),
		logging.String("mode", plan.Mode.String()),
		logging.Int("intervals", plan.Intervals),
		logging.Int("workers", plan.Workers),
	)

	events := make(chan WorkerEvent, tree.LeafCount()*ProgressBufferMultiplier)
	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go reporter.DisplayProgress(&displayWg, events, tree.LeafCount(), out)

	r := &run{
		plan:     plan,
		tree:     tree,
		acc:      quadrature.NewAccumulator(),
		events:   events,
		partials: make([]float64, len(tree.Roots)),
		opts:     o,
		start:    time.Now(),
	}

	var g errgroup.Group
	for i, root := range tree.Roots {
		i, root := i, root
		g.Go(func() error {
			partial, err := r.runTopLevel(ctx, i, root)
			r.partials[i] = partial
			return err
		})
	}
	err = g.Wait()
	elapsed := time.Since(r.start)

	close(events)
	displayWg.Wait()

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "worker aborted")
		o.logger.Error("integration aborted", err, logging.String("run_id", runID))
		return IntegrationResult{}, err
	}

	value := r.acc.Total()
	absErr, relErr := quadrature.ErrorAgainst(value, plan.Problem.Reference)
	result := IntegrationResult{
		RunID:           runID,
		Problem:         plan.Problem.Name,
		Mode:            plan.Mode,
		Workers:         plan.Workers,
		Intervals:       plan.Intervals,
		Leaves:          tree.LeafCount(),
		Contributions:   r.acc.Contributions(),
		Value:           value,
		Reference:       plan.Problem.Reference,
		AbsError:        absErr,
		RelErrorPercent: relErr,
		Duration:        elapsed,
		Partials:        r.partials,
	}

	span.SetAttributes(
		attribute.Float64("value", value),
		attribute.Float64("abs_error", absErr),
		attribute.Int("contributions", result.Contributions),
	)
	span.SetStatus(codes.Ok, "integration complete")
	o.recorder.ObserveRun(metrics.RunSample{
		Problem:  result.Problem,
		Mode:     result.Mode.String(),
		Workers:  result.Workers,
		Leaves:   result.Leaves,
		Value:    result.Value,
		AbsError: result.AbsError,
		Elapsed:  elapsed,
	})
	o.logger.Debug("integration finished",
		logging.String("run_id", runID),
		logging.Float64("value", value),
		logging.Int("contributions", result.Contributions),
		logging.Duration("elapsed", elapsed),
	)
	return result, nil
}

// ExecuteComparison runs plan once per mode, flat first, and returns both
// results. It stops at the first failing run.
func ExecuteComparison(ctx context.Context, plan Plan, reporter ProgressReporter, out io.Writer, opts ...Option) ([]IntegrationResult, error) {
	results := make([]IntegrationResult, 0, 2)
	for _, mode := range []topology.Mode{topology.Flat, topology.Hierarchical} {
		p := plan
		p.Mode = mode
		res, err := ExecuteIntegration(ctx, p, reporter, out, opts...)
		if err != nil {
			return nil, apperrors.WrapError(err, "%s run", mode)
		}
		results = append(results, res)
	}
	return results, nil
}

// AnalyzeComparisonResults sorts results by duration, presents them and
// checks that every run agrees within ConsistencyTolerance.
//
// Returns:
//   - int: ExitSuccess, or ExitErrorMismatch when the runs disagree.
func AnalyzeComparisonResults(results []IntegrationResult, presenter ResultPresenter, out io.Writer) int {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Duration < results[j].Duration
	})
	presenter.PresentComparisonTable(results, out)
	if len(results) == 0 {
		return apperrors.ExitSuccess
	}

	for _, res := range results[1:] {
		if math.Abs(res.Value-results[0].Value) > ConsistencyTolerance {
			fmt.Fprintf(out, "\nGlobal Status: CRITICAL ERROR! %s and %s results differ by %.3e.\n",
				results[0].Mode, res.Mode, math.Abs(res.Value-results[0].Value))
			return apperrors.ExitErrorMismatch
		}
	}
	fmt.Fprintf(out, "\nGlobal Status: Success. Both topologies agree.\n")
	return apperrors.ExitSuccess
}

// run carries the state shared by the workers of one integration.
type run struct {
	plan     Plan
	tree     *topology.Tree
	acc      *quadrature.Accumulator
	events   chan<- WorkerEvent
	partials []float64
	opts     options
	start    time.Time
}

func (r *run) emit(ev WorkerEvent) {
	ev.Elapsed = time.Since(r.start)
	r.events <- ev
}

func (r *run) runTopLevel(ctx context.Context, i int, root topology.Node) (float64, error) {
	if root.Kind == topology.Branch {
		return r.runBranch(ctx, i, root)
	}
	return r.runLeaf(ctx, i, r.tree.Task(root))
}

// runLeaf integrates a single task and adds its partial sum.
func (r *run) runLeaf(ctx context.Context, top int, task quadrature.Task) (float64, error) {
	began := time.Now()
	ev := WorkerEvent{Slot: task.WorkerIndex, TopLevel: top, Kind: topology.Leaf}
	_, span := r.opts.tracer.Start(ctx, "orchestration.leaf",
		trace.WithAttributes(
			attribute.Int("worker_index", task.WorkerIndex),
			attribute.Int("group_size", task.GroupSize),
		),
	)
	defer span.End()

	ev.State = StateCreated
	r.emit(ev)
	ev.State = StateRunning
	r.emit(ev)

	partial, rng, err := r.integrate(task)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "leaf aborted")
		return 0, err
	}

	ev.State, ev.Range, ev.Partial = StateFinished, rng, partial
	r.emit(ev)
	r.opts.recorder.ObserveWorker(r.plan.Mode.String(), topology.Leaf.String(), time.Since(began))
	r.opts.logger.Debug("leaf finished",
		logging.Int("worker", task.WorkerIndex),
		logging.String("range", rng.String()),
		logging.Float64("partial", partial),
	)
	return partial, nil
}

// runBranch spawns the sub-workers of a hierarchical top-level worker,
// integrates its own base slot and joins the sub-workers. Sub-workers are
// always joined, even when the base slot fails.
func (r *run) runBranch(ctx context.Context, top int, root topology.Node) (float64, error) {
	began := time.Now()
	base, _ := r.tree.Task(root).Subdivide()
	ev := WorkerEvent{Slot: base.WorkerIndex, TopLevel: top, Kind: topology.Branch}
	ctx, span := r.opts.tracer.Start(ctx, "orchestration.branch",
		trace.WithAttributes(
			attribute.Int("top_level", top),
			attribute.Int("effective_index", base.WorkerIndex),
			attribute.Int("group_size", base.GroupSize),
		),
	)
	defer span.End()

	ev.State = StateCreated
	r.emit(ev)
	ev.State = StateSpawning
	r.emit(ev)

	var children errgroup.Group
	var childPartials [quadrature.SpawnCount]float64
	for j, child := range root.Children {
		j, child := j, child
		children.Go(func() error {
			partial, err := r.runLeaf(ctx, top, r.tree.Task(child))
			childPartials[j] = partial
			return err
		})
	}
	span.AddEvent("spawned", trace.WithAttributes(attribute.Int("children", len(root.Children))))

	ev.State = StateRunning
	r.emit(ev)
	own, rng, ownErr := r.integrate(base)

	ev.State = StateAwaiting
	r.emit(ev)
	childErr := children.Wait()

	if err := firstError(ownErr, childErr); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "branch aborted")
		return 0, err
	}

	subtotal := own
	for _, p := range childPartials {
		subtotal += p
	}
	ev.State, ev.Range, ev.Partial = StateFinished, rng, own
	r.emit(ev)
	r.opts.recorder.ObserveWorker(r.plan.Mode.String(), topology.Branch.String(), time.Since(began))
	r.opts.logger.Debug("branch joined",
		logging.Int("top_level", top),
		logging.Float64("subtotal", subtotal),
	)
	return subtotal, nil
}

// integrate sums the task's range and adds the result to the accumulator.
// Workers with an empty clamped range still add zero once. A panic while
// sampling is converted into a ResourceExhaustionError.
func (r *run) integrate(task quadrature.Task) (partial float64, rng quadrature.Range, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = apperrors.ResourceExhaustionError{Worker: task.String(), Cause: fmt.Errorf("%v", rec)}
		}
	}()
	partial, rng = quadrature.IntegrateTask(r.plan.Problem, task)
	r.acc.Add(partial)
	return partial, rng, nil
}

func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
