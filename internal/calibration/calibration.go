// Package calibration measures which topology and worker count integrate
// fastest on the current machine.
package calibration

import (
	"context"
	"errors"
	"io"
	"runtime"
	"time"

	apperrors "github.com/agbru/midcalc/internal/errors"
	"github.com/agbru/midcalc/internal/orchestration"
	"github.com/agbru/midcalc/internal/quadrature"
	"github.com/agbru/midcalc/internal/topology"
)

// DefaultRepetitions is how many times each configuration is timed. The
// fastest repetition is kept.
const DefaultRepetitions = 3

// ErrNoSuccessfulRun is returned when every configuration of a sweep failed.
var ErrNoSuccessfulRun = errors.New("calibration: no configuration completed")

// Result is the timing of one configuration.
type Result struct {
	Mode     topology.Mode
	Workers  int
	Duration time.Duration
	AbsError float64
	Err      error
}

// Settings controls a calibration sweep.
type Settings struct {
	Problem   quadrature.Problem
	Intervals int
	// WorkerCounts overrides the counts derived from runtime.NumCPU.
	WorkerCounts []int
	// MaxWorkers, if positive, caps the sweep and is always measured.
	MaxWorkers int
	// Repetitions per configuration; DefaultRepetitions when zero, or one
	// for a quick sweep.
	Repetitions int
	// Quick sweeps GenerateQuickWorkerCounts instead of the full set.
	Quick bool
	// Options are passed to every integration run.
	Options []orchestration.Option
}

func (s Settings) workerCounts() []int {
	counts := s.WorkerCounts
	switch {
	case len(counts) > 0:
	case s.Quick:
		counts = GenerateQuickWorkerCounts(runtime.NumCPU())
	default:
		counts = GenerateWorkerCounts(runtime.NumCPU())
	}
	if s.MaxWorkers > 0 {
		counts = capWorkerCounts(counts, s.MaxWorkers)
	}
	return clampToIntervals(counts, s.Intervals)
}

func (s Settings) repetitions() int {
	if s.Repetitions <= 0 {
		if s.Quick {
			return 1
		}
		return DefaultRepetitions
	}
	return s.Repetitions
}

// Sweep times every (mode, worker count) pair and returns the results in
// sweep order. Runs are sequential so they do not compete for cores.
func Sweep(ctx context.Context, s Settings) ([]Result, error) {
	if s.Intervals < 1 {
		return nil, apperrors.NewConfigError("number of intervals must be a positive integer, got %d", s.Intervals)
	}

	var results []Result
	for _, mode := range []topology.Mode{topology.Flat, topology.Hierarchical} {
		for _, workers := range s.workerCounts() {
			results = append(results, timeConfiguration(ctx, s, mode, workers))
		}
	}
	return results, nil
}

// timeConfiguration runs one configuration s.repetitions() times.
func timeConfiguration(ctx context.Context, s Settings, mode topology.Mode, workers int) Result {
	plan := orchestration.Plan{Problem: s.Problem, Intervals: s.Intervals, Workers: workers, Mode: mode}
	res := Result{Mode: mode, Workers: workers}
	for i := 0; i < s.repetitions(); i++ {
		out, err := orchestration.ExecuteIntegration(ctx, plan, orchestration.NullProgressReporter{}, io.Discard, s.Options...)
		if err != nil {
			res.Err = err
			return res
		}
		if i == 0 || out.Duration < res.Duration {
			res.Duration = out.Duration
		}
		res.AbsError = out.AbsError
	}
	return res
}

// Best returns the fastest successful result.
func Best(results []Result) (Result, error) {
	var best Result
	found := false
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		if !found || r.Duration < best.Duration {
			best, found = r, true
		}
	}
	if !found {
		return Result{}, ErrNoSuccessfulRun
	}
	return best, nil
}

// RunCalibration sweeps, then prints the table and the fastest
// configuration to out.
func RunCalibration(ctx context.Context, out io.Writer, s Settings) error {
	printCalibrationHeader(out, s)
	results, err := Sweep(ctx, s)
	if err != nil {
		return err
	}
	best, err := Best(results)
	printCalibrationResults(out, results, best, err == nil)
	if err != nil {
		return err
	}
	printCalibrationOutput(out, best, runtime.NumCPU())
	return nil
}
