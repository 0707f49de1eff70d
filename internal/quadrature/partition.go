package quadrature

import "fmt"

const (
	// FanOut is the number of leaf slots a hierarchical top-level worker
	// covers: its own base slot plus the sub-workers it spawns.
	FanOut = 4
	// SpawnCount is the number of sub-workers a top-level worker spawns.
	SpawnCount = FanOut - 1
)

// Range is a half-open interval [Lower, Upper) of sample indices.
type Range struct {
	Lower int
	Upper int
}

// Len returns the number of sample indices in the range.
func (r Range) Len() int { return r.Upper - r.Lower }

// Empty reports whether the range holds no index.
func (r Range) Empty() bool { return r.Upper <= r.Lower }

func (r Range) String() string { return fmt.Sprintf("[%d, %d)", r.Lower, r.Upper) }

// Partition returns the index range worker workerIndex must sum when
// totalIntervals samples are split across groupSize workers.
//
// Every worker receives totalIntervals/groupSize indices; the last worker
// also absorbs the remainder. The caller guarantees 0 <= workerIndex <
// groupSize and groupSize >= 1.
func Partition(workerIndex, groupSize, totalIntervals int) Range {
	perWorker := totalIntervals / groupSize
	r := Range{
		Lower: workerIndex * perWorker,
		Upper: (workerIndex + 1) * perWorker,
	}
	if workerIndex == groupSize-1 && totalIntervals%groupSize != 0 {
		r.Upper = totalIntervals
	}
	return r
}

// Task describes the work assigned to a single worker. It is created once at
// spawn time and handed to the worker by value.
type Task struct {
	// WorkerIndex is the 0-based position within the worker's group.
	WorkerIndex int
	// GroupSize is the number of workers in that group.
	GroupSize int
	// TotalIntervals is the sample count of the whole computation.
	TotalIntervals int
	// TopLevel is true only for workers created directly by the
	// orchestrator in hierarchical mode.
	TopLevel bool
}

func (t Task) String() string {
	return fmt.Sprintf("worker %d/%d of %d intervals", t.WorkerIndex, t.GroupSize, t.TotalIntervals)
}

// Range returns the indices this task integrates. When there are fewer
// intervals than workers the group is clamped to the interval count and
// workers past the end get an empty range; ok is false for those.
func (t Task) Range() (r Range, ok bool) {
	group := t.GroupSize
	if t.TotalIntervals < group {
		if t.WorkerIndex >= t.TotalIntervals {
			return Range{}, false
		}
		group = t.TotalIntervals
	}
	return Partition(t.WorkerIndex, group, t.TotalIntervals), true
}

// Subdivide remaps a top-level task into the four-times finer group used in
// hierarchical mode. base keeps the slot WorkerIndex*FanOut and is
// integrated by the top-level worker itself; spawned holds the descriptors
// of the sub-workers it launches.
func (t Task) Subdivide() (base Task, spawned [SpawnCount]Task) {
	effective := t.WorkerIndex * FanOut
	group := t.GroupSize * FanOut
	base = Task{WorkerIndex: effective, GroupSize: group, TotalIntervals: t.TotalIntervals}
	for j := range spawned {
		spawned[j] = Task{
			WorkerIndex:    effective + j + 1,
			GroupSize:      group,
			TotalIntervals: t.TotalIntervals,
		}
	}
	return base, spawned
}
