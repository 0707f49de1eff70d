package orchestration

import (
	"time"

	"github.com/agbru/midcalc/internal/topology"
)

// SlotStatus is the latest known state of one leaf partition. Slots not
// heard from yet report StateCreated.
type SlotStatus struct {
	State    WorkerState
	Kind     topology.Kind
	TopLevel int
	Samples  int
	Partial  float64
}

// WorkerBoard folds worker events into per-slot status and overall
// progress. Both CLI and TUI use it so the aggregation logic lives in one
// place. It is not safe for concurrent use; feed it from the goroutine that
// drains the event channel.
type WorkerBoard struct {
	slots          []SlotStatus
	finished       int
	samplesDone    int
	totalIntervals int
	lastElapsed    time.Duration
}

// NewWorkerBoard creates a board for the given number of slots. Returns nil
// if slots <= 0.
func NewWorkerBoard(slots, totalIntervals int) *WorkerBoard {
	if slots <= 0 {
		return nil
	}
	return &WorkerBoard{
		slots:          make([]SlotStatus, slots),
		totalIntervals: totalIntervals,
	}
}

// Update applies ev and returns the overall completion fraction.
// Events for unknown slots are ignored.
func (b *WorkerBoard) Update(ev WorkerEvent) float64 {
	if ev.Slot < 0 || ev.Slot >= len(b.slots) {
		return b.Progress()
	}
	s := &b.slots[ev.Slot]
	if s.State == StateFinished {
		return b.Progress()
	}
	s.State = ev.State
	s.Kind = ev.Kind
	s.TopLevel = ev.TopLevel
	if ev.State == StateFinished {
		s.Samples = ev.Range.Len()
		s.Partial = ev.Partial
		b.finished++
		b.samplesDone += s.Samples
	}
	if ev.Elapsed > b.lastElapsed {
		b.lastElapsed = ev.Elapsed
	}
	return b.Progress()
}

// Progress returns the fraction of finished slots, 0.0 to 1.0.
func (b *WorkerBoard) Progress() float64 {
	return float64(b.finished) / float64(len(b.slots))
}

// SampleProgress returns the fraction of sample indices already integrated.
// Zero when the interval count is unknown.
func (b *WorkerBoard) SampleProgress() float64 {
	if b.totalIntervals <= 0 {
		return 0
	}
	return float64(b.samplesDone) / float64(b.totalIntervals)
}

// ETA extrapolates the remaining time from the sample progress observed at
// the latest event. It returns 0 until some samples have been integrated.
func (b *WorkerBoard) ETA() time.Duration {
	done := b.SampleProgress()
	if done <= 0 || done >= 1 {
		return 0
	}
	total := time.Duration(float64(b.lastElapsed) / done)
	return total - b.lastElapsed
}

// Slots returns a copy of the per-slot status.
func (b *WorkerBoard) Slots() []SlotStatus {
	out := make([]SlotStatus, len(b.slots))
	copy(out, b.slots)
	return out
}

// Finished returns the number of slots that have reported StateFinished.
func (b *WorkerBoard) Finished() int {
	return b.finished
}

// Len returns the number of slots tracked.
func (b *WorkerBoard) Len() int {
	return len(b.slots)
}

// CountByState returns how many slots are currently in state.
func (b *WorkerBoard) CountByState(state WorkerState) int {
	n := 0
	for _, s := range b.slots {
		if s.State == state {
			n++
		}
	}
	return n
}

// DrainChannel reads all events from the channel without processing.
func DrainChannel(events <-chan WorkerEvent) {
	for range events {
	}
}
