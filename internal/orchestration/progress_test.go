package orchestration

import (
	"testing"
	"time"

	"github.com/agbru/midcalc/internal/quadrature"
	"github.com/agbru/midcalc/internal/topology"
)

func TestNewWorkerBoard_InvalidSlots(t *testing.T) {
	t.Parallel()
	if NewWorkerBoard(0, 100) != nil {
		t.Error("expected nil board for zero slots")
	}
}

func TestWorkerBoard_Update(t *testing.T) {
	t.Parallel()
	b := NewWorkerBoard(4, 100)

	b.Update(WorkerEvent{Slot: 0, State: StateRunning, Kind: topology.Branch})
	if got := b.CountByState(StateRunning); got != 1 {
		t.Errorf("running = %d, want 1", got)
	}

	p := b.Update(WorkerEvent{
		Slot:    1,
		State:   StateFinished,
		Range:   quadrature.Range{Lower: 25, Upper: 50},
		Partial: 0.1,
		Elapsed: 10 * time.Millisecond,
	})
	if p != 0.25 {
		t.Errorf("Progress = %v, want 0.25", p)
	}
	if b.SampleProgress() != 0.25 {
		t.Errorf("SampleProgress = %v, want 0.25", b.SampleProgress())
	}
	if eta := b.ETA(); eta != 30*time.Millisecond {
		t.Errorf("ETA = %v, want 30ms", eta)
	}

	// A repeated finish must not be counted twice.
	b.Update(WorkerEvent{Slot: 1, State: StateFinished, Range: quadrature.Range{Lower: 25, Upper: 50}})
	if b.Finished() != 1 {
		t.Errorf("Finished = %d, want 1", b.Finished())
	}

	// Out of range slots are ignored.
	b.Update(WorkerEvent{Slot: 9, State: StateFinished})
	if b.Finished() != 1 {
		t.Errorf("Finished = %d after foreign slot, want 1", b.Finished())
	}

	slots := b.Slots()
	if slots[0].Kind != topology.Branch || slots[1].Samples != 25 || slots[1].Partial != 0.1 {
		t.Errorf("unexpected slots: %+v", slots)
	}
	if b.Len() != 4 {
		t.Errorf("Len = %d, want 4", b.Len())
	}
}

func TestWorkerBoard_ETABounds(t *testing.T) {
	t.Parallel()
	b := NewWorkerBoard(1, 10)
	if b.ETA() != 0 {
		t.Error("ETA should be zero before any progress")
	}
	b.Update(WorkerEvent{Slot: 0, State: StateFinished, Range: quadrature.Range{Upper: 10}, Elapsed: time.Second})
	if b.ETA() != 0 {
		t.Error("ETA should be zero once complete")
	}
}

func TestWorkerState_String(t *testing.T) {
	t.Parallel()
	tests := map[WorkerState]string{
		StateCreated:    "created",
		StateSpawning:   "spawning",
		StateRunning:    "running",
		StateAwaiting:   "awaiting",
		StateFinished:   "finished",
		WorkerState(42): "unknown",
	}
	for state, want := range tests {
		if got := state.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", int(state), got, want)
		}
	}
}
