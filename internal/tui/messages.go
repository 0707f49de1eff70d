package tui

import (
	"time"

	"github.com/agbru/midcalc/internal/orchestration"
)

// WorkerEventMsg carries one worker state transition into the model.
type WorkerEventMsg struct {
	Event      orchestration.WorkerEvent
	Generation uint64
}

// EventsDoneMsg is sent once the event channel of a run has been closed.
type EventsDoneMsg struct {
	Generation uint64
}

// RunCompleteMsg is sent when ExecuteIntegration returns.
type RunCompleteMsg struct {
	Result     orchestration.IntegrationResult
	Err        error
	Generation uint64
}

// TickMsg drives periodic sampling of host and runtime statistics.
type TickMsg time.Time

// MemStatsMsg carries a runtime memory sample.
type MemStatsMsg struct {
	HeapAlloc  uint64
	NumGC      uint32
	Goroutines int
}

// SysStatsMsg carries a host-wide CPU and memory sample.
type SysStatsMsg struct {
	CPUPercent float64
	MemPercent float64
}
