package tui

import (
	"io"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agbru/midcalc/internal/orchestration"
)

// programRef is a shared reference to the tea.Program.
// Because bubbletea copies the model on every Update, we need a pointer
// that survives copies so the bridge goroutines can send messages.
type programRef struct {
	mu      sync.RWMutex
	program *tea.Program
}

// SetProgram sets the tea.Program reference (thread-safe).
func (r *programRef) SetProgram(p *tea.Program) {
	r.mu.Lock()
	r.program = p
	r.mu.Unlock()
}

// Send sends a message to the bubbletea program (thread-safe). It is a
// no-op until a program has been set.
func (r *programRef) Send(msg tea.Msg) {
	r.mu.RLock()
	p := r.program
	r.mu.RUnlock()
	if p != nil {
		p.Send(msg)
	}
}

// TUIProgressReporter implements orchestration.ProgressReporter.
// It forwards every worker event to the program as a WorkerEventMsg tagged
// with the generation of the run that produced it.
type TUIProgressReporter struct {
	ref        *programRef
	generation uint64
}

// Verify interface compliance.
var _ orchestration.ProgressReporter = (*TUIProgressReporter)(nil)

// DisplayProgress forwards events until the channel is closed.
func (t *TUIProgressReporter) DisplayProgress(wg *sync.WaitGroup, events <-chan orchestration.WorkerEvent, slots int, _ io.Writer) {
	defer wg.Done()

	if slots <= 0 {
		orchestration.DrainChannel(events)
		return
	}
	for ev := range events {
		t.ref.Send(WorkerEventMsg{Event: ev, Generation: t.generation})
	}
	t.ref.Send(EventsDoneMsg{Generation: t.generation})
}
