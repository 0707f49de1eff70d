//go:generate mockgen -source=ui.go -destination=mocks/mock_ui.go -package=mocks

package cli

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/midcalc/internal/format"
	"github.com/agbru/midcalc/internal/orchestration"
)

const (
	// ProgressRefreshRate defines the refresh frequency of the progress bar.
	ProgressRefreshRate = 200 * time.Millisecond
	// ProgressBarWidth defines the width in characters of the progress bar.
	ProgressBarWidth = 30
)

// Spinner abstracts the terminal spinner so that DisplayProgress can be
// tested without a terminal.
type Spinner interface {
	// Start begins the spinner animation.
	Start()
	// Stop halts the spinner animation.
	Stop()
	// UpdateSuffix sets the text that is displayed after the spinner.
	UpdateSuffix(suffix string)
}

// realSpinner adapts *spinner.Spinner to the Spinner interface.
type realSpinner struct {
	s *spinner.Spinner
}

func (rs *realSpinner) Start() { rs.s.Start() }
func (rs *realSpinner) Stop()  { rs.s.Stop() }

func (rs *realSpinner) UpdateSuffix(suffix string) {
	rs.s.Lock()
	rs.s.Suffix = suffix
	rs.s.Unlock()
}

var newSpinner = func(options ...spinner.Option) Spinner {
	s := spinner.New(spinner.CharSets[11], ProgressRefreshRate, options...)
	return &realSpinner{s}
}

// DisplayProgress shows a spinner with a progress bar while the workers of
// a run report in. It returns once events is closed.
//
// Parameters:
//   - wg: Signalled when the display has stopped.
//   - events: Worker events of the run.
//   - slots: The number of leaf partitions.
//   - intervals: The sample count, used to weigh progress by range size.
//   - out: Where the spinner is drawn.
func DisplayProgress(wg *sync.WaitGroup, events <-chan orchestration.WorkerEvent, slots, intervals int, out io.Writer) {
	defer wg.Done()
	board := orchestration.NewWorkerBoard(slots, intervals)
	if board == nil {
		orchestration.DrainChannel(events)
		return
	}

	s := newSpinner(spinner.WithWriter(out), spinner.WithHiddenCursor(true))
	s.UpdateSuffix(FormatProgressSuffix(board))
	s.Start()
	defer s.Stop()

	ticker := time.NewTicker(ProgressRefreshRate)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				s.UpdateSuffix(FormatProgressSuffix(board))
				return
			}
			board.Update(ev)
		case <-ticker.C:
			s.UpdateSuffix(FormatProgressSuffix(board))
		}
	}
}

// FormatProgressSuffix renders the text shown next to the spinner.
func FormatProgressSuffix(board *orchestration.WorkerBoard) string {
	progress := board.SampleProgress()
	if progress == 0 {
		progress = board.Progress()
	}
	return fmt.Sprintf(" %s %5.1f%%  %d/%d workers finished  ETA %s",
		progressBar(progress, ProgressBarWidth), progress*100,
		board.Finished(), board.Len(), format.FormatETA(board.ETA()))
}

// progressBar renders a textual bar of the given width for a 0..1 fraction.
func progressBar(progress float64, length int) string {
	progress = min(max(progress, 0), 1)
	count := int(progress * float64(length))
	var builder strings.Builder
	builder.Grow(length * 3)
	for i := 0; i < length; i++ {
		if i < count {
			builder.WriteRune('█')
		} else {
			builder.WriteRune('░')
		}
	}
	return builder.String()
}
