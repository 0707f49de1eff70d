package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/midcalc/internal/format"
	"github.com/agbru/midcalc/internal/orchestration"
)

// HeaderModel renders the top bar: title, run parameters, elapsed time.
type HeaderModel struct {
	startTime time.Time
	endTime   time.Time
	version   string
	plan      orchestration.Plan
	width     int
}

// NewHeaderModel creates a new header.
func NewHeaderModel(version string, plan orchestration.Plan) HeaderModel {
	return HeaderModel{
		startTime: time.Now(),
		version:   version,
		plan:      plan,
	}
}

// SetDone freezes the elapsed timer at the current time.
func (h *HeaderModel) SetDone() {
	h.endTime = time.Now()
}

// Reset restarts the elapsed timer.
func (h *HeaderModel) Reset() {
	h.startTime = time.Now()
	h.endTime = time.Time{}
}

// SetWidth updates the available width.
func (h *HeaderModel) SetWidth(w int) {
	h.width = w
}

// Elapsed returns the time since the run started, frozen once done.
func (h HeaderModel) Elapsed() time.Duration {
	if !h.endTime.IsZero() {
		return h.endTime.Sub(h.startTime)
	}
	return time.Since(h.startTime)
}

// View renders the header.
func (h HeaderModel) View() string {
	titleText := "midcalc monitor"
	if h.version != "" && h.version != "dev" {
		titleText += " " + h.version
	}
	pipe := dimStyle.Render(" | ")

	params := fmt.Sprintf("%s  %s intervals  %d workers  %s",
		h.plan.Problem.Name,
		format.FormatCount(h.plan.Intervals),
		h.plan.Workers,
		h.plan.Mode)
	elapsed := elapsedStyle.Render("Elapsed: " + format.FormatExecutionDuration(h.Elapsed()))

	row := titleStyle.Render(titleText) + pipe + params + pipe + elapsed
	if gap := h.width - 2 - lipgloss.Width(row); gap > 0 {
		row += strings.Repeat(" ", gap)
	}
	return headerStyle.Render(row)
}
