package tui

import (
	"fmt"
	"strings"

	"github.com/agbru/midcalc/internal/format"
	"github.com/agbru/midcalc/internal/orchestration"
)

// stateGlyphs maps a worker state to the cell drawn for its slot.
var stateGlyphs = map[orchestration.WorkerState]string{
	orchestration.StateCreated:  "·",
	orchestration.StateSpawning: "◆",
	orchestration.StateRunning:  "▶",
	orchestration.StateAwaiting: "◇",
	orchestration.StateFinished: "█",
}

// gridStates is the legend order.
var gridStates = []orchestration.WorkerState{
	orchestration.StateCreated,
	orchestration.StateSpawning,
	orchestration.StateRunning,
	orchestration.StateAwaiting,
	orchestration.StateFinished,
}

// GridModel draws one cell per leaf partition, wrapped to the panel width.
type GridModel struct {
	board     *orchestration.WorkerBoard
	slots     int
	intervals int
	width     int
}

// NewGridModel creates a grid for a run with the given leaf count.
func NewGridModel(slots, intervals int) GridModel {
	return GridModel{
		board:     orchestration.NewWorkerBoard(slots, intervals),
		slots:     slots,
		intervals: intervals,
	}
}

// Reset clears every slot back to StateCreated.
func (g *GridModel) Reset() {
	g.board = orchestration.NewWorkerBoard(g.slots, g.intervals)
}

// SetWidth updates the available width.
func (g *GridModel) SetWidth(w int) {
	g.width = w
}

// Apply folds ev into the board.
func (g *GridModel) Apply(ev orchestration.WorkerEvent) {
	if g.board != nil {
		g.board.Update(ev)
	}
}

// Board exposes the underlying worker board.
func (g GridModel) Board() *orchestration.WorkerBoard {
	return g.board
}

// cellsPerRow returns how many cells fit on a line of the panel.
func (g GridModel) cellsPerRow() int {
	// Border and padding take four columns.
	n := g.width - 4
	if n < 8 {
		n = 8
	}
	return n
}

// View renders the grid panel.
func (g GridModel) View() string {
	var b strings.Builder
	if g.board == nil {
		b.WriteString(dimStyle.Render("no workers"))
		return panelStyle.Render(b.String())
	}

	fmt.Fprintf(&b, "%s  %s/%s finished  %5.1f%% of samples  ETA %s\n\n",
		titleStyle.Render("WORKERS"),
		format.FormatCount(g.board.Finished()),
		format.FormatCount(g.board.Len()),
		g.board.SampleProgress()*100,
		format.FormatETA(g.board.ETA()))

	perRow := g.cellsPerRow()
	for i, s := range g.board.Slots() {
		if i > 0 && i%perRow == 0 {
			b.WriteByte('\n')
		}
		b.WriteString(stateStyles[s.State].Render(stateGlyphs[s.State]))
	}
	b.WriteString("\n\n")

	legend := make([]string, 0, len(gridStates))
	for _, st := range gridStates {
		legend = append(legend, fmt.Sprintf("%s %s %d",
			stateStyles[st].Render(stateGlyphs[st]), st, g.board.CountByState(st)))
	}
	b.WriteString(strings.Join(legend, "   "))

	style := panelStyle
	if g.width > 2 {
		style = style.Width(g.width - 2)
	}
	return style.Render(b.String())
}
