package tui

import (
	"fmt"
	"strings"

	"github.com/agbru/midcalc/internal/format"
	"github.com/agbru/midcalc/internal/orchestration"
)

// historyLength is the number of host samples kept for the sparklines.
const historyLength = 60

// StatsModel shows host load, runtime memory and, once the run is over,
// the integration result.
type StatsModel struct {
	cpu        *History
	mem        *History
	heapAlloc  uint64
	numGC      uint32
	goroutines int

	result *orchestration.IntegrationResult
	err    error
	width  int
}

// NewStatsModel creates an empty stats panel.
func NewStatsModel() StatsModel {
	return StatsModel{
		cpu: NewHistory(historyLength),
		mem: NewHistory(historyLength),
	}
}

// SetWidth updates the available width and trims the sparklines to fit.
func (s *StatsModel) SetWidth(w int) {
	s.width = w
	// Label column and panel chrome take sixteen columns.
	if n := w - 16; n > 0 && n < historyLength {
		s.cpu.Resize(n)
		s.mem.Resize(n)
	}
}

// UpdateSys records a host sample.
func (s *StatsModel) UpdateSys(msg SysStatsMsg) {
	s.cpu.Push(msg.CPUPercent)
	s.mem.Push(msg.MemPercent)
}

// UpdateMem records a runtime memory sample.
func (s *StatsModel) UpdateMem(msg MemStatsMsg) {
	s.heapAlloc = msg.HeapAlloc
	s.numGC = msg.NumGC
	s.goroutines = msg.Goroutines
}

// SetResult stores the outcome of the run.
func (s *StatsModel) SetResult(res orchestration.IntegrationResult, err error) {
	if err != nil {
		s.result, s.err = nil, err
		return
	}
	s.result, s.err = &res, nil
}

// ClearResult forgets the previous outcome before a rerun.
func (s *StatsModel) ClearResult() {
	s.result, s.err = nil, nil
}

func statRow(label, value string) string {
	return fmt.Sprintf("%s %s", labelStyle.Render(fmt.Sprintf("%-10s", label)), value)
}

// View renders the panel.
func (s StatsModel) View() string {
	rows := []string{
		titleStyle.Render("HOST"),
		statRow("CPU", fmt.Sprintf("%s %5.1f%%", cpuSparklineStyle.Render(RenderSparkline(s.cpu.Values())), s.cpu.Last())),
		statRow("Memory", fmt.Sprintf("%s %5.1f%%", memSparklineStyle.Render(RenderSparkline(s.mem.Values())), s.mem.Last())),
		statRow("Heap", valueStyle.Render(format.FormatBytes(s.heapAlloc))+fmt.Sprintf("  GC %d", s.numGC)),
		statRow("Goroutines", valueStyle.Render(fmt.Sprintf("%d", s.goroutines))),
	}

	switch {
	case s.err != nil:
		rows = append(rows, "", titleStyle.Render("RESULT"), errorTextStyle.Render("Error: "+s.err.Error()))
	case s.result != nil:
		r := s.result
		rows = append(rows, "", titleStyle.Render("RESULT"),
			statRow("Value", valueStyle.Render(format.FormatValue(r.Value))),
			statRow("Reference", format.FormatValue(r.Reference)),
			statRow("Abs error", format.FormatError(r.AbsError)),
			statRow("Rel error", format.FormatPercent(r.RelErrorPercent)),
			statRow("Elapsed", format.FormatExecutionDuration(r.Duration)),
		)
	}

	style := panelStyle
	if s.width > 2 {
		style = style.Width(s.width - 2)
	}
	return style.Render(strings.Join(rows, "\n"))
}
