// Package tui shows a live grid of worker states while an integration runs.
package tui

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	apperrors "github.com/agbru/midcalc/internal/errors"
	"github.com/agbru/midcalc/internal/metrics"
	"github.com/agbru/midcalc/internal/orchestration"
	"github.com/agbru/midcalc/internal/quadrature"
	"github.com/agbru/midcalc/internal/topology"
)

// Layout constants for the worker monitor.
const (
	// StatsPanelWidthPercent is the share of the width given to the stats
	// panel when the terminal is wide enough to show panels side by side.
	StatsPanelWidthPercent = 40
	// sideBySideMinWidth is the narrowest terminal that gets two columns.
	sideBySideMinWidth = 90
	tickInterval       = 500 * time.Millisecond
)

// Model is the root bubbletea model of the worker monitor.
type Model struct {
	header HeaderModel
	grid   GridModel
	stats  StatsModel
	keymap KeyMap

	ctx        context.Context
	plan       orchestration.Plan
	runOpts    []orchestration.Option
	ref        *programRef
	generation uint64
	running    bool
	paused     bool
	exitCode   int

	width  int
	height int
}

// leafSlots returns the number of leaf partitions a plan produces, or zero
// when the plan is too large to lay out. The run then fails on its own.
func leafSlots(plan orchestration.Plan) int {
	slots := plan.Workers
	if plan.Mode == topology.Hierarchical {
		if slots > topology.MaxTasks/quadrature.FanOut {
			return 0
		}
		slots *= quadrature.FanOut
	}
	if slots < 0 || slots > topology.MaxTasks {
		return 0
	}
	return slots
}

// NewModel creates a monitor for plan. The run starts when the program
// calls Init.
func NewModel(ctx context.Context, plan orchestration.Plan, version string, opts ...orchestration.Option) Model {
	return Model{
		header:   NewHeaderModel(version, plan),
		grid:     NewGridModel(leafSlots(plan), plan.Intervals),
		stats:    NewStatsModel(),
		keymap:   DefaultKeyMap(),
		ctx:      ctx,
		plan:     plan,
		runOpts:  opts,
		ref:      &programRef{},
		running:  true,
		exitCode: apperrors.ExitSuccess,
	}
}

// Init returns the initial commands.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		startRunCmd(m.ctx, m.ref, m.plan, m.generation, m.runOpts),
	)
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layoutPanels()
		return m, nil

	case WorkerEventMsg:
		if msg.Generation == m.generation {
			m.grid.Apply(msg.Event)
		}
		return m, nil

	case EventsDoneMsg:
		return m, nil

	case RunCompleteMsg:
		if msg.Generation != m.generation {
			return m, nil // stale message from a previous run
		}
		m.running = false
		m.header.SetDone()
		m.stats.SetResult(msg.Result, msg.Err)
		if msg.Err != nil {
			m.exitCode = apperrors.ExitCodeFor(msg.Err)
		} else {
			m.exitCode = apperrors.ExitSuccess
		}
		return m, nil

	case TickMsg:
		if !m.running {
			return m, nil
		}
		if m.paused {
			return m, tickCmd()
		}
		return m, tea.Batch(sampleMemStatsCmd(), sampleSysStatsCmd(), tickCmd())

	case MemStatsMsg:
		m.stats.UpdateMem(msg)
		return m, nil

	case SysStatsMsg:
		m.stats.UpdateSys(msg)
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Pause):
		m.paused = !m.paused
		return m, nil

	case key.Matches(msg, m.keymap.Restart):
		// Workers cannot be cancelled, so a rerun waits for the current one.
		if m.running {
			return m, nil
		}
		m.generation++
		m.running = true
		m.paused = false
		m.exitCode = apperrors.ExitSuccess
		m.header.Reset()
		m.grid.Reset()
		m.stats.ClearResult()
		return m, tea.Batch(
			tickCmd(),
			startRunCmd(m.ctx, m.ref, m.plan, m.generation, m.runOpts),
		)
	}

	return m, nil
}

func (m *Model) layoutPanels() {
	m.header.SetWidth(m.width)
	if m.width >= sideBySideMinWidth {
		statsWidth := m.width * StatsPanelWidthPercent / 100
		m.stats.SetWidth(statsWidth)
		m.grid.SetWidth(m.width - statsWidth)
		return
	}
	m.grid.SetWidth(m.width)
	m.stats.SetWidth(m.width)
}

// View renders the whole monitor.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	var body string
	if m.width >= sideBySideMinWidth {
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.grid.View(), m.stats.View())
	} else {
		body = lipgloss.JoinVertical(lipgloss.Left, m.grid.View(), m.stats.View())
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.header.View(), body, m.footerView())
}

// footerView renders the run status and key hints.
func (m Model) footerView() string {
	var status string
	switch {
	case m.running && m.paused:
		status = statusPausedStyle.Render("PAUSED")
	case m.running:
		status = statusRunningStyle.Render("RUNNING")
	case m.exitCode != apperrors.ExitSuccess:
		status = statusErrorStyle.Render("ERROR")
	default:
		status = statusDoneStyle.Render("DONE")
	}

	hints := make([]string, 0, len(m.keymap.ShortHelp()))
	for _, b := range m.keymap.ShortHelp() {
		hints = append(hints, footerKeyStyle.Render(b.Help().Key)+" "+footerDescStyle.Render(b.Help().Desc))
	}
	return " " + status + "  " + strings.Join(hints, "  ")
}

// ExitCode returns the process exit code the monitor ends with. Quitting
// before the run has finished is reported as a generic error.
func (m Model) ExitCode() int {
	if m.running {
		return apperrors.ExitErrorGeneric
	}
	return m.exitCode
}

// Run is the public entry point for the TUI mode.
// It creates the bubbletea program, runs it, and returns the exit code.
func Run(ctx context.Context, plan orchestration.Plan, version string, opts ...orchestration.Option) int {
	// Rebuild styles from the current ui theme (set by app.Run via InitTheme).
	initTUIStyles()

	model := NewModel(ctx, plan, version, opts...)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	// Inject the program reference before running so bridge goroutines can Send.
	model.ref.SetProgram(p)

	finalModel, err := p.Run()
	if err != nil {
		return apperrors.ExitErrorGeneric
	}
	if m, ok := finalModel.(Model); ok {
		return m.ExitCode()
	}
	return apperrors.ExitSuccess
}

// startRunCmd returns a tea.Cmd that runs the integration and reports its
// outcome. Worker events reach the program through the bridge reporter.
func startRunCmd(ctx context.Context, ref *programRef, plan orchestration.Plan, gen uint64, opts []orchestration.Option) tea.Cmd {
	return func() tea.Msg {
		reporter := &TUIProgressReporter{ref: ref, generation: gen}
		res, err := orchestration.ExecuteIntegration(ctx, plan, reporter, io.Discard, opts...)
		return RunCompleteMsg{Result: res, Err: err, Generation: gen}
	}
}

// tickCmd returns a command that sends a TickMsg after tickInterval.
func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// sampleMemStatsCmd reads runtime memory stats and returns a MemStatsMsg.
func sampleMemStatsCmd() tea.Cmd {
	return func() tea.Msg {
		s := metrics.NewMemoryCollector().Snapshot()
		return MemStatsMsg{
			HeapAlloc:  s.HeapAlloc,
			NumGC:      s.NumGC,
			Goroutines: s.Goroutines,
		}
	}
}

// sampleSysStatsCmd reads host-wide CPU and memory stats and returns a SysStatsMsg.
func sampleSysStatsCmd() tea.Cmd {
	return func() tea.Msg {
		s := metrics.SampleSystem()
		return SysStatsMsg{
			CPUPercent: s.CPUPercent,
			MemPercent: s.MemPercent,
		}
	}
}
