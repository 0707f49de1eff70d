package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/agbru/midcalc/internal/metrics"
	"github.com/agbru/midcalc/internal/orchestration"
	"github.com/agbru/midcalc/internal/topology"
	"github.com/agbru/midcalc/internal/ui"
)

func sampleResult(mode topology.Mode) orchestration.IntegrationResult {
	return orchestration.IntegrationResult{
		RunID:           "6f1c2b4e-0000-4000-8000-000000000000",
		Problem:         "sin-x2",
		Mode:            mode,
		Workers:         2,
		Intervals:       1003,
		Leaves:          2,
		Contributions:   2,
		Value:           0.625,
		Reference:       0.5,
		AbsError:        3.4e-9,
		RelErrorPercent: 5.5e-7,
		Duration:        12 * time.Millisecond,
		Partials:        []float64{0.25, 0.375},
	}
}

func TestDisplayResult(t *testing.T) {
	ui.SetCurrentTheme(ui.NoColorTheme)
	defer ui.InitTheme(false)

	var buf bytes.Buffer
	DisplayResult(sampleResult(topology.Flat), &buf)
	for _, want := range []string{
		"Computed value:  0.62500000000000000",
		"Reference value: 0.50000000000000000",
		"Absolute error:  3.400000e-09",
		"Relative error:  5.500000e-07%",
		"Elapsed time:    12ms",
	} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("output should contain %q, got:\n%s", want, buf.String())
		}
	}
}

func TestDisplayDetails(t *testing.T) {
	ui.SetCurrentTheme(ui.NoColorTheme)
	defer ui.InitTheme(false)

	tests := []struct {
		name      string
		mode      topology.Mode
		resources *metrics.RunResources
		rows      [][]string
		contains  []string
		absent    []string
	}{
		{
			name:     "flat without resources",
			mode:     topology.Flat,
			contains: []string{"Run ID:", "flat, 2 top-level workers"},
			rows:     [][]string{{"0", "501", "0.25000000000000000"}, {"1", "502", "0.37500000000000000"}},
			absent:   []string{"Resources:"},
		},
		{
			name: "hierarchical with resources",
			mode: topology.Hierarchical,
			resources: &metrics.RunResources{
				CPUUser:      20 * time.Millisecond,
				CPUSystem:    4 * time.Millisecond,
				CPUAvailable: true,
				Memory:       metrics.MemorySnapshot{TotalAlloc: 2048, Mallocs: 1500, NumGC: 1},
				System:       metrics.SystemStats{CPUPercent: 12.5, MemPercent: 40, LogicalCores: 8},
			},
			rows:     [][]string{{"0", "500"}, {"1", "503"}},
			contains: []string{"hierarchical", "CPU time:        24ms", "2.00x wall clock", "2.0 KiB in 1,500 objects", "8 logical cores"},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			DisplayDetails(sampleResult(tt.mode), tt.resources, &buf)
			for _, want := range tt.contains {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("output should contain %q, got:\n%s", want, buf.String())
				}
			}
			for _, row := range tt.rows {
				if !hasRow(buf.String(), row) {
					t.Errorf("output should contain a row starting with %v, got:\n%s", row, buf.String())
				}
			}
			for _, unwanted := range tt.absent {
				if strings.Contains(buf.String(), unwanted) {
					t.Errorf("output should not contain %q", unwanted)
				}
			}
		})
	}
}

func TestCLIResultPresenter(t *testing.T) {
	ui.SetCurrentTheme(ui.NoColorTheme)
	defer ui.InitTheme(false)

	var buf bytes.Buffer
	CLIResultPresenter{}.PresentResult(sampleResult(topology.Flat), orchestration.PresentationOptions{Quiet: true}, &buf)
	if got := buf.String(); got != "0.62500000000000000\n" {
		t.Errorf("quiet output = %q", got)
	}

	buf.Reset()
	CLIResultPresenter{}.PresentResult(sampleResult(topology.Flat), orchestration.PresentationOptions{Details: true}, &buf)
	if !strings.Contains(buf.String(), "--- Results ---") || !strings.Contains(buf.String(), "--- Details ---") {
		t.Errorf("details output incomplete:\n%s", buf.String())
	}

	buf.Reset()
	results := []orchestration.IntegrationResult{sampleResult(topology.Flat), sampleResult(topology.Hierarchical)}
	CLIResultPresenter{}.PresentComparisonTable(results, &buf)
	for _, want := range []string{"Comparison Summary", "flat", "hierarchical", "abs err 3.400000e-09"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("comparison table should contain %q, got:\n%s", want, buf.String())
		}
	}
}

// hasRow reports whether some line of out starts with the given fields.
func hasRow(out string, fields []string) bool {
	for _, line := range strings.Split(out, "\n") {
		got := strings.Fields(line)
		if len(got) < len(fields) {
			continue
		}
		match := true
		for i := range fields {
			if got[i] != fields[i] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}
