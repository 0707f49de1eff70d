package calibration

import (
	"slices"
	"testing"

	"github.com/agbru/midcalc/internal/topology"
)

func TestGenerateWorkerCounts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		numCPU int
		want   []int
	}{
		{0, []int{1, 2}},
		{1, []int{1, 2}},
		{4, []int{1, 2, 4, 8}},
		{6, []int{1, 2, 4, 6, 8}},
		{16, []int{1, 2, 4, 8, 16, 32}},
	}

	for _, tt := range tests {
		got := GenerateWorkerCounts(tt.numCPU)
		if !slices.Equal(got, tt.want) {
			t.Errorf("GenerateWorkerCounts(%d) = %v, want %v", tt.numCPU, got, tt.want)
		}
		if !slices.IsSorted(got) {
			t.Errorf("GenerateWorkerCounts(%d) = %v is not sorted", tt.numCPU, got)
		}
	}
}

func TestGenerateQuickWorkerCounts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		numCPU int
		want   []int
	}{
		{1, []int{1}},
		{2, []int{1, 2}},
		{3, []int{1, 3}},
		{8, []int{1, 4, 8}},
	}

	for _, tt := range tests {
		if got := GenerateQuickWorkerCounts(tt.numCPU); !slices.Equal(got, tt.want) {
			t.Errorf("GenerateQuickWorkerCounts(%d) = %v, want %v", tt.numCPU, got, tt.want)
		}
	}
}

func TestEstimateOptimalWorkers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		numCPU int
		mode   topology.Mode
		want   int
	}{
		{8, topology.Flat, 8},
		{8, topology.Hierarchical, 2},
		{2, topology.Hierarchical, 1},
		{0, topology.Flat, 1},
	}

	for _, tt := range tests {
		if got := EstimateOptimalWorkers(tt.numCPU, tt.mode); got != tt.want {
			t.Errorf("EstimateOptimalWorkers(%d, %s) = %d, want %d", tt.numCPU, tt.mode, got, tt.want)
		}
	}
}

func TestClampToIntervals(t *testing.T) {
	t.Parallel()

	if got := clampToIntervals([]int{1, 2, 4, 8}, 5); !slices.Equal(got, []int{1, 2, 4}) {
		t.Errorf("clampToIntervals(.., 5) = %v, want [1 2 4]", got)
	}
	if got := clampToIntervals([]int{4, 8}, 2); !slices.Equal(got, []int{1}) {
		t.Errorf("clampToIntervals(.., 2) = %v, want [1]", got)
	}
}

func TestCapWorkerCounts(t *testing.T) {
	t.Parallel()

	if got := capWorkerCounts([]int{1, 2, 4, 8, 16}, 6); !slices.Equal(got, []int{1, 2, 4, 6}) {
		t.Errorf("capWorkerCounts(.., 6) = %v, want [1 2 4 6]", got)
	}
	if got := capWorkerCounts([]int{1, 2, 4}, 4); !slices.Equal(got, []int{1, 2, 4}) {
		t.Errorf("capWorkerCounts(.., 4) = %v, want [1 2 4]", got)
	}
}
