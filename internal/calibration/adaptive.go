// This file derives the worker counts a calibration sweep tries from the
// number of logical CPUs.

package calibration

import (
	"slices"

	"github.com/agbru/midcalc/internal/quadrature"
	"github.com/agbru/midcalc/internal/topology"
)

// ─────────────────────────────────────────────────────────────────────────────
// Worker count candidates
// ─────────────────────────────────────────────────────────────────────────────

// GenerateWorkerCounts returns the worker counts swept for a machine with
// numCPU logical cores: every power of two up to twice the core count, plus
// the core count itself. The result is sorted and free of duplicates.
//
// The rationale:
//   - Single core: 1 and 2 workers, to show the cost of oversubscription
//   - Below the core count: measures how far the integral scales
//   - Up to 2x: measures oversubscription, which the scheduler absorbs
//     when a worker is descheduled mid-range
func GenerateWorkerCounts(numCPU int) []int {
	if numCPU < 1 {
		numCPU = 1
	}
	var counts []int
	for w := 1; w <= 2*numCPU; w *= 2 {
		counts = append(counts, w)
	}
	counts = append(counts, numCPU)
	slices.Sort(counts)
	return slices.Compact(counts)
}

// GenerateQuickWorkerCounts returns a reduced sweep: one worker, half the
// cores and all the cores.
func GenerateQuickWorkerCounts(numCPU int) []int {
	if numCPU <= 1 {
		return []int{1}
	}
	counts := []int{1, max(numCPU/2, 1), numCPU}
	return slices.Compact(counts)
}

// ─────────────────────────────────────────────────────────────────────────────
// Estimation without benchmarking
// ─────────────────────────────────────────────────────────────────────────────

// EstimateOptimalWorkers guesses the best top-level worker count for mode:
// one leaf per logical core. Hierarchical top-level workers each own
// quadrature.FanOut leaves, so fewer of them are needed.
func EstimateOptimalWorkers(numCPU int, mode topology.Mode) int {
	if numCPU < 1 {
		numCPU = 1
	}
	if mode == topology.Hierarchical {
		return max(numCPU/quadrature.FanOut, 1)
	}
	return numCPU
}

// capWorkerCounts drops counts above limit and adds limit itself.
func capWorkerCounts(counts []int, limit int) []int {
	out := make([]int, 0, len(counts)+1)
	for _, w := range counts {
		if w <= limit {
			out = append(out, w)
		}
	}
	out = append(out, limit)
	slices.Sort(out)
	return slices.Compact(out)
}

// clampToIntervals drops worker counts above intervals. Those runs would
// only add empty workers. At least one count is always kept.
func clampToIntervals(counts []int, intervals int) []int {
	out := make([]int, 0, len(counts))
	for _, w := range counts {
		if w <= intervals {
			out = append(out, w)
		}
	}
	if len(out) == 0 {
		out = append(out, 1)
	}
	return out
}
