package quadrature

// Integrate applies the midpoint rule over the sample indices in r:
//
//	h * Σ f(a + h*(i+0.5))  for i in [r.Lower, r.Upper)
//
// h is the step size of the whole computation, not of r.
func Integrate(f SampleFunction, r Range, h, a float64) float64 {
	var sum float64
	for i := r.Lower; i < r.Upper; i++ {
		sum += f(a + h*(float64(i)+0.5))
	}
	return sum * h
}

// IntegrateTask integrates the range of t for problem p. Tasks with an
// empty clamped range yield zero.
func IntegrateTask(p Problem, t Task) (float64, Range) {
	r, ok := t.Range()
	if !ok || r.Empty() {
		return 0, r
	}
	return Integrate(p.F, r, p.StepSize(t.TotalIntervals), p.A), r
}

// Sequential integrates p with a single pass over all intervals. It is the
// reference the concurrent topologies are compared against.
func Sequential(p Problem, totalIntervals int) float64 {
	return Integrate(p.F, Range{Lower: 0, Upper: totalIntervals}, p.StepSize(totalIntervals), p.A)
}
