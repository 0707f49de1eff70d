package quadrature

import "sync"

// Accumulator is the single shared total that leaf workers add their partial
// sums to. The mutex is held only for the addition.
//
// Total and Contributions must only be read after every contributing
// goroutine has been joined.
type Accumulator struct {
	mu            sync.Mutex
	total         float64
	contributions int
}

// NewAccumulator returns a zeroed accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{}
}

// Add folds partial into the running total.
func (a *Accumulator) Add(partial float64) {
	a.mu.Lock()
	a.total += partial
	a.contributions++
	a.mu.Unlock()
}

// Total returns the accumulated sum.
func (a *Accumulator) Total() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.total
}

// Contributions returns how many times Add was called.
func (a *Accumulator) Contributions() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.contributions
}
