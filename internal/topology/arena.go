package topology

import (
	"fmt"

	"github.com/agbru/midcalc/internal/quadrature"
)

// Arena holds every task descriptor of a run in one contiguous block.
// Top-level descriptors occupy positions [0, topLevel); in hierarchical mode
// the descriptors spawned by top-level worker i follow at
// topLevel + i*SpawnCount.
//
// The arena is filled once by Build and only read afterwards, so workers may
// copy their descriptor out of it concurrently.
type Arena struct {
	tasks    []quadrature.Task
	topLevel int
}

// newArena allocates room for the whole tree in one block. Build has already
// bounded topLevel; a failed allocation is still reported as ErrTooManyTasks.
func newArena(topLevel int, mode Mode) (a *Arena, err error) {
	size := topLevel
	if mode == Hierarchical {
		size = topLevel * quadrature.FanOut
	}
	defer func() {
		if rec := recover(); rec != nil {
			a, err = nil, fmt.Errorf("%w: allocating %d task descriptors: %v", ErrTooManyTasks, size, rec)
		}
	}()
	return &Arena{
		tasks:    make([]quadrature.Task, 0, size),
		topLevel: topLevel,
	}, nil
}

// alloc appends t and returns its position.
func (a *Arena) alloc(t quadrature.Task) int {
	a.tasks = append(a.tasks, t)
	return len(a.tasks) - 1
}

// Task returns the descriptor stored at slot.
func (a *Arena) Task(slot int) quadrature.Task {
	return a.tasks[slot]
}
