package topology

import (
	"errors"
	"fmt"
	"sort"

	"github.com/agbru/midcalc/internal/quadrature"
)

// MaxTasks bounds the task descriptors of one tree, and with them the
// worker goroutines of one run.
const MaxTasks = 1 << 22

// ErrTooManyTasks is returned by Build when the requested tree cannot be
// held in memory.
var ErrTooManyTasks = errors.New("topology: too many workers")

// Kind distinguishes leaves from branches.
type Kind int

const (
	// Leaf integrates its own task and spawns nothing.
	Leaf Kind = iota
	// Branch integrates the base slot of its subdivided task and owns
	// quadrature.SpawnCount leaf children.
	Branch
)

func (k Kind) String() string {
	if k == Branch {
		return "branch"
	}
	return "leaf"
}

// Node is one worker of the spawn tree.
type Node struct {
	Kind Kind
	// Slot is the arena position of the node's descriptor.
	Slot int
	// Children are the sub-workers of a branch; nil for leaves.
	Children []Node
}

// Tree is the complete two-level spawn topology of a run.
type Tree struct {
	Mode           Mode
	TotalIntervals int
	Roots          []Node

	arena *Arena
}

// Build creates the tree for totalIntervals samples split across workers
// top-level workers. It rejects non-positive counts and any tree whose leaf
// ranges would not tile [0, totalIntervals) exactly once.
func Build(totalIntervals, workers int, mode Mode) (*Tree, error) {
	if totalIntervals < 1 {
		return nil, fmt.Errorf("interval count must be positive, got %d", totalIntervals)
	}
	if workers < 1 {
		return nil, fmt.Errorf("worker count must be positive, got %d", workers)
	}

	limit := MaxTasks
	if mode == Hierarchical {
		limit = MaxTasks / quadrature.FanOut
	}
	if workers > limit {
		return nil, fmt.Errorf("%w: %d top-level %s workers exceed the limit of %d", ErrTooManyTasks, workers, mode, limit)
	}

	arena, err := newArena(workers, mode)
	if err != nil {
		return nil, err
	}
	t := &Tree{
		Mode:           mode,
		TotalIntervals: totalIntervals,
		Roots:          make([]Node, workers),
		arena:          arena,
	}

	for i := 0; i < workers; i++ {
		slot := arena.alloc(quadrature.Task{
			WorkerIndex:    i,
			GroupSize:      workers,
			TotalIntervals: totalIntervals,
			TopLevel:       mode == Hierarchical,
		})
		t.Roots[i] = Node{Kind: Leaf, Slot: slot}
	}

	if mode == Hierarchical {
		for i := range t.Roots {
			_, spawned := arena.Task(t.Roots[i].Slot).Subdivide()
			children := make([]Node, len(spawned))
			for j, sub := range spawned {
				children[j] = Node{Kind: Leaf, Slot: arena.alloc(sub)}
			}
			t.Roots[i].Kind = Branch
			t.Roots[i].Children = children
		}
	}

	if err := t.Verify(); err != nil {
		return nil, err
	}
	return t, nil
}

// Task returns the descriptor of n as stored in the arena.
func (t *Tree) Task(n Node) quadrature.Task {
	return t.arena.Task(n.Slot)
}

// LeafCount returns the number of leaf-level contributions of the run: one
// per leaf plus the base slot of every branch.
func (t *Tree) LeafCount() int {
	n := 0
	for _, root := range t.Roots {
		n += 1 + len(root.Children)
	}
	return n
}

// LeafTasks returns the descriptors that actually integrate, in spawn order.
// A branch contributes its subdivided base slot followed by its children.
func (t *Tree) LeafTasks() []quadrature.Task {
	tasks := make([]quadrature.Task, 0, t.LeafCount())
	for _, root := range t.Roots {
		task := t.Task(root)
		if root.Kind == Branch {
			base, _ := task.Subdivide()
			tasks = append(tasks, base)
			for _, child := range root.Children {
				tasks = append(tasks, t.Task(child))
			}
			continue
		}
		tasks = append(tasks, task)
	}
	return tasks
}

// Verify checks that the leaf ranges tile [0, TotalIntervals) exactly once.
func (t *Tree) Verify() error {
	ranges := make([]quadrature.Range, 0, t.LeafCount())
	for _, task := range t.LeafTasks() {
		if r, ok := task.Range(); ok && !r.Empty() {
			ranges = append(ranges, r)
		}
	}
	sort.Slice(ranges, func(i, j int) bool { return ranges[i].Lower < ranges[j].Lower })

	next := 0
	for _, r := range ranges {
		switch {
		case r.Lower > next:
			return fmt.Errorf("partition gap: indices [%d, %d) are not sampled", next, r.Lower)
		case r.Lower < next:
			return fmt.Errorf("partition overlap: range %v starts before %d", r, next)
		}
		next = r.Upper
	}
	if next != t.TotalIntervals {
		return fmt.Errorf("partition ends at %d, want %d", next, t.TotalIntervals)
	}
	return nil
}
