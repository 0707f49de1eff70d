package topology

import (
	"fmt"
	"strconv"
	"strings"
)

// Mode selects the work-distribution strategy.
type Mode int

const (
	// Flat spawns every worker up front; each is a leaf.
	Flat Mode = iota
	// Hierarchical makes every top-level worker a branch that spawns
	// quadrature.SpawnCount sub-workers.
	Hierarchical
)

func (m Mode) String() string {
	switch m {
	case Flat:
		return "flat"
	case Hierarchical:
		return "hierarchical"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ModeFromSelector maps the numeric selector of the command line onto a
// mode: 0 is flat, anything else is hierarchical.
func ModeFromSelector(selector int) Mode {
	if selector == 0 {
		return Flat
	}
	return Hierarchical
}

// ParseMode accepts either the numeric selector or a mode name.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "flat":
		return Flat, nil
	case "hierarchical", "hier", "tree":
		return Hierarchical, nil
	}
	selector, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return Flat, fmt.Errorf("invalid mode %q: want an integer selector, \"flat\" or \"hierarchical\"", s)
	}
	return ModeFromSelector(selector), nil
}
