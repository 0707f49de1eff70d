// Package topology models the spawn tree of an integration run as a
// first-class value: a list of root nodes, each either a Leaf that
// integrates its own slot or a Branch that integrates a base slot and owns
// the sub-workers it spawns. Task descriptors for every node live in a
// single Arena indexed by position.
package topology
