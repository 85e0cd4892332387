// Package graph builds the design-unit dependency graph from extracted HDL
// symbols (spec.md §4.2 "Unit Index & Graph Construction"). It owns units
// once in an arena slice and refers to them everywhere else by integer
// index, per spec.md §9's "model as index → node-index → graph" design
// note — this avoids the cyclic ownership a pointer-based node-to-node
// reference would otherwise require.
package graph

import (
	"fmt"

	"github.com/orbit-hdl/orbit/internal/hdl"
)

// UnitNode is one primary design unit (an Entity or Module) together with
// every source file that contributes to it: its own declaration plus any
// architecture/body files discovered during edge construction.
type UnitNode struct {
	Index int
	Unit  hdl.DesignUnit
	Files []string
}

func (n *UnitNode) addFile(file string) {
	for _, f := range n.Files {
		if f == file {
			return
		}
	}
	n.Files = append(n.Files, file)
}

// Edge is a directed dependency edge: From must appear before To in any
// valid compilation order, because To instantiates From.
type Edge struct {
	From, To int
}

// Graph is the directed design-unit dependency graph: an edge u → v means
// "v instantiates u". Parallel edges are permitted; they collapse during
// topological sort.
type Graph struct {
	Nodes []*UnitNode
	Edges []Edge
}

// Successors returns the indices of nodes idx has an edge to (idx → v,
// i.e. v instantiates idx).
func (g *Graph) Successors(idx int) []int {
	var out []int
	for _, e := range g.Edges {
		if e.From == idx {
			out = append(out, e.To)
		}
	}
	return out
}

// Predecessors returns the indices of nodes with an edge to idx (v → idx,
// i.e. idx instantiates v).
func (g *Graph) Predecessors(idx int) []int {
	var out []int
	for _, e := range g.Edges {
		if e.To == idx {
			out = append(out, e.From)
		}
	}
	return out
}

// InDegree counts edges terminating at idx, including duplicates.
func (g *Graph) InDegree(idx int) int {
	n := 0
	for _, e := range g.Edges {
		if e.To == idx {
			n++
		}
	}
	return n
}

// OutDegree counts edges originating at idx, including duplicates.
func (g *Graph) OutDegree(idx int) int {
	n := 0
	for _, e := range g.Edges {
		if e.From == idx {
			n++
		}
	}
	return n
}

// DuplicateUnitError is raised when the same design-unit identifier is
// declared as a primary unit (Entity/Module) in two different files — HDL
// forbids this, so it is a hard error rather than a silently-merged node.
type DuplicateUnitError struct {
	Name        string
	FirstFile   string
	SecondFile  string
	FirstPos    hdl.Position
	SecondPos   hdl.Position
}

func (e *DuplicateUnitError) Error() string {
	return fmt.Sprintf("duplicate unit %q declared in both %s (%s) and %s (%s)",
		e.Name, e.FirstFile, e.FirstPos, e.SecondFile, e.SecondPos)
}
