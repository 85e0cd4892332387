// Package plan implements top/testbench inference, the minimal topological
// sort rooted at the bench, and blueprint/.env emission (spec.md §4.3-§4.5).
package plan

import (
	"fmt"
	"sort"

	"github.com/orbit-hdl/orbit/internal/graph"
	"github.com/orbit-hdl/orbit/internal/hdl"
)

// UnknownUnitError is raised when a --top or --bench hint names a unit the
// graph has no node for.
type UnknownUnitError struct {
	Name string
}

func (e *UnknownUnitError) Error() string {
	return fmt.Sprintf("no design unit named %q in this graph", e.Name)
}

// NotTestbenchError is raised when a --bench hint names a unit that has
// external ports, so it fails the testbench heuristic.
type NotTestbenchError struct {
	Name string
}

func (e *NotTestbenchError) Error() string {
	return fmt.Sprintf("%q is not a testbench (it has external ports)", e.Name)
}

// NotTopError is raised when a --top hint names a unit the testbench
// heuristic classifies as a testbench itself.
type NotTopError struct {
	Name string
}

func (e *NotTopError) Error() string {
	return fmt.Sprintf("%q cannot be top: it is itself a testbench", e.Name)
}

// AmbiguousBenchError is raised when zero or more than one unit qualifies
// as the bench: either no unique testbench-eligible unit that nothing
// instantiates (out-degree 0) exists,
// or a given --top's successor set isn't exactly one unit.
type AmbiguousBenchError struct {
	Candidates []string
}

func (e *AmbiguousBenchError) Error() string {
	if len(e.Candidates) == 0 {
		return "no testbench found: no design unit with zero dependents qualifies as a bench"
	}
	return fmt.Sprintf("ambiguous bench: candidates are %v", e.Candidates)
}

// AmbiguousTopError is raised when the inferred bench has more than one
// predecessor and no --top hint disambiguates which is the device under
// test.
type AmbiguousTopError struct {
	Candidates []string
}

func (e *AmbiguousTopError) Error() string {
	return fmt.Sprintf("ambiguous top: candidates are %v", e.Candidates)
}

// NoTopError is raised when the inferred bench instantiates nothing, so no
// device under test can be identified.
type NoTopError struct {
	Bench string
}

func (e *NoTopError) Error() string {
	return fmt.Sprintf("%q instantiates no design unit; nothing to use as top", e.Bench)
}

// TopBench is the resolved pair of node indices the planner will sort
// around, alongside the names exported to ORBIT_TOP / ORBIT_BENCH.
type TopBench struct {
	TopIndex   int
	BenchIndex int
	TopName    string
	BenchName  string
}

// InferTopBench applies the ordered rule set from spec.md §4.3. topHint and
// benchHint are empty strings when the corresponding flag was not given.
func InferTopBench(g *graph.Graph, topHint, benchHint string) (TopBench, error) {
	benchGiven := benchHint != ""
	topGiven := topHint != ""

	var benchIdx int
	if benchGiven {
		idx, ok := findByName(g, benchHint)
		if !ok {
			return TopBench{}, &UnknownUnitError{Name: benchHint}
		}
		if !g.Nodes[idx].Unit.IsTestbench() {
			return TopBench{}, &NotTestbenchError{Name: benchHint}
		}
		benchIdx = idx
	} else {
		var candidates []int
		for _, n := range g.Nodes {
			if n.Unit.IsTestbench() && g.OutDegree(n.Index) == 0 {
				candidates = append(candidates, n.Index)
			}
		}
		if len(candidates) != 1 {
			return TopBench{}, &AmbiguousBenchError{Candidates: names(g, candidates)}
		}
		benchIdx = candidates[0]
	}

	var topIdx int
	if topGiven {
		idx, ok := findByName(g, topHint)
		if !ok {
			return TopBench{}, &UnknownUnitError{Name: topHint}
		}
		if g.Nodes[idx].Unit.IsTestbench() {
			return TopBench{}, &NotTopError{Name: topHint}
		}
		topIdx = idx
		if !benchGiven {
			succ := dedup(g.Successors(topIdx))
			if len(succ) != 1 {
				return TopBench{}, &AmbiguousBenchError{Candidates: names(g, succ)}
			}
			benchIdx = succ[0]
		}
	} else {
		preds := dedup(g.Predecessors(benchIdx))
		switch len(preds) {
		case 0:
			return TopBench{}, &NoTopError{Bench: g.Nodes[benchIdx].Unit.Name.Name}
		case 1:
			topIdx = preds[0]
		default:
			return TopBench{}, &AmbiguousTopError{Candidates: names(g, preds)}
		}
	}

	return TopBench{
		TopIndex:   topIdx,
		BenchIndex: benchIdx,
		TopName:    g.Nodes[topIdx].Unit.Name.Name,
		BenchName:  g.Nodes[benchIdx].Unit.Name.Name,
	}, nil
}

func findByName(g *graph.Graph, name string) (int, bool) {
	for _, n := range g.Nodes {
		cand := hdl.NewIdentifier(name, n.Unit.Name.Dialect, hdl.Position{})
		if n.Unit.Name.Equal(cand) {
			return n.Index, true
		}
	}
	return 0, false
}

func names(g *graph.Graph, idxs []int) []string {
	out := make([]string, len(idxs))
	for i, idx := range idxs {
		out[i] = g.Nodes[idx].Unit.Name.Name
	}
	sort.Strings(out)
	return out
}

func dedup(idxs []int) []int {
	seen := map[int]bool{}
	var out []int
	for _, i := range idxs {
		if !seen[i] {
			seen[i] = true
			out = append(out, i)
		}
	}
	return out
}
