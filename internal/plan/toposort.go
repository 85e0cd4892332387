package plan

import (
	"container/heap"
	"fmt"

	"github.com/orbit-hdl/orbit/internal/graph"
)

// CyclicDesignError is raised when the restricted subgraph rooted at a
// node still has nodes with nonzero in-degree once Kahn's algorithm
// terminates — a cycle among root's ancestors.
type CyclicDesignError struct {
	Remaining int
}

func (e *CyclicDesignError) Error() string {
	return fmt.Sprintf("cyclic design: %d design unit(s) could not be ordered", e.Remaining)
}

// intHeap is a min-heap of node indices, giving Kahn's algorithm the
// deterministic "ascending node index" tie-break spec.md §4.4 requires.
type intHeap []int

func (h intHeap) Len() int            { return len(h) }
func (h intHeap) Less(i, j int) bool  { return h[i] < h[j] }
func (h intHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *intHeap) Push(x interface{}) { *h = append(*h, x.(int)) }
func (h *intHeap) Pop() interface{} {
	old := *h
	n := len(old)
	v := old[n-1]
	*h = old[:n-1]
	return v
}

// MinimalTopologicalSort returns the unique ordering of root's transitive
// ancestors (root included) such that every predecessor of a node precedes
// it, no other nodes appear, and ties break by ascending node index
// (spec.md §4.4).
func MinimalTopologicalSort(g *graph.Graph, root int) ([]int, error) {
	reachable := reachableAncestors(g, root)

	inDeg := make(map[int]int, len(reachable))
	adj := make(map[int][]int, len(reachable))
	seenEdge := make(map[[2]int]bool)
	for n := range reachable {
		inDeg[n] = 0
	}
	for _, e := range g.Edges {
		if !reachable[e.From] || !reachable[e.To] {
			continue
		}
		key := [2]int{e.From, e.To}
		if seenEdge[key] {
			continue
		}
		seenEdge[key] = true
		adj[e.From] = append(adj[e.From], e.To)
		inDeg[e.To]++
	}

	ready := &intHeap{}
	for n := range reachable {
		if inDeg[n] == 0 {
			*ready = append(*ready, n)
		}
	}
	heap.Init(ready)

	var order []int
	for ready.Len() > 0 {
		cur := heap.Pop(ready).(int)
		order = append(order, cur)
		for _, next := range adj[cur] {
			inDeg[next]--
			if inDeg[next] == 0 {
				heap.Push(ready, next)
			}
		}
	}

	if len(order) != len(reachable) {
		return nil, &CyclicDesignError{Remaining: len(reachable) - len(order)}
	}
	return order, nil
}

// reachableAncestors computes the set of nodes that can reach root by
// following edges forward — i.e. root's transitive predecessors, plus root
// itself — via reverse BFS.
func reachableAncestors(g *graph.Graph, root int) map[int]bool {
	visited := map[int]bool{root: true}
	queue := []int{root}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, p := range g.Predecessors(cur) {
			if !visited[p] {
				visited[p] = true
				queue = append(queue, p)
			}
		}
	}
	return visited
}
