package solver

import (
	"fmt"
	"sort"
	"strings"
)

// A skewGraph is a directed graph on an even vertex count equipped with the
// fixed involution sigma: v <-> v^1. Every mutator maintains skew-symmetry:
// (u,v) is an edge iff (sigma(v), sigma(u)) is. Only outgoing edges are
// stored; the in-neighbours of v are the sigma-images of the out-neighbours
// of sigma(v).
//
// Two representations satisfy this contract: the adjacency-set graph
// (graphAL) and the lean sorted-slice graph (graphLHGR). The build tag
// "lhgr" selects the latter; see graph_default.go and graph_lhgr_default.go.
type skewGraph interface {
	// NoV returns the number of live vertices.
	NoV() int
	// NoE returns the number of live edges, symmetric partners included.
	NoE() int
	// Vertices returns the live vertices. The slice must not be modified.
	Vertices() []Vertex
	// IsLive reports whether v is a live vertex.
	IsLive(v Vertex) bool

	OutDegree(v Vertex) int
	InDegree(v Vertex) int
	// OutNeighbors appends the out-neighbours of v to buf and returns it.
	OutNeighbors(v Vertex, buf []Vertex) []Vertex
	// InNeighbors appends the in-neighbours of v to buf and returns it.
	InNeighbors(v Vertex, buf []Vertex) []Vertex

	// RemoveEdge removes (src,dst) and its symmetric partner.
	RemoveEdge(src, dst Vertex)
	// RemoveAllEdges removes every edge touching v and the symmetric partners.
	RemoveAllEdges(v Vertex)
	// RemoveVertex removes v and sigma(v) from the live set, with all edges.
	RemoveVertex(v Vertex)
	// Merge contracts v2 into v1 and sigma(v2) into sigma(v1). Duplicate
	// edges are coalesced and new self-loops deleted. A no-op when v1 == v2
	// or either vertex is dead.
	Merge(v1, v2 Vertex)

	// Snapshot captures the live state; Restore returns to it, undoing all
	// removals and merges since.
	Snapshot() graphSnapshot
	Restore(s graphSnapshot)

	String() string
}

// graphSnapshot is a value copy of a graph's live state.
type graphSnapshot interface{}

// graphString renders g as a deterministic list of edges, grouped by source
// and sorted, e.g. "(0,3) (0,5); (2,1)". Shared by both representations.
func graphString(g skewGraph) string {
	verts := append([]Vertex(nil), g.Vertices()...)
	sort.Slice(verts, func(i, j int) bool { return verts[i] < verts[j] })
	var groups []string
	for _, v := range verts {
		ns := g.OutNeighbors(v, nil)
		if len(ns) == 0 {
			continue
		}
		sort.Slice(ns, func(i, j int) bool { return ns[i] < ns[j] })
		var sb strings.Builder
		for i, w := range ns {
			if i > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "(%d,%d)", v, w)
		}
		groups = append(groups, sb.String())
	}
	return strings.Join(groups, "; ")
}

// checkSkewSymmetry verifies the structural invariants of g; used by tests
// and debug assertions.
func checkSkewSymmetry(g skewGraph) error {
	total := 0
	for _, v := range g.Vertices() {
		for _, w := range g.OutNeighbors(v, nil) {
			total++
			if v == w {
				return fmt.Errorf("self-loop on vertex %d", v)
			}
			found := false
			for _, u := range g.OutNeighbors(w.Sigma(), nil) {
				if u == v.Sigma() {
					found = true
					break
				}
			}
			if !found {
				return fmt.Errorf("edge (%d,%d) has no symmetric partner", v, w)
			}
		}
	}
	if total != g.NoE() {
		return fmt.Errorf("edge count mismatch: counted %d, NoE() says %d", total, g.NoE())
	}
	return nil
}
