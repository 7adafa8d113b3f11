//go:build lhgr

package solver

// newGraph builds the lean skew-symmetric graph representation.
func newGraph(edges [][2]Vertex, noV int) skewGraph {
	return newGraphLHGR(edges, noV)
}
