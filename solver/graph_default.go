//go:build !lhgr

package solver

// newGraph builds the default skew-symmetric graph representation, the
// adjacency-set graph. Build with -tags lhgr for the lean representation.
func newGraph(edges [][2]Vertex, noV int) skewGraph {
	return newGraphAL(edges, noV)
}
