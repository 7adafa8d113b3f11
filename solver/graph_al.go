package solver

// Adjacency-set representation of the skew-symmetric graph. Each vertex
// carries a set of out-neighbours; the live vertices occupy a prefix of the
// list vl, with il giving each vertex's position so that removal is a swap.

type adjSet map[Vertex]struct{}

func (s adjSet) clone() adjSet {
	out := make(adjSet, len(s))
	for v := range s {
		out[v] = struct{}{}
	}
	return out
}

type graphAL struct {
	noV int
	noE int
	vl  []Vertex // vertex list; the first noV entries are live
	il  []int    // position of each vertex in vl
	out []adjSet
}

type graphALSnapshot struct {
	noV int
	noE int
	out []adjSet
}

// newGraphAL builds the graph from an edge list. noV must be even. For each
// listed edge the symmetric partner is added as well; duplicates are
// coalesced.
func newGraphAL(edges [][2]Vertex, noV int) *graphAL {
	g := &graphAL{
		noV: noV,
		vl:  make([]Vertex, noV),
		il:  make([]int, noV),
		out: make([]adjSet, noV),
	}
	for v := 0; v < noV; v++ {
		g.vl[v] = Vertex(v)
		g.il[v] = v
		g.out[v] = make(adjSet)
	}
	for _, e := range edges {
		src, dst := e[0], e[1]
		if _, ok := g.out[src][dst]; ok {
			continue
		}
		g.out[src][dst] = struct{}{}
		g.noE++
		if dst.Sigma() != src {
			if _, ok := g.out[dst.Sigma()][src.Sigma()]; !ok {
				g.out[dst.Sigma()][src.Sigma()] = struct{}{}
				g.noE++
			}
		}
	}
	return g
}

func (g *graphAL) NoV() int { return g.noV }
func (g *graphAL) NoE() int { return g.noE }

func (g *graphAL) Vertices() []Vertex { return g.vl[:g.noV] }

func (g *graphAL) IsLive(v Vertex) bool { return g.il[v] < g.noV }

func (g *graphAL) OutDegree(v Vertex) int { return len(g.out[v]) }
func (g *graphAL) InDegree(v Vertex) int  { return len(g.out[v.Sigma()]) }

func (g *graphAL) OutNeighbors(v Vertex, buf []Vertex) []Vertex {
	for w := range g.out[v] {
		buf = append(buf, w)
	}
	return buf
}

func (g *graphAL) InNeighbors(v Vertex, buf []Vertex) []Vertex {
	for w := range g.out[v.Sigma()] {
		buf = append(buf, w.Sigma())
	}
	return buf
}

func (g *graphAL) RemoveEdge(src, dst Vertex) {
	if _, ok := g.out[src][dst]; ok {
		delete(g.out[src], dst)
		g.noE--
	}
	if _, ok := g.out[dst.Sigma()][src.Sigma()]; ok {
		delete(g.out[dst.Sigma()], src.Sigma())
		g.noE--
	}
}

// clearOut removes the out-edges of v together with their symmetric
// partners.
func (g *graphAL) clearOut(v Vertex) {
	for dst := range g.out[v] {
		if dst.Sigma() != v {
			if _, ok := g.out[dst.Sigma()][v.Sigma()]; ok {
				delete(g.out[dst.Sigma()], v.Sigma())
				g.noE--
			}
		}
	}
	g.noE -= len(g.out[v])
	g.out[v] = make(adjSet)
}

// RemoveAllEdges removes every edge touching v: its out-edges directly and
// its in-edges through the out-edges of sigma(v), partners included.
func (g *graphAL) RemoveAllEdges(v Vertex) {
	g.clearOut(v)
	g.clearOut(v.Sigma())
}

// swapOut moves v out of the live prefix of vl.
func (g *graphAL) swapOut(v Vertex) {
	g.noV--
	last := g.vl[g.noV]
	g.vl[g.il[v]], g.vl[g.noV] = last, v
	g.il[last], g.il[v] = g.il[v], g.noV
}

func (g *graphAL) RemoveVertex(v Vertex) {
	g.swapOut(v)
	g.swapOut(v.Sigma())
	g.RemoveAllEdges(v)
}

func (g *graphAL) Merge(v1, v2 Vertex) {
	if v1 == v2 || g.il[v1] >= g.noV || g.il[v2] >= g.noV {
		return
	}

	g.swapOut(v2)
	if v2.Sigma() != v1 {
		g.swapOut(v2.Sigma())
	}

	// bend all incoming edges of v2 to v1; iterate over a copy, the sets
	// being modified may include the one iterated
	for _, src := range g.InNeighbors(v2, nil) {
		delete(g.out[src], v2)
		if _, ok := g.out[src][v1]; ok {
			g.noE--
		} else {
			g.out[src][v1] = struct{}{}
		}
	}
	if v2.Sigma() != v1 {
		// bend all incoming edges of sigma(v2) to sigma(v1)
		for _, src := range g.InNeighbors(v2.Sigma(), nil) {
			delete(g.out[src], v2.Sigma())
			if _, ok := g.out[src][v1.Sigma()]; ok {
				g.noE--
			} else {
				g.out[src][v1.Sigma()] = struct{}{}
			}
		}
	}

	// take over the out-edges of v2
	for w := range g.out[v2] {
		if _, ok := g.out[v1][w]; ok {
			g.noE--
		} else {
			g.out[v1][w] = struct{}{}
		}
	}
	if _, ok := g.out[v1][v1]; ok {
		delete(g.out[v1], v1)
		g.noE--
	}
	g.out[v2] = make(adjSet)

	if v2.Sigma() != v1 {
		for w := range g.out[v2.Sigma()] {
			if _, ok := g.out[v1.Sigma()][w]; ok {
				g.noE--
			} else {
				g.out[v1.Sigma()][w] = struct{}{}
			}
		}
		if _, ok := g.out[v1.Sigma()][v1.Sigma()]; ok {
			delete(g.out[v1.Sigma()], v1.Sigma())
			g.noE--
		}
		g.out[v2.Sigma()] = make(adjSet)
	}
}

func (g *graphAL) Snapshot() graphSnapshot {
	out := make([]adjSet, len(g.out))
	for i, s := range g.out {
		out[i] = s.clone()
	}
	return graphALSnapshot{noV: g.noV, noE: g.noE, out: out}
}

func (g *graphAL) String() string { return graphString(g) }

// Restore reinstates the adjacency sets and counters captured by the
// snapshot. The vertex list needs no saving: removals and merges only ever
// swap vertices across the live boundary, so widening noV back brings
// exactly the previously live vertices into the prefix again, possibly in a
// different order.
func (g *graphAL) Restore(s graphSnapshot) {
	snap := s.(graphALSnapshot)
	g.noV = snap.noV
	g.noE = snap.noE
	g.out = make([]adjSet, len(snap.out))
	for i, set := range snap.out {
		g.out[i] = set.clone()
	}
}
