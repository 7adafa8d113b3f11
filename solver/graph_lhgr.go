package solver

import "sort"

// Lean representation of the skew-symmetric graph: out-neighbours are kept
// in sorted slices instead of hash sets. Lookups are binary searches,
// insertion and removal shift the tail; for the low degrees typical of
// 2-XNF implication graphs the compact layout beats the hash sets. The
// merging and removal algorithms are the same as for graphAL.

type sortedAdj []Vertex

func (s sortedAdj) search(v Vertex) (int, bool) {
	i := sort.Search(len(s), func(i int) bool { return s[i] >= v })
	return i, i < len(s) && s[i] == v
}

func (s sortedAdj) has(v Vertex) bool {
	_, ok := s.search(v)
	return ok
}

func (s *sortedAdj) insert(v Vertex) bool {
	i, ok := s.search(v)
	if ok {
		return false
	}
	*s = append(*s, 0)
	copy((*s)[i+1:], (*s)[i:])
	(*s)[i] = v
	return true
}

func (s *sortedAdj) remove(v Vertex) bool {
	i, ok := s.search(v)
	if !ok {
		return false
	}
	*s = append((*s)[:i], (*s)[i+1:]...)
	return true
}

type graphLHGR struct {
	noV int
	noE int
	vl  []Vertex
	il  []int
	out []sortedAdj
}

type graphLHGRSnapshot struct {
	noV int
	noE int
	out []sortedAdj
}

func newGraphLHGR(edges [][2]Vertex, noV int) *graphLHGR {
	g := &graphLHGR{
		noV: noV,
		vl:  make([]Vertex, noV),
		il:  make([]int, noV),
		out: make([]sortedAdj, noV),
	}
	for v := 0; v < noV; v++ {
		g.vl[v] = Vertex(v)
		g.il[v] = v
	}
	for _, e := range edges {
		src, dst := e[0], e[1]
		if g.out[src].insert(dst) {
			g.noE++
			if dst.Sigma() != src && g.out[dst.Sigma()].insert(src.Sigma()) {
				g.noE++
			}
		}
	}
	return g
}

func (g *graphLHGR) NoV() int { return g.noV }
func (g *graphLHGR) NoE() int { return g.noE }

func (g *graphLHGR) Vertices() []Vertex { return g.vl[:g.noV] }

func (g *graphLHGR) IsLive(v Vertex) bool { return g.il[v] < g.noV }

func (g *graphLHGR) OutDegree(v Vertex) int { return len(g.out[v]) }
func (g *graphLHGR) InDegree(v Vertex) int  { return len(g.out[v.Sigma()]) }

func (g *graphLHGR) OutNeighbors(v Vertex, buf []Vertex) []Vertex {
	return append(buf, g.out[v]...)
}

func (g *graphLHGR) InNeighbors(v Vertex, buf []Vertex) []Vertex {
	for _, w := range g.out[v.Sigma()] {
		buf = append(buf, w.Sigma())
	}
	return buf
}

func (g *graphLHGR) RemoveEdge(src, dst Vertex) {
	if g.out[src].remove(dst) {
		g.noE--
	}
	if g.out[dst.Sigma()].remove(src.Sigma()) {
		g.noE--
	}
}

func (g *graphLHGR) clearOut(v Vertex) {
	for _, dst := range g.out[v] {
		if dst.Sigma() != v && g.out[dst.Sigma()].remove(v.Sigma()) {
			g.noE--
		}
	}
	g.noE -= len(g.out[v])
	g.out[v] = nil
}

// RemoveAllEdges removes every edge touching v: its out-edges directly and
// its in-edges through the out-edges of sigma(v), partners included.
func (g *graphLHGR) RemoveAllEdges(v Vertex) {
	g.clearOut(v)
	g.clearOut(v.Sigma())
}

func (g *graphLHGR) swapOut(v Vertex) {
	g.noV--
	last := g.vl[g.noV]
	g.vl[g.il[v]], g.vl[g.noV] = last, v
	g.il[last], g.il[v] = g.il[v], g.noV
}

func (g *graphLHGR) RemoveVertex(v Vertex) {
	g.swapOut(v)
	g.swapOut(v.Sigma())
	g.RemoveAllEdges(v)
}

func (g *graphLHGR) Merge(v1, v2 Vertex) {
	if v1 == v2 || g.il[v1] >= g.noV || g.il[v2] >= g.noV {
		return
	}

	g.swapOut(v2)
	if v2.Sigma() != v1 {
		g.swapOut(v2.Sigma())
	}

	for _, src := range g.InNeighbors(v2, nil) {
		g.out[src].remove(v2)
		if !g.out[src].insert(v1) {
			g.noE--
		}
	}
	if v2.Sigma() != v1 {
		for _, src := range g.InNeighbors(v2.Sigma(), nil) {
			g.out[src].remove(v2.Sigma())
			if !g.out[src].insert(v1.Sigma()) {
				g.noE--
			}
		}
	}

	for _, w := range g.out[v2] {
		if !g.out[v1].insert(w) {
			g.noE--
		}
	}
	if g.out[v1].remove(v1) {
		g.noE--
	}
	g.out[v2] = nil

	if v2.Sigma() != v1 {
		for _, w := range g.out[v2.Sigma()] {
			if !g.out[v1.Sigma()].insert(w) {
				g.noE--
			}
		}
		if g.out[v1.Sigma()].remove(v1.Sigma()) {
			g.noE--
		}
		g.out[v2.Sigma()] = nil
	}
}

func (g *graphLHGR) String() string { return graphString(g) }

func (g *graphLHGR) Snapshot() graphSnapshot {
	out := make([]sortedAdj, len(g.out))
	for i, s := range g.out {
		out[i] = append(sortedAdj(nil), s...)
	}
	return graphLHGRSnapshot{noV: g.noV, noE: g.noE, out: out}
}

func (g *graphLHGR) Restore(s graphSnapshot) {
	snap := s.(graphLHGRSnapshot)
	g.noV = snap.noV
	g.noE = snap.noE
	g.out = make([]sortedAdj, len(snap.out))
	for i, set := range snap.out {
		g.out[i] = append(sortedAdj(nil), set...)
	}
}
