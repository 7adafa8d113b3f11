package solver

// Failed-lineral search: derive unit linerals by detecting that assuming a
// source vertex propagates to both some lineral and its complement. Three
// variants trade power against cost; all reduce their findings into a fresh
// linear system for the caller to assert.

// flsNone is the disabled search.
func (ig *ImplGraph) flsNone() *LinEqs {
	return NewLinEqs()
}

// failingRoots runs a forward DFS from every root in roots. Whenever the DFS
// from a root r reaches a vertex v whose sigma partner r has already
// claimed, r fails; the returned slice holds these vertices v, not the
// roots themselves.
func (ig *ImplGraph) failingRoots(roots []Vertex) []Vertex {
	var failing []Vertex
	marked := make([]bool, ig.noVT)
	markRoot := make([]Vertex, ig.noVT)
	var dfs []Vertex
	for _, r := range roots {
		dfs = append(dfs[:0], r)
		for len(dfs) > 0 {
			v := dfs[len(dfs)-1]
			dfs = dfs[:len(dfs)-1]
			if marked[v] {
				continue
			}
			if marked[v.Sigma()] && markRoot[v.Sigma()] == r {
				failing = append(failing, v)
			}
			marked[v] = true
			markRoot[v] = r
			ig.bufN = ig.g.OutNeighbors(v, ig.bufN[:0])
			for _, n := range ig.bufN {
				if !marked[n] {
					dfs = append(dfs, n)
				}
			}
		}
	}
	return failing
}

// complementForced returns, for every failing vertex r, the complements of
// the labels of the vertices implying both r and sigma(r): the ancestor sets
// of r and sigma(r) are intersected and each shared vertex label is negated.
func (ig *ImplGraph) complementForced(failing []Vertex) []Lineral {
	var lits []Lineral
	marked := make([]bool, ig.noVT)
	markedSigma := make([]bool, ig.noVT)
	var dfs []Vertex
	for _, r := range failing {
		for i := range marked {
			marked[i] = false
			markedSigma[i] = false
		}
		// ascending DFS from r
		dfs = append(dfs[:0], r)
		for len(dfs) > 0 {
			v := dfs[len(dfs)-1]
			dfs = dfs[:len(dfs)-1]
			if marked[v] {
				continue
			}
			marked[v] = true
			ig.bufN = ig.g.InNeighbors(v, ig.bufN[:0])
			for _, n := range ig.bufN {
				if !marked[n] {
					dfs = append(dfs, n)
				}
			}
		}
		// ascending DFS from sigma(r); the intersection fails
		dfs = append(dfs[:0], r.Sigma())
		for len(dfs) > 0 {
			v := dfs[len(dfs)-1]
			dfs = dfs[:len(dfs)-1]
			if markedSigma[v] {
				continue
			}
			markedSigma[v] = true
			if marked[v] {
				l := ig.vl.Label(v)
				l.AddOne()
				lits = append(lits, l)
			}
			ig.bufN = ig.g.InNeighbors(v, ig.bufN[:0])
			for _, n := range ig.bufN {
				if !markedSigma[n] {
					dfs = append(dfs, n)
				}
			}
		}
	}
	return lits
}

// flsTrivial searches from every source vertex.
func (ig *ImplGraph) flsTrivial() *LinEqs {
	failing := ig.failingRoots(ig.roots())
	return newLinEqsOwned(ig.complementForced(failing))
}

// flsTrivialCC restricts the search to sources whose weakly connected
// component also contains their sigma partner.
func (ig *ImplGraph) flsTrivialCC() *LinEqs {
	label := ig.labelComponents()
	var roots []Vertex
	for _, v := range ig.g.Vertices() {
		if ig.g.InDegree(v) == 0 && label[v] == label[v.Sigma()] {
			roots = append(roots, v)
		}
	}
	failing := ig.failingRoots(roots)
	return newLinEqsOwned(ig.complementForced(failing))
}

// downwardSpans walks a reverse topological order and accumulates, for each
// vertex, the span of the labels reachable from it (itself included).
func (ig *ImplGraph) downwardSpans(to []Vertex) []*LinEqs {
	spans := make([]*LinEqs, ig.noVT)
	for i := len(to) - 1; i >= 0; i-- {
		v := to[i]
		if spans[v] == nil {
			spans[v] = NewLinEqs()
		}
		spans[v].Add(ig.vl.Label(v))
		ig.bufN = ig.g.InNeighbors(v, ig.bufN[:0])
		for _, w := range ig.bufN {
			if spans[w] == nil {
				spans[w] = NewLinEqs()
			}
			spans[w].Union(spans[v])
		}
	}
	return spans
}

// flsFull computes the downward spans of all vertices; a vertex whose span
// is inconsistent fails by itself, and each pair (v, sigma(v)) contributes
// the intersection of the two spans, which holds exactly the linerals
// implied by both branches.
func (ig *ImplGraph) flsFull() *LinEqs {
	to := ig.topologicalOrder()
	if to == nil {
		return NewLinEqs()
	}
	var lits []Lineral
	spans := make([]*LinEqs, ig.noVT)
	for i := len(to) - 1; i >= 0; i-- {
		v := to[i]
		f := ig.vl.Label(v)
		if spans[v] == nil {
			spans[v] = NewLinEqs()
		}
		spans[v].Add(f)
		ig.bufN = ig.g.InNeighbors(v, ig.bufN[:0])
		for _, w := range ig.bufN {
			if spans[w] == nil {
				spans[w] = NewLinEqs()
			}
			spans[w].Union(spans[v])
		}
		if !spans[v].IsConsistent() {
			f.AddOne()
			lits = append(lits, f)
		}
	}

	marked := make([]bool, ig.noVT)
	for _, v := range ig.g.Vertices() {
		if marked[v.Sigma()] {
			continue
		}
		marked[v] = true
		lits = append(lits, Intersect(spans[v], spans[v.Sigma()])...)
	}
	return newLinEqsOwned(lits)
}
