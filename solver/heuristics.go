package solver

// Decision heuristics. Each returns a pair of linear systems whose
// disjunction is a tautology: the DPLL loop asserts the first and keeps the
// second as the alternative to try after backtracking.

// decide dispatches to the configured heuristic.
func (ig *ImplGraph) decide() (*LinEqs, *LinEqs) {
	switch ig.opts.Heuristic {
	case FirstVert:
		return ig.firstVert()
	case MaxPath:
		if ig.opts.ScoreActive {
			return ig.maxScorePath()
		}
		return ig.maxPath()
	case MaxReach:
		return ig.maxReach()
	case MaxBottleneck:
		return ig.maxBottleneck()
	case Lex:
		return ig.lex()
	default:
		return ig.maxPath()
	}
}

// firstVert branches on the leading term of the first live vertex with a
// positive leading term: x_lt = 0, or x_lt = 1 on backtrack.
func (ig *ImplGraph) firstVert() (*LinEqs, *LinEqs) {
	verts := ig.g.Vertices()
	var lt Var
	for i := 0; lt == 0; i++ {
		lt = ig.vl.LT(verts[i])
	}
	lit := NewLineral([]Var{lt})
	return NewLinEqs(lit), NewLinEqs(lit.PlusOne())
}

// treeScores initializes the per-vertex score: 1, or the activity of the
// leading term under active scoring.
func (ig *ImplGraph) treeScores(active bool) []int64 {
	score := make([]int64, ig.noVT)
	for _, v := range ig.g.Vertices() {
		if active {
			score[v] = int64(ig.activity[ig.vl.LT(v)])
		} else {
			score[v] = 1
		}
	}
	return score
}

// coneSystem collects the labels of the cone grown from v along the given
// neighbour direction, complementing each label when complement is set. A
// cone reaching both a vertex and its sigma partner collapses to the
// inconsistent system.
func (ig *ImplGraph) coneSystem(v Vertex, forward, complement bool) *LinEqs {
	var lits []Lineral
	marked := make([]bool, ig.noVT)
	stack := []Vertex{v}
	marked[v] = true
	for len(stack) > 0 {
		u := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if marked[u.Sigma()] {
			lits = []Lineral{One()}
			break
		}
		l := ig.vl.Label(u)
		if complement {
			l.AddOne()
		}
		lits = append(lits, l)
		if forward {
			ig.bufN = ig.g.OutNeighbors(u, ig.bufN[:0])
		} else {
			ig.bufN = ig.g.InNeighbors(u, ig.bufN[:0])
		}
		for _, w := range ig.bufN {
			if !marked[w] {
				marked[w] = true
				stack = append(stack, w)
			}
		}
	}
	return newLinEqsOwned(lits)
}

// maxReach branches on the vertex with the largest forward cone: either its
// whole forward cone holds, or the backward cone is complemented.
func (ig *ImplGraph) maxReach() (*LinEqs, *LinEqs) {
	score := ig.treeScores(ig.opts.ScoreActive)
	to := ig.topologicalOrder()
	vMax := ig.g.Vertices()[0]
	for i := len(to) - 1; i >= 0; i-- {
		v := to[i]
		ig.bufN = ig.g.OutNeighbors(v, ig.bufN[:0])
		for _, w := range ig.bufN {
			score[v] += score[w]
		}
		if score[v] > score[vMax] {
			vMax = v
		}
	}
	return ig.coneSystem(vMax, true, false), ig.coneSystem(vMax, false, true)
}

// maxBottleneck branches on the vertex maximizing in-cone plus out-cone
// score, with the same cone construction as maxReach.
func (ig *ImplGraph) maxBottleneck() (*LinEqs, *LinEqs) {
	inScore := ig.treeScores(true)
	outScore := ig.treeScores(true)
	to := ig.topologicalOrder()
	vMax := ig.g.Vertices()[0]
	for _, v := range to {
		ig.bufN = ig.g.InNeighbors(v, ig.bufN[:0])
		for _, w := range ig.bufN {
			inScore[v] += inScore[w]
		}
	}
	for i := len(to) - 1; i >= 0; i-- {
		v := to[i]
		ig.bufN = ig.g.OutNeighbors(v, ig.bufN[:0])
		for _, w := range ig.bufN {
			outScore[v] += outScore[w]
		}
		inScore[v] += outScore[v]
		if inScore[v] > inScore[vMax] {
			vMax = v
		}
	}
	return ig.coneSystem(vMax, true, false), ig.coneSystem(vMax, false, true)
}

// lex branches on the smallest variable not yet fixed by a unit row of any
// asserted system; the guessing path, when given, is already folded into
// the variable numbering by the parser.
func (ig *ImplGraph) lex() (*LinEqs, *LinEqs) {
	assigned := make([]bool, ig.opts.NumVars+1)
	for _, lvl := range ig.xsysStack {
		for _, sys := range lvl {
			for _, lt := range sys.Pivots() {
				if row, ok := sys.PivotRow(lt); ok && row.Size() == 1 {
					assigned[lt] = true
				}
			}
		}
	}
	for i := Var(1); int(i) <= ig.opts.NumVars; i++ {
		if !assigned[i] {
			lit := NewLineral([]Var{i})
			return NewLinEqs(lit), NewLinEqs(lit.PlusOne())
		}
	}
	panic("lex heuristic found no unassigned variable")
}

// maxPath branches on the longest path v0 -> ... -> vk of the DAG: either
// all consecutive label sums vanish, collapsing the path into a cycle, or
// the start holds and the end fails, forbidding it.
func (ig *ImplGraph) maxPath() (*LinEqs, *LinEqs) {
	if ig.g.NoE() == 0 {
		return ig.firstVert()
	}
	pathLen := make([]int, ig.noVT)
	pathNext := make([]Vertex, ig.noVT)
	to := ig.topologicalOrder()
	for _, v := range to {
		pathLen[v] = 1
	}
	vSrc := ig.g.Vertices()[0]
	for i := len(to) - 1; i >= 0; i-- {
		v := to[i]
		if ig.g.OutDegree(v) == 0 {
			pathNext[v] = v
		}
		ig.bufN = ig.g.OutNeighbors(v, ig.bufN[:0])
		for _, w := range ig.bufN {
			if pathLen[w]+1 > pathLen[v] {
				pathLen[v] = pathLen[w] + 1
				pathNext[v] = w
			}
		}
		if pathLen[v] > pathLen[vSrc] {
			vSrc = v
		}
	}

	cycleLits := make([]Lineral, 0, pathLen[vSrc])
	v := vSrc
	for i := 0; i < pathLen[vSrc]; i++ {
		cycleLits = append(cycleLits, ig.vxlitSum(v, pathNext[v]))
		v = pathNext[v]
	}
	first := ig.vl.Label(vSrc)
	first.AddOne()
	noCycle := NewLinEqs(first, ig.vl.Label(v))
	return newLinEqsOwned(cycleLits), noCycle
}

// maxScorePath is maxPath with the DP maximizing accumulated activity
// score; longer paths win ties through their larger sums.
func (ig *ImplGraph) maxScorePath() (*LinEqs, *LinEqs) {
	if ig.g.NoE() == 0 {
		return ig.firstVert()
	}
	pathScore := make([]int64, ig.noVT)
	pathLen := make([]int, ig.noVT)
	pathNext := make([]Vertex, ig.noVT)
	to := ig.topologicalOrder()
	vSrc := ig.g.Vertices()[0]
	for i := len(to) - 1; i >= 0; i-- {
		v := to[i]
		pathScore[v] = int64(ig.activity[ig.vl.LT(v)])
		pathLen[v] = 1
		if ig.g.OutDegree(v) == 0 {
			pathNext[v] = v
		} else {
			var best int64
			ig.bufN = ig.g.OutNeighbors(v, ig.bufN[:0])
			for _, w := range ig.bufN {
				if pathScore[w] > best {
					best = pathScore[w]
					pathNext[v] = w
					pathLen[v] = pathLen[w] + 1
				}
			}
			pathScore[v] += best
		}
		if pathScore[v] > pathScore[vSrc] {
			vSrc = v
		}
	}

	if pathLen[vSrc] <= 1 {
		// nothing to chain: guess the single vertex
		l := ig.vl.Label(vSrc)
		neg := l
		neg.AddOne()
		return NewLinEqs(neg), NewLinEqs(l)
	}

	cycleLits := make([]Lineral, 0, pathLen[vSrc])
	v := vSrc
	for i := 0; i < pathLen[vSrc]; i++ {
		cycleLits = append(cycleLits, ig.vxlitSum(v, pathNext[v]))
		v = pathNext[v]
	}
	first := ig.vl.Label(vSrc)
	first.AddOne()
	noCycle := NewLinEqs(first, ig.vl.Label(v))
	return newLinEqsOwned(cycleLits), noCycle
}
