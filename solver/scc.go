package solver

// Strongly-connected-component analysis, Kosaraju style: a DFS over the
// graph fills a stack by finishing time, a second DFS over the reverse
// graph pops it to enumerate components. All vertices of a component imply
// each other, so the sums label(root)+label(v) must vanish; they are
// emitted as a new linear system and the component is contracted into its
// root. A component containing a vertex and its sigma partner makes the
// instance inconsistent.

// sccFillOrder pushes every vertex reachable from v onto the stack after
// its whole out-neighbourhood has been visited.
func (ig *ImplGraph) sccFillOrder(v Vertex, visited []bool, stack *[]Vertex) {
	visited[v] = true
	type frame struct {
		v    Vertex
		next int
		ns   []Vertex
	}
	frames := []frame{{v: v, ns: ig.g.OutNeighbors(v, nil)}}
	for len(frames) > 0 {
		f := &frames[len(frames)-1]
		advanced := false
		for f.next < len(f.ns) {
			w := f.ns[f.next]
			f.next++
			if !visited[w] {
				visited[w] = true
				frames = append(frames, frame{v: w, ns: ig.g.OutNeighbors(w, nil)})
				advanced = true
				break
			}
		}
		if !advanced {
			*stack = append(*stack, f.v)
			frames = frames[:len(frames)-1]
		}
	}
}

// sccCollect walks the reverse graph from the root rt, clearing visited
// flags; every vertex found belongs to rt's component.
func (ig *ImplGraph) sccCollect(rt Vertex, visited []bool, lits *[]Lineral, mergeList *[][2]Vertex) {
	stack := []Vertex{rt}
	visited[rt] = false
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if v != rt {
			*lits = append(*lits, ig.vxlitSum(rt, v))
			*mergeList = append(*mergeList, [2]Vertex{rt, v})
		}
		ig.bufN = ig.g.InNeighbors(v, ig.bufN[:0])
		for _, w := range ig.bufN {
			if visited[w] {
				visited[w] = false
				stack = append(stack, w)
			}
		}
	}
}

// sccAnalysis contracts every strongly connected component into its root
// and returns the linear system of the label sums forced by the cycles.
func (ig *ImplGraph) sccAnalysis() *LinEqs {
	visited := make([]bool, ig.noVT)
	var order []Vertex
	for _, v := range ig.g.Vertices() {
		if !visited[v] {
			ig.sccFillOrder(v, visited, &order)
		}
	}

	var lits []Lineral
	var mergeList [][2]Vertex
	for i := len(order) - 1; i >= 0; i-- {
		v := order[i]
		if visited[v] {
			n := len(mergeList)
			ig.sccCollect(v, visited, &lits, &mergeList)
			// the sigma image of a component is a component too; skip it
			visited[v.Sigma()] = false
			for _, m := range mergeList[n:] {
				visited[m[1].Sigma()] = false
			}
		}
	}

	scc := newLinEqsOwned(lits)
	if scc.IsConsistent() {
		for _, m := range mergeList {
			ig.g.Merge(m[0], m[1])
			if ig.vl.HasExact(m[1]) {
				ig.vl.Erase(m[1])
			} else if ig.vl.HasExact(m[1].Sigma()) {
				ig.vl.Erase(m[1].Sigma())
			}
		}
	}
	return scc
}
