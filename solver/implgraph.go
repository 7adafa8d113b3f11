package solver

import (
	"errors"
	"sort"
	"sync/atomic"

	"github.com/crillab/xornado/logger"
)

// ErrNot2XNF is returned when a clause holds more than two linerals.
var ErrNot2XNF = errors.New("given clauses are not in 2-XNF")

// An ImplGraph is the implication-graph engine driving the DPLL search on a
// 2-XNF instance. It owns a skew-symmetric graph whose vertices are labeled
// with linerals, the per-level stacks of linear systems, and the snapshots
// needed for chronological backtracking.
type ImplGraph struct {
	g    skewGraph
	vl   vertLabel
	noVT int // total vertex id space; live vertices are a subset

	graphStack []graphSnapshot
	xsysStack  [][]*LinEqs // one list of linear systems per decision level

	activity []uint32
	bump     uint32
	decay    float64

	opts   Options
	status Status
	model  []bool

	cancel atomic.Bool

	// Stats accumulates statistics about the solving process.
	Stats Stats

	// scratch buffers reused across graph traversals
	bufN []Vertex
}

// New builds the implication graph for the given 2-XNF clause list. Unit
// clauses feed the initial linear system; a clause {f, g} with f = g+1 is
// dropped and one with f = g is treated as the unit f. Depending on the
// configured graph form each remaining clause contributes the implication
// f+1 -> g, or additionally f+g -> f and f+g -> g, with all symmetric
// partners. Preprocessing runs as configured before New returns.
func New(clauses [][]Lineral, opts Options) (*ImplGraph, error) {
	if opts.FLSSchedule < 1 {
		opts.FLSSchedule = 1
	}
	ig := &ImplGraph{opts: opts, bump: 1, decay: 0.9}

	for {
		if err := ig.build(clauses); err != nil {
			return nil, err
		}
		if ig.cancel.Load() {
			logger.Logger().Debug().Msg("cancelled during preprocessing")
			return ig, nil
		}
		ig.preprocess()

		if ig.opts.Preprocess != PreprocessFLSSCCEE {
			return ig, nil
		}
		extended, more := ig.extendEdges()
		if !more {
			return ig, nil
		}
		clauses = extended
	}
}

// build constructs graph, labels and level-0 systems from scratch.
func (ig *ImplGraph) build(clauses [][]Lineral) error {
	perClause := 2
	if ig.opts.Form == Extended {
		perClause = 6
	}
	ig.vl = newVertLabel(perClause * len(clauses))
	ig.graphStack = nil
	ig.xsysStack = nil

	var initial []Lineral
	var edges [][2]Vertex
	noV := 0

	for _, cls := range clauses {
		if len(cls) == 0 {
			continue
		}
		if len(cls) == 1 {
			initial = append(initial, cls[0])
			continue
		}
		if len(cls) > 2 {
			return ErrNot2XNF
		}
		f, g := cls[0], cls[1]
		fpg := f.Add(g)
		if f.Equal(g) {
			initial = append(initial, f)
		}
		if fpg.IsOne() || f.Equal(g) {
			continue
		}

		vlits := []Lineral{f, g}
		if ig.opts.Form == Extended {
			vlits = append(vlits, fpg)
		}
		for _, l := range vlits {
			if ig.vl.HasLineral(l) {
				continue
			}
			if l.HasConstant() {
				l = l.PlusOne()
			}
			if ins, _ := ig.vl.Insert(Vertex(noV), l); ins {
				noV += 2
			}
		}

		vf, _ := ig.vl.VertexOf(f)
		vg, _ := ig.vl.VertexOf(g)
		edges = append(edges, [2]Vertex{vf.Sigma(), vg})
		if ig.opts.Form == Extended {
			vfpg, _ := ig.vl.VertexOf(fpg)
			edges = append(edges, [2]Vertex{vfpg, vf}, [2]Vertex{vfpg, vg})
		}
	}

	sort.Slice(edges, func(i, j int) bool {
		if edges[i][0] != edges[j][0] {
			return edges[i][0] < edges[j][0]
		}
		return edges[i][1] < edges[j][1]
	})

	ig.noVT = noV
	ig.g = newGraph(edges, noV)

	ig.xsysStack = [][]*LinEqs{{newLinEqsOwned(initial)}}
	ig.vl.Snapshot()
	ig.graphStack = []graphSnapshot{ig.g.Snapshot()}

	ig.activity = make([]uint32, ig.opts.NumVars+1)
	for i := range ig.activity {
		ig.activity[i] = 1
	}
	for _, v := range ig.g.Vertices() {
		ig.activity[ig.vl.LT(v)]++
	}
	return nil
}

// Interrupt asks the solver to stop; the next polled iteration exits with
// status Indet.
func (ig *ImplGraph) Interrupt() {
	ig.cancel.Store(true)
}

// Status returns the current solver status.
func (ig *ImplGraph) Status() Status {
	return ig.status
}

// Options returns the solver options.
func (ig *ImplGraph) Options() *Options {
	return &ig.opts
}

// Dl returns the current decision level.
func (ig *ImplGraph) Dl() int {
	return len(ig.graphStack) - 1
}

// linsys returns the most recently asserted linear system.
func (ig *ImplGraph) linsys() *LinEqs {
	lvl := ig.xsysStack[len(ig.xsysStack)-1]
	return lvl[len(lvl)-1]
}

// addXSys appends a linear system to the current decision level.
func (ig *ImplGraph) addXSys(sys *LinEqs) {
	n := len(ig.xsysStack) - 1
	ig.xsysStack[n] = append(ig.xsysStack[n], sys)
}

// vxlitSum returns label(v1) + label(v2), resolving labels only stored via
// sigma with the appropriate constant bookkeeping.
func (ig *ImplGraph) vxlitSum(v1, v2 Vertex) Lineral {
	c1 := ig.vl.HasExact(v1)
	c2 := ig.vl.HasExact(v2)
	switch {
	case c1 && c2:
		return ig.vl.Sum(v1, v2)
	case c1 && !c2:
		out := ig.vl.Sum(v1, v2.Sigma())
		out.AddOne()
		return out
	case !c1 && c2:
		out := ig.vl.Sum(v1.Sigma(), v2)
		out.AddOne()
		return out
	default:
		return ig.vl.Sum(v1.Sigma(), v2.Sigma())
	}
}

// roots returns all live vertices with in-degree 0.
func (ig *ImplGraph) roots() []Vertex {
	var roots []Vertex
	for _, v := range ig.g.Vertices() {
		if ig.g.InDegree(v) == 0 {
			roots = append(roots, v)
		}
	}
	return roots
}

// topologicalOrder returns a topological order of the live vertices via
// Kahn's algorithm, or nil if the graph has a cycle.
func (ig *ImplGraph) topologicalOrder() []Vertex {
	inDeg := make([]int, ig.noVT)
	var queue []Vertex
	for _, v := range ig.g.Vertices() {
		inDeg[v] = ig.g.InDegree(v)
		if inDeg[v] == 0 {
			queue = append(queue, v)
		}
	}
	to := make([]Vertex, 0, ig.g.NoV())
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		to = append(to, v)
		ig.bufN = ig.g.OutNeighbors(v, ig.bufN[:0])
		for _, w := range ig.bufN {
			inDeg[w]--
			if inDeg[w] == 0 {
				queue = append(queue, w)
			}
		}
	}
	if len(to) < ig.g.NoV() {
		return nil
	}
	return to
}

// isDAG reports whether the live graph is acyclic.
func (ig *ImplGraph) isDAG() bool {
	return ig.g.NoV() == 0 || ig.topologicalOrder() != nil
}

// labelComponents assigns every live vertex the root of its weakly
// connected component. The returned slice is indexed by vertex id; dead
// vertices keep the sentinel value noVT.
func (ig *ImplGraph) labelComponents() []Vertex {
	sentinel := Vertex(ig.noVT)
	label := make([]Vertex, ig.noVT)
	for i := range label {
		label[i] = sentinel
	}
	var queue []Vertex
	for _, rt := range ig.g.Vertices() {
		if label[rt] != sentinel {
			continue
		}
		queue = append(queue[:0], rt)
		for len(queue) > 0 {
			v := queue[0]
			queue = queue[1:]
			if label[v] != sentinel {
				continue
			}
			label[v] = rt
			queue = ig.g.InNeighbors(v, queue)
			queue = ig.g.OutNeighbors(v, queue)
		}
	}
	return label
}

// isDescendant reports whether dst is reachable from src.
func (ig *ImplGraph) isDescendant(src, dst Vertex) bool {
	if src == dst {
		return true
	}
	seen := make([]bool, ig.noVT)
	stack := []Vertex{src}
	seen[src] = true
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		ig.bufN = ig.g.OutNeighbors(v, ig.bufN[:0])
		for _, w := range ig.bufN {
			if w == dst {
				return true
			}
			if !seen[w] {
				seen[w] = true
				stack = append(stack, w)
			}
		}
	}
	return false
}

// pushLevel opens a new decision level: graph and label snapshots plus a
// fresh system list.
func (ig *ImplGraph) pushLevel() {
	ig.graphStack = append(ig.graphStack, ig.g.Snapshot())
	ig.vl.Snapshot()
	ig.xsysStack = append(ig.xsysStack, nil)
}

// popLevel undoes the innermost decision level.
func (ig *ImplGraph) popLevel() {
	n := len(ig.graphStack) - 1
	ig.g.Restore(ig.graphStack[n])
	ig.graphStack = ig.graphStack[:n]
	ig.vl.Restore()
	ig.xsysStack = ig.xsysStack[:len(ig.xsysStack)-1]
}
