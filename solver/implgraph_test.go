package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cls is a shorthand for building a clause from index lists; an index 0
// inside a list complements the lineral.
func cls(lits ...[]Var) []Lineral {
	out := make([]Lineral, len(lits))
	for i, idxs := range lits {
		out[i] = NewLineral(idxs)
	}
	return out
}

func TestImplGraphConstructionLinearOnly(t *testing.T) {
	// all clauses reduce to units: no vertices, only the initial system
	clauses := [][]Lineral{
		cls([]Var{1}),
		cls([]Var{1}, []Var{1}),
		cls([]Var{1, 2, 4}),
	}
	ig, err := New(clauses, DefaultOptions(4, len(clauses)))
	require.NoError(t, err)
	assert.Equal(t, 0, ig.g.NoV())
	assert.Equal(t, 0, ig.g.NoE())
	assert.True(t, ig.linsys().IsConsistent())
	assert.Equal(t, 2, ig.linsys().Dim())
}

func TestImplGraphConstructionSingleClause(t *testing.T) {
	clauses := [][]Lineral{cls([]Var{1}, []Var{2})}

	opts := DefaultOptions(4, 1)
	ig, err := New(clauses, opts)
	require.NoError(t, err)
	// extended form: vertices for f, g, f+g and their partners
	assert.Equal(t, 6, ig.g.NoV())
	// edges f+1->g, f+g->f, f+g->g and their symmetric partners
	assert.Equal(t, 6, ig.g.NoE())
	require.NoError(t, checkSkewSymmetry(ig.g))

	opts.Form = Simple
	ig2, err := New(clauses, opts)
	require.NoError(t, err)
	assert.Equal(t, 4, ig2.g.NoV())
	assert.Equal(t, 2, ig2.g.NoE())
}

func TestImplGraphTautologyDropped(t *testing.T) {
	// {l, l+1} is trivially true and contributes nothing
	clauses := [][]Lineral{cls([]Var{1, 2}, []Var{1, 2, 0})}
	ig, err := New(clauses, DefaultOptions(2, 1))
	require.NoError(t, err)
	assert.Equal(t, 0, ig.g.NoV())
	assert.Equal(t, 0, ig.linsys().Dim())
}

func TestImplGraphRejectsWideClauses(t *testing.T) {
	clauses := [][]Lineral{cls([]Var{1}, []Var{2}, []Var{3})}
	_, err := New(clauses, DefaultOptions(3, 1))
	assert.ErrorIs(t, err, ErrNot2XNF)
}

func TestSCCAnalysisSymmetricalComps(t *testing.T) {
	// x1+1 v x2, x2+1 v x3, x3+1 v x1 builds a 3-cycle whose contraction
	// forces x1+x3 and x2+x3
	clauses := [][]Lineral{
		cls([]Var{0, 1}, []Var{2}),
		cls([]Var{0, 2}, []Var{3}),
		cls([]Var{0, 3}, []Var{1}),
	}
	opts := DefaultOptions(3, 3)
	opts.Form = Simple
	ig, err := New(clauses, opts)
	require.NoError(t, err)

	scc := ig.sccAnalysis()
	assert.Equal(t, "x1+x3 x2+x3", scc.String())
	assert.True(t, scc.IsConsistent())
	require.NoError(t, checkSkewSymmetry(ig.g))
}

func TestSCCAnalysisSelfSymmetricalComp(t *testing.T) {
	clauses := [][]Lineral{
		cls([]Var{0, 1}, []Var{2}),
		cls([]Var{0, 2}, []Var{0, 1}),
		cls([]Var{1}, []Var{0, 3}),
		cls([]Var{3}, []Var{4}),
		cls([]Var{0, 4}, []Var{1}),
	}
	opts := DefaultOptions(4, 5)
	opts.Form = Simple
	ig, err := New(clauses, opts)
	require.NoError(t, err)

	scc := ig.sccAnalysis()
	assert.Equal(t, 4, scc.Dim())
	assert.False(t, scc.IsConsistent())
}

func TestUpdateGraphMergesEqualLabels(t *testing.T) {
	// x1 v x3, x2 v x3: asserting x1+x2 = 0 makes the labels x1 and x2
	// collapse onto one vertex
	clauses := [][]Lineral{
		cls([]Var{1}, []Var{3}),
		cls([]Var{2}, []Var{3}),
	}
	opts := DefaultOptions(3, 2)
	opts.Form = Simple
	ig, err := New(clauses, opts)
	require.NoError(t, err)
	noV := ig.g.NoV()

	ig.addXSys(NewLinEqs(NewLineral([]Var{1, 2})))
	ig.updateGraph(ig.linsys())
	assert.Equal(t, noV-2, ig.g.NoV())
	require.NoError(t, checkSkewSymmetry(ig.g))
}

func TestUpdateGraphZeroExtraction(t *testing.T) {
	// the clause {x1, x2} is the Boolean "not x1 or not x2"
	clauses := [][]Lineral{cls([]Var{1}, []Var{2})}
	opts := DefaultOptions(2, 1)
	opts.Form = Simple
	ig, err := New(clauses, opts)
	require.NoError(t, err)

	// making x1 false satisfies the clause outright: nothing is forced
	ig.addXSys(NewLinEqs(NewLineral([]Var{1})))
	implied := ig.updateGraph(ig.linsys())
	assert.Equal(t, 0, implied.Size())
	require.NoError(t, checkSkewSymmetry(ig.g))

	// making x1 true realizes the zero label and forces "not x2"
	ig2, err := New(clauses, opts)
	require.NoError(t, err)
	ig2.addXSys(NewLinEqs(NewLineral([]Var{1, 0})))
	implied2 := ig2.updateGraph(ig2.linsys())
	sys := NewLinEqs(implied2.Rows()...)
	assert.True(t, sys.ContainsLt(2))
	require.NoError(t, checkSkewSymmetry(ig2.g))
}

func TestCrGCPFixedPointIsDAG(t *testing.T) {
	clauses := [][]Lineral{
		cls([]Var{0, 1}, []Var{2}),
		cls([]Var{0, 2}, []Var{3}),
		cls([]Var{0, 3}, []Var{1}),
	}
	opts := DefaultOptions(3, 3)
	opts.Form = Simple
	ig, err := New(clauses, opts)
	require.NoError(t, err)

	ig.crGCP(true)
	require.True(t, ig.linsys().IsConsistent())
	assert.True(t, ig.isDAG())

	// idempotence: a second run on the fixed point deduces nothing
	before := len(ig.xsysStack[0])
	ig.crGCP(true)
	assert.Equal(t, before, len(ig.xsysStack[0]))
}

func TestFLSTrivialFindsFailedRoot(t *testing.T) {
	// assuming the lineral x1 (x1 = 0) forces both x2+1 and x2:
	//   {x1+1, x2+1} and {x1+1, x2}, i.e. x1 -> x2+1 and x1 -> x2
	clauses := [][]Lineral{
		cls([]Var{0, 1}, []Var{2, 0}),
		cls([]Var{0, 1}, []Var{2}),
	}
	opts := DefaultOptions(2, 2)
	opts.Form = Simple
	ig, err := New(clauses, opts)
	require.NoError(t, err)

	fls := ig.flsTrivial()
	require.Greater(t, fls.Size(), 0)
	// x1 = 0 fails, so x1+1 is learned: the system pivots on x1 and fixes
	// x1 = 1
	assert.True(t, fls.ContainsLt(1))
}

func TestFLSFullAgreesOnFailedRoot(t *testing.T) {
	clauses := [][]Lineral{
		cls([]Var{0, 1}, []Var{2, 0}),
		cls([]Var{0, 1}, []Var{2}),
	}
	opts := DefaultOptions(2, 2)
	opts.Form = Simple
	ig, err := New(clauses, opts)
	require.NoError(t, err)

	fls := ig.flsFull()
	require.Greater(t, fls.Size(), 0)
	assert.True(t, fls.ContainsLt(1))
}

func TestTopologicalOrderAndRoots(t *testing.T) {
	clauses := [][]Lineral{
		cls([]Var{0, 1}, []Var{2}),
		cls([]Var{0, 2}, []Var{3}),
	}
	opts := DefaultOptions(3, 2)
	opts.Form = Simple
	ig, err := New(clauses, opts)
	require.NoError(t, err)

	to := ig.topologicalOrder()
	require.Len(t, to, ig.g.NoV())
	pos := make(map[Vertex]int, len(to))
	for i, v := range to {
		pos[v] = i
	}
	for _, v := range ig.g.Vertices() {
		for _, w := range ig.g.OutNeighbors(v, nil) {
			assert.Less(t, pos[v], pos[w], "edge %d->%d violates the order", v, w)
		}
	}
	for _, r := range ig.roots() {
		assert.Equal(t, 0, ig.g.InDegree(r))
	}
}

func TestSnapshotSoundnessAcrossLevels(t *testing.T) {
	clauses := [][]Lineral{
		cls([]Var{1}, []Var{2}),
		cls([]Var{0, 2}, []Var{3}),
	}
	opts := DefaultOptions(3, 2)
	ig, err := New(clauses, opts)
	require.NoError(t, err)

	wantGraph := ig.g.String()
	wantVl := ig.vl.String()
	wantLevels := len(ig.xsysStack)

	ig.pushLevel()
	ig.addXSys(NewLinEqs(NewLineral([]Var{1})))
	ig.crGCP(true)
	ig.popLevel()

	assert.Equal(t, wantGraph, ig.g.String())
	assert.Equal(t, wantVl, ig.vl.String())
	assert.Equal(t, wantLevels, len(ig.xsysStack))
	require.NoError(t, checkSkewSymmetry(ig.g))
}
