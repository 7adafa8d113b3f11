package solver

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// graphImpls builds the same graph in every representation; the contract
// tests run against each.
var graphImpls = []struct {
	name string
	make func(edges [][2]Vertex, noV int) skewGraph
}{
	{"al", func(edges [][2]Vertex, noV int) skewGraph { return newGraphAL(edges, noV) }},
	{"lhgr", func(edges [][2]Vertex, noV int) skewGraph { return newGraphLHGR(edges, noV) }},
}

func TestGraphConstruction(t *testing.T) {
	for _, impl := range graphImpls {
		t.Run(impl.name, func(t *testing.T) {
			g := impl.make([][2]Vertex{{0, 2}, {2, 4}}, 6)
			require.NoError(t, checkSkewSymmetry(g))
			assert.Equal(t, 6, g.NoV())
			// each edge brings its symmetric partner
			assert.Equal(t, 4, g.NoE())
			assert.ElementsMatch(t, []Vertex{2}, g.OutNeighbors(0, nil))
			assert.ElementsMatch(t, []Vertex{1}, g.OutNeighbors(3, nil))
			assert.ElementsMatch(t, []Vertex{0}, g.InNeighbors(2, nil))
			assert.Equal(t, 1, g.InDegree(2))
			assert.Equal(t, 1, g.OutDegree(2))
		})
	}
}

func TestGraphSelfSymmetricEdge(t *testing.T) {
	for _, impl := range graphImpls {
		t.Run(impl.name, func(t *testing.T) {
			// (v, sigma(v)) is its own symmetric partner: no duplicate
			g := impl.make([][2]Vertex{{0, 1}}, 2)
			require.NoError(t, checkSkewSymmetry(g))
			assert.Equal(t, 1, g.NoE())
		})
	}
}

func TestGraphRemoveEdge(t *testing.T) {
	for _, impl := range graphImpls {
		t.Run(impl.name, func(t *testing.T) {
			g := impl.make([][2]Vertex{{0, 2}, {2, 4}}, 6)
			g.RemoveEdge(0, 2)
			require.NoError(t, checkSkewSymmetry(g))
			assert.Equal(t, 2, g.NoE())
			assert.Empty(t, g.OutNeighbors(0, nil))
			assert.Empty(t, g.OutNeighbors(3, nil))
		})
	}
}

func TestGraphRemoveVertex(t *testing.T) {
	for _, impl := range graphImpls {
		t.Run(impl.name, func(t *testing.T) {
			g := impl.make([][2]Vertex{{0, 2}, {2, 4}}, 6)
			g.RemoveVertex(2)
			require.NoError(t, checkSkewSymmetry(g))
			assert.Equal(t, 4, g.NoV())
			assert.Equal(t, 0, g.NoE())
			assert.False(t, g.IsLive(2))
			assert.False(t, g.IsLive(3))
			assert.True(t, g.IsLive(0))
		})
	}
}

func TestGraphMerge(t *testing.T) {
	for _, impl := range graphImpls {
		t.Run(impl.name, func(t *testing.T) {
			// 0 -> 2, 0 -> 4, 4 -> 6; merging 4 into 2 must coalesce the
			// duplicate edge 0 -> {2,4} and leave 2 -> 6
			g := impl.make([][2]Vertex{{0, 2}, {0, 4}, {4, 6}}, 8)
			g.Merge(2, 4)
			require.NoError(t, checkSkewSymmetry(g))
			assert.Equal(t, 6, g.NoV())
			assert.False(t, g.IsLive(4))
			assert.ElementsMatch(t, []Vertex{2}, g.OutNeighbors(0, nil))
			assert.ElementsMatch(t, []Vertex{6}, g.OutNeighbors(2, nil))
		})
	}
}

func TestGraphMergeSelfLoopDropped(t *testing.T) {
	for _, impl := range graphImpls {
		t.Run(impl.name, func(t *testing.T) {
			// merging the endpoints of 0 -> 2 must not leave a self-loop
			g := impl.make([][2]Vertex{{0, 2}}, 4)
			g.Merge(0, 2)
			require.NoError(t, checkSkewSymmetry(g))
			assert.Equal(t, 0, g.NoE())
		})
	}
}

func TestGraphMergeIsNoOpOnDeadOrEqual(t *testing.T) {
	for _, impl := range graphImpls {
		t.Run(impl.name, func(t *testing.T) {
			g := impl.make([][2]Vertex{{0, 2}}, 4)
			before := g.String()
			g.Merge(0, 0)
			assert.Equal(t, before, g.String())
			g.RemoveVertex(2)
			g.Merge(0, 2)
			require.NoError(t, checkSkewSymmetry(g))
		})
	}
}

func TestGraphSnapshotRestore(t *testing.T) {
	for _, impl := range graphImpls {
		t.Run(impl.name, func(t *testing.T) {
			g := impl.make([][2]Vertex{{0, 2}, {2, 4}, {4, 6}}, 8)
			snap := g.Snapshot()
			want := g.String()
			wantV, wantE := g.NoV(), g.NoE()

			g.Merge(0, 4)
			g.RemoveVertex(2)
			g.RemoveEdge(0, 6)
			g.Restore(snap)

			require.NoError(t, checkSkewSymmetry(g))
			assert.Equal(t, wantV, g.NoV())
			assert.Equal(t, wantE, g.NoE())
			if diff := cmp.Diff(want, g.String()); diff != "" {
				t.Errorf("restored graph differs (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGraphSnapshotNested(t *testing.T) {
	for _, impl := range graphImpls {
		t.Run(impl.name, func(t *testing.T) {
			g := impl.make([][2]Vertex{{0, 2}, {2, 4}}, 6)
			s0 := g.Snapshot()
			w0 := g.String()
			g.Merge(0, 2)
			s1 := g.Snapshot()
			w1 := g.String()
			g.RemoveVertex(4)
			g.Restore(s1)
			assert.Equal(t, w1, g.String())
			g.Restore(s0)
			assert.Equal(t, w0, g.String())
			require.NoError(t, checkSkewSymmetry(g))
		})
	}
}

// TestGraphMutationProperty drives both representations through random
// mutation sequences and checks that skew-symmetry always holds and that
// the two implementations agree edge for edge.
func TestGraphMutationProperty(t *testing.T) {
	const noV = 12
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 150
	properties := gopter.NewProperties(parameters)

	genEdges := gen.SliceOf(gopter.CombineGens(
		gen.UInt32Range(0, noV-1), gen.UInt32Range(0, noV-1),
	).Map(func(vals []interface{}) [2]Vertex {
		return [2]Vertex{Vertex(vals[0].(uint32)), Vertex(vals[1].(uint32))}
	}))
	genOps := gen.SliceOf(gopter.CombineGens(
		gen.IntRange(0, 2), gen.UInt32Range(0, noV-1), gen.UInt32Range(0, noV-1),
	).Map(func(vals []interface{}) [3]uint32 {
		return [3]uint32{uint32(vals[0].(int)), vals[1].(uint32), vals[2].(uint32)}
	}))

	properties.Property("mutations preserve skew-symmetry and agreement", prop.ForAll(
		func(edges [][2]Vertex, ops [][3]uint32) bool {
			clean := edges[:0]
			for _, e := range edges {
				if e[0] != e[1] {
					clean = append(clean, e)
				}
			}
			al := newGraphAL(clean, noV)
			lh := newGraphLHGR(clean, noV)
			for _, op := range ops {
				v1, v2 := Vertex(op[1]), Vertex(op[2])
				switch op[0] {
				case 0:
					if al.IsLive(v1) && al.IsLive(v2) && v1 != v2 && v1 != v2.Sigma() {
						al.Merge(v1, v2)
						lh.Merge(v1, v2)
					}
				case 1:
					if al.IsLive(v1) {
						al.RemoveVertex(v1)
						lh.RemoveVertex(v1)
					}
				default:
					al.RemoveAllEdges(v1)
					lh.RemoveAllEdges(v1)
				}
				if checkSkewSymmetry(al) != nil || checkSkewSymmetry(lh) != nil {
					return false
				}
				if al.String() != lh.String() || al.NoE() != lh.NoE() || al.NoV() != lh.NoV() {
					return false
				}
			}
			return true
		},
		genEdges, genOps,
	))
	properties.TestingRun(t)
}

func TestGraphStringDeterministic(t *testing.T) {
	for _, impl := range graphImpls {
		t.Run(impl.name, func(t *testing.T) {
			g := impl.make([][2]Vertex{{0, 2}, {0, 4}, {2, 4}}, 6)
			assert.Equal(t, g.String(), g.String())
			assert.Equal(t, fmt.Sprintf("%v", g), g.String())
		})
	}
}
