package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var vlImpls = []struct {
	name string
	make func(capHint int) vertLabel
}{
	{"hmap", func(capHint int) vertLabel { return newVlHmap(capHint) }},
	{"trie", func(capHint int) vertLabel { return newVlTrie(capHint) }},
}

func TestVertLabelInsertLookup(t *testing.T) {
	for _, impl := range vlImpls {
		t.Run(impl.name, func(t *testing.T) {
			vl := impl.make(8)
			l := NewLineral([]Var{1, 2})
			ins, v := vl.Insert(0, l)
			require.True(t, ins)
			require.Equal(t, Vertex(0), v)
			assert.Equal(t, 1, vl.Size())

			// a second insert of the same label reports the owner
			ins, v = vl.Insert(4, l)
			assert.False(t, ins)
			assert.Equal(t, Vertex(0), v)

			assert.True(t, vl.Has(0))
			assert.True(t, vl.Has(1), "sigma partner must resolve")
			assert.True(t, vl.HasExact(0))
			assert.False(t, vl.HasExact(1))

			assert.Equal(t, "x1+x2", vl.Label(0).String())
			assert.Equal(t, "x1+x2+1", vl.Label(1).String())
			assert.Equal(t, Var(1), vl.LT(0))
			assert.Equal(t, Var(1), vl.LT(1))
		})
	}
}

func TestVertLabelVertexOfResolvesSigma(t *testing.T) {
	for _, impl := range vlImpls {
		t.Run(impl.name, func(t *testing.T) {
			vl := impl.make(8)
			vl.Insert(2, NewLineral([]Var{3}))
			v, ok := vl.VertexOf(NewLineral([]Var{3}))
			require.True(t, ok)
			assert.Equal(t, Vertex(2), v)
			// the complement maps to the sigma partner
			v, ok = vl.VertexOf(NewLineral([]Var{3, 0}))
			require.True(t, ok)
			assert.Equal(t, Vertex(3), v)
			_, ok = vl.VertexOf(NewLineral([]Var{4}))
			assert.False(t, ok)
		})
	}
}

func TestVertLabelErase(t *testing.T) {
	for _, impl := range vlImpls {
		t.Run(impl.name, func(t *testing.T) {
			vl := impl.make(8)
			vl.Insert(0, NewLineral([]Var{1}))
			require.True(t, vl.Erase(0))
			assert.False(t, vl.Has(0))
			assert.False(t, vl.HasLineral(NewLineral([]Var{1})))
			assert.Equal(t, 0, vl.Size())
			assert.False(t, vl.Erase(0))
		})
	}
}

func TestVertLabelUpdate(t *testing.T) {
	for _, impl := range vlImpls {
		t.Run(impl.name, func(t *testing.T) {
			vl := impl.make(8)
			vl.Insert(0, NewLineral([]Var{1}))
			vl.Insert(2, NewLineral([]Var{2}))

			// fresh label without constant stays on the same vertex
			v, flipped := vl.Update(0, NewLineral([]Var{3}))
			assert.Equal(t, Vertex(0), v)
			assert.False(t, flipped)
			assert.Equal(t, "x3", vl.Label(0).String())

			// a label with constant is normalized onto the sigma partner
			v, flipped = vl.Update(0, NewLineral([]Var{4, 0}))
			assert.True(t, flipped)
			assert.Equal(t, Vertex(1), v)
			assert.Equal(t, "x4", vl.Label(1).String())
			assert.Equal(t, "x4+1", vl.Label(0).String())

			// updating onto an existing label reports the owner for merging
			v, flipped = vl.Update(0, NewLineral([]Var{2}))
			assert.Equal(t, Vertex(2), v)
			assert.False(t, flipped)
		})
	}
}

func TestVertLabelSum(t *testing.T) {
	for _, impl := range vlImpls {
		t.Run(impl.name, func(t *testing.T) {
			vl := impl.make(8)
			vl.Insert(0, NewLineral([]Var{1, 2}))
			vl.Insert(2, NewLineral([]Var{2, 3}))
			assert.Equal(t, "x1+x3", vl.Sum(0, 2).String())
		})
	}
}

func TestVertLabelZeroVertex(t *testing.T) {
	for _, impl := range vlImpls {
		t.Run(impl.name, func(t *testing.T) {
			vl := impl.make(8)
			_, ok := vl.ZeroVertex()
			assert.False(t, ok)
			vl.Insert(4, Zero())
			v, ok := vl.ZeroVertex()
			require.True(t, ok)
			assert.Equal(t, Vertex(4), v)
		})
	}
}

func TestVertLabelSnapshotRestore(t *testing.T) {
	for _, impl := range vlImpls {
		t.Run(impl.name, func(t *testing.T) {
			vl := impl.make(8)
			vl.Insert(0, NewLineral([]Var{1}))
			vl.Snapshot()
			want := vl.String()

			vl.Update(0, NewLineral([]Var{2}))
			vl.Insert(2, NewLineral([]Var{3}))
			vl.Snapshot()
			inner := vl.String()
			vl.Erase(2)
			vl.Restore()
			assert.Equal(t, inner, vl.String())

			vl.Restore()
			assert.Equal(t, want, vl.String())
			assert.Equal(t, 1, vl.Size())
			assert.Equal(t, "x1", vl.Label(0).String())
		})
	}
}

func TestVertLabelBijection(t *testing.T) {
	for _, impl := range vlImpls {
		t.Run(impl.name, func(t *testing.T) {
			vl := impl.make(16)
			labels := []Lineral{
				NewLineral([]Var{1}),
				NewLineral([]Var{1, 2}),
				NewLineral([]Var{2, 3, 5}),
				NewLineral([]Var{4}),
			}
			for i, l := range labels {
				ins, _ := vl.Insert(Vertex(2*i), l)
				require.True(t, ins)
			}
			require.Equal(t, len(labels), vl.Size())
			for i, l := range labels {
				v, ok := vl.VertexOf(l)
				require.True(t, ok)
				assert.Equal(t, Vertex(2*i), v)
				assert.True(t, vl.Label(v).Equal(l))
			}
		})
	}
}
