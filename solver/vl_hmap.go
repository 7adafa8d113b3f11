package solver

import (
	"fmt"
	"sort"
	"strings"
)

// Hash-map representation of the vertex-label store: one map per direction,
// kept in lock-step. Snapshots push full copies of both maps; backtracking
// pops them, which keeps restore O(1) at the cost of copy-on-decision.

type vlHmapState struct {
	vxl map[Vertex]Lineral
	vl  map[string]Vertex
}

func (s vlHmapState) clone() vlHmapState {
	out := vlHmapState{
		vxl: make(map[Vertex]Lineral, len(s.vxl)),
		vl:  make(map[string]Vertex, len(s.vl)),
	}
	for v, l := range s.vxl {
		out.vxl[v] = l.Clone()
	}
	for k, v := range s.vl {
		out.vl[k] = v
	}
	return out
}

type vlHmap struct {
	stack []vlHmapState
}

func newVlHmap(capHint int) *vlHmap {
	return &vlHmap{stack: []vlHmapState{{
		vxl: make(map[Vertex]Lineral, capHint),
		vl:  make(map[string]Vertex, capHint),
	}}}
}

func (h *vlHmap) top() *vlHmapState {
	return &h.stack[len(h.stack)-1]
}

func (h *vlHmap) Size() int {
	return len(h.top().vxl)
}

func (h *vlHmap) Insert(v Vertex, l Lineral) (bool, Vertex) {
	t := h.top()
	key := l.Key()
	if w, ok := t.vl[key]; ok {
		return false, w
	}
	t.vl[key] = v
	t.vxl[v] = l
	return true, v
}

func (h *vlHmap) Erase(v Vertex) bool {
	t := h.top()
	l, ok := t.vxl[v]
	if !ok {
		return false
	}
	delete(t.vxl, v)
	delete(t.vl, l.Key())
	return true
}

func (h *vlHmap) Update(v Vertex, l Lineral) (Vertex, bool) {
	if h.HasExact(v) {
		h.Erase(v)
	} else if h.HasExact(v.Sigma()) {
		h.Erase(v.Sigma())
	}
	flip := l.HasConstant()
	norm := l
	if flip {
		norm = l.PlusOne()
	}
	t := h.top()
	key := norm.Key()
	if w, ok := t.vl[key]; ok {
		return w, flip
	}
	u := v
	if flip {
		u = v.Sigma()
	}
	t.vl[key] = u
	t.vxl[u] = norm
	return u, flip
}

func (h *vlHmap) Label(v Vertex) Lineral {
	t := h.top()
	if l, ok := t.vxl[v]; ok {
		return l
	}
	return t.vxl[v.Sigma()].PlusOne()
}

func (h *vlHmap) HasExact(v Vertex) bool {
	_, ok := h.top().vxl[v]
	return ok
}

func (h *vlHmap) Has(v Vertex) bool {
	t := h.top()
	if _, ok := t.vxl[v]; ok {
		return true
	}
	_, ok := t.vxl[v.Sigma()]
	return ok
}

func (h *vlHmap) VertexOf(l Lineral) (Vertex, bool) {
	t := h.top()
	if !l.HasConstant() {
		w, ok := t.vl[l.Key()]
		return w, ok
	}
	w, ok := t.vl[l.PlusOne().Key()]
	return w.Sigma(), ok
}

func (h *vlHmap) HasLineral(l Lineral) bool {
	_, ok := h.VertexOf(l)
	return ok
}

func (h *vlHmap) LT(v Vertex) Var {
	t := h.top()
	if l, ok := t.vxl[v]; ok {
		return l.LT()
	}
	return t.vxl[v.Sigma()].LT()
}

func (h *vlHmap) Sum(v1, v2 Vertex) Lineral {
	t := h.top()
	return t.vxl[v1].Add(t.vxl[v2])
}

func (h *vlHmap) ZeroVertex() (Vertex, bool) {
	w, ok := h.top().vl[Zero().Key()]
	return w, ok
}

func (h *vlHmap) Snapshot() {
	h.stack = append(h.stack, h.top().clone())
	n := len(h.stack)
	h.stack[n-1], h.stack[n-2] = h.stack[n-2], h.stack[n-1]
}

func (h *vlHmap) Restore() {
	h.stack = h.stack[:len(h.stack)-1]
}

func (h *vlHmap) String() string {
	t := h.top()
	verts := make([]Vertex, 0, len(t.vxl))
	for v := range t.vxl {
		verts = append(verts, v)
	}
	sort.Slice(verts, func(i, j int) bool { return verts[i] < verts[j] })
	var sb strings.Builder
	for i, v := range verts {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "(%d,%s)", v, t.vxl[v])
	}
	return sb.String()
}
