package solver

// A vertLabel is the bidirectional mapping between live graph vertices and
// the linerals labeling them. Stored labels are normalized to carry no
// constant term: the vertex for l+1 is sigma(v) where v is the vertex for l.
// Lookups resolve through sigma, so both halves of a pair are addressable.
//
// Two representations satisfy this contract: a pair of hash maps (vlHmap)
// and a trie keyed on the reversed index sequence (vlTrie). The build tag
// "vltrie" selects the trie; see vl_default.go and vl_trie_default.go.
type vertLabel interface {
	// Size returns the number of stored bindings.
	Size() int

	// Insert binds v to the normalized lineral l. If l is already bound to
	// some vertex w, nothing changes and (false, w) is returned; otherwise
	// (true, v).
	Insert(v Vertex, l Lineral) (bool, Vertex)

	// Erase removes the binding stored exactly at v (not at sigma(v)).
	Erase(v Vertex) bool

	// Update rebinds the pair of v to l, normalizing l by flipping its
	// constant if necessary. The returned vertex w holds the normalized
	// label; the flag is true iff l itself is represented by sigma(w).
	// When l was already bound elsewhere, w is that existing vertex and the
	// caller is expected to merge.
	Update(v Vertex, l Lineral) (Vertex, bool)

	// Label returns the lineral of v: the stored label if v is bound, or
	// the complement of sigma(v)'s label otherwise.
	Label(v Vertex) Lineral
	// HasExact reports whether a label is stored at v itself.
	HasExact(v Vertex) bool
	// Has reports whether v or sigma(v) carries a label.
	Has(v Vertex) bool

	// VertexOf returns the vertex representing l, resolving the constant
	// term through sigma.
	VertexOf(l Lineral) (Vertex, bool)
	// HasLineral reports whether l (modulo its constant) is stored.
	HasLineral(l Lineral) bool

	// LT returns the leading term of the label of v's pair.
	LT(v Vertex) Var

	// Sum returns label(v1) + label(v2); both must be stored exactly.
	Sum(v1, v2 Vertex) Lineral

	// ZeroVertex returns the vertex bound to the zero label, if any.
	ZeroVertex() (Vertex, bool)

	// Snapshot pushes a copy of the current state; Restore pops back to the
	// most recent snapshot. Snapshots nest LIFO.
	Snapshot()
	Restore()

	String() string
}
