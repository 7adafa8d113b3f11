package solver

import (
	"math/bits"
	"sort"
	"strconv"
	"strings"
)

// A Lineral is a sparse affine form over GF(2): a XOR of variables plus an
// optional constant 1. As a constraint, a lineral asserts that the form
// evaluates to zero; Eval reports whether a given assignment satisfies it.
// The index slice is kept sorted, without duplicates, and never contains 0:
// an index 0 passed to NewLineral is folded into the constant term.
type Lineral struct {
	p1   bool
	idxs []Var
}

// NewLineral builds a lineral from a list of indices. The list may be
// unsorted and contain duplicates or the index 0; it is normalized.
// Duplicate indices cancel out, as x+x = 0 over GF(2).
func NewLineral(idxs []Var) Lineral {
	l := Lineral{idxs: append([]Var(nil), idxs...)}
	l.normalize()
	return l
}

// NewLineralSorted builds a lineral from an already sorted, duplicate-free
// index slice and a constant bit. The slice is owned by the result.
func NewLineralSorted(idxs []Var, p1 bool) Lineral {
	if len(idxs) > 0 && idxs[0] == 0 {
		idxs = idxs[1:]
		p1 = !p1
	}
	return Lineral{p1: p1, idxs: idxs}
}

// Zero returns the zero lineral.
func Zero() Lineral {
	return Lineral{}
}

// One returns the constant-1 lineral, i.e. the unsatisfiable constraint.
func One() Lineral {
	return Lineral{p1: true}
}

func (l *Lineral) normalize() {
	sort.Slice(l.idxs, func(i, j int) bool { return l.idxs[i] < l.idxs[j] })
	out := l.idxs[:0]
	i := 0
	for i < len(l.idxs) {
		j := i
		for j < len(l.idxs) && l.idxs[j] == l.idxs[i] {
			j++
		}
		if (j-i)%2 == 1 {
			out = append(out, l.idxs[i])
		}
		i = j
	}
	l.idxs = out
	if len(l.idxs) > 0 && l.idxs[0] == 0 {
		l.idxs = l.idxs[1:]
		l.p1 = !l.p1
	}
}

// IsZero is true iff l is the zero lineral.
func (l Lineral) IsZero() bool {
	return !l.p1 && len(l.idxs) == 0
}

// IsOne is true iff l is the constant 1.
func (l Lineral) IsOne() bool {
	return l.p1 && len(l.idxs) == 0
}

// HasConstant is true iff the constant term of l is set.
func (l Lineral) HasConstant() bool {
	return l.p1
}

// LT returns the leading term of l, i.e. its smallest variable index,
// or 0 if the support is empty.
func (l Lineral) LT() Var {
	if len(l.idxs) == 0 {
		return 0
	}
	return l.idxs[0]
}

// Size returns the size of l's support.
func (l Lineral) Size() int {
	return len(l.idxs)
}

// Idxs returns the support of l. The slice must not be modified.
func (l Lineral) Idxs() []Var {
	return l.idxs
}

// Has reports whether idx appears in l; for idx 0 it reports the constant.
func (l Lineral) Has(idx Var) bool {
	if idx == 0 {
		return l.p1
	}
	n := sort.Search(len(l.idxs), func(i int) bool { return l.idxs[i] >= idx })
	return n < len(l.idxs) && l.idxs[n] == idx
}

// Equal reports whether l and other are the same affine form.
func (l Lineral) Equal(other Lineral) bool {
	if l.p1 != other.p1 || len(l.idxs) != len(other.idxs) {
		return false
	}
	for i, idx := range l.idxs {
		if other.idxs[i] != idx {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of l.
func (l Lineral) Clone() Lineral {
	return Lineral{p1: l.p1, idxs: append([]Var(nil), l.idxs...)}
}

// Add returns the GF(2) sum of l and other: the symmetric difference of the
// supports and the XOR of the constants.
func (l Lineral) Add(other Lineral) Lineral {
	return Lineral{p1: l.p1 != other.p1, idxs: symDiff(l.idxs, other.idxs)}
}

// AddIn adds other to l in place.
func (l *Lineral) AddIn(other Lineral) {
	if len(other.idxs) == 0 {
		l.p1 = l.p1 != other.p1
		return
	}
	l.idxs = symDiff(l.idxs, other.idxs)
	l.p1 = l.p1 != other.p1
}

// symDiff computes the symmetric difference of two sorted index slices.
func symDiff(a, b []Var) []Var {
	out := make([]Var, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			out = append(out, a[i])
			i++
		case a[i] > b[j]:
			out = append(out, b[j])
			j++
		default:
			i++
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}

// PlusOne returns l with the constant term flipped.
func (l Lineral) PlusOne() Lineral {
	return Lineral{p1: !l.p1, idxs: l.idxs}
}

// AddOne flips the constant term of l in place.
func (l *Lineral) AddOne() {
	l.p1 = !l.p1
}

// Eval reports whether sol satisfies l, i.e. whether the affine form
// evaluates to zero under sol. sol[i] is the value of variable i+1.
func (l Lineral) Eval(sol []bool) bool {
	out := !l.p1
	for _, i := range l.idxs {
		out = out != sol[i-1]
	}
	return out
}

// Solve flips sol at l's leading term so that l becomes satisfied.
// Only the leading-term variable is touched.
func (l Lineral) Solve(sol []bool) {
	if lt := l.LT(); lt > 0 && !l.Eval(sol) {
		sol[lt-1] = !sol[lt-1]
	}
}

// Reduce reduces l by the rows of sys until no pivot leading term of sys
// appears in l's support. It reports whether l changed. Depending on the
// relative sizes of l and sys it either walks the pivots of sys looking
// them up in l, or walks l's support looking up pivots.
func (l *Lineral) Reduce(sys *LinEqs) bool {
	if len(l.idxs) > log2(len(l.idxs))*sys.Size() {
		changed := false
		for _, row := range sys.pivotRows() {
			if l.Has(sys.rows[row].LT()) {
				l.AddIn(sys.rows[row])
				changed = true
			}
		}
		return changed
	}
	var upd []int
	for _, idx := range l.idxs {
		if row, ok := sys.pivot[idx]; ok {
			upd = append(upd, row)
		}
	}
	for _, row := range upd {
		l.AddIn(sys.rows[row])
	}
	return len(upd) > 0
}

func log2(n int) int {
	if n <= 0 {
		return 0
	}
	return bits.Len(uint(n)) - 1
}

// ReduceByAssign adds assignments[i] into l for every support index i that
// carries a nonzero assignment, until no such index remains. It reports
// whether l changed.
func (l *Lineral) ReduceByAssign(assignments []Lineral) bool {
	changed := false
	offset := 0
	for offset < len(l.idxs) {
		if a := assignments[l.idxs[offset]]; !a.IsZero() {
			l.AddIn(a)
			changed = true
		} else {
			offset++
		}
	}
	return changed
}

// ReduceByAssignLevel behaves like ReduceByAssign but only uses assignments
// made at decision level lvl or earlier.
func (l *Lineral) ReduceByAssignLevel(assignments []Lineral, assignmentsDl []int, lvl int) bool {
	changed := false
	offset := 0
	for offset < len(l.idxs) {
		idx := l.idxs[offset]
		if a := assignments[idx]; !a.IsZero() && assignmentsDl[idx] <= lvl {
			l.AddIn(a)
			changed = true
		} else {
			offset++
		}
	}
	return changed
}

// LtReduce adds assignments[LT] into l as long as the leading term carries a
// nonzero assignment. It reports whether l changed.
func (l *Lineral) LtReduce(assignments []Lineral) bool {
	changed := false
	for !assignments[l.LT()].IsZero() {
		l.AddIn(assignments[l.LT()])
		changed = true
	}
	return changed
}

// Key returns a compact representation of l's support usable as a map key.
// The constant term is deliberately excluded: label stores normalize it away.
func (l Lineral) Key() string {
	var sb strings.Builder
	sb.Grow(4 * len(l.idxs))
	for _, idx := range l.idxs {
		sb.WriteByte(byte(idx))
		sb.WriteByte(byte(idx >> 8))
		sb.WriteByte(byte(idx >> 16))
		sb.WriteByte(byte(idx >> 24))
	}
	return sb.String()
}

// String returns l in human-readable form, e.g. "x1+x3+1".
func (l Lineral) String() string {
	if len(l.idxs) == 0 {
		if l.p1 {
			return "1"
		}
		return "0"
	}
	var sb strings.Builder
	for i, idx := range l.idxs {
		if i > 0 {
			sb.WriteByte('+')
		}
		sb.WriteByte('x')
		sb.WriteString(strconv.Itoa(int(idx)))
	}
	if l.p1 {
		sb.WriteString("+1")
	}
	return sb.String()
}

// XNFString returns l as a token of the XNF text format, where a leading "-"
// denotes the absence of the constant term. The zero lineral yields "".
func (l Lineral) XNFString() string {
	if len(l.idxs) == 0 && !l.p1 {
		return ""
	}
	var sb strings.Builder
	if !l.p1 {
		sb.WriteByte('-')
	}
	for i, idx := range l.idxs {
		if i > 0 {
			sb.WriteByte('+')
		}
		sb.WriteString(strconv.Itoa(int(idx)))
	}
	return sb.String()
}
