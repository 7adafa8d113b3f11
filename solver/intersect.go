package solver

import (
	"sort"

	"github.com/bits-and-blooms/bitset"
)

// Dense GF(2) linear algebra used by the vector-space intersections. The
// sparse supports of the involved systems are remapped to a contiguous
// column range first; column 0 always stands for the constant term.

// support collects the union of the supports of U and W, with 0 prepended,
// and returns it along with the inverse mapping index -> dense column.
func support(U, W *LinEqs) ([]Var, map[Var]int) {
	seen := map[Var]bool{0: true}
	for _, sys := range []*LinEqs{U, W} {
		for _, l := range sys.Rows() {
			for _, idx := range l.Idxs() {
				seen[idx] = true
			}
		}
	}
	supp := make([]Var, 0, len(seen))
	for idx := range seen {
		supp = append(supp, idx)
	}
	sort.Slice(supp, func(i, j int) bool { return supp[i] < supp[j] })
	inv := make(map[Var]int, len(supp))
	for i, idx := range supp {
		inv[idx] = i
	}
	return supp, inv
}

// echelonize brings the rows into reduced row-echelon form in place and
// returns the rank. Pivot columns are chosen left to right.
func echelonize(rows []*bitset.BitSet, ncols uint) int {
	rank := 0
	for col := uint(0); col < ncols && rank < len(rows); col++ {
		pivot := -1
		for r := rank; r < len(rows); r++ {
			if rows[r].Test(col) {
				pivot = r
				break
			}
		}
		if pivot < 0 {
			continue
		}
		rows[rank], rows[pivot] = rows[pivot], rows[rank]
		for r := 0; r < len(rows); r++ {
			if r != rank && rows[r].Test(col) {
				rows[r].InPlaceSymmetricDifference(rows[rank])
			}
		}
		rank++
	}
	return rank
}

// Intersect returns a basis of the intersection of the row spaces of U and W,
// via the Zassenhaus block construction: the matrix [U U; W 0] is row
// reduced, and the right halves of the rows whose left half vanished span
// the intersection. An inconsistent input absorbs the other operand.
func Intersect(U, W *LinEqs) []Lineral {
	if !U.IsConsistent() {
		return append([]Lineral(nil), W.Rows()...)
	}
	if !W.IsConsistent() {
		return append([]Lineral(nil), U.Rows()...)
	}

	supp, inv := support(U, W)
	nVars := uint(len(supp))
	ncols := 2 * nVars

	rows := make([]*bitset.BitSet, 0, U.Size()+W.Size())
	for _, l := range U.Rows() {
		if l.IsZero() {
			continue
		}
		row := bitset.New(ncols)
		if l.HasConstant() {
			row.Set(0)
			row.Set(nVars)
		}
		for _, idx := range l.Idxs() {
			row.Set(uint(inv[idx]))
			row.Set(uint(inv[idx]) + nVars)
		}
		rows = append(rows, row)
	}
	for _, l := range W.Rows() {
		if l.IsZero() {
			continue
		}
		row := bitset.New(ncols)
		if l.HasConstant() {
			row.Set(0)
		}
		for _, idx := range l.Idxs() {
			row.Set(uint(inv[idx]))
		}
		rows = append(rows, row)
	}

	rank := echelonize(rows, ncols)

	var out []Lineral
	for r := rank - 1; r > 0; r-- {
		if left, _ := rows[r].NextSet(0); left < nVars {
			break
		}
		var idxs []Var
		p1 := rows[r].Test(nVars)
		for c := nVars + 1; c < ncols; c++ {
			if rows[r].Test(c) {
				idxs = append(idxs, supp[c-nVars])
			}
		}
		out = append(out, NewLineralSorted(idxs, p1))
	}
	return out
}

// IntersectAffine decides whether there is a lineral l with l in the row
// space of U and l+1 in the row space of W. It solves [U^T | W^T] x = e0
// over GF(2); when solvable, l is recovered as the sum of the rows of U
// selected by the first half of the solution.
func IntersectAffine(U, W *LinEqs) (Lineral, bool) {
	if !U.IsConsistent() || !W.IsConsistent() {
		return Zero(), true
	}

	supp, inv := support(U, W)
	nrows := len(supp)
	ncols := uint(U.Size() + W.Size())

	// augmented matrix [U^T W^T | e0]
	rows := make([]*bitset.BitSet, nrows)
	for r := range rows {
		rows[r] = bitset.New(ncols + 1)
	}
	c := uint(0)
	for _, sys := range []*LinEqs{U, W} {
		for _, l := range sys.Rows() {
			if l.HasConstant() {
				rows[0].Set(c)
			}
			for _, idx := range l.Idxs() {
				rows[inv[idx]].Set(c)
			}
			c++
		}
	}
	rows[0].Set(ncols) // right-hand side e0; uses that supp[0] == 0

	echelonize(rows, ncols)

	// read off one solution; a pivot-free row with the rhs set means none
	x := bitset.New(ncols)
	for _, row := range rows {
		lead, ok := row.NextSet(0)
		if !ok {
			continue
		}
		if lead == ncols {
			return Zero(), false
		}
		if row.Test(ncols) {
			x.Set(lead)
		}
	}

	out := Zero()
	for r := 0; r < U.Size(); r++ {
		if x.Test(uint(r)) {
			out.AddIn(U.Row(r))
		}
	}
	return out, true
}

// ExtendBasis extends the partial basis B by reduced rows of L until it
// reaches the dimension of L, returning the added elements.
func ExtendBasis(B []Lineral, L *LinEqs) []Lineral {
	b := NewLinEqs(B...)
	var out []Lineral
	for _, l := range L.Rows() {
		if b.Dim() == L.Dim() {
			break
		}
		red := b.Reduce(l)
		if !red.IsZero() {
			out = append(out, red)
			b.Add(red)
		}
	}
	return out
}
