package solver

import (
	"fmt"
	"sort"
	"strings"

	"github.com/crillab/xornado/logger"
)

// preprocess runs one crGCP round according to the configured preprocessing
// mode, with failed-lineral search for the fls_scc variants.
func (ig *ImplGraph) preprocess() {
	log := logger.Logger()
	switch ig.opts.Preprocess {
	case PreprocessNone:
		return
	case PreprocessSCC:
		log.Debug().Msg("preprocess 'scc'")
		ig.crGCPFls(ig.flsNone, false)
	case PreprocessFLSSCC:
		log.Debug().Msg("preprocess 'fls_scc'")
		ig.crGCPFls(ig.flsFull, false)
	case PreprocessFLSSCCEE:
		log.Debug().Msg("preprocess 'fls_scc_ee'")
		ig.crGCPFls(ig.flsFull, false)
	}
}

// extendEdges derives additional clauses between roots whose downward spans
// are jointly inconsistent: when asserting both r1 and r2 cannot work, the
// clause {sigma(r1)-label, sigma(r2)-label} holds. Roots with r1 leading to
// sigma(r2) already imply the clause and are skipped. Returns the clause
// list of the current state extended with the new clauses, and whether any
// were added.
func (ig *ImplGraph) extendEdges() ([][]Lineral, bool) {
	if !ig.linsys().IsConsistent() {
		return nil, false
	}
	to := ig.topologicalOrder()
	if to == nil {
		return nil, false
	}
	clauses := ig.ToClauses()
	spans := ig.downwardSpans(to)
	roots := ig.roots()

	added := 0
	for _, r1 := range roots {
		for _, r2 := range roots {
			if r1 == r2 {
				continue
			}
			joint := spans[r1].Clone()
			joint.Union(spans[r2])
			if joint.IsConsistent() {
				continue
			}
			if ig.isDescendant(r1, r2.Sigma()) {
				continue
			}
			clauses = append(clauses, []Lineral{ig.vl.Label(r1.Sigma()), ig.vl.Label(r2.Sigma())})
			added++
		}
	}
	ig.Stats.NbExtensionEdges += added
	logger.Logger().Debug().Int("edges", added).Msg("deduced new edges")
	return clauses, added > 0
}

// ToClauses serializes the current state back into a 2-XNF clause list: one
// binary clause {f+1-label, g-label} per edge f -> g, deduplicated, plus a
// unit clause per row of every asserted linear system.
func (ig *ImplGraph) ToClauses() [][]Lineral {
	var out [][]Lineral
	seen := make(map[string]bool)
	for _, v := range ig.g.Vertices() {
		fp1 := ig.vl.Label(v)
		fp1.AddOne()
		for _, n := range ig.g.OutNeighbors(v, nil) {
			g := ig.vl.Label(n)
			k1 := fp1.String() + " " + g.String()
			k2 := g.String() + " " + fp1.String()
			if seen[k1] || seen[k2] {
				continue
			}
			seen[k1] = true
			out = append(out, []Lineral{fp1, g})
		}
	}
	for _, lvl := range ig.xsysStack {
		for _, sys := range lvl {
			for _, l := range sys.Rows() {
				out = append(out, []Lineral{l})
			}
		}
	}
	return out
}

// ToXNF serializes the current state as XNF text, equivalent to the input
// instance modulo the deductions made so far. A state whose linear system
// already carries the constant 1 has no XNF token for it; it serializes as
// a minimal unsatisfiable instance instead.
func (ig *ImplGraph) ToXNF() string {
	for _, lvl := range ig.xsysStack {
		for _, sys := range lvl {
			if !sys.IsConsistent() {
				n := ig.opts.NumVars
				if n < 1 {
					n = 1
				}
				return fmt.Sprintf("p xnf %d 2\n1 0\n-1 0\n", n)
			}
		}
	}
	var lines []string
	seen := make(map[string]bool)
	for _, v := range ig.g.Vertices() {
		fp1 := ig.vl.Label(v)
		fp1.AddOne()
		for _, n := range ig.g.OutNeighbors(v, nil) {
			g := ig.vl.Label(n)
			k1 := fp1.XNFString() + " " + g.XNFString()
			k2 := g.XNFString() + " " + fp1.XNFString()
			if seen[k1] || seen[k2] {
				continue
			}
			seen[k1] = true
			lines = append(lines, k1)
		}
	}
	for _, lvl := range ig.xsysStack {
		for _, sys := range lvl {
			for _, l := range sys.Rows() {
				if s := l.XNFString(); s != "" {
					lines = append(lines, s)
				}
			}
		}
	}
	sort.Strings(lines)
	var sb strings.Builder
	fmt.Fprintf(&sb, "p xnf %d %d\n", ig.opts.NumVars, len(lines))
	for _, line := range lines {
		sb.WriteString(line)
		sb.WriteString(" 0\n")
	}
	return sb.String()
}
