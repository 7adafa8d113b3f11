/*
Package solver gives access to a satisfiability solver for 2-XNF formulas:
conjunctions of clauses holding at most two linerals, i.e. XORs of Boolean
variables optionally complemented. Its input can be either an XNF file or a
solver.Problem object containing the set of clauses to be solved.

The solver decides satisfiability by DPLL-style search on a skew-symmetric
implication graph: every binary clause {f, g} contributes the implication
"f false implies g" together with its symmetric partner, vertices are
labeled with linerals, and a fixed-point propagation loop (crGCP)
interleaves label reduction against the current GF(2) linear system,
strongly-connected-component contraction and failed-lineral search.

Describing a problem

1. parse an XNF stream (io.Reader). If the io.Reader produces the following
content:

	p xnf 3 3
	1 2 0
	-2 3 0
	-3 0

the programmer can create the Problem by doing:

	pb, err := solver.ParseXNF(f)

2. build the clause list programmatically from linerals:

	x1 := solver.NewLineral([]solver.Var{1, 0})
	clauses := [][]solver.Lineral{{x1}}
	pb := &solver.Problem{NbVars: 1, NbClauses: 1, Clauses: clauses}

Solving a problem

To solve a problem, one builds the implication graph with the desired
options and runs the search:

	ig, err := solver.SolveProblem(pb, solver.DefaultOptions(pb.NbVars, pb.NbClauses))
	if err != nil {
		// the instance was not 2-XNF
	}
	if ig.Status() == solver.Sat {
		model := ig.Model()
		_ = model
	}

Alternatively, one can display the result and model (if any) on stdout:

	ig.OutputModel()

For the problem above, the output is:

	s SATISFIABLE
	v 1 -2 -3 0
*/
package solver
