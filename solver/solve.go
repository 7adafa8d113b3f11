package solver

import (
	"fmt"
	"time"
)

// SolveProblem builds the implication graph for pb and runs the DPLL
// search. The returned ImplGraph carries status, model and statistics.
func SolveProblem(pb *Problem, opts Options) (*ImplGraph, error) {
	opts.NumVars = pb.NbVars
	opts.NumClauses = pb.NbClauses
	ig, err := New(pb.Clauses, opts)
	if err != nil {
		return nil, err
	}
	ig.Stats.Start = time.Now()
	ig.Solve()
	ig.Stats.End = time.Now()
	return ig, nil
}

// PreprocessProblem builds the implication graph for pb, runs the
// configured preprocessing, and returns the graph holding the residual
// instance; ToXNF serializes it back to text.
func PreprocessProblem(pb *Problem, opts Options) (*ImplGraph, error) {
	opts.NumVars = pb.NbVars
	opts.NumClauses = pb.NbClauses
	if opts.Preprocess == PreprocessNone {
		opts.Preprocess = PreprocessFLSSCC
	}
	return New(pb.Clauses, opts)
}

// OutputModel outputs the result for the problem on stdout: the status
// line, and for a satisfiable instance the model as signed variable
// indices terminated by 0. A guessing-path permutation is undone first.
func (ig *ImplGraph) OutputModel() {
	switch ig.status {
	case Sat:
		model := ig.Model()
		if ig.opts.Path.Size() > 0 {
			model = ig.opts.Path.ReorderSol(model)
		}
		fmt.Printf("s SATISFIABLE\nv ")
		for i, val := range model {
			if val {
				fmt.Printf("%d ", i+1)
			} else {
				fmt.Printf("%d ", -i-1)
			}
		}
		fmt.Printf("0\n")
	case Unsat:
		fmt.Printf("s UNSATISFIABLE\n")
	default:
		fmt.Printf("s INDEFINITE\n")
	}
}
