package solver

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/crillab/xornado/logger"
)

// A Problem is a parsed 2-XNF instance.
type Problem struct {
	NbVars    int
	NbClauses int
	Clauses   [][]Lineral
}

// ParseXNF parses an XNF stream and returns the corresponding Problem.
// Comment lines start with "c"; the header "p xnf N M" declares N variables
// and M clauses; every clause line ends with the token 0. A token like
// "-3+4" is a lineral over the signed variable indices: a negative index
// complements the lineral. Lines starting with "x" declare a single-lineral
// clause XOR-summing their tokens. Clauses with more than two linerals are
// rejected.
func ParseXNF(f io.Reader) (*Problem, error) {
	return ParseXNFWithPath(f, &Reordering{})
}

// ParseXNFWithPath parses an XNF stream, renaming every variable index
// through the guessing-path permutation P.
func ParseXNFWithPath(f io.Reader, P *Reordering) (*Problem, error) {
	var pb Problem
	headerSeen := false
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == 'c' {
			continue
		}
		fields := strings.Fields(line)
		if fields[0] == "p" {
			if len(fields) < 4 {
				return nil, fmt.Errorf("invalid header %q: should be \"p xnf n m\"", line)
			}
			if fields[1] != "xnf" {
				logger.Logger().Warn().Str("format", fields[1]).Msg("file format not \"xnf\", continuing as if it were")
			}
			var err error
			if pb.NbVars, err = strconv.Atoi(fields[2]); err != nil {
				return nil, fmt.Errorf("header variable count %q is not an int", fields[2])
			}
			if pb.NbClauses, err = strconv.Atoi(fields[3]); err != nil {
				return nil, fmt.Errorf("header clause count %q is not an int", fields[3])
			}
			headerSeen = true
			continue
		}
		if !headerSeen {
			return nil, fmt.Errorf("clause line %q before header", line)
		}
		cl, err := parseClause(fields, pb.NbVars, P)
		if err != nil {
			return nil, err
		}
		if len(cl) > 0 {
			pb.Clauses = append(pb.Clauses, cl)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("could not read instance: %w", err)
	}
	if len(pb.Clauses) != pb.NbClauses {
		logger.Logger().Warn().Int("header", pb.NbClauses).Int("found", len(pb.Clauses)).
			Msg("number of clauses in header differs from number of found clauses")
	}
	return &pb, nil
}

func parseClause(fields []string, nbVars int, P *Reordering) ([]Lineral, error) {
	if fields[0] == "x" {
		// XOR-clause shorthand: one lineral summing all tokens
		if fields[len(fields)-1] != "0" {
			return nil, fmt.Errorf("xor clause %q not terminated by 0", strings.Join(fields, " "))
		}
		fields = []string{strings.Join(fields[1:len(fields)-1], "+"), "0"}
	}
	var cl []Lineral
	for _, tok := range fields {
		if tok == "0" {
			break
		}
		l, err := parseLineral(tok, nbVars, P)
		if err != nil {
			return nil, err
		}
		cl = append(cl, l)
	}
	if len(cl) > 2 {
		return nil, fmt.Errorf("clause %q has %d linerals: %w", strings.Join(fields, " "), len(cl), ErrNot2XNF)
	}
	return cl, nil
}

// parseLineral reads one signed token like "-3+4". Internally a lineral
// asserts that its affine form vanishes, so an all-positive token gets the
// constant appended and each negation removes it again.
func parseLineral(tok string, nbVars int, P *Reordering) (Lineral, error) {
	var idxs []Var
	needConst := true
	for _, part := range strings.Split(tok, "+") {
		v, err := strconv.Atoi(part)
		if err != nil {
			return Lineral{}, fmt.Errorf("invalid lineral token %q: %w", tok, err)
		}
		switch {
		case v > 0:
			if v > nbVars {
				return Lineral{}, fmt.Errorf("variable %d exceeds the %d announced by the header", v, nbVars)
			}
			idxs = append(idxs, P.At(Var(v)))
		case v < 0:
			if -v > nbVars {
				return Lineral{}, fmt.Errorf("variable %d exceeds the %d announced by the header", -v, nbVars)
			}
			idxs = append(idxs, P.At(Var(-v)))
			needConst = !needConst
		default:
			// nonstandard: a "0" summand toggles the constant
			needConst = !needConst
		}
	}
	if needConst {
		idxs = append(idxs, 0)
	}
	return NewLineral(idxs), nil
}

// ParseGuessingPath parses a guessing-path stream: one positive variable
// index per non-comment line, in decision order. The returned permutation
// maps the requested order onto the natural one.
func ParseGuessingPath(f io.Reader) (Reordering, error) {
	var P Reordering
	pos := Var(1)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == 'c' {
			continue
		}
		ind, err := strconv.Atoi(line)
		if err != nil || ind <= 0 {
			return Reordering{}, fmt.Errorf("invalid guessing path entry %q", line)
		}
		P.Insert(Var(ind), pos)
		pos++
	}
	if err := scanner.Err(); err != nil {
		return Reordering{}, fmt.Errorf("could not read guessing path: %w", err)
	}
	return P, nil
}

// CheckSol reports whether sol satisfies the problem: every clause must
// have at least one lineral evaluating to true.
func (pb *Problem) CheckSol(sol []bool) bool {
	for _, cl := range pb.Clauses {
		ok := false
		for _, l := range cl {
			if l.Eval(sol) {
				ok = true
				break
			}
		}
		if !ok && len(cl) > 0 {
			return false
		}
	}
	return true
}
