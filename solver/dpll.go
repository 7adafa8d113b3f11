package solver

import (
	"math"

	"github.com/crillab/xornado/logger"
)

// crGCP runs constrained generalized constraint propagation to a fixed
// point: graph updates until no new linerals appear, then SCC contraction,
// then, when the schedule allows it, failed-lineral search; any progress
// restarts the round. On return either the current system is inconsistent,
// or the graph is a DAG with singleton SCCs and no implied zero vertex.
func (ig *ImplGraph) crGCP(scheduledFLS bool) {
	ig.crGCPFls(ig.runFLS, scheduledFLS)
}

// crGCPFls is crGCP with an explicit failed-lineral search, so that
// preprocessing can run a different search than the solving loop.
func (ig *ImplGraph) crGCPFls(fls func() *LinEqs, scheduledFLS bool) {
	if !ig.linsys().IsConsistent() {
		return
	}
	ig.Stats.NbCrGCP++
	log := logger.Logger()

	for repeat := true; repeat; {
		repeat = false

		for {
			if ig.cancel.Load() {
				return
			}
			upd := ig.updateGraph(ig.linsys())
			if upd.Size() == 0 {
				break
			}
			log.Debug().Int("eqs", upd.Size()).Msg("deduced new eqs (upd)")
			ig.Stats.NbLinsUpd += upd.Size()
			ig.addXSys(upd)
			repeat = true
			if !upd.IsConsistent() {
				return
			}
		}

		scc := ig.sccAnalysis()
		if scc.Size() > 0 {
			log.Debug().Int("eqs", scc.Size()).Msg("deduced new eqs (scc)")
			ig.Stats.NbLinsSCC += scc.Size()
			ig.addXSys(scc)
			repeat = true
			if !scc.IsConsistent() {
				return
			}
		}

		if scc.Size() == 0 && (!scheduledFLS || ig.Stats.NbCrGCP%ig.opts.FLSSchedule == 0) {
			found := fls()
			if found.Size() > 0 {
				log.Debug().Int("eqs", found.Size()).Msg("deduced new eqs (fls)")
				ig.Stats.NbLinsFLS += found.Size()
				ig.addXSys(found)
				repeat = true
				if !found.IsConsistent() {
					return
				}
			}
		}
	}
}

// runFLS dispatches to the configured failed-lineral search.
func (ig *ImplGraph) runFLS() *LinEqs {
	switch ig.opts.FLS {
	case FLSTrivial:
		return ig.flsTrivial()
	case FLSTrivialCC:
		return ig.flsTrivialCC()
	case FLSFull:
		return ig.flsFull()
	default:
		return ig.flsNone()
	}
}

// bumpScore raises the activity of every pivot leading term of sys.
func (ig *ImplGraph) bumpScore(sys *LinEqs) {
	for _, lt := range sys.Pivots() {
		ig.activity[lt] += ig.bump
	}
}

// decayScore multiplies the activity vector by the decay factor, rounding
// up so entries stay strictly positive.
func (ig *ImplGraph) decayScore() {
	for i, s := range ig.activity {
		ig.activity[i] = uint32(math.Ceil(float64(s) * ig.decay))
	}
}

// backtrack undoes the innermost decision level and asserts the saved
// alternative. It reports false when already at the root, i.e. Unsat.
func (ig *ImplGraph) backtrack(alts *[]*LinEqs) bool {
	ig.Stats.NbConflicts++
	if ig.Dl() == 0 {
		return false
	}
	if ig.opts.ScoreActive {
		for _, sys := range ig.xsysStack[len(ig.xsysStack)-1] {
			ig.bumpScore(sys)
		}
		ig.decayScore()
	}
	ig.popLevel()
	n := len(*alts) - 1
	ig.addXSys((*alts)[n])
	*alts = (*alts)[:n]
	logger.Logger().Debug().Int("dl", ig.Dl()).Msg("conflict, backtracked")
	return true
}

// Solve runs the DPLL search and returns the resulting status. A model is
// available through Model after a Sat answer. Solve polls the cancellation
// flag once per iteration and returns Indet when it is raised.
func (ig *ImplGraph) Solve() Status {
	log := logger.Logger()
	if !ig.linsys().IsConsistent() {
		ig.status = Unsat
		return ig.status
	}

	var alts []*LinEqs // saved alternative decisions, one per open level

	ig.crGCP(true)

	for ig.g.NoE() > 0 || !ig.linsys().IsConsistent() {
		if ig.cancel.Load() {
			log.Debug().Msg("cancelled")
			ig.status = Indet
			return ig.status
		}

		if !ig.linsys().IsConsistent() {
			if !ig.backtrack(&alts) {
				ig.status = Unsat
				return ig.status
			}
			ig.crGCP(true)
			continue
		}

		dec, alt := ig.decide()
		conflict := false
		sat := false
		for !dec.IsConsistent() || !alt.IsConsistent() {
			// an inconsistent branch is no decision: propagate the other
			// side outright and pick again
			if dec.IsConsistent() {
				ig.addXSys(dec)
			} else if alt.IsConsistent() {
				ig.addXSys(alt)
			} else {
				conflict = true
				break
			}
			ig.crGCP(true)
			if !ig.linsys().IsConsistent() {
				conflict = true
				break
			}
			if ig.g.NoE() == 0 {
				sat = true
				break
			}
			dec, alt = ig.decide()
		}
		if sat {
			break
		}
		if conflict {
			if !ig.backtrack(&alts) {
				ig.status = Unsat
				return ig.status
			}
			ig.crGCP(true)
			continue
		}

		ig.Stats.NbDecisions++
		ig.pushLevel()
		log.Debug().Int("dl", ig.Dl()).Int("dec", dec.Size()).Int("alt", alt.Size()).Msg("decision")
		ig.addXSys(dec)
		alts = append(alts, alt)

		ig.crGCP(true)
	}

	ig.assembleSolution()
	ig.status = Sat
	return ig.status
}

// assembleSolution extends the all-false assignment level by level, walking
// the innermost level outward and each level's systems in reverse insertion
// order, which is the order pivot back-substitution needs.
func (ig *ImplGraph) assembleSolution() {
	sol := make([]bool, ig.opts.NumVars)
	for lvl := len(ig.xsysStack) - 1; lvl >= 0; lvl-- {
		systems := ig.xsysStack[lvl]
		for i := len(systems) - 1; i >= 0; i-- {
			systems[i].Solve(sol)
		}
	}
	ig.model = sol
}

// Model returns the witness found by a Sat answer, indexed by variable
// minus one, in the (possibly guessing-path-renamed) variable space of the
// clauses the graph was built from. The method panics when the status is
// not Sat.
func (ig *ImplGraph) Model() []bool {
	if ig.status != Sat {
		panic("cannot call Model() from a non-Sat solver")
	}
	out := make([]bool, len(ig.model))
	copy(out, ig.model)
	return out
}
