package solver

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// updateGraph propagates a consistent linear system into the graph: every
// live vertex label is reduced by sys, vertices whose labels collapsed onto
// an existing label (or its complement) are merged, and if the zero label
// is realized the labels implied by it are extracted. The returned system
// holds the newly implied linerals; the caller unions it into the current
// level.
//
// The reduction of the labels is independent per vertex and fans out over
// goroutines when opts.Jobs allows; label rewrites and merges stay
// sequential.
func (ig *ImplGraph) updateGraph(sys *LinEqs) *LinEqs {
	ig.Stats.NbGraphUpdates++
	ig.Stats.TotalUpdVerts += int64(ig.g.NoV())
	ig.Stats.TotalUpdSysSize += int64(sys.Size())

	if sys.Size() == 0 {
		return NewLinEqs()
	}

	verts := append([]Vertex(nil), ig.g.Vertices()...)
	reduced := ig.reduceLabels(verts, sys)

	// rewrite labels and queue merges
	var mergeList [][2]Vertex
	for i, v := range verts {
		if reduced[i] == nil {
			continue
		}
		ig.Stats.NbVertUpdates++
		vUpd, flipped := ig.vl.Update(v, *reduced[i])
		target := vUpd
		if flipped {
			target = vUpd.Sigma()
		}
		if target != v {
			mergeList = append(mergeList, [2]Vertex{target, v})
		}
	}
	for _, m := range mergeList {
		ig.g.Merge(m[0], m[1])
	}

	// zero-label extraction: everything reachable from the zero vertex is
	// implied outright
	var newLits []Lineral
	if vZero, ok := ig.vl.ZeroVertex(); ok {
		marked := make(map[Vertex]bool, 8)
		queue := []Vertex{vZero}
		marked[vZero] = true
		for len(queue) > 0 {
			v := queue[0]
			queue = queue[1:]
			if marked[v.Sigma()] {
				// v and its complement both implied
				newLits = append(newLits, One())
				break
			}
			newLits = append(newLits, ig.vl.Label(v))
			ig.bufN = ig.g.OutNeighbors(v, ig.bufN[:0])
			for _, w := range ig.bufN {
				if !marked[w] {
					marked[w] = true
					queue = append(queue, w)
				}
			}
			ig.g.RemoveVertex(v)
			if ig.vl.HasExact(v) {
				ig.vl.Erase(v)
			} else {
				ig.vl.Erase(v.Sigma())
			}
		}
	}

	return newLinEqsOwned(newLits)
}

// reduceLabels reduces the label of every vertex in verts by sys, returning
// a slice parallel to verts with nil for unchanged labels. Labels only
// stored at the sigma partner are skipped there and handled through the
// partner itself.
func (ig *ImplGraph) reduceLabels(verts []Vertex, sys *LinEqs) []*Lineral {
	reduced := make([]*Lineral, len(verts))
	work := func(from, to int) {
		for i := from; i < to; i++ {
			v := verts[i]
			// each pair is reduced once, through its stored representative
			if !ig.vl.HasExact(v) {
				continue
			}
			lit := ig.vl.Label(v).Clone()
			if lit.Reduce(sys) {
				reduced[i] = &lit
			}
		}
	}

	jobs := ig.opts.Jobs
	if jobs > runtime.NumCPU() {
		jobs = runtime.NumCPU()
	}
	if jobs < 2 || len(verts) < 64 {
		work(0, len(verts))
		return reduced
	}

	var eg errgroup.Group
	chunk := (len(verts) + jobs - 1) / jobs
	for from := 0; from < len(verts); from += chunk {
		from, to := from, from+chunk
		if to > len(verts) {
			to = len(verts)
		}
		eg.Go(func() error {
			work(from, to)
			return nil
		})
	}
	_ = eg.Wait() // workers never fail
	return reduced
}
