package agent

import (
	"gonum.org/v1/gonum/mat"

	"github.com/CodeStranger-Fred/efemaze/maze"
)

// RevealPolicy is the simplified engine: a tri-state map revealed around the
// agent and a score of visit penalty minus preference. It moves only onto
// cells it has already seen to be free.
type RevealPolicy struct {
	grid   *maze.Grid
	reveal *RevealMap
	prefs  *PreferenceField
	opts   Options
}

// NewRevealPolicy panics if start or goal is outside grid; New checks them.
func NewRevealPolicy(grid *maze.Grid, start, goal maze.Position, opts Options) *RevealPolicy {
	rp := &RevealPolicy{
		grid:   grid,
		reveal: NewRevealMap(grid.Rows(), grid.Cols()),
		prefs:  NewPreferenceField(grid.Rows(), grid.Cols(), goal, opts.GoalPreference),
		opts:   opts,
	}
	rp.reveal.Observe(grid, start)
	return rp
}

func (r *RevealPolicy) Name() string { return string(Reveal) }

func (r *RevealPolicy) Perceive(pos maze.Position) {
	r.reveal.Observe(r.grid, pos)
}

func (r *RevealPolicy) Act(pos maze.Position, visits *VisitCounts) Decision {
	var cands []Candidate
	for _, q := range r.grid.Neighbors(pos) {
		if r.reveal.At(q) != KnownFree {
			continue
		}
		efe := r.opts.VisitPenalty*visits.At(q) - r.prefs.At(q)
		cands = append(cands, Candidate{Pos: q, EFE: efe})
	}
	return decide(cands, r.opts.Gamma)
}

func (r *RevealPolicy) Snapshot() *mat.Dense { return r.reveal.Snapshot() }

func (r *RevealPolicy) Map() *RevealMap { return r.reveal }
