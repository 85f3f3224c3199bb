package agent

import (
	"gonum.org/v1/gonum/mat"

	"github.com/CodeStranger-Fred/efemaze/maze"
)

// ActivePolicy is the canonical engine: a probability distribution over cells
// revised by Bayesian updates and diffusion, a learned observation model, and
// the full risk + ambiguity + visit - preference score.
type ActivePolicy struct {
	grid     *maze.Grid
	belief   *Belief
	model    ObservationModel
	learner  *OnlineLearner
	prefs    *PreferenceField
	updater  BayesianUpdater
	diffuser TransitionDiffuser
	opts     Options
}

// NewActivePolicy panics if start or goal is outside grid; New checks them.
func NewActivePolicy(grid *maze.Grid, start, goal maze.Position, model ObservationModel, opts Options) *ActivePolicy {
	return &ActivePolicy{
		grid:     grid,
		belief:   NewBelief(grid.Rows(), grid.Cols(), opts.PriorBoost, start, goal),
		model:    model,
		learner:  NewOnlineLearner(model, grid, opts.logger()),
		prefs:    NewPreferenceField(grid.Rows(), grid.Cols(), goal, opts.GoalPreference),
		updater:  BayesianUpdater{Radius: opts.SensingRadius},
		diffuser: TransitionDiffuser{Radius: opts.TransitionRadius},
		opts:     opts,
	}
}

func (a *ActivePolicy) Name() string { return string(Active) }

func (a *ActivePolicy) Perceive(pos maze.Position) {
	a.updater.Update(a.belief, a.grid, pos, a.model)
	a.diffuser.Diffuse(a.belief, a.grid, pos)
}

func (a *ActivePolicy) Act(pos maze.Position, visits *VisitCounts) Decision {
	var cands []Candidate
	for _, q := range a.grid.Neighbors(pos) {
		// only confirmed walls block movement
		if !a.grid.IsFree(q) {
			continue
		}
		cands = append(cands, Candidate{Pos: q, EFE: a.score(q, visits)})
	}
	return decide(cands, a.opts.Gamma)
}

func (a *ActivePolicy) score(q maze.Position, visits *VisitCounts) float64 {
	p, _ := a.model.Predict(q)
	return a.opts.Alpha*risk(p, a.grid.IsFree(q)) +
		a.opts.Beta*ambiguity(p) +
		a.opts.VisitPenalty*visits.At(q) -
		a.prefs.At(q)
}

func (a *ActivePolicy) Learn(pos maze.Position) float64 {
	return a.learner.Learn(pos)
}

func (a *ActivePolicy) Snapshot() *mat.Dense { return a.belief.Snapshot() }

func (a *ActivePolicy) Belief() *Belief { return a.belief }

func (a *ActivePolicy) Preferences() *PreferenceField { return a.prefs }

func (a *ActivePolicy) Learner() *OnlineLearner { return a.learner }
