package agent

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/CodeStranger-Fred/efemaze/maze"
	"github.com/CodeStranger-Fred/efemaze/mdp"
)

// Policy is a policy engine: it folds observations into its internal model
// of the maze and scores the legal moves from a cell by expected free
// energy. Engines that also learn implement Learner.
type Policy interface {
	Name() string
	// Perceive updates the engine's belief with what is sensed at pos.
	Perceive(pos maze.Position)
	// Act scores the legal moves from pos. A decision without candidates
	// means the agent stays where it is.
	Act(pos maze.Position, visits *VisitCounts) Decision
	// Snapshot copies the engine's current belief for history and rendering.
	Snapshot() *mat.Dense
}

// Learner is implemented by engines that train after each move.
type Learner interface {
	Learn(pos maze.Position) float64
}

// Candidate is a legal move and its expected free energy.
type Candidate struct {
	Pos maze.Position
	EFE float64
}

type Decision struct {
	Candidates []Candidate
	Pdf        mdp.DiscretePdf[maze.Position]
}

func (d Decision) Stalled() bool { return len(d.Candidates) == 0 }

// EFE looks up the score of pos, NaN if it was not a candidate.
func (d Decision) EFE(pos maze.Position) float64 {
	for _, c := range d.Candidates {
		if c.Pos == pos {
			return c.EFE
		}
	}
	return math.NaN()
}

func decide(cands []Candidate, gamma float64) Decision {
	if len(cands) == 0 {
		return Decision{}
	}
	outcomes := make([]maze.Position, len(cands))
	energies := make([]float64, len(cands))
	for i, c := range cands {
		outcomes[i] = c.Pos
		energies[i] = c.EFE
	}
	return Decision{Candidates: cands, Pdf: mdp.Boltzmann(outcomes, energies, gamma)}
}

// risk is the surprise of the true passability under the predicted
// free-probability p.
func risk(p float64, free bool) float64 {
	if free {
		return -math.Log(p + logEps)
	}
	return -math.Log(1 - p + logEps)
}

// ambiguity is the binary entropy of p in nats.
func ambiguity(p float64) float64 {
	return -(p*math.Log(p+logEps) + (1-p)*math.Log(1-p+logEps))
}
