package agent

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/CodeStranger-Fred/efemaze/maze"
)

const (
	normEpsilon     = 1e-12
	likelihoodFloor = 1e-6
)

// Belief is a probability distribution over grid cells. Every update leaves
// it summing to one (up to the normalisation epsilon).
type Belief struct {
	p *mat.Dense
}

// NewBelief returns a uniform distribution with the mass at each emphasized
// cell multiplied by boost, normalised.
func NewBelief(rows, cols int, boost float64, emphasized ...maze.Position) *Belief {
	data := make([]float64, rows*cols)
	for i := range data {
		data[i] = 1
	}
	b := &Belief{p: mat.NewDense(rows, cols, data)}
	for _, e := range emphasized {
		b.p.Set(e.Row, e.Col, b.p.At(e.Row, e.Col)*boost)
	}
	b.Normalize()
	return b
}

func (b *Belief) At(p maze.Position) float64 {
	return b.p.At(p.Row, p.Col)
}

func (b *Belief) Sum() float64 {
	return floats.Sum(b.p.RawMatrix().Data)
}

func (b *Belief) Normalize() {
	b.p.Scale(1/(b.Sum()+normEpsilon), b.p)
}

// Snapshot returns a copy safe to keep after further updates.
func (b *Belief) Snapshot() *mat.Dense {
	return mat.DenseCopyOf(b.p)
}

// window returns the half-open row and column ranges of the square of the
// given radius around p, clipped to a rows×cols grid.
func window(p maze.Position, radius, rows, cols int) (r0, r1, c0, c1 int) {
	r0, r1 = max(0, p.Row-radius), min(rows, p.Row+radius+1)
	c0, c1 = max(0, p.Col-radius), min(cols, p.Col+radius+1)
	return
}

// BayesianUpdater folds local sensing into a Belief. The only hard evidence
// is the ground truth at the agent's own cell; it acts as one visibility cue
// for the whole window, weighted per cell by the model's free-probability.
type BayesianUpdater struct {
	Radius int
}

func (u BayesianUpdater) Update(b *Belief, g *maze.Grid, pos maze.Position, model ObservationModel) {
	rows, cols := b.p.Dims()
	r0, r1, c0, c1 := window(pos, u.Radius, rows, cols)
	free := g.IsFree(pos)
	for r := r0; r < r1; r++ {
		for c := c0; c < c1; c++ {
			p, _ := model.Predict(maze.Position{Row: r, Col: c})
			like := p
			if !free {
				like = 1 - p
			}
			b.p.Set(r, c, b.p.At(r, c)*(like+likelihoodFloor))
		}
	}
	b.Normalize()
}

// TransitionDiffuser smears belief mass across passable neighbours inside a
// small window, modelling positional uncertainty. Walls come from the grid,
// not from the belief.
type TransitionDiffuser struct {
	Radius int
}

func (d TransitionDiffuser) Diffuse(b *Belief, g *maze.Grid, pos maze.Position) {
	rows, cols := b.p.Dims()
	r0, r1, c0, c1 := window(pos, d.Radius, rows, cols)
	local := mat.NewDense(r1-r0, c1-c0, nil)
	inWindow := func(q maze.Position) bool {
		return q.Row >= r0 && q.Row < r1 && q.Col >= c0 && q.Col < c1
	}

	before := 0.0
	for r := r0; r < r1; r++ {
		for c := c0; c < c1; c++ {
			mass := b.p.At(r, c)
			if mass <= 0 {
				continue
			}
			before += mass
			var targets []maze.Position
			for _, q := range g.Neighbors(maze.Position{Row: r, Col: c}) {
				if inWindow(q) && g.IsFree(q) {
					targets = append(targets, q)
				}
			}
			if len(targets) == 0 {
				local.Set(r-r0, c-c0, local.At(r-r0, c-c0)+mass)
				continue
			}
			share := mass / float64(len(targets))
			for _, q := range targets {
				local.Set(q.Row-r0, q.Col-c0, local.At(q.Row-r0, q.Col-c0)+share)
			}
		}
	}

	// the block keeps the mass it had before diffusion
	after := floats.Sum(local.RawMatrix().Data)
	scale := before / (after + normEpsilon)
	for r := r0; r < r1; r++ {
		for c := c0; c < c1; c++ {
			b.p.Set(r, c, local.At(r-r0, c-c0)*scale)
		}
	}
}
