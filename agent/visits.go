package agent

import (
	"gonum.org/v1/gonum/mat"

	"github.com/CodeStranger-Fred/efemaze/maze"
)

// VisitCounts is a soft, fading visit tally used as an exploration penalty.
type VisitCounts struct {
	m     *mat.Dense
	decay float64
}

func NewVisitCounts(rows, cols int, decay float64) *VisitCounts {
	return &VisitCounts{m: mat.NewDense(rows, cols, nil), decay: decay}
}

// Record adds one visit at p and then decays every cell, p included.
func (v *VisitCounts) Record(p maze.Position) {
	v.m.Set(p.Row, p.Col, v.m.At(p.Row, p.Col)+1)
	v.m.Scale(v.decay, v.m)
}

func (v *VisitCounts) At(p maze.Position) float64 {
	return v.m.At(p.Row, p.Col)
}

func (v *VisitCounts) Matrix() mat.Matrix { return v.m }
