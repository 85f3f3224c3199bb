package agent

import (
	"gonum.org/v1/gonum/mat"

	"github.com/CodeStranger-Fred/efemaze/maze"
)

// PreferenceField is the static prior over cells: peak/(d+1) with d the
// Euclidean distance to the goal, and exactly peak at the goal.
type PreferenceField struct {
	m    *mat.Dense
	peak float64
}

func NewPreferenceField(rows, cols int, goal maze.Position, peak float64) *PreferenceField {
	m := mat.NewDense(rows, cols, nil)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			d := goal.Euclidean(maze.Position{Row: r, Col: c})
			m.Set(r, c, peak/(d+1))
		}
	}
	m.Set(goal.Row, goal.Col, peak)
	return &PreferenceField{m: m, peak: peak}
}

func (f *PreferenceField) At(p maze.Position) float64 {
	return f.m.At(p.Row, p.Col)
}

func (f *PreferenceField) Max() float64 { return f.peak }

// Matrix exposes the field read-only.
func (f *PreferenceField) Matrix() mat.Matrix { return f.m }
