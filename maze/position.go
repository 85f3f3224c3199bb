package maze

import (
	"fmt"
	"math"

	"github.com/CodeStranger-Fred/efemaze/mdp"
)

// Position is a (row, col) cell index. Row is the first coordinate
// everywhere: grids, belief matrices and model inputs.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

func (p Position) Shift(a mdp.Action) Position {
	dr, dc := a.Delta()
	return Position{Row: p.Row + dr, Col: p.Col + dc}
}

func (p Position) Manhattan(q Position) int {
	return abs(p.Row-q.Row) + abs(p.Col-q.Col)
}

func (p Position) Euclidean(q Position) float64 {
	return math.Hypot(float64(p.Row-q.Row), float64(p.Col-q.Col))
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
