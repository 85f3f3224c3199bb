package agent

import (
	"gonum.org/v1/gonum/mat"

	"github.com/CodeStranger-Fred/efemaze/maze"
)

// Knowledge is the simplified agent's per-cell state.
type Knowledge int8

const (
	Unknown      Knowledge = -1
	KnownBlocked Knowledge = 0
	KnownFree    Knowledge = 1
)

// RevealMap records which cells the simplified agent has seen. A cell leaves
// Unknown at most once and never returns to it.
type RevealMap struct {
	rows, cols int
	cells      []Knowledge
}

func NewRevealMap(rows, cols int) *RevealMap {
	cells := make([]Knowledge, rows*cols)
	for i := range cells {
		cells[i] = Unknown
	}
	return &RevealMap{rows: rows, cols: cols, cells: cells}
}

func (m *RevealMap) At(p maze.Position) Knowledge {
	if p.Row < 0 || p.Col < 0 || p.Row >= m.rows || p.Col >= m.cols {
		return Unknown
	}
	return m.cells[p.Row*m.cols+p.Col]
}

// Observe reveals the ground truth at pos and its orthogonal neighbours.
func (m *RevealMap) Observe(g *maze.Grid, pos maze.Position) {
	m.reveal(g, pos)
	for _, q := range g.Neighbors(pos) {
		m.reveal(g, q)
	}
}

func (m *RevealMap) reveal(g *maze.Grid, p maze.Position) {
	i := p.Row*m.cols + p.Col
	if m.cells[i] != Unknown {
		return
	}
	if g.IsFree(p) {
		m.cells[i] = KnownFree
	} else {
		m.cells[i] = KnownBlocked
	}
}

// Snapshot encodes the map as -1 unknown, 0 blocked, 1 free.
func (m *RevealMap) Snapshot() *mat.Dense {
	data := make([]float64, len(m.cells))
	for i, k := range m.cells {
		data[i] = float64(k)
	}
	return mat.NewDense(m.rows, m.cols, data)
}
