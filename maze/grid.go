// Package maze provides the passability grids the agents navigate, the
// generators that produce them, and a terminal printer.
package maze

import (
	"errors"
	"fmt"
	"strings"

	"github.com/CodeStranger-Fred/efemaze/mdp"
)

var (
	ErrInvalidSize  = errors.New("maze: invalid size")
	ErrOutOfBounds  = errors.New("maze: position out of bounds")
	ErrRaggedLayout = errors.New("maze: rows have different widths")
)

type Cell uint8

const (
	Free Cell = iota
	Blocked
)

// Grid is a rows×cols passability map. Generators and Parse fill it; after
// that it is only read.
type Grid struct {
	rows, cols int
	cells      []Cell
}

// NewGrid returns a grid with every cell set to fill.
func NewGrid(rows, cols int, fill Cell) (*Grid, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, rows, cols)
	}
	g := &Grid{rows: rows, cols: cols, cells: make([]Cell, rows*cols)}
	if fill != Free {
		for i := range g.cells {
			g.cells[i] = fill
		}
	}
	return g, nil
}

func (g *Grid) Rows() int { return g.rows }
func (g *Grid) Cols() int { return g.cols }

func (g *Grid) InBounds(p Position) bool {
	return p.Row >= 0 && p.Col >= 0 && p.Row < g.rows && p.Col < g.cols
}

// At returns the cell at p. Out-of-bounds positions read as Blocked.
func (g *Grid) At(p Position) Cell {
	if !g.InBounds(p) {
		return Blocked
	}
	return g.cells[p.Row*g.cols+p.Col]
}

func (g *Grid) IsFree(p Position) bool {
	return g.At(p) == Free
}

func (g *Grid) set(p Position, c Cell) {
	g.cells[p.Row*g.cols+p.Col] = c
}

// Neighbors returns the in-bounds orthogonal neighbours of p in
// mdp.Actions order, regardless of passability.
func (g *Grid) Neighbors(p Position) []Position {
	out := make([]Position, 0, len(mdp.Actions))
	for _, a := range mdp.Actions {
		q := p.Shift(a)
		if g.InBounds(q) {
			out = append(out, q)
		}
	}
	return out
}

// CheckPosition reports ErrOutOfBounds for positions outside the grid.
func (g *Grid) CheckPosition(p Position) error {
	if !g.InBounds(p) {
		return fmt.Errorf("%w: %v not in %dx%d", ErrOutOfBounds, p, g.rows, g.cols)
	}
	return nil
}

// String renders the grid with '#' for Blocked and '.' for Free.
func (g *Grid) String() string {
	var sb strings.Builder
	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			if g.At(Position{r, c}) == Blocked {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		if r < g.rows-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// Parse builds a grid from text rows: '#' is Blocked, anything else Free.
func Parse(rows ...string) (*Grid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("%w: empty layout", ErrInvalidSize)
	}
	g, err := NewGrid(len(rows), len(rows[0]), Free)
	if err != nil {
		return nil, err
	}
	for r, line := range rows {
		if len(line) != g.cols {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrRaggedLayout, r, len(line), g.cols)
		}
		for c, ch := range []byte(line) {
			if ch == '#' {
				g.set(Position{r, c}, Blocked)
			}
		}
	}
	return g, nil
}

// ParseText splits text on newlines, ignoring blank lines, and parses it.
func ParseText(text string) (*Grid, error) {
	var rows []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r \t")
		if line != "" {
			rows = append(rows, line)
		}
	}
	return Parse(rows...)
}
