package maze

import (
	"fmt"
	"io"

	"github.com/logrusorgru/aurora"
)

// Frame marks the cells drawn on top of the grid.
type Frame struct {
	Start, Goal, Current Position
	Path                 []Position
}

// Printer draws grids to a terminal, one glyph pair per cell.
type Printer struct {
	Out   io.Writer
	Color bool
}

func (p Printer) Print(g *Grid, f Frame) error {
	au := aurora.NewAurora(p.Color)
	onPath := make(map[Position]bool, len(f.Path))
	for _, q := range f.Path {
		onPath[q] = true
	}
	for r := 0; r < g.Rows(); r++ {
		for c := 0; c < g.Cols(); c++ {
			q := Position{r, c}
			var glyph aurora.Value
			switch {
			case q == f.Current:
				glyph = au.Green("@ ")
			case q == f.Goal:
				glyph = au.Red("G ")
			case q == f.Start:
				glyph = au.Blue("S ")
			case g.At(q) == Blocked:
				glyph = au.White("# ")
			case onPath[q]:
				glyph = au.Yellow("* ")
			default:
				glyph = au.Blue(". ")
			}
			if _, err := fmt.Fprint(p.Out, glyph); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(p.Out); err != nil {
			return err
		}
	}
	return nil
}
