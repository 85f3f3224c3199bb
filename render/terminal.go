package render

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/logrusorgru/aurora"

	"github.com/CodeStranger-Fred/efemaze/agent"
	"github.com/CodeStranger-Fred/efemaze/maze"
)

const clearScreen = "\033[H\033[2J"

// Terminal prints runs with maze.Printer.
type Terminal struct {
	Out   io.Writer
	Color bool
	// Delay between animation frames.
	Delay time.Duration
}

func (t Terminal) printer() maze.Printer {
	return maze.Printer{Out: t.Out, Color: t.Color}
}

// Final prints the grid with the whole path and a status line.
func (t Terminal) Final(g *maze.Grid, res *agent.Result) error {
	f := maze.Frame{Start: res.Start, Goal: res.Goal, Current: res.Final(), Path: res.Path}
	if err := t.printer().Print(g, f); err != nil {
		return err
	}
	return t.status(res)
}

func (t Terminal) status(res *agent.Result) error {
	au := aurora.NewAurora(t.Color)
	status := au.Green(res.Status.String())
	if !res.Reached() {
		status = au.Red(res.Status.String())
	}
	_, err := fmt.Fprintf(t.Out, "%s after %d steps (%d moves)\n", status, res.Steps, res.Moves())
	return err
}

// Animate replays the path one frame per position.
func (t Terminal) Animate(ctx context.Context, g *maze.Grid, res *agent.Result) error {
	for i := range res.Path {
		if err := ctx.Err(); err != nil {
			return err
		}
		if t.Color {
			if _, err := fmt.Fprint(t.Out, clearScreen); err != nil {
				return err
			}
		}
		f := maze.Frame{Start: res.Start, Goal: res.Goal, Current: res.Path[i], Path: res.Path[:i+1]}
		if _, err := fmt.Fprintf(t.Out, "step %d/%d\n", i, len(res.Path)-1); err != nil {
			return err
		}
		if err := t.printer().Print(g, f); err != nil {
			return err
		}
		if t.Delay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(t.Delay):
			}
		}
	}
	return t.status(res)
}
