package agent

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodeStranger-Fred/efemaze/maze"
)

func TestRiskAndAmbiguity(t *testing.T) {
	assert.InDelta(t, -math.Log(0.8), risk(0.8, true), 1e-9)
	assert.InDelta(t, -math.Log(0.2), risk(0.8, false), 1e-9)
	assert.InDelta(t, math.Ln2, ambiguity(0.5), 1e-9)
	assert.InDelta(t, 0.0, ambiguity(0), 1e-9)
	assert.Less(t, ambiguity(0.9), ambiguity(0.6))
}

func TestActivePolicy_CandidatesAreInBoundsAndFree(t *testing.T) {
	g, err := maze.Parse(
		".#.",
		"...",
		"#..",
	)
	require.NoError(t, err)
	opts := DefaultOptions(Active)
	pol := NewActivePolicy(g, maze.Position{Row: 0, Col: 0}, maze.Position{Row: 2, Col: 2}, &constModel{p: 0.5}, opts)
	visits := NewVisitCounts(3, 3, opts.VisitDecay)

	d := pol.Act(maze.Position{Row: 1, Col: 0}, visits)
	var got []maze.Position
	for _, c := range d.Candidates {
		got = append(got, c.Pos)
	}
	// up (0,0) and right (1,1) only: left is off-grid, down is a wall
	assert.Equal(t, []maze.Position{{Row: 0, Col: 0}, {Row: 1, Col: 1}}, got)
	assert.NoError(t, d.Pdf.Check())
	assert.Greater(t, float64(d.Pdf.Prob(maze.Position{Row: 1, Col: 1})), 0.99)
}

func TestActivePolicy_Score(t *testing.T) {
	g := openGrid(t, 5, 5)
	opts := DefaultOptions(Active)
	goal := maze.Position{Row: 4, Col: 4}
	pol := NewActivePolicy(g, maze.Position{Row: 0, Col: 0}, goal, &constModel{p: 0.8}, opts)
	visits := NewVisitCounts(5, 5, opts.VisitDecay)
	q := maze.Position{Row: 0, Col: 1}
	visits.Record(q)

	d := pol.Act(maze.Position{Row: 0, Col: 0}, visits)
	want := 0.5*risk(0.8, true) + 0.5*ambiguity(0.8) + 1.0*0.99 - 200/(goal.Euclidean(q)+1)
	assert.InDelta(t, want, d.EFE(q), 1e-9)
	assert.True(t, math.IsNaN(d.EFE(maze.Position{Row: 3, Col: 3})))
}

func TestActivePolicy_Stall(t *testing.T) {
	g, err := maze.Parse(
		"###",
		"#.#",
		"###",
	)
	require.NoError(t, err)
	pol := NewActivePolicy(g, maze.Position{Row: 1, Col: 1}, maze.Position{Row: 0, Col: 0}, &constModel{p: 0.5}, DefaultOptions(Active))
	d := pol.Act(maze.Position{Row: 1, Col: 1}, NewVisitCounts(3, 3, 0.99))
	assert.True(t, d.Stalled())
	assert.Zero(t, d.Pdf.Len())
}

func TestRevealPolicy_OnlyRevealedFreeCells(t *testing.T) {
	g, err := maze.Parse(
		"....",
		".#..",
		"....",
	)
	require.NoError(t, err)
	opts := DefaultOptions(Reveal)
	start := maze.Position{Row: 0, Col: 0}
	pol := NewRevealPolicy(g, start, maze.Position{Row: 2, Col: 3}, opts)
	visits := NewVisitCounts(3, 4, opts.VisitDecay)

	// the start's neighbourhood is observed on construction
	assert.Equal(t, KnownFree, pol.Map().At(maze.Position{Row: 0, Col: 1}))
	assert.Equal(t, Unknown, pol.Map().At(maze.Position{Row: 1, Col: 1}))

	// from (0,1) the wall below is still unknown, so it is not a candidate
	d := pol.Act(maze.Position{Row: 0, Col: 1}, visits)
	require.Len(t, d.Candidates, 1)
	assert.Equal(t, start, d.Candidates[0].Pos)

	pol.Perceive(maze.Position{Row: 0, Col: 1})
	d = pol.Act(maze.Position{Row: 0, Col: 1}, visits)
	var got []maze.Position
	for _, c := range d.Candidates {
		got = append(got, c.Pos)
	}
	assert.Equal(t, []maze.Position{{Row: 0, Col: 2}, {Row: 0, Col: 0}}, got)
}
