package agent

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"

	"github.com/CodeStranger-Fred/efemaze/maze"
)

func mustParse(t *testing.T, rows ...string) *maze.Grid {
	t.Helper()
	g, err := maze.Parse(rows...)
	require.NoError(t, err)
	return g
}

func TestAgent_ReachesGoalThroughGap(t *testing.T) {
	// the goal quadrant is fenced off except for a gap at (2,3)
	g := mustParse(t,
		".....",
		".....",
		"..#.#",
		"..#..",
		"..#..",
	)
	start, goal := maze.Position{Row: 1, Col: 1}, maze.Position{Row: 3, Col: 3}
	for seed := uint64(1); seed <= 20; seed++ {
		opts := DefaultOptions(Active)
		opts.MaxSteps = 100
		res, err := Run(g, start, goal, opts, maze.NewRand(seed))
		require.NoError(t, err)

		assert.Equal(t, Reached, res.Status, "seed %d", seed)
		assert.Equal(t, goal, res.Final(), "seed %d", seed)
		assert.Equal(t, start, res.Path[0])
		assert.Len(t, res.Beliefs, len(res.Path))
		assert.Len(t, res.Trace, res.Steps)
	}
}

func TestAgent_UnreachableGoalExhausts(t *testing.T) {
	g := mustParse(t,
		".....",
		".....",
		"...#.",
		"..#.#",
		"...#.",
	)
	goal := maze.Position{Row: 3, Col: 3}
	opts := DefaultOptions(Active)
	opts.MaxSteps = 50
	res, err := Run(g, maze.Position{Row: 1, Col: 1}, goal, opts, maze.NewRand(5))
	require.NoError(t, err)

	assert.Equal(t, Exhausted, res.Status)
	assert.Equal(t, 50, res.Steps)
	assert.Len(t, res.Path, 51)
	assert.NotContains(t, res.Path, goal)
	assert.Positive(t, res.Moves())
}

func TestAgent_RevealCorridorIsExact(t *testing.T) {
	g := mustParse(t,
		"#####",
		"#####",
		".....",
		"#####",
		"#####",
	)
	start, goal := maze.Position{Row: 2, Col: 0}, maze.Position{Row: 2, Col: 4}
	for seed := uint64(1); seed <= 5; seed++ {
		res, err := Run(g, start, goal, DefaultOptions(Reveal), maze.NewRand(seed))
		require.NoError(t, err)

		assert.Equal(t, Reached, res.Status)
		assert.Equal(t, start.Manhattan(goal), res.Moves())
		assert.Equal(t, start.Manhattan(goal), res.Steps)
		assert.Equal(t, []maze.Position{
			{Row: 2, Col: 0}, {Row: 2, Col: 1}, {Row: 2, Col: 2}, {Row: 2, Col: 3}, {Row: 2, Col: 4},
		}, res.Path)
	}
}

func TestAgent_RevealReachesGoalThroughGap(t *testing.T) {
	g := mustParse(t,
		".....",
		".....",
		"..#.#",
		"..#..",
		"..#..",
	)
	opts := DefaultOptions(Reveal)
	opts.MaxSteps = 100
	res, err := Run(g, maze.Position{Row: 1, Col: 1}, maze.Position{Row: 3, Col: 3}, opts, maze.NewRand(11))
	require.NoError(t, err)
	assert.Equal(t, Reached, res.Status)

	// the reveal map never forgets a cell
	for i := 1; i < len(res.Beliefs); i++ {
		prev, cur := res.Beliefs[i-1].RawMatrix().Data, res.Beliefs[i].RawMatrix().Data
		for j := range cur {
			if prev[j] != float64(Unknown) {
				assert.Equal(t, prev[j], cur[j], "snapshot %d cell %d", i, j)
			}
		}
	}
}

func TestAgent_NeverEntersWalls(t *testing.T) {
	for seed := uint64(1); seed <= 5; seed++ {
		rng := maze.NewRand(seed)
		g, err := maze.Terrain{Density: 0.25}.Generate(11, rng)
		require.NoError(t, err)
		opts := DefaultOptions(Active)
		opts.MaxSteps = 60
		res, err := Run(g, maze.DefaultStart(), maze.DefaultGoal(g), opts, rng)
		require.NoError(t, err)

		for _, p := range res.Path[1:] {
			assert.True(t, g.InBounds(p), "seed %d: %v", seed, p)
			assert.True(t, g.IsFree(p), "seed %d: %v", seed, p)
		}
		for i, b := range res.Beliefs {
			assert.InDelta(t, 1.0, floats.Sum(b.RawMatrix().Data), 1e-6, "seed %d snapshot %d", seed, i)
		}
	}
}

func TestAgent_Deterministic(t *testing.T) {
	run := func(seed uint64, v Variant) []maze.Position {
		rng := maze.NewRand(seed)
		g, err := maze.Prims{}.Generate(11, rng)
		require.NoError(t, err)
		opts := DefaultOptions(v)
		opts.MaxSteps = 200
		res, err := Run(g, maze.DefaultStart(), maze.DefaultGoal(g), opts, rng)
		require.NoError(t, err)
		return res.Path
	}
	for _, v := range []Variant{Active, Reveal} {
		a, b := run(42, v), run(42, v)
		if diff := cmp.Diff(a, b); diff != "" {
			t.Errorf("%s: paths differ for the same seed (-first +second):\n%s", v, diff)
		}
	}
}

func TestAgent_StallsWhenBoxedIn(t *testing.T) {
	g := mustParse(t,
		"###",
		"#.#",
		"###",
	)
	opts := DefaultOptions(Active)
	opts.MaxSteps = 5
	a, err := New(g, maze.Position{Row: 1, Col: 1}, maze.Position{Row: 0, Col: 0}, opts, maze.NewRand(1))
	require.NoError(t, err)
	res := a.Run()

	assert.Equal(t, Exhausted, res.Status)
	assert.Zero(t, res.Moves())
	for _, tr := range res.Trace {
		assert.True(t, tr.Stalled)
		assert.Equal(t, tr.From, tr.To)
	}
	assert.InDelta(t, 0.99*(1+0.99*(1+0.99*(1+0.99*(1+0.99)))), a.Visits().At(maze.Position{Row: 1, Col: 1}), 1e-9)
}

func TestAgent_StartAtGoal(t *testing.T) {
	g := openGrid(t, 5, 5)
	p := maze.Position{Row: 2, Col: 2}
	a, err := New(g, p, p, DefaultOptions(Active), maze.NewRand(1))
	require.NoError(t, err)

	assert.Equal(t, Reached, a.Status())
	assert.Equal(t, Reached, a.Step())
	res := a.Run()
	assert.Zero(t, res.Steps)
	assert.Equal(t, []maze.Position{p}, res.Path)
}

func TestAgent_LearnsOnEveryMove(t *testing.T) {
	g := openGrid(t, 5, 5)
	opts := DefaultOptions(Active)
	opts.MaxSteps = 10
	m := &constModel{p: 0.9}
	pol := NewActivePolicy(g, maze.Position{Row: 0, Col: 0}, maze.Position{Row: 4, Col: 4}, m, opts)
	a, err := NewWithPolicy(g, maze.Position{Row: 0, Col: 0}, maze.Position{Row: 4, Col: 4}, pol, opts, maze.NewRand(2))
	require.NoError(t, err)
	res := a.Run()

	assert.Equal(t, res.Path[1:], m.trained)
	assert.Equal(t, res.Steps, pol.Learner().Steps())
}

func TestNew_Errors(t *testing.T) {
	g := openGrid(t, 5, 5)
	rng := maze.NewRand(1)

	for _, v := range []Variant{Active, Reveal} {
		tests := []struct {
			name        string
			start, goal maze.Position
		}{
			{"start above grid", maze.Position{Row: -1, Col: 0}, maze.Position{Row: 3, Col: 3}},
			{"goal below grid", maze.Position{Row: 1, Col: 1}, maze.Position{Row: 5, Col: 3}},
			{"start far outside", maze.Position{Row: 99, Col: 99}, maze.Position{Row: 3, Col: 3}},
		}
		for _, tt := range tests {
			var err error
			require.NotPanics(t, func() {
				_, err = New(g, tt.start, tt.goal, DefaultOptions(v), rng)
			}, "%s: %s", v, tt.name)
			assert.ErrorIs(t, err, ErrOutOfBounds, "%s: %s", v, tt.name)
			assert.ErrorIs(t, err, maze.ErrOutOfBounds, "%s: %s", v, tt.name)
		}
	}

	opts := DefaultOptions("greedy")
	_, err := New(g, maze.Position{Row: 1, Col: 1}, maze.Position{Row: 3, Col: 3}, opts, rng)
	assert.ErrorIs(t, err, ErrUnknownVariant)

	opts = DefaultOptions(Active)
	opts.Network.Device = "cuda"
	_, err = New(g, maze.Position{Row: 1, Col: 1}, maze.Position{Row: 3, Col: 3}, opts, rng)
	assert.ErrorIs(t, err, ErrUnsupportedDevice)

	opts = DefaultOptions(Reveal)
	opts.MaxSteps = 0
	assert.Error(t, opts.Validate())
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "running", Running.String())
	assert.Equal(t, "reached", Reached.String())
	assert.Equal(t, "exhausted", Exhausted.String())
	assert.Equal(t, "Status(9)", Status(9).String())
}
