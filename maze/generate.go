package maze

import (
	"fmt"
	"math/rand/v2"
)

// Generator produces a grid of roughly size×size cells from rng.
type Generator interface {
	Name() string
	Generate(size int, rng *rand.Rand) (*Grid, error)
}

// NewRand is the seeded source used for a whole run: generation, model
// initialisation and action sampling all draw from the same stream.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, 0))
}

// Generate is a convenience for gen.Generate with a fresh seeded source.
func Generate(gen Generator, size int, seed uint64) (*Grid, error) {
	return gen.Generate(size, NewRand(seed))
}

// DefaultStart is the start cell used by generated mazes.
func DefaultStart() Position { return Position{Row: 1, Col: 1} }

// DefaultGoal is the goal cell used by generated mazes: one in from the
// bottom-right corner.
func DefaultGoal(g *Grid) Position {
	return Position{Row: g.Rows() - 2, Col: g.Cols() - 2}
}

// ByName resolves the generator names accepted by the CLI and config.
func ByName(name string, density float64) (Generator, error) {
	switch name {
	case "prims", "":
		return Prims{}, nil
	case "terrain":
		return Terrain{Density: density}, nil
	default:
		return nil, fmt.Errorf("maze: unknown generator %q", name)
	}
}

// Prims carves a perfect maze with randomized Prim's algorithm. Even sizes
// are bumped to the next odd size so that passages sit on odd coordinates;
// (1,1) and (size-2,size-2) are therefore always connected.
type Prims struct{}

func (Prims) Name() string { return "prims" }

type frontierWall struct {
	wall, from Position
}

func (Prims) Generate(size int, rng *rand.Rand) (*Grid, error) {
	if size < 3 {
		return nil, fmt.Errorf("%w: prims needs size >= 3, got %d", ErrInvalidSize, size)
	}
	if size%2 == 0 {
		size++
	}
	g, err := NewGrid(size, size, Blocked)
	if err != nil {
		return nil, err
	}
	directions := []Position{{0, 1}, {1, 0}, {0, -1}, {-1, 0}}

	start := Position{Row: 1 + 2*rng.IntN((size-1)/2), Col: 1 + 2*rng.IntN((size-1)/2)}
	g.set(start, Free)

	var walls []frontierWall
	for _, d := range directions {
		w := Position{start.Row + d.Row, start.Col + d.Col}
		if g.InBounds(w) {
			walls = append(walls, frontierWall{wall: w, from: start})
		}
	}

	for len(walls) > 0 {
		i := rng.IntN(len(walls))
		fw := walls[i]
		walls = append(walls[:i], walls[i+1:]...)

		to := Position{
			Row: fw.wall.Row + (fw.wall.Row - fw.from.Row),
			Col: fw.wall.Col + (fw.wall.Col - fw.from.Col),
		}
		if !g.InBounds(to) || g.At(to) != Blocked {
			continue
		}
		g.set(fw.wall, Free)
		g.set(to, Free)
		for _, d := range directions {
			w := Position{to.Row + d.Row, to.Col + d.Col}
			if g.InBounds(w) && g.At(w) == Blocked {
				walls = append(walls, frontierWall{wall: w, from: to})
			}
		}
	}
	return g, nil
}

// Terrain scatters obstacles over a walled square. Nothing guarantees the
// goal is reachable; agents may exhaust their budget on these grids.
type Terrain struct {
	Density float64
}

func (Terrain) Name() string { return "terrain" }

func (t Terrain) Generate(size int, rng *rand.Rand) (*Grid, error) {
	if size < 4 {
		return nil, fmt.Errorf("%w: terrain needs size >= 4, got %d", ErrInvalidSize, size)
	}
	if t.Density < 0 || t.Density >= 1 {
		return nil, fmt.Errorf("maze: terrain density %v outside [0,1)", t.Density)
	}
	g, err := NewGrid(size, size, Free)
	if err != nil {
		return nil, err
	}
	for i := 0; i < size; i++ {
		g.set(Position{0, i}, Blocked)
		g.set(Position{size - 1, i}, Blocked)
		g.set(Position{i, 0}, Blocked)
		g.set(Position{i, size - 1}, Blocked)
	}

	start, goal := Position{1, 1}, Position{size - 2, size - 2}
	// obstacles are drawn from [0, size-2]² minus start and goal
	want := int(float64(size*size) * t.Density)
	if capacity := (size-1)*(size-1) - 2; want > capacity {
		want = capacity
	}
	chosen := make(map[Position]struct{}, want)
	for len(chosen) < want {
		p := Position{Row: rng.IntN(size - 1), Col: rng.IntN(size - 1)}
		if p == start || p == goal {
			continue
		}
		chosen[p] = struct{}{}
	}
	for p := range chosen {
		g.set(p, Blocked)
	}
	g.set(start, Free)
	g.set(goal, Free)
	return g, nil
}
