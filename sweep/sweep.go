// Package sweep runs one configuration over many seeds in parallel.
package sweep

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/CodeStranger-Fred/efemaze/agent"
	"github.com/CodeStranger-Fred/efemaze/maze"
	"github.com/CodeStranger-Fred/efemaze/store"
)

var ErrNoSeeds = errors.New("sweep: no seeds")

// Job is one run configuration. With Grid set every seed runs on that grid
// from Start to Goal; otherwise each seed generates its own maze and uses the
// default start and goal.
type Job struct {
	Generator maze.Generator
	Size      int
	Grid      *maze.Grid
	Start     maze.Position
	Goal      maze.Position
	Options   agent.Options
}

func (j Job) generatorName() string {
	if j.Grid != nil || j.Generator == nil {
		return "fixed"
	}
	return j.Generator.Name()
}

// Outcome is one finished seed.
type Outcome struct {
	Seed   uint64
	Grid   *maze.Grid
	Result *agent.Result
}

// Run executes the job for one seed. Generation, weight initialisation and
// sampling share one source seeded with seed.
func (j Job) Run(seed uint64) (Outcome, error) {
	rng := maze.NewRand(seed)
	g, start, goal := j.Grid, j.Start, j.Goal
	if g == nil {
		if j.Generator == nil {
			return Outcome{}, errors.New("sweep: job has neither grid nor generator")
		}
		var err error
		if g, err = j.Generator.Generate(j.Size, rng); err != nil {
			return Outcome{}, fmt.Errorf("sweep: seed %d: %w", seed, err)
		}
		start, goal = maze.DefaultStart(), maze.DefaultGoal(g)
	}
	res, err := agent.Run(g, start, goal, j.Options, rng)
	if err != nil {
		return Outcome{}, fmt.Errorf("sweep: seed %d: %w", seed, err)
	}
	return Outcome{Seed: seed, Grid: g, Result: res}, nil
}

type Config struct {
	Job      Job
	Seeds    []uint64
	Parallel int
	// Store, if set, receives a record per finished run.
	Store  store.Store
	Logger *zap.Logger
}

// Seeds returns n consecutive seeds from first.
func Seeds(first uint64, n int) []uint64 {
	out := make([]uint64, n)
	for i := range out {
		out[i] = first + uint64(i)
	}
	return out
}

type Summary struct {
	Runs      int
	Reached   int
	MeanSteps float64
	MeanMoves float64
	// Outcomes is in seed order.
	Outcomes []Outcome
}

func (s Summary) ReachRate() float64 {
	if s.Runs == 0 {
		return 0
	}
	return float64(s.Reached) / float64(s.Runs)
}

// Run executes every seed with at most cfg.Parallel runs in flight. The
// first error cancels the rest.
func Run(ctx context.Context, cfg Config) (Summary, error) {
	if len(cfg.Seeds) == 0 {
		return Summary{}, ErrNoSeeds
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	outcomes := make([]Outcome, len(cfg.Seeds))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(max(cfg.Parallel, 1))
	for i, seed := range cfg.Seeds {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			out, err := cfg.Job.Run(seed)
			if err != nil {
				return err
			}
			outcomes[i] = out
			logger.Debug("seed finished",
				zap.Uint64("seed", seed),
				zap.Stringer("status", out.Result.Status),
				zap.Int("steps", out.Result.Steps))
			if cfg.Store != nil {
				rec := store.NewRecord(seed, cfg.Job.Options.Variant, cfg.Job.generatorName(), out.Grid.Rows(), out.Result)
				if err := cfg.Store.Save(egCtx, rec); err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return Summary{}, err
	}

	s := Summary{Runs: len(outcomes), Outcomes: outcomes}
	for _, o := range outcomes {
		if o.Result.Reached() {
			s.Reached++
		}
		s.MeanSteps += float64(o.Result.Steps)
		s.MeanMoves += float64(o.Result.Moves())
	}
	s.MeanSteps /= float64(s.Runs)
	s.MeanMoves /= float64(s.Runs)
	logger.Info("sweep finished",
		zap.Int("runs", s.Runs),
		zap.Float64("reach_rate", s.ReachRate()),
		zap.Float64("mean_steps", s.MeanSteps))
	return s, nil
}
