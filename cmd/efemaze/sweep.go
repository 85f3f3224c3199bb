package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/CodeStranger-Fred/efemaze/store"
	"github.com/CodeStranger-Fred/efemaze/sweep"
)

func newSweepCmd(a *app) *cobra.Command {
	var (
		f        runFlags
		runs     int
		parallel int
	)
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run consecutive seeds in parallel and report the reach rate",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			f.apply(cmd, cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}
			gen, err := cfg.Generator()
			if err != nil {
				return err
			}
			opts := cfg.AgentOptions(a.logger)
			opts.RecordBeliefs = false

			sc := sweep.Config{
				Job:      sweep.Job{Generator: gen, Size: cfg.Run.Size, Options: opts},
				Seeds:    sweep.Seeds(cfg.Run.Seed, runs),
				Parallel: parallel,
				Logger:   a.logger,
			}
			if cfg.Store.Enabled {
				s, err := store.Open(cmd.Context(), cfg.Store.Driver, cfg.Store.DSN)
				if err != nil {
					return err
				}
				defer s.Close()
				sc.Store = s
			}
			sum, err := sweep.Run(cmd.Context(), sc)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "runs       %d\n", sum.Runs)
			fmt.Fprintf(out, "reached    %d (%.1f%%)\n", sum.Reached, 100*sum.ReachRate())
			fmt.Fprintf(out, "mean steps %.1f\n", sum.MeanSteps)
			fmt.Fprintf(out, "mean moves %.1f\n", sum.MeanMoves)
			if sum.Reached > 0 {
				best := shortest(sum.Outcomes)
				fmt.Fprintf(out, "shortest   seed %d, %d moves from %v to %v\n",
					best.Seed, best.Result.Moves(), best.Result.Start, best.Result.Goal)
			}
			return nil
		},
	}
	f.register(cmd)
	cmd.Flags().IntVar(&runs, "runs", 20, "number of seeds, counting up from --seed")
	cmd.Flags().IntVar(&parallel, "parallel", runtime.NumCPU(), "runs in flight")
	return cmd
}

func shortest(outs []sweep.Outcome) sweep.Outcome {
	var best sweep.Outcome
	for _, o := range outs {
		if !o.Result.Reached() {
			continue
		}
		if best.Result == nil || o.Result.Moves() < best.Result.Moves() {
			best = o
		}
	}
	return best
}
