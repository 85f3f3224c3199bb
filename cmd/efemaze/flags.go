package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/CodeStranger-Fred/efemaze/config"
	"github.com/CodeStranger-Fred/efemaze/maze"
)

// runFlags override config values only when given on the command line.
type runFlags struct {
	seed      uint64
	size      int
	variant   string
	generator string
	density   float64
	maxSteps  int
	device    string

	storeEnabled bool
	storeDriver  string
	storeDSN     string
}

func (f *runFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.Uint64Var(&f.seed, "seed", 1, "random seed for generation, weights and sampling")
	fs.IntVar(&f.size, "size", 15, "maze size")
	fs.StringVar(&f.variant, "variant", "active", "agent variant: active or reveal")
	fs.StringVar(&f.generator, "generator", "prims", "maze generator: prims or terrain")
	fs.Float64Var(&f.density, "density", 0.2, "terrain obstacle density")
	fs.IntVar(&f.maxSteps, "max-steps", 500, "step budget")
	fs.StringVar(&f.device, "device", "cpu", "model device")
	fs.BoolVar(&f.storeEnabled, "store", false, "save run summaries")
	fs.StringVar(&f.storeDriver, "store-driver", "sqlite", "run store driver: sqlite or postgres")
	fs.StringVar(&f.storeDSN, "store-dsn", "efemaze.db", "sqlite path or postgres DSN")
}

func (f *runFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	fs := cmd.Flags()
	if fs.Changed("seed") {
		cfg.Run.Seed = f.seed
	}
	if fs.Changed("size") {
		cfg.Run.Size = f.size
	}
	if fs.Changed("variant") {
		cfg.Run.Variant = f.variant
	}
	if fs.Changed("generator") {
		cfg.Run.Generator = f.generator
	}
	if fs.Changed("density") {
		cfg.Run.Density = f.density
	}
	if fs.Changed("max-steps") {
		cfg.Run.MaxSteps = f.maxSteps
	}
	if fs.Changed("device") {
		cfg.Model.Device = f.device
	}
	if fs.Changed("store") {
		cfg.Store.Enabled = f.storeEnabled
	}
	if fs.Changed("store-driver") {
		cfg.Store.Driver = f.storeDriver
	}
	if fs.Changed("store-dsn") {
		cfg.Store.DSN = f.storeDSN
	}
}

// parsePosition reads "row,col".
func parsePosition(s string) (maze.Position, error) {
	r, c, ok := strings.Cut(s, ",")
	if !ok {
		return maze.Position{}, fmt.Errorf("position %q: want row,col", s)
	}
	row, err := strconv.Atoi(strings.TrimSpace(r))
	if err != nil {
		return maze.Position{}, fmt.Errorf("position %q: %w", s, err)
	}
	col, err := strconv.Atoi(strings.TrimSpace(c))
	if err != nil {
		return maze.Position{}, fmt.Errorf("position %q: %w", s, err)
	}
	return maze.Position{Row: row, Col: col}, nil
}
