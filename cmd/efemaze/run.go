package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"net"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/CodeStranger-Fred/efemaze/agent"
	"github.com/CodeStranger-Fred/efemaze/maze"
	"github.com/CodeStranger-Fred/efemaze/render"
	"github.com/CodeStranger-Fred/efemaze/store"
)

type runCmdFlags struct {
	runFlags
	gridFile   string
	start      string
	goal       string
	html       string
	frameEvery int
	serve      string
	animate    bool
	noColor    bool
}

func newRunCmd(a *app) *cobra.Command {
	f := &runCmdFlags{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one agent and print its path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, f)
		},
	}
	f.register(cmd)
	fs := cmd.Flags()
	fs.StringVar(&f.gridFile, "grid-file", "", "read the maze from a file ('#' blocked) instead of generating one")
	fs.StringVar(&f.start, "start", "", "start cell as row,col (default 1,1)")
	fs.StringVar(&f.goal, "goal", "", "goal cell as row,col (default one in from the bottom-right corner)")
	fs.StringVar(&f.html, "html", "", "write a chart page to this path")
	fs.IntVar(&f.frameEvery, "frame-every", 10, "chart every k-th belief snapshot")
	fs.StringVar(&f.serve, "serve", "", "serve the chart directory on this address until interrupted")
	fs.BoolVar(&f.animate, "animate", false, "replay the path step by step")
	fs.BoolVar(&f.noColor, "no-color", false, "plain terminal output")
	return cmd
}

func (a *app) run(cmd *cobra.Command, f *runCmdFlags) error {
	cfg := a.cfg
	f.apply(cmd, cfg)
	fs := cmd.Flags()
	if fs.Changed("html") {
		cfg.Render.HTML = f.html
	}
	if fs.Changed("frame-every") {
		cfg.Render.FrameEvery = f.frameEvery
	}
	if fs.Changed("serve") {
		cfg.Render.Serve = f.serve
	}
	if fs.Changed("animate") {
		cfg.Render.Animate = f.animate
	}
	if f.noColor {
		cfg.Render.Color = false
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	rng := maze.NewRand(cfg.Run.Seed)
	g, generator, err := a.grid(cfg.Run.Size, f.gridFile, rng)
	if err != nil {
		return err
	}
	start, goal := maze.DefaultStart(), maze.DefaultGoal(g)
	if f.start != "" {
		if start, err = parsePosition(f.start); err != nil {
			return err
		}
	}
	if f.goal != "" {
		if goal, err = parsePosition(f.goal); err != nil {
			return err
		}
	}

	opts := cfg.AgentOptions(a.logger)
	opts.RecordBeliefs = cfg.Render.HTML != ""
	a.logger.Info("starting run",
		zap.Uint64("seed", cfg.Run.Seed),
		zap.String("variant", cfg.Run.Variant),
		zap.String("generator", generator),
		zap.Int("rows", g.Rows()),
		zap.Int("cols", g.Cols()))
	ag, err := agent.New(g, start, goal, opts, rng)
	if err != nil {
		return err
	}
	res := ag.Run()

	term := render.Terminal{Out: cmd.OutOrStdout(), Color: cfg.Render.Color, Delay: cfg.AnimationDelay()}
	if cfg.Render.Animate {
		err = term.Animate(ctx, g, res)
	} else {
		err = term.Final(g, res)
	}
	if err != nil {
		return err
	}

	if cfg.Store.Enabled {
		if err := a.save(ctx, store.NewRecord(cfg.Run.Seed, opts.Variant, generator, g.Rows(), res)); err != nil {
			return err
		}
	}

	if cfg.Render.HTML == "" {
		return nil
	}
	page := render.HTML{Title: fmt.Sprintf("efemaze seed %d", cfg.Run.Seed), FrameEvery: cfg.Render.FrameEvery}
	if err := page.WriteFile(cfg.Render.HTML, g, res); err != nil {
		return err
	}
	a.logger.Info("wrote charts", zap.String("path", cfg.Render.HTML))
	if cfg.Render.Serve == "" {
		return nil
	}
	ln, err := net.Listen("tcp", cfg.Render.Serve)
	if err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return render.Serve(ctx, ln, filepath.Dir(cfg.Render.HTML), a.logger)
}

// grid loads gridFile if given, otherwise generates a maze from rng.
func (a *app) grid(size int, gridFile string, rng *rand.Rand) (*maze.Grid, string, error) {
	if gridFile != "" {
		raw, err := os.ReadFile(gridFile)
		if err != nil {
			return nil, "", fmt.Errorf("grid file: %w", err)
		}
		g, err := maze.ParseText(string(raw))
		if err != nil {
			return nil, "", fmt.Errorf("grid file %s: %w", gridFile, err)
		}
		return g, "file", nil
	}
	gen, err := a.cfg.Generator()
	if err != nil {
		return nil, "", err
	}
	g, err := gen.Generate(size, rng)
	if err != nil {
		return nil, "", err
	}
	return g, gen.Name(), nil
}

func (a *app) save(ctx context.Context, rec store.Record) error {
	s, err := store.Open(ctx, a.cfg.Store.Driver, a.cfg.Store.DSN)
	if err != nil {
		return err
	}
	defer s.Close()
	if err := s.Save(ctx, rec); err != nil {
		return err
	}
	a.logger.Info("saved run", zap.Stringer("id", rec.ID))
	return nil
}
