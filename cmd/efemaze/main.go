// Command efemaze runs expected-free-energy maze agents.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/CodeStranger-Fred/efemaze/config"
)

type app struct {
	configPath string
	envFile    string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "efemaze",
		Short:         "Active-inference agents in partially observed mazes",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "efemaze.yaml", "YAML config file (missing is fine)")
	root.PersistentFlags().StringVar(&a.envFile, "env", ".env", "dotenv file loaded before EFEMAZE_* overrides")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging, one line per step")

	root.AddCommand(newRunCmd(a), newSweepCmd(a), newRunsCmd(a))
	return root
}

func (a *app) setup() error {
	zc := zap.NewProductionConfig()
	if a.verbose {
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := zc.Build()
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	a.logger = logger

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if err := cfg.ApplyEnv(a.envFile); err != nil {
		return err
	}
	a.cfg = cfg
	return nil
}

var chk = func(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, "efemaze:", err)
		os.Exit(1)
	}
}

func main() {
	chk(newRootCmd().Execute())
}
