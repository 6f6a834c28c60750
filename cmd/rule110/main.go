// Command rule110 runs the Rule 110 automaton locally, serves it over
// net/rpc, or calls a remote server.
//
// Usage:
//
//	rule110 run --workers 4 --generations 10000
//	rule110 serve --addr 127.0.0.1:8030 --metrics-addr 127.0.0.1:9090
//	rule110 remote --addr 127.0.0.1:8030 --workers 4
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"uk.ac.bris.cs/rule110/internal/config"
)

var (
	configPath string
	logLevel   string
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "rule110",
		Short:         "Partitioned Rule 110 cellular automaton",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var level slog.Level
			if err := level.UnmarshalText([]byte(logLevel)); err != nil {
				return fmt.Errorf("--log-level: %w", err)
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
			return nil
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")

	root.AddCommand(newRunCmd(), newServeCmd(), newRemoteCmd())
	return root
}

// runFlags are the run settings that override the config file.
type runFlags struct {
	length      int
	generations int
	workers     int
	boundary    string
	seed        string
	sequential  bool
}

func (f *runFlags) register(cmd *cobra.Command) {
	d := config.Default().Run
	cmd.Flags().IntVar(&f.length, "length", d.Length, "number of cells")
	cmd.Flags().IntVarP(&f.generations, "generations", "t", d.Generations, "generations to compute")
	cmd.Flags().IntVarP(&f.workers, "workers", "p", d.Workers, "number of workers")
	cmd.Flags().StringVar(&f.boundary, "boundary", d.Boundary, "fixed or wrap")
	cmd.Flags().StringVar(&f.seed, "seed", d.Seed, "wolfram, single, or a string of 0s and 1s")
	cmd.Flags().BoolVar(&f.sequential, "sequential", false, "run the single-threaded baseline")
}

// apply copies the flags the user set onto cfg.
func (f *runFlags) apply(cmd *cobra.Command, cfg *config.RunConfig) {
	fs := cmd.Flags()
	if fs.Changed("length") {
		cfg.Length = f.length
	}
	if fs.Changed("generations") {
		cfg.Generations = f.generations
	}
	if fs.Changed("workers") {
		cfg.Workers = f.workers
	}
	if fs.Changed("boundary") {
		cfg.Boundary = f.boundary
	}
	if fs.Changed("seed") {
		cfg.Seed = f.seed
	}
	if fs.Changed("sequential") {
		cfg.Sequential = f.sequential
	}
}

func loadConfig(cmd *cobra.Command, f *runFlags) (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, err
	}
	if f != nil {
		f.apply(cmd, &cfg.Run)
	}
	return cfg, cfg.Validate()
}
