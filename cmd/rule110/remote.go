package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"uk.ac.bris.cs/rule110/internal/config"
	"uk.ac.bris.cs/rule110/rule110"
)

func newRemoteCmd() *cobra.Command {
	var f runFlags
	var addr string
	cmd := &cobra.Command{
		Use:   "remote",
		Short: "Run the automaton on a rule110 server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, &f)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Address = addr
			}
			final, err := runRemote(cmd, cfg)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "generations: %d\nalive: %d\n", cfg.Run.Generations, final.Alive())
			return nil
		},
	}
	f.register(cmd)
	cmd.Flags().StringVar(&addr, "addr", config.Default().Server.Address, "server address")
	return cmd
}

func runRemote(cmd *cobra.Command, cfg config.Config) (rule110.Tape, error) {
	p, err := cfg.Run.Params()
	if err != nil {
		return nil, err
	}
	tape, err := cfg.Run.Tape()
	if err != nil {
		return nil, err
	}
	if cfg.Run.Sequential {
		p.Workers = 0
	}
	return rule110.RunRemote(cmd.Context(), cfg.Server.Address, p, tape)
}
