package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"uk.ac.bris.cs/rule110/internal/config"
	"uk.ac.bris.cs/rule110/rule110"
)

func newRunCmd() *cobra.Command {
	var f runFlags
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the automaton in this process",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, &f)
			if err != nil {
				return err
			}
			final, err := runLocal(cmd, cfg.Run)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "generations: %d\nalive: %d\n", cfg.Run.Generations, final.Alive())
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func runLocal(cmd *cobra.Command, rc config.RunConfig) (rule110.Tape, error) {
	p, err := rc.Params()
	if err != nil {
		return nil, err
	}
	tape, err := rc.Tape()
	if err != nil {
		return nil, err
	}
	if rc.Sequential {
		return rule110.Sequential(cmd.Context(), p, tape)
	}
	return rule110.Run(cmd.Context(), p, tape, nil)
}
