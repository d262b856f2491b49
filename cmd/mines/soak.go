package main

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/ship-commander/mines/internal/config"
	"github.com/ship-commander/mines/internal/soak"
	"github.com/spf13/cobra"
)

func newSoakCommand(cfg *config.Config, logger *log.Logger) *cobra.Command {
	var (
		flags   gameFlags
		games   int
		workers int
	)
	cmd := &cobra.Command{
		Use:   "soak",
		Short: "Play many random seeded games and check invariants after every move",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			params, err := flags.params(cmd, cfg)
			if err != nil {
				return err
			}
			seed := params.Seed
			if seed == 0 {
				seed = 1
			}

			report, err := soak.Run(cmd.Context(), soak.Options{
				Rows:    params.Rows,
				Cols:    params.Cols,
				Mines:   params.Mines,
				Games:   games,
				Workers: workers,
				Seed:    seed,
				Logger:  logger,
			})
			if err != nil {
				return err
			}
			if err := soak.WriteSummary(cmd.OutOrStdout(), report); err != nil {
				return err
			}
			if report.Violations > 0 {
				return fmt.Errorf("soak: %d invariant violations", report.Violations)
			}
			return nil
		},
	}
	bindGameFlags(cmd, &flags)
	cmd.Flags().IntVar(&games, "games", 100, "number of games to play")
	cmd.Flags().IntVar(&workers, "workers", 4, "games played at once")
	return cmd
}
