package main

import (
	"context"
	"errors"
	"os"

	"github.com/charmbracelet/log"
	"github.com/ship-commander/mines/internal/config"
	"github.com/ship-commander/mines/internal/engine"
	"github.com/ship-commander/mines/internal/tui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var errNotTerminal = errors.New("play needs an interactive terminal; use `mines script` instead")

var isTerminalFn = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

func newPlayCommand(cfg *config.Config, logger *log.Logger) *cobra.Command {
	var (
		flags  gameFlags
		choose bool
	)
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play on an interactive board",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !isTerminalFn() {
				return errNotTerminal
			}
			if choose {
				name, err := tui.PickDifficulty(cmd.Context(), presetsOf(cfg), cfg.DefaultDifficulty, cmd.InOrStdin(), cmd.OutOrStdout())
				if err != nil {
					return err
				}
				flags.difficulty = name
			}
			params, err := flags.params(cmd, cfg)
			if err != nil {
				return err
			}

			bus := newEventBus(logger)
			defer bus.Close()
			options := []engine.Option{engine.WithLogger(logger), engine.WithBus(bus)}

			ctx := cmd.Context()
			first, err := engine.New(ctx, params, options...)
			if err != nil {
				return err
			}
			// Later games always draw a fresh layout.
			params.Seed = 0
			start := func(ctx context.Context) (*engine.Engine, error) {
				return engine.New(ctx, params, options...)
			}

			model := tui.NewBoardModel(ctx, first, start)
			return tui.Run(ctx, model, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	bindGameFlags(cmd, &flags)
	cmd.Flags().BoolVar(&choose, "choose", false, "pick the difficulty from a menu")
	return cmd
}
