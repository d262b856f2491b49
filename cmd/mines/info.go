package main

import (
	"fmt"

	"github.com/ship-commander/mines/internal/config"
	"github.com/ship-commander/mines/internal/textview"
	"github.com/ship-commander/mines/internal/tui"
	"github.com/spf13/cobra"
)

func newPresetsCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List difficulty presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return textview.Presets(cmd.OutOrStdout(), presetsOf(cfg), cfg.DefaultDifficulty)
		},
	}
}

func newRulesCommand() *cobra.Command {
	var width int
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Explain how to play",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprint(cmd.OutOrStdout(), tui.RenderRules(width))
			return err
		},
	}
	cmd.Flags().IntVar(&width, "width", 80, "wrap width")
	return cmd
}

// presetsOf lists presets from smallest to largest board.
func presetsOf(cfg *config.Config) []config.Difficulty {
	presets := make([]config.Difficulty, 0, len(cfg.Difficulties))
	for _, name := range cfg.DifficultyNames() {
		presets = append(presets, cfg.Difficulties[name])
	}
	return presets
}
