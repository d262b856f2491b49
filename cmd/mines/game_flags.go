package main

import (
	"github.com/ship-commander/mines/internal/config"
	"github.com/ship-commander/mines/internal/engine"
	"github.com/spf13/cobra"
)

// gameFlags selects a board: a preset, optionally overridden field by field.
type gameFlags struct {
	difficulty string
	rows       int
	cols       int
	mines      int
	seed       uint64
}

func bindGameFlags(cmd *cobra.Command, flags *gameFlags) {
	cmd.Flags().StringVarP(&flags.difficulty, "difficulty", "d", "", "difficulty preset (default from config)")
	cmd.Flags().IntVar(&flags.rows, "rows", 0, "override preset rows")
	cmd.Flags().IntVar(&flags.cols, "cols", 0, "override preset columns")
	cmd.Flags().IntVar(&flags.mines, "mines", 0, "override preset mine count")
	cmd.Flags().Uint64Var(&flags.seed, "seed", 0, "mine placement seed (0 draws one)")
}

func (f gameFlags) params(cmd *cobra.Command, cfg *config.Config) (engine.Params, error) {
	preset, err := cfg.Difficulty(f.difficulty)
	if err != nil {
		return engine.Params{}, err
	}
	params := engine.Params{Rows: preset.Rows, Cols: preset.Cols, Mines: preset.Mines, Seed: cfg.Seed}
	if cmd.Flags().Changed("rows") {
		params.Rows = f.rows
	}
	if cmd.Flags().Changed("cols") {
		params.Cols = f.cols
	}
	if cmd.Flags().Changed("mines") {
		params.Mines = f.mines
	}
	if cmd.Flags().Changed("seed") {
		params.Seed = f.seed
	}
	return params, nil
}
