package tui

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/huh"
	"github.com/ship-commander/mines/internal/config"
)

// BuildDifficultyForm is a one-question form selecting a preset name into choice.
func BuildDifficultyForm(presets []config.Difficulty, choice *string) *huh.Form {
	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title("Difficulty").
			Options(difficultyOptions(presets)...).
			Value(choice),
	)).WithShowHelp(false)
	return form
}

func difficultyOptions(presets []config.Difficulty) []huh.Option[string] {
	options := make([]huh.Option[string], 0, len(presets))
	for _, preset := range presets {
		label := fmt.Sprintf("%-8s %dx%d, %d mines", preset.Name, preset.Cols, preset.Rows, preset.Mines)
		options = append(options, huh.NewOption(label, preset.Name))
	}
	return options
}

// PickDifficulty asks for a preset, starting on defaultName.
func PickDifficulty(ctx context.Context, presets []config.Difficulty, defaultName string, in io.Reader, out io.Writer) (string, error) {
	if len(presets) == 0 {
		return "", fmt.Errorf("pick difficulty: no presets configured")
	}
	choice := defaultName
	form := BuildDifficultyForm(presets, &choice).WithInput(in).WithOutput(out)
	if err := form.RunWithContext(ctx); err != nil {
		return "", fmt.Errorf("pick difficulty: %w", err)
	}
	return choice, nil
}
