package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/ship-commander/mines/internal/game"
	"github.com/ship-commander/mines/internal/tui/theme"
)

const defaultProgressWidth = 20

// RenderProgress renders "[bar] revealed/target" for the safe cells uncovered
// so far. The bar turns green on a win and red on a loss.
func RenderProgress(revealed, target int, status game.Status, width int) string {
	if target < 0 {
		target = 0
	}
	revealed = clamp(revealed, 0, target)
	if width <= 0 {
		width = defaultProgressWidth
	}

	fraction := 0.0
	if target > 0 {
		fraction = float64(revealed) / float64(target)
	}

	bar := newProgressModel(width, status).ViewAs(fraction)
	if revealed == 0 && status == game.Playing {
		bar = lipgloss.NewStyle().Faint(true).Render(bar)
	}
	return fmt.Sprintf("[%s] %d/%d", bar, revealed, target)
}

func newProgressModel(width int, status game.Status) progress.Model {
	options := []progress.Option{
		progress.WithWidth(width),
		progress.WithoutPercentage(),
		progress.WithFillCharacters('#', '.'),
	}

	switch status {
	case game.Won:
		options = append(options, progress.WithSolidFill(theme.GreenOk))
	case game.Lost:
		options = append(options, progress.WithSolidFill(theme.RedAlert))
	default:
		options = append(options, progress.WithScaledGradient(theme.Sand, theme.Violet))
	}

	return progress.New(options...)
}
