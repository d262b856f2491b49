// Package theme holds the terminal palette and styles for the board.
package theme

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

const (
	// Slate is the covered-cell color.
	Slate = "#52526A"
	// Sand is the accent used for flags and the cursor frame.
	Sand = "#FF9966"
	// RedAlert marks mines and losses.
	RedAlert = "#FF3333"
	// GreenOk marks wins.
	GreenOk = "#33FF33"
	// Muted is the color of empty revealed cells.
	Muted = "#CCCCCC"
	// SpaceWhite is the primary text color.
	SpaceWhite = "#F5F6FA"
	// Violet highlights the cursor.
	Violet = "#9966FF"
)

// countHex colors adjacent-mine counts 1 through 8.
var countHex = [8]struct{ hex, ansi256, ansi string }{
	{"#6699FF", "69", "12"},
	{"#33CC66", "41", "10"},
	{"#FF6666", "203", "9"},
	{"#9966FF", "99", "5"},
	{"#CC6633", "166", "3"},
	{"#33CCCC", "44", "14"},
	{"#F5F6FA", "255", "15"},
	{"#999999", "246", "7"},
}

var (
	// SlateColor is the profile-aware terminal color for Slate.
	SlateColor = profileColor(Slate, "60", "8")
	// SandColor is the profile-aware terminal color for Sand.
	SandColor = profileColor(Sand, "209", "11")
	// RedAlertColor is the profile-aware terminal color for RedAlert.
	RedAlertColor = profileColor(RedAlert, "203", "9")
	// GreenOkColor is the profile-aware terminal color for GreenOk.
	GreenOkColor = profileColor(GreenOk, "46", "10")
	// MutedColor is the profile-aware terminal color for Muted.
	MutedColor = profileColor(Muted, "252", "7")
	// SpaceWhiteColor is the profile-aware terminal color for SpaceWhite.
	SpaceWhiteColor = profileColor(SpaceWhite, "255", "15")
	// VioletColor is the profile-aware terminal color for Violet.
	VioletColor = profileColor(Violet, "99", "5")
)

var (
	// HiddenStyle renders covered cells.
	HiddenStyle = lipgloss.NewStyle().Foreground(SlateColor)
	// FlagStyle renders flagged cells.
	FlagStyle = lipgloss.NewStyle().Foreground(SandColor).Bold(true)
	// MineStyle renders disclosed mines.
	MineStyle = lipgloss.NewStyle().Foreground(RedAlertColor).Bold(true)
	// EmptyStyle renders revealed cells with no adjacent mines.
	EmptyStyle = lipgloss.NewStyle().Foreground(MutedColor)
	// CursorStyle wraps the cell under the cursor.
	CursorStyle = lipgloss.NewStyle().Reverse(true).Foreground(VioletColor)
	// WonStyle marks the status line after a win.
	WonStyle = lipgloss.NewStyle().Foreground(GreenOkColor).Bold(true)
	// LostStyle marks the status line after a loss.
	LostStyle = lipgloss.NewStyle().Foreground(RedAlertColor).Bold(true)
	// StatusStyle is the default status line.
	StatusStyle = lipgloss.NewStyle().Foreground(SpaceWhiteColor)
	// BoardBorder frames the board.
	BoardBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(SlateColor).
			Padding(0, 1)
)

var countStyles = buildCountStyles()

// CountStyle returns the style for a revealed cell with n adjacent mines.
// Zero and out-of-range counts use EmptyStyle.
func CountStyle(n int) lipgloss.Style {
	if n < 1 || n > len(countStyles) {
		return EmptyStyle
	}
	return countStyles[n-1]
}

func buildCountStyles() []lipgloss.Style {
	styles := make([]lipgloss.Style, 0, len(countHex))
	for _, c := range countHex {
		styles = append(styles, lipgloss.NewStyle().Foreground(profileColor(c.hex, c.ansi256, c.ansi)).Bold(true))
	}
	return styles
}

var colorProfileFn = lipgloss.ColorProfile

func profileColor(hex string, ansi256 string, ansi string) lipgloss.TerminalColor {
	switch colorProfileFn() {
	case termenv.ANSI256, termenv.ANSI:
		color := lipgloss.CompleteColor{
			TrueColor: hex,
			ANSI256:   ansi256,
			ANSI:      ansi,
		}
		return lipgloss.CompleteAdaptiveColor{Light: color, Dark: color}
	default:
		return lipgloss.AdaptiveColor{Light: hex, Dark: hex}
	}
}
