package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap lists every board binding.
type KeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Left    key.Binding
	Right   key.Binding
	Reveal  key.Binding
	Flag    key.Binding
	NewGame key.Binding
	Help    key.Binding
	Back    key.Binding
	Confirm key.Binding
	Quit    key.Binding
}

// DefaultKeyMap returns the standard bindings: arrows or hjkl to move.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:      newBinding([]string{"up", "k"}, "↑/k", "up"),
		Down:    newBinding([]string{"down", "j"}, "↓/j", "down"),
		Left:    newBinding([]string{"left", "h"}, "←/h", "left"),
		Right:   newBinding([]string{"right", "l"}, "→/l", "right"),
		Reveal:  newBinding([]string{" ", "enter"}, "space", "reveal"),
		Flag:    newBinding([]string{"f"}, "f", "flag"),
		NewGame: newBinding([]string{"n"}, "n", "new game"),
		Help:    newBinding([]string{"?"}, "?", "help"),
		Back:    newBinding([]string{"esc"}, "esc", "close"),
		Confirm: newBinding([]string{"y", "enter"}, "y", "confirm"),
		Quit:    newBinding([]string{"q", "ctrl+c"}, "q", "quit"),
	}
}

// ShortHelp satisfies help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Reveal, k.Flag, k.NewGame, k.Help, k.Quit}
}

// FullHelp satisfies help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Reveal, k.Flag},
		{k.NewGame, k.Help, k.Back, k.Quit},
	}
}

func newBinding(keys []string, helpKey string, description string) key.Binding {
	return key.NewBinding(
		key.WithKeys(keys...),
		key.WithHelp(helpKey, description),
	)
}
