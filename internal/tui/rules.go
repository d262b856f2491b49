package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// RulesMarkdown explains the game and the board keys.
const RulesMarkdown = `# Mines

Uncover every cell that is not a mine.

## Cells

- A revealed number counts the mines among its eight neighbours.
- Revealing a cell with no neighbouring mines also reveals its neighbours,
  spreading until numbered cells fence the area in.
- Revealing a mine ends the game and discloses the whole field.

## Flags

You have one flag per mine. Flagging a cell only marks it; revealing a
flagged cell clears the flag and returns it to your budget.

## Keys

| Key | Action |
|-----|--------|
| arrows or hjkl | move |
| space or enter | reveal |
| f | flag |
| n | new game |
| ? | help |
| q | quit |

## Symbols

` + "`#`" + ` covered, ` + "`F`" + ` flag, ` + "`*`" + ` mine, ` + "`.`" + ` no neighbouring mines.
`

// RenderRules renders RulesMarkdown for a terminal of the given width. The
// raw markdown is returned when rendering fails.
func RenderRules(width int) string {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(max(40, width)),
	)
	if err != nil {
		return RulesMarkdown
	}
	rendered, err := renderer.Render(RulesMarkdown)
	if err != nil || strings.TrimSpace(rendered) == "" {
		return RulesMarkdown
	}
	return rendered
}
