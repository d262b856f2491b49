// Package textview renders boards and reports as plain text.
package textview

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/ship-commander/mines/internal/config"
	"github.com/ship-commander/mines/internal/engine"
)

// Symbols used for cells.
const (
	SymbolHidden  = "#"
	SymbolFlag    = "F"
	SymbolMine    = "*"
	SymbolNoMines = "."
)

// Symbol returns the one-character rendering of a cell.
func Symbol(view engine.CellView) string {
	switch {
	case view.Flagged():
		return SymbolFlag
	case !view.Revealed():
		return SymbolHidden
	case view.Mine():
		return SymbolMine
	case view.Value == 0:
		return SymbolNoMines
	default:
		return strconv.Itoa(view.Value)
	}
}

// Board writes the field row by row, one symbol per cell separated by spaces.
// field is indexed [column][row].
func Board(w io.Writer, field [][]engine.CellView) error {
	if len(field) == 0 {
		return nil
	}
	rows := len(field[0])
	var b strings.Builder
	for y := 0; y < rows; y++ {
		for x := range field {
			if x > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(Symbol(field[x][y]))
		}
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// Table writes a borderless table.
func Table(w io.Writer, header []string, rows [][]string, footer []string) error {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetHeaderLine(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.AppendBulk(rows)
	if len(footer) > 0 {
		table.SetFooter(footer)
		table.SetFooterAlignment(tablewriter.ALIGN_LEFT)
	}
	table.Render()

	_, err := w.Write(buf.Bytes())
	return err
}

// Presets lists difficulty presets, marking the default.
func Presets(w io.Writer, presets []config.Difficulty, defaultName string) error {
	rows := make([][]string, 0, len(presets))
	for _, preset := range presets {
		name := preset.Name
		if name == defaultName {
			name += " (default)"
		}
		rows = append(rows, []string{
			name,
			strconv.Itoa(preset.Rows),
			strconv.Itoa(preset.Cols),
			strconv.Itoa(preset.Mines),
			fmt.Sprintf("%.1f%%", density(preset)),
		})
	}
	return Table(w, []string{"Difficulty", "Rows", "Cols", "Mines", "Density"}, rows, nil)
}

// Step is one applied action of a scripted game.
type Step struct {
	Action  string
	CellID  int
	Changed int
	State   engine.GameState
}

// Steps writes one row per scripted action.
func Steps(w io.Writer, steps []Step) error {
	rows := make([][]string, 0, len(steps))
	for i, step := range steps {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			step.Action,
			strconv.Itoa(step.CellID),
			strconv.Itoa(step.Changed),
			step.State.Status,
			strconv.Itoa(step.State.FlagsRemaining),
		})
	}
	return Table(w, []string{"#", "Action", "Cell", "Changed", "Status", "Flags"}, rows, nil)
}

func density(preset config.Difficulty) float64 {
	cells := preset.Rows * preset.Cols
	if cells == 0 {
		return 0
	}
	return 100 * float64(preset.Mines) / float64(cells)
}
