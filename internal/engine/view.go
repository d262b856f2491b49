package engine

import (
	"github.com/ship-commander/mines/internal/game"
	"github.com/ship-commander/mines/internal/minefield"
)

// CellView is the caller-visible shape of one cell.
type CellView struct {
	ID    int    `json:"id"`
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Kind  string `json:"kind"`
	Value int    `json:"value"`
	State string `json:"state"`
}

// GameState is the caller-visible session summary.
type GameState struct {
	Status         string `json:"status"`
	FlagsRemaining int    `json:"flags_remaining"`
}

// RevealOutcome is the result of one reveal.
type RevealOutcome struct {
	Status         string     `json:"status"`
	FlagsRemaining int        `json:"flags_remaining"`
	ChangedCells   []CellView `json:"changed_cells"`
}

// Revealed reports whether the cell is uncovered.
func (v CellView) Revealed() bool { return v.State == minefield.Revealed.String() }

// Flagged reports whether the cell carries a flag.
func (v CellView) Flagged() bool { return v.State == minefield.Flagged.String() }

// Mine reports whether the view discloses a mine.
func (v CellView) Mine() bool { return v.Kind == minefield.KindMine.String() }

// Over reports whether the game has ended.
func (s GameState) Over() bool { return game.Status(s.Status).Terminal() }

func newCellView(cell minefield.Cell, revealKinds bool) CellView {
	view := CellView{
		ID:    int(cell.ID),
		X:     cell.Position.X,
		Y:     cell.Position.Y,
		State: cell.State.String(),
	}
	if cell.State == minefield.Revealed || revealKinds {
		view.Kind = cell.Kind.Tag().String()
		view.Value = cell.Kind.Adjacent()
	}
	return view
}

func newCellViews(cells []minefield.Cell, revealKinds bool) []CellView {
	views := make([]CellView, 0, len(cells))
	for _, cell := range cells {
		views = append(views, newCellView(cell, revealKinds))
	}
	return views
}

func newGameState(state game.State) GameState {
	return GameState{Status: state.Status.String(), FlagsRemaining: state.FlagsRemaining}
}
