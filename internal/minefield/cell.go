// Package minefield implements the Minesweeper grid: mine placement, adjacency
// counts, flood-fill reveal and the flag budget.
package minefield

import "fmt"

// Kind tags a cell as a mine or an empty tile.
type Kind uint8

const (
	// KindEmpty is a safe tile carrying an adjacency count.
	KindEmpty Kind = iota
	// KindMine is a mine.
	KindMine
)

// String returns the caller-visible kind tag.
func (k Kind) String() string {
	switch k {
	case KindMine:
		return "mine"
	default:
		return "empty"
	}
}

// CellKind is either a mine or an empty tile with the number of mines in its
// 8-neighbourhood. The count is always zero for mines.
type CellKind struct {
	kind     Kind
	adjacent uint8
}

// Mine returns the mine kind.
func Mine() CellKind {
	return CellKind{kind: KindMine}
}

// Empty returns an empty kind with the given adjacency count.
func Empty(adjacent int) CellKind {
	return CellKind{kind: KindEmpty, adjacent: uint8(adjacent)}
}

// Tag returns the variant.
func (k CellKind) Tag() Kind {
	return k.kind
}

// IsMine reports whether the kind is a mine.
func (k CellKind) IsMine() bool {
	return k.kind == KindMine
}

// Adjacent returns the adjacency count, or 0 for mines.
func (k CellKind) Adjacent() int {
	if k.IsMine() {
		return 0
	}
	return int(k.adjacent)
}

// String renders the kind as "mine" or "empty(n)".
func (k CellKind) String() string {
	if k.IsMine() {
		return "mine"
	}
	return fmt.Sprintf("empty(%d)", k.adjacent)
}

// incremented counts one more neighbouring mine. Mines never carry a count.
func (k CellKind) incremented() CellKind {
	if k.IsMine() {
		return k
	}
	k.adjacent++
	return k
}

// CellState is the player-visible state of a cell.
type CellState uint8

const (
	// Hidden is the initial state.
	Hidden CellState = iota
	// Revealed means the cell was uncovered.
	Revealed
	// Flagged marks a suspected mine.
	Flagged
)

// String returns the caller-visible state tag.
func (s CellState) String() string {
	switch s {
	case Revealed:
		return "revealed"
	case Flagged:
		return "flagged"
	default:
		return "hidden"
	}
}

// FlagOutcome reports what ToggleFlag did.
type FlagOutcome uint8

const (
	// FlagRejected means the cell was Revealed and did not change.
	FlagRejected FlagOutcome = iota
	// FlagPlaced means a Hidden cell became Flagged.
	FlagPlaced
	// FlagRemoved means a Flagged cell became Hidden.
	FlagRemoved
)

// Cell is one tile of the grid.
type Cell struct {
	ID       CellID
	Kind     CellKind
	State    CellState
	Position Position
}

// NewCell returns a Hidden cell.
func NewCell(id CellID, kind CellKind, position Position) Cell {
	return Cell{ID: id, Kind: kind, State: Hidden, Position: position}
}

// Reveal marks the cell Revealed. Revealing twice changes nothing.
func (c *Cell) Reveal() {
	c.State = Revealed
}

// ToggleFlag flips Hidden and Flagged. A Revealed cell can never become Flagged.
func (c *Cell) ToggleFlag() FlagOutcome {
	switch c.State {
	case Flagged:
		c.State = Hidden
		return FlagRemoved
	case Hidden:
		c.State = Flagged
		return FlagPlaced
	default:
		return FlagRejected
	}
}
