package minefield

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrNotFound indicates an id that does not address a cell of the grid.
	ErrNotFound = errors.New("cell not found")
	// ErrInvalidDimensions indicates a grid with no rows, no columns, or a side
	// longer than MaxSide.
	ErrInvalidDimensions = errors.New("grid sides must be in [1, 65535]")
	// ErrTooManyMines indicates a mine count outside [0, rows*cols).
	ErrTooManyMines = errors.New("mine count must be in [0, rows*cols)")
	// ErrPlacementExhausted indicates the position source could not supply enough distinct positions.
	ErrPlacementExhausted = errors.New("position source exhausted before all mines were placed")
	// ErrInvalidLayout indicates an explicit mine layout with duplicate or off-grid positions.
	ErrInvalidLayout = errors.New("invalid mine layout")
)

// MaxSide is the longest allowed grid side.
const MaxSide = math.MaxUint16

// placementAttemptsPerCell bounds how many draws generation may spend per cell.
const placementAttemptsPerCell = 64

// Option configures grid construction.
type Option func(*options)

type options struct {
	source PositionSource
}

// WithPositionSource sets the source used to place mines.
func WithPositionSource(source PositionSource) Option {
	return func(opts *options) {
		if source != nil {
			opts.source = source
		}
	}
}

// Grid owns every cell of one game and the flag budget.
type Grid struct {
	dims      Dimensions
	cells     []Cell
	mines     int
	flagsLeft int
}

// New generates a grid with mines placed by the configured position source.
// Without WithPositionSource a crypto-seeded RandomSource is used.
func New(rows, cols, mines int, opts ...Option) (*Grid, error) {
	dims := Dimensions{Rows: rows, Cols: cols}
	if err := Validate(dims, mines); err != nil {
		return nil, err
	}

	resolved := options{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&resolved)
	}
	if resolved.source == nil {
		source, err := NewRandomSource()
		if err != nil {
			return nil, err
		}
		resolved.source = source
	}

	positions, err := placeMines(dims, mines, resolved.source)
	if err != nil {
		return nil, err
	}
	return build(dims, positions), nil
}

// NewFromLayout builds a grid with mines at exactly the given positions.
func NewFromLayout(rows, cols int, mines []Position) (*Grid, error) {
	dims := Dimensions{Rows: rows, Cols: cols}
	if err := Validate(dims, len(mines)); err != nil {
		return nil, err
	}
	seen := make(map[Position]struct{}, len(mines))
	for _, p := range mines {
		if !dims.Contains(p) {
			return nil, fmt.Errorf("%w: position (%d,%d) outside %dx%d grid", ErrInvalidLayout, p.X, p.Y, cols, rows)
		}
		if _, dup := seen[p]; dup {
			return nil, fmt.Errorf("%w: duplicate mine at (%d,%d)", ErrInvalidLayout, p.X, p.Y)
		}
		seen[p] = struct{}{}
	}
	return build(dims, mines), nil
}

// Validate checks grid dimensions and the mine count.
func Validate(dims Dimensions, mines int) error {
	if dims.Rows < 1 || dims.Cols < 1 || dims.Rows > MaxSide || dims.Cols > MaxSide {
		return fmt.Errorf("%w: got %d rows, %d cols", ErrInvalidDimensions, dims.Rows, dims.Cols)
	}
	if mines < 0 || mines >= dims.Size() {
		return fmt.Errorf("%w: got %d mines for %d cells", ErrTooManyMines, mines, dims.Size())
	}
	return nil
}

// placeMines draws distinct positions, redrawing on collision.
func placeMines(dims Dimensions, count int, source PositionSource) ([]Position, error) {
	positions := make([]Position, 0, count)
	taken := make(map[Position]struct{}, count)
	budget := placementAttemptsPerCell*dims.Size() + count

	for attempts := 0; len(positions) < count; attempts++ {
		if attempts >= budget {
			return nil, fmt.Errorf("%w: placed %d of %d after %d draws", ErrPlacementExhausted, len(positions), count, attempts)
		}
		p := source.Next(dims)
		if !dims.Contains(p) {
			continue
		}
		if _, dup := taken[p]; dup {
			continue
		}
		taken[p] = struct{}{}
		positions = append(positions, p)
	}
	return positions, nil
}

func build(dims Dimensions, mines []Position) *Grid {
	cells := make([]Cell, dims.Size())
	for i := range cells {
		id := CellID(i)
		cells[i] = NewCell(id, Empty(0), dims.Position(id))
	}
	for _, p := range mines {
		cells[dims.ID(p)].Kind = Mine()
	}
	for _, p := range mines {
		for _, n := range dims.Neighbours(p) {
			cell := &cells[dims.ID(n)]
			cell.Kind = cell.Kind.incremented()
		}
	}

	return &Grid{
		dims:      dims,
		cells:     cells,
		mines:     len(mines),
		flagsLeft: len(mines),
	}
}

// Dimensions returns the grid extent.
func (g *Grid) Dimensions() Dimensions {
	return g.dims
}

// Rows returns the number of rows.
func (g *Grid) Rows() int {
	return g.dims.Rows
}

// Cols returns the number of columns.
func (g *Grid) Cols() int {
	return g.dims.Cols
}

// Mines returns the number of mines.
func (g *Grid) Mines() int {
	return g.mines
}

// FlagsLeft returns how many more Hidden cells may be flagged.
func (g *Grid) FlagsLeft() int {
	return g.flagsLeft
}

// Cell returns a snapshot of the cell with the given id.
func (g *Grid) Cell(id CellID) (Cell, error) {
	if !g.dims.Valid(id) {
		return Cell{}, notFound(id)
	}
	return g.cells[id], nil
}

// At returns the cell at p. Any integer position is accepted; off-grid
// positions report false.
func (g *Grid) At(p Position) (Cell, bool) {
	if !g.dims.Contains(p) {
		return Cell{}, false
	}
	return g.cells[g.dims.ID(p)], true
}

// Cells returns a snapshot of every cell in id order.
func (g *Grid) Cells() []Cell {
	out := make([]Cell, len(g.cells))
	copy(out, g.cells)
	return out
}

// Field returns a snapshot indexed [column][row], the order cells were built in.
func (g *Grid) Field() [][]Cell {
	field := make([][]Cell, g.dims.Cols)
	for x := range field {
		column := make([]Cell, g.dims.Rows)
		copy(column, g.cells[x*g.dims.Rows:(x+1)*g.dims.Rows])
		field[x] = column
	}
	return field
}

// Count returns how many cells are in the given state.
func (g *Grid) Count(state CellState) int {
	n := 0
	for i := range g.cells {
		if g.cells[i].State == state {
			n++
		}
	}
	return n
}

// Flag toggles a flag on the cell. Unflagging is always allowed; flagging a
// Hidden cell requires budget and otherwise leaves the cell unchanged. Revealed
// cells never change.
func (g *Grid) Flag(id CellID) (Cell, error) {
	if !g.dims.Valid(id) {
		return Cell{}, notFound(id)
	}
	cell := &g.cells[id]
	if cell.State == Hidden && g.flagsLeft == 0 {
		return *cell, nil
	}

	switch cell.ToggleFlag() {
	case FlagPlaced:
		g.flagsLeft--
	case FlagRemoved:
		g.flagsLeft++
	}
	return *cell, nil
}

func notFound(id CellID) error {
	return fmt.Errorf("cell %d: %w", id, ErrNotFound)
}
