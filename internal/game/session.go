// Package game runs one Minesweeper session on top of a minefield grid.
package game

import (
	"errors"
	"fmt"

	"github.com/ship-commander/mines/internal/minefield"
)

var (
	// ErrReentrant is returned when an observer tries to mutate the session it is observing.
	ErrReentrant = errors.New("session mutated from inside its observer")
	// ErrGridMismatch is returned when WithGrid supplies a grid that does not match the requested shape.
	ErrGridMismatch = errors.New("grid does not match requested dimensions")
)

// State is the caller-visible summary of a session.
type State struct {
	Status         Status
	FlagsRemaining int
}

// Observer is notified synchronously after every accepted reveal or flag.
type Observer func(State)

// Option configures Session construction.
type Option func(*sessionOptions)

type sessionOptions struct {
	source   minefield.PositionSource
	observer Observer
	grid     *minefield.Grid
}

// WithPositionSource sets the source used to place mines.
func WithPositionSource(source minefield.PositionSource) Option {
	return func(opts *sessionOptions) {
		opts.source = source
	}
}

// WithObserver registers the change observer.
func WithObserver(observer Observer) Option {
	return func(opts *sessionOptions) {
		opts.observer = observer
	}
}

// WithGrid adopts a pre-built grid instead of generating one.
func WithGrid(grid *minefield.Grid) Option {
	return func(opts *sessionOptions) {
		opts.grid = grid
	}
}

// Session is one game: a grid plus the Playing/Won/Lost lifecycle.
type Session struct {
	grid      *minefield.Grid
	status    Status
	revealed  int
	target    int
	observer  Observer
	notifying bool
}

// New starts a session on a fresh rows x cols grid holding mines mines.
func New(rows, cols, mines int, opts ...Option) (*Session, error) {
	resolved := sessionOptions{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&resolved)
	}

	grid := resolved.grid
	if grid == nil {
		var gridOpts []minefield.Option
		if resolved.source != nil {
			gridOpts = append(gridOpts, minefield.WithPositionSource(resolved.source))
		}
		generated, err := minefield.New(rows, cols, mines, gridOpts...)
		if err != nil {
			return nil, fmt.Errorf("generate grid: %w", err)
		}
		grid = generated
	} else if grid.Rows() != rows || grid.Cols() != cols || grid.Mines() != mines {
		return nil, fmt.Errorf(
			"%w: got %dx%d with %d mines, want %dx%d with %d mines",
			ErrGridMismatch, grid.Cols(), grid.Rows(), grid.Mines(), cols, rows, mines,
		)
	}

	return &Session{
		grid:     grid,
		status:   Playing,
		revealed: grid.Count(minefield.Revealed),
		target:   grid.Dimensions().Size() - grid.Mines(),
		observer: resolved.observer,
	}, nil
}

// Reveal uncovers a cell and returns every cell the call revealed. Revealing a
// mine loses the game; revealing the last safe cell wins it. Once the game is
// over Reveal changes nothing and returns no cells.
func (s *Session) Reveal(id minefield.CellID) ([]minefield.Cell, error) {
	if s.notifying {
		return nil, ErrReentrant
	}
	if s.status.Terminal() {
		if _, err := s.grid.Cell(id); err != nil {
			return nil, err
		}
		return nil, nil
	}

	result, err := s.grid.Reveal(id)
	if err != nil {
		return nil, err
	}
	s.revealed += len(result.Cells)

	next := s.status
	switch {
	case result.MinesTriggered:
		next = Lost
	case s.revealed == s.target:
		next = Won
	}
	if next != s.status {
		if err := transition(s.status, next); err != nil {
			return result.Cells, err
		}
		s.status = next
	}

	s.notify()
	return result.Cells, nil
}

// Flag toggles a flag on a cell and returns the cell afterwards. Once the game
// is over the cell is returned unchanged.
func (s *Session) Flag(id minefield.CellID) (minefield.Cell, error) {
	if s.notifying {
		return minefield.Cell{}, ErrReentrant
	}
	if s.status.Terminal() {
		return s.grid.Cell(id)
	}

	cell, err := s.grid.Flag(id)
	if err != nil {
		return minefield.Cell{}, err
	}
	s.notify()
	return cell, nil
}

func (s *Session) notify() {
	if s.observer == nil {
		return
	}
	s.notifying = true
	defer func() { s.notifying = false }()
	s.observer(s.State())
}

// State returns the current status and flag budget.
func (s *Session) State() State {
	return State{Status: s.status, FlagsRemaining: s.grid.FlagsLeft()}
}

// Status returns the current lifecycle status.
func (s *Session) Status() Status { return s.status }

// FlagsRemaining returns how many more flags may be placed.
func (s *Session) FlagsRemaining() int { return s.grid.FlagsLeft() }

// Revealed returns the number of revealed cells.
func (s *Session) Revealed() int { return s.revealed }

// Target returns the number of safe cells that must be revealed to win.
func (s *Session) Target() int { return s.target }

// Field returns a [column][row] snapshot of the grid.
func (s *Session) Field() [][]minefield.Cell { return s.grid.Field() }

// Cells returns a snapshot of every cell in id order.
func (s *Session) Cells() []minefield.Cell { return s.grid.Cells() }

// Cell returns a snapshot of one cell.
func (s *Session) Cell(id minefield.CellID) (minefield.Cell, error) { return s.grid.Cell(id) }

// Dimensions returns the grid extent.
func (s *Session) Dimensions() minefield.Dimensions { return s.grid.Dimensions() }

func (s *Session) Rows() int  { return s.grid.Rows() }
func (s *Session) Cols() int  { return s.grid.Cols() }
func (s *Session) Mines() int { return s.grid.Mines() }
