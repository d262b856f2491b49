package game

import (
	"errors"
	"testing"

	"github.com/ship-commander/mines/internal/minefield"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func layoutSession(t *testing.T, rows, cols int, mines []minefield.Position, opts ...Option) *Session {
	t.Helper()
	grid, err := minefield.NewFromLayout(rows, cols, mines)
	require.NoError(t, err)
	session, err := New(rows, cols, len(mines), append([]Option{WithGrid(grid)}, opts...)...)
	require.NoError(t, err)
	return session
}

func cellIDs(cells []minefield.Cell) []minefield.CellID {
	ids := make([]minefield.CellID, 0, len(cells))
	for _, cell := range cells {
		ids = append(ids, cell.ID)
	}
	return ids
}

func TestNewStartsPlaying(t *testing.T) {
	t.Parallel()

	session, err := New(10, 7, 7, WithPositionSource(minefield.NewSeededSource(3)))
	require.NoError(t, err)

	assert.Equal(t, Playing, session.Status())
	assert.Equal(t, 7, session.FlagsRemaining())
	assert.Equal(t, 0, session.Revealed())
	assert.Equal(t, 63, session.Target())
	assert.Equal(t, 10, session.Rows())
	assert.Equal(t, 7, session.Cols())
	assert.Equal(t, 7, session.Mines())
	assert.Equal(t, State{Status: Playing, FlagsRemaining: 7}, session.State())
}

func TestNewRejectsInvalidParameters(t *testing.T) {
	t.Parallel()

	_, err := New(3, 3, 9)
	assert.ErrorIs(t, err, minefield.ErrTooManyMines)

	_, err = New(0, 3, 0)
	assert.ErrorIs(t, err, minefield.ErrInvalidDimensions)
}

func TestNewRejectsMismatchedGrid(t *testing.T) {
	t.Parallel()

	grid, err := minefield.NewFromLayout(3, 3, []minefield.Position{{X: 1, Y: 1}})
	require.NoError(t, err)

	_, err = New(4, 3, 1, WithGrid(grid))
	assert.ErrorIs(t, err, ErrGridMismatch)
}

func TestRevealAllEmptyGridWins(t *testing.T) {
	t.Parallel()

	session := layoutSession(t, 3, 3, nil)

	cells, err := session.Reveal(0)
	require.NoError(t, err)

	assert.Len(t, cells, 9)
	assert.Equal(t, 9, session.Revealed())
	assert.Equal(t, Won, session.Status())
}

func TestRevealFloodLeavesMineHidden(t *testing.T) {
	t.Parallel()

	session := layoutSession(t, 3, 3, []minefield.Position{{X: 2, Y: 2}})

	cells, err := session.Reveal(0)
	require.NoError(t, err)

	assert.Len(t, cells, 8)
	mine, err := session.Cell(8)
	require.NoError(t, err)
	assert.Equal(t, minefield.Hidden, mine.State)
	assert.Equal(t, Won, session.Status(), "every safe cell is revealed")
}

func TestRevealMineLoses(t *testing.T) {
	t.Parallel()

	session := layoutSession(t, 3, 3, []minefield.Position{{X: 2, Y: 2}})

	cells, err := session.Reveal(8)
	require.NoError(t, err)

	assert.Len(t, cells, 9)
	assert.Equal(t, Lost, session.Status())
	assert.Equal(t, 9, session.Revealed())
}

func TestRevealStaysPlayingUntilTarget(t *testing.T) {
	t.Parallel()

	// 1 * 1
	// 1 1 1
	// 0 0 0
	session := layoutSession(t, 3, 3, []minefield.Position{{X: 1, Y: 0}})
	require.Equal(t, 8, session.Target())

	order := []minefield.CellID{0, 6, 1}
	for _, id := range order {
		_, err := session.Reveal(id)
		require.NoError(t, err)
		assert.Equal(t, Playing, session.Status(), "after reveal %d", id)
	}

	cells, err := session.Reveal(2)
	require.NoError(t, err)
	assert.NotEmpty(t, cells)
	assert.Equal(t, 8, session.Revealed())
	assert.Equal(t, Won, session.Status())
}

func TestRevealRepeatedContributesNothing(t *testing.T) {
	t.Parallel()

	session := layoutSession(t, 3, 3, []minefield.Position{{X: 1, Y: 0}})

	_, err := session.Reveal(0)
	require.NoError(t, err)
	cells, err := session.Reveal(0)
	require.NoError(t, err)

	assert.Empty(t, cells)
	assert.Equal(t, 1, session.Revealed())
}

func TestFlagBudget(t *testing.T) {
	t.Parallel()

	session := layoutSession(t, 4, 4, []minefield.Position{{X: 0, Y: 0}, {X: 3, Y: 3}})
	require.Equal(t, 2, session.FlagsRemaining())

	for _, id := range []minefield.CellID{5, 6} {
		cell, err := session.Flag(id)
		require.NoError(t, err)
		assert.Equal(t, minefield.Flagged, cell.State)
	}
	assert.Equal(t, 0, session.FlagsRemaining())

	cell, err := session.Flag(9)
	require.NoError(t, err)
	assert.Equal(t, minefield.Hidden, cell.State)
	assert.Equal(t, 0, session.FlagsRemaining())

	cell, err = session.Flag(5)
	require.NoError(t, err)
	assert.Equal(t, minefield.Hidden, cell.State)
	assert.Equal(t, 1, session.FlagsRemaining())
}

func TestTerminalSessionIsFrozen(t *testing.T) {
	t.Parallel()

	calls := 0
	session := layoutSession(t, 3, 3, []minefield.Position{{X: 2, Y: 2}}, WithObserver(func(State) { calls++ }))
	_, err := session.Flag(4)
	require.NoError(t, err)
	_, err = session.Reveal(8)
	require.NoError(t, err)
	require.Equal(t, Lost, session.Status())
	require.Equal(t, 2, calls)

	before := session.Cells()
	revealed := session.Revealed()

	cells, err := session.Reveal(0)
	require.NoError(t, err)
	assert.Empty(t, cells)

	cell, err := session.Flag(3)
	require.NoError(t, err)
	assert.Equal(t, minefield.Revealed, cell.State)

	assert.Equal(t, before, session.Cells())
	assert.Equal(t, revealed, session.Revealed())
	assert.Equal(t, 1, session.FlagsRemaining())
	assert.Equal(t, 2, calls)
}

func TestTerminalSessionStillReportsUnknownCells(t *testing.T) {
	t.Parallel()

	session := layoutSession(t, 3, 3, nil)
	_, err := session.Reveal(0)
	require.NoError(t, err)
	require.Equal(t, Won, session.Status())

	_, err = session.Reveal(42)
	assert.ErrorIs(t, err, minefield.ErrNotFound)
	_, err = session.Flag(-1)
	assert.ErrorIs(t, err, minefield.ErrNotFound)
}

func TestUnknownCellIsNotFound(t *testing.T) {
	t.Parallel()

	session := layoutSession(t, 3, 3, []minefield.Position{{X: 2, Y: 2}})

	_, err := session.Reveal(9)
	assert.True(t, errors.Is(err, minefield.ErrNotFound))
	_, err = session.Flag(9)
	assert.True(t, errors.Is(err, minefield.ErrNotFound))
	assert.Equal(t, Playing, session.Status())
}

func TestObserverReceivesState(t *testing.T) {
	t.Parallel()

	var seen []State
	session := layoutSession(t, 3, 3, []minefield.Position{{X: 2, Y: 2}}, WithObserver(func(state State) {
		seen = append(seen, state)
	}))

	_, err := session.Flag(8)
	require.NoError(t, err)
	_, err = session.Reveal(8)
	require.NoError(t, err)

	assert.Equal(t, []State{
		{Status: Playing, FlagsRemaining: 0},
		{Status: Lost, FlagsRemaining: 1},
	}, seen)
}

func TestObserverCannotReenter(t *testing.T) {
	t.Parallel()

	var reentryErrs []error
	var session *Session
	session = layoutSession(t, 3, 3, []minefield.Position{{X: 2, Y: 2}}, WithObserver(func(State) {
		_, err := session.Reveal(0)
		reentryErrs = append(reentryErrs, err)
		_, err = session.Flag(0)
		reentryErrs = append(reentryErrs, err)
	}))

	_, err := session.Reveal(4)
	require.NoError(t, err)

	require.Len(t, reentryErrs, 2)
	for _, err := range reentryErrs {
		assert.ErrorIs(t, err, ErrReentrant)
	}
	assert.Equal(t, 1, session.Revealed())

	_, err = session.Reveal(0)
	assert.NoError(t, err)
}
