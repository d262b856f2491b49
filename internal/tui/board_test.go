package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ship-commander/mines/internal/engine"
	"github.com/ship-commander/mines/internal/game"
	"github.com/ship-commander/mines/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T) *engine.Engine {
	t.Helper()
	e, err := engine.New(context.Background(), engine.Params{Rows: 3, Cols: 3, Layout: test.TwoMineLayout()})
	require.NoError(t, err)
	return e
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func press(t *testing.T, model *BoardModel, msgs ...tea.Msg) tea.Cmd {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		next, c := model.Update(msg)
		require.Same(t, model, next)
		cmd = c
	}
	return cmd
}

func TestCursorMovesAndClamps(t *testing.T) {
	t.Parallel()

	model := NewBoardModel(context.Background(), newTestEngine(t), nil)

	press(t, model, tea.KeyMsg{Type: tea.KeyLeft}, tea.KeyMsg{Type: tea.KeyUp})
	x, y := model.Cursor()
	assert.Equal(t, 0, x)
	assert.Equal(t, 0, y)

	press(t, model,
		tea.KeyMsg{Type: tea.KeyRight}, runeKey('l'), runeKey('l'), runeKey('l'),
		tea.KeyMsg{Type: tea.KeyDown}, runeKey('j'),
	)
	x, y = model.Cursor()
	assert.Equal(t, 2, x)
	assert.Equal(t, 2, y)

	press(t, model, runeKey('h'), runeKey('k'))
	x, y = model.Cursor()
	assert.Equal(t, 1, x)
	assert.Equal(t, 1, y)
}

func TestRevealFloodsFromCursor(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)
	model := NewBoardModel(context.Background(), e, nil)

	press(t, model, tea.KeyMsg{Type: tea.KeyEnter})

	assert.NoError(t, model.Err())
	assert.Equal(t, 6, e.Revealed())
	assert.Equal(t, string(game.Playing), e.State(context.Background()).Status)

	view := model.View()
	assert.Contains(t, view, "playing")
	assert.Contains(t, view, "+6")
	assert.Contains(t, view, "MINES  3x3  2 mines")
}

func TestFlagMarksCellUnderCursor(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)
	model := NewBoardModel(context.Background(), e, nil)

	press(t, model, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyDown}, runeKey('f'))

	cell, err := e.Cell(context.Background(), 2)
	require.NoError(t, err)
	assert.True(t, cell.Flagged())
	assert.Equal(t, 1, e.State(context.Background()).FlagsRemaining)
	assert.Contains(t, model.View(), "flags 1")
}

func TestRevealMineShowsLossAndWholeField(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)
	model := NewBoardModel(context.Background(), e, nil)

	press(t, model, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, string(game.Lost), e.State(context.Background()).Status)
	assert.Equal(t, 9, e.Revealed())

	view := model.View()
	assert.Contains(t, view, "Boom")
	assert.Equal(t, 2, strings.Count(view, "*"))
}

func TestQuitAsksForConfirmationMidGame(t *testing.T) {
	t.Parallel()

	model := NewBoardModel(context.Background(), newTestEngine(t), nil)

	cmd := press(t, model, runeKey('q'))
	assert.Nil(t, cmd)
	assert.False(t, model.Quitting())
	assert.Contains(t, model.View(), "Abandon this game?")

	cmd = press(t, model, runeKey('x'))
	assert.Nil(t, cmd)
	assert.NotContains(t, model.View(), "Abandon this game?")

	press(t, model, runeKey('q'))
	cmd = press(t, model, runeKey('y'))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.True(t, model.Quitting())
	assert.Empty(t, model.View())
}

func TestQuitAfterGameOverExitsImmediately(t *testing.T) {
	t.Parallel()

	model := NewBoardModel(context.Background(), newTestEngine(t), nil)
	press(t, model, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyEnter})

	cmd := press(t, model, runeKey('q'))
	require.NotNil(t, cmd)
	assert.True(t, model.Quitting())
}

func TestNewGameReplacesEngineAndResetsCursor(t *testing.T) {
	t.Parallel()

	first := newTestEngine(t)
	second := newTestEngine(t)
	starts := 0
	model := NewBoardModel(context.Background(), first, func(context.Context) (*engine.Engine, error) {
		starts++
		return second, nil
	})

	press(t, model, tea.KeyMsg{Type: tea.KeyRight})
	cmd := press(t, model, runeKey('n'))
	require.NotNil(t, cmd)
	msg := cmd()
	assert.Equal(t, 1, starts)

	press(t, model, msg)
	assert.Same(t, second, model.Game())
	x, y := model.Cursor()
	assert.Equal(t, 0, x)
	assert.Equal(t, 0, y)
}

func TestNewGameErrorStaysOnBoard(t *testing.T) {
	t.Parallel()

	first := newTestEngine(t)
	boom := errors.New("no seed")
	model := NewBoardModel(context.Background(), first, func(context.Context) (*engine.Engine, error) {
		return nil, boom
	})

	cmd := press(t, model, runeKey('n'))
	require.NotNil(t, cmd)
	press(t, model, cmd())

	assert.Same(t, first, model.Game())
	assert.ErrorIs(t, model.Err(), boom)
	assert.Contains(t, model.View(), "no seed")
}

func TestNewGameDisabledWithoutStarter(t *testing.T) {
	t.Parallel()

	model := NewBoardModel(context.Background(), newTestEngine(t), nil)
	assert.Nil(t, press(t, model, runeKey('n')))
}

func TestHelpOverlayTogglesWithAnyKey(t *testing.T) {
	t.Parallel()

	model := NewBoardModel(context.Background(), newTestEngine(t), nil)
	press(t, model, tea.WindowSizeMsg{Width: 100, Height: 30}, runeKey('?'))
	assert.Contains(t, model.View(), "KEYBOARD SHORTCUTS")

	press(t, model, runeKey('f'))
	assert.NotContains(t, model.View(), "KEYBOARD SHORTCUTS")

	cell, err := model.Game().Cell(context.Background(), 0)
	require.NoError(t, err)
	assert.False(t, cell.Flagged(), "key that closes the overlay must not reach the board")
}

func TestViewWithoutGame(t *testing.T) {
	t.Parallel()

	model := NewBoardModel(context.Background(), nil, nil)
	press(t, model, tea.KeyMsg{Type: tea.KeyEnter}, runeKey('f'), tea.KeyMsg{Type: tea.KeyRight})
	assert.Contains(t, model.View(), "starting game")
	assert.NoError(t, model.Err())
}

func TestStatusShowsRevealProgress(t *testing.T) {
	t.Parallel()

	model := NewBoardModel(context.Background(), newTestEngine(t), nil)
	assert.Contains(t, model.View(), "] 0/7")

	press(t, model, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Contains(t, model.View(), "] 6/7")
}
