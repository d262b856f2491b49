// Package tui is the interactive terminal board.
package tui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/ship-commander/mines/internal/engine"
	"github.com/ship-commander/mines/internal/game"
	"github.com/ship-commander/mines/internal/textview"
	"github.com/ship-commander/mines/internal/tui/theme"
)

// Starter creates a fresh game for the new-game key.
type Starter func(ctx context.Context) (*engine.Engine, error)

type overlayKind int

const (
	overlayNone overlayKind = iota
	overlayHelp
	overlayConfirmQuit
)

// GameStartedMsg carries the result of a Starter call.
type GameStartedMsg struct {
	Game *engine.Engine
	Err  error
}

// BoardModel plays one game at a time on an engine.
type BoardModel struct {
	ctx      context.Context
	start    Starter
	game     *engine.Engine
	keys     KeyMap
	help     help.Model
	overlay  overlayKind
	cursorX  int
	cursorY  int
	changed  int
	err      error
	width    int
	height   int
	quitting bool
}

// NewBoardModel wraps current, which may be nil until a GameStartedMsg
// arrives. A nil start disables the new-game key.
func NewBoardModel(ctx context.Context, current *engine.Engine, start Starter) *BoardModel {
	if ctx == nil {
		ctx = context.Background()
	}
	return &BoardModel{
		ctx:   ctx,
		start: start,
		game:  current,
		keys:  DefaultKeyMap(),
		help:  help.New(),
	}
}

// Init satisfies tea.Model.
func (m *BoardModel) Init() tea.Cmd {
	return nil
}

// Update handles keys, resizes and new games.
func (m *BoardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = typed.Width
		m.height = typed.Height
		m.help.Width = typed.Width
		return m, nil
	case GameStartedMsg:
		if typed.Err != nil {
			m.err = typed.Err
			return m, nil
		}
		m.game = typed.Game
		m.cursorX, m.cursorY = 0, 0
		m.changed = 0
		m.err = nil
		return m, nil
	case tea.KeyMsg:
		if m.overlay != overlayNone {
			return m.handleOverlayKey(typed)
		}
		return m.handleKey(typed)
	default:
		return m, nil
	}
}

func (m *BoardModel) handleOverlayKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.overlay == overlayConfirmQuit && key.Matches(msg, m.keys.Confirm) {
		m.quitting = true
		return m, tea.Quit
	}
	if msg.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}
	m.overlay = overlayNone
	return m, nil
}

func (m *BoardModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.game == nil || m.game.State(m.ctx).Over() {
			m.quitting = true
			return m, tea.Quit
		}
		m.overlay = overlayConfirmQuit
	case key.Matches(msg, m.keys.Help):
		m.overlay = overlayHelp
	case key.Matches(msg, m.keys.NewGame):
		return m, m.newGame()
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(0, -1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(0, 1)
	case key.Matches(msg, m.keys.Left):
		m.moveCursor(-1, 0)
	case key.Matches(msg, m.keys.Right):
		m.moveCursor(1, 0)
	case key.Matches(msg, m.keys.Reveal):
		m.reveal()
	case key.Matches(msg, m.keys.Flag):
		m.flag()
	}
	return m, nil
}

func (m *BoardModel) newGame() tea.Cmd {
	if m.start == nil {
		return nil
	}
	ctx, start := m.ctx, m.start
	return func() tea.Msg {
		next, err := start(ctx)
		return GameStartedMsg{Game: next, Err: err}
	}
}

func (m *BoardModel) moveCursor(dx, dy int) {
	if m.game == nil {
		return
	}
	m.cursorX = clamp(m.cursorX+dx, 0, m.game.Cols()-1)
	m.cursorY = clamp(m.cursorY+dy, 0, m.game.Rows()-1)
}

func (m *BoardModel) reveal() {
	id, ok := m.cursorID()
	if !ok {
		return
	}
	outcome, err := m.game.Reveal(m.ctx, id)
	if err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.changed = len(outcome.ChangedCells)
}

func (m *BoardModel) flag() {
	id, ok := m.cursorID()
	if !ok {
		return
	}
	if _, err := m.game.Flag(m.ctx, id); err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.changed = 0
}

func (m *BoardModel) cursorID() (int, bool) {
	if m.game == nil {
		return 0, false
	}
	id, err := m.game.IDAt(m.cursorX, m.cursorY)
	if err != nil {
		m.err = err
		return 0, false
	}
	return id, true
}

// View satisfies tea.Model.
func (m *BoardModel) View() string {
	if m.quitting {
		return ""
	}
	if m.game == nil {
		return theme.StatusStyle.Render("starting game...")
	}

	base := lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderTitle(),
		theme.BoardBorder.Render(m.renderBoard()),
		m.renderStatus(),
		m.help.View(m.keys),
	)

	switch m.overlay {
	case overlayHelp:
		return lipgloss.JoinVertical(lipgloss.Left, base, m.renderHelpOverlay())
	case overlayConfirmQuit:
		prompt := theme.BoardBorder.Render("Abandon this game? y to quit, any other key to keep playing")
		return lipgloss.JoinVertical(lipgloss.Left, base, prompt)
	default:
		return base
	}
}

func (m *BoardModel) renderTitle() string {
	title := fmt.Sprintf("MINES  %dx%d  %d mines", m.game.Cols(), m.game.Rows(), m.game.Mines())
	if seed := m.game.Seed(); seed != 0 {
		title += fmt.Sprintf("  seed %d", seed)
	}
	return theme.FlagStyle.Render(title)
}

func (m *BoardModel) renderBoard() string {
	field := m.game.Field(m.ctx)
	if len(field) == 0 {
		return ""
	}
	lines := make([]string, 0, len(field[0]))
	for y := 0; y < len(field[0]); y++ {
		var b strings.Builder
		for x := range field {
			if x > 0 {
				b.WriteByte(' ')
			}
			cell := renderCell(field[x][y])
			if x == m.cursorX && y == m.cursorY {
				cell = theme.CursorStyle.Render(textview.Symbol(field[x][y]))
			}
			b.WriteString(cell)
		}
		lines = append(lines, b.String())
	}
	return strings.Join(lines, "\n")
}

func renderCell(view engine.CellView) string {
	symbol := textview.Symbol(view)
	switch {
	case view.Flagged():
		return theme.FlagStyle.Render(symbol)
	case !view.Revealed():
		return theme.HiddenStyle.Render(symbol)
	case view.Mine():
		return theme.MineStyle.Render(symbol)
	default:
		return theme.CountStyle(view.Value).Render(symbol)
	}
}

func (m *BoardModel) renderStatus() string {
	state := m.game.State(m.ctx)
	line := fmt.Sprintf("flags %d  revealed %d  cursor (%d,%d)", state.FlagsRemaining, m.game.Revealed(), m.cursorX, m.cursorY)
	if m.changed > 0 {
		line += fmt.Sprintf("  +%d", m.changed)
	}

	var status string
	switch game.Status(state.Status) {
	case game.Won:
		status = theme.WonStyle.Render("You won! n for a new game")
	case game.Lost:
		status = theme.LostStyle.Render("Boom. n for a new game")
	default:
		status = theme.StatusStyle.Render(string(game.Playing))
	}

	target := m.game.Rows()*m.game.Cols() - m.game.Mines()
	out := RenderProgress(m.game.Revealed(), target, game.Status(state.Status), defaultProgressWidth) + "\n" +
		theme.StatusStyle.Render(line) + "  " + status
	if m.err != nil {
		out += "\n" + theme.LostStyle.Render(m.err.Error())
	}
	return out
}

func (m *BoardModel) renderHelpOverlay() string {
	full := help.New()
	full.ShowAll = true
	if m.width > 0 {
		full.Width = m.width
	}
	body := lipgloss.JoinVertical(
		lipgloss.Left,
		theme.FlagStyle.Render("KEYBOARD SHORTCUTS"),
		full.View(m.keys),
		theme.HiddenStyle.Render("Press any key to close"),
	)
	return theme.BoardBorder.Render(body)
}

// Game returns the engine currently on the board.
func (m *BoardModel) Game() *engine.Engine {
	return m.game
}

// Cursor reports the cursor column and row.
func (m *BoardModel) Cursor() (int, int) {
	return m.cursorX, m.cursorY
}

// Err returns the last error shown on the status line.
func (m *BoardModel) Err() error {
	return m.err
}

// Quitting reports whether the model asked the program to exit.
func (m *BoardModel) Quitting() bool {
	return m.quitting
}

// Run plays model until the user quits or ctx is cancelled.
func Run(ctx context.Context, model *BoardModel, in io.Reader, out io.Writer) error {
	program := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
		tea.WithAltScreen(),
	)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run board: %w", err)
	}
	return nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
