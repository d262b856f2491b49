// Package engine is the caller-facing boundary of a Minesweeper session. It
// serializes calls, converts cells into views, traces and logs every operation,
// checks game invariants and publishes changes on an event bus.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/ship-commander/mines/internal/events"
	"github.com/ship-commander/mines/internal/game"
	"github.com/ship-commander/mines/internal/logging"
	"github.com/ship-commander/mines/internal/minefield"
	"github.com/ship-commander/mines/internal/telemetry/invariants"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Params describes the game to create.
type Params struct {
	Rows  int
	Cols  int
	Mines int
	// Seed makes mine placement reproducible. Zero draws a fresh seed.
	Seed uint64
	// Layout places mines at exactly these positions instead of drawing them.
	// Mines may be left zero; otherwise it must equal len(Layout).
	Layout []minefield.Position
}

// Observer is notified after every accepted reveal or flag.
type Observer func(GameState)

// Option configures Engine construction.
type Option func(*Engine)

// WithObserver registers a change observer. It runs synchronously once the
// call that caused the change has released the engine, so it may call back
// into the engine.
func WithObserver(observer Observer) Option {
	return func(e *Engine) {
		e.observer = observer
	}
}

// WithBus publishes game changes on bus.
func WithBus(bus events.Bus) Option {
	return func(e *Engine) {
		e.bus = bus
	}
}

// WithRevealKinds discloses kind and value of cells that are not revealed yet.
func WithRevealKinds() Option {
	return func(e *Engine) {
		e.revealKinds = true
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *log.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithTracer configures the tracer used for engine spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(e *Engine) {
		if tracer != nil {
			e.tracer = tracer
		}
	}
}

// WithPositionSource overrides seeded mine placement.
func WithPositionSource(source minefield.PositionSource) Option {
	return func(e *Engine) {
		e.source = source
	}
}

// WithSessionID sets the session id instead of generating one.
func WithSessionID(id string) Option {
	return func(e *Engine) {
		if id = strings.TrimSpace(id); id != "" {
			e.id = id
		}
	}
}

// Engine is safe for concurrent use.
type Engine struct {
	mu          sync.Mutex
	session     *game.Session
	id          string
	seed        uint64
	observer    Observer
	bus         events.Bus
	revealKinds bool
	logger      *log.Logger
	tracer      trace.Tracer
	source      minefield.PositionSource
	pending     []GameState
}

// New creates a game.
func New(ctx context.Context, params Params, options ...Option) (*Engine, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	e := &Engine{
		logger: logging.Discard(),
		tracer: otel.Tracer("mines/engine"),
	}
	for _, option := range options {
		if option == nil {
			continue
		}
		option(e)
	}
	if e.id == "" {
		e.id = uuid.NewString()
	}
	e.logger = e.logger.With("session_id", e.id)

	ctx, span := e.tracer.Start(ctx, "engine.create")
	defer span.End()
	span.SetAttributes(
		attribute.String("session_id", e.id),
		attribute.Int("rows", params.Rows),
		attribute.Int("cols", params.Cols),
		attribute.Int("mines", params.Mines),
		attribute.Bool("layout", params.Layout != nil),
	)

	session, err := e.newSession(params)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		e.logger.Warn("game rejected", "rows", params.Rows, "cols", params.Cols, "mines", params.Mines, "err", err)
		return nil, err
	}
	e.session = session

	span.SetAttributes(attribute.Int64("seed", int64(e.seed)))
	span.SetStatus(codes.Ok, "game created")
	e.logger.Info("game created",
		"rows", session.Rows(),
		"cols", session.Cols(),
		"mines", session.Mines(),
		"seed", e.seed,
	)
	e.publish(events.TypeGameCreated, e.stateLocked())
	_ = ctx
	return e, nil
}

func (e *Engine) newSession(params Params) (*game.Session, error) {
	observe := game.WithObserver(func(state game.State) {
		e.pending = append(e.pending, newGameState(state))
	})

	if params.Layout != nil {
		mines := params.Mines
		if mines == 0 {
			mines = len(params.Layout)
		}
		grid, err := minefield.NewFromLayout(params.Rows, params.Cols, params.Layout)
		if err != nil {
			return nil, fmt.Errorf("create game: %w", err)
		}
		session, err := game.New(params.Rows, params.Cols, mines, game.WithGrid(grid), observe)
		if err != nil {
			return nil, fmt.Errorf("create game: %w", err)
		}
		return session, nil
	}

	source := e.source
	if source == nil {
		seed := params.Seed
		if seed == 0 {
			drawn, err := minefield.NewSeed()
			if err != nil {
				return nil, fmt.Errorf("create game: %w", err)
			}
			seed = drawn
		}
		e.seed = seed
		source = minefield.NewSeededSource(seed)
	}

	session, err := game.New(params.Rows, params.Cols, params.Mines, game.WithPositionSource(source), observe)
	if err != nil {
		return nil, fmt.Errorf("create game: %w", err)
	}
	return session, nil
}

// Reveal uncovers a cell and returns the cells that changed.
func (e *Engine) Reveal(ctx context.Context, id int) (RevealOutcome, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	started := time.Now()
	ctx, span := e.tracer.Start(ctx, "engine.reveal")
	defer func() {
		span.SetAttributes(attribute.Int64("duration_ms", time.Since(started).Milliseconds()))
		span.End()
	}()
	span.SetAttributes(attribute.String("session_id", e.id), attribute.Int("cell_id", id))

	e.mu.Lock()
	before := e.session.Status()
	cells, err := e.session.Reveal(minefield.CellID(id))
	if err != nil {
		e.mu.Unlock()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		e.logger.Debug("reveal rejected", "cell_id", id, "err", err)
		return RevealOutcome{}, fmt.Errorf("reveal cell %d: %w", id, err)
	}

	state := e.stateLocked()
	outcome := RevealOutcome{
		Status:         state.Status,
		FlagsRemaining: state.FlagsRemaining,
		ChangedCells:   newCellViews(cells, e.revealKinds),
	}
	e.checkLocked(ctx, "engine.reveal", before, cells)
	e.logger.Debug("cells revealed",
		"cell_id", id,
		"changed", len(cells),
		"status", state.Status,
		"flags_remaining", state.FlagsRemaining,
	)
	if len(cells) > 0 {
		e.publish(events.TypeCellsRevealed, outcome)
	}
	if after := e.session.Status(); after != before {
		e.logger.Info("game over",
			"cell_id", id,
			"status", state.Status,
			"flags_remaining", state.FlagsRemaining,
			"revealed", e.session.Revealed(),
		)
		e.publish(events.TypeGameOver, state)
	}
	pending := e.takePendingLocked()
	e.mu.Unlock()

	span.SetAttributes(
		attribute.Int("changed_cells", len(cells)),
		attribute.String("status", state.Status),
		attribute.Int("flags_remaining", state.FlagsRemaining),
	)
	span.SetStatus(codes.Ok, "reveal applied")
	e.notify(pending)
	return outcome, nil
}

// Flag toggles a flag and returns the cell afterwards.
func (e *Engine) Flag(ctx context.Context, id int) (CellView, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, span := e.tracer.Start(ctx, "engine.flag")
	defer span.End()
	span.SetAttributes(attribute.String("session_id", e.id), attribute.Int("cell_id", id))

	e.mu.Lock()
	before, err := e.session.Cell(minefield.CellID(id))
	var cell minefield.Cell
	if err == nil {
		cell, err = e.session.Flag(minefield.CellID(id))
	}
	if err != nil {
		e.mu.Unlock()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		e.logger.Debug("flag rejected", "cell_id", id, "err", err)
		return CellView{}, fmt.Errorf("flag cell %d: %w", id, err)
	}

	view := newCellView(cell, e.revealKinds)
	state := e.stateLocked()
	e.checkLocked(ctx, "engine.flag", e.session.Status(), nil)
	e.logger.Debug("flag toggled",
		"cell_id", id,
		"state", view.State,
		"flags_remaining", state.FlagsRemaining,
	)
	if before.State != cell.State {
		e.publish(events.TypeCellFlagged, view)
	}
	pending := e.takePendingLocked()
	e.mu.Unlock()

	span.SetAttributes(
		attribute.String("cell_state", view.State),
		attribute.Int("flags_remaining", state.FlagsRemaining),
	)
	span.SetStatus(codes.Ok, "flag applied")
	e.notify(pending)
	return view, nil
}

// Field returns every cell, outer index column and inner index row.
func (e *Engine) Field(ctx context.Context) [][]CellView {
	e.mu.Lock()
	defer e.mu.Unlock()

	field := e.session.Field()
	out := make([][]CellView, len(field))
	for x, column := range field {
		out[x] = newCellViews(column, e.revealKinds)
	}
	_ = ctx
	return out
}

// Cell returns the view of one cell.
func (e *Engine) Cell(ctx context.Context, id int) (CellView, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	cell, err := e.session.Cell(minefield.CellID(id))
	if err != nil {
		return CellView{}, fmt.Errorf("cell %d: %w", id, err)
	}
	_ = ctx
	return newCellView(cell, e.revealKinds), nil
}

// State returns the status and flag budget.
func (e *Engine) State(ctx context.Context) GameState {
	e.mu.Lock()
	defer e.mu.Unlock()
	_ = ctx
	return e.stateLocked()
}

// ID returns the session id.
func (e *Engine) ID() string { return e.id }

// Seed returns the placement seed, or zero for layouts and custom sources.
func (e *Engine) Seed() uint64 { return e.seed }

// Rows returns the number of rows.
func (e *Engine) Rows() int { return e.session.Rows() }

// Cols returns the number of columns.
func (e *Engine) Cols() int { return e.session.Cols() }

// Mines returns the number of mines.
func (e *Engine) Mines() int { return e.session.Mines() }

// Revealed returns the number of revealed cells.
func (e *Engine) Revealed() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.Revealed()
}

// IDAt returns the id of the cell at column x, row y.
func (e *Engine) IDAt(x, y int) (int, error) {
	dims := e.session.Dimensions()
	p := minefield.Position{X: x, Y: y}
	if !dims.Contains(p) {
		return 0, fmt.Errorf("position (%d,%d): %w", x, y, minefield.ErrNotFound)
	}
	return int(dims.ID(p)), nil
}

func (e *Engine) stateLocked() GameState {
	return newGameState(e.session.State())
}

func (e *Engine) checkLocked(ctx context.Context, where string, before game.Status, cells []minefield.Cell) {
	if !invariants.Enabled() {
		return
	}
	all := e.session.Cells()
	flagged, revealed := 0, 0
	for _, cell := range all {
		switch cell.State {
		case minefield.Flagged:
			flagged++
		case minefield.Revealed:
			revealed++
		}
	}
	invariants.CheckFlagBudgetBalanced(ctx, where, e.session.FlagsRemaining(), flagged, e.session.Mines())
	invariants.CheckRevealedCountConsistent(ctx, where, e.session.Revealed(), revealed)

	if after := e.session.Status(); after != before {
		invariants.CheckStatusTransitionLegal(ctx, where, before.String(), after.String(), game.CanTransition(before, after))
	}
	if cells != nil {
		distinct := make(map[minefield.CellID]struct{}, len(cells))
		for _, cell := range cells {
			distinct[cell.ID] = struct{}{}
		}
		invariants.CheckRevealDeltaBounded(ctx, where, len(cells), len(distinct), len(all))
	}
}

func (e *Engine) publish(eventType string, payload any) {
	if e.bus == nil {
		return
	}
	e.bus.Publish(events.Event{Type: eventType, SessionID: e.id, Payload: payload})
}

func (e *Engine) takePendingLocked() []GameState {
	pending := e.pending
	e.pending = nil
	return pending
}

func (e *Engine) notify(pending []GameState) {
	if e.observer == nil {
		return
	}
	for _, state := range pending {
		e.observer(state)
	}
}

// IsNotFound reports whether err names a cell or position outside the grid.
func IsNotFound(err error) bool {
	return errors.Is(err, minefield.ErrNotFound)
}
