// Package soak plays many seeded random games concurrently and checks the
// game invariants after every move.
package soak

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/ship-commander/mines/internal/engine"
	"github.com/ship-commander/mines/internal/game"
	"github.com/ship-commander/mines/internal/logging"
	"github.com/ship-commander/mines/internal/textview"
	"golang.org/x/sync/errgroup"
)

const flagEvery = 4

// Options configures a soak run.
type Options struct {
	Rows  int
	Cols  int
	Mines int
	// Games is the number of games to play.
	Games int
	// Workers bounds how many games run at once. Zero means one per game.
	Workers int
	// Seed is the seed of the first game; game i uses Seed+i.
	Seed   uint64
	Logger *log.Logger
}

// GameResult is the outcome of one game.
type GameResult struct {
	Seed       uint64
	Status     string
	Moves      int
	Revealed   int
	Violations []string
}

// Report summarises a run.
type Report struct {
	Games      []GameResult
	Won        int
	Lost       int
	Violations int
}

// Run plays opts.Games games and returns their results in seed order.
func Run(ctx context.Context, opts Options) (Report, error) {
	if opts.Games <= 0 {
		return Report{}, errors.New("soak: games must be > 0")
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	results := make([]GameResult, opts.Games)
	group, groupCtx := errgroup.WithContext(ctx)
	if opts.Workers > 0 {
		group.SetLimit(opts.Workers)
	}

	for i := 0; i < opts.Games; i++ {
		i := i
		group.Go(func() error {
			result, err := play(groupCtx, opts, opts.Seed+uint64(i), logger)
			if err != nil {
				return fmt.Errorf("game %d: %w", i, err)
			}
			results[i] = result
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return Report{}, err
	}

	report := Report{Games: results}
	for _, result := range results {
		switch game.Status(result.Status) {
		case game.Won:
			report.Won++
		case game.Lost:
			report.Lost++
		}
		report.Violations += len(result.Violations)
	}
	logger.Info("soak finished",
		"games", len(results),
		"won", report.Won,
		"lost", report.Lost,
		"violations", report.Violations,
	)
	return report, nil
}

// play reveals random covered cells until the game ends, flagging every few
// moves, and records every broken invariant.
func play(ctx context.Context, opts Options, seed uint64, logger *log.Logger) (GameResult, error) {
	e, err := engine.New(ctx, engine.Params{Rows: opts.Rows, Cols: opts.Cols, Mines: opts.Mines, Seed: seed}, engine.WithLogger(logger))
	if err != nil {
		return GameResult{}, err
	}

	rng := rand.New(rand.NewPCG(seed, ^seed))
	result := GameResult{Seed: seed}
	state := e.State(ctx)
	last := state

	for !state.Over() {
		if err := ctx.Err(); err != nil {
			return GameResult{}, err
		}
		covered := coveredCells(e.Field(ctx))
		if len(covered) == 0 {
			result.Violations = append(result.Violations, "playing game has no covered cells")
			break
		}
		target := covered[rng.IntN(len(covered))]

		result.Moves++
		if result.Moves%flagEvery == 0 {
			if _, err := e.Flag(ctx, target); err != nil {
				return GameResult{}, err
			}
		} else {
			outcome, err := e.Reveal(ctx, target)
			if err != nil {
				return GameResult{}, err
			}
			if len(outcome.ChangedCells) == 0 {
				result.Violations = append(result.Violations, fmt.Sprintf("move %d: reveal of covered cell %d changed nothing", result.Moves, target))
			}
		}

		state = e.State(ctx)
		result.Violations = append(result.Violations, check(e, last, state, result.Moves)...)
		last = state
	}

	result.Status = state.Status
	result.Revealed = e.Revealed()
	logger.Debug("soak game finished", "seed", seed, "status", result.Status, "moves", result.Moves)
	return result, nil
}

func coveredCells(field [][]engine.CellView) []int {
	var ids []int
	for _, column := range field {
		for _, view := range column {
			if !view.Revealed() {
				ids = append(ids, view.ID)
			}
		}
	}
	return ids
}

func check(e *engine.Engine, before, after engine.GameState, move int) []string {
	var violations []string
	revealed, flagged := 0, 0
	for _, column := range e.Field(context.Background()) {
		for _, view := range column {
			switch {
			case view.Revealed():
				revealed++
			case view.Flagged():
				flagged++
			}
		}
	}
	if after.FlagsRemaining+flagged != e.Mines() {
		violations = append(violations, fmt.Sprintf("move %d: flags_remaining=%d flagged=%d mines=%d", move, after.FlagsRemaining, flagged, e.Mines()))
	}
	if revealed != e.Revealed() {
		violations = append(violations, fmt.Sprintf("move %d: revealed counter=%d cells=%d", move, e.Revealed(), revealed))
	}
	if before.Status != after.Status && !game.CanTransition(game.Status(before.Status), game.Status(after.Status)) {
		violations = append(violations, fmt.Sprintf("move %d: illegal transition %s -> %s", move, before.Status, after.Status))
	}
	if after.Status == string(game.Won) && revealed != e.Rows()*e.Cols()-e.Mines() {
		violations = append(violations, fmt.Sprintf("move %d: won with %d revealed", move, revealed))
	}
	return violations
}

// WriteSummary prints an aggregate table followed by every violation.
func WriteSummary(w io.Writer, report Report) error {
	moves := 0
	for _, result := range report.Games {
		moves += result.Moves
	}
	games := len(report.Games)
	winRate, avgMoves := "0.0%", "0.0"
	if games > 0 {
		winRate = fmt.Sprintf("%.1f%%", 100*float64(report.Won)/float64(games))
		avgMoves = fmt.Sprintf("%.1f", float64(moves)/float64(games))
	}

	err := textview.Table(w,
		[]string{"Games", "Won", "Lost", "Win rate", "Avg moves", "Violations"},
		[][]string{{
			strconv.Itoa(games),
			strconv.Itoa(report.Won),
			strconv.Itoa(report.Lost),
			winRate,
			avgMoves,
			strconv.Itoa(report.Violations),
		}},
		nil,
	)
	if err != nil {
		return err
	}
	if report.Violations == 0 {
		return nil
	}

	var rows [][]string
	for _, result := range report.Games {
		for _, violation := range result.Violations {
			rows = append(rows, []string{strconv.FormatUint(result.Seed, 10), violation})
		}
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return err
	}
	return textview.Table(w, []string{"Seed", "Violation"}, rows, nil)
}
