package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/ship-commander/mines/internal/config"
	"github.com/ship-commander/mines/internal/engine"
	"github.com/ship-commander/mines/internal/minefield"
	"github.com/ship-commander/mines/internal/textview"
	"github.com/spf13/cobra"
)

const (
	actionReveal = "reveal"
	actionFlag   = "flag"
)

// scriptAction targets a cell by id, or by column and row when byPosition is set.
type scriptAction struct {
	kind       string
	id         int
	x, y       int
	byPosition bool
}

type jsonStep struct {
	Action       string            `json:"action"`
	CellID       int               `json:"cell_id"`
	State        engine.GameState  `json:"state"`
	ChangedCells []engine.CellView `json:"changed_cells"`
}

func newScriptCommand(cfg *config.Config, logger *log.Logger) *cobra.Command {
	var (
		flags      gameFlags
		layoutFlag string
		asJSON     bool
	)
	cmd := &cobra.Command{
		Use:   "script ACTION...",
		Short: "Apply reveal and flag actions to a game and print the board",
		Long: `Apply actions in order, then print the board.

Actions are r<ID> or f<ID> to reveal or flag a cell by id, or r<X>,<Y> and
f<X>,<Y> to address it by column and row. Ids are column-major: id = x*rows + y.`,
		Example: "  mines script --seed 7 r0 f12 r3,4\n  mines script --rows 3 --cols 3 --layout 2,2 r0",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actions, err := parseActions(args)
			if err != nil {
				return err
			}
			params, err := flags.params(cmd, cfg)
			if err != nil {
				return err
			}
			if layoutFlag != "" {
				layout, err := parseLayout(layoutFlag)
				if err != nil {
					return err
				}
				params.Layout = layout
				if !cmd.Flags().Changed("mines") {
					params.Mines = 0
				}
			}

			bus := newEventBus(logger)
			defer bus.Close()
			return runScript(cmd, params, actions, asJSON, engine.WithLogger(logger), engine.WithBus(bus))
		},
	}
	bindGameFlags(cmd, &flags)
	cmd.Flags().StringVar(&layoutFlag, "layout", "", `explicit mine positions "x,y;x,y" instead of a random layout`)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print each step as a JSON line before the board")
	return cmd
}

func runScript(cmd *cobra.Command, params engine.Params, actions []scriptAction, asJSON bool, options ...engine.Option) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	game, err := engine.New(ctx, params, options...)
	if err != nil {
		return err
	}

	steps := make([]textview.Step, 0, len(actions))
	encoder := json.NewEncoder(out)
	for _, action := range actions {
		id := action.id
		if action.byPosition {
			id, err = game.IDAt(action.x, action.y)
			if err != nil {
				return fmt.Errorf("%s: %w", action.kind, err)
			}
		}

		step := jsonStep{Action: action.kind, CellID: id}
		switch action.kind {
		case actionReveal:
			outcome, err := game.Reveal(ctx, id)
			if err != nil {
				return err
			}
			step.State = engine.GameState{Status: outcome.Status, FlagsRemaining: outcome.FlagsRemaining}
			step.ChangedCells = outcome.ChangedCells
		case actionFlag:
			cell, err := game.Flag(ctx, id)
			if err != nil {
				return err
			}
			step.State = game.State(ctx)
			step.ChangedCells = []engine.CellView{cell}
		}

		if asJSON {
			if err := encoder.Encode(step); err != nil {
				return fmt.Errorf("encode step: %w", err)
			}
		}
		steps = append(steps, textview.Step{
			Action:  step.Action,
			CellID:  step.CellID,
			Changed: len(step.ChangedCells),
			State:   step.State,
		})
	}

	if err := writeBoard(out, game, cmd); err != nil {
		return err
	}
	if asJSON {
		return nil
	}
	return textview.Steps(out, steps)
}

func writeBoard(out io.Writer, game *engine.Engine, cmd *cobra.Command) error {
	state := game.State(cmd.Context())
	header := fmt.Sprintf("%dx%d  %d mines  status %s  flags %d", game.Cols(), game.Rows(), game.Mines(), state.Status, state.FlagsRemaining)
	if seed := game.Seed(); seed != 0 {
		header += fmt.Sprintf("  seed %d", seed)
	}
	if _, err := fmt.Fprintln(out, header); err != nil {
		return err
	}
	return textview.Board(out, game.Field(cmd.Context()))
}

func parseActions(args []string) ([]scriptAction, error) {
	actions := make([]scriptAction, 0, len(args))
	for _, arg := range args {
		action, err := parseAction(arg)
		if err != nil {
			return nil, err
		}
		actions = append(actions, action)
	}
	return actions, nil
}

func parseAction(arg string) (scriptAction, error) {
	raw := strings.ToLower(strings.TrimSpace(arg))
	if len(raw) < 2 {
		return scriptAction{}, fmt.Errorf("invalid action %q: want r<ID>, f<ID>, r<X>,<Y> or f<X>,<Y>", arg)
	}

	var action scriptAction
	switch raw[0] {
	case 'r':
		action.kind = actionReveal
	case 'f':
		action.kind = actionFlag
	default:
		return scriptAction{}, fmt.Errorf("invalid action %q: must start with r or f", arg)
	}

	target := raw[1:]
	if strings.Contains(target, ",") {
		position, err := parsePosition(target)
		if err != nil {
			return scriptAction{}, fmt.Errorf("invalid action %q: %w", arg, err)
		}
		action.x, action.y, action.byPosition = position.X, position.Y, true
		return action, nil
	}

	id, err := strconv.Atoi(target)
	if err != nil {
		return scriptAction{}, fmt.Errorf("invalid action %q: cell id %q is not a number", arg, target)
	}
	action.id = id
	return action, nil
}

func parseLayout(value string) ([]minefield.Position, error) {
	parts := strings.Split(value, ";")
	layout := make([]minefield.Position, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		position, err := parsePosition(part)
		if err != nil {
			return nil, fmt.Errorf("invalid layout %q: %w", value, err)
		}
		layout = append(layout, position)
	}
	return layout, nil
}

func parsePosition(value string) (minefield.Position, error) {
	coords := strings.Split(value, ",")
	if len(coords) != 2 {
		return minefield.Position{}, fmt.Errorf("position %q: want x,y", value)
	}
	x, err := strconv.Atoi(strings.TrimSpace(coords[0]))
	if err != nil {
		return minefield.Position{}, fmt.Errorf("position %q: bad x: %w", value, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(coords[1]))
	if err != nil {
		return minefield.Position{}, fmt.Errorf("position %q: bad y: %w", value, err)
	}
	return minefield.Position{X: x, Y: y}, nil
}
