package soak

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunPlaysEveryGameToTheEnd(t *testing.T) {
	t.Parallel()

	report, err := Run(context.Background(), Options{Rows: 10, Cols: 7, Mines: 7, Games: 40, Workers: 4, Seed: 100})
	require.NoError(t, err)

	require.Len(t, report.Games, 40)
	assert.Equal(t, 40, report.Won+report.Lost)
	assert.Zero(t, report.Violations)
	for i, result := range report.Games {
		assert.Equal(t, uint64(100+i), result.Seed)
		assert.Contains(t, []string{"won", "lost"}, result.Status)
		assert.Positive(t, result.Moves)
		if result.Status == "won" {
			assert.Equal(t, 63, result.Revealed)
		} else {
			assert.Equal(t, 70, result.Revealed)
		}
	}
}

func TestRunIsDeterministic(t *testing.T) {
	t.Parallel()

	opts := Options{Rows: 12, Cols: 9, Mines: 10, Games: 10, Seed: 7}
	first, err := Run(context.Background(), opts)
	require.NoError(t, err)
	second, err := Run(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRunWithoutMinesAlwaysWins(t *testing.T) {
	t.Parallel()

	report, err := Run(context.Background(), Options{Rows: 4, Cols: 4, Mines: 0, Games: 5, Seed: 1})
	require.NoError(t, err)
	assert.Equal(t, 5, report.Won)
	for _, result := range report.Games {
		assert.Equal(t, 1, result.Moves)
	}
}

func TestRunRejectsBadOptions(t *testing.T) {
	t.Parallel()

	_, err := Run(context.Background(), Options{Rows: 3, Cols: 3, Mines: 1})
	assert.Error(t, err)

	_, err = Run(context.Background(), Options{Rows: 3, Cols: 3, Mines: 9, Games: 2})
	assert.Error(t, err)
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, Options{Rows: 15, Cols: 10, Mines: 20, Games: 3, Seed: 1})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWriteSummary(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	err := WriteSummary(&out, Report{
		Games: []GameResult{
			{Seed: 1, Status: "won", Moves: 4},
			{Seed: 2, Status: "lost", Moves: 2, Violations: []string{"move 2: revealed counter=3 cells=4"}},
		},
		Won:        1,
		Lost:       1,
		Violations: 1,
	})
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "Win rate")
	assert.Contains(t, text, "50.0%")
	assert.Contains(t, text, "3.0")
	assert.Contains(t, text, "Violation")
	assert.True(t, strings.Contains(text, "revealed counter=3 cells=4"))
}
