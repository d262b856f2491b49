package minefield

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCellStartsHidden(t *testing.T) {
	cell := NewCell(3, Empty(2), Position{X: 1, Y: 0})

	assert.Equal(t, CellID(3), cell.ID)
	assert.Equal(t, Hidden, cell.State)
	assert.Equal(t, 2, cell.Kind.Adjacent())
	assert.Equal(t, Position{X: 1, Y: 0}, cell.Position)
}

func TestCellRevealIsIdempotent(t *testing.T) {
	cell := NewCell(0, Empty(0), Position{})
	cell.Reveal()
	first := cell
	cell.Reveal()

	assert.Equal(t, first, cell)
	assert.Equal(t, Revealed, cell.State)
}

func TestCellToggleFlag(t *testing.T) {
	tests := []struct {
		name      string
		start     CellState
		wantState CellState
		want      FlagOutcome
	}{
		{name: "hidden becomes flagged", start: Hidden, wantState: Flagged, want: FlagPlaced},
		{name: "flagged becomes hidden", start: Flagged, wantState: Hidden, want: FlagRemoved},
		{name: "revealed is rejected", start: Revealed, wantState: Revealed, want: FlagRejected},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			cell := NewCell(0, Mine(), Position{})
			cell.State = tt.start

			assert.Equal(t, tt.want, cell.ToggleFlag())
			assert.Equal(t, tt.wantState, cell.State)
		})
	}
}

func TestCellKind(t *testing.T) {
	assert.True(t, Mine().IsMine())
	assert.Equal(t, 0, Mine().Adjacent())
	assert.Equal(t, KindMine, Mine().Tag())
	assert.Equal(t, "mine", Mine().String())

	assert.False(t, Empty(4).IsMine())
	assert.Equal(t, 4, Empty(4).Adjacent())
	assert.Equal(t, "empty(4)", Empty(4).String())

	assert.Equal(t, Mine(), Mine().incremented())
	assert.Equal(t, Empty(1), Empty(0).incremented())
}

func TestTags(t *testing.T) {
	assert.Equal(t, "mine", KindMine.String())
	assert.Equal(t, "empty", KindEmpty.String())
	assert.Equal(t, "hidden", Hidden.String())
	assert.Equal(t, "revealed", Revealed.String())
	assert.Equal(t, "flagged", Flagged.String())
}
