package robot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStartsAtOneOne(t *testing.T) {
	r := New(5, 7)
	assert.Equal(t, Position{X: 1, Y: 1}, r.Position())
}

func TestNewClampsStartOnNarrowRooms(t *testing.T) {
	tests := []struct {
		name       string
		rows, cols int
		want       Position
	}{
		{"single cell", 1, 1, Position{0, 0}},
		{"single row", 1, 3, Position{1, 0}},
		{"single column", 4, 1, Position{0, 1}},
		{"two by two", 2, 2, Position{1, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, New(tt.rows, tt.cols).Position())
		})
	}
}

func TestMoveClamping(t *testing.T) {
	tests := []struct {
		name      string
		rows      int
		cols      int
		moves     []Direction
		want      Position
		lastMoved bool
	}{
		{"right inside", 3, 3, []Direction{Right}, Position{2, 1}, true},
		{"right at edge", 3, 3, []Direction{Right, Right}, Position{2, 1}, false},
		{"left to zero", 3, 3, []Direction{Left}, Position{0, 1}, true},
		{"left at zero", 3, 3, []Direction{Left, Left}, Position{0, 1}, false},
		{"up inside", 3, 3, []Direction{Up}, Position{1, 2}, true},
		{"up at edge", 3, 3, []Direction{Up, Up}, Position{1, 2}, false},
		{"down to zero", 3, 3, []Direction{Down}, Position{1, 0}, true},
		{"down at zero", 3, 3, []Direction{Down, Down}, Position{1, 0}, false},
		{"two by two right blocked", 2, 2, []Direction{Right}, Position{1, 1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(tt.rows, tt.cols)
			var moved bool
			for _, d := range tt.moves {
				moved = r.Move(d)
			}
			assert.Equal(t, tt.want, r.Position())
			assert.Equal(t, tt.lastMoved, moved)
		})
	}
}

func TestStepStaysInBounds(t *testing.T) {
	const rows, cols = 4, 6
	r := New(rows, cols)
	s := NewRandomSampler(42)
	for i := 0; i < 10000; i++ {
		before := r.Position()
		r.Step(s)
		after := r.Position()

		require.GreaterOrEqual(t, after.X, 0)
		require.Less(t, after.X, cols)
		require.GreaterOrEqual(t, after.Y, 0)
		require.Less(t, after.Y, rows)

		dist := abs(after.X-before.X) + abs(after.Y-before.Y)
		require.LessOrEqual(t, dist, 1, "step %d moved more than one cell", i)
	}
}

func TestStepReachesEveryCell(t *testing.T) {
	const rows, cols = 3, 4
	r := New(rows, cols)
	s := NewRandomSampler(7)
	seen := map[Position]bool{}
	for i := 0; i < 5000; i++ {
		r.Step(s)
		seen[r.Position()] = true
	}
	assert.Len(t, seen, rows*cols)
}

func TestStepUsesSampler(t *testing.T) {
	r := New(3, 3)
	s := NewScriptedSampler(Left, Down)
	assert.Equal(t, Left, r.Step(s))
	assert.Equal(t, Down, r.Step(s))
	assert.Equal(t, Position{0, 0}, r.Position())
	assert.Equal(t, 2, s.Drawn())
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
