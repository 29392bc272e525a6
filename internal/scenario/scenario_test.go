package scenario

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nibzard/cleansim/internal/robot"
	"github.com/nibzard/cleansim/internal/sim"
)

func TestSchemaCompiles(t *testing.T) {
	s, err := schema()
	require.NoError(t, err)
	require.NotNil(t, s)
}

func TestParseValid(t *testing.T) {
	s, err := Parse([]byte(`{
		"name": "corridor",
		"cols": 4,
		"rows": 1,
		"robots": 1,
		"mode": "percentage",
		"request": 75,
		"seed": 7,
		"directions": ["right", "r", "left"]
	}`))
	require.NoError(t, err)

	assert.Equal(t, "corridor", s.Name)
	assert.Equal(t, uint64(7), s.Seed)
	assert.True(t, s.Scripted())
	assert.Equal(t, []robot.Direction{robot.Right, robot.Right, robot.Left}, s.Steps())

	p, err := s.Params()
	require.NoError(t, err)
	assert.Equal(t, sim.Params{Cols: 4, Rows: 1, Robots: 1, Request: sim.TargetCoverage(75)}, p)
}

func TestParseWithoutDirections(t *testing.T) {
	s, err := Parse([]byte(`{"cols": 3, "rows": 1, "robots": 5, "mode": "time", "request": 0.01}`))
	require.NoError(t, err)
	assert.False(t, s.Scripted())
	assert.Nil(t, s.Sampler())

	p, err := s.Params()
	require.NoError(t, err)
	assert.Equal(t, sim.Duration(0.01), p.Request)
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		json string
		path string
	}{
		{"missing robots", `{"cols": 2, "rows": 2, "mode": "time", "request": 1}`, ""},
		{"zero cols", `{"cols": 0, "rows": 2, "robots": 1, "mode": "time", "request": 1}`, "cols"},
		{"fractional rows", `{"cols": 2, "rows": 1.5, "robots": 1, "mode": "time", "request": 1}`, "rows"},
		{"unknown mode", `{"cols": 2, "rows": 2, "robots": 1, "mode": "laps", "request": 1}`, "mode"},
		{"zero request", `{"cols": 2, "rows": 2, "robots": 1, "mode": "time", "request": 0}`, "request"},
		{"percentage over 100", `{"cols": 2, "rows": 2, "robots": 1, "mode": "percentage", "request": 101}`, "request"},
		{"bad direction", `{"cols": 2, "rows": 2, "robots": 1, "mode": "time", "request": 1, "directions": ["up", "north"]}`, "directions[1]"},
		{"unknown field", `{"cols": 2, "rows": 2, "robots": 1, "mode": "time", "request": 1, "speed": 3}`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.json))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidScenario), "got %v", err)
			if tt.path != "" {
				var fe *FieldError
				require.True(t, errors.As(err, &fe), "expected a FieldError, got %v", err)
				assert.Equal(t, tt.path, fe.Path)
			}
		})
	}
}

func TestParseMalformedJSON(t *testing.T) {
	_, err := Parse([]byte(`{"cols": `))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidScenario)
}

func TestPercentageLimitOnlyAppliesToPercentageMode(t *testing.T) {
	_, err := Parse([]byte(`{"cols": 2, "rows": 2, "robots": 1, "mode": "time", "request": 250}`))
	assert.NoError(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "square.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"cols": 2, "rows": 2, "robots": 2, "mode": "percentage", "request": 25}`), 0644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, s.Path())
	assert.Equal(t, 2, s.Robots)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestScriptedScenarioReplaysThroughEngine(t *testing.T) {
	s, err := Parse([]byte(`{
		"cols": 4, "rows": 1, "robots": 1,
		"mode": "percentage", "request": 75,
		"directions": ["left", "right", "right"]
	}`))
	require.NoError(t, err)

	p, err := s.Params()
	require.NoError(t, err)
	e, err := sim.New(p, sim.WithSampler(s.Sampler()))
	require.NoError(t, err)

	var coverages []float64
	for !e.Done() {
		require.NoError(t, e.Tick())
		coverages = append(coverages, e.Coverage())
	}
	// The robot starts at x=1 and visits x=0, 1, 2.
	assert.Equal(t, []float64{25, 50, 75}, coverages)
}

func TestJSONPointerToPath(t *testing.T) {
	assert.Equal(t, "", jsonPointerToPath(""))
	assert.Equal(t, "cols", jsonPointerToPath("/cols"))
	assert.Equal(t, "directions[2]", jsonPointerToPath("/directions/2"))
	assert.Equal(t, "a.b", jsonPointerToPath("#/a/b"))
}
