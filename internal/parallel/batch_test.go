package parallel

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nibzard/cleansim/internal/sim"
)

func TestRunBatch(t *testing.T) {
	params := sim.Params{Cols: 4, Rows: 4, Robots: 2, Request: sim.TargetCoverage(50)}

	s, err := RunBatch(context.Background(), params, BatchOptions{Runs: 8, Workers: 3, Seed: 11})
	require.NoError(t, err)

	assert.Equal(t, 8, s.Runs)
	assert.Equal(t, 8, s.Completed)
	assert.Zero(t, s.Failed)
	require.Len(t, s.Reports, 8)
	for _, r := range s.Reports {
		assert.Equal(t, 50.0, r.Coverage)
		assert.GreaterOrEqual(t, r.Cleaned, 8)
	}
	assert.GreaterOrEqual(t, s.Ticks.Min, 4.0, "two robots clean at most two tiles a tick")
	assert.LessOrEqual(t, s.Ticks.Min, s.Ticks.Mean)
	assert.LessOrEqual(t, s.Ticks.Mean, s.Ticks.Max)
	assert.GreaterOrEqual(t, s.Coverage.Min, 50.0)
	assert.Contains(t, s.String(), "8/8 runs completed")
}

func TestRunBatchIsReproducible(t *testing.T) {
	params := sim.Params{Cols: 5, Rows: 3, Robots: 1, Request: sim.TargetCoverage(60)}
	opts := BatchOptions{Runs: 4, Workers: 2, Seed: 99}

	a, err := RunBatch(context.Background(), params, opts)
	require.NoError(t, err)
	b, err := RunBatch(context.Background(), params, opts)
	require.NoError(t, err)

	for i := range a.Reports {
		assert.Equal(t, a.Reports[i].Ticks, b.Reports[i].Ticks, "run %d", i)
		assert.Equal(t, a.Reports[i].Cleaned, b.Reports[i].Cleaned, "run %d", i)
	}
}

func TestRunBatchInvalid(t *testing.T) {
	_, err := RunBatch(context.Background(), sim.Params{Cols: 0, Rows: 1, Robots: 1, Request: sim.Duration(1)}, BatchOptions{Runs: 1})
	assert.True(t, errors.Is(err, sim.ErrInvalidConfiguration))

	_, err = RunBatch(context.Background(), sim.Params{Cols: 1, Rows: 1, Robots: 1, Request: sim.Duration(1)}, BatchOptions{Runs: 0})
	assert.True(t, errors.Is(err, sim.ErrInvalidConfiguration))
}

func TestRunBatchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s, err := RunBatch(ctx, sim.Params{Cols: 3, Rows: 3, Robots: 1, Request: sim.Duration(10)}, BatchOptions{Runs: 3, Workers: 1})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, s.Completed)
}

func TestStat(t *testing.T) {
	assert.Equal(t, Stat{}, stat(nil))
	assert.Equal(t, Stat{Min: 1, Max: 5, Mean: 3}, stat([]float64{3, 5, 1}))
}

func TestSummarizeCountsInterruptedAsFailed(t *testing.T) {
	s := summarize(3, []RunResult{
		{Index: 0, Report: sim.Report{Ticks: 2, Cleaned: 1, Total: 4}},
		{Index: 1, Report: sim.Report{Ticks: 9, Interrupted: true}},
		{Index: 2, Error: errors.New("render")},
	})
	assert.Equal(t, 1, s.Completed)
	assert.Equal(t, 2, s.Failed)
	assert.Equal(t, 25.0, s.Coverage.Mean)
}
