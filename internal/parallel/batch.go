package parallel

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/charmbracelet/log"

	"github.com/nibzard/cleansim/internal/logging"
	"github.com/nibzard/cleansim/internal/sim"
)

// BatchOptions configures RunBatch.
type BatchOptions struct {
	// Runs is the number of simulations.
	Runs int
	// Workers bounds concurrency; 0 runs everything at once.
	Workers int
	// Seed of the first run. Run i uses Seed+i so batches are reproducible.
	Seed uint64
	// FailFast stops the batch at the first failed run.
	FailFast bool
	// Logger receives one line per finished run.
	Logger *log.Logger
}

// Stat summarises one measure over the completed runs.
type Stat struct {
	Min  float64 `json:"min" yaml:"min"`
	Max  float64 `json:"max" yaml:"max"`
	Mean float64 `json:"mean" yaml:"mean"`
}

// Summary aggregates the reports of a batch.
type Summary struct {
	Runs      int          `json:"runs" yaml:"runs"`
	Completed int          `json:"completed" yaml:"completed"`
	Failed    int          `json:"failed" yaml:"failed"`
	Ticks     Stat         `json:"ticks" yaml:"ticks"`
	Elapsed   Stat         `json:"elapsed_seconds" yaml:"elapsed_seconds"`
	Coverage  Stat         `json:"coverage_percent" yaml:"coverage_percent"`
	Reports   []sim.Report `json:"reports" yaml:"reports"`
}

func (s Summary) String() string {
	return fmt.Sprintf("%d/%d runs completed: ticks %.0f..%.0f (mean %.1f), elapsed mean %.3f seconds, coverage mean %.2f %%",
		s.Completed, s.Runs, s.Ticks.Min, s.Ticks.Max, s.Ticks.Mean, s.Elapsed.Mean, s.Coverage.Mean)
}

// RunBatch runs params opts.Runs times without rendering or pacing and
// summarises the finished runs. Interrupted runs count as failed. The
// returned error joins every run failure.
func RunBatch(ctx context.Context, params sim.Params, opts BatchOptions) (Summary, error) {
	if err := params.Validate(); err != nil {
		return Summary{}, err
	}
	if opts.Runs <= 0 {
		return Summary{}, fmt.Errorf("%w: runs must be greater than 0, got %d", sim.ErrInvalidConfiguration, opts.Runs)
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	pool := NewWorkerPool(ctx, opts.Workers, opts.FailFast)
	for i := 0; i < opts.Runs; i++ {
		seed := opts.Seed + uint64(i)
		engine, err := sim.New(params, sim.WithSeed(seed))
		if err != nil {
			pool.Cancel()
			pool.Wait()
			return Summary{}, err
		}
		index := i
		pool.Submit(index, func(ctx context.Context) (sim.Report, error) {
			report, err := engine.Run(ctx)
			logger.Debug("Batch run finished", "run", index, "seed", seed, "ticks", report.Ticks, "err", err)
			return report, err
		})
	}
	results, errs := pool.Wait()

	s := summarize(opts.Runs, results)
	if len(errs) == 0 && s.Completed < opts.Runs {
		// Runs that never started because the batch was cancelled.
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
		}
	}
	logger.Info("Batch finished", "runs", s.Runs, "completed", s.Completed, "failed", s.Failed)
	return s, errors.Join(errs...)
}

func summarize(runs int, results []RunResult) Summary {
	s := Summary{Runs: runs}
	var ticks, elapsed, coverage []float64
	for _, r := range results {
		if r.Error != nil || r.Report.Interrupted {
			s.Failed++
			continue
		}
		s.Completed++
		s.Reports = append(s.Reports, r.Report)
		ticks = append(ticks, float64(r.Report.Ticks))
		elapsed = append(elapsed, r.Report.ElapsedSeconds)
		// Achieved coverage, not the requested target.
		coverage = append(coverage, achieved(r.Report))
	}
	s.Ticks = stat(ticks)
	s.Elapsed = stat(elapsed)
	s.Coverage = stat(coverage)
	return s
}

func achieved(r sim.Report) float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Cleaned) / float64(r.Total) * 100
}

func stat(values []float64) Stat {
	if len(values) == 0 {
		return Stat{}
	}
	st := Stat{Min: math.Inf(1), Max: math.Inf(-1)}
	var sum float64
	for _, v := range values {
		st.Min = math.Min(st.Min, v)
		st.Max = math.Max(st.Max, v)
		sum += v
	}
	st.Mean = sum / float64(len(values))
	return st
}
