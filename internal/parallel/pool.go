package parallel

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/nibzard/cleansim/internal/sim"
)

// RunResult is the outcome of one simulation run.
type RunResult struct {
	Index    int
	Report   sim.Report
	Error    error
	Duration time.Duration
}

// RunFunc executes one simulation. It must stop when ctx is cancelled.
type RunFunc func(ctx context.Context) (sim.Report, error)

// WorkerPool manages concurrent runs with bounded concurrency.
type WorkerPool struct {
	maxWorkers int
	semaphore  chan struct{}
	wg         sync.WaitGroup
	mu         sync.Mutex
	results    []RunResult
	errors     []error
	failFast   bool
	ctx        context.Context
	cancel     context.CancelFunc
}

// NewWorkerPool creates a new worker pool with bounded concurrency.
// If maxWorkers is 0, every submitted run starts immediately.
// If failFast is true, the pool context is cancelled on the first error.
func NewWorkerPool(ctx context.Context, maxWorkers int, failFast bool) *WorkerPool {
	ctx, cancel := context.WithCancel(ctx)
	return &WorkerPool{
		maxWorkers: maxWorkers,
		semaphore:  make(chan struct{}, maxWorkers),
		failFast:   failFast,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Submit schedules run number index. Runs waiting for a slot are dropped
// once the pool is cancelled.
func (p *WorkerPool) Submit(index int, fn RunFunc) {
	select {
	case <-p.ctx.Done():
		return
	default:
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		if p.maxWorkers > 0 {
			select {
			case p.semaphore <- struct{}{}:
				defer func() { <-p.semaphore }()
			case <-p.ctx.Done():
				return
			}
		}

		select {
		case <-p.ctx.Done():
			return
		default:
		}

		start := time.Now()
		report, err := fn(p.ctx)
		result := RunResult{
			Index:    index,
			Report:   report,
			Error:    err,
			Duration: time.Since(start),
		}

		p.mu.Lock()
		defer p.mu.Unlock()

		p.results = append(p.results, result)
		if err != nil {
			p.errors = append(p.errors, fmt.Errorf("run %d: %w", index, err))
			if p.failFast {
				p.cancel()
			}
		}
	}()
}

// Wait blocks until every started run has returned and gives back the
// results ordered by index.
func (p *WorkerPool) Wait() ([]RunResult, []error) {
	p.wg.Wait()
	p.mu.Lock()
	defer p.mu.Unlock()

	p.cancel()

	results := make([]RunResult, len(p.results))
	copy(results, p.results)
	sort.Slice(results, func(i, j int) bool { return results[i].Index < results[j].Index })

	errs := make([]error, len(p.errors))
	copy(errs, p.errors)
	return results, errs
}

// Cancel stops pending runs and cancels the context of running ones.
func (p *WorkerPool) Cancel() {
	p.cancel()
}
