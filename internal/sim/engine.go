package sim

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/nibzard/cleansim/internal/robot"
	"github.com/nibzard/cleansim/internal/room"
)

// State is the engine's position in its run lifecycle.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateDone:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Option configures an Engine.
type Option func(*Engine)

// WithSampler sets the movement strategy shared by all robots.
func WithSampler(s robot.Sampler) Option {
	return func(e *Engine) {
		if s != nil {
			e.sampler = s
		}
	}
}

// WithSeed seeds the default uniform sampler.
func WithSeed(seed uint64) Option {
	return func(e *Engine) {
		e.sampler = robot.NewRandomSampler(seed)
	}
}

// WithRenderer sets the per-tick snapshot consumer.
func WithRenderer(r Renderer) Option {
	return func(e *Engine) {
		if r != nil {
			e.renderer = r
		}
	}
}

// WithClock replaces time.Now. Tests use it to control elapsed time.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithTickDelay sets the pacing interval between ticks. Zero disables
// pacing.
func WithTickDelay(d time.Duration) Option {
	return func(e *Engine) {
		e.pacer = newPacer(d)
	}
}

// WithLogger sets the logger used for run lifecycle and tick events.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithFatalRenderErrors makes a render failure stop the run.
func WithFatalRenderErrors(fatal bool) Option {
	return func(e *Engine) {
		e.fatalRender = fatal
	}
}

// WithRunID overrides the generated run identifier.
func WithRunID(id string) Option {
	return func(e *Engine) {
		if id != "" {
			e.runID = id
		}
	}
}

// Engine owns the room grid and robots and advances them tick by tick.
// It is not safe for concurrent use; a single goroutine drives it.
type Engine struct {
	params  Params
	grid    *room.Grid
	robots  []*robot.Robot
	sampler robot.Sampler

	renderer    Renderer
	fatalRender bool
	logger      *log.Logger
	now         func() time.Time
	pacer       *pacer
	runID       string

	state   State
	start   time.Time
	elapsed time.Duration
	ticks   int
	report  Report
}

// New validates params and builds an engine with an all-dirty grid and
// params.Robots robots at the shared start cell.
func New(params Params, opts ...Option) (*Engine, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	grid, err := room.New(params.Rows, params.Cols)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}

	robots := make([]*robot.Robot, params.Robots)
	for i := range robots {
		robots[i] = robot.New(params.Rows, params.Cols)
	}

	e := &Engine{
		params:   params,
		grid:     grid,
		robots:   robots,
		renderer: NopRenderer{},
		logger:   log.New(io.Discard),
		now:      time.Now,
		runID:    uuid.NewString(),
		state:    StateIdle,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.sampler == nil {
		e.sampler = robot.NewRandomSampler(uint64(time.Now().UnixNano()))
	}
	return e, nil
}

// Params returns the parameters the engine was built with.
func (e *Engine) Params() Params { return e.params }

// RunID returns the identifier stamped on the report.
func (e *Engine) RunID() string { return e.runID }

// State returns the current lifecycle state.
func (e *Engine) State() State { return e.state }

// Done reports whether the termination request has been met.
func (e *Engine) Done() bool { return e.state == StateDone }

// Ticks returns the number of ticks processed.
func (e *Engine) Ticks() int { return e.ticks }

// Cleaned returns the number of clean tiles.
func (e *Engine) Cleaned() int { return e.grid.Cleaned() }

// Coverage returns the current clean percentage.
func (e *Engine) Coverage() float64 { return e.grid.Coverage() }

// Positions returns the current robot positions in robot order.
func (e *Engine) Positions() []robot.Position {
	out := make([]robot.Position, len(e.robots))
	for i, r := range e.robots {
		out[i] = r.Position()
	}
	return out
}

// Snapshot returns the state as of the last processed tick.
func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		Tick:      e.ticks,
		Grid:      e.grid.Matrix(),
		Positions: e.Positions(),
		Elapsed:   e.elapsed,
		Coverage:  e.grid.Coverage(),
		Cleaned:   e.grid.Cleaned(),
		Total:     e.grid.Total(),
		Done:      e.state == StateDone,
	}
}

// Report returns the final report once the engine is done, or a report of
// progress so far otherwise.
func (e *Engine) Report() Report {
	if e.state == StateDone {
		return e.report
	}
	return e.progressReport()
}

// begin records the start time and enters the running state.
func (e *Engine) begin() {
	if e.state != StateIdle {
		return
	}
	e.start = e.now()
	e.state = StateRunning
	e.pacer.prime()
	e.logger.Info("Run started",
		"run_id", e.runID,
		"robots", e.params.Robots,
		"rows", e.params.Rows,
		"cols", e.params.Cols,
		"tiles", e.params.Total(),
		"request", e.params.Request.String(),
	)
}

// Tick advances the simulation by one step. The first call starts the
// clock if Run has not. Calls after the engine is done are no-ops.
// The returned error is non-nil only for fatal render failures.
func (e *Engine) Tick() error {
	if e.state == StateDone {
		return nil
	}
	e.begin()

	for _, r := range e.robots {
		r.Step(e.sampler)
	}
	newlyCleaned := 0
	for _, r := range e.robots {
		if e.grid.Clean(r.Position()) {
			newlyCleaned++
		}
	}
	e.ticks++
	e.elapsed = e.now().Sub(e.start)
	coverage := e.grid.Coverage()

	e.logger.Debug("Tick",
		"tick", e.ticks,
		"cleaned", e.grid.Cleaned(),
		"new", newlyCleaned,
		"coverage", coverage,
		"elapsed", e.elapsed,
	)

	done := e.terminated(coverage)
	if done {
		e.finish(coverage)
	}

	if _, headless := e.renderer.(NopRenderer); headless {
		return nil
	}
	if err := e.renderer.Render(e.Snapshot()); err != nil {
		if e.fatalRender {
			return fmt.Errorf("%w: tick %d: %v", ErrRendering, e.ticks, err)
		}
		e.logger.Warn("Render failed", "tick", e.ticks, "err", err)
	}
	return nil
}

// terminated evaluates the request against the current tick's values.
func (e *Engine) terminated(coverage float64) bool {
	switch e.params.Request.Mode {
	case ModeTime:
		return e.elapsed.Seconds() >= e.params.Request.Value
	case ModePercentage:
		return coverage >= e.params.Request.Value
	}
	return false
}

func (e *Engine) finish(coverage float64) {
	e.state = StateDone
	r := e.progressReport()
	r.Interrupted = false
	switch e.params.Request.Mode {
	case ModeTime:
		r.TimeSeconds = e.params.Request.Value
		r.Coverage = coverage
	case ModePercentage:
		r.TimeSeconds = e.elapsed.Seconds()
		r.Coverage = e.params.Request.Value
	}
	e.report = r
}

func (e *Engine) progressReport() Report {
	return Report{
		RunID:          e.runID,
		Mode:           e.params.Request.Mode,
		TimeSeconds:    e.elapsed.Seconds(),
		Coverage:       e.grid.Coverage(),
		ElapsedSeconds: e.elapsed.Seconds(),
		Ticks:          e.ticks,
		Cleaned:        e.grid.Cleaned(),
		Total:          e.grid.Total(),
		Robots:         len(e.robots),
		Interrupted:    true,
	}
}

// Run ticks until the termination request is met and returns the final
// report. If ctx is cancelled first, Run stops between ticks and returns a
// report marked Interrupted together with ctx.Err(). A fatal render failure
// returns the report so far and an error wrapping ErrRendering.
func (e *Engine) Run(ctx context.Context) (Report, error) {
	if e.state == StateDone {
		return e.report, nil
	}
	e.begin()

	for {
		if err := ctx.Err(); err != nil {
			return e.interrupted(err)
		}
		if err := e.Tick(); err != nil {
			e.logger.Error("Run aborted", "run_id", e.runID, "tick", e.ticks, "err", err)
			if e.state == StateDone {
				return e.report, err
			}
			return e.progressReport(), err
		}
		if e.state == StateDone {
			e.logger.Info("Run finished",
				"run_id", e.runID,
				"ticks", e.ticks,
				"elapsed", e.elapsed,
				"coverage", e.grid.Coverage(),
			)
			return e.report, nil
		}
		if err := e.pacer.Wait(ctx); err != nil {
			return e.interrupted(err)
		}
	}
}

func (e *Engine) interrupted(err error) (Report, error) {
	e.logger.Warn("Run interrupted",
		"run_id", e.runID,
		"ticks", e.ticks,
		"coverage", e.grid.Coverage(),
	)
	return e.progressReport(), err
}
