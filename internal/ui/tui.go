// Package ui draws a running simulation: a live bubbletea view, or plain
// text frames for pipes and logs.
package ui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/cleansim/internal/sim"
)

// RunFunc runs a simulation until it finishes or ctx is cancelled.
type RunFunc func(ctx context.Context) (sim.Report, error)

// TUIOption configures the TUI behavior.
type TUIOption func(*TUI)

// WithAutoQuit closes the view as soon as the run finishes instead of
// waiting for a key press.
func WithAutoQuit(enabled bool) TUIOption {
	return func(t *TUI) {
		t.autoQuit = enabled
	}
}

// WithPalette overrides the colours used for the grid.
func WithPalette(p Palette) TUIOption {
	return func(t *TUI) {
		t.palette = p
	}
}

// withProgramOptions is used by tests to run without a terminal.
func withProgramOptions(opts ...tea.ProgramOption) TUIOption {
	return func(t *TUI) {
		t.programOpts = opts
	}
}

// TUI is a live terminal view of a run. Its Renderer must be installed on
// the engine that the RunFunc passed to Run drives.
type TUI struct {
	title       string
	palette     Palette
	autoQuit    bool
	programOpts []tea.ProgramOption

	snapshots chan sim.Snapshot
	stop      chan struct{}
	stopOnce  sync.Once
}

// NewTUI returns a TUI titled title.
func NewTUI(title string, opts ...TUIOption) *TUI {
	t := &TUI{
		title:     title,
		palette:   DefaultPalette(),
		snapshots: make(chan sim.Snapshot, 16),
		stop:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Renderer returns the sim.Renderer feeding this view. Render blocks while
// the view is behind. Once the view has closed, snapshots are dropped.
func (t *TUI) Renderer() sim.Renderer {
	return sim.RendererFunc(func(s sim.Snapshot) error {
		select {
		case t.snapshots <- s:
		case <-t.stop:
		}
		return nil
	})
}

func (t *TUI) close() {
	t.stopOnce.Do(func() { close(t.stop) })
}

type runResult struct {
	report sim.Report
	err    error
}

// Run starts run in the background and shows its snapshots until the user
// quits. Quitting before the run finishes cancels it; the interrupted
// report is returned with the run's error.
func (t *TUI) Run(ctx context.Context, run RunFunc) (sim.Report, error) {
	if len(t.programOpts) == 0 && !IsTTY(os.Stdout) {
		return sim.Report{}, fmt.Errorf("tui requires a TTY")
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	resultCh := make(chan runResult, 1)
	finished := make(chan struct{})
	go func() {
		report, err := run(runCtx)
		resultCh <- runResult{report: report, err: err}
		close(finished)
	}()

	model := newTUIModel(t.title, t.palette, t.snapshots, finished, t.autoQuit)
	opts := append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, t.programOpts...)
	program := tea.NewProgram(model, opts...)
	_, progErr := program.Run()

	// Stop the engine, then unblock it if it is waiting on the view.
	cancel()
	t.close()
	res := <-resultCh

	if res.err != nil {
		return res.report, res.err
	}
	if progErr != nil {
		return res.report, progErr
	}
	return res.report, nil
}

type tuiModel struct {
	title     string
	palette   Palette
	snapshots <-chan sim.Snapshot
	finished  <-chan struct{}
	autoQuit  bool

	last     *sim.Snapshot
	frames   int
	runDone  bool
	quitting bool
	showHelp bool
}

type snapshotMsg struct {
	snapshot sim.Snapshot
}

type runDoneMsg struct{}

func newTUIModel(title string, p Palette, snapshots <-chan sim.Snapshot, finished <-chan struct{}, autoQuit bool) *tuiModel {
	return &tuiModel{
		title:     title,
		palette:   p,
		snapshots: snapshots,
		finished:  finished,
		autoQuit:  autoQuit,
	}
}

func (m *tuiModel) Init() tea.Cmd {
	return waitForSnapshot(m.snapshots, m.finished)
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.quitting = true
			return m, tea.Quit
		case "h", "?":
			m.showHelp = !m.showHelp
			return m, nil
		}
	case snapshotMsg:
		s := msg.snapshot
		m.last = &s
		m.frames++
		return m, waitForSnapshot(m.snapshots, m.finished)
	case runDoneMsg:
		m.runDone = true
		if m.autoQuit {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *tuiModel) View() string {
	var b strings.Builder
	writeTitle(&b, m.title)

	if m.showHelp {
		writeHelp(&b)
		writeFooter(&b, m.runDone)
		return b.String()
	}

	if m.last == nil {
		b.WriteString("Waiting for the first tick...\n\n")
		writeFooter(&b, m.runDone)
		return b.String()
	}

	b.WriteString(Grid(*m.last, m.palette))
	b.WriteByte('\n')
	b.WriteString(Status(*m.last))
	b.WriteString("\n\n")
	writeFooter(&b, m.runDone)
	return b.String()
}

// waitForSnapshot delivers the next snapshot, or runDoneMsg once the run
// has returned and every queued snapshot has been shown.
func waitForSnapshot(ch <-chan sim.Snapshot, finished <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		select {
		case s := <-ch:
			return snapshotMsg{snapshot: s}
		case <-finished:
		}
		select {
		case s := <-ch:
			return snapshotMsg{snapshot: s}
		default:
			return runDoneMsg{}
		}
	}
}

func writeTitle(b *strings.Builder, title string) {
	if title == "" {
		title = "cleansim"
	}
	b.WriteString(titleStyle.Render(title) + "\n")
	b.WriteString(strings.Repeat("=", len(title)) + "\n\n")
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keyboard Shortcuts\n\n")
	b.WriteString("  q, esc, ctrl+c    Quit (stops a running simulation)\n")
	b.WriteString("  h, ?              Toggle this help screen\n\n")
}

func writeFooter(b *strings.Builder, done bool) {
	if done {
		b.WriteString("Finished. Press q to exit\n")
		return
	}
	b.WriteString("Press h for help | q to stop\n")
}
