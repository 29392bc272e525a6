package ui

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/cleansim/internal/robot"
	"github.com/nibzard/cleansim/internal/room"
	"github.com/nibzard/cleansim/internal/sim"
)

func testSnapshot() sim.Snapshot {
	return sim.Snapshot{
		Tick: 3,
		Grid: [][]uint8{
			{room.Dirty, room.Clean, room.Dirty},
			{room.Clean, room.Clean, room.Dirty},
		},
		Positions: []robot.Position{{X: 1, Y: 1}, {X: 2, Y: 0}, {X: 2, Y: 0}},
		Elapsed:   1500 * time.Millisecond,
		Coverage:  50,
		Cleaned:   3,
		Total:     6,
	}
}

func TestGridPlain(t *testing.T) {
	got := Grid(testSnapshot(), PlainPalette())
	want := "##..R2\n..R ##\n"
	if got != want {
		t.Errorf("Grid:\n%q\nwant\n%q", got, want)
	}
}

func TestGridManyRobots(t *testing.T) {
	s := sim.Snapshot{
		Grid:      [][]uint8{{room.Clean}},
		Positions: make([]robot.Position, 12),
	}
	if got := Grid(s, PlainPalette()); got != "R+\n" {
		t.Errorf("Grid = %q, want %q", got, "R+\n")
	}
}

func TestStatus(t *testing.T) {
	s := testSnapshot()
	want := "tick 3  coverage 50.00%  cleaned 3/6  elapsed 1.50s"
	if got := Status(s); got != want {
		t.Errorf("Status = %q, want %q", got, want)
	}
	s.Done = true
	if got := Status(s); !strings.HasSuffix(got, "  done") {
		t.Errorf("Status of a finished run = %q, want done suffix", got)
	}
}

func TestFrame(t *testing.T) {
	got := Frame("Room", testSnapshot(), PlainPalette())
	for _, part := range []string{"Room", "##..R2", "tick 3"} {
		if !strings.Contains(got, part) {
			t.Errorf("Frame missing %q:\n%s", part, got)
		}
	}
}

func TestTextRendererAppendsFramesWhenNotATerminal(t *testing.T) {
	var buf bytes.Buffer
	r := NewTextRenderer(&buf, "")
	if r.inPlace {
		t.Fatal("a buffer must not be treated as a terminal")
	}
	s := testSnapshot()
	if err := r.Render(s); err != nil {
		t.Fatal(err)
	}
	s.Tick = 4
	if err := r.Render(s); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	if strings.Contains(out, "\x1b[") {
		t.Errorf("unexpected escape sequences in %q", out)
	}
	if strings.Count(out, "tick ") != 2 {
		t.Errorf("expected two frames, got:\n%s", out)
	}
}

func TestTextRendererRedrawsInPlace(t *testing.T) {
	var buf bytes.Buffer
	r := &TextRenderer{w: &buf, palette: PlainPalette(), inPlace: true}
	s := testSnapshot()
	if err := r.Render(s); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "\x1b[") {
		t.Error("first frame should not move the cursor")
	}
	buf.Reset()
	if err := r.Render(s); err != nil {
		t.Fatal(err)
	}
	// Two grid rows, a blank line and the status line.
	if !strings.HasPrefix(buf.String(), "\x1b[4A\x1b[J") {
		t.Errorf("second frame should redraw over the first, got %q", buf.String())
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestTextRendererReportsWriteErrors(t *testing.T) {
	r := NewTextRenderer(failingWriter{}, "")
	if err := r.Render(testSnapshot()); err == nil {
		t.Error("expected write error")
	}
}

func TestTextRendererDrivesEngine(t *testing.T) {
	var buf bytes.Buffer
	e, err := sim.New(sim.Params{Cols: 2, Rows: 2, Robots: 2, Request: sim.TargetCoverage(25)},
		sim.WithRenderer(NewTextRenderer(&buf, "cleansim")),
		sim.WithSeed(1),
	)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "done") {
		t.Errorf("last frame should be marked done:\n%s", buf.String())
	}
}

func TestIsTTY(t *testing.T) {
	if IsTTY(&bytes.Buffer{}) {
		t.Error("buffer is not a TTY")
	}
}

func TestModelUpdate(t *testing.T) {
	ch := make(chan sim.Snapshot, 1)
	finished := make(chan struct{})
	m := newTUIModel("Room", PlainPalette(), ch, finished, false)

	if !strings.Contains(m.View(), "Waiting for the first tick") {
		t.Errorf("initial view:\n%s", m.View())
	}

	_, cmd := m.Update(snapshotMsg{snapshot: testSnapshot()})
	if cmd == nil {
		t.Fatal("expected a command waiting for the next snapshot")
	}
	if m.frames != 1 || m.last == nil {
		t.Fatalf("snapshot not recorded: frames=%d", m.frames)
	}
	view := m.View()
	if !strings.Contains(view, "##..R2") || !strings.Contains(view, "q to stop") {
		t.Errorf("view after a snapshot:\n%s", view)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("h")})
	if !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Error("h should show help")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("h")})

	_, cmd = m.Update(runDoneMsg{})
	if cmd != nil {
		t.Error("view should stay open after the run without auto quit")
	}
	if !strings.Contains(m.View(), "Finished") {
		t.Errorf("view after the run:\n%s", m.View())
	}

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil || !m.quitting {
		t.Error("q should quit")
	}
}

func TestWaitForSnapshotDrainsBeforeDone(t *testing.T) {
	ch := make(chan sim.Snapshot, 2)
	finished := make(chan struct{})
	ch <- testSnapshot()
	close(finished)

	if _, ok := waitForSnapshot(ch, finished)().(snapshotMsg); !ok {
		t.Error("queued snapshot should be delivered before the done message")
	}
	if _, ok := waitForSnapshot(ch, finished)().(runDoneMsg); !ok {
		t.Error("expected runDoneMsg once the queue is empty")
	}
}

func TestTUIRunAutoQuit(t *testing.T) {
	tui := NewTUI("cleansim",
		WithAutoQuit(true),
		WithPalette(PlainPalette()),
		withProgramOptions(tea.WithInput(nil), tea.WithOutput(io.Discard)),
	)
	e, err := sim.New(sim.Params{Cols: 3, Rows: 3, Robots: 2, Request: sim.TargetCoverage(30)},
		sim.WithRenderer(tui.Renderer()),
		sim.WithSeed(5),
	)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	report, err := tui.Run(ctx, e.Run)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Interrupted || report.Coverage != 30 {
		t.Errorf("unexpected report: %+v", report)
	}
}
