package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/nibzard/cleansim/internal/sim"
)

// TextRenderer writes every snapshot to w. On a terminal each frame
// replaces the previous one in place.
type TextRenderer struct {
	mu      sync.Mutex
	w       io.Writer
	title   string
	palette Palette
	inPlace bool
	lines   int
}

// NewTextRenderer returns a renderer for w. Colour and in-place redraw are
// enabled only when w is a terminal.
func NewTextRenderer(w io.Writer, title string) *TextRenderer {
	tty := IsTTY(w)
	p := PlainPalette()
	if tty {
		p = DefaultPalette()
	}
	return &TextRenderer{w: w, title: title, palette: p, inPlace: tty}
}

// Render implements sim.Renderer.
func (r *TextRenderer) Render(s sim.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	frame := Frame(r.title, s, r.palette)
	var b strings.Builder
	if r.inPlace && r.lines > 0 {
		// Move the cursor to the start of the previous frame and clear it.
		fmt.Fprintf(&b, "\x1b[%dA\x1b[J", r.lines)
	}
	b.WriteString(frame)
	if !r.inPlace {
		b.WriteByte('\n')
	}
	if _, err := io.WriteString(r.w, b.String()); err != nil {
		return err
	}
	r.lines = strings.Count(frame, "\n")
	return nil
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
