package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/cleansim/internal/room"
	"github.com/nibzard/cleansim/internal/sim"
)

// Palette decides how cells and robots are drawn. Every cell is two
// characters wide so the grid looks roughly square in a terminal.
type Palette struct {
	Dirty lipgloss.Style
	Clean lipgloss.Style
	Robot lipgloss.Style

	DirtyGlyph string
	CleanGlyph string
}

// DefaultPalette paints dirty tiles red and clean tiles blue.
func DefaultPalette() Palette {
	return Palette{
		Dirty:      lipgloss.NewStyle().Background(lipgloss.Color("1")),
		Clean:      lipgloss.NewStyle().Background(lipgloss.Color("4")),
		Robot:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")),
		DirtyGlyph: "  ",
		CleanGlyph: "  ",
	}
}

// PlainPalette draws without colour, for logs and non-terminal output.
func PlainPalette() Palette {
	return Palette{
		Dirty:      lipgloss.NewStyle(),
		Clean:      lipgloss.NewStyle(),
		Robot:      lipgloss.NewStyle(),
		DirtyGlyph: "##",
		CleanGlyph: "..",
	}
}

var titleStyle = lipgloss.NewStyle().Bold(true)

// Grid draws the room of s with its robots overlaid, one line per row.
// A cell holding one robot shows "R"; several robots show their count.
func Grid(s sim.Snapshot, p Palette) string {
	occupied := make(map[[2]int]int, len(s.Positions))
	for _, pos := range s.Positions {
		occupied[[2]int{pos.X, pos.Y}]++
	}

	var b strings.Builder
	for y, row := range s.Grid {
		for x, cell := range row {
			style, glyph := p.Dirty, p.DirtyGlyph
			if cell == room.Clean {
				style, glyph = p.Clean, p.CleanGlyph
			}
			if n := occupied[[2]int{x, y}]; n > 0 {
				glyph = robotGlyph(n)
				style = style.Inherit(p.Robot)
			}
			b.WriteString(style.Render(glyph))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func robotGlyph(n int) string {
	if n == 1 {
		return "R "
	}
	if n > 9 {
		return "R+"
	}
	return "R" + strconv.Itoa(n)
}

// Status summarises a snapshot on one line.
func Status(s sim.Snapshot) string {
	line := fmt.Sprintf("tick %d  coverage %.2f%%  cleaned %d/%d  elapsed %.2fs",
		s.Tick, s.Coverage, s.Cleaned, s.Total, s.Elapsed.Seconds())
	if s.Done {
		line += "  done"
	}
	return line
}

// Frame is a titled grid followed by its status line.
func Frame(title string, s sim.Snapshot, p Palette) string {
	var b strings.Builder
	if title != "" {
		b.WriteString(titleStyle.Render(title))
		b.WriteString("\n\n")
	}
	b.WriteString(Grid(s, p))
	b.WriteByte('\n')
	b.WriteString(Status(s))
	b.WriteByte('\n')
	return b.String()
}
