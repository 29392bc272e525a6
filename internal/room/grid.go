// Package room holds the coverage state of the room being cleaned.
package room

import (
	"fmt"
	"math"

	"github.com/nibzard/cleansim/internal/robot"
)

// Cell values used in matrix snapshots.
const (
	Dirty uint8 = 0
	Clean uint8 = 1
)

// Grid is a rows x cols map of dirty/clean cells. A clean cell never goes
// back to dirty, and Cleaned always equals the number of clean cells.
type Grid struct {
	rows, cols int
	cells      []uint8
	cleaned    int
}

// New allocates an all-dirty grid.
func New(rows, cols int) (*Grid, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("grid dimensions must be positive, got %dx%d", rows, cols)
	}
	if rows > math.MaxInt/cols {
		return nil, fmt.Errorf("grid of %dx%d overflows the tile count", rows, cols)
	}
	return &Grid{
		rows:  rows,
		cols:  cols,
		cells: make([]uint8, rows*cols),
	}, nil
}

// Rows returns the number of rows.
func (g *Grid) Rows() int { return g.rows }

// Cols returns the number of columns.
func (g *Grid) Cols() int { return g.cols }

// Total returns rows * cols.
func (g *Grid) Total() int { return len(g.cells) }

// Cleaned returns the number of clean cells.
func (g *Grid) Cleaned() int { return g.cleaned }

// Coverage returns the clean share of the grid as a percentage.
func (g *Grid) Coverage() float64 {
	return float64(g.cleaned) / float64(len(g.cells)) * 100
}

// Contains reports whether p lies on the grid.
func (g *Grid) Contains(p robot.Position) bool {
	return p.X >= 0 && p.X < g.cols && p.Y >= 0 && p.Y < g.rows
}

// IsClean reports whether the cell at p is clean. Off-grid cells are dirty.
func (g *Grid) IsClean(p robot.Position) bool {
	if !g.Contains(p) {
		return false
	}
	return g.cells[g.index(p)] == Clean
}

// Clean marks the cell at p clean. It returns true only when the cell was
// dirty before the call; repeated visits and off-grid positions return false.
func (g *Grid) Clean(p robot.Position) bool {
	if !g.Contains(p) {
		return false
	}
	i := g.index(p)
	if g.cells[i] == Clean {
		return false
	}
	g.cells[i] = Clean
	g.cleaned++
	return true
}

// Count recounts clean cells from the cell data.
func (g *Grid) Count() int {
	n := 0
	for _, c := range g.cells {
		if c == Clean {
			n++
		}
	}
	return n
}

// Matrix returns a copy of the grid indexed [row][col].
func (g *Grid) Matrix() [][]uint8 {
	out := make([][]uint8, g.rows)
	for r := range out {
		row := make([]uint8, g.cols)
		copy(row, g.cells[r*g.cols:(r+1)*g.cols])
		out[r] = row
	}
	return out
}

func (g *Grid) index(p robot.Position) int {
	return p.Y*g.cols + p.X
}
