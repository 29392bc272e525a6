package sim

import (
	"errors"
	"time"

	"github.com/nibzard/cleansim/internal/robot"
)

// Snapshot is the per-tick view handed to renderers. Grid and Positions are
// copies; renderers may keep or modify them freely.
type Snapshot struct {
	Tick      int
	Grid      [][]uint8
	Positions []robot.Position
	Elapsed   time.Duration
	Coverage  float64
	Cleaned   int
	Total     int
	Done      bool
}

// Renderer receives one snapshot per tick.
type Renderer interface {
	Render(Snapshot) error
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(Snapshot) error

// Render calls f(s).
func (f RendererFunc) Render(s Snapshot) error {
	return f(s)
}

// NopRenderer discards snapshots. It is used for headless runs.
type NopRenderer struct{}

// Render does nothing.
func (NopRenderer) Render(Snapshot) error { return nil }

// MultiRenderer fans a snapshot out to several renderers. Every renderer is
// called even if an earlier one fails; the failures are joined.
type MultiRenderer []Renderer

// Render calls each renderer in order.
func (m MultiRenderer) Render(s Snapshot) error {
	var errs []error
	for _, r := range m {
		if r == nil {
			continue
		}
		if err := r.Render(s); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
