package sim

import (
	"fmt"
	"math"
	"strings"
)

// Mode selects how a run terminates.
type Mode string

const (
	// ModeTime runs for a fixed number of seconds.
	ModeTime Mode = "time"
	// ModePercentage runs until a target coverage is reached.
	ModePercentage Mode = "percentage"
)

// ParseMode parses a mode name. The numeric menu choices "1" and "2" are
// accepted as aliases for time and percentage.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "time", "duration", "1":
		return ModeTime, nil
	case "percentage", "percent", "coverage", "2":
		return ModePercentage, nil
	default:
		return "", fmt.Errorf("unknown mode %q (want time or percentage)", s)
	}
}

// Unit returns the unit of a request value in this mode.
func (m Mode) Unit() string {
	if m == ModeTime {
		return "seconds"
	}
	return "%"
}

// Request is the termination request for a run. It is fixed once the run
// starts.
type Request struct {
	Mode  Mode
	Value float64
}

// Duration returns a time-mode request.
func Duration(seconds float64) Request {
	return Request{Mode: ModeTime, Value: seconds}
}

// TargetCoverage returns a percentage-mode request.
func TargetCoverage(percent float64) Request {
	return Request{Mode: ModePercentage, Value: percent}
}

// Validate checks the request value against its mode.
func (r Request) Validate() error {
	switch r.Mode {
	case ModeTime:
		if !(r.Value > 0) || math.IsInf(r.Value, 0) {
			return fmt.Errorf("time request must be a positive number of seconds, got %v", r.Value)
		}
	case ModePercentage:
		if !(r.Value > 0 && r.Value <= 100) {
			return fmt.Errorf("percentage request must be in (0, 100], got %v", r.Value)
		}
	default:
		return fmt.Errorf("unknown mode %q", r.Mode)
	}
	return nil
}

func (r Request) String() string {
	if r.Mode == ModeTime {
		return fmt.Sprintf("%g seconds", r.Value)
	}
	return fmt.Sprintf("%g%% coverage", r.Value)
}

// MaxTiles bounds rows*cols. Larger rooms cannot be held in memory, and
// their tile count may not fit in an int.
const MaxTiles = 1 << 26

// Params holds the validated inputs for an Engine.
type Params struct {
	Cols    int
	Rows    int
	Robots  int
	Request Request
}

// Validate returns an error wrapping ErrInvalidConfiguration that lists
// every violated constraint.
func (p Params) Validate() error {
	var problems []string
	if p.Cols <= 0 {
		problems = append(problems, fmt.Sprintf("cols must be greater than 0, got %d", p.Cols))
	}
	if p.Rows <= 0 {
		problems = append(problems, fmt.Sprintf("rows must be greater than 0, got %d", p.Rows))
	}
	if p.Cols > 0 && p.Rows > MaxTiles/p.Cols {
		problems = append(problems, fmt.Sprintf("room of %dx%d exceeds %d tiles", p.Rows, p.Cols, MaxTiles))
	}
	if p.Robots <= 0 {
		problems = append(problems, fmt.Sprintf("robots must be greater than 0, got %d", p.Robots))
	}
	if err := p.Request.Validate(); err != nil {
		problems = append(problems, err.Error())
	}
	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfiguration, strings.Join(problems, "; "))
}

// Total returns the number of tiles in the room.
func (p Params) Total() int {
	return p.Cols * p.Rows
}
