package sim

import "fmt"

// Report is the final summary of a run.
//
// TimeSeconds and Coverage follow a fixed meaning per mode. In time mode
// TimeSeconds is the requested budget and Coverage is what was achieved at
// cutoff. In percentage mode TimeSeconds is the elapsed time and Coverage is
// the requested target. Interrupted runs report the elapsed time and the
// achieved coverage.
type Report struct {
	RunID          string  `json:"run_id" yaml:"run_id"`
	Mode           Mode    `json:"mode" yaml:"mode"`
	TimeSeconds    float64 `json:"time_seconds" yaml:"time_seconds"`
	Coverage       float64 `json:"coverage_percent" yaml:"coverage_percent"`
	ElapsedSeconds float64 `json:"elapsed_seconds" yaml:"elapsed_seconds"`
	Ticks          int     `json:"ticks" yaml:"ticks"`
	Cleaned        int     `json:"cleaned_tiles" yaml:"cleaned_tiles"`
	Total          int     `json:"total_tiles" yaml:"total_tiles"`
	Robots         int     `json:"robots" yaml:"robots"`
	Interrupted    bool    `json:"interrupted,omitempty" yaml:"interrupted,omitempty"`
}

// String renders the report as a one-line sentence.
func (r Report) String() string {
	switch {
	case r.Interrupted:
		return fmt.Sprintf("Interrupted after %.2f seconds, %.2f %% was cleaned", r.TimeSeconds, r.Coverage)
	case r.Mode == ModeTime:
		return fmt.Sprintf("In the span of %g seconds, %.2f %% was cleaned", r.TimeSeconds, r.Coverage)
	default:
		return fmt.Sprintf("In the span of %.2f seconds, %g %% was cleaned", r.TimeSeconds, r.Coverage)
	}
}
