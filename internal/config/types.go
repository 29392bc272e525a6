package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nibzard/cleansim/internal/logging"
	"github.com/nibzard/cleansim/internal/sim"
)

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
	Files   map[ConfigSource]string
}

// Render modes.
const (
	RenderTUI  = "tui"
	RenderText = "text"
	RenderNone = "none"
)

// Report formats.
const (
	ReportText = "text"
	ReportJSON = "json"
	ReportYAML = "yaml"
)

// Default values.
const (
	DefaultCols         = 10
	DefaultRows         = 10
	DefaultRobots       = 3
	DefaultMode         = string(sim.ModePercentage)
	DefaultRequest      = 50.0
	DefaultTickDelayMS  = 500
	DefaultRender       = RenderText
	DefaultReportFormat = ReportText
)

// Config holds the full configuration for cleansim.
type Config struct {
	// Room and robots
	Cols   int `toml:"cols"`
	Rows   int `toml:"rows"`
	Robots int `toml:"robots"`

	// Termination: mode is "time" (request in seconds) or "percentage"
	// (request in percent).
	Mode    string  `toml:"mode"`
	Request float64 `toml:"request"`

	// Seed for the movement sampler; 0 picks a time-based seed.
	Seed uint64 `toml:"seed"`

	// Presentation
	TickDelayMS       int    `toml:"tick_delay_ms"`
	Render            string `toml:"render"`
	ReportFormat      string `toml:"report_format"`
	FatalRenderErrors bool   `toml:"fatal_render_errors"`

	// Scenario file (JSON) overriding room, robots, request and movement
	ScenarioFile string `toml:"scenario_file"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`
	LogFile       string `toml:"log_file"`

	// Project root (computed)
	ProjectRoot string `toml:"-"`
}

// Params converts the config into engine parameters. Range checks are left
// to sim.Params.Validate so they are reported as ErrInvalidConfiguration.
func (c *Config) Params() (sim.Params, error) {
	mode, err := sim.ParseMode(c.Mode)
	if err != nil {
		return sim.Params{}, fmt.Errorf("%w: %v", sim.ErrInvalidConfiguration, err)
	}
	p := sim.Params{
		Cols:    c.Cols,
		Rows:    c.Rows,
		Robots:  c.Robots,
		Request: sim.Request{Mode: mode, Value: c.Request},
	}
	if err := p.Validate(); err != nil {
		return sim.Params{}, err
	}
	return p, nil
}

// Validate checks the enumerated and presentation settings.
func (c *Config) Validate() error {
	var errs []error
	if _, err := sim.ParseMode(c.Mode); err != nil {
		errs = append(errs, err)
	}
	switch c.Render {
	case RenderTUI, RenderText, RenderNone:
	default:
		errs = append(errs, fmt.Errorf("unknown render mode %q (want tui, text or none)", c.Render))
	}
	switch c.ReportFormat {
	case ReportText, ReportJSON, ReportYAML:
	default:
		errs = append(errs, fmt.Errorf("unknown report format %q (want text, json or yaml)", c.ReportFormat))
	}
	if !logging.ValidFormat(c.LogFormat) {
		errs = append(errs, fmt.Errorf("unknown log format %q (want text, json or logfmt)", c.LogFormat))
	}
	if c.TickDelayMS < 0 {
		errs = append(errs, fmt.Errorf("tick_delay_ms must not be negative, got %d", c.TickDelayMS))
	}
	return errors.Join(errs...)
}

// TickDelay returns the pacing interval. Headless runs are never paced.
func (c *Config) TickDelay() time.Duration {
	if c.Render == RenderNone {
		return 0
	}
	return time.Duration(c.TickDelayMS) * time.Millisecond
}

// Summary returns a one-line description of the configured room.
func (c *Config) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d robots, %d rows x %d cols (%d blocks)", c.Robots, c.Rows, c.Cols, c.Rows*c.Cols)
	fmt.Fprintf(&b, ", mode %s, request %g", c.Mode, c.Request)
	return b.String()
}
