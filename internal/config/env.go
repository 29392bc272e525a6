package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// loadFromEnv overrides config from CLEANSIM_* environment variables.
// If sources is non-nil, it tracks the source of each value. Malformed
// numeric values are reported rather than ignored.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) error {
	var errs []error
	mark := func(field string) {
		if sources != nil {
			sources[field] = SourceEnv
		}
	}
	envInt := func(name, field string, target *int) {
		v := os.Getenv(name)
		if v == "" {
			return
		}
		var i int
		if _, err := fmt.Sscanf(v, "%d", &i); err != nil {
			errs = append(errs, fmt.Errorf("%s=%q: not an integer", name, v))
			return
		}
		*target = i
		mark(field)
	}
	envString := func(name, field string, target *string) {
		if v := os.Getenv(name); v != "" {
			*target = v
			mark(field)
		}
	}
	envBool := func(name, field string, target *bool) {
		if v := os.Getenv(name); v != "" {
			*target = boolFromString(v)
			mark(field)
		}
	}

	envInt("CLEANSIM_COLS", "cols", &cfg.Cols)
	envInt("CLEANSIM_ROWS", "rows", &cfg.Rows)
	envInt("CLEANSIM_ROBOTS", "robots", &cfg.Robots)
	envString("CLEANSIM_MODE", "mode", &cfg.Mode)
	if v := os.Getenv("CLEANSIM_REQUEST"); v != "" {
		var f float64
		if _, err := fmt.Sscanf(v, "%g", &f); err != nil {
			errs = append(errs, fmt.Errorf("CLEANSIM_REQUEST=%q: not a number", v))
		} else {
			cfg.Request = f
			mark("request")
		}
	}
	if v := os.Getenv("CLEANSIM_SEED"); v != "" {
		var seed uint64
		if _, err := fmt.Sscanf(v, "%d", &seed); err != nil {
			errs = append(errs, fmt.Errorf("CLEANSIM_SEED=%q: not an unsigned integer", v))
		} else {
			cfg.Seed = seed
			mark("seed")
		}
	}
	envInt("CLEANSIM_TICK_DELAY_MS", "tick_delay_ms", &cfg.TickDelayMS)
	envString("CLEANSIM_RENDER", "render", &cfg.Render)
	envString("CLEANSIM_REPORT_FORMAT", "report_format", &cfg.ReportFormat)
	envBool("CLEANSIM_FATAL_RENDER_ERRORS", "fatal_render_errors", &cfg.FatalRenderErrors)
	envString("CLEANSIM_SCENARIO", "scenario_file", &cfg.ScenarioFile)

	// Logging configuration
	envString("CLEANSIM_LOG_LEVEL", "log_level", &cfg.LogLevel)
	envString("CLEANSIM_LOG_FORMAT", "log_format", &cfg.LogFormat)
	envBool("CLEANSIM_LOG_TIMESTAMPS", "log_timestamps", &cfg.LogTimestamps)
	envBool("CLEANSIM_LOG_CALLER", "log_caller", &cfg.LogCaller)
	envString("CLEANSIM_LOG_FILE", "log_file", &cfg.LogFile)

	return errors.Join(errs...)
}

// boolFromString parses a boolean from an environment value.
func boolFromString(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
