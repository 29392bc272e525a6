package config

import (
	"flag"
	"fmt"
)

// ParseFlags defines the config flags on fs, parses args and applies the
// flags that were set on top of cfg. Subcommands use it to accept the
// same flags after the command name.
func ParseFlags(cfg *Config, fs *flag.FlagSet, args []string) error {
	if err := parseFlags(cfg, fs, args, nil); err != nil {
		return err
	}
	return finalizeConfig(cfg)
}

// parseFlags binds flags to scratch values and copies only the flags the
// user actually set, so lower layers survive unless overridden.
// If sources is non-nil, it tracks the source of each value.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("cleansim", flag.ContinueOnError)
	}

	v := *cfg

	// Room and robots
	fs.IntVar(&v.Cols, "cols", cfg.Cols, "Number of columns (boxes in the x direction)")
	fs.IntVar(&v.Rows, "rows", cfg.Rows, "Number of rows (boxes in the y direction)")
	fs.IntVar(&v.Robots, "robots", cfg.Robots, "Number of robots")

	// Termination
	fs.StringVar(&v.Mode, "mode", cfg.Mode, "Cleaning mode (time|percentage)")
	fs.Float64Var(&v.Request, "request", cfg.Request, "Seconds to clean (time mode) or target percentage (percentage mode)")
	fs.Uint64Var(&v.Seed, "seed", cfg.Seed, "Random seed for robot movement (0 = random)")

	// Presentation
	fs.IntVar(&v.TickDelayMS, "tick-delay", cfg.TickDelayMS, "Delay between ticks in milliseconds")
	fs.StringVar(&v.Render, "render", cfg.Render, "Renderer (tui|text|none)")
	fs.StringVar(&v.ReportFormat, "report", cfg.ReportFormat, "Report format (text|json|yaml)")
	fs.BoolVar(&v.FatalRenderErrors, "fatal-render-errors", cfg.FatalRenderErrors, "Stop the run when rendering fails")
	fs.StringVar(&v.ScenarioFile, "scenario", cfg.ScenarioFile, "Path to a JSON scenario file")

	// Logging
	fs.StringVar(&v.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&v.LogFormat, "log-format", cfg.LogFormat, "Log format (text, json, logfmt)")
	fs.BoolVar(&v.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "Show timestamps in logs")
	fs.BoolVar(&v.LogCaller, "log-caller", cfg.LogCaller, "Show caller location in logs")
	fs.StringVar(&v.LogFile, "log-file", cfg.LogFile, "Write logs to this file instead of stderr")

	if err := fs.Parse(args); err != nil {
		return err
	}

	// Map flag names to source field names and apply.
	apply := map[string]func(){
		"cols":                func() { cfg.Cols = v.Cols },
		"rows":                func() { cfg.Rows = v.Rows },
		"robots":              func() { cfg.Robots = v.Robots },
		"mode":                func() { cfg.Mode = v.Mode },
		"request":             func() { cfg.Request = v.Request },
		"seed":                func() { cfg.Seed = v.Seed },
		"tick-delay":          func() { cfg.TickDelayMS = v.TickDelayMS },
		"render":              func() { cfg.Render = v.Render },
		"report":              func() { cfg.ReportFormat = v.ReportFormat },
		"fatal-render-errors": func() { cfg.FatalRenderErrors = v.FatalRenderErrors },
		"scenario":            func() { cfg.ScenarioFile = v.ScenarioFile },
		"log-level":           func() { cfg.LogLevel = v.LogLevel },
		"log-format":          func() { cfg.LogFormat = v.LogFormat },
		"log-timestamps":      func() { cfg.LogTimestamps = v.LogTimestamps },
		"log-caller":          func() { cfg.LogCaller = v.LogCaller },
		"log-file":            func() { cfg.LogFile = v.LogFile },
	}
	flagToSource := map[string]string{
		"tick-delay":          "tick_delay_ms",
		"report":              "report_format",
		"fatal-render-errors": "fatal_render_errors",
		"scenario":            "scenario_file",
		"log-level":           "log_level",
		"log-format":          "log_format",
		"log-timestamps":      "log_timestamps",
		"log-caller":          "log_caller",
		"log-file":            "log_file",
	}

	fs.Visit(func(f *flag.Flag) {
		fn, ok := apply[f.Name]
		if !ok {
			return
		}
		fn()
		if sources == nil {
			return
		}
		field := f.Name
		if mapped, ok := flagToSource[f.Name]; ok {
			field = mapped
		}
		sources[field] = SourceFlag
	})

	return nil
}

// FlagUsage describes the config flags for help output.
func FlagUsage() string {
	fs := flag.NewFlagSet("cleansim", flag.ContinueOnError)
	cfg := &Config{}
	setDefaults(cfg)
	_ = parseFlags(cfg, fs, nil, nil)

	var out string
	fs.VisitAll(func(f *flag.Flag) {
		out += fmt.Sprintf("  -%-22s %s (default %q)\n", f.Name, f.Usage, f.DefValue)
	})
	return out
}
