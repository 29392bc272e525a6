// Package cmd implements the CLI command structure for cleansim.
package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/nibzard/cleansim/internal/config"
	"github.com/nibzard/cleansim/internal/logging"
	"github.com/nibzard/cleansim/internal/parallel"
	"github.com/nibzard/cleansim/internal/prompt"
	"github.com/nibzard/cleansim/internal/robot"
	"github.com/nibzard/cleansim/internal/scenario"
	"github.com/nibzard/cleansim/internal/sim"
	"github.com/nibzard/cleansim/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Output streams, replaced in tests.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// asker collects answers for the prompt command.
var asker interface {
	Ask(defaults prompt.Answers) (prompt.Answers, error)
} = prompt.New()

// Run executes the cleansim CLI.
func Run(ctx context.Context, args []string) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("cleansim", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		printUsage(stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	// Global flags
	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(stdout)
		return nil
	}
	if *showVersion {
		return versionCommand()
	}

	// Determine the subcommand
	// If no args or first arg is a flag, use "run" as default
	subcommand := "run"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 {
		if !strings.HasPrefix(remainingArgs[0], "-") {
			subcommand = remainingArgs[0]
			remainingArgs = remainingArgs[1:]
		}
	}

	switch subcommand {
	case "run":
		return runCommand(ctx, cws.Config, remainingArgs)
	case "tui":
		return tuiCommand(ctx, cws.Config, remainingArgs)
	case "prompt":
		return promptCommand(ctx, cws.Config, remainingArgs)
	case "batch":
		return batchCommand(ctx, cws.Config, remainingArgs)
	case "config":
		return configCommand(cws, remainingArgs)
	case "version":
		return versionCommand()
	case "help":
		printUsage(stdout)
		return nil
	default:
		// A bare scenario file runs it.
		if fi, err := os.Stat(subcommand); err == nil && !fi.IsDir() {
			return runCommand(ctx, cws.Config, append([]string{subcommand}, remainingArgs...))
		}
		fmt.Fprintf(stderr, "Unknown command: %s\n", subcommand)
		printUsage(stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// parseCommandArgs applies the config flags given after the command name
// and takes an optional scenario path as the only positional argument.
func parseCommandArgs(name string, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("cleansim "+name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	return parseCommandFlags(fs, cfg, args)
}

// parseCommandFlags is parseCommandArgs for a flag set that already holds
// command specific flags.
func parseCommandFlags(fs *flag.FlagSet, cfg *config.Config, args []string) error {
	if err := config.ParseFlags(cfg, fs, args); err != nil {
		return err
	}
	remaining := fs.Args()
	if len(remaining) > 1 {
		return fmt.Errorf("unexpected arguments: %v", remaining[1:])
	}
	if len(remaining) == 1 {
		path := remaining[0]
		if !filepath.IsAbs(path) {
			path = filepath.Join(cfg.ProjectRoot, path)
		}
		cfg.ScenarioFile = path
	}
	return nil
}

// runCommand runs a simulation with the configured renderer.
func runCommand(ctx context.Context, cfg *config.Config, args []string) error {
	if err := parseCommandArgs("run", cfg, args); err != nil {
		return err
	}
	return simulate(ctx, cfg, nil)
}

// tuiCommand runs a simulation in the terminal UI.
func tuiCommand(ctx context.Context, cfg *config.Config, args []string) error {
	if err := parseCommandArgs("tui", cfg, args); err != nil {
		return err
	}
	cfg.Render = config.RenderTUI
	return simulate(ctx, cfg, nil)
}

// promptCommand asks for the room and request interactively, then runs.
func promptCommand(ctx context.Context, cfg *config.Config, args []string) error {
	if err := parseCommandArgs("prompt", cfg, args); err != nil {
		return err
	}
	if cfg.ScenarioFile != "" {
		return fmt.Errorf("prompt does not take a scenario file")
	}

	defaults := prompt.Answers{
		Cols:    cfg.Cols,
		Rows:    cfg.Rows,
		Robots:  cfg.Robots,
		Request: cfg.Request,
	}
	if mode, err := sim.ParseMode(cfg.Mode); err == nil {
		defaults.Mode = mode
	}
	answers, err := asker.Ask(defaults)
	if err != nil {
		if errors.Is(err, prompt.ErrAborted) {
			fmt.Fprintln(stderr, "Aborted")
			return nil
		}
		return err
	}
	params := answers.Params()
	return simulate(ctx, cfg, &params)
}

// runPlan is everything simulate needs to build an engine.
type runPlan struct {
	params  sim.Params
	sampler robot.Sampler
	seed    uint64
	title   string
}

// plan resolves the engine parameters: explicit params win over a
// scenario file, which wins over the config.
func plan(cfg *config.Config, params *sim.Params) (runPlan, error) {
	p := runPlan{seed: cfg.Seed, title: "cleansim"}
	switch {
	case params != nil:
		p.params = *params
		if err := p.params.Validate(); err != nil {
			return runPlan{}, err
		}
	case cfg.ScenarioFile != "":
		s, err := scenario.Load(cfg.ScenarioFile)
		if err != nil {
			return runPlan{}, err
		}
		p.params, err = s.Params()
		if err != nil {
			return runPlan{}, err
		}
		if s.Seed != 0 {
			p.seed = s.Seed
		}
		p.sampler = s.Sampler()
		if s.Name != "" {
			p.title = "cleansim: " + s.Name
		}
	default:
		var err error
		p.params, err = cfg.Params()
		if err != nil {
			return runPlan{}, err
		}
	}
	return p, nil
}

// simulate builds and runs an engine, then prints its report.
func simulate(ctx context.Context, cfg *config.Config, params *sim.Params) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %v", sim.ErrInvalidConfiguration, err)
	}
	p, err := plan(cfg, params)
	if err != nil {
		return err
	}

	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	logger.Info(prompt.Debrief(p.params))

	opts := []sim.Option{
		sim.WithLogger(logger),
		sim.WithTickDelay(cfg.TickDelay()),
		sim.WithFatalRenderErrors(cfg.FatalRenderErrors),
	}
	if p.seed != 0 {
		opts = append(opts, sim.WithSeed(p.seed))
	}
	if p.sampler != nil {
		opts = append(opts, sim.WithSampler(p.sampler))
	}

	var tui *ui.TUI
	switch cfg.Render {
	case config.RenderTUI:
		tui = ui.NewTUI(p.title)
		opts = append(opts, sim.WithRenderer(tui.Renderer()))
	case config.RenderText:
		opts = append(opts, sim.WithRenderer(ui.NewTextRenderer(stdout, p.title)))
	}

	engine, err := sim.New(p.params, opts...)
	if err != nil {
		return err
	}

	var report sim.Report
	if tui != nil {
		report, err = tui.Run(ctx, engine.Run)
		// Quitting the view stops the run without an outer cancellation.
		if errors.Is(err, context.Canceled) && ctx.Err() == nil {
			err = nil
		}
	} else {
		report, err = engine.Run(ctx)
	}

	// A run that never started has no report to show.
	if report.RunID == "" {
		return err
	}
	if werr := writeReport(stdout, report, cfg.ReportFormat); werr != nil && err == nil {
		err = werr
	}
	return err
}

// newLogger creates the run logger. The TUI owns the terminal, so it logs
// only to a file.
func newLogger(cfg *config.Config) (*log.Logger, func(), error) {
	var w io.Writer = stderr
	closeFn := func() {}
	switch {
	case cfg.LogFile != "":
		f, err := logging.OpenFile(cfg.LogFile)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		w = f
		closeFn = func() { _ = f.Close() }
	case cfg.Render == config.RenderTUI:
		w = io.Discard
	}
	return logging.NewFromConfig(w, cfg.LogLevel, cfg.LogFormat, cfg.LogTimestamps, cfg.LogCaller), closeFn, nil
}

// writeReport prints the report in the requested format.
func writeReport(w io.Writer, r sim.Report, format string) error {
	return writeOutput(w, r, format)
}

// writeOutput encodes v as JSON or YAML, or prints its String form.
func writeOutput(w io.Writer, v fmt.Stringer, format string) error {
	switch format {
	case config.ReportJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case config.ReportYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		_, err := fmt.Fprintln(w, v.String())
		return err
	}
}

// batchCommand runs the same room many times and prints statistics.
func batchCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("cleansim batch", flag.ContinueOnError)
	fs.SetOutput(stderr)
	runs := fs.Int("runs", 10, "Number of simulations")
	workers := fs.Int("workers", runtime.NumCPU(), "Simulations run at the same time (0 = all)")
	failFast := fs.Bool("fail-fast", false, "Stop at the first failed run")
	if err := parseCommandFlags(fs, cfg, args); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %v", sim.ErrInvalidConfiguration, err)
	}
	p, err := plan(cfg, nil)
	if err != nil {
		return err
	}

	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()
	logger.Info(prompt.Debrief(p.params), "runs", *runs)
	if p.sampler != nil {
		logger.Warn("Scripted directions are ignored in batch mode; runs move randomly", "scenario", cfg.ScenarioFile)
	}

	seed := p.seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	summary, err := parallel.RunBatch(ctx, p.params, parallel.BatchOptions{
		Runs:     *runs,
		Workers:  *workers,
		Seed:     seed,
		FailFast: *failFast,
		Logger:   logger,
	})
	if summary.Runs == 0 {
		return err
	}
	if werr := writeOutput(stdout, summary, cfg.ReportFormat); werr != nil && err == nil {
		err = werr
	}
	return err
}

// configCommand prints the effective configuration and where each value
// came from.
func configCommand(cws *config.ConfigWithSources, args []string) error {
	fs := flag.NewFlagSet("cleansim config", flag.ContinueOnError)
	fs.SetOutput(stderr)
	example := fs.Bool("example", false, "Print an example config file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(fs.Args()) > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if *example {
		fmt.Fprint(stdout, config.ExampleConfig())
		return nil
	}

	cfg := cws.Config
	values := map[string]any{
		"cols":                cfg.Cols,
		"rows":                cfg.Rows,
		"robots":              cfg.Robots,
		"mode":                cfg.Mode,
		"request":             cfg.Request,
		"seed":                cfg.Seed,
		"tick_delay_ms":       cfg.TickDelayMS,
		"render":              cfg.Render,
		"report_format":       cfg.ReportFormat,
		"fatal_render_errors": cfg.FatalRenderErrors,
		"scenario_file":       cfg.ScenarioFile,
		"log_level":           cfg.LogLevel,
		"log_format":          cfg.LogFormat,
		"log_timestamps":      cfg.LogTimestamps,
		"log_caller":          cfg.LogCaller,
		"log_file":            cfg.LogFile,
	}

	if f := cws.GetConfigFile(); f != "" {
		fmt.Fprintf(stdout, "Config file: %s\n", f)
	} else {
		fmt.Fprintln(stdout, "Config file: (none)")
	}
	fmt.Fprintf(stdout, "Room: %s\n\n", cfg.Summary())
	for _, field := range cws.Fields() {
		fmt.Fprintf(stdout, "  %-20s = %-12v (%s)\n", field, values[field], cws.Sources[field])
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stdout, "\nInvalid configuration:\n  %v\n", err)
	}
	return nil
}

// versionCommand prints version information.
func versionCommand() error {
	fmt.Fprintf(stdout, "cleansim version %s\n", Version)
	return nil
}

// printUsage prints the usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "cleansim - Simulate robots randomly cleaning a room")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  cleansim [options] [command] [options] [scenario.json]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  run [file]    Run a simulation (default command)")
	fmt.Fprintln(w, "  tui [file]    Run a simulation in the terminal UI")
	fmt.Fprintln(w, "  prompt        Ask for the room and request, then run")
	fmt.Fprintln(w, "  batch [file]  Run the room many times headless and print statistics")
	fmt.Fprintln(w, "  config        Show the effective configuration (-example for a sample file)")
	fmt.Fprintln(w, "  version       Show version information")
	fmt.Fprintln(w, "  help          Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fmt.Fprintln(w, "  -h, -help                Show help")
	fmt.Fprintln(w, "  -v, -version             Show version")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Simulation Options (before or after the command):")
	fmt.Fprint(w, config.FlagUsage())
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Batch Options (use with 'batch' command):")
	fmt.Fprintln(w, "  -runs int")
	fmt.Fprintln(w, "        Number of simulations (default 10)")
	fmt.Fprintln(w, "  -workers int")
	fmt.Fprintln(w, "        Simulations run at the same time, 0 = all (default NumCPU)")
	fmt.Fprintln(w, "  -fail-fast")
	fmt.Fprintln(w, "        Stop at the first failed run")
}
