package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# cleansim configuration file
# Values can be overridden by CLEANSIM_* environment variables or CLI flags

# Room size
cols = 10
rows = 10

# Number of robots (all start at cell 1,1)
robots = 3

# How the room should be cleaned:
#   "time"       - run for request seconds
#   "percentage" - run until request percent of the room is clean
mode = "percentage"
request = 50.0

# Seed for robot movement (0 picks a random seed)
seed = 0

# Delay between ticks in milliseconds (ignored when render = "none")
tick_delay_ms = 500

# Renderer: tui, text or none
render = "text"

# Final report format: text, json or yaml
report_format = "text"

# Stop the run if the renderer fails
fatal_render_errors = false

# Optional JSON scenario file; its values win over the room settings above
# scenario_file = "scenarios/corner.json"

# Logging
log_level = "info"        # debug, info, warn, error
log_format = "text"       # text, json, logfmt
log_timestamps = false
log_caller = false
# log_file = "~/.cleansim/cleansim.log"
`
}
