package config

import (
	"os"
	"path/filepath"
	"runtime"
	"sort"
)

// findProjectConfigFile looks for a config file in the current directory.
func findProjectConfigFile() string {
	names := []string{"cleansim.toml", ".cleansim.toml"}
	for _, name := range names {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// findUserConfigFile looks for a user-level config file.
// Checks ~/.cleansim/cleansim.toml first, then falls back to OS-specific
// config directories.
func findUserConfigFile() string {
	home, err := os.UserHomeDir()
	if err == nil {
		userConfigPath := filepath.Join(home, ".cleansim", "cleansim.toml")
		if _, err := os.Stat(userConfigPath); err == nil {
			return userConfigPath
		}
	}

	if cfgDir := osUserConfigDir(); cfgDir != "" {
		userConfigPath := filepath.Join(cfgDir, "cleansim", "cleansim.toml")
		if _, err := os.Stat(userConfigPath); err == nil {
			return userConfigPath
		}
	}

	return ""
}

// osUserConfigDir returns the OS-specific user config directory.
// Returns empty string if the directory cannot be determined.
func osUserConfigDir() string {
	switch runtime.GOOS {
	case "windows":
		if appdata := os.Getenv("APPDATA"); appdata != "" {
			return appdata
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, "Library", "Application Support")
		}
	case "linux", "openbsd", "freebsd", "netbsd":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return xdg
		}
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, ".config")
		}
	}
	return ""
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	cfg.Cols = DefaultCols
	cfg.Rows = DefaultRows
	cfg.Robots = DefaultRobots
	cfg.Mode = DefaultMode
	cfg.Request = DefaultRequest
	cfg.Seed = 0
	cfg.TickDelayMS = DefaultTickDelayMS
	cfg.Render = DefaultRender
	cfg.ReportFormat = DefaultReportFormat
	cfg.FatalRenderErrors = false

	// Logging defaults
	cfg.LogLevel = "info"
	cfg.LogFormat = "text"
}

// Fields returns the tracked field names in a stable order.
func (cws *ConfigWithSources) Fields() []string {
	fields := make([]string, 0, len(cws.Sources))
	for f := range cws.Sources {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// GetConfigFile returns the active config file path (project or user).
func (cws *ConfigWithSources) GetConfigFile() string {
	if f := cws.Files[SourceProjFile]; f != "" {
		return f
	}
	return cws.Files[SourceUserFile]
}
