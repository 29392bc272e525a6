// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. User config file (~/.cleansim/cleansim.toml or OS-specific config directory)
// 3. Project config file (cleansim.toml or .cleansim.toml in the working directory)
// 4. Environment variables (CLEANSIM_*)
// 5. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence.
//
// User-level config locations:
// - ~/.cleansim/cleansim.toml (preferred)
// - Windows: %APPDATA%\cleansim\cleansim.toml
// - macOS: ~/Library/Application Support/cleansim/cleansim.toml
// - Linux/BSD: $XDG_CONFIG_HOME/cleansim/cleansim.toml or ~/.config/cleansim/cleansim.toml
//
// Project-level config locations (overrides user config):
// - ./cleansim.toml (preferred)
// - ./.cleansim.toml
package config
