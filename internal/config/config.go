package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete Maestro configuration
type Config struct {
	Output  OutputConfig  `mapstructure:"output"`
	Play    PlayConfig    `mapstructure:"play"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// OutputConfig controls how status lines are rendered
type OutputConfig struct {
	// Colors controls ANSI color output (default: "auto")
	// Options: "auto" (color when stdout is a terminal), "always", "never"
	Colors string `mapstructure:"colors"`
	// Width is the maximum width of a status line in columns
	// (default: 0, meaning detect from the terminal)
	Width int `mapstructure:"width"`
	// TickIntervalMs is how often running task rows refresh their elapsed
	// time, in milliseconds (default: 1000, 0 disables the refresh)
	TickIntervalMs int `mapstructure:"tick_interval_ms"`
}

// PlayConfig controls play execution
type PlayConfig struct {
	// Concurrency limits how many tasks run at once (default: 0 = unlimited)
	Concurrency int `mapstructure:"concurrency"`
}

// LoggingConfig controls debug logging behavior
type LoggingConfig struct {
	// Enabled controls whether debug logging is enabled (default: false)
	Enabled bool `mapstructure:"enabled"`
	// Level is the log level: "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level"`
	// File is the log file path (default: "maestro.log").
	// Relative paths are resolved against the working directory.
	// Supports ~ for home directory expansion.
	File string `mapstructure:"file"`
	// MaxSizeMB is the maximum log file size in megabytes before rotation (default: 10)
	MaxSizeMB int `mapstructure:"max_size_mb"`
	// MaxBackups is the number of backup log files to keep (default: 3)
	MaxBackups int `mapstructure:"max_backups"`
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Output: OutputConfig{
			Colors:         "auto",
			Width:          0, // Detect from the terminal
			TickIntervalMs: 1000,
		},
		Play: PlayConfig{
			Concurrency: 0, // No limit by default
		},
		Logging: LoggingConfig{
			Enabled:    false,
			Level:      "info",
			File:       "maestro.log",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// TickInterval returns the elapsed-time refresh interval as a time.Duration
func (o *OutputConfig) TickInterval() time.Duration {
	return time.Duration(o.TickIntervalMs) * time.Millisecond
}

// ColorsEnabled reports whether ANSI colors should be used given the
// configured mode and whether stdout is a terminal. Unknown modes fall
// back to "auto" behavior.
func (o *OutputConfig) ColorsEnabled(isTerminal bool) bool {
	switch o.Colors {
	case "always":
		return true
	case "never":
		return false
	default:
		return isTerminal
	}
}

// ResolveFile returns the resolved log file path.
// If File starts with ~, it expands to the user's home directory.
// If File is a relative path, it's resolved relative to baseDir.
// An empty File resolves to the empty string.
func (l *LoggingConfig) ResolveFile(baseDir string) string {
	if l.File == "" {
		return ""
	}

	path := l.File

	// Expand ~ to home directory
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home
		}
	}

	// If relative path, resolve relative to baseDir
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}

	return path
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	// Output defaults
	viper.SetDefault("output.colors", defaults.Output.Colors)
	viper.SetDefault("output.width", defaults.Output.Width)
	viper.SetDefault("output.tick_interval_ms", defaults.Output.TickIntervalMs)

	// Play defaults
	viper.SetDefault("play.concurrency", defaults.Play.Concurrency)

	// Logging defaults
	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.file", defaults.Logging.File)
	viper.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
	viper.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Validate the configuration
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration (convenience function)
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		// Fall back to defaults if unmarshaling fails
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "maestro")
	}
	// Fall back to ~/.config/maestro
	home, err := os.UserHomeDir()
	if err != nil {
		return ".maestro"
	}
	return filepath.Join(home, ".config", "maestro")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// ValidColorModes returns the list of valid output.colors values
func ValidColorModes() []string {
	return []string{"auto", "always", "never"}
}

// IsValidColorMode checks if the given color mode is valid
func IsValidColorMode(mode string) bool {
	for _, valid := range ValidColorModes() {
		if mode == valid {
			return true
		}
	}
	return false
}
