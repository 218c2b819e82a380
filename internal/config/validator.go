package config

import (
	"fmt"
	"slices"
	"strings"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "output.width")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// IsValidLogLevel checks if the given level is valid
func IsValidLogLevel(level string) bool {
	return slices.Contains(ValidLogLevels(), level)
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	// Validate Output config
	errors = append(errors, c.validateOutput()...)

	// Validate Play config
	errors = append(errors, c.validatePlay()...)

	// Validate Logging config
	errors = append(errors, c.validateLogging()...)

	return errors
}

// validateOutput validates the OutputConfig
func (c *Config) validateOutput() []ValidationError {
	var errors []ValidationError

	if c.Output.Colors != "" && !IsValidColorMode(c.Output.Colors) {
		errors = append(errors, ValidationError{
			Field:   "output.colors",
			Value:   c.Output.Colors,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidColorModes(), ", ")),
		})
	}

	// Width validation (0 means detect from the terminal, which is valid).
	// A non-zero width must leave room for a task prefix plus status text.
	const minWidth = 20
	const maxWidth = 1000
	if c.Output.Width != 0 {
		if c.Output.Width < minWidth {
			errors = append(errors, ValidationError{
				Field:   "output.width",
				Value:   c.Output.Width,
				Message: fmt.Sprintf("must be at least %d columns (0 detects the terminal width)", minWidth),
			})
		}
		if c.Output.Width > maxWidth {
			errors = append(errors, ValidationError{
				Field:   "output.width",
				Value:   c.Output.Width,
				Message: fmt.Sprintf("exceeds maximum of %d columns", maxWidth),
			})
		}
	}

	// Tick interval validation (0 disables the elapsed-time refresh)
	const maxTickIntervalMs = 60000 // 1 minute
	if c.Output.TickIntervalMs < 0 {
		errors = append(errors, ValidationError{
			Field:   "output.tick_interval_ms",
			Value:   c.Output.TickIntervalMs,
			Message: "must be non-negative (0 disables the refresh)",
		})
	}
	if c.Output.TickIntervalMs > maxTickIntervalMs {
		errors = append(errors, ValidationError{
			Field:   "output.tick_interval_ms",
			Value:   c.Output.TickIntervalMs,
			Message: fmt.Sprintf("exceeds maximum of %dms", maxTickIntervalMs),
		})
	}

	return errors
}

// validatePlay validates the PlayConfig
func (c *Config) validatePlay() []ValidationError {
	var errors []ValidationError

	const maxConcurrency = 256
	if c.Play.Concurrency < 0 {
		errors = append(errors, ValidationError{
			Field:   "play.concurrency",
			Value:   c.Play.Concurrency,
			Message: "must be non-negative (0 = unlimited)",
		})
	}
	if c.Play.Concurrency > maxConcurrency {
		errors = append(errors, ValidationError{
			Field:   "play.concurrency",
			Value:   c.Play.Concurrency,
			Message: fmt.Sprintf("exceeds maximum of %d", maxConcurrency),
		})
	}

	return errors
}

// validateLogging validates the LoggingConfig
func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	// Validate log level
	if c.Logging.Level != "" && !IsValidLogLevel(c.Logging.Level) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	// Max size must be positive
	if c.Logging.MaxSizeMB <= 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: "must be positive",
		})
	}

	// Reasonable upper bound for log file size
	const maxLogSizeMB = 1000 // 1GB
	if c.Logging.MaxSizeMB > maxLogSizeMB {
		errors = append(errors, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: fmt.Sprintf("exceeds maximum of %dMB", maxLogSizeMB),
		})
	}

	// Max backups must be non-negative
	if c.Logging.MaxBackups < 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_backups",
			Value:   c.Logging.MaxBackups,
			Message: "must be non-negative",
		})
	}

	// File path validation - if set, check for invalid characters
	if c.Logging.File != "" {
		path := c.Logging.File

		// Check for null bytes which are invalid in paths
		if strings.ContainsRune(path, '\x00') {
			errors = append(errors, ValidationError{
				Field:   "logging.file",
				Value:   path,
				Message: "path contains invalid null character",
			})
		}

		// Reasonable path length limit (most filesystems have limits around 4096)
		const maxPathLength = 4096
		if len(path) > maxPathLength {
			errors = append(errors, ValidationError{
				Field:   "logging.file",
				Value:   path,
				Message: fmt.Sprintf("path exceeds maximum length of %d characters", maxPathLength),
			})
		}
	}

	return errors
}
