package config

import (
	"fmt"
	"strings"
)

// LoggingConfig defines the application log output.
type LoggingConfig struct {
	// Format is "json" or "console".
	Format string `json:"format"`
	// Level is a zerolog level name such as "debug" or "info".
	Level string `json:"level"`
}

// SetDefaults applies sane defaults.
func (c *LoggingConfig) SetDefaults() {
	if c.Format == "" {
		c.Format = "json"
	}
	if c.Level == "" {
		c.Level = "info"
	}
}

// Validate checks mandatory fields.
func (c LoggingConfig) Validate() error {
	switch strings.ToLower(c.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("unknown log format %s", c.Format)
	}
	switch strings.ToLower(c.Level) {
	case "trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("unknown log level %s", c.Level)
	}
	return nil
}
