package config

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/kilianp07/homeload/infra/logger"
)

// LoggingConfig defines the level and output format of the process logs.
type LoggingConfig struct {
	// Level is one of debug, info, warn or error.
	Level string `json:"level"`
	// Format is "json" or "console". Empty defers to APP_ENV.
	Format string `json:"format"`
}

// SetDefaults applies sane defaults.
func (c *LoggingConfig) SetDefaults() {
	if c.Level == "" {
		c.Level = zerolog.InfoLevel.String()
	}
}

// Validate checks the level and format names.
func (c LoggingConfig) Validate() error {
	switch c.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %s", c.Level)
	}
	switch c.Format {
	case "", logger.FormatJSON, logger.FormatConsole:
	default:
		return fmt.Errorf("unknown log format %s", c.Format)
	}
	return nil
}

// Apply configures the process loggers to write to w.
func (c LoggingConfig) Apply(w io.Writer) error {
	return logger.Configure(c.Level, c.Format, w)
}
