package config

import (
	"fmt"
	"slices"
	"strings"
)

const (
	LogFormatJSON = "json"
	LogFormatText = "text"
)

var logLevels = []string{"debug", "info", "warn", "error"}

// LogConfig selects the slog level and handler. JSON is the production format,
// text is easier to read on a terminal.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

func (c *LogConfig) String() string {
	return fmt.Sprintf("\n--- Log ---\n  level: %s\n  format: %s\n", c.Level, c.Format)
}

func (c *LogConfig) Validate() error {
	c.Level = strings.ToLower(c.Level)
	if c.Level == "" {
		c.Level = "info"
	}
	if !slices.Contains(logLevels, c.Level) {
		return fmt.Errorf("unknown log level %q, expected one of %v", c.Level, logLevels)
	}
	switch c.Format {
	case "":
		c.Format = LogFormatJSON
	case LogFormatJSON, LogFormatText:
	default:
		return fmt.Errorf("unknown log format %q", c.Format)
	}
	return nil
}
