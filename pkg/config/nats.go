package config

import (
	"fmt"
	"strings"
	"time"
)

const (
	defaultNATSStream  = "PRODUCTS"
	defaultNATSTimeout = 5 * time.Second
	defaultNATSDedup   = 2 * time.Minute
)

// NATSConfig enables publishing product change events to a JetStream stream.
type NATSConfig struct {
	Enabled bool          `koanf:"enabled"`
	Url     string        `koanf:"url"`
	Stream  string        `koanf:"stream"`
	Timeout time.Duration `koanf:"timeout"`
	// DuplicateWindow is how long the stream remembers event ids for deduplication.
	DuplicateWindow time.Duration `koanf:"duplicatewindow"`
	// MaxAge drops events older than this; zero keeps them.
	MaxAge time.Duration `koanf:"maxage"`
}

func (c *NATSConfig) String() string {
	if !c.Enabled {
		return "\n--- NATS ---\n  enabled: false\n"
	}
	return fmt.Sprintf("\n--- NATS ---\n  enabled: true\n  url: %s\n  stream: %s (dedup %s, maxage %s)\n  timeout: %s\n",
		MaskURL(c.Url), c.Stream, c.DuplicateWindow, c.MaxAge, c.Timeout)
}

func (c *NATSConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if !strings.HasPrefix(c.Url, "nats://") && !strings.HasPrefix(c.Url, "tls://") {
		return fmt.Errorf("NATS URL must start with 'nats://' or 'tls://': %s", MaskURL(c.Url))
	}
	if c.Stream == "" {
		c.Stream = defaultNATSStream
	}
	if c.Timeout < 0 {
		return fmt.Errorf("invalid NATS timeout: %s", c.Timeout)
	}
	if c.Timeout == 0 {
		c.Timeout = defaultNATSTimeout
	}
	if c.DuplicateWindow < 0 || c.MaxAge < 0 {
		return fmt.Errorf("NATS stream windows must not be negative")
	}
	if c.DuplicateWindow == 0 {
		c.DuplicateWindow = defaultNATSDedup
	}
	if c.MaxAge > 0 && c.DuplicateWindow > c.MaxAge {
		c.DuplicateWindow = c.MaxAge
	}
	return nil
}
