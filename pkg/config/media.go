package config

import (
	"fmt"
	"strings"
)

type MediaConfig struct {
	Dir          string `koanf:"dir"`
	URLPrefix    string `koanf:"urlprefix"`
	MaxFileBytes int64  `koanf:"maxfilebytes"`
}

const (
	defaultMediaDir       = "public/soaps"
	defaultMediaURLPrefix = "/soaps"
	defaultMaxFileBytes   = 5 << 20
)

// String returns a string representation of the media configuration.
func (c *MediaConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Media ---\n")
	b.WriteString(fmt.Sprintf("  dir: %s\n", c.Dir))
	b.WriteString(fmt.Sprintf("  urlprefix: %s\n", c.URLPrefix))
	b.WriteString(fmt.Sprintf("  maxfilebytes: %d\n", c.MaxFileBytes))
	return b.String()
}

func (c *MediaConfig) Validate() error {
	if c.Dir == "" {
		c.Dir = defaultMediaDir
	}
	if c.URLPrefix == "" {
		c.URLPrefix = defaultMediaURLPrefix
	}
	if !strings.HasPrefix(c.URLPrefix, "/") {
		return fmt.Errorf("media url prefix must start with '/': %s", c.URLPrefix)
	}
	if c.MaxFileBytes < 0 {
		return fmt.Errorf("invalid media max file bytes: %d", c.MaxFileBytes)
	}
	if c.MaxFileBytes == 0 {
		c.MaxFileBytes = defaultMaxFileBytes
	}
	return nil
}
