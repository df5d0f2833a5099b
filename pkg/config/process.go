package config

import (
	"fmt"
	"strings"
	"time"
)

const (
	defaultShutdownTimeout = 10 * time.Second
	defaultPProfAddr       = "localhost:6060"
)

// ShutdownConfig bounds how long the servers may drain in-flight requests.
type ShutdownConfig struct {
	Timeout time.Duration `koanf:"timeout"`
}

func (c *ShutdownConfig) String() string {
	return fmt.Sprintf("\n--- Shutdown ---\n  timeout: %s\n", c.Timeout)
}

func (c *ShutdownConfig) Validate() error {
	if c.Timeout < 0 {
		return fmt.Errorf("invalid shutdown timeout: %s", c.Timeout)
	}
	if c.Timeout == 0 {
		c.Timeout = defaultShutdownTimeout
	}
	return nil
}

// PProfConfig enables the net/http/pprof endpoints on a separate listener.
type PProfConfig struct {
	Enabled bool   `koanf:"enabled"`
	Addr    string `koanf:"addr"`
}

func (c *PProfConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- PProf ---\n")
	b.WriteString(fmt.Sprintf("  enabled: %t\n", c.Enabled))
	b.WriteString(fmt.Sprintf("  addr: %s\n", c.Addr))
	return b.String()
}

func (c *PProfConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Addr == "" {
		c.Addr = defaultPProfAddr
	}
	if !strings.Contains(c.Addr, ":") {
		return fmt.Errorf("pprof address must be host:port: %s", c.Addr)
	}
	return nil
}
