package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// HTTPConfig configures the storefront HTTP listener.
type HTTPConfig struct {
	// Host is the interface to bind; empty listens on all of them.
	Host           string       `koanf:"host"`
	Port           int          `koanf:"port"`
	MaxHeaderBytes int          `koanf:"maxHeaderBytes"`
	MaxBodyBytes   int64        `koanf:"maxBodyBytes"`
	Timeout        HTTPTimeouts `koanf:"timeout"`
}

type HTTPTimeouts struct {
	Read       time.Duration `koanf:"read"`
	Write      time.Duration `koanf:"write"`
	Idle       time.Duration `koanf:"idle"`
	ReadHeader time.Duration `koanf:"readHeader"`
}

// Addr is the listen address in host:port form.
func (c *HTTPConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func (c *HTTPConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Server ---\n")
	fmt.Fprintf(&b, "  addr: %s\n", c.Addr())
	fmt.Fprintf(&b, "  limits: header=%dB body=%dB\n", c.MaxHeaderBytes, c.MaxBodyBytes)
	t := c.Timeout
	fmt.Fprintf(&b, "  timeouts: read=%s write=%s idle=%s readHeader=%s\n", t.Read, t.Write, t.Idle, t.ReadHeader)
	return b.String()
}

func (c *HTTPConfig) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid HTTP server port: %d", c.Port)
	}
	if c.MaxBodyBytes < 0 {
		return fmt.Errorf("invalid HTTP server max body bytes: %d", c.MaxBodyBytes)
	}
	timeouts := map[string]time.Duration{
		"read":       c.Timeout.Read,
		"write":      c.Timeout.Write,
		"idle":       c.Timeout.Idle,
		"readHeader": c.Timeout.ReadHeader,
	}
	for name, d := range timeouts {
		if d <= 0 {
			return fmt.Errorf("invalid HTTP server %s timeout: %v", name, d)
		}
	}
	return nil
}
