package config

import (
	"fmt"
	"strings"
	"time"
)

// GrpcServerConfig configures the gRPC listener serving the health service.
type GrpcServerConfig struct {
	Enabled           bool          `koanf:"enabled"`
	Port              string        `koanf:"port"`
	ReflectionEnabled bool          `koanf:"reflection"`
	HealthInterval    time.Duration `koanf:"healthinterval"`
	// MaxConnectionIdle closes client connections idle for this long. Zero keeps them open.
	MaxConnectionIdle time.Duration `koanf:"maxconnectionidle"`
}

const defaultHealthInterval = 15 * time.Second

func (c *GrpcServerConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- gRPC ---\n")
	fmt.Fprintf(&b, "  enabled: %t\n", c.Enabled)
	if c.Enabled {
		fmt.Fprintf(&b, "  port: %s reflection: %t\n", c.Port, c.ReflectionEnabled)
		fmt.Fprintf(&b, "  healthinterval: %s maxconnectionidle: %s\n", c.HealthInterval, c.MaxConnectionIdle)
	}
	return b.String()
}

func (c *GrpcServerConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Port == "" {
		return fmt.Errorf("gRPC port is not configured")
	}
	if c.MaxConnectionIdle < 0 {
		return fmt.Errorf("invalid gRPC max connection idle: %s", c.MaxConnectionIdle)
	}
	if c.HealthInterval <= 0 {
		c.HealthInterval = defaultHealthInterval
	}
	return nil
}
