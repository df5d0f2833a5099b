package config

import (
	"fmt"
	"strings"
	"time"
)

// TelemetryConfig configures trace export. Only OTLP over HTTP is supported.
type TelemetryConfig struct {
	Enabled bool         `koanf:"enabled"`
	Traces  TracesConfig `koanf:"traces"`
}

type TracesConfig struct {
	// SampleRatio is the share of root traces recorded, 0..1. Children follow their parent.
	SampleRatio float64        `koanf:"sampleratio"`
	OtlpHttp    OtlpHttpConfig `koanf:"otlphttp"`
}

type OtlpHttpConfig struct {
	Endpoint string        `koanf:"endpoint"`
	Insecure bool          `koanf:"insecure"`
	Timeout  time.Duration `koanf:"timeout"`
}

const defaultTelemetryTimeout = 5 * time.Second

func (c *TelemetryConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Telemetry ---\n")
	fmt.Fprintf(&b, "  enabled: %t\n", c.Enabled)
	if c.Enabled {
		fmt.Fprintf(&b, "  traces: %s insecure=%t timeout=%s sample=%.2f\n",
			c.Traces.OtlpHttp.Endpoint, c.Traces.OtlpHttp.Insecure, c.Traces.OtlpHttp.Timeout, c.Traces.SampleRatio)
	}
	return b.String()
}

// Validate fills the export timeout and samples everything unless told otherwise.
func (c *TelemetryConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Traces.OtlpHttp.Endpoint == "" {
		return fmt.Errorf("telemetry is enabled but traces.otlphttp.endpoint is empty")
	}
	if c.Traces.OtlpHttp.Timeout < 0 {
		return fmt.Errorf("invalid telemetry export timeout: %s", c.Traces.OtlpHttp.Timeout)
	}
	if c.Traces.OtlpHttp.Timeout == 0 {
		c.Traces.OtlpHttp.Timeout = defaultTelemetryTimeout
	}
	if c.Traces.SampleRatio < 0 || c.Traces.SampleRatio > 1 {
		return fmt.Errorf("trace sample ratio must be within [0, 1]: %v", c.Traces.SampleRatio)
	}
	if c.Traces.SampleRatio == 0 {
		c.Traces.SampleRatio = 1
	}
	return nil
}
