// Package config assembles the storefront configuration from the shared pkg/config sections.
package config

import (
	"strings"

	"github.com/abgdnv/soapshop/pkg/config"
	"github.com/abgdnv/soapshop/pkg/config/configloader"
)

var _ configloader.Validator = (*Config)(nil)

type Config struct {
	HTTPServer config.HTTPConfig       `koanf:"server"`
	Database   config.DatabaseConfig   `koanf:"database"`
	Redis      config.RedisConfig      `koanf:"redis"`
	Cart       config.SessionConfig    `koanf:"cart"`
	Admin      config.AdminConfig      `koanf:"admin"`
	Media      config.MediaConfig      `koanf:"media"`
	Carousel   config.CarouselConfig   `koanf:"carousel"`
	Log        config.LogConfig        `koanf:"log"`
	PProf      config.PProfConfig      `koanf:"pprof"`
	GRPC       config.GrpcServerConfig `koanf:"grpc"`
	Shutdown   config.ShutdownConfig   `koanf:"shutdown"`
	NATS       config.NATSConfig       `koanf:"nats"`
	Telemetry  config.TelemetryConfig  `koanf:"telemetry"`
	Resilience config.ResilienceConfig `koanf:"resilience"`
	Metrics    config.MetricsConfig    `koanf:"metrics"`
}

func (c *Config) String() string {
	var b strings.Builder
	b.WriteString(c.HTTPServer.String())
	b.WriteString(c.Database.String())
	b.WriteString(c.Redis.String())
	b.WriteString(c.Cart.String())
	b.WriteString(c.Admin.String())
	b.WriteString(c.Media.String())
	b.WriteString(c.Carousel.String())
	b.WriteString(c.GRPC.String())
	b.WriteString(c.NATS.String())
	b.WriteString(c.Resilience.String())
	b.WriteString(c.Telemetry.String())
	b.WriteString(c.Metrics.String())
	b.WriteString(c.Log.String())
	b.WriteString(c.PProf.String())
	b.WriteString(c.Shutdown.String())
	return b.String()
}

// Validate checks every section and fills in defaults.
func (c *Config) Validate() error {
	validators := []configloader.Validator{
		&c.HTTPServer,
		&c.Database,
		&c.Redis,
		&c.Cart,
		&c.Admin,
		&c.Media,
		&c.Carousel,
		&c.Log,
		&c.PProf,
		&c.GRPC,
		&c.Shutdown,
		&c.NATS,
		&c.Telemetry,
		&c.Resilience,
		&c.Metrics,
	}
	for _, v := range validators {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	return nil
}
