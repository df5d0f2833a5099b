package config

import (
	"fmt"
	"strings"
	"time"
)

type RedisConfig struct {
	Enabled      bool          `koanf:"enabled"`
	URL          string        `koanf:"url"`
	Address      string        `koanf:"address"`
	Password     string        `koanf:"password"`
	DB           int           `koanf:"db"`
	PoolSize     int           `koanf:"poolsize"`
	DialTimeout  time.Duration `koanf:"dialtimeout"`
	ReadTimeout  time.Duration `koanf:"readtimeout"`
	WriteTimeout time.Duration `koanf:"writetimeout"`
}

// String returns a string representation of the Redis configuration with secrets masked.
func (c *RedisConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Redis ---\n")
	b.WriteString(fmt.Sprintf("  enabled: %t\n", c.Enabled))
	b.WriteString(fmt.Sprintf("  url: %s\n", MaskURL(c.URL)))
	b.WriteString(fmt.Sprintf("  address: %s\n", c.Address))
	b.WriteString(fmt.Sprintf("  db: %d\n", c.DB))
	b.WriteString(fmt.Sprintf("  poolsize: %d\n", c.PoolSize))
	b.WriteString(fmt.Sprintf("  dialtimeout: %s\n", c.DialTimeout))
	return b.String()
}

func (c *RedisConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.URL == "" && c.Address == "" {
		return fmt.Errorf("redis url or address is required")
	}
	if c.DB < 0 {
		return fmt.Errorf("invalid redis db: %d", c.DB)
	}
	return nil
}
