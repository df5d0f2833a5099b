package config

import (
	"fmt"
	"time"
)

// RetryConfig controls the gRPC client retry and per-attempt timeout.
type RetryConfig struct {
	MaxAttempts    uint          `koanf:"maxattempts"`
	InitialBackoff time.Duration `koanf:"initialbackoff"`
	Timeout        time.Duration `koanf:"timeout"`
}

func (c *RetryConfig) Validate() error {
	if c.MaxAttempts == 0 {
		return fmt.Errorf("retry max attempts must be greater than 0")
	}
	if c.InitialBackoff < 0 {
		return fmt.Errorf("retry initial backoff must not be negative")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("retry timeout must be greater than 0")
	}
	return nil
}
