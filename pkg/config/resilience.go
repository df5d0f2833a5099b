package config

import (
	"fmt"
	"strings"
	"time"
)

type ResilienceConfig struct {
	CircuitBreaker CircuitBreakerConfig `koanf:"circuitbreaker"`
}

// CircuitBreakerConfig guards calls to the product database.
type CircuitBreakerConfig struct {
	ConsecutiveFailures uint32 `koanf:"consecutivefailures"`
	ErrorRatePercent    int    `koanf:"errorratepercent"`
	// MinRequests is the sample size below which the error rate is ignored.
	MinRequests      uint32        `koanf:"minrequests"`
	OpenTimeout      time.Duration `koanf:"opentimeout"`
	HalfOpenRequests uint32        `koanf:"halfopenrequests"`
	// Interval clears the closed-state counters periodically. Zero keeps them until the state changes.
	Interval time.Duration `koanf:"interval"`
}

// Trips reports whether the observed counts should open the breaker.
func (c CircuitBreakerConfig) Trips(requests, totalFailures, consecutiveFailures uint32) bool {
	if consecutiveFailures > c.ConsecutiveFailures {
		return true
	}
	if requests < c.MinRequests || requests == 0 {
		return false
	}
	return float64(totalFailures)*100/float64(requests) > float64(c.ErrorRatePercent)
}

func (c *ResilienceConfig) String() string {
	cb := c.CircuitBreaker
	var b strings.Builder
	b.WriteString("\n--- Circuit Breaker ---\n")
	fmt.Fprintf(&b, "  trip: >%d consecutive or >%d%% of %d+ requests\n", cb.ConsecutiveFailures, cb.ErrorRatePercent, cb.MinRequests)
	fmt.Fprintf(&b, "  open: %s, half-open probes: %d, interval: %s\n", cb.OpenTimeout, cb.HalfOpenRequests, cb.Interval)
	return b.String()
}

func (c *ResilienceConfig) Validate() error {
	cb := &c.CircuitBreaker
	switch {
	case cb.ConsecutiveFailures == 0:
		return fmt.Errorf("circuitbreaker.consecutivefailures must be greater than 0")
	case cb.ErrorRatePercent < 0 || cb.ErrorRatePercent > 100:
		return fmt.Errorf("circuitbreaker.errorratepercent must be between 0 and 100: %d", cb.ErrorRatePercent)
	case cb.OpenTimeout <= 0:
		return fmt.Errorf("circuitbreaker.opentimeout must be greater than 0")
	case cb.Interval < 0:
		return fmt.Errorf("circuitbreaker.interval must not be negative: %s", cb.Interval)
	}
	if cb.HalfOpenRequests == 0 {
		cb.HalfOpenRequests = 1
	}
	if cb.MinRequests == 0 {
		cb.MinRequests = cb.ConsecutiveFailures + 1
	}
	return nil
}
