package config

import (
	"fmt"
	"strings"
	"time"
)

type SessionConfig struct {
	CookieName string        `koanf:"cookiename"`
	TTL        time.Duration `koanf:"ttl"`
	Secure     bool          `koanf:"secure"`
}

const (
	defaultCartCookieName = "cart_session"
	defaultCartTTL        = 7 * 24 * time.Hour
)

// String returns a string representation of the cart session configuration.
func (c *SessionConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Cart Session ---\n")
	b.WriteString(fmt.Sprintf("  cookiename: %s\n", c.CookieName))
	b.WriteString(fmt.Sprintf("  ttl: %s\n", c.TTL))
	b.WriteString(fmt.Sprintf("  secure: %t\n", c.Secure))
	return b.String()
}

func (c *SessionConfig) Validate() error {
	if c.CookieName == "" {
		c.CookieName = defaultCartCookieName
	}
	if c.TTL < 0 {
		return fmt.Errorf("cart session ttl must not be negative")
	}
	if c.TTL == 0 {
		c.TTL = defaultCartTTL
	}
	return nil
}
