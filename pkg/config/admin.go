package config

import (
	"fmt"
	"log"
	"strings"
	"time"
)

type AdminConfig struct {
	Password     string        `koanf:"password"`
	PasswordHash string        `koanf:"passwordhash"`
	TokenSecret  string        `koanf:"tokensecret"`
	Issuer       string        `koanf:"issuer"`
	TokenTTL     time.Duration `koanf:"tokenttl"`
	SecureCookie bool          `koanf:"securecookie"`
}

const (
	DefaultAdminPassword = "admin123"
	defaultAdminIssuer   = "storefront"
	defaultAdminTokenTTL = 24 * time.Hour
	minTokenSecretLength = 32
)

// String returns a string representation of the admin configuration with secrets masked.
func (c *AdminConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Admin ---\n")
	b.WriteString(fmt.Sprintf("  password: %s\n", mask(c.Password)))
	b.WriteString(fmt.Sprintf("  passwordhash: %s\n", mask(c.PasswordHash)))
	b.WriteString(fmt.Sprintf("  tokensecret: %s\n", mask(c.TokenSecret)))
	b.WriteString(fmt.Sprintf("  issuer: %s\n", c.Issuer))
	b.WriteString(fmt.Sprintf("  tokenttl: %s\n", c.TokenTTL))
	b.WriteString(fmt.Sprintf("  securecookie: %t\n", c.SecureCookie))
	return b.String()
}

func (c *AdminConfig) Validate() error {
	if c.Password == "" && c.PasswordHash == "" {
		log.Println("WARN: admin password is not configured, using the default one")
		c.Password = DefaultAdminPassword
	}
	if len(c.TokenSecret) < minTokenSecretLength {
		return fmt.Errorf("admin token secret must be at least %d bytes", minTokenSecretLength)
	}
	if c.Issuer == "" {
		c.Issuer = defaultAdminIssuer
	}
	if c.TokenTTL <= 0 {
		c.TokenTTL = defaultAdminTokenTTL
	}
	return nil
}

func mask(secret string) string {
	if secret == "" {
		return "<not configured>"
	}
	return "****"
}
