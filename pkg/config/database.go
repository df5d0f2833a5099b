package config

import (
	"fmt"
	"strings"
	"time"
)

const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverMemory   = "memory"

	defaultMongoDatabase = "storefront"
)

type DatabaseConfig struct {
	Driver  string        `koanf:"driver"`
	URL     string        `koanf:"url"`
	Name    string        `koanf:"name"`
	Timeout time.Duration `koanf:"timeout"`
	Migrate bool          `koanf:"migrate"`
}

// String returns a string representation of the database configuration with credentials masked.
func (c *DatabaseConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Database ---\n")
	b.WriteString(fmt.Sprintf("  driver: %s\n", c.Driver))
	b.WriteString(fmt.Sprintf("  url: %s\n", MaskURL(c.URL)))
	b.WriteString(fmt.Sprintf("  name: %s\n", c.Name))
	b.WriteString(fmt.Sprintf("  timeout: %s\n", c.Timeout))
	b.WriteString(fmt.Sprintf("  migrate: %t\n", c.Migrate))
	return b.String()
}

func (c *DatabaseConfig) Validate() error {
	if c.Driver == "" {
		c.Driver = DriverMongo
	}
	if c.Driver == DriverMemory {
		return nil
	}
	if c.URL == "" {
		return fmt.Errorf("database URL is not configured")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("database connect timeout is not configured")
	}
	switch c.Driver {
	case DriverPostgres:
		if !isValidPostgresURL(c.URL) {
			return fmt.Errorf("database URL must start with 'postgres://': %s", MaskURL(c.URL))
		}
	case DriverMongo:
		if !isValidMongoURL(c.URL) {
			return fmt.Errorf("database URL must start with 'mongodb://' or 'mongodb+srv://': %s", MaskURL(c.URL))
		}
		if c.Name == "" {
			c.Name = defaultMongoDatabase
		}
	default:
		return fmt.Errorf("unsupported database driver: %q", c.Driver)
	}
	return nil
}

// isValidPostgresURL checks if the provided URL is a valid PostgreSQL URL
func isValidPostgresURL(url string) bool {
	return strings.HasPrefix(url, "postgres://") ||
		strings.HasPrefix(url, "postgresql://")
}

func isValidMongoURL(url string) bool {
	return strings.HasPrefix(url, "mongodb://") ||
		strings.HasPrefix(url, "mongodb+srv://")
}

// MaskURL hides the credentials part of a connection URL.
func MaskURL(url string) string {
	if url == "" {
		return "<not configured>"
	}
	// Mask the URL by replacing the username and password with "****"
	parts := strings.Split(url, "@")
	if len(parts) == 2 {
		return "****@" + parts[1]
	}
	return "****"
}
