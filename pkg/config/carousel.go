package config

import (
	"fmt"
	"strings"
	"time"
)

type CarouselConfig struct {
	Collection  string        `koanf:"collection"`
	Interval    time.Duration `koanf:"interval"`
	ResumeDelay time.Duration `koanf:"resumedelay"`
}

const (
	defaultCarouselCollection = "winter"
	defaultCarouselInterval   = 4 * time.Second
	defaultCarouselResume     = 10 * time.Second
)

// String returns a string representation of the carousel configuration.
func (c *CarouselConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Carousel ---\n")
	b.WriteString(fmt.Sprintf("  collection: %s\n", c.Collection))
	b.WriteString(fmt.Sprintf("  interval: %s\n", c.Interval))
	b.WriteString(fmt.Sprintf("  resumedelay: %s\n", c.ResumeDelay))
	return b.String()
}

func (c *CarouselConfig) Validate() error {
	if c.Collection == "" {
		c.Collection = defaultCarouselCollection
	}
	if c.Interval < 0 || c.ResumeDelay < 0 {
		return fmt.Errorf("carousel durations must not be negative")
	}
	if c.Interval == 0 {
		c.Interval = defaultCarouselInterval
	}
	if c.ResumeDelay == 0 {
		c.ResumeDelay = defaultCarouselResume
	}
	return nil
}
