package datamapper

import (
	"fmt"
	"time"
)

// Config carries the mapper settings that make sense outside code:
// deployment-level defaults loaded from a YAML file or the environment.
type Config struct {
	// Strict rejects payload keys not declared on the target type.
	Strict bool `yaml:"strict"`

	// DefaultTimezone applies to date/time fields without a tz tag.
	// Defaults to UTC.
	DefaultTimezone string `yaml:"default_timezone"`

	// DefaultDateFormat is the custom input layout tried first for
	// date/time fields without a format tag.
	DefaultDateFormat string `yaml:"default_date_format"`
}

// Validate checks the configuration and applies defaults.
func (c *Config) Validate() error {
	if c.DefaultTimezone == "" {
		c.DefaultTimezone = "UTC"
	}
	if _, err := time.LoadLocation(c.DefaultTimezone); err != nil {
		return fmt.Errorf("%w: unknown default timezone %q", ErrInvalidConfiguration, c.DefaultTimezone)
	}
	return nil
}

// NewFromConfig builds a mapper from a validated configuration; extra
// options apply on top of it.
func NewFromConfig(cfg Config, opts ...Option) (*Mapper, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	base := []Option{
		WithStrictMode(cfg.Strict),
		WithDefaultLocation(cfg.DefaultTimezone),
	}
	if cfg.DefaultDateFormat != "" {
		base = append(base, WithDefaultDateFormat(cfg.DefaultDateFormat))
	}
	return New(append(base, opts...)...)
}
