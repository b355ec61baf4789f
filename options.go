package datamapper

import (
	"fmt"
	"time"
)

// Option configures a Mapper at construction.
type Option func(m *Mapper) error

// WithStrictMode makes Decode reject payload keys not declared on the
// target type. Each undeclared key records one UnknownField error at its
// own path; the check never runs retroactively on nested calls' behalf.
func WithStrictMode(strict bool) Option {
	return func(m *Mapper) error {
		m.strict = strict
		return nil
	}
}

// WithRegistry replaces the built-in type registry.
func WithRegistry(r *Registry) Option {
	return func(m *Mapper) error {
		if r == nil {
			return fmt.Errorf("%w: registry must not be nil", ErrInvalidConfiguration)
		}
		m.registry = r
		return nil
	}
}

// WithObservabilityHook reports operation timing, errors and descriptor
// cache hits to the given hook. The default hook is a no-op.
func WithObservabilityHook(hook ObservabilityHook) Option {
	return func(m *Mapper) error {
		if hook == nil {
			return fmt.Errorf("%w: observability hook must not be nil", ErrInvalidConfiguration)
		}
		m.observabilityHook = hook
		return nil
	}
}

// WithMetricsCollector installs the standard observability hook backed by
// the given collector.
func WithMetricsCollector(metrics MetricsCollector) Option {
	return func(m *Mapper) error {
		m.observabilityHook = NewStandardObservabilityHook(metrics)
		return nil
	}
}

// WithListener registers an event listener invoked around Decode and
// Encode calls, in registration order.
func WithListener(l Listener) Option {
	return func(m *Mapper) error {
		if l == nil {
			return fmt.Errorf("%w: listener must not be nil", ErrInvalidConfiguration)
		}
		m.listeners = append(m.listeners, l)
		return nil
	}
}

// WithDefaultLocation sets the timezone applied to date/time fields that
// declare no tz of their own. Defaults to UTC.
func WithDefaultLocation(name string) Option {
	return func(m *Mapper) error {
		loc, err := time.LoadLocation(name)
		if err != nil {
			return fmt.Errorf("%w: unknown timezone %q", ErrInvalidConfiguration, name)
		}
		m.loc = loc
		return nil
	}
}

// WithDefaultDateFormat sets the custom input layout tried first for
// date/time fields that declare no format of their own. The ordered
// fallback layouts are always tried as well.
func WithDefaultDateFormat(layout string) Option {
	return func(m *Mapper) error {
		m.dateFormat = layout
		return nil
	}
}
