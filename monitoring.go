package datamapper

import (
	"context"
	"sort"
	"sync/atomic"
	"time"
)

// MetricsCollector defines the interface for collecting and reporting metrics.
type MetricsCollector interface {
	IncrementCounter(name string, tags map[string]string)
	SetGauge(name string, value float64, tags map[string]string)
	RecordTiming(name string, duration time.Duration, tags map[string]string)

	// Flush any buffered metrics
	Flush() error
}

// ObservabilityHook defines hooks for monitoring mapping operations.
// The default NoOp implementation keeps disabled observability free of
// overhead.
type ObservabilityHook interface {
	// Called before an operation starts
	OnProcessStart(ctx context.Context, operation string, metadata map[string]any)

	// Called after an operation completes (success or failure)
	OnProcessComplete(ctx context.Context, operation string, duration time.Duration, err error, metadata map[string]any)

	// Called when an operation fails
	OnError(ctx context.Context, operation string, err error, metadata map[string]any)

	// Called on every descriptor cache access
	OnCacheAccess(ctx context.Context, targetType string, hit bool)
}

// NoOpMetricsCollector is a no-op implementation of MetricsCollector.
type NoOpMetricsCollector struct{}

func (n *NoOpMetricsCollector) IncrementCounter(name string, tags map[string]string)              {}
func (n *NoOpMetricsCollector) SetGauge(name string, value float64, tags map[string]string)       {}
func (n *NoOpMetricsCollector) RecordTiming(name string, d time.Duration, tags map[string]string) {}
func (n *NoOpMetricsCollector) Flush() error                                                      { return nil }

// NoOpObservabilityHook is a no-op implementation of ObservabilityHook.
type NoOpObservabilityHook struct{}

func (n *NoOpObservabilityHook) OnProcessStart(ctx context.Context, operation string, metadata map[string]any) {
}
func (n *NoOpObservabilityHook) OnProcessComplete(ctx context.Context, operation string, duration time.Duration, err error, metadata map[string]any) {
}
func (n *NoOpObservabilityHook) OnError(ctx context.Context, operation string, err error, metadata map[string]any) {
}
func (n *NoOpObservabilityHook) OnCacheAccess(ctx context.Context, targetType string, hit bool) {}

// InMemoryMetricsCollector is a simple in-memory implementation for testing
// and development.
type InMemoryMetricsCollector struct {
	counters map[string]*int64
	gauges   map[string]float64
	timings  []TimingMetric
}

type TimingMetric struct {
	Name     string
	Duration time.Duration
	Tags     map[string]string
	Time     time.Time
}

func NewInMemoryMetricsCollector() *InMemoryMetricsCollector {
	return &InMemoryMetricsCollector{
		counters: make(map[string]*int64),
		gauges:   make(map[string]float64),
	}
}

func (m *InMemoryMetricsCollector) IncrementCounter(name string, tags map[string]string) {
	key := m.buildKey(name, tags)
	if _, exists := m.counters[key]; !exists {
		m.counters[key] = new(int64)
	}
	atomic.AddInt64(m.counters[key], 1)
}

func (m *InMemoryMetricsCollector) SetGauge(name string, value float64, tags map[string]string) {
	m.gauges[m.buildKey(name, tags)] = value
}

func (m *InMemoryMetricsCollector) RecordTiming(name string, duration time.Duration, tags map[string]string) {
	m.timings = append(m.timings, TimingMetric{
		Name:     name,
		Duration: duration,
		Tags:     tags,
		Time:     time.Now(),
	})
}

func (m *InMemoryMetricsCollector) Flush() error { return nil }

// GetCounterValue returns the current value of a counter.
func (m *InMemoryMetricsCollector) GetCounterValue(name string, tags map[string]string) int64 {
	if counter, exists := m.counters[m.buildKey(name, tags)]; exists {
		return atomic.LoadInt64(counter)
	}
	return 0
}

// GetGaugeValue returns the current value of a gauge.
func (m *InMemoryMetricsCollector) GetGaugeValue(name string, tags map[string]string) float64 {
	return m.gauges[m.buildKey(name, tags)]
}

// GetTimings returns all recorded timing metrics.
func (m *InMemoryMetricsCollector) GetTimings() []TimingMetric {
	return append([]TimingMetric(nil), m.timings...)
}

func (m *InMemoryMetricsCollector) buildKey(name string, tags map[string]string) string {
	if len(tags) == 0 {
		return name
	}
	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	key := name
	for _, k := range keys {
		key += "," + k + ":" + tags[k]
	}
	return key
}

// StandardObservabilityHook reports operations to a MetricsCollector.
type StandardObservabilityHook struct {
	metrics MetricsCollector
}

func NewStandardObservabilityHook(metrics MetricsCollector) *StandardObservabilityHook {
	if metrics == nil {
		metrics = &NoOpMetricsCollector{}
	}
	return &StandardObservabilityHook{metrics: metrics}
}

func (h *StandardObservabilityHook) OnProcessStart(ctx context.Context, operation string, metadata map[string]any) {
	tags := h.buildTags(metadata)
	tags["operation"] = operation
	h.metrics.IncrementCounter("datamapper.process.started", tags)
}

func (h *StandardObservabilityHook) OnProcessComplete(ctx context.Context, operation string, duration time.Duration, err error, metadata map[string]any) {
	tags := h.buildTags(metadata)
	tags["operation"] = operation
	if err != nil {
		tags["status"] = "error"
		h.metrics.IncrementCounter("datamapper.process.failed", tags)
	} else {
		tags["status"] = "success"
		h.metrics.IncrementCounter("datamapper.process.completed", tags)
	}
	h.metrics.RecordTiming("datamapper.process.duration", duration, tags)
}

func (h *StandardObservabilityHook) OnError(ctx context.Context, operation string, err error, metadata map[string]any) {
	tags := h.buildTags(metadata)
	tags["operation"] = operation
	tags["error_type"] = errorType(err)
	h.metrics.IncrementCounter("datamapper.errors", tags)
}

func (h *StandardObservabilityHook) OnCacheAccess(ctx context.Context, targetType string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	h.metrics.IncrementCounter("datamapper.descriptor_cache", map[string]string{
		"target_type": targetType,
		"result":      result,
	})
}

func (h *StandardObservabilityHook) buildTags(metadata map[string]any) map[string]string {
	tags := make(map[string]string)
	for k, v := range metadata {
		if str, ok := v.(string); ok {
			tags[k] = str
		}
	}
	return tags
}

func errorType(err error) string {
	switch {
	case err == nil:
		return "none"
	case IsConfigurationError(err):
		return "configuration"
	case IsFieldError(err):
		return "validation"
	default:
		if _, ok := AsValidationError(err); ok {
			return "validation"
		}
		return "general"
	}
}
