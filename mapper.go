package datamapper

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/hengadev/errsx"

	"github.com/igorpocta/data-mapper-sub003/internal/descriptor"
)

// Mapper converts untyped payloads into typed struct values and back,
// driven by per-field `dmap` tag metadata.
type Mapper struct {
	strict      bool
	registry    *Registry
	descriptors *descriptor.Cache
	hydrators   map[string]HydratorFunc
	filters     map[string]FilterFunc
	listeners   []Listener

	observabilityHook ObservabilityHook

	// defaults applied when a field declares no format/tz of its own
	loc        *time.Location
	dateFormat string
}

// New builds a mapper. With no options it runs non-strict, with the
// built-in registry, UTC dates and no observability.
func New(opts ...Option) (*Mapper, error) {
	m := &Mapper{
		registry:          NewRegistry(),
		descriptors:       descriptor.NewCache(),
		hydrators:         make(map[string]HydratorFunc),
		filters:           make(map[string]FilterFunc),
		observabilityHook: &NoOpObservabilityHook{},
	}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, fmt.Errorf("datamapper: %w", err)
		}
	}
	m.registry.bind(m)
	return m, nil
}

// Registry exposes the mapper's type registry for runtime registration of
// handlers, enums and named types.
func (m *Mapper) Registry() *Registry { return m.registry }

// RegisterHydrator installs a named hydrator referenced from field tags.
func (m *Mapper) RegisterHydrator(name string, fn HydratorFunc) {
	m.hydrators[name] = fn
}

// RegisterFilter installs a named value transform referenced from field tags.
func (m *Mapper) RegisterFilter(name string, fn FilterFunc) {
	m.filters[name] = fn
}

func (m *Mapper) hook() ObservabilityHook {
	return m.observabilityHook
}

// Decode denormalizes payload into target, which must be a non-nil pointer
// to a struct. On failure target is left untouched when a required field
// failed, and the returned error is a *ValidationError mapping every
// failing fully qualified field path to its message. No partial result is
// ever paired with a non-nil error.
func (m *Mapper) Decode(ctx context.Context, payload Payload, target any) error {
	start := time.Now()
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("%w, got %T", ErrNotStructPointer, target)
	}
	metadata := map[string]any{
		"operation_type": "decode",
		"target_type":    rv.Type().Elem().String(),
	}
	m.hook().OnProcessStart(ctx, "Decode", metadata)

	before := &BeforeDecodeEvent{Payload: payload, Target: target}
	for _, l := range m.listeners {
		l.BeforeDecode(before)
	}
	payload = before.Payload

	eng := newEngine(m)
	err := eng.denormalize(ctx, payload, payload, rv)

	after := &AfterDecodeEvent{Payload: payload, Target: target, Err: err}
	for _, l := range m.listeners {
		l.AfterDecode(after)
	}
	err = after.Err

	if err != nil {
		m.hook().OnError(ctx, "Decode", err, metadata)
	}
	m.hook().OnProcessComplete(ctx, "Decode", time.Since(start), err, metadata)
	return err
}

// Encode normalizes a struct value (or pointer to one) into a payload,
// the inverse projection of Decode.
func (m *Mapper) Encode(ctx context.Context, source any) (Payload, error) {
	start := time.Now()
	rv := reflect.ValueOf(source)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, fmt.Errorf("%w, got nil %T", ErrNotStructPointer, source)
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w, got %T", ErrNotStructPointer, source)
	}
	metadata := map[string]any{
		"operation_type": "encode",
		"target_type":    rv.Type().String(),
	}
	m.hook().OnProcessStart(ctx, "Encode", metadata)

	before := &BeforeEncodeEvent{Source: source}
	for _, l := range m.listeners {
		l.BeforeEncode(before)
	}
	if before.Source != nil && before.Source != source {
		sv := reflect.ValueOf(before.Source)
		if sv.Kind() == reflect.Pointer && !sv.IsNil() {
			sv = sv.Elem()
		}
		if sv.Kind() == reflect.Struct {
			rv = sv
		}
	}

	out, err := m.encode(ctx, rv)

	after := &AfterEncodeEvent{Source: source, Result: out, Err: err}
	for _, l := range m.listeners {
		l.AfterEncode(after)
	}
	out, err = after.Result, after.Err

	if err != nil {
		m.hook().OnError(ctx, "Encode", err, metadata)
	}
	m.hook().OnProcessComplete(ctx, "Encode", time.Since(start), err, metadata)
	return out, err
}

// encode is the projection used by Encode and by nested-object
// normalization; it fires no events.
func (m *Mapper) encode(ctx context.Context, sv reflect.Value) (Payload, error) {
	set, hit, err := m.descriptors.Load(sv.Type())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}
	m.hook().OnCacheAccess(ctx, sv.Type().String(), hit)

	out := make(Payload, len(set.Fields))
	var errs errsx.Map
	for i := range set.Fields {
		fd := &set.Fields[i]
		fv := sv.FieldByIndex(fd.Index)
		if fv.Kind() == reflect.Pointer && fv.IsNil() {
			out[fd.Key] = nil
			continue
		}
		h, err := m.registry.resolveField(fd)
		if err != nil {
			errs.Set(fd.Key, err)
			continue
		}
		value := fv.Interface()
		if fv.Kind() == reflect.Pointer {
			value = fv.Elem().Interface()
		}
		raw, err := h.Normalize(ctx, value)
		if err != nil {
			errs.Set(fd.Key, err)
			continue
		}
		out[fd.Key] = raw
	}
	if !errs.IsEmpty() {
		return nil, NewValidationError(errs)
	}
	return out, nil
}
