package datamapper

import (
	"context"
	"fmt"
	"reflect"

	"github.com/hengadev/errsx"

	"github.com/igorpocta/data-mapper-sub003/internal/descriptor"
)

// engine runs one class-level denormalization pass. Each engine instance
// exclusively owns its context stack, path prefix and error set; nested
// objects run engines of their own, and the only value crossing engine
// boundaries is the root payload, threaded through every recursive call.
type engine struct {
	m      *Mapper
	stack  []Payload
	prefix string
	errs   errsx.Map
}

func newEngine(m *Mapper) *engine {
	return &engine{m: m}
}

func (e *engine) top() Payload    { return e.stack[len(e.stack)-1] }
func (e *engine) bottom() Payload { return e.stack[0] }

// denormalize populates target (a pointer-to-struct reflect value) from
// payload. root is the outermost payload of the whole Decode call. On
// failure the returned error is a *ValidationError carrying every failing
// field path; required-field failures abort before target is written.
func (e *engine) denormalize(ctx context.Context, root, payload Payload, target reflect.Value) error {
	if e.errs == nil {
		e.errs = make(errsx.Map)
	}
	e.stack = append(e.stack, payload)
	defer func() { e.stack = e.stack[:len(e.stack)-1] }()

	structType := target.Type().Elem()
	set, hit, err := e.m.descriptors.Load(structType)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}
	e.m.hook().OnCacheAccess(ctx, structType.String(), hit)

	// strict mode rejects payload keys not declared on the target type,
	// at this call's own level only
	if e.m.strict {
		for key := range payload {
			if _, declared := set.Keys[key]; !declared {
				e.errs.Set(joinPath(e.prefix, key), NewUnknownFieldError(key))
			}
		}
	}

	sv := target.Elem()

	// phase 1: required fields. Any failure here aborts the whole call
	// before the target is touched, so no partial instance can exist.
	type pending struct {
		fd    *descriptor.Field
		value any
	}
	var resolved []pending
	aborted := false
	for i := range set.Fields {
		fd := &set.Fields[i]
		if !fd.Required {
			continue
		}
		res := e.resolveField(ctx, root, payload, fd)
		if res.errored {
			aborted = true
			continue
		}
		if res.assign {
			resolved = append(resolved, pending{fd, res.value})
		}
	}
	if aborted {
		return NewValidationError(e.errs)
	}
	for _, p := range resolved {
		e.assign(sv, p.fd, p.value)
	}

	// phase 2: remaining fields, with full error accumulation
	for i := range set.Fields {
		fd := &set.Fields[i]
		if fd.Required {
			continue
		}
		res := e.resolveField(ctx, root, payload, fd)
		if res.assign && !res.failedHere {
			e.assign(sv, fd, res.value)
		}
	}

	if !e.errs.IsEmpty() {
		return NewValidationError(e.errs)
	}
	return nil
}

type fieldResult struct {
	value      any
	assign     bool // write the field (possibly with null)
	errored    bool // any error recorded while resolving, nested included
	failedHere bool // error recorded at the field's own path
}

// resolveField runs the shared per-field resolution: effective raw value,
// hydration, the filter pipeline, handler resolution and coercion.
func (e *engine) resolveField(ctx context.Context, root, payload Payload, fd *descriptor.Field) fieldResult {
	path := joinPath(e.prefix, fd.Key)
	raw, present := payload[fd.Key]

	if !present && fd.Hydrator == "" {
		switch {
		case fd.HasDefault:
			raw = fd.Default // coerced through the field's handler below
		case !fd.Required:
			return fieldResult{} // leave the field untouched
		case fd.Nullable:
			return fieldResult{value: nil, assign: true}
		default:
			e.errs.Set(path, NewMissingRequiredFieldError(fd.Key))
			return fieldResult{errored: true, failedHere: true}
		}
	}

	value := raw
	errored := false

	if fd.Hydrator != "" {
		fn, registered := e.m.hydrators[fd.Hydrator]
		if !registered {
			e.errs.Set(path, NewHydratorNotRegisteredError(fd.Hydrator))
			errored = true
		} else {
			var input any
			switch fd.Mode {
			case descriptor.ModeParent:
				input = e.top()
			case descriptor.ModeFull:
				if root != nil {
					input = root
				} else {
					input = e.bottom()
				}
			default:
				input = value
			}
			hydrated, err := fn(input)
			if err != nil {
				// keep the pre-hydration value
				e.errs.Set(path, NewHydratorError(fd.Hydrator, err))
				errored = true
			} else {
				value = hydrated
			}
		}
	}

	value, filtersOK := e.applyFilters(path, fd.Filters, value)
	if !filtersOK {
		return fieldResult{errored: true, failedHere: true}
	}

	h, err := e.m.registry.resolveField(fd)
	if err != nil {
		// an unresolvable type name surfaces immediately
		e.errs.Set(path, err)
		return fieldResult{errored: true, failedHere: true}
	}

	typed, err := h.Denormalize(ctx, &Scope{Root: root, Path: path}, value, fd.Nullable)
	if err != nil {
		if ve, structural := AsValidationError(err); structural {
			// inner errors are already path-qualified; merge verbatim
			// and treat the field's value as null
			mergeErrs(&e.errs, ve.Errors())
			return fieldResult{value: nil, assign: true, errored: true}
		}
		e.errs.Set(path, err)
		return fieldResult{errored: true, failedHere: true}
	}

	typed, _ = e.applyFilters(path, fd.Filters, typed)
	return fieldResult{value: typed, assign: true, errored: errored}
}

func (e *engine) applyFilters(path string, names []string, value any) (any, bool) {
	ok := true
	for _, name := range names {
		fn, registered := e.m.filters[name]
		if !registered {
			e.errs.Set(path, NewFilterNotRegisteredError(name))
			ok = false
			continue
		}
		value = fn(value)
	}
	return value, ok
}

func (e *engine) assign(sv reflect.Value, fd *descriptor.Field, value any) {
	fv := sv.FieldByIndex(fd.Index)
	if !fv.CanSet() {
		return
	}
	if err := convertAssign(fv, value); err != nil {
		e.errs.Set(joinPath(e.prefix, fd.Key), err)
	}
}

// convertAssign writes a handler's canonical value into a concrete field,
// wrapping into pointers and converting between compatible kinds.
func convertAssign(dst reflect.Value, value any) error {
	dt := dst.Type()
	if value == nil {
		dst.Set(reflect.Zero(dt))
		return nil
	}
	rv := reflect.ValueOf(value)

	if dt.Kind() == reflect.Pointer && rv.Kind() != reflect.Pointer {
		p := reflect.New(dt.Elem())
		if err := convertAssign(p.Elem(), value); err != nil {
			return err
		}
		dst.Set(p)
		return nil
	}
	if rv.Kind() == reflect.Pointer && dt.Kind() != reflect.Pointer && dt.Kind() != reflect.Interface {
		if rv.IsNil() {
			dst.Set(reflect.Zero(dt))
			return nil
		}
		rv = rv.Elem()
	}

	if rv.Type().AssignableTo(dt) {
		dst.Set(rv)
		return nil
	}
	if convertibleKinds(rv.Type(), dt) {
		dst.Set(rv.Convert(dt))
		return nil
	}
	return NewTypeCoercionError(dt.String(), value)
}

// convertibleKinds permits numeric widening/narrowing and renamed types of
// the same kind, but not Go's surprising cross-kind conversions such as
// int -> string.
func convertibleKinds(src, dst reflect.Type) bool {
	if !src.ConvertibleTo(dst) {
		return false
	}
	if isNumericKind(src.Kind()) && isNumericKind(dst.Kind()) {
		return true
	}
	return src.Kind() == dst.Kind()
}

func isNumericKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
