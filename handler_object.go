package datamapper

import (
	"context"
	"fmt"
	"reflect"
)

// ObjectHandler denormalizes mapping values into one target struct type.
// Every call runs a fresh engine inheriting the mapper's strict-mode
// setting, with its path prefix set to the current field's full path, so
// inner errors surface fully qualified and no error state crosses
// recursion levels of self-referential types.
type ObjectHandler struct {
	mapper *Mapper
	rType  reflect.Type
}

func newObjectHandler(m *Mapper, rType reflect.Type) *ObjectHandler {
	return &ObjectHandler{mapper: m, rType: rType}
}

func (h *ObjectHandler) Denormalize(ctx context.Context, scope *Scope, value any, nullable bool) (any, error) {
	if isNull, err := checkNull(value, nullable, h.rType.String()); isNull {
		return nil, err
	}

	// An already-correct instance passes through.
	if vt := reflect.TypeOf(value); vt == h.rType || (vt.Kind() == reflect.Pointer && vt.Elem() == h.rType) {
		return value, nil
	}

	payload, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: value '%v' (%T) is not a mapping for %s", ErrNestedValidation, value, value, h.rType)
	}

	eng := newEngine(h.mapper)
	eng.prefix = scope.Path

	target := reflect.New(h.rType)
	if err := eng.denormalize(ctx, scope.Root, payload, target); err != nil {
		return nil, err
	}
	return target.Interface(), nil
}

// Normalize delegates to the mapper's object->payload projection.
func (h *ObjectHandler) Normalize(ctx context.Context, value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, nil
		}
		rv = rv.Elem()
	}
	if rv.Type() != h.rType {
		return nil, NewTypeCoercionError(h.rType.String(), value)
	}
	return h.mapper.encode(ctx, rv)
}
