package datamapper

import (
	"context"
	"fmt"
	"reflect"
	"strconv"

	"github.com/hengadev/errsx"
)

// ArrayHandler denormalizes each sequence element against a configured
// element handler, appending the element's index to the error path. With
// no element handler configured, elements pass through unchanged.
type ArrayHandler struct {
	sliceType    reflect.Type // output slice type; []any when untyped
	elem         TypeHandler  // nil = passthrough
	elemNullable bool
}

func newArrayHandler(sliceType reflect.Type, elem TypeHandler, elemNullable bool) *ArrayHandler {
	if sliceType == nil || sliceType.Kind() != reflect.Slice {
		sliceType = reflect.TypeOf([]any(nil))
	}
	return &ArrayHandler{sliceType: sliceType, elem: elem, elemNullable: elemNullable}
}

func (h *ArrayHandler) Denormalize(ctx context.Context, scope *Scope, value any, nullable bool) (any, error) {
	if isNull, err := checkNull(value, nullable, "array"); isNull {
		return nil, err
	}
	elems, ok := asSequence(value)
	if !ok {
		return nil, NewTypeCoercionError("array", value)
	}
	if h.elem == nil {
		return elems, nil
	}

	out := reflect.MakeSlice(h.sliceType, len(elems), len(elems))
	var errs errsx.Map
	for i, el := range elems {
		path := joinPath(scope.Path, strconv.Itoa(i))
		typed, err := h.elem.Denormalize(ctx, scope.WithPath(path), el, h.elemNullable)
		if err != nil {
			if ve, isValidation := AsValidationError(err); isValidation {
				mergeErrs(&errs, ve.Errors())
			} else {
				errs.Set(path, err)
			}
			continue
		}
		if err := convertAssign(out.Index(i), typed); err != nil {
			errs.Set(path, err)
		}
	}
	if !errs.IsEmpty() {
		return nil, NewValidationError(errs)
	}
	return out.Interface(), nil
}

func (h *ArrayHandler) Normalize(ctx context.Context, value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, NewTypeCoercionError("array", value)
	}
	out := make([]any, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		el := rv.Index(i).Interface()
		if h.elem == nil {
			out[i] = el
			continue
		}
		raw, err := h.elem.Normalize(ctx, el)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out[i] = raw
	}
	return out, nil
}

// asSequence widens any slice or array value to []any.
func asSequence(value any) ([]any, bool) {
	if elems, ok := value.([]any); ok {
		return elems, true
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	if rv.Type().Elem().Kind() == reflect.Uint8 {
		return nil, false // byte blobs are scalars, not sequences
	}
	elems := make([]any, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		elems[i] = rv.Index(i).Interface()
	}
	return elems, true
}
