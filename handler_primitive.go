package datamapper

import (
	"context"
	"reflect"
	"strings"
)

// Primitive handlers are stateless; the registry builds each once at
// construction. Their normalize direction is total: it never fails on
// well-formed typed input and falls back to a zero value otherwise.

// BoolHandler converts booleans, numerics (truthy/falsy) and the
// conventional string spellings of booleans.
type BoolHandler struct{}

var (
	trueStrings  = map[string]bool{"true": true, "1": true, "yes": true}
	falseStrings = map[string]bool{"false": true, "0": true, "no": true, "": true}
)

func (BoolHandler) Denormalize(_ context.Context, _ *Scope, value any, nullable bool) (any, error) {
	if isNull, err := checkNull(value, nullable, "bool"); isNull {
		return nil, err
	}
	if b, ok := value.(bool); ok {
		return b, nil
	}
	if s, ok := value.(string); ok {
		lower := strings.ToLower(strings.TrimSpace(s))
		if trueStrings[lower] {
			return true, nil
		}
		if falseStrings[lower] {
			return false, nil
		}
		return nil, NewTypeCoercionError("bool", value)
	}
	if isNumeric(value) {
		f, _ := asFloat64(value)
		return f != 0, nil
	}
	if rv := reflect.ValueOf(value); rv.Kind() == reflect.Bool {
		return rv.Bool(), nil
	}
	return nil, NewTypeCoercionError("bool", value)
}

func (BoolHandler) Normalize(_ context.Context, value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	if b, ok := value.(bool); ok {
		return b, nil
	}
	if isNumeric(value) {
		f, _ := asFloat64(value)
		return f != 0, nil
	}
	if s, ok := value.(string); ok {
		return trueStrings[strings.ToLower(s)], nil
	}
	return false, nil
}

// IntHandler converts native numerics and numeric-looking strings.
type IntHandler struct{}

func (IntHandler) Denormalize(_ context.Context, _ *Scope, value any, nullable bool) (any, error) {
	if isNull, err := checkNull(value, nullable, "int"); isNull {
		return nil, err
	}
	if _, isBool := value.(bool); isBool {
		return nil, NewTypeCoercionError("int", value)
	}
	if n, ok := asInt64(value); ok {
		return n, nil
	}
	return nil, NewTypeCoercionError("int", value)
}

func (IntHandler) Normalize(_ context.Context, value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	n, _ := asInt64(value)
	return n, nil
}

// FloatHandler converts native numerics and numeric-looking strings.
type FloatHandler struct{}

func (FloatHandler) Denormalize(_ context.Context, _ *Scope, value any, nullable bool) (any, error) {
	if isNull, err := checkNull(value, nullable, "float"); isNull {
		return nil, err
	}
	if _, isBool := value.(bool); isBool {
		return nil, NewTypeCoercionError("float", value)
	}
	if f, ok := asFloat64(value); ok {
		return f, nil
	}
	return nil, NewTypeCoercionError("float", value)
}

func (FloatHandler) Normalize(_ context.Context, value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	f, _ := asFloat64(value)
	return f, nil
}

// StringHandler converts native strings and any other scalar, cast to its
// string form. Non-scalars fail.
type StringHandler struct{}

func (StringHandler) Denormalize(_ context.Context, _ *Scope, value any, nullable bool) (any, error) {
	if isNull, err := checkNull(value, nullable, "string"); isNull {
		return nil, err
	}
	if s, ok := asString(value); ok {
		return s, nil
	}
	return nil, NewTypeCoercionError("string", value)
}

func (StringHandler) Normalize(_ context.Context, value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	s, _ := asString(value)
	return s, nil
}

// RawHandler passes values through untouched. It backs the "any" type for
// fields that keep their payload form.
type RawHandler struct{}

func (RawHandler) Denormalize(_ context.Context, _ *Scope, value any, nullable bool) (any, error) {
	if isNull, err := checkNull(value, nullable, "any"); isNull {
		return nil, err
	}
	return value, nil
}

func (RawHandler) Normalize(_ context.Context, value any) (any, error) {
	return value, nil
}

func isNumeric(value any) bool {
	switch value.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return true
	}
	switch reflect.ValueOf(value).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
