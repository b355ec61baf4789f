package datamapper

import (
	"context"
	"reflect"
	"strconv"
	"strings"
)

// TypeHandler performs bidirectional conversion for one semantic type.
//
// Denormalize coerces a raw payload value into the handler's typed form;
// its error is either a coercion failure for the single value or a
// *ValidationError carrying path-qualified entries for structural types
// (nested objects, sequences). Normalize projects a typed value back into
// its raw payload form.
type TypeHandler interface {
	Denormalize(ctx context.Context, scope *Scope, value any, nullable bool) (any, error)
	Normalize(ctx context.Context, value any) (any, error)
}

// checkNull applies the shared null rule: null passes through iff the
// field is nullable, otherwise the handler fails.
func checkNull(value any, nullable bool, typeName string) (isNull bool, err error) {
	if value == nil {
		if nullable {
			return true, nil
		}
		return true, NewNullNotAllowedError(typeName)
	}
	return false, nil
}

// asInt64 coerces numeric values and numeric-looking strings to int64.
func asInt64(value any) (int64, bool) {
	switch v := value.(type) {
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint:
		return int64(v), true
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint64:
		return int64(v), true
	case float32:
		return int64(v), true
	case float64:
		return int64(v), true
	case string:
		s := strings.TrimSpace(v)
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n, true
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return int64(f), true
		}
		return 0, false
	}
	return reflectInt64(value)
}

func reflectInt64(value any) (int64, bool) {
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return int64(rv.Float()), true
	case reflect.String:
		return asInt64(rv.String())
	}
	return 0, false
}

// asFloat64 coerces numeric values and numeric-looking strings to float64.
func asFloat64(value any) (float64, bool) {
	switch v := value.(type) {
	case float32:
		return float64(v), true
	case float64:
		return v, true
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return f, true
		}
		return 0, false
	}
	if n, ok := asInt64(value); ok {
		return float64(n), true
	}
	return 0, false
}

// asString coerces any scalar to its string form. Non-scalars fail.
func asString(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case bool:
		return strconv.FormatBool(v), true
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.String:
		return rv.String(), true
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool()), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), true
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64), true
	}
	return "", false
}
