package datamapper

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// Enum handlers match raw scalars against an explicitly registered case
// set. Backed enums carry scalar values (int or string underlying kind)
// and are looked up by value; unit enums carry only case names and are
// matched case-sensitively by name.

// BackedEnumHandler resolves scalar-backed enum cases.
type BackedEnumHandler struct {
	rType reflect.Type
	cases []reflect.Value
}

// NewBackedEnumHandler builds a handler for the enum type of prototype
// with the given declared cases. All cases must share the prototype's type,
// whose underlying kind must be an integer or a string.
func NewBackedEnumHandler(prototype any, cases ...any) (*BackedEnumHandler, error) {
	rType := reflect.TypeOf(prototype)
	if rType == nil {
		return nil, fmt.Errorf("%w: enum prototype must not be nil", ErrInvalidConfiguration)
	}
	switch rType.Kind() {
	case reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
	default:
		return nil, fmt.Errorf("%w: backed enum %s must have an int or string underlying kind", ErrInvalidConfiguration, rType)
	}
	if len(cases) == 0 {
		return nil, fmt.Errorf("%w: backed enum %s declares no cases", ErrInvalidConfiguration, rType)
	}
	h := &BackedEnumHandler{rType: rType}
	for _, c := range cases {
		cv := reflect.ValueOf(c)
		if cv.Type() != rType {
			return nil, fmt.Errorf("%w: enum case %v is %s, want %s", ErrInvalidConfiguration, c, cv.Type(), rType)
		}
		h.cases = append(h.cases, cv)
	}
	return h, nil
}

func (h *BackedEnumHandler) Denormalize(_ context.Context, _ *Scope, value any, nullable bool) (any, error) {
	if isNull, err := checkNull(value, nullable, h.rType.String()); isNull {
		return nil, err
	}
	if reflect.TypeOf(value) == h.rType {
		return value, nil
	}
	switch value.(type) {
	case string, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
	default:
		return nil, NewTypeCoercionError(h.rType.String(), value)
	}
	for _, cv := range h.cases {
		if h.matches(cv, value) {
			return cv.Interface(), nil
		}
	}
	return nil, fmt.Errorf("%w: value '%v' is not a valid %s, valid values: %s",
		ErrTypeCoercion, value, h.rType, strings.Join(h.scalarValues(), ", "))
}

func (h *BackedEnumHandler) matches(cv reflect.Value, value any) bool {
	if h.rType.Kind() == reflect.String {
		s, ok := value.(string)
		return ok && cv.String() == s
	}
	n, ok := asInt64(value)
	if !ok {
		return false
	}
	if _, isString := value.(string); isString {
		return false // backed int enums require an actual int
	}
	switch cv.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(cv.Uint()) == n
	default:
		return cv.Int() == n
	}
}

func (h *BackedEnumHandler) scalarValues() []string {
	values := make([]string, 0, len(h.cases))
	for _, cv := range h.cases {
		values = append(values, fmt.Sprintf("%v", cv.Interface()))
	}
	return values
}

func (h *BackedEnumHandler) Normalize(_ context.Context, value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	rv := reflect.ValueOf(value)
	if rv.Type() != h.rType {
		return nil, NewTypeCoercionError(h.rType.String(), value)
	}
	switch h.rType.Kind() {
	case reflect.String:
		return rv.String(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(rv.Uint()), nil
	default:
		return rv.Int(), nil
	}
}

// UnitEnumHandler resolves name-only enum cases.
type UnitEnumHandler struct {
	rType reflect.Type
	names map[string]reflect.Value
}

// NewUnitEnumHandler builds a handler matching declared case names,
// case-sensitively, onto values of the prototype's type.
func NewUnitEnumHandler(prototype any, cases map[string]any) (*UnitEnumHandler, error) {
	rType := reflect.TypeOf(prototype)
	if rType == nil {
		return nil, fmt.Errorf("%w: enum prototype must not be nil", ErrInvalidConfiguration)
	}
	if len(cases) == 0 {
		return nil, fmt.Errorf("%w: unit enum %s declares no cases", ErrInvalidConfiguration, rType)
	}
	h := &UnitEnumHandler{rType: rType, names: make(map[string]reflect.Value, len(cases))}
	for name, c := range cases {
		cv := reflect.ValueOf(c)
		if cv.Type() != rType {
			return nil, fmt.Errorf("%w: enum case %q is %s, want %s", ErrInvalidConfiguration, name, cv.Type(), rType)
		}
		h.names[name] = cv
	}
	return h, nil
}

func (h *UnitEnumHandler) Denormalize(_ context.Context, _ *Scope, value any, nullable bool) (any, error) {
	if isNull, err := checkNull(value, nullable, h.rType.String()); isNull {
		return nil, err
	}
	if reflect.TypeOf(value) == h.rType {
		return value, nil
	}
	name, ok := value.(string)
	if !ok {
		n, numeric := asInt64(value)
		if !numeric {
			return nil, NewTypeCoercionError(h.rType.String(), value)
		}
		name = fmt.Sprintf("%d", n)
	}
	if cv, found := h.names[name]; found {
		return cv.Interface(), nil
	}
	return nil, fmt.Errorf("%w: '%s' is not a valid %s case, valid names: %s",
		ErrTypeCoercion, name, h.rType, strings.Join(h.caseNames(), ", "))
}

func (h *UnitEnumHandler) caseNames() []string {
	names := make([]string, 0, len(h.names))
	for name := range h.names {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (h *UnitEnumHandler) Normalize(_ context.Context, value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	rv := reflect.ValueOf(value)
	if rv.Type() != h.rType {
		return nil, NewTypeCoercionError(h.rType.String(), value)
	}
	for name, cv := range h.names {
		if cv.Interface() == value {
			return name, nil
		}
	}
	return nil, fmt.Errorf("%w: %v matches no declared %s case", ErrTypeCoercion, value, h.rType)
}
