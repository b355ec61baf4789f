package datamapper

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/igorpocta/data-mapper-sub003/internal/descriptor"
)

var (
	timeType = reflect.TypeOf(time.Time{})
	uuidType = reflect.TypeOf(uuid.UUID{})
)

// dateTimeNames is the date/time family of type identifiers.
var dateTimeNames = map[string]bool{
	"datetime":  true,
	"date":      true,
	"time":      true,
	"timestamp": true,
	"time.Time": true,
}

// Registry maps type names to handlers. Primitive handlers are built once
// at construction; parametrized handlers (date/time, enum, array-of,
// object-of) are built per distinct configuration and cached for the
// registry's lifetime. New handlers may be registered at runtime under a
// canonical name plus aliases; re-registration silently overwrites prior
// alias bindings.
type Registry struct {
	mu sync.RWMutex

	mapper   *Mapper
	handlers map[string]TypeHandler
	aliases  map[string]string

	enums     map[reflect.Type]TypeHandler
	enumNames map[string]reflect.Type

	// named struct types for elem=/of= tag overrides
	types map[string]reflect.Type

	cache map[string]TypeHandler
}

// NewRegistry builds a registry carrying the built-in handlers.
func NewRegistry() *Registry {
	r := &Registry{
		handlers:  make(map[string]TypeHandler),
		aliases:   make(map[string]string),
		enums:     make(map[reflect.Type]TypeHandler),
		enumNames: make(map[string]reflect.Type),
		types:     make(map[string]reflect.Type),
		cache:     make(map[string]TypeHandler),
	}
	r.Register(BoolHandler{}, "bool", "boolean")
	r.Register(IntHandler{}, "int", "integer", "int64")
	r.Register(FloatHandler{}, "float", "double", "float64", "number")
	r.Register(StringHandler{}, "string", "str", "text")
	r.Register(RawHandler{}, "any", "mixed", "raw")
	r.Register(UUIDHandler{}, "uuid", "guid")
	return r
}

// bind attaches the registry to the mapper whose engines nested-object
// handlers will use.
func (r *Registry) bind(m *Mapper) {
	r.mu.Lock()
	r.mapper = m
	r.mu.Unlock()
}

// Register installs a handler under a canonical name plus aliases.
func (r *Registry) Register(h TypeHandler, name string, aliases ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[name] = h
	for _, alias := range aliases {
		r.aliases[alias] = name
	}
}

// RegisterType makes a struct type addressable by name from elem= and of=
// tag overrides.
func (r *Registry) RegisterType(name string, prototype any) error {
	t := reflect.TypeOf(prototype)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return fmt.Errorf("%w: registered type %q must be a struct, got %T", ErrInvalidConfiguration, name, prototype)
	}
	r.mu.Lock()
	r.types[name] = t
	r.mu.Unlock()
	return nil
}

// RegisterBackedEnum declares a scalar-valued enum type with its cases.
func (r *Registry) RegisterBackedEnum(prototype any, cases ...any) error {
	h, err := NewBackedEnumHandler(prototype, cases...)
	if err != nil {
		return err
	}
	r.registerEnum(h.rType, h)
	return nil
}

// RegisterUnitEnum declares a name-only enum type with its named cases.
func (r *Registry) RegisterUnitEnum(prototype any, cases map[string]any) error {
	h, err := NewUnitEnumHandler(prototype, cases)
	if err != nil {
		return err
	}
	r.registerEnum(h.rType, h)
	return nil
}

func (r *Registry) registerEnum(t reflect.Type, h TypeHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.enums[t] = h
	r.enumNames[t.String()] = t
	if t.Name() != "" {
		r.enumNames[t.Name()] = t
	}
}

// handlerSpec is the resolution tuple: declared type name plus the
// optional format, timezone and element/nested overrides of one field.
type handlerSpec struct {
	typeName   string
	goType     reflect.Type // pointer-stripped static type, may be nil
	format     string
	timezone   string
	outLayout  string
	elemName   string
	nestedName string
}

// resolveField resolves the handler for one field descriptor.
func (r *Registry) resolveField(fd *descriptor.Field) (TypeHandler, error) {
	goType := fd.Type
	for goType.Kind() == reflect.Pointer {
		goType = goType.Elem()
	}
	return r.resolve(handlerSpec{
		typeName:   fd.TypeName,
		goType:     goType,
		format:     fd.Format,
		timezone:   fd.Timezone,
		outLayout:  fd.OutputFormat,
		elemName:   fd.ElemTypeName,
		nestedName: fd.NestedTypeName,
	})
}

// resolve walks the resolution order, first match wins: array with element,
// array alone, the date/time family, an explicit nested override, a
// registered alias, a registered canonical name, a registered enum, and
// finally struct auto-detection. Anything else is an unsupported type.
func (r *Registry) resolve(spec handlerSpec) (TypeHandler, error) {
	// full lock: resolution populates the parametrized-handler cache
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resolveLocked(spec)
}

func (r *Registry) resolveLocked(spec handlerSpec) (TypeHandler, error) {
	name := spec.typeName
	if name == "" && spec.goType != nil {
		if h, ok := r.enums[spec.goType]; ok {
			return h, nil
		}
		name = inferTypeName(spec.goType)
	}

	if name == "array" {
		return r.arrayHandler(spec)
	}

	if dateTimeNames[name] {
		return r.dateTimeHandler(spec)
	}

	// an explicit of= override beats any inferred or registered name
	if spec.nestedName != "" {
		if t, ok := r.types[spec.nestedName]; ok {
			return r.objectHandler(t), nil
		}
		return nil, NewUnsupportedTypeError(spec.nestedName, r.knownNames())
	}

	if canonical, ok := r.aliases[name]; ok {
		name = canonical
	}
	if h, ok := r.handlers[name]; ok {
		return h, nil
	}

	if t, ok := r.enumNames[name]; ok {
		return r.enums[t], nil
	}

	if t, ok := r.types[name]; ok {
		return r.objectHandler(t), nil
	}
	if spec.goType != nil && spec.goType.Kind() == reflect.Struct {
		return r.objectHandler(spec.goType), nil
	}

	display := spec.typeName
	if display == "" && spec.goType != nil {
		display = spec.goType.String()
	}
	return nil, NewUnsupportedTypeError(display, r.knownNames())
}

func (r *Registry) arrayHandler(spec handlerSpec) (TypeHandler, error) {
	var sliceType reflect.Type
	if spec.goType != nil && spec.goType.Kind() == reflect.Slice {
		sliceType = spec.goType
	}

	elemSpec := handlerSpec{
		typeName:  spec.elemName,
		format:    spec.format,
		timezone:  spec.timezone,
		outLayout: spec.outLayout,
	}
	elemNullable := false
	if sliceType != nil {
		elemType := sliceType.Elem()
		elemNullable = elemType.Kind() == reflect.Pointer || elemType.Kind() == reflect.Interface
		for elemType.Kind() == reflect.Pointer {
			elemType = elemType.Elem()
		}
		if elemType.Kind() != reflect.Interface {
			elemSpec.goType = elemType
		}
	}

	key := r.cacheKey("array", spec, elemSpec)
	if h, ok := r.cache[key]; ok {
		return h, nil
	}

	var elem TypeHandler
	if elemSpec.typeName != "" || elemSpec.goType != nil {
		var err error
		elem, err = r.resolveLocked(elemSpec)
		if err != nil {
			return nil, err
		}
	}
	h := newArrayHandler(sliceType, elem, elemNullable)
	r.cache[key] = h
	return h, nil
}

func (r *Registry) dateTimeHandler(spec handlerSpec) (TypeHandler, error) {
	key := r.cacheKey("datetime", spec, handlerSpec{})
	if h, ok := r.cache[key]; ok {
		return h, nil
	}

	loc := time.UTC
	format := spec.format
	if r.mapper != nil {
		if r.mapper.loc != nil {
			loc = r.mapper.loc
		}
		if format == "" {
			format = r.mapper.dateFormat
		}
	}
	if spec.timezone != "" {
		parsed, err := time.LoadLocation(spec.timezone)
		if err != nil {
			return nil, fmt.Errorf("%w: unknown timezone %q", ErrInvalidConfiguration, spec.timezone)
		}
		loc = parsed
	}
	h := NewDateTimeHandler(format, loc, spec.outLayout)
	r.cache[key] = h
	return h, nil
}

func (r *Registry) objectHandler(t reflect.Type) TypeHandler {
	key := "object|" + t.String()
	if h, ok := r.cache[key]; ok {
		return h
	}
	h := newObjectHandler(r.mapper, t)
	r.cache[key] = h
	return h
}

func (r *Registry) cacheKey(kind string, spec, elem handlerSpec) string {
	goType := ""
	if spec.goType != nil {
		goType = spec.goType.String()
	}
	elemType := ""
	if elem.goType != nil {
		elemType = elem.goType.String()
	}
	return strings.Join([]string{
		kind, goType, spec.format, spec.timezone, spec.outLayout,
		spec.elemName, elem.typeName, elemType,
	}, "|")
}

// knownNames lists every registered name and alias, for unsupported-type
// failures.
func (r *Registry) knownNames() []string {
	names := make([]string, 0, len(r.handlers)+len(r.aliases)+len(r.enumNames)+len(r.types))
	for name := range r.handlers {
		names = append(names, name)
	}
	for alias := range r.aliases {
		names = append(names, alias)
	}
	for name := range r.enumNames {
		names = append(names, name)
	}
	for name := range r.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// inferTypeName maps a field's static Go type onto a canonical type name.
func inferTypeName(t reflect.Type) string {
	switch t {
	case timeType:
		return "datetime"
	case uuidType:
		return "uuid"
	}
	switch t.Kind() {
	case reflect.Bool:
		return "bool"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "int"
	case reflect.Float32, reflect.Float64:
		return "float"
	case reflect.String:
		return "string"
	case reflect.Slice:
		return "array"
	case reflect.Interface, reflect.Map:
		return "any"
	default:
		return ""
	}
}
