// Package descriptor builds and caches per-field mapping metadata.
//
// Metadata is declared on struct fields with the `dmap` tag and parsed
// exactly once per struct type. The rest of the module consumes only the
// resulting plain descriptors, never raw struct tags.
package descriptor

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// TagName is the struct tag consumed by the mapper.
const TagName = "dmap"

// HydrationMode selects the input handed to a field's hydrator.
type HydrationMode int

const (
	// ModeValue passes the raw field value.
	ModeValue HydrationMode = iota
	// ModeParent passes the immediate containing payload.
	ModeParent
	// ModeFull passes the top-level payload of the whole decode call.
	ModeFull
)

func (m HydrationMode) String() string {
	switch m {
	case ModeValue:
		return "value"
	case ModeParent:
		return "parent"
	case ModeFull:
		return "full"
	default:
		return "unknown"
	}
}

// Field is the parsed metadata of one mapped struct field.
type Field struct {
	// Name is the Go field name, Index its reflect traversal path.
	Name  string
	Index []int

	// Key is the payload key the field maps to.
	Key string

	// Type is the field's static Go type.
	Type reflect.Type

	// TypeName is the explicit type tag, empty when the Go type decides.
	TypeName string

	// Required fields resolve in the first engine phase; any failure
	// there aborts the whole call before the target is written.
	Required bool

	// Nullable fields accept null; derived from the Go type.
	Nullable bool

	// HasDefault reports whether Default carries a literal to use when
	// the payload lacks the key.
	HasDefault bool
	Default    string

	// Date/time configuration.
	Format       string
	Timezone     string
	OutputFormat string

	// ElemTypeName overrides the element type of sequence fields,
	// NestedTypeName the target type of mapping fields. Both name types
	// registered on the registry.
	ElemTypeName   string
	NestedTypeName string

	// Hydrator names a registered hydrator function, Mode its input.
	Hydrator string
	Mode     HydrationMode

	// Filters names registered value transforms, applied in order.
	Filters []string
}

// Set is the full descriptor of one struct type.
type Set struct {
	Type   reflect.Type
	Fields []Field

	// Keys indexes fields by payload key, for strict-mode checks.
	Keys map[string]*Field
}

// Build parses the dmap tags of a struct type into a descriptor set.
// Anonymous embedded structs are flattened into the set.
func Build(t reflect.Type) (*Set, error) {
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("descriptor: %s is not a struct type", t)
	}
	set := &Set{Type: t, Keys: make(map[string]*Field)}
	if err := collect(set, t, nil); err != nil {
		return nil, err
	}
	for i := range set.Fields {
		fd := &set.Fields[i]
		set.Keys[fd.Key] = fd
	}
	return set, nil
}

func collect(set *Set, t reflect.Type, index []int) error {
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.PkgPath != "" {
			continue // unexported
		}
		fieldIndex := append(append([]int(nil), index...), i)
		if sf.Anonymous && sf.Type.Kind() == reflect.Struct && sf.Tag.Get(TagName) == "" {
			if err := collect(set, sf.Type, fieldIndex); err != nil {
				return err
			}
			continue
		}
		fd, skip, err := parseField(sf)
		if err != nil {
			return fmt.Errorf("descriptor: %s.%s: %w", t, sf.Name, err)
		}
		if skip {
			continue
		}
		fd.Index = fieldIndex
		set.Fields = append(set.Fields, fd)
	}
	return nil
}

func parseField(sf reflect.StructField) (Field, bool, error) {
	tag := sf.Tag.Get(TagName)
	if tag == "-" {
		return Field{}, true, nil
	}
	fd := Field{
		Name:     sf.Name,
		Type:     sf.Type,
		Nullable: isNullable(sf.Type),
	}
	parts := strings.Split(tag, ",")
	if key := strings.TrimSpace(parts[0]); key != "" {
		fd.Key = key
	} else {
		fd.Key = SnakeCase(sf.Name)
	}
	for _, opt := range parts[1:] {
		opt = strings.TrimSpace(opt)
		if opt == "" {
			continue
		}
		name, value, hasValue := strings.Cut(opt, "=")
		if !hasValue {
			switch name {
			case "required":
				fd.Required = true
			default:
				return Field{}, false, fmt.Errorf("unknown tag option %q", opt)
			}
			continue
		}
		switch name {
		case "type":
			fd.TypeName = value
		case "format":
			fd.Format = value
		case "tz":
			fd.Timezone = value
		case "out":
			fd.OutputFormat = value
		case "elem":
			fd.ElemTypeName = value
		case "of":
			fd.NestedTypeName = value
		case "default":
			fd.HasDefault = true
			fd.Default = value
		case "hydrator":
			fd.Hydrator = value
		case "mode":
			mode, err := parseMode(value)
			if err != nil {
				return Field{}, false, err
			}
			fd.Mode = mode
		case "filters":
			for _, f := range strings.Split(value, "|") {
				if f = strings.TrimSpace(f); f != "" {
					fd.Filters = append(fd.Filters, f)
				}
			}
		default:
			return Field{}, false, fmt.Errorf("unknown tag option %q", name)
		}
	}
	return fd, false, nil
}

func parseMode(value string) (HydrationMode, error) {
	switch value {
	case "value":
		return ModeValue, nil
	case "parent":
		return ModeParent, nil
	case "full":
		return ModeFull, nil
	default:
		return ModeValue, fmt.Errorf("unknown hydration mode %q", value)
	}
}

func isNullable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map:
		return true
	default:
		return false
	}
}

// SnakeCase converts a Go field name to its default payload key,
// e.g. "BirthDate" -> "birth_date", "UserID" -> "user_id".
func SnakeCase(name string) string {
	var b strings.Builder
	runes := []rune(name)
	for i, r := range runes {
		if r >= 'A' && r <= 'Z' {
			prevLower := i > 0 && isLower(runes[i-1])
			nextLower := i+1 < len(runes) && isLower(runes[i+1])
			if i > 0 && (prevLower || nextLower) {
				b.WriteByte('_')
			}
			b.WriteRune(r - 'A' + 'a')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isLower(r rune) bool { return r >= 'a' && r <= 'z' }

// Cache holds one descriptor set per struct type for the process lifetime.
type Cache struct {
	mu   sync.RWMutex
	sets map[reflect.Type]*Set
}

func NewCache() *Cache {
	return &Cache{sets: make(map[reflect.Type]*Set)}
}

// Load returns the descriptor set for t, building it on first use.
// The second result reports whether the set was served from cache.
func (c *Cache) Load(t reflect.Type) (*Set, bool, error) {
	c.mu.RLock()
	set, ok := c.sets[t]
	c.mu.RUnlock()
	if ok {
		return set, true, nil
	}
	set, err := Build(t)
	if err != nil {
		return nil, false, err
	}
	c.mu.Lock()
	c.sets[t] = set
	c.mu.Unlock()
	return set, false, nil
}
