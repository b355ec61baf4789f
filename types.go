package datamapper

// Payload is the untyped structured input/output unit: a mapping of string
// keys to dynamic values (scalars, nested mappings, or sequences). Payloads
// are owned by the caller and read-only to the mapper, except where a
// hydrator or filter replaces a field's effective value.
type Payload = map[string]any

// Scope carries call-scoped state through recursive handler invocations.
type Scope struct {
	// Root is the outermost payload of the current Decode call. It is
	// threaded through every recursive call so FULL-mode hydrators can
	// reach the top-level payload from any depth.
	Root Payload

	// Path is the fully qualified dotted path of the value being converted.
	Path string
}

// WithPath returns a copy of the scope pointing at a child path.
func (s *Scope) WithPath(path string) *Scope {
	return &Scope{Root: s.Root, Path: path}
}

// HydratorFunc computes a field value from payload context. Its input
// depends on the mode declared in the field tag: the raw field value
// (mode=value), the immediate containing payload (mode=parent), or the
// top-level payload of the whole Decode call (mode=full).
type HydratorFunc func(input any) (any, error)

// FilterFunc transforms a field value. Filters run in declared order,
// once on the raw value before coercion and again on the typed value.
type FilterFunc func(value any) any

// joinPath builds a fully qualified field path.
func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
