// Package datamapper converts untyped structured data (maps, sequences and
// scalars) into strongly typed struct values based on declarative `dmap`
// struct tags, and projects typed values back into payload form.
//
// The mapper walks a target struct's fields, resolves a type handler for
// each from a runtime registry, and coerces the raw payload values. Errors
// are not fail-fast: one Decode call reports every failing field at once,
// keyed by its fully qualified dotted path ("address.zip", "items.2.price").
// Required fields are the exception — a failing required field aborts the
// call before the target is written, so no partial value ever escapes.
//
// # Quick start
//
//	type Address struct {
//	    Street string `dmap:"street"`
//	    Zip    int    `dmap:"zip"`
//	}
//
//	type Person struct {
//	    Name    string     `dmap:"name,required"`
//	    Age     int        `dmap:"age"`
//	    Born    time.Time  `dmap:"born,format=2006-01-02"`
//	    Address *Address   `dmap:"address"`
//	    Tags    []string   `dmap:"tags"`
//	}
//
//	m, _ := datamapper.New()
//	var p Person
//	err := m.Decode(ctx, datamapper.Payload{
//	    "name": "Ann", "age": "30", "born": "1994-05-01",
//	    "address": map[string]any{"street": "Main", "zip": "11000"},
//	    "tags":    []any{"a", "b"},
//	}, &p)
//
// On failure err is a *ValidationError carrying one message per failing
// field path.
//
// # Struct tags
//
// The first tag element is the payload key (defaults to the snake_case
// field name, "-" skips the field). Options follow, comma-separated:
//
//   - required          resolve in the aborting first phase
//   - type=<name>       explicit handler name ("int", "datetime", "uuid", ...)
//   - format=<layout>   custom date/time input layout, tried before fallbacks
//   - tz=<zone>         IANA timezone for date/time parsing (default UTC)
//   - out=<layout>      date/time output layout for Encode
//   - elem=<name>       element type override for sequence fields
//   - of=<name>         target type override for mapping fields
//   - default=<literal> used when the payload lacks the key
//   - hydrator=<name>   registered hydrator computing the value
//   - mode=<m>          hydrator input: value, parent or full
//   - filters=a|b|c     registered transforms, applied in order
//
// Pointer fields are nullable; a null payload value becomes nil. Non-pointer
// fields reject null.
//
// # Extending
//
// New handlers register at runtime under a canonical name plus aliases via
// Registry.Register. Enum types register their case sets with
// Registry.RegisterBackedEnum (scalar-valued) or Registry.RegisterUnitEnum
// (name-only). Hydrators and filters register on the Mapper by the names
// the tags reference.
//
// # Observability and events
//
// WithObservabilityHook or WithMetricsCollector report operation timings,
// errors and descriptor cache hits; the default hook is a no-op. Listeners
// registered with WithListener can replace the payload before decoding,
// mutate the result, or suppress a pending failure.
package datamapper
