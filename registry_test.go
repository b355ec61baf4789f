package datamapper

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/igorpocta/data-mapper-sub003/internal/descriptor"
)

func fieldOf(t *testing.T, sample any, name string) *descriptor.Field {
	t.Helper()
	set, err := descriptor.Build(reflect.TypeOf(sample))
	require.NoError(t, err)
	for i := range set.Fields {
		if set.Fields[i].Name == name {
			return &set.Fields[i]
		}
	}
	t.Fatalf("no field %s", name)
	return nil
}

func TestRegistryResolvesPrimitivesAndAliases(t *testing.T) {
	type sample struct {
		A bool    `dmap:"a"`
		B int     `dmap:"b,type=integer"`
		C float64 `dmap:"c,type=double"`
		D string  `dmap:"d,type=str"`
		E any     `dmap:"e"`
	}
	m, err := New()
	require.NoError(t, err)
	r := m.Registry()

	for name, want := range map[string]TypeHandler{
		"A": BoolHandler{},
		"B": IntHandler{},
		"C": FloatHandler{},
		"D": StringHandler{},
		"E": RawHandler{},
	} {
		h, err := r.resolveField(fieldOf(t, sample{}, name))
		require.NoError(t, err)
		assert.IsType(t, want, h, "field %s", name)
	}
}

func TestRegistryParametrizedCaching(t *testing.T) {
	type sample struct {
		A time.Time `dmap:"a,format=02.01.2006"`
		B time.Time `dmap:"b,format=02.01.2006"`
		C time.Time `dmap:"c,format=2006/01/02"`
	}
	m, err := New()
	require.NoError(t, err)
	r := m.Registry()

	ha, err := r.resolveField(fieldOf(t, sample{}, "A"))
	require.NoError(t, err)
	hb, err := r.resolveField(fieldOf(t, sample{}, "B"))
	require.NoError(t, err)
	hc, err := r.resolveField(fieldOf(t, sample{}, "C"))
	require.NoError(t, err)

	assert.Same(t, ha, hb, "one handler per distinct configuration")
	assert.NotSame(t, ha, hc)
}

type reversed string

type reverseHandler struct{}

func (reverseHandler) Denormalize(_ context.Context, _ *Scope, value any, nullable bool) (any, error) {
	if isNull, err := checkNull(value, nullable, "reversed"); isNull {
		return nil, err
	}
	s, ok := value.(string)
	if !ok {
		return nil, NewTypeCoercionError("reversed", value)
	}
	runes := []rune(s)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return reversed(runes), nil
}

func (reverseHandler) Normalize(_ context.Context, value any) (any, error) {
	return string(value.(reversed)), nil
}

func TestRegistryRuntimeRegistration(t *testing.T) {
	type sample struct {
		V reversed `dmap:"v,type=reversed"`
	}
	m, err := New()
	require.NoError(t, err)
	m.Registry().Register(reverseHandler{}, "reversed", "backwards")

	var s sample
	require.NoError(t, m.Decode(context.Background(), Payload{"v": "abc"}, &s))
	assert.Equal(t, reversed("cba"), s.V)
}

func TestRegistryAliasOverwriteIsSilent(t *testing.T) {
	m, err := New()
	require.NoError(t, err)
	r := m.Registry()

	// "integer" initially aliases int; rebinding it must not complain
	r.Register(reverseHandler{}, "reversed", "integer")

	type sample struct {
		V reversed `dmap:"v,type=integer"`
	}
	h, err := r.resolveField(fieldOf(t, sample{}, "V"))
	require.NoError(t, err)
	assert.IsType(t, reverseHandler{}, h)
}

func TestRegistryUnsupportedTypeListsKnownNames(t *testing.T) {
	type sample struct {
		V int `dmap:"v,type=nope"`
	}
	m, err := New()
	require.NoError(t, err)

	_, err = m.Registry().resolveField(fieldOf(t, sample{}, "V"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedType)
	assert.Contains(t, err.Error(), "bool")
	assert.Contains(t, err.Error(), "integer")
	assert.Contains(t, err.Error(), "uuid")
}

func TestRegistryUnsupportedTypeListsRegisteredTypes(t *testing.T) {
	type sample struct {
		V any `dmap:"v,of=Adress"`
	}
	m, err := New()
	require.NoError(t, err)
	require.NoError(t, m.Registry().RegisterType("Address", testAddress{}))

	_, err = m.Registry().resolveField(fieldOf(t, sample{}, "V"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedType)
	assert.Contains(t, err.Error(), "Address", "a misspelled override lists the registered types")
}

func TestRegistryNestedTypeOverride(t *testing.T) {
	type payloadOnly struct {
		Raw    any `dmap:"raw"`
		Shaped any `dmap:"shaped,of=Address"`
	}
	m, err := New()
	require.NoError(t, err)
	require.NoError(t, m.Registry().RegisterType("Address", testAddress{}))

	var p payloadOnly
	err = m.Decode(context.Background(), Payload{
		"raw":    map[string]any{"anything": true},
		"shaped": map[string]any{"street": "Main", "zip": "11000"},
	}, &p)
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"anything": true}, p.Raw)
	addr, ok := p.Shaped.(*testAddress)
	require.True(t, ok)
	assert.Equal(t, testAddress{Street: "Main", Zip: 11000}, *addr)
}

func TestRegistryElementTypeOverride(t *testing.T) {
	type listing struct {
		Rows []any `dmap:"rows,elem=Address"`
	}
	m, err := New()
	require.NoError(t, err)
	require.NoError(t, m.Registry().RegisterType("Address", testAddress{}))

	var l listing
	err = m.Decode(context.Background(), Payload{
		"rows": []any{
			map[string]any{"street": "A", "zip": 1},
			map[string]any{"street": "B", "zip": 2},
		},
	}, &l)
	require.NoError(t, err)
	require.Len(t, l.Rows, 2)
	addr, ok := l.Rows[1].(*testAddress)
	require.True(t, ok)
	assert.Equal(t, testAddress{Street: "B", Zip: 2}, *addr)
}

func TestRegistryRegisterTypeValidation(t *testing.T) {
	m, err := New()
	require.NoError(t, err)
	assert.ErrorIs(t, m.Registry().RegisterType("bad", 42), ErrInvalidConfiguration)
	assert.NoError(t, m.Registry().RegisterType("ptr", &testAddress{}))
}
