package datamapper

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsConfigurationError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"invalid configuration", ErrInvalidConfiguration, true},
		{"not struct pointer", ErrNotStructPointer, true},
		{"unsupported type", NewUnsupportedTypeError("nope", []string{"int"}), true},
		{"wrapped", fmt.Errorf("setup: %w", ErrInvalidConfiguration), true},
		{"coercion", NewTypeCoercionError("int", "x"), false},
		{"plain", errors.New("boom"), false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsConfigurationError(tt.err); got != tt.want {
				t.Errorf("IsConfigurationError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestIsFieldError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"missing required", NewMissingRequiredFieldError("name"), true},
		{"unknown field", NewUnknownFieldError("extra"), true},
		{"coercion", NewTypeCoercionError("int", "x"), true},
		{"null not allowed", NewNullNotAllowedError("int"), true},
		{"nested", ErrNestedValidation, true},
		{"hydrator", NewHydratorError("slugify", errors.New("boom")), true},
		{"hydrator not registered", NewHydratorNotRegisteredError("slugify"), true},
		{"configuration", ErrInvalidConfiguration, false},
		{"plain", errors.New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsFieldError(tt.err); got != tt.want {
				t.Errorf("IsFieldError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestFilterNotRegisteredIsConfiguration(t *testing.T) {
	err := NewFilterNotRegisteredError("trim")
	if !IsConfigurationError(err) {
		t.Errorf("filter registration gaps are configuration errors, got %v", err)
	}
	if IsFieldError(err) {
		t.Errorf("filter registration gaps are not field errors")
	}
}

func TestValidationErrorAccessors(t *testing.T) {
	age := NewTypeCoercionError("int", "thirty")
	zip := NewMissingRequiredFieldError("zip")
	ve := NewValidationError(map[string]error{
		"age":         age,
		"address.zip": zip,
	})

	if got := ve.Len(); got != 2 {
		t.Fatalf("Len() = %d, want 2", got)
	}

	paths := ve.Paths()
	if len(paths) != 2 || paths[0] != "address.zip" || paths[1] != "age" {
		t.Errorf("Paths() = %v, want lexical order [address.zip age]", paths)
	}

	if err, ok := ve.PathError("age"); !ok || !errors.Is(err, ErrTypeCoercion) {
		t.Errorf("PathError(age) = %v, %v", err, ok)
	}
	if _, ok := ve.PathError("missing"); ok {
		t.Error("PathError(missing) reported an entry")
	}

	msgs := ve.Messages()
	if msgs["age"] != age.Error() {
		t.Errorf("Messages()[age] = %q", msgs["age"])
	}

	all := ve.Errors()
	if !errors.Is(all["address.zip"], ErrMissingRequiredField) {
		t.Errorf("Errors()[address.zip] = %v", all["address.zip"])
	}
}

func TestValidationErrorCopiesItsSet(t *testing.T) {
	src := map[string]error{"age": NewTypeCoercionError("int", "x")}
	ve := NewValidationError(src)
	src["late"] = errors.New("added after the fact")

	if ve.Len() != 1 {
		t.Errorf("Len() = %d after mutating the source set, want 1", ve.Len())
	}
}

func TestAsValidationError(t *testing.T) {
	ve := NewValidationError(map[string]error{"f": NewTypeCoercionError("int", "x")})

	got, ok := AsValidationError(fmt.Errorf("decode: %w", ve))
	if !ok || got != ve {
		t.Fatalf("AsValidationError failed to unwrap: %v, %v", got, ok)
	}
	if _, ok := AsValidationError(errors.New("boom")); ok {
		t.Error("AsValidationError matched a plain error")
	}
	if _, ok := AsValidationError(nil); ok {
		t.Error("AsValidationError matched nil")
	}
}
