package datamapper

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/hengadev/errsx"
)

var (
	// Configuration errors
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrNotStructPointer     = errors.New("target must be a non-nil pointer to a struct")

	// Field errors
	ErrMissingRequiredField = errors.New("missing required field")
	ErrUnknownField         = errors.New("unknown field")
	ErrTypeCoercion         = errors.New("type coercion failed")
	ErrNestedValidation     = errors.New("nested validation failed")
	ErrHydratorFailure      = errors.New("hydrator failed")
	ErrUnsupportedType      = errors.New("unsupported type")
)

func NewMissingRequiredFieldError(key string) error {
	return fmt.Errorf("%w: '%s' has no value, no default and does not accept null", ErrMissingRequiredField, key)
}

func NewUnknownFieldError(key string) error {
	return fmt.Errorf("%w: '%s' is not declared on the target type", ErrUnknownField, key)
}

func NewNullNotAllowedError(typeName string) error {
	return fmt.Errorf("%w: type '%s' does not accept null", ErrTypeCoercion, typeName)
}

func NewTypeCoercionError(typeName string, value any) error {
	return fmt.Errorf("%w: value '%v' (%T) cannot be converted to %s", ErrTypeCoercion, value, value, typeName)
}

func NewHydratorNotRegisteredError(name string) error {
	return fmt.Errorf("%w: hydrator '%s' is not registered", ErrHydratorFailure, name)
}

func NewHydratorError(name string, err error) error {
	return fmt.Errorf("%w: hydrator '%s': %v", ErrHydratorFailure, name, err)
}

func NewFilterNotRegisteredError(name string) error {
	return fmt.Errorf("%w: filter '%s' is not registered", ErrInvalidConfiguration, name)
}

func NewUnsupportedTypeError(typeName string, known []string) error {
	return fmt.Errorf("%w: no handler for type '%s', known types: %s",
		ErrUnsupportedType, typeName, strings.Join(known, ", "))
}

// IsConfigurationError returns true if the error represents a setup problem
// rather than bad payload data.
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrInvalidConfiguration) ||
		errors.Is(err, ErrNotStructPointer) ||
		errors.Is(err, ErrUnsupportedType)
}

// IsFieldError returns true if the error represents a per-field payload problem.
func IsFieldError(err error) bool {
	return errors.Is(err, ErrMissingRequiredField) ||
		errors.Is(err, ErrUnknownField) ||
		errors.Is(err, ErrTypeCoercion) ||
		errors.Is(err, ErrNestedValidation) ||
		errors.Is(err, ErrHydratorFailure)
}

// ValidationError is the sole failure artifact of a Decode or Encode call.
// It carries one entry per failing field, keyed by the fully qualified
// dotted field path. No partial result accompanies it.
type ValidationError struct {
	errs errsx.Map
}

// NewValidationError wraps an accumulated error set. The set is copied so
// later engine passes cannot mutate a returned artifact.
func NewValidationError(errs errsx.Map) *ValidationError {
	copied := make(errsx.Map, len(errs))
	for path, err := range errs {
		copied.Set(path, err)
	}
	return &ValidationError{errs: copied}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %d field(s): %s", len(e.errs), e.errs.AsError())
}

// Errors returns the underlying path -> error set.
func (e *ValidationError) Errors() map[string]error {
	out := make(map[string]error, len(e.errs))
	for path, err := range e.errs {
		out[path] = err
	}
	return out
}

// Messages returns the path -> message form of the error set.
func (e *ValidationError) Messages() map[string]string {
	out := make(map[string]string, len(e.errs))
	for path, err := range e.errs {
		out[path] = err.Error()
	}
	return out
}

// Paths returns the failing field paths in lexical order.
func (e *ValidationError) Paths() []string {
	paths := make([]string, 0, len(e.errs))
	for path := range e.errs {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// PathError returns the error recorded at a single path, if any.
func (e *ValidationError) PathError(path string) (error, bool) {
	err, ok := e.errs[path]
	return err, ok
}

func (e *ValidationError) Len() int { return len(e.errs) }

// AsValidationError unwraps err into a *ValidationError when possible.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// mergeErrs folds src into dst, preserving src's path qualification verbatim.
func mergeErrs(dst *errsx.Map, src map[string]error) {
	for path, err := range src {
		dst.Set(path, err)
	}
}
