package datamapper

import (
	"context"

	"github.com/google/uuid"
)

// UUIDHandler converts RFC 4122 string and 16-byte forms into uuid.UUID.
type UUIDHandler struct{}

func (UUIDHandler) Denormalize(_ context.Context, _ *Scope, value any, nullable bool) (any, error) {
	if isNull, err := checkNull(value, nullable, "uuid"); isNull {
		return nil, err
	}
	switch v := value.(type) {
	case uuid.UUID:
		return v, nil
	case string:
		id, err := uuid.Parse(v)
		if err != nil {
			return nil, NewTypeCoercionError("uuid", value)
		}
		return id, nil
	case []byte:
		id, err := uuid.FromBytes(v)
		if err != nil {
			return nil, NewTypeCoercionError("uuid", value)
		}
		return id, nil
	}
	return nil, NewTypeCoercionError("uuid", value)
}

func (UUIDHandler) Normalize(_ context.Context, value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case uuid.UUID:
		return v.String(), nil
	case string:
		return v, nil
	}
	return nil, NewTypeCoercionError("uuid", value)
}
