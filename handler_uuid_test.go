package datamapper

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestUUIDHandlerDenormalize(t *testing.T) {
	id := uuid.MustParse("a3bb189e-8bf9-3888-9912-ace4e6543002")

	tests := []struct {
		name     string
		value    any
		nullable bool
		want     any
		wantErr  bool
	}{
		{"canonical string", "a3bb189e-8bf9-3888-9912-ace4e6543002", false, id, false},
		{"existing instance", id, false, id, false},
		{"raw bytes", id[:], false, id, false},
		{"malformed string", "not-a-uuid", false, nil, true},
		{"short bytes", []byte{1, 2, 3}, false, nil, true},
		{"null nullable", nil, true, nil, false},
		{"null not nullable", nil, false, nil, true},
		{"numeric", 42, false, nil, true},
	}
	h := UUIDHandler{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := h.Denormalize(context.Background(), &Scope{Path: "id"}, tt.value, tt.nullable)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Denormalize(%v) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("Denormalize(%v) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestUUIDHandlerNormalize(t *testing.T) {
	h := UUIDHandler{}
	id := uuid.MustParse("a3bb189e-8bf9-3888-9912-ace4e6543002")

	raw, err := h.Normalize(context.Background(), id)
	if err != nil || raw != "a3bb189e-8bf9-3888-9912-ace4e6543002" {
		t.Fatalf("Normalize(uuid) = %v, %v", raw, err)
	}
	raw, err = h.Normalize(context.Background(), "pass-through")
	if err != nil || raw != "pass-through" {
		t.Fatalf("Normalize(string) = %v, %v", raw, err)
	}
	if _, err := h.Normalize(context.Background(), 42); err == nil {
		t.Fatal("Normalize(42) should fail")
	}
}
