package datamapper

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateTimeFallbackChain(t *testing.T) {
	h := NewDateTimeHandler("", nil, "")
	ctx := context.Background()
	scope := &Scope{Path: "when"}

	tests := []struct {
		name  string
		value any
		want  time.Time
	}{
		{"iso with microseconds", "2024-01-15T10:30:00.123456+01:00",
			time.Date(2024, 1, 15, 10, 30, 0, 123456000, time.FixedZone("", 3600))},
		{"iso without microseconds", "2024-01-15T10:30:00Z",
			time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)},
		{"date and time", "2024-01-15 10:30:00",
			time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)},
		{"date only", "2024-01-15",
			time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"unix timestamp string", "1705314600",
			time.Unix(1705314600, 0).In(time.UTC)},
		{"unix timestamp int", 1705314600,
			time.Unix(1705314600, 0).In(time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := h.Denormalize(ctx, scope, tt.value, false)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got.(time.Time)), "got %v, want %v", got, tt.want)
		})
	}
}

func TestDateTimeCustomFormatNeverGatesSuccess(t *testing.T) {
	// a custom format that doesn't match the input must not block the
	// ordered fallback list
	h := NewDateTimeHandler("02.01.2006", nil, "")
	ctx := context.Background()
	scope := &Scope{Path: "when"}

	got, err := h.Denormalize(ctx, scope, "15.01.2024", false)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), got)

	got, err = h.Denormalize(ctx, scope, "2024-01-15", false)
	require.NoError(t, err, "fallbacks are always tried after the custom format")
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), got)
}

func TestDateTimeFailureNamesValue(t *testing.T) {
	h := NewDateTimeHandler("", nil, "")
	_, err := h.Denormalize(context.Background(), &Scope{Path: "when"}, "not-a-date", false)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTypeCoercion)
	assert.Contains(t, err.Error(), "not-a-date")
}

func TestDateTimeExistingValuePassesThrough(t *testing.T) {
	h := NewDateTimeHandler("", nil, "")
	now := time.Now()
	got, err := h.Denormalize(context.Background(), &Scope{Path: "when"}, now, false)
	require.NoError(t, err)
	assert.Equal(t, now, got)
}

func TestDateTimeTypedNilPointer(t *testing.T) {
	h := NewDateTimeHandler("", nil, "")
	var when *time.Time

	got, err := h.Denormalize(context.Background(), &Scope{Path: "when"}, when, true)
	require.NoError(t, err, "a typed nil pointer is null")
	assert.Nil(t, got)

	_, err = h.Denormalize(context.Background(), &Scope{Path: "when"}, when, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTypeCoercion)
}

func TestDateTimeTimezone(t *testing.T) {
	prague, err := time.LoadLocation("Europe/Prague")
	require.NoError(t, err)
	h := NewDateTimeHandler("", prague, "")

	got, err := h.Denormalize(context.Background(), &Scope{Path: "when"}, "2024-06-01 12:00:00", false)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 1, 12, 0, 0, 0, prague), got)
}

func TestDateTimeNormalize(t *testing.T) {
	h := NewDateTimeHandler("", nil, "")
	when := time.Date(2024, 1, 15, 10, 30, 0, 123456000, time.UTC)

	raw, err := h.Normalize(context.Background(), when)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-15T10:30:00.123456Z", raw)

	custom := NewDateTimeHandler("", nil, "2006-01-02")
	raw, err = custom.Normalize(context.Background(), when)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-15", raw)

	_, err = h.Normalize(context.Background(), "not a time")
	assert.Error(t, err)
}
