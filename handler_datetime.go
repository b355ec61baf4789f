package datamapper

import (
	"context"
	"strconv"
	"strings"
	"time"
)

// DefaultOutputLayout is the normalize-direction layout: ISO-8601 with
// microseconds and a numeric offset.
const DefaultOutputLayout = "2006-01-02T15:04:05.000000Z07:00"

// fallbackLayouts are always tried, in order, after any custom layout.
// A custom layout never exclusively gates success.
var fallbackLayouts = []string{
	"2006-01-02T15:04:05.999999Z07:00", // ISO-8601 with microseconds
	time.RFC3339,                       // ISO-8601 without microseconds
	"2006-01-02 15:04:05",              // date and time
	"2006-01-02",                       // date only
}

// DateTimeHandler converts strings, numerics and existing time values into
// time.Time. The registry builds and caches one instance per distinct
// (layout, timezone, output layout) configuration.
type DateTimeHandler struct {
	layout    string // optional custom input layout
	loc       *time.Location
	outLayout string
}

func NewDateTimeHandler(layout string, loc *time.Location, outLayout string) *DateTimeHandler {
	if loc == nil {
		loc = time.UTC
	}
	if outLayout == "" {
		outLayout = DefaultOutputLayout
	}
	return &DateTimeHandler{layout: layout, loc: loc, outLayout: outLayout}
}

func (h *DateTimeHandler) Denormalize(_ context.Context, _ *Scope, value any, nullable bool) (any, error) {
	if isNull, err := checkNull(value, nullable, "datetime"); isNull {
		return nil, err
	}
	switch v := value.(type) {
	case time.Time:
		return v, nil
	case *time.Time:
		if v == nil {
			if nullable {
				return nil, nil
			}
			return nil, NewNullNotAllowedError("datetime")
		}
		return *v, nil
	case string:
		if t, ok := h.parse(v); ok {
			return t, nil
		}
		return nil, NewTypeCoercionError("datetime", value)
	}
	if isNumeric(value) {
		n, _ := asInt64(value)
		return time.Unix(n, 0).In(h.loc), nil
	}
	return nil, NewTypeCoercionError("datetime", value)
}

func (h *DateTimeHandler) parse(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if h.layout != "" {
		if t, err := time.ParseInLocation(h.layout, s, h.loc); err == nil {
			return t, true
		}
	}
	for _, layout := range fallbackLayouts {
		if t, err := time.ParseInLocation(layout, s, h.loc); err == nil {
			return t, true
		}
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(n, 0).In(h.loc), true
	}
	return time.Time{}, false
}

func (h *DateTimeHandler) Normalize(_ context.Context, value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case time.Time:
		return v.Format(h.outLayout), nil
	case *time.Time:
		if v == nil {
			return nil, nil
		}
		return v.Format(h.outLayout), nil
	}
	return nil, NewTypeCoercionError("datetime", value)
}
