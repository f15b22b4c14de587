package apiutil

import (
	"net/http"
	"strings"
	"time"

	"github.com/codr1/Courtly/internal/apperr"
)

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// ParseTime reads an ISO-8601 instant. Values without an offset are UTC.
func ParseTime(raw string, field string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, invalidField(field, "is required")
	}
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed.UTC(), nil
		}
	}
	return time.Time{}, invalidField(field, "must be an ISO-8601 timestamp")
}

// ParseOptionalTime is ParseTime for fields that may be absent.
func ParseOptionalTime(raw string, field string) (*time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	t, err := ParseTime(raw, field)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// FirstNonEmpty picks the first non-blank alias of a field.
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// FirstNonNil picks the first alias that was present in the request body.
func FirstNonNil[T any](values ...*T) *T {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

// PathID reads a required path wildcard.
func PathID(r *http.Request, name string) (string, error) {
	id := strings.TrimSpace(r.PathValue(name))
	if id == "" {
		return "", invalidField(name, "is required")
	}
	return id, nil
}

func invalidField(field, reason string) error {
	return apperr.ErrInvalidInput.WithMessage(FieldError{Field: field, Reason: reason}.Error())
}
