package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Time accepts both RFC 3339 timestamps and the zone-less local date-times the
// backend emits (2024-05-01T10:00:00, optionally with fractional seconds).
type Time struct {
	time.Time
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func NewTime(t time.Time) *Time {
	return &Time{Time: t}
}

func ParseTime(s string) (Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Time{Time: t}, nil
		}
	}
	return Time{}, fmt.Errorf("unsupported time format %q", s)
}

func (t *Time) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	parsed, err := ParseTime(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339))
}

// Unix returns 0 for a nil or zero time so that comparisons treat a missing
// timestamp as the epoch.
func (t *Time) Unix() int64 {
	if t == nil || t.IsZero() {
		return 0
	}
	return t.Time.Unix()
}

func (t *Time) UnixMilli() int64 {
	if t == nil || t.IsZero() {
		return 0
	}
	return t.Time.UnixMilli()
}
