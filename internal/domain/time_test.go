package domain

import (
	"encoding/json"
	"testing"
	"time"
)

func TestTime_UnmarshalJSON(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
		zero bool
	}{
		{in: `"2024-05-01T10:00:00"`, want: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)},
		{in: `"2024-05-01T10:00:00.123456"`, want: time.Date(2024, 5, 1, 10, 0, 0, 123456000, time.UTC)},
		{in: `"2024-05-01T10:00:00Z"`, want: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)},
		{in: `null`, zero: true},
		{in: `""`, zero: true},
	}

	for _, tc := range cases {
		var got Time
		if err := json.Unmarshal([]byte(tc.in), &got); err != nil {
			t.Fatalf("unmarshal %s: %v", tc.in, err)
		}
		if tc.zero {
			if !got.IsZero() {
				t.Fatalf("expected zero time for %s, got %v", tc.in, got)
			}
			continue
		}
		if !got.Equal(tc.want) {
			t.Fatalf("unmarshal %s: got %v want %v", tc.in, got.Time, tc.want)
		}
	}
}

func TestTime_UnmarshalJSON_Invalid(t *testing.T) {
	var got Time
	if err := json.Unmarshal([]byte(`"yesterday"`), &got); err == nil {
		t.Fatalf("expected error")
	}
}

func TestTime_UnixNil(t *testing.T) {
	var tm *Time
	if tm.Unix() != 0 {
		t.Fatalf("expected 0 for nil time")
	}
}
