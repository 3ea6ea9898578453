package repository

import (
	"bytes"
	"encoding/json"
)

// flexibleMessage decodes {"message": "..."}, a JSON string, or anything else
// as raw text.
type flexibleMessage string

func (m *flexibleMessage) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	var obj message
	if err := json.Unmarshal(b, &obj); err == nil && obj.Message != "" {
		*m = flexibleMessage(obj.Message)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*m = flexibleMessage(s)
		return nil
	}
	*m = flexibleMessage(b)
	return nil
}

func (m *flexibleMessage) UnmarshalText(b []byte) error {
	*m = flexibleMessage(bytes.TrimSpace(b))
	return nil
}
