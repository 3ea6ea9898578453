package httpapi

import (
	"bytes"
	"encoding/json"
)

// Page is the paginated envelope list endpoints return. A bare JSON array is
// accepted as a single page.
type Page[T any] struct {
	Content       []T  `json:"content"`
	TotalElements int  `json:"totalElements"`
	TotalPages    int  `json:"totalPages"`
	Number        int  `json:"number"`
	Size          int  `json:"size"`
	Last          bool `json:"last"`
}

// pageFields drops the UnmarshalJSON method so decoding does not recurse.
type pageFields[T any] Page[T]

func (p *Page[T]) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '[' {
		var items []T
		if err := json.Unmarshal(b, &items); err != nil {
			return err
		}
		*p = Page[T]{Content: items, TotalElements: len(items), TotalPages: 1, Size: len(items), Last: true}
		return nil
	}

	var r pageFields[T]
	if err := json.Unmarshal(b, &r); err != nil {
		return err
	}
	*p = Page[T](r)
	return nil
}
