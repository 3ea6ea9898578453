package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error is a non-2xx backend response normalized to its status and the
// backend's message field.
type Error struct {
	Method  string
	Path    string
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	return fmt.Sprintf("%s %s: status=%d message=%s", e.Method, e.Path, e.Status, msg)
}

func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

func IsStatus(err error, codes ...int) bool {
	st := StatusOf(err)
	if st == 0 {
		return false
	}
	for _, c := range codes {
		if st == c {
			return true
		}
	}
	return false
}

// IsAuthAbsent reports a 401 or 403, which optional reads treat as "no data".
func IsAuthAbsent(err error) bool {
	return IsStatus(err, http.StatusUnauthorized, http.StatusForbidden)
}

func IsNotFound(err error) bool {
	return IsStatus(err, http.StatusNotFound)
}

// MessageOf returns the backend message carried by err, or fallback.
func MessageOf(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		if m := strings.TrimSpace(apiErr.Message); m != "" {
			return m
		}
	}
	return fallback
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}
