package api

import (
	"errors"
	"fmt"
)

// ErrUnavailable wraps transport failures talking to the API.
var ErrUnavailable = errors.New("api unavailable")

// Error is a rejection reported by the API. Message is the server-supplied
// text and may be empty.
type Error struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("api error: status %d: %s", e.StatusCode, e.Message)
}
