package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyQuery is returned when a search is submitted without query text.
	ErrEmptyQuery = errors.New("query text is empty")

	// ErrInvalidResultCount is returned when the requested result count is not one of ResultCounts.
	ErrInvalidResultCount = errors.New("result count must be one of 5, 10, 15, 20, 25")

	// ErrMalformedResponse is returned when a backend payload does not follow the wire contract.
	ErrMalformedResponse = errors.New("malformed search response")
)

// BackendError is an error reported by the backend in its {"error": "..."} payload.
type BackendError struct {
	Status  int
	Message string
}

func (e *BackendError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("search backend returned status %d", e.Status)
}
