package backend

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthorized matches an *APIError with status 401 or 403
	ErrUnauthorized    = errors.New("backend: unauthorized")
	ErrInvalidResponse = errors.New("backend: invalid response")
)

// APIError is a non-2xx answer from the backend
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("backend: %d %s", e.StatusCode, e.Message)
}

func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized &&
		(e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden)
}

// Temporary reports whether the request may succeed when repeated
func (e *APIError) Temporary() bool {
	return e.StatusCode >= http.StatusInternalServerError || e.StatusCode == http.StatusTooManyRequests
}
