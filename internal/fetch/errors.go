package fetch

import (
	"errors"
	"fmt"
	"net/http"
)

// Common errors returned by the client.
var (
	// ErrNotFound indicates the document does not exist.
	ErrNotFound = errors.New("document not found")

	// ErrRateLimited indicates the server refused the request as too frequent.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrHTTP indicates any other unsuccessful HTTP status.
	ErrHTTP = errors.New("HTTP error")

	// ErrNetworkError indicates a network connectivity issue.
	ErrNetworkError = errors.New("network error")

	// ErrTooLarge indicates the document exceeds the size limit.
	ErrTooLarge = errors.New("document too large")
)

// StatusError is an unsuccessful HTTP response.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetching %s: status %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// Unwrap maps the status to the matching sentinel error.
func (e *StatusError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusNotFound, http.StatusGone:
		return ErrNotFound
	case http.StatusTooManyRequests:
		return ErrRateLimited
	}
	return ErrHTTP
}

// IsNotFound returns true if the error indicates the document was not found.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsRateLimited returns true if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}
