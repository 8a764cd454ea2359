// Package images finds stock photos for image blocks. With an access
// key it queries an Unsplash-compatible API; without one it serves
// deterministic placeholders so decks render offline.
package images

import (
	"errors"
	"fmt"
	"net"
	"strings"
)

// ErrCircuitOpen is returned when the circuit breaker is rejecting
// requests after repeated photo API failures.
var ErrCircuitOpen = errors.New("photo API circuit breaker is open")

// SearchError wraps a failed search with its query context.
type SearchError struct {
	Query     string
	Err       error
	Retryable bool
}

func (e *SearchError) Error() string {
	return fmt.Sprintf("image search %q failed: %v", e.Query, e.Err)
}

func (e *SearchError) Unwrap() error { return e.Err }

// IsRetryable returns true if the error is retryable.
func (e *SearchError) IsRetryable() bool { return e.Retryable }

// HTTPError represents an HTTP error response from the photo API.
type HTTPError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("photo API: HTTP %d %s: %s", e.StatusCode, e.Status, e.Body)
	}
	return fmt.Sprintf("photo API: HTTP %d %s", e.StatusCode, e.Status)
}

// IsRetryable returns true for 5xx errors and 429 (rate limit).
func (e *HTTPError) IsRetryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == 429
}

// newSearchError creates a SearchError with retryable detection.
func newSearchError(query string, err error) *SearchError {
	return &SearchError{Query: query, Err: err, Retryable: isRetryableError(err)}
}

func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.IsRetryable()
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}

	errStr := strings.ToLower(err.Error())
	transientPatterns := []string{
		"connection refused",
		"connection reset",
		"no such host",
		"timeout",
		"deadline exceeded",
		"temporary failure",
		"service unavailable",
		"bad gateway",
		"gateway timeout",
	}
	for _, pattern := range transientPatterns {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}
	return false
}
