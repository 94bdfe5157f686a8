// Package fetcher downloads pages from the rating site and reads the CSV and
// XLSX files operators import.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound is returned when the server answers 404 or 410.
var ErrNotFound = errors.New("fetcher: not found")

// Page is a fully read HTTP response.
type Page struct {
	URL        string
	StatusCode int
	Header     http.Header
	Body       []byte
}

// StatusError is returned for a non-2xx response that is neither retryable
// nor a not-found.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetcher: unexpected status %d from %s", e.StatusCode, e.URL)
}

// Fetcher retrieves pages.
type Fetcher interface {
	Get(ctx context.Context, url string) (*Page, error)
}
