package source

import (
	"errors"
	"fmt"
)

var (
	// ErrNoTable indicates the document contains no <table> element.
	ErrNoTable = errors.New("source: no table found in the document")

	// ErrMissingColumns indicates a data row without exactly three cells.
	ErrMissingColumns = errors.New("source: missing columns in the table")

	// ErrFetch indicates the document could not be retrieved.
	ErrFetch = errors.New("source: failed to fetch document")

	// ErrBodyTooLarge indicates the response exceeded the fetcher's body limit.
	ErrBodyTooLarge = errors.New("source: document too large")
)

// HTTPError reports a non-2xx response.
type HTTPError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("source: fetch %s: %s", e.URL, e.Status)
}

func (e *HTTPError) Unwrap() error {
	return ErrFetch
}
