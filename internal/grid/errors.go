package grid

import (
	"errors"
	"fmt"
)

// Domain errors for grid construction.
var (
	// ErrInvalidRecord indicates a record with a malformed coordinate or character.
	ErrInvalidRecord = errors.New("grid: invalid record")

	// ErrGridTooLarge indicates the bounding box exceeds the configured cell limit.
	ErrGridTooLarge = errors.New("grid: dimensions exceed cell limit")

	// ErrUnknownOrigin indicates an origin name other than "top" or "bottom".
	ErrUnknownOrigin = errors.New("grid: unknown origin")
)

// InvalidRecordError describes the record and value that failed validation.
type InvalidRecordError struct {
	Index  int // position in the input, -1 when unknown
	Field  string
	Value  string
	Reason string
}

func (e *InvalidRecordError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("grid: invalid record: %s %q: %s", e.Field, e.Value, e.Reason)
	}
	return fmt.Sprintf("grid: invalid record %d: %s %q: %s", e.Index, e.Field, e.Value, e.Reason)
}

func (e *InvalidRecordError) Unwrap() error {
	return ErrInvalidRecord
}
