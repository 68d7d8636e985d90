package grid

import (
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// Record places a single character at column X, row Y.
type Record struct {
	X    int
	Y    int
	Char string
}

// RawRecord is a triple exactly as read from a document, before validation.
type RawRecord struct {
	X    string
	Y    string
	Char string
}

// Validate reports whether r has non-negative coordinates and exactly one
// printing character.
func (r Record) Validate() error {
	return r.validate(-1)
}

func (r Record) validate(index int) error {
	if r.X < 0 {
		return &InvalidRecordError{Index: index, Field: "x", Value: strconv.Itoa(r.X), Reason: "negative coordinate"}
	}
	if r.Y < 0 {
		return &InvalidRecordError{Index: index, Field: "y", Value: strconv.Itoa(r.Y), Reason: "negative coordinate"}
	}
	return validateChar(index, r.Char)
}

// validateChar accepts one grapheme cluster so that combining sequences and
// emoji count as a single cell.
func validateChar(index int, s string) error {
	if s == "" {
		return &InvalidRecordError{Index: index, Field: "char", Value: s, Reason: "empty character"}
	}
	if n := uniseg.GraphemeClusterCount(s); n != 1 {
		return &InvalidRecordError{Index: index, Field: "char", Value: s, Reason: "expected a single character, got " + strconv.Itoa(n)}
	}
	first, _ := utf8.DecodeRuneInString(s)
	if first == utf8.RuneError || !unicode.IsPrint(first) {
		return &InvalidRecordError{Index: index, Field: "char", Value: s, Reason: "not a printing character"}
	}
	return nil
}

// ParseRecord converts raw into a validated Record. index is reported in the
// error so callers can locate the offending row.
func ParseRecord(raw RawRecord, index int) (Record, error) {
	x, err := parseCoordinate(index, "x", raw.X)
	if err != nil {
		return Record{}, err
	}
	y, err := parseCoordinate(index, "y", raw.Y)
	if err != nil {
		return Record{}, err
	}
	r := Record{X: x, Y: y, Char: raw.Char}
	if err := r.validate(index); err != nil {
		return Record{}, err
	}
	return r, nil
}

// ParseRecords converts every raw triple, stopping at the first invalid one.
func ParseRecords(raws []RawRecord) ([]Record, error) {
	records := make([]Record, 0, len(raws))
	for i, raw := range raws {
		r, err := ParseRecord(raw, i)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, nil
}

func parseCoordinate(index int, field, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, &InvalidRecordError{Index: index, Field: field, Value: value, Reason: "not an integer"}
	}
	if n < 0 {
		return 0, &InvalidRecordError{Index: index, Field: field, Value: value, Reason: "negative coordinate"}
	}
	return n, nil
}
