// Package dateutil provides calendar date parsing and formatting utilities.
package dateutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidDate indicates a value that is not a recognizable calendar date.
var ErrInvalidDate = errors.New("invalid date")

// MaxDateLength limits input length to prevent abuse.
const MaxDateLength = 64

// ISOLayout is the layout used for package document dates.
const ISOLayout = "2006-01-02"

// dateLayouts lists accepted input layouts, most specific first.
// Non-padded month and day layouts also accept padded values.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-1-2",
	"2006/1/2",
	"2006-1",
	"2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
	"January 2006",
}

// ParseDate parses a calendar date in any of the accepted layouts.
// Values without an explicit zone are interpreted as UTC, and the
// result is always returned in UTC.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("%w: empty value", ErrInvalidDate)
	}
	if len(value) > MaxDateLength {
		return time.Time{}, fmt.Errorf("%w: value exceeds %d characters", ErrInvalidDate, MaxDateLength)
	}

	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
}

// FormatDate renders t as YYYY-MM-DD in UTC.
func FormatDate(t time.Time) string {
	return t.UTC().Format(ISOLayout)
}

// Year returns the UTC calendar year of t.
func Year(t time.Time) int {
	return t.UTC().Year()
}
