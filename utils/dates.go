// utils/dates.go
package utils

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout is the textual format of every persisted date column
// (MM/DD/YYYY hh:mm:ss AM).
const DateLayout = "01/02/2006 03:04:05 PM"

var ErrInvalidDate = errors.New("string does not match the date format")

// FormatEpoch converts a UNIX timestamp to DateLayout in loc. A nil loc means UTC.
func FormatEpoch(epoch int64, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return time.Unix(epoch, 0).In(loc).Format(DateLayout)
}

// FormatTime renders t with DateLayout in its own location.
func FormatTime(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a DateLayout string. Only canonical renderings are accepted,
// so ParseDate(s) formatted again always yields s.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	if t.Format(DateLayout) != s {
		return time.Time{}, fmt.Errorf("%w: %q is not canonical", ErrInvalidDate, s)
	}
	return t, nil
}

// ValidateDate reports whether s is a valid DateLayout string.
func ValidateDate(s string) error {
	_, err := ParseDate(s)
	return err
}
