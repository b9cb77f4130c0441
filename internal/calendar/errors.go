package calendar

import (
	"errors"
	"fmt"
)

// =============================================================================
// Error Types
// =============================================================================

var (
	// ErrOutOfRange is matched by every *OutOfRangeError.
	ErrOutOfRange = errors.New("out of supported range")

	// ErrInvalidDate is matched by every *InvalidDateError.
	ErrInvalidDate = errors.New("invalid date")
)

// OutOfRangeError reports a year or month outside the supported bounds.
type OutOfRangeError struct {
	Field string // "year" or "month"
	Value int
	Min   int
	Max   int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("%s %d out of supported range [%d, %d]", e.Field, e.Value, e.Min, e.Max)
}

// Is lets errors.Is(err, ErrOutOfRange) match.
func (e *OutOfRangeError) Is(target error) bool {
	return target == ErrOutOfRange
}

// InvalidDateError reports a date that does not exist in the calendar
// it was given for.
type InvalidDateError struct {
	Year   int
	Month  int
	Day    int
	Leap   bool
	Reason string
}

func (e *InvalidDateError) Error() string {
	leap := ""
	if e.Leap {
		leap = " (leap)"
	}
	return fmt.Sprintf("invalid date %04d-%02d-%02d%s: %s", e.Year, e.Month, e.Day, leap, e.Reason)
}

// Is lets errors.Is(err, ErrInvalidDate) match.
func (e *InvalidDateError) Is(target error) bool {
	return target == ErrInvalidDate
}

// IsOutOfRange checks if an error is an out-of-range error.
func IsOutOfRange(err error) bool {
	return errors.Is(err, ErrOutOfRange)
}

// IsInvalidDate checks if an error is an invalid-date error.
func IsInvalidDate(err error) bool {
	return errors.Is(err, ErrInvalidDate)
}

func yearOutOfRange(year int) error {
	return &OutOfRangeError{Field: "year", Value: year, Min: MinYear, Max: MaxYear}
}

func monthOutOfRange(month int) error {
	return &OutOfRangeError{Field: "month", Value: month, Min: 1, Max: 12}
}
