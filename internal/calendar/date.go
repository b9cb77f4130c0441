// Package calendar converts between the Gregorian and Chinese lunar calendars
// and derives sexagenary labels, solar terms and festivals for supported years.
//
// Everything in this package is a pure function over immutable tables built
// at package initialisation, so it is safe for concurrent use.
package calendar

import (
	"fmt"
	"time"
)

// SolarDate is a Gregorian calendar date.
type SolarDate struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

// NewSolarDate builds a SolarDate from the calendar date of t.
func NewSolarDate(t time.Time) SolarDate {
	y, m, d := t.Date()
	return SolarDate{Year: y, Month: int(m), Day: d}
}

// Validate checks the month and day-of-month bounds.
func (d SolarDate) Validate() error {
	if d.Month < 1 || d.Month > 12 {
		return &InvalidDateError{Year: d.Year, Month: d.Month, Day: d.Day, Reason: "month must be 1-12"}
	}
	if d.Day < 1 || d.Day > DaysInMonth(d.Year, d.Month) {
		return &InvalidDateError{Year: d.Year, Month: d.Month, Day: d.Day,
			Reason: fmt.Sprintf("day must be 1-%d", DaysInMonth(d.Year, d.Month))}
	}
	return nil
}

// Time returns midnight UTC of the date.
func (d SolarDate) Time() time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
}

// AddDays returns the date n days later (earlier for negative n).
func (d SolarDate) AddDays(n int) SolarDate {
	return NewSolarDate(d.Time().AddDate(0, 0, n))
}

// Weekday returns the ISO weekday, 1 = Monday through 7 = Sunday.
func (d SolarDate) Weekday() int {
	w := int(d.Time().Weekday())
	if w == 0 {
		return 7
	}
	return w
}

// Before reports whether d is earlier than other.
func (d SolarDate) Before(other SolarDate) bool {
	return d.Time().Before(other.Time())
}

// String formats the date as YYYY-MM-DD.
func (d SolarDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// ParseSolarDate parses a date string in YYYY-MM-DD format.
func ParseSolarDate(s string) (SolarDate, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return SolarDate{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return NewSolarDate(t), nil
}

// LunarDate is a date in the Chinese lunar calendar. IsLeap marks the
// inserted month that follows ordinary month Month.
type LunarDate struct {
	Year   int  `json:"year"`
	Month  int  `json:"month"`
	Day    int  `json:"day"`
	IsLeap bool `json:"is_leap"`
}

// String formats the date as YYYY-MM-DD, with an "L" before the month for
// leap-month dates.
func (d LunarDate) String() string {
	if d.IsLeap {
		return fmt.Sprintf("%04d-L%02d-%02d", d.Year, d.Month, d.Day)
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// ToSolar resolves the exact lunar date to its single solar date.
func (d LunarDate) ToSolar() (SolarDate, error) {
	kind := OrdinaryMonth
	if d.IsLeap {
		kind = LeapMonthOnly
	}
	dates, err := LunarToSolar(d.Year, d.Month, d.Day, kind)
	if err != nil {
		return SolarDate{}, err
	}
	return dates[0], nil
}

// IsLeapYear reports whether year is a Gregorian leap year.
func IsLeapYear(year int) bool {
	return (year%4 == 0 && year%100 != 0) || year%400 == 0
}

// DaysInMonth returns the number of days in a Gregorian month (28-31), or 0
// for a month outside 1-12.
func DaysInMonth(year, month int) int {
	switch month {
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	case 4, 6, 9, 11:
		return 30
	case 2:
		if IsLeapYear(year) {
			return 29
		}
		return 28
	}
	return 0
}

// daysBetween returns the whole number of days from a to b.
func daysBetween(a, b SolarDate) int {
	return int(b.Time().Sub(a.Time()).Hours() / 24)
}
