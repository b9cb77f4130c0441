package calendar

import (
	"context"
	"fmt"
	"log/slog"
)

// Holiday is a legal holiday arrangement for one day: either a day off or
// a working day swapped in to compensate for one.
type Holiday struct {
	Date   SolarDate `json:"date"`
	Name   string    `json:"name"`
	OffDay bool      `json:"off_day"`
}

// Almanac is the daily guidance for one day.
type Almanac struct {
	Date     SolarDate `json:"date"`
	Suitable string    `json:"suitable"`
	Avoid    string    `json:"avoid"`
}

// HolidaySource is a read-only store of legal holiday arrangements.
// Implementations return nil, nil when the day has no entry.
type HolidaySource interface {
	Holiday(ctx context.Context, date SolarDate) (*Holiday, error)
}

// AlmanacSource is a read-only store of almanac entries.
// Implementations return nil, nil when the day has no entry.
type AlmanacSource interface {
	Almanac(ctx context.Context, date SolarDate) (*Almanac, error)
}

// Day is everything known about one solar date.
type Day struct {
	Solar      SolarDate  `json:"solar"`
	Weekday    int        `json:"weekday"` // 1 = Monday through 7 = Sunday
	Lunar      LunarDate  `json:"lunar"`
	Sexagenary Sexagenary `json:"sexagenary"`
	Term       *SolarTerm `json:"term,omitempty"`
	Festivals  Festivals  `json:"festivals"`
	Holiday    *Holiday   `json:"holiday,omitempty"`
	Almanac    *Almanac   `json:"almanac,omitempty"`
}

// YearSummary describes one lunar year together with the solar terms of
// the Gregorian year of the same number.
type YearSummary struct {
	Year       int         `json:"year"`
	Label      Label       `json:"label"`
	Zodiac     Zodiac      `json:"zodiac"`
	NewYear    SolarDate   `json:"new_year"`
	LeapMonth  int         `json:"leap_month"`
	LeapLength int         `json:"leap_length"`
	Months     [12]int     `json:"months"`
	Length     int         `json:"length"`
	Terms      []SolarTerm `json:"terms"`
}

// Resolver composes conversion results with the optional data sources.
type Resolver struct {
	holidays HolidaySource
	almanac  AlmanacSource
	logger   *slog.Logger
}

// NewResolver creates a resolver. Either source may be nil.
func NewResolver(holidays HolidaySource, almanac AlmanacSource, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		holidays: holidays,
		almanac:  almanac,
		logger:   logger,
	}
}

// Day resolves a solar date to its lunar date, pillars, term, festivals and
// stored holiday and almanac entries.
func (r *Resolver) Day(ctx context.Context, date SolarDate) (*Day, error) {
	lunar, err := SolarToLunar(date)
	if err != nil {
		return nil, err
	}

	pillars, err := SexagenaryFor(date)
	if err != nil {
		return nil, err
	}

	day := &Day{
		Solar:      date,
		Weekday:    date.Weekday(),
		Lunar:      lunar,
		Sexagenary: pillars,
		Festivals:  FestivalsOn(date, lunar),
	}

	if term, ok := TermOn(date); ok {
		day.Term = &term
	}

	if r.holidays != nil {
		h, err := r.holidays.Holiday(ctx, date)
		if err != nil {
			return nil, fmt.Errorf("lookup holiday %s: %w", date, err)
		}
		day.Holiday = h
	}

	if r.almanac != nil {
		a, err := r.almanac.Almanac(ctx, date)
		if err != nil {
			return nil, fmt.Errorf("lookup almanac %s: %w", date, err)
		}
		day.Almanac = a
	}

	r.logger.DebugContext(ctx, "resolved day",
		slog.String("solar", date.String()),
		slog.String("lunar", lunar.String()),
	)

	return day, nil
}

// Range resolves every day from start to end inclusive.
func (r *Resolver) Range(ctx context.Context, start, end SolarDate) ([]*Day, error) {
	if end.Before(start) {
		return nil, &InvalidDateError{Year: end.Year, Month: end.Month, Day: end.Day,
			Reason: "end date precedes start date " + start.String()}
	}

	var days []*Day
	for current := start; !end.Before(current); current = current.AddDays(1) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		day, err := r.Day(ctx, current)
		if err != nil {
			return nil, err
		}
		days = append(days, day)
	}
	return days, nil
}

// YearSummary summarises a lunar year.
func (r *Resolver) YearSummary(year int) (*YearSummary, error) {
	return Summary(year)
}

// Summary summarises a lunar year without a resolver.
func Summary(year int) (*YearSummary, error) {
	rec, err := Year(year)
	if err != nil {
		return nil, err
	}
	newYear, err := NewYear(year)
	if err != nil {
		return nil, err
	}
	terms, err := Terms(year)
	if err != nil {
		return nil, err
	}

	s := &YearSummary{
		Year:       year,
		Label:      YearLabel(year),
		Zodiac:     YearZodiac(year),
		NewYear:    newYear,
		LeapMonth:  rec.LeapMonth,
		LeapLength: rec.LeapLength(),
		Length:     rec.Length(),
		Terms:      terms,
	}
	for m := 1; m <= 12; m++ {
		s.Months[m-1] = rec.MonthLength(m)
	}
	return s, nil
}
