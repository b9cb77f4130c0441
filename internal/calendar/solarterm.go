package calendar

import (
	"fmt"
	"time"
)

// Solar term timing uses a mean tropical year and fixed per-term offsets
// from minor cold. The result can drift up to about 30 minutes from the true
// instant, which is fine at calendar-day resolution only.
const (
	// TermsPerYear is the number of solar terms in a solar year.
	TermsPerYear = 24

	meanTropicalYearMs = 31556925974.7
)

// termEpochMs is minor cold 1900, 1900-01-06 02:03:57 UTC, in Unix ms.
var termEpochMs = float64(time.Date(1900, time.January, 6, 2, 3, 57, 0, time.UTC).UnixMilli())

// termMinutes is each term's offset from minor cold, in minutes.
var termMinutes = [TermsPerYear]int{
	0, 21208, 42467, 63836, 85337, 107014, 128867, 150921, 173149, 195551, 218072, 240693,
	263343, 285989, 308563, 331033, 353350, 375494, 397447, 419210, 440795, 462224, 483532, 504758,
}

type termName struct {
	id    string
	name  string
	hanzi string
}

var termNames = [TermsPerYear]termName{
	{"minor_cold", "Minor Cold", "小寒"},
	{"major_cold", "Major Cold", "大寒"},
	{"start_of_spring", "Start of Spring", "立春"},
	{"rain_water", "Rain Water", "雨水"},
	{"awakening_of_insects", "Awakening of Insects", "惊蛰"},
	{"spring_equinox", "Spring Equinox", "春分"},
	{"pure_brightness", "Pure Brightness", "清明"},
	{"grain_rain", "Grain Rain", "谷雨"},
	{"start_of_summer", "Start of Summer", "立夏"},
	{"grain_buds", "Grain Buds", "小满"},
	{"grain_in_ear", "Grain in Ear", "芒种"},
	{"summer_solstice", "Summer Solstice", "夏至"},
	{"minor_heat", "Minor Heat", "小暑"},
	{"major_heat", "Major Heat", "大暑"},
	{"start_of_autumn", "Start of Autumn", "立秋"},
	{"end_of_heat", "End of Heat", "处暑"},
	{"white_dew", "White Dew", "白露"},
	{"autumn_equinox", "Autumn Equinox", "秋分"},
	{"cold_dew", "Cold Dew", "寒露"},
	{"frost_descent", "Frost's Descent", "霜降"},
	{"start_of_winter", "Start of Winter", "立冬"},
	{"minor_snow", "Minor Snow", "小雪"},
	{"major_snow", "Major Snow", "大雪"},
	{"winter_solstice", "Winter Solstice", "冬至"},
}

// SolarTerm is the calendar day on which a solar term falls.
type SolarTerm struct {
	Index int `json:"index"`
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

// ID returns a stable identifier such as "minor_cold".
func (t SolarTerm) ID() string { return termNames[t.Index].id }

// Name returns the English name.
func (t SolarTerm) Name() string { return termNames[t.Index].name }

// Hanzi returns the Chinese name.
func (t SolarTerm) Hanzi() string { return termNames[t.Index].hanzi }

// Date returns the solar date of the term.
func (t SolarTerm) Date() SolarDate {
	return SolarDate{Year: t.Year, Month: t.Month, Day: t.Day}
}

// Term computes the n-th solar term (0 = minor cold) of a solar year.
func Term(year, n int) (SolarTerm, error) {
	if year < MinYear || year > MaxYear {
		return SolarTerm{}, yearOutOfRange(year)
	}
	if n < 0 || n >= TermsPerYear {
		return SolarTerm{}, fmt.Errorf("term index %d: %w", n, &OutOfRangeError{Field: "term", Value: n, Min: 0, Max: TermsPerYear - 1})
	}
	return termAt(year, n), nil
}

// termAt computes a term without bounds checks.
func termAt(year, n int) SolarTerm {
	ms := (meanTropicalYearMs*float64(year-1900) + float64(termMinutes[n])*60000) + termEpochMs
	t := time.UnixMilli(int64(ms)).UTC()
	return SolarTerm{Index: n, Year: t.Year(), Month: int(t.Month()), Day: t.Day()}
}

// termDay returns the day-of-month of a term; used by the pillar rules.
func termDay(year, n int) int {
	return termAt(year, n).Day
}

// Terms returns all 24 solar terms of a solar year in order.
func Terms(year int) ([]SolarTerm, error) {
	if year < MinYear || year > MaxYear {
		return nil, yearOutOfRange(year)
	}
	out := make([]SolarTerm, TermsPerYear)
	for n := range out {
		out[n] = termAt(year, n)
	}
	return out, nil
}

// TermOn returns the solar term falling on d, if any. Dates outside the
// supported range never carry a term.
func TermOn(d SolarDate) (SolarTerm, bool) {
	if d.Year < MinYear || d.Year > MaxYear {
		return SolarTerm{}, false
	}
	for n := 0; n < TermsPerYear; n++ {
		t := termAt(d.Year, n)
		if t.Month == d.Month && t.Day == d.Day {
			return t, true
		}
	}
	return SolarTerm{}, false
}
