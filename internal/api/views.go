package api

import (
	"github.com/zapponejosh/lunarcal/internal/calendar"
	"github.com/zapponejosh/lunarcal/internal/locale"
)

// DayView is a resolved day plus its names in the negotiated language.
type DayView struct {
	*calendar.Day
	Lang  string   `json:"lang"`
	Names DayNames `json:"names"`
}

// DayNames holds the localized names of a day.
type DayNames struct {
	Weekday       string `json:"weekday"`
	LunarDate     string `json:"lunar_date"`
	LunarMonth    string `json:"lunar_month"`
	LunarDay      string `json:"lunar_day"`
	Year          string `json:"year"`
	Zodiac        string `json:"zodiac"`
	Term          string `json:"term,omitempty"`
	Domestic      string `json:"domestic_festival,omitempty"`
	International string `json:"international_festival,omitempty"`
	Holiday       string `json:"holiday,omitempty"`
}

func newDayView(day *calendar.Day, tr *locale.Translator) DayView {
	v := DayView{
		Day:  day,
		Lang: tr.Lang(),
		Names: DayNames{
			Weekday:       tr.Weekday(day.Weekday),
			LunarDate:     tr.LunarDate(day.Lunar),
			LunarMonth:    tr.LunarMonth(day.Lunar.Month, day.Lunar.IsLeap),
			LunarDay:      tr.LunarDay(day.Lunar.Day),
			Year:          tr.YearLabel(day.Lunar.Year),
			Zodiac:        tr.Zodiac(day.Sexagenary.Zodiac),
			Domestic:      tr.Festival(day.Festivals.Domestic),
			International: tr.Festival(day.Festivals.International),
		},
	}
	if day.Term != nil {
		v.Names.Term = tr.Term(*day.Term)
	}
	if day.Holiday != nil {
		v.Names.Holiday = day.Holiday.Name + " (" + tr.HolidayStatus(day.Holiday) + ")"
	}
	return v
}

func newDayViews(days []*calendar.Day, tr *locale.Translator) []DayView {
	out := make([]DayView, len(days))
	for i, d := range days {
		out[i] = newDayView(d, tr)
	}
	return out
}

// RangeView is the response of a range query.
type RangeView struct {
	Start calendar.SolarDate `json:"start"`
	End   calendar.SolarDate `json:"end"`
	Count int                `json:"count"`
	Days  []DayView          `json:"days"`
}

// LunarView is the response of a lunar-to-solar query.
type LunarView struct {
	Year  int       `json:"year"`
	Month int       `json:"month"`
	Day   int       `json:"day"`
	Kind  string    `json:"kind"`
	Days  []DayView `json:"days"`
}

// YearView is a year summary with localized names and stored holidays.
type YearView struct {
	*calendar.YearSummary
	Lang     string             `json:"lang"`
	Names    YearNames          `json:"names"`
	Holidays []calendar.Holiday `json:"holidays"`
}

// YearNames holds the localized names of a year summary.
type YearNames struct {
	Year  string   `json:"year"`
	Leap  string   `json:"leap_month,omitempty"`
	Terms []string `json:"terms"`
}

func newYearView(s *calendar.YearSummary, holidays []calendar.Holiday, tr *locale.Translator) YearView {
	if holidays == nil {
		holidays = []calendar.Holiday{}
	}
	v := YearView{
		YearSummary: s,
		Lang:        tr.Lang(),
		Holidays:    holidays,
		Names: YearNames{
			Year:  tr.YearLabel(s.Year),
			Terms: make([]string, len(s.Terms)),
		},
	}
	if s.LeapMonth > 0 {
		v.Names.Leap = tr.LunarMonth(s.LeapMonth, true)
	}
	for i, t := range s.Terms {
		v.Names.Terms[i] = tr.Term(t)
	}
	return v
}

// ImportResult reports a completed import.
type ImportResult struct {
	Kind    string `json:"kind"`
	Year    int    `json:"year"`
	Records int    `json:"records"`
}
