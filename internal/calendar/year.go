package calendar

// YearRecord is the decoded month layout of one lunar year.
type YearRecord struct {
	Year      int      `json:"year"`
	LeapMonth int      `json:"leap_month"` // 0 when the year has no leap month
	LeapLong  bool     `json:"leap_long"`
	MonthLong [12]bool `json:"month_long"` // index 0 is the first month
}

// records is decoded once from yearInfo and never mutated.
var records = decodeTable()

func decodeTable() [MaxYear - MinYear + 1]YearRecord {
	var out [MaxYear - MinYear + 1]YearRecord
	for i, word := range yearInfo {
		r := YearRecord{
			Year:      MinYear + i,
			LeapMonth: int(word & 0xf),
			LeapLong:  word&0x10000 != 0,
		}
		for m := 1; m <= 12; m++ {
			r.MonthLong[m-1] = word&(0x10000>>m) != 0
		}
		out[i] = r
	}
	return out
}

// Year returns the record for a lunar year.
func Year(year int) (YearRecord, error) {
	if year < MinYear || year > MaxYear {
		return YearRecord{}, yearOutOfRange(year)
	}
	return records[year-MinYear], nil
}

// HasLeap reports whether the year carries a leap month.
func (r YearRecord) HasLeap() bool {
	return r.LeapMonth > 0
}

// LeapLength returns the leap month's length, or 0 without a leap month.
func (r YearRecord) LeapLength() int {
	if !r.HasLeap() {
		return 0
	}
	return monthDays(r.LeapLong)
}

// MonthLength returns the length of ordinary month m (1-12). It panics on
// a month outside that range; use the package-level MonthLength for
// checked access.
func (r YearRecord) MonthLength(m int) int {
	return monthDays(r.MonthLong[m-1])
}

// Length returns the number of days in the year, leap month included.
func (r YearRecord) Length() int {
	sum := r.LeapLength()
	for m := 1; m <= 12; m++ {
		sum += r.MonthLength(m)
	}
	return sum
}

// dayOffset returns the zero-based day index of a date counted from the
// lunar new year. The arguments must already be validated.
func (r YearRecord) dayOffset(month, day int, leap bool) int {
	off := 0
	for m := 1; m < month; m++ {
		off += r.MonthLength(m)
		if m == r.LeapMonth {
			off += r.LeapLength()
		}
	}
	if leap {
		off += r.MonthLength(month)
	}
	return off + day - 1
}

func monthDays(long bool) int {
	if long {
		return 30
	}
	return 29
}

// LeapMonth returns the leap month of a lunar year, 0 if it has none.
func LeapMonth(year int) (int, error) {
	r, err := Year(year)
	if err != nil {
		return 0, err
	}
	return r.LeapMonth, nil
}

// LeapMonthLength returns 0 without a leap month, otherwise 29 or 30.
func LeapMonthLength(year int) (int, error) {
	r, err := Year(year)
	if err != nil {
		return 0, err
	}
	return r.LeapLength(), nil
}

// MonthLength returns 29 or 30 for ordinary month m of a lunar year.
func MonthLength(year, month int) (int, error) {
	r, err := Year(year)
	if err != nil {
		return 0, err
	}
	if month < 1 || month > 12 {
		return 0, monthOutOfRange(month)
	}
	return r.MonthLength(month), nil
}

// YearLength returns the total number of days in a lunar year.
func YearLength(year int) (int, error) {
	r, err := Year(year)
	if err != nil {
		return 0, err
	}
	return r.Length(), nil
}
