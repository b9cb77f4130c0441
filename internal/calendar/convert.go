package calendar

// Epoch anchors all day counting: Gregorian 1899-02-10 is lunar 1899-01-01.
var Epoch = SolarDate{Year: 1899, Month: 2, Day: 10}

// MonthKind selects which occurrence of a lunar month a query means.
type MonthKind int

const (
	// AnyMonth leaves the leap status unresolved; a month that repeats
	// yields two solar dates.
	AnyMonth MonthKind = iota
	// OrdinaryMonth selects the regular occurrence only.
	OrdinaryMonth
	// LeapMonthOnly selects the inserted leap occurrence only.
	LeapMonthOnly
)

func (k MonthKind) String() string {
	switch k {
	case OrdinaryMonth:
		return "ordinary"
	case LeapMonthOnly:
		return "leap"
	default:
		return "any"
	}
}

// newYearOffsets[i] is the number of days from Epoch to the new year of
// lunar year MinYear+i.
var newYearOffsets = func() [MaxYear - MinYear + 1]int {
	var out [MaxYear - MinYear + 1]int
	total := 0
	for i := range records {
		out[i] = total
		total += records[i].Length()
	}
	return out
}()

// NewYear returns the solar date of lunar new year's day.
func NewYear(year int) (SolarDate, error) {
	if year < MinYear || year > MaxYear {
		return SolarDate{}, yearOutOfRange(year)
	}
	return Epoch.AddDays(newYearOffsets[year-MinYear]), nil
}

// SolarToLunar converts a Gregorian date to its lunar date.
func SolarToLunar(d SolarDate) (LunarDate, error) {
	if err := d.Validate(); err != nil {
		return LunarDate{}, err
	}
	if d.Year < MinYear || d.Year > MaxYear {
		return LunarDate{}, yearOutOfRange(d.Year)
	}

	offset := daysBetween(Epoch, d)
	if offset < 0 {
		// Early 1899 still belongs to lunar 1898.
		return LunarDate{}, yearOutOfRange(MinYear - 1)
	}

	// Find the lunar year: consume whole years while the offset covers them.
	year := MinYear
	for offset >= records[year-MinYear].Length() {
		offset -= records[year-MinYear].Length()
		year++
	}
	r := records[year-MinYear]

	// Each ordinary month is followed by its leap month when it has one.
	for m := 1; m <= 12; m++ {
		n := r.MonthLength(m)
		if offset < n {
			return LunarDate{Year: year, Month: m, Day: offset + 1}, nil
		}
		offset -= n

		if m == r.LeapMonth {
			n = r.LeapLength()
			if offset < n {
				return LunarDate{Year: year, Month: m, Day: offset + 1, IsLeap: true}, nil
			}
			offset -= n
		}
	}

	// The year loop guarantees offset < r.Length().
	panic("calendar: offset exceeds lunar year length")
}

// LunarToSolar converts a lunar date to Gregorian dates. With AnyMonth and a
// month that has a leap occurrence the result holds two dates, ordinary
// first; otherwise it holds one.
func LunarToSolar(year, month, day int, kind MonthKind) ([]SolarDate, error) {
	r, err := Year(year)
	if err != nil {
		return nil, err
	}
	if month < 1 || month > 12 {
		return nil, monthOutOfRange(month)
	}
	if day < 1 {
		return nil, &InvalidDateError{Year: year, Month: month, Day: day, Leap: kind == LeapMonthOnly,
			Reason: "day must be positive"}
	}

	hasLeap := r.LeapMonth == month
	if kind == LeapMonthOnly && !hasLeap {
		return nil, &InvalidDateError{Year: year, Month: month, Day: day, Leap: true,
			Reason: "month has no leap occurrence this year"}
	}

	ordinaryOK := day <= r.MonthLength(month)
	leapOK := hasLeap && day <= r.LeapLength()

	base := newYearOffsets[year-MinYear]
	var out []SolarDate

	if kind != LeapMonthOnly && ordinaryOK {
		out = append(out, Epoch.AddDays(base+r.dayOffset(month, day, false)))
	}
	if kind != OrdinaryMonth && leapOK {
		out = append(out, Epoch.AddDays(base+r.dayOffset(month, day, true)))
	}

	if len(out) == 0 {
		return nil, &InvalidDateError{Year: year, Month: month, Day: day, Leap: kind == LeapMonthOnly,
			Reason: "day exceeds month length"}
	}
	return out, nil
}
