package calendar

// Pillar boundaries. The year pillar rolls over on the start-of-spring term;
// the month pillar rolls over on the first term of each Gregorian month,
// index (month-1)*MonthPillarTermStride.
const (
	YearPillarTerm        = 2
	MonthPillarTermStride = 2
)

// Cycle positions of the reference points: the year before 1900's start of
// spring is 己亥 (35), the month before 1900's minor cold is 丙子 (12) and
// 1900-01-01 is 甲戌 (10).
const (
	yearPillarBase  = 35
	monthPillarBase = 12
	dayPillarBase   = 10
	cycleLength     = 60
)

var dayPillarEpoch = SolarDate{Year: 1900, Month: 1, Day: 1}

var (
	heavenlyStems   = [10]string{"甲", "乙", "丙", "丁", "戊", "己", "庚", "辛", "壬", "癸"}
	earthlyBranches = [12]string{"子", "丑", "寅", "卯", "辰", "巳", "午", "未", "申", "酉", "戌", "亥"}
)

// Label is a position in the 60-term stem-branch cycle.
type Label int

func newLabel(n int) Label {
	n %= cycleLength
	if n < 0 {
		n += cycleLength
	}
	return Label(n)
}

// Stem returns the heavenly stem index (0-9).
func (l Label) Stem() int { return int(l) % 10 }

// Branch returns the earthly branch index (0-11).
func (l Label) Branch() int { return int(l) % 12 }

// String renders the stem and branch characters, e.g. "甲子".
func (l Label) String() string {
	return heavenlyStems[l.Stem()] + earthlyBranches[l.Branch()]
}

// MarshalText encodes the label as its characters.
func (l Label) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// Zodiac is one of the 12 animals, indexed by earthly branch.
type Zodiac int

var zodiacNames = [12]struct{ id, name, hanzi string }{
	{"rat", "Rat", "鼠"},
	{"ox", "Ox", "牛"},
	{"tiger", "Tiger", "虎"},
	{"rabbit", "Rabbit", "兔"},
	{"dragon", "Dragon", "龙"},
	{"snake", "Snake", "蛇"},
	{"horse", "Horse", "马"},
	{"goat", "Goat", "羊"},
	{"monkey", "Monkey", "猴"},
	{"rooster", "Rooster", "鸡"},
	{"dog", "Dog", "狗"},
	{"pig", "Pig", "猪"},
}

func (z Zodiac) ID() string    { return zodiacNames[z].id }
func (z Zodiac) Name() string  { return zodiacNames[z].name }
func (z Zodiac) Hanzi() string { return zodiacNames[z].hanzi }

// MarshalText encodes the zodiac as its ID.
func (z Zodiac) MarshalText() ([]byte, error) {
	return []byte(z.ID()), nil
}

// Sexagenary holds the year, month and day pillars of a solar date.
type Sexagenary struct {
	Year   Label  `json:"year"`
	Month  Label  `json:"month"`
	Day    Label  `json:"day"`
	Zodiac Zodiac `json:"zodiac"`
}

// SexagenaryFor computes the stem-branch pillars and zodiac of a solar date.
func SexagenaryFor(d SolarDate) (Sexagenary, error) {
	if err := d.Validate(); err != nil {
		return Sexagenary{}, err
	}
	if d.Year < MinYear || d.Year > MaxYear {
		return Sexagenary{}, yearOutOfRange(d.Year)
	}

	gzYear := d.Year
	if d.Month > 2 || (d.Month == 2 && d.Day >= termDay(d.Year, YearPillarTerm)) {
		gzYear++
	}

	gzMonth := d.Month
	if d.Day < termDay(d.Year, (d.Month-1)*MonthPillarTermStride) {
		gzMonth--
	}

	year := newLabel(gzYear - 1900 + yearPillarBase)
	return Sexagenary{
		Year:   year,
		Month:  newLabel((d.Year-1900)*12 + gzMonth + monthPillarBase),
		Day:    newLabel(daysBetween(dayPillarEpoch, d) + dayPillarBase),
		Zodiac: Zodiac(year.Branch()),
	}, nil
}

// YearLabel returns the stem-branch label of a lunar year, counted from its
// new year rather than from the start of spring.
func YearLabel(lunarYear int) Label {
	return newLabel(lunarYear - 1900 + yearPillarBase + 1)
}

// YearZodiac returns the zodiac animal of a lunar year.
func YearZodiac(lunarYear int) Zodiac {
	return Zodiac(YearLabel(lunarYear).Branch())
}
