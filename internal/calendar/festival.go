package calendar

import (
	"fmt"
	"time"
)

// Festival is a named observance. Since, when non-zero, is the first year
// the festival is reported for.
type Festival struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Hanzi string `json:"hanzi"`
	Since int    `json:"since,omitempty"`
}

// activeIn reports whether the festival is observed in a solar year.
func (f *Festival) activeIn(year int) bool {
	return f.Since == 0 || year >= f.Since
}

// Festivals is the festival lookup result for one day.
type Festivals struct {
	Domestic      *Festival `json:"domestic,omitempty"`
	International *Festival `json:"international,omitempty"`
}

// domesticFestivals is keyed by lunar MMDD.
var domesticFestivals = map[string]Festival{
	"0101": {ID: "spring_festival", Name: "Spring Festival", Hanzi: "春节"},
	"0115": {ID: "lantern_festival", Name: "Lantern Festival", Hanzi: "元宵节"},
	"0202": {ID: "dragon_head_festival", Name: "Dragon Raises Its Head", Hanzi: "龙头节"},
	"0505": {ID: "dragon_boat_festival", Name: "Dragon Boat Festival", Hanzi: "端午节"},
	"0707": {ID: "qixi_festival", Name: "Qixi Festival", Hanzi: "七夕节"},
	"0715": {ID: "ghost_festival", Name: "Ghost Festival", Hanzi: "中元节"},
	"0815": {ID: "mid_autumn_festival", Name: "Mid-Autumn Festival", Hanzi: "中秋节"},
	"0909": {ID: "double_ninth_festival", Name: "Double Ninth Festival", Hanzi: "重阳节"},
	"1001": {ID: "winter_clothing_festival", Name: "Winter Clothing Festival", Hanzi: "寒衣节"},
	"1015": {ID: "xiayuan_festival", Name: "Xiayuan Festival", Hanzi: "下元节"},
	"1208": {ID: "laba_festival", Name: "Laba Festival", Hanzi: "腊八节"},
	"1223": {ID: "little_new_year", Name: "Little New Year", Hanzi: "小年"},
}

var newYearsEve = Festival{ID: "new_years_eve", Name: "New Year's Eve", Hanzi: "除夕"}

// internationalFestivals is keyed by solar MMDD.
var internationalFestivals = map[string]Festival{
	"0101": {ID: "new_years_day", Name: "New Year's Day", Hanzi: "元旦"},
	"0202": {ID: "world_wetlands_day", Name: "World Wetlands Day", Hanzi: "湿地日", Since: 1996},
	"0214": {ID: "valentines_day", Name: "Valentine's Day", Hanzi: "情人节"},
	"0308": {ID: "womens_day", Name: "International Women's Day", Hanzi: "妇女节", Since: 1975},
	"0312": {ID: "arbor_day", Name: "Arbor Day", Hanzi: "植树节", Since: 1979},
	"0315": {ID: "consumer_rights_day", Name: "Consumer Rights Day", Hanzi: "消费者权益日", Since: 1983},
	"0401": {ID: "april_fools_day", Name: "April Fools' Day", Hanzi: "愚人节", Since: 1564},
	"0422": {ID: "earth_day", Name: "Earth Day", Hanzi: "地球日", Since: 1990},
	"0501": {ID: "labour_day", Name: "Labour Day", Hanzi: "劳动节", Since: 1889},
	"0504": {ID: "youth_day", Name: "Youth Day", Hanzi: "五四青年节", Since: 1939},
	"0512": {ID: "nurses_day", Name: "International Nurses Day", Hanzi: "护士节", Since: 1912},
	"0518": {ID: "museum_day", Name: "International Museum Day", Hanzi: "博物馆日", Since: 1977},
	"0601": {ID: "childrens_day", Name: "Children's Day", Hanzi: "儿童节", Since: 1950},
	"0605": {ID: "environment_day", Name: "World Environment Day", Hanzi: "环境日", Since: 1972},
	"0623": {ID: "olympic_day", Name: "Olympic Day", Hanzi: "奥林匹克日", Since: 1948},
	"0701": {ID: "party_founding_day", Name: "Party Founding Day", Hanzi: "建党节", Since: 1941},
	"0801": {ID: "army_day", Name: "Army Day", Hanzi: "建军节", Since: 1933},
	"0903": {ID: "victory_day", Name: "Victory Day", Hanzi: "抗战胜利日", Since: 1945},
	"0910": {ID: "teachers_day", Name: "Teachers' Day", Hanzi: "教师节", Since: 1985},
	"1001": {ID: "national_day", Name: "National Day", Hanzi: "国庆节", Since: 1949},
	"1020": {ID: "osteoporosis_day", Name: "World Osteoporosis Day", Hanzi: "骨质疏松日", Since: 1998},
	"1117": {ID: "students_day", Name: "International Students' Day", Hanzi: "学生日", Since: 1942},
	"1201": {ID: "aids_day", Name: "World AIDS Day", Hanzi: "艾滋病日", Since: 1988},
	"1224": {ID: "christmas_eve", Name: "Christmas Eve", Hanzi: "平安夜"},
	"1225": {ID: "christmas_day", Name: "Christmas Day", Hanzi: "圣诞节"},
}

// weekdayRule places a festival on the nth given weekday of a month.
type weekdayRule struct {
	month    time.Month
	nth      int
	weekday  time.Weekday
	festival Festival
}

var weekdayFestivals = []weekdayRule{
	{time.May, 2, time.Sunday, Festival{ID: "mothers_day", Name: "Mother's Day", Hanzi: "母亲节", Since: 1913}},
	{time.June, 3, time.Sunday, Festival{ID: "fathers_day", Name: "Father's Day", Hanzi: "父亲节"}},
	{time.November, 4, time.Thursday, Festival{ID: "thanksgiving", Name: "Thanksgiving Day", Hanzi: "感恩节"}},
}

func (r weekdayRule) matches(d SolarDate) bool {
	if time.Month(d.Month) != r.month {
		return false
	}
	t := d.Time()
	return t.Weekday() == r.weekday && (d.Day-1)/7+1 == r.nth
}

// monthDayKey builds the zero-padded MMDD lookup key.
func monthDayKey(month, day int) string {
	return fmt.Sprintf("%02d%02d", month, day)
}

// DomesticFestival returns the traditional festival on a lunar date, or nil.
// Leap-month days never carry one.
func DomesticFestival(d LunarDate) *Festival {
	if d.IsLeap {
		return nil
	}
	if f, ok := domesticFestivals[monthDayKey(d.Month, d.Day)]; ok {
		return &f
	}
	if d.Month == 12 {
		if n, err := MonthLength(d.Year, 12); err == nil && d.Day == n {
			f := newYearsEve
			return &f
		}
	}
	return nil
}

// InternationalFestival returns the festival on a solar date, or nil when
// there is none or it was not yet observed that year.
func InternationalFestival(d SolarDate) *Festival {
	if f, ok := internationalFestivals[monthDayKey(d.Month, d.Day)]; ok {
		if f.activeIn(d.Year) {
			return &f
		}
		return nil
	}
	for _, r := range weekdayFestivals {
		if r.matches(d) && r.festival.activeIn(d.Year) {
			f := r.festival
			return &f
		}
	}
	return nil
}

// FestivalsOn looks up both festival tables for one day.
func FestivalsOn(solar SolarDate, lunar LunarDate) Festivals {
	return Festivals{
		Domestic:      DomesticFestival(lunar),
		International: InternationalFestival(solar),
	}
}
