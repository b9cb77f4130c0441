package locale

import (
	"encoding/json"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zapponejosh/lunarcal/internal/calendar"
)

func testCatalog(t *testing.T, def string) *Catalog {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	c, err := New(def, logger)
	require.NoError(t, err)
	return c
}

func TestNew(t *testing.T) {
	c := testCatalog(t, "zh")
	assert.Equal(t, []string{"zh", "en"}, c.Languages())

	c = testCatalog(t, "en")
	assert.Equal(t, "en", c.Languages()[0])
}

func TestNew_UnknownDefault(t *testing.T) {
	_, err := New("fr", nil)
	assert.Error(t, err)

	_, err = New("???", nil)
	assert.Error(t, err)
}

func TestTranslator_Matching(t *testing.T) {
	c := testCatalog(t, "en")

	tests := []struct {
		prefs []string
		want  string
	}{
		{nil, "en"},
		{[]string{"zh"}, "zh"},
		{[]string{"", "zh-CN,zh;q=0.9,en;q=0.8"}, "zh"},
		{[]string{"fr-FR"}, "en"},
		{[]string{"en-GB"}, "en"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, c.Translator(tt.prefs...).Lang(), "prefs %v", tt.prefs)
	}
}

func TestTranslator_Chinese(t *testing.T) {
	tr := testCatalog(t, "zh").Translator("zh")

	term, err := calendar.Term(2024, 2)
	require.NoError(t, err)
	assert.Equal(t, "立春", tr.Term(term))

	assert.Equal(t, "猪", tr.Zodiac(calendar.Zodiac(11)))
	assert.Equal(t, "正月", tr.LunarMonth(1, false))
	assert.Equal(t, "腊月", tr.LunarMonth(12, false))
	assert.Equal(t, "闰四月", tr.LunarMonth(4, true))
	assert.Equal(t, "初一", tr.LunarDay(1))
	assert.Equal(t, "十五", tr.LunarDay(15))
	assert.Equal(t, "二十", tr.LunarDay(20))
	assert.Equal(t, "廿九", tr.LunarDay(29))
	assert.Equal(t, "三十", tr.LunarDay(30))
	assert.Equal(t, "闰四月初一", tr.LunarDate(calendar.LunarDate{Year: 2020, Month: 4, Day: 1, IsLeap: true}))
	assert.Equal(t, "星期日", tr.Weekday(7))
	assert.Equal(t, "甲辰年（龙年）", tr.YearLabel(2024))
	assert.Equal(t, "休", tr.HolidayStatus(&calendar.Holiday{OffDay: true}))
	assert.Equal(t, "班", tr.HolidayStatus(&calendar.Holiday{}))
	assert.Empty(t, tr.HolidayStatus(nil))
}

func TestTranslator_English(t *testing.T) {
	tr := testCatalog(t, "en").Translator("en")

	lunar, err := calendar.SolarToLunar(calendar.SolarDate{Year: 2024, Month: 9, Day: 17})
	require.NoError(t, err)

	f := calendar.DomesticFestival(lunar)
	assert.Equal(t, "Mid-Autumn Festival", tr.Festival(f))
	assert.Empty(t, tr.Festival(nil))
	assert.Equal(t, "Eighth Month, Day 15", tr.LunarDate(lunar))
	assert.Equal(t, "Leap Fourth Month", tr.LunarMonth(4, true))
	assert.Equal(t, "甲辰 Year of the Dragon", tr.YearLabel(2024))
}

func TestTranslator_MissingMessage(t *testing.T) {
	tr := testCatalog(t, "en").Translator()
	assert.Equal(t, "fallback", tr.Message("no.such.message", "fallback", nil))
}

func TestLocaleFiles_SameKeys(t *testing.T) {
	load := func(name string) map[string]string {
		raw, err := localeFS.ReadFile("locales/" + name)
		require.NoError(t, err)
		var m map[string]string
		require.NoError(t, json.Unmarshal(raw, &m))
		return m
	}

	en := load("active.en.json")
	zh := load("active.zh.json")
	assert.Len(t, zh, len(en))
	for id := range en {
		assert.Contains(t, zh, id)
	}

	terms, err := calendar.Terms(2024)
	require.NoError(t, err)
	for _, term := range terms {
		assert.Contains(t, en, "term."+term.ID())
	}
	for z := 0; z < 12; z++ {
		assert.Contains(t, en, "zodiac."+calendar.Zodiac(z).ID())
	}
}
