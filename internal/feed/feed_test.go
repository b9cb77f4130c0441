package feed

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/emersion/go-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zapponejosh/lunarcal/internal/calendar"
	"github.com/zapponejosh/lunarcal/internal/locale"
)

type holidays map[calendar.SolarDate]calendar.Holiday

func (h holidays) Holiday(_ context.Context, d calendar.SolarDate) (*calendar.Holiday, error) {
	if v, ok := h[d]; ok {
		return &v, nil
	}
	return nil, nil
}

func translator(t *testing.T, lang string) *locale.Translator {
	t.Helper()
	c, err := locale.New("en", nil)
	require.NoError(t, err)
	return c.Translator(lang)
}

func resolveRange(t *testing.T, src calendar.HolidaySource, start, end calendar.SolarDate) []*calendar.Day {
	t.Helper()
	r := calendar.NewResolver(src, nil, nil)
	days, err := r.Range(context.Background(), start, end)
	require.NoError(t, err)
	return days
}

func decode(t *testing.T, data []byte) *ical.Calendar {
	t.Helper()
	cal, err := ical.NewDecoder(bytes.NewReader(data)).Decode()
	require.NoError(t, err)
	return cal
}

func TestBuild_Events(t *testing.T) {
	eve := calendar.SolarDate{Year: 2024, Month: 2, Day: 9}
	src := holidays{eve: {Date: eve, Name: "Spring Festival", OffDay: true}}
	days := resolveRange(t, src, calendar.SolarDate{Year: 2024, Month: 2, Day: 1}, calendar.SolarDate{Year: 2024, Month: 2, Day: 14})

	now := time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)
	data, err := Build(days, translator(t, "en"), Options{Name: "Lunar 2024", Now: now})
	require.NoError(t, err)

	cal := decode(t, data)
	assert.Equal(t, "2.0", cal.Props.Get(propVersion).Value)
	assert.Equal(t, prodID, cal.Props.Get(propProdID).Value)
	assert.Equal(t, "Lunar 2024", cal.Props.Get(propCalName).Value)

	summaries := map[string]string{}
	for _, ev := range cal.Events() {
		uid, err := ev.Props.Text(propUID)
		require.NoError(t, err)
		summary, err := ev.Props.Text(propSummary)
		require.NoError(t, err)
		summaries[uid] = summary
		assert.Equal(t, "20240115T080000Z", ev.Props.Get(propDTStamp).Value)
	}

	assert.Equal(t, "Little New Year", summaries["20240202-festival-little_new_year@lunarcal"])
	assert.Equal(t, "World Wetlands Day", summaries["20240202-festival-world_wetlands_day@lunarcal"])
	assert.Equal(t, "Start of Spring", summaries["20240204-term-start_of_spring@lunarcal"])
	assert.Equal(t, "New Year's Eve", summaries["20240209-festival-new_years_eve@lunarcal"])
	assert.Equal(t, "Spring Festival (Day off)", summaries["20240209-holiday@lunarcal"])
	assert.Equal(t, "Spring Festival", summaries["20240210-festival-spring_festival@lunarcal"])
	assert.Equal(t, "Valentine's Day", summaries["20240214-festival-valentines_day@lunarcal"])
	assert.Len(t, summaries, 7)
}

func TestBuild_AllDayAndLocalised(t *testing.T) {
	day := calendar.SolarDate{Year: 2024, Month: 9, Day: 17}
	days := resolveRange(t, nil, day, day)

	data, err := Build(days, translator(t, "zh"), Options{Now: time.Now()})
	require.NoError(t, err)

	text := string(data)
	assert.Contains(t, text, "DTSTART;VALUE=DATE:20240917")
	assert.Contains(t, text, "SUMMARY:中秋节")
	assert.Contains(t, text, "DESCRIPTION:八月十五")
	assert.Contains(t, text, "CATEGORIES:FESTIVAL")
}

func TestBuild_Deterministic(t *testing.T) {
	days := resolveRange(t, nil, calendar.SolarDate{Year: 2024, Month: 1, Day: 1}, calendar.SolarDate{Year: 2024, Month: 12, Day: 31})
	opts := Options{Now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}

	a, err := Build(days, translator(t, "en"), opts)
	require.NoError(t, err)
	b, err := Build(days, translator(t, "en"), opts)
	require.NoError(t, err)
	assert.Equal(t, uids(t, a), uids(t, b))

	assert.Equal(t, calendar.TermsPerYear, strings.Count(string(a), "CATEGORIES:"+CategoryTerm))
}

func TestBuild_Empty(t *testing.T) {
	day := calendar.SolarDate{Year: 2024, Month: 7, Day: 15}
	days := resolveRange(t, nil, day, day)

	data, err := Build(days, translator(t, "en"), Options{})
	require.NoError(t, err)

	text := string(data)
	assert.True(t, strings.HasPrefix(text, "BEGIN:VCALENDAR\r\n"))
	assert.NotContains(t, text, "BEGIN:VEVENT")

	cal := decode(t, data)
	assert.Empty(t, cal.Events())
	got, err := cal.Props.Text(propProdID)
	require.NoError(t, err)
	assert.Equal(t, prodID, got)

	require.Len(t, cal.Children, 1)
	zone := cal.Children[0]
	assert.Equal(t, ical.CompTimezone, zone.Name)
	tzid, err := zone.Props.Text(ical.PropTimezoneID)
	require.NoError(t, err)
	assert.Equal(t, zoneID, tzid)
	require.Len(t, zone.Children, 1)
	assert.Equal(t, ical.CompTimezoneStandard, zone.Children[0].Name)
	assert.Equal(t, zoneOffset, zone.Children[0].Props.Get(ical.PropTimezoneOffsetTo).Value)
}

func uids(t *testing.T, data []byte) []string {
	t.Helper()
	var out []string
	for _, ev := range decode(t, data).Events() {
		uid, err := ev.Props.Text(propUID)
		require.NoError(t, err)
		out = append(out, uid)
	}
	return out
}
