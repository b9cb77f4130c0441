package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zapponejosh/lunarcal/internal/calendar"
	"github.com/zapponejosh/lunarcal/internal/database"
)

func TestAnalyze(t *testing.T) {
	ctx := context.Background()
	db, err := database.Open(database.DefaultConfig(":memory:"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	_, err = db.Migrate(ctx)
	require.NoError(t, err)

	day := calendar.SolarDate{Year: 2024, Month: 2, Day: 10}
	require.NoError(t, db.UpsertHoliday(ctx, 2024, calendar.Holiday{Date: day, Name: "Spring Festival", OffDay: true}))
	require.NoError(t, db.UpsertAlmanac(ctx, 2024, calendar.Almanac{Date: day, Suitable: "祭祀", Avoid: "动土"}))

	a, err := analyze(ctx, db, 2023, 2024)
	require.NoError(t, err)

	require.Len(t, a.Years, 2)
	assert.Equal(t, []int{2023}, a.MissingHolidays)
	assert.Equal(t, 1, a.AlmanacDays)
	assert.Equal(t, 365+366, a.CalendarDays)

	var buf bytes.Buffer
	printSummary(&buf, a)
	assert.Contains(t, buf.String(), "Years without a holiday schedule: [2023]")
}
