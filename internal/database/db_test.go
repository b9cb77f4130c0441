package database

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zapponejosh/lunarcal/internal/calendar"
)

// testDB creates a temporary in-memory database for testing.
func testDB(t *testing.T) *DB {
	t.Helper()

	cfg := Config{
		Path:            ":memory:",
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Hour,
	}

	// Quiet logger for tests
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))

	db, err := Open(cfg, logger)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	ctx := context.Background()
	if _, err := db.Migrate(ctx); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func date(y, m, d int) calendar.SolarDate {
	return calendar.SolarDate{Year: y, Month: m, Day: d}
}

// seedTestData imports a small 2024 holiday schedule and almanac.
func seedTestData(t *testing.T, db *DB) {
	t.Helper()
	ctx := context.Background()

	holidays := &HolidayFile{
		Year: 2024,
		Days: []HolidayDay{
			{Name: "元旦", Date: "2024-01-01", IsOffDay: true},
			{Name: "春节", Date: "2024-02-04", IsOffDay: false},
			{Name: "春节", Date: "2024-02-10", IsOffDay: true},
		},
	}
	if _, err := db.ImportHolidays(ctx, holidays, "seed"); err != nil {
		t.Fatalf("seed holidays: %v", err)
	}

	almanac := &AlmanacFile{
		Year: 2024,
		Days: []AlmanacDay{
			{Date: "2024-02-10", Suitable: "祭祀 祈福", Avoid: "动土"},
		},
	}
	if _, err := db.ImportAlmanac(ctx, almanac, "seed"); err != nil {
		t.Fatalf("seed almanac: %v", err)
	}
}

// -----------------------------------------------------------------
// DB tests
// -----------------------------------------------------------------

func TestOpen(t *testing.T) {
	db := testDB(t)

	if err := db.Health(context.Background()); err != nil {
		t.Errorf("Health() error = %v", err)
	}
}

func TestMigrate(t *testing.T) {
	db := testDB(t)

	// Running again should be a no-op
	count, err := db.Migrate(context.Background())
	if err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	if count != 0 {
		t.Errorf("Migrate() count = %d, want 0 (already applied)", count)
	}
}

func TestMigrate_RecordsNamedSteps(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	version, err := db.AppliedVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, SchemaVersion(), version)

	applied, err := db.AppliedMigrations(ctx)
	require.NoError(t, err)
	require.Len(t, applied, len(migrations))
	for i, m := range migrations {
		assert.Equal(t, m.version, applied[i].Version)
		assert.Equal(t, m.name, applied[i].Name)
		assert.NotNil(t, applied[i].AppliedAt)
	}
}

func TestHealth_FreshStoreNeedsMigrate(t *testing.T) {
	db, err := Open(DefaultConfig(":memory:"), nil)
	require.NoError(t, err)
	defer db.Close()
	ctx := context.Background()

	version, err := db.AppliedVersion(ctx)
	require.NoError(t, err)
	assert.Zero(t, version)

	err = db.Health(ctx)
	assert.ErrorIs(t, err, ErrSchemaOutdated)

	count, err := db.Migrate(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(migrations), count)
	assert.NoError(t, db.Health(ctx))
}

func TestOpen_CreatesDirectory(t *testing.T) {
	path := t.TempDir() + "/nested/lunarcal.db"

	db, err := Open(DefaultConfig(path), nil)
	require.NoError(t, err)
	defer db.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

// -----------------------------------------------------------------
// Holiday tests
// -----------------------------------------------------------------

func TestGetHoliday(t *testing.T) {
	db := testDB(t)
	seedTestData(t, db)
	ctx := context.Background()

	h, err := db.GetHoliday(ctx, date(2024, 2, 4))
	require.NoError(t, err)
	assert.Equal(t, "春节", h.Name)
	assert.False(t, h.OffDay)
	assert.Equal(t, date(2024, 2, 4), h.Date)

	_, err = db.GetHoliday(ctx, date(2024, 3, 1))
	assert.ErrorIs(t, err, ErrNotFound)
	assert.True(t, IsNotFound(err))
}

func TestHoliday_SourceSemantics(t *testing.T) {
	db := testDB(t)
	seedTestData(t, db)
	ctx := context.Background()

	h, err := db.Holiday(ctx, date(2024, 3, 1))
	assert.NoError(t, err)
	assert.Nil(t, h)

	h, err = db.Holiday(ctx, date(2024, 2, 10))
	require.NoError(t, err)
	require.NotNil(t, h)
	assert.True(t, h.OffDay)
}

func TestHolidaysByYear(t *testing.T) {
	db := testDB(t)
	seedTestData(t, db)

	got, err := db.HolidaysByYear(context.Background(), 2024)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, date(2024, 1, 1), got[0].Date)
	assert.Equal(t, date(2024, 2, 10), got[2].Date)

	none, err := db.HolidaysByYear(context.Background(), 2023)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestUpsertHoliday(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	h := calendar.Holiday{Date: date(2025, 1, 1), Name: "New Year", OffDay: true}
	require.NoError(t, db.UpsertHoliday(ctx, 2025, h))

	h.Name = "元旦"
	require.NoError(t, db.UpsertHoliday(ctx, 2025, h))

	got, err := db.GetHoliday(ctx, h.Date)
	require.NoError(t, err)
	assert.Equal(t, "元旦", got.Name)

	cov, err := db.Coverage(ctx, 2025)
	require.NoError(t, err)
	assert.Equal(t, 1, cov.Holidays)
}

// -----------------------------------------------------------------
// Almanac tests
// -----------------------------------------------------------------

func TestGetAlmanac(t *testing.T) {
	db := testDB(t)
	seedTestData(t, db)
	ctx := context.Background()

	a, err := db.GetAlmanac(ctx, date(2024, 2, 10))
	require.NoError(t, err)
	assert.Equal(t, "动土", a.Avoid)

	_, err = db.GetAlmanac(ctx, date(2024, 2, 11))
	assert.ErrorIs(t, err, ErrNotFound)

	a, err = db.Almanac(ctx, date(2024, 2, 11))
	assert.NoError(t, err)
	assert.Nil(t, a)
}

func TestUpsertAlmanac(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	a := calendar.Almanac{Date: date(2024, 5, 1), Suitable: "出行"}
	require.NoError(t, db.UpsertAlmanac(ctx, 2024, a))

	got, err := db.GetAlmanac(ctx, a.Date)
	require.NoError(t, err)
	assert.Equal(t, "出行", got.Suitable)
	assert.Empty(t, got.Avoid)
}

// -----------------------------------------------------------------
// Resolver integration
// -----------------------------------------------------------------

func TestDB_AsResolverSources(t *testing.T) {
	db := testDB(t)
	seedTestData(t, db)

	r := calendar.NewResolver(db, db, nil)
	day, err := r.Day(context.Background(), date(2024, 2, 10))
	require.NoError(t, err)

	require.NotNil(t, day.Holiday)
	assert.Equal(t, "春节", day.Holiday.Name)
	require.NotNil(t, day.Almanac)
	assert.Equal(t, "祭祀 祈福", day.Almanac.Suitable)
	assert.Equal(t, "spring_festival", day.Festivals.Domestic.ID)
}

// -----------------------------------------------------------------
// Transaction tests
// -----------------------------------------------------------------

func TestWithTx_Success(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	err := db.WithTx(ctx, func(tx *Tx) error {
		_, err := tx.ReplaceHolidays(ctx, 2024, []calendar.Holiday{
			{Date: date(2024, 10, 1), Name: "国庆节", OffDay: true},
		})
		return err
	})
	if err != nil {
		t.Fatalf("WithTx() success case error = %v", err)
	}

	if _, err := db.GetHoliday(ctx, date(2024, 10, 1)); err != nil {
		t.Errorf("holiday not created: %v", err)
	}
}

func TestWithTx_Rollback(t *testing.T) {
	db := testDB(t)
	seedTestData(t, db)
	ctx := context.Background()

	err := db.WithTx(ctx, func(tx *Tx) error {
		if _, err := tx.ReplaceHolidays(ctx, 2024, nil); err != nil {
			return err
		}
		// Force error to trigger rollback
		return ErrNotFound
	})
	if err != ErrNotFound {
		t.Fatalf("WithTx() rollback case error = %v, want ErrNotFound", err)
	}

	// The cleared rows must be back
	if _, err := db.GetHoliday(ctx, date(2024, 1, 1)); err != nil {
		t.Errorf("holiday should survive rollback, got error: %v", err)
	}
}

// -----------------------------------------------------------------
// Import tests
// -----------------------------------------------------------------

func TestParseHolidayFile_JSON(t *testing.T) {
	input := `{
		"year": 2024,
		"papers": ["https://www.gov.cn/zhengce/content/202310/content_6911527.htm"],
		"days": [
			{"name": "元旦", "date": "2024-01-01", "isOffDay": true},
			{"name": "春节", "date": "2024-02-04", "isOffDay": false}
		]
	}`

	f, err := ParseHolidayFile(strings.NewReader(input), FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, 2024, f.Year)
	assert.Len(t, f.Papers, 1)

	holidays, err := f.Holidays()
	require.NoError(t, err)
	require.Len(t, holidays, 2)
	assert.True(t, holidays[0].OffDay)
	assert.False(t, holidays[1].OffDay)
}

func TestParseAlmanacFile_YAML(t *testing.T) {
	input := `
year: 2024
days:
  - date: "2024-02-10"
    suitable: 祭祀 祈福
    avoid: 动土
  - date: "2024-02-11"
    suitable: 嫁娶
`

	f, err := ParseAlmanacFile(strings.NewReader(input), FormatYAML)
	require.NoError(t, err)

	entries, err := f.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, date(2024, 2, 11), entries[1].Date)
	assert.Equal(t, "嫁娶", entries[1].Suitable)
	assert.Empty(t, entries[1].Avoid)
}

func TestImportValidation(t *testing.T) {
	tests := []struct {
		name string
		file *HolidayFile
		want error
	}{
		{"year out of range", &HolidayFile{Year: 2200}, ErrInvalidData},
		{"bad date", &HolidayFile{Year: 2024, Days: []HolidayDay{{Name: "x", Date: "2024-02-30"}}}, ErrInvalidData},
		{"missing name", &HolidayFile{Year: 2024, Days: []HolidayDay{{Date: "2024-02-10"}}}, ErrInvalidData},
		{"duplicate date", &HolidayFile{Year: 2024, Days: []HolidayDay{
			{Name: "a", Date: "2024-02-10"}, {Name: "b", Date: "2024-02-10"},
		}}, ErrDuplicate},
		{"date far before file year", &HolidayFile{Year: 2024, Days: []HolidayDay{{Name: "x", Date: "1700-01-01"}}}, ErrInvalidData},
		{"date far after file year", &HolidayFile{Year: 2024, Days: []HolidayDay{{Name: "x", Date: "2150-10-01"}}}, ErrInvalidData},
		{"date two years out", &HolidayFile{Year: 2024, Days: []HolidayDay{{Name: "x", Date: "2026-01-01"}}}, ErrInvalidData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.file.Holidays()
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}

	adjacent := &HolidayFile{Year: 2024, Days: []HolidayDay{
		{Name: "元旦", Date: "2023-12-30", IsOffDay: true},
		{Name: "元旦", Date: "2025-01-01", IsOffDay: true},
	}}
	holidays, err := adjacent.Holidays()
	require.NoError(t, err)
	assert.Len(t, holidays, 2)

	_, err = (&AlmanacFile{Year: 2024, Days: []AlmanacDay{{Date: "2025-01-01"}}}).Entries()
	assert.ErrorIs(t, err, ErrInvalidData)

	_, err = ParseHolidayFile(strings.NewReader("{not json"), FormatJSON)
	assert.ErrorIs(t, err, ErrInvalidData)
}

func TestImportHolidays_ReplacesYear(t *testing.T) {
	db := testDB(t)
	seedTestData(t, db)
	ctx := context.Background()

	n, err := db.ImportHolidays(ctx, &HolidayFile{
		Year: 2024,
		Days: []HolidayDay{{Name: "国庆节", Date: "2024-10-01", IsOffDay: true}},
	}, "update.json")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = db.GetHoliday(ctx, date(2024, 1, 1))
	assert.True(t, IsNotFound(err), "old schedule should be replaced")

	cov, err := db.Coverage(ctx, 2024)
	require.NoError(t, err)
	assert.Equal(t, 1, cov.Holidays)
	assert.Equal(t, 1, cov.Almanac)
}

func TestImportLog(t *testing.T) {
	db := testDB(t)
	seedTestData(t, db)
	ctx := context.Background()

	_, err := db.ImportHolidays(ctx, &HolidayFile{Year: 1800}, "broken.json")
	require.Error(t, err)

	logs, err := db.RecentImports(ctx, 10)
	require.NoError(t, err)
	require.Len(t, logs, 3)

	latest := logs[0]
	assert.Equal(t, ImportKindHolidays, latest.Kind)
	assert.Equal(t, "broken.json", latest.Source)
	assert.False(t, latest.Success)
	require.NotNil(t, latest.ErrorMessage)
	assert.Contains(t, *latest.ErrorMessage, "year 1800")
	assert.NotNil(t, latest.ImportedAt)

	assert.True(t, logs[1].Success)
	assert.Equal(t, ImportKindAlmanac, logs[1].Kind)
	assert.Equal(t, 1, logs[1].Records)
}

func TestLogImport_InvalidKind(t *testing.T) {
	db := testDB(t)
	err := db.LogImport(context.Background(), &ImportLogEntry{Kind: "weather"})
	assert.Error(t, err)
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, FormatYAML, FormatFromPath("data/2024.YML"))
	assert.Equal(t, FormatYAML, FormatFromPath("2024.yaml"))
	assert.Equal(t, FormatJSON, FormatFromPath("2024.json"))
	assert.Equal(t, FormatJSON, FormatFromPath("2024"))
}
