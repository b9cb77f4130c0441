package database

// migration is one forward-only schema step.
type migration struct {
	version int
	name    string
	sql     string
}

// migrations lists every schema step in version order.
var migrations = []migration{
	{version: 1, name: "holidays_and_almanac", sql: migrationV1HolidaysAndAlmanac},
	{version: 2, name: "import_log", sql: migrationV2ImportLog},
}

// SchemaVersion is the version the code expects after Migrate.
func SchemaVersion() int {
	return migrations[len(migrations)-1].version
}

// migrationV1HolidaysAndAlmanac creates the per-day data tables. Both are
// keyed by Gregorian date in YYYY-MM-DD form; year is the data file's year,
// which for holiday files can differ from the date's own year (a January
// working day announced with the previous year's schedule).
const migrationV1HolidaysAndAlmanac = `
CREATE TABLE IF NOT EXISTS legal_holidays (
    date        TEXT PRIMARY KEY,
    year        INTEGER NOT NULL,
    name        TEXT NOT NULL,
    off_day     INTEGER NOT NULL CHECK (off_day IN (0, 1)),
    created_at  TEXT NOT NULL DEFAULT (datetime('now')),
    updated_at  TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_legal_holidays_year ON legal_holidays(year);

CREATE TABLE IF NOT EXISTS almanac (
    date        TEXT PRIMARY KEY,
    year        INTEGER NOT NULL,
    suitable    TEXT NOT NULL DEFAULT '',
    avoid       TEXT NOT NULL DEFAULT '',
    created_at  TEXT NOT NULL DEFAULT (datetime('now')),
    updated_at  TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_almanac_year ON almanac(year);
`

// migrationV2ImportLog records every import run.
const migrationV2ImportLog = `
CREATE TABLE IF NOT EXISTS import_log (
    id             INTEGER PRIMARY KEY AUTOINCREMENT,
    kind           TEXT NOT NULL CHECK (kind IN ('holidays', 'almanac')),
    year           INTEGER NOT NULL,
    source         TEXT NOT NULL DEFAULT '',
    records        INTEGER NOT NULL DEFAULT 0,
    success        INTEGER NOT NULL CHECK (success IN (0, 1)),
    error_message  TEXT,
    imported_at    TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_import_log_imported_at ON import_log(imported_at);
`
