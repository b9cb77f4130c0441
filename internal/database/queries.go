package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/zapponejosh/lunarcal/internal/calendar"
)

// querier is satisfied by both *DB and *Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// =============================================================================
// Helper Functions
// =============================================================================

// parseTimestamp parses a timestamp from SQLite TEXT format, or returns nil.
func parseTimestamp(ns sql.NullString) *time.Time {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, ns.String); err == nil {
			return &t
		}
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// =============================================================================
// Legal Holiday Queries
// =============================================================================

// GetHoliday retrieves the holiday arrangement for a date.
// Returns ErrNotFound if the date has none.
func (db *DB) GetHoliday(ctx context.Context, date calendar.SolarDate) (*calendar.Holiday, error) {
	var (
		h      calendar.Holiday
		offDay int
	)
	err := db.QueryRowContext(ctx,
		`SELECT name, off_day FROM legal_holidays WHERE date = ?`,
		date.String(),
	).Scan(&h.Name, &offDay)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query holiday %s: %w", date, err)
	}

	h.Date = date
	h.OffDay = offDay == 1
	return &h, nil
}

// Holiday implements calendar.HolidaySource: a missing row is not an error.
func (db *DB) Holiday(ctx context.Context, date calendar.SolarDate) (*calendar.Holiday, error) {
	h, err := db.GetHoliday(ctx, date)
	if IsNotFound(err) {
		return nil, nil
	}
	return h, err
}

// HolidaysByYear lists the holiday arrangements imported for a year, in
// date order.
func (db *DB) HolidaysByYear(ctx context.Context, year int) ([]calendar.Holiday, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT date, name, off_day FROM legal_holidays WHERE year = ? ORDER BY date`,
		year,
	)
	if err != nil {
		return nil, fmt.Errorf("query holidays for %d: %w", year, err)
	}
	defer rows.Close()

	var out []calendar.Holiday
	for rows.Next() {
		var (
			h       calendar.Holiday
			dateStr string
			offDay  int
		)
		if err := rows.Scan(&dateStr, &h.Name, &offDay); err != nil {
			return nil, fmt.Errorf("scan holiday row: %w", err)
		}
		if h.Date, err = calendar.ParseSolarDate(dateStr); err != nil {
			return nil, fmt.Errorf("stored holiday date: %w", err)
		}
		h.OffDay = offDay == 1
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate holiday rows: %w", err)
	}
	return out, nil
}

// UpsertHoliday inserts or replaces the arrangement for one date.
func (db *DB) UpsertHoliday(ctx context.Context, year int, h calendar.Holiday) error {
	return upsertHoliday(ctx, db, year, h)
}

func upsertHoliday(ctx context.Context, q querier, year int, h calendar.Holiday) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO legal_holidays (date, year, name, off_day)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (date) DO UPDATE SET
			year = excluded.year,
			name = excluded.name,
			off_day = excluded.off_day,
			updated_at = datetime('now')
	`, h.Date.String(), year, h.Name, boolToInt(h.OffDay))
	if err != nil {
		return fmt.Errorf("upsert holiday %s: %w", h.Date, err)
	}
	return nil
}

// ReplaceHolidays swaps a year's arrangements for the given set.
func (tx *Tx) ReplaceHolidays(ctx context.Context, year int, holidays []calendar.Holiday) (int, error) {
	if _, err := tx.ExecContext(ctx, `DELETE FROM legal_holidays WHERE year = ?`, year); err != nil {
		return 0, fmt.Errorf("clear holidays for %d: %w", year, err)
	}
	for _, h := range holidays {
		if err := upsertHoliday(ctx, tx, year, h); err != nil {
			return 0, err
		}
	}
	return len(holidays), nil
}

// =============================================================================
// Almanac Queries
// =============================================================================

// GetAlmanac retrieves the almanac entry for a date.
// Returns ErrNotFound if the date has none.
func (db *DB) GetAlmanac(ctx context.Context, date calendar.SolarDate) (*calendar.Almanac, error) {
	var a calendar.Almanac
	err := db.QueryRowContext(ctx,
		`SELECT suitable, avoid FROM almanac WHERE date = ?`,
		date.String(),
	).Scan(&a.Suitable, &a.Avoid)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query almanac %s: %w", date, err)
	}

	a.Date = date
	return &a, nil
}

// Almanac implements calendar.AlmanacSource: a missing row is not an error.
func (db *DB) Almanac(ctx context.Context, date calendar.SolarDate) (*calendar.Almanac, error) {
	a, err := db.GetAlmanac(ctx, date)
	if IsNotFound(err) {
		return nil, nil
	}
	return a, err
}

// UpsertAlmanac inserts or replaces the entry for one date.
func (db *DB) UpsertAlmanac(ctx context.Context, year int, a calendar.Almanac) error {
	return upsertAlmanac(ctx, db, year, a)
}

func upsertAlmanac(ctx context.Context, q querier, year int, a calendar.Almanac) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO almanac (date, year, suitable, avoid)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (date) DO UPDATE SET
			year = excluded.year,
			suitable = excluded.suitable,
			avoid = excluded.avoid,
			updated_at = datetime('now')
	`, a.Date.String(), year, a.Suitable, a.Avoid)
	if err != nil {
		return fmt.Errorf("upsert almanac %s: %w", a.Date, err)
	}
	return nil
}

// ReplaceAlmanac swaps a year's almanac entries for the given set.
func (tx *Tx) ReplaceAlmanac(ctx context.Context, year int, entries []calendar.Almanac) (int, error) {
	if _, err := tx.ExecContext(ctx, `DELETE FROM almanac WHERE year = ?`, year); err != nil {
		return 0, fmt.Errorf("clear almanac for %d: %w", year, err)
	}
	for _, a := range entries {
		if err := upsertAlmanac(ctx, tx, year, a); err != nil {
			return 0, err
		}
	}
	return len(entries), nil
}

// Coverage counts the stored rows of a year.
func (db *DB) Coverage(ctx context.Context, year int) (*YearCoverage, error) {
	c := YearCoverage{Year: year}
	err := db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM legal_holidays WHERE year = ?),
			(SELECT COUNT(*) FROM almanac WHERE year = ?)
	`, year, year).Scan(&c.Holidays, &c.Almanac)
	if err != nil {
		return nil, fmt.Errorf("query coverage for %d: %w", year, err)
	}
	return &c, nil
}

// =============================================================================
// Import Log Queries
// =============================================================================

// LogImport records an import run.
func (db *DB) LogImport(ctx context.Context, entry *ImportLogEntry) error {
	if !entry.Kind.IsValid() {
		return fmt.Errorf("log import: invalid kind %q", entry.Kind)
	}

	res, err := db.ExecContext(ctx, `
		INSERT INTO import_log (kind, year, source, records, success, error_message)
		VALUES (?, ?, ?, ?, ?, ?)
	`, entry.Kind, entry.Year, entry.Source, entry.Records, boolToInt(entry.Success), entry.ErrorMessage)
	if err != nil {
		return fmt.Errorf("log import: %w", err)
	}

	if entry.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("log import id: %w", err)
	}
	return nil
}

// RecentImports returns the latest import runs, newest first.
func (db *DB) RecentImports(ctx context.Context, limit int) ([]ImportLogEntry, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, kind, year, source, records, success, error_message, imported_at
		FROM import_log
		ORDER BY imported_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query import log: %w", err)
	}
	defer rows.Close()

	var logs []ImportLogEntry
	for rows.Next() {
		var (
			entry      ImportLogEntry
			success    int
			errMessage sql.NullString
			importedAt sql.NullString
		)
		err := rows.Scan(
			&entry.ID,
			&entry.Kind,
			&entry.Year,
			&entry.Source,
			&entry.Records,
			&success,
			&errMessage,
			&importedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan import log row: %w", err)
		}

		entry.Success = success == 1
		if errMessage.Valid {
			entry.ErrorMessage = &errMessage.String
		}
		entry.ImportedAt = parseTimestamp(importedAt)
		logs = append(logs, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate import log rows: %w", err)
	}
	return logs, nil
}
