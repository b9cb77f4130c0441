package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zapponejosh/lunarcal/internal/calendar"
)

// ErrInvalidData is returned when an import file fails validation.
var ErrInvalidData = errors.New("invalid import data")

// Format is the encoding of an import file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from a file extension, defaulting to JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

func decode(r io.Reader, format Format, v any) error {
	switch format {
	case FormatYAML:
		return yaml.NewDecoder(r).Decode(v)
	case FormatJSON, "":
		return json.NewDecoder(r).Decode(v)
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

// =============================================================================
// Holiday Files
// =============================================================================

// HolidayFile is one year's published holiday schedule.
type HolidayFile struct {
	Year   int          `json:"year" yaml:"year"`
	Papers []string     `json:"papers,omitempty" yaml:"papers,omitempty"`
	Days   []HolidayDay `json:"days" yaml:"days"`
}

// HolidayDay is one entry of a holiday schedule. IsOffDay false marks a
// compensating working day.
type HolidayDay struct {
	Name     string `json:"name" yaml:"name"`
	Date     string `json:"date" yaml:"date"`
	IsOffDay bool   `json:"isOffDay" yaml:"isOffDay"`
}

// ParseHolidayFile decodes a holiday schedule.
func ParseHolidayFile(r io.Reader, format Format) (*HolidayFile, error) {
	var f HolidayFile
	if err := decode(r, format, &f); err != nil {
		return nil, fmt.Errorf("%w: decode holiday file: %v", ErrInvalidData, err)
	}
	return &f, nil
}

// Holidays validates the schedule and converts it. Dates may fall in the
// adjacent years, where compensating working days are announced.
func (f *HolidayFile) Holidays() ([]calendar.Holiday, error) {
	if err := validateYear(f.Year); err != nil {
		return nil, err
	}

	seen := make(map[calendar.SolarDate]bool, len(f.Days))
	out := make([]calendar.Holiday, 0, len(f.Days))
	for i, d := range f.Days {
		date, err := calendar.ParseSolarDate(d.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: day %d: %v", ErrInvalidData, i, err)
		}
		if date.Year < f.Year-1 || date.Year > f.Year+1 {
			return nil, fmt.Errorf("%w: day %d (%s) is not within a year of %d", ErrInvalidData, i, date, f.Year)
		}
		if strings.TrimSpace(d.Name) == "" {
			return nil, fmt.Errorf("%w: day %d (%s): name is required", ErrInvalidData, i, date)
		}
		if seen[date] {
			return nil, fmt.Errorf("%w: holiday %s listed twice", ErrDuplicate, date)
		}
		seen[date] = true
		out = append(out, calendar.Holiday{Date: date, Name: d.Name, OffDay: d.IsOffDay})
	}
	return out, nil
}

// =============================================================================
// Almanac Files
// =============================================================================

// AlmanacFile is one year of almanac entries.
type AlmanacFile struct {
	Year int          `json:"year" yaml:"year"`
	Days []AlmanacDay `json:"days" yaml:"days"`
}

// AlmanacDay is the guidance for one date.
type AlmanacDay struct {
	Date     string `json:"date" yaml:"date"`
	Suitable string `json:"suitable" yaml:"suitable"`
	Avoid    string `json:"avoid" yaml:"avoid"`
}

// ParseAlmanacFile decodes an almanac file.
func ParseAlmanacFile(r io.Reader, format Format) (*AlmanacFile, error) {
	var f AlmanacFile
	if err := decode(r, format, &f); err != nil {
		return nil, fmt.Errorf("%w: decode almanac file: %v", ErrInvalidData, err)
	}
	return &f, nil
}

// Entries validates the file and converts it. Every date must fall in the
// file's year.
func (f *AlmanacFile) Entries() ([]calendar.Almanac, error) {
	if err := validateYear(f.Year); err != nil {
		return nil, err
	}

	seen := make(map[calendar.SolarDate]bool, len(f.Days))
	out := make([]calendar.Almanac, 0, len(f.Days))
	for i, d := range f.Days {
		date, err := calendar.ParseSolarDate(d.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: day %d: %v", ErrInvalidData, i, err)
		}
		if date.Year != f.Year {
			return nil, fmt.Errorf("%w: day %d (%s) is outside %d", ErrInvalidData, i, date, f.Year)
		}
		if seen[date] {
			return nil, fmt.Errorf("%w: almanac %s listed twice", ErrDuplicate, date)
		}
		seen[date] = true
		out = append(out, calendar.Almanac{Date: date, Suitable: d.Suitable, Avoid: d.Avoid})
	}
	return out, nil
}

func validateYear(year int) error {
	if year < calendar.MinYear || year > calendar.MaxYear {
		return fmt.Errorf("%w: year %d outside %d-%d", ErrInvalidData, year, calendar.MinYear, calendar.MaxYear)
	}
	return nil
}

// =============================================================================
// Import
// =============================================================================

// ImportHolidays replaces the stored schedule of f.Year in one transaction
// and records the run in the import log.
func (db *DB) ImportHolidays(ctx context.Context, f *HolidayFile, source string) (int, error) {
	holidays, err := f.Holidays()
	if err != nil {
		db.logImport(ctx, ImportKindHolidays, f.Year, source, 0, err)
		return 0, err
	}

	var n int
	err = db.WithTx(ctx, func(tx *Tx) error {
		n, err = tx.ReplaceHolidays(ctx, f.Year, holidays)
		return err
	})
	db.logImport(ctx, ImportKindHolidays, f.Year, source, n, err)
	if err != nil {
		return 0, err
	}
	return n, nil
}

// ImportAlmanac replaces the stored almanac of f.Year in one transaction
// and records the run in the import log.
func (db *DB) ImportAlmanac(ctx context.Context, f *AlmanacFile, source string) (int, error) {
	entries, err := f.Entries()
	if err != nil {
		db.logImport(ctx, ImportKindAlmanac, f.Year, source, 0, err)
		return 0, err
	}

	var n int
	err = db.WithTx(ctx, func(tx *Tx) error {
		n, err = tx.ReplaceAlmanac(ctx, f.Year, entries)
		return err
	})
	db.logImport(ctx, ImportKindAlmanac, f.Year, source, n, err)
	if err != nil {
		return 0, err
	}
	return n, nil
}

// logImport records a run. A logging failure is logged, not returned.
func (db *DB) logImport(ctx context.Context, kind ImportKind, year int, source string, records int, importErr error) {
	entry := &ImportLogEntry{
		Kind:    kind,
		Year:    year,
		Source:  source,
		Records: records,
		Success: importErr == nil,
	}
	if importErr != nil {
		msg := importErr.Error()
		entry.ErrorMessage = &msg
	}

	if err := db.LogImport(ctx, entry); err != nil {
		db.logger.Error("failed to record import",
			slog.String("kind", string(kind)),
			slog.Int("year", year),
			slog.String("error", err.Error()),
		)
		return
	}

	db.logger.Info("import finished",
		slog.String("kind", string(kind)),
		slog.Int("year", year),
		slog.String("source", source),
		slog.Int("records", records),
		slog.Bool("success", importErr == nil),
	)
}
