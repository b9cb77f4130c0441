// Command coverage reports which years have stored holiday schedules and
// almanac entries.
//
// Usage:
//
//	go run ./cmd/coverage -db data/lunarcal.db -start 2020 -years 6 -o coverage.json
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/zapponejosh/lunarcal/internal/calendar"
	"github.com/zapponejosh/lunarcal/internal/database"
	"github.com/zapponejosh/lunarcal/internal/logger"
)

// Analysis summarises coverage over a span of years.
type Analysis struct {
	StartYear       int                     `json:"start_year"`
	EndYear         int                     `json:"end_year"`
	Years           []database.YearCoverage `json:"years"`
	MissingHolidays []int                   `json:"missing_holidays"`
	AlmanacDays     int                     `json:"almanac_days"`
	CalendarDays    int                     `json:"calendar_days"`
}

// AlmanacPercent is the share of calendar days with an almanac entry.
func (a *Analysis) AlmanacPercent() float64 {
	if a.CalendarDays == 0 {
		return 0
	}
	return float64(a.AlmanacDays) / float64(a.CalendarDays) * 100
}

func main() {
	dbPath := flag.String("db", "data/lunarcal.db", "Path to SQLite database")
	startYear := flag.Int("start", 2024, "Start year")
	years := flag.Int("years", 4, "Number of years to check")
	outputFile := flag.String("o", "", "Output results to JSON file")
	flag.Parse()

	endYear := *startYear + *years - 1
	if *years < 1 || *startYear < calendar.MinYear || endYear > calendar.MaxYear {
		fmt.Fprintf(os.Stderr, "years must lie within %d-%d\n", calendar.MinYear, calendar.MaxYear)
		os.Exit(2)
	}

	log := logger.New(os.Stderr, "warn", "text")
	db, err := database.Open(database.DefaultConfig(*dbPath), log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx := context.Background()
	if _, err := db.Migrate(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	analysis, err := analyze(ctx, db, *startYear, endYear)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	printSummary(os.Stdout, analysis)

	if *outputFile != "" {
		if err := saveResults(*outputFile, analysis); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("\nResults saved to %s\n", *outputFile)
	}

	if len(analysis.MissingHolidays) > 0 {
		os.Exit(1)
	}
}

func analyze(ctx context.Context, db *database.DB, startYear, endYear int) (*Analysis, error) {
	a := &Analysis{
		StartYear:       startYear,
		EndYear:         endYear,
		MissingHolidays: []int{},
	}
	for year := startYear; year <= endYear; year++ {
		c, err := db.Coverage(ctx, year)
		if err != nil {
			return nil, err
		}
		a.Years = append(a.Years, *c)
		if c.Holidays == 0 {
			a.MissingHolidays = append(a.MissingHolidays, year)
		}
		a.AlmanacDays += c.Almanac
		a.CalendarDays += daysInYear(year)
	}
	return a, nil
}

func daysInYear(year int) int {
	if calendar.IsLeapYear(year) {
		return 366
	}
	return 365
}

func printSummary(w io.Writer, a *Analysis) {
	fmt.Fprintln(w, "================================================================")
	fmt.Fprintln(w, "Stored Data Coverage")
	fmt.Fprintln(w, "================================================================")
	fmt.Fprintf(w, "Years:       %d-%d\n\n", a.StartYear, a.EndYear)

	fmt.Fprintf(w, "  %-6s %10s %10s\n", "Year", "Holidays", "Almanac")
	for _, c := range a.Years {
		marker := ""
		if c.Holidays == 0 {
			marker = "  ✗ no holiday schedule"
		}
		fmt.Fprintf(w, "  %-6d %10d %10d%s\n", c.Year, c.Holidays, c.Almanac, marker)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Almanac coverage: %d/%d days (%.1f%%)\n", a.AlmanacDays, a.CalendarDays, a.AlmanacPercent())
	if len(a.MissingHolidays) == 0 {
		fmt.Fprintln(w, "Every year has a holiday schedule ✓")
	} else {
		fmt.Fprintf(w, "Years without a holiday schedule: %v\n", a.MissingHolidays)
	}
}

func saveResults(filename string, a *Analysis) error {
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", filename, err)
	}
	return nil
}
