// Command dategen prints a lunar year report: new year, leap month, month
// lengths, solar terms and festival dates.
//
// Usage:
//
//	go run ./cmd/dategen -year 2025 -lang zh
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/zapponejosh/lunarcal/internal/calendar"
	"github.com/zapponejosh/lunarcal/internal/locale"
	"github.com/zapponejosh/lunarcal/internal/logger"
)

func main() {
	year := flag.Int("year", 2025, "Lunar year to report")
	lang := flag.String("lang", "en", "Output language (en or zh)")
	flag.Parse()

	log := logger.New(os.Stderr, "warn", "text")
	catalog, err := locale.New("en", log)
	if err != nil {
		log.Error("load locales", "error", err)
		os.Exit(1)
	}

	if err := report(context.Background(), os.Stdout, *year, catalog.Translator(*lang)); err != nil {
		log.Error("report failed", "error", err)
		os.Exit(1)
	}
}

func report(ctx context.Context, w io.Writer, year int, tr *locale.Translator) error {
	summary, err := calendar.Summary(year)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "=== %s ===\n\n", tr.YearLabel(year))
	fmt.Fprintf(w, "New Year:    %s\n", summary.NewYear)
	if summary.LeapMonth > 0 {
		fmt.Fprintf(w, "Leap Month:  %s (%d days)\n", tr.LunarMonth(summary.LeapMonth, true), summary.LeapLength)
	} else {
		fmt.Fprintln(w, "Leap Month:  none")
	}
	fmt.Fprintf(w, "Length:      %d days\n\n", summary.Length)

	fmt.Fprintln(w, "Months:")
	for m, n := range summary.Months {
		fmt.Fprintf(w, "  %-16s %d\n", tr.LunarMonth(m+1, false), n)
		if m+1 == summary.LeapMonth {
			fmt.Fprintf(w, "  %-16s %d\n", tr.LunarMonth(m+1, true), summary.LeapLength)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Solar Terms (%d):\n", year)
	for _, t := range summary.Terms {
		fmt.Fprintf(w, "  %s  %s\n", t.Date(), tr.Term(t))
	}
	fmt.Fprintln(w)

	// Walk the lunar year itself, which may extend a month into the next
	// solar year. Year 2100 ends past the solar range, so clamp the walk.
	start := summary.NewYear
	end := start.AddDays(summary.Length - 1)
	if last := (calendar.SolarDate{Year: calendar.MaxYear, Month: 12, Day: 31}); last.Before(end) {
		end = last
	}

	days, err := calendar.NewResolver(nil, nil, nil).Range(ctx, start, end)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "Festivals:")
	for _, d := range days {
		var names []string
		if f := d.Festivals.Domestic; f != nil {
			names = append(names, tr.Festival(f))
		}
		if f := d.Festivals.International; f != nil {
			names = append(names, tr.Festival(f))
		}
		if len(names) == 0 {
			continue
		}
		fmt.Fprintf(w, "  %s  %-14s %s\n", d.Solar, tr.LunarDate(d.Lunar), strings.Join(names, ", "))
	}
	return nil
}
