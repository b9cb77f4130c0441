// Command import loads holiday schedules and almanac files into the SQLite
// database.
//
// Usage:
//
//	go run ./cmd/import -holidays data/holidays/2024.json -db data/lunarcal.db
//	go run ./cmd/import -almanac data/almanac/2024.yaml
//
// Each file replaces the stored rows of its year in one transaction, so
// running an import twice is safe. Every run is recorded in the import log.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/zapponejosh/lunarcal/internal/database"
	"github.com/zapponejosh/lunarcal/internal/logger"
)

type options struct {
	holidays []string
	almanac  []string
	dbPath   string
}

// fileList collects a repeatable flag.
type fileList []string

func (f *fileList) String() string { return fmt.Sprint(*f) }

func (f *fileList) Set(v string) error {
	*f = append(*f, v)
	return nil
}

func main() {
	var (
		holidays fileList
		almanac  fileList
	)
	flag.Var(&holidays, "holidays", "Holiday schedule file (JSON or YAML); repeatable")
	flag.Var(&almanac, "almanac", "Almanac file (JSON or YAML); repeatable")
	dbPath := flag.String("db", "data/lunarcal.db", "Path to SQLite database")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	level := "info"
	if *verbose {
		level = "debug"
	}
	log := logger.New(os.Stdout, level, "text")

	opts := options{holidays: holidays, almanac: almanac, dbPath: *dbPath}
	if len(opts.holidays) == 0 && len(opts.almanac) == 0 {
		fmt.Fprintln(os.Stderr, "nothing to import: pass -holidays and/or -almanac")
		flag.Usage()
		os.Exit(2)
	}

	if err := run(context.Background(), opts, log); err != nil {
		log.Error("import failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("import complete")
}

func run(ctx context.Context, opts options, log *slog.Logger) error {
	start := time.Now()

	db, err := database.Open(database.DefaultConfig(opts.dbPath), log)
	if err != nil {
		return err
	}
	defer db.Close()

	applied, err := db.Migrate(ctx)
	if err != nil {
		return err
	}
	log.Debug("database ready", slog.String("path", opts.dbPath), slog.Int("migrations_applied", applied))

	total := 0
	for _, path := range opts.holidays {
		n, err := importFile(path, func(f *os.File) (int, error) {
			hf, err := database.ParseHolidayFile(f, database.FormatFromPath(path))
			if err != nil {
				return 0, err
			}
			return db.ImportHolidays(ctx, hf, path)
		})
		if err != nil {
			return err
		}
		total += n
	}

	for _, path := range opts.almanac {
		n, err := importFile(path, func(f *os.File) (int, error) {
			af, err := database.ParseAlmanacFile(f, database.FormatFromPath(path))
			if err != nil {
				return 0, err
			}
			return db.ImportAlmanac(ctx, af, path)
		})
		if err != nil {
			return err
		}
		total += n
	}

	log.Info("import summary",
		slog.Int("files", len(opts.holidays)+len(opts.almanac)),
		slog.Int("records", total),
		slog.Duration("duration", time.Since(start)),
	)
	return nil
}

func importFile(path string, load func(*os.File) (int, error)) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	n, err := load(f)
	if err != nil {
		return 0, fmt.Errorf("import %s: %w", path, err)
	}
	return n, nil
}
