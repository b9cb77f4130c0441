package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/zapponejosh/lunarcal/internal/calendar"
	"github.com/zapponejosh/lunarcal/internal/config"
	"github.com/zapponejosh/lunarcal/internal/database"
	"github.com/zapponejosh/lunarcal/internal/feed"
	"github.com/zapponejosh/lunarcal/internal/locale"
	"github.com/zapponejosh/lunarcal/internal/logger"
)

const (
	maxImportBytes     = 1 << 20
	defaultImportLimit = 20
	maxImportLimit     = 100
)

// Handlers contains all HTTP handlers and their dependencies.
type Handlers struct {
	db       *database.DB
	resolver *calendar.Resolver
	locales  *locale.Catalog
	cfg      *config.Config
	logger   *slog.Logger
	now      func() time.Time
}

// NewHandlers creates a new Handlers instance. The database serves as both
// holiday and almanac source.
func NewHandlers(db *database.DB, locales *locale.Catalog, cfg *config.Config, log *slog.Logger) *Handlers {
	return &Handlers{
		db:       db,
		resolver: calendar.NewResolver(db, db, log),
		locales:  locales,
		cfg:      cfg,
		logger:   log,
		now:      time.Now,
	}
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Health(r.Context()); err != nil {
		logger.Warn(r.Context(), h.logger, "health check failed", slog.String("error", err.Error()))
		WriteError(w, http.StatusServiceUnavailable, "Database unhealthy", CodeUnhealthy)
		return
	}

	WriteSuccess(w, map[string]any{
		"status":         "healthy",
		"schema_version": database.SchemaVersion(),
		"languages":      h.locales.Languages(),
		"years":          []int{calendar.MinYear, calendar.MaxYear},
	})
}

// GetToday handles GET /api/v1/days/today
func (h *Handlers) GetToday(w http.ResponseWriter, r *http.Request) {
	h.writeDay(w, r, calendar.NewSolarDate(h.now()))
}

// GetDay handles GET /api/v1/days/{date}
func (h *Handlers) GetDay(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "date")
	date, err := calendar.ParseSolarDate(raw)
	if err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid date: %s. Use YYYY-MM-DD", raw))
		return
	}
	h.writeDay(w, r, date)
}

func (h *Handlers) writeDay(w http.ResponseWriter, r *http.Request, date calendar.SolarDate) {
	day, err := h.resolver.Day(r.Context(), date)
	if err != nil {
		h.writeErr(w, r, "resolve day", err)
		return
	}
	tr := h.translator(w, r)
	WriteSuccess(w, newDayView(day, tr))
}

// GetRange handles GET /api/v1/days?start=YYYY-MM-DD&end=YYYY-MM-DD
func (h *Handlers) GetRange(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	startStr, endStr := q.Get("start"), q.Get("end")
	if startStr == "" || endStr == "" {
		WriteBadRequest(w, "Both start and end parameters are required")
		return
	}

	start, err := calendar.ParseSolarDate(startStr)
	if err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid start date: %s. Use YYYY-MM-DD", startStr))
		return
	}
	end, err := calendar.ParseSolarDate(endStr)
	if err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid end date: %s. Use YYYY-MM-DD", endStr))
		return
	}

	span := int(end.Time().Sub(start.Time()).Hours()/24) + 1
	if span > h.cfg.MaxRangeDays {
		WriteBadRequest(w, fmt.Sprintf("Date range cannot exceed %d days", h.cfg.MaxRangeDays))
		return
	}

	days, err := h.resolver.Range(r.Context(), start, end)
	if err != nil {
		h.writeErr(w, r, "resolve range", err)
		return
	}

	tr := h.translator(w, r)
	WriteSuccess(w, RangeView{
		Start: start,
		End:   end,
		Count: len(days),
		Days:  newDayViews(days, tr),
	})
}

// GetLunar handles GET /api/v1/lunar/{year}/{month}/{day}?leap=
func (h *Handlers) GetLunar(w http.ResponseWriter, r *http.Request) {
	year, month, day, err := lunarParams(r)
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	kind, err := parseMonthKind(r.URL.Query().Get("leap"))
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	dates, err := calendar.LunarToSolar(year, month, day, kind)
	if err != nil {
		h.writeErr(w, r, "convert lunar date", err)
		return
	}

	days := make([]*calendar.Day, 0, len(dates))
	for _, d := range dates {
		resolved, err := h.resolver.Day(r.Context(), d)
		if err != nil {
			// The last days of lunar 2100 fall in 2101, past the solar range.
			if calendar.IsOutOfRange(err) {
				continue
			}
			h.writeErr(w, r, "resolve day", err)
			return
		}
		days = append(days, resolved)
	}

	tr := h.translator(w, r)
	WriteSuccess(w, LunarView{
		Year:  year,
		Month: month,
		Day:   day,
		Kind:  kind.String(),
		Days:  newDayViews(days, tr),
	})
}

func lunarParams(r *http.Request) (year, month, day int, err error) {
	parts := []struct {
		name string
		dst  *int
	}{
		{"year", &year},
		{"month", &month},
		{"day", &day},
	}
	for _, p := range parts {
		raw := chi.URLParam(r, p.name)
		n, convErr := strconv.Atoi(raw)
		if convErr != nil {
			return 0, 0, 0, fmt.Errorf("invalid %s: %s", p.name, raw)
		}
		*p.dst = n
	}
	return year, month, day, nil
}

func parseMonthKind(raw string) (calendar.MonthKind, error) {
	switch strings.ToLower(raw) {
	case "", "any":
		return calendar.AnyMonth, nil
	case "leap":
		return calendar.LeapMonthOnly, nil
	case "ordinary":
		return calendar.OrdinaryMonth, nil
	}
	leap, err := strconv.ParseBool(raw)
	if err != nil {
		return calendar.AnyMonth, fmt.Errorf("invalid leap value %q: use true, false or any", raw)
	}
	if leap {
		return calendar.LeapMonthOnly, nil
	}
	return calendar.OrdinaryMonth, nil
}

// GetYear handles GET /api/v1/years/{year}
func (h *Handlers) GetYear(w http.ResponseWriter, r *http.Request) {
	year, ok := yearParam(w, r)
	if !ok {
		return
	}

	summary, err := h.resolver.YearSummary(year)
	if err != nil {
		h.writeErr(w, r, "summarise year", err)
		return
	}

	holidays, err := h.db.HolidaysByYear(r.Context(), year)
	if err != nil {
		h.writeErr(w, r, "list holidays", err)
		return
	}

	tr := h.translator(w, r)
	WriteSuccess(w, newYearView(summary, holidays, tr))
}

// GetYearFeed handles GET /api/v1/years/{year}/calendar.ics
func (h *Handlers) GetYearFeed(w http.ResponseWriter, r *http.Request) {
	year, ok := yearParam(w, r)
	if !ok {
		return
	}
	if year < calendar.MinYear || year > calendar.MaxYear {
		WriteError(w, http.StatusBadRequest,
			fmt.Sprintf("Year must be between %d and %d", calendar.MinYear, calendar.MaxYear), CodeOutOfRange)
		return
	}

	start := calendar.SolarDate{Year: year, Month: 1, Day: 1}
	if start.Before(calendar.Epoch) {
		start = calendar.Epoch
	}
	end := calendar.SolarDate{Year: year, Month: 12, Day: 31}

	days, err := h.resolver.Range(r.Context(), start, end)
	if err != nil {
		h.writeErr(w, r, "resolve feed", err)
		return
	}

	tr := h.translator(w, r)
	data, err := feed.Build(days, tr, feed.Options{Name: tr.YearLabel(year), Now: h.now()})
	if err != nil {
		h.writeErr(w, r, "build feed", err)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="lunarcal-%d.ics"`, year))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func yearParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := chi.URLParam(r, "year")
	year, err := strconv.Atoi(raw)
	if err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid year: %s", raw))
		return 0, false
	}
	return year, true
}

// ImportHolidays handles POST /api/v1/admin/holidays
func (h *Handlers) ImportHolidays(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, maxImportBytes)
	f, err := database.ParseHolidayFile(body, requestFormat(r))
	if err != nil {
		h.writeErr(w, r, "parse holiday file", err)
		return
	}

	n, err := h.db.ImportHolidays(r.Context(), f, importSource(r))
	if err != nil {
		h.writeErr(w, r, "import holidays", err)
		return
	}

	WriteJSON(w, http.StatusCreated, Response{
		Success: true,
		Data:    ImportResult{Kind: string(database.ImportKindHolidays), Year: f.Year, Records: n},
	})
}

// ImportAlmanac handles POST /api/v1/admin/almanac
func (h *Handlers) ImportAlmanac(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, maxImportBytes)
	f, err := database.ParseAlmanacFile(body, requestFormat(r))
	if err != nil {
		h.writeErr(w, r, "parse almanac file", err)
		return
	}

	n, err := h.db.ImportAlmanac(r.Context(), f, importSource(r))
	if err != nil {
		h.writeErr(w, r, "import almanac", err)
		return
	}

	WriteJSON(w, http.StatusCreated, Response{
		Success: true,
		Data:    ImportResult{Kind: string(database.ImportKindAlmanac), Year: f.Year, Records: n},
	})
}

// ListImports handles GET /api/v1/admin/imports?limit=
func (h *Handlers) ListImports(w http.ResponseWriter, r *http.Request) {
	limit := defaultImportLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxImportLimit {
			WriteBadRequest(w, fmt.Sprintf("limit must be between 1 and %d", maxImportLimit))
			return
		}
		limit = n
	}

	logs, err := h.db.RecentImports(r.Context(), limit)
	if err != nil {
		h.writeErr(w, r, "list imports", err)
		return
	}
	if logs == nil {
		logs = []database.ImportLogEntry{}
	}
	WriteSuccess(w, logs)
}

// requestFormat picks the body format from Content-Type, defaulting to JSON.
func requestFormat(r *http.Request) database.Format {
	if strings.Contains(strings.ToLower(r.Header.Get("Content-Type")), "yaml") {
		return database.FormatYAML
	}
	return database.FormatJSON
}

func importSource(r *http.Request) string {
	if id := logger.RequestID(r.Context()); id != "" {
		return "api:" + id
	}
	return "api"
}

// translator negotiates the response language from ?lang= and
// Accept-Language, and announces it in Content-Language.
func (h *Handlers) translator(w http.ResponseWriter, r *http.Request) *locale.Translator {
	tr := h.locales.Translator(r.URL.Query().Get("lang"), r.Header.Get("Accept-Language"))
	w.Header().Set("Content-Language", tr.Lang())
	return tr
}

// writeErr maps err onto a response, logging anything unexpected.
func (h *Handlers) writeErr(w http.ResponseWriter, r *http.Request, op string, err error) {
	if status, code, ok := errorStatus(err); ok {
		WriteError(w, status, err.Error(), code)
		return
	}
	logger.Error(r.Context(), h.logger, "request failed", err, slog.String("op", op))
	WriteInternalError(w, "Failed to "+op)
}
