package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zapponejosh/lunarcal/internal/config"
)

// SetupRoutes configures all HTTP routes and returns the router.
//
//	GET  /health
//	GET  /api/v1/days/today
//	GET  /api/v1/days/{date}
//	GET  /api/v1/days?start=&end=
//	GET  /api/v1/lunar/{year}/{month}/{day}?leap=
//	GET  /api/v1/years/{year}
//	GET  /api/v1/years/{year}/calendar.ics
//	POST /api/v1/admin/holidays      (X-API-Key)
//	POST /api/v1/admin/almanac       (X-API-Key)
//	GET  /api/v1/admin/imports       (X-API-Key)
func SetupRoutes(handlers *Handlers, cfg *config.Config, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(
		RequestIDMiddleware(),
		RecoveryMiddleware(logger),
		LoggingMiddleware(logger),
		CORSMiddleware(),
	)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteNotFound(w, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed", "METHOD_NOT_ALLOWED")
	})

	r.Get("/health", handlers.HealthCheck)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/days", handlers.GetRange)
		r.Get("/days/today", handlers.GetToday)
		r.Get("/days/{date}", handlers.GetDay)
		r.Get("/lunar/{year}/{month}/{day}", handlers.GetLunar)
		r.Get("/years/{year}", handlers.GetYear)
		r.Get("/years/{year}/calendar.ics", handlers.GetYearFeed)

		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(cfg, logger))
			r.Post("/admin/holidays", handlers.ImportHolidays)
			r.Post("/admin/almanac", handlers.ImportAlmanac)
			r.Get("/admin/imports", handlers.ListImports)
		})
	})

	return r
}
