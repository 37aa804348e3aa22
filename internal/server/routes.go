package server

import (
	"log/slog"
	"net/http"
)

// Config contains server configuration options.
type Config struct {
	// AllowedOrigins is the list of allowed CORS origins.
	AllowedOrigins []string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		AllowedOrigins: []string{"*"},
	}
}

// NewRouter creates a new HTTP router with all routes configured.
// It uses Go 1.22+ ServeMux with method-based routing.
func NewRouter(h *Handlers, logger *slog.Logger, cfg Config) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", h.Health)

	// "stats" is more specific than "{id}", so the two patterns don't conflict
	mux.HandleFunc("GET /jobs", h.ListJobs)
	mux.HandleFunc("GET /jobs/stats", h.JobStatistics)
	mux.HandleFunc("GET /jobs/{id}", h.GetJob)

	mux.HandleFunc("GET /sync/status", h.SyncStatus)
	mux.HandleFunc("POST /sync", h.TriggerSync)

	mux.HandleFunc("GET /sources", h.ListSources)
	mux.HandleFunc("POST /sources/{id}/refresh", h.RefreshSource)

	mux.HandleFunc("GET /config", h.GetConfig)
	mux.HandleFunc("PATCH /config", h.UpdateConfig)

	chain := ChainMiddleware(
		RequestIDMiddleware(),
		RecoveryMiddleware(logger),
		LoggingMiddleware(logger),
		CORSMiddleware(cfg.AllowedOrigins),
	)

	return chain(mux)
}
