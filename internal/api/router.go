package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/poll88/deep-research-endpoint/internal/api/handlers"
	"github.com/poll88/deep-research-endpoint/internal/config"
)

// NewRouter creates and configures the HTTP router. The weekly route is
// registered for all methods so the handler itself can answer non-GET
// requests with 405 and an Allow header.
func NewRouter(researcher handlers.Researcher, cfg *config.Config) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware.
	r.Use(RequestLogger)
	r.Use(Recovery)
	r.Use(CORS)

	r.Handle("/api/weekly", handlers.Weekly(researcher, cfg.Auth.Token, cfg.Auth.AllowQueryToken))
	r.Get("/healthz", handlers.Health())

	return r
}
