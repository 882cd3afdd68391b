package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/maksimkurb/valvula-mgr/src/internal/config"
	"github.com/maksimkurb/valvula-mgr/src/internal/domain"
)

// NewRouter creates a new HTTP router with all API endpoints.
func NewRouter(cfg *config.Config, deps *domain.AppDependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(Recovery)
	r.Use(Logger)
	r.Use(PrivateSubnetOnly)
	r.Use(CORS)
	r.Use(JSONContentType)

	h := NewHandler(cfg, deps)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/listeners", h.GetListeners)
		r.Post("/listeners", h.AddListener)
		r.Post("/listeners/{listener}/modules", h.AddModule)
		r.Get("/modules", h.GetModules)

		r.Get("/postfix/sections", h.GetSections)
		r.Get("/postfix/sections/{name}", h.GetSection)
		r.Post("/postfix/sections/{name}/connect", h.ConnectSection)
		r.Get("/postfix/config", h.GetConfig)

		r.Post("/policy/check", h.CheckPolicy)
		r.Get("/health", h.GetHealth)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteNotFound(w, r.URL.Path)
	})

	return r
}
