package httpadapter

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"digiflow-recon/internal/core/port"
)

// Handler contains dependencies and routes. It is an inbound adapter
// for HTTP. Every reconciliation and CRM route runs behind the scope
// middleware, which rejects callers that cannot be mapped to an
// organization/user scope before anything is written.
type Handler struct {
	recon   port.ReconUseCase
	crm     port.CRMUseCase
	scopes  port.ScopeResolver
	metrics http.Handler
	logger  *slog.Logger
	router  chi.Router
}

// NewHandler creates a handler with all routes configured. metrics may
// be nil, in which case no /metrics endpoint is registered.
func NewHandler(recon port.ReconUseCase, crm port.CRMUseCase, scopes port.ScopeResolver, metrics http.Handler, logger *slog.Logger) *Handler {
	h := &Handler{recon: recon, crm: crm, scopes: scopes, metrics: metrics, logger: logger}
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(requestLogger(logger))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if metrics != nil {
		r.Method(http.MethodGet, "/metrics", metrics)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(h.withScope)

		r.Post("/recon/run", h.handleRun)
		r.Post("/recon/normalize", h.handleNormalize)
		r.Post("/recon/dedup/prospects", h.handleDedupProspects)
		r.Post("/recon/dedup/revenues", h.handleDedupRevenues)
		r.Post("/recon/status", h.handleStatus)

		r.Post("/leads/{account}", h.handleIngestLeads)
		r.Get("/prospects/{account}", h.handleListProspects)
		r.Post("/prospects/{id}/convert", h.handleTrackConversion)
		r.Get("/revenues", h.handleListRevenues)
	})
	h.router = r
	return h
}

// Router returns the underlying http.Handler.
func (h *Handler) Router() http.Handler {
	return h.router
}
