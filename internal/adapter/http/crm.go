package httpadapter

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"digiflow-recon/internal/core/domain"
	"digiflow-recon/internal/core/port"
)

func (h *Handler) handleIngestLeads(w http.ResponseWriter, r *http.Request) {
	account := chi.URLParam(r, "account")
	var body struct {
		Leads []domain.Lead `json:"leads"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON", err.Error())
		return
	}
	rep, err := h.crm.IngestLeads(r.Context(), scopeFrom(r.Context()), account, body.Leads)
	if err != nil {
		h.logger.Error("ingest error", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "lead ingestion failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"ingest":  rep,
		"message": fmt.Sprintf("received %d, created %d, updated %d", rep.Received, rep.Created, rep.Updated),
	})
}

func (h *Handler) handleTrackConversion(w http.ResponseWriter, r *http.Request) {
	var in port.ConversionInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON", err.Error())
		return
	}
	in.ProspectID = chi.URLParam(r, "id")
	rev, err := h.crm.TrackConversion(r.Context(), scopeFrom(r.Context()), in)
	if err != nil {
		h.logger.Error("conversion error", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "conversion tracking failed", err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"revenue": rev,
		"message": "conversion recorded",
	})
}

func (h *Handler) handleListProspects(w http.ResponseWriter, r *http.Request) {
	prospects, err := h.crm.ListProspects(r.Context(), scopeFrom(r.Context()), chi.URLParam(r, "account"))
	if err != nil {
		h.logger.Error("list prospects error", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "listing prospects failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "prospects": prospects})
}

func (h *Handler) handleListRevenues(w http.ResponseWriter, r *http.Request) {
	revenues, err := h.crm.ListRevenues(r.Context(), scopeFrom(r.Context()))
	if err != nil {
		h.logger.Error("list revenues error", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "listing revenues failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "revenues": revenues})
}
