package httpadapter

import (
	"fmt"
	"log/slog"
	"net/http"

	"digiflow-recon/internal/core/port"
)

// runOptions reads the dryRun flag and optional account query
// parameters shared by every reconciliation route.
func runOptions(r *http.Request) port.RunOptions {
	q := r.URL.Query()
	return port.RunOptions{
		DryRun:   q.Get("dryRun") == "true" || q.Get("dryRun") == "1",
		Accounts: q["account"],
	}
}

// handleRun triggers a full orchestrated run: normalize, dedup, status.
// Stage failures are reported in the body, not as an HTTP error, so the
// caller always sees whatever partial results were committed.
func (h *Handler) handleRun(w http.ResponseWriter, r *http.Request) {
	rep, err := h.recon.Run(r.Context(), scopeFrom(r.Context()), runOptions(r))
	if err != nil {
		h.logger.Error("run error", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "reconciliation run failed", err.Error())
		return
	}
	message := "reconciliation complete"
	if !rep.Success() {
		message = fmt.Sprintf("reconciliation finished with %d failed stage(s)", len(rep.StageErrors))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": rep.Success(),
		"run":     rep,
		"message": message,
	})
}

func (h *Handler) handleNormalize(w http.ResponseWriter, r *http.Request) {
	rep, err := h.recon.NormalizeIdentities(r.Context(), scopeFrom(r.Context()), runOptions(r))
	if err != nil {
		h.logger.Error("normalize error", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "identity normalization failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"identity": rep,
		"message":  fmt.Sprintf("checked %d, migrated %d", rep.Checked, rep.Migrated),
	})
}

func (h *Handler) handleDedupProspects(w http.ResponseWriter, r *http.Request) {
	rep, err := h.recon.DeduplicateProspects(r.Context(), scopeFrom(r.Context()), runOptions(r))
	if err != nil {
		h.logger.Error("dedup prospects error", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "prospect deduplication failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"dedup":   rep,
		"message": fmt.Sprintf("scanned %d, deleted %d", rep.Scanned, len(rep.Deleted)),
	})
}

func (h *Handler) handleDedupRevenues(w http.ResponseWriter, r *http.Request) {
	rep, err := h.recon.DeduplicateRevenues(r.Context(), scopeFrom(r.Context()), runOptions(r))
	if err != nil {
		h.logger.Error("dedup revenues error", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "revenue deduplication failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"dedup":   rep,
		"message": fmt.Sprintf("scanned %d, deleted %d", rep.Scanned, len(rep.Deleted)),
	})
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	rep, err := h.recon.ReconcileStatuses(r.Context(), scopeFrom(r.Context()), runOptions(r))
	if err != nil {
		h.logger.Error("status reconcile error", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "status reconciliation failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"status":  rep,
		"message": fmt.Sprintf("checked %d, cleaned %d", rep.Checked, rep.Cleaned),
	})
}
