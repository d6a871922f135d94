package handler

import (
	"log/slog"
	"net/http"

	"quill/internal/domain/models"
	"quill/internal/domain/services"
	"quill/internal/httputil"
)

// UsageHandler exposes the local entitlement gate
type UsageHandler struct {
	gate   services.UsageGate
	logger *slog.Logger
}

// NewUsageHandler creates a new usage handler
func NewUsageHandler(gate services.UsageGate, logger *slog.Logger) *UsageHandler {
	return &UsageHandler{
		gate:   gate,
		logger: logger,
	}
}

// GetUsage returns the cached entitlement. ?refresh=true re-reads the
// billing backend first; a failed refresh still answers from the cache.
// GET /api/usage
func (h *UsageHandler) GetUsage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("refresh") == "true" {
		if _, err := h.gate.Refresh(r.Context()); err != nil {
			h.logger.Warn("entitlement refresh failed", "error", err)
		}
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"entitlement": h.gate.Entitlement(),
	})
}

// Check decides whether an action may proceed
// POST /api/usage/check
func (h *UsageHandler) Check(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Action models.GatedAction `json:"action"`
	}
	if err := httputil.ParseJSON(w, r, &req); err != nil || req.Action == "" {
		httputil.RespondError(w, http.StatusBadRequest, "action is required")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, h.gate.Check(r.Context(), req.Action))
}
