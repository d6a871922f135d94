package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"quill/internal/domain"
	docsysSvc "quill/internal/domain/services/docsystem"
	"quill/internal/httputil"
	"quill/internal/service/draft"
)

// ImportHandler handles whole-state export and import. Drafts still
// waiting in the autosaver are part of the current state.
type ImportHandler struct {
	importService docsysSvc.ImportService
	autosaver     *draft.Autosaver
	logger        *slog.Logger
}

// NewImportHandler creates a new import handler
func NewImportHandler(importService docsysSvc.ImportService, autosaver *draft.Autosaver, logger *slog.Logger) *ImportHandler {
	return &ImportHandler{
		importService: importService,
		autosaver:     autosaver,
		logger:        logger,
	}
}

// Export downloads every persisted namespace as one JSON snapshot
// GET /api/export
func (h *ImportHandler) Export(w http.ResponseWriter, r *http.Request) {
	h.autosaver.Flush()

	data, err := h.importService.Export(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	filename := fmt.Sprintf("quill-export-%s.json", time.Now().UTC().Format("2006-01-02"))
	httputil.RespondAttachment(w, "application/json", filename, data)
}

// Import replaces all state with an uploaded snapshot. A snapshot that does
// not parse changes nothing and answers {"success": false}.
// POST /api/import
func (h *ImportHandler) Import(w http.ResponseWriter, r *http.Request) {
	data, err := httputil.ReadBody(w, r)
	if err != nil {
		httputil.RespondError(w, http.StatusRequestEntityTooLarge, "snapshot too large")
		return
	}

	// Pending edits are written first so a rejected snapshot loses nothing,
	// then writes still in flight are fenced off from the replaced state.
	h.autosaver.Flush()
	h.autosaver.Discard()

	result, err := h.importService.Import(r.Context(), data)
	if errors.Is(err, domain.ErrValidation) {
		httputil.RespondErrorWithExtras(w, http.StatusBadRequest, err.Error(), map[string]interface{}{
			"success": false,
		})
		return
	}
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}
