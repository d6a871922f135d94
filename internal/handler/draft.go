package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"quill/internal/domain/models"
	"quill/internal/domain/services"
	"quill/internal/httputil"
	"quill/internal/service/draft"
)

// DraftHandler handles per-tool recovery drafts. Writes go through the
// autosaver so a burst of keystrokes becomes one storage write.
type DraftHandler struct {
	drafts    services.DraftService
	autosaver *draft.Autosaver
	logger    *slog.Logger
}

// NewDraftHandler creates a new draft handler
func NewDraftHandler(drafts services.DraftService, autosaver *draft.Autosaver, logger *slog.Logger) *DraftHandler {
	return &DraftHandler{
		drafts:    drafts,
		autosaver: autosaver,
		logger:    logger,
	}
}

// GetDraft returns the draft for a tool, or 204 when the tool starts empty
// GET /api/drafts/{toolID}
func (h *DraftHandler) GetDraft(w http.ResponseWriter, r *http.Request) {
	toolID := r.PathValue("toolID")
	if err := draft.ValidateToolID(toolID); err != nil {
		handleError(w, err)
		return
	}

	// Read your own writes
	if h.autosaver.Pending(toolID) {
		h.autosaver.Flush()
	}

	d, err := h.drafts.Load(r.Context(), toolID)
	if err != nil {
		handleError(w, err)
		return
	}
	if d == nil {
		httputil.RespondNoContent(w)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, d)
}

// PutDraft schedules a debounced draft write. ?sync=true writes immediately
// and reports storage failures.
// PUT /api/drafts/{toolID}
func (h *DraftHandler) PutDraft(w http.ResponseWriter, r *http.Request) {
	toolID := r.PathValue("toolID")
	if err := draft.ValidateToolID(toolID); err != nil {
		handleError(w, err)
		return
	}

	var d models.Draft
	if err := httputil.ParseJSON(w, r, &d); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	d.ToolID = toolID

	if sync, _ := strconv.ParseBool(r.URL.Query().Get("sync")); sync {
		saved, err := h.drafts.Save(r.Context(), &d)
		if err != nil {
			handleError(w, err)
			return
		}
		httputil.RespondJSON(w, http.StatusOK, saved)
		return
	}

	h.autosaver.Touch(d)
	w.WriteHeader(http.StatusAccepted)
}

// ListDrafts returns every stored draft
// GET /api/drafts
func (h *DraftHandler) ListDrafts(w http.ResponseWriter, r *http.Request) {
	h.autosaver.Flush()

	drafts, err := h.drafts.List(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"drafts": drafts,
	})
}
