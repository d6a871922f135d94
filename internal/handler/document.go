package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"quill/internal/domain/models"
	docsystem "quill/internal/domain/models/docsystem"
	"quill/internal/domain/services"
	docsysSvc "quill/internal/domain/services/docsystem"
	"quill/internal/httputil"
	"quill/internal/service/docsystem/converter/sanitizer"
)

// noFolder is the folder_id query value selecting documents without a folder
const noFolder = "none"

// DocumentHandler handles document HTTP requests
type DocumentHandler struct {
	docService docsysSvc.DocumentService
	analyzer   services.ContentAnalyzer
	gate       services.UsageGate
	sanitizer  *sanitizer.HTMLSanitizer
	logger     *slog.Logger
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(
	docService docsysSvc.DocumentService,
	analyzer services.ContentAnalyzer,
	gate services.UsageGate,
	htmlSanitizer *sanitizer.HTMLSanitizer,
	logger *slog.Logger,
) *DocumentHandler {
	return &DocumentHandler{
		docService: docService,
		analyzer:   analyzer,
		gate:       gate,
		sanitizer:  htmlSanitizer,
		logger:     logger,
	}
}

// HealthCheck reports liveness
// GET /health
func (h *DocumentHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// allowCreate runs the create_document gate and writes the upgrade response
// when it denies
func (h *DocumentHandler) allowCreate(w http.ResponseWriter, r *http.Request) bool {
	decision := h.gate.Check(r.Context(), models.ActionCreateDocument)
	if decision.Allowed {
		return true
	}
	httputil.RespondErrorWithExtras(w, http.StatusPaymentRequired, decision.Reason, map[string]interface{}{
		"decision": decision,
	})
	return false
}

// CreateDocument creates a new document
// POST /api/documents
func (h *DocumentHandler) CreateDocument(w http.ResponseWriter, r *http.Request) {
	var req docsysSvc.CreateDocumentRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if !h.allowCreate(w, r) {
		return
	}

	doc, err := h.docService.CreateDocument(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}
	h.gate.RecordUsage(models.ActionCreateDocument)

	httputil.RespondJSON(w, http.StatusCreated, doc)
}

// ListDocuments lists documents
// GET /api/documents?folder_id=&tags=a,b&q=&template_id=&trash=true
func (h *DocumentHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter := &docsystem.DocumentFilter{
		Scope:      docsystem.ScopeActive,
		Tags:       splitList(query.Get("tags")),
		Query:      query.Get("q"),
		TemplateID: query.Get("template_id"),
	}
	if trash, _ := strconv.ParseBool(query.Get("trash")); trash {
		filter.Scope = docsystem.ScopeTrash
	}
	if query.Has("folder_id") {
		folderID := query.Get("folder_id")
		if folderID == noFolder {
			folderID = ""
		}
		filter.FolderID = &folderID
	}

	docs, err := h.docService.ListDocuments(r.Context(), filter)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"documents": docs,
		"total":     len(docs),
	})
}

// GetDocument retrieves a document, active or trashed
// GET /api/documents/{id}
func (h *DocumentHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := h.docService.GetDocument(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, doc)
}

// SaveDocument upserts a whole document
// PUT /api/documents/{id}
func (h *DocumentHandler) SaveDocument(w http.ResponseWriter, r *http.Request) {
	var doc docsystem.Document
	if err := httputil.ParseJSON(w, r, &doc); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	doc.ID = r.PathValue("id")

	saved, err := h.docService.SaveDocument(r.Context(), &doc)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, saved)
}

// updateDocumentBody distinguishes an absent folder_id from null
type updateDocumentBody struct {
	Title    *string                   `json:"title"`
	Content  *string                   `json:"content"`
	Tags     *[]string                 `json:"tags"`
	FolderID httputil.Optional[string] `json:"folder_id"`
}

// UpdateDocument applies a partial update
// PATCH /api/documents/{id}
func (h *DocumentHandler) UpdateDocument(w http.ResponseWriter, r *http.Request) {
	var body updateDocumentBody
	if err := httputil.ParseJSON(w, r, &body); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req := &docsysSvc.UpdateDocumentRequest{
		Title:   body.Title,
		Content: body.Content,
		Tags:    body.Tags,
	}
	if body.FolderID.Present {
		// null and "" both take the document out of its folder
		folderID := ""
		if body.FolderID.Value != nil {
			folderID = *body.FolderID.Value
		}
		req.FolderID = &folderID
	}

	doc, err := h.docService.UpdateDocument(r.Context(), r.PathValue("id"), req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, doc)
}

// DeleteDocument moves a document to the trash, or removes it for good
// DELETE /api/documents/{id}?hard=true
func (h *DocumentHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var err error
	if hard, _ := strconv.ParseBool(r.URL.Query().Get("hard")); hard {
		err = h.docService.HardDeleteDocument(r.Context(), id)
	} else {
		err = h.docService.DeleteDocument(r.Context(), id)
	}
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondNoContent(w)
}

// RestoreDocument takes a document out of the trash
// POST /api/documents/{id}/restore
func (h *DocumentHandler) RestoreDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := h.docService.RestoreDocument(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, doc)
}

// DuplicateDocument clones a document
// POST /api/documents/{id}/duplicate
func (h *DocumentHandler) DuplicateDocument(w http.ResponseWriter, r *http.Request) {
	if !h.allowCreate(w, r) {
		return
	}

	doc, err := h.docService.DuplicateDocument(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}
	h.gate.RecordUsage(models.ActionCreateDocument)

	httputil.RespondJSON(w, http.StatusCreated, doc)
}

// MoveDocument assigns a folder; null removes the document from its folder
// POST /api/documents/{id}/move
func (h *DocumentHandler) MoveDocument(w http.ResponseWriter, r *http.Request) {
	var body struct {
		FolderID *string `json:"folder_id"`
	}
	if err := httputil.ParseJSON(w, r, &body); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if body.FolderID != nil && *body.FolderID == "" {
		body.FolderID = nil
	}

	doc, err := h.docService.MoveToFolder(r.Context(), r.PathValue("id"), body.FolderID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, doc)
}

// GetStats returns word count, character count and reading time
// GET /api/documents/{id}/stats
func (h *DocumentHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	doc, err := h.docService.GetDocument(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, h.analyzer.Stats(doc.Content))
}

// ExportMarkdown renders a document as Markdown
// GET /api/documents/{id}/markdown
func (h *DocumentHandler) ExportMarkdown(w http.ResponseWriter, r *http.Request) {
	markdown, err := h.docService.ExportMarkdown(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondBody(w, "text/markdown; charset=utf-8", []byte(markdown))
}

// RenderDocument returns sanitized HTML, watermarked on the free plan
// GET /api/documents/{id}/render
func (h *DocumentHandler) RenderDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := h.docService.GetDocument(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}

	rendered := h.gate.ApplyWatermark(h.sanitizer.Sanitize(doc.Content))

	httputil.RespondBody(w, "text/html; charset=utf-8", []byte(rendered))
}

// EmptyTrash hard-deletes every trashed document
// DELETE /api/trash
func (h *DocumentHandler) EmptyTrash(w http.ResponseWriter, r *http.Request) {
	removed, err := h.docService.EmptyTrash(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	h.logger.Info("trash emptied", "removed", removed)
	httputil.RespondJSON(w, http.StatusOK, map[string]int{"removed": removed})
}
