package handler

import "net/http"

// Handlers groups every HTTP handler for route registration
type Handlers struct {
	Documents  *DocumentHandler
	Folders    *FolderHandler
	Drafts     *DraftHandler
	Generation *GenerationHandler
	Usage      *UsageHandler
	Profile    *ProfileHandler
	Import     *ImportHandler
	Models     *ModelsHandler
}

// RegisterRoutes wires the API onto mux (Go 1.22+ method patterns)
func RegisterRoutes(mux *http.ServeMux, h *Handlers) {
	// Health check
	mux.HandleFunc("GET /health", h.Documents.HealthCheck)

	// Document routes
	mux.HandleFunc("POST /api/documents", h.Documents.CreateDocument)
	mux.HandleFunc("GET /api/documents", h.Documents.ListDocuments)
	mux.HandleFunc("GET /api/documents/{id}", h.Documents.GetDocument)
	mux.HandleFunc("PUT /api/documents/{id}", h.Documents.SaveDocument)
	mux.HandleFunc("PATCH /api/documents/{id}", h.Documents.UpdateDocument)
	mux.HandleFunc("DELETE /api/documents/{id}", h.Documents.DeleteDocument)
	mux.HandleFunc("POST /api/documents/{id}/restore", h.Documents.RestoreDocument)
	mux.HandleFunc("POST /api/documents/{id}/duplicate", h.Documents.DuplicateDocument)
	mux.HandleFunc("POST /api/documents/{id}/move", h.Documents.MoveDocument)
	mux.HandleFunc("GET /api/documents/{id}/stats", h.Documents.GetStats)
	mux.HandleFunc("GET /api/documents/{id}/markdown", h.Documents.ExportMarkdown)
	mux.HandleFunc("GET /api/documents/{id}/render", h.Documents.RenderDocument)
	mux.HandleFunc("DELETE /api/trash", h.Documents.EmptyTrash)

	// Folder routes
	mux.HandleFunc("POST /api/folders", h.Folders.CreateFolder)
	mux.HandleFunc("GET /api/folders", h.Folders.ListFolders)
	mux.HandleFunc("PATCH /api/folders/{id}", h.Folders.RenameFolder)
	mux.HandleFunc("DELETE /api/folders/{id}", h.Folders.DeleteFolder)

	// Draft routes
	mux.HandleFunc("GET /api/drafts", h.Drafts.ListDrafts)
	mux.HandleFunc("GET /api/drafts/{toolID}", h.Drafts.GetDraft)
	mux.HandleFunc("PUT /api/drafts/{toolID}", h.Drafts.PutDraft)

	// Generation routes
	mux.HandleFunc("GET /api/tools", h.Generation.ListTools)
	mux.HandleFunc("GET /api/tools/{toolID}", h.Generation.GetTool)
	mux.HandleFunc("GET /api/tools/{toolID}/state", h.Generation.GetState)
	mux.HandleFunc("POST /api/tools/{toolID}/generate", h.Generation.Generate)
	mux.HandleFunc("POST /api/tools/{toolID}/stream", h.Generation.Stream) // SSE
	mux.HandleFunc("POST /api/tools/{toolID}/cancel", h.Generation.Cancel)
	mux.HandleFunc("GET /api/models", h.Models.GetModels)

	// Usage routes
	mux.HandleFunc("GET /api/usage", h.Usage.GetUsage)
	mux.HandleFunc("POST /api/usage/check", h.Usage.Check)

	// Profile routes
	mux.HandleFunc("GET /api/profile", h.Profile.GetProfile)
	mux.HandleFunc("PATCH /api/profile", h.Profile.UpdateProfile)

	// Export / import
	mux.HandleFunc("GET /api/export", h.Import.Export)
	mux.HandleFunc("POST /api/import", h.Import.Import)
}
