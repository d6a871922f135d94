package handler

import (
	"log/slog"
	"net/http"

	"quill/internal/capabilities"
	"quill/internal/httputil"
)

// ModelsHandler handles HTTP requests for model capabilities
type ModelsHandler struct {
	registry *capabilities.Registry
	provider string // Active generation provider
	model    string // Active model
	logger   *slog.Logger
}

// NewModelsHandler creates a new models handler
func NewModelsHandler(registry *capabilities.Registry, provider, model string, logger *slog.Logger) *ModelsHandler {
	return &ModelsHandler{
		registry: registry,
		provider: provider,
		model:    model,
		logger:   logger,
	}
}

// ProviderResponse represents a provider with its models
type ProviderResponse struct {
	ID           string                           `json:"id"`
	DefaultModel string                           `json:"default_model"`
	Models       []capabilities.ModelCapabilities `json:"models"`
}

// GetModels lists the known providers and models, marking the active one
// GET /api/models
func (h *ModelsHandler) GetModels(w http.ResponseWriter, r *http.Request) {
	providers := make([]ProviderResponse, 0)
	for _, id := range h.registry.GetAllProviders() {
		models, err := h.registry.ListProviderModels(id)
		if err != nil {
			h.logger.Warn("provider listed without models", "provider", id, "error", err)
			continue
		}
		providers = append(providers, ProviderResponse{
			ID:           id,
			DefaultModel: h.registry.DefaultModel(id),
			Models:       models,
		})
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"active": map[string]string{
			"provider": h.provider,
			"model":    h.model,
		},
		"providers": providers,
	})
}
