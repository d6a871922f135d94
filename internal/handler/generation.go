package handler

import (
	"log/slog"
	"net/http"

	"quill/internal/domain"
	"quill/internal/domain/models"
	"quill/internal/domain/models/generation"
	domainllm "quill/internal/domain/services/llm"
	"quill/internal/handler/sse"
	"quill/internal/httputil"
	"quill/internal/service/llm/tools"
)

// SSE event names emitted by the stream endpoint
const (
	eventContent = "content" // Cumulative content so far, replaces the previous one
	eventError   = "error"   // User-facing notice, sent at most once
	eventDone    = "done"    // Final state, always last
)

// GenerationHandler exposes the tool catalog and the generation controller
type GenerationHandler struct {
	catalog    *tools.Catalog
	controller domainllm.GenerationController
	sseConfig  *sse.Config
	logger     *slog.Logger
}

// NewGenerationHandler creates a new generation handler
func NewGenerationHandler(
	catalog *tools.Catalog,
	controller domainllm.GenerationController,
	sseConfig *sse.Config,
	logger *slog.Logger,
) *GenerationHandler {
	if sseConfig == nil {
		sseConfig = sse.DefaultConfig()
	}
	return &GenerationHandler{
		catalog:    catalog,
		controller: controller,
		sseConfig:  sseConfig,
		logger:     logger,
	}
}

// generateRequest is the body of both generate endpoints
type generateRequest struct {
	Values    models.FormValues `json:"values"`
	Style     generation.Style  `json:"style"`
	VoiceHint string            `json:"voice_hint"`
}

func (req *generateRequest) inputs() *generation.Inputs {
	return &generation.Inputs{Values: req.Values, Style: req.Style}
}

// ListTools returns the tool catalog
// GET /api/tools
func (h *GenerationHandler) ListTools(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"tools": h.catalog.List(),
	})
}

// GetTool returns one tool and its input schema
// GET /api/tools/{toolID}
func (h *GenerationHandler) GetTool(w http.ResponseWriter, r *http.Request) {
	tool, err := h.catalog.Get(r.PathValue("toolID"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, tool)
}

// Generate runs an atomic request
// POST /api/tools/{toolID}/generate
func (h *GenerationHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.controller.Generate(r.Context(), r.PathValue("toolID"), req.inputs(), req.VoiceHint)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}

// Stream runs a streaming request over Server-Sent Events. Tools that do
// not stream get a single content event.
// POST /api/tools/{toolID}/stream
func (h *GenerationHandler) Stream(w http.ResponseWriter, r *http.Request) {
	toolID := r.PathValue("toolID")
	tool, err := h.catalog.Get(toolID)
	if err != nil {
		handleError(w, err)
		return
	}

	var req generateRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	writer, err := sse.NewWriter(w)
	if err != nil {
		httputil.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	keepAlive := sse.NewTickerKeepAlive(h.sseConfig.KeepAliveInterval)
	keepAlive.Start(writer, h.logger)
	defer keepAlive.Stop()

	ctx := r.Context()
	if tool.Streaming {
		err = h.controller.GenerateStreamingFunc(ctx, toolID, req.inputs(), func(content string) {
			if writeErr := writer.WriteEvent(eventContent, map[string]string{"content": content}); writeErr != nil {
				// Client went away; request context cancellation stops the backend
				h.logger.Debug("stream write failed", "tool_id", toolID, "error", writeErr)
			}
		}, req.VoiceHint)
	} else {
		var result *generation.Result
		result, err = h.controller.Generate(ctx, toolID, req.inputs(), req.VoiceHint)
		if err == nil {
			writer.WriteEvent(eventContent, map[string]string{"content": result.Content})
		}
	}

	if notice := domain.NoticeFor(err); notice != nil {
		writer.WriteEvent(eventError, notice)
	}
	// The tool may already be serving a newer request; report this one
	writer.WriteEvent(eventDone, domainllm.State{
		ToolID:  toolID,
		Status:  domainllm.StatusIdle,
		Outcome: domainllm.OutcomeOf(err),
	})
}

// Cancel aborts the in-flight request of a tool. Idempotent.
// POST /api/tools/{toolID}/cancel
func (h *GenerationHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.controller.Cancel(r.PathValue("toolID"))
	httputil.RespondNoContent(w)
}

// GetState reports the request state of a tool
// GET /api/tools/{toolID}/state
func (h *GenerationHandler) GetState(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, h.controller.State(r.PathValue("toolID")))
}
