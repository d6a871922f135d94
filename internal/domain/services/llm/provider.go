package llm

import (
	"context"

	"quill/internal/domain/models/generation"
)

// Backend defines the interface that all generation backends must implement.
// This abstraction allows supporting multiple providers (OpenAI-compatible,
// Anthropic, offline lorem) behind one controller.
//
// Errors must be classified: implementations return *domain.GenerationError
// so callers can tell quota, network and backend failures apart.
type Backend interface {
	// Complete generates the full content in one response (atomic mode)
	Complete(ctx context.Context, payload *generation.Payload) (string, error)

	// Stream generates content incrementally. The returned channel yields
	// text deltas in arrival order and is closed when the response ends or
	// ctx is cancelled. A failure is reported as a final event with Err set.
	Stream(ctx context.Context, payload *generation.Payload) (<-chan generation.StreamEvent, error)

	// Name returns the backend name (e.g., "openai", "anthropic")
	Name() string
}
