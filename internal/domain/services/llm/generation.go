package llm

import (
	"context"

	"quill/internal/domain"
	"quill/internal/domain/models/generation"
)

// Status is a tool instance's position in the request state machine
type Status string

const (
	StatusIdle       Status = "idle"
	StatusRequesting Status = "requesting"
	StatusStreaming  Status = "streaming"
)

// Outcome records how the last request of a tool instance ended
type Outcome string

const (
	OutcomeNone      Outcome = ""
	OutcomeSuccess   Outcome = "success"
	OutcomeError     Outcome = "error"
	OutcomeCancelled Outcome = "cancelled"
)

// OutcomeOf maps the error a request ended with onto its outcome
func OutcomeOf(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeSuccess
	case domain.IsCancelled(err):
		return OutcomeCancelled
	default:
		return OutcomeError
	}
}

// State is a snapshot of one tool instance's generation state
type State struct {
	ToolID    string  `json:"tool_id"`
	Status    Status  `json:"status"`
	Outcome   Outcome `json:"outcome,omitempty"`
	RequestID string  `json:"request_id,omitempty"`
}

// GenerationController mediates every call to the generation backend with
// single-flight semantics per tool instance.
type GenerationController interface {
	// Generate runs an atomic request. Any in-flight request for the tool is
	// cancelled first.
	Generate(ctx context.Context, toolID string, inputs *generation.Inputs, voiceHint string) (*generation.Result, error)

	// GenerateStreaming runs a streaming request. The content channel yields
	// cumulative, fence-stripped content and closes when the request ends.
	// The error channel yields at most one error and never a cancellation.
	GenerateStreaming(ctx context.Context, toolID string, inputs *generation.Inputs, voiceHint string) (<-chan string, <-chan error)

	// GenerateStreamingFunc is GenerateStreaming with a callback, blocking
	// until the request ends. onChunk always receives cumulative content.
	GenerateStreamingFunc(ctx context.Context, toolID string, inputs *generation.Inputs, onChunk func(content string), voiceHint string) error

	// Cancel aborts any in-flight request for toolID. Idempotent.
	Cancel(toolID string)

	// CancelAll aborts every in-flight request
	CancelAll()

	// State reports the state machine position for toolID
	State(toolID string) State
}
