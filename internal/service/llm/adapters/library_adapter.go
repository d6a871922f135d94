package adapters

import (
	"context"
	"errors"
	"strings"

	llmprovider "github.com/haowjy/meridian-llm-go"

	"quill/internal/domain/models/generation"
	domainllm "quill/internal/domain/services/llm"
)

const blockTypeText = "text"

// LibraryAdapter wraps a meridian-llm-go provider (Anthropic, OpenRouter,
// offline lorem) and implements the generation Backend interface.
type LibraryAdapter struct {
	provider llmprovider.Provider
}

// NewLibraryAdapter creates an adapter from an existing provider.
func NewLibraryAdapter(provider llmprovider.Provider) *LibraryAdapter {
	return &LibraryAdapter{provider: provider}
}

var _ domainllm.Backend = (*LibraryAdapter)(nil)

// Name returns the provider name.
func (a *LibraryAdapter) Name() string {
	return a.provider.Name().String()
}

func buildLibraryRequest(payload *generation.Payload) *llmprovider.GenerateRequest {
	prompt := payload.Prompt
	params := &llmprovider.RequestParams{}
	if payload.System != "" {
		system := payload.System
		params.System = &system
	}
	if payload.MaxTokens > 0 {
		maxTokens := payload.MaxTokens
		params.MaxTokens = &maxTokens
	}

	return &llmprovider.GenerateRequest{
		Messages: []llmprovider.Message{
			{
				Role: "user",
				Blocks: []*llmprovider.Block{
					{BlockType: blockTypeText, TextContent: &prompt},
				},
			},
		},
		Model:  payload.Model,
		Params: params,
	}
}

// Complete generates the full content in one response.
func (a *LibraryAdapter) Complete(ctx context.Context, payload *generation.Payload) (string, error) {
	resp, err := a.provider.GenerateResponse(ctx, buildLibraryRequest(payload))
	if err != nil {
		return "", classify(err)
	}

	var sb strings.Builder
	for _, block := range resp.Blocks {
		if block.BlockType == blockTypeText && block.TextContent != nil {
			sb.WriteString(*block.TextContent)
		}
	}
	if sb.Len() == 0 {
		return "", malformed(errors.New("response without text blocks"))
	}
	return sb.String(), nil
}

// Stream generates content incrementally.
func (a *LibraryAdapter) Stream(ctx context.Context, payload *generation.Payload) (<-chan generation.StreamEvent, error) {
	libEvents, err := a.provider.StreamResponse(ctx, buildLibraryRequest(payload))
	if err != nil {
		return nil, classify(err)
	}

	events := make(chan generation.StreamEvent)
	go func() {
		defer close(events)
		// Keep the provider unblocked if we stop reading early
		defer func() {
			go func() {
				for range libEvents {
				}
			}()
		}()

		for libEvent := range libEvents {
			if libEvent.Error != nil {
				send(ctx, events, generation.StreamEvent{Err: classify(libEvent.Error)})
				return
			}
			if libEvent.Delta == nil || libEvent.Delta.TextDelta == nil || *libEvent.Delta.TextDelta == "" {
				continue
			}
			if !send(ctx, events, generation.StreamEvent{Delta: *libEvent.Delta.TextDelta}) {
				return
			}
		}
		if ctx.Err() != nil {
			return
		}
		send(ctx, events, generation.StreamEvent{Done: true})
	}()

	return events, nil
}
