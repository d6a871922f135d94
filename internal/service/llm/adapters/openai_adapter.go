package adapters

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sashabaranov/go-openai"

	"quill/internal/domain/models/generation"
	domainllm "quill/internal/domain/services/llm"
)

// OpenAIAdapter talks to any OpenAI-compatible chat completions endpoint.
type OpenAIAdapter struct {
	client *openai.Client
}

// NewOpenAIAdapter creates an adapter. An empty baseURL uses the public API.
func NewOpenAIAdapter(apiKey, baseURL string) *OpenAIAdapter {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIAdapter{client: openai.NewClientWithConfig(cfg)}
}

var _ domainllm.Backend = (*OpenAIAdapter)(nil)

// Name returns the provider name.
func (a *OpenAIAdapter) Name() string {
	return "openai"
}

func buildChatRequest(payload *generation.Payload, stream bool) openai.ChatCompletionRequest {
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if payload.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: payload.System,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: payload.Prompt,
	})

	return openai.ChatCompletionRequest{
		Model:     payload.Model,
		Messages:  messages,
		MaxTokens: payload.MaxTokens,
		Stream:    stream,
	}
}

// Complete generates the full content in one response.
func (a *OpenAIAdapter) Complete(ctx context.Context, payload *generation.Payload) (string, error) {
	resp, err := a.client.CreateChatCompletion(ctx, buildChatRequest(payload, false))
	if err != nil {
		return "", classify(err)
	}
	if len(resp.Choices) == 0 {
		return "", malformed(errors.New("chat completion without choices"))
	}
	return resp.Choices[0].Message.Content, nil
}

// Stream generates content incrementally.
func (a *OpenAIAdapter) Stream(ctx context.Context, payload *generation.Payload) (<-chan generation.StreamEvent, error) {
	stream, err := a.client.CreateChatCompletionStream(ctx, buildChatRequest(payload, true))
	if err != nil {
		return nil, classify(err)
	}

	events := make(chan generation.StreamEvent)
	go func() {
		defer close(events)
		defer stream.Close()

		for {
			resp, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				send(ctx, events, generation.StreamEvent{Done: true})
				return
			}
			if err != nil {
				if ctx.Err() != nil {
					err = ctx.Err()
				}
				send(ctx, events, generation.StreamEvent{Err: classify(fmt.Errorf("stream recv: %w", err))})
				return
			}
			if len(resp.Choices) == 0 || resp.Choices[0].Delta.Content == "" {
				continue
			}
			if !send(ctx, events, generation.StreamEvent{Delta: resp.Choices[0].Delta.Content}) {
				return
			}
		}
	}()

	return events, nil
}

// send delivers ev unless ctx is done first
func send(ctx context.Context, events chan<- generation.StreamEvent, ev generation.StreamEvent) bool {
	select {
	case events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}
