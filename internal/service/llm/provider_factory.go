package llm

import (
	"fmt"

	llmprovider "github.com/haowjy/meridian-llm-go"
	"github.com/haowjy/meridian-llm-go/providers/anthropic"
	"github.com/haowjy/meridian-llm-go/providers/lorem"
	"github.com/haowjy/meridian-llm-go/providers/openrouter"

	"quill/internal/config"
	domainllm "quill/internal/domain/services/llm"
	"quill/internal/service/llm/adapters"
)

// ProviderFactory creates generation backends from configuration
type ProviderFactory struct {
	config *config.Config
}

// NewProviderFactory creates a new provider factory
func NewProviderFactory(cfg *config.Config) *ProviderFactory {
	return &ProviderFactory{
		config: cfg,
	}
}

// Resolve returns the provider and model to use. An empty
// GENERATION_PROVIDER infers the provider from DEFAULT_MODEL.
func (f *ProviderFactory) Resolve() (*ModelInfo, error) {
	if f.config.GenerationProvider != "" {
		return &ModelInfo{Provider: f.config.GenerationProvider, Model: f.config.DefaultModel}, nil
	}
	return ParseModel(f.config.DefaultModel)
}

// GetBackend returns a backend for the given provider name
//
// Supported providers:
//   - "openai" - any OpenAI-compatible chat completions endpoint
//   - "anthropic" - Claude models via Anthropic API
//   - "openrouter" - many models via OpenRouter
//   - "lorem" - offline placeholder text (no API key required)
func (f *ProviderFactory) GetBackend(providerName string) (domainllm.Backend, error) {
	switch providerName {
	case "openai":
		if f.config.OpenAIAPIKey == "" && f.config.OpenAIBaseURL == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
		return adapters.NewOpenAIAdapter(f.config.OpenAIAPIKey, f.config.OpenAIBaseURL), nil

	case "anthropic":
		provider, err := f.createAnthropicProvider()
		if err != nil {
			return nil, err
		}
		return adapters.NewLibraryAdapter(provider), nil

	case "openrouter":
		provider, err := f.createOpenRouterProvider()
		if err != nil {
			return nil, err
		}
		return adapters.NewLibraryAdapter(provider), nil

	case "lorem":
		return adapters.NewLibraryAdapter(lorem.NewProvider()), nil

	default:
		return nil, fmt.Errorf("unsupported provider: %s (supported: openai, anthropic, openrouter, lorem)", providerName)
	}
}

// createAnthropicProvider creates an Anthropic provider instance
func (f *ProviderFactory) createAnthropicProvider() (llmprovider.Provider, error) {
	if f.config.AnthropicAPIKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
	}

	provider, err := anthropic.NewProvider(f.config.AnthropicAPIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create Anthropic provider: %w", err)
	}
	return provider, nil
}

// createOpenRouterProvider creates an OpenRouter provider instance
func (f *ProviderFactory) createOpenRouterProvider() (llmprovider.Provider, error) {
	if f.config.OpenRouterAPIKey == "" {
		return nil, fmt.Errorf("OPENROUTER_API_KEY environment variable not set")
	}

	provider, err := openrouter.NewProvider(f.config.OpenRouterAPIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenRouter provider: %w", err)
	}
	return provider, nil
}
