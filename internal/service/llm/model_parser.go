package llm

import (
	"fmt"
	"strings"
)

// ModelInfo names the provider and the provider-side model identifier
type ModelInfo struct {
	Provider string // "openai", "anthropic", "openrouter" or "lorem"
	Model    string
}

// modelPrefixes maps a lowercase model name prefix to the provider serving it
var modelPrefixes = []struct {
	prefix   string
	provider string
}{
	{"claude-", "anthropic"},
	{"gpt-", "openai"},
	{"o1-", "openai"},
	{"o3-", "openai"},
	{"o4-", "openai"},
	{"lorem-", "lorem"},
}

// ParseModel resolves a DEFAULT_MODEL value. An explicit "provider/model"
// form wins, so "openrouter/anthropic/claude-haiku-4-5" routes the nested
// id through OpenRouter. Bare names are matched against known prefixes
// ("gpt-4o-mini" is served by openai).
func ParseModel(modelStr string) (*ModelInfo, error) {
	if modelStr == "" {
		return nil, fmt.Errorf("model string cannot be empty")
	}

	if provider, model, ok := strings.Cut(modelStr, "/"); ok {
		if provider == "" || model == "" {
			return nil, fmt.Errorf("invalid model %q: expected provider/model", modelStr)
		}
		return &ModelInfo{Provider: provider, Model: model}, nil
	}

	lower := strings.ToLower(modelStr)
	for _, p := range modelPrefixes {
		if strings.HasPrefix(lower, p.prefix) {
			return &ModelInfo{Provider: p.provider, Model: modelStr}, nil
		}
	}
	return nil, fmt.Errorf("unable to infer provider from model: %s", modelStr)
}
