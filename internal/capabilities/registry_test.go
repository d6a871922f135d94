package capabilities

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry(t *testing.T) {
	r, err := NewRegistry()
	require.NoError(t, err)

	assert.Equal(t, []string{"anthropic", "lorem", "openai", "openrouter"}, r.GetAllProviders())
	assert.Equal(t, "gpt-4o-mini", r.DefaultModel("openai"))

	models, err := r.ListProviderModels("openai")
	require.NoError(t, err)
	require.NotEmpty(t, models)
	assert.Equal(t, "gpt-4o-mini", models[0].ID, "YAML order is preserved")
}

func TestRegistry_MaxOutput(t *testing.T) {
	r, err := NewRegistry()
	require.NoError(t, err)

	tests := []struct {
		name     string
		provider string
		model    string
		want     int
	}{
		{name: "known model", provider: "lorem", model: "lorem-fast", want: 512},
		{name: "unknown model", provider: "openai", model: "custom-finetune", want: fallbackMaxOutput},
		{name: "unknown provider", provider: "bedrock", model: "x", want: fallbackMaxOutput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.MaxOutput(tt.provider, tt.model))
		})
	}
}

func TestRegistry_GetModelCapabilities(t *testing.T) {
	r, err := NewRegistry()
	require.NoError(t, err)

	caps, err := r.GetModelCapabilities("anthropic", "claude-haiku-4-5-20251001")
	require.NoError(t, err)
	assert.True(t, caps.SupportsStreaming)

	_, err = r.GetModelCapabilities("anthropic", "missing")
	assert.Error(t, err)
}

func TestLoadRegistry_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		wantErr string
	}{
		{
			name:    "provider mismatch",
			file:    "config/acme.yaml",
			content: "provider: other\nmodels:\n  m1:\n    max_output: 10\n",
			wantErr: `declares provider "other"`,
		},
		{
			name:    "unlisted default",
			file:    "config/acme.yaml",
			content: "provider: acme\ndefault_model: m2\nmodels:\n  m1:\n    max_output: 10\n",
			wantErr: "is not listed",
		},
		{
			name:    "invalid yaml",
			file:    "config/acme.yaml",
			content: "provider: [",
			wantErr: "failed to unmarshal",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := fstest.MapFS{tt.file: {Data: []byte(tt.content)}}
			_, err := loadRegistry(fsys, "config")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadRegistry_Empty(t *testing.T) {
	_, err := loadRegistry(fstest.MapFS{}, "config")
	assert.Error(t, err)
}
