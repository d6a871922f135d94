package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quill/internal/capabilities"
	"quill/internal/domain"
	"quill/internal/domain/models"
	"quill/internal/domain/models/generation"
)

type staticDefaults models.GenerationPreferences

func (s staticDefaults) GenerationDefaults(ctx context.Context) *models.GenerationPreferences {
	prefs := models.GenerationPreferences(s)
	return &prefs
}

func newTestBuilder(t *testing.T, defaults ProfileDefaults) *PayloadBuilder {
	t.Helper()
	catalog, err := LoadCatalog()
	require.NoError(t, err)
	caps, err := capabilities.NewRegistry()
	require.NoError(t, err)
	return NewPayloadBuilder(catalog, caps, defaults, "lorem", "lorem-fast")
}

func translatorInputs() *generation.Inputs {
	return &generation.Inputs{Values: models.FormValues{
		"text":            models.TextValue("Hello there"),
		"target_language": models.TextValue("French"),
		"formal":          models.BoolValue(true),
	}}
}

func TestPayloadBuilder_Build(t *testing.T) {
	b := newTestBuilder(t, nil)

	tool, payload, err := b.Build(context.Background(), "translator", translatorInputs(), "")
	require.NoError(t, err)

	assert.Equal(t, "translator", tool.ID)
	assert.Equal(t, "lorem-fast", payload.Model)
	assert.Equal(t, 512, payload.MaxTokens)
	assert.Equal(t, generation.OutputText, payload.Output)
	assert.Equal(t, "Text:\nHello there\nTarget language: French\nFormal register: yes", payload.Prompt)
	assert.Contains(t, payload.System, "professional translator")
	assert.Contains(t, payload.System, "plain text")
}

func TestPayloadBuilder_MergesStyleAndProfile(t *testing.T) {
	b := newTestBuilder(t, staticDefaults{
		Voice:       "friendly",
		AccentColor: "#2563eb",
		Template:    "classic",
	})

	inputs := &generation.Inputs{
		Values: models.FormValues{
			"full_name":  models.TextValue("Ada Lovelace"),
			"experience": models.GroupValue(models.FormValues{"role": models.TextValue("Analyst"), "company": models.TextValue("Engine Co")}),
		},
		Style: generation.Style{Template: "modern"},
	}

	_, payload, err := b.Build(context.Background(), "cv-builder", inputs, "")
	require.NoError(t, err)

	assert.Equal(t, "modern", payload.Style.Template, "request style wins")
	assert.Equal(t, "#2563eb", payload.Style.AccentColor, "profile fills the gap")
	assert.Equal(t, "friendly", payload.VoiceHint)
	assert.Contains(t, payload.System, `"modern"`)
	assert.Contains(t, payload.System, "#2563eb")
	assert.Contains(t, payload.Prompt, "Experience:\n  1.\n     Role: Analyst")

	_, payload, err = b.Build(context.Background(), "cv-builder", inputs, "formal")
	require.NoError(t, err)
	assert.Equal(t, "formal", payload.VoiceHint, "explicit hint wins")
}

func TestPayloadBuilder_ValidationFailure(t *testing.T) {
	b := newTestBuilder(t, nil)

	_, _, err := b.Build(context.Background(), "translator", &generation.Inputs{}, "")
	require.Error(t, err)
	assert.Equal(t, domain.KindValidation, domain.Classify(err))

	notice := domain.NoticeFor(err)
	require.NotNil(t, notice)
	assert.Contains(t, notice.Message, "target_language, text")
	assert.Equal(t, domain.ActionFixInput, notice.Action)
}

func TestPayloadBuilder_UnknownTool(t *testing.T) {
	b := newTestBuilder(t, nil)

	_, _, err := b.Build(context.Background(), "missing", translatorInputs(), "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
