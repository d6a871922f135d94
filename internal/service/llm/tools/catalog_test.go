package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quill/internal/domain"
	"quill/internal/domain/models/generation"
)

func TestLoadCatalog(t *testing.T) {
	c, err := LoadCatalog()
	require.NoError(t, err)

	tools := c.List()
	require.NotEmpty(t, tools)
	assert.Equal(t, "cv-builder", tools[0].ID, "catalog order is preserved")

	cv, err := c.Get("cv-builder")
	require.NoError(t, err)
	assert.Equal(t, generation.OutputHTML, cv.Output)
	assert.NotEmpty(t, cv.SystemPrompt)

	assert.Equal(t, "CV builder", c.ToolName("cv-builder"))
	assert.Equal(t, "markdown", c.OutputFormat("blog-post"))
	assert.Empty(t, c.ToolName("missing"))

	_, err = c.Get("missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestParseCatalog_Rejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "duplicate id",
			yaml: `
tools:
  - {id: a, name: A, output: text, fields: [{name: x, kind: text}]}
  - {id: a, name: B, output: text, fields: [{name: x, kind: text}]}`,
		},
		{
			name: "unknown output",
			yaml: `
tools:
  - {id: a, name: A, output: pdf, fields: [{name: x, kind: text}]}`,
		},
		{
			name: "choice without options",
			yaml: `
tools:
  - {id: a, name: A, output: text, fields: [{name: x, kind: choice}]}`,
		},
		{
			name: "group without fields",
			yaml: `
tools:
  - {id: a, name: A, output: text, fields: [{name: x, kind: group}]}`,
		},
		{
			name: "unknown kind",
			yaml: `
tools:
  - {id: a, name: A, output: text, fields: [{name: x, kind: date}]}`,
		},
		{
			name: "bad id",
			yaml: `
tools:
  - {id: "A B", name: A, output: text, fields: [{name: x, kind: text}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCatalog([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}
