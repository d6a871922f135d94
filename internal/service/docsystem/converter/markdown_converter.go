package converter

import (
	"context"

	docsysSvc "quill/internal/domain/services/docsystem"
)

// markdownConverter is a passthrough for documents already in Markdown
type markdownConverter struct{}

// NewMarkdownConverter creates a new markdown passthrough converter.
func NewMarkdownConverter() docsysSvc.ContentConverter {
	return &markdownConverter{}
}

// Convert strips stray code fences and otherwise returns the content unchanged.
func (c *markdownConverter) Convert(ctx context.Context, content string) (string, error) {
	return StripCodeFences(content), nil
}

func (c *markdownConverter) SupportedFormats() []string {
	return []string{"markdown", "md"}
}

func (c *markdownConverter) Name() string {
	return "markdown"
}
