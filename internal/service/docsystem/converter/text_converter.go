package converter

import (
	"context"
	"strings"

	docsysSvc "quill/internal/domain/services/docsystem"
)

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"#", `\#`,
)

// textConverter converts plain text to markdown by escaping markup characters
type textConverter struct{}

// NewTextConverter creates a new text converter.
func NewTextConverter() docsysSvc.ContentConverter {
	return &textConverter{}
}

// Convert escapes characters that Markdown would otherwise interpret.
func (c *textConverter) Convert(ctx context.Context, content string) (string, error) {
	return markdownEscaper.Replace(content), nil
}

func (c *textConverter) SupportedFormats() []string {
	return []string{"text", "plaintext"}
}

func (c *textConverter) Name() string {
	return "plaintext"
}
