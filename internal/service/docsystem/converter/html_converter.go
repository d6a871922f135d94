package converter

import (
	"context"
	"fmt"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"

	docsysSvc "quill/internal/domain/services/docsystem"
	"quill/internal/service/docsystem/converter/sanitizer"
)

// htmlConverter exports generated HTML (CVs, letters, invoices) as
// GitHub-flavored Markdown. Content is sanitized first so nothing outside
// the allow-list reaches the export.
type htmlConverter struct {
	sanitizer *sanitizer.HTMLSanitizer
	converter *md.Converter
}

// NewHTMLConverter creates a new HTML to markdown converter
func NewHTMLConverter() docsysSvc.ContentConverter {
	conv := md.NewConverter("", true, &md.Options{
		HeadingStyle:     "atx",
		BulletListMarker: "-",
		CodeBlockStyle:   "fenced",
	})
	// Tables (invoices) and strikethrough survive the export
	conv.Use(plugin.GitHubFlavored())

	return &htmlConverter{
		sanitizer: sanitizer.NewHTMLSanitizer(),
		converter: conv,
	}
}

func (c *htmlConverter) Convert(ctx context.Context, content string) (string, error) {
	markdown, err := c.converter.ConvertString(c.sanitizer.Sanitize(content))
	if err != nil {
		return "", fmt.Errorf("failed to convert HTML to markdown: %w", err)
	}
	return strings.TrimSpace(markdown), nil
}

func (c *htmlConverter) SupportedFormats() []string {
	return []string{"html"}
}

func (c *htmlConverter) Name() string {
	return "html"
}
