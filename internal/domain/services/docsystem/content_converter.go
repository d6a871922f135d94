package docsystem

import "context"

// ContentConverter converts stored document content to Markdown.
// Each converter handles one content format (html, markdown, text).
//
// Implementations should be stateless and thread-safe.
type ContentConverter interface {
	// Convert transforms content to Markdown
	Convert(ctx context.Context, content string) (markdown string, err error)

	// SupportedFormats returns the content formats this converter handles
	SupportedFormats() []string

	// Name returns a human-readable converter name for logging/debugging
	Name() string
}
