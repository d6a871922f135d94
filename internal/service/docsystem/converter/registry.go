package converter

import (
	"context"
	"fmt"
	"strings"
	"sync"

	docsysSvc "quill/internal/domain/services/docsystem"
)

// ConverterRegistry manages content converters and routes content by format.
// Follows Factory + Registry pattern (like the generation backend factory).
//
// Thread-safe for concurrent access.
type ConverterRegistry struct {
	mu         sync.RWMutex
	converters map[string]docsysSvc.ContentConverter // key: content format (e.g., "html")
}

// NewConverterRegistry creates a registry with standard converters pre-registered.
func NewConverterRegistry() *ConverterRegistry {
	registry := &ConverterRegistry{
		converters: make(map[string]docsysSvc.ContentConverter),
	}

	registry.Register(NewMarkdownConverter())
	registry.Register(NewTextConverter())
	registry.Register(NewHTMLConverter())

	return registry
}

// Register adds a converter and associates it with its supported formats.
// Formats are normalized to lowercase.
func (r *ConverterRegistry) Register(converter docsysSvc.ContentConverter) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, format := range converter.SupportedFormats() {
		r.converters[strings.ToLower(format)] = converter
	}
}

// GetConverter retrieves a converter for the given format.
// Returns nil if no converter is registered for this format.
func (r *ConverterRegistry) GetConverter(format string) docsysSvc.ContentConverter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.converters[strings.ToLower(format)]
}

// Convert selects the converter for format and converts content to Markdown.
// Returns an error if no converter is registered for the format.
func (r *ConverterRegistry) Convert(ctx context.Context, format, content string) (string, error) {
	converter := r.GetConverter(format)
	if converter == nil {
		return "", fmt.Errorf("unsupported content format: %s", format)
	}
	return converter.Convert(ctx, content)
}
