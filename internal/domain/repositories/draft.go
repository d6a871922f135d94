package repositories

import (
	"context"

	"quill/internal/domain/models"
)

// DraftRepository stores one draft per tool id, each under its own key
type DraftRepository interface {
	// Get returns the draft for toolID, or nil if none exists
	Get(ctx context.Context, toolID string) (*models.Draft, error)

	// Put replaces the draft for draft.ToolID
	Put(ctx context.Context, draft *models.Draft) error

	// List returns every stored draft
	List(ctx context.Context) ([]models.Draft, error)

	// ReplaceAll drops every stored draft and writes drafts
	ReplaceAll(ctx context.Context, drafts []models.Draft) error
}
