package services

import (
	"context"

	"quill/internal/domain/models"
)

// DraftService persists last-write-wins recovery snapshots per tool
type DraftService interface {
	// Load returns the draft for toolID, or nil when the tool starts empty
	Load(ctx context.Context, toolID string) (*models.Draft, error)

	// Save replaces the draft for draft.ToolID and stamps SavedAt
	Save(ctx context.Context, draft *models.Draft) (*models.Draft, error)

	// List returns every stored draft
	List(ctx context.Context) ([]models.Draft, error)
}
