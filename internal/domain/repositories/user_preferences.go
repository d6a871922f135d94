package repositories

import (
	"context"

	"quill/internal/domain/models"
)

// ProfileRepository defines data access for the user profile
type ProfileRepository interface {
	// Get retrieves the profile
	// Returns nil if no profile has been stored yet
	Get(ctx context.Context) (*models.Profile, error)

	// Put creates or replaces the profile. A nil profile clears it.
	Put(ctx context.Context, profile *models.Profile) error
}
