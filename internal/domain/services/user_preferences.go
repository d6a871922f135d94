package services

import (
	"context"

	"quill/internal/domain/models"
)

// ProfileService defines the business logic for the user profile and its preferences
type ProfileService interface {
	// GetProfile retrieves the profile
	// Returns a default profile if none exists yet
	GetProfile(ctx context.Context) (*models.Profile, error)

	// UpdateProfile applies a partial update
	// Creates the profile if it doesn't exist
	UpdateProfile(ctx context.Context, req *models.UpdateProfileRequest) (*models.Profile, error)
}
