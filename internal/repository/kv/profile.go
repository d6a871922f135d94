package kv

import (
	"context"
	"encoding/json"
	"fmt"

	"quill/internal/domain/models"
	"quill/internal/domain/repositories"
)

// ProfileRepository stores the single user profile record
type ProfileRepository struct {
	tm  *TransactionManager
	key string
}

// NewProfileRepository creates a new ProfileRepository
func NewProfileRepository(tm *TransactionManager, ns Namespace) repositories.ProfileRepository {
	return &ProfileRepository{tm: tm, key: ns.Profile()}
}

func (r *ProfileRepository) Get(ctx context.Context) (*models.Profile, error) {
	data, err := r.tm.readOptional(ctx, r.key)
	if err != nil || data == nil {
		return nil, err
	}

	var profile models.Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	return &profile, nil
}

func (r *ProfileRepository) Put(ctx context.Context, profile *models.Profile) error {
	if profile == nil {
		return r.tm.write(ctx, r.key, nil)
	}
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	return r.tm.write(ctx, r.key, data)
}
