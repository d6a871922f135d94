package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"quill/internal/domain"
	"quill/internal/domain/models"
	"quill/internal/domain/repositories"
	"quill/internal/domain/services"
)

// ProfileService implements the ProfileService interface
type ProfileService struct {
	profileRepo repositories.ProfileRepository
	logger      *slog.Logger
}

// NewProfileService creates a new profile service
func NewProfileService(
	profileRepo repositories.ProfileRepository,
	logger *slog.Logger,
) *ProfileService {
	return &ProfileService{
		profileRepo: profileRepo,
		logger:      logger,
	}
}

var _ services.ProfileService = (*ProfileService)(nil)

// getDefaultProfile returns a profile with the namespaced preference structure
func (s *ProfileService) getDefaultProfile() *models.Profile {
	now := time.Now().UTC()
	return &models.Profile{
		Plan: models.PlanUnknown,
		Preferences: models.JSONMap{
			"ui": map[string]interface{}{
				"theme": "light",
			},
			"editor":     map[string]interface{}{},
			"generation": map[string]interface{}{},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// GetProfile retrieves the profile
func (s *ProfileService) GetProfile(ctx context.Context) (*models.Profile, error) {
	profile, err := s.profileRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	// If no profile exists yet, return defaults
	if profile == nil {
		s.logger.Debug("no profile found, returning defaults")
		profile = s.getDefaultProfile()
	}

	return profile, nil
}

// GenerationDefaults returns the generation namespace, used to fill style
// parameters a request leaves empty. Missing or unreadable preferences yield
// empty defaults.
func (s *ProfileService) GenerationDefaults(ctx context.Context) *models.GenerationPreferences {
	profile, err := s.profileRepo.Get(ctx)
	if err != nil || profile == nil {
		return &models.GenerationPreferences{}
	}

	gen, err := profile.GetGeneration()
	if err != nil {
		s.logger.Warn("generation preferences unreadable", "error", err)
		return &models.GenerationPreferences{}
	}
	return gen
}

// UpdateProfile applies a partial update
func (s *ProfileService) UpdateProfile(ctx context.Context, req *models.UpdateProfileRequest) (*models.Profile, error) {
	if err := validateUpdateProfile(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	existing, err := s.profileRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("get existing profile: %w", err)
	}

	// If no existing profile, start with defaults
	if existing == nil {
		existing = s.getDefaultProfile()
	}

	// Apply partial updates (only update namespaces that are provided)
	if req.DisplayName != nil {
		existing.DisplayName = strings.TrimSpace(*req.DisplayName)
	}
	if req.Email != nil {
		existing.Email = strings.TrimSpace(*req.Email)
	}
	if req.UI != nil {
		if err := existing.SetUI(req.UI); err != nil {
			return nil, fmt.Errorf("update ui namespace: %w", err)
		}
	}
	if req.Editor != nil {
		if err := existing.SetEditor(req.Editor); err != nil {
			return nil, fmt.Errorf("update editor namespace: %w", err)
		}
	}
	if req.Generation != nil {
		if err := existing.SetGeneration(req.Generation); err != nil {
			return nil, fmt.Errorf("update generation namespace: %w", err)
		}
	}

	existing.UpdatedAt = time.Now().UTC()

	if err := s.profileRepo.Put(ctx, existing); err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}

	s.logger.Info("profile updated",
		"has_ui", req.UI != nil,
		"has_editor", req.Editor != nil,
		"has_generation", req.Generation != nil,
	)

	return existing, nil
}

// SetPlan records the plan reported by the billing backend
func (s *ProfileService) SetPlan(ctx context.Context, plan models.Plan) error {
	existing, err := s.GetProfile(ctx)
	if err != nil {
		return err
	}
	if existing.Plan == plan {
		return nil
	}

	existing.Plan = plan
	existing.UpdatedAt = time.Now().UTC()
	if err := s.profileRepo.Put(ctx, existing); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}

	s.logger.Info("profile plan changed", "plan", plan)
	return nil
}

func validateUpdateProfile(req *models.UpdateProfileRequest) error {
	err := validation.ValidateStruct(req,
		validation.Field(&req.DisplayName, validation.Length(0, 100)),
		validation.Field(&req.Email, is.EmailFormat),
	)
	if err != nil {
		return err
	}

	if req.UI != nil {
		if err := validation.Validate(req.UI.Theme, validation.In("light", "dark", "auto")); err != nil {
			return validation.Errors{"ui.theme": err}
		}
	}
	if req.Generation != nil {
		if err := validation.Validate(req.Generation.AccentColor, is.HexColor); err != nil {
			return validation.Errors{"generation.accent_color": err}
		}
	}
	return nil
}
