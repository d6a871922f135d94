package draft

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"quill/internal/config"
	"quill/internal/domain"
	"quill/internal/domain/models"
	"quill/internal/domain/repositories"
	"quill/internal/domain/services"
)

var toolIDPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_-]*$`)

// Service implements services.DraftService
type Service struct {
	repo   repositories.DraftRepository
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a new draft service
func NewService(repo repositories.DraftRepository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

var _ services.DraftService = (*Service)(nil)

// ValidateToolID checks that toolID can be used as a draft key
func ValidateToolID(toolID string) error {
	err := validation.Validate(toolID,
		validation.Required,
		validation.Length(1, config.MaxToolIDLength),
		validation.Match(toolIDPattern),
	)
	if err != nil {
		return fmt.Errorf("%w: tool_id: %v", domain.ErrValidation, err)
	}
	return nil
}

func (s *Service) Load(ctx context.Context, toolID string) (*models.Draft, error) {
	if err := ValidateToolID(toolID); err != nil {
		return nil, err
	}

	draft, err := s.repo.Get(ctx, toolID)
	if err != nil {
		return nil, fmt.Errorf("load draft %s: %w", toolID, err)
	}
	return draft, nil
}

// Save replaces the stored draft. The most recent save always wins; there
// is no history and no trash for drafts.
func (s *Service) Save(ctx context.Context, draft *models.Draft) (*models.Draft, error) {
	if draft == nil {
		return nil, fmt.Errorf("%w: draft is required", domain.ErrValidation)
	}
	if err := ValidateToolID(draft.ToolID); err != nil {
		return nil, err
	}

	saved := *draft
	if saved.FormValues == nil {
		saved.FormValues = models.FormValues{}
	}
	saved.SavedAt = s.now()

	if err := s.repo.Put(ctx, &saved); err != nil {
		return nil, fmt.Errorf("save draft %s: %w", saved.ToolID, err)
	}

	s.logger.Debug("draft saved", "tool_id", saved.ToolID, "content_len", len(saved.Content))
	return &saved, nil
}

func (s *Service) List(ctx context.Context) ([]models.Draft, error) {
	drafts, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list drafts: %w", err)
	}
	return drafts, nil
}
