package docsystem

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"quill/internal/config"
	"quill/internal/domain"
	"quill/internal/domain/models"
	docsystem "quill/internal/domain/models/docsystem"
	"quill/internal/domain/repositories"
	docsysRepo "quill/internal/domain/repositories/docsystem"
	docsysSvc "quill/internal/domain/services/docsystem"
)

// importService implements export/import of all persisted namespaces
type importService struct {
	docRepo     docsysRepo.DocumentRepository
	folderRepo  docsysRepo.FolderRepository
	draftRepo   repositories.DraftRepository
	profileRepo repositories.ProfileRepository
	txManager   repositories.TransactionManager
	logger      *slog.Logger
	now         func() time.Time
}

// NewImportService creates a new import service
func NewImportService(
	docRepo docsysRepo.DocumentRepository,
	folderRepo docsysRepo.FolderRepository,
	draftRepo repositories.DraftRepository,
	profileRepo repositories.ProfileRepository,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) docsysSvc.ImportService {
	return &importService{
		docRepo:     docRepo,
		folderRepo:  folderRepo,
		draftRepo:   draftRepo,
		profileRepo: profileRepo,
		txManager:   txManager,
		logger:      logger,
		now:         time.Now,
	}
}

// Export reads every namespace inside one transaction so the snapshot is consistent
func (s *importService) Export(ctx context.Context) ([]byte, error) {
	snapshot := models.Snapshot{
		FormatVersion: models.SnapshotFormatVersion,
		ExportedAt:    s.now().UTC(),
	}

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		var err error
		if snapshot.Documents, err = s.docRepo.List(txCtx); err != nil {
			return err
		}
		if snapshot.Folders, err = s.folderRepo.List(txCtx); err != nil {
			return err
		}
		if snapshot.Drafts, err = s.draftRepo.List(txCtx); err != nil {
			return err
		}
		snapshot.Profile, err = s.profileRepo.Get(txCtx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}

	s.logger.Info("data exported",
		"documents", len(snapshot.Documents),
		"folders", len(snapshot.Folders),
		"drafts", len(snapshot.Drafts),
		"bytes", len(data),
	)
	return data, nil
}

// Import parses and validates data before touching storage. Only a fully
// valid snapshot replaces the current state, in a single atomic write.
func (s *importService) Import(ctx context.Context, data []byte) (*docsysSvc.ImportResult, error) {
	snapshot, err := parseSnapshot(data)
	if err != nil {
		s.logger.Warn("import rejected", "error", err)
		return &docsysSvc.ImportResult{Success: false}, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.docRepo.Replace(txCtx, snapshot.Documents); err != nil {
			return err
		}
		if err := s.folderRepo.Replace(txCtx, snapshot.Folders); err != nil {
			return err
		}
		if err := s.draftRepo.ReplaceAll(txCtx, snapshot.Drafts); err != nil {
			return err
		}
		return s.profileRepo.Put(txCtx, snapshot.Profile)
	})
	if err != nil {
		return &docsysSvc.ImportResult{Success: false}, fmt.Errorf("import: %w", err)
	}

	result := &docsysSvc.ImportResult{
		Success:   true,
		Documents: len(snapshot.Documents),
		Folders:   len(snapshot.Folders),
		Drafts:    len(snapshot.Drafts),
		Profile:   snapshot.Profile != nil,
	}

	s.logger.Info("data imported",
		"documents", result.Documents,
		"folders", result.Folders,
		"drafts", result.Drafts,
	)
	return result, nil
}

func parseSnapshot(data []byte) (*models.Snapshot, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()

	var snapshot models.Snapshot
	if err := decoder.Decode(&snapshot); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}

	if err := validateSnapshot(&snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

func validateSnapshot(snapshot *models.Snapshot) error {
	err := validation.ValidateStruct(snapshot,
		validation.Field(&snapshot.FormatVersion, validation.Required, validation.Max(models.SnapshotFormatVersion)),
	)
	if err != nil {
		return err
	}

	folderIDs := make(map[string]bool, len(snapshot.Folders))
	for _, folder := range snapshot.Folders {
		if folder.ID == "" {
			return fmt.Errorf("folder without id")
		}
		if folderIDs[folder.ID] {
			return fmt.Errorf("duplicate folder id %s", folder.ID)
		}
		folderIDs[folder.ID] = true
	}

	docIDs := make(map[string]bool, len(snapshot.Documents))
	for i := range snapshot.Documents {
		doc := &snapshot.Documents[i]
		if doc.ID == "" {
			return fmt.Errorf("document without id")
		}
		if docIDs[doc.ID] {
			return fmt.Errorf("duplicate document id %s", doc.ID)
		}
		docIDs[doc.ID] = true

		if doc.FolderID != nil && !folderIDs[*doc.FolderID] {
			return fmt.Errorf("document %s references unknown folder %s", doc.ID, *doc.FolderID)
		}
		if len(doc.Versions) > config.MaxVersionHistory-1 {
			return fmt.Errorf("document %s has %d versions, at most %d allowed", doc.ID, len(doc.Versions), config.MaxVersionHistory-1)
		}
		if doc.Versions == nil {
			doc.Versions = []docsystem.Version{}
		}
	}

	toolIDs := make(map[string]bool, len(snapshot.Drafts))
	for _, draft := range snapshot.Drafts {
		if err := validation.Validate(draft.ToolID, validation.Required, validation.Length(1, config.MaxToolIDLength)); err != nil {
			return fmt.Errorf("draft tool id: %w", err)
		}
		if toolIDs[draft.ToolID] {
			return fmt.Errorf("duplicate draft for tool %s", draft.ToolID)
		}
		toolIDs[draft.ToolID] = true
	}

	return nil
}
