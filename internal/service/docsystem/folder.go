package docsystem

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"quill/internal/config"
	"quill/internal/domain"
	models "quill/internal/domain/models/docsystem"
	"quill/internal/domain/repositories"
	docsysRepo "quill/internal/domain/repositories/docsystem"
	docsysSvc "quill/internal/domain/services/docsystem"
)

type folderService struct {
	folderRepo docsysRepo.FolderRepository
	docRepo    docsysRepo.DocumentRepository
	txManager  repositories.TransactionManager
	logger     *slog.Logger
	now        func() time.Time
}

// NewFolderService creates a new folder service
func NewFolderService(
	folderRepo docsysRepo.FolderRepository,
	docRepo docsysRepo.DocumentRepository,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) docsysSvc.FolderService {
	return &folderService{
		folderRepo: folderRepo,
		docRepo:    docRepo,
		txManager:  txManager,
		logger:     logger,
		now:        time.Now,
	}
}

// CreateFolder creates a new folder. Names need not be unique.
func (s *folderService) CreateFolder(ctx context.Context, req *docsysSvc.CreateFolderRequest) (*models.Folder, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validateFolderName(&req.Name); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	folder := models.Folder{
		ID:        uuid.NewString(),
		Name:      req.Name,
		CreatedAt: s.now().UTC(),
	}

	err := s.folderRepo.Mutate(ctx, func(folders []models.Folder) ([]models.Folder, error) {
		return append(folders, folder), nil
	})
	if err != nil {
		return nil, fmt.Errorf("create folder: %w", err)
	}

	s.logger.Info("folder created",
		"id", folder.ID,
		"name", folder.Name,
	)

	return &folder, nil
}

// RenameFolder changes a folder's name
func (s *folderService) RenameFolder(ctx context.Context, id string, req *docsysSvc.UpdateFolderRequest) (*models.Folder, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validateFolderName(&req.Name); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	var renamed models.Folder
	err := s.folderRepo.Mutate(ctx, func(folders []models.Folder) ([]models.Folder, error) {
		i := folderIndex(folders, id)
		if i == -1 {
			return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
		}
		folders[i].Name = req.Name
		renamed = folders[i]
		return folders, nil
	})
	if err != nil {
		return nil, fmt.Errorf("rename folder: %w", err)
	}

	s.logger.Info("folder renamed", "id", id, "name", renamed.Name)
	return &renamed, nil
}

// DeleteFolder removes the folder and reassigns its documents (active and
// trashed) to no folder, in one atomic write. Documents are otherwise untouched.
func (s *folderService) DeleteFolder(ctx context.Context, id string) error {
	reassigned := 0

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		err := s.folderRepo.Mutate(txCtx, func(folders []models.Folder) ([]models.Folder, error) {
			i := folderIndex(folders, id)
			if i == -1 {
				return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
			}
			return slices.Delete(folders, i, i+1), nil
		})
		if err != nil {
			return err
		}

		return s.docRepo.Mutate(txCtx, func(docs []models.Document) ([]models.Document, error) {
			for i := range docs {
				if docs[i].InFolder(id) {
					docs[i].FolderID = nil
					reassigned++
				}
			}
			return docs, nil
		})
	})
	if err != nil {
		return fmt.Errorf("delete folder: %w", err)
	}

	s.logger.Info("folder deleted",
		"id", id,
		"documents_reassigned", reassigned,
	)
	return nil
}

// ListFolders returns all folders, oldest first
func (s *folderService) ListFolders(ctx context.Context) ([]models.Folder, error) {
	folders, err := s.folderRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}

	slices.SortStableFunc(folders, func(a, b models.Folder) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return folders, nil
}

func validateFolderName(name *string) error {
	return validation.Validate(*name,
		validation.Required.Error("folder name is required"),
		validation.Length(1, config.MaxFolderNameLength),
	)
}

func folderIndex(folders []models.Folder, id string) int {
	return slices.IndexFunc(folders, func(f models.Folder) bool { return f.ID == id })
}
