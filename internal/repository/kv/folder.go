package kv

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"quill/internal/domain/models/docsystem"
	docsysRepo "quill/internal/domain/repositories/docsystem"
)

// FolderRepository keeps the folder collection as one JSON array
type FolderRepository struct {
	tm     *TransactionManager
	key    string
	logger *slog.Logger
}

// NewFolderRepository creates a new FolderRepository
func NewFolderRepository(tm *TransactionManager, ns Namespace, logger *slog.Logger) docsysRepo.FolderRepository {
	return &FolderRepository{tm: tm, key: ns.Folders(), logger: logger}
}

func (r *FolderRepository) List(ctx context.Context) ([]docsystem.Folder, error) {
	data, err := r.tm.readOptional(ctx, r.key)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return []docsystem.Folder{}, nil
	}

	var folders []docsystem.Folder
	if err := json.Unmarshal(data, &folders); err != nil {
		return nil, fmt.Errorf("decode folders: %w", err)
	}
	return folders, nil
}

func (r *FolderRepository) Mutate(ctx context.Context, fn docsysRepo.FolderMutator) error {
	return r.tm.ExecTx(ctx, func(ctx context.Context) error {
		folders, err := r.List(ctx)
		if err != nil {
			return err
		}
		updated, err := fn(folders)
		if err != nil {
			return err
		}
		return r.Replace(ctx, updated)
	})
}

func (r *FolderRepository) Replace(ctx context.Context, folders []docsystem.Folder) error {
	if folders == nil {
		folders = []docsystem.Folder{}
	}
	data, err := json.Marshal(folders)
	if err != nil {
		return fmt.Errorf("encode folders: %w", err)
	}
	if err := r.tm.write(ctx, r.key, data); err != nil {
		return err
	}

	r.logger.Debug("folders written", "count", len(folders))
	return nil
}
