package kv

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"quill/internal/domain/models"
	"quill/internal/domain/repositories"
)

// DraftRepository stores each tool's draft under its own key so that saving
// one tool never rewrites another tool's draft.
type DraftRepository struct {
	tm     *TransactionManager
	ns     Namespace
	logger *slog.Logger
}

// NewDraftRepository creates a new DraftRepository
func NewDraftRepository(tm *TransactionManager, ns Namespace, logger *slog.Logger) repositories.DraftRepository {
	return &DraftRepository{tm: tm, ns: ns, logger: logger}
}

func (r *DraftRepository) Get(ctx context.Context, toolID string) (*models.Draft, error) {
	data, err := r.tm.readOptional(ctx, r.ns.Draft(toolID))
	if err != nil || data == nil {
		return nil, err
	}

	var draft models.Draft
	if err := json.Unmarshal(data, &draft); err != nil {
		return nil, fmt.Errorf("decode draft %s: %w", toolID, err)
	}
	return &draft, nil
}

func (r *DraftRepository) Put(ctx context.Context, draft *models.Draft) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("encode draft %s: %w", draft.ToolID, err)
	}
	return r.tm.write(ctx, r.ns.Draft(draft.ToolID), data)
}

func (r *DraftRepository) List(ctx context.Context) ([]models.Draft, error) {
	keys, err := r.tm.keys(ctx, r.ns.DraftPrefix())
	if err != nil {
		return nil, err
	}

	drafts := make([]models.Draft, 0, len(keys))
	for _, key := range keys {
		toolID := key[len(r.ns.DraftPrefix()):]
		draft, err := r.Get(ctx, toolID)
		if err != nil {
			return nil, err
		}
		if draft != nil {
			drafts = append(drafts, *draft)
		}
	}
	return drafts, nil
}

func (r *DraftRepository) ReplaceAll(ctx context.Context, drafts []models.Draft) error {
	return r.tm.ExecTx(ctx, func(ctx context.Context) error {
		keys, err := r.tm.keys(ctx, r.ns.DraftPrefix())
		if err != nil {
			return err
		}
		for _, key := range keys {
			if err := r.tm.write(ctx, key, nil); err != nil {
				return err
			}
		}
		for i := range drafts {
			if err := r.Put(ctx, &drafts[i]); err != nil {
				return err
			}
		}
		return nil
	})
}
