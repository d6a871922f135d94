package kv

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"quill/internal/domain/models/docsystem"
	docsysRepo "quill/internal/domain/repositories/docsystem"
)

// DocumentRepository keeps the document collection as one JSON array
type DocumentRepository struct {
	tm     *TransactionManager
	key    string
	logger *slog.Logger
}

// NewDocumentRepository creates a new DocumentRepository
func NewDocumentRepository(tm *TransactionManager, ns Namespace, logger *slog.Logger) docsysRepo.DocumentRepository {
	return &DocumentRepository{tm: tm, key: ns.Documents(), logger: logger}
}

func (r *DocumentRepository) List(ctx context.Context) ([]docsystem.Document, error) {
	data, err := r.tm.readOptional(ctx, r.key)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return []docsystem.Document{}, nil
	}

	var docs []docsystem.Document
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("decode documents: %w", err)
	}
	return docs, nil
}

func (r *DocumentRepository) Mutate(ctx context.Context, fn docsysRepo.DocumentMutator) error {
	return r.tm.ExecTx(ctx, func(ctx context.Context) error {
		docs, err := r.List(ctx)
		if err != nil {
			return err
		}
		updated, err := fn(docs)
		if err != nil {
			return err
		}
		return r.Replace(ctx, updated)
	})
}

func (r *DocumentRepository) Replace(ctx context.Context, docs []docsystem.Document) error {
	if docs == nil {
		docs = []docsystem.Document{}
	}
	data, err := json.Marshal(docs)
	if err != nil {
		return fmt.Errorf("encode documents: %w", err)
	}
	if err := r.tm.write(ctx, r.key, data); err != nil {
		return err
	}

	r.logger.Debug("documents written", "count", len(docs), "bytes", len(data))
	return nil
}
