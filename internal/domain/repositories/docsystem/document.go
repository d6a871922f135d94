package docsystem

import (
	"context"

	"quill/internal/domain/models/docsystem"
)

// DocumentMutator edits the full document collection in memory and returns
// the collection to write back.
type DocumentMutator func(docs []docsystem.Document) ([]docsystem.Document, error)

// DocumentRepository stores the whole document collection under one key.
// Every change is a read-modify-write of the full collection so a failed
// write leaves the previously stored collection intact.
type DocumentRepository interface {
	// List returns every stored document, trashed ones included
	List(ctx context.Context) ([]docsystem.Document, error)

	// Mutate reads the collection, applies fn and writes the result back.
	// Nothing is written when fn returns an error.
	Mutate(ctx context.Context, fn DocumentMutator) error

	// Replace overwrites the collection
	Replace(ctx context.Context, docs []docsystem.Document) error
}
