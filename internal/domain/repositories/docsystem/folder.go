package docsystem

import (
	"context"

	"quill/internal/domain/models/docsystem"
)

// FolderMutator edits the full folder collection in memory.
type FolderMutator func(folders []docsystem.Folder) ([]docsystem.Folder, error)

// FolderRepository stores the whole folder collection under one key
type FolderRepository interface {
	// List returns every folder
	List(ctx context.Context) ([]docsystem.Folder, error)

	// Mutate reads the collection, applies fn and writes the result back
	Mutate(ctx context.Context, fn FolderMutator) error

	// Replace overwrites the collection
	Replace(ctx context.Context, folders []docsystem.Folder) error
}
