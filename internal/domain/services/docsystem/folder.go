package docsystem

import (
	"context"

	"quill/internal/domain/models/docsystem"
)

// FolderService handles folder business logic
type FolderService interface {
	// CreateFolder creates a new folder
	CreateFolder(ctx context.Context, req *CreateFolderRequest) (*docsystem.Folder, error)

	// RenameFolder changes a folder's name
	RenameFolder(ctx context.Context, id string, req *UpdateFolderRequest) (*docsystem.Folder, error)

	// DeleteFolder removes a folder and moves its documents to no folder.
	// Documents are never deleted.
	DeleteFolder(ctx context.Context, id string) error

	// ListFolders returns all folders ordered by creation time
	ListFolders(ctx context.Context) ([]docsystem.Folder, error)
}

// CreateFolderRequest represents a folder creation request
type CreateFolderRequest struct {
	Name string `json:"name"`
}

// UpdateFolderRequest represents a folder rename request
type UpdateFolderRequest struct {
	Name string `json:"name"`
}
