package docsystem

import (
	"context"

	"quill/internal/domain/models/docsystem"
)

// DocumentService handles document business logic
type DocumentService interface {
	// CreateDocument creates a new document. A blank title falls back to
	// "<Tool name> <date>".
	CreateDocument(ctx context.Context, req *CreateDocumentRequest) (*docsystem.Document, error)

	// SaveDocument upserts by id. A content change pushes the previous
	// content onto the version history.
	SaveDocument(ctx context.Context, doc *docsystem.Document) (*docsystem.Document, error)

	// UpdateDocument applies a partial update with the same versioning rules as SaveDocument
	UpdateDocument(ctx context.Context, id string, req *UpdateDocumentRequest) (*docsystem.Document, error)

	// GetDocument retrieves a document, active or trashed
	GetDocument(ctx context.Context, id string) (*docsystem.Document, error)

	// DeleteDocument moves a document to the trash
	DeleteDocument(ctx context.Context, id string) error

	// RestoreDocument takes a document out of the trash
	RestoreDocument(ctx context.Context, id string) (*docsystem.Document, error)

	// HardDeleteDocument removes a document and its history permanently
	HardDeleteDocument(ctx context.Context, id string) error

	// DuplicateDocument clones a document under a new id with no history
	DuplicateDocument(ctx context.Context, id string) (*docsystem.Document, error)

	// MoveToFolder assigns a folder. nil removes the document from its folder.
	MoveToFolder(ctx context.Context, id string, folderID *string) (*docsystem.Document, error)

	// EmptyTrash hard-deletes every trashed document and returns how many were removed
	EmptyTrash(ctx context.Context) (int, error)

	// ListDocuments returns documents matching filter, most recent first
	ListDocuments(ctx context.Context, filter *docsystem.DocumentFilter) ([]docsystem.Document, error)

	// ExportMarkdown renders a document as Markdown
	ExportMarkdown(ctx context.Context, id string) (string, error)
}

// CreateDocumentRequest represents a document creation request
type CreateDocumentRequest struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	ToolID   string   `json:"tool_id"`             // Producing tool, used for the default title
	FolderID *string  `json:"folder_id,omitempty"` // Optional folder assignment
	Tags     []string `json:"tags,omitempty"`
}

// UpdateDocumentRequest represents a partial document update.
// Only non-nil fields are applied.
type UpdateDocumentRequest struct {
	Title    *string   `json:"title,omitempty"`
	Content  *string   `json:"content,omitempty"`
	Tags     *[]string `json:"tags,omitempty"`
	FolderID *string   `json:"folder_id,omitempty"` // "" removes the folder
}
