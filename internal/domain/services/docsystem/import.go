package docsystem

import "context"

// ImportService bundles and restores every persisted namespace
type ImportService interface {
	// Export serializes documents, folders, drafts and the profile into one snapshot
	Export(ctx context.Context) ([]byte, error)

	// Import validates data and, only when it parses, replaces all current
	// state with it. On failure nothing is changed.
	Import(ctx context.Context, data []byte) (*ImportResult, error)
}

// ImportResult summarises a successful import
type ImportResult struct {
	Success   bool `json:"success"`
	Documents int  `json:"documents"`
	Folders   int  `json:"folders"`
	Drafts    int  `json:"drafts"`
	Profile   bool `json:"profile"`
}
