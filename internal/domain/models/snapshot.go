package models

import (
	"time"

	"quill/internal/domain/models/docsystem"
)

// SnapshotFormatVersion is bumped whenever the export layout changes.
const SnapshotFormatVersion = 1

// Snapshot bundles every persisted namespace into one portable value.
type Snapshot struct {
	FormatVersion int                  `json:"format_version"`
	ExportedAt    time.Time            `json:"exported_at"`
	Documents     []docsystem.Document `json:"documents"`
	Folders       []docsystem.Folder   `json:"folders"`
	Drafts        []Draft              `json:"drafts"`
	Profile       *Profile             `json:"profile"`
}
