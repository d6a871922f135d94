package docsystem

import (
	"slices"
	"strings"
	"time"
)

type Document struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Content      string     `json:"content"`     // HTML or Markdown depending on the producing tool
	TemplateID   string     `json:"template_id"` // Tool that produced the document
	FolderID     *string    `json:"folder_id"`   // nil = no folder
	Tags         []string   `json:"tags"`
	LastModified time.Time  `json:"last_modified"`
	Versions     []Version  `json:"versions"` // Most recent first
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
}

// Version is a prior content state of a document.
type Version struct {
	Content string    `json:"content"`
	SavedAt time.Time `json:"saved_at"`
}

// IsDeleted reports whether the document is in the trash.
func (d *Document) IsDeleted() bool {
	return d.DeletedAt != nil
}

// InFolder reports whether the document belongs to folderID. An empty
// folderID matches documents without a folder.
func (d *Document) InFolder(folderID string) bool {
	if folderID == "" {
		return d.FolderID == nil
	}
	return d.FolderID != nil && *d.FolderID == folderID
}

// HasAnyTag reports whether the document carries at least one of tags.
func (d *Document) HasAnyTag(tags []string) bool {
	for _, tag := range tags {
		if slices.Contains(d.Tags, NormalizeTag(tag)) {
			return true
		}
	}
	return false
}

// Matches reports whether query is a case-insensitive substring of the
// title or the raw content.
func (d *Document) Matches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(d.Title), q) ||
		strings.Contains(strings.ToLower(d.Content), q)
}

// PushVersion prepends previous content as a version and evicts the oldest
// entries beyond limit.
func (d *Document) PushVersion(previous string, savedAt time.Time, limit int) {
	versions := make([]Version, 0, len(d.Versions)+1)
	versions = append(versions, Version{Content: previous, SavedAt: savedAt})
	versions = append(versions, d.Versions...)
	if limit >= 0 && len(versions) > limit {
		versions = versions[:limit]
	}
	d.Versions = versions
}

// Clone returns a deep copy of the document.
func (d Document) Clone() Document {
	c := d
	if d.FolderID != nil {
		folderID := *d.FolderID
		c.FolderID = &folderID
	}
	if d.DeletedAt != nil {
		deletedAt := *d.DeletedAt
		c.DeletedAt = &deletedAt
	}
	c.Tags = slices.Clone(d.Tags)
	c.Versions = slices.Clone(d.Versions)
	return c
}

// NormalizeTag trims and lowercases a tag.
func NormalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

// NormalizeTags returns tags as a sorted set with empty entries removed.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if t := NormalizeTag(tag); t != "" {
			out = append(out, t)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}
