package docsystem

import (
	"slices"
	"strings"
)

// Scope selects which lifecycle state a query looks at.
type Scope string

const (
	// ScopeActive lists documents that are not in the trash.
	ScopeActive Scope = "active"

	// ScopeTrash lists soft-deleted documents only.
	ScopeTrash Scope = "trash"
)

// DocumentFilter configures a document query. Zero values disable a filter.
type DocumentFilter struct {
	Scope Scope

	// FolderID limits results to one folder. A pointer to "" selects
	// documents without a folder.
	FolderID *string

	// Tags matches documents carrying ANY of the given tags.
	Tags []string

	// Query is a case-insensitive substring matched against title and raw content.
	Query string

	// TemplateID limits results to documents produced by one tool.
	TemplateID string
}

// Apply returns the documents matching f, most recently modified first.
func (f *DocumentFilter) Apply(docs []Document) []Document {
	out := make([]Document, 0, len(docs))
	for i := range docs {
		if f.matches(&docs[i]) {
			out = append(out, docs[i].Clone())
		}
	}

	slices.SortStableFunc(out, func(a, b Document) int {
		if c := b.LastModified.Compare(a.LastModified); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out
}

func (f *DocumentFilter) matches(doc *Document) bool {
	scope := f.Scope
	if scope == "" {
		scope = ScopeActive
	}
	if (scope == ScopeTrash) != doc.IsDeleted() {
		return false
	}
	if f.FolderID != nil && !doc.InFolder(*f.FolderID) {
		return false
	}
	if f.TemplateID != "" && doc.TemplateID != f.TemplateID {
		return false
	}
	if len(f.Tags) > 0 && !doc.HasAnyTag(f.Tags) {
		return false
	}
	return doc.Matches(f.Query)
}
