package config

import "time"

const (
	// MaxVersionHistory is the number of content states kept per document,
	// counting the live content. A document therefore carries at most
	// MaxVersionHistory-1 prior versions.
	MaxVersionHistory = 10

	// MaxTitleLength is the maximum length for document titles.
	MaxTitleLength = 255

	// MaxFolderNameLength is the maximum length for folder names.
	MaxFolderNameLength = 255

	// MaxTagLength is the maximum length of a single tag.
	MaxTagLength = 64

	// MaxTags is the maximum number of tags on one document.
	MaxTags = 32

	// MaxToolIDLength bounds tool identifiers used as draft keys.
	MaxToolIDLength = 64

	// WordsPerMinute is the reading speed used for read-time estimates.
	WordsPerMinute = 200

	// DefaultDraftDebounce is the quiet period before a draft is persisted.
	DefaultDraftDebounce = time.Second

	// CopyTitleSuffix is appended to the title of duplicated documents.
	CopyTitleSuffix = " (Copy)"
)
