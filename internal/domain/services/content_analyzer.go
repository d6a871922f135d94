package services

// Stats are the derived figures shown next to a document or preview
type Stats struct {
	Words          int `json:"words"`
	Characters     int `json:"characters"`
	ReadingMinutes int `json:"reading_minutes"`
}

// ContentAnalyzer handles content analysis operations
type ContentAnalyzer interface {
	// CountWords counts whitespace-delimited words of content with HTML tags stripped
	CountWords(content string) int

	// PlainText strips HTML tags and returns the text content
	PlainText(content string) string

	// Stats computes word count, character count and reading time
	Stats(content string) Stats
}
