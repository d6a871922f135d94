package docsystem

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"

	"quill/internal/config"
	"quill/internal/domain/services"
)

type contentAnalyzerService struct{}

// NewContentAnalyzer creates a new content analyzer service
func NewContentAnalyzer() services.ContentAnalyzer {
	return &contentAnalyzerService{}
}

// CountWords counts whitespace-delimited tokens of content with HTML tags stripped
func (s *contentAnalyzerService) CountWords(content string) int {
	return len(strings.Fields(s.PlainText(content)))
}

// PlainText strips tags and decodes entities. Block-level tags become
// whitespace so "<p>a</p><p>b</p>" counts as two words. Script and style
// bodies are dropped.
func (s *contentAnalyzerService) PlainText(content string) string {
	if content == "" {
		return ""
	}

	var b strings.Builder
	tokenizer := html.NewTokenizer(strings.NewReader(content))
	skip := 0

	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			// io.EOF or malformed input; both end the walk
			return strings.Join(strings.Fields(b.String()), " ")
		case html.TextToken:
			if skip == 0 {
				b.Write(tokenizer.Text())
			}
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := tokenizer.TagName()
			if isRawTextTag(string(name)) {
				skip++
			}
			b.WriteByte(' ')
		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			if isRawTextTag(string(name)) && skip > 0 {
				skip--
			}
			b.WriteByte(' ')
		}
	}
}

// Stats computes word count, character count and reading time. Characters
// are counted on the plain text with runs of whitespace collapsed.
// Reading time is words / WordsPerMinute rounded up, so empty content reads in 0 minutes.
func (s *contentAnalyzerService) Stats(content string) services.Stats {
	text := s.PlainText(content)
	words := len(strings.Fields(text))

	return services.Stats{
		Words:          words,
		Characters:     utf8.RuneCountInString(text),
		ReadingMinutes: (words + config.WordsPerMinute - 1) / config.WordsPerMinute,
	}
}

func isRawTextTag(name string) bool {
	return name == "script" || name == "style"
}
