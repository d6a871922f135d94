package docsystem

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContentAnalyzer_Stats(t *testing.T) {
	analyzer := NewContentAnalyzer()

	tests := []struct {
		name      string
		content   string
		wantWords int
		wantChars int
		wantRead  int
	}{
		{name: "empty", content: "", wantWords: 0, wantChars: 0, wantRead: 0},
		{name: "whitespace only", content: "  \n\t ", wantWords: 0, wantChars: 0, wantRead: 0},
		{name: "single word", content: "hello", wantWords: 1, wantChars: 5, wantRead: 1},
		{name: "tags stripped", content: "<p>hello <strong>world</strong></p>", wantWords: 2, wantChars: 11, wantRead: 1},
		{name: "adjacent blocks split words", content: "<p>a</p><p>b</p>", wantWords: 2, wantChars: 3, wantRead: 1},
		{name: "script ignored", content: "<p>ok</p><script>var x = 1;</script>", wantWords: 1, wantChars: 2, wantRead: 1},
		{name: "entities decoded", content: "fish &amp; chips", wantWords: 3, wantChars: 12, wantRead: 1},
		{name: "exactly 200 words", content: strings.Repeat("word ", 200), wantWords: 200, wantChars: 999, wantRead: 1},
		{name: "201 words", content: strings.Repeat("word ", 201), wantWords: 201, wantChars: 1004, wantRead: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := analyzer.Stats(tt.content)
			assert.Equal(t, tt.wantWords, stats.Words)
			assert.Equal(t, tt.wantChars, stats.Characters)
			assert.Equal(t, tt.wantRead, stats.ReadingMinutes)
			assert.Equal(t, tt.wantWords, analyzer.CountWords(tt.content))
		})
	}
}

func TestContentAnalyzer_PlainText(t *testing.T) {
	analyzer := NewContentAnalyzer()

	assert.Equal(t, "Title Body text", analyzer.PlainText("<h1>Title</h1>\n<p>Body <em>text</em></p>"))
	assert.Equal(t, "", analyzer.PlainText("<br/><hr>"))
}
