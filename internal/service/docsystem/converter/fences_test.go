package converter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "no fence", input: "<p>a</p>", want: "<p>a</p>"},
		{name: "opening fence only", input: "```html\n<p>a</p>", want: "<p>a</p>"},
		{name: "both fences", input: "```html\n<p>a</p><p>b</p>```", want: "<p>a</p><p>b</p>"},
		{name: "closing fence on own line", input: "```\n<p>a</p>\n```\n", want: "<p>a</p>"},
		{name: "partial opening line", input: "```ht", want: ""},
		{name: "partial closing fence", input: "```html\n<p>a</p>``", want: "<p>a</p>"},
		{name: "leading whitespace", input: "\n  ```markdown\n# Title", want: "# Title"},
		{name: "inner backticks kept", input: "Use `go test` here", want: "Use `go test` here"},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripCodeFences(tt.input))
		})
	}
}

func TestStripCodeFences_StreamIsClean(t *testing.T) {
	chunks := []string{
		"```html\n<p>a</p>",
		"```html\n<p>a</p><p>b</p>",
		"```html\n<p>a</p><p>b</p>```",
	}
	want := []string{"<p>a</p>", "<p>a</p><p>b</p>", "<p>a</p><p>b</p>"}

	for i, chunk := range chunks {
		got := StripCodeFences(chunk)
		assert.NotContains(t, got, "```")
		assert.Equal(t, want[i], got)
	}
}
