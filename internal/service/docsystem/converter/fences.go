package converter

import "strings"

const fence = "```"

// StripCodeFences removes the fenced-code-block markers a model may wrap
// its whole output in. It is safe to call on every cumulative chunk of a
// stream: an opening fence whose info line has not finished yet is dropped
// entirely, and a partial closing fence is trimmed once the content is
// known to be fenced.
func StripCodeFences(content string) string {
	trimmed := strings.TrimLeft(content, " \t\r\n")
	if !strings.HasPrefix(trimmed, fence) {
		return content
	}

	// Opening fence plus optional language tag, e.g. "```html\n"
	newline := strings.IndexByte(trimmed, '\n')
	if newline == -1 {
		return ""
	}
	body := trimmed[newline+1:]

	body = strings.TrimRight(body, " \t\r\n")
	for i := 0; i < len(fence) && strings.HasSuffix(body, "`"); i++ {
		body = body[:len(body)-1]
	}

	return strings.TrimRight(body, " \t\r\n")
}
