package sanitizer

import (
	"regexp"

	"github.com/microcosm-cc/bluemonday"
)

// AllowedElements are the only tags that survive sanitization: basic text
// and structure formatting.
var AllowedElements = []string{
	"p", "br", "hr", "div", "span",
	"h1", "h2", "h3", "h4", "h5", "h6",
	"strong", "b", "em", "i", "u", "s", "strike", "sub", "sup", "small", "mark",
	"blockquote", "pre", "code",
	"ul", "ol", "li", "dl", "dt", "dd",
	"table", "thead", "tbody", "tfoot", "tr", "th", "td", "caption",
	"a",
}

// AllowedStyles are the CSS properties kept inside style attributes
var AllowedStyles = []string{
	"color", "background-color", "text-align", "font-weight", "font-style",
	"font-size", "text-decoration", "margin", "padding", "border",
	"line-height", "width",
}

var linkTarget = regexp.MustCompile(`^(_blank|_self|_parent|_top)$`)

// HTMLSanitizer removes dangerous HTML elements and attributes to prevent XSS attacks.
// Every render path that injects raw HTML (generated documents, rich-text
// form fields, exports) goes through the same policy.
//
// Thread-safe for concurrent use.
type HTMLSanitizer struct {
	policy *bluemonday.Policy
}

// NewHTMLSanitizer creates a sanitizer with the allow-list policy.
// Permitted attributes are limited to href, target, rel, class and style.
func NewHTMLSanitizer() *HTMLSanitizer {
	policy := bluemonday.NewPolicy()
	policy.AllowElements(AllowedElements...)

	// Links: http(s), mailto and relative URLs only
	policy.AllowStandardURLs()
	policy.AllowAttrs("href").OnElements("a")
	policy.AllowAttrs("target").Matching(linkTarget).OnElements("a")
	policy.AllowAttrs("rel").Matching(bluemonday.SpaceSeparatedTokens).OnElements("a")

	policy.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).Globally()
	policy.AllowAttrs("style").Globally()
	policy.AllowStyles(AllowedStyles...).Globally()

	return &HTMLSanitizer{policy: policy}
}

// NewStrictHTMLSanitizer creates a sanitizer with strict policies that strip all HTML.
// Use this for maximum security when HTML formatting is not needed.
func NewStrictHTMLSanitizer() *HTMLSanitizer {
	return &HTMLSanitizer{policy: bluemonday.StrictPolicy()}
}

// Sanitize removes dangerous HTML while preserving safe content.
//
// Removes:
// - <script> and <style> tags with their content
// - Event handlers (onclick, onerror, etc.)
// - javascript: URLs
// - Any tag or attribute outside the allow-list
func (s *HTMLSanitizer) Sanitize(html string) string {
	return s.policy.Sanitize(html)
}
