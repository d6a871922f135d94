package usage

import (
	"strings"

	"quill/internal/domain/models"
)

// watermarkHTML is appended to renders for non-paying plans. It only uses
// elements and attributes the HTML sanitizer keeps.
const watermarkHTML = `<div class="quill-watermark" style="text-align: right; font-size: 12px; color: #9ca3af">Made with Quill</div>`

// Watermark decorates html for free and unknown plans. Paid plans get html
// unchanged. Already-watermarked content is left as is.
func Watermark(plan models.Plan, html string) string {
	if plan.IsPaid() || strings.Contains(html, `class="quill-watermark"`) {
		return html
	}

	if i := strings.LastIndex(strings.ToLower(html), "</body>"); i >= 0 {
		return html[:i] + watermarkHTML + html[i:]
	}
	return html + watermarkHTML
}
