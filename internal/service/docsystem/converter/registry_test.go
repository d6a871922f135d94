package converter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConverterRegistry_Convert(t *testing.T) {
	registry := NewConverterRegistry()
	ctx := context.Background()

	out, err := registry.Convert(ctx, "html", "<h1>Title</h1><p>Hello <strong>world</strong></p><script>x()</script>")
	require.NoError(t, err)
	assert.Contains(t, out, "# Title")
	assert.Contains(t, out, "**world**")
	assert.NotContains(t, out, "x()")

	out, err = registry.Convert(ctx, "Markdown", "```markdown\n# Notes\n```")
	require.NoError(t, err)
	assert.Equal(t, "# Notes", out)

	out, err = registry.Convert(ctx, "text", "2 * 3 = 6")
	require.NoError(t, err)
	assert.Equal(t, `2 \* 3 = 6`, out)

	_, err = registry.Convert(ctx, "pdf", "x")
	assert.Error(t, err)
}

func TestHTMLConverter_Tables(t *testing.T) {
	out, err := NewHTMLConverter().Convert(context.Background(),
		"<table><tr><th>Item</th><th>Amount</th></tr><tr><td>Website redesign</td><td>2,400.00</td></tr></table>")
	require.NoError(t, err)
	assert.Contains(t, out, "|")
	assert.Contains(t, out, "Website redesign")
	assert.NotContains(t, out, "<td>")
}
