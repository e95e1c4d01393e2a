package htmltomarkdown_test

import (
	"testing"

	"github.com/fwdslsh/toolkit"
	"github.com/fwdslsh/toolkit/htmltomarkdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConverter_Convert(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "heading and paragraph",
			html: "<h1>Title</h1><p>Some text.</p>",
			want: "# Title\n\nSome text.",
		},
		{
			name: "links",
			html: `<p>See <a href="https://example.com">example</a>.</p>`,
			want: "See [example](https://example.com).",
		},
		{
			name: "code block",
			html: "<pre><code>go build ./...</code></pre>",
			want: "```\ngo build ./...\n```",
		},
		{
			name: "unordered list",
			html: "<ul><li>one</li><li>two</li></ul>",
			want: "- one\n- two",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			conv := htmltomarkdown.NewConverter()

			got, err := conv.Convert(tt.html)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConverter_Convert_EmptyInput(t *testing.T) {
	t.Parallel()

	conv := htmltomarkdown.NewConverter()

	_, err := conv.Convert("   ")

	require.Error(t, err)
	assert.Equal(t, toolkit.EINVALID, toolkit.ErrorCode(err))
}

func TestConverter_Convert_Table(t *testing.T) {
	t.Parallel()

	conv := htmltomarkdown.NewConverter()

	got, err := conv.Convert("<table><tr><th>A</th><th>B</th></tr><tr><td>1</td><td>2</td></tr></table>")

	require.NoError(t, err)
	assert.Contains(t, got, "| A | B |")
	assert.Contains(t, got, "| 1 | 2 |")
}
