package unify

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// markdown is the shared goldmark instance: GFM tables and autolinks,
// YAML frontmatter, and heading IDs for anchor links.
var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM, meta.Meta),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	goldmark.WithRendererOptions(html.WithUnsafe()),
)

// RenderMarkdown converts Markdown to HTML and returns the frontmatter
// metadata. Frontmatter values become page variables, so they are
// flattened to strings.
func RenderMarkdown(src []byte) (string, map[string]string, error) {
	var buf bytes.Buffer
	pctx := parser.NewContext()

	if err := markdown.Convert(src, &buf, parser.WithContext(pctx)); err != nil {
		return "", nil, err
	}

	vars := make(map[string]string)
	for k, v := range meta.Get(pctx) {
		vars[k] = fmt.Sprint(v)
	}

	return buf.String(), vars, nil
}
