package unify_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwdslsh/toolkit"
	"github.com/fwdslsh/toolkit/unify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testSite scaffolds a small site with an HTML page, a Markdown page
// wrapped in the default layout, and an asset.
func testSite(t *testing.T) (string, string) {
	t.Helper()
	source := t.TempDir()

	writeFile(t, source, "unify.yaml", "title: Test\n")
	writeFile(t, source, "_includes/nav.html", `<nav><a href="/docs/guide.html">Guide</a></nav>`)
	writeFile(t, source, "_includes/layout.html",
		`<html><head><title><!--#echo var="title" --></title></head>`+
			`<body><!--#echo var="content" --></body></html>`)
	writeFile(t, source, "index.html",
		`<html><body><!--#include virtual="/_includes/nav.html" --><h1 id="home">Home</h1></body></html>`)
	writeFile(t, source, "docs/guide.md", "---\ntitle: Guide\n---\n\n# Guide\n\nSee the [home page](/index.html).\n")
	writeFile(t, source, "css/site.css", "body { margin: 0 }")

	return source, filepath.Join(source, "dist")
}

func TestBuilder_Build(t *testing.T) {
	t.Parallel()

	source, output := testSite(t)
	b := &unify.Builder{Source: source, Output: output, CheckLinks: true}

	res, err := b.Build(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, res.Pages)
	assert.Equal(t, 1, res.Assets)
	assert.Equal(t, 0, res.Unchanged)

	index, err := os.ReadFile(filepath.Join(output, "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(index), "<nav>")

	guide, err := os.ReadFile(filepath.Join(output, "docs", "guide.html"))
	require.NoError(t, err)
	assert.Contains(t, string(guide), "<title>Guide</title>")
	assert.Contains(t, string(guide), `id="guide"`)

	assert.FileExists(t, filepath.Join(output, "css", "site.css"))

	// The config and includes never reach the output.
	assert.NoFileExists(t, filepath.Join(output, "unify.yaml"))
	assert.NoDirExists(t, filepath.Join(output, "_includes"))
}

func TestBuilder_UnchangedFilesSkipped(t *testing.T) {
	t.Parallel()

	source, output := testSite(t)
	b := &unify.Builder{Source: source, Output: output}

	_, err := b.Build(context.Background())
	require.NoError(t, err)

	res, err := b.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, res.Unchanged)

	// Editing one page leaves the rest untouched.
	writeFile(t, source, "index.html", "<html><body><h1>Edited</h1></body></html>")
	res, err = b.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Unchanged)
}

func TestBuilder_PrunesStaleOutput(t *testing.T) {
	t.Parallel()

	source, output := testSite(t)
	require.NoError(t, os.MkdirAll(output, 0755))
	stale := filepath.Join(output, "removed.html")
	require.NoError(t, os.WriteFile(stale, []byte("old"), 0644))

	b := &unify.Builder{Source: source, Output: output}
	_, err := b.Build(context.Background())

	require.NoError(t, err)
	assert.NoFileExists(t, stale)
}

func TestBuilder_Sitemap(t *testing.T) {
	t.Parallel()

	source, output := testSite(t)
	b := &unify.Builder{Source: source, Output: output, BaseURL: "https://example.com"}

	_, err := b.Build(context.Background())
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(output, "sitemap.xml"))
	require.NoError(t, err)
	sitemap := string(data)
	assert.Contains(t, sitemap, "<loc>https://example.com/</loc>")
	assert.Contains(t, sitemap, "<loc>https://example.com/docs/guide.html</loc>")
	assert.Contains(t, sitemap, `xmlns="http://www.sitemaps.org/schemas/sitemap/0.9"`)
}

func TestBuilder_AssetGlobs(t *testing.T) {
	t.Parallel()

	source, output := testSite(t)
	writeFile(t, source, "notes/draft.tmp", "wip")

	b := &unify.Builder{
		Source:  source,
		Output:  output,
		Include: []string{"css/**"},
		Exclude: []string{"**/*.tmp"},
	}

	res, err := b.Build(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, res.Assets)
	assert.FileExists(t, filepath.Join(output, "css", "site.css"))
	assert.NoFileExists(t, filepath.Join(output, "notes", "draft.tmp"))
}

func TestBuilder_BrokenLinkFailsBuild(t *testing.T) {
	t.Parallel()

	source, output := testSite(t)
	writeFile(t, source, "broken.html", `<html><body><a href="/nowhere.html">gone</a></body></html>`)

	b := &unify.Builder{Source: source, Output: output, CheckLinks: true}
	_, err := b.Build(context.Background())

	require.Error(t, err)
	assert.Equal(t, toolkit.EINVALID, toolkit.ErrorCode(err))
	assert.Contains(t, toolkit.ErrorMessage(err), "broken.html")
	assert.Contains(t, toolkit.ErrorMessage(err), "/nowhere.html")

	// A failed check writes nothing.
	assert.NoFileExists(t, filepath.Join(output, "broken.html"))
}

func TestBuilder_MissingNamedLayout(t *testing.T) {
	t.Parallel()

	source, output := testSite(t)
	writeFile(t, source, "post.md", "---\nlayout: missing\n---\n\ntext\n")

	b := &unify.Builder{Source: source, Output: output}
	_, err := b.Build(context.Background())

	require.Error(t, err)
	assert.Equal(t, toolkit.EINVALID, toolkit.ErrorCode(err))
	assert.Contains(t, toolkit.ErrorMessage(err), "missing")
}

func TestBuilder_CanceledContext(t *testing.T) {
	t.Parallel()

	source, output := testSite(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := &unify.Builder{Source: source, Output: output}
	_, err := b.Build(ctx)

	assert.ErrorIs(t, err, context.Canceled)
}
