package unify_test

import (
	"testing"

	"github.com/fwdslsh/toolkit/unify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func site(pages map[string]string) map[string][]byte {
	files := make(map[string][]byte, len(pages))
	for rel, content := range pages {
		files[rel] = []byte(content)
	}
	return files
}

func TestCheckLinks_Valid(t *testing.T) {
	t.Parallel()

	files := site(map[string]string{
		"index.html": `<html><body>
			<a href="docs/guide.html">guide</a>
			<a href="docs/">docs index</a>
			<a href="about">extensionless</a>
			<a href="https://example.com/external">external</a>
			<a href="mailto:hi@example.com">mail</a>
			<img src="/img/logo.png">
			<script src="app.js"></script>
		</body></html>`,
		"docs/guide.html": `<html><body><a href="../index.html">up</a></body></html>`,
		"docs/index.html": `<html><body>docs</body></html>`,
		"about.html":      `<html><body>about</body></html>`,
		"img/logo.png":    "png bytes",
		"app.js":          "console.log(1)",
	})

	assert.Empty(t, unify.CheckLinks(files))
}

func TestCheckLinks_MissingTarget(t *testing.T) {
	t.Parallel()

	files := site(map[string]string{
		"index.html": `<html><body><a href="gone.html">x</a></body></html>`,
	})

	broken := unify.CheckLinks(files)

	require.Len(t, broken, 1)
	assert.Equal(t, "index.html", broken[0].Page)
	assert.Equal(t, "gone.html", broken[0].Ref)
	assert.Equal(t, "missing target", broken[0].Reason)
}

func TestCheckLinks_Anchors(t *testing.T) {
	t.Parallel()

	target := `<html><body>
		<h2>Section One</h2>
		<div id="explicit"></div>
	</body></html>`

	t.Run("heading anchor resolves", func(t *testing.T) {
		t.Parallel()

		files := site(map[string]string{
			"index.html": `<a href="page.html#section-one">s1</a>`,
			"page.html":  target,
		})
		assert.Empty(t, unify.CheckLinks(files))
	})

	t.Run("element id resolves", func(t *testing.T) {
		t.Parallel()

		files := site(map[string]string{
			"index.html": `<a href="page.html#explicit">e</a>`,
			"page.html":  target,
		})
		assert.Empty(t, unify.CheckLinks(files))
	})

	t.Run("same page fragment", func(t *testing.T) {
		t.Parallel()

		files := site(map[string]string{
			"index.html": `<a href="#top">top</a><div id="top"></div>`,
		})
		assert.Empty(t, unify.CheckLinks(files))
	})

	t.Run("missing anchor is broken", func(t *testing.T) {
		t.Parallel()

		files := site(map[string]string{
			"index.html": `<a href="page.html#nope">x</a>`,
			"page.html":  target,
		})

		broken := unify.CheckLinks(files)
		require.Len(t, broken, 1)
		assert.Equal(t, "missing anchor", broken[0].Reason)
	})
}

func TestCheckLinks_QueryStringIgnored(t *testing.T) {
	t.Parallel()

	files := site(map[string]string{
		"index.html":  `<a href="search.html?q=term">search</a>`,
		"search.html": `<html></html>`,
	})

	assert.Empty(t, unify.CheckLinks(files))
}

func TestCheckLinks_ReportOrderIsDeterministic(t *testing.T) {
	t.Parallel()

	files := site(map[string]string{
		"b.html": `<a href="missing1.html">x</a>`,
		"a.html": `<a href="missing2.html">y</a>`,
	})

	broken := unify.CheckLinks(files)

	require.Len(t, broken, 2)
	assert.Equal(t, "a.html", broken[0].Page)
	assert.Equal(t, "b.html", broken[1].Page)
}
