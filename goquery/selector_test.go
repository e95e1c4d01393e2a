package goquery_test

import (
	"testing"

	"github.com/fwdslsh/toolkit"
	"github.com/fwdslsh/toolkit/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const genericDocPage = `<html><body>
<nav><a href="/docs/intro">Intro</a><a href="/docs/install">Install</a></nav>
<main>
  <p>See the <a href="/docs/config">config reference</a> and
  <a href="https://other.example.org/external">an external site</a>.</p>
  <a href="mailto:team@example.com">contact</a>
</main>
<footer><a href="/about">About</a></footer>
</body></html>`

func TestGenericSelector_ExtractLinks(t *testing.T) {
	t.Parallel()

	s := goquery.NewGenericSelector()

	links, err := s.ExtractLinks(genericDocPage, "https://example.com/docs/")

	require.NoError(t, err)

	byURL := make(map[string]toolkit.DiscoveredLink)
	for _, l := range links {
		byURL[l.URL] = l
	}

	// Nav links get navigation priority.
	intro, ok := byURL["https://example.com/docs/intro"]
	require.True(t, ok)
	assert.Equal(t, toolkit.PriorityNavigation, intro.Priority)

	// Content links get content priority.
	config, ok := byURL["https://example.com/docs/config"]
	require.True(t, ok)
	assert.Equal(t, toolkit.PriorityContent, config.Priority)

	// External and mailto links are filtered.
	assert.NotContains(t, byURL, "https://other.example.org/external")
	for u := range byURL {
		assert.NotContains(t, u, "mailto")
	}
}

func TestGenericSelector_FallbackDiscoversNonSemanticLinks(t *testing.T) {
	t.Parallel()

	html := `<html><body>
<div class="grid"><a href="/docs/hidden">Hidden</a></div>
<div class="grid"><a href="/blog/outside">Outside</a></div>
</body></html>`

	s := goquery.NewGenericSelector()

	links, err := s.ExtractLinks(html, "https://example.com/docs/")

	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, "https://example.com/docs/hidden", links[0].URL)
	assert.Equal(t, toolkit.PriorityFallback, links[0].Priority)
}

func TestFrameworkSelector_Docusaurus(t *testing.T) {
	t.Parallel()

	html := `<html><body>
<div class="theme-doc-sidebar-container"><a href="/docs/a">A</a></div>
<article><a href="/docs/b">B</a></article>
</body></html>`

	s := goquery.NewFrameworkSelector(toolkit.FrameworkDocusaurus)
	require.NotNil(t, s)
	assert.Equal(t, "docusaurus", s.Name())

	links, err := s.ExtractLinks(html, "https://example.com/docs/")

	require.NoError(t, err)
	require.Len(t, links, 2)
	assert.Equal(t, toolkit.PriorityNavigation, links[0].Priority)
	assert.Equal(t, toolkit.PriorityContent, links[1].Priority)
}

func TestNewFrameworkSelector_Unknown(t *testing.T) {
	t.Parallel()

	assert.Nil(t, goquery.NewFrameworkSelector(toolkit.FrameworkUnknown))
}

func TestExtractLinks_DeduplicationKeepsHighestPriority(t *testing.T) {
	t.Parallel()

	html := `<html><body>
<main><a href="/docs/a">A in content</a></main>
<nav><a href="/docs/a">A in nav</a></nav>
</body></html>`

	s := goquery.NewGenericSelector()

	links, err := s.ExtractLinks(html, "https://example.com/docs/")

	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, toolkit.PriorityNavigation, links[0].Priority)
}

func TestExtractLinks_FragmentsStripped(t *testing.T) {
	t.Parallel()

	html := `<html><body><nav>
<a href="/docs/a#one">One</a>
<a href="/docs/a#two">Two</a>
</nav></body></html>`

	s := goquery.NewGenericSelector()

	links, err := s.ExtractLinks(html, "https://example.com/docs/")

	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, "https://example.com/docs/a", links[0].URL)
}
