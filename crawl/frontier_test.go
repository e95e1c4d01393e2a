package crawl_test

import (
	"testing"

	"github.com/fwdslsh/toolkit"
	"github.com/fwdslsh/toolkit/crawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrontier_PushPop(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier(100, 0.01)

	assert.True(t, f.Push(toolkit.DiscoveredLink{URL: "https://example.com/a", Priority: toolkit.PriorityContent}))
	assert.True(t, f.Push(toolkit.DiscoveredLink{URL: "https://example.com/b", Priority: toolkit.PriorityNavigation}))
	assert.True(t, f.Push(toolkit.DiscoveredLink{URL: "https://example.com/c", Priority: toolkit.PriorityFooter}))
	assert.Equal(t, 3, f.Len())

	// Highest priority first.
	link, ok := f.Pop()
	require.True(t, ok)
	assert.Equal(t, "https://example.com/b", link.URL)

	link, ok = f.Pop()
	require.True(t, ok)
	assert.Equal(t, "https://example.com/a", link.URL)

	link, ok = f.Pop()
	require.True(t, ok)
	assert.Equal(t, "https://example.com/c", link.URL)

	_, ok = f.Pop()
	assert.False(t, ok)
}

func TestFrontier_Deduplication(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier(100, 0.01)

	assert.True(t, f.Push(toolkit.DiscoveredLink{URL: "https://example.com/a"}))
	assert.False(t, f.Push(toolkit.DiscoveredLink{URL: "https://example.com/a"}))
	assert.Equal(t, 1, f.Len())
}

func TestFrontier_FragmentsAreDuplicates(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier(100, 0.01)

	assert.True(t, f.Push(toolkit.DiscoveredLink{URL: "https://example.com/a#intro"}))
	assert.False(t, f.Push(toolkit.DiscoveredLink{URL: "https://example.com/a#usage"}))
	assert.False(t, f.Push(toolkit.DiscoveredLink{URL: "https://example.com/a"}))

	link, ok := f.Pop()
	require.True(t, ok)
	assert.Equal(t, "https://example.com/a", link.URL)
}

func TestFrontier_Seen(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier(100, 0.01)

	assert.False(t, f.Seen("https://example.com/a"))

	f.Push(toolkit.DiscoveredLink{URL: "https://example.com/a"})

	assert.True(t, f.Seen("https://example.com/a"))
	assert.True(t, f.Seen("https://example.com/a#frag"))

	// Popping does not forget the URL.
	f.Pop()
	assert.True(t, f.Seen("https://example.com/a"))
}
