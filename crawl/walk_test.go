package crawl_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/fwdslsh/toolkit"
	"github.com/fwdslsh/toolkit/crawl"
	"github.com/fwdslsh/toolkit/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// linkedSite serves a small site where each page links to the next.
func linkedSite(base string, n int) map[string]string {
	pages := make(map[string]string)
	for i := 0; i < n; i++ {
		next := fmt.Sprintf(`<a href="%s/p%d">next</a>`, base, i+1)
		if i == n-1 {
			next = ""
		}
		pages[fmt.Sprintf("%s/p%d", base, i)] = "<html><nav>" + next + "</nav></html>"
	}
	return pages
}

func siteCrawler(pages map[string]string, store *memStore) *crawl.Crawler {
	extractor, converter := passthroughPipeline()
	return &crawl.Crawler{
		Sitemaps: &mock.SitemapService{
			DiscoverURLsFn: func(_ context.Context, _ string, _ *toolkit.URLFilter) ([]string, error) {
				return nil, nil // force the recursive fallback
			},
		},
		Fetcher: &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (string, error) {
				html, ok := pages[url]
				if !ok {
					return "", fmt.Errorf("not found: %s", url)
				}
				return html, nil
			},
		},
		Extractor: extractor,
		Converter: converter,
		Store:     store,
		LinkSelectors: &mock.LinkSelectorRegistry{
			GetForHTMLFn: func(_ string) toolkit.LinkSelector {
				return &mock.LinkSelector{
					ExtractLinksFn: func(html, _ string) ([]toolkit.DiscoveredLink, error) {
						// Pull hrefs out with a trivial scan; the real
						// selectors are tested in the goquery package.
						var links []toolkit.DiscoveredLink
						for url := range pages {
							if containsHref(html, url) {
								links = append(links, toolkit.DiscoveredLink{
									URL:      url,
									Priority: toolkit.PriorityNavigation,
								})
							}
						}
						return links, nil
					},
				}
			},
		},
		RateLimiter: &mock.DomainLimiter{},
		Concurrency: 2,
		RetryDelays: []time.Duration{},
	}
}

func containsHref(html, url string) bool {
	return strings.Contains(html, `href="`+url+`"`)
}

func TestCrawler_RecursiveFallback(t *testing.T) {
	t.Parallel()

	base := "https://example.com/docs"
	pages := linkedSite(base, 4)
	store := &memStore{}
	c := siteCrawler(pages, store)

	result, err := c.Crawl(context.Background(), base+"/p0", nil, nil)

	require.NoError(t, err)
	assert.Equal(t, 4, result.Saved)
	assert.Equal(t, 0, result.Failed)
	assert.Len(t, store.pages, 4)
}

func TestCrawler_RecursiveFallback_MaxPages(t *testing.T) {
	t.Parallel()

	base := "https://example.com/docs"
	pages := linkedSite(base, 10)
	store := &memStore{}
	c := siteCrawler(pages, store)
	c.MaxPages = 3

	result, err := c.Crawl(context.Background(), base+"/p0", nil, nil)

	require.NoError(t, err)
	assert.Equal(t, 3, result.Saved)
}

func TestCrawler_RecursiveFallback_ScopeAndFilter(t *testing.T) {
	t.Parallel()

	base := "https://example.com/docs"
	pages := map[string]string{
		base + "/p0": `<html><nav><a href="https://example.com/docs/keep">k</a>` +
			`<a href="https://example.com/docs/skip-me">s</a>` +
			`<a href="https://example.com/blog/out">b</a>` +
			`<a href="https://other.example.org/docs/x">o</a></nav></html>`,
		base + "/keep":    "<html>keep</html>",
		base + "/skip-me": "<html>skip</html>",
	}
	store := &memStore{}
	c := siteCrawler(pages, store)

	filter, err := toolkit.CompileURLFilter(nil, []string{`skip-me`})
	require.NoError(t, err)

	result, err := c.Crawl(context.Background(), base+"/p0", filter, nil)

	require.NoError(t, err)
	// p0 and keep; skip-me excluded by filter, blog and other host out of scope.
	assert.Equal(t, 2, result.Saved)
}

func TestCrawler_DiscoverURLs(t *testing.T) {
	t.Parallel()

	base := "https://example.com/docs"
	pages := linkedSite(base, 3)
	store := &memStore{}
	c := siteCrawler(pages, store)

	urls, err := c.DiscoverURLs(context.Background(), base+"/p0", nil)

	require.NoError(t, err)
	assert.Len(t, urls, 3)
	// Discovery never writes pages.
	assert.Empty(t, store.pages)
}

func TestCrawler_RecursiveFallback_ContextCanceled(t *testing.T) {
	t.Parallel()

	base := "https://example.com/docs"
	pages := linkedSite(base, 100)
	store := &memStore{}
	c := siteCrawler(pages, store)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := c.Crawl(ctx, base+"/p0", nil, nil)

	require.NoError(t, err)
	assert.Equal(t, 0, result.Saved)
}
