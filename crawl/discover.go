package crawl

import (
	"context"
	"net/url"

	"github.com/fwdslsh/toolkit"
)

// DiscoverURLs recursively discovers page URLs from sourceURL without
// extracting or storing content. It follows the same frontier walk as the
// recursive crawl, scoped to the source URL's host and path prefix, and
// returns the URLs that fetched successfully.
//
// This backs dry-run mode, where the user wants to see what a crawl would
// cover before committing to it.
func (c *Crawler) DiscoverURLs(ctx context.Context, sourceURL string, filter *toolkit.URLFilter) ([]string, error) {
	var urls []string

	process := func(ctx context.Context, link toolkit.DiscoveredLink) pageResult {
		result := pageResult{url: link.URL}

		u, err := url.Parse(link.URL)
		if err != nil {
			result.err = err
			return result
		}
		if err := c.RateLimiter.Wait(ctx, u.Host); err != nil {
			result.err = err
			return result
		}

		html, err := c.fetchWithRetry(ctx, link.URL)
		if err != nil {
			result.err = err
			return result
		}

		selector := c.LinkSelectors.GetForHTML(html)
		if links, err := selector.ExtractLinks(html, link.URL); err == nil {
			result.discovered = links
		}
		return result
	}

	handle := func(res *pageResult, frontier *Frontier, source *url.URL, pathPrefix string, filter *toolkit.URLFilter) {
		pushScopedLinks(frontier, res.discovered, source, pathPrefix, filter)
		if res.err == nil {
			urls = append(urls, res.url)
		}
	}

	if err := c.walkFrontier(ctx, sourceURL, filter, process, handle); err != nil {
		return nil, err
	}
	return urls, nil
}
