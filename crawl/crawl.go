// Package crawl orchestrates documentation crawling for inform.
// It coordinates sitemap discovery, fetching, content extraction,
// Markdown conversion, cache-aware skipping, and page storage.
package crawl

import (
	"context"
	"fmt"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/fwdslsh/toolkit"
	"golang.org/x/sync/errgroup"
)

// DefaultMaxPages limits the number of pages processed per crawl
// unless overridden. It prevents runaway crawls on large sites.
const DefaultMaxPages = 1000

// DefaultConcurrency is the worker count used when none is configured.
const DefaultConcurrency = 10

// Crawler orchestrates the crawling of a documentation site.
// All fields except Sitemaps, Fetcher, Extractor, Converter and Store
// are optional.
type Crawler struct {
	Sitemaps      toolkit.SitemapService
	Fetcher       toolkit.Fetcher
	Extractor     toolkit.Extractor
	Converter     toolkit.Converter
	Store         toolkit.PageStore
	Cache         toolkit.PageCache
	TokenCounter  toolkit.TokenCounter
	LinkSelectors toolkit.LinkSelectorRegistry
	RateLimiter   toolkit.DomainLimiter
	Concurrency   int
	MaxPages      int
	Refresh       bool
	RetryDelays   []time.Duration
}

// Result holds the outcome of a crawl.
type Result struct {
	Saved   int
	Skipped int
	Failed  int
	Bytes   int
	Tokens  int
}

// ProgressType indicates the kind of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressSkipped
	ProgressFailed
	ProgressFinished
)

// ProgressEvent reports progress during a crawl.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	URL       string
	Error     error
}

// ProgressFunc receives progress events as crawling proceeds.
type ProgressFunc func(event ProgressEvent)

// pageResult holds the outcome of processing a single URL.
type pageResult struct {
	position   int
	url        string
	title      string
	markdown   string
	hash       string
	discovered []toolkit.DiscoveredLink
	err        error
}

// Crawl crawls all pages reachable from sourceURL and saves them through
// the Store. Sitemap discovery is attempted first; when it yields nothing
// and LinkSelectors and RateLimiter are configured, the crawler falls back
// to recursive link-following scoped to the source URL's path prefix.
//
// The progress callback, if non-nil, receives events as crawling proceeds.
func (c *Crawler) Crawl(ctx context.Context, sourceURL string, filter *toolkit.URLFilter, progress ProgressFunc) (*Result, error) {
	urls, err := c.Sitemaps.DiscoverURLs(ctx, sourceURL, filter)
	if err != nil {
		return nil, fmt.Errorf("sitemap discovery: %w", err)
	}

	if len(urls) == 0 {
		if c.LinkSelectors != nil && c.RateLimiter != nil {
			return c.recursiveCrawl(ctx, sourceURL, filter, progress)
		}
		return &Result{}, nil
	}

	maxPages := c.MaxPages
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	if len(urls) > maxPages {
		urls = urls[:maxPages]
	}

	concurrency := c.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	total := len(urls)
	resultCh := make(chan pageResult, total)
	var completed atomic.Int64

	if progress != nil {
		progress(ProgressEvent{Type: ProgressStarted, Total: total})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for i, u := range urls {
			i, u := i, u
			g.Go(func() error {
				resultCh <- c.processURL(gctx, i, u)
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	// Collect into positional order so output files match sitemap order.
	results := make([]pageResult, total)
	var result Result
	for res := range resultCh {
		completed.Add(1)
		results[res.position] = res

		if res.err != nil {
			result.Failed++
			if progress != nil {
				progress(ProgressEvent{
					Type:      ProgressFailed,
					Completed: int(completed.Load()),
					Total:     total,
					URL:       res.url,
					Error:     res.err,
				})
			}
			continue
		}
		if progress != nil {
			progress(ProgressEvent{
				Type:      ProgressCompleted,
				Completed: int(completed.Load()),
				Total:     total,
				URL:       res.url,
			})
		}
	}

	for _, res := range results {
		if res.err != nil {
			continue
		}
		c.storePage(ctx, sourceURL, &res, &result, progress)
	}

	if progress != nil {
		progress(ProgressEvent{Type: ProgressFinished, Completed: total, Total: total})
	}

	return &result, nil
}

// processURL fetches a single URL and runs it through the content pipeline.
func (c *Crawler) processURL(ctx context.Context, position int, pageURL string) pageResult {
	result := pageResult{position: position, url: pageURL}

	if c.RateLimiter != nil {
		u, err := url.Parse(pageURL)
		if err != nil {
			result.err = err
			return result
		}
		if err := c.RateLimiter.Wait(ctx, u.Host); err != nil {
			result.err = err
			return result
		}
	}

	html, err := c.fetchWithRetry(ctx, pageURL)
	if err != nil {
		result.err = err
		return result
	}

	extracted, err := c.Extractor.Extract(html)
	if err != nil {
		result.err = err
		return result
	}

	markdown, err := c.Converter.Convert(extracted.ContentHTML)
	if err != nil {
		result.err = err
		return result
	}

	result.title = extracted.Title
	result.markdown = markdown
	result.hash = ComputeHash(markdown)
	return result
}

// storePage saves a processed page unless the cache says its content is
// unchanged. Cache misses or errors never fail the page; the cache is an
// optimization, not a source of truth.
func (c *Crawler) storePage(ctx context.Context, sourceURL string, res *pageResult, result *Result, progress ProgressFunc) {
	if c.Cache != nil && !c.Refresh {
		cached, err := c.Cache.FindPageByURL(ctx, res.url)
		if err == nil && cached.ContentHash == res.hash {
			result.Skipped++
			if progress != nil {
				progress(ProgressEvent{Type: ProgressSkipped, URL: res.url})
			}
			return
		}
	}

	page := &toolkit.Page{
		URL:     res.url,
		Title:   res.title,
		Content: res.markdown,
	}
	if err := c.Store.Save(ctx, page); err != nil {
		result.Failed++
		if progress != nil {
			progress(ProgressEvent{Type: ProgressFailed, URL: res.url, Error: err})
		}
		return
	}

	if c.Cache != nil {
		_ = c.Cache.UpsertPage(ctx, &toolkit.CachedPage{
			SourceURL:   sourceURL,
			URL:         res.url,
			Title:       res.title,
			ContentHash: res.hash,
		})
	}

	result.Saved++
	result.Bytes += len(res.markdown)
	if c.TokenCounter != nil {
		if tokens, err := c.TokenCounter.CountTokens(ctx, res.markdown); err == nil {
			result.Tokens += tokens
		}
	}
}

// fetchWithRetry fetches a URL using the configured retry delays.
func (c *Crawler) fetchWithRetry(ctx context.Context, pageURL string) (string, error) {
	delays := c.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	return FetchWithRetryDelays(ctx, pageURL, c.Fetcher.Fetch, nil, delays)
}
