package crawl

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/fwdslsh/toolkit"
)

// Frontier sizing for recursive crawling.
const (
	// frontierExpectedURLs sizes the Bloom filter.
	frontierExpectedURLs = 10000
	// frontierFalsePositiveRate is the acceptable dedup false positive rate.
	frontierFalsePositiveRate = 0.01
)

// walkProcessor fetches and processes a single frontier link.
type walkProcessor func(ctx context.Context, link toolkit.DiscoveredLink) pageResult

// walkHandler consumes a completed result. It runs on the coordinator
// goroutine, so it may touch shared state without locking. Implementations
// are responsible for pushing scoped discovered links back onto the frontier.
type walkHandler func(res *pageResult, frontier *Frontier, source *url.URL, pathPrefix string, filter *toolkit.URLFilter)

// walkFrontier drives a bounded worker pool over a priority frontier seeded
// with sourceURL. Workers call process for each dispatched link; the
// coordinator calls handle for each result and refills the frontier from
// the links the handler pushes. The walk stops when the frontier drains,
// the page cap is reached, or the context is canceled.
func (c *Crawler) walkFrontier(
	ctx context.Context,
	sourceURL string,
	filter *toolkit.URLFilter,
	process walkProcessor,
	handle walkHandler,
) error {
	source, err := url.Parse(sourceURL)
	if err != nil {
		return fmt.Errorf("invalid source URL: %w", err)
	}
	pathPrefix := source.Path

	frontier := NewFrontier(frontierExpectedURLs, frontierFalsePositiveRate)
	frontier.Push(toolkit.DiscoveredLink{
		URL:      sourceURL,
		Priority: toolkit.PriorityNavigation,
	})

	concurrency := c.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	maxPages := c.MaxPages
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}

	workCh := make(chan toolkit.DiscoveredLink, concurrency)
	resultCh := make(chan pageResult)

	done := make(chan struct{})
	workers := concurrency
	workerDone := make(chan struct{}, workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer func() { workerDone <- struct{}{} }()
			for link := range workCh {
				res := process(ctx, link)
				select {
				case resultCh <- res:
				case <-ctx.Done():
					return
				}
			}
		}()
	}
	go func() {
		for i := 0; i < workers; i++ {
			<-workerDone
		}
		close(done)
	}()

	dispatched := 0 // links handed to workers
	inFlight := 0   // links dispatched but not yet handled
	var next *toolkit.DiscoveredLink
	if link, ok := frontier.Pop(); ok {
		next = &link
	}

coordinator:
	for {
		if next == nil && inFlight == 0 {
			break
		}
		if ctx.Err() != nil {
			break
		}

		if next != nil && dispatched < maxPages {
			select {
			case <-ctx.Done():
				break coordinator
			case workCh <- *next:
				dispatched++
				inFlight++
				next = nil
			case res := <-resultCh:
				inFlight--
				handle(&res, frontier, source, pathPrefix, filter)
			}
		} else {
			select {
			case <-ctx.Done():
				break coordinator
			case res := <-resultCh:
				inFlight--
				handle(&res, frontier, source, pathPrefix, filter)
			}
		}

		if next == nil && dispatched < maxPages {
			if link, ok := frontier.Pop(); ok {
				next = &link
			}
		}
	}

	close(workCh)

	// Drain stragglers so in-flight work is not silently dropped.
	drainTimeout := time.After(5 * time.Second)
	for inFlight > 0 {
		select {
		case res := <-resultCh:
			inFlight--
			handle(&res, frontier, source, pathPrefix, filter)
		case <-done:
			return nil
		case <-drainTimeout:
			return nil
		}
	}

	return nil
}

// recursiveCrawl follows links from sourceURL when sitemap discovery yields
// nothing, scoped to the source URL's host and path prefix.
func (c *Crawler) recursiveCrawl(ctx context.Context, sourceURL string, filter *toolkit.URLFilter, progress ProgressFunc) (*Result, error) {
	var result Result
	completed := 0

	handle := func(res *pageResult, frontier *Frontier, source *url.URL, pathPrefix string, filter *toolkit.URLFilter) {
		pushScopedLinks(frontier, res.discovered, source, pathPrefix, filter)

		completed++
		if res.err != nil {
			result.Failed++
			if progress != nil {
				progress(ProgressEvent{
					Type:      ProgressFailed,
					Completed: completed,
					URL:       res.url,
					Error:     res.err,
				})
			}
			return
		}

		c.storePage(ctx, sourceURL, res, &result, progress)
		if progress != nil {
			progress(ProgressEvent{
				Type:      ProgressCompleted,
				Completed: completed,
				URL:       res.url,
			})
		}
	}

	if err := c.walkFrontier(ctx, sourceURL, filter, c.processLink, handle); err != nil {
		return nil, err
	}

	if progress != nil {
		progress(ProgressEvent{Type: ProgressFinished})
	}
	return &result, nil
}

// processLink fetches a frontier link, extracts outbound links for the
// coordinator to scope, and runs the content pipeline.
func (c *Crawler) processLink(ctx context.Context, link toolkit.DiscoveredLink) pageResult {
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

// pushScopedLinks pushes discovered links that stay on the source host,
// under the source path prefix, and pass the URL filter.
func pushScopedLinks(frontier *Frontier, links []toolkit.DiscoveredLink, source *url.URL, pathPrefix string, filter *toolkit.URLFilter) {
	for _, link := range links {
		u, err := url.Parse(link.URL)
		if err != nil {
			continue
		}
		if u.Host != source.Host {
			continue
		}
		if !strings.HasPrefix(u.Path, pathPrefix) {
			continue
		}
		if filter != nil && !filter.Match(link.URL) {
			continue
		}
		frontier.Push(link)
	}
}
