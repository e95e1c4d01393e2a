package toolkit

import (
	"context"
	"time"
)

// CachedPage is a crawled page recorded in the local crawl cache.
// The cache allows incremental recrawls: pages whose content hash is
// unchanged are not rewritten.
type CachedPage struct {
	ID          string    `json:"id"`
	SourceURL   string    `json:"sourceUrl"` // crawl seed this page belongs to
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	ContentHash string    `json:"contentHash"`
	FetchedAt   time.Time `json:"fetchedAt"`
}

// Validate returns an error if the cached page contains invalid fields.
func (p *CachedPage) Validate() error {
	if p.SourceURL == "" {
		return Errorf(EINVALID, "cached page source URL required")
	}
	if p.URL == "" {
		return Errorf(EINVALID, "cached page URL required")
	}
	return nil
}

// Crawl records a single crawl session and its outcome.
type Crawl struct {
	ID         string    `json:"id"`
	SourceURL  string    `json:"sourceUrl"`
	OutputDir  string    `json:"outputDir"`
	Saved      int       `json:"saved"`
	Failed     int       `json:"failed"`
	Skipped    int       `json:"skipped"`
	Bytes      int       `json:"bytes"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
}

// Validate returns an error if the crawl contains invalid fields.
func (c *Crawl) Validate() error {
	if c.SourceURL == "" {
		return Errorf(EINVALID, "crawl source URL required")
	}
	return nil
}

// CachedPageFilter represents a filter for FindPages.
type CachedPageFilter struct {
	ID        *string `json:"id"`
	SourceURL *string `json:"sourceUrl"`
	URL       *string `json:"url"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// PageCache represents the local crawl cache.
type PageCache interface {
	// UpsertPage creates or replaces the cache record for a page URL.
	UpsertPage(ctx context.Context, page *CachedPage) error

	// FindPageByURL retrieves a cache record by page URL.
	// Returns ENOTFOUND if no record exists.
	FindPageByURL(ctx context.Context, url string) (*CachedPage, error)

	// FindPages retrieves cache records matching the filter.
	FindPages(ctx context.Context, filter CachedPageFilter) ([]*CachedPage, error)

	// DeletePagesBySource removes all cache records for a crawl seed.
	DeletePagesBySource(ctx context.Context, sourceURL string) error
}

// CrawlLog records crawl sessions.
type CrawlLog interface {
	// CreateCrawl records a new crawl session.
	CreateCrawl(ctx context.Context, crawl *Crawl) error

	// FinishCrawl updates the stats and finish time of a crawl session.
	// Returns ENOTFOUND if the crawl does not exist.
	FinishCrawl(ctx context.Context, id string, upd CrawlUpdate) (*Crawl, error)

	// FindCrawls retrieves recent crawl sessions, newest first.
	FindCrawls(ctx context.Context, sourceURL string, limit int) ([]*Crawl, error)
}

// CrawlUpdate represents fields recorded when a crawl session finishes.
type CrawlUpdate struct {
	Saved      int       `json:"saved"`
	Failed     int       `json:"failed"`
	Skipped    int       `json:"skipped"`
	Bytes      int       `json:"bytes"`
	FinishedAt time.Time `json:"finishedAt"`
}
