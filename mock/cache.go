package mock

import (
	"context"

	"github.com/fwdslsh/toolkit"
)

var _ toolkit.PageCache = (*PageCache)(nil)

// PageCache is a mock implementation of toolkit.PageCache.
type PageCache struct {
	UpsertPageFn          func(ctx context.Context, page *toolkit.CachedPage) error
	FindPageByURLFn       func(ctx context.Context, url string) (*toolkit.CachedPage, error)
	FindPagesFn           func(ctx context.Context, filter toolkit.CachedPageFilter) ([]*toolkit.CachedPage, error)
	DeletePagesBySourceFn func(ctx context.Context, sourceURL string) error
}

func (c *PageCache) UpsertPage(ctx context.Context, page *toolkit.CachedPage) error {
	return c.UpsertPageFn(ctx, page)
}

func (c *PageCache) FindPageByURL(ctx context.Context, url string) (*toolkit.CachedPage, error) {
	return c.FindPageByURLFn(ctx, url)
}

func (c *PageCache) FindPages(ctx context.Context, filter toolkit.CachedPageFilter) ([]*toolkit.CachedPage, error) {
	return c.FindPagesFn(ctx, filter)
}

func (c *PageCache) DeletePagesBySource(ctx context.Context, sourceURL string) error {
	return c.DeletePagesBySourceFn(ctx, sourceURL)
}

var _ toolkit.CrawlLog = (*CrawlLog)(nil)

// CrawlLog is a mock implementation of toolkit.CrawlLog.
type CrawlLog struct {
	CreateCrawlFn func(ctx context.Context, crawl *toolkit.Crawl) error
	FinishCrawlFn func(ctx context.Context, id string, upd toolkit.CrawlUpdate) (*toolkit.Crawl, error)
	FindCrawlsFn  func(ctx context.Context, sourceURL string, limit int) ([]*toolkit.Crawl, error)
}

func (l *CrawlLog) CreateCrawl(ctx context.Context, crawl *toolkit.Crawl) error {
	return l.CreateCrawlFn(ctx, crawl)
}

func (l *CrawlLog) FinishCrawl(ctx context.Context, id string, upd toolkit.CrawlUpdate) (*toolkit.Crawl, error) {
	return l.FinishCrawlFn(ctx, id, upd)
}

func (l *CrawlLog) FindCrawls(ctx context.Context, sourceURL string, limit int) ([]*toolkit.Crawl, error) {
	return l.FindCrawlsFn(ctx, sourceURL, limit)
}
