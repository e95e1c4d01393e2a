package mock

import (
	"context"

	"github.com/fwdslsh/toolkit"
)

var _ toolkit.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of toolkit.SitemapService.
type SitemapService struct {
	DiscoverURLsFn func(ctx context.Context, baseURL string, filter *toolkit.URLFilter) ([]string, error)
}

func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *toolkit.URLFilter) ([]string, error) {
	return s.DiscoverURLsFn(ctx, baseURL, filter)
}
