package slog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/fwdslsh/toolkit"
	"github.com/fwdslsh/toolkit/mock"
	toolkitslog "github.com/fwdslsh/toolkit/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingSitemapService_DiscoverURLs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	inner := &mock.SitemapService{
		DiscoverURLsFn: func(ctx context.Context, baseURL string, filter *toolkit.URLFilter) ([]string, error) {
			return []string{"https://example.com/a", "https://example.com/b"}, nil
		},
	}

	svc := toolkitslog.NewLoggingSitemapService(inner, logger)
	urls, err := svc.DiscoverURLs(context.Background(), "https://example.com", nil)

	require.NoError(t, err)
	assert.Len(t, urls, 2)

	output := buf.String()
	assert.Contains(t, output, "sitemap discovery")
	assert.Contains(t, output, "url=https://example.com")
	assert.Contains(t, output, "count=2")
}
