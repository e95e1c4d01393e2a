package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/fwdslsh/toolkit"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ toolkit.PageCache = (*PageCacheService)(nil)

// PageCacheService implements toolkit.PageCache using SQLite.
type PageCacheService struct {
	db *DB
}

// NewPageCacheService creates a new PageCacheService.
func NewPageCacheService(db *DB) *PageCacheService {
	return &PageCacheService{db: db}
}

// UpsertPage creates or replaces the cache record for a page URL.
func (s *PageCacheService) UpsertPage(ctx context.Context, page *toolkit.CachedPage) error {
	if err := page.Validate(); err != nil {
		return err
	}

	if page.ID == "" {
		page.ID = uuid.New().String()
	}
	if page.FetchedAt.IsZero() {
		page.FetchedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO pages (id, source_url, url, title, content_hash, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			source_url = excluded.source_url,
			title = excluded.title,
			content_hash = excluded.content_hash,
			fetched_at = excluded.fetched_at
	`, page.ID, page.SourceURL, page.URL, page.Title, page.ContentHash,
		page.FetchedAt.Format(time.RFC3339))

	return err
}

// FindPageByURL retrieves a cache record by page URL.
func (s *PageCacheService) FindPageByURL(ctx context.Context, url string) (*toolkit.CachedPage, error) {
	var page toolkit.CachedPage
	var fetchedAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, source_url, url, title, content_hash, fetched_at
		FROM pages
		WHERE url = ?
	`, url).Scan(&page.ID, &page.SourceURL, &page.URL, &page.Title, &page.ContentHash, &fetchedAt)

	if err == sql.ErrNoRows {
		return nil, toolkit.Errorf(toolkit.ENOTFOUND, "page not found")
	}
	if err != nil {
		return nil, err
	}

	page.FetchedAt, err = parseRFC3339(fetchedAt, "fetched_at")
	if err != nil {
		return nil, err
	}

	return &page, nil
}

// FindPages retrieves cache records matching the filter, newest first.
func (s *PageCacheService) FindPages(ctx context.Context, filter toolkit.CachedPageFilter) ([]*toolkit.CachedPage, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, source_url, url, title, content_hash, fetched_at FROM pages WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.SourceURL != nil {
		query.WriteString(" AND source_url = ?")
		args = append(args, *filter.SourceURL)
	}
	if filter.URL != nil {
		query.WriteString(" AND url = ?")
		args = append(args, *filter.URL)
	}

	query.WriteString(" ORDER BY fetched_at DESC, url ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []*toolkit.CachedPage
	for rows.Next() {
		var page toolkit.CachedPage
		var fetchedAt string

		if err := rows.Scan(&page.ID, &page.SourceURL, &page.URL, &page.Title, &page.ContentHash, &fetchedAt); err != nil {
			return nil, err
		}

		page.FetchedAt, err = parseRFC3339(fetchedAt, "fetched_at")
		if err != nil {
			return nil, err
		}

		pages = append(pages, &page)
	}

	return pages, rows.Err()
}

// DeletePagesBySource removes all cache records for a crawl seed.
func (s *PageCacheService) DeletePagesBySource(ctx context.Context, sourceURL string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM pages WHERE source_url = ?`, sourceURL)
	return err
}
