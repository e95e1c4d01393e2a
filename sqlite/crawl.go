package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/fwdslsh/toolkit"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ toolkit.CrawlLog = (*CrawlLogService)(nil)

// CrawlLogService implements toolkit.CrawlLog using SQLite.
type CrawlLogService struct {
	db *DB
}

// NewCrawlLogService creates a new CrawlLogService.
func NewCrawlLogService(db *DB) *CrawlLogService {
	return &CrawlLogService{db: db}
}

// CreateCrawl records a new crawl session.
func (s *CrawlLogService) CreateCrawl(ctx context.Context, crawl *toolkit.Crawl) error {
	if err := crawl.Validate(); err != nil {
		return err
	}

	crawl.ID = uuid.New().String()
	if crawl.StartedAt.IsZero() {
		crawl.StartedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO crawls (id, source_url, output_dir, saved, failed, skipped, bytes, started_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, crawl.ID, crawl.SourceURL, crawl.OutputDir, crawl.Saved, crawl.Failed,
		crawl.Skipped, crawl.Bytes, crawl.StartedAt.Format(time.RFC3339))

	return err
}

// FinishCrawl updates the stats and finish time of a crawl session.
func (s *CrawlLogService) FinishCrawl(ctx context.Context, id string, upd toolkit.CrawlUpdate) (*toolkit.Crawl, error) {
	finishedAt := upd.FinishedAt
	if finishedAt.IsZero() {
		finishedAt = time.Now().UTC()
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE crawls
		SET saved = ?, failed = ?, skipped = ?, bytes = ?, finished_at = ?
		WHERE id = ?
	`, upd.Saved, upd.Failed, upd.Skipped, upd.Bytes, finishedAt.Format(time.RFC3339), id)
	if err != nil {
		return nil, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, toolkit.Errorf(toolkit.ENOTFOUND, "crawl not found")
	}

	return s.findCrawlByID(ctx, id)
}

// FindCrawls retrieves recent crawl sessions, newest first.
// An empty sourceURL matches all crawls.
func (s *CrawlLogService) FindCrawls(ctx context.Context, sourceURL string, limit int) ([]*toolkit.Crawl, error) {
	query := `
		SELECT id, source_url, output_dir, saved, failed, skipped, bytes, started_at, finished_at
		FROM crawls
	`
	var args []any
	if sourceURL != "" {
		query += " WHERE source_url = ?"
		args = append(args, sourceURL)
	}
	query += " ORDER BY started_at DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var crawls []*toolkit.Crawl
	for rows.Next() {
		crawl, err := scanCrawl(rows.Scan)
		if err != nil {
			return nil, err
		}
		crawls = append(crawls, crawl)
	}

	return crawls, rows.Err()
}

func (s *CrawlLogService) findCrawlByID(ctx context.Context, id string) (*toolkit.Crawl, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, source_url, output_dir, saved, failed, skipped, bytes, started_at, finished_at
		FROM crawls
		WHERE id = ?
	`, id)

	crawl, err := scanCrawl(row.Scan)
	if err == sql.ErrNoRows {
		return nil, toolkit.Errorf(toolkit.ENOTFOUND, "crawl not found")
	}
	if err != nil {
		return nil, err
	}
	return crawl, nil
}

// scanCrawl scans a crawl row using the given Scan function.
func scanCrawl(scan func(dest ...any) error) (*toolkit.Crawl, error) {
	var crawl toolkit.Crawl
	var startedAt string
	var finishedAt sql.NullString

	if err := scan(&crawl.ID, &crawl.SourceURL, &crawl.OutputDir, &crawl.Saved,
		&crawl.Failed, &crawl.Skipped, &crawl.Bytes, &startedAt, &finishedAt); err != nil {
		return nil, err
	}

	var err error
	crawl.StartedAt, err = parseRFC3339(startedAt, "started_at")
	if err != nil {
		return nil, err
	}
	if finishedAt.Valid {
		crawl.FinishedAt, err = parseRFC3339(finishedAt.String, "finished_at")
		if err != nil {
			return nil, err
		}
	}

	return &crawl, nil
}
