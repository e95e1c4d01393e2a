package mock

import (
	"context"

	"github.com/fwdslsh/toolkit"
)

var _ toolkit.HistoryService = (*HistoryService)(nil)

// HistoryService is a mock implementation of toolkit.HistoryService.
type HistoryService struct {
	IsRepositoryFn   func(ctx context.Context) bool
	StagedDiffFn     func(ctx context.Context) (string, error)
	DiffRangeFn      func(ctx context.Context, rng toolkit.RevisionRange) (string, error)
	DiffStatFn       func(ctx context.Context, rng toolkit.RevisionRange) (string, error)
	CommitsInRangeFn func(ctx context.Context, rng toolkit.RevisionRange) ([]*toolkit.Commit, error)
	LatestTagFn      func(ctx context.Context) (string, error)
	CurrentBranchFn  func(ctx context.Context) (string, error)
	CreateCommitFn   func(ctx context.Context, message string, opts toolkit.CommitOptions) error
}

func (s *HistoryService) IsRepository(ctx context.Context) bool {
	return s.IsRepositoryFn(ctx)
}

func (s *HistoryService) StagedDiff(ctx context.Context) (string, error) {
	return s.StagedDiffFn(ctx)
}

func (s *HistoryService) DiffRange(ctx context.Context, rng toolkit.RevisionRange) (string, error) {
	return s.DiffRangeFn(ctx, rng)
}

func (s *HistoryService) DiffStat(ctx context.Context, rng toolkit.RevisionRange) (string, error) {
	return s.DiffStatFn(ctx, rng)
}

func (s *HistoryService) CommitsInRange(ctx context.Context, rng toolkit.RevisionRange) ([]*toolkit.Commit, error) {
	return s.CommitsInRangeFn(ctx, rng)
}

func (s *HistoryService) LatestTag(ctx context.Context) (string, error) {
	return s.LatestTagFn(ctx)
}

func (s *HistoryService) CurrentBranch(ctx context.Context) (string, error) {
	return s.CurrentBranchFn(ctx)
}

func (s *HistoryService) CreateCommit(ctx context.Context, message string, opts toolkit.CommitOptions) error {
	return s.CreateCommitFn(ctx, message, opts)
}
