package mock

import (
	"context"

	"github.com/fwdslsh/toolkit"
)

var _ toolkit.PageStore = (*PageStore)(nil)

// PageStore is a mock implementation of toolkit.PageStore.
type PageStore struct {
	SaveFn   func(ctx context.Context, page *toolkit.Page) error
	CommitFn func() error
	AbortFn  func() error
}

func (s *PageStore) Save(ctx context.Context, page *toolkit.Page) error {
	return s.SaveFn(ctx, page)
}

func (s *PageStore) Commit() error {
	if s.CommitFn == nil {
		return nil
	}
	return s.CommitFn()
}

func (s *PageStore) Abort() error {
	if s.AbortFn == nil {
		return nil
	}
	return s.AbortFn()
}
