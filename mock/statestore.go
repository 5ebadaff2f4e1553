package mock

import (
	"context"

	"github.com/fwojciec/docsync"
)

var _ docsync.StateStore = (*StateStore)(nil)

// StateStore is a mock implementation of docsync.StateStore.
type StateStore struct {
	LoadFn func(ctx context.Context) (*docsync.SyncState, error)
	SaveFn func(ctx context.Context, state *docsync.SyncState) error
}

func (s *StateStore) Load(ctx context.Context) (*docsync.SyncState, error) {
	return s.LoadFn(ctx)
}

func (s *StateStore) Save(ctx context.Context, state *docsync.SyncState) error {
	return s.SaveFn(ctx, state)
}
