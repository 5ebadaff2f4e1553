package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docsync"
)

// Ensure LoggingStateStore implements docsync.StateStore.
var _ docsync.StateStore = (*LoggingStateStore)(nil)

// LoggingStateStore wraps a StateStore with load/save logging.
type LoggingStateStore struct {
	next   docsync.StateStore
	logger *slog.Logger
}

// NewLoggingStateStore creates a new LoggingStateStore.
func NewLoggingStateStore(next docsync.StateStore, logger *slog.Logger) *LoggingStateStore {
	return &LoggingStateStore{next: next, logger: logger}
}

// Load delegates to the wrapped store and logs the operation.
func (s *LoggingStateStore) Load(ctx context.Context) (state *docsync.SyncState, err error) {
	defer func(begin time.Time) {
		files := 0
		if state != nil {
			files = len(state.Files)
		}
		s.logger.Info("state load",
			"files", files,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Load(ctx)
}

// Save delegates to the wrapped store and logs the operation.
func (s *LoggingStateStore) Save(ctx context.Context, state *docsync.SyncState) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("state save",
			"files", len(state.Files),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Save(ctx, state)
}
