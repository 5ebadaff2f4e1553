// Package slog provides logging decorators for docsync services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docsync"
)

// Ensure LoggingIndexStore implements docsync.IndexStore.
var _ docsync.IndexStore = (*LoggingIndexStore)(nil)

// LoggingIndexStore wraps an IndexStore and logs every remote
// operation with its key, outcome, and duration.
type LoggingIndexStore struct {
	next   docsync.IndexStore
	logger *slog.Logger
}

// NewLoggingIndexStore creates a new LoggingIndexStore.
func NewLoggingIndexStore(next docsync.IndexStore, logger *slog.Logger) *LoggingIndexStore {
	return &LoggingIndexStore{next: next, logger: logger}
}

// Upload delegates to the wrapped store and logs the operation.
func (s *LoggingIndexStore) Upload(ctx context.Context, key string, body []byte) (remoteID string, err error) {
	defer func(begin time.Time) {
		s.logger.Info("index upload",
			"key", key,
			"bytes", len(body),
			"remote_id", remoteID,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Upload(ctx, key, body)
}

// Delete delegates to the wrapped store and logs the operation.
func (s *LoggingIndexStore) Delete(ctx context.Context, remoteID string) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("index delete",
			"remote_id", remoteID,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Delete(ctx, remoteID)
}
