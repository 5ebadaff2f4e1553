// Package fs provides file-based persistence for sync state, run
// reports, and the normalized document corpus.
package fs

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fwojciec/docsync"
)

// Ensure StateStore implements docsync.StateStore at compile time.
var _ docsync.StateStore = (*StateStore)(nil)

// StateStore persists sync state as a JSON file. Saves are staged to
// a temporary file and renamed into place so a reader never observes
// a half-written state.
type StateStore struct {
	path   string
	logger *slog.Logger
}

// StateStoreOption configures a StateStore.
type StateStoreOption func(*StateStore)

// WithStateLogger sets the logger used for state recovery warnings.
func WithStateLogger(logger *slog.Logger) StateStoreOption {
	return func(s *StateStore) {
		s.logger = logger
	}
}

// NewStateStore creates a StateStore backed by the given file path.
func NewStateStore(path string, opts ...StateStoreOption) *StateStore {
	s := &StateStore{
		path:   path,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the persisted state. A missing file is a first run and
// returns an empty state. An unreadable or corrupt file is logged as
// a warning and also returns an empty state: the sync must always be
// able to bootstrap from scratch.
func (s *StateStore) Load(ctx context.Context) (*docsync.SyncState, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return docsync.NewSyncState(), nil
	}
	if err != nil {
		s.logger.Warn("sync state unreadable, starting fresh",
			"path", s.path,
			"error", err,
		)
		return docsync.NewSyncState(), nil
	}

	var state docsync.SyncState
	if err := json.Unmarshal(data, &state); err != nil {
		s.logger.Warn("sync state corrupt, starting fresh",
			"path", s.path,
			"error", err,
		)
		return docsync.NewSyncState(), nil
	}

	if state.Files == nil {
		state.Files = make(map[string]docsync.SyncRecord)
	}

	return &state, nil
}

// Save persists the full state atomically: write to a temp file in
// the same directory, then rename over the final path.
func (s *StateStore) Save(ctx context.Context, state *docsync.SyncState) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return err
	}

	return nil
}
