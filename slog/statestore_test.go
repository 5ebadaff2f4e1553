package slog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/fwojciec/docsync"
	"github.com/fwojciec/docsync/mock"
	docslog "github.com/fwojciec/docsync/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingStateStore_Load(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	inner := &mock.StateStore{
		LoadFn: func(ctx context.Context) (*docsync.SyncState, error) {
			state := docsync.NewSyncState()
			state.Upsert("100-getting-started.md", docsync.SyncRecord{RemoteID: "file-1"})
			return state, nil
		},
	}

	store := docslog.NewLoggingStateStore(inner, logger)
	state, err := store.Load(context.Background())

	require.NoError(t, err)
	require.NotNil(t, state)
	output := buf.String()
	assert.Contains(t, output, "state load")
	assert.Contains(t, output, "files=1")
}

func TestLoggingStateStore_Save(t *testing.T) {
	t.Parallel()

	t.Run("logs file count", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.StateStore{
			SaveFn: func(ctx context.Context, state *docsync.SyncState) error {
				return nil
			},
		}

		store := docslog.NewLoggingStateStore(inner, logger)
		err := store.Save(context.Background(), docsync.NewSyncState())

		require.NoError(t, err)
		output := buf.String()
		assert.Contains(t, output, "state save")
		assert.Contains(t, output, "files=0")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.StateStore{
			SaveFn: func(ctx context.Context, state *docsync.SyncState) error {
				return docsync.Errorf(docsync.EINTERNAL, "disk full")
			},
		}

		store := docslog.NewLoggingStateStore(inner, logger)
		err := store.Save(context.Background(), docsync.NewSyncState())

		require.Error(t, err)
		assert.Contains(t, buf.String(), "disk full")
	})
}
