package docsync_test

import (
	"testing"
	"time"

	"github.com/fwojciec/docsync"
	"github.com/stretchr/testify/assert"
)

func TestSyncState_UpsertIsIdempotent(t *testing.T) {
	t.Parallel()

	state := docsync.NewSyncState()
	rec := docsync.SyncRecord{
		RemoteID: "file-1",
		Hash:     docsync.HashContent("# A"),
		LastSync: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Size:     3,
	}

	state.Upsert("1-a.md", rec)
	state.Upsert("1-a.md", rec)

	got, ok := state.Get("1-a.md")
	assert.True(t, ok)
	assert.Equal(t, rec, got)
	assert.Len(t, state.Files, 1)
}

func TestSyncState_RemoveAbsentKey(t *testing.T) {
	t.Parallel()

	state := docsync.NewSyncState()
	state.Remove("missing.md")

	_, ok := state.Get("missing.md")
	assert.False(t, ok)
}

func TestSyncState_Keys(t *testing.T) {
	t.Parallel()

	state := docsync.NewSyncState()
	state.Upsert("1-a.md", docsync.SyncRecord{RemoteID: "file-1"})
	state.Upsert("2-b.md", docsync.SyncRecord{RemoteID: "file-2"})

	assert.ElementsMatch(t, []string{"1-a.md", "2-b.md"}, state.Keys())
}
