package reconcile_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/fwojciec/docsync"
	"github.com/fwojciec/docsync/mock"
	"github.com/fwojciec/docsync/reconcile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryStateStore keeps sync state in memory and snapshots every
// save, so tests can assert what would be on disk after a crash at
// any point in the run.
type memoryStateStore struct {
	state     *docsync.SyncState
	snapshots []*docsync.SyncState
}

func newMemoryStateStore() *memoryStateStore {
	return &memoryStateStore{state: docsync.NewSyncState()}
}

func (s *memoryStateStore) Load(ctx context.Context) (*docsync.SyncState, error) {
	return s.state, nil
}

func (s *memoryStateStore) Save(ctx context.Context, state *docsync.SyncState) error {
	snapshot := docsync.NewSyncState()
	for k, rec := range state.Files {
		snapshot.Upsert(k, rec)
	}
	snapshot.LastRun = state.LastRun
	snapshot.TotalFiles = state.TotalFiles
	s.snapshots = append(s.snapshots, snapshot)
	s.state = state
	return nil
}

func testDoc(key, content string) *docsync.Document {
	return &docsync.Document{
		Key:       key,
		Content:   content,
		SourceURL: "https://support.example.com/hc/en-us/articles/" + key,
	}
}

// countingIndex is a minimal in-memory index store that assigns
// sequential remote IDs and records deletes.
type countingIndex struct {
	uploads int
	deleted []string
}

func (ci *countingIndex) store() *mock.IndexStore {
	return &mock.IndexStore{
		UploadFn: func(ctx context.Context, key string, body []byte) (string, error) {
			ci.uploads++
			return fmt.Sprintf("file-%d", ci.uploads), nil
		},
		DeleteFn: func(ctx context.Context, remoteID string) error {
			ci.deleted = append(ci.deleted, remoteID)
			return nil
		},
	}
}

func TestReconciler_FirstRunAddsEverything(t *testing.T) {
	t.Parallel()

	// Given an empty prior state and three documents
	states := newMemoryStateStore()
	index := &countingIndex{}
	r := &reconcile.Reconciler{
		Index:       index.store(),
		States:      states,
		RetryDelays: noDelays,
	}

	docs := []*docsync.Document{
		testDoc("1-a.md", "# A"),
		testDoc("2-b.md", "# B"),
		testDoc("3-c.md", "# C"),
	}

	report, err := r.Run(context.Background(), docs, nil)

	// Then all three are uploaded and recorded
	require.NoError(t, err)
	assert.Equal(t, 3, report.Added)
	assert.Zero(t, report.Updated)
	assert.Zero(t, report.Skipped)
	assert.Zero(t, report.RemovedDetected)
	assert.Equal(t, docsync.StatusSuccess, report.Status)
	assert.Equal(t, 3, report.TotalFiles)
	assert.Len(t, states.state.Files, 3)

	rec, ok := states.state.Get("1-a.md")
	require.True(t, ok)
	assert.NotEmpty(t, rec.RemoteID)
	assert.Equal(t, docsync.HashContent("# A"), rec.Hash)
}

func TestReconciler_SecondRunIsIdempotent(t *testing.T) {
	t.Parallel()

	states := newMemoryStateStore()
	index := &countingIndex{}
	r := &reconcile.Reconciler{
		Index:       index.store(),
		States:      states,
		RetryDelays: noDelays,
	}
	docs := []*docsync.Document{testDoc("1-a.md", "# A"), testDoc("2-b.md", "# B")}
	ctx := context.Background()

	_, err := r.Run(ctx, docs, nil)
	require.NoError(t, err)

	// An unchanged document set yields zero operations.
	report, err := r.Run(ctx, docs, nil)

	require.NoError(t, err)
	assert.Zero(t, report.Added)
	assert.Zero(t, report.Updated)
	assert.Zero(t, report.RemovedDetected)
	assert.Equal(t, 2, report.Skipped)
	assert.Equal(t, 2, index.uploads, "no new uploads on second run")
}

func TestReconciler_UpdateReplacesRemoteCopy(t *testing.T) {
	t.Parallel()

	states := newMemoryStateStore()
	index := &countingIndex{}
	r := &reconcile.Reconciler{
		Index:       index.store(),
		States:      states,
		RetryDelays: noDelays,
	}
	ctx := context.Background()

	docs := []*docsync.Document{
		testDoc("1-a.md", "# A v1"),
		testDoc("2-b.md", "# B"),
		testDoc("3-c.md", "# C"),
	}
	_, err := r.Run(ctx, docs, nil)
	require.NoError(t, err)

	oldRec, _ := states.state.Get("1-a.md")

	// When one document's body changes
	docs[0] = testDoc("1-a.md", "# A v2")
	report, err := r.Run(ctx, docs, nil)

	require.NoError(t, err)
	assert.Equal(t, 1, report.Updated)
	assert.Equal(t, 2, report.Skipped)

	newRec, _ := states.state.Get("1-a.md")
	assert.NotEqual(t, oldRec.RemoteID, newRec.RemoteID, "update assigns a new remote ID")
	assert.Equal(t, docsync.HashContent("# A v2"), newRec.Hash)
	assert.Contains(t, index.deleted, oldRec.RemoteID, "prior remote copy is deleted")
}

func TestReconciler_RemovedDocument(t *testing.T) {
	t.Parallel()

	states := newMemoryStateStore()
	index := &countingIndex{}
	r := &reconcile.Reconciler{
		Index:       index.store(),
		States:      states,
		RetryDelays: noDelays,
	}
	ctx := context.Background()

	_, err := r.Run(ctx, []*docsync.Document{testDoc("1-a.md", "# A"), testDoc("2-b.md", "# B")}, nil)
	require.NoError(t, err)
	removedRec, _ := states.state.Get("2-b.md")

	// When a key disappears from the current document set
	report, err := r.Run(ctx, []*docsync.Document{testDoc("1-a.md", "# A")}, nil)

	require.NoError(t, err)
	assert.Equal(t, 1, report.RemovedDetected)
	_, ok := states.state.Get("2-b.md")
	assert.False(t, ok, "sync record is dropped")
	assert.Contains(t, index.deleted, removedRec.RemoteID)
}

func TestReconciler_RemovalTreatsNotFoundAsSuccess(t *testing.T) {
	t.Parallel()

	states := newMemoryStateStore()
	states.state.Upsert("1-a.md", docsync.SyncRecord{RemoteID: "file-gone", Hash: "x"})

	r := &reconcile.Reconciler{
		Index: &mock.IndexStore{
			UploadFn: func(ctx context.Context, key string, body []byte) (string, error) {
				t.Fatal("no uploads expected")
				return "", nil
			},
			DeleteFn: func(ctx context.Context, remoteID string) error {
				return docsync.Errorf(docsync.ENOTFOUND, "file %q not found", remoteID)
			},
		},
		States:      states,
		RetryDelays: noDelays,
	}

	report, err := r.Run(context.Background(), nil, nil)

	require.NoError(t, err)
	assert.Equal(t, 1, report.RemovedDetected)
	assert.Zero(t, report.Failed)
	_, ok := states.state.Get("1-a.md")
	assert.False(t, ok)
}

func TestReconciler_UploadFailureLeavesNoRecord(t *testing.T) {
	t.Parallel()

	states := newMemoryStateStore()
	r := &reconcile.Reconciler{
		Index: &mock.IndexStore{
			UploadFn: func(ctx context.Context, key string, body []byte) (string, error) {
				if key == "2-b.md" {
					return "", docsync.Errorf(docsync.EUNAVAILABLE, "upstream timeout")
				}
				return "file-" + key, nil
			},
			DeleteFn: func(ctx context.Context, remoteID string) error { return nil },
		},
		States:      states,
		RetryDelays: noDelays,
	}

	docs := []*docsync.Document{testDoc("1-a.md", "# A"), testDoc("2-b.md", "# B"), testDoc("3-c.md", "# C")}
	report, err := r.Run(context.Background(), docs, nil)

	require.NoError(t, err, "per-document failures never abort the run")
	assert.Equal(t, 2, report.Added)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, docsync.StatusPartial, report.Status)

	// The failed document has no record, so the next run retries it
	// as added.
	_, ok := states.state.Get("2-b.md")
	assert.False(t, ok)
	_, ok = states.state.Get("1-a.md")
	assert.True(t, ok)
}

func TestReconciler_UpdateDeleteFailureIsNotFatal(t *testing.T) {
	t.Parallel()

	states := newMemoryStateStore()
	states.state.Upsert("1-a.md", docsync.SyncRecord{
		RemoteID: "file-old",
		Hash:     docsync.HashContent("# A v1"),
	})

	r := &reconcile.Reconciler{
		Index: &mock.IndexStore{
			UploadFn: func(ctx context.Context, key string, body []byte) (string, error) {
				return "file-new", nil
			},
			DeleteFn: func(ctx context.Context, remoteID string) error {
				return docsync.Errorf(docsync.EUNAVAILABLE, "delete timeout")
			},
		},
		States:      states,
		RetryDelays: noDelays,
	}

	report, err := r.Run(context.Background(), []*docsync.Document{testDoc("1-a.md", "# A v2")}, nil)

	// The stale remote copy becomes an orphan; the update succeeds.
	require.NoError(t, err)
	assert.Equal(t, 1, report.Updated)
	assert.Zero(t, report.Failed)
	rec, _ := states.state.Get("1-a.md")
	assert.Equal(t, "file-new", rec.RemoteID)
}

func TestReconciler_CrashSafetyStatePersistedPerDocument(t *testing.T) {
	t.Parallel()

	states := newMemoryStateStore()
	index := &countingIndex{}
	r := &reconcile.Reconciler{
		Index:       index.store(),
		States:      states,
		RetryDelays: noDelays,
	}

	docs := []*docsync.Document{testDoc("1-a.md", "# A"), testDoc("2-b.md", "# B"), testDoc("3-c.md", "# C")}
	_, err := r.Run(context.Background(), docs, nil)
	require.NoError(t, err)

	// One snapshot per document outcome plus the final metadata save.
	require.Len(t, states.snapshots, 4)
	assert.Len(t, states.snapshots[0].Files, 1, "first save reflects exactly one completed upload")
	assert.Len(t, states.snapshots[1].Files, 2)
	assert.Len(t, states.snapshots[2].Files, 3)
}

func TestReconciler_TransientStateSaveFailureDoesNotFailDocument(t *testing.T) {
	t.Parallel()

	// A per-document save failure after a successful upload is not a
	// document failure: the record lives on in memory and the final
	// end-of-run save persists it.
	states := newMemoryStateStore()
	saves := 0
	flaky := &mock.StateStore{
		LoadFn: states.Load,
		SaveFn: func(ctx context.Context, state *docsync.SyncState) error {
			saves++
			if saves == 1 {
				return docsync.Errorf(docsync.EUNAVAILABLE, "disk busy")
			}
			return states.Save(ctx, state)
		},
	}

	index := &countingIndex{}
	r := &reconcile.Reconciler{
		Index:       index.store(),
		States:      flaky,
		RetryDelays: noDelays,
	}

	report, err := r.Run(context.Background(), []*docsync.Document{testDoc("1-a.md", "# A")}, nil)

	require.NoError(t, err)
	assert.Equal(t, 1, report.Added)
	assert.Zero(t, report.Failed)
	assert.Equal(t, docsync.StatusSuccess, report.Status)

	// The final save carried the record the mid-run save dropped.
	rec, ok := states.state.Get("1-a.md")
	require.True(t, ok)
	assert.Equal(t, "file-1", rec.RemoteID)
}

func TestReconciler_AllOperationsFailedIsRunError(t *testing.T) {
	t.Parallel()

	states := newMemoryStateStore()
	r := &reconcile.Reconciler{
		Index: &mock.IndexStore{
			UploadFn: func(ctx context.Context, key string, body []byte) (string, error) {
				return "", docsync.Errorf(docsync.EUNAVAILABLE, "down")
			},
			DeleteFn: func(ctx context.Context, remoteID string) error { return nil },
		},
		States:      states,
		RetryDelays: noDelays,
	}

	report, err := r.Run(context.Background(), []*docsync.Document{testDoc("1-a.md", "# A")}, nil)

	require.NoError(t, err)
	assert.Equal(t, docsync.StatusError, report.Status)
	assert.Equal(t, 1, report.Failed)
}

func TestReconciler_InvalidChunkConfigAbortsBeforeRemoteCalls(t *testing.T) {
	t.Parallel()

	var uploads int
	r := &reconcile.Reconciler{
		Index: &mock.IndexStore{
			UploadFn: func(ctx context.Context, key string, body []byte) (string, error) {
				uploads++
				return "file-1", nil
			},
			DeleteFn: func(ctx context.Context, remoteID string) error { return nil },
		},
		States:       newMemoryStateStore(),
		ChunkSize:    200,
		ChunkOverlap: 800,
		RetryDelays:  noDelays,
	}

	_, err := r.Run(context.Background(), []*docsync.Document{testDoc("1-a.md", "# A")}, nil)

	require.Error(t, err)
	assert.Equal(t, docsync.EINVALID, docsync.ErrorCode(err))
	assert.Zero(t, uploads)
}

func TestReconciler_ChunkEstimateInReport(t *testing.T) {
	t.Parallel()

	states := newMemoryStateStore()
	index := &countingIndex{}
	r := &reconcile.Reconciler{
		Index:  index.store(),
		States: states,
		TokenCounter: &mock.TokenCounter{
			CountTokensFn: func(ctx context.Context, text string) (int, error) {
				return 1000, nil
			},
		},
		ChunkSize:    800,
		ChunkOverlap: 200,
		RetryDelays:  noDelays,
	}

	docs := []*docsync.Document{testDoc("1-a.md", "# A"), testDoc("2-b.md", "# B")}
	report, err := r.Run(context.Background(), docs, nil)

	require.NoError(t, err)
	// ceil((1000-800)/600) + 1 = 2 chunks per document
	assert.Equal(t, 4, report.EstimatedChunks)
}

func TestReconciler_ProgressEvents(t *testing.T) {
	t.Parallel()

	states := newMemoryStateStore()
	states.state.Upsert("9-gone.md", docsync.SyncRecord{RemoteID: "file-9", Hash: "x"})
	index := &countingIndex{}
	r := &reconcile.Reconciler{
		Index:       index.store(),
		States:      states,
		RetryDelays: noDelays,
	}

	var events []reconcile.ProgressEvent
	_, err := r.Run(context.Background(), []*docsync.Document{testDoc("1-a.md", "# A")}, func(e reconcile.ProgressEvent) {
		events = append(events, e)
	})

	require.NoError(t, err)
	require.Len(t, events, 4, "started, add, remove, finished")
	assert.Equal(t, reconcile.ProgressStarted, events[0].Type)
	assert.Equal(t, 2, events[0].Total)
	assert.Equal(t, "1-a.md", events[1].Key)
	assert.Equal(t, docsync.ReasonNew, events[1].Reason)
	assert.Equal(t, "9-gone.md", events[2].Key)
	assert.Equal(t, docsync.ReasonMissing, events[2].Reason)
	assert.Equal(t, reconcile.ProgressFinished, events[3].Type)
}

func TestReconciler_ReportTimingUsesClock(t *testing.T) {
	t.Parallel()

	current := time.Date(2025, 3, 1, 6, 0, 0, 0, time.UTC)
	r := &reconcile.Reconciler{
		Index:       (&countingIndex{}).store(),
		States:      newMemoryStateStore(),
		RetryDelays: noDelays,
		Now: func() time.Time {
			now := current
			current = current.Add(2 * time.Second)
			return now
		},
	}

	report, err := r.Run(context.Background(), []*docsync.Document{testDoc("1-a.md", "# A")}, nil)

	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 1, 6, 0, 0, 0, time.UTC), report.Timestamp)
	assert.Greater(t, report.DurationSeconds, 0.0)
}
