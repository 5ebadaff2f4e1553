// Package reconcile drives add, update, and remove operations against
// the remote indexed store so it matches the current document set, and
// keeps the persisted sync state consistent with exactly the
// operations that completed remotely.
package reconcile

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docsync"
	"github.com/google/uuid"
)

// Reconciler applies a classified document set against the indexed
// store. Processing order per run is additions, then updates, then
// removals: new content becomes searchable as early as possible and a
// removal failure never blocks addition visibility.
//
// State is persisted per document immediately after each operation's
// outcome is known, never batched, so a mid-run crash leaves the state
// consistent with the subset of operations that actually completed.
type Reconciler struct {
	Index  docsync.IndexStore
	States docsync.StateStore

	// TokenCounter, when set, enables the client-side chunk count
	// estimate in the run report.
	TokenCounter docsync.TokenCounter
	ChunkSize    int
	ChunkOverlap int

	// RetryDelays overrides the backoff schedule for remote calls.
	// Nil means DefaultRetryDelays; an empty slice disables retries.
	RetryDelays []time.Duration

	Logger *slog.Logger

	// Now allows tests to control timestamps. Nil means time.Now.
	Now func() time.Time
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressEvent reports progress during reconciliation.
type ProgressEvent struct {
	Type      ProgressType
	Key       string
	Reason    docsync.ChangeReason
	Completed int
	Total     int
	Error     error
}

// ProgressFunc is a callback for reporting reconciliation progress.
type ProgressFunc func(event ProgressEvent)

// Run classifies docs against the persisted state, reconciles the
// differences, and returns the run report. Failures scoped to one
// document never abort the run; only invalid chunk configuration and
// a failure to load state are run-fatal.
func (r *Reconciler) Run(ctx context.Context, docs []*docsync.Document, progress ProgressFunc) (*docsync.RunReport, error) {
	start := r.now()

	// Chunk parameters are validated before any remote call.
	if err := docsync.ValidateChunking(r.chunkSize(), r.chunkOverlap()); err != nil {
		return nil, err
	}

	state, err := r.States.Load(ctx)
	if err != nil {
		return nil, err
	}

	changes := docsync.Classify(docs, state)
	byKey := make(map[string]*docsync.Document, len(docs))
	for _, doc := range docs {
		byKey[doc.Key] = doc
	}

	total := len(changes.Added) + len(changes.Updated) + len(changes.Removed)
	if progress != nil {
		progress(ProgressEvent{Type: ProgressStarted, Total: total})
	}

	report := &docsync.RunReport{
		ID:        uuid.New().String(),
		Timestamp: start.UTC(),
		Skipped:   len(changes.Unchanged),
	}
	completed := 0

	notify := func(key string, reason docsync.ChangeReason, opErr error) {
		completed++
		if progress == nil {
			return
		}
		eventType := ProgressCompleted
		if opErr != nil {
			eventType = ProgressFailed
		}
		progress(ProgressEvent{
			Type:      eventType,
			Key:       key,
			Reason:    reason,
			Completed: completed,
			Total:     total,
			Error:     opErr,
		})
	}

	// Additions first.
	for _, key := range changes.Added {
		err := r.add(ctx, state, byKey[key])
		if err != nil {
			report.Failed++
		} else {
			report.Added++
		}
		notify(key, changes.Decisions[key].Reason, err)
	}

	// Then updates.
	for _, key := range changes.Updated {
		err := r.update(ctx, state, byKey[key])
		if err != nil {
			report.Failed++
		} else {
			report.Updated++
		}
		notify(key, changes.Decisions[key].Reason, err)
	}

	// Removals last.
	for _, key := range changes.Removed {
		err := r.remove(ctx, state, key)
		if err != nil {
			report.Failed++
		} else {
			report.RemovedDetected++
		}
		notify(key, changes.Decisions[key].Reason, err)
	}

	// Run-level metadata reflects the current document set.
	state.LastRun = r.now().UTC()
	state.TotalFiles = len(docs)
	if err := r.States.Save(ctx, state); err != nil {
		return nil, err
	}

	report.TotalFiles = len(docs)
	for _, doc := range docs {
		report.TotalSizeBytes += doc.Size()
	}
	report.EstimatedChunks = r.estimateChunks(ctx, docs)
	report.DurationSeconds = r.now().Sub(start).Seconds()
	report.Status = runStatus(report, total)

	if progress != nil {
		progress(ProgressEvent{Type: ProgressFinished, Completed: completed, Total: total})
	}

	return report, nil
}

// add uploads a new document and records its remote identity. On
// failure no record is written, so the document is retried as "added"
// next run.
func (r *Reconciler) add(ctx context.Context, state *docsync.SyncState, doc *docsync.Document) error {
	remoteID, result := r.upload(ctx, doc)
	if !result.Succeeded() {
		r.logger().Error("upload failed",
			"key", doc.Key,
			"attempts", result.Attempts,
			"error", result.Err,
		)
		return result.Err
	}

	r.upsertRecord(ctx, state, doc, remoteID)
	return nil
}

// update uploads the new content under a new remote ID, then deletes
// the prior remote ID. The delete-after-upload ordering means content
// is never unavailable between versions; a delete failure leaves a
// remote orphan, which is degraded but not fatal.
func (r *Reconciler) update(ctx context.Context, state *docsync.SyncState, doc *docsync.Document) error {
	prior, _ := state.Get(doc.Key)

	remoteID, result := r.upload(ctx, doc)
	if !result.Succeeded() {
		r.logger().Error("upload failed",
			"key", doc.Key,
			"attempts", result.Attempts,
			"error", result.Err,
		)
		return result.Err
	}

	if prior.RemoteID != "" {
		if del := r.delete(ctx, prior.RemoteID); !del.Succeeded() && docsync.ErrorCode(del.Err) != docsync.ENOTFOUND {
			r.logger().Warn("stale remote copy not deleted",
				"key", doc.Key,
				"remote_id", prior.RemoteID,
				"error", del.Err,
			)
		}
	}

	r.upsertRecord(ctx, state, doc, remoteID)
	return nil
}

// remove deletes the remote content and drops the sync record. An
// already-absent remote object counts as success; a transient failure
// keeps the record so the removal is retried next run.
func (r *Reconciler) remove(ctx context.Context, state *docsync.SyncState, key string) error {
	rec, ok := state.Get(key)
	if ok && rec.RemoteID != "" {
		result := r.delete(ctx, rec.RemoteID)
		if !result.Succeeded() && docsync.ErrorCode(result.Err) == docsync.EUNAVAILABLE {
			r.logger().Error("remote delete failed",
				"key", key,
				"remote_id", rec.RemoteID,
				"attempts", result.Attempts,
				"error", result.Err,
			)
			return result.Err
		}
		if !result.Succeeded() && docsync.ErrorCode(result.Err) != docsync.ENOTFOUND {
			r.logger().Warn("remote delete returned permanent error, dropping record",
				"key", key,
				"remote_id", rec.RemoteID,
				"error", result.Err,
			)
		}
	}

	state.Remove(key)
	return r.persist(ctx, state, key)
}

// upsertRecord writes the post-operation record and persists state
// immediately.
func (r *Reconciler) upsertRecord(ctx context.Context, state *docsync.SyncState, doc *docsync.Document, remoteID string) {
	fp := docsync.NewFingerprint(doc)
	state.Upsert(doc.Key, docsync.SyncRecord{
		RemoteID:     remoteID,
		Hash:         fp.Hash,
		LastModified: fp.LastModified,
		LastSync:     r.now().UTC(),
		Size:         fp.Size,
	})
	_ = r.persist(ctx, state, doc.Key)
}

// persist saves the state after a single document outcome. A save
// failure is logged but does not fail the document operation: the
// remote outcome already happened and the next run re-derives the
// difference from content hashes.
func (r *Reconciler) persist(ctx context.Context, state *docsync.SyncState, key string) error {
	if err := r.States.Save(ctx, state); err != nil {
		r.logger().Error("state save failed", "key", key, "error", err)
	}
	return nil
}

func (r *Reconciler) upload(ctx context.Context, doc *docsync.Document) (string, RetryResult) {
	var remoteID string
	result := Retry(ctx, r.retryDelays(), func(ctx context.Context) error {
		id, err := r.Index.Upload(ctx, doc.Key, []byte(doc.Content))
		if err != nil {
			return err
		}
		remoteID = id
		return nil
	})
	return remoteID, result
}

func (r *Reconciler) delete(ctx context.Context, remoteID string) RetryResult {
	return Retry(ctx, r.retryDelays(), func(ctx context.Context) error {
		return r.Index.Delete(ctx, remoteID)
	})
}

// estimateChunks sums the client-side chunk estimate over the corpus.
// Token counting failures degrade the estimate rather than failing
// the run; the authoritative count lives with the remote store anyway.
func (r *Reconciler) estimateChunks(ctx context.Context, docs []*docsync.Document) int {
	if r.TokenCounter == nil {
		return 0
	}

	var total int
	for _, doc := range docs {
		tokens, err := r.TokenCounter.CountTokens(ctx, doc.Content)
		if err != nil {
			r.logger().Warn("token count failed", "key", doc.Key, "error", err)
			continue
		}
		chunks, err := docsync.EstimateChunks(tokens, r.chunkSize(), r.chunkOverlap())
		if err != nil {
			continue
		}
		total += chunks
	}
	return total
}

// runStatus derives the run-level status: error when every attempted
// operation failed, partial when some failed, success otherwise.
func runStatus(report *docsync.RunReport, total int) string {
	switch {
	case report.Failed > 0 && report.Failed == total:
		return docsync.StatusError
	case report.Failed > 0:
		return docsync.StatusPartial
	default:
		return docsync.StatusSuccess
	}
}

func (r *Reconciler) retryDelays() []time.Duration {
	if r.RetryDelays == nil {
		return DefaultRetryDelays()
	}
	return r.RetryDelays
}

func (r *Reconciler) chunkSize() int {
	if r.ChunkSize == 0 {
		return docsync.DefaultChunkSize
	}
	return r.ChunkSize
}

func (r *Reconciler) chunkOverlap() int {
	if r.ChunkOverlap == 0 && r.ChunkSize == 0 {
		return docsync.DefaultChunkOverlap
	}
	return r.ChunkOverlap
}

func (r *Reconciler) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

func (r *Reconciler) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}
