package docsync

import "context"

// IndexStore is the remote indexed store the corpus is reconciled
// against. Implementations distinguish transient failures (code
// EUNAVAILABLE, safe to retry) from permanent ones so the reconciler
// can decide whether to retry.
type IndexStore interface {
	// Upload stores the document body under the given key and
	// returns the opaque remote ID assigned by the store.
	Upload(ctx context.Context, key string, body []byte) (remoteID string, err error)

	// Delete removes previously uploaded content by remote ID.
	// Returns ENOTFOUND if the remote object is already absent;
	// callers treat that as success where removal is idempotent.
	Delete(ctx context.Context, remoteID string) error
}

// IndexProvisioner creates a new indexed store configured for a
// chunking policy. A one-time bootstrap concern, kept separate from
// IndexStore so the sync path never depends on it.
type IndexProvisioner interface {
	// CreateIndex creates the store and returns its ID.
	CreateIndex(ctx context.Context, name string, chunkSize, chunkOverlap int) (string, error)
}
