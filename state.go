package docsync

import (
	"context"
	"time"
)

// SyncRecord is the persisted per-document record mapping a document
// key to its remote identity and last known fingerprint.
//
// Invariant: RemoteID is set if and only if the document's content is
// currently present in the remote store. A record without a RemoteID
// represents a failed upload and is retried as "added" on the next run.
type SyncRecord struct {
	// RemoteID is the opaque handle assigned by the indexed store
	// on upload, used for later deletion.
	RemoteID string `json:"file_id"`

	// Hash is the content hash at the time of the last upload.
	Hash string `json:"hash"`

	// LastModified is the source timestamp at the time of the last
	// upload, if the source provided one.
	LastModified *time.Time `json:"last_modified,omitempty"`

	// LastSync is when the record was last reconciled.
	LastSync time.Time `json:"last_sync"`

	// Size is the content byte size at the time of the last upload.
	Size int `json:"size"`
}

// SyncState is the single source of truth across runs: a mapping of
// document key to SyncRecord plus run-level metadata. It is mutated
// exclusively by the reconciler and read-only everywhere else.
type SyncState struct {
	Files      map[string]SyncRecord `json:"files"`
	LastRun    time.Time             `json:"last_run"`
	TotalFiles int                   `json:"total_files"`
}

// NewSyncState returns an empty state, the starting point for a
// first run.
func NewSyncState() *SyncState {
	return &SyncState{Files: make(map[string]SyncRecord)}
}

// Get returns the record for key and whether it exists.
func (s *SyncState) Get(key string) (SyncRecord, bool) {
	rec, ok := s.Files[key]
	return rec, ok
}

// Upsert inserts or overwrites the record for key. Calling it
// repeatedly with the same arguments is idempotent.
func (s *SyncState) Upsert(key string, rec SyncRecord) {
	if s.Files == nil {
		s.Files = make(map[string]SyncRecord)
	}
	s.Files[key] = rec
}

// Remove deletes the record for key. Removing an absent key is a no-op.
func (s *SyncState) Remove(key string) {
	delete(s.Files, key)
}

// Keys returns all document keys currently tracked in the state.
func (s *SyncState) Keys() []string {
	keys := make([]string, 0, len(s.Files))
	for k := range s.Files {
		keys = append(keys, k)
	}
	return keys
}

// StateStore loads and persists sync state durably.
type StateStore interface {
	// Load reads the persisted state. If no prior state exists, or
	// the persisted state is unreadable, it returns an empty state;
	// a first run is not an error and a corrupt state file must
	// never prevent bootstrapping a fresh sync.
	Load(ctx context.Context) (*SyncState, error)

	// Save persists the full state. The write must be staged and
	// made visible as a single atomic step so a concurrent or
	// subsequent reader never observes a half-written file.
	Save(ctx context.Context, state *SyncState) error
}
