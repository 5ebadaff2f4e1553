package docsync

import (
	"sort"
	"time"
)

// ChangeReason tags why a document landed in its bucket. The policy
// combines the content hash and the last-modified signal explicitly
// so it can be audited and tested independently of I/O.
type ChangeReason string

const (
	// ReasonNew marks a key absent from the prior state.
	ReasonNew ChangeReason = "new"

	// ReasonContentChanged marks a content hash mismatch.
	ReasonContentChanged ChangeReason = "content_changed"

	// ReasonModifiedChanged marks a matching hash with both
	// last-modified timestamps present and differing. The content is
	// treated as potentially stale and re-uploaded (conservative
	// policy). An absent timestamp on either side is no signal, not
	// a difference: documents replayed from the archive carry no
	// timestamp and must not re-upload byte-identical content.
	ReasonModifiedChanged ChangeReason = "modified_changed"

	// ReasonUnchanged marks a matching hash and timestamp.
	ReasonUnchanged ChangeReason = "unchanged"

	// ReasonMissing marks a key present in the prior state but
	// absent from the current document set.
	ReasonMissing ChangeReason = "missing"

	// ReasonRetryUpload marks a prior record with no remote ID:
	// the last upload failed and the document is retried as added.
	ReasonRetryUpload ChangeReason = "retry_upload"
)

// Decision is the classification outcome for a single key.
type Decision struct {
	Key    string       `json:"key"`
	Reason ChangeReason `json:"reason"`
}

// ChangeSet buckets document keys by their classification. Every key
// in the union of the current document set and the prior state appears
// in exactly one bucket. Keys within each bucket are sorted.
type ChangeSet struct {
	Added     []string
	Updated   []string
	Unchanged []string
	Removed   []string

	// Decisions records the per-key reason, keyed by document key.
	Decisions map[string]Decision
}

// Classify compares the current document set against the prior state.
// It is a pure function: no I/O, no mutation of its arguments.
//
// An empty document set with a non-empty prior state classifies
// everything as removed; whether that indicates a crawl failure is the
// caller's judgment, not this function's.
func Classify(docs []*Document, prior *SyncState) *ChangeSet {
	cs := &ChangeSet{Decisions: make(map[string]Decision)}

	current := make(map[string]bool, len(docs))
	for _, doc := range docs {
		current[doc.Key] = true

		rec, ok := prior.Get(doc.Key)
		reason := classifyDocument(doc, rec, ok)
		cs.Decisions[doc.Key] = Decision{Key: doc.Key, Reason: reason}

		switch reason {
		case ReasonNew, ReasonRetryUpload:
			cs.Added = append(cs.Added, doc.Key)
		case ReasonContentChanged, ReasonModifiedChanged:
			cs.Updated = append(cs.Updated, doc.Key)
		default:
			cs.Unchanged = append(cs.Unchanged, doc.Key)
		}
	}

	for _, key := range prior.Keys() {
		if current[key] {
			continue
		}
		cs.Decisions[key] = Decision{Key: key, Reason: ReasonMissing}
		cs.Removed = append(cs.Removed, key)
	}

	sort.Strings(cs.Added)
	sort.Strings(cs.Updated)
	sort.Strings(cs.Unchanged)
	sort.Strings(cs.Removed)

	return cs
}

// classifyDocument decides the reason for a single current document.
func classifyDocument(doc *Document, rec SyncRecord, known bool) ChangeReason {
	if !known {
		return ReasonNew
	}
	if rec.RemoteID == "" {
		// A record without a remote ID means the last upload never
		// completed; the remote store has no content for this key.
		return ReasonRetryUpload
	}

	fp := NewFingerprint(doc)
	if fp.Hash != rec.Hash {
		return ReasonContentChanged
	}
	if timestampsDiffer(fp.LastModified, rec.LastModified) {
		return ReasonModifiedChanged
	}
	return ReasonUnchanged
}

// timestampsDiffer reports whether two last-modified timestamps are
// both present and unequal. An absent timestamp never differs from
// anything.
func timestampsDiffer(a, b *time.Time) bool {
	return a != nil && b != nil && !a.Equal(*b)
}
