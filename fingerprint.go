package docsync

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Fingerprint captures the change-detection identity of a document:
// a SHA-256 digest of the content bytes, the byte size, and the
// source's last-modified timestamp when available.
//
// Two documents are equivalent iff their hashes are equal. The
// last-modified timestamp is a secondary change signal only.
type Fingerprint struct {
	Hash         string     `json:"hash"`
	Size         int        `json:"size"`
	LastModified *time.Time `json:"last_modified,omitempty"`
}

// NewFingerprint computes the fingerprint of a document. The hash is
// deterministic across processes and platforms.
func NewFingerprint(doc *Document) Fingerprint {
	return Fingerprint{
		Hash:         HashContent(doc.Content),
		Size:         doc.Size(),
		LastModified: doc.UpdatedAt,
	}
}

// HashContent returns the hex-encoded SHA-256 digest of content.
func HashContent(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
