package docsync

import (
	"context"
	"time"
)

// Document represents one normalized unit of source content for the
// current run. Documents are produced fresh each run by the extraction
// pipeline, are immutable once produced, and are discarded after
// reconciliation.
type Document struct {
	// Key is the stable identity of the document, derived from the
	// source article ID and slug (e.g., "3500011234-add-a-youtube-video.md").
	// It is safe to use as a filename and as a map key.
	Key string `json:"key"`

	// Title of the source article.
	Title string `json:"title"`

	// Content is the normalized markdown body, including the
	// "Article URL:" citation header.
	Content string `json:"content"`

	// SourceURL is the canonical URL of the source article.
	SourceURL string `json:"sourceUrl"`

	// UpdatedAt is the source's last-modified timestamp, if the
	// source provides one.
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// Size returns the byte size of the document content.
func (d *Document) Size() int {
	return len(d.Content)
}

// Validate returns an error if the document contains invalid fields.
func (d *Document) Validate() error {
	if d.Key == "" {
		return Errorf(EINVALID, "document key required")
	}
	if d.SourceURL == "" {
		return Errorf(EINVALID, "document source URL required")
	}
	return nil
}

// Source yields the finite document set for the current run.
// Implementations hide crawling, pagination, and markdown conversion.
// An empty result is valid and means the source currently has no
// published documents.
type Source interface {
	Documents(ctx context.Context) ([]*Document, error)
}

// ArchiveWriter persists the normalized corpus locally with atomic
// semantics. Save writes to a staging location; Commit makes the new
// corpus visible as a single step; Abort discards pending changes.
type ArchiveWriter interface {
	Save(ctx context.Context, doc *Document) error
	Commit() error
	Abort() error
}
