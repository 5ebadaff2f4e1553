package docsync

import (
	"context"
	"time"
)

// Run status values recorded in the run report.
const (
	// StatusSuccess means every document-level operation completed.
	StatusSuccess = "success"

	// StatusPartial means some document-level operations failed but
	// the run completed; failed documents are retried next run.
	StatusPartial = "partial"

	// StatusError means the run failed before or during
	// reconciliation in a way that is not per-document.
	StatusError = "error"
)

// RunReport is the append-only per-run summary written at the end of
// a run, even on partial failure. It is never mutated after the run.
type RunReport struct {
	ID              string    `json:"id"`
	Timestamp       time.Time `json:"timestamp"`
	DurationSeconds float64   `json:"duration_seconds"`
	Status          string    `json:"status"`

	Added           int `json:"added"`
	Updated         int `json:"updated"`
	Skipped         int `json:"skipped"`
	RemovedDetected int `json:"removed_detected"`
	Failed          int `json:"failed"`

	TotalFiles     int `json:"total_files"`
	TotalSizeBytes int `json:"total_size_bytes"`

	// EstimatedChunks is the client-side chunk count estimate for
	// the full corpus. It may diverge from the authoritative count
	// computed by the remote store.
	EstimatedChunks int `json:"estimated_chunks"`

	// Error carries the run-level failure message when Status is
	// StatusError.
	Error string `json:"error,omitempty"`
}

// Validate returns an error if the report contains invalid fields.
func (r *RunReport) Validate() error {
	if r.Status == "" {
		return Errorf(EINVALID, "report status required")
	}
	if r.Timestamp.IsZero() {
		return Errorf(EINVALID, "report timestamp required")
	}
	return nil
}

// ReportWriter persists the latest run report.
type ReportWriter interface {
	WriteReport(ctx context.Context, report *RunReport) error
}

// ReportService archives run reports and serves run history queries.
type ReportService interface {
	// CreateReport appends a report to the run history.
	CreateReport(ctx context.Context, report *RunReport) error

	// FindLatestReport retrieves the most recent report.
	// Returns ENOTFOUND if no runs have been recorded.
	FindLatestReport(ctx context.Context) (*RunReport, error)

	// FindReports retrieves up to limit reports, newest first.
	// A non-positive limit returns all reports.
	FindReports(ctx context.Context, limit int) ([]*RunReport, error)
}
