package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/docsync"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ docsync.ReportService = (*ReportService)(nil)

// ReportService implements docsync.ReportService using SQLite. Run
// reports are append-only: the history is never updated or pruned.
type ReportService struct {
	db *DB
}

// NewReportService creates a new ReportService.
func NewReportService(db *DB) *ReportService {
	return &ReportService{db: db}
}

// CreateReport appends a report to the run history. An empty ID is
// assigned one.
func (s *ReportService) CreateReport(ctx context.Context, report *docsync.RunReport) error {
	if err := report.Validate(); err != nil {
		return err
	}

	if report.ID == "" {
		report.ID = uuid.New().String()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, timestamp, duration_seconds, status, added, updated, skipped,
			removed_detected, failed, total_files, total_size_bytes, estimated_chunks, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, report.ID, report.Timestamp.UTC().Format(time.RFC3339Nano), report.DurationSeconds,
		report.Status, report.Added, report.Updated, report.Skipped, report.RemovedDetected,
		report.Failed, report.TotalFiles, report.TotalSizeBytes, report.EstimatedChunks,
		report.Error)

	return err
}

// FindLatestReport retrieves the most recent report.
func (s *ReportService) FindLatestReport(ctx context.Context) (*docsync.RunReport, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+reportColumns+`
		FROM runs
		ORDER BY timestamp DESC
		LIMIT 1
	`)

	report, err := scanReport(row.Scan)
	if err == sql.ErrNoRows {
		return nil, docsync.Errorf(docsync.ENOTFOUND, "no runs recorded")
	}
	if err != nil {
		return nil, err
	}
	return report, nil
}

// FindReports retrieves up to limit reports, newest first. A
// non-positive limit returns all reports.
func (s *ReportService) FindReports(ctx context.Context, limit int) ([]*docsync.RunReport, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + reportColumns + " FROM runs ORDER BY timestamp DESC")
	if limit > 0 {
		query.WriteString(" LIMIT ?")
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []*docsync.RunReport
	for rows.Next() {
		report, err := scanReport(rows.Scan)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	return reports, rows.Err()
}

const reportColumns = `id, timestamp, duration_seconds, status, added, updated, skipped,
	removed_detected, failed, total_files, total_size_bytes, estimated_chunks, error`

// scanReport reads one run row via the given Scan function.
func scanReport(scan func(dest ...any) error) (*docsync.RunReport, error) {
	var report docsync.RunReport
	var timestamp string

	if err := scan(&report.ID, &timestamp, &report.DurationSeconds, &report.Status,
		&report.Added, &report.Updated, &report.Skipped, &report.RemovedDetected,
		&report.Failed, &report.TotalFiles, &report.TotalSizeBytes,
		&report.EstimatedChunks, &report.Error); err != nil {
		return nil, err
	}

	parsed, err := time.Parse(time.RFC3339Nano, timestamp)
	if err != nil {
		return nil, fmt.Errorf("failed to parse timestamp: %w", err)
	}
	report.Timestamp = parsed

	return &report, nil
}
