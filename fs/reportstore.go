package fs

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/fwojciec/docsync"
)

// Ensure ReportStore implements docsync.ReportWriter at compile time.
var _ docsync.ReportWriter = (*ReportStore)(nil)

// ReportStore writes the latest run report to <dir>/last_run.json
// with the same staged-write discipline as StateStore.
type ReportStore struct {
	dir string
}

// NewReportStore creates a ReportStore writing into dir.
func NewReportStore(dir string) *ReportStore {
	return &ReportStore{dir: dir}
}

// Path returns the location of the latest report file.
func (s *ReportStore) Path() string {
	return filepath.Join(s.dir, "last_run.json")
}

// WriteReport persists the report, replacing any previous one.
func (s *ReportStore) WriteReport(ctx context.Context, report *docsync.RunReport) error {
	if err := report.Validate(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, "last_run.json.tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}

	if err := os.Rename(tmpPath, s.Path()); err != nil {
		os.Remove(tmpPath)
		return err
	}

	return nil
}
