package mock

import (
	"context"

	"github.com/fwojciec/docsync"
)

var _ docsync.ReportWriter = (*ReportWriter)(nil)

// ReportWriter is a mock implementation of docsync.ReportWriter.
type ReportWriter struct {
	WriteReportFn func(ctx context.Context, report *docsync.RunReport) error
}

func (w *ReportWriter) WriteReport(ctx context.Context, report *docsync.RunReport) error {
	return w.WriteReportFn(ctx, report)
}

var _ docsync.ReportService = (*ReportService)(nil)

// ReportService is a mock implementation of docsync.ReportService.
type ReportService struct {
	CreateReportFn     func(ctx context.Context, report *docsync.RunReport) error
	FindLatestReportFn func(ctx context.Context) (*docsync.RunReport, error)
	FindReportsFn      func(ctx context.Context, limit int) ([]*docsync.RunReport, error)
}

func (s *ReportService) CreateReport(ctx context.Context, report *docsync.RunReport) error {
	return s.CreateReportFn(ctx, report)
}

func (s *ReportService) FindLatestReport(ctx context.Context) (*docsync.RunReport, error) {
	return s.FindLatestReportFn(ctx)
}

func (s *ReportService) FindReports(ctx context.Context, limit int) ([]*docsync.RunReport, error) {
	return s.FindReportsFn(ctx, limit)
}
