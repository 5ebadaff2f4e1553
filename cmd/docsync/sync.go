package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/docsync"
	"github.com/fwojciec/docsync/extract"
	"github.com/fwojciec/docsync/fs"
	"github.com/fwojciec/docsync/reconcile"
)

// Run executes the "sync" command: extract articles, archive the
// normalized corpus, reconcile it against the vector store, and
// persist the run report. The command fails only when the whole run
// fails; per-document failures produce a partial report and exit zero.
func (c *SyncCmd) Run(deps *Dependencies) error {
	start := time.Now()

	docs, err := c.loadDocuments(deps)
	if err != nil {
		c.persistFailure(deps, start, err)
		fmt.Fprintf(deps.Stderr, "error: %s\n", docsync.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Syncing %d articles...\n", len(docs))

	report, err := deps.Reconciler.Run(deps.Ctx, docs, func(event reconcile.ProgressEvent) {
		switch event.Type {
		case reconcile.ProgressCompleted:
			fmt.Fprintf(deps.Stdout, "  [%d/%d] %s (%s)\n", event.Completed, event.Total, event.Key, event.Reason)
		case reconcile.ProgressFailed:
			fmt.Fprintf(deps.Stdout, "  [%d/%d] %s FAILED: %s\n", event.Completed, event.Total, event.Key, docsync.ErrorMessage(event.Error))
		}
	})
	if err != nil {
		c.persistFailure(deps, start, err)
		fmt.Fprintf(deps.Stderr, "error: %s\n", docsync.ErrorMessage(err))
		return err
	}

	if err := persistReport(deps, report); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docsync.ErrorMessage(err))
		return err
	}

	printSummary(deps, report)

	if report.Status == docsync.StatusError {
		return fmt.Errorf("sync failed: %s", report.Error)
	}
	return nil
}

// loadDocuments produces the document set to reconcile. Online it
// extracts from the help center and commits the corpus archive;
// offline it replays the previously committed corpus.
func (c *SyncCmd) loadDocuments(deps *Dependencies) ([]*docsync.Document, error) {
	if c.Offline {
		return fs.LoadDocuments(deps.Archive.Dir())
	}

	docs, err := deps.Extractor.Extract(deps.Ctx, extract.Request{
		BaseURL:     c.BaseURL,
		Locale:      c.Locale,
		MaxArticles: c.MaxArticles,
	})
	if err != nil {
		return nil, err
	}

	for _, doc := range docs {
		if err := deps.Archive.Save(deps.Ctx, doc); err != nil {
			_ = deps.Archive.Abort()
			return nil, err
		}
	}
	if err := deps.Archive.Commit(); err != nil {
		return nil, err
	}
	return docs, nil
}

// persistFailure records a run-level failure so the history is never
// silent about a broken sync. Persistence errors here are secondary
// to the failure being reported and are only logged.
func (c *SyncCmd) persistFailure(deps *Dependencies, start time.Time, cause error) {
	report := &docsync.RunReport{
		Timestamp:       start.UTC(),
		DurationSeconds: time.Since(start).Seconds(),
		Status:          docsync.StatusError,
		Error:           docsync.ErrorMessage(cause),
	}
	if err := persistReport(deps, report); err != nil {
		deps.Logger.Warn("failed to persist failure report", "error", err)
	}
}

func persistReport(deps *Dependencies, report *docsync.RunReport) error {
	if err := deps.History.CreateReport(deps.Ctx, report); err != nil {
		return err
	}
	return deps.Reports.WriteReport(deps.Ctx, report)
}

func printSummary(deps *Dependencies, report *docsync.RunReport) {
	fmt.Fprintf(deps.Stdout, "\nSync %s in %.1fs\n", report.Status, report.DurationSeconds)
	fmt.Fprintf(deps.Stdout, "  added:    %d\n", report.Added)
	fmt.Fprintf(deps.Stdout, "  updated:  %d\n", report.Updated)
	fmt.Fprintf(deps.Stdout, "  skipped:  %d\n", report.Skipped)
	fmt.Fprintf(deps.Stdout, "  removed:  %d\n", report.RemovedDetected)
	fmt.Fprintf(deps.Stdout, "  failed:   %d\n", report.Failed)
	fmt.Fprintf(deps.Stdout, "  files:    %d (%d bytes)\n", report.TotalFiles, report.TotalSizeBytes)
	if report.EstimatedChunks > 0 {
		fmt.Fprintf(deps.Stdout, "  chunks:   ~%d\n", report.EstimatedChunks)
	}
}
