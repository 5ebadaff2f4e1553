package main

import (
	"fmt"

	"github.com/fwojciec/docsync"
)

// Run executes the "status" command.
func (c *StatusCmd) Run(deps *Dependencies) error {
	reports, err := c.load(deps)
	if err != nil {
		if docsync.ErrorCode(err) == docsync.ENOTFOUND {
			fmt.Fprintln(deps.Stdout, "No sync runs recorded yet.")
			return nil
		}
		fmt.Fprintf(deps.Stderr, "error: %s\n", docsync.ErrorMessage(err))
		return err
	}

	if len(reports) == 0 {
		fmt.Fprintln(deps.Stdout, "No sync runs recorded yet.")
		return nil
	}

	for _, r := range reports {
		fmt.Fprintf(deps.Stdout, "%s  %-7s  +%d ~%d =%d -%d !%d  %.1fs\n",
			r.Timestamp.Local().Format("2006-01-02 15:04:05"),
			r.Status, r.Added, r.Updated, r.Skipped, r.RemovedDetected, r.Failed,
			r.DurationSeconds)
		if r.Error != "" {
			fmt.Fprintf(deps.Stdout, "  error: %s\n", r.Error)
		}
	}
	return nil
}

func (c *StatusCmd) load(deps *Dependencies) ([]*docsync.RunReport, error) {
	if c.Last {
		report, err := deps.History.FindLatestReport(deps.Ctx)
		if err != nil {
			return nil, err
		}
		return []*docsync.RunReport{report}, nil
	}
	return deps.History.FindReports(deps.Ctx, c.Limit)
}
