package main

import (
	"fmt"

	"github.com/fwojciec/docsync"
	"github.com/fwojciec/docsync/extract"
)

// Run executes the "preview" command.
func (c *PreviewCmd) Run(deps *Dependencies) error {
	urls, err := deps.Extractor.Preview(deps.Ctx, extract.Request{
		BaseURL:     c.BaseURL,
		Locale:      c.Locale,
		MaxArticles: c.MaxArticles,
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docsync.ErrorMessage(err))
		return err
	}

	if len(urls) == 0 {
		fmt.Fprintln(deps.Stdout, "No articles found.")
		return nil
	}

	fmt.Fprintf(deps.Stdout, "Would sync %d articles:\n", len(urls))
	for _, u := range urls {
		fmt.Fprintf(deps.Stdout, "  %s\n", u)
	}
	return nil
}
