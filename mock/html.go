package mock

import "github.com/fwojciec/docsync"

var _ docsync.Cleaner = (*Cleaner)(nil)

// Cleaner is a mock implementation of docsync.Cleaner.
type Cleaner struct {
	CleanFn func(html string) (string, error)
}

func (c *Cleaner) Clean(html string) (string, error) {
	return c.CleanFn(html)
}

var _ docsync.Converter = (*Converter)(nil)

// Converter is a mock implementation of docsync.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
