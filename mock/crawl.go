package mock

import (
	"context"

	"github.com/fwojciec/docsync"
)

var _ docsync.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of docsync.SitemapService.
type SitemapService struct {
	DiscoverURLsFn func(ctx context.Context, baseURL string) ([]string, error)
}

func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string) ([]string, error) {
	return s.DiscoverURLsFn(ctx, baseURL)
}

var _ docsync.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of docsync.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}
