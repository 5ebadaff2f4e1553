package docsync

import (
	"context"
	"time"
)

// Article is a raw help-center article as returned by the source API,
// before cleanup and markdown conversion.
type Article struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title"`
	Body      string     `json:"body"` // HTML
	HTMLURL   string     `json:"html_url"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
	Draft     bool       `json:"draft"`
}

// ArticleLister lists published help-center articles.
type ArticleLister interface {
	// ListArticles returns up to max published articles for the
	// locale, newest first. Drafts are excluded.
	ListArticles(ctx context.Context, locale string, max int) ([]*Article, error)
}

// Fetcher retrieves HTML content from a URL. Used by the fallback
// crawl when the articles API yields nothing.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// SitemapService discovers article URLs from a site's sitemaps. Used
// as a fallback when the articles API yields nothing.
type SitemapService interface {
	// DiscoverURLs returns all URLs listed in the site's sitemaps.
	// Returns an empty slice (not nil) when no sitemap is found.
	DiscoverURLs(ctx context.Context, baseURL string) ([]string, error)
}
