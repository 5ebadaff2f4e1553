package mock

import (
	"context"

	"github.com/fwojciec/docsync"
)

var _ docsync.Source = (*Source)(nil)

// Source is a mock implementation of docsync.Source.
type Source struct {
	DocumentsFn func(ctx context.Context) ([]*docsync.Document, error)
}

func (s *Source) Documents(ctx context.Context) ([]*docsync.Document, error) {
	return s.DocumentsFn(ctx)
}

var _ docsync.ArticleLister = (*ArticleLister)(nil)

// ArticleLister is a mock implementation of docsync.ArticleLister.
type ArticleLister struct {
	ListArticlesFn func(ctx context.Context, locale string, max int) ([]*docsync.Article, error)
}

func (l *ArticleLister) ListArticles(ctx context.Context, locale string, max int) ([]*docsync.Article, error) {
	return l.ListArticlesFn(ctx, locale, max)
}
