// Package extract turns help-center articles into normalized markdown
// documents ready for archiving and synchronization. It coordinates
// the API listing (with a crawl fallback), HTML cleanup, markdown
// conversion, and internal link rewriting.
package extract

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/fwojciec/docsync"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds parallel article conversion.
const DefaultConcurrency = 8

// Request describes one extraction run.
type Request struct {
	// BaseURL is the help-center root, e.g.
	// "https://support.optisigns.com/hc/en-us". Required only for the
	// crawl fallback.
	BaseURL string

	// Locale selects the help-center locale, e.g. "en-us".
	Locale string

	// MaxArticles caps how many articles are extracted.
	MaxArticles int
}

// Extractor builds the normalized document corpus.
type Extractor struct {
	Lister    docsync.ArticleLister
	Cleaner   docsync.Cleaner
	Converter docsync.Converter

	// Sitemaps and Fetcher enable the crawl fallback when the
	// articles API returns nothing. Both may be nil, in which case an
	// empty listing yields an empty corpus.
	Sitemaps docsync.SitemapService
	Fetcher  docsync.Fetcher

	// Concurrency bounds parallel conversion. Zero or negative means
	// DefaultConcurrency.
	Concurrency int

	Logger *slog.Logger
}

// result carries one converted article with its listing position.
type result struct {
	position int
	doc      *docsync.Document
	err      error
}

// Extract lists, cleans, and converts articles into documents in
// listing order. Articles that fail conversion are logged and
// skipped; internal links between surviving documents are rewritten
// to local relative filenames.
func (e *Extractor) Extract(ctx context.Context, req Request) ([]*docsync.Document, error) {
	articles, err := e.listArticles(ctx, req)
	if err != nil {
		return nil, err
	}

	concurrency := e.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	resultCh := make(chan result, len(articles))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for i, article := range articles {
			g.Go(func() error {
				doc, err := e.buildDocument(gctx, article)
				resultCh <- result{position: i, doc: doc, err: err}
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	ordered := make([]*docsync.Document, len(articles))
	urls := make([]string, len(articles))
	for res := range resultCh {
		if res.err != nil {
			e.logger().Warn("article conversion failed",
				slog.Int64("article_id", articles[res.position].ID),
				slog.Any("error", res.err))
			continue
		}
		ordered[res.position] = res.doc
		urls[res.position] = articles[res.position].HTMLURL
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	urlsToKeys := make(map[string]string)
	var docs []*docsync.Document
	for i, doc := range ordered {
		if doc == nil {
			continue
		}
		docs = append(docs, doc)
		urlsToKeys[urls[i]] = doc.Key
	}

	index := linkIndex(urlsToKeys)
	for _, doc := range docs {
		doc.Content = RewriteInternalLinks(doc.Content, index)
	}

	return docs, nil
}

// Preview returns the URLs of the articles an Extract call would
// process, without fetching or converting article bodies.
func (e *Extractor) Preview(ctx context.Context, req Request) ([]string, error) {
	articles, err := e.listArticles(ctx, req)
	if err != nil {
		return nil, err
	}

	urls := make([]string, 0, len(articles))
	for _, article := range articles {
		urls = append(urls, article.HTMLURL)
	}
	return urls, nil
}

// listArticles queries the API, falling back to the crawl when the
// API is unreachable or lists nothing.
func (e *Extractor) listArticles(ctx context.Context, req Request) ([]*docsync.Article, error) {
	if req.Locale == "" {
		return nil, docsync.Errorf(docsync.EINVALID, "locale required")
	}
	if req.MaxArticles <= 0 {
		return nil, docsync.Errorf(docsync.EINVALID, "max articles must be positive, got %d", req.MaxArticles)
	}

	articles, err := e.Lister.ListArticles(ctx, req.Locale, req.MaxArticles)
	if err != nil {
		if !e.canCrawl(req) {
			return nil, err
		}
		e.logger().Warn("articles API failed, falling back to crawl", slog.Any("error", err))
		return e.crawlArticles(ctx, req)
	}
	if len(articles) == 0 && e.canCrawl(req) {
		e.logger().Warn("articles API listed nothing, falling back to crawl")
		return e.crawlArticles(ctx, req)
	}

	return articles, nil
}

func (e *Extractor) canCrawl(req Request) bool {
	return e.Sitemaps != nil && e.Fetcher != nil && req.BaseURL != ""
}

// buildDocument cleans and converts one article. The document content
// starts with a citation header naming the source URL, followed by
// markdown guaranteed to open with an H1.
func (e *Extractor) buildDocument(ctx context.Context, article *docsync.Article) (*docsync.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cleaned, err := e.Cleaner.Clean(article.Body)
	if err != nil {
		return nil, err
	}

	md, err := e.Converter.Convert(cleaned)
	if err != nil {
		return nil, err
	}

	title := article.Title
	if title == "" {
		title = strconv.FormatInt(article.ID, 10)
	}

	content := fmt.Sprintf("Article URL: %s\n\n%s\n", article.HTMLURL, ensureH1(title, md))

	return &docsync.Document{
		Key:       documentKey(article.ID, article.Title),
		Title:     title,
		Content:   content,
		SourceURL: article.HTMLURL,
		UpdatedAt: article.UpdatedAt,
	}, nil
}

// documentKey derives the stable corpus filename for an article.
func documentKey(id int64, title string) string {
	slug := Slugify(title)
	if slug == "" {
		slug = "article"
	}
	return fmt.Sprintf("%d-%s.md", id, slug)
}

// ensureH1 prepends a title heading when the markdown has none.
func ensureH1(title, md string) string {
	trimmed := trimLeadingSpace(md)
	if len(trimmed) >= 2 && trimmed[0] == '#' && (trimmed[1] == ' ' || trimmed[1] == '\t') {
		return md
	}
	if md == "" {
		return "# " + title
	}
	return "# " + title + "\n\n" + md
}

func trimLeadingSpace(s string) string {
	for len(s) > 0 && (s[0] == ' ' || s[0] == '\n' || s[0] == '\t' || s[0] == '\r') {
		s = s[1:]
	}
	return s
}

func (e *Extractor) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.Default()
}
