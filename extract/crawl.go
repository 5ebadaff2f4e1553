package extract

import (
	"context"
	"log/slog"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/fwojciec/docsync"
	"github.com/fwojciec/docsync/bloom"
	"github.com/fwojciec/docsync/goquery"
)

// articlePathRE matches help-center article paths:
// /hc/<locale>/articles/<id>[-<slug>].
var articlePathRE = regexp.MustCompile(`^/hc/[^/]+/articles/(\d+)(?:-([A-Za-z0-9\-]+))?/?$`)

const (
	// maxCrawlPages bounds listing-page fetches during the fallback
	// crawl, independent of the article cap.
	maxCrawlPages = 200

	frontierExpectedURLs      = 100000
	frontierFalsePositiveRate = 0.01
)

// crawlArticles discovers and fetches articles without the API:
// sitemap URLs first, then a breadth-first walk of category and
// section pages rooted at the base URL.
func (e *Extractor) crawlArticles(ctx context.Context, req Request) ([]*docsync.Article, error) {
	urls, err := e.Sitemaps.DiscoverURLs(ctx, req.BaseURL)
	if err != nil {
		return nil, err
	}

	refs := articleRefs(urls, req.MaxArticles)
	if len(refs) == 0 {
		refs, err = e.walkPages(ctx, req)
		if err != nil {
			return nil, err
		}
	}

	articles := make([]*docsync.Article, 0, len(refs))
	for _, ref := range refs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		html, err := e.Fetcher.Fetch(ctx, ref.url)
		if err != nil {
			e.logger().Warn("article page fetch failed",
				slog.String("url", ref.url),
				slog.Any("error", err))
			continue
		}

		title := goquery.ExtractTitle(html)
		if title == "" {
			title = ref.slug
		}

		articles = append(articles, &docsync.Article{
			ID:      ref.id,
			Title:   title,
			Body:    html,
			HTMLURL: ref.url,
		})
	}

	return articles, nil
}

// articleRef identifies one article URL discovered by the crawl.
type articleRef struct {
	url  string
	id   int64
	slug string
}

// articleRefs filters URLs down to unique article references, capped
// at max.
func articleRefs(urls []string, max int) []articleRef {
	var refs []articleRef
	seen := make(map[int64]bool)
	for _, rawURL := range urls {
		ref, ok := parseArticleRef(rawURL)
		if !ok || seen[ref.id] {
			continue
		}
		seen[ref.id] = true
		refs = append(refs, ref)
		if len(refs) >= max {
			break
		}
	}
	return refs
}

// parseArticleRef extracts the article ID and slug from a URL path.
func parseArticleRef(rawURL string) (articleRef, bool) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return articleRef{}, false
	}
	groups := articlePathRE.FindStringSubmatch(parsed.Path)
	if groups == nil {
		return articleRef{}, false
	}
	id, err := strconv.ParseInt(groups[1], 10, 64)
	if err != nil {
		return articleRef{}, false
	}
	return articleRef{
		url:  rawURL,
		id:   id,
		slug: strings.Trim(groups[2], "-"),
	}, true
}

// walkPages walks category and section pages breadth first from the
// base URL, collecting article links. Visited URLs are tracked in a
// Bloom filter frontier, so the walk never refetches a page.
func (e *Extractor) walkPages(ctx context.Context, req Request) ([]articleRef, error) {
	base, err := url.Parse(req.BaseURL)
	if err != nil {
		return nil, docsync.Errorf(docsync.EINVALID, "invalid base URL: %v", err)
	}
	scope := strings.TrimRight(base.Path, "/")

	frontier := bloom.NewFrontier(frontierExpectedURLs, frontierFalsePositiveRate)
	queue := []string{req.BaseURL}
	frontier.Visit(req.BaseURL)

	var refs []articleRef
	seenIDs := make(map[int64]bool)
	fetched := 0

	for len(queue) > 0 && len(refs) < req.MaxArticles && fetched < maxCrawlPages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		pageURL := queue[0]
		queue = queue[1:]

		html, err := e.Fetcher.Fetch(ctx, pageURL)
		fetched++
		if err != nil {
			e.logger().Warn("listing page fetch failed",
				slog.String("url", pageURL),
				slog.Any("error", err))
			continue
		}

		links, err := goquery.ExtractLinks(html, pageURL)
		if err != nil {
			continue
		}

		for _, link := range links {
			if ref, ok := parseArticleRef(link); ok {
				if !seenIDs[ref.id] && len(refs) < req.MaxArticles {
					seenIDs[ref.id] = true
					refs = append(refs, ref)
				}
				continue
			}
			if !inScope(link, scope) || !frontier.Visit(link) {
				continue
			}
			queue = append(queue, link)
		}
	}

	return refs, nil
}

// inScope reports whether the URL's path sits under the crawl scope.
func inScope(rawURL, scope string) bool {
	if scope == "" {
		return true
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return strings.HasPrefix(parsed.Path, scope+"/") || parsed.Path == scope
}
