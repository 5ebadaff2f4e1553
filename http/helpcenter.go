// Package http provides HTTP clients for the help-center source API,
// its sitemap, and the remote vector store.
package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/fwojciec/docsync"
	"golang.org/x/time/rate"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 30 * time.Second

// defaultUserAgent identifies the sync job to the help center.
const defaultUserAgent = "docsync/1.0 (+https://github.com/fwojciec/docsync)"

// perPageMax is the help-center API page size limit.
const perPageMax = 100

// Ensure HelpCenterClient implements docsync.ArticleLister at compile time.
var _ docsync.ArticleLister = (*HelpCenterClient)(nil)

// HelpCenterClient lists articles from a Zendesk-style help center
// via its REST API, paginating until the requested number of
// published articles has been collected.
type HelpCenterClient struct {
	client  *http.Client
	baseURL string
	limiter *rate.Limiter
	timeout time.Duration
}

// HelpCenterOption configures a HelpCenterClient.
type HelpCenterOption func(*HelpCenterClient)

// WithHelpCenterHTTPClient sets the underlying HTTP client.
func WithHelpCenterHTTPClient(client *http.Client) HelpCenterOption {
	return func(c *HelpCenterClient) {
		c.client = client
	}
}

// WithHelpCenterRateLimit caps requests per second against the help
// center. Defaults to 1 rps; zero or negative disables limiting.
func WithHelpCenterRateLimit(rps float64) HelpCenterOption {
	return func(c *HelpCenterClient) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// NewHelpCenterClient creates a client for the help center at
// baseURL (e.g., "https://support.optisigns.com").
func NewHelpCenterClient(baseURL string, opts ...HelpCenterOption) *HelpCenterClient {
	c := &HelpCenterClient{
		baseURL: baseURL,
		limiter: rate.NewLimiter(rate.Limit(1), 1),
		timeout: DefaultFetchTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.client == nil {
		c.client = &http.Client{Timeout: c.timeout}
	}
	return c
}

// articlesPage mirrors the help-center API list response.
type articlesPage struct {
	Articles []apiArticle `json:"articles"`
	NextPage *string      `json:"next_page"`
}

// apiArticle mirrors the help-center API article payload.
type apiArticle struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	HTMLURL   string     `json:"html_url"`
	UpdatedAt *time.Time `json:"updated_at"`
	Draft     bool       `json:"draft"`
}

// ListArticles pages through the articles endpoint sorted by
// updated_at descending, skipping drafts, until max published
// articles are collected or the pages run out.
func (c *HelpCenterClient) ListArticles(ctx context.Context, locale string, max int) ([]*docsync.Article, error) {
	if locale == "" {
		return nil, docsync.Errorf(docsync.EINVALID, "locale required")
	}
	if max <= 0 {
		return nil, docsync.Errorf(docsync.EINVALID, "max articles must be positive, got %d", max)
	}

	perPage := max
	if perPage > perPageMax {
		perPage = perPageMax
	}

	var articles []*docsync.Article
	for page := 1; len(articles) < max; page++ {
		listing, err := c.fetchPage(ctx, locale, page, perPage)
		if err != nil {
			return nil, err
		}
		if len(listing.Articles) == 0 {
			break
		}

		for _, a := range listing.Articles {
			if a.Draft {
				continue
			}
			articles = append(articles, &docsync.Article{
				ID:        a.ID,
				Title:     a.Title,
				Body:      a.Body,
				HTMLURL:   a.HTMLURL,
				UpdatedAt: a.UpdatedAt,
			})
			if len(articles) >= max {
				break
			}
		}

		if listing.NextPage == nil || *listing.NextPage == "" {
			break
		}
	}

	return articles, nil
}

func (c *HelpCenterClient) fetchPage(ctx context.Context, locale string, page, perPage int) (*articlesPage, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	endpoint := fmt.Sprintf("%s/api/v2/help_center/%s/articles.json", c.baseURL, url.PathEscape(locale))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	q := req.URL.Query()
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(perPage))
	q.Set("sort_by", "updated_at")
	q.Set("sort_order", "desc")
	req.URL.RawQuery = q.Encode()
	req.Header.Set("User-Agent", defaultUserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, docsync.Errorf(docsync.EUNAVAILABLE, "help center request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp, "help center")
	}

	var listing articlesPage
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, docsync.Errorf(docsync.EINTERNAL, "decoding help center response: %v", err)
	}

	return &listing, nil
}

// statusError maps a non-2xx response to a coded error: rate limits
// and server errors are transient, everything else is permanent.
func statusError(resp *http.Response, what string) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))

	switch {
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return docsync.Errorf(docsync.EUNAVAILABLE, "%s returned HTTP %d: %s", what, resp.StatusCode, body)
	case resp.StatusCode == http.StatusNotFound:
		return docsync.Errorf(docsync.ENOTFOUND, "%s returned HTTP 404: %s", what, body)
	default:
		return docsync.Errorf(docsync.EINTERNAL, "%s returned HTTP %d: %s", what, resp.StatusCode, body)
	}
}
