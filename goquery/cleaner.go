// Package goquery provides HTML processing backed by PuerkitoBio/goquery:
// boilerplate removal from help-center article bodies and same-host link
// extraction for the fallback crawl.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/docsync"
)

// Ensure Cleaner implements docsync.Cleaner.
var _ docsync.Cleaner = (*Cleaner)(nil)

// boilerplateSelectors matches navigation, advertising, and sharing
// chrome that help-center themes embed inside article bodies.
var boilerplateSelectors = []string{
	"script", "style", "meta", "link",
	"nav", ".nav", "#nav",
	".breadcrumb", ".breadcrumbs",
	".advertisement", ".ads", "[class*='ad-']",
	".sidebar", ".side-nav",
	".footer", ".footer-nav",
	".social-share", ".share-buttons",
}

// Cleaner strips boilerplate elements from article HTML, leaving the
// content that should survive markdown conversion: headings, text,
// lists, links, tables, code blocks, and images.
type Cleaner struct {
	selectors []string
}

// CleanerOption configures a Cleaner.
type CleanerOption func(*Cleaner)

// WithRemoveSelectors replaces the default boilerplate selector list.
func WithRemoveSelectors(selectors []string) CleanerOption {
	return func(c *Cleaner) {
		c.selectors = selectors
	}
}

// NewCleaner creates a Cleaner with the default boilerplate selectors.
func NewCleaner(opts ...CleanerOption) *Cleaner {
	c := &Cleaner{selectors: boilerplateSelectors}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Clean removes boilerplate elements and returns the remaining HTML.
func (c *Cleaner) Clean(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", docsync.Errorf(docsync.EINVALID, "failed to parse HTML: %v", err)
	}

	for _, selector := range c.selectors {
		doc.Find(selector).Remove()
	}

	cleaned, err := doc.Find("body").Html()
	if err != nil {
		return "", docsync.Errorf(docsync.EINTERNAL, "failed to render HTML: %v", err)
	}

	return strings.TrimSpace(cleaned), nil
}
