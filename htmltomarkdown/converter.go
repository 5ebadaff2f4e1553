// Package htmltomarkdown converts cleaned article HTML to Markdown
// using JohannesKaufmann/html-to-markdown.
package htmltomarkdown

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/docsync"
)

// Ensure Converter implements docsync.Converter at compile time.
var _ docsync.Converter = (*Converter)(nil)

// Converter turns article HTML into Markdown, preserving headings,
// lists, links, code blocks, images, and tables.
type Converter struct {
	conv *converter.Converter
}

// NewConverter creates a new Converter.
func NewConverter() *Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	return &Converter{conv: conv}
}

// Convert transforms HTML into Markdown. Empty input yields an empty
// string; some help-center articles have no body.
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", nil
	}

	md, err := c.conv.ConvertString(html)
	if err != nil {
		return "", docsync.Errorf(docsync.EINTERNAL, "markdown conversion failed: %v", err)
	}

	return strings.TrimSpace(md), nil
}
