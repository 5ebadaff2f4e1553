package extract

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var markdownLinkRE = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)

// RewriteInternalLinks replaces markdown links pointing at corpus
// articles with local relative filenames, so the archived corpus is
// navigable offline. urlToKey maps normalized article URLs (and their
// path-only variants) to document keys. Anchors are preserved.
func RewriteInternalLinks(md string, urlToKey map[string]string) string {
	return markdownLinkRE.ReplaceAllStringFunc(md, func(match string) string {
		groups := markdownLinkRE.FindStringSubmatch(match)
		text, link := groups[1], groups[2]

		target, anchor, _ := strings.Cut(link, "#")
		key, ok := urlToKey[normalizeLinkTarget(target)]
		if !ok {
			return match
		}
		if anchor != "" {
			return fmt.Sprintf("[%s](./%s#%s)", text, key, anchor)
		}
		return fmt.Sprintf("[%s](./%s)", text, key)
	})
}

// normalizeLinkTarget strips the trailing slash so URL variants map
// to the same corpus entry.
func normalizeLinkTarget(target string) string {
	return strings.TrimRight(target, "/")
}

// linkIndex builds the lookup used by RewriteInternalLinks from
// article URL to document key. Each URL is registered in absolute and
// path-only form, since article bodies link both ways.
func linkIndex(urlsToKeys map[string]string) map[string]string {
	index := make(map[string]string, len(urlsToKeys)*2)
	for rawURL, key := range urlsToKeys {
		if rawURL == "" {
			continue
		}
		index[normalizeLinkTarget(rawURL)] = key
		if parsed, err := url.Parse(rawURL); err == nil && parsed.Path != "" {
			index[normalizeLinkTarget(parsed.Path)] = key
		}
	}
	return index
}
