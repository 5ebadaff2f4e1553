package extract

import (
	"regexp"
	"strings"
)

var (
	slugStripRE    = regexp.MustCompile(`[^a-z0-9\-\s]`)
	slugCollapseRE = regexp.MustCompile(`[\s\-]+`)
)

// Slugify lowercases text, drops everything but letters, digits,
// hyphens, and spaces, and collapses runs of spaces and hyphens into
// single hyphens.
func Slugify(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	s = slugStripRE.ReplaceAllString(s, "")
	s = slugCollapseRE.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
