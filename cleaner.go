package docsync

// Cleaner strips boilerplate from article HTML: navigation,
// breadcrumbs, ads, sidebars, share widgets. The result is the main
// content as clean HTML, preserving headings, lists, code blocks,
// tables, and links.
type Cleaner interface {
	Clean(html string) (string, error)
}
