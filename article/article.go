// Package article loads markdown articles with front matter, renders them, and
// selects related reading.
package article

import (
	"time"

	"github.com/glaido/site/markdown"
)

// Defaults applied when a front matter key is missing.
const (
	DefaultTitle  = "Untitled"
	DefaultAuthor = "Glaido Team"
	DefaultImage  = "/blog-default.png"
)

// WordsPerMinute is the reading speed behind ReadTime.
const WordsPerMinute = 200

// Article is a parsed blog article.
type Article struct {
	Slug        string
	Title       string
	Description string
	Date        string // ISO-8601 as authored, or the load time when absent
	Author      string
	Image       string
	Tags        []string
	Content     string // raw markdown body without front matter
	HTMLContent string
	ReadTime    int // minutes

	Published time.Time // Date parsed, used for ordering
}

// Headings returns the table of contents for the article body. The ids match
// the ids stamped on the rendered headings in HTMLContent.
func (a Article) Headings() []markdown.Heading {
	return markdown.ExtractHeadings(a.Content)
}

// Link returns the site-relative URL of the article.
func (a Article) Link() string {
	return "/blog/" + a.Slug
}
