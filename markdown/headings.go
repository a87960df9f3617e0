package markdown

import (
	"regexp"
	"strings"
)

var reHeading = regexp.MustCompile(`(?m)^(#{1,3})\s+(.+)$`)

// Heading is a table of contents entry.
type Heading struct {
	ID    string
	Title string
	Level int
}

// ExtractHeadings scans the raw markdown body for level 1-3 ATX headings in
// document order. It does not parse the document; fenced code is not skipped.
func ExtractHeadings(body string) []Heading {
	var headings []Heading
	for _, m := range reHeading.FindAllStringSubmatch(body, -1) {
		title := strings.TrimSpace(m[2])
		headings = append(headings, Heading{
			ID:    Slugify(title),
			Title: title,
			Level: len(m[1]),
		})
	}
	return headings
}
