package article

import (
	"fmt"
	"strings"
	"time"

	"github.com/adrg/frontmatter"

	"github.com/glaido/site/markdown"
)

// isoMillis matches the format JavaScript's Date.toISOString produces.
const isoMillis = "2006-01-02T15:04:05.000Z"

// dateLayouts cover the ISO-8601 shapes authors write: with or without
// seconds, fraction, or zone, and zones with or without the colon.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04Z0700",
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

type frontMatter struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Date        string   `yaml:"date"`
	Author      string   `yaml:"author"`
	Image       string   `yaml:"image"`
	Tags        []string `yaml:"tags"`
}

// Parser turns raw documents into Articles. The zero value renders with the
// default markdown renderer and stamps missing dates with time.Now.
type Parser struct {
	Renderer *markdown.Renderer
	Now      func() time.Time
}

// Parse parses raw with the zero Parser.
func Parse(raw, slug string) (Article, error) {
	return Parser{}.Parse(raw, slug)
}

// Parse splits the front matter from the body, applies defaults, renders the
// body and computes the read time.
func (p Parser) Parse(raw, slug string) (Article, error) {
	var meta frontMatter
	body, err := frontmatter.Parse(strings.NewReader(raw), &meta)
	if err != nil {
		return Article{}, fmt.Errorf("parse front matter: %w", err)
	}
	content := string(body)

	date := meta.Date
	if date == "" {
		date = p.now().UTC().Format(isoMillis)
	}
	published, err := ParseDate(date)
	if err != nil {
		return Article{}, err
	}

	renderer := p.Renderer
	if renderer == nil {
		renderer = defaultRenderer
	}
	htmlContent, err := renderer.Render(content)
	if err != nil {
		return Article{}, err
	}

	tags := meta.Tags
	if tags == nil {
		tags = []string{}
	}

	return Article{
		Slug:        slug,
		Title:       orDefault(meta.Title, DefaultTitle),
		Description: meta.Description,
		Date:        date,
		Author:      orDefault(meta.Author, DefaultAuthor),
		Image:       orDefault(meta.Image, DefaultImage),
		Tags:        tags,
		Content:     content,
		HTMLContent: htmlContent,
		ReadTime:    ReadTime(content),
		Published:   published,
	}, nil
}

func (p Parser) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

var defaultRenderer = markdown.NewRenderer()

// ReadTime estimates reading minutes as ceil(words / WordsPerMinute).
// An empty body reads in zero minutes.
func ReadTime(content string) int {
	words := len(strings.Fields(content))
	return (words + WordsPerMinute - 1) / WordsPerMinute
}

// ParseDate accepts RFC 3339 timestamps and plain calendar dates. Values
// without a zone are taken as UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
