// Package seo resolves per-page metadata into head tags and builds
// Schema.org JSON-LD blocks.
package seo

import (
	"net/url"
	"path"
	"strings"
)

// DefaultOGImage is used when a page does not name its own share image.
const DefaultOGImage = "/og-image.png"

// Site carries the site-wide values every page shares.
type Site struct {
	Name        string
	URL         string
	Description string
	Logo        string   // site-relative or absolute
	SameAs      []string // social profiles
}

// ArticleMeta adds article:* OpenGraph tags to a page.
type ArticleMeta struct {
	PublishedTime string
	Author        string
	Tags          []string
}

// PageMeta is what a route declares about itself.
type PageMeta struct {
	Title       string
	Description string
	Canonical   string // absolute; defaults to the site URL
	OGImage     string // site-relative or absolute; defaults to DefaultOGImage
	OGType      string // "website" (default) or "article"
	Keywords    []string
	Article     *ArticleMeta
	NoIndex     bool
}

// Tag is a single <meta> element. Property tags use the property attribute,
// the rest use name.
type Tag struct {
	Name     string
	Property string
	Content  string
}

// Head is the resolved set of head elements for a page.
type Head struct {
	Title     string
	Canonical string
	Tags      []Tag
}

// Resolve applies site defaults to meta.
func Resolve(site Site, meta PageMeta) Head {
	title := meta.Title
	if site.Name != "" {
		title = meta.Title + " | " + site.Name
	}
	canonical := meta.Canonical
	if canonical == "" {
		canonical = site.URL
	}
	ogImage := meta.OGImage
	if ogImage == "" {
		ogImage = DefaultOGImage
	}
	ogImage = Absolute(site.URL, ogImage)
	ogType := meta.OGType
	if ogType == "" {
		ogType = "website"
	}

	h := Head{Title: title, Canonical: canonical}
	name := func(n, content string) {
		h.Tags = append(h.Tags, Tag{Name: n, Content: content})
	}
	prop := func(p, content string) {
		h.Tags = append(h.Tags, Tag{Property: p, Content: content})
	}

	name("title", title)
	name("description", meta.Description)
	if len(meta.Keywords) > 0 {
		name("keywords", strings.Join(meta.Keywords, ", "))
	}
	if meta.NoIndex {
		name("robots", "noindex,nofollow")
	}

	prop("og:type", ogType)
	prop("og:url", canonical)
	prop("og:title", title)
	prop("og:description", meta.Description)
	prop("og:image", ogImage)
	if site.Name != "" {
		prop("og:site_name", site.Name)
	}

	if ogType == "article" && meta.Article != nil {
		a := meta.Article
		if a.PublishedTime != "" {
			prop("article:published_time", a.PublishedTime)
		}
		if a.Author != "" {
			prop("article:author", a.Author)
		}
		for _, t := range a.Tags {
			prop("article:tag", t)
		}
	}

	prop("twitter:card", "summary_large_image")
	prop("twitter:url", canonical)
	prop("twitter:title", title)
	prop("twitter:description", meta.Description)
	prop("twitter:image", ogImage)
	return h
}

// Absolute prefixes site-relative paths with base. Values that already start
// with http are returned unchanged.
func Absolute(base, p string) string {
	if strings.HasPrefix(p, "http") {
		return p
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(p, "/")
}

// BuildURL joins path segments onto base. The site root keeps its trailing
// slash, other paths have none.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join("/", u.Path, path.Join(pathSegments...))
	return u.String()
}
