package seo

import "sort"

// PageMetadata is the editorial metadata kept for a static route.
type PageMetadata struct {
	H1          string   `yaml:"h1"`
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Canonical   string   `yaml:"canonical"` // path without domain
	OGType      string   `yaml:"ogType"`
	OGImage     string   `yaml:"ogImage"`
	Keywords    []string `yaml:"keywords"`
}

// Pages maps a route such as "/" or "/blog" to its metadata.
type Pages map[string]PageMetadata

// Lookup returns the metadata for route.
func (p Pages) Lookup(route string) (PageMetadata, bool) {
	m, ok := p[route]
	return m, ok
}

// Routes returns every route with metadata, sorted.
func (p Pages) Routes() []string {
	routes := make([]string, 0, len(p))
	for r := range p {
		routes = append(routes, r)
	}
	sort.Strings(routes)
	return routes
}

// PageMeta converts the stored metadata for route into a PageMeta. Routes
// without metadata fall back to fallback.
func (p Pages) PageMeta(site Site, route string, fallback PageMeta) PageMeta {
	m, ok := p.Lookup(route)
	if !ok {
		return fallback
	}
	canonical := m.Canonical
	if canonical == "" {
		canonical = route
	}
	return PageMeta{
		Title:       m.Title,
		Description: m.Description,
		Canonical:   BuildURL(site.URL, canonical),
		OGImage:     m.OGImage,
		OGType:      m.OGType,
		Keywords:    m.Keywords,
	}
}
