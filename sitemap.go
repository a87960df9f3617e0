package site

import (
	"encoding/xml"
	"fmt"

	"github.com/glaido/site/article"
	"github.com/glaido/site/seo"
)

const sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

// GenerateSitemap lists the home page, the blog index, and one entry per
// article. Article entries carry the UTC calendar date of the article as
// lastmod; the static routes carry none.
func GenerateSitemap(baseURL string, articles []article.Article) (string, error) {
	urls := []sitemapURL{
		{Loc: seo.BuildURL(baseURL), ChangeFreq: "daily", Priority: "1.0"},
		{Loc: seo.BuildURL(baseURL, "blog"), ChangeFreq: "daily", Priority: "0.9"},
	}
	for _, a := range articles {
		urls = append(urls, sitemapURL{
			Loc:        seo.BuildURL(baseURL, "blog", a.Slug),
			LastMod:    a.Published.UTC().Format("2006-01-02"),
			ChangeFreq: "weekly",
			Priority:   "0.8",
		})
	}
	out, err := xml.MarshalIndent(sitemapURLSet{XMLNS: sitemapNS, URLs: urls}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode sitemap: %w", err)
	}
	return xml.Header + string(out) + "\n", nil
}
