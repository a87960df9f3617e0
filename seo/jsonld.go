package seo

import (
	"encoding/json"

	"github.com/glaido/site/article"
)

// Crumb is one step of a breadcrumb trail.
type Crumb struct {
	Name string
	URL  string
}

// FAQ is a question and its answer.
type FAQ struct {
	Question string `yaml:"question"`
	Answer   string `yaml:"answer"`
}

func marshal(data map[string]interface{}) string {
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// OrganizationJSONLD returns an Organization schema for the site.
func OrganizationJSONLD(site Site) string {
	data := map[string]interface{}{
		"@context": "https://schema.org",
		"@type":    "Organization",
		"name":     site.Name,
		"url":      site.URL,
	}
	if site.Logo != "" {
		data["logo"] = Absolute(site.URL, site.Logo)
	}
	if site.Description != "" {
		data["description"] = site.Description
	}
	if len(site.SameAs) > 0 {
		data["sameAs"] = site.SameAs
	}
	return marshal(data)
}

// WebSiteJSONLD returns a WebSite schema. The site has no search, so no
// SearchAction is advertised.
func WebSiteJSONLD(site Site) string {
	return marshal(map[string]interface{}{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     site.Name,
		"url":      site.URL,
	})
}

// ArticleJSONLD returns an Article schema for a.
func ArticleJSONLD(site Site, a article.Article) string {
	articleURL := BuildURL(site.URL, "blog", a.Slug)
	publisher := map[string]interface{}{
		"@type": "Organization",
		"name":  site.Name,
	}
	if site.Logo != "" {
		publisher["logo"] = map[string]string{
			"@type": "ImageObject",
			"url":   Absolute(site.URL, site.Logo),
		}
	}
	data := map[string]interface{}{
		"@context":      "https://schema.org",
		"@type":         "Article",
		"headline":      a.Title,
		"description":   a.Description,
		"image":         Absolute(site.URL, a.Image),
		"datePublished": a.Date,
		"dateModified":  a.Date,
		"author": map[string]string{
			"@type": "Person",
			"name":  a.Author,
		},
		"publisher": publisher,
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   articleURL,
		},
	}
	if len(a.Tags) > 0 {
		data["keywords"] = a.Tags
	}
	return marshal(data)
}

// BreadcrumbJSONLD returns a BreadcrumbList schema for items.
func BreadcrumbJSONLD(items []Crumb) string {
	list := make([]map[string]interface{}, len(items))
	for i, item := range items {
		list[i] = map[string]interface{}{
			"@type":    "ListItem",
			"position": i + 1,
			"name":     item.Name,
			"item":     item.URL,
		}
	}
	return marshal(map[string]interface{}{
		"@context":        "https://schema.org",
		"@type":           "BreadcrumbList",
		"itemListElement": list,
	})
}

// FAQJSONLD returns an FAQPage schema.
func FAQJSONLD(faqs []FAQ) string {
	entities := make([]map[string]interface{}, len(faqs))
	for i, f := range faqs {
		entities[i] = map[string]interface{}{
			"@type": "Question",
			"name":  f.Question,
			"acceptedAnswer": map[string]string{
				"@type": "Answer",
				"text":  f.Answer,
			},
		}
	}
	return marshal(map[string]interface{}{
		"@context":   "https://schema.org",
		"@type":      "FAQPage",
		"mainEntity": entities,
	})
}
