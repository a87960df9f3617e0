package views

import (
	"html/template"
	"net/url"

	"github.com/glaido/site/article"
)

var funcs = template.FuncMap{
	"formatDate": FormatDate,
	"html":       func(s string) template.HTML { return template.HTML(s) },
	"jsonld":     func(s string) template.JS { return template.JS(s) },
	"tagClass":   TagClass,
	"pathEscape": url.PathEscape,
	"indent":     func(level int) int { return (level - 1) * 12 },
}

// FormatDate renders an article date as "March 1, 2024". Unparseable values
// are returned as-is.
func FormatDate(date string) string {
	t, err := article.ParseDate(date)
	if err != nil {
		return date
	}
	return t.Format("January 2, 2006")
}

// TagClass returns CSS classes for a tag pill, with active variant.
func TagClass(active bool) string {
	if active {
		return "tag tag-active"
	}
	return "tag"
}
