// Package views renders the site's pages. Templates are embedded and exposed
// as templ components so handlers can swap in their own.
package views

import (
	"context"
	"embed"
	"html/template"
	"io"

	"github.com/a-h/templ"
)

//go:embed templates/*.html
var templateFS embed.FS

var (
	base = template.Must(template.New("").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/partials.html"))

	homePage        = page("home.html")
	blogPage        = page("blog.html")
	articlePage     = page("article.html")
	notFoundPage    = page("notfound.html")
	serverErrorPage = page("servererror.html")
)

func page(name string) *template.Template {
	return template.Must(template.Must(base.Clone()).ParseFS(templateFS, "templates/"+name))
}

func component(t *template.Template, data interface{}) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return t.ExecuteTemplate(w, "layout", data)
	})
}

// Home renders the landing page.
func Home(d HomeData) templ.Component { return component(homePage, d) }

// Blog renders the article list.
func Blog(d BlogData) templ.Component { return component(blogPage, d) }

// Article renders a single article with its table of contents.
func Article(d ArticleData) templ.Component { return component(articlePage, d) }

// NotFound renders the 404 page.
func NotFound(l Layout) templ.Component { return component(notFoundPage, l) }

// ServerError renders the 500 page.
func ServerError(l Layout) templ.Component { return component(serverErrorPage, l) }
