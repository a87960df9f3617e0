package views

import (
	"github.com/glaido/site/article"
	"github.com/glaido/site/markdown"
	"github.com/glaido/site/seo"
)

// Layout is shared by every page.
type Layout struct {
	Head      seo.Head
	JSONLD    []string
	SiteName  string
	CSRFToken string
	Dev       bool // inject the live-reload client
}

// Testimonial is a customer quote on the landing page.
type Testimonial struct {
	Quote  string `yaml:"quote"`
	Name   string `yaml:"name"`
	Role   string `yaml:"role"`
	Avatar string `yaml:"avatar"`
}

// ValueProp is one benefit card on the landing page.
type ValueProp struct {
	Title string `yaml:"title"`
	Body  string `yaml:"body"`
}

// HomeData feeds the landing page.
type HomeData struct {
	Layout
	H1            string
	Subheading    string
	ValueProps    []ValueProp
	Testimonials  []Testimonial
	FAQs          []seo.FAQ
	Latest        []article.Article
	LeadSubmitted bool
	LeadName      string // first name of the visitor who just signed up
	LeadError     string
}

// BlogData feeds the article list.
type BlogData struct {
	Layout
	H1        string
	Articles  []article.Article
	Tags      []string
	ActiveTag string
}

// ArticleData feeds a single article.
type ArticleData struct {
	Layout
	Article  article.Article
	Headings []markdown.Heading
	Related  []article.Article
	Crumbs   []seo.Crumb
}
