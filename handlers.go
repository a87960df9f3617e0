package site

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/glaido/site/article"
	"github.com/glaido/site/seo"
	"github.com/glaido/site/views"
)

const latestOnHome = 3

// layout builds the shared page frame for route.
func (a *App) layout(c echo.Context, meta seo.PageMeta, jsonld ...string) views.Layout {
	return views.Layout{
		Head:      seo.Resolve(a.Config.seoSite(), meta),
		JSONLD:    jsonld,
		SiteName:  a.Config.Name,
		CSRFToken: CsrfToken(c),
		Dev:       a.hub != nil,
	}
}

func (a *App) pageMeta(route string, fallback seo.PageMeta) (seo.PageMeta, string) {
	site := a.Config.seoSite()
	meta := a.Config.Pages.PageMeta(site, route, fallback)
	h1 := ""
	if m, ok := a.Config.Pages.Lookup(route); ok {
		h1 = m.H1
	}
	return meta, h1
}

func (a *App) handleHome(c echo.Context) error {
	site := a.Config.seoSite()
	meta, h1 := a.pageMeta("/", seo.PageMeta{
		Title:       "Voice typing that keeps up with you",
		Description: a.Config.Description,
		Canonical:   seo.BuildURL(site.URL),
	})
	if h1 == "" {
		h1 = "Write 5x faster in every app"
	}

	latest := a.Articles.All()
	if len(latest) > latestOnHome {
		latest = latest[:latestOnHome]
	}

	jsonld := []string{seo.OrganizationJSONLD(site), seo.WebSiteJSONLD(site)}
	if len(a.Config.FAQs) > 0 {
		jsonld = append(jsonld, seo.FAQJSONLD(a.Config.FAQs))
	}
	data := views.HomeData{
		Layout:       a.layout(c, meta, jsonld...),
		H1:           h1,
		Subheading:   a.Config.Description,
		ValueProps:   a.Config.ValueProps,
		Testimonials: a.Config.Testimonials,
		FAQs:         a.Config.FAQs,
		Latest:       latest,
		LeadError:    popFlash(c, flashLeadError),
	}
	if name := popFlash(c, flashLead); name != "" {
		data.LeadSubmitted = true
		data.LeadName = name
	}
	return Render(c, a.Views.Home(data))
}

func (a *App) handleBlog(c echo.Context) error {
	site := a.Config.seoSite()
	tag := strings.ToLower(strings.TrimSpace(c.QueryParam("tag")))

	meta, h1 := a.pageMeta("/blog", seo.PageMeta{
		Title:       "Blog",
		Description: "Tips, guides, and news about voice typing from the " + a.Config.Name + " team.",
		Canonical:   seo.BuildURL(site.URL, "blog"),
	})
	if h1 == "" {
		h1 = "Blog"
	}

	articles := a.Articles.ByTag(tag)
	if tag != "" {
		// Filtered views duplicate the index.
		meta.NoIndex = true
	}

	crumbs := []seo.Crumb{
		{Name: "Home", URL: seo.BuildURL(site.URL)},
		{Name: "Blog", URL: seo.BuildURL(site.URL, "blog")},
	}
	return Render(c, a.Views.Blog(views.BlogData{
		Layout:    a.layout(c, meta, seo.BreadcrumbJSONLD(crumbs)),
		H1:        h1,
		Articles:  articles,
		Tags:      a.Articles.Tags(),
		ActiveTag: tag,
	}))
}

func (a *App) handleArticle(c echo.Context) error {
	slug := c.Param("slug")
	art, ok := a.Articles.BySlug(slug)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound)
	}

	site := a.Config.seoSite()
	canonical := seo.BuildURL(site.URL, "blog", art.Slug)
	meta := seo.PageMeta{
		Title:       art.Title,
		Description: art.Description,
		Canonical:   canonical,
		OGImage:     art.Image,
		OGType:      "article",
		Keywords:    art.Tags,
		Article: &seo.ArticleMeta{
			PublishedTime: art.Published.UTC().Format(time.RFC3339),
			Author:        art.Author,
			Tags:          art.Tags,
		},
	}
	crumbs := []seo.Crumb{
		{Name: "Home", URL: seo.BuildURL(site.URL)},
		{Name: "Blog", URL: seo.BuildURL(site.URL, "blog")},
		{Name: art.Title, URL: canonical},
	}

	return Render(c, a.Views.Article(views.ArticleData{
		Layout:   a.layout(c, meta, seo.ArticleJSONLD(site, art), seo.BreadcrumbJSONLD(crumbs)),
		Article:  art,
		Headings: art.Headings(),
		Related:  article.Related(art.Slug, a.Articles.All(), article.DefaultRelatedLimit),
		Crumbs:   crumbs,
	}))
}

func (a *App) handleSitemap(c echo.Context) error {
	out, err := GenerateSitemap(a.Config.URL, a.Articles.All())
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "application/xml; charset=utf-8", []byte(out))
}

func (a *App) handleFeed(c echo.Context) error {
	out, err := GenerateFeed(a.Config, a.Articles.All())
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "application/rss+xml; charset=utf-8", []byte(out))
}

func (a *App) handleRobots(c echo.Context) error {
	body := fmt.Sprintf("User-agent: *\nAllow: /\nDisallow: /api/\n\nSitemap: %s\n",
		seo.BuildURL(a.Config.URL, "sitemap.xml"))
	return c.String(http.StatusOK, body)
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		layout := a.layout(c, seo.PageMeta{
			Title:       "Page not found",
			Description: "The page you are looking for does not exist.",
			NoIndex:     true,
		})
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound(layout))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		layout := a.layout(c, seo.PageMeta{Title: "Something went wrong", NoIndex: true})
		_ = RenderStatus(c, code, a.Views.ServerError(layout))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
