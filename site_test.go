package site

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/labstack/echo/v4"

	"github.com/glaido/site/seo"
)

var testArticles = fstest.MapFS{
	"content/articles/why-keyboards-are-dead.md": {Data: []byte(`---
title: "Why Keyboards Are Dead"
description: "Speaking beats typing."
date: "2024-03-01"
tags: ["voice typing", "productivity"]
---
# Intro
Some text...
## Details
More text`)},
	"content/articles/getting-started.md": {Data: []byte(`---
title: "Getting Started"
date: "2024-01-20"
tags: ["voice typing", "guide"]
---
Hello.`)},
	"content/articles/go-faster.md": {Data: []byte(`---
title: "Go Faster"
date: "2024-02-01"
tags: ["productivity"]
---
Faster.`)},
	"content/articles/unrelated.md": {Data: []byte(`---
title: "Company News"
date: "2023-12-01"
tags: ["news"]
---
News.`)},
}

func newTestApp(t *testing.T, cfg SiteConfig, opts ...Option) *App {
	t.Helper()
	if cfg.SessionSecret == "" {
		cfg.SessionSecret = "test-secret"
	}
	opts = append([]Option{WithContentFS(testArticles)}, opts...)
	a := New(cfg, opts...)
	t.Cleanup(func() { a.Close() })
	return a
}

func do(a *App, method, target string, body string, header http.Header, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for k, v := range header {
		req.Header[k] = v
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, req)
	return rec
}

func get(a *App, target string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	return do(a, http.MethodGet, target, "", nil, cookies...)
}

func TestHomePage(t *testing.T) {
	a := newTestApp(t, SiteConfig{})
	rec := get(a, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"Write 5x faster in every app",
		"<title>Voice typing that keeps up with you | Glaido</title>",
		`<link rel="canonical" href="https://glaido.com/">`,
		`"@type":"Organization"`,
		`action="/api/leads"`,
		"Why Keyboards Are Dead",
		"Go Faster",
		"Getting Started",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("home page missing %q", want)
		}
	}
	if strings.Contains(body, "Company News") {
		t.Error("home page should list only the three latest articles")
	}
	if got := rec.Header().Get("Cache-Control"); got != "no-store" {
		t.Errorf("Cache-Control = %q, want no-store", got)
	}
}

func TestHomePageUsesPageMetadata(t *testing.T) {
	a := newTestApp(t, SiteConfig{})
	a.Config.Pages = seo.Pages{"/": {H1: "Talk, don't type", Title: "Glaido Voice"}}
	body := get(a, "/").Body.String()
	if !strings.Contains(body, "Talk, don&#39;t type") {
		t.Error("expected H1 from page metadata")
	}
	if !strings.Contains(body, "<title>Glaido Voice | Glaido</title>") {
		t.Error("expected title from page metadata")
	}
}

func TestHomePageFAQ(t *testing.T) {
	a := newTestApp(t, SiteConfig{FAQs: []seo.FAQ{
		{Question: "Which apps does it work in?", Answer: "Every app where you can type."},
	}})
	body := get(a, "/").Body.String()
	for _, want := range []string{
		`<section id="faq" class="faq">`,
		"Which apps does it work in?",
		`"@type":"FAQPage"`,
		`"acceptedAnswer":{"@type":"Answer","text":"Every app where you can type."}`,
		`<a href="/#faq">FAQ</a>`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("home page missing %q", want)
		}
	}

	plain := newTestApp(t, SiteConfig{})
	body = get(plain, "/").Body.String()
	if strings.Contains(body, "FAQPage") || strings.Contains(body, `id="faq"`) {
		t.Error("home page without questions should not render an FAQ")
	}
}

func TestPageKeywords(t *testing.T) {
	a := newTestApp(t, SiteConfig{})
	a.Config.Pages = seo.Pages{"/": {Title: "Glaido Voice", Keywords: []string{"voice typing", "dictation"}}}
	body := get(a, "/").Body.String()
	if !strings.Contains(body, `<meta name="keywords" content="voice typing, dictation">`) {
		t.Error("home page should emit keywords from page metadata")
	}

	body = get(a, "/blog/why-keyboards-are-dead").Body.String()
	if !strings.Contains(body, `<meta name="keywords" content="voice typing, productivity">`) {
		t.Error("article page should emit its tags as keywords")
	}
}

func TestBlogIndex(t *testing.T) {
	a := newTestApp(t, SiteConfig{})
	body := get(a, "/blog").Body.String()

	order := []string{"Why Keyboards Are Dead", "Go Faster", "Getting Started", "Company News"}
	last := -1
	for _, title := range order {
		i := strings.Index(body, title)
		if i < 0 {
			t.Fatalf("blog index missing %q", title)
		}
		if i < last {
			t.Errorf("%q out of date order", title)
		}
		last = i
	}
	if strings.Contains(body, "noindex") {
		t.Error("unfiltered index should be indexable")
	}
}

func TestBlogTagFilter(t *testing.T) {
	a := newTestApp(t, SiteConfig{})
	body := get(a, "/blog?tag=Productivity").Body.String()

	if !strings.Contains(body, "Why Keyboards Are Dead") || !strings.Contains(body, "Go Faster") {
		t.Error("filtered index should list productivity articles")
	}
	if strings.Contains(body, "Company News") {
		t.Error("filtered index should hide other tags")
	}
	if !strings.Contains(body, "noindex,nofollow") {
		t.Error("filtered index should be noindex")
	}
	if !strings.Contains(body, "tag tag-active") {
		t.Error("active tag should be highlighted")
	}
}

func TestArticlePage(t *testing.T) {
	a := newTestApp(t, SiteConfig{})
	rec := get(a, "/blog/why-keyboards-are-dead")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		`<h1 id="intro">Intro</h1>`,
		`<h2 id="details">Details</h2>`,
		`href="#details"`,
		`<meta property="og:type" content="article">`,
		`<meta property="article:published_time" content="2024-03-01T00:00:00Z">`,
		`<meta property="og:image" content="https://glaido.com/blog-default.png">`,
		`"@type":"BreadcrumbList"`,
		"Related articles",
		"Go Faster",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("article page missing %q", want)
		}
	}
}

func TestArticleNotFound(t *testing.T) {
	a := newTestApp(t, SiteConfig{})
	rec := get(a, "/blog/does-not-exist")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Page not found") || !strings.Contains(body, "noindex,nofollow") {
		t.Error("404 page should render the not found view with noindex")
	}
}

func TestUnknownRouteNotFound(t *testing.T) {
	a := newTestApp(t, SiteConfig{})
	if rec := get(a, "/pricing"); rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestTrailingSlashRedirect(t *testing.T) {
	a := newTestApp(t, SiteConfig{})
	rec := get(a, "/blog/")
	if rec.Code != http.StatusMovedPermanently {
		t.Fatalf("status = %d, want 301", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/blog" {
		t.Errorf("Location = %q, want /blog", loc)
	}
}

func TestRegisteredArticleIsServed(t *testing.T) {
	a := newTestApp(t, SiteConfig{})
	a.Articles.All()
	a.Articles.Register("fresh", "---\ntitle: Fresh\ndate: 2025-01-01\n---\nNew.")
	if rec := get(a, "/blog/fresh"); rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestSitemapRoute(t *testing.T) {
	a := newTestApp(t, SiteConfig{URL: "https://example.com/"})
	rec := get(a, "/sitemap.xml")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/xml") {
		t.Errorf("Content-Type = %q", ct)
	}
	body := rec.Body.String()
	if got := strings.Count(body, "<url>"); got != 6 {
		t.Errorf("got %d urls, want 6", got)
	}
	if !strings.Contains(body, "<loc>https://example.com/blog/go-faster</loc>") {
		t.Error("sitemap should use the configured URL")
	}
}

func TestFeedRoute(t *testing.T) {
	a := newTestApp(t, SiteConfig{})
	rec := get(a, "/feed.xml")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/rss+xml") {
		t.Errorf("Content-Type = %q", ct)
	}
	if got := strings.Count(rec.Body.String(), "<item>"); got != 4 {
		t.Errorf("got %d items, want 4", got)
	}
}

func TestRobots(t *testing.T) {
	a := newTestApp(t, SiteConfig{})
	body := get(a, "/robots.txt").Body.String()
	if !strings.Contains(body, "Sitemap: https://glaido.com/sitemap.xml") {
		t.Errorf("robots.txt = %q", body)
	}
}

func TestStaticAssets(t *testing.T) {
	a := newTestApp(t, SiteConfig{})
	for _, path := range []string{"/public/styles.css", "/public/favicon.svg", "/og-image.png", "/blog-default.png"} {
		rec := get(a, path)
		if rec.Code != http.StatusOK {
			t.Errorf("%s: status = %d, want 200", path, rec.Code)
		}
	}
	rec := get(a, "/public/styles.css")
	if got := rec.Header().Get("Cache-Control"); !strings.Contains(got, "immutable") {
		t.Errorf("Cache-Control = %q, want immutable", got)
	}
}

func TestDevModeDisablesCaching(t *testing.T) {
	a := newTestApp(t, SiteConfig{Dev: true})
	if got := get(a, "/blog").Header().Get("Cache-Control"); got != "no-store" {
		t.Errorf("Cache-Control = %q, want no-store", got)
	}
}

func TestStartRequiresSessionSecret(t *testing.T) {
	a := New(SiteConfig{}, WithContentFS(testArticles))
	defer a.Close()
	if err := a.Start(); err == nil {
		t.Fatal("expected Start to fail without a session secret")
	}
}

func TestCustomRoutes(t *testing.T) {
	a := newTestApp(t, SiteConfig{}, WithCustomRoutes(func(a *App) {
		a.Echo.GET("/ping", func(c echo.Context) error { return c.String(http.StatusOK, "pong") })
	}))
	if body := get(a, "/ping").Body.String(); body != "pong" {
		t.Errorf("body = %q, want pong", body)
	}
}

func cookieNamed(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func formBody(vals map[string]string) string {
	form := url.Values{}
	for k, v := range vals {
		form.Set(k, v)
	}
	return form.Encode()
}
