// Package site serves the Glaido marketing site: the landing page, the blog
// built from markdown articles, lead capture, and the SEO surface (sitemap,
// feed, robots.txt, structured data).
//
// Handlers render through the ViewFuncs struct so the page templates can be
// replaced without touching the handler logic.
package site

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"github.com/glaido/site/article"
	"github.com/glaido/site/livereload"
	"github.com/glaido/site/markdown"
	"github.com/glaido/site/views"
)

// ViewFuncs holds the components the handlers render.
type ViewFuncs struct {
	Home        func(views.HomeData) templ.Component
	Blog        func(views.BlogData) templ.Component
	Article     func(views.ArticleData) templ.Component
	NotFound    func(views.Layout) templ.Component
	ServerError func(views.Layout) templ.Component
}

// DefaultViews returns the embedded page templates.
func DefaultViews() ViewFuncs {
	return ViewFuncs{
		Home:        views.Home,
		Blog:        views.Blog,
		Article:     views.Article,
		NotFound:    views.NotFound,
		ServerError: views.ServerError,
	}
}

// App wires together the article loader, lead client, handlers, middleware,
// and views.
type App struct {
	Config   SiteConfig
	Echo     *echo.Echo
	Articles *article.Loader
	Leads    *LeadClient
	Views    ViewFuncs

	leadLimiter  *RateLimiter
	hub          *livereload.Hub
	watcher      *livereload.Watcher
	customRoutes []func(*App)
	contentFS    fs.FS
	httpClient   *http.Client
	setupOnce    sync.Once
}

// New creates an App with the given configuration.
func New(cfg SiteConfig, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Views:     DefaultViews(),
		contentFS: Content,
	}
	a.Echo.HideBanner = true
	a.Echo.Logger.SetPrefix("site")
	if cfg.Dev {
		a.Echo.Logger.SetLevel(log.DEBUG)
	} else {
		a.Echo.Logger.SetLevel(log.INFO)
	}

	for _, opt := range opts {
		opt(a)
	}

	var renderOpts []markdown.Option
	if cfg.Sanitize {
		renderOpts = append(renderOpts, markdown.WithSanitizer())
	}
	loaderOpts := []article.LoaderOption{
		article.WithLogger(a.Echo.Logger),
		article.WithRenderer(markdown.NewRenderer(renderOpts...)),
	}
	contentFS := a.contentFS
	if cfg.ContentDir != "" {
		contentFS = os.DirFS(cfg.ContentDir)
		loaderOpts = append(loaderOpts, article.WithDir("."))
	}
	a.Articles = article.NewLoader(contentFS, loaderOpts...)

	client := a.httpClient
	if client == nil {
		client = &http.Client{Timeout: cfg.LeadTimeout}
	}
	a.Leads = NewLeadClient(cfg.LeadWebhookURL, client, a.Echo.Logger)
	a.leadLimiter = NewRateLimiter(cfg.LeadRateLimit, cfg.LeadRateWindow)

	return a
}

// Handler sets up middleware and routes once and returns the HTTP handler.
func (a *App) Handler() http.Handler {
	a.setupOnce.Do(func() {
		a.setupMiddleware()
		a.setupRoutes()
		for _, fn := range a.customRoutes {
			fn(a)
		}
	})
	return a.Echo
}

// Start validates the configuration, loads the articles, and serves until
// the server is shut down.
func (a *App) Start() error {
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("site: SessionSecret is required")
	}

	report := a.Articles.Report()
	a.Echo.Logger.Infof("articles: %d loaded, %d failed", len(report.Loaded), len(report.Failed))

	if a.Config.Dev {
		if err := a.startDev(); err != nil {
			return fmt.Errorf("site: dev mode: %w", err)
		}
	}

	a.Handler()
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// startDev watches the content directory and pushes a reload to connected
// browsers after the articles are reparsed.
func (a *App) startDev() error {
	a.hub = livereload.NewHub(a.Echo.Logger)
	if a.Config.ContentDir == "" {
		a.Echo.Logger.Warn("dev mode without ContentDir: articles are embedded, nothing to watch")
		return nil
	}
	w, err := livereload.Watch(a.Config.ContentDir, 300*time.Millisecond, a.Echo.Logger, func(name string) {
		a.Echo.Logger.Infof("change detected in %s, reloading articles", name)
		a.Articles.Reload()
		a.hub.Broadcast(livereload.ReloadMessage)
	})
	if err != nil {
		return err
	}
	a.watcher = w
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	public := a.publicFS()
	e.StaticFS("/public", public)
	// Default share images are referenced from the site root.
	for _, name := range rootAssets {
		e.FileFS("/"+name, name, public)
	}
	e.GET("/favicon.ico", func(c echo.Context) error {
		return c.Redirect(http.StatusMovedPermanently, "/public/favicon.svg")
	})
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)

	e.GET("/", a.handleHome)
	e.GET("/blog", a.handleBlog)
	e.GET("/blog/:slug", a.handleArticle)

	e.POST("/api/leads", a.handleLead)

	if a.hub != nil {
		e.GET(livereload.Path, echo.WrapHandler(a.hub))
	}
}

// rootAssets are the files under public also served at the site root.
var rootAssets = []string{"og-image.png", "blog-default.png"}

func (a *App) publicFS() fs.FS {
	if a.Config.StaticDir != "" {
		return os.DirFS(a.Config.StaticDir)
	}
	return echo.MustSubFS(Assets, "public")
}

// Shutdown stops the server gracefully and releases background resources.
func (a *App) Shutdown(ctx context.Context) error {
	err := a.Echo.Shutdown(ctx)
	a.Close()
	return err
}

// Close stops background goroutines. Call this when the app is shutting down.
func (a *App) Close() error {
	a.leadLimiter.Stop()
	if a.watcher != nil {
		a.watcher.Close()
	}
	if a.hub != nil {
		a.hub.Close()
	}
	return nil
}
