package site

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/glaido/site/seo"
	"github.com/glaido/site/views"
)

// SiteConfig holds all configuration for the site. It is read from site.yaml,
// then overridden by environment variables (a .env file is honored).
type SiteConfig struct {
	Name        string   `yaml:"name"`        // default "Glaido"
	URL         string   `yaml:"url"`         // canonical URL, default "https://glaido.com"
	Description string   `yaml:"description"` // used by the feed and Organization schema
	Logo        string   `yaml:"logo"`
	SameAs      []string `yaml:"sameAs"`

	Addr       string `yaml:"addr"`       // default ":3000"
	ContentDir string `yaml:"contentDir"` // read articles from disk instead of the embedded set
	StaticDir  string `yaml:"staticDir"`  // serve /public from disk instead of the embedded assets
	Dev        bool   `yaml:"dev"`        // watch ContentDir and live-reload pages
	Sanitize   bool   `yaml:"sanitize"`   // filter rendered articles through bluemonday

	LeadWebhookURL string        `yaml:"leadWebhookURL"`
	LeadRateLimit  int           `yaml:"leadRateLimit"`  // submissions per window per IP, default 5
	LeadRateWindow time.Duration `yaml:"leadRateWindow"` // default 1m
	LeadTimeout    time.Duration `yaml:"leadTimeout"`    // webhook request timeout, default 10s

	SessionSecret string `yaml:"-"` // required
	CookieSecure  bool   `yaml:"cookieSecure"`

	Pages        seo.Pages           `yaml:"pages"`
	ValueProps   []views.ValueProp   `yaml:"valueProps"`
	Testimonials []views.Testimonial `yaml:"testimonials"`
	FAQs         []seo.FAQ           `yaml:"faqs"`
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Glaido"
	}
	if c.URL == "" {
		c.URL = "https://glaido.com"
	}
	c.URL = strings.TrimSuffix(c.URL, "/")
	if c.Logo == "" {
		c.Logo = "/public/logo.svg"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.LeadRateLimit == 0 {
		c.LeadRateLimit = 5
	}
	if c.LeadRateWindow == 0 {
		c.LeadRateWindow = time.Minute
	}
	if c.LeadTimeout == 0 {
		c.LeadTimeout = 10 * time.Second
	}
}

func (c SiteConfig) seoSite() seo.Site {
	return seo.Site{
		Name:        c.Name,
		URL:         c.URL,
		Description: c.Description,
		Logo:        c.Logo,
		SameAs:      c.SameAs,
	}
}

// LoadConfig reads the YAML file at path, when it exists, and applies
// environment overrides on top.
func LoadConfig(path string) (SiteConfig, error) {
	var cfg SiteConfig
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return SiteConfig{}, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return SiteConfig{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return SiteConfig{}, fmt.Errorf("load .env: %w", err)
	}
	if err := cfg.applyEnv(); err != nil {
		return SiteConfig{}, err
	}
	cfg.setDefaults()
	return cfg, nil
}

func (c *SiteConfig) applyEnv() error {
	strs := map[string]*string{
		"SITE_NAME":        &c.Name,
		"SITE_URL":         &c.URL,
		"SITE_DESCRIPTION": &c.Description,
		"ADDR":             &c.Addr,
		"CONTENT_DIR":      &c.ContentDir,
		"STATIC_DIR":       &c.StaticDir,
		"LEAD_WEBHOOK_URL": &c.LeadWebhookURL,
		"SESSION_SECRET":   &c.SessionSecret,
	}
	for key, dst := range strs {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	bools := map[string]*bool{
		"DEV":           &c.Dev,
		"SANITIZE":      &c.Sanitize,
		"COOKIE_SECURE": &c.CookieSecure,
	}
	for key, dst := range bools {
		v := os.Getenv(key)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = b
	}
	if v := os.Getenv("LEAD_RATE_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("LEAD_RATE_LIMIT: %w", err)
		}
		c.LeadRateLimit = n
	}
	return nil
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithViews replaces the default page views.
func WithViews(v ViewFuncs) Option {
	return func(a *App) {
		a.Views = v
	}
}

// WithContentFS sets where articles are read from. The file system must hold
// the articles under content/articles.
func WithContentFS(fsys fs.FS) Option {
	return func(a *App) {
		a.contentFS = fsys
	}
}

// WithHTTPClient sets the client used to deliver leads to the webhook.
func WithHTTPClient(client *http.Client) Option {
	return func(a *App) {
		a.httpClient = client
	}
}
