package article

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/labstack/gommon/log"

	"github.com/glaido/site/markdown"
)

// DefaultDir is where the Loader looks for articles inside its file system.
const DefaultDir = "content/articles"

// Logger is the subset of echo.Logger the Loader writes to.
type Logger interface {
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
}

// LoadFailure records a document that could not be parsed.
type LoadFailure struct {
	Slug string
	Err  error
}

func (f LoadFailure) Error() string {
	return fmt.Sprintf("article %s: %v", f.Slug, f.Err)
}

func (f LoadFailure) Unwrap() error { return f.Err }

// LoadReport describes the outcome of the most recent load.
type LoadReport struct {
	Loaded []string
	Failed []LoadFailure
}

// Err joins every failure into one error, or returns nil when all documents
// loaded.
func (r LoadReport) Err() error {
	if len(r.Failed) == 0 {
		return nil
	}
	errs := make([]error, len(r.Failed))
	for i, f := range r.Failed {
		errs[i] = f
	}
	return errors.Join(errs...)
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithDir sets the directory scanned for *.md files (default DefaultDir).
func WithDir(dir string) LoaderOption {
	return func(l *Loader) {
		l.dir = dir
	}
}

// WithLogger sets where per-document failures are logged.
func WithLogger(logger Logger) LoaderOption {
	return func(l *Loader) {
		l.logger = logger
	}
}

// WithClock sets the clock used to date articles without a date.
func WithClock(now func() time.Time) LoaderOption {
	return func(l *Loader) {
		l.parser.Now = now
	}
}

// WithRenderer sets the markdown renderer.
func WithRenderer(r *markdown.Renderer) LoaderOption {
	return func(l *Loader) {
		l.parser.Renderer = r
	}
}

// Loader reads every article once and keeps the parsed, date-sorted set in
// memory until Reload or Register invalidates it. It is safe for concurrent
// use; a rebuild happens under the write lock and is published as a whole.
type Loader struct {
	fsys   fs.FS
	dir    string
	parser Parser
	logger Logger

	mu         sync.RWMutex
	registered map[string]string
	order      []string
	snap       *snapshot
}

type snapshot struct {
	articles []Article
	bySlug   map[string]int
	tags     []string
	report   LoadReport
}

// NewLoader creates a Loader reading from fsys. fsys may be nil when every
// article is supplied through Register.
func NewLoader(fsys fs.FS, opts ...LoaderOption) *Loader {
	l := &Loader{
		fsys:       fsys,
		dir:        DefaultDir,
		logger:     log.New("article"),
		registered: make(map[string]string),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// All returns every loaded article, newest first. The slice is shared between
// callers and must not be modified.
func (l *Loader) All() []Article {
	return l.ensureLoaded().articles
}

// BySlug returns the article with the given slug.
func (l *Loader) BySlug(slug string) (Article, bool) {
	s := l.ensureLoaded()
	i, ok := s.bySlug[slug]
	if !ok {
		return Article{}, false
	}
	return s.articles[i], true
}

// ByTag returns the articles carrying tag, compared case-insensitively.
// An empty tag returns All.
func (l *Loader) ByTag(tag string) []Article {
	s := l.ensureLoaded()
	if tag == "" {
		return s.articles
	}
	normalized := normalizeTag(tag)
	var filtered []Article
	for _, a := range s.articles {
		for _, t := range a.Tags {
			if normalizeTag(t) == normalized {
				filtered = append(filtered, a)
				break
			}
		}
	}
	return filtered
}

// Tags returns the sorted set of lowercased tags across all articles.
func (l *Loader) Tags() []string {
	return l.ensureLoaded().tags
}

// Report returns the outcome of the current load.
func (l *Loader) Report() LoadReport {
	return l.ensureLoaded().report
}

// Register adds or replaces a raw document and invalidates the cache. A
// registered slug takes precedence over a file with the same name.
func (l *Loader) Register(slug, raw string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.registered[slug]; !ok {
		l.order = append(l.order, slug)
	}
	l.registered[slug] = raw
	l.snap = nil
}

// Reload drops the cache; the next read parses every document again.
func (l *Loader) Reload() {
	l.mu.Lock()
	l.snap = nil
	l.mu.Unlock()
}

// ensureLoaded tries a read lock first and only takes the write lock when the
// cache has to be built.
func (l *Loader) ensureLoaded() *snapshot {
	l.mu.RLock()
	if s := l.snap; s != nil {
		l.mu.RUnlock()
		return s
	}
	l.mu.RUnlock()

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.snap == nil {
		l.snap = l.build()
	}
	return l.snap
}

type document struct {
	slug string
	raw  string
	err  error
}

func (l *Loader) build() *snapshot {
	s := &snapshot{bySlug: make(map[string]int)}

	for _, doc := range l.documents() {
		if doc.err != nil {
			l.fail(s, doc.slug, doc.err)
			continue
		}
		a, err := l.parser.Parse(doc.raw, doc.slug)
		if err != nil {
			l.fail(s, doc.slug, err)
			continue
		}
		s.articles = append(s.articles, a)
		s.report.Loaded = append(s.report.Loaded, doc.slug)
	}

	sort.SliceStable(s.articles, func(i, j int) bool {
		return s.articles[i].Published.After(s.articles[j].Published)
	})

	tagSet := make(map[string]struct{})
	for i, a := range s.articles {
		s.bySlug[a.Slug] = i
		for _, t := range a.Tags {
			if t = normalizeTag(t); t != "" {
				tagSet[t] = struct{}{}
			}
		}
	}
	for t := range tagSet {
		s.tags = append(s.tags, t)
	}
	sort.Strings(s.tags)

	l.logger.Infof("loaded %d articles (%d failed)", len(s.articles), len(s.report.Failed))
	return s
}

func (l *Loader) fail(s *snapshot, slug string, err error) {
	l.logger.Warnf("skipping article %s: %v", slug, err)
	s.report.Failed = append(s.report.Failed, LoadFailure{Slug: slug, Err: err})
}

// documents lists the files under dir followed by registered documents. A
// registered document replaces a file with the same slug in place.
func (l *Loader) documents() []document {
	var docs []document
	index := make(map[string]int)
	add := func(d document) {
		if i, ok := index[d.slug]; ok {
			docs[i] = d
			return
		}
		index[d.slug] = len(docs)
		docs = append(docs, d)
	}

	if l.fsys != nil {
		entries, err := fs.ReadDir(l.fsys, l.dir)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			add(document{slug: l.dir, err: fmt.Errorf("read dir: %w", err)})
		}
		for _, entry := range entries {
			name := entry.Name()
			if entry.IsDir() || path.Ext(name) != ".md" {
				continue
			}
			slug := strings.TrimSuffix(name, ".md")
			raw, err := fs.ReadFile(l.fsys, path.Join(l.dir, name))
			if err != nil {
				add(document{slug: slug, err: fmt.Errorf("read: %w", err)})
				continue
			}
			add(document{slug: slug, raw: string(raw)})
		}
	}

	for _, slug := range l.order {
		add(document{slug: slug, raw: l.registered[slug]})
	}
	return docs
}

func normalizeTag(t string) string {
	return strings.ToLower(strings.TrimSpace(t))
}
