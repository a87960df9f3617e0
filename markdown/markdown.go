// Package markdown renders article bodies to HTML and derives heading anchors.
package markdown

import (
	"bytes"
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Renderer converts markdown to HTML with GitHub-flavored extensions and
// hard line breaks. Every heading gets an id attribute derived by Slugify.
// A Renderer is safe for concurrent use.
type Renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithSanitizer filters rendered HTML through the bluemonday UGC policy.
// Heading ids are kept.
func WithSanitizer() Option {
	return func(r *Renderer) {
		r.policy = bluemonday.UGCPolicy()
	}
}

// NewRenderer builds a Renderer.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(
				parser.WithASTTransformers(
					util.Prioritized(headingIDTransformer{}, 100),
				),
			),
			goldmark.WithRendererOptions(
				html.WithHardWraps(),
				html.WithUnsafe(),
			),
		),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render converts body to HTML.
func (r *Renderer) Render(body string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(body), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	if r.policy != nil {
		return string(r.policy.SanitizeBytes(buf.Bytes())), nil
	}
	return buf.String(), nil
}

var defaultRenderer = NewRenderer()

// Render converts body to HTML using the default, unsanitized Renderer.
func Render(body string) (string, error) {
	return defaultRenderer.Render(body)
}

// headingIDTransformer stamps an id on every heading. The id is computed from
// the heading's raw source text, the same text ExtractHeadings sees, so table
// of contents links always resolve.
type headingIDTransformer struct{}

func (headingIDTransformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	source := reader.Source()
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		h.SetAttributeString("id", []byte(Slugify(rawText(h, source))))
		return ast.WalkSkipChildren, nil
	})
}

func rawText(n ast.Node, source []byte) string {
	var b bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(source))
	}
	return b.String()
}
