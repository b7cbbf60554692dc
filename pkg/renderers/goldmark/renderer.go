// Package goldmark is the default markdown to HTML backend. It renders
// GitHub Flavored Markdown (tables, strikethrough, autolinks, task lists) plus
// footnotes through github.com/yuin/goldmark and reads its switches from the
// engine options of each call.
package goldmark

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	gm "github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmrenderer "github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/goliatone/go-mdrender/pkg/render"
	"github.com/goliatone/go-mdrender/pkg/renderers/sanitize"
)

// Name is the registry name of this backend.
const Name = "goldmark"

// ExtensionsOption is the engine option key carrying extra []gm.Extender
// values. It can only be set programmatically.
const ExtensionsOption = "extensions"

// Option configures the renderer.
type Option func(*Renderer)

// WithExtensions appends goldmark extensions applied to every call.
func WithExtensions(extensions ...gm.Extender) Option {
	return func(r *Renderer) {
		r.extensions = append(r.extensions, extensions...)
	}
}

// WithSanitizer replaces the HTML sanitizer used when sanitize is enabled.
func WithSanitizer(fn func(string) string) Option {
	return func(r *Renderer) {
		if fn != nil {
			r.sanitize = fn
		}
	}
}

// Renderer converts markdown to HTML. Engine options:
//
//	gfm         strikethrough, autolinks, task lists, footnotes (default true)
//	tables      GFM tables (default true)
//	sanitize    omit raw HTML and sanitize the output (default false)
//	breaks      render soft line breaks as <br>
//	xhtml       XHTML-style void elements
//	smartypants typographic quotes and dashes
//	pedantic    plain CommonMark, no extensions
//	headerIds   generate heading ids
type Renderer struct {
	extensions []gm.Extender
	sanitize   func(string) string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a Renderer.
func New(options ...Option) *Renderer {
	r := &Renderer{sanitize: sanitize.HTML}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r
}

// Name implements render.Renderer.
func (r *Renderer) Name() string {
	return Name
}

// Render implements render.Renderer. A fresh goldmark instance is built per
// call because extensions may differ between calls.
func (r *Renderer) Render(ctx context.Context, source string, options render.EngineOptions, _ render.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := r.markdown(options).Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("goldmark: convert: %w", err)
	}

	out := buf.String()
	if options.Bool("sanitize", false) {
		out = r.sanitize(out)
	}
	return strings.TrimSpace(out), nil
}

func (r *Renderer) markdown(options render.EngineOptions) gm.Markdown {
	var extensions []gm.Extender
	if !options.Bool("pedantic", false) {
		if options.Bool("gfm", true) {
			extensions = append(extensions,
				extension.Strikethrough,
				extension.Linkify,
				extension.TaskList,
				extension.Footnote,
			)
		}
		if options.Bool("tables", true) {
			extensions = append(extensions, extension.Table)
		}
		if options.Bool("smartypants", false) {
			extensions = append(extensions, extension.Typographer)
		}
	}
	extensions = append(extensions, r.extensions...)
	if extra, ok := options[ExtensionsOption].([]gm.Extender); ok {
		extensions = append(extensions, extra...)
	}

	var rendererOptions []gmrenderer.Option
	if !options.Bool("sanitize", false) {
		rendererOptions = append(rendererOptions, html.WithUnsafe())
	}
	if options.Bool("breaks", false) {
		rendererOptions = append(rendererOptions, html.WithHardWraps())
	}
	if options.Bool("xhtml", false) {
		rendererOptions = append(rendererOptions, html.WithXHTML())
	}

	var parserOptions []parser.Option
	if options.Bool("headerIds", false) {
		parserOptions = append(parserOptions, parser.WithAutoHeadingID())
	}

	return gm.New(
		gm.WithExtensions(extensions...),
		gm.WithParserOptions(parserOptions...),
		gm.WithRendererOptions(rendererOptions...),
	)
}
