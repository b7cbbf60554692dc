// Package terminal renders markdown as styled ANSI text via glamour. It backs
// the preview command and can be selected for any pass whose output is meant
// for a terminal rather than a browser.
package terminal

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/goliatone/go-mdrender/pkg/render"
)

// Name is the registry name of this backend.
const Name = "terminal"

const (
	defaultStyle    = "auto"
	defaultWordWrap = 80
)

// Renderer reads the style ("auto" or a glamour standard style such as dark,
// light, notty, ascii) and wordWrap engine options.
type Renderer struct {
	style    string
	wordWrap int
}

var _ render.Renderer = (*Renderer)(nil)

// Option configures the renderer defaults; engine options still win.
type Option func(*Renderer)

// WithStyle sets the default glamour style.
func WithStyle(style string) Option {
	return func(r *Renderer) {
		if trimmed := strings.TrimSpace(style); trimmed != "" {
			r.style = trimmed
		}
	}
}

// WithWordWrap sets the default wrap column.
func WithWordWrap(width int) Option {
	return func(r *Renderer) {
		if width > 0 {
			r.wordWrap = width
		}
	}
}

// New constructs a Renderer.
func New(options ...Option) *Renderer {
	r := &Renderer{style: defaultStyle, wordWrap: defaultWordWrap}
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

// Render implements render.Renderer. glamour term renderers hold buffers, so
// one is built per call.
func (r *Renderer) Render(ctx context.Context, source string, options render.EngineOptions, _ render.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	termOptions := []glamour.TermRendererOption{
		glamour.WithWordWrap(options.Int("wordWrap", r.wordWrap)),
	}
	if style := options.String("style", r.style); style == defaultStyle {
		termOptions = append(termOptions, glamour.WithAutoStyle())
	} else {
		termOptions = append(termOptions, glamour.WithStandardStyle(style))
	}

	tr, err := glamour.NewTermRenderer(termOptions...)
	if err != nil {
		return "", fmt.Errorf("terminal: new renderer: %w", err)
	}
	out, err := tr.Render(source)
	if err != nil {
		return "", fmt.Errorf("terminal: render: %w", err)
	}
	return strings.TrimSpace(out), nil
}
