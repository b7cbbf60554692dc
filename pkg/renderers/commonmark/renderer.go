// Package commonmark is the fast markdown backend: CommonMark with optional
// GFM and nothing else. Converters are built once per option combination and
// shared between calls.
package commonmark

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"

	gm "github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/goliatone/go-mdrender/pkg/render"
	"github.com/goliatone/go-mdrender/pkg/renderers/sanitize"
)

// Name is the registry name of this backend.
const Name = "commonmark"

// LegacyAlias is the backend name older configurations used for the fast path.
const LegacyAlias = "micromark"

type variant struct {
	gfm      bool
	sanitize bool
}

// Renderer reads only the gfm (default true) and sanitize (default false)
// engine options. Raw HTML in the source is always omitted.
type Renderer struct {
	mu         sync.Mutex
	converters map[variant]gm.Markdown
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a Renderer.
func New() *Renderer {
	return &Renderer{converters: make(map[variant]gm.Markdown, 4)}
}

// Name implements render.Renderer.
func (r *Renderer) Name() string {
	return Name
}

// Render implements render.Renderer.
func (r *Renderer) Render(ctx context.Context, source string, options render.EngineOptions, _ render.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	v := variant{
		gfm:      options.Bool("gfm", true),
		sanitize: options.Bool("sanitize", false),
	}

	var buf bytes.Buffer
	if err := r.converter(v).Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("commonmark: convert: %w", err)
	}

	out := buf.String()
	if v.sanitize {
		out = sanitize.HTML(out)
	}
	return strings.TrimSpace(out), nil
}

func (r *Renderer) converter(v variant) gm.Markdown {
	r.mu.Lock()
	defer r.mu.Unlock()

	if md, ok := r.converters[v]; ok {
		return md
	}

	var options []gm.Option
	if v.gfm {
		options = append(options, gm.WithExtensions(extension.GFM))
	}
	md := gm.New(options...)
	r.converters[v] = md
	return md
}
