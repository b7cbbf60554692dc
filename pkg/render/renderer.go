package render

import (
	"context"

	"github.com/goliatone/go-mdrender/pkg/keypath"
)

// MetadataTarget labels render passes over the shared metadata tree. Contexts
// built for it carry only the key.
const MetadataTarget = "metadata()"

// ContentsKey is the key reported for a document's primary content.
const ContentsKey = "contents"

// Renderer transforms one string value. Implementations must be safe for
// concurrent use: the scheduler calls Render from several goroutines.
type Renderer interface {
	Name() string
	Render(ctx context.Context, source string, options EngineOptions, rc Context) (string, error)
}

// Context identifies the target and field a Render call operates on.
type Context struct {
	// Path is the document identifier. Empty for the metadata tree.
	Path string
	// Key is the resolved field path inside the target.
	Key keypath.Path
	// Metadata is set when the target is the shared metadata tree.
	Metadata bool
}

// NewContext builds the context for a field of the target labelled label.
func NewContext(label string, key keypath.Path) Context {
	if label == MetadataTarget {
		return Context{Key: key, Metadata: true}
	}
	return Context{Path: label, Key: key}
}

// RendererFunc adapts a plain function to the Renderer interface.
type RendererFunc func(ctx context.Context, source string, options EngineOptions, rc Context) (string, error)

// Name reports "custom"; use Named to give the function a registry name.
func (f RendererFunc) Name() string {
	return "custom"
}

// Render calls f.
func (f RendererFunc) Render(ctx context.Context, source string, options EngineOptions, rc Context) (string, error) {
	return f(ctx, source, options, rc)
}

type namedRenderer struct {
	name string
	RendererFunc
}

func (n namedRenderer) Name() string {
	return n.name
}

// Named wraps fn in a Renderer registered under name.
func Named(name string, fn RendererFunc) Renderer {
	return namedRenderer{name: name, RendererFunc: fn}
}
