package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-mdrender/pkg/config"
	"github.com/goliatone/go-mdrender/pkg/document"
	"github.com/goliatone/go-mdrender/pkg/keypath"
	"github.com/goliatone/go-mdrender/pkg/render"
)

// DefaultOutputExtension replaces the extension of every rendered document.
const DefaultOutputExtension = ".html"

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithRegistry injects the registry backends are resolved from.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithRenderer sets a custom renderer. It takes precedence over the backend.
func WithRenderer(renderer render.Renderer) Option {
	return func(o *Orchestrator) {
		o.renderer = renderer
	}
}

// WithBackend selects a registered backend by name or alias.
func WithBackend(name string) Option {
	return func(o *Orchestrator) {
		o.backend = name
	}
}

// WithKeys sets the document and metadata keypaths to render.
func WithKeys(keys config.Keys) Option {
	return func(o *Orchestrator) {
		o.keys = keys
	}
}

// WithWildcard enables wildcard expansion of keypaths using token.
func WithWildcard(token string) Option {
	return func(o *Orchestrator) {
		o.wildcard = token
	}
}

// WithGlobalRefs sets inline reference definitions prepended to every value.
func WithGlobalRefs(refs map[string]string) Option {
	return func(o *Orchestrator) {
		o.refs = refs
		o.refsPath = ""
	}
}

// WithGlobalRefsPath reads reference definitions from the metadata tree at
// the given dot-delimited keypath when a pass starts.
func WithGlobalRefsPath(path string) Option {
	return func(o *Orchestrator) {
		o.refsPath = path
		o.refs = nil
	}
}

// WithEngineOptions sets the options forwarded to the renderer.
func WithEngineOptions(options render.EngineOptions) Option {
	return func(o *Orchestrator) {
		o.engineOptions = options.Clone()
	}
}

// WithLogger routes diagnostics to logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithPattern sets the doublestar glob selecting documents to render.
func WithPattern(pattern string) Option {
	return func(o *Orchestrator) {
		o.pattern = pattern
	}
}

// WithConcurrency bounds in-flight documents and in-flight Render calls per
// target. Values below one leave both unbounded.
func WithConcurrency(n int) Option {
	return func(o *Orchestrator) {
		o.concurrency = n
	}
}

// WithOutputExtension overrides the extension given to rendered documents.
func WithOutputExtension(ext string) Option {
	return func(o *Orchestrator) {
		o.outputExt = ext
	}
}

// Orchestrator renders document collections and their metadata. It holds no
// per-pass state and may run several passes concurrently.
type Orchestrator struct {
	registry      *render.Registry
	renderer      render.Renderer
	backend       string
	keys          config.Keys
	wildcard      string
	refs          map[string]string
	refsPath      string
	engineOptions render.EngineOptions
	logger        *zap.Logger
	pattern       string
	concurrency   int
	outputExt     string
}

// New constructs an Orchestrator. Without WithRegistry the built-in backends
// are available and goldmark is used by default.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		engineOptions: render.EngineOptions{},
		logger:        zap.NewNop(),
		outputExt:     DefaultOutputExtension,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	if o.registry == nil {
		o.registry = DefaultRegistry()
	}
	return o
}

// Process renders every document of files matching the pattern and then the
// metadata keys of metadata. files is modified in place: rendered documents
// move to their output identifier.
//
// Renderer errors are returned unchanged. Documents processed before the
// failure keep their rendered content and new identifier, and the metadata
// pass does not run.
func (o *Orchestrator) Process(ctx context.Context, files document.Collection, metadata any) error {
	if ctx == nil {
		return errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	logger := o.logger.With(zap.String("pass", uuid.NewString()))

	renderer, err := o.resolveRenderer()
	if err != nil {
		return err
	}

	prefix, err := o.prefix(metadata)
	if err != nil {
		return err
	}

	matcher, err := document.NewMatcher(o.pattern)
	if err != nil {
		return fmt.Errorf("orchestrator: %w", err)
	}

	scheduler := render.NewScheduler(renderer,
		render.WithEngineOptions(o.engineOptions),
		render.WithWildcard(o.wildcard),
		render.WithLogger(logger),
		render.WithConcurrency(o.concurrency),
	)

	matches := matcher.Filter(files)
	if len(matches) == 0 {
		logger.Warn("No markdown files found.", zap.String("pattern", matcher.Pattern()))
	} else {
		logger.Debug("processing markdown files",
			zap.Int("count", len(matches)),
			zap.String("renderer", renderer.Name()),
		)
	}

	if err := o.renderDocuments(ctx, scheduler, files, matches, prefix); err != nil {
		return err
	}

	if len(o.keys.Global) == 0 {
		return nil
	}
	logger.Debug("rendering metadata keys", zap.Int("keys", len(o.keys.Global)))
	return scheduler.RenderKeys(ctx, o.keys.Global, prefix, metadata, render.MetadataTarget)
}

func (o *Orchestrator) renderDocuments(ctx context.Context, scheduler *render.Scheduler, files document.Collection, ids []string, prefix string) error {
	type pending struct {
		id  string
		doc *document.Document
	}
	docs := make([]pending, 0, len(ids))
	for _, id := range ids {
		if doc := files[id]; doc != nil {
			docs = append(docs, pending{id: id, doc: doc})
		}
	}

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	if o.concurrency > 0 {
		g.SetLimit(o.concurrency)
	}

	for _, p := range docs {
		p := p
		g.Go(func() error {
			if err := o.renderDocument(ctx, scheduler, p.id, p.doc, prefix); err != nil {
				return err
			}

			mu.Lock()
			defer mu.Unlock()
			delete(files, p.id)
			files[document.OutputName(p.id, o.outputExt)] = p.doc
			return nil
		})
	}

	return g.Wait()
}

func (o *Orchestrator) renderDocument(ctx context.Context, scheduler *render.Scheduler, id string, doc *document.Document, prefix string) error {
	rc := render.Context{Path: id, Key: keypath.Path{render.ContentsKey}}
	rendered, err := scheduler.Renderer().Render(ctx, prefix+string(doc.Contents), o.engineOptions, rc)
	if err != nil {
		return err
	}
	doc.Contents = []byte(rendered)

	if len(o.keys.Files) == 0 {
		return nil
	}
	return scheduler.RenderKeys(ctx, o.keys.Files, prefix, doc.Fields, id)
}

func (o *Orchestrator) resolveRenderer() (render.Renderer, error) {
	if o.renderer != nil {
		return o.renderer, nil
	}
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}
	renderer, err := o.registry.Resolve(o.backend, DefaultBackend)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: renderer %q: %w", o.backend, err)
	}
	return renderer, nil
}

func (o *Orchestrator) prefix(metadata any) (string, error) {
	if o.refsPath == "" {
		return render.PrefixBlock(o.refs), nil
	}

	value, ok := keypath.Get(metadata, keypath.Parse(o.refsPath))
	if !ok {
		return "", globalRefsNotFound(o.refsPath)
	}
	refs, ok := render.RefsFromValue(value)
	if !ok {
		return "", globalRefsNotFound(o.refsPath)
	}
	return render.PrefixBlock(refs), nil
}

func globalRefsNotFound(path string) error {
	return &ConfigError{
		Option:  "globalRefs",
		Message: "globalRefs not found in metadata." + path,
		Err:     ErrGlobalRefsNotFound,
	}
}
