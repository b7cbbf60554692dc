package render

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ErrRendererNotFound is wrapped by lookups for unknown backend names.
var ErrRendererNotFound = errors.New("render: renderer not found")

// Registry maps backend names (and their aliases) to renderers so a
// configuration flag can pick the transform implementation. It is safe for
// concurrent use.
type Registry struct {
	mu        sync.RWMutex
	renderers map[string]Renderer
	aliases   map[string]string
}

// NewRegistry creates an empty registry instance.
func NewRegistry() *Registry {
	return &Registry{
		renderers: make(map[string]Renderer),
		aliases:   make(map[string]string),
	}
}

// Register adds a renderer under its Name(). Names are case-insensitive;
// duplicates return an error.
func (r *Registry) Register(renderer Renderer) error {
	if renderer == nil {
		return errors.New("render: renderer is required")
	}
	name := canonicalName(renderer.Name())
	if name == "" {
		return errors.New("render: renderer name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.renderers[name]; exists {
		return fmt.Errorf("render: renderer %q already registered", name)
	}
	if _, exists := r.aliases[name]; exists {
		return fmt.Errorf("render: renderer %q collides with an alias", name)
	}

	r.renderers[name] = renderer
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(renderer Renderer) {
	if err := r.Register(renderer); err != nil {
		panic(err)
	}
}

// Alias makes alias resolve to the already registered renderer target.
func (r *Registry) Alias(alias, target string) error {
	alias = canonicalName(alias)
	target = canonicalName(target)
	if alias == "" || target == "" {
		return errors.New("render: alias and target are required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.renderers[target]; !ok {
		return fmt.Errorf("%w: alias target %q", ErrRendererNotFound, target)
	}
	if _, exists := r.renderers[alias]; exists {
		return fmt.Errorf("render: alias %q shadows a renderer", alias)
	}
	r.aliases[alias] = target
	return nil
}

// Get retrieves a renderer by name or alias.
func (r *Registry) Get(name string) (Renderer, error) {
	key := canonicalName(name)

	r.mu.RLock()
	defer r.mu.RUnlock()

	if target, ok := r.aliases[key]; ok {
		key = target
	}
	renderer, ok := r.renderers[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrRendererNotFound, name)
	}
	return renderer, nil
}

// MustGet panics if the renderer is missing.
func (r *Registry) MustGet(name string) Renderer {
	renderer, err := r.Get(name)
	if err != nil {
		panic(err)
	}
	return renderer
}

// Resolve picks the renderer for name, falling back to fallback when name is
// empty. An explicitly requested but unknown name is an error.
func (r *Registry) Resolve(name, fallback string) (Renderer, error) {
	if strings.TrimSpace(name) != "" {
		return r.Get(name)
	}
	if strings.TrimSpace(fallback) != "" {
		return r.Get(fallback)
	}
	names := r.List()
	if len(names) == 0 {
		return nil, errors.New("render: no renderers registered")
	}
	return r.Get(names[0])
}

// List returns the sorted renderer names, aliases excluded.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.renderers))
	for name := range r.renderers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether name or an alias of that name is registered.
func (r *Registry) Has(name string) bool {
	_, err := r.Get(name)
	return err == nil
}

func canonicalName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
