package orchestrator

import (
	"github.com/goliatone/go-mdrender/pkg/render"
	"github.com/goliatone/go-mdrender/pkg/renderers/commonmark"
	"github.com/goliatone/go-mdrender/pkg/renderers/goldmark"
	"github.com/goliatone/go-mdrender/pkg/renderers/terminal"
)

// DefaultBackend is used when neither a backend nor a custom renderer is set.
const DefaultBackend = goldmark.Name

// DefaultRegistry returns a registry holding the built-in backends. The
// legacy "micromark" name resolves to the commonmark backend.
func DefaultRegistry() *render.Registry {
	registry := render.NewRegistry()
	registry.MustRegister(goldmark.New())
	registry.MustRegister(commonmark.New())
	registry.MustRegister(terminal.New())
	if err := registry.Alias(commonmark.LegacyAlias, commonmark.Name); err != nil {
		panic(err)
	}
	return registry
}
