package orchestrator

import (
	"github.com/goliatone/go-mdrender/pkg/config"
	"github.com/goliatone/go-mdrender/pkg/render"
)

// OptionsFromConfig translates a loaded configuration into options.
func OptionsFromConfig(cfg config.Config) []Option {
	options := []Option{
		WithKeys(cfg.Keys),
		WithWildcard(cfg.Wildcard.Token),
		WithEngineOptions(render.EngineOptions(cfg.EngineOptions)),
		WithPattern(cfg.Pattern),
		WithConcurrency(cfg.Concurrency),
	}
	if backend := cfg.BackendName(); backend != "" {
		options = append(options, WithBackend(backend))
	}
	switch {
	case cfg.GlobalRefs.IsPath():
		options = append(options, WithGlobalRefsPath(cfg.GlobalRefs.Path))
	case len(cfg.GlobalRefs.Refs) > 0:
		options = append(options, WithGlobalRefs(cfg.GlobalRefs.Refs))
	}
	return options
}
