// Package mdrender renders markdown held in document collections and in a
// shared metadata tree. It is a thin facade over pkg/orchestrator for callers
// that want a single import.
package mdrender

import (
	"context"

	"github.com/goliatone/go-mdrender/pkg/config"
	"github.com/goliatone/go-mdrender/pkg/document"
	"github.com/goliatone/go-mdrender/pkg/orchestrator"
	"github.com/goliatone/go-mdrender/pkg/render"
)

// Keys lists the keypaths rendered per document and in the metadata tree.
type Keys = config.Keys

// Collection maps document identifiers to documents.
type Collection = document.Collection

// EngineOptions are forwarded unchanged to the renderer.
type EngineOptions = render.EngineOptions

// New exposes the orchestrator constructor from the top-level module.
func New(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// DefaultRegistry returns a registry with the built-in backends.
func DefaultRegistry() *render.Registry {
	return orchestrator.DefaultRegistry()
}

// Process renders files and metadata in one call.
func Process(ctx context.Context, files Collection, metadata any, options ...orchestrator.Option) error {
	return orchestrator.New(options...).Process(ctx, files, metadata)
}

// Build loads cfg.Source, renders it, and writes the result to
// cfg.Destination.
func Build(ctx context.Context, cfg config.Config, options ...orchestrator.Option) (Collection, error) {
	files, err := document.LoadDir(cfg.Source)
	if err != nil {
		return nil, err
	}
	metadata, err := cfg.LoadMetadata()
	if err != nil {
		return nil, err
	}

	all := append(orchestrator.OptionsFromConfig(cfg), options...)
	if err := orchestrator.New(all...).Process(ctx, files, metadata); err != nil {
		return nil, err
	}

	if err := document.WriteDir(cfg.Destination, files, document.WriteOptions{
		Fields:      cfg.WriteFields,
		Clean:       cfg.Clean,
		Precompress: cfg.Precompress,
	}); err != nil {
		return nil, err
	}
	return files, nil
}
