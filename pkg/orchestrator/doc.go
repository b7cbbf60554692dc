// Package orchestrator drives a full render pass over a document collection:
// each matching document has its contents and configured front matter keys
// rendered and is renamed to its output name, then the configured keys of
// the shared metadata tree are rendered with the key-only context.
package orchestrator
