// Package document models the collection a pipeline pass works on: documents
// keyed by slash-separated identifiers, each holding raw contents plus the
// front matter fields that make up its render target tree. It also loads a
// collection from an fs.FS and writes one back to disk.
package document
