package document

import (
	"io/fs"
	"path"
	"sort"
	"strings"
)

// Document is one entry of a Collection.
type Document struct {
	Contents []byte
	// Fields holds front matter and any other per-document data. It is the
	// target tree for per-document key rendering.
	Fields map[string]any
	Mode   fs.FileMode
}

// New returns a document with contents and an empty field map.
func New(contents string) *Document {
	return &Document{Contents: []byte(contents), Fields: map[string]any{}}
}

// Collection maps document identifiers to documents.
type Collection map[string]*Document

// Paths returns the identifiers in sorted order.
func (c Collection) Paths() []string {
	out := make([]string, 0, len(c))
	for id := range c {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// OutputName swaps the extension of id for ext, keeping its directory.
func OutputName(id, ext string) string {
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	base := path.Base(id)
	name := strings.TrimSuffix(base, path.Ext(base)) + ext
	dir := path.Dir(id)
	if dir == "." {
		return name
	}
	return path.Join(dir, name)
}
