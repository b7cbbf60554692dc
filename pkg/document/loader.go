package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// LoadFS walks fsys and returns every regular file as a document. Front
// matter is split off into Fields for every file that starts with a fence.
func LoadFS(fsys fs.FS) (Collection, error) {
	files := Collection{}
	if fsys == nil {
		return files, nil
	}

	err := fs.WalkDir(fsys, ".", func(name string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() {
			if name != "." && strings.HasPrefix(entry.Name(), ".") {
				return fs.SkipDir
			}
			return nil
		}
		if !entry.Type().IsRegular() {
			return nil
		}

		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("document: read %s: %w", name, err)
		}
		fields, body, err := SplitFrontMatter(data)
		if err != nil {
			return fmt.Errorf("document: %s: %w", name, err)
		}
		if fields == nil {
			fields = map[string]any{}
		}

		mode := fs.FileMode(0o644)
		if info, err := entry.Info(); err == nil {
			mode = info.Mode().Perm()
		}

		files[path.Clean(name)] = &Document{Contents: body, Fields: fields, Mode: mode}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// LoadDir loads a collection from a directory on disk.
func LoadDir(dir string) (Collection, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("document: source %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("document: source %s is not a directory", dir)
	}
	return LoadFS(os.DirFS(dir))
}

// WriteOptions controls WriteDir.
type WriteOptions struct {
	// Fields writes a "<id>.fields.json" sidecar for documents with fields.
	Fields bool
	// Clean removes dir before writing.
	Clean bool
	// Precompress writes a gzip copy "<id>.gz" next to every .html document.
	Precompress bool
}

// WriteDir writes every document below dir, creating directories as needed.
func WriteDir(dir string, files Collection, opts WriteOptions) error {
	if strings.TrimSpace(dir) == "" {
		return fmt.Errorf("document: destination is required")
	}
	if opts.Clean {
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("document: clean %s: %w", dir, err)
		}
	}

	for _, id := range files.Paths() {
		doc := files[id]
		if doc == nil {
			continue
		}
		target := filepath.Join(dir, filepath.FromSlash(id))
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fmt.Errorf("document: mkdir for %s: %w", id, err)
		}
		mode := doc.Mode
		if mode == 0 {
			mode = 0o644
		}
		if err := os.WriteFile(target, doc.Contents, mode); err != nil {
			return fmt.Errorf("document: write %s: %w", id, err)
		}

		if opts.Precompress && path.Ext(id) == ".html" {
			if err := writeGzip(target+".gz", doc.Contents, mode); err != nil {
				return fmt.Errorf("document: precompress %s: %w", id, err)
			}
		}

		if !opts.Fields || len(doc.Fields) == 0 {
			continue
		}
		payload, err := json.MarshalIndent(doc.Fields, "", "  ")
		if err != nil {
			return fmt.Errorf("document: encode fields of %s: %w", id, err)
		}
		if err := os.WriteFile(target+".fields.json", payload, 0o644); err != nil {
			return fmt.Errorf("document: write fields of %s: %w", id, err)
		}
	}
	return nil
}

func writeGzip(target string, data []byte, mode fs.FileMode) error {
	var buf bytes.Buffer
	zw, err := gzip.NewWriterLevel(&buf, gzip.BestCompression)
	if err != nil {
		return err
	}
	if _, err := zw.Write(data); err != nil {
		return err
	}
	if err := zw.Close(); err != nil {
		return err
	}
	return os.WriteFile(target, buf.Bytes(), mode)
}
