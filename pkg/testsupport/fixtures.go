// Package testsupport holds fixture and golden helpers shared by package
// tests. Goldens are rewritten when UPDATE_GOLDENS is set.
package testsupport

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-mdrender/pkg/document"
)

// Snapshot is the golden form of one rendered document.
type Snapshot struct {
	Contents string         `json:"contents"`
	Fields   map[string]any `json:"fields,omitempty"`
}

// LoadCollection loads the fixture directory dir.
func LoadCollection(t *testing.T, dir string) document.Collection {
	t.Helper()

	files, err := document.LoadDir(dir)
	if err != nil {
		t.Fatalf("load collection: %v", err)
	}
	return files
}

// LoadTree reads a JSON or YAML fixture into a generic tree, returning an
// error for callers managing setup outside of *testing.T.
func LoadTree(path string) (map[string]any, error) {
	if path == "" {
		return nil, errors.New("testsupport: tree path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("testsupport: read tree: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err == nil {
		return out, nil
	}
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("testsupport: unmarshal tree %s: %w", path, err)
	}
	return out, nil
}

// MustLoadTree is LoadTree failing the test on error.
func MustLoadTree(t *testing.T, path string) map[string]any {
	t.Helper()

	tree, err := LoadTree(path)
	if err != nil {
		t.Fatalf("load tree: %v", err)
	}
	return tree
}

// SnapshotOf converts a collection into its golden form.
func SnapshotOf(files document.Collection) map[string]Snapshot {
	out := make(map[string]Snapshot, len(files))
	for id, doc := range files {
		if doc == nil {
			continue
		}
		snap := Snapshot{Contents: string(doc.Contents)}
		if len(doc.Fields) > 0 {
			snap.Fields = doc.Fields
		}
		out[id] = snap
	}
	return out
}

// WriteGolden writes value as indented JSON when UPDATE_GOLDENS is set.
// Returns true if the golden was written (test should exit early).
func WriteGolden(t *testing.T, path string, value any) bool {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, append(payload, '\n'), 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// AssertSnapshotGolden compares files against the JSON golden at path,
// rewriting it first when UPDATE_GOLDENS is set.
func AssertSnapshotGolden(t *testing.T, path string, files document.Collection) {
	t.Helper()

	got := normalise(t, SnapshotOf(files))
	if WriteGolden(t, path, got) {
		return
	}

	var want map[string]Snapshot
	if err := json.Unmarshal(MustReadGolden(t, path), &want); err != nil {
		t.Fatalf("unmarshal golden %s: %v", path, err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("golden %s mismatch (-want +got):\n%s", path, diff)
	}
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// normalise round-trips value through JSON so typed numbers and maps compare
// equal to what a golden decodes into.
func normalise(t *testing.T, value map[string]Snapshot) map[string]Snapshot {
	t.Helper()

	payload, err := json.Marshal(value)
	if err != nil {
		t.Fatalf("marshal snapshot: %v", err)
	}
	var out map[string]Snapshot
	if err := json.Unmarshal(payload, &out); err != nil {
		t.Fatalf("unmarshal snapshot: %v", err)
	}
	return out
}
