package document_test

import (
	"compress/gzip"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-mdrender/pkg/document"
)

func TestSplitFrontMatter(t *testing.T) {
	content := []byte("---\ntitle: Hello\ncustom: _a_\nnested:\n  key:\n    path: \"**deep**\"\narr: [one, two]\n---\n# Body\n")

	fields, body, err := document.SplitFrontMatter(content)
	if err != nil {
		t.Fatalf("split: %v", err)
	}

	want := map[string]any{
		"title":  "Hello",
		"custom": "_a_",
		"nested": map[string]any{"key": map[string]any{"path": "**deep**"}},
		"arr":    []any{"one", "two"},
	}
	if diff := cmp.Diff(want, fields); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
	if string(body) != "# Body\n" {
		t.Fatalf("unexpected body %q", body)
	}
}

func TestSplitFrontMatter_NoFence(t *testing.T) {
	content := []byte("# Just markdown\n---\nnot front matter\n")
	fields, body, err := document.SplitFrontMatter(content)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if fields != nil {
		t.Fatalf("expected nil fields, got %v", fields)
	}
	if string(body) != string(content) {
		t.Fatalf("body should be unchanged")
	}
}

func TestSplitFrontMatter_UnterminatedAndInvalid(t *testing.T) {
	content := []byte("---\ntitle: x\nno closing fence")
	fields, body, err := document.SplitFrontMatter(content)
	if err != nil || fields != nil || string(body) != string(content) {
		t.Fatalf("unterminated fence should be treated as content: %v %v", fields, err)
	}

	if _, _, err := document.SplitFrontMatter([]byte("---\n: [broken\n---\n")); err == nil {
		t.Fatalf("expected invalid YAML to fail")
	}

	fields, body, err = document.SplitFrontMatter([]byte("---\n...\nbody"))
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if len(fields) != 0 || string(body) != "body" {
		t.Fatalf("empty front matter mismatch: %v %q", fields, body)
	}
}

func TestOutputName(t *testing.T) {
	cases := map[string]string{
		"index.md":           "index.html",
		"subfolder/index.md": "subfolder/index.html",
		"a/b/post.markdown":  "a/b/post.html",
		"noext":              "noext.html",
		"dotted.name.v2.md":  "dotted.name.v2.html",
	}
	for in, want := range cases {
		if got := document.OutputName(in, ".html"); got != want {
			t.Fatalf("OutputName(%q) = %q, want %q", in, got, want)
		}
	}
	if got := document.OutputName("x.md", "htm"); got != "x.htm" {
		t.Fatalf("extension without dot: %q", got)
	}
}

func TestMatcher(t *testing.T) {
	m, err := document.NewMatcher("")
	if err != nil {
		t.Fatalf("matcher: %v", err)
	}
	if m.Pattern() != document.DefaultPattern {
		t.Fatalf("unexpected default pattern %q", m.Pattern())
	}

	files := document.Collection{
		"index.md":          document.New(""),
		"sub/page.markdown": document.New(""),
		"deep/er/file.md":   document.New(""),
		"index.css":         document.New(""),
		"notes.md.bak":      document.New(""),
	}
	want := []string{"deep/er/file.md", "index.md", "sub/page.markdown"}
	if diff := cmp.Diff(want, m.Filter(files)); diff != "" {
		t.Fatalf("filter mismatch (-want +got):\n%s", diff)
	}

	if _, err := document.NewMatcher("[unclosed"); err == nil {
		t.Fatalf("expected invalid pattern to fail")
	}
}

func TestLoadFS(t *testing.T) {
	fsys := fstest.MapFS{
		"index.md":    {Data: []byte("---\ncustom: _a_\n---\n# A Markdown Post\n")},
		"sub/page.md": {Data: []byte("plain")},
		"style.css":   {Data: []byte("body{}")},
		".git/config": {Data: []byte("ignored")},
	}

	files, err := document.LoadFS(fsys)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if diff := cmp.Diff([]string{"index.md", "style.css", "sub/page.md"}, files.Paths()); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}
	if got := string(files["index.md"].Contents); got != "# A Markdown Post\n" {
		t.Fatalf("unexpected contents %q", got)
	}
	if files["index.md"].Fields["custom"] != "_a_" {
		t.Fatalf("expected front matter field, got %v", files["index.md"].Fields)
	}
	if files["sub/page.md"].Fields == nil {
		t.Fatalf("fields must never be nil")
	}
}

func TestWriteDir(t *testing.T) {
	dir := t.TempDir()
	files := document.Collection{
		"index.html":    {Contents: []byte("<h1>x</h1>"), Fields: map[string]any{"title": "<em>t</em>"}},
		"sub/page.html": {Contents: []byte("<p>y</p>"), Fields: map[string]any{}},
	}

	if err := document.WriteDir(dir, files, document.WriteOptions{Fields: true}); err != nil {
		t.Fatalf("write: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "sub", "page.html"))
	if err != nil || string(data) != "<p>y</p>" {
		t.Fatalf("unexpected page output %q (%v)", data, err)
	}

	raw, err := os.ReadFile(filepath.Join(dir, "index.html.fields.json"))
	if err != nil {
		t.Fatalf("read sidecar: %v", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		t.Fatalf("decode sidecar: %v", err)
	}
	if fields["title"] != "<em>t</em>" {
		t.Fatalf("unexpected sidecar %v", fields)
	}
	if _, err := os.Stat(filepath.Join(dir, "sub", "page.html.fields.json")); !os.IsNotExist(err) {
		t.Fatalf("documents without fields must not get a sidecar")
	}

	if _, err := os.Stat(filepath.Join(dir, "index.html.gz")); !os.IsNotExist(err) {
		t.Fatalf("gzip copies are only written with Precompress")
	}

	if err := document.WriteDir("", files, document.WriteOptions{}); err == nil {
		t.Fatalf("expected empty destination to fail")
	}
}

func TestWriteDir_Precompress(t *testing.T) {
	dir := t.TempDir()
	files := document.Collection{
		"index.html": {Contents: []byte("<h1>compressed</h1>")},
		"style.css":  {Contents: []byte("body{}")},
	}

	if err := document.WriteDir(dir, files, document.WriteOptions{Precompress: true}); err != nil {
		t.Fatalf("write: %v", err)
	}

	f, err := os.Open(filepath.Join(dir, "index.html.gz"))
	if err != nil {
		t.Fatalf("open gzip: %v", err)
	}
	defer f.Close()
	zr, err := gzip.NewReader(f)
	if err != nil {
		t.Fatalf("gzip reader: %v", err)
	}
	data, err := io.ReadAll(zr)
	if err != nil {
		t.Fatalf("read gzip: %v", err)
	}
	if string(data) != "<h1>compressed</h1>" {
		t.Fatalf("unexpected gzip payload %q", data)
	}

	if _, err := os.Stat(filepath.Join(dir, "style.css.gz")); !os.IsNotExist(err) {
		t.Fatalf("only html documents are precompressed")
	}
}
