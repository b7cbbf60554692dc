package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-mdrender/pkg/render"
)

func TestPrefixBlock(t *testing.T) {
	refs := map[string]string{
		"core_plugin_markdown": `https://github.com/metalsmith/markdown "with title"`,
		"core_plugin_layouts":  "https://github.com/metalsmith/layouts",
	}

	want := "[core_plugin_layouts]: https://github.com/metalsmith/layouts\n" +
		`[core_plugin_markdown]: https://github.com/metalsmith/markdown "with title"` +
		"\n\n"
	if got := render.PrefixBlock(refs); got != want {
		t.Fatalf("prefix mismatch:\n%s", cmp.Diff(want, got))
	}
	if got := render.PrefixBlock(nil); got != "" {
		t.Fatalf("expected empty prefix, got %q", got)
	}
}

func TestRefsFromValue(t *testing.T) {
	refs, ok := render.RefsFromValue(map[string]any{"a": "https://a.io", "n": 3})
	if !ok {
		t.Fatalf("expected map value to convert")
	}
	if diff := cmp.Diff(map[string]string{"a": "https://a.io", "n": "3"}, refs); diff != "" {
		t.Fatalf("refs mismatch (-want +got):\n%s", diff)
	}
	if _, ok := render.RefsFromValue("not a map"); ok {
		t.Fatalf("expected scalar to be rejected")
	}
}

func TestEngineOptions(t *testing.T) {
	opts := render.EngineOptions{
		"gfm":      false,
		"sanitize": "true",
		"wordWrap": float64(72),
		"style":    " dark ",
	}

	if opts.Bool("gfm", true) {
		t.Fatalf("gfm should be false")
	}
	if !opts.Bool("sanitize", false) {
		t.Fatalf("sanitize string should parse")
	}
	if !opts.Bool("tables", true) {
		t.Fatalf("missing key should use fallback")
	}
	if got := opts.Int("wordWrap", 80); got != 72 {
		t.Fatalf("wordWrap = %d", got)
	}
	if got := opts.String("style", "auto"); got != "dark" {
		t.Fatalf("style = %q", got)
	}

	clone := opts.Clone()
	clone["gfm"] = true
	if opts["gfm"] != false {
		t.Fatalf("clone must not alias the original")
	}
	if render.EngineOptions(nil).Clone() == nil {
		t.Fatalf("clone of nil must not be nil")
	}
}
