package render_test

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/goliatone/go-mdrender/pkg/keypath"
	"github.com/goliatone/go-mdrender/pkg/render"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func upper() render.RendererFunc {
	return func(_ context.Context, source string, _ render.EngineOptions, _ render.Context) (string, error) {
		return strings.ToUpper(source), nil
	}
}

func TestRenderKeys_WritesBack(t *testing.T) {
	target := map[string]any{"a": "hello"}

	err := render.NewScheduler(upper()).RenderKeys(context.Background(), []any{"a"}, "", target, "index.md")
	if err != nil {
		t.Fatalf("render keys: %v", err)
	}
	if target["a"] != "HELLO" {
		t.Fatalf("expected HELLO, got %#v", target["a"])
	}
}

func TestRenderKeys_NonStringWarnsOnce(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	target := map[string]any{"a": 42}

	var calls atomic.Int32
	renderer := render.RendererFunc(func(context.Context, string, render.EngineOptions, render.Context) (string, error) {
		calls.Add(1)
		return "", nil
	})

	err := render.NewScheduler(renderer, render.WithLogger(zap.New(core))).
		RenderKeys(context.Background(), []any{"a"}, "", target, "index.md")
	if err != nil {
		t.Fatalf("render keys: %v", err)
	}

	if target["a"] != 42 {
		t.Fatalf("non-string value mutated: %#v", target["a"])
	}
	if calls.Load() != 0 {
		t.Fatalf("renderer must not be called for non-string values")
	}

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected exactly one warning, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["key"] != "a" || fields["target"] != "index.md" {
		t.Fatalf("unexpected warning fields: %v", fields)
	}
	if entries[0].Message != "couldn't render key: not a string" {
		t.Fatalf("unexpected warning message %q", entries[0].Message)
	}
}

func TestRenderKeys_AbsentPathIsSilent(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	target := map[string]any{"present": "x"}

	var calls atomic.Int32
	renderer := render.RendererFunc(func(_ context.Context, s string, _ render.EngineOptions, _ render.Context) (string, error) {
		calls.Add(1)
		return s, nil
	})

	err := render.NewScheduler(renderer, render.WithLogger(zap.New(core))).
		RenderKeys(context.Background(), []any{"missing", "nested.missing"}, "", target, "index.md")
	if err != nil {
		t.Fatalf("render keys: %v", err)
	}
	if calls.Load() != 0 {
		t.Fatalf("renderer called %d times for absent paths", calls.Load())
	}
	if logs.Len() != 0 {
		t.Fatalf("expected no log output, got %d entries", logs.Len())
	}
}

func TestRenderKeys_PartialApplyOnFailure(t *testing.T) {
	target := map[string]any{
		"c1": "one", "c2": "two", "c3": "three", "c4": "four", "c5": "five",
	}
	boom := errors.New("render c3 failed")

	renderer := render.RendererFunc(func(_ context.Context, s string, _ render.EngineOptions, rc render.Context) (string, error) {
		if rc.Key.String() == "c3" {
			return "", boom
		}
		return strings.ToUpper(s), nil
	})

	err := render.NewScheduler(renderer).
		RenderKeys(context.Background(), []any{"c1", "c2", "c3", "c4", "c5"}, "", target, "index.md")
	if err != boom {
		t.Fatalf("expected the renderer error unchanged, got %v", err)
	}

	want := map[string]any{
		"c1": "ONE", "c2": "TWO", "c3": "three", "c4": "FOUR", "c5": "FIVE",
	}
	if diff := cmp.Diff(want, target); diff != "" {
		t.Fatalf("target mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderKeys_LaunchesConcurrently(t *testing.T) {
	const n = 5
	target := map[string]any{}
	keys := make([]any, 0, n)
	for _, k := range []string{"a", "b", "c", "d", "e"} {
		target[k] = k
		keys = append(keys, k)
	}

	var started sync.WaitGroup
	started.Add(n)
	allStarted := make(chan struct{})
	go func() {
		started.Wait()
		close(allStarted)
	}()

	renderer := render.RendererFunc(func(_ context.Context, s string, _ render.EngineOptions, _ render.Context) (string, error) {
		started.Done()
		select {
		case <-allStarted:
			return s + "!", nil
		case <-time.After(2 * time.Second):
			return "", errors.New("renders were not launched concurrently")
		}
	})

	if err := render.NewScheduler(renderer).RenderKeys(context.Background(), keys, "", target, "index.md"); err != nil {
		t.Fatalf("render keys: %v", err)
	}
	for _, k := range []string{"a", "b", "c", "d", "e"} {
		if target[k] != k+"!" {
			t.Fatalf("key %s not rendered: %#v", k, target[k])
		}
	}
}

func TestRenderKeys_ConcurrencyLimit(t *testing.T) {
	target := map[string]any{"a": "1", "b": "2", "c": "3", "d": "4"}

	var inFlight, peak atomic.Int32
	renderer := render.RendererFunc(func(_ context.Context, s string, _ render.EngineOptions, _ render.Context) (string, error) {
		current := inFlight.Add(1)
		for {
			old := peak.Load()
			if current <= old || peak.CompareAndSwap(old, current) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		inFlight.Add(-1)
		return s, nil
	})

	err := render.NewScheduler(renderer, render.WithConcurrency(1)).
		RenderKeys(context.Background(), []any{"a", "b", "c", "d"}, "", target, "index.md")
	if err != nil {
		t.Fatalf("render keys: %v", err)
	}
	if peak.Load() != 1 {
		t.Fatalf("expected at most one render in flight, saw %d", peak.Load())
	}
}

func TestRenderKeys_WildcardAndContexts(t *testing.T) {
	target := map[string]any{
		"arr":    []any{"a", "b"},
		"objarr": []any{map[string]any{"prop": "x"}, map[string]any{"prop": "y"}},
		"num":    []any{1},
	}

	var mu sync.Mutex
	var seen []render.Context
	renderer := render.RendererFunc(func(_ context.Context, s string, _ render.EngineOptions, rc render.Context) (string, error) {
		mu.Lock()
		seen = append(seen, rc)
		mu.Unlock()
		return "<p>" + s + "</p>", nil
	})

	err := render.NewScheduler(renderer, render.WithWildcard("*")).
		RenderKeys(context.Background(), []any{"arr.*", "objarr.*.prop", "num.*"}, "", target, "docs/page.md")
	if err != nil {
		t.Fatalf("render keys: %v", err)
	}

	want := map[string]any{
		"arr":    []any{"<p>a</p>", "<p>b</p>"},
		"objarr": []any{map[string]any{"prop": "<p>x</p>"}, map[string]any{"prop": "<p>y</p>"}},
		"num":    []any{1},
	}
	if diff := cmp.Diff(want, target); diff != "" {
		t.Fatalf("target mismatch (-want +got):\n%s", diff)
	}

	sort.Slice(seen, func(i, j int) bool { return seen[i].Key.String() < seen[j].Key.String() })
	wantContexts := []render.Context{
		{Path: "docs/page.md", Key: keypath.Path{"arr", "0"}},
		{Path: "docs/page.md", Key: keypath.Path{"arr", "1"}},
		{Path: "docs/page.md", Key: keypath.Path{"objarr", "0", "prop"}},
		{Path: "docs/page.md", Key: keypath.Path{"objarr", "1", "prop"}},
	}
	if diff := cmp.Diff(wantContexts, seen); diff != "" {
		t.Fatalf("contexts mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderKeys_WildcardDisabledReadsLiterally(t *testing.T) {
	target := map[string]any{"arr": []any{"a"}, "*": "star"}

	err := render.NewScheduler(upper()).
		RenderKeys(context.Background(), []any{"arr.*", "*"}, "", target, "index.md")
	if err != nil {
		t.Fatalf("render keys: %v", err)
	}
	if diff := cmp.Diff(map[string]any{"arr": []any{"a"}, "*": "STAR"}, target); diff != "" {
		t.Fatalf("target mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderKeys_MetadataContextIsKeyOnly(t *testing.T) {
	target := map[string]any{"has_markdown": "**x**"}

	var got render.Context
	renderer := render.RendererFunc(func(_ context.Context, s string, _ render.EngineOptions, rc render.Context) (string, error) {
		got = rc
		return s, nil
	})

	err := render.NewScheduler(renderer).
		RenderKeys(context.Background(), []any{"has_markdown"}, "", target, render.MetadataTarget)
	if err != nil {
		t.Fatalf("render keys: %v", err)
	}
	want := render.Context{Key: keypath.Path{"has_markdown"}, Metadata: true}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("context mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderKeys_PrefixAndOptionsForwarded(t *testing.T) {
	target := map[string]any{"body": "see [home][]"}
	options := render.EngineOptions{"gfm": false}

	var source string
	var forwarded render.EngineOptions
	renderer := render.RendererFunc(func(_ context.Context, s string, opts render.EngineOptions, _ render.Context) (string, error) {
		source = s
		forwarded = opts
		return "done", nil
	})

	prefix := render.PrefixBlock(map[string]string{"home": "https://example.com"})
	err := render.NewScheduler(renderer, render.WithEngineOptions(options)).
		RenderKeys(context.Background(), []any{"body"}, prefix, target, "index.md")
	if err != nil {
		t.Fatalf("render keys: %v", err)
	}

	if source != "[home]: https://example.com\n\nsee [home][]" {
		t.Fatalf("unexpected source %q", source)
	}
	if diff := cmp.Diff(options, forwarded); diff != "" {
		t.Fatalf("engine options mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderKeys_InvalidInputFailsBeforeRendering(t *testing.T) {
	var calls atomic.Int32
	renderer := render.RendererFunc(func(_ context.Context, s string, _ render.EngineOptions, _ render.Context) (string, error) {
		calls.Add(1)
		return s, nil
	})

	scheduler := render.NewScheduler(renderer, render.WithWildcard("*"))

	err := scheduler.RenderKeys(context.Background(), []any{"a", false}, "", map[string]any{"a": "x"}, "index.md")
	if !errors.Is(err, keypath.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
	err = scheduler.RenderKeys(context.Background(), []any{"a"}, "", "scalar", "index.md")
	if !errors.Is(err, keypath.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument for scalar root, got %v", err)
	}
	if calls.Load() != 0 {
		t.Fatalf("renderer must not run when input is malformed")
	}
}

func TestRenderKeys_RepeatedPassExpandsIdentically(t *testing.T) {
	target := map[string]any{
		"items": map[string]any{"b": "2", "a": "1", "c": "3"},
	}

	var mu sync.Mutex
	var keys []string
	renderer := render.RendererFunc(func(_ context.Context, s string, _ render.EngineOptions, rc render.Context) (string, error) {
		mu.Lock()
		keys = append(keys, rc.Key.String())
		mu.Unlock()
		return s, nil
	})
	scheduler := render.NewScheduler(renderer, render.WithWildcard("*"))

	passKeys := func() []string {
		keys = nil
		if err := scheduler.RenderKeys(context.Background(), []any{"items.*"}, "", target, "index.md"); err != nil {
			t.Fatalf("render keys: %v", err)
		}
		sort.Strings(keys)
		return append([]string(nil), keys...)
	}

	first := passKeys()
	second := passKeys()
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("second pass resolved different keys (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"items.a", "items.b", "items.c"}, first); diff != "" {
		t.Fatalf("unexpected keys (-want +got):\n%s", diff)
	}
}
