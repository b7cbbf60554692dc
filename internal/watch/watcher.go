// Package watch re-runs a callback when files below a directory change.
// Rapid saves are coalesced into one batch per debounce window.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const (
	defaultDebounce = 300 * time.Millisecond
	tickInterval    = 50 * time.Millisecond
)

// ChangeFunc receives the changed paths of one settled batch, sorted.
type ChangeFunc func(ctx context.Context, paths []string) error

// Option customises a Watcher.
type Option func(*Watcher)

// WithDebounce sets how long a path must stay quiet before it is reported.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger routes diagnostics to logger.
func WithLogger(logger *zap.Logger) Option {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// Watcher watches root and every directory below it, skipping dot
// directories.
type Watcher struct {
	root     string
	onChange ChangeFunc
	debounce time.Duration
	logger   *zap.Logger
	pending  map[string]time.Time
	digests  map[string]uint64
}

// New constructs a Watcher. Nothing is watched until Run is called.
func New(root string, onChange ChangeFunc, options ...Option) (*Watcher, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("watch: root is required")
	}
	if onChange == nil {
		return nil, errors.New("watch: change callback is required")
	}
	w := &Watcher{
		root:     root,
		onChange: onChange,
		debounce: defaultDebounce,
		logger:   zap.NewNop(),
		pending:  make(map[string]time.Time),
		digests:  make(map[string]uint64),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(w)
	}
	return w, nil
}

// Run blocks until ctx is done. Callback errors are logged and watching
// continues.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer fw.Close()

	if err := w.addTree(fw, w.root, true); err != nil {
		return err
	}
	w.logger.Info("watching for changes", zap.String("root", w.root))

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(fw, event)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watcher error", zap.Error(err))

		case now := <-ticker.C:
			batch := w.changed(w.settled(now))
			if len(batch) == 0 {
				continue
			}
			w.logger.Debug("changes settled", zap.Strings("paths", batch))
			if err := w.onChange(ctx, batch); err != nil {
				w.logger.Error("rebuild failed", zap.Error(err))
			}
		}
	}
}

func (w *Watcher) handleEvent(fw *fsnotify.Watcher, event fsnotify.Event) {
	if event.Op == fsnotify.Chmod || hidden(w.root, event.Name) {
		return
	}
	if event.Has(fsnotify.Create) && isDir(event.Name) {
		if err := w.addTree(fw, event.Name, false); err != nil {
			w.logger.Debug("watch new directory", zap.String("path", event.Name), zap.Error(err))
		}
	}
	w.pending[event.Name] = time.Now()
}

func (w *Watcher) settled(now time.Time) []string {
	var out []string
	for path, at := range w.pending {
		if now.Sub(at) >= w.debounce {
			out = append(out, path)
		}
	}
	if len(out) == 0 {
		return nil
	}
	// Wait for every pending path so one rebuild covers the whole burst.
	if len(out) != len(w.pending) {
		return nil
	}
	for _, path := range out {
		delete(w.pending, path)
	}
	sort.Strings(out)
	return out
}

// changed drops paths whose contents hash the same as last seen. Paths that
// cannot be read (removed, or directories) always count as changed.
func (w *Watcher) changed(paths []string) []string {
	var out []string
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			delete(w.digests, path)
			out = append(out, path)
			continue
		}
		sum := xxhash.Sum64(data)
		if prev, ok := w.digests[path]; ok && prev == sum {
			continue
		}
		w.digests[path] = sum
		out = append(out, path)
	}
	return out
}

// addTree watches dir and its subdirectories. With seed set it also records
// the digest of every file found.
func (w *Watcher) addTree(fw *fsnotify.Watcher, dir string, seed bool) error {
	return filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("watch: %s: %w", path, err)
		}
		if !entry.IsDir() {
			if !seed {
				return nil
			}
			if data, err := os.ReadFile(path); err == nil {
				w.digests[path] = xxhash.Sum64(data)
			}
			return nil
		}
		if path != dir && strings.HasPrefix(entry.Name(), ".") {
			return filepath.SkipDir
		}
		if err := fw.Add(path); err != nil {
			return fmt.Errorf("watch: add %s: %w", path, err)
		}
		return nil
	})
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func hidden(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if strings.HasPrefix(part, ".") && part != "." && part != ".." {
			return true
		}
	}
	return false
}
