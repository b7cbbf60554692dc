package render

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-mdrender/pkg/keypath"
)

// SchedulerOption customises a Scheduler.
type SchedulerOption func(*Scheduler)

// WithEngineOptions sets the options forwarded to every Render call.
func WithEngineOptions(options EngineOptions) SchedulerOption {
	return func(s *Scheduler) {
		s.options = options
	}
}

// WithWildcard enables wildcard expansion using token. An empty token keeps
// expansion disabled and keypaths are read as given.
func WithWildcard(token string) SchedulerOption {
	return func(s *Scheduler) {
		s.wildcard = token
	}
}

// WithLogger routes diagnostics to logger.
func WithLogger(logger *zap.Logger) SchedulerOption {
	return func(s *Scheduler) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithConcurrency bounds the number of in-flight Render calls per pass.
// Values below one leave the pass unbounded.
func WithConcurrency(n int) SchedulerOption {
	return func(s *Scheduler) {
		s.limit = n
	}
}

// Scheduler renders string fields of a target tree through a Renderer.
type Scheduler struct {
	renderer Renderer
	options  EngineOptions
	wildcard string
	logger   *zap.Logger
	limit    int
}

// NewScheduler constructs a Scheduler around renderer.
func NewScheduler(renderer Renderer, options ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		renderer: renderer,
		options:  EngineOptions{},
		logger:   zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	return s
}

// Renderer returns the backend the scheduler invokes.
func (s *Scheduler) Renderer() Renderer {
	return s.renderer
}

type renderJob struct {
	path   keypath.Path
	source string
	rc     Context
}

// RenderKeys runs one render pass over target. Keypaths are expanded (when a
// wildcard token is configured) and every value read before the first Render
// call starts. String values are rendered concurrently from prefix+value and
// written back at the same path; absent values are skipped and non-string
// values produce a warning.
//
// The first Render error is returned unchanged once every started call has
// settled. Values rendered successfully keep their new content; nothing is
// rolled back.
func (s *Scheduler) RenderKeys(ctx context.Context, keypaths []any, prefix string, target any, label string) error {
	if s.renderer == nil {
		return errors.New("render: scheduler has no renderer")
	}

	paths, err := s.resolve(target, keypaths)
	if err != nil {
		return err
	}

	jobs := s.collect(paths, prefix, target, label)
	if len(jobs) == 0 {
		return nil
	}

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	if s.limit > 0 {
		g.SetLimit(s.limit)
	}

	for _, job := range jobs {
		job := job
		g.Go(func() error {
			rendered, err := s.renderer.Render(ctx, job.source, s.options, job.rc)
			if err != nil {
				return err
			}

			mu.Lock()
			defer mu.Unlock()
			if err := keypath.Set(target, job.path, rendered); err != nil {
				return fmt.Errorf("render: write back %q of %q: %w", job.path.String(), label, err)
			}
			return nil
		})
	}

	return g.Wait()
}

func (s *Scheduler) resolve(target any, keypaths []any) ([]keypath.Path, error) {
	if s.wildcard != "" {
		return keypath.Expand(target, keypaths, s.wildcard)
	}
	return keypath.NormalizeAll(keypaths)
}

func (s *Scheduler) collect(paths []keypath.Path, prefix string, target any, label string) []renderJob {
	jobs := make([]renderJob, 0, len(paths))
	for _, path := range paths {
		value, ok := keypath.Get(target, path)
		if !ok {
			continue
		}
		str, isString := value.(string)
		if !isString {
			s.logger.Warn("couldn't render key: not a string",
				zap.String("key", path.String()),
				zap.String("target", label),
			)
			continue
		}

		s.logger.Debug("rendering key",
			zap.String("key", path.String()),
			zap.String("target", label),
		)
		jobs = append(jobs, renderJob{
			path:   path,
			source: prefix + str,
			rc:     NewContext(label, path),
		})
	}
	return jobs
}
