// Package scan runs one resolution pass over a repository: it discovers
// pipeline descriptors, resolves each into a pipeline, and computes its
// path filter.
package scan

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/papapumpkin/depfilter/internal/config"
	"github.com/papapumpkin/depfilter/internal/discover"
	"github.com/papapumpkin/depfilter/internal/pipeline"
	"github.com/papapumpkin/depfilter/internal/project"
)

// Scanner resolves every pipeline under Root.
type Scanner struct {
	// Root is the absolute directory searched for pipeline descriptors.
	Root string

	// PipelineFile is the descriptor file name to look for.
	PipelineFile string

	// Exclude holds doublestar patterns skipped during discovery.
	Exclude []string

	// Options is passed to every pipeline. Its Loader is replaced per pass.
	Options pipeline.Options

	// CacheSize enables a per-pass project cache when positive.
	CacheSize int

	// KeepGoing records a failing pipeline in its Result instead of
	// aborting the pass.
	KeepGoing bool
}

// Result is the outcome for one pipeline descriptor.
type Result struct {
	Path     string
	Pipeline *pipeline.Pipeline
	Filter   string
	Err      error
}

// New builds a Scanner from configuration.
func New(cfg config.Config, logger zerolog.Logger) (*Scanner, error) {
	root, err := cfg.AbsRoot()
	if err != nil {
		return nil, err
	}
	return &Scanner{
		Root:         root,
		PipelineFile: cfg.PipelineFile,
		Exclude:      cfg.Exclude,
		Options: pipeline.Options{
			Marker: cfg.RepoMarker,
			Root:   root,
			Ext:    cfg.ProjectExt,
			Hops:   cfg.Hops,
			Logger: logger,
		},
		CacheSize: cfg.CacheSize,
	}, nil
}

// loader returns the project loader for one pass. The cache, when enabled,
// lives only as long as the pass.
func (s *Scanner) loader() (project.Loader, error) {
	var l project.Loader = project.FileLoader{Logger: s.Options.Logger}
	if s.CacheSize > 0 {
		cached, err := project.NewCachedLoader(l, s.CacheSize, s.Options.Logger)
		if err != nil {
			return nil, err
		}
		l = cached
	}
	return l, nil
}

// Scan discovers and resolves all pipelines. Without KeepGoing the first
// failure aborts the pass and is returned.
func (s *Scanner) Scan(ctx context.Context) ([]Result, error) {
	paths, err := discover.Find(s.Root, s.PipelineFile, s.Exclude)
	if err != nil {
		return nil, fmt.Errorf("discovering pipelines: %w", err)
	}

	loader, err := s.loader()
	if err != nil {
		return nil, err
	}
	opts := s.Options
	opts.Loader = loader

	results := make([]Result, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("scan cancelled: %w", err)
		}
		r := resolve(path, opts)
		if r.Err != nil && !s.KeepGoing {
			return nil, r.Err
		}
		results = append(results, r)
	}

	event := s.Options.Logger.Debug().
		Str("root", s.Root).
		Int("pipelines", len(results))
	if cached, ok := loader.(*project.CachedLoader); ok {
		event = event.Int("cached_projects", cached.Len())
	}
	event.Msg("scan complete")
	return results, nil
}

// Resolve resolves a single pipeline descriptor outside a full scan.
func (s *Scanner) Resolve(path string) (Result, error) {
	loader, err := s.loader()
	if err != nil {
		return Result{}, err
	}
	opts := s.Options
	opts.Loader = loader
	abs, err := filepath.Abs(path)
	if err != nil {
		return Result{}, fmt.Errorf("resolving %s: %w", path, err)
	}
	r := resolve(abs, opts)
	return r, r.Err
}

func resolve(path string, opts pipeline.Options) Result {
	r := Result{Path: path}
	p, err := pipeline.Parse(path, opts)
	if err != nil {
		r.Err = err
		return r
	}
	r.Pipeline = p
	r.Filter, r.Err = p.CompletePathFilter()
	return r
}

// Failed returns the results that carry an error.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if r.Err != nil {
			out = append(out, r)
		}
	}
	return out
}

// WatchDirs lists the directories holding every pipeline descriptor and every
// project descriptor that contributed to a filter.
func WatchDirs(results []Result) []string {
	seen := make(map[string]bool)
	var dirs []string
	add := func(dir string) {
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	for _, r := range results {
		add(filepath.Dir(r.Path))
		if r.Pipeline == nil {
			continue
		}
		projects, err := r.Pipeline.Closure(r.Pipeline.Hops())
		if err != nil {
			projects = r.Pipeline.Projects
		}
		for _, proj := range projects {
			add(proj.Dir())
		}
	}
	return dirs
}
