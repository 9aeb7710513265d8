// Package pipeline reads Azure DevOps pipeline descriptors, loads the
// projects they build, and computes the path filter covering those projects
// and their referenced projects.
package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/papapumpkin/depfilter/internal/fenced"
	"github.com/papapumpkin/depfilter/internal/pathfilter"
	"github.com/papapumpkin/depfilter/internal/pathutil"
	"github.com/papapumpkin/depfilter/internal/project"
)

// DefaultFileName is the conventional pipeline descriptor name.
const DefaultFileName = "azure-pipelines.yml"

// DefaultHops is how many reference levels beyond a pipeline's direct
// projects contribute to its filter.
const DefaultHops = 1

// quoteStyles are tried in order on every line.
var quoteStyles = []string{`"`, `'`}

// Options configures pipeline resolution.
type Options struct {
	// Marker is the repository-root directory name. Raw project paths are
	// resolved against the first ancestor with this name and globs are made
	// relative to it.
	Marker string

	// Root is the repository root directory. It is used in place of Marker
	// when Marker is empty.
	Root string

	// Ext is the project descriptor extension without the dot.
	// Empty uses project.DefaultExt.
	Ext string

	// Hops bounds the breadth-first expansion in CompletePathFilter.
	Hops int

	// Loader loads project descriptors. Nil parses from disk every time.
	Loader project.Loader

	Logger zerolog.Logger
}

// DefaultOptions returns options reproducing the one-hop behaviour.
func DefaultOptions(marker string) Options {
	return Options{
		Marker: marker,
		Ext:    project.DefaultExt,
		Hops:   DefaultHops,
		Logger: zerolog.Nop(),
	}
}

func (o Options) withDefaults() Options {
	if o.Ext == "" {
		o.Ext = project.DefaultExt
	}
	if o.Loader == nil {
		o.Loader = project.FileLoader{Logger: o.Logger}
	}
	return o
}

// anchor returns the directory raw project paths in the pipeline at path are
// resolved against.
func (o Options) anchor(path string) string {
	if o.Marker == "" && o.Root != "" {
		return filepath.Clean(o.Root)
	}
	return pathutil.Anchor(path, o.Marker)
}

func (o Options) glob(projectPath string) string {
	if o.Marker == "" && o.Root != "" {
		return pathfilter.GlobWithin(projectPath, o.Root)
	}
	return pathfilter.Glob(projectPath, o.Marker)
}

// Pipeline is a parsed pipeline descriptor. Projects holds only the projects
// the descriptor names directly; deeper levels are computed on demand.
type Pipeline struct {
	Path     string
	Name     string
	Projects []*project.Project

	opts Options
}

// Parse reads the pipeline descriptor at path and loads every project it
// builds. Any descriptor that cannot be read fails the whole parse.
func Parse(path string, opts Options) (*Pipeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &project.ReadError{Path: path, Err: err}
	}
	if !utf8.Valid(data) {
		return nil, &project.ReadError{Path: path, Err: project.ErrInvalidEncoding}
	}
	return FromContent(path, string(data), opts)
}

// FromContent is Parse for descriptor text already in memory. Referenced
// projects are still loaded through opts.Loader.
func FromContent(path, content string, opts Options) (*Pipeline, error) {
	opts = opts.withDefaults()
	p := &Pipeline{
		Path: path,
		Name: filepath.Base(filepath.Dir(path)),
		opts: opts,
	}

	anchor := opts.anchor(path)
	for n, line := range project.Lines(content) {
		if project.IsTestReference(line, opts.Ext) {
			opts.Logger.Debug().Str("pipeline", path).Int("line", n+1).Msg("skipping test project")
			continue
		}
		raw, ok := matchLine(line, opts.Ext)
		if !ok {
			continue
		}
		resolved := pathutil.ResolveLexical(anchor, raw, pathutil.ReferenceSeparators)
		proj, err := opts.Loader.Load(resolved)
		if err != nil {
			return nil, fmt.Errorf("pipeline %s: %w", p.Name, err)
		}
		p.Projects = append(p.Projects, proj)
	}

	opts.Logger.Debug().
		Str("pipeline", path).
		Int("projects", len(p.Projects)).
		Msg("parsed pipeline")
	return p, nil
}

// matchLine tries each quote style in turn.
func matchLine(line, ext string) (string, bool) {
	for _, q := range quoteStyles {
		if raw, ok := ExtractProjectPath(line, ext, q); ok {
			return raw, true
		}
	}
	return "", false
}

// ExtractProjectPath returns the first span of line enclosed in quote, provided
// it names a file with the given extension.
func ExtractProjectPath(line, ext, quote string) (string, bool) {
	raw, ok := fenced.Extract(line, quote, quote)
	if !ok {
		return "", false
	}
	if filepath.Ext(raw) != "."+ext {
		return "", false
	}
	return raw, true
}

// Closure returns the direct projects followed by every project reachable
// within depth reference hops, in breadth-first order. Each descriptor
// appears once; depth 0 yields only the direct projects.
func (p *Pipeline) Closure(depth int) ([]*project.Project, error) {
	out := slices.Clone(p.Projects)
	visited := make(map[string]bool, len(out))
	for _, proj := range out {
		visited[filepath.Clean(proj.Path)] = true
	}

	frontier := p.Projects
	for hop := 0; hop < depth && len(frontier) > 0; hop++ {
		var next []*project.Project
		for _, proj := range frontier {
			for _, ref := range proj.References {
				key := filepath.Clean(ref.IncludePath)
				if visited[key] {
					continue
				}
				visited[key] = true
				dep, err := p.opts.Loader.Load(ref.IncludePath)
				if err != nil {
					return nil, fmt.Errorf("pipeline %s: reference of %s: %w", p.Name, proj.Path, err)
				}
				next = append(next, dep)
			}
		}
		out = append(out, next...)
		frontier = next
	}
	return out, nil
}

// Globs returns the canonical globs for the pipeline's closure.
func (p *Pipeline) Globs() ([]string, error) {
	projects, err := p.Closure(p.opts.Hops)
	if err != nil {
		return nil, err
	}
	globs := make([]string, 0, len(projects))
	for _, proj := range projects {
		globs = append(globs, p.opts.glob(proj.Path))
	}
	return pathfilter.Canonical(globs), nil
}

// CompletePathFilter recomputes the filter string from the current
// descriptors: sorted, deduplicated globs joined by single spaces.
func (p *Pipeline) CompletePathFilter() (string, error) {
	globs, err := p.Globs()
	if err != nil {
		return "", err
	}
	return pathfilter.Reduce(globs), nil
}

// Hops reports the closure depth used by CompletePathFilter.
func (p *Pipeline) Hops() int {
	return p.opts.Hops
}
