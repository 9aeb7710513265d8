// Package report writes a TOML summary of a scan: every pipeline, the
// projects it builds, the projects pulled in by reference, and its filter.
package report

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/papapumpkin/depfilter/internal/pathfilter"
	"github.com/papapumpkin/depfilter/internal/scan"
)

// DefaultPath is the conventional report location, relative to the root.
const DefaultPath = ".depfilter/report.toml"

// Version is the current report format version.
const Version = 1

// Report is the root of the TOML document.
type Report struct {
	Header    Header  `toml:"depfilter"`
	Pipelines []Entry `toml:"pipeline"`
}

// Header describes the scan that produced the report.
type Header struct {
	Version   int       `toml:"version"`
	Generated time.Time `toml:"generated"`
	Root      string    `toml:"root"`
	Marker    string    `toml:"marker,omitempty"`
	Hops      int       `toml:"hops"`
}

// Entry is one pipeline. Paths are slash-separated and relative to the root.
type Entry struct {
	Name         string   `toml:"name"`
	Path         string   `toml:"path"`
	Projects     []string `toml:"projects"`
	Dependencies []string `toml:"dependencies"`
	Globs        []string `toml:"globs"`
	Filter       string   `toml:"filter"`
	Error        string   `toml:"error,omitempty"`
}

// Build assembles a report from scan results.
func Build(results []scan.Result, root, marker string, hops int, now time.Time) *Report {
	r := &Report{
		Header: Header{
			Version:   Version,
			Generated: now.UTC(),
			Root:      root,
			Marker:    marker,
			Hops:      hops,
		},
		Pipelines: make([]Entry, 0, len(results)),
	}

	for _, res := range results {
		e := Entry{
			Path:   relative(root, res.Path),
			Name:   filepath.Base(filepath.Dir(res.Path)),
			Filter: res.Filter,
			Globs:  pathfilter.Split(res.Filter),
		}
		if res.Err != nil {
			e.Error = res.Err.Error()
		}
		if p := res.Pipeline; p != nil {
			for _, proj := range p.Projects {
				e.Projects = append(e.Projects, relative(root, proj.Path))
			}
			if closure, err := p.Closure(hops); err == nil {
				for _, proj := range closure[len(p.Projects):] {
					e.Dependencies = append(e.Dependencies, relative(root, proj.Path))
				}
			}
		}
		r.Pipelines = append(r.Pipelines, e)
	}
	return r
}

func relative(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// Load reads a report. A missing file yields an empty report and no error.
func Load(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Report{}, nil
		}
		return nil, fmt.Errorf("reading report: %w", err)
	}

	var r Report
	if err := toml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parsing report: %w", err)
	}
	return &r, nil
}

// Save writes the report to path, creating parent directories as needed.
func Save(path string, r *Report) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	data, err := toml.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

// Change describes a pipeline whose entry differs between two reports.
type Change struct {
	Path   string
	Reason string
}

// Diff compares the pipelines of prev and next by path, ignoring the header.
// Changes are ordered by path.
func Diff(prev, next *Report) []Change {
	before := make(map[string]Entry, len(prev.Pipelines))
	for _, e := range prev.Pipelines {
		before[e.Path] = e
	}

	var changes []Change
	seen := make(map[string]bool, len(next.Pipelines))
	for _, e := range next.Pipelines {
		seen[e.Path] = true
		old, ok := before[e.Path]
		switch {
		case !ok:
			changes = append(changes, Change{Path: e.Path, Reason: "added"})
		case !sameEntry(old, e):
			changes = append(changes, Change{Path: e.Path, Reason: "changed"})
		}
	}
	for _, e := range prev.Pipelines {
		if !seen[e.Path] {
			changes = append(changes, Change{Path: e.Path, Reason: "removed"})
		}
	}

	slices.SortFunc(changes, func(a, b Change) int {
		return strings.Compare(a.Path, b.Path)
	})
	return changes
}

// sameEntry treats nil and empty lists as equal, since TOML does not keep
// the distinction.
func sameEntry(a, b Entry) bool {
	return a.Name == b.Name &&
		a.Filter == b.Filter &&
		a.Error == b.Error &&
		slices.Equal(a.Projects, b.Projects) &&
		slices.Equal(a.Dependencies, b.Dependencies) &&
		slices.Equal(a.Globs, b.Globs)
}
