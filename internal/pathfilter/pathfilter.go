// Package pathfilter turns project descriptor paths into the directory globs
// an Azure DevOps path filter expects, and reduces a set of them into the
// canonical filter string.
package pathfilter

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/papapumpkin/depfilter/internal/pathutil"
)

const (
	// Wildcard is the final glob segment appended to every directory.
	Wildcard = "*"
	// Terminator ends each glob in the filter syntax.
	Terminator = ";"
	// Separator joins globs in a filter string.
	Separator = " "
)

// Glob returns the repository-relative glob covering the directory that holds
// the project descriptor at projectPath, e.g. "Module/Api/*;". Descriptors in
// the same directory yield the same glob.
func Glob(projectPath, marker string) string {
	return join(pathutil.RepoRelative(filepath.Dir(projectPath), marker))
}

// GlobWithin is Glob for a repository identified by its root directory
// rather than by a directory name.
func GlobWithin(projectPath, root string) string {
	return join(pathutil.Within(filepath.Dir(projectPath), root))
}

func join(segments []string) string {
	segments = append(slices.Clone(segments), Wildcard)
	return strings.Join(segments, "/") + Terminator
}

// Reduce deduplicates globs and joins them in ascending order.
func Reduce(globs []string) string {
	return strings.Join(Canonical(globs), Separator)
}

// Canonical returns globs sorted and deduplicated by exact string equality.
func Canonical(globs []string) []string {
	out := slices.Clone(globs)
	slices.Sort(out)
	return slices.Compact(out)
}

// Split parses a filter string back into its globs.
func Split(filter string) []string {
	return strings.Fields(filter)
}

// Matches reports whether the repository-relative, slash-separated path would
// trigger a pipeline with the given filter. A trailing "/*" covers the whole
// directory subtree.
func Matches(filter, path string) bool {
	path = strings.TrimPrefix(filepath.ToSlash(path), "/")
	for _, g := range Split(filter) {
		pattern := strings.TrimSuffix(g, Terminator)
		if strings.HasSuffix(pattern, "/"+Wildcard) {
			pattern += Wildcard
		}
		if ok, err := doublestar.Match(pattern, path); err == nil && ok {
			return true
		}
	}
	return false
}
