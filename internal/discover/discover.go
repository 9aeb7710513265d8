// Package discover locates pipeline descriptors in a repository tree and
// watches descriptor directories for edits.
package discover

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultExclude lists build output and tooling directories that never hold
// pipeline descriptors worth reading.
var DefaultExclude = []string{
	"**/bin/**",
	"**/obj/**",
	"**/node_modules/**",
	"**/.git/**",
}

// ValidatePatterns reports the first malformed exclude pattern.
func ValidatePatterns(patterns []string) error {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("invalid exclude pattern %q", p)
		}
	}
	return nil
}

// Find walks root and returns the absolute paths of regular files named
// fileName, sorted. Entries that cannot be read are skipped, as are paths
// matching any exclude pattern (doublestar syntax, relative to root).
func Find(root, fileName string, exclude []string) ([]string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", root, err)
	}
	if err := ValidatePatterns(exclude); err != nil {
		return nil, err
	}

	var found []string
	walkErr := filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == abs {
				return err
			}
			return nil
		}
		rel, relErr := filepath.Rel(abs, path)
		if relErr != nil || rel == "." {
			return nil
		}
		if excluded(filepath.ToSlash(rel), exclude) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() && d.Name() == fileName {
			found = append(found, path)
		}
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("walking %s: %w", abs, walkErr)
	}

	sort.Strings(found)
	return found, nil
}

func excluded(rel string, patterns []string) bool {
	for _, p := range patterns {
		if ok, err := doublestar.Match(p, rel); err == nil && ok {
			return true
		}
	}
	return false
}
