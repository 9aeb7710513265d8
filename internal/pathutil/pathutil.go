// Package pathutil holds the lexical path arithmetic shared by the project
// and pipeline resolvers. Nothing here touches the filesystem.
package pathutil

import (
	"path/filepath"
	"strings"
)

// ParentSegment is the traversal token that pops one level.
const ParentSegment = ".."

// ReferenceSeparators are the separators accepted inside descriptor values.
// MSBuild writes backslashes; forward slashes show up in hand-edited files.
const ReferenceSeparators = `\/`

// ResolveLexical resolves raw against dir one segment at a time. Segments are
// split on any rune in seps; ".." pops a level and "." or empty segments are
// ignored. Popping past the filesystem root leaves the root in place, so an
// over-popped reference resolves to a shorter path instead of failing.
func ResolveLexical(dir, raw, seps string) string {
	resolved := filepath.Clean(dir)
	segments := strings.FieldsFunc(raw, func(r rune) bool {
		return strings.ContainsRune(seps, r)
	})
	for _, seg := range segments {
		switch seg {
		case ".":
		case ParentSegment:
			resolved = filepath.Dir(resolved)
		default:
			resolved = filepath.Join(resolved, seg)
		}
	}
	return resolved
}

// Anchor returns the first ancestor directory of path whose base name equals
// marker. When marker is empty or never appears, the directory containing
// path is returned.
func Anchor(path, marker string) string {
	dir := filepath.Dir(filepath.Clean(path))
	if marker == "" {
		return dir
	}
	p := split(dir)
	for i, seg := range p.segments {
		if seg == marker {
			return p.join(i + 1)
		}
	}
	return dir
}

// RepoRelative returns the segments of dir that follow the first segment equal
// to marker. If marker is empty or absent every segment of dir is returned.
func RepoRelative(dir, marker string) []string {
	p := split(filepath.Clean(dir))
	if marker != "" {
		for i, seg := range p.segments {
			if seg == marker {
				return p.segments[i+1:]
			}
		}
	}
	return p.segments
}

// Within returns the segments of dir below root. A dir outside root yields
// all of its segments, as RepoRelative does for a missing marker.
func Within(dir, root string) []string {
	dir = filepath.Clean(dir)
	rel, err := filepath.Rel(filepath.Clean(root), dir)
	if err != nil || rel == ParentSegment || strings.HasPrefix(rel, ParentSegment+string(filepath.Separator)) {
		return split(dir).segments
	}
	if rel == "." {
		return nil
	}
	return strings.Split(rel, string(filepath.Separator))
}

type splitPath struct {
	volume   string
	rooted   bool
	segments []string
}

func split(path string) splitPath {
	vol := filepath.VolumeName(path)
	rest := path[len(vol):]
	sep := string(filepath.Separator)
	sp := splitPath{
		volume: vol,
		rooted: strings.HasPrefix(rest, sep),
	}
	trimmed := strings.Trim(rest, sep)
	if trimmed != "" && trimmed != "." {
		sp.segments = strings.Split(trimmed, sep)
	}
	return sp
}

// join rebuilds the path from its first n segments.
func (p splitPath) join(n int) string {
	out := p.volume
	if p.rooted {
		out += string(filepath.Separator)
	}
	return out + strings.Join(p.segments[:n], string(filepath.Separator))
}
