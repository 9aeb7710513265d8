// Package project reads project descriptors (.csproj files) and extracts the
// inter-project references they declare.
package project

import (
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/papapumpkin/depfilter/internal/fenced"
	"github.com/papapumpkin/depfilter/internal/pathutil"
)

// DefaultExt is the project descriptor extension, without the leading dot.
const DefaultExt = "csproj"

const (
	referenceElement   = "<ProjectReference"
	referenceAttribute = "Include="
	doubleQuote        = `"`
)

// Reference is a declared dependency on another project descriptor.
// IncludePath is absolute and free of ".." segments.
type Reference struct {
	IncludePath string
}

// Project is a parsed project descriptor. It is not mutated after
// construction; References keeps source order with test projects removed.
type Project struct {
	Path       string
	References []Reference
}

// Dir returns the directory containing the descriptor.
func (p *Project) Dir() string {
	return filepath.Dir(p.Path)
}

// Parse reads the descriptor at path and resolves its project references.
// Referenced projects are not loaded. A read failure returns a *ReadError.
func Parse(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}
	if !utf8.Valid(data) {
		return nil, &ReadError{Path: path, Err: ErrInvalidEncoding}
	}
	return FromContent(path, string(data)), nil
}

// FromContent builds a Project from descriptor text already in memory. The
// test-exclusion filter uses the extension of path.
func FromContent(path, content string) *Project {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		ext = DefaultExt
	}
	dir := filepath.Dir(path)

	var refs []Reference
	for _, line := range Lines(content) {
		if IsTestReference(line, ext) {
			continue
		}
		raw, ok := ExtractReference(line)
		if !ok {
			continue
		}
		refs = append(refs, Reference{
			IncludePath: pathutil.ResolveLexical(dir, raw, pathutil.ReferenceSeparators),
		})
	}

	return &Project{Path: path, References: refs}
}

// ExtractReference recognizes a line of the form
//
//	<ProjectReference Include="..\Other\Other.csproj" />
//
// with arbitrary leading whitespace and optional whitespace between the
// element and the attribute. It returns the raw, unresolved attribute value.
func ExtractReference(line string) (string, bool) {
	rest := strings.TrimLeft(line, " \t\r\n")
	if !strings.HasPrefix(rest, referenceElement) {
		return "", false
	}
	rest = strings.TrimLeft(rest[len(referenceElement):], " \t\r\n")
	if !strings.HasPrefix(rest, referenceAttribute) {
		return "", false
	}
	return fenced.Prefixed(rest[len(referenceAttribute):], doubleQuote, doubleQuote)
}

// IsTestReference reports whether line mentions a test project. Such lines are
// skipped before any other matching.
func IsTestReference(line, ext string) bool {
	return strings.Contains(line, "Tests."+ext) ||
		strings.Contains(line, "Test."+ext) ||
		strings.Contains(line, ".Test")
}

// Lines splits descriptor text into lines, dropping the line terminators.
func Lines(content string) []string {
	lines := strings.Split(content, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
