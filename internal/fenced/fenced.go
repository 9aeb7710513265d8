// Package fenced extracts text enclosed between a pair of markers on a single
// line. It is the primitive every descriptor matcher in depfilter is built on.
package fenced

import "strings"

// Extract returns the text strictly between the first occurrence of open and
// the first occurrence of closing that follows it. The bool is false when
// either marker is missing.
//
// No escaping is supported: a closing marker inside the intended payload ends
// the match early.
func Extract(line, open, closing string) (string, bool) {
	if open == "" || closing == "" {
		return "", false
	}
	start := strings.Index(line, open)
	if start < 0 {
		return "", false
	}
	rest := line[start+len(open):]
	end := strings.Index(rest, closing)
	if end < 0 {
		return "", false
	}
	return rest[:end], true
}

// Prefixed is like Extract but requires line to begin with open. It mirrors a
// sequential match where the opening marker is the next expected token.
func Prefixed(line, open, closing string) (string, bool) {
	if !strings.HasPrefix(line, open) {
		return "", false
	}
	return Extract(line, open, closing)
}
