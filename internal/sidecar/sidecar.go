// Package sidecar reads and writes the path filter file kept beside each
// pipeline descriptor. The file holds the filter string verbatim with no
// trailing newline; CI configuration consumes it as-is.
package sidecar

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// DefaultName is the conventional side-car file name.
const DefaultName = ".azure-pathfilter"

// Status is the result of comparing a side-car file with a computed filter.
type Status int

const (
	StatusCurrent Status = iota // File matches byte-for-byte
	StatusStale                 // File exists with different contents
	StatusMissing               // No file beside the pipeline
)

// String returns a short label for the status.
func (s Status) String() string {
	switch s {
	case StatusCurrent:
		return "current"
	case StatusStale:
		return "contents differ"
	case StatusMissing:
		return "missing"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Path returns the side-car location for a pipeline descriptor.
func Path(pipelinePath, name string) string {
	return filepath.Join(filepath.Dir(pipelinePath), name)
}

// Write stores filter beside the pipeline descriptor and returns the file path.
func Write(pipelinePath, name, filter string) (string, error) {
	path := Path(pipelinePath, name)
	if err := os.WriteFile(path, []byte(filter), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

// Check compares the existing side-car file with filter.
func Check(pipelinePath, name, filter string) (Status, error) {
	path := Path(pipelinePath, name)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return StatusMissing, nil
		}
		return StatusMissing, fmt.Errorf("reading %s: %w", path, err)
	}
	if string(data) != filter {
		return StatusStale, nil
	}
	return StatusCurrent, nil
}
