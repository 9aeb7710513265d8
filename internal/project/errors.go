package project

import "errors"

// Sentinel errors for descriptor loading.
var (
	// ErrReadDescriptor indicates a descriptor file could not be read.
	ErrReadDescriptor = errors.New("cannot read descriptor")
	// ErrInvalidEncoding indicates a descriptor is not valid UTF-8 text.
	ErrInvalidEncoding = errors.New("descriptor is not valid UTF-8")
)

// ReadError records which descriptor failed to load. It matches
// ErrReadDescriptor with errors.Is and also unwraps to the underlying cause.
type ReadError struct {
	Path string
	Err  error
}

// Error returns the failing path and cause.
func (e *ReadError) Error() string {
	return "reading " + e.Path + ": " + e.Err.Error()
}

// Unwrap exposes both the sentinel and the cause to errors.Is/As.
func (e *ReadError) Unwrap() []error {
	return []error{ErrReadDescriptor, e.Err}
}
