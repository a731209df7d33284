// Package herrors provides the structured error type and sentinel error
// kinds used throughout the reader and writer.
package herrors

import (
	"errors"
	"fmt"
)

// Sentinel error kinds. Callers test against these with errors.Is; wrapped
// errors carry additional context via H5Error.
var (
	ErrInvalidSignature      = errors.New("hdf5: invalid file signature")
	ErrPathNotFound          = errors.New("hdf5: path not found")
	ErrNotAGroup             = errors.New("hdf5: not a group")
	ErrNotADataset           = errors.New("hdf5: not a dataset")
	ErrLinkCycle             = errors.New("hdf5: link cycle detected")
	ErrChecksumMismatch      = errors.New("hdf5: checksum mismatch")
	ErrFilterFailed          = errors.New("hdf5: filter pipeline failed")
	ErrUnsupportedDatatype   = errors.New("hdf5: unsupported datatype")
	ErrUnsupportedWriteShape = errors.New("hdf5: unsupported write shape")
	ErrMalformedStructure    = errors.New("hdf5: malformed structure")
	ErrShapeOverflow         = errors.New("hdf5: declared shape exceeds memory budget")
	ErrUnsupportedFilter     = errors.New("hdf5: unsupported filter")
)

// H5Error is a structured error carrying the operation context and the
// underlying cause, following the error model the original core.H5Error
// introduced: context string plus wrapped cause, so errors.Is / errors.As
// still reach the sentinel underneath.
type H5Error struct {
	Context string
	Cause   error
}

// Error implements the error interface.
func (e *H5Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Context, e.Cause)
}

// Unwrap provides compatibility with errors.Is/errors.As.
func (e *H5Error) Unwrap() error {
	return e.Cause
}

// Wrap creates a contextual error around cause, or returns nil if cause is nil.
func Wrap(context string, cause error) error {
	if cause == nil {
		return nil
	}
	return &H5Error{Context: context, Cause: cause}
}

// Wrapf is like Wrap but formats the context string.
func Wrapf(cause error, format string, args ...any) error {
	if cause == nil {
		return nil
	}
	return &H5Error{Context: fmt.Sprintf(format, args...), Cause: cause}
}
