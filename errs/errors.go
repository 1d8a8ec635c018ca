// Package errs defines the sentinel errors returned by dctz.
//
// Errors are wrapped with additional context using fmt.Errorf("%w: ...") at the
// failure site, so callers should match them with errors.Is rather than by
// comparing values directly.
package errs

import (
	"errors"
	"fmt"
)

// Validation errors, detected before any transform work begins.
var (
	// ErrUnsupportedDimension indicates the array rank is outside 2-3.
	ErrUnsupportedDimension = errors.New("unsupported dimension")
	// ErrInvalidType indicates a data type other than float32 or float64.
	ErrInvalidType = errors.New("invalid type")
	// ErrInvalidShape indicates a non-positive or overflowing dimension size.
	ErrInvalidShape = errors.New("invalid shape")
	// ErrInvalidErrorBound indicates a negative, NaN or infinite error bound.
	ErrInvalidErrorBound = errors.New("invalid error bound")
	// ErrInvalidBlockSize indicates a block extent that is not 4, 8, 16 or 32.
	ErrInvalidBlockSize = errors.New("invalid block size")
	// ErrInvalidConfig indicates an option value outside its allowed range.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Stream errors.
var (
	// ErrCorruptStream indicates a truncated or ill-formed compressed stream.
	ErrCorruptStream = errors.New("corrupt stream")
	// ErrInvalidHeaderSize indicates the stream is shorter than its header.
	ErrInvalidHeaderSize = fmt.Errorf("%w: invalid header size", ErrCorruptStream)
	// ErrInvalidHeaderFlags indicates a bad magic number, version or enum field.
	ErrInvalidHeaderFlags = fmt.Errorf("%w: invalid header flags", ErrCorruptStream)
	// ErrChecksumMismatch indicates the record section failed checksum verification.
	ErrChecksumMismatch = fmt.Errorf("%w: checksum mismatch", ErrCorruptStream)
)

// Decompression target errors.
var (
	// ErrTypeMismatch indicates the output array dtype differs from the stream dtype.
	ErrTypeMismatch = errors.New("type mismatch")
	// ErrShapeMismatch indicates the output array shape differs from the stream shape.
	ErrShapeMismatch = errors.New("shape mismatch")
)

// ErrAllocationFailure indicates a buffer could not be allocated, typically
// because a stream header declares more elements than dctz is willing to allocate.
var ErrAllocationFailure = errors.New("allocation failure")
