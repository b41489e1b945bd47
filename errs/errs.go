// Package errs defines the sentinel errors returned by the qpack packages.
//
// Call sites wrap these sentinels with context using fmt.Errorf("%w: ..."),
// so callers should match them with errors.Is.
package errs

import "errors"

// Programming errors in the calling layer. They are returned synchronously
// from Configure/Write and never written into the byte stream.
var (
	// ErrIllegalState is returned when Write is called before Configure, or when
	// a new instruction is configured while a previous one is still in flight.
	ErrIllegalState = errors.New("illegal writer state")

	// ErrOutOfBounds is returned for invalid string ranges and for indices that
	// cannot be expressed relative to the given base or insert count.
	ErrOutOfBounds = errors.New("out of bounds")

	// ErrUnsupportedType is returned when an entry type is not valid for the
	// requested instruction shape, or when a decoded instruction inserts no entry.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrInvalidPrefix is returned for a prefix width outside [1, 8] or a payload
	// that overlaps the integer prefix bits.
	ErrInvalidPrefix = errors.New("invalid integer prefix")
)

// Malformed input on the decode side. These are fatal framing errors for the
// enclosing stream.
var (
	ErrMalformedInteger     = errors.New("malformed prefixed integer")
	ErrTruncated            = errors.New("truncated input")
	ErrStringTooLong        = errors.New("string literal too long")
	ErrInvalidHuffman       = errors.New("invalid huffman-encoded data")
	ErrInvalidSectionPrefix = errors.New("invalid field section prefix")
)
