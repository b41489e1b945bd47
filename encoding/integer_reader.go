package encoding

import (
	"fmt"
	"math/bits"

	"github.com/arloliu/qpack/errs"
)

// IntegerReader decodes one N-bit prefix integer, possibly fed in pieces.
//
// The high bits of the first byte are not part of the integer; they are kept
// and returned by FirstByte so callers can inspect flags that share the byte.
type IntegerReader struct {
	value       uint64
	shift       uint
	continued   int
	firstByte   byte
	prefixWidth uint8
	state       integerState
}

// Configure prepares r to read an integer with the given prefix width.
func (r *IntegerReader) Configure(prefixWidth int) error {
	if r.state == intConfigured || r.state == intContinuation {
		return fmt.Errorf("%w: integer reader is already configured", errs.ErrIllegalState)
	}
	if err := checkPrefix(prefixWidth, 0); err != nil {
		return err
	}

	r.value = 0
	r.shift = 0
	r.continued = 0
	r.firstByte = 0
	r.prefixWidth = uint8(prefixWidth) //nolint:gosec
	r.state = intConfigured

	return nil
}

// Read consumes bytes of src until the integer is complete or src runs out.
//
// Returns:
//   - int: Number of bytes consumed from src
//   - bool: true once the integer is complete
//   - error: errs.ErrMalformedInteger if the value overflows 64 bits or uses too
//     many continuation bytes, errs.ErrIllegalState if r is not configured
func (r *IntegerReader) Read(src []byte) (int, bool, error) {
	switch r.state {
	case intNew:
		return 0, false, fmt.Errorf("%w: integer reader is not configured", errs.ErrIllegalState)
	case intDone:
		return 0, true, nil
	case intConfigured:
		if len(src) == 0 {
			return 0, false, nil
		}
		r.firstByte = src[0]
		maxPrefix := prefixMax(r.prefixWidth)
		r.value = uint64(src[0]) & maxPrefix
		if r.value < maxPrefix {
			r.state = intDone
			return 1, true, nil
		}
		r.state = intContinuation

		n, done, err := r.readContinuation(src[1:])

		return n + 1, done, err
	}

	return r.readContinuation(src)
}

func (r *IntegerReader) readContinuation(src []byte) (int, bool, error) {
	for i, b := range src {
		r.continued++
		if r.continued > MaxContinuationBytes || r.shift > 63 {
			return i + 1, false, fmt.Errorf("%w: more than %d continuation bytes", errs.ErrMalformedInteger, MaxContinuationBytes)
		}

		chunk := uint64(b & 0x7f)
		part := chunk << r.shift
		if part>>r.shift != chunk {
			return i + 1, false, fmt.Errorf("%w: value overflows 64 bits", errs.ErrMalformedInteger)
		}
		sum, carry := bits.Add64(r.value, part, 0)
		if carry != 0 {
			return i + 1, false, fmt.Errorf("%w: value overflows 64 bits", errs.ErrMalformedInteger)
		}
		r.value = sum
		r.shift += 7

		if b&0x80 == 0 {
			r.state = intDone
			return i + 1, true, nil
		}
	}

	return len(src), false, nil
}

// Value returns the decoded integer. It is only meaningful once Read reported completion.
func (r *IntegerReader) Value() uint64 {
	return r.value
}

// FirstByte returns the first byte of the representation, including the
// non-integer high bits.
func (r *IntegerReader) FirstByte() byte {
	return r.firstByte
}

// Done reports whether a complete integer has been read.
func (r *IntegerReader) Done() bool {
	return r.state == intDone
}

// Reset returns r to its unconfigured state.
func (r *IntegerReader) Reset() {
	*r = IntegerReader{}
}

// DecodeInteger decodes an N-bit prefix integer from the start of src.
//
// Returns:
//   - uint64: The decoded value
//   - int: Number of bytes consumed
//   - error: errs.ErrTruncated if src ends before the integer does, or any
//     error reported by IntegerReader.Read
func DecodeInteger(src []byte, prefixWidth int) (uint64, int, error) {
	var r IntegerReader
	if err := r.Configure(prefixWidth); err != nil {
		return 0, 0, err
	}

	n, done, err := r.Read(src)
	if err != nil {
		return 0, n, err
	}
	if !done {
		return 0, n, errs.ErrTruncated
	}

	return r.Value(), n, nil
}
