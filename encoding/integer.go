package encoding

import (
	"fmt"

	"github.com/arloliu/qpack/buffer"
	"github.com/arloliu/qpack/errs"
)

// MaxContinuationBytes is the maximum number of continuation bytes accepted
// after the prefix byte of an integer. Ten bytes carry 70 bits, enough for any
// uint64.
const MaxContinuationBytes = 10

type integerState uint8

const (
	intNew integerState = iota
	intConfigured
	intContinuation
	intDone
)

// IntegerWriter writes one N-bit prefix integer (RFC 9204 section 4.1.1).
//
// The first byte holds the payload in its high 8-N bits and the integer prefix
// in its low N bits. Values that do not fit in the prefix are continued in
// base-128, least significant group first, with bit 7 set on every byte but
// the last.
//
// The writer may be drained across any number of Write calls. It must be
// written to completion or Reset before it can be configured again.
type IntegerWriter struct {
	value       uint64
	payload     byte
	prefixWidth uint8
	state       integerState
}

// Configure prepares w to write value.
//
// Parameters:
//   - value: The integer to encode
//   - prefixWidth: Number of low bits of the first byte used by the integer (1-8)
//   - payload: Fixed high bits of the first byte; must not overlap the prefix bits
//
// Returns:
//   - error: errs.ErrInvalidPrefix for a bad width or payload, errs.ErrIllegalState
//     if a previous value is still being written
func (w *IntegerWriter) Configure(value uint64, prefixWidth int, payload byte) error {
	if w.state == intConfigured || w.state == intContinuation {
		return fmt.Errorf("%w: integer writer is already configured", errs.ErrIllegalState)
	}
	if err := checkPrefix(prefixWidth, payload); err != nil {
		return err
	}

	w.value = value
	w.payload = payload
	w.prefixWidth = uint8(prefixWidth) //nolint:gosec
	w.state = intConfigured

	return nil
}

// Write emits as many bytes of the integer as buf can hold.
//
// Returns:
//   - bool: true once the whole integer has been written
//   - error: errs.ErrIllegalState if w was never configured
func (w *IntegerWriter) Write(buf *buffer.Buffer) (bool, error) {
	switch w.state {
	case intNew:
		return false, fmt.Errorf("%w: integer writer is not configured", errs.ErrIllegalState)
	case intDone:
		return true, nil
	case intConfigured:
		if !buf.HasRemaining() {
			return false, nil
		}
		maxPrefix := prefixMax(w.prefixWidth)
		if w.value < maxPrefix {
			buf.PutByte(w.payload | byte(w.value))
			w.state = intDone

			return true, nil
		}
		buf.PutByte(w.payload | byte(maxPrefix))
		w.value -= maxPrefix
		w.state = intContinuation
	}

	for buf.HasRemaining() {
		if w.value < 0x80 {
			buf.PutByte(byte(w.value))
			w.state = intDone

			return true, nil
		}
		buf.PutByte(byte(w.value&0x7f) | 0x80)
		w.value >>= 7
	}

	return false, nil
}

// Configured reports whether w holds a value that is not yet fully written.
func (w *IntegerWriter) Configured() bool {
	return w.state == intConfigured || w.state == intContinuation
}

// Reset returns w to its unconfigured state.
func (w *IntegerWriter) Reset() {
	w.value = 0
	w.payload = 0
	w.prefixWidth = 0
	w.state = intNew
}

// RequiredBufferSize returns the exact number of bytes value occupies when
// written with an N-bit prefix. It does not validate prefixWidth.
func RequiredBufferSize(prefixWidth int, value uint64) int {
	maxPrefix := prefixMax(uint8(prefixWidth)) //nolint:gosec
	if value < maxPrefix {
		return 1
	}

	size := 2
	for rem := value - maxPrefix; rem >= 0x80; rem >>= 7 {
		size++
	}

	return size
}

// AppendInteger appends the N-bit prefix encoding of value to dst.
//
// The payload holds the non-integer bits of the first byte; its low
// prefixWidth bits must be zero.
func AppendInteger(dst []byte, payload byte, prefixWidth int, value uint64) []byte {
	maxPrefix := prefixMax(uint8(prefixWidth)) //nolint:gosec
	if value < maxPrefix {
		return append(dst, payload|byte(value))
	}

	dst = append(dst, payload|byte(maxPrefix))
	value -= maxPrefix
	for value >= 0x80 {
		dst = append(dst, byte(value&0x7f)|0x80)
		value >>= 7
	}

	return append(dst, byte(value))
}

func prefixMax(prefixWidth uint8) uint64 {
	return (uint64(1) << prefixWidth) - 1
}

func checkPrefix(prefixWidth int, payload byte) error {
	if prefixWidth < 1 || prefixWidth > 8 {
		return fmt.Errorf("%w: prefix width %d not in [1, 8]", errs.ErrInvalidPrefix, prefixWidth)
	}
	if uint64(payload)&prefixMax(uint8(prefixWidth)) != 0 { //nolint:gosec
		return fmt.Errorf("%w: payload 0x%02x overlaps the %d-bit prefix", errs.ErrInvalidPrefix, payload, prefixWidth)
	}

	return nil
}
