package encoding

import (
	"fmt"

	"github.com/arloliu/qpack/buffer"
	"github.com/arloliu/qpack/errs"
	"github.com/arloliu/qpack/huffman"
)

type stringState uint8

const (
	strNew stringState = iota
	strConfigured
	strLengthWritten
	strDone
)

// StringWriter writes one string literal (RFC 9204 section 4.1.2): an H flag,
// an N-bit prefix length and the raw or Huffman-coded bytes.
//
// The encoded length is fixed when the writer is configured. Huffman coding is
// used only if it was asked for and is strictly shorter than the raw bytes.
// Huffman output is produced into a scratch slice owned by the writer, which is
// reused across strings.
type StringWriter struct {
	length  IntegerWriter
	coder   huffman.Coder
	input   string
	scratch []byte
	pos     int
	size    int
	huffman bool
	state   stringState
}

// NewStringWriter creates a StringWriter using coder for Huffman literals.
// A nil coder selects huffman.Static.
func NewStringWriter(coder huffman.Coder) *StringWriter {
	w := &StringWriter{}
	w.SetCoder(coder)

	return w
}

// SetCoder replaces the Huffman coder. A nil coder selects huffman.Static.
func (w *StringWriter) SetCoder(coder huffman.Coder) {
	if coder == nil {
		coder = huffman.Static{}
	}
	w.coder = coder
}

// Configure prepares w to write input[start:end].
//
// Parameters:
//   - input: The source text
//   - start, end: Byte range of input to write
//   - prefixWidth: Width of the length prefix; the H flag is bit prefixWidth
//   - payload: Fixed high bits of the first byte, above the H flag
//   - useHuffman: Whether Huffman coding may be used
//
// Returns:
//   - error: errs.ErrOutOfBounds for an invalid range, errs.ErrInvalidPrefix for
//     a bad width or payload, errs.ErrIllegalState if a previous string is
//     still being written
func (w *StringWriter) Configure(input string, start, end, prefixWidth int, payload byte, useHuffman bool) error {
	if w.state == strConfigured || w.state == strLengthWritten {
		return fmt.Errorf("%w: string writer is already configured", errs.ErrIllegalState)
	}
	if start < 0 || end < start || end > len(input) {
		return fmt.Errorf("%w: range [%d, %d) of a %d-byte string", errs.ErrOutOfBounds, start, end, len(input))
	}
	if prefixWidth < 1 || prefixWidth > 7 {
		return fmt.Errorf("%w: string prefix width %d not in [1, 7]", errs.ErrInvalidPrefix, prefixWidth)
	}
	if w.coder == nil {
		w.coder = huffman.Static{}
	}

	text := input[start:end]
	hbit := byte(1) << prefixWidth
	if payload&hbit != 0 {
		return fmt.Errorf("%w: payload 0x%02x sets the huffman bit", errs.ErrInvalidPrefix, payload)
	}

	w.huffman = false
	length := len(text)
	if useHuffman && len(text) > 0 {
		if n := w.coder.EncodedLength(text); n < length {
			w.huffman = true
			length = n
			payload |= hbit
			w.scratch = w.coder.AppendEncoded(w.scratch[:0], text)
		}
	}

	if err := w.length.Configure(uint64(length), prefixWidth, payload); err != nil { //nolint:gosec
		return err
	}

	w.input = text
	w.pos = 0
	w.size = RequiredBufferSize(prefixWidth, uint64(length)) + length //nolint:gosec
	w.state = strConfigured

	return nil
}

// Write emits as much of the string as buf can hold.
//
// Returns:
//   - bool: true once the length and all payload bytes have been written
//   - error: errs.ErrIllegalState if w was never configured
func (w *StringWriter) Write(buf *buffer.Buffer) (bool, error) {
	switch w.state {
	case strNew:
		return false, fmt.Errorf("%w: string writer is not configured", errs.ErrIllegalState)
	case strDone:
		return true, nil
	case strConfigured:
		done, err := w.length.Write(buf)
		if err != nil || !done {
			return false, err
		}
		w.state = strLengthWritten
	}

	if w.huffman {
		w.pos += buf.Append(w.scratch[w.pos:])
		if w.pos < len(w.scratch) {
			return false, nil
		}
	} else {
		w.pos += buf.AppendString(w.input[w.pos:])
		if w.pos < len(w.input) {
			return false, nil
		}
	}
	w.state = strDone

	return true, nil
}

// Huffman reports whether the configured string is written Huffman-coded.
func (w *StringWriter) Huffman() bool {
	return w.huffman
}

// Size returns the total number of bytes of the configured string, length
// prefix included.
func (w *StringWriter) Size() int {
	return w.size
}

// Reset returns w to its unconfigured state. The Huffman scratch space is kept.
func (w *StringWriter) Reset() {
	w.length.Reset()
	w.input = ""
	w.scratch = w.scratch[:0]
	w.pos = 0
	w.size = 0
	w.huffman = false
	w.state = strNew
}

// StringSize returns the number of bytes s occupies as a string literal with
// the given prefix width, applying the same Huffman rule as StringWriter.
func StringSize(coder huffman.Coder, s string, prefixWidth int, useHuffman bool) int {
	length := len(s)
	if useHuffman && length > 0 {
		if coder == nil {
			coder = huffman.Static{}
		}
		if n := coder.EncodedLength(s); n < length {
			length = n
		}
	}

	return RequiredBufferSize(prefixWidth, uint64(length)) + length //nolint:gosec
}
