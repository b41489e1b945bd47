package encoding

import (
	"fmt"

	"github.com/arloliu/qpack/errs"
	"github.com/arloliu/qpack/huffman"
)

// DefaultMaxStringLength is the default limit on the encoded length of a
// string literal accepted by StringReader.
const DefaultMaxStringLength = 64 * 1024

// StringReader decodes one string literal, possibly fed in pieces.
type StringReader struct {
	length    IntegerReader
	coder     huffman.Coder
	raw       []byte
	decoded   []byte
	maxLength int
	want      int
	huffman   bool
	state     stringState
}

// NewStringReader creates a StringReader accepting literals of at most
// maxLength encoded bytes. A non-positive maxLength selects
// DefaultMaxStringLength and a nil coder selects huffman.Static.
func NewStringReader(coder huffman.Coder, maxLength int) *StringReader {
	if coder == nil {
		coder = huffman.Static{}
	}
	if maxLength <= 0 {
		maxLength = DefaultMaxStringLength
	}

	return &StringReader{coder: coder, maxLength: maxLength}
}

// Configure prepares r to read a literal whose length has the given prefix
// width. The H flag is bit prefixWidth of the first byte.
func (r *StringReader) Configure(prefixWidth int) error {
	if r.state == strConfigured || r.state == strLengthWritten {
		return fmt.Errorf("%w: string reader is already configured", errs.ErrIllegalState)
	}
	if prefixWidth < 1 || prefixWidth > 7 {
		return fmt.Errorf("%w: string prefix width %d not in [1, 7]", errs.ErrInvalidPrefix, prefixWidth)
	}
	if r.coder == nil {
		r.coder = huffman.Static{}
	}
	if r.maxLength <= 0 {
		r.maxLength = DefaultMaxStringLength
	}

	r.length.Reset()
	if err := r.length.Configure(prefixWidth); err != nil {
		return err
	}
	r.raw = r.raw[:0]
	r.decoded = r.decoded[:0]
	r.want = 0
	r.huffman = false
	r.state = strConfigured

	return nil
}

// Read consumes bytes of src until the literal is complete or src runs out.
//
// Returns:
//   - int: Number of bytes consumed from src
//   - bool: true once the literal is complete
//   - error: errs.ErrStringTooLong, errs.ErrInvalidHuffman, errs.ErrMalformedInteger
//     or errs.ErrIllegalState
func (r *StringReader) Read(src []byte) (int, bool, error) {
	consumed := 0

	switch r.state {
	case strNew:
		return 0, false, fmt.Errorf("%w: string reader is not configured", errs.ErrIllegalState)
	case strDone:
		return 0, true, nil
	case strConfigured:
		n, done, err := r.length.Read(src)
		consumed += n
		if err != nil || !done {
			return consumed, false, err
		}

		length := r.length.Value()
		if length > uint64(r.maxLength) { //nolint:gosec
			return consumed, false, fmt.Errorf("%w: %d bytes exceeds limit %d", errs.ErrStringTooLong, length, r.maxLength)
		}
		hbit := byte(1) << r.length.prefixWidth
		r.huffman = r.length.FirstByte()&hbit != 0
		r.want = int(length) //nolint:gosec
		r.state = strLengthWritten
	}

	need := r.want - len(r.raw)
	avail := src[consumed:]
	if len(avail) > need {
		avail = avail[:need]
	}
	r.raw = append(r.raw, avail...)
	consumed += len(avail)
	if len(r.raw) < r.want {
		return consumed, false, nil
	}

	if r.huffman {
		decoded, err := r.coder.AppendDecoded(r.decoded[:0], r.raw)
		if err != nil {
			return consumed, false, err
		}
		r.decoded = decoded
	} else {
		r.decoded = append(r.decoded[:0], r.raw...)
	}
	r.state = strDone

	return consumed, true, nil
}

// String returns the decoded literal. It is only meaningful once Read reported completion.
func (r *StringReader) String() string {
	return string(r.decoded)
}

// Huffman reports whether the literal was Huffman-coded on the wire.
func (r *StringReader) Huffman() bool {
	return r.huffman
}

// FirstByte returns the first byte of the literal, including its high bits.
func (r *StringReader) FirstByte() byte {
	return r.length.FirstByte()
}

// Reset returns r to its unconfigured state, keeping its buffers.
func (r *StringReader) Reset() {
	r.length.Reset()
	r.raw = r.raw[:0]
	r.decoded = r.decoded[:0]
	r.want = 0
	r.huffman = false
	r.state = strNew
}

// DecodeString decodes a string literal from the start of src.
//
// Returns:
//   - string: The decoded text
//   - bool: Whether it was Huffman-coded
//   - int: Number of bytes consumed
//   - error: errs.ErrTruncated if src ends early, or any StringReader error
func DecodeString(src []byte, prefixWidth int, coder huffman.Coder, maxLength int) (string, bool, int, error) {
	r := NewStringReader(coder, maxLength)
	if err := r.Configure(prefixWidth); err != nil {
		return "", false, 0, err
	}

	n, done, err := r.Read(src)
	if err != nil {
		return "", false, n, err
	}
	if !done {
		return "", false, n, errs.ErrTruncated
	}

	return r.String(), r.Huffman(), n, nil
}
