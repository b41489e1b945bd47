// Package huffman provides the Huffman coding table used for QPACK string
// literals.
//
// QPACK reuses the static canonical Huffman code of HPACK (RFC 7541,
// Appendix B). Static implements it on top of golang.org/x/net/http2/hpack so
// both protocols share one code table.
package huffman

import (
	"bytes"
	"fmt"

	"golang.org/x/net/http2/hpack"

	"github.com/arloliu/qpack/errs"
)

// Coder is a Huffman coding table.
type Coder interface {
	// EncodedLength returns the number of bytes s occupies once Huffman-encoded,
	// including the EOS padding of the last byte.
	EncodedLength(s string) int

	// AppendEncoded appends the Huffman encoding of s to dst.
	AppendEncoded(dst []byte, s string) []byte

	// AppendDecoded appends the decoded form of src to dst.
	AppendDecoded(dst []byte, src []byte) ([]byte, error)
}

// Static is the HPACK/QPACK static Huffman code. It is stateless and safe for
// concurrent use.
type Static struct{}

var _ Coder = Static{}

// EncodedLength implements Coder.
func (Static) EncodedLength(s string) int {
	return int(hpack.HuffmanEncodeLength(s)) //nolint:gosec
}

// AppendEncoded implements Coder.
func (Static) AppendEncoded(dst []byte, s string) []byte {
	return hpack.AppendHuffmanString(dst, s)
}

// AppendDecoded implements Coder.
func (Static) AppendDecoded(dst []byte, src []byte) ([]byte, error) {
	out := bytes.NewBuffer(dst)
	if _, err := hpack.HuffmanDecode(out, src); err != nil {
		return dst, fmt.Errorf("%w: %v", errs.ErrInvalidHuffman, err)
	}

	return out.Bytes(), nil
}

// Policy decides whether Huffman coding is considered for a string literal.
//
// The string codec only uses the Huffman form when it is strictly shorter than
// the raw bytes, so a policy that asks for Huffman never makes output longer.
type Policy uint8

const (
	// PolicyRequested honors the Huffman flags carried by each table entry.
	PolicyRequested Policy = iota
	// PolicyAlways considers Huffman coding for every literal.
	PolicyAlways
	// PolicyNever always writes raw literals.
	PolicyNever
)

// Use reports whether Huffman coding should be considered for a literal whose
// entry carries the requested flag.
func (p Policy) Use(requested bool) bool {
	switch p {
	case PolicyAlways:
		return true
	case PolicyNever:
		return false
	default:
		return requested
	}
}

func (p Policy) String() string {
	switch p {
	case PolicyRequested:
		return "Requested"
	case PolicyAlways:
		return "Always"
	case PolicyNever:
		return "Never"
	default:
		return "Unknown"
	}
}
