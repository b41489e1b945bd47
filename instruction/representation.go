package instruction

import (
	"fmt"

	"github.com/arloliu/qpack/buffer"
	"github.com/arloliu/qpack/encoding"
	"github.com/arloliu/qpack/errs"
	"github.com/arloliu/qpack/format"
	"github.com/arloliu/qpack/huffman"
)

// RepresentationWriter writes one binary representation, possibly across
// several Write calls.
type RepresentationWriter interface {
	// Write emits as much of the representation as buf can hold and reports
	// whether the whole representation has been written.
	Write(buf *buffer.Buffer) (bool, error)
	// Size returns the total number of bytes of the configured representation.
	Size() int
	// Reset returns the writer to its unconfigured state.
	Reset()
}

// representationState tracks which sub-field of a representation is being
// written. Writers with a single field skip repFirstWritten.
type representationState uint8

const (
	repNew representationState = iota
	repConfigured
	repFirstWritten
	repDone
)

func (s representationState) inFlight() bool {
	return s == repConfigured || s == repFirstWritten
}

// IntegerRepresentationWriter writes representations made of a single
// prefixed integer: indexed field lines, Duplicate, Set Dynamic Table Capacity
// and all decoder instructions.
type IntegerRepresentationWriter struct {
	value encoding.IntegerWriter
	size  int
	state representationState
}

var _ RepresentationWriter = (*IntegerRepresentationWriter)(nil)

// Configure prepares w to write value with the given prefix width below payload.
func (w *IntegerRepresentationWriter) Configure(value uint64, prefixWidth int, payload byte) error {
	if w.state.inFlight() {
		return fmt.Errorf("%w: representation is still being written", errs.ErrIllegalState)
	}
	w.value.Reset()
	if err := w.value.Configure(value, prefixWidth, payload); err != nil {
		return err
	}

	w.size = encoding.RequiredBufferSize(prefixWidth, value)
	w.state = repConfigured

	return nil
}

// Write implements RepresentationWriter.
func (w *IntegerRepresentationWriter) Write(buf *buffer.Buffer) (bool, error) {
	switch w.state {
	case repNew:
		return false, fmt.Errorf("%w: representation is not configured", errs.ErrIllegalState)
	case repDone:
		return true, nil
	}

	done, err := w.value.Write(buf)
	if err != nil || !done {
		return false, err
	}
	w.state = repDone

	return true, nil
}

// Size implements RepresentationWriter.
func (w *IntegerRepresentationWriter) Size() int {
	return w.size
}

// Reset implements RepresentationWriter.
func (w *IntegerRepresentationWriter) Reset() {
	w.value.Reset()
	w.size = 0
	w.state = repNew
}

// NameReferenceWriter writes an index followed by a value string literal:
// field lines with a name reference and Insert with Name Reference.
type NameReferenceWriter struct {
	index encoding.IntegerWriter
	value encoding.StringWriter
	size  int
	state representationState
}

var _ RepresentationWriter = (*NameReferenceWriter)(nil)

// NewNameReferenceWriter creates a NameReferenceWriter using coder for
// Huffman literals. A nil coder selects huffman.Static.
func NewNameReferenceWriter(coder huffman.Coder) *NameReferenceWriter {
	w := &NameReferenceWriter{}
	w.value.SetCoder(coder)

	return w
}

// Configure prepares w to write a name reference.
//
// Parameters:
//   - index: Static index, or relative dynamic index
//   - prefixWidth: Width of the index prefix
//   - payload: Pattern bits and flags above the index prefix
//   - value: Value literal, written with a 7-bit length prefix
//   - useHuffman: Whether Huffman coding may be used for the value
func (w *NameReferenceWriter) Configure(index uint64, prefixWidth int, payload byte, value string, useHuffman bool) error {
	if w.state.inFlight() {
		return fmt.Errorf("%w: representation is still being written", errs.ErrIllegalState)
	}
	w.index.Reset()
	w.value.Reset()

	if err := w.index.Configure(index, prefixWidth, payload); err != nil {
		return err
	}
	if err := w.value.Configure(value, 0, len(value), format.StringValuePrefix, 0, useHuffman); err != nil {
		w.index.Reset()
		return err
	}

	w.size = encoding.RequiredBufferSize(prefixWidth, index) + w.value.Size()
	w.state = repConfigured

	return nil
}

// Write implements RepresentationWriter.
func (w *NameReferenceWriter) Write(buf *buffer.Buffer) (bool, error) {
	switch w.state {
	case repNew:
		return false, fmt.Errorf("%w: representation is not configured", errs.ErrIllegalState)
	case repDone:
		return true, nil
	case repConfigured:
		done, err := w.index.Write(buf)
		if err != nil || !done {
			return false, err
		}
		w.state = repFirstWritten
	}

	done, err := w.value.Write(buf)
	if err != nil || !done {
		return false, err
	}
	w.state = repDone

	return true, nil
}

// Size implements RepresentationWriter.
func (w *NameReferenceWriter) Size() int {
	return w.size
}

// Reset implements RepresentationWriter.
func (w *NameReferenceWriter) Reset() {
	w.index.Reset()
	w.value.Reset()
	w.size = 0
	w.state = repNew
}

// LiteralNameWriter writes a name string literal followed by a value string
// literal: field lines with a literal name and Insert with Literal Name.
//
// The name length uses a caller-chosen prefix width with the H flag right
// above it; the value always uses a 7-bit prefix.
type LiteralNameWriter struct {
	name  encoding.StringWriter
	value encoding.StringWriter
	size  int
	state representationState
}

var _ RepresentationWriter = (*LiteralNameWriter)(nil)

// NewLiteralNameWriter creates a LiteralNameWriter using coder for Huffman
// literals. A nil coder selects huffman.Static.
func NewLiteralNameWriter(coder huffman.Coder) *LiteralNameWriter {
	w := &LiteralNameWriter{}
	w.name.SetCoder(coder)
	w.value.SetCoder(coder)

	return w
}

// Configure prepares w to write a literal name and value.
//
// Parameters:
//   - payload: Pattern bits and flags above the name's H flag
//   - nameWidth: Width of the name length prefix
//   - name, huffmanName: Name literal and whether it may be Huffman-coded
//   - value, huffmanValue: Value literal and whether it may be Huffman-coded
func (w *LiteralNameWriter) Configure(payload byte, nameWidth int, name string, huffmanName bool, value string, huffmanValue bool) error {
	if w.state.inFlight() {
		return fmt.Errorf("%w: representation is still being written", errs.ErrIllegalState)
	}
	w.name.Reset()
	w.value.Reset()

	if err := w.name.Configure(name, 0, len(name), nameWidth, payload, huffmanName); err != nil {
		return err
	}
	if err := w.value.Configure(value, 0, len(value), format.StringValuePrefix, 0, huffmanValue); err != nil {
		w.name.Reset()
		return err
	}

	w.size = w.name.Size() + w.value.Size()
	w.state = repConfigured

	return nil
}

// Write implements RepresentationWriter.
func (w *LiteralNameWriter) Write(buf *buffer.Buffer) (bool, error) {
	switch w.state {
	case repNew:
		return false, fmt.Errorf("%w: representation is not configured", errs.ErrIllegalState)
	case repDone:
		return true, nil
	case repConfigured:
		done, err := w.name.Write(buf)
		if err != nil || !done {
			return false, err
		}
		w.state = repFirstWritten
	}

	done, err := w.value.Write(buf)
	if err != nil || !done {
		return false, err
	}
	w.state = repDone

	return true, nil
}

// Size implements RepresentationWriter.
func (w *LiteralNameWriter) Size() int {
	return w.size
}

// Reset implements RepresentationWriter.
func (w *LiteralNameWriter) Reset() {
	w.name.Reset()
	w.value.Reset()
	w.size = 0
	w.state = repNew
}

// RelativeIndex converts an absolute dynamic table index into the index sent
// in a field line, relative to the section base.
//
// Entries below base are sent pre-base as base-1-index; entries at or above
// base are sent post-base as index-base.
func RelativeIndex(index, base uint64) (relative uint64, postBase bool) {
	if index >= base {
		return index - base, true
	}

	return base - 1 - index, false
}

// InsertRelativeIndex converts an absolute dynamic table index into the
// index sent on the encoder stream, relative to the current insert count.
func InsertRelativeIndex(index, insertCount uint64) (uint64, error) {
	if index >= insertCount {
		return 0, fmt.Errorf("%w: dynamic index %d not below insert count %d",
			errs.ErrOutOfBounds, index, insertCount)
	}

	return insertCount - 1 - index, nil
}
