// Package qpack encodes and decodes the instructions of QPACK, the HTTP/3
// field compression format (RFC 9204).
//
// The package covers the wire layer only: prefix integers, string literals,
// field section prefixes, field line representations, and the encoder and
// decoder stream instructions. Deciding what to insert into the dynamic
// table, tracking acknowledgments and blocking streams is left to the caller,
// which hands the writers table.Entry values describing its decisions.
//
// # Core Features
//
//   - Byte-exact RFC 9204 representations, checked against the RFC examples
//   - Resumable writers: any instruction can be split across buffers
//   - Exact size reporting before a byte is written
//   - Huffman coding used only when it makes a literal shorter
//   - Pluggable observer for instruction events, with a zap adapter
//
// # Basic Usage
//
// Writing a field section that only uses the static table:
//
//	import "github.com/arloliu/qpack"
//
//	section, _ := qpack.AppendFieldSection(nil,
//	    qpack.Field(":method", "GET"),
//	    qpack.Field(":path", "/index.html"),
//	    qpack.Field("x-request-id", "42"),
//	)
//
//	fields, _ := qpack.DecodeFieldSection(section)
//
// Writing encoder stream instructions:
//
//	w, _ := qpack.NewEncoderInstructionsWriter()
//	n, _ := w.ConfigureForTableCapacityUpdate(4096)
//	buf := buffer.New(n)
//	done, _ := w.Write(buf)
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the instruction
// package, simplifying the most common use cases. For advanced usage and
// fine-grained control, use the instruction, section and encoding packages
// directly.
package qpack

import (
	"fmt"

	"github.com/arloliu/qpack/buffer"
	"github.com/arloliu/qpack/errs"
	"github.com/arloliu/qpack/format"
	"github.com/arloliu/qpack/instruction"
	"github.com/arloliu/qpack/section"
	"github.com/arloliu/qpack/table"
)

// NewHeaderFrameWriter creates a HeaderFrameWriter. Without options, literals
// are Huffman-coded with the static code when the entry asks for it.
func NewHeaderFrameWriter(opts ...instruction.WriterOption) (*instruction.HeaderFrameWriter, error) {
	return instruction.NewHeaderFrameWriter(opts...)
}

// NewEncoderInstructionsWriter creates an EncoderInstructionsWriter.
func NewEncoderInstructionsWriter(opts ...instruction.WriterOption) (*instruction.EncoderInstructionsWriter, error) {
	return instruction.NewEncoderInstructionsWriter(opts...)
}

// NewDecoderInstructionsWriter creates a DecoderInstructionsWriter.
func NewDecoderInstructionsWriter(opts ...instruction.WriterOption) (*instruction.DecoderInstructionsWriter, error) {
	return instruction.NewDecoderInstructionsWriter(opts...)
}

// NewParser creates a Parser with default settings.
func NewParser(opts ...instruction.ParserOption) (*instruction.Parser, error) {
	return instruction.NewParser(opts...)
}

// Field returns the cheapest static-table representation of a header field:
// fully indexed on an exact match, a name reference on a name match, and a
// literal otherwise. Literals ask for Huffman coding.
func Field(name, value string) table.Entry {
	if e, ok := table.LookupStatic(name, value, true); ok {
		return e
	}

	return table.NewLiteral(name, value, true)
}

// AppendFieldSection appends an encoded field section holding fields to dst.
//
// The section never references the dynamic table, so its Required Insert
// Count is zero and it can be decoded without any encoder stream state.
// fields must be static references or literals, as returned by Field.
//
// Parameters:
//   - dst: Destination slice, may be nil
//   - fields: Fields in order
//
// Returns:
//   - []byte: dst with the section appended
//   - error: errs.ErrUnsupportedType for a dynamic table reference, or any
//     error reported by the header frame writer
func AppendFieldSection(dst []byte, fields ...table.Entry) ([]byte, error) {
	w, err := NewHeaderFrameWriter()
	if err != nil {
		return dst, err
	}

	buf := buffer.Get()
	defer buffer.Put(buf)

	write := func(size int) error {
		buf.Grow(size)
		done, err := w.Write(buf)
		if err != nil {
			return err
		}
		if !done {
			return fmt.Errorf("%w: header frame writer stopped with room left", errs.ErrIllegalState)
		}

		return nil
	}

	size, err := w.ConfigureForSectionPrefix(section.FieldSectionPrefix{}, 0)
	if err != nil {
		return dst, err
	}
	if err := write(size); err != nil {
		return dst, err
	}

	for i, f := range fields {
		if !f.Static && f.Type != format.EntryNeither {
			return dst, fmt.Errorf("%w: field %d references the dynamic table", errs.ErrUnsupportedType, i)
		}
		size, err := w.ConfigureForFieldLine(f, false, 0)
		if err != nil {
			return dst, fmt.Errorf("field %d: %w", i, err)
		}
		if err := write(size); err != nil {
			return dst, err
		}
	}

	return append(dst, buf.Bytes()...), nil
}

// DecodeFieldSection decodes a field section that does not reference the
// dynamic table. Static references are resolved to their names and values.
func DecodeFieldSection(src []byte) ([]table.Entry, error) {
	p, err := NewParser()
	if err != nil {
		return nil, err
	}

	_, lines, err := p.ParseFieldSection(src, 0, 0)
	if err != nil {
		return nil, err
	}

	fields := make([]table.Entry, len(lines))
	for i, line := range lines {
		fields[i] = line.Entry
	}

	return fields, nil
}
