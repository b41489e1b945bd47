package instruction

import (
	"fmt"

	"github.com/arloliu/qpack/buffer"
	"github.com/arloliu/qpack/errs"
	"github.com/arloliu/qpack/format"
	"github.com/arloliu/qpack/huffman"
	"github.com/arloliu/qpack/section"
	"github.com/arloliu/qpack/table"
)

// HeaderFrameWriter writes the encoded field section carried in an HTTP/3
// HEADERS frame: one field section prefix followed by field lines.
//
// Only one representation may be in flight at a time. A HeaderFrameWriter is
// not safe for concurrent use.
type HeaderFrameWriter struct {
	policy huffman.Policy

	prefix  section.PrefixWriter
	indexed IntegerRepresentationWriter
	nameRef *NameReferenceWriter
	literal *LiteralNameWriter

	flight flight
}

// NewHeaderFrameWriter creates a HeaderFrameWriter.
//
// Parameters:
//   - opts: Optional configuration (WithObserver, WithHuffmanPolicy, WithHuffmanCoder)
//
// Returns:
//   - *HeaderFrameWriter: The new writer
//   - error: Error if an option is invalid
func NewHeaderFrameWriter(opts ...WriterOption) (*HeaderFrameWriter, error) {
	cfg, err := NewWriterConfig(opts...)
	if err != nil {
		return nil, err
	}

	return &HeaderFrameWriter{
		policy:  cfg.Policy(),
		nameRef: NewNameReferenceWriter(cfg.Coder()),
		literal: NewLiteralNameWriter(cfg.Coder()),
		flight:  newFlight("header", cfg.Observer()),
	}, nil
}

// ConfigureForSectionPrefix prepares the field section prefix.
//
// Parameters:
//   - prefix: Required Insert Count and Base of the section
//   - maxEntries: Maximum number of dynamic table entries, see section.MaxEntries
//
// Returns:
//   - int: Exact number of bytes the prefix occupies
//   - error: errs.ErrIllegalState or errs.ErrInvalidSectionPrefix
func (w *HeaderFrameWriter) ConfigureForSectionPrefix(prefix section.FieldSectionPrefix, maxEntries uint64) (int, error) {
	if err := w.flight.checkIdle(); err != nil {
		return 0, err
	}
	if err := w.prefix.Configure(prefix, maxEntries); err != nil {
		return 0, err
	}

	return w.flight.begin(&w.prefix, format.InstructionSectionPrefix), nil
}

// ConfigureForFieldLine prepares the field line representing entry.
//
// The representation follows entry.Type and entry.Static:
//   - EntryNameValue: indexed field line (static, pre-base or post-base)
//   - EntryName: field line with name reference and a value literal
//   - EntryNeither: field line with literal name and value
//
// Dynamic indices are absolute and are converted relative to base.
//
// Parameters:
//   - entry: Field to write
//   - sensitive: Set the N bit so intermediaries never index the field
//   - base: Base of the enclosing field section
//
// Returns:
//   - int: Exact number of bytes the field line occupies
//   - error: errs.ErrIllegalState, errs.ErrOutOfBounds or errs.ErrUnsupportedType
func (w *HeaderFrameWriter) ConfigureForFieldLine(entry table.Entry, sensitive bool, base uint64) (int, error) {
	if err := w.flight.checkIdle(); err != nil {
		return 0, err
	}

	switch entry.Type {
	case format.EntryNameValue:
		return w.configureIndexed(entry, base)
	case format.EntryName:
		return w.configureNameRef(entry, sensitive, base)
	case format.EntryNeither:
		payload := byte(format.PatternLiteralName)
		if sensitive {
			payload |= format.NeverIndexedLiteralName
		}
		err := w.literal.Configure(payload, format.PrefixLiteralName,
			entry.Name, w.policy.Use(entry.HuffmanName),
			entry.Value, w.policy.Use(entry.HuffmanValue))
		if err != nil {
			return 0, err
		}

		return w.flight.begin(w.literal, format.InstructionLiteralName), nil
	default:
		return 0, fmt.Errorf("%w: entry type %v", errs.ErrUnsupportedType, entry.Type)
	}
}

func (w *HeaderFrameWriter) configureIndexed(entry table.Entry, base uint64) (int, error) {
	if entry.Static {
		if err := checkStaticIndex(entry.Index); err != nil {
			return 0, err
		}
		if err := w.indexed.Configure(entry.Index, format.PrefixIndexed, format.PatternIndexedStatic); err != nil {
			return 0, err
		}

		return w.flight.begin(&w.indexed, format.InstructionIndexedStatic), nil
	}

	relative, postBase := RelativeIndex(entry.Index, base)
	if postBase {
		if err := w.indexed.Configure(relative, format.PrefixIndexedPostBase, format.PatternIndexedPostBase); err != nil {
			return 0, err
		}

		return w.flight.begin(&w.indexed, format.InstructionIndexedPostBase), nil
	}

	if err := w.indexed.Configure(relative, format.PrefixIndexed, format.PatternIndexedDynamic); err != nil {
		return 0, err
	}

	return w.flight.begin(&w.indexed, format.InstructionIndexedDynamic), nil
}

func (w *HeaderFrameWriter) configureNameRef(entry table.Entry, sensitive bool, base uint64) (int, error) {
	huff := w.policy.Use(entry.HuffmanValue)

	var (
		index       uint64
		width       int
		payload     byte
		instruction format.Instruction
	)

	switch {
	case entry.Static:
		if err := checkStaticIndex(entry.Index); err != nil {
			return 0, err
		}
		index, width, payload = entry.Index, format.PrefixNameRef, format.PatternNameRefStatic
		instruction = format.InstructionNameRefStatic
		if sensitive {
			payload |= format.NeverIndexedNameRef
		}
	default:
		relative, postBase := RelativeIndex(entry.Index, base)
		if postBase {
			index, width, payload = relative, format.PrefixNameRefPostBase, format.PatternNameRefPostBase
			instruction = format.InstructionNameRefPostBase
			if sensitive {
				payload |= format.NeverIndexedNameRefPostBase
			}
		} else {
			index, width, payload = relative, format.PrefixNameRef, format.PatternNameRefDynamic
			instruction = format.InstructionNameRefDynamic
			if sensitive {
				payload |= format.NeverIndexedNameRef
			}
		}
	}

	if err := w.nameRef.Configure(index, width, payload, entry.Value, huff); err != nil {
		return 0, err
	}

	return w.flight.begin(w.nameRef, instruction), nil
}

// Write emits as much of the configured representation as buf can hold.
//
// Returns:
//   - bool: true once the representation is complete; a new one may then be configured
//   - error: errs.ErrIllegalState if nothing is configured
func (w *HeaderFrameWriter) Write(buf *buffer.Buffer) (bool, error) {
	return w.flight.write(buf)
}

// InProgress reports whether a representation is configured and not yet fully written.
func (w *HeaderFrameWriter) InProgress() bool {
	return w.flight.inProgress
}

// Reset abandons the in-flight representation, if any.
func (w *HeaderFrameWriter) Reset() {
	w.flight.reset()
	w.prefix.Reset()
	w.indexed.Reset()
	w.nameRef.Reset()
	w.literal.Reset()
}

func checkStaticIndex(index uint64) error {
	if index >= uint64(table.StaticTableSize) {
		return fmt.Errorf("%w: static index %d, table has %d entries",
			errs.ErrOutOfBounds, index, table.StaticTableSize)
	}

	return nil
}
