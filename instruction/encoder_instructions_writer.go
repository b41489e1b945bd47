package instruction

import (
	"fmt"

	"github.com/arloliu/qpack/buffer"
	"github.com/arloliu/qpack/errs"
	"github.com/arloliu/qpack/format"
	"github.com/arloliu/qpack/huffman"
	"github.com/arloliu/qpack/table"
)

// EncoderInstructionsWriter writes instructions on the encoder stream:
// insertions, duplications and dynamic table capacity updates.
//
// Only one instruction may be in flight at a time. An
// EncoderInstructionsWriter is not safe for concurrent use.
type EncoderInstructionsWriter struct {
	policy huffman.Policy

	integer IntegerRepresentationWriter
	nameRef *NameReferenceWriter
	literal *LiteralNameWriter

	flight flight
}

// NewEncoderInstructionsWriter creates an EncoderInstructionsWriter.
//
// Parameters:
//   - opts: Optional configuration (WithObserver, WithHuffmanPolicy, WithHuffmanCoder)
//
// Returns:
//   - *EncoderInstructionsWriter: The new writer
//   - error: Error if an option is invalid
func NewEncoderInstructionsWriter(opts ...WriterOption) (*EncoderInstructionsWriter, error) {
	cfg, err := NewWriterConfig(opts...)
	if err != nil {
		return nil, err
	}

	return &EncoderInstructionsWriter{
		policy:  cfg.Policy(),
		nameRef: NewNameReferenceWriter(cfg.Coder()),
		literal: NewLiteralNameWriter(cfg.Coder()),
		flight:  newFlight("encoder", cfg.Observer()),
	}, nil
}

// ConfigureForEntryInsertion prepares the instruction inserting entry into the
// dynamic table.
//
// Entries of type EntryName, and static entries of type EntryNameValue, are
// inserted with a name reference. EntryNeither entries are inserted with a
// literal name. A dynamic EntryNameValue entry is already in the table and
// must be duplicated instead.
//
// Parameters:
//   - entry: Field to insert; a dynamic entry.Index is absolute
//   - insertCount: Number of insertions made so far on the encoder stream
//
// Returns:
//   - int: Exact number of bytes the instruction occupies
//   - error: errs.ErrIllegalState, errs.ErrOutOfBounds or errs.ErrUnsupportedType
func (w *EncoderInstructionsWriter) ConfigureForEntryInsertion(entry table.Entry, insertCount uint64) (int, error) {
	if err := w.flight.checkIdle(); err != nil {
		return 0, err
	}

	switch entry.Type {
	case format.EntryName, format.EntryNameValue:
		if !entry.Static && entry.Type == format.EntryNameValue {
			return 0, fmt.Errorf("%w: dynamic %v entry can only be duplicated",
				errs.ErrUnsupportedType, entry.Type)
		}

		return w.configureInsertNameRef(entry, insertCount)
	case format.EntryNeither:
		err := w.literal.Configure(format.PatternInsertLiteralName, format.PrefixInsertLiteralName,
			entry.Name, w.policy.Use(entry.HuffmanName),
			entry.Value, w.policy.Use(entry.HuffmanValue))
		if err != nil {
			return 0, err
		}

		return w.flight.begin(w.literal, format.InstructionInsertLiteralName), nil
	default:
		return 0, fmt.Errorf("%w: entry type %v", errs.ErrUnsupportedType, entry.Type)
	}
}

func (w *EncoderInstructionsWriter) configureInsertNameRef(entry table.Entry, insertCount uint64) (int, error) {
	payload := byte(format.PatternInsertNameRef)
	index := entry.Index

	if entry.Static {
		if err := checkStaticIndex(index); err != nil {
			return 0, err
		}
		payload |= format.InsertStaticFlag
	} else {
		relative, err := InsertRelativeIndex(index, insertCount)
		if err != nil {
			return 0, err
		}
		index = relative
	}

	err := w.nameRef.Configure(index, format.PrefixInsertNameRef, payload,
		entry.Value, w.policy.Use(entry.HuffmanValue))
	if err != nil {
		return 0, err
	}

	return w.flight.begin(w.nameRef, format.InstructionInsertNameRef), nil
}

// ConfigureForDuplicate prepares the instruction duplicating the dynamic
// table entry at the absolute index.
//
// Returns:
//   - int: Exact number of bytes the instruction occupies
//   - error: errs.ErrIllegalState, or errs.ErrOutOfBounds if index is not below insertCount
func (w *EncoderInstructionsWriter) ConfigureForDuplicate(index, insertCount uint64) (int, error) {
	if err := w.flight.checkIdle(); err != nil {
		return 0, err
	}

	relative, err := InsertRelativeIndex(index, insertCount)
	if err != nil {
		return 0, err
	}
	if err := w.integer.Configure(relative, format.PrefixDuplicate, format.PatternDuplicate); err != nil {
		return 0, err
	}

	return w.flight.begin(&w.integer, format.InstructionDuplicate), nil
}

// ConfigureForTableCapacityUpdate prepares a Set Dynamic Table Capacity instruction.
func (w *EncoderInstructionsWriter) ConfigureForTableCapacityUpdate(capacity uint64) (int, error) {
	if err := w.flight.checkIdle(); err != nil {
		return 0, err
	}
	if err := w.integer.Configure(capacity, format.PrefixSetCapacity, format.PatternSetCapacity); err != nil {
		return 0, err
	}

	return w.flight.begin(&w.integer, format.InstructionSetCapacity), nil
}

// Write emits as much of the configured instruction as buf can hold.
//
// Returns:
//   - bool: true once the instruction is complete; a new one may then be configured
//   - error: errs.ErrIllegalState if nothing is configured
func (w *EncoderInstructionsWriter) Write(buf *buffer.Buffer) (bool, error) {
	return w.flight.write(buf)
}

// InProgress reports whether an instruction is configured and not yet fully written.
func (w *EncoderInstructionsWriter) InProgress() bool {
	return w.flight.inProgress
}

// Reset abandons the in-flight instruction, if any.
func (w *EncoderInstructionsWriter) Reset() {
	w.flight.reset()
	w.integer.Reset()
	w.nameRef.Reset()
	w.literal.Reset()
}
