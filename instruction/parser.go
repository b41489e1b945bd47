package instruction

import (
	"fmt"
	"math"

	"github.com/arloliu/qpack/encoding"
	"github.com/arloliu/qpack/errs"
	"github.com/arloliu/qpack/format"
	"github.com/arloliu/qpack/section"
	"github.com/arloliu/qpack/table"
)

// staticFlag is the T bit of a field line with name reference.
const staticFlag = format.PatternNameRefStatic &^ format.PatternNameRefDynamic

// FieldLine is a decoded field line representation.
type FieldLine struct {
	Instruction format.Instruction
	// Entry carries the absolute index for dynamic references, the static
	// table name (and value, when indexed) for static references, and the
	// literals sent on the wire.
	Entry table.Entry
	// Sensitive is the N bit.
	Sensitive bool
}

// EncoderInstruction is a decoded encoder stream instruction.
type EncoderInstruction struct {
	Instruction format.Instruction
	// Static is the T bit of an insert with name reference.
	Static bool
	// Index is the static index, or the dynamic index relative to the insert
	// count, of an insert with name reference or a duplicate.
	Index uint64
	// Capacity is the new dynamic table capacity of a Set Dynamic Table Capacity.
	Capacity uint64

	Name         string
	Value        string
	HuffmanName  bool
	HuffmanValue bool
}

// Entry converts an insertion into the entry it inserts, resolving indices
// against insertCount, the number of insertions before this one.
//
// Static name references are resolved through the static table; dynamic ones
// get an absolute Index and an empty Name since the parser holds no dynamic
// table.
func (e EncoderInstruction) Entry(insertCount uint64) (table.Entry, error) {
	switch e.Instruction {
	case format.InstructionInsertLiteralName:
		return table.Entry{
			Name:         e.Name,
			Value:        e.Value,
			HuffmanName:  e.HuffmanName,
			HuffmanValue: e.HuffmanValue,
			Type:         format.EntryNeither,
		}, nil
	case format.InstructionInsertNameRef:
		if e.Static {
			st, ok := table.StaticEntry(e.Index)
			if !ok {
				return table.Entry{}, fmt.Errorf("%w: static index %d", errs.ErrOutOfBounds, e.Index)
			}
			st.Value = e.Value
			st.HuffmanValue = e.HuffmanValue
			st.Type = format.EntryName

			return st, nil
		}
		index, err := InsertRelativeIndex(e.Index, insertCount)
		if err != nil {
			return table.Entry{}, err
		}

		return table.Entry{
			Index:        index,
			Value:        e.Value,
			HuffmanValue: e.HuffmanValue,
			Type:         format.EntryName,
		}, nil
	default:
		return table.Entry{}, fmt.Errorf("%w: %v does not insert an entry", errs.ErrUnsupportedType, e.Instruction)
	}
}

// DecoderInstruction is a decoded decoder stream instruction.
type DecoderInstruction struct {
	Instruction format.Instruction
	// Value is the stream ID of a Section Acknowledgment or Stream
	// Cancellation, or the increment of an Insert Count Increment.
	Value uint64
}

// ParseEncoderInstruction decodes one encoder stream instruction from the
// start of src and returns the number of bytes consumed.
func (p *Parser) ParseEncoderInstruction(src []byte) (EncoderInstruction, int, error) {
	if len(src) == 0 {
		return EncoderInstruction{}, 0, errs.ErrTruncated
	}

	var ins EncoderInstruction
	b := src[0]

	switch {
	case b&format.PatternInsertNameRef != 0:
		ins.Instruction = format.InstructionInsertNameRef
		ins.Static = b&format.InsertStaticFlag != 0

		index, n, err := encoding.DecodeInteger(src, format.PrefixInsertNameRef)
		if err != nil {
			return EncoderInstruction{}, n, err
		}
		value, huff, m, err := p.decodeString(src[n:], format.StringValuePrefix)
		if err != nil {
			return EncoderInstruction{}, n + m, err
		}
		ins.Index, ins.Value, ins.HuffmanValue = index, value, huff

		return ins, n + m, nil
	case b&format.PatternInsertLiteralName != 0:
		ins.Instruction = format.InstructionInsertLiteralName

		name, huffName, n, err := p.decodeString(src, format.PrefixInsertLiteralName)
		if err != nil {
			return EncoderInstruction{}, n, err
		}
		value, huffValue, m, err := p.decodeString(src[n:], format.StringValuePrefix)
		if err != nil {
			return EncoderInstruction{}, n + m, err
		}
		ins.Name, ins.HuffmanName = name, huffName
		ins.Value, ins.HuffmanValue = value, huffValue

		return ins, n + m, nil
	case b&format.PatternSetCapacity != 0:
		ins.Instruction = format.InstructionSetCapacity

		capacity, n, err := encoding.DecodeInteger(src, format.PrefixSetCapacity)
		if err != nil {
			return EncoderInstruction{}, n, err
		}
		ins.Capacity = capacity

		return ins, n, nil
	default:
		ins.Instruction = format.InstructionDuplicate

		index, n, err := encoding.DecodeInteger(src, format.PrefixDuplicate)
		if err != nil {
			return EncoderInstruction{}, n, err
		}
		ins.Index = index

		return ins, n, nil
	}
}

// ParseDecoderInstruction decodes one decoder stream instruction from the
// start of src and returns the number of bytes consumed.
func (p *Parser) ParseDecoderInstruction(src []byte) (DecoderInstruction, int, error) {
	if len(src) == 0 {
		return DecoderInstruction{}, 0, errs.ErrTruncated
	}

	var (
		ins   DecoderInstruction
		width int
	)

	switch b := src[0]; {
	case b&format.PatternSectionAck != 0:
		ins.Instruction, width = format.InstructionSectionAck, format.PrefixSectionAck
	case b&format.PatternStreamCancel != 0:
		ins.Instruction, width = format.InstructionStreamCancel, format.PrefixStreamCancel
	default:
		ins.Instruction, width = format.InstructionInsertCountIncrement, format.PrefixInsertCountIncrement
	}

	value, n, err := encoding.DecodeInteger(src, width)
	if err != nil {
		return DecoderInstruction{}, n, err
	}
	if ins.Instruction == format.InstructionInsertCountIncrement && value == 0 {
		return DecoderInstruction{}, n, fmt.Errorf("%w: zero insert count increment", errs.ErrOutOfBounds)
	}
	ins.Value = value

	return ins, n, nil
}

// ParseFieldLine decodes one field line from the start of src and returns
// the number of bytes consumed. Relative dynamic indices are converted to
// absolute ones using base.
func (p *Parser) ParseFieldLine(src []byte, base uint64) (FieldLine, int, error) {
	if len(src) == 0 {
		return FieldLine{}, 0, errs.ErrTruncated
	}

	b := src[0]
	switch {
	case b&format.PatternIndexedDynamic != 0:
		return p.parseIndexed(src, base)
	case b&format.PatternNameRefDynamic != 0:
		line := FieldLine{Sensitive: b&format.NeverIndexedNameRef != 0}
		if b&staticFlag != 0 {
			line.Instruction = format.InstructionNameRefStatic
		} else {
			line.Instruction = format.InstructionNameRefDynamic
		}

		return p.parseNameRef(line, src, format.PrefixNameRef, base)
	case b&format.PatternLiteralName != 0:
		line := FieldLine{
			Instruction: format.InstructionLiteralName,
			Sensitive:   b&format.NeverIndexedLiteralName != 0,
		}

		name, huffName, n, err := p.decodeString(src, format.PrefixLiteralName)
		if err != nil {
			return FieldLine{}, n, err
		}
		value, huffValue, m, err := p.decodeString(src[n:], format.StringValuePrefix)
		if err != nil {
			return FieldLine{}, n + m, err
		}
		line.Entry = table.Entry{
			Name:         name,
			Value:        value,
			HuffmanName:  huffName,
			HuffmanValue: huffValue,
			Type:         format.EntryNeither,
		}

		return line, n + m, nil
	case b&format.PatternIndexedPostBase != 0:
		relative, n, err := encoding.DecodeInteger(src, format.PrefixIndexedPostBase)
		if err != nil {
			return FieldLine{}, n, err
		}
		index, err := postBaseIndex(relative, base)
		if err != nil {
			return FieldLine{}, n, err
		}

		return FieldLine{
			Instruction: format.InstructionIndexedPostBase,
			Entry:       table.Entry{Index: index, Type: format.EntryNameValue},
		}, n, nil
	default:
		line := FieldLine{
			Instruction: format.InstructionNameRefPostBase,
			Sensitive:   b&format.NeverIndexedNameRefPostBase != 0,
		}

		return p.parseNameRef(line, src, format.PrefixNameRefPostBase, base)
	}
}

func (p *Parser) parseIndexed(src []byte, base uint64) (FieldLine, int, error) {
	index, n, err := encoding.DecodeInteger(src, format.PrefixIndexed)
	if err != nil {
		return FieldLine{}, n, err
	}

	if src[0]&format.InsertStaticFlag != 0 {
		entry, ok := table.StaticEntry(index)
		if !ok {
			return FieldLine{}, n, fmt.Errorf("%w: static index %d", errs.ErrOutOfBounds, index)
		}

		return FieldLine{Instruction: format.InstructionIndexedStatic, Entry: entry}, n, nil
	}

	abs, err := preBaseIndex(index, base)
	if err != nil {
		return FieldLine{}, n, err
	}

	return FieldLine{
		Instruction: format.InstructionIndexedDynamic,
		Entry:       table.Entry{Index: abs, Type: format.EntryNameValue},
	}, n, nil
}

func (p *Parser) parseNameRef(line FieldLine, src []byte, width int, base uint64) (FieldLine, int, error) {
	index, n, err := encoding.DecodeInteger(src, width)
	if err != nil {
		return FieldLine{}, n, err
	}

	switch line.Instruction {
	case format.InstructionNameRefStatic:
		entry, ok := table.StaticEntry(index)
		if !ok {
			return FieldLine{}, n, fmt.Errorf("%w: static index %d", errs.ErrOutOfBounds, index)
		}
		line.Entry = entry
	case format.InstructionNameRefDynamic:
		abs, err := preBaseIndex(index, base)
		if err != nil {
			return FieldLine{}, n, err
		}
		line.Entry = table.Entry{Index: abs}
	default:
		abs, err := postBaseIndex(index, base)
		if err != nil {
			return FieldLine{}, n, err
		}
		line.Entry = table.Entry{Index: abs}
	}

	value, huff, m, err := p.decodeString(src[n:], format.StringValuePrefix)
	if err != nil {
		return FieldLine{}, n + m, err
	}
	line.Entry.Value = value
	line.Entry.HuffmanValue = huff
	line.Entry.Type = format.EntryName

	return line, n + m, nil
}

// ParseFieldSection decodes a complete encoded field section: the prefix
// followed by field lines until src is exhausted.
//
// Parameters:
//   - src: The whole field section
//   - maxEntries: Maximum number of dynamic table entries, see section.MaxEntries
//   - totalInserts: Number of insertions the decoder has received
func (p *Parser) ParseFieldSection(src []byte, maxEntries, totalInserts uint64) (section.FieldSectionPrefix, []FieldLine, error) {
	prefix, off, err := section.ParsePrefix(src, maxEntries, totalInserts)
	if err != nil {
		return section.FieldSectionPrefix{}, nil, err
	}

	var lines []FieldLine
	for off < len(src) {
		line, n, err := p.ParseFieldLine(src[off:], prefix.Base)
		if err != nil {
			return prefix, lines, fmt.Errorf("field line at offset %d: %w", off, err)
		}
		if referencesDynamic(line.Instruction) && line.Entry.Index >= prefix.RequiredInsertCount {
			return prefix, lines, fmt.Errorf("%w: field line at offset %d references index %d beyond required insert count %d",
				errs.ErrOutOfBounds, off, line.Entry.Index, prefix.RequiredInsertCount)
		}
		lines = append(lines, line)
		off += n
	}

	return prefix, lines, nil
}

func referencesDynamic(instruction format.Instruction) bool {
	switch instruction {
	case format.InstructionIndexedDynamic, format.InstructionIndexedPostBase,
		format.InstructionNameRefDynamic, format.InstructionNameRefPostBase:
		return true
	default:
		return false
	}
}

func (p *Parser) decodeString(src []byte, prefixWidth int) (string, bool, int, error) {
	return encoding.DecodeString(src, prefixWidth, p.coder, p.maxStringLength)
}

func preBaseIndex(relative, base uint64) (uint64, error) {
	if relative >= base {
		return 0, fmt.Errorf("%w: pre-base index %d with base %d", errs.ErrOutOfBounds, relative, base)
	}

	return base - 1 - relative, nil
}

func postBaseIndex(relative, base uint64) (uint64, error) {
	if relative > math.MaxUint64-base {
		return 0, fmt.Errorf("%w: post-base index %d with base %d", errs.ErrOutOfBounds, relative, base)
	}

	return base + relative, nil
}
