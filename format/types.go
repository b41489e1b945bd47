package format

type (
	// EntryType tells which parts of a header field are available in a table.
	EntryType uint8

	// Instruction identifies one QPACK wire representation.
	Instruction uint8
)

const (
	EntryNameValue EntryType = 0x1 // EntryNameValue means both name and value are indexed.
	EntryName      EntryType = 0x2 // EntryName means the name is indexed and the value is a literal.
	EntryNeither   EntryType = 0x3 // EntryNeither means both name and value are literals.
)

const (
	InstructionNone Instruction = iota

	// Field line representations (RFC 9204 section 4.5).
	InstructionSectionPrefix
	InstructionIndexedStatic
	InstructionIndexedDynamic
	InstructionIndexedPostBase
	InstructionNameRefStatic
	InstructionNameRefDynamic
	InstructionNameRefPostBase
	InstructionLiteralName

	// Encoder instructions (RFC 9204 section 4.3).
	InstructionInsertNameRef
	InstructionInsertLiteralName
	InstructionDuplicate
	InstructionSetCapacity

	// Decoder instructions (RFC 9204 section 4.4).
	InstructionSectionAck
	InstructionStreamCancel
	InstructionInsertCountIncrement
)

func (t EntryType) String() string {
	switch t {
	case EntryNameValue:
		return "NameValue"
	case EntryName:
		return "Name"
	case EntryNeither:
		return "Neither"
	default:
		return "Unknown"
	}
}

func (i Instruction) String() string {
	switch i {
	case InstructionNone:
		return "None"
	case InstructionSectionPrefix:
		return "SectionPrefix"
	case InstructionIndexedStatic:
		return "IndexedStatic"
	case InstructionIndexedDynamic:
		return "IndexedDynamic"
	case InstructionIndexedPostBase:
		return "IndexedPostBase"
	case InstructionNameRefStatic:
		return "NameRefStatic"
	case InstructionNameRefDynamic:
		return "NameRefDynamic"
	case InstructionNameRefPostBase:
		return "NameRefPostBase"
	case InstructionLiteralName:
		return "LiteralName"
	case InstructionInsertNameRef:
		return "InsertNameRef"
	case InstructionInsertLiteralName:
		return "InsertLiteralName"
	case InstructionDuplicate:
		return "Duplicate"
	case InstructionSetCapacity:
		return "SetCapacity"
	case InstructionSectionAck:
		return "SectionAck"
	case InstructionStreamCancel:
		return "StreamCancel"
	case InstructionInsertCountIncrement:
		return "InsertCountIncrement"
	default:
		return "Unknown"
	}
}
