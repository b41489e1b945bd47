package format

// Field line representations. Each pattern is the fixed high bits of the
// first byte; the low PrefixXxx bits carry the integer prefix.
const (
	PatternIndexedStatic   = 0xC0 // 11xxxxxx
	PatternIndexedDynamic  = 0x80 // 10xxxxxx
	PatternIndexedPostBase = 0x10 // 0001xxxx
	PatternNameRefStatic   = 0x50 // 01N1xxxx
	PatternNameRefDynamic  = 0x40 // 01N0xxxx
	PatternNameRefPostBase = 0x00 // 0000Nxxx
	PatternLiteralName     = 0x20 // 001NHxxx

	PrefixIndexed         = 6
	PrefixIndexedPostBase = 4
	PrefixNameRef         = 4
	PrefixNameRefPostBase = 3
	PrefixLiteralName     = 3

	NeverIndexedNameRef         = 0x20 // N bit of a name reference
	NeverIndexedNameRefPostBase = 0x08 // N bit of a post-base name reference
	NeverIndexedLiteralName     = 0x10 // N bit of a literal name

	// StringValuePrefix is the length prefix width of every value string; the
	// Huffman flag is bit 7.
	StringValuePrefix = 7
)

// Encoder stream instructions.
const (
	PatternInsertNameRef     = 0x80 // 1Txxxxxx
	PatternInsertLiteralName = 0x40 // 01Hxxxxx
	PatternDuplicate         = 0x00 // 000xxxxx
	PatternSetCapacity       = 0x20 // 001xxxxx

	InsertStaticFlag = 0x40 // T bit of an insert with name reference

	PrefixInsertNameRef     = 6
	PrefixInsertLiteralName = 5
	PrefixDuplicate         = 5
	PrefixSetCapacity       = 5
)

// Decoder stream instructions.
const (
	PatternSectionAck           = 0x80 // 1xxxxxxx
	PatternStreamCancel         = 0x40 // 01xxxxxx
	PatternInsertCountIncrement = 0x00 // 00xxxxxx

	PrefixSectionAck           = 7
	PrefixStreamCancel         = 6
	PrefixInsertCountIncrement = 6
)

// Field section prefix.
const (
	PrefixRequiredInsertCount = 8
	PrefixDeltaBase           = 7
	DeltaBaseSignBit          = 0x80
)

// EntryOverhead is the per-entry size overhead of the dynamic table
// (RFC 9204 section 3.2.1).
const EntryOverhead = 32
