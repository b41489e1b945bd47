// Package table describes the header-table entries that QPACK instructions
// reference or insert, and provides the QPACK static table.
//
// Dynamic table management (insertion policy, eviction, acknowledgment
// tracking) is left to the caller; an Entry is only a read-only view of what
// the caller decided to emit.
package table

import "github.com/arloliu/qpack/format"

// Entry is a header field as seen by the instruction writers.
//
// Type selects how much of the field is referenced through the table:
//   - format.EntryNameValue: name and value are both at Index
//   - format.EntryName: the name is at Index, the value is a literal
//   - format.EntryNeither: name and value are literals; Index is ignored
type Entry struct {
	// Index is the absolute index in the static table, or the absolute index in
	// the dynamic table when Static is false.
	Index uint64
	// Static tells which table Index refers to.
	Static bool

	Name  string
	Value string

	// HuffmanName and HuffmanValue ask for the literal to be Huffman-coded when
	// that is shorter.
	HuffmanName  bool
	HuffmanValue bool

	Type format.EntryType
}

// NewLiteral creates an entry whose name and value are both literals.
func NewLiteral(name, value string, huffman bool) Entry {
	return Entry{
		Name:         name,
		Value:        value,
		HuffmanName:  huffman,
		HuffmanValue: huffman,
		Type:         format.EntryNeither,
	}
}

// NewDynamic creates an entry referencing the dynamic table at the absolute
// index. typ must be format.EntryNameValue or format.EntryName.
func NewDynamic(index uint64, name, value string, typ format.EntryType, huffman bool) Entry {
	return Entry{
		Index:        index,
		Name:         name,
		Value:        value,
		HuffmanName:  huffman,
		HuffmanValue: huffman,
		Type:         typ,
	}
}

// Size returns the dynamic table size of the entry (RFC 9204 section 3.2.1).
func (e Entry) Size() uint64 {
	return uint64(len(e.Name)+len(e.Value)) + format.EntryOverhead //nolint:gosec
}
