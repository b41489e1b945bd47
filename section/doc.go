// Package section encodes and decodes the prefix of a QPACK field section.
//
// Every encoded field section starts with two integers that tell the decoder
// which dynamic table state the section depends on (RFC 9204 section 4.5.1):
//
//	  0   1   2   3   4   5   6   7
//	+---+---+---+---+---+---+---+---+
//	|   Required Insert Count (8+)  |
//	+---+---------------------------+
//	| S |      Delta Base (7+)      |
//	+---+---------------------------+
//
// # Required Insert Count
//
// The count is sent modulo twice the maximum number of dynamic table entries,
// plus one, so that zero stays reserved for sections without dynamic
// references:
//
//	EncodedRIC = RIC mod (2 * MaxEntries) + 1      (RIC > 0)
//	EncodedRIC = 0                                 (RIC = 0)
//
// DecodeRequiredInsertCount undoes the reduction using the decoder's own
// insert count.
//
// # Base
//
// The base is sent as a signed difference to the Required Insert Count:
//
//	S = 0, DeltaBase = Base - RIC          (Base >= RIC)
//	S = 1, DeltaBase = RIC - Base - 1      (Base <  RIC)
//
// When RIC is zero both fields are zero regardless of the base.
//
// # Usage
//
//	var w section.PrefixWriter
//	err := w.Configure(section.FieldSectionPrefix{RequiredInsertCount: 5, Base: 7},
//	    section.MaxEntries(4096))
//	done, err := w.Write(buf)
//
// PrefixWriter is NOT thread-safe.
package section
