package section

import (
	"fmt"
	"math"

	"github.com/arloliu/qpack/buffer"
	"github.com/arloliu/qpack/encoding"
	"github.com/arloliu/qpack/errs"
	"github.com/arloliu/qpack/format"
)

// FieldSectionPrefix is the prefix of an encoded field section
// (RFC 9204 section 4.5.1).
type FieldSectionPrefix struct {
	// RequiredInsertCount is the number of dynamic table insertions the decoder
	// must have processed before decoding the section.
	RequiredInsertCount uint64
	// Base is the absolute insert count that relative indices are resolved against.
	Base uint64
}

// MaxEntries returns the maximum number of dynamic table entries for a table
// capacity: floor(capacity / 32).
func MaxEntries(maxTableCapacity uint64) uint64 {
	return maxTableCapacity / format.EntryOverhead
}

// EncodeRequiredInsertCount returns the wire form of a Required Insert Count.
// A count of zero encodes as zero; otherwise the count is reduced modulo
// 2*maxEntries and offset by one.
func EncodeRequiredInsertCount(requiredInsertCount, maxEntries uint64) (uint64, error) {
	if requiredInsertCount == 0 {
		return 0, nil
	}
	if maxEntries == 0 {
		return 0, fmt.Errorf("%w: required insert count %d with an empty dynamic table",
			errs.ErrInvalidSectionPrefix, requiredInsertCount)
	}
	if maxEntries > math.MaxUint64/2 {
		return 0, fmt.Errorf("%w: max entries %d overflows the encoding range",
			errs.ErrInvalidSectionPrefix, maxEntries)
	}

	return requiredInsertCount%(2*maxEntries) + 1, nil
}

// EncodeBase returns the sign bit and Delta Base for a base relative to the
// Required Insert Count.
func EncodeBase(requiredInsertCount, base uint64) (bool, uint64) {
	if base >= requiredInsertCount {
		return false, base - requiredInsertCount
	}

	return true, requiredInsertCount - base - 1
}

type prefixState uint8

const (
	prefixNew prefixState = iota
	prefixConfigured
	prefixRICWritten
	prefixDone
)

// PrefixWriter writes a field section prefix:
//
//	  0   1   2   3   4   5   6   7
//	+---+---+---+---+---+---+---+---+
//	|   Required Insert Count (8+)  |
//	+---+---------------------------+
//	| S |      Delta Base (7+)      |
//	+---+---------------------------+
//
// Each of the two integers may be split across Write calls.
type PrefixWriter struct {
	ric   encoding.IntegerWriter
	delta encoding.IntegerWriter

	encodedRIC uint64
	deltaBase  uint64
	sign       bool
	size       int
	state      prefixState
}

// Configure prepares w to write the prefix of a section.
//
// Parameters:
//   - prefix: Required Insert Count and Base of the section
//   - maxEntries: Maximum number of dynamic table entries, see MaxEntries
//
// Returns:
//   - error: errs.ErrInvalidSectionPrefix if the count cannot be encoded,
//     errs.ErrIllegalState if a previous prefix is still being written
func (w *PrefixWriter) Configure(prefix FieldSectionPrefix, maxEntries uint64) error {
	if w.state == prefixConfigured || w.state == prefixRICWritten {
		return fmt.Errorf("%w: section prefix writer is already configured", errs.ErrIllegalState)
	}

	encodedRIC, err := EncodeRequiredInsertCount(prefix.RequiredInsertCount, maxEntries)
	if err != nil {
		return err
	}

	var sign bool
	var deltaBase uint64
	if prefix.RequiredInsertCount != 0 {
		sign, deltaBase = EncodeBase(prefix.RequiredInsertCount, prefix.Base)
	}

	var signBit byte
	if sign {
		signBit = format.DeltaBaseSignBit
	}

	if err := w.ric.Configure(encodedRIC, format.PrefixRequiredInsertCount, 0); err != nil {
		return err
	}
	if err := w.delta.Configure(deltaBase, format.PrefixDeltaBase, signBit); err != nil {
		w.ric.Reset()
		return err
	}

	w.encodedRIC = encodedRIC
	w.deltaBase = deltaBase
	w.sign = sign
	w.size = encoding.RequiredBufferSize(format.PrefixRequiredInsertCount, encodedRIC) +
		encoding.RequiredBufferSize(format.PrefixDeltaBase, deltaBase)
	w.state = prefixConfigured

	return nil
}

// Write emits as much of the prefix as buf can hold.
//
// Returns:
//   - bool: true once both integers have been written
//   - error: errs.ErrIllegalState if w was never configured
func (w *PrefixWriter) Write(buf *buffer.Buffer) (bool, error) {
	switch w.state {
	case prefixNew:
		return false, fmt.Errorf("%w: section prefix writer is not configured", errs.ErrIllegalState)
	case prefixDone:
		return true, nil
	case prefixConfigured:
		done, err := w.ric.Write(buf)
		if err != nil || !done {
			return false, err
		}
		w.state = prefixRICWritten
	}

	done, err := w.delta.Write(buf)
	if err != nil || !done {
		return false, err
	}
	w.state = prefixDone

	return true, nil
}

// EncodedRequiredInsertCount returns the configured wire value of the Required Insert Count.
func (w *PrefixWriter) EncodedRequiredInsertCount() uint64 {
	return w.encodedRIC
}

// DeltaBase returns the configured sign bit and Delta Base.
func (w *PrefixWriter) DeltaBase() (bool, uint64) {
	return w.sign, w.deltaBase
}

// Size returns the number of bytes of the configured prefix.
func (w *PrefixWriter) Size() int {
	return w.size
}

// Reset returns w to its unconfigured state.
func (w *PrefixWriter) Reset() {
	w.ric.Reset()
	w.delta.Reset()
	w.encodedRIC = 0
	w.deltaBase = 0
	w.sign = false
	w.size = 0
	w.state = prefixNew
}
