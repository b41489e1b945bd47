package section

import (
	"fmt"
	"math"

	"github.com/arloliu/qpack/encoding"
	"github.com/arloliu/qpack/errs"
	"github.com/arloliu/qpack/format"
)

// DecodeRequiredInsertCount reconstructs the Required Insert Count from its
// wire form (RFC 9204 section 4.5.1.1).
//
// Parameters:
//   - encoded: The value read from the prefix
//   - maxEntries: Maximum number of dynamic table entries
//   - totalInserts: Number of insertions the decoder has received so far
//
// Returns:
//   - uint64: The Required Insert Count
//   - error: errs.ErrInvalidSectionPrefix if encoded cannot have been produced
//     by a valid encoder
func DecodeRequiredInsertCount(encoded, maxEntries, totalInserts uint64) (uint64, error) {
	if encoded == 0 {
		return 0, nil
	}
	if maxEntries > math.MaxUint64/2 {
		return 0, fmt.Errorf("%w: max entries %d overflows the encoding range",
			errs.ErrInvalidSectionPrefix, maxEntries)
	}

	fullRange := 2 * maxEntries
	if encoded > fullRange {
		return 0, fmt.Errorf("%w: encoded required insert count %d exceeds %d",
			errs.ErrInvalidSectionPrefix, encoded, fullRange)
	}

	maxValue := totalInserts + maxEntries
	maxWrapped := (maxValue / fullRange) * fullRange
	ric := maxWrapped + encoded - 1

	if ric > maxValue {
		if ric <= fullRange {
			return 0, fmt.Errorf("%w: required insert count %d is not reachable",
				errs.ErrInvalidSectionPrefix, ric)
		}
		ric -= fullRange
	}
	if ric == 0 {
		return 0, fmt.Errorf("%w: non-zero encoding of a zero required insert count",
			errs.ErrInvalidSectionPrefix)
	}

	return ric, nil
}

// ParsePrefix decodes a field section prefix from the start of src.
//
// Returns:
//   - FieldSectionPrefix: The decoded Required Insert Count and Base
//   - int: Number of bytes consumed
//   - error: errs.ErrTruncated, errs.ErrMalformedInteger or errs.ErrInvalidSectionPrefix
func ParsePrefix(src []byte, maxEntries, totalInserts uint64) (FieldSectionPrefix, int, error) {
	encodedRIC, n, err := encoding.DecodeInteger(src, format.PrefixRequiredInsertCount)
	if err != nil {
		return FieldSectionPrefix{}, n, err
	}
	if len(src) <= n {
		return FieldSectionPrefix{}, n, errs.ErrTruncated
	}

	sign := src[n]&format.DeltaBaseSignBit != 0
	deltaBase, m, err := encoding.DecodeInteger(src[n:], format.PrefixDeltaBase)
	if err != nil {
		return FieldSectionPrefix{}, n + m, err
	}
	n += m

	ric, err := DecodeRequiredInsertCount(encodedRIC, maxEntries, totalInserts)
	if err != nil {
		return FieldSectionPrefix{}, n, err
	}

	prefix := FieldSectionPrefix{RequiredInsertCount: ric}
	switch {
	case ric == 0:
		// base is meaningless without dynamic references
	case !sign:
		prefix.Base = ric + deltaBase
	case deltaBase >= ric:
		return FieldSectionPrefix{}, n, fmt.Errorf("%w: negative base (ric=%d, delta=%d)",
			errs.ErrInvalidSectionPrefix, ric, deltaBase)
	default:
		prefix.Base = ric - deltaBase - 1
	}

	return prefix, n, nil
}
