// Package encoding implements the two primitives every QPACK instruction is
// built from: N-bit prefix integers and string literals.
//
// # Prefix Integers
//
// An integer shares its first byte with fixed high bits (the payload) and uses
// the low N bits as a prefix (RFC 9204 section 4.1.1, RFC 7541 section 5.1):
//
//	  0   1   2   3   4   5   6   7
//	+---+---+---+---+---+---+---+---+
//	| payload   |  Value (N = 5)    |
//	+---+---+---+-------------------+
//
// Values below 2^N-1 fit in the prefix. Larger values set every prefix bit and
// continue in base-128 groups, least significant first:
//
//	w := &encoding.IntegerWriter{}
//	_ = w.Configure(1337, 5, 0x00)
//	buf := buffer.New(8)
//	done, _ := w.Write(buf) // buf = 1f 9a 0a, done = true
//
// RequiredBufferSize gives the exact size without writing anything, and
// AppendInteger is the one-shot form.
//
// # String Literals
//
// A string literal is an H flag, a prefixed length and the bytes:
//
//	  0   1   2   3   4   5   6   7
//	+---+---+---+---+---+---+---+---+
//	| H |     Length (7+)           |
//	+---+---------------------------+
//	|  String Data (Length octets)  |
//	+-------------------------------+
//
// StringWriter takes the prefix width and the payload above the H flag, so the
// same writer serves 7-bit value strings and the 3- and 5-bit name strings of
// literal-name representations.
//
// # Incremental Writing
//
// Both writers drain into a *buffer.Buffer and stop when it is full. Write
// returns false until the whole item is out; the caller makes room and calls
// Write again. The produced bytes are identical however the output is split.
//
// # Decoding
//
// IntegerReader and StringReader are the resumable inverses. They reject
// integers that overflow 64 bits and literals above a length limit instead of
// wrapping or allocating without bound.
//
// # Thread Safety
//
// Writers and readers are NOT thread-safe. Use one per goroutine.
package encoding
