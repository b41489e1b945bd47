// Package instruction writes and parses QPACK instructions (RFC 9204
// sections 4.3 to 4.5).
//
// Three orchestrators cover the three places QPACK bytes travel:
//
//   - HeaderFrameWriter: field section prefix and field lines of a HEADERS frame
//   - EncoderInstructionsWriter: insertions, duplications and capacity updates
//   - DecoderInstructionsWriter: section acknowledgments, stream
//     cancellations and insert count increments
//
// Each ConfigureFor method picks the representation, validates its input and
// returns the exact encoded size before a byte is written. Write then drains
// the instruction into a *buffer.Buffer and may be called repeatedly when the
// buffer fills up:
//
//	w, _ := instruction.NewEncoderInstructionsWriter()
//	n, err := w.ConfigureForEntryInsertion(entry, insertCount)
//	if err != nil {
//		return err
//	}
//	buf := buffer.Get()
//	buf.Grow(n)
//	for done := false; !done; {
//		if done, err = w.Write(buf); err != nil {
//			return err
//		}
//	}
//
// An orchestrator holds at most one instruction in flight. Configuring
// another one before Write has reported completion returns
// errs.ErrIllegalState; Reset abandons the current instruction.
//
// The representation writers (IntegerRepresentationWriter,
// NameReferenceWriter, LiteralNameWriter) are exported for callers that
// assemble instructions themselves.
//
// Parser is the stateless inverse used on the receiving side and in tests.
// It reports indices and literals as sent and leaves dynamic table lookups to
// the caller.
//
// Writers are not safe for concurrent use. A Parser may be shared.
package instruction
