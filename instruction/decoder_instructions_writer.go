package instruction

import (
	"fmt"

	"github.com/arloliu/qpack/buffer"
	"github.com/arloliu/qpack/errs"
	"github.com/arloliu/qpack/format"
)

// DecoderInstructionsWriter writes instructions on the decoder stream. Every
// decoder instruction is a single prefixed integer.
type DecoderInstructionsWriter struct {
	integer IntegerRepresentationWriter
	flight  flight
}

// NewDecoderInstructionsWriter creates a DecoderInstructionsWriter. Only
// WithObserver has an effect; decoder instructions carry no literals.
func NewDecoderInstructionsWriter(opts ...WriterOption) (*DecoderInstructionsWriter, error) {
	cfg, err := NewWriterConfig(opts...)
	if err != nil {
		return nil, err
	}

	return &DecoderInstructionsWriter{flight: newFlight("decoder", cfg.Observer())}, nil
}

// ConfigureForSectionAck prepares a Section Acknowledgment for the stream.
func (w *DecoderInstructionsWriter) ConfigureForSectionAck(streamID uint64) (int, error) {
	return w.configure(streamID, format.PrefixSectionAck, format.PatternSectionAck, format.InstructionSectionAck)
}

// ConfigureForStreamCancel prepares a Stream Cancellation for the stream.
func (w *DecoderInstructionsWriter) ConfigureForStreamCancel(streamID uint64) (int, error) {
	return w.configure(streamID, format.PrefixStreamCancel, format.PatternStreamCancel, format.InstructionStreamCancel)
}

// ConfigureForInsertCountIncrement prepares an Insert Count Increment.
// An increment of zero is not allowed on the wire and returns errs.ErrOutOfBounds.
func (w *DecoderInstructionsWriter) ConfigureForInsertCountIncrement(increment uint64) (int, error) {
	if increment == 0 {
		return 0, fmt.Errorf("%w: insert count increment must be positive", errs.ErrOutOfBounds)
	}

	return w.configure(increment, format.PrefixInsertCountIncrement, format.PatternInsertCountIncrement,
		format.InstructionInsertCountIncrement)
}

func (w *DecoderInstructionsWriter) configure(value uint64, prefixWidth int, payload byte, instruction format.Instruction) (int, error) {
	if err := w.flight.checkIdle(); err != nil {
		return 0, err
	}
	if err := w.integer.Configure(value, prefixWidth, payload); err != nil {
		return 0, err
	}

	return w.flight.begin(&w.integer, instruction), nil
}

// Write emits as much of the configured instruction as buf can hold.
func (w *DecoderInstructionsWriter) Write(buf *buffer.Buffer) (bool, error) {
	return w.flight.write(buf)
}

// InProgress reports whether an instruction is configured and not yet fully written.
func (w *DecoderInstructionsWriter) InProgress() bool {
	return w.flight.inProgress
}

// Reset abandons the in-flight instruction, if any.
func (w *DecoderInstructionsWriter) Reset() {
	w.flight.reset()
	w.integer.Reset()
}
