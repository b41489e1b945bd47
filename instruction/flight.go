package instruction

import (
	"fmt"

	"github.com/arloliu/qpack/buffer"
	"github.com/arloliu/qpack/errs"
	"github.com/arloliu/qpack/format"
	"github.com/arloliu/qpack/observe"
)

// flight holds the single instruction an orchestrator is currently writing.
type flight struct {
	writer   string
	observer observe.Observer

	current     RepresentationWriter
	instruction format.Instruction
	size        int
	inProgress  bool
}

func newFlight(writer string, observer observe.Observer) flight {
	return flight{writer: writer, observer: observer}
}

func (f *flight) checkIdle() error {
	if f.inProgress {
		return fmt.Errorf("%w: %s writer is still writing %v",
			errs.ErrIllegalState, f.writer, f.instruction)
	}

	return nil
}

// begin marks rw as the in-flight instruction. rw must already be configured.
func (f *flight) begin(rw RepresentationWriter, instruction format.Instruction) int {
	f.current = rw
	f.instruction = instruction
	f.size = rw.Size()
	f.inProgress = true
	f.emit(observe.EventConfigured)

	return f.size
}

func (f *flight) write(buf *buffer.Buffer) (bool, error) {
	if !f.inProgress {
		return false, fmt.Errorf("%w: %s writer has no instruction configured",
			errs.ErrIllegalState, f.writer)
	}

	done, err := f.current.Write(buf)
	if err != nil || !done {
		return false, err
	}

	f.inProgress = false
	f.emit(observe.EventCompleted)
	f.current.Reset()
	f.current = nil

	return true, nil
}

func (f *flight) reset() {
	if f.inProgress {
		f.emit(observe.EventReset)
	}
	if f.current != nil {
		f.current.Reset()
	}
	f.current = nil
	f.instruction = format.InstructionNone
	f.size = 0
	f.inProgress = false
}

func (f *flight) emit(kind observe.EventKind) {
	f.observer.Observe(observe.Event{
		Writer:      f.writer,
		Kind:        kind,
		Instruction: f.instruction,
		Size:        f.size,
	})
}
