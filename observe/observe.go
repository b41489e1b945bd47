// Package observe carries instruction-level events out of the writers.
//
// Observers are notified after a state transition has completed, so they can
// not influence what is written. The default observer discards everything.
package observe

import (
	"go.uber.org/zap"

	"github.com/arloliu/qpack/format"
)

// EventKind is the lifecycle step an Event reports.
type EventKind uint8

const (
	EventConfigured EventKind = iota + 1 // an instruction was configured
	EventCompleted                       // the last byte of an instruction was written
	EventReset                           // an instruction was abandoned by Reset
)

func (k EventKind) String() string {
	switch k {
	case EventConfigured:
		return "configured"
	case EventCompleted:
		return "completed"
	case EventReset:
		return "reset"
	default:
		return "unknown"
	}
}

// Event describes one step in the life of an instruction.
type Event struct {
	// Writer names the orchestrator: "header", "encoder" or "decoder".
	Writer      string
	Kind        EventKind
	Instruction format.Instruction
	// Size is the total encoded size of the instruction in bytes.
	Size int
}

// Observer receives events.
type Observer interface {
	Observe(Event)
}

// Func adapts a function to the Observer interface.
type Func func(Event)

// Observe implements Observer.
func (f Func) Observe(e Event) {
	f(e)
}

type nop struct{}

func (nop) Observe(Event) {}

// Nop returns an Observer that discards all events.
func Nop() Observer {
	return nop{}
}

type zapObserver struct {
	logger *zap.Logger
}

// NewZapObserver returns an Observer that logs every event at debug level.
// A nil logger yields Nop.
func NewZapObserver(logger *zap.Logger) Observer {
	if logger == nil {
		return Nop()
	}

	return &zapObserver{logger: logger.Named("qpack")}
}

func (o *zapObserver) Observe(e Event) {
	if ce := o.logger.Check(zap.DebugLevel, "instruction "+e.Kind.String()); ce != nil {
		ce.Write(
			zap.String("writer", e.Writer),
			zap.Stringer("instruction", e.Instruction),
			zap.Int("size", e.Size),
		)
	}
}
