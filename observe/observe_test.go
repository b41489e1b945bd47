package observe

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/arloliu/qpack/format"
)

func TestFunc(t *testing.T) {
	var got []Event
	o := Func(func(e Event) { got = append(got, e) })

	o.Observe(Event{Writer: "encoder", Kind: EventConfigured, Instruction: format.InstructionDuplicate, Size: 1})
	require.Len(t, got, 1)
	require.Equal(t, format.InstructionDuplicate, got[0].Instruction)
}

func TestNop(t *testing.T) {
	require.NotPanics(t, func() {
		Nop().Observe(Event{Kind: EventCompleted})
	})
	require.Equal(t, Nop(), NewZapObserver(nil))
}

func TestZapObserver(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	o := NewZapObserver(zap.New(core))

	o.Observe(Event{
		Writer:      "header",
		Kind:        EventCompleted,
		Instruction: format.InstructionIndexedStatic,
		Size:        2,
	})

	entries := logs.All()
	require.Len(t, entries, 1)
	require.Equal(t, "instruction completed", entries[0].Message)
	require.Equal(t, "qpack", entries[0].LoggerName)

	fields := entries[0].ContextMap()
	require.Equal(t, "header", fields["writer"])
	require.Equal(t, "IndexedStatic", fields["instruction"])
	require.Equal(t, int64(2), fields["size"])
}

func TestZapObserver_LevelFiltered(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	o := NewZapObserver(zap.New(core))

	o.Observe(Event{Kind: EventConfigured})
	require.Equal(t, 0, logs.Len(), "debug events must be dropped above debug level")
}

func TestEventKind_String(t *testing.T) {
	require.Equal(t, "configured", EventConfigured.String())
	require.Equal(t, "completed", EventCompleted.String())
	require.Equal(t, "reset", EventReset.String())
	require.Equal(t, "unknown", EventKind(0).String())
}
