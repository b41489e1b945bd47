package format

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEntryType_String(t *testing.T) {
	require.Equal(t, "NameValue", EntryNameValue.String())
	require.Equal(t, "Name", EntryName.String())
	require.Equal(t, "Neither", EntryNeither.String())
	require.Equal(t, "Unknown", EntryType(0).String())
}

func TestInstruction_String(t *testing.T) {
	for i := InstructionNone; i <= InstructionInsertCountIncrement; i++ {
		require.NotEqual(t, "Unknown", i.String(), "instruction %d", i)
	}
	require.Equal(t, "Unknown", Instruction(200).String())
}

func TestPatterns(t *testing.T) {
	// every pattern leaves its integer prefix bits clear
	tests := []struct {
		name    string
		pattern byte
		prefix  int
	}{
		{"indexed static", PatternIndexedStatic, PrefixIndexed},
		{"indexed dynamic", PatternIndexedDynamic, PrefixIndexed},
		{"indexed post-base", PatternIndexedPostBase, PrefixIndexedPostBase},
		{"name ref static", PatternNameRefStatic | NeverIndexedNameRef, PrefixNameRef},
		{"name ref dynamic", PatternNameRefDynamic | NeverIndexedNameRef, PrefixNameRef},
		{"name ref post-base", PatternNameRefPostBase | NeverIndexedNameRefPostBase, PrefixNameRefPostBase},
		{"literal name", PatternLiteralName | NeverIndexedLiteralName, PrefixLiteralName + 1},
		{"insert name ref", PatternInsertNameRef | InsertStaticFlag, PrefixInsertNameRef},
		{"insert literal name", PatternInsertLiteralName, PrefixInsertLiteralName + 1},
		{"duplicate", PatternDuplicate, PrefixDuplicate},
		{"set capacity", PatternSetCapacity, PrefixSetCapacity},
		{"section ack", PatternSectionAck, PrefixSectionAck},
		{"stream cancel", PatternStreamCancel, PrefixStreamCancel},
		{"insert count increment", PatternInsertCountIncrement, PrefixInsertCountIncrement},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mask := byte(1<<tt.prefix - 1)
			require.Zero(t, tt.pattern&mask)
		})
	}
}
