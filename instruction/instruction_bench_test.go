package instruction

import (
	"testing"

	"github.com/arloliu/qpack/buffer"
	"github.com/arloliu/qpack/format"
	"github.com/arloliu/qpack/table"
)

func BenchmarkHeaderFrameWriter(b *testing.B) {
	testCases := []struct {
		name  string
		entry table.Entry
	}{
		{"StaticIndexed", table.Entry{Index: 17, Static: true, Type: format.EntryNameValue}},
		{"DynamicNameRef", table.NewDynamic(40, "", "text/html; charset=utf-8", format.EntryName, true)},
		{"LiteralName", table.NewLiteral("x-request-id", "6f1c1b0e-8f6a-4f5e-9d7a-2b3c4d5e6f70", true)},
	}

	for _, tc := range testCases {
		b.Run(tc.name, func(b *testing.B) {
			w, err := NewHeaderFrameWriter()
			if err != nil {
				b.Fatal(err)
			}
			buf := buffer.New(128)

			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				buf.Reset()
				_, _ = w.ConfigureForFieldLine(tc.entry, false, 32)
				_, _ = w.Write(buf)
			}
		})
	}
}

func BenchmarkEncoderInstructionsWriter_Insert(b *testing.B) {
	w, err := NewEncoderInstructionsWriter()
	if err != nil {
		b.Fatal(err)
	}
	entry := table.NewLiteral("custom-key", "custom-value", true)
	buf := buffer.New(64)

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		buf.Reset()
		_, _ = w.ConfigureForEntryInsertion(entry, 0)
		_, _ = w.Write(buf)
	}
}

func BenchmarkParser_FieldLine(b *testing.B) {
	w, err := NewHeaderFrameWriter()
	if err != nil {
		b.Fatal(err)
	}
	buf := buffer.New(128)
	_, _ = w.ConfigureForFieldLine(table.NewLiteral("x-request-id", "6f1c1b0e-8f6a-4f5e-9d7a-2b3c4d5e6f70", true), false, 0)
	_, _ = w.Write(buf)
	wire := buf.Bytes()

	p, err := NewParser()
	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _, _ = p.ParseFieldLine(wire, 0)
	}
}
