package encoding

import (
	"testing"

	"github.com/arloliu/qpack/buffer"
)

func BenchmarkIntegerWriter(b *testing.B) {
	testCases := []struct {
		name  string
		value uint64
	}{
		{"1byte", 10},
		{"3bytes", 1337},
		{"10bytes", 1 << 62},
	}

	for _, tc := range testCases {
		b.Run(tc.name, func(b *testing.B) {
			var w IntegerWriter
			buf := buffer.New(16)

			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				buf.Reset()
				_ = w.Configure(tc.value, 5, 0)
				_, _ = w.Write(buf)
			}
		})
	}
}

func BenchmarkStringWriter(b *testing.B) {
	testCases := []struct {
		name    string
		huffman bool
	}{
		{"Raw", false},
		{"Huffman", true},
	}

	input := "text/html; charset=utf-8"
	for _, tc := range testCases {
		b.Run(tc.name, func(b *testing.B) {
			w := NewStringWriter(nil)
			buf := buffer.New(64)

			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				buf.Reset()
				w.Reset()
				_ = w.Configure(input, 0, len(input), 7, 0, tc.huffman)
				_, _ = w.Write(buf)
			}
		})
	}
}

func BenchmarkDecodeInteger(b *testing.B) {
	src := AppendInteger(nil, 0, 5, 1<<40)

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _, _ = DecodeInteger(src, 5)
	}
}
