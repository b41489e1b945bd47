package encoding

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/qpack/buffer"
	"github.com/arloliu/qpack/errs"
)

func integerTestValues(prefixWidth int) []uint64 {
	n := uint64(1) << prefixWidth

	return []uint64{0, 1, n - 2, n - 1, n, math.MaxUint32, 1 << 62, math.MaxUint64}
}

// writeChunked drives w with buffers of chunk bytes and returns all output.
func writeChunked(t *testing.T, write func(*buffer.Buffer) (bool, error), chunk int) []byte {
	t.Helper()

	var out []byte
	buf := buffer.New(chunk)
	for i := 0; i < 1<<16; i++ {
		done, err := write(buf)
		require.NoError(t, err)
		out = append(out, buf.Bytes()...)
		buf.Reset()
		if done {
			return out
		}
	}
	t.Fatal("writer did not finish")

	return nil
}

func TestIntegerWriter_RFCExamples(t *testing.T) {
	tests := []struct {
		name        string
		value       uint64
		prefixWidth int
		payload     byte
		want        []byte
	}{
		{"10 in 5-bit prefix", 10, 5, 0x00, []byte{0x0a}},
		{"1337 in 5-bit prefix", 1337, 5, 0x00, []byte{0x1f, 0x9a, 0x0a}},
		{"42 in 8-bit prefix", 42, 8, 0x00, []byte{0x2a}},
		{"payload is kept", 3, 6, 0xC0, []byte{0xC3}},
		{"zero", 0, 7, 0x80, []byte{0x80}},
		{"exactly max prefix", 31, 5, 0x20, []byte{0x3f, 0x00}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var w IntegerWriter
			require.NoError(t, w.Configure(tt.value, tt.prefixWidth, tt.payload))

			buf := buffer.New(16)
			done, err := w.Write(buf)
			require.NoError(t, err)
			require.True(t, done)
			require.Equal(t, tt.want, buf.Bytes())
			require.Equal(t, tt.want, AppendInteger(nil, tt.payload, tt.prefixWidth, tt.value))
		})
	}
}

func TestInteger_RoundTrip(t *testing.T) {
	for prefixWidth := 1; prefixWidth <= 8; prefixWidth++ {
		for _, value := range integerTestValues(prefixWidth) {
			t.Run(fmt.Sprintf("N=%d/v=%d", prefixWidth, value), func(t *testing.T) {
				var w IntegerWriter
				require.NoError(t, w.Configure(value, prefixWidth, 0))

				encoded := writeChunked(t, w.Write, 32)
				require.Len(t, encoded, RequiredBufferSize(prefixWidth, value))

				decoded, n, err := DecodeInteger(encoded, prefixWidth)
				require.NoError(t, err)
				require.Equal(t, len(encoded), n)
				require.Equal(t, value, decoded)
			})
		}
	}
}

func TestIntegerWriter_Resumable(t *testing.T) {
	for prefixWidth := 1; prefixWidth <= 8; prefixWidth++ {
		for _, value := range integerTestValues(prefixWidth) {
			want := AppendInteger(nil, 0, prefixWidth, value)

			for _, chunk := range []int{1, 2, 3, 64} {
				var w IntegerWriter
				require.NoError(t, w.Configure(value, prefixWidth, 0))
				got := writeChunked(t, w.Write, chunk)
				require.Equal(t, want, got, "N=%d value=%d chunk=%d", prefixWidth, value, chunk)
			}
		}
	}
}

func TestIntegerWriter_EmptyBuffer(t *testing.T) {
	var w IntegerWriter
	require.NoError(t, w.Configure(1000, 4, 0x10))

	done, err := w.Write(buffer.New(0))
	require.NoError(t, err)
	require.False(t, done)

	buf := buffer.New(8)
	done, err = w.Write(buf)
	require.NoError(t, err)
	require.True(t, done)
	require.Equal(t, AppendInteger(nil, 0x10, 4, 1000), buf.Bytes())

	// finished writers keep reporting completion without writing more
	done, err = w.Write(buf)
	require.NoError(t, err)
	require.True(t, done)
	require.Equal(t, 3, buf.Len())
}

func TestIntegerWriter_IllegalState(t *testing.T) {
	t.Run("write before configure", func(t *testing.T) {
		var w IntegerWriter
		_, err := w.Write(buffer.New(4))
		require.ErrorIs(t, err, errs.ErrIllegalState)
	})

	t.Run("reconfigure while in flight", func(t *testing.T) {
		var w IntegerWriter
		require.NoError(t, w.Configure(500, 5, 0))
		_, err := w.Write(buffer.New(1))
		require.NoError(t, err)
		require.True(t, w.Configured())

		err = w.Configure(1, 5, 0)
		require.ErrorIs(t, err, errs.ErrIllegalState)

		w.Reset()
		require.False(t, w.Configured())
		require.NoError(t, w.Configure(1, 5, 0))
	})

	t.Run("reconfigure after completion", func(t *testing.T) {
		var w IntegerWriter
		require.NoError(t, w.Configure(1, 5, 0))
		_, err := w.Write(buffer.New(1))
		require.NoError(t, err)
		require.NoError(t, w.Configure(2, 5, 0))
	})
}

func TestIntegerWriter_InvalidPrefix(t *testing.T) {
	var w IntegerWriter

	err := w.Configure(1, 0, 0)
	require.ErrorIs(t, err, errs.ErrInvalidPrefix)

	err = w.Configure(1, 9, 0)
	require.ErrorIs(t, err, errs.ErrInvalidPrefix)

	err = w.Configure(1, 5, 0x01)
	require.ErrorIs(t, err, errs.ErrInvalidPrefix, "payload overlapping the prefix")

	require.NoError(t, w.Configure(255, 8, 0))
}

func TestRequiredBufferSize(t *testing.T) {
	tests := []struct {
		prefixWidth int
		value       uint64
		want        int
	}{
		{5, 30, 1},
		{5, 31, 2},
		{5, 31 + 127, 2},
		{5, 31 + 128, 3},
		{8, 254, 1},
		{8, 255, 2},
		{1, 0, 1},
		{1, 1, 2},
		{7, math.MaxUint64, 11},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, RequiredBufferSize(tt.prefixWidth, tt.value), "N=%d value=%d", tt.prefixWidth, tt.value)
		require.Len(t, AppendInteger(nil, 0, tt.prefixWidth, tt.value), tt.want)
	}
}

func TestIntegerReader_Incremental(t *testing.T) {
	encoded := AppendInteger(nil, 0xE0, 5, 1<<40)

	var r IntegerReader
	require.NoError(t, r.Configure(5))
	for i, b := range encoded {
		n, done, err := r.Read([]byte{b})
		require.NoError(t, err)
		require.Equal(t, 1, n)
		require.Equal(t, i == len(encoded)-1, done)
	}
	require.True(t, r.Done())
	require.Equal(t, uint64(1<<40), r.Value())
	require.Equal(t, byte(0xFF), r.FirstByte(), "first byte keeps the high bits")

	// extra input is not consumed once complete
	n, done, err := r.Read([]byte{0x01})
	require.NoError(t, err)
	require.True(t, done)
	require.Equal(t, 0, n)
}

func TestIntegerReader_StopsAtEnd(t *testing.T) {
	src := append(AppendInteger(nil, 0, 6, 100), 0x7f, 0x7f)

	v, n, err := DecodeInteger(src, 6)
	require.NoError(t, err)
	require.Equal(t, uint64(100), v)
	require.Equal(t, 2, n)
}

func TestIntegerReader_Malformed(t *testing.T) {
	t.Run("too many continuation bytes", func(t *testing.T) {
		src := []byte{0x1f}
		for i := 0; i < MaxContinuationBytes+1; i++ {
			src = append(src, 0x80)
		}
		src = append(src, 0x00)

		_, _, err := DecodeInteger(src, 5)
		require.ErrorIs(t, err, errs.ErrMalformedInteger)
	})

	t.Run("overflow", func(t *testing.T) {
		src := []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x7f}
		_, _, err := DecodeInteger(src, 8)
		require.ErrorIs(t, err, errs.ErrMalformedInteger)
	})

	t.Run("carry overflow", func(t *testing.T) {
		// max uint64 needs 255 + a 64-bit remainder; one more overflows
		src := AppendInteger(nil, 0, 8, math.MaxUint64)
		src[1]++
		_, _, err := DecodeInteger(src, 8)
		require.ErrorIs(t, err, errs.ErrMalformedInteger)
	})

	t.Run("truncated", func(t *testing.T) {
		_, _, err := DecodeInteger([]byte{0x1f, 0x9a}, 5)
		require.ErrorIs(t, err, errs.ErrTruncated)

		_, _, err = DecodeInteger(nil, 5)
		require.ErrorIs(t, err, errs.ErrTruncated)
	})

	t.Run("not configured", func(t *testing.T) {
		var r IntegerReader
		_, _, err := r.Read([]byte{0x01})
		require.ErrorIs(t, err, errs.ErrIllegalState)
	})
}
