package buffer

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	bb := New(16)

	require.NotNil(t, bb)
	assert.Equal(t, 0, bb.Len(), "new buffer should have zero length")
	assert.Equal(t, 16, bb.Cap(), "new buffer should have specified capacity")
	assert.Equal(t, 16, bb.Remaining())
	assert.True(t, bb.HasRemaining())
}

func TestWrap(t *testing.T) {
	backing := make([]byte, 3, 8)
	bb := Wrap(backing)

	assert.Equal(t, 0, bb.Len(), "wrapped buffer starts at offset 0")
	assert.Equal(t, 8, bb.Remaining())

	require.True(t, bb.PutByte(0xAB))
	assert.Equal(t, byte(0xAB), backing[0], "writes should land in the backing array")
}

func TestBuffer_PutByte(t *testing.T) {
	bb := New(2)

	require.True(t, bb.PutByte(1))
	require.True(t, bb.PutByte(2))
	require.False(t, bb.PutByte(3), "full buffer must reject the byte")

	assert.Equal(t, []byte{1, 2}, bb.Bytes())
	assert.False(t, bb.HasRemaining())
	assert.Equal(t, 2, bb.Cap(), "PutByte must never grow the buffer")
}

func TestBuffer_Append(t *testing.T) {
	t.Run("fits", func(t *testing.T) {
		bb := New(8)
		n := bb.Append([]byte("abc"))
		assert.Equal(t, 3, n)
		assert.Equal(t, []byte("abc"), bb.Bytes())
	})

	t.Run("partial", func(t *testing.T) {
		bb := New(4)
		n := bb.Append([]byte("abcdef"))
		assert.Equal(t, 4, n)
		assert.Equal(t, []byte("abcd"), bb.Bytes())
		assert.Equal(t, 0, bb.Append([]byte("ef")))
	})

	t.Run("string", func(t *testing.T) {
		bb := New(5)
		assert.Equal(t, 5, bb.AppendString("hello world"))
		assert.Equal(t, "hello", string(bb.Bytes()))
	})
}

func TestBuffer_Reset(t *testing.T) {
	bb := New(8)
	bb.Append([]byte("data"))

	bb.Reset()

	assert.Equal(t, 0, bb.Len())
	assert.Equal(t, 8, bb.Cap(), "Reset should preserve capacity")
}

func TestBuffer_Grow(t *testing.T) {
	t.Run("no-op when room is available", func(t *testing.T) {
		bb := New(16)
		bb.Grow(8)
		assert.Equal(t, 16, bb.Cap())
	})

	t.Run("small buffer grows by default size", func(t *testing.T) {
		bb := New(4)
		bb.Append([]byte("abcd"))
		bb.Grow(1)

		assert.Equal(t, 4+DefaultSize, bb.Cap())
		assert.Equal(t, []byte("abcd"), bb.Bytes(), "content must survive growth")
	})

	t.Run("large requirement wins", func(t *testing.T) {
		bb := New(0)
		bb.Grow(DefaultSize * 3)
		assert.GreaterOrEqual(t, bb.Remaining(), DefaultSize*3)
	})

	t.Run("large buffer grows by a quarter", func(t *testing.T) {
		size := DefaultSize * 8
		bb := New(size)
		bb.B = bb.B[:size]
		bb.Grow(1)
		assert.Equal(t, size+size/4, bb.Cap())
	})
}

func TestBuffer_WriteTo(t *testing.T) {
	bb := New(8)
	bb.AppendString("qpack")

	var out bytes.Buffer
	n, err := bb.WriteTo(&out)
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)
	assert.Equal(t, "qpack", out.String())
}

func TestPool(t *testing.T) {
	p := NewPool(32, 64)

	bb := p.Get()
	require.NotNil(t, bb)
	assert.Equal(t, 32, bb.Cap())

	bb.AppendString("leftover")
	p.Put(bb)

	again := p.Get()
	assert.Equal(t, 0, again.Len(), "pooled buffers must come back empty")

	// nil and oversized buffers are ignored
	p.Put(nil)
	p.Put(New(128))
}

func TestDefaultPool_Concurrent(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				bb := Get()
				bb.PutByte(byte(j))
				Put(bb)
			}
		}()
	}
	wg.Wait()
}
