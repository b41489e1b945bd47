// Package buffer provides the byte sink that qpack writers drain into.
//
// A Buffer appends into its underlying slice but never past its capacity:
// the capacity is the limit of the destination, and Remaining reports how many
// bytes a writer may still emit. Writers that run out of room return false and
// are resumed after the caller drains the buffer or grows it.
//
//	buf := buffer.New(64)
//	for {
//	    done, err := w.Write(buf)
//	    if err != nil {
//	        return err
//	    }
//	    stream.Write(buf.Bytes())
//	    buf.Reset()
//	    if done {
//	        break
//	    }
//	}
package buffer

import (
	"io"
	"sync"
)

const (
	DefaultSize     = 1024      // DefaultSize is the capacity of pooled buffers.
	MaxPooledSize   = 1024 * 64 // MaxPooledSize is the largest capacity retained by the pool.
	minGrowthFactor = 4
)

// Buffer is a bounded byte sink with position tracking.
type Buffer struct {
	// B is the underlying byte slice. len(B) is the write position and cap(B)
	// is the limit.
	B []byte
}

// New creates an empty Buffer able to hold capacity bytes.
func New(capacity int) *Buffer {
	return &Buffer{
		B: make([]byte, 0, capacity),
	}
}

// Wrap creates a Buffer writing into the backing array of b.
// Writing starts at offset 0 and stops at cap(b).
func Wrap(b []byte) *Buffer {
	return &Buffer{B: b[:0]}
}

// Bytes returns the bytes written so far.
func (bb *Buffer) Bytes() []byte {
	return bb.B
}

// Len returns the number of bytes written.
func (bb *Buffer) Len() int {
	return len(bb.B)
}

// Cap returns the limit of the buffer.
func (bb *Buffer) Cap() int {
	return cap(bb.B)
}

// Remaining returns how many more bytes fit before the limit.
func (bb *Buffer) Remaining() int {
	return cap(bb.B) - len(bb.B)
}

// HasRemaining reports whether at least one more byte fits.
func (bb *Buffer) HasRemaining() bool {
	return len(bb.B) < cap(bb.B)
}

// Reset empties the buffer, keeping its capacity.
func (bb *Buffer) Reset() {
	bb.B = bb.B[:0]
}

// PutByte appends c. It returns false, writing nothing, when the buffer is full.
func (bb *Buffer) PutByte(c byte) bool {
	n := len(bb.B)
	if n == cap(bb.B) {
		return false
	}
	bb.B = bb.B[:n+1]
	bb.B[n] = c

	return true
}

// Append copies as much of p as fits and returns the number of bytes copied.
func (bb *Buffer) Append(p []byte) int {
	n := len(bb.B)
	m := copy(bb.B[n:cap(bb.B)], p)
	bb.B = bb.B[:n+m]

	return m
}

// AppendString is Append for a string.
func (bb *Buffer) AppendString(s string) int {
	n := len(bb.B)
	m := copy(bb.B[n:cap(bb.B)], s)
	bb.B = bb.B[:n+m]

	return m
}

// Grow raises the limit so that at least requiredBytes more bytes fit.
// If the buffer has sufficient room, Grow does nothing.
//
// Small buffers grow by at least DefaultSize; larger ones by a quarter of
// their capacity.
func (bb *Buffer) Grow(requiredBytes int) {
	if bb.Remaining() >= requiredBytes {
		return
	}

	growBy := DefaultSize
	if cap(bb.B) > minGrowthFactor*DefaultSize {
		growBy = cap(bb.B) / 4
	}
	if growBy < requiredBytes {
		growBy = requiredBytes
	}

	newBuf := make([]byte, len(bb.B), cap(bb.B)+growBy)
	copy(newBuf, bb.B)
	bb.B = newBuf
}

// WriteTo writes the contents of the buffer to w.
func (bb *Buffer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(bb.B)
	return int64(n), err
}

// Pool is a pool of Buffers.
//
// Buffers whose capacity grew beyond maxThreshold are dropped instead of being
// retained.
type Pool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewPool creates a Pool handing out buffers of defaultSize capacity.
func NewPool(defaultSize int, maxThreshold int) *Pool {
	return &Pool{
		pool: sync.Pool{
			New: func() any {
				return New(defaultSize)
			},
		},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves an empty Buffer from the pool.
func (p *Pool) Get() *Buffer {
	bb, _ := p.pool.Get().(*Buffer)
	return bb
}

// Put returns bb to the pool.
func (p *Pool) Put(bb *Buffer) {
	if bb == nil {
		return
	}

	if p.maxThreshold > 0 && cap(bb.B) > p.maxThreshold {
		return
	}

	bb.Reset()
	p.pool.Put(bb)
}

var defaultPool = NewPool(DefaultSize, MaxPooledSize)

// Get retrieves a Buffer from the default pool.
func Get() *Buffer {
	return defaultPool.Get()
}

// Put returns a Buffer to the default pool.
func Put(bb *Buffer) {
	defaultPool.Put(bb)
}
