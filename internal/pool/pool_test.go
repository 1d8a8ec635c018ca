package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestByteBuffer(t *testing.T) {
	bb := NewByteBuffer(4)
	require.Equal(t, 0, bb.Len())

	n, err := bb.Write([]byte{1, 2, 3, 4, 5})
	require.NoError(t, err)
	require.Equal(t, 5, n)
	require.Equal(t, []byte{1, 2, 3, 4, 5}, bb.Bytes())

	bb.Grow(1000)
	require.GreaterOrEqual(t, cap(bb.B)-bb.Len(), 1000)
	require.Equal(t, []byte{1, 2, 3, 4, 5}, bb.Bytes(), "grow keeps content")

	bb.Reset()
	require.Equal(t, 0, bb.Len())
	require.GreaterOrEqual(t, cap(bb.B), 1005)
}

func TestByteBuffer_GrowLarge(t *testing.T) {
	bb := NewByteBuffer(8 * RecordBufferDefaultSize)
	bb.B = bb.B[:cap(bb.B)]
	before := cap(bb.B)

	bb.Grow(1)
	require.GreaterOrEqual(t, cap(bb.B), before+before/4)
}

func TestByteBufferPool(t *testing.T) {
	p := NewByteBufferPool(16, 64)

	bb := p.Get()
	require.NotNil(t, bb)
	require.Equal(t, 0, bb.Len())

	_, _ = bb.Write([]byte("abc"))
	p.Put(bb)

	again := p.Get()
	require.Equal(t, 0, again.Len(), "pooled buffers come back empty")

	// Oversized buffers are dropped rather than pooled; Put must not panic.
	p.Put(NewByteBuffer(1024))
	p.Put(nil)
}

func TestRecordBuffer(t *testing.T) {
	bb := GetRecordBuffer()
	require.Equal(t, 0, bb.Len())
	PutRecordBuffer(bb)
}

func TestSlicePools(t *testing.T) {
	f, cleanupF := GetFloat64Slice(64)
	require.Len(t, f, 64)
	cleanupF()

	f, cleanupF = GetFloat64Slice(16)
	require.Len(t, f, 16)
	cleanupF()

	ac, cleanupI := GetInt64Slice(63)
	require.Len(t, ac, 63)
	cleanupI()

	ac, cleanupI = GetInt64Slice(1000)
	require.Len(t, ac, 1000)
	cleanupI()
}
