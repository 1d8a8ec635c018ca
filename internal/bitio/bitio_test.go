package bitio

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriterReader_RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewPCG(21, 22))

	for width := 0; width <= 64; width++ {
		count := 1 + rng.IntN(200)
		values := make([]uint64, count)
		for i := range values {
			v := rng.Uint64()
			if width < 64 {
				v &= (1 << width) - 1
			}
			values[i] = v
		}

		w := NewWriter(nil)
		for _, v := range values {
			w.WriteBits(v, width)
		}
		data := w.Finish()
		require.Len(t, data, PackedLen(count, width), "width %d", width)

		r := NewReader(data)
		for i, want := range values {
			got, ok := r.ReadBits(width)
			require.True(t, ok, "width %d index %d", width, i)
			require.Equal(t, want, got, "width %d index %d", width, i)
		}
	}
}

func TestWriter_MixedWidths(t *testing.T) {
	w := NewWriter([]byte{0xAA})
	w.WriteBits(0b1, 1)
	w.WriteBits(0b0110, 4)
	w.WriteBits(0xFFFF_FFFF_FFFF_FFFF, 64)
	w.WriteBits(0b101, 3)
	data := w.Finish()

	require.Equal(t, byte(0xAA), data[0], "existing prefix kept")

	r := NewReader(data[1:])
	v, ok := r.ReadBits(1)
	require.True(t, ok)
	require.Equal(t, uint64(1), v)
	v, _ = r.ReadBits(4)
	require.Equal(t, uint64(0b0110), v)
	v, _ = r.ReadBits(64)
	require.Equal(t, uint64(0xFFFF_FFFF_FFFF_FFFF), v)
	v, _ = r.ReadBits(3)
	require.Equal(t, uint64(0b101), v)
}

func TestReader_Truncated(t *testing.T) {
	r := NewReader([]byte{0xFF})
	_, ok := r.ReadBits(9)
	require.False(t, ok)

	r = NewReader(nil)
	_, ok = r.ReadBits(1)
	require.False(t, ok)

	v, ok := r.ReadBits(0)
	require.True(t, ok)
	require.Zero(t, v)
}

func BenchmarkWriter_12Bits(b *testing.B) {
	buf := make([]byte, 0, 1024)
	b.ReportAllocs()
	for b.Loop() {
		w := NewWriter(buf[:0])
		for i := range 512 {
			w.WriteBits(uint64(i), 12)
		}
		buf = w.Finish()
	}
}
