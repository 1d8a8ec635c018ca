// Package bitio packs unsigned integers of arbitrary width (0-64 bits) into a
// byte stream, most significant bit first, and reads them back.
package bitio

import "encoding/binary"

// Writer accumulates bits in a 64-bit buffer and flushes whole words to an
// appended byte slice.
type Writer struct {
	buf      []byte
	bitBuf   uint64
	bitCount int
}

// NewWriter returns a Writer that appends to dst.
func NewWriter(dst []byte) *Writer {
	return &Writer{buf: dst}
}

// WriteBits writes the low numBits bits of value. numBits must be in [0, 64].
func (w *Writer) WriteBits(value uint64, numBits int) {
	if numBits == 0 {
		return
	}

	if numBits < 64 {
		value &= (1 << numBits) - 1
	}

	available := 64 - w.bitCount
	if numBits <= available {
		w.bitBuf = (w.bitBuf << numBits) | value
		w.bitCount += numBits
		if w.bitCount == 64 {
			w.flushWord()
		}

		return
	}

	// Split across the word boundary: high bits first.
	low := numBits - available
	w.bitBuf = (w.bitBuf << available) | (value >> low)
	w.bitCount = 64
	w.flushWord()

	w.bitBuf = value & ((1 << low) - 1)
	w.bitCount = low
}

// Finish flushes pending bits, zero-padding the last byte, and returns the
// appended slice.
func (w *Writer) Finish() []byte {
	if w.bitCount > 0 {
		aligned := w.bitBuf << (64 - w.bitCount)
		numBytes := (w.bitCount + 7) / 8
		for i := range numBytes {
			w.buf = append(w.buf, byte(aligned>>(56-8*i)))
		}
		w.bitBuf = 0
		w.bitCount = 0
	}

	return w.buf
}

func (w *Writer) flushWord() {
	w.buf = binary.BigEndian.AppendUint64(w.buf, w.bitBuf)
	w.bitBuf = 0
	w.bitCount = 0
}

// PackedLen returns the number of bytes needed for count values of width bits.
func PackedLen(count, width int) int {
	return (count*width + 7) / 8
}

// Reader reads bits written by Writer.
type Reader struct {
	data     []byte
	pos      int
	bitBuf   uint64 // left-aligned
	bitCount int
}

// NewReader returns a Reader over data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// ReadBits reads numBits bits (0-64). It returns false when the data runs out.
func (r *Reader) ReadBits(numBits int) (uint64, bool) {
	if numBits == 0 {
		return 0, true
	}

	if r.bitCount >= numBits {
		v := r.bitBuf >> (64 - numBits)
		r.bitBuf <<= numBits
		r.bitCount -= numBits

		return v, true
	}

	have := r.bitCount
	var high uint64
	if have > 0 {
		high = r.bitBuf >> (64 - have)
	}
	need := numBits - have

	if !r.fill() || r.bitCount < need {
		return 0, false
	}

	low := r.bitBuf >> (64 - need)
	r.bitBuf <<= need
	r.bitCount -= need

	return high<<need | low, true
}

// fill loads up to 8 bytes into an empty bit buffer.
func (r *Reader) fill() bool {
	remaining := len(r.data) - r.pos
	if remaining <= 0 {
		return false
	}

	if remaining >= 8 {
		r.bitBuf = binary.BigEndian.Uint64(r.data[r.pos:])
		r.bitCount = 64
		r.pos += 8

		return true
	}

	var v uint64
	for i := range remaining {
		v |= uint64(r.data[r.pos+i]) << (56 - 8*i)
	}
	r.bitBuf = v
	r.bitCount = remaining * 8
	r.pos += remaining

	return true
}
