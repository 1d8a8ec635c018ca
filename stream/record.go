// Package stream packs per-block records behind a section.Header into a
// compressed byte stream and unpacks them again.
//
// Record layout, one per block in decomposition order:
//
//	mode u8
//	  BlockZero:      nothing further
//	  BlockQuantized: dc f64 | count u16 | [width u8 | ceil(count·width/8) bytes]
//	  BlockRaw:       the block's in-range samples at the stream's data type width
//
// Quantized AC values are zig-zag mapped to unsigned integers and bit-packed
// MSB first at the narrowest width holding the largest of them. The width
// byte and payload are omitted when count is 0.
//
// The concatenated records form the record section. Its length and optional
// xxHash64 go into the header, and the section itself passes through the
// lossless stage named by the header.
package stream

import (
	"math/bits"

	"github.com/arloliu/dctz/format"
)

// Record is the encoded form of one block.
type Record struct {
	// Mode selects which of the remaining fields are meaningful.
	Mode format.BlockMode
	// DC is the exact DC coefficient of a quantized block.
	DC float64
	// AC holds the quantized AC coefficients of a quantized block in scan
	// order, usually with trailing zeros trimmed.
	AC []int64
	// Raw holds the in-range samples of a raw block in row-major order.
	Raw []float64
}

// EncodedSize returns the number of bytes r occupies in the record section.
func (r Record) EncodedSize(dtype format.DataType) int {
	switch r.Mode {
	case format.BlockQuantized:
		n := 1 + 8 + 2
		if len(r.AC) > 0 {
			n += 1 + (len(r.AC)*packWidth(r.AC)+7)/8
		}

		return n
	case format.BlockRaw:
		return 1 + len(r.Raw)*dtype.Size()
	default:
		return 1
	}
}

// zigzag maps signed integers to unsigned so small magnitudes get few bits.
func zigzag(v int64) uint64 {
	return uint64((v << 1) ^ (v >> 63))
}

func unzigzag(u uint64) int64 {
	return int64(u>>1) ^ -int64(u&1)
}

// packWidth returns the bit width needed for every zig-zag mapped value of ac.
func packWidth(ac []int64) int {
	var acc uint64
	for _, v := range ac {
		acc |= zigzag(v)
	}

	return bits.Len64(acc)
}
