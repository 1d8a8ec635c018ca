package codec

import "github.com/arloliu/dctz/compress"

// Stats describes one Compress call.
type Stats struct {
	// Elements is the number of samples compressed.
	Elements int
	// Blocks is the number of blocks, split by how each was stored.
	Blocks          int
	ZeroBlocks      int
	QuantizedBlocks int
	RawBlocks       int
	// OriginalSize is the input size in bytes.
	OriginalSize int64
	// CompressedSize is the length of the returned stream.
	CompressedSize int64
	// Lossless describes the record section before and after the lossless stage.
	Lossless compress.Stats
}

// Ratio returns OriginalSize / CompressedSize.
func (s Stats) Ratio() float64 {
	if s.CompressedSize == 0 {
		return 0
	}

	return float64(s.OriginalSize) / float64(s.CompressedSize)
}

// BitsPerValue returns the average number of stream bits per sample.
func (s Stats) BitsPerValue() float64 {
	if s.Elements == 0 {
		return 0
	}

	return float64(s.CompressedSize) * 8 / float64(s.Elements)
}
