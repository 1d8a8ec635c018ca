// Package section defines the fixed header at the start of every dctz stream.
//
// # Layout
//
// All multi-byte fields use the byte order selected by the endianness bit of
// the options field. The options field itself is always little-endian so it
// can be read first.
//
//	offset  size  field
//	0       2     options: bit 0 checksum, bit 1 big-endian, bits 4-15 magic 0xDC10
//	2       1     format version
//	3       1     sample data type (format.DataType)
//	4       1     rank, 2 or 3
//	5       1     block extent
//	6       1     quantizer mode (format.QuantizerMode)
//	7       1     lossless stage (format.CompressionType)
//	8       8     error bound, float64
//	16      8     quantization step, float64
//	24      8     cull threshold, float64
//	32      8     xxHash64 of the uncompressed record section, 0 when disabled
//	40      8     uncompressed record section length
//	48      8×r   dimensions, uint64 each
//
// The record section follows immediately after the last dimension.
package section
