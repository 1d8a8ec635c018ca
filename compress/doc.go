// Package compress provides the lossless stage applied to the record section
// of a dctz stream.
//
// After quantization most blocks are a handful of small integers packed at a
// narrow bit width, followed by long runs of zero-width blocks. A general
// purpose compressor squeezes the remaining redundancy out of that section.
//
// # Supported Algorithms
//
//   - format.CompressionNone: pass-through
//   - format.CompressionZstd: best ratio, the default
//   - format.CompressionS2: faster, slightly larger
//   - format.CompressionLZ4: fastest decompression
//
// # Usage
//
//	codec, err := compress.GetCodec(format.CompressionZstd)
//	if err != nil {
//	    return err
//	}
//	packed, err := codec.Compress(records)
//	...
//	records, err = codec.Decompress(packed, rawLen)
//
// The stream header always records the uncompressed length, so Decompress
// receives it as a hint and rejects output of any other size.
//
// # Build Tags
//
// Zstandard uses github.com/klauspost/compress/zstd by default. Building with
// the cgozstd tag (and cgo enabled) switches to github.com/valyala/gozstd.
// Both produce standard frames, so streams are interchangeable.
//
// # Thread Safety
//
// All codecs are stateless values backed by sync.Pool-ed encoders, and are
// safe for concurrent use.
package compress
