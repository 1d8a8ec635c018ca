// Package dctz compresses 2-D and 3-D float32/float64 arrays with a block-wise
// discrete cosine transform under a strict absolute error bound.
//
// Every reconstructed sample differs from its original by at most the error
// bound. Smooth scientific fields (temperatures, pressures, velocity
// components) typically shrink 5-50x at a bound of 1e-3 relative to their
// value range.
//
// # Basic Usage
//
//	data := make([]float64, 512*512)
//	// ... fill data ...
//	arr, _ := ndarray.FromFloat64(data, 512, 512)
//
//	compressed, err := dctz.Compress(arr, 1e-3)
//	if err != nil {
//	    return err
//	}
//
//	restored, err := dctz.Decompress(compressed)
//
// # Advanced Usage
//
// NewCodec accepts codec options for block size, ratio mode, the lossless
// stage, worker count, byte order and checksums:
//
//	c, err := dctz.NewCodec(
//	    codec.WithErrorBound(1e-4),
//	    codec.WithBlockSize(16),
//	    codec.WithCompression(format.CompressionLZ4),
//	)
//
// # Package Structure
//
// This package wraps the codec package for the common cases. The stream format
// lives in section and stream, the numeric stages in transform, block and quant.
package dctz

import (
	"github.com/arloliu/dctz/codec"
	"github.com/arloliu/dctz/ndarray"
	"github.com/arloliu/dctz/quality"
)

// NewCodec creates a codec with the given options applied over the defaults.
func NewCodec(opts ...codec.Option) (*codec.Codec, error) {
	return codec.New(opts...)
}

// Compress compresses arr with the default settings and the given absolute
// error bound.
func Compress(arr *ndarray.Array, errorBound float64) ([]byte, error) {
	c, err := codec.New(codec.WithErrorBound(errorBound))
	if err != nil {
		return nil, err
	}

	return c.Compress(arr)
}

// Decompress decodes a stream into a newly allocated array.
func Decompress(data []byte) (*ndarray.Array, error) {
	c, err := codec.New()
	if err != nil {
		return nil, err
	}

	return c.DecompressNew(data)
}

// DecompressInto decodes a stream into out, which must match the stream's
// data type and shape.
func DecompressInto(data []byte, out *ndarray.Array) error {
	c, err := codec.New()
	if err != nil {
		return err
	}

	return c.Decompress(data, out)
}

// Verify compresses arr, decompresses the result and reports the
// reconstruction quality together with the stream.
func Verify(arr *ndarray.Array, opts ...codec.Option) ([]byte, quality.Report, error) {
	c, err := codec.New(opts...)
	if err != nil {
		return nil, quality.Report{}, err
	}

	data, err := c.Compress(arr)
	if err != nil {
		return nil, quality.Report{}, err
	}

	restored, err := c.DecompressNew(data)
	if err != nil {
		return nil, quality.Report{}, err
	}

	report, err := quality.Compare(arr, restored)
	if err != nil {
		return nil, quality.Report{}, err
	}

	return data, report, nil
}
