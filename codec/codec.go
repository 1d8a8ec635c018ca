// Package codec implements error-bounded block DCT compression of 2-D and 3-D
// float arrays.
//
// Compression splits the array into blocks of BlockSize^rank samples, applies
// an unnormalized DCT-II to each block, keeps the DC coefficient exactly and
// quantizes the AC coefficients with a step derived from the error bound.
// Every block is reconstructed on the spot through the same path Decompress
// uses; a block whose reconstruction misses the bound is stored raw instead.
// Every sample of the output is therefore within ErrorBound of the input.
//
// A Codec is immutable after construction and safe for concurrent use.
package codec

import (
	"fmt"

	"github.com/arloliu/dctz/block"
	"github.com/arloliu/dctz/format"
	"github.com/arloliu/dctz/internal/options"
	"github.com/arloliu/dctz/ndarray"
	"github.com/arloliu/dctz/quant"
	"github.com/arloliu/dctz/section"
	"github.com/arloliu/dctz/transform"
)

// Compressor is the public surface of a compressor.
type Compressor interface {
	// Compress encodes arr into a self-describing stream.
	Compress(arr *ndarray.Array) ([]byte, error)
	// Decompress decodes data into out, whose type and shape must match the stream.
	Decompress(data []byte, out *ndarray.Array) error
	// Configuration returns the settings in effect.
	Configuration() Config
	// Clone returns an independent compressor with the same settings.
	Clone() Compressor
}

// Codec is the block DCT compressor.
type Codec struct {
	cfg Config
}

var _ Compressor = (*Codec)(nil)

// New creates a Codec from DefaultConfig with opts applied in order.
func New(opts ...Option) (*Codec, error) {
	cfg := DefaultConfig()
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}

	return NewWithConfig(cfg)
}

// NewWithConfig creates a Codec from an explicit configuration.
func NewWithConfig(cfg Config) (*Codec, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Codec{cfg: cfg}, nil
}

// Configuration returns a copy of the codec's settings.
func (c *Codec) Configuration() Config {
	return c.cfg
}

// Clone returns a new Codec with the same settings.
func (c *Codec) Clone() Compressor {
	clone := *c
	return &clone
}

// header builds the stream header for an array compressed with ctx.
func (c *Codec) header(dtype format.DataType, shape []int, ctx quant.Context) section.Header {
	h := section.NewHeader(dtype, shape)
	h.BlockSize = uint8(c.cfg.BlockSize)
	h.Mode = ctx.Mode
	h.Compression = c.cfg.Compression
	h.ErrorBound = ctx.ErrorBound
	h.Step = ctx.Step
	h.CullThreshold = ctx.CullThreshold

	if c.cfg.BigEndian {
		h.Flag.WithBigEndian()
	}
	h.Flag.SetChecksum(c.cfg.Checksum)

	return *h
}

// kernel bundles the per-shape state shared by every block of one call.
type kernel struct {
	grid *block.Grid
	bt   *transform.BlockTransform
	q    *quant.Quantizer
	norm float64
}

func newKernel(grid *block.Grid, bt *transform.BlockTransform, ctx quant.Context) *kernel {
	return &kernel{
		grid: grid,
		bt:   bt,
		q:    quant.New(ctx, grid.Extent(), grid.Rank()),
		norm: bt.Normalization(),
	}
}

// reconstruct rebuilds normalized block samples from a quantized block.
// Compression verifies candidates with exactly this function.
func (k *kernel) reconstruct(dc float64, ac []int64, dst []float64) {
	k.q.Dequantize(dc, ac, dst)
	k.bt.Inverse(dst, dst)
	for i := range dst {
		dst[i] /= k.norm
	}
}

func checkGrid(shape []int, extent int) (*block.Grid, error) {
	grid, err := block.NewGrid(shape, extent)
	if err != nil {
		return nil, fmt.Errorf("codec: %w", err)
	}

	return grid, nil
}
