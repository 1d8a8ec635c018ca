package codec

import (
	"fmt"
	"slices"

	"github.com/arloliu/dctz/block"
	"github.com/arloliu/dctz/errs"
	"github.com/arloliu/dctz/format"
	"github.com/arloliu/dctz/internal/pool"
	"github.com/arloliu/dctz/ndarray"
	"github.com/arloliu/dctz/quant"
	"github.com/arloliu/dctz/section"
	"github.com/arloliu/dctz/stream"
	"github.com/arloliu/dctz/transform"
)

// Decompress decodes data into out.
//
// out must have the stream's data type (errs.ErrTypeMismatch otherwise) and
// shape (errs.ErrShapeMismatch). Both are checked against the header before
// the record section is decompressed. The whole stream is parsed and validated
// before the first sample is written, so out is unchanged on any error.
func (c *Codec) Decompress(data []byte, out *ndarray.Array) error {
	if out == nil {
		return fmt.Errorf("%w: nil output array", errs.ErrShapeMismatch)
	}

	h, err := section.ParseHeader(data)
	if err != nil {
		return err
	}
	if err := checkOutput(h, out); err != nil {
		return err
	}

	h, records, err := stream.Unpack(data)
	if err != nil {
		return err
	}

	return c.decode(h, records, out)
}

func checkOutput(h section.Header, out *ndarray.Array) error {
	if h.DataType != out.DataType() {
		return fmt.Errorf("%w: stream holds %s, output is %s", errs.ErrTypeMismatch, h.DataType, out.DataType())
	}
	if !slices.Equal(h.Dims, out.Shape()) {
		return fmt.Errorf("%w: stream shape %v, output shape %v", errs.ErrShapeMismatch, h.Dims, out.Shape())
	}

	return nil
}

// DecompressNew decodes data into a newly allocated array of the stream's
// type and shape.
func (c *Codec) DecompressNew(data []byte) (*ndarray.Array, error) {
	h, records, err := stream.Unpack(data)
	if err != nil {
		return nil, err
	}

	out, err := ndarray.Zeros(h.DataType, h.Dims...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrAllocationFailure, err)
	}

	if err := c.decode(h, records, out); err != nil {
		return nil, err
	}

	return out, nil
}

func (c *Codec) decode(h section.Header, records []stream.Record, out *ndarray.Array) error {
	ctx := quant.Context{
		ErrorBound:    h.ErrorBound,
		Step:          h.Step,
		Mode:          h.Mode,
		CullThreshold: h.CullThreshold,
	}
	if err := ctx.Validate(); err != nil {
		return fmt.Errorf("%w: %w", errs.ErrCorruptStream, err)
	}

	grid, err := block.NewGrid(h.Dims, int(h.BlockSize))
	if err != nil {
		return fmt.Errorf("%w: %w", errs.ErrCorruptStream, err)
	}
	k := newKernel(grid, transform.NewBlockTransform(grid.Extent(), grid.Rank()), ctx)

	if out.DataType() == format.Float32 {
		return decodeBlocks(k, records, out.Float32s(), c.workers())
	}

	return decodeBlocks(k, records, out.Float64s(), c.workers())
}

// decodeBlocks writes every block into dst. Blocks cover disjoint regions,
// so workers never touch the same sample.
func decodeBlocks[T block.Float](k *kernel, records []stream.Record, dst []T, workers int) error {
	return forEachRange(len(records), workers, func(lo, hi int) error {
		buf, done := pool.GetFloat64Slice(k.grid.BlockLen())
		defer done()

		for i := lo; i < hi; i++ {
			b := k.grid.Block(i)
			rec := &records[i]

			switch rec.Mode {
			case format.BlockZero:
				clear(buf)
				block.Scatter(k.grid, b, buf, dst)
			case format.BlockQuantized:
				k.reconstruct(rec.DC, rec.AC, buf)
				block.Scatter(k.grid, b, buf, dst)
			case format.BlockRaw:
				block.ScatterValid(k.grid, b, rec.Raw, dst)
			}
		}

		return nil
	})
}
