package codec

import (
	"fmt"
	"math"
	"slices"

	"github.com/arloliu/dctz/block"
	"github.com/arloliu/dctz/errs"
	"github.com/arloliu/dctz/format"
	"github.com/arloliu/dctz/internal/pool"
	"github.com/arloliu/dctz/ndarray"
	"github.com/arloliu/dctz/quant"
	"github.com/arloliu/dctz/stream"
	"github.com/arloliu/dctz/transform"
)

// Compress encodes arr into a self-describing stream. arr is not modified.
func (c *Codec) Compress(arr *ndarray.Array) ([]byte, error) {
	data, _, err := c.CompressWithStats(arr)
	return data, err
}

// CompressWithStats is Compress that also reports how the blocks were stored.
func (c *Codec) CompressWithStats(arr *ndarray.Array) ([]byte, Stats, error) {
	if arr == nil {
		return nil, Stats{}, fmt.Errorf("%w: nil array", errs.ErrInvalidShape)
	}

	dtype := arr.DataType()
	if !dtype.IsValid() {
		return nil, Stats{}, fmt.Errorf("%w: %s", errs.ErrInvalidType, dtype)
	}

	grid, err := checkGrid(arr.Shape(), c.cfg.BlockSize)
	if err != nil {
		return nil, Stats{}, err
	}

	bt := transform.NewBlockTransform(grid.Extent(), grid.Rank())
	ctx, err := quant.NewContext(c.cfg.ErrorBound, bt.Amplification(), c.cfg.Mode, c.cfg.CullThreshold)
	if err != nil {
		return nil, Stats{}, err
	}
	k := newKernel(grid, bt, ctx)

	records := make([]stream.Record, grid.NumBlocks())
	switch dtype {
	case format.Float32:
		err = encodeBlocks(k, arr.Float32s(), records, c.workers())
	default:
		err = encodeBlocks(k, arr.Float64s(), records, c.workers())
	}
	if err != nil {
		return nil, Stats{}, err
	}

	data, lossless, err := stream.Pack(c.header(dtype, arr.Shape(), ctx), records)
	if err != nil {
		return nil, Stats{}, err
	}

	stats := Stats{
		Elements:       arr.Len(),
		Blocks:         len(records),
		OriginalSize:   int64(arr.ByteSize()),
		CompressedSize: int64(len(data)),
		Lossless:       lossless,
	}
	for i := range records {
		switch records[i].Mode {
		case format.BlockZero:
			stats.ZeroBlocks++
		case format.BlockQuantized:
			stats.QuantizedBlocks++
		case format.BlockRaw:
			stats.RawBlocks++
		}
	}

	return data, stats, nil
}

func encodeBlocks[T block.Float](k *kernel, src []T, records []stream.Record, workers int) error {
	return forEachRange(len(records), workers, func(lo, hi int) error {
		enc := newEncoder(k, src)
		defer enc.release()

		for i := lo; i < hi; i++ {
			records[i] = enc.encode(k.grid.Block(i))
		}

		return nil
	})
}

// encoder owns the scratch buffers of one worker.
type encoder[T block.Float] struct {
	k       *kernel
	src     []T
	bound   float64
	samples []float64
	coeffs  []float64
	recon   []float64
	ac      []int64
	cleanup []func()
}

func newEncoder[T block.Float](k *kernel, src []T) *encoder[T] {
	n := k.grid.BlockLen()
	e := &encoder[T]{k: k, src: src, bound: k.q.Context().ErrorBound}

	var done func()
	e.samples, done = pool.GetFloat64Slice(n)
	e.cleanup = append(e.cleanup, done)
	e.coeffs, done = pool.GetFloat64Slice(n)
	e.cleanup = append(e.cleanup, done)
	e.recon, done = pool.GetFloat64Slice(n)
	e.cleanup = append(e.cleanup, done)
	e.ac, done = pool.GetInt64Slice(n - 1)
	e.cleanup = append(e.cleanup, done)

	return e
}

func (e *encoder[T]) release() {
	for _, done := range e.cleanup {
		done()
	}
}

// encode picks the cheapest record for block b that honors the error bound.
func (e *encoder[T]) encode(b block.Block) stream.Record {
	block.Gather(e.k.grid, b, e.src, e.samples)

	allZero, finite := true, true
	for _, v := range e.samples {
		if v != 0 {
			allZero = false
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			finite = false
			break
		}
	}
	if allZero {
		return stream.Record{Mode: format.BlockZero}
	}
	if !finite {
		return e.raw(b)
	}

	e.k.bt.Forward(e.coeffs, e.samples)

	cull := e.k.q.Context().Culls()
	if rec, ok := e.quantize(b, cull); ok {
		return rec
	}
	// Culling can push a block past the bound; retry keeping every coefficient.
	if cull {
		if rec, ok := e.quantize(b, false); ok {
			return rec
		}
	}

	return e.raw(b)
}

func (e *encoder[T]) quantize(b block.Block, cull bool) (stream.Record, bool) {
	ac, ok := e.k.q.Quantize(e.coeffs, e.ac, cull)
	if !ok {
		return stream.Record{}, false
	}

	dc := e.coeffs[0]
	e.k.reconstruct(dc, ac, e.recon)
	if !e.withinBound(b) {
		return stream.Record{}, false
	}

	rec := stream.Record{Mode: format.BlockQuantized, DC: dc}
	if len(ac) > 0 {
		rec.AC = slices.Clone(ac)
	}

	return rec, true
}

// withinBound compares every in-range sample of the reconstruction, cast to
// the array type, against the input.
func (e *encoder[T]) withinBound(b block.Block) bool {
	ok := true
	e.k.grid.InRange(b, func(local, global int) {
		if !ok {
			return
		}
		got := float64(T(e.recon[local]))
		if !(math.Abs(got-float64(e.src[global])) <= e.bound) {
			ok = false
		}
	})

	return ok
}

func (e *encoder[T]) raw(b block.Block) stream.Record {
	values := block.GatherValid(e.k.grid, b, e.src, make([]float64, 0, e.k.grid.ValidLen(b)))
	return stream.Record{Mode: format.BlockRaw, Raw: values}
}
