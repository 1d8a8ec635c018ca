package transform

import (
	"fmt"
	"math"
)

// maxLineLen is the longest axis handled with stack-allocated line buffers.
const maxLineLen = 64

// BlockTransform applies the separable DCT to a hypercubic block stored as a
// flat row-major slice of extent^rank samples.
//
// The forward pass transforms the last axis first; the inverse pass walks the
// axes in the opposite order. A BlockTransform is safe for concurrent use.
type BlockTransform struct {
	engine *Engine
	extent int
	rank   int
	size   int
}

// NewBlockTransform creates a transform for blocks of extent^rank samples.
func NewBlockTransform(extent, rank int) *BlockTransform {
	if rank < 1 || extent < 1 {
		panic(fmt.Sprintf("transform: invalid block %d^%d", extent, rank))
	}

	size := 1
	for range rank {
		size *= extent
	}

	return &BlockTransform{
		engine: NewEngine(extent),
		extent: extent,
		rank:   rank,
		size:   size,
	}
}

// Size returns the number of samples in one block.
func (t *BlockTransform) Size() int {
	return t.size
}

// Extent returns the per-dimension block length.
func (t *BlockTransform) Extent() int {
	return t.extent
}

// Rank returns the number of transformed dimensions.
func (t *BlockTransform) Rank() int {
	return t.rank
}

// Normalization returns (2*extent)^rank, the scale of Inverse(Forward(x)).
func (t *BlockTransform) Normalization() float64 {
	return math.Pow(t.engine.Normalization(), float64(t.rank))
}

// Amplification returns the worst-case ratio between the absolute error of any
// reconstructed sample and a uniform absolute error on every AC coefficient,
// after normalization. The DC coefficient is excluded because it is stored exactly.
func (t *BlockTransform) Amplification() float64 {
	g := t.engine.MaxGain()
	return (math.Pow(g, float64(t.rank)) - 1) / t.Normalization()
}

// Forward writes the unnormalized DCT-II of src into dst.
// dst and src may be the same slice.
func (t *BlockTransform) Forward(dst, src []float64) {
	t.checkLen(dst, src)
	if &dst[0] != &src[0] {
		copy(dst, src)
	}

	for axis := t.rank - 1; axis >= 0; axis-- {
		t.apply(dst, axis, t.engine.Forward)
	}
}

// Inverse writes the unnormalized DCT-III of src into dst.
// dst and src may be the same slice.
func (t *BlockTransform) Inverse(dst, src []float64) {
	t.checkLen(dst, src)
	if &dst[0] != &src[0] {
		copy(dst, src)
	}

	for axis := 0; axis < t.rank; axis++ {
		t.apply(dst, axis, t.engine.Inverse)
	}
}

// apply runs fn over every line of buf along axis, in place.
func (t *BlockTransform) apply(buf []float64, axis int, fn func(dst, src []float64)) {
	n := t.extent

	stride := 1
	for range t.rank - 1 - axis {
		stride *= n
	}
	outer := t.size / (stride * n)

	var inArr, outArr [maxLineLen]float64
	var in, out []float64
	if n <= maxLineLen {
		in, out = inArr[:n], outArr[:n]
	} else {
		in, out = make([]float64, n), make([]float64, n)
	}

	for o := range outer {
		for i := range stride {
			base := o*stride*n + i
			for k := range n {
				in[k] = buf[base+k*stride]
			}
			fn(out, in)
			for k := range n {
				buf[base+k*stride] = out[k]
			}
		}
	}
}

func (t *BlockTransform) checkLen(dst, src []float64) {
	if len(src) != t.size || len(dst) != t.size {
		panic(fmt.Sprintf("transform: block length mismatch: want %d, src %d, dst %d", t.size, len(src), len(dst)))
	}
}
