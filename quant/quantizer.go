package quant

import "math"

// Quantizer applies a Context to blocks of a fixed size.
//
// A Quantizer holds no mutable state and is safe for concurrent use.
type Quantizer struct {
	ctx      Context
	order    []int
	blockLen int
}

// New creates a quantizer for extent^rank blocks.
func New(ctx Context, extent, rank int) *Quantizer {
	order := ScanOrder(extent, rank)

	return &Quantizer{
		ctx:      ctx,
		order:    order,
		blockLen: len(order) + 1,
	}
}

// Context returns the quantization context.
func (q *Quantizer) Context() Context {
	return q.ctx
}

// BlockLen returns the number of coefficients per block.
func (q *Quantizer) BlockLen() int {
	return q.blockLen
}

// Quantize maps the AC coefficients of a block to integers in scan order.
//
// dst must have room for BlockLen()-1 values. The returned slice is dst
// truncated after the last non-zero value, so an all-zero AC block yields an
// empty slice. When cull is set and the context is in ratio mode, coefficients
// below CullThreshold steps are dropped. ok is false when a coefficient is not
// finite or its quantized magnitude exceeds MaxQuant.
func (q *Quantizer) Quantize(coeffs []float64, dst []int64, cull bool) ([]int64, bool) {
	step := q.ctx.Step
	cutoff := 0.0
	if cull && q.ctx.Culls() {
		cutoff = q.ctx.CullThreshold * step
	}

	dst = dst[:len(q.order)]
	last := 0
	for i, pos := range q.order {
		x := coeffs[pos]
		if math.Abs(x) < cutoff {
			dst[i] = 0
			continue
		}

		r := math.Round(x / step)
		if math.IsNaN(r) || math.Abs(r) > MaxQuant {
			return nil, false
		}

		v := int64(r)
		dst[i] = v
		if v != 0 {
			last = i + 1
		}
	}

	return dst[:last], true
}

// Dequantize rebuilds the coefficient block from an exact DC value and
// scan-ordered quantized AC values. Positions past len(ac) are zero.
func (q *Quantizer) Dequantize(dc float64, ac []int64, dst []float64) {
	clear(dst[:q.blockLen])
	dst[0] = dc

	step := q.ctx.Step
	for i, v := range ac {
		dst[q.order[i]] = float64(v) * step
	}
}
