package quant

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/dctz/errs"
	"github.com/arloliu/dctz/format"
)

func TestNewContext(t *testing.T) {
	t.Run("error bound mode", func(t *testing.T) {
		ctx, err := NewContext(1e-3, 0.5, format.ModeErrorBound, 3)
		require.NoError(t, err)
		require.InDelta(t, 2*1e-3*StepSafety/0.5, ctx.Step, 1e-18)
		require.Zero(t, ctx.CullThreshold, "cull threshold only applies in ratio mode")
		require.False(t, ctx.Culls())
	})

	t.Run("ratio mode", func(t *testing.T) {
		ctx, err := NewContext(1e-2, 0.5, format.ModeRatio, DefaultCullThreshold)
		require.NoError(t, err)
		require.True(t, ctx.Culls())
	})

	t.Run("zero bound uses floor step", func(t *testing.T) {
		ctx, err := NewContext(0, 0.4, format.ModeErrorBound, 0)
		require.NoError(t, err)
		require.Equal(t, MinStep, ctx.Step)
	})

	t.Run("invalid bounds", func(t *testing.T) {
		for _, e := range []float64{-1, math.NaN(), math.Inf(1)} {
			_, err := NewContext(e, 0.4, format.ModeErrorBound, 0)
			require.ErrorIs(t, err, errs.ErrInvalidErrorBound)
		}
	})

	t.Run("invalid mode", func(t *testing.T) {
		_, err := NewContext(1e-3, 0.4, format.QuantizerMode(7), 0)
		require.ErrorIs(t, err, errs.ErrInvalidConfig)
	})

	t.Run("invalid amplification", func(t *testing.T) {
		_, err := NewContext(1e-3, 0, format.ModeErrorBound, 0)
		require.Error(t, err)
	})
}

func TestContext_Validate(t *testing.T) {
	ctx := Context{ErrorBound: 1, Step: 0, Mode: format.ModeErrorBound}
	require.ErrorIs(t, ctx.Validate(), errs.ErrInvalidConfig)

	ctx.Step = 1
	ctx.CullThreshold = -1
	require.ErrorIs(t, ctx.Validate(), errs.ErrInvalidConfig)

	ctx.CullThreshold = 0
	require.NoError(t, ctx.Validate())
}

func TestScanOrder(t *testing.T) {
	for _, tc := range [][2]int{{4, 2}, {8, 2}, {4, 3}, {8, 3}} {
		extent, rank := tc[0], tc[1]
		order := ScanOrder(extent, rank)

		size := int(math.Pow(float64(extent), float64(rank)))
		require.Len(t, order, size-1)

		seen := make(map[int]bool, len(order))
		for _, pos := range order {
			require.Greater(t, pos, 0)
			require.Less(t, pos, size)
			require.False(t, seen[pos])
			seen[pos] = true
		}

		// The lowest frequencies along each axis come first.
		first := map[int]bool{}
		stride := 1
		for range rank {
			first[stride] = true
			stride *= extent
		}
		for _, pos := range order[:rank] {
			require.True(t, first[pos], "pos %d", pos)
		}

		require.Equal(t, &order[0], &ScanOrder(extent, rank)[0], "cached")
	}

	require.Equal(t, []int{1, 4, 2, 5, 8, 3, 6, 9, 12, 7, 10, 13, 11, 14, 15}, ScanOrder(4, 2))
}

func TestQuantizer_RoundTripWithinHalfStep(t *testing.T) {
	ctx, err := NewContext(1e-3, 0.4, format.ModeErrorBound, 0)
	require.NoError(t, err)
	q := New(ctx, 8, 2)
	require.Equal(t, 64, q.BlockLen())

	rng := rand.New(rand.NewPCG(11, 12))
	coeffs := make([]float64, 64)
	for i := range coeffs {
		coeffs[i] = rng.NormFloat64()
	}

	ac, ok := q.Quantize(coeffs, make([]int64, 63), false)
	require.True(t, ok)

	back := make([]float64, 64)
	q.Dequantize(coeffs[0], ac, back)

	require.Equal(t, coeffs[0], back[0], "DC is exact")
	for i := 1; i < 64; i++ {
		require.LessOrEqual(t, math.Abs(back[i]-coeffs[i]), ctx.Step/2*(1+1e-12))
	}
}

func TestQuantizer_TrimsTrailingZeros(t *testing.T) {
	ctx, err := NewContext(0.5, 1, format.ModeErrorBound, 0)
	require.NoError(t, err)
	q := New(ctx, 4, 2)

	coeffs := make([]float64, 16)
	coeffs[0] = 100
	ac, ok := q.Quantize(coeffs, make([]int64, 15), false)
	require.True(t, ok)
	require.Empty(t, ac)

	// Position 4 is the second entry of the 4x4 scan order.
	coeffs[4] = 10 * ctx.Step
	ac, ok = q.Quantize(coeffs, make([]int64, 15), false)
	require.True(t, ok)
	require.Equal(t, []int64{0, 10}, ac)

	back := make([]float64, 16)
	q.Dequantize(coeffs[0], ac, back)
	require.InDelta(t, coeffs[4], back[4], 1e-12)
}

func TestQuantizer_Culling(t *testing.T) {
	ctx, err := NewContext(0.5, 1, format.ModeRatio, 2)
	require.NoError(t, err)
	q := New(ctx, 4, 2)

	coeffs := make([]float64, 16)
	coeffs[1] = 1.25 * ctx.Step // below 2 steps: culled
	coeffs[4] = 5 * ctx.Step

	culled, ok := q.Quantize(coeffs, make([]int64, 15), true)
	require.True(t, ok)
	require.Equal(t, []int64{0, 5}, culled)

	kept, ok := q.Quantize(coeffs, make([]int64, 15), false)
	require.True(t, ok)
	require.Equal(t, []int64{1, 5}, kept)
}

func TestQuantizer_Unquantizable(t *testing.T) {
	ctx, err := NewContext(0, 1, format.ModeErrorBound, 0)
	require.NoError(t, err)
	q := New(ctx, 4, 2)

	coeffs := make([]float64, 16)
	coeffs[3] = 1e-6
	_, ok := q.Quantize(coeffs, make([]int64, 15), false)
	require.False(t, ok, "tiny step overflows the quantized range")

	ctx, err = NewContext(1, 1, format.ModeErrorBound, 0)
	require.NoError(t, err)
	q = New(ctx, 4, 2)
	coeffs[3] = math.NaN()
	_, ok = q.Quantize(coeffs, make([]int64, 15), false)
	require.False(t, ok)
}
