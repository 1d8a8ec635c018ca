package transform

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
)

func randomSlice(rng *rand.Rand, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = rng.NormFloat64() * 100
	}

	return out
}

func maxRelErr(want, got []float64) float64 {
	scale := 0.0
	for _, v := range want {
		scale = max(scale, math.Abs(v))
	}
	if scale == 0 {
		scale = 1
	}

	worst := 0.0
	for i := range want {
		worst = max(worst, math.Abs(want[i]-got[i])/scale)
	}

	return worst
}

func TestEngine_MatchesDefinition(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))

	for _, n := range []int{1, 2, 5, 8, 16} {
		e := NewEngine(n)
		x := randomSlice(rng, n)

		got := make([]float64, n)
		e.Forward(got, x)

		for k := range n {
			want := 0.0
			for j := range n {
				want += 2 * x[j] * math.Cos(math.Pi*float64(k)*float64(2*j+1)/float64(2*n))
			}
			require.InDelta(t, want, got[k], 1e-9*math.Max(1, math.Abs(want)), "n=%d k=%d", n, k)
		}
	}
}

func TestEngine_InverseOfForward(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))

	for _, n := range []int{4, 8, 16, 32} {
		e := NewEngine(n)
		x := randomSlice(rng, n)
		coeffs := make([]float64, n)
		back := make([]float64, n)

		e.Forward(coeffs, x)
		e.Inverse(back, coeffs)
		for i := range back {
			back[i] /= e.Normalization()
		}

		require.Less(t, maxRelErr(x, back), 1e-12, "n=%d", n)
	}
}

func TestEngine_ConstantInputIsDCOnly(t *testing.T) {
	e := NewEngine(8)
	x := []float64{1, 1, 1, 1, 1, 1, 1, 1}
	coeffs := make([]float64, 8)
	e.Forward(coeffs, x)

	require.Equal(t, 16.0, coeffs[0])
	for k := 1; k < 8; k++ {
		require.InDelta(t, 0, coeffs[k], 1e-12)
	}
}

func TestEngine_LengthMismatchPanics(t *testing.T) {
	e := NewEngine(8)
	require.Panics(t, func() {
		e.Forward(make([]float64, 8), make([]float64, 7))
	})
	require.Panics(t, func() {
		NewEngine(0)
	})
}

func TestBlockTransform_InverseOfForward(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 6))

	tests := []struct {
		extent int
		rank   int
	}{
		{4, 2}, {8, 2}, {16, 2}, {32, 2},
		{4, 3}, {8, 3}, {16, 3},
	}

	for _, tt := range tests {
		bt := NewBlockTransform(tt.extent, tt.rank)
		x := randomSlice(rng, bt.Size())
		buf := make([]float64, bt.Size())

		bt.Forward(buf, x)
		bt.Inverse(buf, buf)

		scale := 1 / bt.Normalization()
		for i := range buf {
			buf[i] *= scale
		}

		require.Less(t, maxRelErr(x, buf), 1e-9, "extent=%d rank=%d", tt.extent, tt.rank)
	}
}

func TestBlockTransform_ConstantBlockIsExact(t *testing.T) {
	bt := NewBlockTransform(8, 2)
	x := make([]float64, bt.Size())
	for i := range x {
		x[i] = 1
	}

	coeffs := make([]float64, bt.Size())
	bt.Forward(coeffs, x)
	require.Equal(t, 256.0, coeffs[0])

	dcOnly := make([]float64, bt.Size())
	dcOnly[0] = coeffs[0]
	bt.Inverse(dcOnly, dcOnly)
	for _, v := range dcOnly {
		require.Equal(t, 1.0, v/bt.Normalization())
	}
}

func TestBlockTransform_AmplificationIsTight(t *testing.T) {
	for _, rank := range []int{2, 3} {
		bt := NewBlockTransform(8, rank)
		amp := bt.Amplification()
		require.Greater(t, amp, 0.0)

		// Sign pattern that aligns every AC error with the basis at sample 0,
		// the position where the inverse row norm peaks.
		const half = 0.5
		corner := make([]float64, bt.Size())
		for k := 1; k < bt.Size(); k++ {
			unit := make([]float64, bt.Size())
			unit[k] = 1
			bt.Inverse(unit, unit)
			corner[k] = math.Copysign(half, unit[0])
		}
		bt.Inverse(corner, corner)
		worst := math.Abs(corner[0]) / bt.Normalization()

		require.InDelta(t, amp*half, worst, 1e-9, "rank=%d", rank)

		// Random errors never exceed the bound.
		rng := rand.New(rand.NewPCG(7, uint64(rank)))
		for range 50 {
			errs := make([]float64, bt.Size())
			for k := 1; k < len(errs); k++ {
				errs[k] = (rng.Float64()*2 - 1) * half
			}
			bt.Inverse(errs, errs)
			for _, v := range errs {
				require.LessOrEqual(t, math.Abs(v)/bt.Normalization(), amp*half+1e-12)
			}
		}
	}
}

func TestRoundtrip(t *testing.T) {
	rng := rand.New(rand.NewPCG(9, 10))

	for _, n := range []int{1, 7, 64, 512, 1000, 4096} {
		x := randomSlice(rng, n)
		got := Roundtrip(x)
		require.Len(t, got, n)
		require.Less(t, maxRelErr(x, got), 1e-9, "n=%d", n)
	}

	require.Empty(t, Roundtrip(nil))
}

func TestRoundtripFloat32(t *testing.T) {
	x := []float32{1.5, -2.25, 3.125, 0, 1e-3, 7}
	got := RoundtripFloat32(x)
	for i := range x {
		require.InDelta(t, x[i], got[i], 1e-5)
	}

	// Double precision intermediates: non-zero float32 samples come back unchanged.
	y := []float32{1.5, -2.25, 3.125, 1e-3, 7, 0.1}
	wide := make([]float64, len(y))
	for i, v := range y {
		wide[i] = float64(v)
	}
	ref := Roundtrip(wide)
	got = RoundtripFloat32(y)
	for i := range y {
		require.Equal(t, float32(ref[i]), got[i])
		require.Equal(t, y[i], got[i])
	}
}

func BenchmarkBlockTransform_8x8(b *testing.B) {
	bt := NewBlockTransform(8, 2)
	rng := rand.New(rand.NewPCG(1, 1))
	x := randomSlice(rng, bt.Size())
	buf := make([]float64, bt.Size())

	b.ReportAllocs()
	for b.Loop() {
		bt.Forward(buf, x)
		bt.Inverse(buf, buf)
	}
}
