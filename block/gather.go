package block

// Float is the set of sample types a Grid can gather from and scatter into.
type Float interface {
	~float32 | ~float64
}

// Gather copies block b of src into dst, padding by edge replication.
// dst must hold g.BlockLen() samples.
func Gather[T Float](g *Grid, b Block, src []T, dst []float64) {
	g.Padded(b, func(local, global int) {
		dst[local] = float64(src[global])
	})
}

// Scatter writes the in-range samples of block b from src into dst, converting
// to the destination type. Padding samples in src are discarded.
func Scatter[T Float](g *Grid, b Block, src []float64, dst []T) {
	g.InRange(b, func(local, global int) {
		dst[global] = T(src[local])
	})
}

// GatherValid appends the in-range samples of b, in row-major order, to dst.
func GatherValid[T Float](g *Grid, b Block, src []T, dst []float64) []float64 {
	g.InRange(b, func(_, global int) {
		dst = append(dst, float64(src[global]))
	})

	return dst
}

// ScatterValid writes compact in-range samples, as produced by GatherValid,
// back into dst. src must hold exactly g.ValidLen(b) samples.
func ScatterValid[T Float](g *Grid, b Block, src []float64, dst []T) {
	i := 0
	g.InRange(b, func(_, global int) {
		dst[global] = T(src[i])
		i++
	})
}
