package block

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/dctz/errs"
)

func TestNewGrid_Validation(t *testing.T) {
	tests := []struct {
		name   string
		shape  []int
		extent int
		err    error
	}{
		{name: "rank 0", shape: nil, extent: 8, err: errs.ErrUnsupportedDimension},
		{name: "rank 1", shape: []int{64}, extent: 8, err: errs.ErrUnsupportedDimension},
		{name: "rank 4", shape: []int{2, 2, 2, 2}, extent: 8, err: errs.ErrUnsupportedDimension},
		{name: "bad extent", shape: []int{8, 8}, extent: 6, err: errs.ErrInvalidBlockSize},
		{name: "zero dim", shape: []int{8, 0}, extent: 8, err: errs.ErrInvalidShape},
		{name: "2d ok", shape: []int{8, 8}, extent: 8},
		{name: "3d ok", shape: []int{3, 5, 7}, extent: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := NewGrid(tt.shape, tt.extent)
			if tt.err != nil {
				require.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, g)
		})
	}
}

func TestGrid_Counts(t *testing.T) {
	g, err := NewGrid([]int{20, 17}, 8)
	require.NoError(t, err)

	require.Equal(t, 2, g.Rank())
	require.Equal(t, []int{3, 3}, g.Counts())
	require.Equal(t, 9, g.NumBlocks())
	require.Equal(t, 64, g.BlockLen())

	last := g.Block(8)
	require.Equal(t, [MaxRank]int{16, 16, 0}, last.Origin)
	require.Equal(t, [MaxRank]int{4, 1, 0}, last.Valid)
	require.Equal(t, 4, g.ValidLen(last))
	require.False(t, g.IsFull(last))
	require.True(t, g.IsFull(g.Block(0)))
}

func TestGrid_BlocksCoverArrayOnce(t *testing.T) {
	shapes := [][]int{{20, 17}, {16, 16}, {9, 10, 11}, {1, 1}, {33, 2, 5}}

	for _, shape := range shapes {
		g, err := NewGrid(shape, 4)
		require.NoError(t, err)

		total := 1
		for _, d := range shape {
			total *= d
		}
		seen := make([]int, total)

		idx := 0
		for b := range g.Blocks() {
			require.Equal(t, idx, b.Index, "scan order")
			idx++
			g.InRange(b, func(_, global int) {
				seen[global]++
			})
		}
		require.Equal(t, g.NumBlocks(), idx)

		for i, c := range seen {
			require.Equal(t, 1, c, "shape %v element %d", shape, i)
		}
	}
}

func TestGrid_BlocksEarlyStop(t *testing.T) {
	g, err := NewGrid([]int{64, 64}, 8)
	require.NoError(t, err)

	count := 0
	for range g.Blocks() {
		count++
		if count == 3 {
			break
		}
	}
	require.Equal(t, 3, count)
}

func TestGrid_BlockOutOfRangePanics(t *testing.T) {
	g, err := NewGrid([]int{8, 8}, 8)
	require.NoError(t, err)
	require.Panics(t, func() { g.Block(1) })
}

func TestGatherScatter_EdgeReplication(t *testing.T) {
	// 5x6 array, 4x4 blocks: block 3 covers rows 4..4, cols 4..5.
	src := make([]float64, 30)
	for i := range src {
		src[i] = float64(i)
	}

	g, err := NewGrid([]int{5, 6}, 4)
	require.NoError(t, err)

	b := g.Block(3)
	require.Equal(t, [MaxRank]int{4, 4, 0}, b.Origin)
	require.Equal(t, [MaxRank]int{1, 2, 0}, b.Valid)

	buf := make([]float64, g.BlockLen())
	Gather(g, b, src, buf)

	// Every padded row replicates row 4; columns beyond 5 replicate column 5.
	for i := range 4 {
		require.Equal(t, []float64{28, 29, 29, 29}, buf[i*4:i*4+4])
	}

	dst := make([]float32, 30)
	Scatter(g, b, buf, dst)
	for i, v := range dst {
		if i == 28 || i == 29 {
			require.Equal(t, float32(i), v)
		} else {
			require.Zero(t, v)
		}
	}
}

func TestGatherScatter_RoundTrip3D(t *testing.T) {
	shape := []int{5, 9, 6}
	src := make([]float32, 5*9*6)
	for i := range src {
		src[i] = float32(i) * 0.5
	}

	g, err := NewGrid(shape, 4)
	require.NoError(t, err)

	full := make([]float32, len(src))
	compact := make([]float32, len(src))
	buf := make([]float64, g.BlockLen())
	for b := range g.Blocks() {
		Gather(g, b, src, buf)
		Scatter(g, b, buf, full)

		valid := GatherValid(g, b, src, nil)
		require.Len(t, valid, g.ValidLen(b))
		ScatterValid(g, b, valid, compact)
	}

	require.Equal(t, src, full)
	require.Equal(t, src, compact)
}
