package ndarray

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/dctz/errs"
	"github.com/arloliu/dctz/format"
)

func TestFromFloat64(t *testing.T) {
	data := []float64{1, 2, 3, 4, 5, 6}
	a, err := FromFloat64(data, 2, 3)
	require.NoError(t, err)

	require.Equal(t, format.Float64, a.DataType())
	require.Equal(t, []int{2, 3}, a.Shape())
	require.Equal(t, 2, a.Rank())
	require.Equal(t, 6, a.Len())
	require.Equal(t, 48, a.ByteSize())
	require.Equal(t, 5.0, a.At(4))
	require.Nil(t, a.Float32s())

	// Shape returns a copy.
	shape := a.Shape()
	shape[0] = 99
	require.Equal(t, []int{2, 3}, a.Shape())
}

func TestFromFloat32(t *testing.T) {
	a, err := FromFloat32([]float32{0.5, 1.5, 2.5, 3.5}, 2, 2)
	require.NoError(t, err)
	require.Equal(t, format.Float32, a.DataType())
	require.Equal(t, 16, a.ByteSize())
	require.Equal(t, []float64{0.5, 1.5, 2.5, 3.5}, a.Values())
}

func TestShapeValidation(t *testing.T) {
	t.Run("length mismatch", func(t *testing.T) {
		_, err := FromFloat64(make([]float64, 5), 2, 3)
		require.ErrorIs(t, err, errs.ErrInvalidShape)
	})

	t.Run("zero dimension", func(t *testing.T) {
		_, err := Zeros(format.Float64, 4, 0)
		require.ErrorIs(t, err, errs.ErrInvalidShape)
	})

	t.Run("rank four", func(t *testing.T) {
		_, err := Zeros(format.Float64, 2, 2, 2, 2)
		require.ErrorIs(t, err, errs.ErrUnsupportedDimension)
	})

	t.Run("too many elements", func(t *testing.T) {
		_, err := CheckShape([]int{1 << 20, 1 << 20, 1 << 20})
		require.ErrorIs(t, err, errs.ErrAllocationFailure)

		n, err := CheckShape([]int{1024, 1024, 1024})
		require.NoError(t, err)
		require.Equal(t, MaxElements, n)

		_, err = CheckShape([]int{1024, 1024, 1025})
		require.ErrorIs(t, err, errs.ErrAllocationFailure)

		_, err = CheckShape([]int{65536, 65536})
		require.ErrorIs(t, err, errs.ErrAllocationFailure)
	})

	t.Run("invalid type", func(t *testing.T) {
		_, err := Zeros(format.DataType(9), 4, 4)
		require.ErrorIs(t, err, errs.ErrInvalidType)
	})
}

func TestBytesRoundTrip(t *testing.T) {
	for _, dtype := range []format.DataType{format.Float32, format.Float64} {
		t.Run(dtype.String(), func(t *testing.T) {
			a, err := Zeros(dtype, 3, 4)
			require.NoError(t, err)
			for i := range a.Len() {
				if dtype == format.Float32 {
					a.Float32s()[i] = float32(i) * 0.25
				} else {
					a.Float64s()[i] = float64(i) * -1.125
				}
			}

			raw := a.Bytes()
			require.Len(t, raw, a.ByteSize())

			b, err := FromBytes(raw, dtype, 3, 4)
			require.NoError(t, err)
			require.True(t, a.SameShape(b))
			require.Equal(t, a.Values(), b.Values())

			_, err = FromBytes(raw[:len(raw)-1], dtype, 3, 4)
			require.ErrorIs(t, err, errs.ErrInvalidShape)
		})
	}
}
