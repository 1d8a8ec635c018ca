// Package ndarray provides the dense sample array compressed by dctz.
//
// An Array is a contiguous, row-major buffer of float32 or float64 samples with
// an explicit shape (the last dimension varies fastest). The data type is fixed
// at construction.
package ndarray

import (
	"fmt"
	"slices"

	"github.com/arloliu/dctz/endian"
	"github.com/arloliu/dctz/errs"
	"github.com/arloliu/dctz/format"
)

// MaxRank is the largest number of dimensions an Array may have.
const MaxRank = 3

// MaxElements caps the element count of a single array: a 1024³ volume, 8 GiB
// of float64 samples. Stream headers declaring more elements are rejected with
// errs.ErrAllocationFailure instead of allocating.
const MaxElements = 1 << 30

// Array is a dense float32 or float64 array.
//
// Exactly one of the underlying slices is non-nil, matching DataType.
type Array struct {
	dtype format.DataType
	shape []int
	f32   []float32
	f64   []float64
}

// FromFloat64 wraps data as a float64 array with the given shape.
//
// The array shares memory with data; the caller keeps ownership.
func FromFloat64(data []float64, shape ...int) (*Array, error) {
	n, err := CheckShape(shape)
	if err != nil {
		return nil, err
	}
	if n != len(data) {
		return nil, fmt.Errorf("%w: shape %v needs %d elements, got %d", errs.ErrInvalidShape, shape, n, len(data))
	}

	return &Array{dtype: format.Float64, shape: slices.Clone(shape), f64: data}, nil
}

// FromFloat32 wraps data as a float32 array with the given shape.
//
// The array shares memory with data; the caller keeps ownership.
func FromFloat32(data []float32, shape ...int) (*Array, error) {
	n, err := CheckShape(shape)
	if err != nil {
		return nil, err
	}
	if n != len(data) {
		return nil, fmt.Errorf("%w: shape %v needs %d elements, got %d", errs.ErrInvalidShape, shape, n, len(data))
	}

	return &Array{dtype: format.Float32, shape: slices.Clone(shape), f32: data}, nil
}

// Zeros allocates a zero-filled array.
func Zeros(dtype format.DataType, shape ...int) (*Array, error) {
	n, err := CheckShape(shape)
	if err != nil {
		return nil, err
	}

	a := &Array{dtype: dtype, shape: slices.Clone(shape)}
	switch dtype {
	case format.Float32:
		a.f32 = make([]float32, n)
	case format.Float64:
		a.f64 = make([]float64, n)
	default:
		return nil, fmt.Errorf("%w: %s", errs.ErrInvalidType, dtype)
	}

	return a, nil
}

// FromBytes decodes raw native little-endian samples, as written by scientific
// codes dumping arrays to disk.
func FromBytes(data []byte, dtype format.DataType, shape ...int) (*Array, error) {
	a, err := Zeros(dtype, shape...)
	if err != nil {
		return nil, err
	}
	if len(data) != a.ByteSize() {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", errs.ErrInvalidShape, a.ByteSize(), len(data))
	}

	engine := endian.GetLittleEndianEngine()
	switch dtype {
	case format.Float32:
		for i := range a.f32 {
			a.f32[i] = endian.Float32(engine, data[i*4:])
		}
	case format.Float64:
		for i := range a.f64 {
			a.f64[i] = endian.Float64(engine, data[i*8:])
		}
	}

	return a, nil
}

// CheckShape validates dims and returns the element count.
//
// Rank is checked against MaxRank only; rank rules of the codec are enforced by
// the block decomposer.
func CheckShape(shape []int) (int, error) {
	if len(shape) == 0 || len(shape) > MaxRank {
		return 0, fmt.Errorf("%w: rank %d", errs.ErrUnsupportedDimension, len(shape))
	}

	n := 1
	for _, d := range shape {
		if d <= 0 {
			return 0, fmt.Errorf("%w: dimension %d in %v", errs.ErrInvalidShape, d, shape)
		}
		if n > MaxElements/d {
			return 0, fmt.Errorf("%w: %v exceeds %d elements", errs.ErrAllocationFailure, shape, MaxElements)
		}
		n *= d
	}

	return n, nil
}

// DataType returns the sample type.
func (a *Array) DataType() format.DataType { return a.dtype }

// Shape returns a copy of the dimension sizes.
func (a *Array) Shape() []int { return slices.Clone(a.shape) }

// Rank returns the number of dimensions.
func (a *Array) Rank() int { return len(a.shape) }

// Len returns the number of elements.
func (a *Array) Len() int {
	if a.dtype == format.Float32 {
		return len(a.f32)
	}

	return len(a.f64)
}

// ByteSize returns the size of the samples in bytes.
func (a *Array) ByteSize() int {
	return a.Len() * a.dtype.Size()
}

// Float32s returns the backing float32 slice, or nil for a float64 array.
func (a *Array) Float32s() []float32 { return a.f32 }

// Float64s returns the backing float64 slice, or nil for a float32 array.
func (a *Array) Float64s() []float64 { return a.f64 }

// At returns element i widened to float64.
func (a *Array) At(i int) float64 {
	if a.dtype == format.Float32 {
		return float64(a.f32[i])
	}

	return a.f64[i]
}

// Values returns all elements widened to float64. For float64 arrays the
// backing slice is returned without copying.
func (a *Array) Values() []float64 {
	if a.dtype == format.Float64 {
		return a.f64
	}

	out := make([]float64, len(a.f32))
	for i, v := range a.f32 {
		out[i] = float64(v)
	}

	return out
}

// SameShape reports whether a and b have identical dimensions.
func (a *Array) SameShape(b *Array) bool {
	return slices.Equal(a.shape, b.shape)
}

// Bytes encodes the samples as native little-endian bytes.
func (a *Array) Bytes() []byte {
	engine := endian.GetLittleEndianEngine()
	out := make([]byte, 0, a.ByteSize())
	switch a.dtype {
	case format.Float32:
		for _, v := range a.f32 {
			out = endian.AppendFloat32(engine, out, v)
		}
	case format.Float64:
		for _, v := range a.f64 {
			out = endian.AppendFloat64(engine, out, v)
		}
	}

	return out
}
