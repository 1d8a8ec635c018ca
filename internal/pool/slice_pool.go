package pool

import "sync"

// Scratch slices for per-worker block buffers.
var (
	int64SlicePool = sync.Pool{
		New: func() any { return &[]int64{} },
	}
	float64SlicePool = sync.Pool{
		New: func() any { return &[]float64{} },
	}
)

// GetInt64Slice retrieves an int64 slice of exactly size elements.
//
// The contents are unspecified. The caller must call the returned cleanup
// function to return the slice to the pool.
//
//	ac, cleanup := pool.GetInt64Slice(63)
//	defer cleanup()
func GetInt64Slice(size int) ([]int64, func()) {
	return getSlice[int64](&int64SlicePool, size)
}

// GetFloat64Slice retrieves a float64 slice of exactly size elements.
//
// The contents are unspecified. The caller must call the returned cleanup
// function to return the slice to the pool.
func GetFloat64Slice(size int) ([]float64, func()) {
	return getSlice[float64](&float64SlicePool, size)
}

func getSlice[T any](p *sync.Pool, size int) ([]T, func()) {
	ptr, _ := p.Get().(*[]T)

	slice := *ptr
	if cap(slice) < size {
		slice = make([]T, size)
	} else {
		slice = slice[:size]
	}
	*ptr = slice

	return slice, func() { p.Put(ptr) }
}
