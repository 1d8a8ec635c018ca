package quant

import (
	"slices"
	"sync"
)

var scanOrders sync.Map // map[[2]int][]int

// ScanOrder returns the AC coefficient positions of an extent^rank block in
// generalized zig-zag order: ascending by the sum of frequency indices, ties
// broken by flat row-major position. Position 0 (DC) is excluded.
//
// The returned slice is shared and must not be modified.
func ScanOrder(extent, rank int) []int {
	key := [2]int{extent, rank}
	if v, ok := scanOrders.Load(key); ok {
		return v.([]int) //nolint: forcetypeassert
	}

	size := 1
	for range rank {
		size *= extent
	}

	order := make([]int, 0, size-1)
	for pos := 1; pos < size; pos++ {
		order = append(order, pos)
	}

	freqSum := func(pos int) int {
		s := 0
		for range rank {
			s += pos % extent
			pos /= extent
		}

		return s
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return freqSum(a) - freqSum(b)
	})

	v, _ := scanOrders.LoadOrStore(key, order)

	return v.([]int) //nolint: forcetypeassert
}
