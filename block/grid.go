// Package block partitions 2-D and 3-D arrays into fixed-size hypercubic blocks.
//
// Blocks are visited in row-major order of their block coordinates. A block
// that overhangs the array boundary is padded by edge replication when it is
// gathered (every out-of-range coordinate clamps to the last valid index), and
// only its in-range part is written back on scatter. Compression and
// decompression therefore agree on the layout without any per-block size field.
package block

import (
	"fmt"
	"iter"
	"slices"

	"github.com/arloliu/dctz/errs"
)

// DefaultExtent is the default per-dimension block length.
const DefaultExtent = 8

// MaxRank is the highest supported array rank.
const MaxRank = 3

// ValidExtent reports whether extent is an accepted block length.
func ValidExtent(extent int) bool {
	switch extent {
	case 4, 8, 16, 32:
		return true
	default:
		return false
	}
}

// Block addresses one tile of a Grid. It owns no samples.
type Block struct {
	// Index is the position of the block in scan order.
	Index int
	// Origin is the array coordinate of the block's first sample.
	Origin [MaxRank]int
	// Valid is the number of in-range samples along each dimension.
	Valid [MaxRank]int
}

// Grid is the block decomposition of an array shape.
type Grid struct {
	shape     []int
	strides   []int
	counts    []int
	extent    int
	numBlocks int
	blockLen  int
}

// NewGrid decomposes shape into blocks of extent samples per dimension.
//
// Returns errs.ErrUnsupportedDimension for rank other than 2 or 3,
// errs.ErrInvalidShape for non-positive dimensions and errs.ErrInvalidBlockSize
// for an extent that is not 4, 8, 16 or 32.
func NewGrid(shape []int, extent int) (*Grid, error) {
	if len(shape) < 2 || len(shape) > MaxRank {
		return nil, fmt.Errorf("%w: rank %d, need 2 or 3", errs.ErrUnsupportedDimension, len(shape))
	}
	if !ValidExtent(extent) {
		return nil, fmt.Errorf("%w: %d", errs.ErrInvalidBlockSize, extent)
	}

	g := &Grid{
		shape:     slices.Clone(shape),
		strides:   make([]int, len(shape)),
		counts:    make([]int, len(shape)),
		extent:    extent,
		numBlocks: 1,
		blockLen:  1,
	}

	stride := 1
	for d := len(shape) - 1; d >= 0; d-- {
		if shape[d] <= 0 {
			return nil, fmt.Errorf("%w: dimension %d in %v", errs.ErrInvalidShape, shape[d], shape)
		}
		g.strides[d] = stride
		stride *= shape[d]
		g.counts[d] = (shape[d] + extent - 1) / extent
		g.numBlocks *= g.counts[d]
		g.blockLen *= extent
	}

	return g, nil
}

// Rank returns the number of dimensions.
func (g *Grid) Rank() int { return len(g.shape) }

// Extent returns the per-dimension block length.
func (g *Grid) Extent() int { return g.extent }

// Shape returns a copy of the array shape.
func (g *Grid) Shape() []int { return slices.Clone(g.shape) }

// Counts returns a copy of the number of blocks along each dimension.
func (g *Grid) Counts() []int { return slices.Clone(g.counts) }

// NumBlocks returns the total number of blocks.
func (g *Grid) NumBlocks() int { return g.numBlocks }

// BlockLen returns the number of samples in a padded block, extent^rank.
func (g *Grid) BlockLen() int { return g.blockLen }

// Block returns the block at scan position i.
func (g *Grid) Block(i int) Block {
	if i < 0 || i >= g.numBlocks {
		panic(fmt.Sprintf("block: index %d out of range [0,%d)", i, g.numBlocks))
	}

	b := Block{Index: i}
	rem := i
	for d := len(g.shape) - 1; d >= 0; d-- {
		c := rem % g.counts[d]
		rem /= g.counts[d]
		b.Origin[d] = c * g.extent
		b.Valid[d] = min(g.extent, g.shape[d]-b.Origin[d])
	}

	return b
}

// Blocks returns a lazy iterator over all blocks in scan order.
func (g *Grid) Blocks() iter.Seq[Block] {
	return func(yield func(Block) bool) {
		for i := range g.numBlocks {
			if !yield(g.Block(i)) {
				return
			}
		}
	}
}

// ValidLen returns the number of in-range samples of b.
func (g *Grid) ValidLen(b Block) int {
	n := 1
	for d := range g.shape {
		n *= b.Valid[d]
	}

	return n
}

// IsFull reports whether b lies entirely inside the array.
func (g *Grid) IsFull(b Block) bool {
	for d := range g.shape {
		if b.Valid[d] != g.extent {
			return false
		}
	}

	return true
}

// Padded calls fn for every sample of the padded block with its block-local
// flat index and the clamped array index it replicates.
func (g *Grid) Padded(b Block, fn func(local, global int)) {
	n := g.extent
	switch len(g.shape) {
	case 2:
		for i := range n {
			row := (b.Origin[0] + min(i, b.Valid[0]-1)) * g.strides[0]
			for j := range n {
				fn(i*n+j, row+b.Origin[1]+min(j, b.Valid[1]-1))
			}
		}
	case 3:
		for i := range n {
			plane := (b.Origin[0] + min(i, b.Valid[0]-1)) * g.strides[0]
			for j := range n {
				row := plane + (b.Origin[1]+min(j, b.Valid[1]-1))*g.strides[1]
				for k := range n {
					fn((i*n+j)*n+k, row+b.Origin[2]+min(k, b.Valid[2]-1))
				}
			}
		}
	}
}

// InRange calls fn for every in-range sample of b, in row-major order, with its
// block-local flat index and its array index.
func (g *Grid) InRange(b Block, fn func(local, global int)) {
	n := g.extent
	switch len(g.shape) {
	case 2:
		for i := range b.Valid[0] {
			row := (b.Origin[0] + i) * g.strides[0]
			for j := range b.Valid[1] {
				fn(i*n+j, row+b.Origin[1]+j)
			}
		}
	case 3:
		for i := range b.Valid[0] {
			plane := (b.Origin[0] + i) * g.strides[0]
			for j := range b.Valid[1] {
				row := plane + (b.Origin[1]+j)*g.strides[1]
				for k := range b.Valid[2] {
					fn((i*n+j)*n+k, row+b.Origin[2]+k)
				}
			}
		}
	}
}
