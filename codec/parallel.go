package codec

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// minBlocksPerWorker keeps tiny arrays on the calling goroutine.
const minBlocksPerWorker = 16

func (c *Codec) workers() int {
	if c.cfg.Workers > 0 {
		return c.cfg.Workers
	}

	return runtime.GOMAXPROCS(0)
}

// forEachRange splits [0, n) into contiguous ranges and runs fn on each, at
// most workers at a time.
func forEachRange(n, workers int, fn func(lo, hi int) error) error {
	workers = min(workers, n/minBlocksPerWorker)
	if workers <= 1 {
		return fn(0, n)
	}

	chunk := (n + workers - 1) / workers

	var g errgroup.Group
	g.SetLimit(workers)
	for lo := 0; lo < n; lo += chunk {
		hi := min(lo+chunk, n)
		g.Go(func() error {
			return fn(lo, hi)
		})
	}

	return g.Wait()
}
