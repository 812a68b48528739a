package compute

import (
	"runtime"
	"sync"
)

// minBand keeps tiny grids on the calling goroutine.
const minBand = 8

type CPUBackend struct {
	workers int
}

func NewCPUBackend(workers int) *CPUBackend {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &CPUBackend{workers: workers}
}

func (c *CPUBackend) Name() string { return "cpu" }
func (c *CPUBackend) Workers() int { return c.workers }
func (c *CPUBackend) Cleanup()     {}

func (c *CPUBackend) Range(n int, fn func(lo, hi int)) {
	if n <= 0 {
		return
	}
	if c.workers <= 1 || n < minBand*2 {
		fn(0, n)
		return
	}

	workers := c.workers
	if workers > n/minBand {
		workers = n / minBand
	}
	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}
		if start >= end {
			break
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			fn(lo, hi)
		}(start, end)
	}
	wg.Wait()
}
