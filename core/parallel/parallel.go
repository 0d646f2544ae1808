// Package parallel splits index ranges across goroutines.
//
// Numerical kernels in scinum are cheap per element, so work is only fanned
// out when the range is large enough to amortize goroutine start-up.
package parallel

import (
	"runtime"
	"sync"
)

// DefaultThreshold is the smallest range ParallelizeWithThreshold splits
// when callers have no better estimate.
const DefaultThreshold = 2048

// Parallelize divides items into contiguous [start, end) chunks, one per CPU
// core, and runs fn on each chunk concurrently. It returns once every chunk
// has finished. fn must only write to indices inside its own chunk.
func Parallelize(items int, fn func(start, end int)) {
	if items <= 0 {
		return
	}

	numWorkers := runtime.NumCPU()
	if numWorkers > items {
		numWorkers = items
	}

	// ceiling division so the last worker picks up the remainder
	chunkSize := (items + numWorkers - 1) / numWorkers

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		start := i * chunkSize
		end := start + chunkSize
		if end > items {
			end = items
		}
		if start >= end {
			continue
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}

// ParallelizeWithThreshold runs fn(0, items) on the calling goroutine when
// items <= threshold and delegates to Parallelize otherwise.
func ParallelizeWithThreshold(items int, threshold int, fn func(start, end int)) {
	if items <= 0 {
		return
	}
	if items <= threshold {
		fn(0, items)
		return
	}
	Parallelize(items, fn)
}

// Map evaluates fn at every index of a fresh slice of length n. Evaluation is
// split across goroutines above threshold; results land at their own index,
// so output order never depends on scheduling.
func Map(n, threshold int, fn func(i int) float64) []float64 {
	out := make([]float64, n)
	ParallelizeWithThreshold(n, threshold, func(start, end int) {
		for i := start; i < end; i++ {
			out[i] = fn(i)
		}
	})
	return out
}
