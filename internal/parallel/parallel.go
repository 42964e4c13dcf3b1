// Package parallel provides the execution model for minreduce kernels: flat
// data-parallel loops and grids of cooperating execution groups.
package parallel

import (
	"runtime"
	"sync"
)

// DefaultGroupSize is the number of cooperating threads per execution group.
// It matches the WGSL workgroup size used by the WebGPU backend.
const DefaultGroupSize = 256

// Config controls parallel execution behavior.
type Config struct {
	Enabled      bool // Whether parallel execution is enabled.
	NumWorkers   int  // Number of worker goroutines (or concurrent groups) to use.
	MinChunkSize int  // Minimum items per goroutine to avoid overhead.
	GroupSize    int  // Threads per execution group for cooperative kernels.
}

// DefaultConfig returns sensible defaults based on CPU count.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinChunkSize: 64, // Typical cache line aware chunk.
		GroupSize:    DefaultGroupSize,
	}
}

// workers returns how many units of work may run at once.
func (cfg Config) workers() int {
	if !cfg.Enabled || cfg.NumWorkers < 1 {
		return 1
	}
	return cfg.NumWorkers
}

// GroupWidth returns the configured group size, or DefaultGroupSize when unset.
func (cfg Config) GroupWidth() int {
	if cfg.GroupSize < 1 {
		return DefaultGroupSize
	}
	return cfg.GroupSize
}

// For executes f(i) for i in [0, n) with optional parallelism.
// Falls back to sequential execution if parallelism is disabled or n is too small.
func For(n int, f func(i int), cfg Config) {
	if !cfg.Enabled || n < cfg.MinChunkSize || cfg.NumWorkers < 2 {
		// Sequential fallback.
		for i := 0; i < n; i++ {
			f(i)
		}
		return
	}

	var wg sync.WaitGroup
	chunkSize := max((n+cfg.NumWorkers-1)/cfg.NumWorkers, cfg.MinChunkSize)

	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			for i := s; i < e; i++ {
				f(i)
			}
		}(start, end)
	}
	wg.Wait()
}
