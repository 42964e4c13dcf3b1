package cpu

import (
	"github.com/born-ml/minreduce/internal/parallel"
	"github.com/born-ml/minreduce/internal/tensor"
)

// chunkMin reduces the values loaded by one execution group to per-chunk
// minima and merges each into output[chunk] with atomicMin.
//
// Chunks are runs of chunkLen consecutive global indices. A chunk may lie
// entirely inside the group, in which case it is reduced completely in scratch
// and merged once, or straddle the group boundary, in which case each group
// reduces its part and the atomic merge combines them.
//
// Every thread of the group must call chunkMin, including threads whose
// global index is past numel (valid == false): they contribute +Inf, take no
// part in the comparisons and never write output, but still reach every
// barrier so that a partial tail group cannot deadlock.
func chunkMin[T tensor.Float](th parallel.Thread, scratch []T, numel, chunkLen int, value T, valid bool, output []T) {
	local := th.Local
	global := th.Global()
	base := th.GroupBase()

	if !valid {
		value = tensor.Inf[T]()
	}
	scratch[local] = value

	// Chunk bounds in scratch, clipped to the group and to numel.
	chunk := global / chunkLen
	start := max(local-global%chunkLen, 0)
	end := min((chunk+1)*chunkLen-base, th.GroupSize, numel-base)

	th.Sync()

	// The step sequence is the same for every thread of the group: a chunk
	// never spans more than min(chunkLen, GroupSize) scratch slots, and steps
	// larger than a chunk are no-ops for it.
	for step := nextPowerOfTwo(min(chunkLen, th.GroupSize)) / 2; step > 0; step /= 2 {
		if valid && local-start < step && local+step < end {
			scratch[local] = fmin(scratch[local], scratch[local+step])
		}
		th.Sync()
	}

	if valid && local == start {
		atomicMin(&output[chunk], scratch[local])
	}
}

// nextPowerOfTwo returns the smallest power of two >= n (1 for n <= 1).
func nextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
