package parallel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Each index owns one slot, the way the backward kernel owns one gradient
// position, so no synchronization is needed beyond For returning.
func TestFor_DisjointSlots(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		n    int
	}{
		{"parallel", Config{Enabled: true, NumWorkers: 4, MinChunkSize: 8}, 513},
		{"uneven chunks", Config{Enabled: true, NumWorkers: 3, MinChunkSize: 1}, 10},
		{"disabled", Config{Enabled: false, NumWorkers: 4}, 100},
		{"single worker", Config{Enabled: true, NumWorkers: 1}, 100},
		{"below min chunk", Config{Enabled: true, NumWorkers: 4, MinChunkSize: 64}, 63},
		{"empty", DefaultConfig(), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grad := make([]float32, tt.n)
			for i := range grad {
				grad[i] = 1
			}
			For(tt.n, func(i int) {
				grad[i] += float32(i) * 0.5
			}, tt.cfg)
			for i, g := range grad {
				assert.Equal(t, 1+float32(i)*0.5, g, "slot %d", i)
			}
		})
	}
}

func BenchmarkFor_Accumulate(b *testing.B) {
	grad := make([]float32, 1<<16)
	for _, enabled := range []bool{true, false} {
		cfg := DefaultConfig()
		cfg.Enabled = enabled
		name := "sequential"
		if enabled {
			name = "parallel"
		}
		b.Run(name, func(b *testing.B) {
			for range b.N {
				For(len(grad), func(i int) {
					grad[i] += 0.25
				}, cfg)
			}
		})
	}
}
