package cpu

import (
	"math"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAtomicMinFloat32_Pairs(t *testing.T) {
	inf := float32(math.Inf(1))
	negZero := float32(math.Copysign(0, -1))
	nan := float32(math.NaN())

	tests := []struct {
		name   string
		stored float32
		value  float32
		want   float32
	}{
		{"inf vs positive", inf, 3, 3},
		{"inf vs negative", inf, -3, -3},
		{"positive keeps smaller", 1, 2, 1},
		{"positive replaced", 2, 1, 1},
		{"negative beats positive", 2, -1, -1},
		{"positive loses to negative", -1, 2, -1},
		{"more negative wins", -1, -5, -5},
		{"less negative loses", -5, -1, -5},
		{"negative infinity wins", -5, float32(math.Inf(-1)), float32(math.Inf(-1))},
		{"subnormal", 1e-38, 1e-45, 1e-45},
		{"zero vs negative zero", 0, negZero, negZero},
		{"negative zero vs negative", negZero, -1, -1},
		{"nan ignored", 4, nan, 4},
		{"negative nan ignored", 4, -nan, 4},
		{"equal", 7, 7, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slot := tt.stored
			prev := atomicMinFloat32(&slot, tt.value)
			assert.Equal(t, math.Float32bits(tt.stored), math.Float32bits(prev), "previous value")
			assert.Equal(t, math.Float32bits(tt.want), math.Float32bits(slot), "got %v want %v", slot, tt.want)
		})
	}
}

func TestAtomicMinFloat64_Pairs(t *testing.T) {
	tests := []struct {
		stored, value, want float64
	}{
		{math.Inf(1), 3, 3},
		{2, -1, -1},
		{-1, 2, -1},
		{-1, -5, -5},
		{-5, -1, -5},
		{1, 2, 1},
		{4, math.NaN(), 4},
	}

	for _, tt := range tests {
		slot := tt.stored
		prev := atomicMinFloat64(&slot, tt.value)
		assert.Equal(t, tt.stored, prev)
		assert.Equal(t, tt.want, slot, "min(%v, %v)", tt.stored, tt.value)
	}
}

func TestAtomicMin_Concurrent(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	values := make([]float32, 4096)
	want := float32(math.Inf(1))
	for i := range values {
		values[i] = rng.Float32()*200 - 100
		want = min(want, values[i])
	}

	slot := float32(math.Inf(1))
	var wg sync.WaitGroup
	for w := 0; w < 16; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := w; i < len(values); i += 16 {
				atomicMin(&slot, values[i])
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, want, slot)
}

func TestAtomicMin_Generic64(t *testing.T) {
	slot := math.Inf(1)
	atomicMin(&slot, -2.5)
	atomicMin(&slot, 3.0)
	assert.Equal(t, -2.5, slot)
}

func TestFmin(t *testing.T) {
	nan := float32(math.NaN())
	assert.Equal(t, float32(1), fmin(float32(1), float32(2)))
	assert.Equal(t, float32(1), fmin(float32(2), float32(1)))
	assert.Equal(t, float32(3), fmin(nan, float32(3)))
	assert.Equal(t, float32(3), fmin(float32(3), nan))
	assert.True(t, math.IsNaN(float64(fmin(nan, nan))))

	negZero := float32(math.Copysign(0, -1))
	assert.True(t, math.Signbit(float64(fmin(float32(0), negZero))))
	assert.True(t, math.Signbit(float64(fmin(negZero, float32(0)))))
	assert.True(t, math.Signbit(fmin(0, math.Copysign(0, -1))))
}
