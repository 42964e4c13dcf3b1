//go:build windows

package webgpu

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/minreduce/internal/backend/cpu"
	"github.com/born-ml/minreduce/internal/tensor"
)

func newTestBackend(t *testing.T) *Backend {
	t.Helper()
	if !IsAvailable() {
		t.Skip("WebGPU not available on this system")
	}
	backend, err := New()
	if err != nil {
		t.Skipf("WebGPU not available: %v", err)
	}
	t.Cleanup(backend.Release)
	return backend
}

func TestNew(t *testing.T) {
	backend := newTestBackend(t)
	assert.Equal(t, "WebGPU", backend.Name())
	assert.Equal(t, tensor.WebGPU, backend.Device())
}

func forwardArgs(t *testing.T, data []float32, layout tensor.Layout, axes ...int) (tensor.MinForwardArgs[float32], tensor.Reduction) {
	t.Helper()
	plan, err := tensor.PlanReduction(layout, axes...)
	require.NoError(t, err)
	out := make([]float32, plan.NumOut())
	for i := range out {
		out[i] = float32(math.Inf(1))
	}
	return tensor.MinForwardArgs[float32]{
		Numel:    plan.Numel,
		ChunkLen: plan.ChunkLen,
		Input:    data,
		Layout:   plan.Forward,
		Output:   out,
	}, plan
}

func TestReduceMinForward_MatchesCPU(t *testing.T) {
	ctx := context.Background()
	gpu := newTestBackend(t)
	ref := cpu.New()

	rng := rand.New(rand.NewSource(7))
	shapes := []struct {
		shape tensor.Shape
		axes  []int
	}{
		{tensor.Shape{1000}, nil},
		{tensor.Shape{3, 300}, []int{1}},
		{tensor.Shape{300, 3}, []int{0}},
		{tensor.Shape{4, 5, 70}, []int{0, 2}},
		{tensor.Shape{2, 600}, nil},
	}
	for _, tt := range shapes {
		data := make([]float32, tt.shape.NumElements())
		for i := range data {
			data[i] = float32(rng.Intn(1000) - 500)
		}
		layout := tensor.Contiguous(tt.shape)

		gpuArgs, _ := forwardArgs(t, data, layout, tt.axes...)
		cpuArgs, _ := forwardArgs(t, data, layout, tt.axes...)
		require.NoError(t, gpu.ReduceMinForward(ctx, gpuArgs))
		require.NoError(t, ref.ReduceMinForward(ctx, cpuArgs))
		assert.Equal(t, cpuArgs.Output, gpuArgs.Output, "shape %v axes %v", tt.shape, tt.axes)
	}
}

func TestReduceMinForward_Transposed(t *testing.T) {
	ctx := context.Background()
	gpu := newTestBackend(t)

	// buffer [[1, 4], [3, 0]], viewed transposed; column minima of the view
	data := []float32{1, 4, 3, 0}
	layout := tensor.Layout{Dims: []int{2, 2}, Strides: []int{1, 2}}
	args, _ := forwardArgs(t, data, layout, 0)
	require.NoError(t, gpu.ReduceMinForward(ctx, args))
	assert.Equal(t, []float32{1, 0}, args.Output)
}

func TestReduceMinBackward_MatchesCPU(t *testing.T) {
	ctx := context.Background()
	gpu := newTestBackend(t)
	ref := cpu.New()

	data := []float32{2, 5, 2, 9, 8, 7}
	fwd, plan := forwardArgs(t, data, tensor.Contiguous(tensor.Shape{2, 3}), 1)
	require.NoError(t, ref.ReduceMinForward(ctx, fwd))

	run := func(b tensor.Backend) []float32 {
		grad := make([]float32, len(data))
		require.NoError(t, b.ReduceMinBackward(ctx, tensor.MinBackwardArgs[float32]{
			Numel:          plan.PhysicalNumel,
			ElemsPerThread: float32(plan.ElemsPerThread()),
			Dims:           plan.Input.Dims,
			Input:          data,
			GradInput:      grad,
			InputStrides:   plan.Input.Strides,
			Output:         fwd.Output,
			GradOutput:     []float32{10, 20},
			OutputStrides:  plan.OutputStrides,
		}))
		return grad
	}
	want := run(ref)
	assert.Equal(t, []float32{10, 0, 10, 0, 0, 20}, want)
	assert.Equal(t, want, run(gpu))
}
