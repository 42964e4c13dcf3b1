package tensor

import (
	"context"

	"github.com/pkg/errors"
)

// Backend defines the interface that compute backends implement for the
// minimum reduction. Backends only run kernels over caller-owned buffers:
// shape bookkeeping lives in PlanReduction and allocation in the caller.
//
// Implementations:
//   - CPU: execution groups of goroutines with a barrier and lock-free atomic min
//   - WebGPU: WGSL compute shaders with workgroup memory (windows builds)
type Backend interface {
	// ReduceMinForward lowers args.Output toward the per-chunk minima of the
	// input. Output must be pre-filled with +Inf.
	ReduceMinForward(ctx context.Context, args MinForwardArgs[float32]) error

	// ReduceMinBackward accumulates routed gradients into args.GradInput.
	ReduceMinBackward(ctx context.Context, args MinBackwardArgs[float32]) error

	// Name returns a human-readable backend name.
	Name() string

	// Device returns the compute device.
	Device() Device
}

// MinForwardArgs are the arguments of the forward minimum kernel.
type MinForwardArgs[T Float] struct {
	Numel    int    // logical input elements
	ChunkLen int    // input elements collapsing into one output slot
	Input    []T    // input buffer, read through Layout
	Layout   Layout // input descriptor, reduced axes last
	Output   []T    // Numel/ChunkLen slots, pre-filled with +Inf
}

// Validate checks the host-side preconditions of the forward kernel.
func (a MinForwardArgs[T]) Validate() error {
	if err := a.Layout.Validate(); err != nil {
		return errors.Wrap(err, "reduce min forward")
	}
	if a.Numel != a.Layout.NumElements() {
		return errors.Errorf("reduce min forward: numel %d does not match layout %v", a.Numel, a.Layout.Dims)
	}
	if a.ChunkLen <= 0 || a.Numel%a.ChunkLen != 0 {
		return errors.Errorf("reduce min forward: chunk length %d does not divide numel %d", a.ChunkLen, a.Numel)
	}
	if len(a.Output) != a.Numel/a.ChunkLen {
		return errors.Errorf("reduce min forward: output has %d slots, want %d", len(a.Output), a.Numel/a.ChunkLen)
	}
	if maxOffset(a.Layout) >= len(a.Input) {
		return errors.Errorf("reduce min forward: layout reaches offset %d but input has %d elements",
			maxOffset(a.Layout), len(a.Input))
	}
	return nil
}

// MinBackwardArgs are the arguments of the backward minimum kernel.
//
// Input and GradInput are indexed by physical position in [0, Numel); Output
// and GradOutput are reached by re-striding the recovered logical index
// against OutputStrides, which carry 0 on every reduced axis.
type MinBackwardArgs[T Float] struct {
	Numel          int // physical input positions
	ElemsPerThread T   // gradient scale compensating for broadcast fan-out
	Dims           []int
	Input          []T
	GradInput      []T
	InputStrides   []int
	Output         []T
	GradOutput     []T
	OutputStrides  []int
}

// Validate checks the host-side preconditions of the backward kernel.
func (a MinBackwardArgs[T]) Validate() error {
	if len(a.Dims) != len(a.InputStrides) || len(a.Dims) != len(a.OutputStrides) {
		return errors.Errorf("reduce min backward: %d dims, %d input strides, %d output strides",
			len(a.Dims), len(a.InputStrides), len(a.OutputStrides))
	}
	if len(a.Input) < a.Numel || len(a.GradInput) < a.Numel {
		return errors.Errorf("reduce min backward: numel %d exceeds input (%d) or grad input (%d)",
			a.Numel, len(a.Input), len(a.GradInput))
	}
	if len(a.Output) != len(a.GradOutput) {
		return errors.Errorf("reduce min backward: output has %d slots but grad output has %d",
			len(a.Output), len(a.GradOutput))
	}
	out := Layout{Dims: a.Dims, Strides: a.OutputStrides}
	if err := out.Validate(); err != nil {
		return errors.Wrap(err, "reduce min backward")
	}
	if maxOffset(out) >= len(a.Output) {
		return errors.Errorf("reduce min backward: output strides reach offset %d but output has %d slots",
			maxOffset(out), len(a.Output))
	}
	return nil
}
