// Package autodiff implements automatic differentiation using the decorator pattern.
//
// AutodiffBackend wraps any Backend implementation (CPU, WebGPU) and adds
// gradient tracking capabilities through a GradientTape.
//
// Usage:
//
//	backend := autodiff.New(cpu.New())
//	backend.Tape().StartRecording()
//	y, err := backend.MinTo(ctx, x, 1)
//	grads, err := backend.Backward(ctx, y)
//	fmt.Println(grads[x].Data())
package autodiff

import (
	"context"

	"github.com/pkg/errors"

	"github.com/born-ml/minreduce/internal/autodiff/ops"
	"github.com/born-ml/minreduce/internal/tensor"
)

// AutodiffBackend wraps a Backend and adds automatic differentiation.
// It implements the tensor.Backend interface and records operations in a GradientTape.
//
// Type parameter B must satisfy the tensor.Backend interface.
type AutodiffBackend[B tensor.Backend] struct {
	inner B             // Wrapped backend (CPU, GPU, etc.)
	tape  *GradientTape // Records operations for backpropagation
}

// New creates a new AutodiffBackend wrapping the given backend.
func New[B tensor.Backend](backend B) *AutodiffBackend[B] {
	return &AutodiffBackend[B]{
		inner: backend,
		tape:  NewGradientTape(),
	}
}

// Tape returns the gradient tape for manual control.
// Useful for:
//   - Starting/stopping recording
//   - Clearing tape between iterations
//   - Inspecting recorded operations
func (b *AutodiffBackend[B]) Tape() *GradientTape {
	return b.tape
}

// Inner returns the wrapped backend for direct access.
func (b *AutodiffBackend[B]) Inner() B {
	return b.inner
}

// Name returns the backend name with autodiff prefix.
func (b *AutodiffBackend[B]) Name() string {
	return "Autodiff(" + b.inner.Name() + ")"
}

// Device returns the compute device of the wrapped backend.
func (b *AutodiffBackend[B]) Device() tensor.Device {
	return b.inner.Device()
}

// ReduceMinForward forwards to the wrapped backend without recording.
func (b *AutodiffBackend[B]) ReduceMinForward(ctx context.Context, args tensor.MinForwardArgs[float32]) error {
	return b.inner.ReduceMinForward(ctx, args)
}

// ReduceMinBackward forwards to the wrapped backend without recording.
func (b *AutodiffBackend[B]) ReduceMinBackward(ctx context.Context, args tensor.MinBackwardArgs[float32]) error {
	return b.inner.ReduceMinBackward(ctx, args)
}

// MinTo reduces x to its minimum along axes (all axes when none are given)
// and records the operation when the tape is recording.
func (b *AutodiffBackend[B]) MinTo(ctx context.Context, x *tensor.Tensor[float32], axes ...int) (*tensor.Tensor[float32], error) {
	out, op, err := ops.MinTo(ctx, b.inner, x, axes...)
	if err != nil {
		return nil, err
	}
	b.tape.Record(op)
	return out, nil
}

// Backward differentiates the recorded computation ending in output, seeding
// its gradient with ones.
func (b *AutodiffBackend[B]) Backward(ctx context.Context, output *tensor.Tensor[float32]) (map[*tensor.Tensor[float32]]*tensor.Tensor[float32], error) {
	if b.tape.NumOperations() == 0 {
		return nil, errors.New("autodiff: nothing recorded on the tape")
	}
	if last := b.tape.operations[len(b.tape.operations)-1]; last.Output() != output {
		return nil, errors.New("autodiff: output is not the result of the last recorded operation")
	}
	seed, err := tensor.Full(output.Shape(), float32(1), b.inner.Device())
	if err != nil {
		return nil, errors.Wrap(err, "autodiff: seed gradient")
	}
	return b.tape.Backward(ctx, seed, b.inner)
}
