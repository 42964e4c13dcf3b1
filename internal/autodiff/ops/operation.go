// Package ops defines operation interfaces and implementations for automatic differentiation.
//
// Each operation implements the Operation interface, which provides:
//   - Forward pass: computed by the backend when the op is built
//   - Backward pass: accumulates input gradients given the output gradient
//
// Supported operations:
//   - MinToOp: minimum over axes (grad flows to every element equal to its chunk minimum)
package ops

import (
	"context"

	"github.com/born-ml/minreduce/internal/tensor"
)

// Operation represents a differentiable operation in the computation graph.
// Each operation records its inputs and output during the forward pass,
// and accumulates input gradients during the backward pass.
type Operation interface {
	// Backward adds the contribution of outputGrad to inputGrads, one
	// accumulator per input, laid out like the input's physical buffer.
	// Accumulators are never overwritten, so an input used by several
	// operations collects the sum of their contributions.
	Backward(ctx context.Context, outputGrad *tensor.Tensor[float32], inputGrads []*tensor.Tensor[float32], backend tensor.Backend) error

	// Inputs returns the input tensors for this operation.
	Inputs() []*tensor.Tensor[float32]

	// Output returns the output tensor produced by this operation.
	Output() *tensor.Tensor[float32]
}
