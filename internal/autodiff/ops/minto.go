package ops

import (
	"context"

	"github.com/pkg/errors"

	"github.com/born-ml/minreduce/internal/tensor"
)

// MinToOp represents a minimum reduction over some axes: output = min(x, axes).
//
// Forward:
//
//	y[o] = min { x[i] : i reduces into o }
//
// Backward:
//
//	grad_x[i] += grad_y[o] * elemsPerThread   if x[i] == y[o]
//
// Every element tied for the minimum receives the full gradient; it is not
// split between ties.
type MinToOp struct {
	inputs []*tensor.Tensor[float32] // [x]
	output *tensor.Tensor[float32]   // min(x, axes)
	plan   tensor.Reduction
}

// NewMinToOp creates a new MinToOp.
func NewMinToOp(x, output *tensor.Tensor[float32], plan tensor.Reduction) *MinToOp {
	return &MinToOp{
		inputs: []*tensor.Tensor[float32]{x},
		output: output,
		plan:   plan,
	}
}

// MinTo reduces x along axes (all axes when none are given) on backend and
// returns the result together with the op that can differentiate it.
func MinTo(ctx context.Context, backend tensor.Backend, x *tensor.Tensor[float32], axes ...int) (*tensor.Tensor[float32], *MinToOp, error) {
	plan, err := tensor.PlanReduction(x.Layout(), axes...)
	if err != nil {
		return nil, nil, errors.Wrap(err, "min")
	}
	output, err := tensor.Full(plan.OutShape, tensor.Inf[float32](), backend.Device())
	if err != nil {
		return nil, nil, errors.Wrap(err, "min")
	}
	err = backend.ReduceMinForward(ctx, tensor.MinForwardArgs[float32]{
		Numel:    plan.Numel,
		ChunkLen: plan.ChunkLen,
		Input:    x.Data(),
		Layout:   plan.Forward,
		Output:   output.Data(),
	})
	if err != nil {
		return nil, nil, errors.Wrapf(err, "min on %s", backend.Name())
	}
	return output, NewMinToOp(x, output, plan), nil
}

// Backward accumulates the routed gradient into inputGrads[0].
func (op *MinToOp) Backward(ctx context.Context, outputGrad *tensor.Tensor[float32], inputGrads []*tensor.Tensor[float32], backend tensor.Backend) error {
	x := op.inputs[0]
	if !op.plan.Dense {
		return errors.Errorf("min backward: input layout %v/%v is not dense", op.plan.Input.Dims, op.plan.Input.Strides)
	}
	if !outputGrad.Shape().Equal(op.output.Shape()) || !outputGrad.Layout().IsContiguous() {
		return errors.Errorf("min backward: output gradient must be contiguous with shape %v, got %v",
			op.output.Shape(), outputGrad.Shape())
	}
	if len(inputGrads) != 1 || len(inputGrads[0].Data()) < op.plan.PhysicalNumel {
		return errors.New("min backward: missing or undersized input gradient accumulator")
	}

	err := backend.ReduceMinBackward(ctx, tensor.MinBackwardArgs[float32]{
		Numel:          op.plan.PhysicalNumel,
		ElemsPerThread: float32(op.plan.ElemsPerThread()),
		Dims:           op.plan.Input.Dims,
		Input:          x.Data(),
		GradInput:      inputGrads[0].Data(),
		InputStrides:   op.plan.Input.Strides,
		Output:         op.output.Data(),
		GradOutput:     outputGrad.Data(),
		OutputStrides:  op.plan.OutputStrides,
	})
	return errors.Wrapf(err, "min backward on %s", backend.Name())
}

// Inputs returns the input tensors [x].
func (op *MinToOp) Inputs() []*tensor.Tensor[float32] {
	return op.inputs
}

// Output returns the output tensor min(x, axes).
func (op *MinToOp) Output() *tensor.Tensor[float32] {
	return op.output
}

// Plan returns the reduction plan the op was built with.
func (op *MinToOp) Plan() tensor.Reduction {
	return op.plan
}
