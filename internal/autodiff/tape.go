package autodiff

import (
	"context"

	"github.com/born-ml/minreduce/internal/autodiff/ops"
	"github.com/born-ml/minreduce/internal/tensor"
)

// GradientTape records operations during the forward pass and computes
// gradients during the backward pass using reverse-mode automatic differentiation.
//
// Usage:
//
//	tape := NewGradientTape()
//	tape.StartRecording()
//	// ... perform operations ...
//	gradients, err := tape.Backward(ctx, outputGrad, backend)
type GradientTape struct {
	operations []ops.Operation // Recorded operations (in execution order)
	recording  bool            // Whether tape is currently recording
}

// NewGradientTape creates a new gradient tape.
func NewGradientTape() *GradientTape {
	return &GradientTape{
		operations: make([]ops.Operation, 0, 16),
		recording:  false,
	}
}

// StartRecording enables operation recording.
func (t *GradientTape) StartRecording() {
	t.recording = true
}

// StopRecording disables operation recording.
func (t *GradientTape) StopRecording() {
	t.recording = false
}

// IsRecording returns true if the tape is currently recording operations.
func (t *GradientTape) IsRecording() bool {
	return t.recording
}

// Record adds an operation to the tape.
// Only records if the tape is currently recording.
func (t *GradientTape) Record(op ops.Operation) {
	if t.recording {
		t.operations = append(t.operations, op)
	}
}

// NumOperations returns how many operations are recorded.
func (t *GradientTape) NumOperations() int {
	return len(t.operations)
}

// Clear resets the tape, removing all recorded operations.
// Recording state is preserved.
func (t *GradientTape) Clear() {
	t.operations = t.operations[:0]
}

// Backward computes gradients for all inputs by walking the tape in reverse.
//
// outputGrad seeds the gradient of the last recorded operation's output.
// Every other gradient is an accumulator shaped like its tensor's physical
// buffer, created zero-filled the first time an operation needs it; ops add
// into it, so tensors used several times collect the sum of contributions.
// Because the tape is in execution order, an output's accumulator is complete
// before the op that produced it is differentiated.
//
// Returns a map from tensor to its accumulated gradient.
func (t *GradientTape) Backward(ctx context.Context, outputGrad *tensor.Tensor[float32], backend tensor.Backend) (map[*tensor.Tensor[float32]]*tensor.Tensor[float32], error) {
	grads := make(map[*tensor.Tensor[float32]]*tensor.Tensor[float32])
	if len(t.operations) == 0 {
		return grads, nil
	}

	// Stop recording during backward pass to prevent recording gradient operations
	wasRecording := t.recording
	t.recording = false
	defer func() {
		t.recording = wasRecording
	}()

	lastOp := t.operations[len(t.operations)-1]
	grads[lastOp.Output()] = outputGrad

	for i := len(t.operations) - 1; i >= 0; i-- {
		op := t.operations[i]
		opOutputGrad, hasGrad := grads[op.Output()]
		if !hasGrad {
			continue
		}

		inputs := op.Inputs()
		inputGrads := make([]*tensor.Tensor[float32], len(inputs))
		for j, input := range inputs {
			acc, ok := grads[input]
			if !ok {
				acc = input.ZerosLike()
				grads[input] = acc
			}
			inputGrads[j] = acc
		}

		if err := op.Backward(ctx, opOutputGrad, inputGrads, backend); err != nil {
			return nil, err
		}
	}

	return grads, nil
}
