// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff provides automatic differentiation of the minimum
// reduction.
//
// It wraps any backend with a gradient tape; MinTo records its operation
// while the tape is recording and Backward routes gradients to every
// input element tied for its chunk minimum.
//
// Example:
//
//	backend := autodiff.New(cpu.New())
//	backend.Tape().StartRecording()
//
//	y, _ := backend.MinTo(ctx, x, 1)
//	grads, _ := backend.Backward(ctx, y)
//	fmt.Println(grads[x].Data())
package autodiff

import (
	"context"

	"github.com/born-ml/minreduce/internal/autodiff"
	"github.com/born-ml/minreduce/internal/autodiff/ops"
	"github.com/born-ml/minreduce/tensor"
)

// Backend is the autodiff-enabled backend.
type Backend[B tensor.Backend] = autodiff.AutodiffBackend[B]

// New creates a new autodiff backend wrapping the given backend.
func New[B tensor.Backend](backend B) *Backend[B] {
	return autodiff.New(backend)
}

// GradientTape records operations for automatic differentiation.
type GradientTape = autodiff.GradientTape

// NewGradientTape creates a new gradient tape.
func NewGradientTape() *GradientTape {
	return autodiff.NewGradientTape()
}

// Operation is a differentiable operation recorded on a tape.
type Operation = ops.Operation

// MinToOp is the recorded minimum reduction.
type MinToOp = ops.MinToOp

// MinTo reduces x to its minimum along axes (all axes when none are given)
// on backend without recording, returning the op that can differentiate it.
func MinTo(ctx context.Context, backend tensor.Backend, x *tensor.Tensor[float32], axes ...int) (*tensor.Tensor[float32], *MinToOp, error) {
	return ops.MinTo(ctx, backend, x, axes...)
}
