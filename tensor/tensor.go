// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import "github.com/born-ml/minreduce/internal/tensor"

// Shape represents tensor dimensions.
type Shape = tensor.Shape

// Layout maps a logical tensor onto a flat buffer through dims and strides.
type Layout = tensor.Layout

// Tensor is a typed buffer viewed through a Layout.
type Tensor[T Float] = tensor.Tensor[T]

// Float is the constraint for supported element types.
type Float = tensor.Float

// DataType represents runtime type information.
type DataType = tensor.DataType

// Supported data types.
const (
	Float32 = tensor.Float32
	Float64 = tensor.Float64
)

// Device represents a compute device.
type Device = tensor.Device

// Supported devices.
const (
	CPU    = tensor.CPU
	WebGPU = tensor.WebGPU
)

// Backend is implemented by compute backends that run the reduction kernels.
type Backend = tensor.Backend

// MinForwardArgs are the arguments of the forward minimum kernel.
type MinForwardArgs[T Float] = tensor.MinForwardArgs[T]

// MinBackwardArgs are the arguments of the backward minimum kernel.
type MinBackwardArgs[T Float] = tensor.MinBackwardArgs[T]

// Reduction is the host-side plan of a reduction over some axes.
type Reduction = tensor.Reduction

// PlanReduction plans reducing a layout along axes (all axes when none).
func PlanReduction(in Layout, axes ...int) (Reduction, error) {
	return tensor.PlanReduction(in, axes...)
}

// Contiguous returns the row-major layout for shape.
func Contiguous(shape Shape) Layout {
	return tensor.Contiguous(shape)
}

// New allocates a zero-filled contiguous tensor.
func New[T Float](shape Shape, device Device) (*Tensor[T], error) {
	return tensor.New[T](shape, device)
}

// Full allocates a contiguous tensor filled with value.
func Full[T Float](shape Shape, value T, device Device) (*Tensor[T], error) {
	return tensor.Full(shape, value, device)
}

// FromSlice wraps data as a contiguous tensor of the given shape.
func FromSlice[T Float](data []T, shape Shape) (*Tensor[T], error) {
	return tensor.FromSlice(data, shape)
}

// NewView wraps data under an arbitrary layout.
func NewView[T Float](data []T, layout Layout) (*Tensor[T], error) {
	return tensor.NewView(data, layout)
}

// Inf returns +Inf as T.
func Inf[T Float]() T {
	return tensor.Inf[T]()
}

// StridedIndex maps a logical index to a physical offset.
func StridedIndex(i int, dims, strides []int) int {
	return tensor.StridedIndex(i, dims, strides)
}

// UnstridedIndex recovers the logical index of a physical offset.
func UnstridedIndex(p int, dims, strides []int) int {
	return tensor.UnstridedIndex(p, dims, strides)
}
