package tensor

import (
	"math"

	"github.com/pkg/errors"
)

// Device represents the compute device for tensor operations.
type Device int

// Supported compute devices.
const (
	CPU Device = iota
	WebGPU
)

// String returns a human-readable device name.
func (d Device) String() string {
	switch d {
	case CPU:
		return "CPU"
	case WebGPU:
		return "WebGPU"
	default:
		return "Unknown"
	}
}

// Tensor is a typed buffer viewed through a Layout.
//
// Several tensors may share one buffer with different layouts (transposed or
// broadcast views); the buffer is never copied unless Materialize is called.
type Tensor[T Float] struct {
	data   []T
	layout Layout
	device Device
}

// New allocates a zero-filled contiguous tensor.
func New[T Float](shape Shape, device Device) (*Tensor[T], error) {
	if err := shape.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid shape")
	}
	return &Tensor[T]{
		data:   make([]T, shape.NumElements()),
		layout: Contiguous(shape),
		device: device,
	}, nil
}

// Full allocates a contiguous tensor with every element set to value.
func Full[T Float](shape Shape, value T, device Device) (*Tensor[T], error) {
	t, err := New[T](shape, device)
	if err != nil {
		return nil, err
	}
	t.Fill(value)
	return t, nil
}

// FromSlice wraps data (not copied) as a contiguous tensor of the given shape.
func FromSlice[T Float](data []T, shape Shape) (*Tensor[T], error) {
	if err := shape.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid shape")
	}
	if len(data) != shape.NumElements() {
		return nil, errors.Errorf("data has %d elements, shape %v needs %d", len(data), shape, shape.NumElements())
	}
	return &Tensor[T]{data: data, layout: Contiguous(shape), device: CPU}, nil
}

// NewView wraps data (not copied) under an arbitrary layout.
func NewView[T Float](data []T, layout Layout) (*Tensor[T], error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	if need := maxOffset(layout) + 1; need > len(data) {
		return nil, errors.Errorf("layout %v/%v reaches offset %d but buffer has %d elements",
			layout.Dims, layout.Strides, need-1, len(data))
	}
	return &Tensor[T]{data: data, layout: layout.Clone(), device: CPU}, nil
}

// Data returns the underlying buffer.
// WARNING: Direct access to underlying memory. Use with caution.
func (t *Tensor[T]) Data() []T {
	return t.data
}

// Layout returns the tensor's layout.
func (t *Tensor[T]) Layout() Layout {
	return t.layout
}

// Shape returns the logical shape.
func (t *Tensor[T]) Shape() Shape {
	return t.layout.Shape()
}

// NumElements returns the number of logical elements.
func (t *Tensor[T]) NumElements() int {
	return t.layout.NumElements()
}

// Device returns the tensor's compute device.
func (t *Tensor[T]) Device() Device {
	return t.device
}

// DType returns the runtime data type.
func (t *Tensor[T]) DType() DataType {
	return DataTypeOf[T]()
}

// At returns the element at logical index i.
func (t *Tensor[T]) At(i int) T {
	return t.data[t.layout.Offset(i)]
}

// Fill sets every buffer element to value.
func (t *Tensor[T]) Fill(value T) {
	for i := range t.data {
		t.data[i] = value
	}
}

// View returns a tensor sharing this buffer under another layout.
func (t *Tensor[T]) View(layout Layout) (*Tensor[T], error) {
	v, err := NewView(t.data, layout)
	if err != nil {
		return nil, err
	}
	v.device = t.device
	return v, nil
}

// ZerosLike allocates a zero buffer of the same physical size and layout.
// Gradient accumulators are shaped this way so that they are indexed by the
// same physical offsets as the tensor itself.
func (t *Tensor[T]) ZerosLike() *Tensor[T] {
	return &Tensor[T]{
		data:   make([]T, len(t.data)),
		layout: t.layout.Clone(),
		device: t.device,
	}
}

// Materialize returns a contiguous copy of the logical tensor.
func (t *Tensor[T]) Materialize() *Tensor[T] {
	n := t.NumElements()
	data := make([]T, n)
	for i := 0; i < n; i++ {
		data[i] = t.At(i)
	}
	return &Tensor[T]{data: data, layout: Contiguous(t.layout.Shape()), device: t.device}
}

// Inf returns +Inf as T.
func Inf[T Float]() T {
	return T(math.Inf(1))
}

func maxOffset(l Layout) int {
	off := 0
	for k, d := range l.Dims {
		off += (d - 1) * l.Strides[k]
	}
	return off
}
