//go:build !windows

package webgpu

import (
	"context"

	"github.com/pkg/errors"

	"github.com/born-ml/minreduce/internal/tensor"
)

// ErrUnsupported is returned on platforms without the WebGPU path.
var ErrUnsupported = errors.New("webgpu: not supported on this platform")

// Backend is unavailable on this platform; New always fails.
type Backend struct{}

var _ tensor.Backend = (*Backend)(nil)

// New reports ErrUnsupported.
func New() (*Backend, error) {
	return nil, ErrUnsupported
}

// IsAvailable returns false.
func IsAvailable() bool {
	return false
}

// Release is a no-op.
func (b *Backend) Release() {}

// Name returns the backend name.
func (b *Backend) Name() string {
	return "WebGPU"
}

// Device returns the compute device.
func (b *Backend) Device() tensor.Device {
	return tensor.WebGPU
}

// ReduceMinForward reports ErrUnsupported.
func (b *Backend) ReduceMinForward(context.Context, tensor.MinForwardArgs[float32]) error {
	return ErrUnsupported
}

// ReduceMinBackward reports ErrUnsupported.
func (b *Backend) ReduceMinBackward(context.Context, tensor.MinBackwardArgs[float32]) error {
	return ErrUnsupported
}
