// Package cpu implements the CPU backend: minimum-reduction kernels executed
// as grids of cooperating goroutine groups.
package cpu

import (
	"context"

	"github.com/born-ml/minreduce/internal/parallel"
	"github.com/born-ml/minreduce/internal/tensor"
)

// CPUBackend runs reduction kernels on CPU.
type CPUBackend struct {
	device   tensor.Device
	parallel parallel.Config
}

// Option configures a CPUBackend.
type Option func(*CPUBackend)

// WithParallel replaces the parallel execution config.
func WithParallel(cfg parallel.Config) Option {
	return func(cpu *CPUBackend) {
		cpu.parallel = cfg
	}
}

// WithGroupSize sets the number of cooperating threads per execution group.
func WithGroupSize(n int) Option {
	return func(cpu *CPUBackend) {
		if n > 0 {
			cpu.parallel.GroupSize = n
		}
	}
}

// New creates a new CPU backend.
func New(opts ...Option) *CPUBackend {
	cpu := &CPUBackend{
		device:   tensor.CPU,
		parallel: parallel.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(cpu)
	}
	return cpu
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

// Device returns the compute device.
func (cpu *CPUBackend) Device() tensor.Device {
	return cpu.device
}

// Config returns the parallel execution config.
func (cpu *CPUBackend) Config() parallel.Config {
	return cpu.parallel
}

// ReduceMinForward implements tensor.Backend.
func (cpu *CPUBackend) ReduceMinForward(ctx context.Context, args tensor.MinForwardArgs[float32]) error {
	if err := args.Validate(); err != nil {
		return err
	}
	return MinForward(ctx, cpu.parallel, args)
}

// ReduceMinBackward implements tensor.Backend.
func (cpu *CPUBackend) ReduceMinBackward(ctx context.Context, args tensor.MinBackwardArgs[float32]) error {
	if err := args.Validate(); err != nil {
		return err
	}
	return MinBackward(ctx, cpu.parallel, args)
}
