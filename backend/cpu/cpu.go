// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides the pure Go CPU backend.
//
// Kernels run as grids of execution groups: each group is a set of
// goroutines sharing a scratch buffer and a barrier, and groups are scheduled
// onto a bounded worker pool.
//
// # Basic Usage
//
//	backend := cpu.New(cpu.WithGroupSize(128))
//	y, _ := autodiff.New(backend).MinTo(ctx, x, 1)
//
// # Thread Safety
//
// The CPU backend is safe for concurrent use. Each call owns its scratch
// memory; output slots are updated with atomic operations.
package cpu

import (
	internalcpu "github.com/born-ml/minreduce/internal/backend/cpu"
	"github.com/born-ml/minreduce/internal/parallel"
	"github.com/born-ml/minreduce/tensor"
)

// Backend represents the CPU backend implementation.
type Backend = internalcpu.CPUBackend

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// Option configures a Backend.
type Option = internalcpu.Option

// Config controls how kernels are spread over goroutines.
type Config = parallel.Config

// DefaultConfig returns the default parallel execution config.
func DefaultConfig() Config {
	return parallel.DefaultConfig()
}

// WithParallel replaces the parallel execution config.
func WithParallel(cfg Config) Option {
	return internalcpu.WithParallel(cfg)
}

// WithGroupSize sets the number of cooperating threads per execution group.
func WithGroupSize(n int) Option {
	return internalcpu.WithGroupSize(n)
}

// New creates a new CPU backend.
func New(opts ...Option) *Backend {
	return internalcpu.New(opts...)
}
