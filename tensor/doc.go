// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public tensor, layout and reduction-planning
// types of minreduce.
//
// A Tensor is a typed buffer viewed through a Layout of per-axis extents and
// strides. Views share buffers: a transposed view permutes strides and a
// broadcast view carries stride 0 on expanded axes.
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/minreduce/backend/cpu"
//	    "github.com/born-ml/minreduce/tensor"
//	)
//
//	func main() {
//	    x, _ := tensor.FromSlice([]float32{3, 1, 4, 1, 5, 9}, tensor.Shape{2, 3})
//	    plan, _ := tensor.PlanReduction(x.Layout(), 1)
//	    out, _ := tensor.Full(plan.OutShape, tensor.Inf[float32](), tensor.CPU)
//
//	    backend := cpu.New()
//	    _ = backend.ReduceMinForward(ctx, tensor.MinForwardArgs[float32]{
//	        Numel:    plan.Numel,
//	        ChunkLen: plan.ChunkLen,
//	        Input:    x.Data(),
//	        Layout:   plan.Forward,
//	        Output:   out.Data(),
//	    })
//	    // out.Data() == [1 1]
//	}
//
// Most callers use autodiff.MinTo, which does the planning and allocation.
package tensor
