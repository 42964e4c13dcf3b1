package cpu

import (
	"context"

	"k8s.io/klog/v2"

	"github.com/born-ml/minreduce/internal/parallel"
	"github.com/born-ml/minreduce/internal/tensor"
)

// MinForward runs the forward minimum kernel.
//
// One thread is launched per logical input index i. It loads
// Input[StridedIndex(i, Layout)] and hands the value to the group's chunk
// reducer, which lowers Output[i/ChunkLen]. Output must hold +Inf on entry;
// values only decrease, so the result after the call is the chunk minimum.
//
// Arguments are not validated here; see tensor.MinForwardArgs.Validate.
func MinForward[T tensor.Float](ctx context.Context, cfg parallel.Config, args tensor.MinForwardArgs[T]) error {
	numel := args.Numel
	if numel == 0 {
		return nil
	}
	dims, strides := args.Layout.Dims, args.Layout.Strides
	numGroups := parallel.NumGroups(numel, cfg.GroupWidth())
	klog.V(1).Infof("cpu: reduce min forward numel=%d chunk=%d groups=%d", numel, args.ChunkLen, numGroups)

	return parallel.Launch(ctx, cfg, numGroups,
		func(n int) []T { return make([]T, n) },
		func(th parallel.Thread, scratch []T) {
			i := th.Global()
			valid := i < numel
			var value T
			if valid {
				value = args.Input[tensor.StridedIndex(i, dims, strides)]
			}
			chunkMin(th, scratch, numel, args.ChunkLen, value, valid, args.Output)
		})
}

// MinBackward runs the backward minimum kernel.
//
// One thread is launched per physical input position p. It recovers the
// logical index of p under InputStrides, re-strides it under OutputStrides to
// find the output slot o, and if Input[p] == Output[o] adds
// GradOutput[o]*ElemsPerThread to GradInput[p]. Every tied minimum receives the
// full gradient and NaN inputs never match. GradInput is accumulated into,
// never overwritten.
//
// Arguments are not validated here; see tensor.MinBackwardArgs.Validate.
func MinBackward[T tensor.Float](ctx context.Context, cfg parallel.Config, args tensor.MinBackwardArgs[T]) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	klog.V(1).Infof("cpu: reduce min backward numel=%d", args.Numel)

	scale := args.ElemsPerThread
	parallel.For(args.Numel, func(p int) {
		i := tensor.UnstridedIndex(p, args.Dims, args.InputStrides)
		o := tensor.StridedIndex(i, args.Dims, args.OutputStrides)
		if args.Input[p] == args.Output[o] {
			args.GradInput[p] += args.GradOutput[o] * scale
		}
	}, cfg)
	return nil
}
