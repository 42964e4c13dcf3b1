//go:build windows

package webgpu

import (
	"context"

	"github.com/go-webgpu/webgpu/wgpu"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/born-ml/minreduce/internal/tensor"
)

const (
	storageIn  = wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst
	storageOut = wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc | wgpu.BufferUsageCopyDst
)

// minForward uploads the input and the +Inf-filled output, runs
// minForwardShader and reads the lowered output back into args.Output.
func (b *Backend) minForward(ctx context.Context, args tensor.MinForwardArgs[float32]) error {
	if args.Numel == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	geometry, err := packUint32(args.Layout.Dims, args.Layout.Strides)
	if err != nil {
		return errors.Wrap(err, "reduce min forward")
	}
	params, err := forwardParams(args.Numel, args.ChunkLen, args.Layout.NumDims())
	if err != nil {
		return errors.Wrap(err, "reduce min forward")
	}
	klog.V(1).Infof("webgpu: reduce min forward numel=%d chunk=%d", args.Numel, args.ChunkLen)

	b.submitMu.Lock()
	defer b.submitMu.Unlock()
	p := b.pipeline("minForward", minForwardShader)

	input := packFloat32(args.Input)
	bufInput := b.createBuffer(input, storageIn)
	defer bufInput.Release()
	bufGeometry := b.createBuffer(geometry, storageIn)
	defer bufGeometry.Release()
	output := packFloat32(args.Output)
	bufOutput := b.createBuffer(output, storageOut)
	defer bufOutput.Release()
	bufParams := b.createUniformBuffer(params)
	defer bufParams.Release()

	b.dispatch(p, args.Numel,
		[]*wgpu.Buffer{bufInput, bufGeometry, bufOutput, bufParams},
		[]uint64{uint64(len(input)), uint64(len(geometry)), uint64(len(output)), 16})

	data, err := b.readBuffer(bufOutput, uint64(len(output)))
	if err != nil {
		return errors.Wrap(err, "reduce min forward")
	}
	return unpackFloat32(args.Output, data)
}

// minBackward uploads both sides of the reduction, runs minBackwardShader and
// reads the accumulated gradient back into args.GradInput.
func (b *Backend) minBackward(ctx context.Context, args tensor.MinBackwardArgs[float32]) error {
	if args.Numel == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	geometry, err := packUint32(args.Dims, args.InputStrides, args.OutputStrides)
	if err != nil {
		return errors.Wrap(err, "reduce min backward")
	}
	params, err := backwardParams(args.Numel, len(args.Dims), args.ElemsPerThread)
	if err != nil {
		return errors.Wrap(err, "reduce min backward")
	}
	klog.V(1).Infof("webgpu: reduce min backward numel=%d", args.Numel)

	b.submitMu.Lock()
	defer b.submitMu.Unlock()
	p := b.pipeline("minBackward", minBackwardShader)

	input := packFloat32(args.Input[:args.Numel])
	bufInput := b.createBuffer(input, storageIn)
	defer bufInput.Release()
	gradInput := packFloat32(args.GradInput[:args.Numel])
	bufGradInput := b.createBuffer(gradInput, storageOut)
	defer bufGradInput.Release()
	output := packFloat32(args.Output)
	bufOutput := b.createBuffer(output, storageIn)
	defer bufOutput.Release()
	gradOutput := packFloat32(args.GradOutput)
	bufGradOutput := b.createBuffer(gradOutput, storageIn)
	defer bufGradOutput.Release()
	bufGeometry := b.createBuffer(geometry, storageIn)
	defer bufGeometry.Release()
	bufParams := b.createUniformBuffer(params)
	defer bufParams.Release()

	b.dispatch(p, args.Numel,
		[]*wgpu.Buffer{bufInput, bufGradInput, bufOutput, bufGradOutput, bufGeometry, bufParams},
		[]uint64{
			uint64(len(input)), uint64(len(gradInput)), uint64(len(output)),
			uint64(len(gradOutput)), uint64(len(geometry)), 16,
		})

	data, err := b.readBuffer(bufGradInput, uint64(len(gradInput)))
	if err != nil {
		return errors.Wrap(err, "reduce min backward")
	}
	return unpackFloat32(args.GradInput[:args.Numel], data)
}
