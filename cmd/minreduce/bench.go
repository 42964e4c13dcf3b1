package main

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/janpfeifer/must"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/born-ml/minreduce/tensor"
)

type benchOptions struct {
	backendFlags
	shape []int
	axes  []int
	iters int
	seed  int64
}

func newBenchCmd() *cobra.Command {
	opts := &benchOptions{}
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Time the forward and backward kernels on random data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBench(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}
	cmd.Flags().IntSliceVar(&opts.shape, "shape", []int{1024, 1024}, "input shape")
	cmd.Flags().IntSliceVar(&opts.axes, "axes", []int{1}, "axes to reduce")
	cmd.Flags().IntVar(&opts.iters, "iters", 10, "timed iterations per kernel")
	cmd.Flags().Int64Var(&opts.seed, "seed", 1, "random seed")
	opts.backendFlags.register(cmd)
	return cmd
}

func runBench(ctx context.Context, w io.Writer, opts *benchOptions) error {
	if opts.iters <= 0 {
		return errors.Errorf("iters must be positive, got %d", opts.iters)
	}
	shape := tensor.Shape(opts.shape)
	if err := shape.Validate(); err != nil {
		return errors.Wrap(err, "shape")
	}
	rng := rand.New(rand.NewSource(opts.seed)) //nolint:gosec // benchmark data
	data := make([]float32, shape.NumElements())
	for i := range data {
		data[i] = rng.Float32()
	}
	x := must.M1(tensor.FromSlice(data, shape))
	plan, err := tensor.PlanReduction(x.Layout(), opts.axes...)
	if err != nil {
		return err
	}

	backend, release, err := opts.open()
	if err != nil {
		return err
	}
	defer release()

	output := make([]float32, plan.NumOut())
	forward := tensor.MinForwardArgs[float32]{
		Numel:    plan.Numel,
		ChunkLen: plan.ChunkLen,
		Input:    data,
		Layout:   plan.Forward,
		Output:   output,
	}
	gradOutput := make([]float32, len(output))
	for i := range gradOutput {
		gradOutput[i] = 1
	}
	gradInput := make([]float32, len(data))
	backward := tensor.MinBackwardArgs[float32]{
		Numel:          plan.PhysicalNumel,
		ElemsPerThread: float32(plan.ElemsPerThread()),
		Dims:           plan.Input.Dims,
		Input:          data,
		GradInput:      gradInput,
		InputStrides:   plan.Input.Strides,
		Output:         output,
		GradOutput:     gradOutput,
		OutputStrides:  plan.OutputStrides,
	}

	fwd, err := timeKernel(opts.iters, func() error {
		for i := range output {
			output[i] = tensor.Inf[float32]()
		}
		return backend.ReduceMinForward(ctx, forward)
	})
	if err != nil {
		return err
	}
	bwd, err := timeKernel(opts.iters, func() error {
		return backend.ReduceMinBackward(ctx, backward)
	})
	if err != nil {
		return err
	}

	bytes := uint64(4 * len(data)) //nolint:gosec // non-negative
	fmt.Fprintf(w, "backend: %s  shape: %v  axes: %v  elements: %s  input: %s\n",
		backend.Name(), shape, plan.Axes, humanize.Comma(int64(plan.Numel)), humanize.Bytes(bytes))
	table := newTable(w, "KERNEL", "TIME/OP", "THROUGHPUT")
	for _, row := range []struct {
		name string
		d    time.Duration
	}{{"forward", fwd}, {"backward", bwd}} {
		table.Append([]string{row.name, row.d.String(), throughput(bytes, row.d)})
	}
	table.Render()
	return nil
}

// timeKernel runs fn once untimed, then iters times, and returns the mean.
func timeKernel(iters int, fn func() error) (time.Duration, error) {
	if err := fn(); err != nil {
		return 0, err
	}
	start := time.Now()
	for range iters {
		if err := fn(); err != nil {
			return 0, err
		}
	}
	return time.Since(start) / time.Duration(iters), nil
}

func throughput(bytes uint64, d time.Duration) string {
	if d <= 0 {
		return "-"
	}
	return humanize.Bytes(uint64(float64(bytes)/d.Seconds())) + "/s"
}
