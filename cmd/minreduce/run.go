package main

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/born-ml/minreduce/autodiff"
	"github.com/born-ml/minreduce/tensor"
)

type runOptions struct {
	backendFlags
	shape   []int
	values  []float64
	axes    []int
	permute []int
	grad    bool
}

func newRunCmd() *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Reduce literal values and print the minima",
		Example: `  minreduce run --shape 2,3 --values 3,1,4,1,5,9 --axes 1 --grad
  minreduce run --shape 2,3 --values 3,1,4,1,5,9 --permute 1,0 --axes 1`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReduce(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}
	cmd.Flags().IntSliceVar(&opts.shape, "shape", nil, "buffer shape, e.g. 2,3")
	cmd.Flags().Float64SliceVar(&opts.values, "values", nil, "buffer values in row-major order")
	cmd.Flags().IntSliceVar(&opts.axes, "axes", nil, "axes to reduce (default: all)")
	cmd.Flags().IntSliceVar(&opts.permute, "permute", nil, "view the buffer with its axes permuted")
	cmd.Flags().BoolVar(&opts.grad, "grad", false, "also print the gradient of the sum of the minima")
	opts.backendFlags.register(cmd)
	_ = cmd.MarkFlagRequired("shape")
	_ = cmd.MarkFlagRequired("values")
	return cmd
}

func runReduce(ctx context.Context, w io.Writer, opts *runOptions) error {
	data := make([]float32, len(opts.values))
	for i, v := range opts.values {
		data[i] = float32(v)
	}
	x, err := tensor.FromSlice(data, tensor.Shape(opts.shape))
	if err != nil {
		return errors.Wrap(err, "input")
	}
	if len(opts.permute) > 0 {
		layout, err := x.Layout().Permute(opts.permute...)
		if err != nil {
			return errors.Wrap(err, "input")
		}
		if x, err = x.View(layout); err != nil {
			return errors.Wrap(err, "input")
		}
	}

	inner, release, err := opts.open()
	if err != nil {
		return err
	}
	defer release()
	backend := autodiff.New(inner)
	backend.Tape().StartRecording()

	y, err := backend.MinTo(ctx, x, opts.axes...)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "backend: %s  input: %v  output: %v\n", backend.Name(), x.Shape(), y.Shape())
	out := newTable(w, "SLOT", "MIN")
	for i, v := range y.Data() {
		out.Append([]string{strconv.Itoa(i), formatFloat(v)})
	}
	out.Render()

	if !opts.grad {
		return nil
	}
	grads, err := backend.Backward(ctx, y)
	if err != nil {
		return err
	}
	fmt.Fprintln(w)
	table := newTable(w, "OFFSET", "VALUE", "GRAD")
	for p, g := range grads[x].Data() {
		table.Append([]string{strconv.Itoa(p), formatFloat(data[p]), formatFloat(g)})
	}
	table.Render()
	return nil
}

// newTable returns a borderless, left-aligned table.
func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	return table
}

func formatFloat(v float32) string {
	return strconv.FormatFloat(float64(v), 'g', -1, 32)
}
