package main

import (
	"flag"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/born-ml/minreduce/backend/cpu"
	"github.com/born-ml/minreduce/backend/webgpu"
	"github.com/born-ml/minreduce/tensor"
)

const version = "v0.1.0-dev"

// NewCLI creates the root command with all subcommands.
func NewCLI() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "minreduce",
		Short:         "Strided minimum reduction with gradients",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	// klog registers -v, -logtostderr and friends.
	klogFlags := flag.NewFlagSet("klog", flag.ContinueOnError)
	klog.InitFlags(klogFlags)
	rootCmd.PersistentFlags().AddGoFlagSet(klogFlags)

	rootCmd.AddCommand(
		newRunCmd(),
		newBenchCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "minreduce %s\n", version)
		},
	}
}

// backendFlags are shared by commands that run kernels.
type backendFlags struct {
	name      string
	groupSize int
}

func (f *backendFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "backend", "cpu", "compute backend: cpu or webgpu")
	cmd.Flags().IntVar(&f.groupSize, "group-size", 0, "threads per CPU execution group (0 keeps the default)")
}

// open returns the selected backend and a function releasing it.
func (f *backendFlags) open() (tensor.Backend, func(), error) {
	switch strings.ToLower(f.name) {
	case "cpu":
		return cpu.New(cpu.WithGroupSize(f.groupSize)), func() {}, nil
	case "webgpu", "gpu":
		gpu, err := webgpu.New()
		if err != nil {
			return nil, nil, err
		}
		return gpu, gpu.Release, nil
	default:
		return nil, nil, errors.Errorf("unknown backend %q", f.name)
	}
}
