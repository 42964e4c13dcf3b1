package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewCLI()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "minreduce "+version+"\n", out)
}

func TestRun(t *testing.T) {
	out, err := execute(t, "run", "--shape", "2,3", "--values", "3,1,4,1,5,9", "--axes", "1", "--grad")
	require.NoError(t, err)
	assert.Contains(t, out, "Autodiff(CPU)")
	assert.Contains(t, out, "SLOT")
	assert.Contains(t, out, "GRAD")

	lines := strings.Split(out, "\n")
	var gradRows int
	for _, line := range lines {
		fields := strings.Fields(line)
		// OFFSET VALUE GRAD rows; offsets 1 and 3 hold the row minima.
		if len(fields) == 3 && (fields[0] == "1" || fields[0] == "3") && fields[1] == "1" {
			assert.Equal(t, "1", fields[2], line)
			gradRows++
		}
	}
	assert.Equal(t, 2, gradRows)
}

func TestRun_Permuted(t *testing.T) {
	out, err := execute(t, "run", "--shape", "2,3", "--values", "3,1,4,1,5,9", "--permute", "1,0", "--axes", "1")
	require.NoError(t, err)
	// Column minima of the buffer: 1, 1, 4.
	assert.Contains(t, out, "output: [3]")
}

func TestRun_Errors(t *testing.T) {
	_, err := execute(t, "run", "--shape", "2,3", "--values", "1,2")
	assert.ErrorContains(t, err, "data has 2 elements")

	_, err = execute(t, "run", "--shape", "2", "--values", "1,2", "--backend", "tpu")
	assert.ErrorContains(t, err, "unknown backend")

	_, err = execute(t, "run", "--shape", "2", "--values", "1,2", "--axes", "4")
	assert.ErrorContains(t, err, "out of range")
}

func TestBench(t *testing.T) {
	out, err := execute(t, "bench", "--shape", "64,32", "--axes", "0", "--iters", "2", "--group-size", "16")
	require.NoError(t, err)
	assert.Contains(t, out, "forward")
	assert.Contains(t, out, "backward")
	assert.Contains(t, out, "2,048")

	_, err = execute(t, "bench", "--iters", "0")
	assert.ErrorContains(t, err, "iters must be positive")
}
