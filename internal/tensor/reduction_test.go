package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanReduction_LastAxis(t *testing.T) {
	r, err := PlanReduction(Contiguous(Shape{2, 3, 4}), -1)
	require.NoError(t, err)

	assert.Equal(t, []int{2}, r.Axes)
	assert.Equal(t, 4, r.ChunkLen)
	assert.Equal(t, 6, r.NumOut())
	assert.True(t, r.OutShape.Equal(Shape{2, 3}))
	assert.Equal(t, []int{12, 4, 1}, r.Forward.Strides)
	assert.Equal(t, []int{3, 1, 0}, r.OutputStrides)
	assert.True(t, r.Dense)
	assert.Equal(t, 1.0, r.ElemsPerThread())
}

func TestPlanReduction_MiddleAxisMovesLast(t *testing.T) {
	r, err := PlanReduction(Contiguous(Shape{2, 3, 4}), 1)
	require.NoError(t, err)

	assert.Equal(t, 3, r.ChunkLen)
	assert.Equal(t, []int{2, 4, 3}, r.Forward.Dims)
	assert.Equal(t, []int{12, 1, 4}, r.Forward.Strides)
	assert.True(t, r.OutShape.Equal(Shape{2, 4}))
	assert.Equal(t, []int{4, 0, 1}, r.OutputStrides)

	// Logical index i of the forward layout lands in output slot i/ChunkLen,
	// and that slot is the one OutputStrides gives for the same element.
	for i := 0; i < r.Numel; i++ {
		p := r.Forward.Offset(i)
		j := r.Input.Logical(p)
		assert.Equal(t, i/r.ChunkLen, StridedIndex(j, r.Input.Dims, r.OutputStrides), "forward index %d", i)
	}
}

func TestPlanReduction_AllAxes(t *testing.T) {
	r, err := PlanReduction(Contiguous(Shape{2, 3}))
	require.NoError(t, err)
	assert.Equal(t, 6, r.ChunkLen)
	assert.Equal(t, 1, r.NumOut())
	assert.Empty(t, r.OutShape)
	assert.Equal(t, []int{0, 0}, r.OutputStrides)
}

func TestPlanReduction_Broadcast(t *testing.T) {
	in := Layout{Dims: []int{2, 3}, Strides: []int{0, 1}}
	r, err := PlanReduction(in, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, r.PhysicalNumel)
	assert.Equal(t, 6, r.Numel)
	assert.Equal(t, 2.0, r.ElemsPerThread())
	assert.True(t, r.Dense)
	assert.Equal(t, []int{3, 2}, r.Forward.Dims)
	assert.Equal(t, []int{1, 0}, r.Forward.Strides)
}

func TestPlanReduction_NotDense(t *testing.T) {
	// Every other element of a buffer.
	in := Layout{Dims: []int{3}, Strides: []int{2}}
	r, err := PlanReduction(in, 0)
	require.NoError(t, err)
	assert.False(t, r.Dense)
}

func TestPlanReduction_Errors(t *testing.T) {
	_, err := PlanReduction(Contiguous(Shape{2, 3}), 2)
	assert.ErrorContains(t, err, "out of range")

	_, err = PlanReduction(Contiguous(Shape{2, 3}), 1, -1)
	assert.ErrorContains(t, err, "more than once")

	_, err = PlanReduction(Layout{Dims: []int{2}, Strides: []int{1, 1}}, 0)
	assert.Error(t, err)
}
