package tensor

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	x, err := New[float32](Shape{2, 3}, CPU)
	require.NoError(t, err)
	assert.Len(t, x.Data(), 6)
	assert.Equal(t, 6, x.NumElements())
	assert.Equal(t, Float32, x.DType())
	assert.Equal(t, CPU, x.Device())
	assert.True(t, x.Layout().IsContiguous())

	_, err = New[float64](Shape{2, 0}, CPU)
	assert.Error(t, err)
}

func TestFull(t *testing.T) {
	x, err := Full(Shape{3}, Inf[float64](), CPU)
	require.NoError(t, err)
	for _, v := range x.Data() {
		assert.True(t, math.IsInf(v, 1))
	}
	assert.Equal(t, Float64, x.DType())
}

func TestFromSlice(t *testing.T) {
	x, err := FromSlice([]float32{1, 2, 3, 4, 5, 6}, Shape{2, 3})
	require.NoError(t, err)
	assert.Equal(t, float32(6), x.At(5))

	_, err = FromSlice([]float32{1, 2}, Shape{3})
	assert.ErrorContains(t, err, "needs 3")
}

func TestViewAndMaterialize(t *testing.T) {
	x, err := FromSlice([]float32{1, 2, 3, 4, 5, 6}, Shape{2, 3})
	require.NoError(t, err)

	xt, err := x.View(Layout{Dims: []int{3, 2}, Strides: []int{1, 3}})
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 4, 2, 5, 3, 6}, xt.Materialize().Data())
	assert.True(t, xt.Materialize().Layout().IsContiguous())

	_, err = x.View(Layout{Dims: []int{4}, Strides: []int{2}})
	assert.ErrorContains(t, err, "reaches offset 6")
}

func TestBroadcastViewAndZerosLike(t *testing.T) {
	row, err := FromSlice([]float64{4, 7, 1}, Shape{3})
	require.NoError(t, err)

	layout, err := row.Layout().BroadcastTo(Shape{2, 3})
	require.NoError(t, err)
	b, err := row.View(layout)
	require.NoError(t, err)
	assert.Equal(t, []float64{4, 7, 1, 4, 7, 1}, b.Materialize().Data())

	z := b.ZerosLike()
	assert.Len(t, z.Data(), 3)
	assert.Equal(t, b.Layout(), z.Layout())
}

func TestDataType(t *testing.T) {
	assert.Equal(t, 4, Float32.Size())
	assert.Equal(t, 8, Float64.Size())
	assert.Equal(t, "float32", Float32.String())
	assert.Equal(t, "float64", DataTypeOf[float64]().String())
	assert.Equal(t, "WebGPU", WebGPU.String())
}
