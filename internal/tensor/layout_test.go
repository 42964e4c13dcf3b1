package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStridedIndex(t *testing.T) {
	tests := []struct {
		name    string
		dims    []int
		strides []int
		want    []int // offset for every logical index
	}{
		{"contiguous 2x3", []int{2, 3}, []int{3, 1}, []int{0, 1, 2, 3, 4, 5}},
		{"transposed 2x3 of 3x2", []int{2, 3}, []int{1, 2}, []int{0, 2, 4, 1, 3, 5}},
		{"broadcast rows", []int{2, 3}, []int{0, 1}, []int{0, 1, 2, 0, 1, 2}},
		{"broadcast cols", []int{2, 3}, []int{1, 0}, []int{0, 0, 0, 1, 1, 1}},
		{"scalar", []int{}, []int{}, []int{0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i, want := range tt.want {
				assert.Equal(t, want, StridedIndex(i, tt.dims, tt.strides), "logical %d", i)
			}
		})
	}
}

func TestUnstridedIndex(t *testing.T) {
	// Transposed view: physical p of a 3x2 buffer seen as 2x3.
	dims, strides := []int{2, 3}, []int{1, 2}
	for i := 0; i < 6; i++ {
		p := StridedIndex(i, dims, strides)
		assert.Equal(t, i, UnstridedIndex(p, dims, strides), "round trip of %d", i)
	}

	// Broadcast axes resolve to coordinate 0.
	assert.Equal(t, 2, UnstridedIndex(2, []int{2, 3}, []int{0, 1}))
	assert.Equal(t, 3, UnstridedIndex(1, []int{2, 3}, []int{1, 0}))
}

func TestRestride(t *testing.T) {
	// Input is a transposed view, output is the row-min broadcast back over
	// the input shape (stride 0 on the reduced axis).
	dims := []int{2, 3}
	inStrides := []int{1, 2}
	outStrides := []int{1, 0}

	for p := 0; p < 6; p++ {
		i := UnstridedIndex(p, dims, inStrides)
		o := StridedIndex(i, dims, outStrides)
		assert.Equal(t, p%2, o, "physical %d belongs to row %d", p, p%2)
	}
}

func TestLayout_Basics(t *testing.T) {
	l := Contiguous(Shape{2, 3, 4})
	assert.Equal(t, []int{12, 4, 1}, l.Strides)
	assert.Equal(t, 3, l.NumDims())
	assert.Equal(t, 24, l.NumElements())
	assert.Equal(t, 24, l.PhysicalNumElements())
	assert.True(t, l.IsContiguous())
	assert.Equal(t, 23, l.Offset(23))
	assert.Equal(t, 17, l.Logical(17))
	assert.True(t, l.Shape().Equal(Shape{2, 3, 4}))

	clone := l.Clone()
	clone.Dims[0] = 9
	assert.Equal(t, 2, l.Dims[0])
}

func TestLayout_Validate(t *testing.T) {
	assert.NoError(t, Contiguous(Shape{2, 2}).Validate())
	assert.Error(t, Layout{Dims: []int{2}, Strides: []int{1, 1}}.Validate())
	assert.Error(t, Layout{Dims: []int{0}, Strides: []int{1}}.Validate())
	assert.Error(t, Layout{Dims: []int{2}, Strides: []int{-1}}.Validate())
}

func TestLayout_Permute(t *testing.T) {
	l := Contiguous(Shape{2, 3, 4})
	p, err := l.Permute(2, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, []int{4, 2, 3}, p.Dims)
	assert.Equal(t, []int{1, 12, 4}, p.Strides)
	assert.False(t, p.IsContiguous())

	_, err = l.Permute(0, 1)
	assert.Error(t, err)
	_, err = l.Permute(0, 0, 1)
	assert.Error(t, err)
	_, err = l.Permute(0, 1, 3)
	assert.Error(t, err)
}

func TestLayout_BroadcastTo(t *testing.T) {
	row := Contiguous(Shape{1, 3})
	b, err := row.BroadcastTo(Shape{2, 3})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, b.Strides)
	assert.Equal(t, 6, b.NumElements())
	assert.Equal(t, 3, b.PhysicalNumElements())

	vec := Contiguous(Shape{3})
	b, err = vec.BroadcastTo(Shape{4, 3})
	require.NoError(t, err)
	assert.Equal(t, []int{4, 3}, b.Dims)
	assert.Equal(t, []int{0, 1}, b.Strides)

	_, err = Contiguous(Shape{2, 3}).BroadcastTo(Shape{3})
	assert.Error(t, err)
	_, err = Contiguous(Shape{4}).BroadcastTo(Shape{2, 3})
	assert.Error(t, err)
}

func TestBroadcastShapes(t *testing.T) {
	tests := []struct {
		a, b      Shape
		want      Shape
		broadcast bool
		wantErr   bool
	}{
		{Shape{3, 1}, Shape{3, 5}, Shape{3, 5}, true, false},
		{Shape{1, 5}, Shape{3, 5}, Shape{3, 5}, true, false},
		{Shape{3, 5}, Shape{3, 5}, Shape{3, 5}, false, false},
		{Shape{5}, Shape{2, 5}, Shape{2, 5}, true, false},
		{Shape{3, 4}, Shape{3, 5}, nil, false, true},
	}
	for _, tt := range tests {
		got, broadcast, err := BroadcastShapes(tt.a, tt.b)
		if tt.wantErr {
			assert.Error(t, err)
			continue
		}
		require.NoError(t, err)
		assert.True(t, got.Equal(tt.want), "%v + %v = %v", tt.a, tt.b, got)
		assert.Equal(t, tt.broadcast, broadcast)
	}
}
