package tensor

import "github.com/pkg/errors"

// Layout describes how a logical tensor maps onto a flat buffer.
//
// Dims holds the per-axis extents and Strides the physical offset delta for a
// unit step along each axis. A stride of 0 marks a broadcast axis; strides
// need not be monotonic, which is how permuted (transposed) views are expressed.
type Layout struct {
	Dims    []int
	Strides []int
}

// Contiguous returns the row-major layout for shape.
func Contiguous(shape Shape) Layout {
	return Layout{
		Dims:    shape.Clone(),
		Strides: shape.ComputeStrides(),
	}
}

// NumDims returns the number of axes.
func (l Layout) NumDims() int {
	return len(l.Dims)
}

// Shape returns the logical shape described by the layout.
func (l Layout) Shape() Shape {
	return Shape(l.Dims).Clone()
}

// NumElements returns the number of logical elements.
func (l Layout) NumElements() int {
	return Shape(l.Dims).NumElements()
}

// PhysicalNumElements returns the number of distinct buffer positions a dense
// layout touches: broadcast axes do not contribute.
func (l Layout) PhysicalNumElements() int {
	n := 1
	for k, d := range l.Dims {
		if l.Strides[k] != 0 {
			n *= d
		}
	}
	return n
}

// Offset maps logical index i to its physical offset.
func (l Layout) Offset(i int) int {
	return StridedIndex(i, l.Dims, l.Strides)
}

// Logical maps physical offset p back to its canonical logical index.
// Broadcast axes resolve to coordinate 0.
func (l Layout) Logical(p int) int {
	return UnstridedIndex(p, l.Dims, l.Strides)
}

// IsContiguous reports whether the layout is the row-major layout of its shape.
func (l Layout) IsContiguous() bool {
	expected := Shape(l.Dims).ComputeStrides()
	for k := range expected {
		if l.Dims[k] != 1 && l.Strides[k] != expected[k] {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the layout.
func (l Layout) Clone() Layout {
	strides := make([]int, len(l.Strides))
	copy(strides, l.Strides)
	return Layout{Dims: Shape(l.Dims).Clone(), Strides: strides}
}

// Validate checks that dims and strides are consistent.
func (l Layout) Validate() error {
	if len(l.Dims) != len(l.Strides) {
		return errors.Errorf("layout has %d dims but %d strides", len(l.Dims), len(l.Strides))
	}
	if err := Shape(l.Dims).Validate(); err != nil {
		return errors.Wrap(err, "layout")
	}
	for k, s := range l.Strides {
		if s < 0 {
			return errors.Errorf("layout stride %d is negative: %d", k, s)
		}
	}
	return nil
}

// Permute returns the layout with its axes reordered: axis k of the result is
// axis axes[k] of l. The buffer is not touched.
func (l Layout) Permute(axes ...int) (Layout, error) {
	if len(axes) != len(l.Dims) {
		return Layout{}, errors.Errorf("permute: got %d axes for %d-dimensional layout", len(axes), len(l.Dims))
	}
	seen := make([]bool, len(axes))
	out := Layout{Dims: make([]int, len(axes)), Strides: make([]int, len(axes))}
	for k, axis := range axes {
		if axis < 0 || axis >= len(axes) || seen[axis] {
			return Layout{}, errors.Errorf("permute: invalid or repeated axis %d in %v", axis, axes)
		}
		seen[axis] = true
		out.Dims[k] = l.Dims[axis]
		out.Strides[k] = l.Strides[axis]
	}
	return out, nil
}

// BroadcastTo returns a view of l expanded to shape, following NumPy rules:
// axes are right-aligned, and size-1 or missing axes get stride 0.
func (l Layout) BroadcastTo(shape Shape) (Layout, error) {
	result, _, err := BroadcastShapes(Shape(l.Dims), shape)
	if err != nil {
		return Layout{}, errors.Wrap(err, "broadcast")
	}
	if !result.Equal(shape) {
		return Layout{}, errors.Errorf("broadcast: cannot expand %v to %v", l.Dims, shape)
	}

	out := Layout{Dims: shape.Clone(), Strides: make([]int, len(shape))}
	lead := len(shape) - len(l.Dims)
	for k := lead; k < len(shape); k++ {
		src := k - lead
		if l.Dims[src] == shape[k] {
			out.Strides[k] = l.Strides[src]
		}
	}
	return out, nil
}

// StridedIndex maps a logical index to a physical offset. The index is
// decomposed into per-axis coordinates by a divmod chain against dims and
// re-summed weighted by strides. Callers guarantee i < product(dims) and
// len(dims) == len(strides).
func StridedIndex(i int, dims, strides []int) int {
	offset := 0
	for k := len(dims) - 1; k >= 0; k-- {
		offset += (i % dims[k]) * strides[k]
		i /= dims[k]
	}
	return offset
}

// UnstridedIndex recovers the canonical logical index of physical offset p
// under (dims, strides). Broadcast axes contribute coordinate 0. Combined with
// StridedIndex under a different stride set it re-strides a position from one
// view onto another view of the same logical shape.
func UnstridedIndex(p int, dims, strides []int) int {
	idx := 0
	for k := range dims {
		idx *= dims[k]
		if strides[k] != 0 {
			idx += (p / strides[k]) % dims[k]
		}
	}
	return idx
}
