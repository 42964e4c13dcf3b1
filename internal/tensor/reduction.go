package tensor

import "github.com/pkg/errors"

// Reduction is the host-side plan of a chunked reduction over some axes of a
// layout. It is shared by every reduction kernel: the forward kernel walks
// Forward in logical order so that each run of ChunkLen consecutive indices
// lands on one output slot, and the backward kernel maps each physical input
// position to its output slot through OutputStrides.
type Reduction struct {
	Input         Layout // input layout in its own axis order
	Axes          []int  // reduced axes, sorted and unique
	Forward       Layout // Input permuted so kept axes come first and reduced axes last
	ChunkLen      int
	OutShape      Shape // kept extents in input order; empty when every axis is reduced
	OutputStrides []int // output strides expressed over Input.Dims, 0 on reduced axes
	Numel         int   // logical input elements
	PhysicalNumel int   // distinct physical input positions
	Dense         bool  // physical positions are exactly [0, PhysicalNumel)
}

// PlanReduction plans reducing in along axes. Negative axes count from the
// end; no axes means reduce everything.
func PlanReduction(in Layout, axes ...int) (Reduction, error) {
	if err := in.Validate(); err != nil {
		return Reduction{}, errors.Wrap(err, "plan reduction")
	}
	ndim := in.NumDims()

	reduced := make([]bool, ndim)
	if len(axes) == 0 {
		for k := range reduced {
			reduced[k] = true
		}
	}
	for _, axis := range axes {
		norm := axis
		if norm < 0 {
			norm += ndim
		}
		if norm < 0 || norm >= ndim {
			return Reduction{}, errors.Errorf("plan reduction: axis %d out of range for %dD layout", axis, ndim)
		}
		if reduced[norm] {
			return Reduction{}, errors.Errorf("plan reduction: axis %d given more than once", axis)
		}
		reduced[norm] = true
	}

	r := Reduction{
		Input:         in.Clone(),
		ChunkLen:      1,
		OutShape:      Shape{},
		OutputStrides: make([]int, ndim),
		Numel:         in.NumElements(),
		PhysicalNumel: in.PhysicalNumElements(),
	}
	r.Dense = maxOffset(in)+1 == r.PhysicalNumel

	perm := make([]int, 0, ndim)
	for k := 0; k < ndim; k++ {
		if !reduced[k] {
			perm = append(perm, k)
			r.OutShape = append(r.OutShape, in.Dims[k])
		}
	}
	for k := 0; k < ndim; k++ {
		if reduced[k] {
			perm = append(perm, k)
			r.Axes = append(r.Axes, k)
			r.ChunkLen *= in.Dims[k]
		}
	}

	forward, err := in.Permute(perm...)
	if err != nil {
		return Reduction{}, errors.Wrap(err, "plan reduction")
	}
	r.Forward = forward

	outStrides := r.OutShape.ComputeStrides()
	kept := 0
	for k := 0; k < ndim; k++ {
		if !reduced[k] {
			r.OutputStrides[k] = outStrides[kept]
			kept++
		}
	}
	return r, nil
}

// NumOut returns the number of output slots.
func (r Reduction) NumOut() int {
	return r.Numel / r.ChunkLen
}

// ElemsPerThread returns the number of logical elements each physical input
// position stands for. Broadcast inputs replicate one position many times.
func (r Reduction) ElemsPerThread() float64 {
	return float64(r.Numel) / float64(r.PhysicalNumel)
}
