package webgpu

import (
	"encoding/binary"
	"math"

	"github.com/pkg/errors"
)

// maxWorkgroupsPerDim is the WebGPU default limit on each dispatch dimension.
const maxWorkgroupsPerDim = 65535

// dispatchGrid returns a 2D workgroup grid covering n invocations. Shaders
// flatten it back as (y * num_workgroups.x + x) * workgroupSize + local.
func dispatchGrid(n int) (x, y uint32) {
	groups := (n + workgroupSize - 1) / workgroupSize
	if groups <= maxWorkgroupsPerDim {
		return uint32(groups), 1 //nolint:gosec // bounded above
	}
	rows := (groups + maxWorkgroupsPerDim - 1) / maxWorkgroupsPerDim
	return maxWorkgroupsPerDim, uint32(rows) //nolint:gosec // rows <= groups
}

// packFloat32 encodes values as little-endian f32 words.
func packFloat32(values []float32) []byte {
	buf := make([]byte, 4*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(v))
	}
	return buf
}

// unpackFloat32 decodes little-endian f32 words into dst.
func unpackFloat32(dst []float32, buf []byte) error {
	if len(buf) < 4*len(dst) {
		return errors.Errorf("webgpu: read back %d bytes, want %d", len(buf), 4*len(dst))
	}
	for i := range dst {
		dst[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[4*i:]))
	}
	return nil
}

// packUint32 concatenates groups of non-negative ints as little-endian u32
// words, the layout the shaders read their geometry from.
func packUint32(groups ...[]int) ([]byte, error) {
	n := 0
	for _, g := range groups {
		n += len(g)
	}
	buf := make([]byte, 0, 4*max(n, 1))
	for _, g := range groups {
		for _, v := range g {
			if v < 0 || int64(v) > math.MaxUint32 {
				return nil, errors.Errorf("webgpu: %d does not fit in u32", v)
			}
			buf = binary.LittleEndian.AppendUint32(buf, uint32(v))
		}
	}
	if len(buf) == 0 {
		// Zero-sized storage bindings are invalid.
		buf = binary.LittleEndian.AppendUint32(buf, 0)
	}
	return buf, nil
}

// forwardParams encodes the forward shader's uniform block. The +Inf fill
// value travels as data: WGSL constant expressions cannot evaluate to Inf.
func forwardParams(numel, chunkLen, ndim int) ([]byte, error) {
	return packUint32([]int{numel, chunkLen, ndim, int(math.Float32bits(float32(math.Inf(1))))})
}

// backwardParams encodes the backward shader's uniform block.
func backwardParams(numel, ndim int, scale float32) ([]byte, error) {
	buf, err := packUint32([]int{numel, ndim, 0, 0})
	if err != nil {
		return nil, err
	}
	binary.LittleEndian.PutUint32(buf[8:], math.Float32bits(scale))
	return buf, nil
}
