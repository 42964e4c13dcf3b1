package cpu

import (
	"math"
	"sync/atomic"
	"unsafe"
)

// atomicMin lowers *addr to v if v is smaller and returns the previous value.
//
// There is no floating-point atomic min, so the update is routed through
// integer atomics on the bit pattern. IEEE-754 values with the sign bit clear
// order like their bits read as signed integers, and any value with the sign
// bit set is below all of them in that reading. Values with the sign bit set
// order in reverse of their magnitude bits, so read as unsigned integers a
// more negative value is a larger integer, and every one of them is above the
// non-negative values. Hence:
//
//	sign clear: signed integer atomic min
//	sign set:   unsigned integer atomic max
//
// NaN arguments are ignored, as fminf ignores a NaN operand.
func atomicMin[T float32 | float64](addr *T, v T) T {
	switch p := any(addr).(type) {
	case *float32:
		return T(atomicMinFloat32(p, float32(v)))
	case *float64:
		return T(atomicMinFloat64(p, float64(v)))
	}
	panic("atomicMin: unsupported type")
}

func atomicMinFloat32(addr *float32, v float32) float32 {
	if v != v {
		return math.Float32frombits(atomic.LoadUint32((*uint32)(unsafe.Pointer(addr))))
	}
	bits := math.Float32bits(v)
	if bits>>31 == 0 {
		old := atomicMinInt32((*int32)(unsafe.Pointer(addr)), int32(bits))
		return math.Float32frombits(uint32(old))
	}
	old := atomicMaxUint32((*uint32)(unsafe.Pointer(addr)), bits)
	return math.Float32frombits(old)
}

func atomicMinFloat64(addr *float64, v float64) float64 {
	if v != v {
		return math.Float64frombits(atomic.LoadUint64((*uint64)(unsafe.Pointer(addr))))
	}
	bits := math.Float64bits(v)
	if bits>>63 == 0 {
		old := atomicMinInt64((*int64)(unsafe.Pointer(addr)), int64(bits))
		return math.Float64frombits(uint64(old))
	}
	old := atomicMaxUint64((*uint64)(unsafe.Pointer(addr)), bits)
	return math.Float64frombits(old)
}

// Integer atomic min/max on top of compare-and-swap. Each returns the value
// stored before the call.

func atomicMinInt32(addr *int32, v int32) int32 {
	for {
		old := atomic.LoadInt32(addr)
		if old <= v || atomic.CompareAndSwapInt32(addr, old, v) {
			return old
		}
	}
}

func atomicMaxUint32(addr *uint32, v uint32) uint32 {
	for {
		old := atomic.LoadUint32(addr)
		if old >= v || atomic.CompareAndSwapUint32(addr, old, v) {
			return old
		}
	}
}

func atomicMinInt64(addr *int64, v int64) int64 {
	for {
		old := atomic.LoadInt64(addr)
		if old <= v || atomic.CompareAndSwapInt64(addr, old, v) {
			return old
		}
	}
}

func atomicMaxUint64(addr *uint64, v uint64) uint64 {
	for {
		old := atomic.LoadUint64(addr)
		if old >= v || atomic.CompareAndSwapUint64(addr, old, v) {
			return old
		}
	}
}

// fmin returns the smaller operand, preferring a number over NaN and -0
// over +0, the same order atomicMin applies.
func fmin[T float32 | float64](a, b T) T {
	switch {
	case a != a:
		return b
	case b != b:
		return a
	case b < a, b == a && math.Signbit(float64(b)):
		return b
	default:
		return a
	}
}
