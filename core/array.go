package core

import (
	"errors"
	"fmt"
	"math"
)

// ErrShapeMismatch is returned when array shapes are structurally incompatible.
var ErrShapeMismatch = errors.New("core: shape mismatch")

// Array is a dense row-major N-dimensional float64 array.
//
// The zero value is an empty zero-dimensional array. Arrays produced by the
// constructors own their backing slice; Lane returns views into it.
type Array struct {
	shape   []int
	strides []int
	data    []float64
}

// NewArray returns a zero-filled array with the given shape.
func NewArray(shape ...int) *Array {
	n := shapeLen(shape)
	return &Array{
		shape:   append([]int(nil), shape...),
		strides: stridesOf(shape),
		data:    make([]float64, n),
	}
}

// NewNaNArray returns an array with the given shape where every element is NaN.
func NewNaNArray(shape ...int) *Array {
	a := NewArray(shape...)
	Fill(a.data, math.NaN())
	return a
}

// FromSlice wraps data as an array of the given shape without copying.
// The product of shape must equal len(data).
func FromSlice(data []float64, shape ...int) (*Array, error) {
	if n := shapeLen(shape); n != len(data) {
		return nil, fmt.Errorf("%w: shape %v holds %d values, got %d", ErrShapeMismatch, shape, n, len(data))
	}
	return &Array{
		shape:   append([]int(nil), shape...),
		strides: stridesOf(shape),
		data:    data,
	}, nil
}

// Shape returns a copy of the array shape.
func (a *Array) Shape() []int {
	return append([]int(nil), a.shape...)
}

// Dims returns the number of axes.
func (a *Array) Dims() int { return len(a.shape) }

// Len returns the total number of elements.
func (a *Array) Len() int { return len(a.data) }

// Data returns the backing slice in row-major order.
func (a *Array) Data() []float64 { return a.data }

// Offset returns the flat offset of idx. Panics if idx is out of range.
func (a *Array) Offset(idx ...int) int {
	if len(idx) != len(a.shape) {
		panic(fmt.Sprintf("core: index %v has %d axes, array has %d", idx, len(idx), len(a.shape)))
	}
	off := 0
	for i, v := range idx {
		if v < 0 || v >= a.shape[i] {
			panic(fmt.Sprintf("core: index %v out of range for shape %v", idx, a.shape))
		}
		off += v * a.strides[i]
	}
	return off
}

// At returns the element at idx.
func (a *Array) At(idx ...int) float64 {
	return a.data[a.Offset(idx...)]
}

// Set stores v at idx.
func (a *Array) Set(v float64, idx ...int) {
	a.data[a.Offset(idx...)] = v
}

// Lane returns a view of the last axis at the given leading index.
// prefix must address every axis except the last.
func (a *Array) Lane(prefix ...int) []float64 {
	if len(a.shape) == 0 {
		return a.data
	}
	if len(prefix) != len(a.shape)-1 {
		panic(fmt.Sprintf("core: lane prefix %v needs %d axes", prefix, len(a.shape)-1))
	}
	off := 0
	for i, v := range prefix {
		if v < 0 || v >= a.shape[i] {
			panic(fmt.Sprintf("core: lane prefix %v out of range for shape %v", prefix, a.shape))
		}
		off += v * a.strides[i]
	}
	n := a.shape[len(a.shape)-1]
	return a.data[off : off+n : off+n]
}

// Clone returns a deep copy.
func (a *Array) Clone() *Array {
	return &Array{
		shape:   append([]int(nil), a.shape...),
		strides: append([]int(nil), a.strides...),
		data:    append([]float64(nil), a.data...),
	}
}

// SameShape reports whether a and b have identical shapes.
func SameShape(a, b *Array) bool {
	if len(a.shape) != len(b.shape) {
		return false
	}
	for i := range a.shape {
		if a.shape[i] != b.shape[i] {
			return false
		}
	}
	return true
}

// HasSuffixShape reports whether suffix equals the trailing axes of shape.
func HasSuffixShape(shape, suffix []int) bool {
	if len(suffix) > len(shape) {
		return false
	}
	off := len(shape) - len(suffix)
	for i, v := range suffix {
		if shape[off+i] != v {
			return false
		}
	}
	return true
}

// Ndindex calls fn for every index of shape in row-major order.
// The idx slice is reused between calls; copy it to retain it.
func Ndindex(shape []int, fn func(idx []int)) {
	n := shapeLen(shape)
	if n == 0 {
		return
	}
	idx := make([]int, len(shape))
	for k := 0; k < n; k++ {
		fn(idx)
		for ax := len(shape) - 1; ax >= 0; ax-- {
			idx[ax]++
			if idx[ax] < shape[ax] {
				break
			}
			idx[ax] = 0
		}
	}
}

// Unravel converts a flat row-major offset into an index for shape.
func Unravel(flat int, shape []int, dst []int) []int {
	if cap(dst) < len(shape) {
		dst = make([]int, len(shape))
	}
	dst = dst[:len(shape)]
	for ax := len(shape) - 1; ax >= 0; ax-- {
		dst[ax] = flat % shape[ax]
		flat /= shape[ax]
	}
	return dst
}

// ShapeLen returns the element count for shape.
func ShapeLen(shape []int) int { return shapeLen(shape) }

func shapeLen(shape []int) int {
	n := 1
	for _, v := range shape {
		if v < 0 {
			panic(fmt.Sprintf("core: negative dimension in shape %v", shape))
		}
		n *= v
	}
	return n
}

func stridesOf(shape []int) []int {
	strides := make([]int, len(shape))
	s := 1
	for i := len(shape) - 1; i >= 0; i-- {
		strides[i] = s
		s *= shape[i]
	}
	return strides
}
