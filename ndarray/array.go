package ndarray

import (
	vecmath "github.com/cwbudde/algo-vecmath"
)

// Array is a dense n-dimensional float64 array in row-major order.
// Data always holds exactly Size(Shape) elements.
type Array struct {
	Shape []int
	Data  []float64
}

// New wraps data in an Array with the given shape.
// The data slice is retained, not copied.
func New(shape []int, data []float64) (*Array, error) {
	if !validShape(shape) {
		return nil, ErrInvalidShape
	}
	if len(data) != Size(shape) {
		return nil, ErrDataLength
	}
	return &Array{Shape: append([]int(nil), shape...), Data: data}, nil
}

// Zeros returns a zero-filled Array with the given shape.
func Zeros(shape ...int) *Array {
	if !validShape(shape) {
		return nil
	}
	return &Array{
		Shape: append([]int(nil), shape...),
		Data:  make([]float64, Size(shape)),
	}
}

// Size returns the total number of elements.
func (a *Array) Size() int { return len(a.Data) }

// Rank returns the number of axes.
func (a *Array) Rank() int { return len(a.Shape) }

// At returns the element at the given multi-index.
func (a *Array) At(idx ...int) float64 {
	return a.Data[a.offset(idx)]
}

// Set assigns the element at the given multi-index.
func (a *Array) Set(v float64, idx ...int) {
	a.Data[a.offset(idx)] = v
}

func (a *Array) offset(idx []int) int {
	if len(idx) != len(a.Shape) {
		panic("ndarray: index rank mismatch")
	}
	off := 0
	stride := 1
	for d := len(a.Shape) - 1; d >= 0; d-- {
		if idx[d] < 0 || idx[d] >= a.Shape[d] {
			panic("ndarray: index out of range")
		}
		off += idx[d] * stride
		stride *= a.Shape[d]
	}
	return off
}

// Clone returns a deep copy.
func (a *Array) Clone() *Array {
	data := make([]float64, len(a.Data))
	copy(data, a.Data)
	return &Array{Shape: append([]int(nil), a.Shape...), Data: data}
}

// Scale multiplies every element by s in place.
func (a *Array) Scale(s float64) {
	vecmath.ScaleBlockInPlace(a.Data, s)
}

// MaxAbs returns the largest absolute element value.
func (a *Array) MaxAbs() float64 {
	return vecmath.MaxAbs(a.Data)
}

// ToComplex returns a complex copy with zero imaginary parts.
func (a *Array) ToComplex() *Complex {
	out := ZerosComplex(a.Shape...)
	for i, v := range a.Data {
		out.Data[i] = complex(v, 0)
	}
	return out
}

// ZeroPad returns a copy of a padded with zeros. before and after give the
// number of zeros added on each side of every axis.
func ZeroPad(a *Array, before, after []int) (*Array, error) {
	shape, err := padShape(a.Shape, before, after)
	if err != nil {
		return nil, err
	}
	out := Zeros(shape...)
	copyRegion(len(a.Shape), a.Shape, Strides(a.Shape), Strides(shape), before,
		func(src, dst, n, srcStride, dstStride int) {
			for i := 0; i < n; i++ {
				out.Data[dst+i*dstStride] = a.Data[src+i*srcStride]
			}
		})
	return out, nil
}

// Crop returns the rectangular region of a starting at start with the given
// lengths along every axis.
func Crop(a *Array, start, length []int) (*Array, error) {
	if err := checkCrop(a.Shape, start, length); err != nil {
		return nil, err
	}
	out := Zeros(length...)
	copyRegion(len(a.Shape), length, Strides(a.Shape), Strides(length), nil,
		func(src, dst, n, srcStride, dstStride int) {
			src += cropOffset(a.Shape, start)
			for i := 0; i < n; i++ {
				out.Data[dst+i*dstStride] = a.Data[src+i*srcStride]
			}
		})
	return out, nil
}

func padShape(shape, before, after []int) ([]int, error) {
	if len(before) != len(shape) || len(after) != len(shape) {
		return nil, ErrPadLength
	}
	out := make([]int, len(shape))
	for d := range shape {
		if before[d] < 0 || after[d] < 0 {
			return nil, ErrNegativePad
		}
		out[d] = shape[d] + before[d] + after[d]
	}
	return out, nil
}

func checkCrop(shape, start, length []int) error {
	if len(start) != len(shape) || len(length) != len(shape) {
		return ErrPadLength
	}
	for d := range shape {
		if start[d] < 0 || length[d] <= 0 || start[d]+length[d] > shape[d] {
			return ErrCropBounds
		}
	}
	return nil
}

func cropOffset(shape, start []int) int {
	strides := Strides(shape)
	off := 0
	for d := range shape {
		off += start[d] * strides[d]
	}
	return off
}

// copyRegion walks every line along the innermost axis of a region and hands
// the (source offset, destination offset) pairs to fn. When offset is non-nil
// it shifts the destination index per axis (used for padding).
func copyRegion(rank int, inner []int, srcStrides, dstStrides, offset []int,
	fn func(src, dst, n, srcStride, dstStride int)) {
	last := rank - 1
	n := inner[last]
	idx := make([]int, rank)

	for {
		src, dst := 0, 0
		for d := 0; d < last; d++ {
			src += idx[d] * srcStrides[d]
			dst += idx[d] * dstStrides[d]
			if offset != nil {
				dst += offset[d] * dstStrides[d]
			}
		}
		if offset != nil {
			dst += offset[last] * dstStrides[last]
		}
		fn(src, dst, n, srcStrides[last], dstStrides[last])

		d := last - 1
		for d >= 0 {
			idx[d]++
			if idx[d] < inner[d] {
				break
			}
			idx[d] = 0
			d--
		}
		if d < 0 {
			break
		}
	}
}
