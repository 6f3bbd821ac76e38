package ndarray

import "math/cmplx"

// Complex is a dense n-dimensional complex128 array in row-major order.
type Complex struct {
	Shape []int
	Data  []complex128
}

// NewComplex wraps data in a Complex with the given shape.
// The data slice is retained, not copied.
func NewComplex(shape []int, data []complex128) (*Complex, error) {
	if !validShape(shape) {
		return nil, ErrInvalidShape
	}
	if len(data) != Size(shape) {
		return nil, ErrDataLength
	}
	return &Complex{Shape: append([]int(nil), shape...), Data: data}, nil
}

// ZerosComplex returns a zero-filled Complex with the given shape.
func ZerosComplex(shape ...int) *Complex {
	if !validShape(shape) {
		return nil
	}
	return &Complex{
		Shape: append([]int(nil), shape...),
		Data:  make([]complex128, Size(shape)),
	}
}

// Size returns the total number of elements.
func (c *Complex) Size() int { return len(c.Data) }

// Rank returns the number of axes.
func (c *Complex) Rank() int { return len(c.Shape) }

// Clone returns a deep copy.
func (c *Complex) Clone() *Complex {
	data := make([]complex128, len(c.Data))
	copy(data, c.Data)
	return &Complex{Shape: append([]int(nil), c.Shape...), Data: data}
}

// MaxAbs returns the largest element magnitude.
func (c *Complex) MaxAbs() float64 {
	var max float64
	for _, v := range c.Data {
		if a := cmplx.Abs(v); a > max {
			max = a
		}
	}
	return max
}

// Conj conjugates every element in place.
func (c *Complex) Conj() {
	for i, v := range c.Data {
		c.Data[i] = complex(real(v), -imag(v))
	}
}

// Real returns the real parts as a new Array.
func (c *Complex) Real() *Array {
	out := Zeros(c.Shape...)
	for i, v := range c.Data {
		out.Data[i] = real(v)
	}
	return out
}

// Imag returns the imaginary parts as a new Array.
func (c *Complex) Imag() *Array {
	out := Zeros(c.Shape...)
	for i, v := range c.Data {
		out.Data[i] = imag(v)
	}
	return out
}

// ZeroPadComplex returns a copy of c padded with zeros. before and after give
// the number of zeros added on each side of every axis.
func ZeroPadComplex(c *Complex, before, after []int) (*Complex, error) {
	shape, err := padShape(c.Shape, before, after)
	if err != nil {
		return nil, err
	}
	out := ZerosComplex(shape...)
	copyRegion(len(c.Shape), c.Shape, Strides(c.Shape), Strides(shape), before,
		func(src, dst, n, srcStride, dstStride int) {
			for i := 0; i < n; i++ {
				out.Data[dst+i*dstStride] = c.Data[src+i*srcStride]
			}
		})
	return out, nil
}

// CropComplex returns the rectangular region of c starting at start with the
// given lengths along every axis.
func CropComplex(c *Complex, start, length []int) (*Complex, error) {
	if err := checkCrop(c.Shape, start, length); err != nil {
		return nil, err
	}
	out := ZerosComplex(length...)
	copyRegion(len(c.Shape), length, Strides(c.Shape), Strides(length), nil,
		func(src, dst, n, srcStride, dstStride int) {
			src += cropOffset(c.Shape, start)
			for i := 0; i < n; i++ {
				out.Data[dst+i*dstStride] = c.Data[src+i*srcStride]
			}
		})
	return out, nil
}
