package ndarray

import "errors"

// Errors returned by array construction and shape manipulation.
var (
	ErrInvalidShape  = errors.New("ndarray: shape must have positive extents")
	ErrDataLength    = errors.New("ndarray: data length does not match shape")
	ErrAxisRange     = errors.New("ndarray: axis out of range")
	ErrPadLength     = errors.New("ndarray: pad amounts must match array rank")
	ErrNegativePad   = errors.New("ndarray: pad amounts must be non-negative")
	ErrCropBounds    = errors.New("ndarray: crop region exceeds array bounds")
	ErrShapeMismatch = errors.New("ndarray: shapes do not match")
)

// Size returns the number of elements implied by shape.
func Size(shape []int) int {
	n := 1
	for _, s := range shape {
		n *= s
	}
	return n
}

// Strides returns row-major strides for shape.
func Strides(shape []int) []int {
	strides := make([]int, len(shape))
	stride := 1
	for d := len(shape) - 1; d >= 0; d-- {
		strides[d] = stride
		stride *= shape[d]
	}
	return strides
}

// ShapeEqual reports whether a and b describe the same shape.
func ShapeEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func validShape(shape []int) bool {
	if len(shape) == 0 {
		return false
	}
	for _, s := range shape {
		if s <= 0 {
			return false
		}
	}
	return true
}

func validAxes(rank int, axes []int) bool {
	seen := make([]bool, rank)
	for _, ax := range axes {
		if ax < 0 || ax >= rank || seen[ax] {
			return false
		}
		seen[ax] = true
	}
	return true
}

// Lines returns the flat start offsets of every 1-d line running along axis,
// together with the stride between consecutive elements of a line. It is the
// iteration primitive for axis-wise transforms.
func Lines(shape []int, axis int) (starts []int, stride int, err error) {
	if axis < 0 || axis >= len(shape) {
		return nil, 0, ErrAxisRange
	}

	strides := Strides(shape)
	count := Size(shape) / shape[axis]
	starts = make([]int, 0, count)
	idx := make([]int, len(shape))

	for {
		off := 0
		for d := range shape {
			if d != axis {
				off += idx[d] * strides[d]
			}
		}
		starts = append(starts, off)

		d := len(shape) - 1
		for d >= 0 {
			if d == axis {
				d--
				continue
			}
			idx[d]++
			if idx[d] < shape[d] {
				break
			}
			idx[d] = 0
			d--
		}
		if d < 0 {
			break
		}
	}

	return starts, strides[axis], nil
}
