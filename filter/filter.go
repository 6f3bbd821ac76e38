package filter

import (
	"errors"

	"github.com/wd15/pymks-clean/fftn"
	"github.com/wd15/pymks-clean/ndarray"
)

// Errors returned by kernel construction, convolution and resizing.
var (
	ErrNilKernel       = errors.New("filter: kernel array is nil")
	ErrKernelRank      = errors.New("filter: kernel must have kernel, spatial and state axes")
	ErrDimensions      = errors.New("filter: dimensions of input do not match the kernel")
	ErrKernelCount     = errors.New("filter: kernel count must be 1 or match the sample count")
	ErrResizeRank      = errors.New("filter: resize shape has the wrong number of axes")
	ErrResizeTooSmall  = errors.New("filter: resize shape is smaller than the current kernel")
	ErrNilTransformer  = errors.New("filter: transformer is nil")
	ErrStateAxisLength = errors.New("filter: state axis of input does not match the kernel")
)

// Filter convolves arrays with a frequency-space kernel of shape
// (n_kernels, spatial..., n_states). A kernel count of 1 broadcasts over
// samples; otherwise it must match the input's sample count.
//
// Concurrent Convolve calls are safe; Resize must not run concurrently
// with either.
type Filter struct {
	fkernel *ndarray.Complex
	t       *fftn.Transformer
}

// New wraps a frequency-space kernel. The kernel array is retained and owned
// by the Filter; it is mutated only through Resize.
func New(fkernel *ndarray.Complex, t *fftn.Transformer) (*Filter, error) {
	if fkernel == nil {
		return nil, ErrNilKernel
	}
	if t == nil {
		return nil, ErrNilTransformer
	}
	if fkernel.Rank() < 3 {
		return nil, ErrKernelRank
	}
	return &Filter{fkernel: fkernel, t: t}, nil
}

// FKernel returns a copy of the frequency-space kernel.
func (f *Filter) FKernel() *ndarray.Complex { return f.fkernel.Clone() }

// SpatialShape returns the kernel's spatial extents.
func (f *Filter) SpatialShape() []int {
	return append([]int(nil), f.fkernel.Shape[1:f.fkernel.Rank()-1]...)
}

// spatialAxes returns the kernel's spatial axis indices (all but the first
// and last axes).
func (f *Filter) spatialAxes() []int {
	axes := make([]int, f.fkernel.Rank()-2)
	for i := range axes {
		axes[i] = i + 1
	}
	return axes
}

// Convolve convolves X against the kernel and sums over the local-state
// axis. X has shape (n_samples, spatial..., n_states) matching the kernel's
// trailing axes; the result has shape (n_samples, spatial...).
func (f *Filter) Convolve(X *ndarray.Array) (*ndarray.Array, error) {
	if X == nil || X.Rank() != f.fkernel.Rank() {
		return nil, ErrDimensions
	}
	if !ndarray.ShapeEqual(X.Shape[1:], f.fkernel.Shape[1:]) {
		return nil, ErrDimensions
	}

	samples := X.Shape[0]
	kernels := f.fkernel.Shape[0]
	if kernels != 1 && kernels != samples {
		return nil, ErrKernelCount
	}

	axes := f.spatialAxes()
	fx, err := f.t.Forward(X.ToComplex(), axes)
	if err != nil {
		return nil, err
	}

	nStates := f.fkernel.Shape[f.fkernel.Rank()-1]
	nSpatial := ndarray.Size(f.fkernel.Shape[1 : f.fkernel.Rank()-1])

	fyShape := append([]int{samples}, f.fkernel.Shape[1:f.fkernel.Rank()-1]...)
	fy := ndarray.ZerosComplex(fyShape...)

	for s := 0; s < samples; s++ {
		k := s
		if kernels == 1 {
			k = 0
		}
		xBase := s * nSpatial * nStates
		kBase := k * nSpatial * nStates
		yBase := s * nSpatial
		for p := 0; p < nSpatial; p++ {
			var acc complex128
			for l := 0; l < nStates; l++ {
				acc += fx.Data[xBase+p*nStates+l] * f.fkernel.Data[kBase+p*nStates+l]
			}
			fy.Data[yBase+p] = acc
		}
	}

	yAxes := make([]int, len(axes))
	copy(yAxes, axes)
	y, err := f.t.Inverse(fy, yAxes)
	if err != nil {
		return nil, err
	}
	return y.Real(), nil
}

// Resize grows the kernel's spatial extents to size, preserving its
// frequency content by zero-padding in centered real space. Shrinking any
// axis is an error.
func (f *Filter) Resize(size []int) error {
	spatial := f.fkernel.Shape[1 : f.fkernel.Rank()-1]
	if len(size) != len(spatial) {
		return ErrResizeRank
	}
	for d := range size {
		if size[d] < spatial[d] {
			return ErrResizeTooSmall
		}
	}

	axes := f.spatialAxes()
	kernel, err := f.t.Inverse(f.fkernel, axes)
	if err != nil {
		return err
	}
	kernel, err = ndarray.FFTShift(kernel, axes)
	if err != nil {
		return err
	}

	padded, err := padSpatialComplex(kernel, axes, size)
	if err != nil {
		return err
	}

	padded, err = ndarray.IFFTShift(padded, axes)
	if err != nil {
		return err
	}
	fkernel, err := f.t.Forward(padded, axes)
	if err != nil {
		return err
	}
	f.fkernel = fkernel
	return nil
}

// padSpatialComplex zero-pads the listed axes of c up to target extents,
// splitting each pad symmetrically with the extra element after the data.
func padSpatialComplex(c *ndarray.Complex, axes []int, target []int) (*ndarray.Complex, error) {
	before := make([]int, c.Rank())
	after := make([]int, c.Rank())
	for i, ax := range axes {
		pad := target[i] - c.Shape[ax]
		if pad < 0 {
			return nil, ErrResizeTooSmall
		}
		before[ax] = pad / 2
		after[ax] = pad - pad/2
	}
	return ndarray.ZeroPadComplex(c, before, after)
}

// padSpatial is padSpatialComplex for real arrays.
func padSpatial(a *ndarray.Array, axes []int, target []int) (*ndarray.Array, error) {
	before := make([]int, a.Rank())
	after := make([]int, a.Rank())
	for i, ax := range axes {
		pad := target[i] - a.Shape[ax]
		if pad < 0 {
			return nil, ErrResizeTooSmall
		}
		before[ax] = pad / 2
		after[ax] = pad - pad/2
	}
	return ndarray.ZeroPad(a, before, after)
}
