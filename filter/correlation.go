package filter

import (
	"github.com/wd15/pymks-clean/fftn"
	"github.com/wd15/pymks-clean/ndarray"
)

// Correlation computes spatial correlations against a fixed real-space
// kernel. The kernel's spectrum is stored conjugated, so Convolve yields
// corr(r) = sum_s kernel(s) * x(s + r) per local state, with the zero lag
// moved to the center of each spatial axis.
//
// padShape sets the working spatial extents: kernel and inputs are
// zero-padded to it before transforming, which is how non-periodic axes get
// boundary-aware statistics (pad to twice the extent and the circular
// correlation becomes the linear one).
type Correlation struct {
	fkernel  *ndarray.Complex
	padShape []int
	t        *fftn.Transformer
}

// NewCorrelation builds a correlation filter from a real-space kernel of
// shape (n_kernels, spatial..., n_states). A nil padShape keeps the kernel's
// own spatial extents.
func NewCorrelation(kernel *ndarray.Array, t *fftn.Transformer, padShape []int) (*Correlation, error) {
	if kernel == nil {
		return nil, ErrNilKernel
	}
	if t == nil {
		return nil, ErrNilTransformer
	}
	if kernel.Rank() < 3 {
		return nil, ErrKernelRank
	}

	spatial := kernel.Shape[1 : kernel.Rank()-1]
	if padShape == nil {
		padShape = spatial
	}
	if len(padShape) != len(spatial) {
		return nil, ErrResizeRank
	}
	padShape = append([]int(nil), padShape...)

	axes := spatialAxesFor(kernel.Rank())
	padded, err := padSpatial(kernel, axes, padShape)
	if err != nil {
		return nil, err
	}

	fkernel, err := t.Forward(padded.ToComplex(), axes)
	if err != nil {
		return nil, err
	}
	fkernel.Conj()

	return &Correlation{fkernel: fkernel, padShape: padShape, t: t}, nil
}

// PadShape returns the working spatial extents.
func (c *Correlation) PadShape() []int {
	return append([]int(nil), c.padShape...)
}

// Convolve correlates X against the kernel per local state. X has shape
// (n_samples, spatial..., n_states); spatial extents at most the working
// extents are zero-padded up to them. The result has shape
// (n_samples, pad_spatial..., n_states) with lag zero at index n/2 of every
// spatial axis.
func (c *Correlation) Convolve(X *ndarray.Array) (*ndarray.Array, error) {
	if X == nil || X.Rank() != c.fkernel.Rank() {
		return nil, ErrDimensions
	}

	nStates := c.fkernel.Shape[c.fkernel.Rank()-1]
	if X.Shape[X.Rank()-1] != nStates {
		return nil, ErrStateAxisLength
	}

	samples := X.Shape[0]
	kernels := c.fkernel.Shape[0]
	if kernels != 1 && kernels != samples {
		return nil, ErrKernelCount
	}

	axes := spatialAxesFor(X.Rank())
	padded := X
	if !ndarray.ShapeEqual(X.Shape[1:X.Rank()-1], c.padShape) {
		var err error
		padded, err = padSpatial(X, axes, c.padShape)
		if err != nil {
			return nil, ErrDimensions
		}
	}

	fx, err := c.t.Forward(padded.ToComplex(), axes)
	if err != nil {
		return nil, err
	}

	// Per-state products; the state axis survives.
	nSpatial := ndarray.Size(c.padShape)
	for s := 0; s < samples; s++ {
		k := s
		if kernels == 1 {
			k = 0
		}
		xBase := s * nSpatial * nStates
		kBase := k * nSpatial * nStates
		for i := 0; i < nSpatial*nStates; i++ {
			fx.Data[xBase+i] *= c.fkernel.Data[kBase+i]
		}
	}

	corr, err := c.t.Inverse(fx, axes)
	if err != nil {
		return nil, err
	}
	corr, err = ndarray.FFTShift(corr, axes)
	if err != nil {
		return nil, err
	}
	return corr.Real(), nil
}

func spatialAxesFor(rank int) []int {
	axes := make([]int, rank-2)
	for i := range axes {
		axes[i] = i + 1
	}
	return axes
}
