package localization

import (
	"errors"

	vecmath "github.com/cwbudde/algo-vecmath"

	"github.com/wd15/pymks-clean/basis"
	"github.com/wd15/pymks-clean/fftn"
	"github.com/wd15/pymks-clean/ndarray"
)

// Errors returned by the localization model.
var (
	ErrNotFitted       = errors.New("localization: model has not been calibrated; call Fit first")
	ErrShapeMismatch   = errors.New("localization: X and y must have the same shape")
	ErrNoSpatialAxes   = errors.New("localization: inputs must have a sample axis and at least one spatial axis")
	ErrDimensions      = errors.New("localization: spatial dimensions of X do not match the coefficients")
	ErrResizeRank      = errors.New("localization: resize shape has the wrong number of axes")
	ErrResizeTooSmall  = errors.New("localization: resize shape is smaller than the current coefficients")
	ErrComplexResidue  = errors.New("localization: coefficients carry a non-negligible imaginary part")
	ErrNilBasis        = errors.New("localization: basis is nil")
	ErrNilInput        = errors.New("localization: input array is nil")
)

// residueTol bounds the imaginary magnitude tolerated in real-space
// coefficients, relative to 1 + the largest real magnitude.
const residueTol = 1e-8

// Model is the MKS localization regression model. The zero value is not
// usable; construct with New.
//
// Concurrent Predict, Coeff and FCoeff calls are safe once fitted; Fit and
// ResizeCoeff must not run concurrently with anything else.
type Model struct {
	basis  basis.Basis
	t      *fftn.Transformer
	fcoeff *ndarray.Complex // (spatial..., n_states); nil until fitted
}

// Option configures a Model.
type Option func(*Model)

// WithTransformer sets the FFT transformer. The default is fftn.New().
func WithTransformer(t *fftn.Transformer) Option {
	return func(m *Model) {
		if t != nil {
			m.t = t
		}
	}
}

// New creates an unfitted localization model over the given basis.
func New(b basis.Basis, opts ...Option) *Model {
	m := &Model{basis: b, t: fftn.New()}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

// Fit calibrates influence coefficients from microstructures X and responses
// y, both shaped (n_samples, spatial...). Earlier coefficients are replaced.
func (m *Model) Fit(X, y *ndarray.Array) error {
	if m.basis == nil {
		return ErrNilBasis
	}
	if X == nil || y == nil {
		return ErrNilInput
	}
	if !ndarray.ShapeEqual(X.Shape, y.Shape) {
		return ErrShapeMismatch
	}
	if X.Rank() < 2 {
		return ErrNoSpatialAxes
	}

	fx, err := m.discretizeFFT(X)
	if err != nil {
		return err
	}
	fy, err := m.t.Forward(y.ToComplex(), sampleSpatialAxes(y.Rank()))
	if err != nil {
		return err
	}

	samples := X.Shape[0]
	spatial := X.Shape[1:]
	nStates := m.basis.NStates()
	nFreq := ndarray.Size(spatial)

	fcoeff := ndarray.ZerosComplex(append(append([]int(nil), spatial...), nStates)...)

	a := make([]complex128, samples*nStates)
	rhs := make([]complex128, samples)
	solver := lstsqSolver{scale: fx.MaxAbs()}

	for p := 0; p < nFreq; p++ {
		// The last state's column is spectrally redundant at every nonzero
		// frequency (indicator states sum to 1 per voxel; the Legendre
		// constant channel comes last), so its coefficient is pinned to
		// zero there.
		cols := nStates
		if p != 0 {
			cols = nStates - 1
		}

		for s := 0; s < samples; s++ {
			base := s*nFreq*nStates + p*nStates
			for l := 0; l < cols; l++ {
				a[s*cols+l] = fx.Data[base+l]
			}
			rhs[s] = fy.Data[s*nFreq+p]
		}

		sol, err := solver.solve(a[:samples*cols], samples, cols, rhs)
		if err != nil {
			return err
		}
		copy(fcoeff.Data[p*nStates:p*nStates+cols], sol)
	}

	m.fcoeff = fcoeff
	return nil
}

// Predict computes response fields for microstructures X, shaped
// (n_samples, spatial...) with spatial extents matching the coefficients.
func (m *Model) Predict(X *ndarray.Array) (*ndarray.Array, error) {
	if m.fcoeff == nil {
		return nil, ErrNotFitted
	}
	if X == nil {
		return nil, ErrNilInput
	}
	spatial := m.fcoeff.Shape[:m.fcoeff.Rank()-1]
	if X.Rank() < 2 || !ndarray.ShapeEqual(X.Shape[1:], spatial) {
		return nil, ErrDimensions
	}

	fx, err := m.discretizeFFT(X)
	if err != nil {
		return nil, err
	}

	samples := X.Shape[0]
	nStates := m.basis.NStates()
	nFreq := ndarray.Size(spatial)

	fy := ndarray.ZerosComplex(append([]int{samples}, spatial...)...)
	for s := 0; s < samples; s++ {
		for p := 0; p < nFreq; p++ {
			var acc complex128
			base := s*nFreq*nStates + p*nStates
			for l := 0; l < nStates; l++ {
				acc += fx.Data[base+l] * m.fcoeff.Data[p*nStates+l]
			}
			fy.Data[s*nFreq+p] = acc
		}
	}

	y, err := m.t.Inverse(fy, sampleSpatialAxes(fy.Rank()))
	if err != nil {
		return nil, err
	}
	return y.Real(), nil
}

// ResizeCoeff grows the coefficients' spatial extents to shape, zero-padding
// in centered real space. Shrinking any axis is an error. The model stays
// fitted.
func (m *Model) ResizeCoeff(shape []int) error {
	if m.fcoeff == nil {
		return ErrNotFitted
	}
	spatial := m.fcoeff.Shape[:m.fcoeff.Rank()-1]
	if len(shape) != len(spatial) {
		return ErrResizeRank
	}
	for d := range shape {
		if shape[d] < spatial[d] {
			return ErrResizeTooSmall
		}
	}

	axes := coeffSpatialAxes(m.fcoeff.Rank())
	coeff, err := m.t.Inverse(m.fcoeff, axes)
	if err != nil {
		return err
	}
	coeff, err = ndarray.FFTShift(coeff, axes)
	if err != nil {
		return err
	}

	before := make([]int, coeff.Rank())
	after := make([]int, coeff.Rank())
	for d := range shape {
		pad := shape[d] - spatial[d]
		before[d] = pad / 2
		after[d] = pad - pad/2
	}
	coeff, err = ndarray.ZeroPadComplex(coeff, before, after)
	if err != nil {
		return err
	}

	coeff, err = ndarray.IFFTShift(coeff, axes)
	if err != nil {
		return err
	}
	fcoeff, err := m.t.Forward(coeff, axes)
	if err != nil {
		return err
	}
	m.fcoeff = fcoeff
	return nil
}

// Coeff returns the influence coefficients in real space with the origin
// shifted to the array center. Numerical roundoff leaves a tiny imaginary
// residue which is checked against a tolerance and dropped; a residue above
// tolerance is an error rather than data loss.
func (m *Model) Coeff() (*ndarray.Array, error) {
	if m.fcoeff == nil {
		return nil, ErrNotFitted
	}

	axes := coeffSpatialAxes(m.fcoeff.Rank())
	coeff, err := m.t.Inverse(m.fcoeff, axes)
	if err != nil {
		return nil, err
	}
	coeff, err = ndarray.FFTShift(coeff, axes)
	if err != nil {
		return nil, err
	}

	re := coeff.Real()
	im := coeff.Imag()
	if vecmath.MaxAbs(im.Data) > residueTol*(1+vecmath.MaxAbs(re.Data)) {
		return nil, ErrComplexResidue
	}
	return re, nil
}

// FCoeff returns a copy of the frequency-space influence coefficients.
func (m *Model) FCoeff() (*ndarray.Complex, error) {
	if m.fcoeff == nil {
		return nil, ErrNotFitted
	}
	return m.fcoeff.Clone(), nil
}

// Basis returns the model's discretization basis.
func (m *Model) Basis() basis.Basis { return m.basis }

func (m *Model) discretizeFFT(X *ndarray.Array) (*ndarray.Complex, error) {
	discretized, err := m.basis.Discretize(X)
	if err != nil {
		return nil, err
	}
	return m.t.Forward(discretized.ToComplex(), sampleSpatialAxes(X.Rank()))
}

// sampleSpatialAxes returns axes 1..rank-1: everything after the sample
// axis. For discretized arrays the caller passes the raw input's rank so the
// trailing state axis stays untransformed.
func sampleSpatialAxes(rank int) []int {
	axes := make([]int, rank-1)
	for i := range axes {
		axes[i] = i + 1
	}
	return axes
}

// coeffSpatialAxes returns axes 0..rank-2: coefficients carry no sample axis.
func coeffSpatialAxes(rank int) []int {
	axes := make([]int, rank-1)
	for i := range axes {
		axes[i] = i
	}
	return axes
}
