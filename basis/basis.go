package basis

import (
	"errors"

	"github.com/wd15/pymks-clean/ndarray"
)

// Errors returned by basis constructors and Discretize.
var (
	ErrTooFewStates    = errors.New("basis: at least two local states are required")
	ErrInvalidDomain   = errors.New("basis: domain minimum must be less than maximum")
	ErrStateOutOfRange = errors.New("basis: local state label outside [0, n_states)")
	ErrNilInput        = errors.New("basis: input array is nil")
	ErrNoSpatialAxes   = errors.New("basis: input must have a sample axis and at least one spatial axis")
)

// Basis maps local-state values to per-voxel state vectors.
type Basis interface {
	// Discretize maps an (n_samples, spatial...) array to an
	// (n_samples, spatial..., n_states) microstructure function.
	Discretize(X *ndarray.Array) (*ndarray.Array, error)

	// NStates returns the number of local states.
	NStates() int
}

func checkInput(X *ndarray.Array) error {
	if X == nil {
		return ErrNilInput
	}
	if X.Rank() < 2 {
		return ErrNoSpatialAxes
	}
	return nil
}

// discretizePerVoxel allocates the output array and fills each voxel's state
// vector through fn.
func discretizePerVoxel(X *ndarray.Array, nStates int, fn func(dst []float64, v float64) error) (*ndarray.Array, error) {
	if err := checkInput(X); err != nil {
		return nil, err
	}

	shape := append(append([]int(nil), X.Shape...), nStates)
	out := ndarray.Zeros(shape...)
	for i, v := range X.Data {
		if err := fn(out.Data[i*nStates:(i+1)*nStates], v); err != nil {
			return nil, err
		}
	}
	return out, nil
}
