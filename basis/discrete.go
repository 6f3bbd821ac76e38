package basis

import (
	"github.com/wd15/pymks-clean/ndarray"
)

// DiscreteIndicator discretizes integer phase labels into one-hot state
// vectors. Labels must be whole numbers in [0, n_states); anything else is
// reported as an error rather than clamped, since renumbering a phase label
// would silently corrupt the statistics.
type DiscreteIndicator struct {
	nStates int
}

// NewDiscreteIndicator creates a discrete indicator basis over nStates phases.
func NewDiscreteIndicator(nStates int) (*DiscreteIndicator, error) {
	if nStates < 2 {
		return nil, ErrTooFewStates
	}
	return &DiscreteIndicator{nStates: nStates}, nil
}

// NStates returns the number of local states.
func (b *DiscreteIndicator) NStates() int { return b.nStates }

// Discretize maps an (n_samples, spatial...) array of phase labels to
// one-hot vectors of shape (n_samples, spatial..., n_states).
func (b *DiscreteIndicator) Discretize(X *ndarray.Array) (*ndarray.Array, error) {
	return discretizePerVoxel(X, b.nStates, func(dst []float64, v float64) error {
		label := int(v)
		if float64(label) != v || label < 0 || label >= b.nStates {
			return ErrStateOutOfRange
		}
		dst[label] = 1
		return nil
	})
}
