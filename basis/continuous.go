package basis

import (
	"math"

	"github.com/wd15/pymks-clean/internal/core"
	"github.com/wd15/pymks-clean/ndarray"
)

// ContinuousIndicator discretizes bounded continuous local states with
// piecewise-linear tent functions over n_states evenly spaced nodes. Each
// voxel's state vector sums to 1 and has at most two nonzero entries. Values
// outside the domain are clamped onto it, which keeps the sum intact.
type ContinuousIndicator struct {
	nStates  int
	min, max float64
}

// NewContinuousIndicator creates a continuous indicator basis over the
// domain [min, max].
func NewContinuousIndicator(nStates int, min, max float64) (*ContinuousIndicator, error) {
	if nStates < 2 {
		return nil, ErrTooFewStates
	}
	if !(min < max) {
		return nil, ErrInvalidDomain
	}
	return &ContinuousIndicator{nStates: nStates, min: min, max: max}, nil
}

// NStates returns the number of local states.
func (b *ContinuousIndicator) NStates() int { return b.nStates }

// Domain returns the declared local-state domain.
func (b *ContinuousIndicator) Domain() (min, max float64) { return b.min, b.max }

// Discretize maps an (n_samples, spatial...) array of continuous values to
// tent-function weights of shape (n_samples, spatial..., n_states).
func (b *ContinuousIndicator) Discretize(X *ndarray.Array) (*ndarray.Array, error) {
	spacing := (b.max - b.min) / float64(b.nStates-1)
	return discretizePerVoxel(X, b.nStates, func(dst []float64, v float64) error {
		v = core.Clamp(v, b.min, b.max)
		for h := 0; h < b.nStates; h++ {
			node := b.min + float64(h)*spacing
			w := 1 - math.Abs(v-node)/spacing
			if w > 0 {
				dst[h] = w
			}
		}
		return nil
	})
}
