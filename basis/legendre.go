package basis

import (
	"github.com/wd15/pymks-clean/internal/core"
	"github.com/wd15/pymks-clean/ndarray"
)

// Legendre discretizes bounded continuous local states onto the first
// n_states Legendre polynomials. The local-state value is rescaled onto
// [-1, 1] and the channel for degree h carries the weight (2h+1)/2 * P_h,
// the coefficient that makes the expansion orthonormal under the L2 inner
// product on the domain. States are ordered by descending degree, so the
// constant P_0 channel is always last. Values outside the domain are
// clamped onto it.
//
// Unlike the indicator bases, Legendre state vectors do not sum to 1.
type Legendre struct {
	nStates  int
	min, max float64
}

// NewLegendre creates a Legendre polynomial basis of order nStates-1 over
// the domain [min, max].
func NewLegendre(nStates int, min, max float64) (*Legendre, error) {
	if nStates < 2 {
		return nil, ErrTooFewStates
	}
	if !(min < max) {
		return nil, ErrInvalidDomain
	}
	return &Legendre{nStates: nStates, min: min, max: max}, nil
}

// NStates returns the number of local states.
func (b *Legendre) NStates() int { return b.nStates }

// Domain returns the declared local-state domain.
func (b *Legendre) Domain() (min, max float64) { return b.min, b.max }

// Discretize maps an (n_samples, spatial...) array of continuous values to
// weighted Legendre values of shape (n_samples, spatial..., n_states),
// highest degree first.
func (b *Legendre) Discretize(X *ndarray.Array) (*ndarray.Array, error) {
	return discretizePerVoxel(X, b.nStates, func(dst []float64, v float64) error {
		v = core.Clamp(v, b.min, b.max)
		scaled := (2*v - b.min - b.max) / (b.max - b.min)
		legendreVals(dst, scaled)
		for h := range dst {
			dst[h] *= (2*float64(h) + 1) / 2
		}
		for i, j := 0, len(dst)-1; i < j; i, j = i+1, j-1 {
			dst[i], dst[j] = dst[j], dst[i]
		}
		return nil
	})
}

// legendreVals fills dst with P_0(x) .. P_{len(dst)-1}(x) using the
// three-term recurrence (k+1) P_{k+1} = (2k+1) x P_k - k P_{k-1}.
func legendreVals(dst []float64, x float64) {
	if len(dst) == 0 {
		return
	}
	dst[0] = 1
	if len(dst) == 1 {
		return
	}
	dst[1] = x
	for k := 1; k < len(dst)-1; k++ {
		dst[k+1] = ((2*float64(k)+1)*x*dst[k] - float64(k)*dst[k-1]) / float64(k+1)
	}
}
