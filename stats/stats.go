package stats

import (
	"errors"

	vecmath "github.com/cwbudde/algo-vecmath"

	"github.com/wd15/pymks-clean/basis"
	"github.com/wd15/pymks-clean/filter"
	"github.com/wd15/pymks-clean/ndarray"
)

// Errors returned by the correlation functions.
var (
	ErrNilInput      = errors.New("stats: input array is nil")
	ErrNoSpatialAxes = errors.New("stats: input must have a sample axis and at least one spatial axis")
	ErrMaskShape     = errors.New("stats: confidence mask shape must match the microstructure")
	ErrPeriodicAxes  = errors.New("stats: periodic axes out of range or repeated")
	ErrTooFewStates  = errors.New("stats: cross-correlation requires at least two local states")
	ErrNilBasis      = errors.New("stats: basis is nil")
)

// Autocorrelate returns the auto-correlations of every local state. The
// result has shape (n_samples, spatial..., n_states), state l's slice being
// the correlation of state l with itself.
func Autocorrelate(X *ndarray.Array, b basis.Basis, opts ...Option) (*ndarray.Array, error) {
	return correlations(X, b, applyOptions(opts), true, false)
}

// Crosscorrelate returns the cross-correlations of every distinct pair of
// local states in PairLabels order. The result has shape
// (n_samples, spatial..., n_states*(n_states-1)/2).
func Crosscorrelate(X *ndarray.Array, b basis.Basis, opts ...Option) (*ndarray.Array, error) {
	if b != nil && b.NStates() < 2 {
		return nil, ErrTooFewStates
	}
	return correlations(X, b, applyOptions(opts), false, true)
}

// Correlate returns the auto-correlations followed by the
// cross-correlations, concatenated along the trailing axis.
func Correlate(X *ndarray.Array, b basis.Basis, opts ...Option) (*ndarray.Array, error) {
	return correlations(X, b, applyOptions(opts), true, true)
}

// PairLabels enumerates the ordered state pairs (l, l') behind the trailing
// axis of Crosscorrelate, in the canonical order: for each roll distance
// k = 1..n_states/2, the pairs (l, (l+k) mod n_states) for ascending l,
// stopping at n_states/2 when n_states is even and k is exactly half so
// symmetric duplicates are skipped. The order is stable across calls.
func PairLabels(nStates int) [][2]int {
	var pairs [][2]int
	for k := 1; k <= nStates/2; k++ {
		lMax := nStates
		if nStates%2 == 0 && k == nStates/2 {
			lMax = nStates / 2
		}
		for l := 0; l < lMax; l++ {
			pairs = append(pairs, [2]int{l, (l + k) % nStates})
		}
	}
	return pairs
}

func correlations(X *ndarray.Array, b basis.Basis, cfg config, autos, crosses bool) (*ndarray.Array, error) {
	if X == nil {
		return nil, ErrNilInput
	}
	if X.Rank() < 2 {
		return nil, ErrNoSpatialAxes
	}
	if b == nil {
		return nil, ErrNilBasis
	}

	spatial := X.Shape[1:]
	if !validPeriodic(cfg.periodic, len(spatial)) {
		return nil, ErrPeriodicAxes
	}
	if cfg.confidence != nil && !ndarray.ShapeEqual(cfg.confidence.Shape, X.Shape) {
		return nil, ErrMaskShape
	}

	discretized, err := b.Discretize(X)
	if err != nil {
		return nil, err
	}
	nStates := b.NStates()
	if cfg.confidence != nil {
		applyMask(discretized, cfg.confidence, nStates)
	}

	padShape := paddedShape(spatial, cfg.periodic)
	corr, err := filter.NewCorrelation(discretized, cfg.transformer, padShape)
	if err != nil {
		return nil, err
	}

	norm, err := normalizer(X.Shape, spatial, padShape, cfg)
	if err != nil {
		return nil, err
	}

	var blocks []*ndarray.Array
	if autos {
		raw, err := corr.Convolve(discretized)
		if err != nil {
			return nil, err
		}
		block, err := cropCenter(raw, spatial)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, block)
	}
	if crosses {
		for k := 1; k <= nStates/2; k++ {
			raw, err := corr.Convolve(rollStates(discretized, k, nStates))
			if err != nil {
				return nil, err
			}
			block, err := cropCenter(raw, spatial)
			if err != nil {
				return nil, err
			}
			lMax := nStates
			if nStates%2 == 0 && k == nStates/2 {
				lMax = nStates / 2
			}
			blocks = append(blocks, takeStates(block, lMax))
		}
	}

	out := concatStates(blocks)
	divideByNorm(out, norm)
	return out, nil
}

// applyMask scales every voxel's state vector by its confidence weight.
func applyMask(discretized, mask *ndarray.Array, nStates int) {
	for i, w := range mask.Data {
		vecmath.ScaleBlockInPlace(discretized.Data[i*nStates:(i+1)*nStates], w)
	}
}

// paddedShape doubles non-periodic extents so circular correlation becomes
// linear correlation there.
func paddedShape(spatial, periodic []int) []int {
	isPeriodic := make([]bool, len(spatial))
	for _, ax := range periodic {
		isPeriodic[ax] = true
	}
	out := make([]int, len(spatial))
	for d, n := range spatial {
		if isPeriodic[d] {
			out[d] = n
		} else {
			out[d] = 2 * n
		}
	}
	return out
}

func validPeriodic(axes []int, nSpatial int) bool {
	seen := make([]bool, nSpatial)
	for _, ax := range axes {
		if ax < 0 || ax >= nSpatial || seen[ax] {
			return false
		}
		seen[ax] = true
	}
	return true
}

// rollStates returns a copy of the discretized microstructure with the state
// axis rolled so that channel l holds state (l+k) mod nStates.
func rollStates(discretized *ndarray.Array, k, nStates int) *ndarray.Array {
	out := ndarray.Zeros(discretized.Shape...)
	voxels := discretized.Size() / nStates
	for i := 0; i < voxels; i++ {
		src := discretized.Data[i*nStates : (i+1)*nStates]
		dst := out.Data[i*nStates : (i+1)*nStates]
		for l := 0; l < nStates; l++ {
			dst[l] = src[(l+k)%nStates]
		}
	}
	return out
}

// cropCenter cuts the center spatial region of a padded correlation back to
// the original extents, keeping lag zero at index n/2.
func cropCenter(raw *ndarray.Array, spatial []int) (*ndarray.Array, error) {
	rank := raw.Rank()
	start := make([]int, rank)
	length := make([]int, rank)
	start[0], length[0] = 0, raw.Shape[0]
	start[rank-1], length[rank-1] = 0, raw.Shape[rank-1]
	for d, n := range spatial {
		m := raw.Shape[d+1]
		start[d+1] = m/2 - n/2
		length[d+1] = n
	}
	return ndarray.Crop(raw, start, length)
}

// takeStates keeps the first n trailing-axis channels.
func takeStates(block *ndarray.Array, n int) *ndarray.Array {
	rank := block.Rank()
	if block.Shape[rank-1] == n {
		return block
	}
	start := make([]int, rank)
	length := append([]int(nil), block.Shape...)
	length[rank-1] = n
	out, err := ndarray.Crop(block, start, length)
	if err != nil {
		// n never exceeds the trailing axis length.
		panic(err)
	}
	return out
}

// concatStates concatenates blocks along the trailing axis. All blocks share
// the leading shape.
func concatStates(blocks []*ndarray.Array) *ndarray.Array {
	if len(blocks) == 1 {
		return blocks[0]
	}
	rank := blocks[0].Rank()
	total := 0
	for _, b := range blocks {
		total += b.Shape[rank-1]
	}
	shape := append([]int(nil), blocks[0].Shape...)
	shape[rank-1] = total
	out := ndarray.Zeros(shape...)

	voxels := ndarray.Size(shape[:rank-1])
	for i := 0; i < voxels; i++ {
		off := 0
		for _, b := range blocks {
			n := b.Shape[rank-1]
			copy(out.Data[i*total+off:i*total+off+n], b.Data[i*n:(i+1)*n])
			off += n
		}
	}
	return out
}
