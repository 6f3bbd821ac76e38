package stats

import (
	"math"

	"github.com/wd15/pymks-clean/filter"
	"github.com/wd15/pymks-clean/ndarray"
)

// denominator entries below this are treated as "no overlapping pairs" and
// the corresponding correlation entry is zero by convention.
const zeroPairTol = 1e-9

// normWeights is the per-lag pair-count normalizer. When every axis is
// periodic and no mask is supplied the count is the same at every lag and
// scalar holds it; otherwise field holds one count per sample and lag.
type normWeights struct {
	scalar float64
	field  *ndarray.Array // (n_norm_samples, spatial..., 1)
}

// normalizer computes the pair-count weights: the self-correlation of the
// confidence mask (all ones when absent), taken in the same padded space as
// the data so periodic and non-periodic axes combine correctly.
func normalizer(xShape, spatial, padShape []int, cfg config) (normWeights, error) {
	if cfg.confidence == nil && ndarray.ShapeEqual(spatial, padShape) {
		return normWeights{scalar: float64(ndarray.Size(spatial))}, nil
	}

	var mask *ndarray.Array
	if cfg.confidence != nil {
		mask = cfg.confidence.Clone()
	} else {
		// Without a mask the count is sample-independent; one sample is
		// broadcast over the rest.
		ones := ndarray.Zeros(append([]int{1}, spatial...)...)
		for i := range ones.Data {
			ones.Data[i] = 1
		}
		mask = ones
	}

	shape := append(append([]int(nil), mask.Shape...), 1)
	channel, err := ndarray.New(shape, mask.Data)
	if err != nil {
		return normWeights{}, err
	}

	corr, err := filter.NewCorrelation(channel, cfg.transformer, padShape)
	if err != nil {
		return normWeights{}, err
	}
	raw, err := corr.Convolve(channel)
	if err != nil {
		return normWeights{}, err
	}
	field, err := cropCenter(raw, spatial)
	if err != nil {
		return normWeights{}, err
	}
	return normWeights{field: field}, nil
}

// divideByNorm normalizes correlations in place. Lags with no contributing
// pairs become zero.
func divideByNorm(out *ndarray.Array, norm normWeights) {
	if norm.field == nil {
		out.Scale(1 / norm.scalar)
		return
	}

	rank := out.Rank()
	channels := out.Shape[rank-1]
	nSpatial := ndarray.Size(out.Shape[1 : rank-1])
	samples := out.Shape[0]
	normSamples := norm.field.Shape[0]

	for s := 0; s < samples; s++ {
		ns := s
		if normSamples == 1 {
			ns = 0
		}
		for p := 0; p < nSpatial; p++ {
			den := norm.field.Data[ns*nSpatial+p]
			base := (s*nSpatial + p) * channels
			if math.Abs(den) < zeroPairTol {
				for c := 0; c < channels; c++ {
					out.Data[base+c] = 0
				}
				continue
			}
			for c := 0; c < channels; c++ {
				out.Data[base+c] /= den
			}
		}
	}
}
