// Package stats computes generalized two-point spatial statistics of
// discretized microstructures.
//
// Autocorrelate, Crosscorrelate and Correlate discretize a microstructure
// with a basis and measure, for pairs of local states (l, l'), the
// probability of finding state l at a voxel and state l' at a spatial offset
// r from it. The computation runs in frequency space: FFT each state
// channel, multiply one spectrum by the conjugate of the other, inverse
// transform, and normalize by the number of contributing voxel pairs.
//
// Periodic axes wrap, so every lag sees the full voxel count. Non-periodic
// axes are zero-padded to twice their extent before the transform and each
// lag is normalized by the actual overlap pair count, so boundary lags are
// unbiased. A confidence mask downweights voxels in numerator and
// normalizer identically.
//
// Outputs have shape (n_samples, spatial..., n_pairs) with lag zero at index
// n/2 of each spatial axis. Cross-correlation pair order is canonical and
// stable; see PairLabels.
package stats
