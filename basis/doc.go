// Package basis discretizes microstructure arrays into per-voxel local-state
// functions.
//
// A microstructure array has shape (n_samples, spatial...) with a local-state
// value per voxel. Discretize maps it to (n_samples, spatial..., n_states),
// the microstructure function consumed by the correlation and localization
// engines. Three bases are provided:
//
//   - DiscreteIndicator: integer phase labels, one-hot indicators
//   - ContinuousIndicator: piecewise-linear interpolation between evenly
//     spaced nodes on a bounded domain
//   - Legendre: weighted Legendre polynomials on a bounded domain
//
// The indicator bases preserve the partition of unity: every voxel's state
// vector sums to exactly 1. Continuous-valued inputs outside the declared
// domain are clamped onto it, which keeps that invariant intact; discrete
// labels outside [0, n_states) are an error.
package basis
