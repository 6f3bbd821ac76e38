// Package ndarray provides dense n-dimensional arrays for spatial statistics.
//
// Arrays are flat, row-major float64 or complex128 slices paired with a
// shape. The package covers the array plumbing the correlation and
// localization engines need:
//
//   - construction and shape validation
//   - Fourier-style origin shifts (FFTShift, IFFTShift) over selected axes
//   - zero padding with independent before/after amounts per axis
//   - rectangular cropping
//   - stride-based line enumeration for axis-wise transforms
//
// By convention the leading axis of a microstructure array indexes samples
// and the trailing axis of a discretized array indexes local states; the
// axes in between are spatial. This package is agnostic to that convention
// except where documented.
package ndarray
