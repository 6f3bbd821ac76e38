// Package fftn provides n-dimensional discrete Fourier transforms over a
// selected set of axes.
//
// A Transformer applies 1-d transforms along each requested axis in turn,
// which is how the correlation and localization engines move sample batches
// of spatial fields into frequency space without touching the sample or
// local-state axes. Forward transforms are unnormalized; Inverse scales by
// 1/N over the transformed axes, so Forward followed by Inverse is the
// identity.
//
// Two backends are available and chosen per Transformer rather than through
// process-wide state:
//
//   - BackendGonum (default): gonum.org/v1/gonum/dsp/fourier, exact for any
//     axis length.
//   - BackendAlgoFFT: planned transforms from algo-fft for power-of-2 axis
//     lengths, falling back to the gonum path per axis otherwise.
//
// WithWorkers spreads independent 1-d lines across goroutines. Every line is
// an independent transform, so results are identical for any worker count.
// A Transformer is safe for concurrent use.
package fftn
