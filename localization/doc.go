// Package localization implements the MKS localization model: a linear
// surrogate that predicts local response fields (strain, stress, ...) from
// discretized microstructures, calibrated against finite-element results.
//
// Fit learns influence coefficients in frequency space by solving an
// independent least-squares problem at every spatial frequency: the
// frequency-space response slice is regressed against the frequency-space
// microstructure function across calibration samples. Because indicator
// bases sum to one at every voxel, the system at nonzero frequencies is
// rank-deficient by exactly one degree of freedom; the last state's
// coefficient is fixed at zero there and excluded from the solve. At the
// zero frequency all states are solved with the minimum-norm solution.
//
// Predict applies the coefficients with the same transform-multiply-sum
// pipeline, and ResizeCoeff grows the coefficients' spatial extent so a
// model calibrated on small domains can predict on larger ones.
//
// A Model is not safe for concurrent mutation: do not share Fit or
// ResizeCoeff calls across goroutines; Predict and coefficient reads may run
// concurrently once fitted.
package localization
