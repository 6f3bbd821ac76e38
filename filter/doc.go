// Package filter implements the frequency-space kernel engine behind the MKS
// correlation and localization pipelines.
//
// A Filter owns a kernel held in frequency space and convolves microstructure
// functions against it with the Fourier multiplication theorem: transform,
// multiply, sum over the local-state axis, inverse transform. This turns the
// O(N^2) spatial convolution into O(N log N).
//
// Resize grows the kernel's spatial extent without changing its frequency
// content: the kernel is brought to real space with the origin centered,
// zero-padded symmetrically (the extra zero of an odd pad goes after the
// data), and transformed back.
//
// Correlation is the two-point statistics variant: the kernel is stored
// conjugated so that convolution computes spatial correlation, products are
// kept per local state instead of summed, and the output is origin-centered.
//
// A Filter must not be resized concurrently with Convolve calls.
package filter
