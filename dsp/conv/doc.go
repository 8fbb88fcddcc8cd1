// Package conv provides convolution, correlation and deconvolution built on
// the mixed-radix transform in package fft.
//
//   - [Convolve] computes the linear convolution through a power-of-two
//     spectrum product; [Direct] is the O(N·M) reference kernel.
//   - [Circular] computes the circular convolution modulo max(len(x), len(h))
//     at that exact length.
//   - [Deconvolve] inverts a convolution: y = conv(q, h) + r.
//   - [Xcorr] returns the cross-correlation over lags [-L, L] with optional
//     biased, unbiased or coefficient scaling.
//   - [FFTFilter] applies an FIR filter by block overlap-add, using a reusable
//     [OverlapAdd] convolver.
//
// Regularised spectral inversion for noisy signals lives in
// [DeconvolveSignal] and [InverseFilter].
//
// Example:
//
//	y, err := conv.Convolve(x, h)
//	q, r, err := conv.Deconvolve(y, h)
//	rxx, lags, err := conv.Xcorr(x, x, conv.ScaleCoeff, 16)
package conv
