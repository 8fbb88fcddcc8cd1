// Package fir designs linear-phase FIR filters and runs them.
//
// [Remez] implements the Parks–McClellan exchange for minimax designs of
// all four linear-phase types. [Fir2] designs by frequency sampling a
// piecewise-linear magnitude and windowing the result. A [Filter] runs any
// set of taps sample by sample; long kernels are better served by the
// overlap-add filter in dsp/conv.
package fir
