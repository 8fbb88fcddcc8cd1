package lti

import (
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-lti/dsp/core"
	"github.com/cwbudde/algo-lti/dsp/fft"
)

// DefaultFreqzPoints is the number of frequencies Freqz evaluates when n ≤ 0.
const DefaultFreqzPoints = 512

// Freqz returns the frequency response of the z⁻¹ coefficient arrays b/a at
// n equally spaced frequencies over [0, π), or over [0, 2π) with
// core.WithWhole(true). The axis w is in radians per sample, or in Hz when
// core.WithSampleRate is given.
//
// Both polynomials are evaluated with one FFT each, folding coefficients
// beyond the transform length, which leaves the samples exact.
func Freqz(b, a []float64, n int, opts ...core.AnalysisOption) (h []complex128, w []float64, err error) {
	if len(a) == 0 {
		return nil, nil, wrapf(core.ErrZeroPoles, "Freqz")
	}
	if n <= 0 {
		n = DefaultFreqzPoints
	}
	cfg := core.ApplyAnalysisOptions(opts...)

	size := 2 * n
	if cfg.Whole {
		size = n
	}
	num := fft.FFT(fold(b, size))
	den := fft.FFT(fold(a, size))

	h = make([]complex128, n)
	w = make([]float64, n)
	scale := cfg.FrequencyScale()
	for k := range n {
		h[k] = num[k] / den[k]
		w[k] = 2 * math.Pi * float64(k) / float64(size) * scale
	}
	return h, w, nil
}

// fold wraps x into a length-size complex buffer by summing x[i] into
// bin i mod size.
func fold(x []float64, size int) []complex128 {
	out := make([]complex128, size)
	for i, v := range x {
		out[i%size] += complex(v, 0)
	}
	return out
}

// FreqzAt evaluates a discrete system at z = e^{jω} for every ω in w. The
// frequencies are in radians per sample, or in Hz with core.WithSampleRate.
func FreqzAt(sys Evaluator, w []float64, opts ...core.AnalysisOption) []complex128 {
	cfg := core.ApplyAnalysisOptions(opts...)
	scale := cfg.FrequencyScale()
	h := make([]complex128, len(w))
	for i, f := range w {
		h[i] = sys.Eval(cmplx.Exp(complex(0, f/scale)))
	}
	return h
}

// Freqs evaluates a continuous system at s = jω for every ω in w (rad/s).
func Freqs(sys Evaluator, w []float64) []complex128 {
	h := make([]complex128, len(w))
	for i, f := range w {
		h[i] = sys.Eval(complex(0, f))
	}
	return h
}
