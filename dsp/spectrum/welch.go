package spectrum

import (
	"fmt"

	vecmath "github.com/cwbudde/algo-vecmath"
	"github.com/cwbudde/algo-lti/dsp/core"
	"github.com/cwbudde/algo-lti/dsp/fft"
	"github.com/mjibson/go-dsp/spectral"
	"github.com/mjibson/go-dsp/window"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Pwelch estimates the power spectral density of x by Welch's method:
// the average windowed periodogram of overlapping segments. The default
// is 256-sample segments, or one segment for shorter signals, with half
// overlap and a Hann window. The density integrates to the signal power
// over freqs.
func Pwelch(x []float64, opts ...Option) (psd, freqs []float64, err error) {
	cfg := applyOptions(config{sampleRate: 1, window: window.Hann}, opts)
	if err := cfg.resolve("pwelch", len(x)); err != nil {
		return nil, nil, err
	}
	return welch(x, cfg)
}

// Periodogram estimates the power spectral density of x from a single
// segment spanning the whole signal, unwindowed by default.
func Periodogram(x []float64, opts ...Option) (psd, freqs []float64, err error) {
	cfg := applyOptions(config{
		sampleRate: 1,
		window:     window.Rectangular,
		segment:    len(x),
		hasOverlap: true,
	}, opts)
	if err := cfg.resolve("periodogram", len(x)); err != nil {
		return nil, nil, err
	}
	return welch(x, cfg)
}

func welch(x []float64, cfg config) ([]float64, []float64, error) {
	w := cfg.window(cfg.segment)
	if len(w) != cfg.segment {
		return nil, nil, fmt.Errorf("spectrum: window returned %d values for segment %d: %w", len(w), cfg.segment, core.ErrShapeMismatch)
	}

	sig := x
	if len(sig) < cfg.segment {
		sig = core.PadRight(append([]float64(nil), x...), cfg.segment)
	}
	segs := spectral.Segment(sig, cfg.segment, cfg.overlap)

	acc := make([]float64, cfg.nfft)
	buf := make([]float64, cfg.nfft)
	for _, s := range segs {
		detrend(s, cfg.detrend)
		clear(buf)
		vecmath.MulBlock(buf[:cfg.segment], s, w)
		accumulatePower(acc, fft.Real(buf))
	}

	// Normalise to a density: divide by fs·Σw² and the segment count.
	norm := cfg.sampleRate * floats.Dot(w, w) * float64(len(segs))
	if norm == 0 {
		return nil, nil, fmt.Errorf("spectrum: window has no energy: %w", core.ErrNumerical)
	}
	vecmath.ScaleBlockInPlace(acc, 1/norm)

	psd := acc[:cfg.bins()]
	if !cfg.twoSided {
		// Fold negative frequencies onto their positive twins.
		for k := 1; 2*k < cfg.nfft; k++ {
			psd[k] *= 2
		}
	}
	return psd, cfg.freqs(), nil
}

// detrend removes the mean or the least-squares line from s in place.
func detrend(s []float64, d Detrend) {
	switch d {
	case DetrendMean:
		m := stat.Mean(s, nil)
		for i := range s {
			s[i] -= m
		}
	case DetrendLinear:
		t := make([]float64, len(s))
		for i := range t {
			t[i] = float64(i)
		}
		alpha, beta := stat.LinearRegression(t, s, nil, false)
		for i := range s {
			s[i] -= alpha + beta*t[i]
		}
	}
}
