package spectrum

import (
	"fmt"

	vecmath "github.com/cwbudde/algo-vecmath"
	"github.com/cwbudde/algo-lti/dsp/core"
	"github.com/cwbudde/algo-lti/dsp/fft"
	"github.com/mjibson/go-dsp/spectral"
	"github.com/mjibson/go-dsp/window"
)

// Spectrogram is the result of Stft. Frames[i][k] is bin k of the segment
// centred at Times[i]; Freqs[k] is the bin frequency.
type Spectrogram struct {
	Frames [][]complex128
	Times  []float64
	Freqs  []float64
}

// Magnitude returns |Frames| frame by frame.
func (s Spectrogram) Magnitude() [][]float64 {
	out := make([][]float64, len(s.Frames))
	for i, f := range s.Frames {
		out[i] = Magnitude(f)
	}
	return out
}

// Stft computes the short-time Fourier transform of x: the transform of
// every windowed segment. Defaults are as for Pwelch. Frames hold the
// non-negative bins unless WithTwoSided is given. Signals shorter than one
// segment fail with core.ErrShapeMismatch.
func Stft(x []float64, opts ...Option) (Spectrogram, error) {
	cfg := applyOptions(config{sampleRate: 1, window: window.Hann}, opts)
	if err := cfg.resolve("stft", len(x)); err != nil {
		return Spectrogram{}, err
	}
	if len(x) < cfg.segment {
		return Spectrogram{}, fmt.Errorf("spectrum: stft: %d samples for segment %d: %w", len(x), cfg.segment, core.ErrShapeMismatch)
	}
	w := cfg.window(cfg.segment)
	if len(w) != cfg.segment {
		return Spectrogram{}, fmt.Errorf("spectrum: window returned %d values for segment %d: %w", len(w), cfg.segment, core.ErrShapeMismatch)
	}

	segs := spectral.Segment(x, cfg.segment, cfg.overlap)
	out := Spectrogram{
		Frames: make([][]complex128, len(segs)),
		Times:  make([]float64, len(segs)),
		Freqs:  cfg.freqs(),
	}
	hop := cfg.segment - cfg.overlap
	buf := make([]float64, cfg.nfft)
	for i, s := range segs {
		detrend(s, cfg.detrend)
		clear(buf)
		vecmath.MulBlock(buf[:cfg.segment], s, w)
		out.Frames[i] = fft.Real(buf)[:cfg.bins()]
		out.Times[i] = (float64(i*hop) + float64(cfg.segment)/2) / cfg.sampleRate
	}
	return out, nil
}
