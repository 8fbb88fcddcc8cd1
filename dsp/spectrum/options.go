package spectrum

import (
	"fmt"

	"github.com/cwbudde/algo-lti/dsp/core"
)

// Detrend selects what is removed from each segment before windowing.
type Detrend int

const (
	DetrendNone Detrend = iota
	DetrendMean
	DetrendLinear
)

type config struct {
	sampleRate float64
	segment    int
	overlap    int
	hasOverlap bool
	nfft       int
	window     func(int) []float64
	detrend    Detrend
	twoSided   bool
}

// Option configures Periodogram, Pwelch and Stft.
type Option func(*config)

// WithSampleRate scales frequencies to Hz and densities to per-Hz. The
// default of 1 gives frequencies in cycles per sample.
func WithSampleRate(fs float64) Option {
	return func(c *config) { c.sampleRate = fs }
}

// WithSegment sets the segment length and the number of samples adjacent
// segments share.
func WithSegment(length, overlap int) Option {
	return func(c *config) {
		c.segment = length
		c.overlap = overlap
		c.hasOverlap = true
	}
}

// WithNFFT zero-pads every segment to n points before the transform.
func WithNFFT(n int) Option {
	return func(c *config) { c.nfft = n }
}

// WithWindow sets the window applied to every segment.
func WithWindow(fn func(int) []float64) Option {
	return func(c *config) {
		if fn != nil {
			c.window = fn
		}
	}
}

// WithDetrend removes the mean or a least-squares line from every segment.
func WithDetrend(d Detrend) Option {
	return func(c *config) { c.detrend = d }
}

// WithTwoSided returns all nfft bins instead of folding onto [0, fs/2].
func WithTwoSided() Option {
	return func(c *config) { c.twoSided = true }
}

func applyOptions(cfg config, opts []Option) config {
	for _, o := range opts {
		if o != nil {
			o(&cfg)
		}
	}
	return cfg
}

// resolve fills segment defaults for a signal of length n and validates
// the configuration.
func (c *config) resolve(op string, n int) error {
	if n == 0 {
		return fmt.Errorf("spectrum: %s of an empty signal: %w", op, core.ErrShapeMismatch)
	}
	if err := core.ValidateSampleRate(c.sampleRate); err != nil {
		return fmt.Errorf("spectrum: %s: %w", op, err)
	}
	if c.segment == 0 {
		c.segment = min(256, n)
	}
	if !c.hasOverlap {
		c.overlap = c.segment / 2
	}
	if c.segment < 1 || c.overlap < 0 || c.overlap >= c.segment {
		return fmt.Errorf("spectrum: %s: segment %d with overlap %d: %w", op, c.segment, c.overlap, core.ErrShapeMismatch)
	}
	if c.nfft == 0 {
		c.nfft = c.segment
	}
	if c.nfft < c.segment {
		return fmt.Errorf("spectrum: %s: nfft %d shorter than segment %d: %w", op, c.nfft, c.segment, core.ErrShapeMismatch)
	}
	if c.detrend < DetrendNone || c.detrend > DetrendLinear {
		return fmt.Errorf("spectrum: %s: unknown detrend %d: %w", op, int(c.detrend), core.ErrShapeMismatch)
	}
	return nil
}

// bins returns the number of output bins: nfft, or the non-negative half.
func (c *config) bins() int {
	if c.twoSided {
		return c.nfft
	}
	return c.nfft/2 + 1
}

func (c *config) freqs() []float64 {
	f := make([]float64, c.bins())
	for k := range f {
		f[k] = float64(k) * c.sampleRate / float64(c.nfft)
	}
	return f
}
