package fir

import (
	"fmt"
	"math"
	"math/cmplx"

	vecmath "github.com/cwbudde/algo-vecmath"
	"github.com/cwbudde/algo-lti/dsp/core"
	"github.com/cwbudde/algo-lti/dsp/fft"
	"github.com/mjibson/go-dsp/window"
)

// DefaultFir2GridPoints is the frequency grid size used by Fir2 for filters
// shorter than 1024 taps.
const DefaultFir2GridPoints = 512

type fir2Config struct {
	gridPoints int
	rampWidth  int
	ramp       bool
	window     func(int) []float64
	coeffs     []float64
}

// Fir2Option configures Fir2.
type Fir2Option func(*fir2Config)

// WithGridPoints sets the number of grid intervals between DC and Nyquist.
// It is rounded up to a power of two.
func WithGridPoints(n int) Fir2Option {
	return func(c *fir2Config) { c.gridPoints = n }
}

// WithRampWidth sets the width, in grid intervals, of the transition placed
// across a step in the magnitude. Zero keeps steps sharp. The default is
// one twentieth of the grid.
func WithRampWidth(n int) Fir2Option {
	return func(c *fir2Config) {
		c.rampWidth = n
		c.ramp = true
	}
}

// WithWindow sets the window function applied to the impulse response.
// The default is go-dsp's Hamming window.
func WithWindow(fn func(int) []float64) Fir2Option {
	return func(c *fir2Config) {
		if fn != nil {
			c.window = fn
		}
	}
}

// WithWindowCoefficients applies explicit window coefficients, one per tap.
func WithWindowCoefficients(w []float64) Fir2Option {
	return func(c *fir2Config) { c.coeffs = w }
}

// Fir2 designs an n-tap linear-phase FIR filter by frequency sampling.
//
// freq holds breakpoints normalised to Nyquist, starting at 0 and ending at
// 1, nondecreasing; a repeated frequency marks a step. mag holds the
// magnitude at each breakpoint. The magnitude is interpolated linearly onto
// a regular grid, transformed to a centred impulse response and windowed.
//
//nolint:cyclop
func Fir2(n int, freq, mag []float64, opts ...Fir2Option) ([]float64, error) {
	cfg := fir2Config{window: window.Hamming}
	for _, o := range opts {
		if o != nil {
			o(&cfg)
		}
	}

	if n < 1 {
		return nil, fmt.Errorf("fir: fir2 needs at least one tap, got %d: %w", n, core.ErrShapeMismatch)
	}
	if len(freq) < 2 || len(freq) != len(mag) {
		return nil, fmt.Errorf("fir: fir2: %d frequencies and %d magnitudes: %w", len(freq), len(mag), core.ErrShapeMismatch)
	}
	if freq[0] != 0 || freq[len(freq)-1] != 1 {
		return nil, fmt.Errorf("fir: fir2: frequencies must run from 0 to 1, got %v to %v: %w",
			freq[0], freq[len(freq)-1], core.ErrEdgesOutOfRange)
	}
	for i := 1; i < len(freq); i++ {
		if !(freq[i] >= freq[i-1]) {
			return nil, fmt.Errorf("fir: fir2: frequencies %v: %w", freq, core.ErrEdgesNotNondecreasing)
		}
		if i+1 < len(freq) && freq[i-1] == freq[i] && freq[i] == freq[i+1] {
			return nil, fmt.Errorf("fir: fir2: frequency %v repeated more than twice: %w", freq[i], core.ErrEdgesNotNondecreasing)
		}
	}
	if cfg.coeffs != nil && len(cfg.coeffs) != n {
		return nil, fmt.Errorf("fir: fir2: %d window coefficients for %d taps: %w", len(cfg.coeffs), n, core.ErrShapeMismatch)
	}

	grid := cfg.gridPoints
	if grid <= 0 {
		grid = DefaultFir2GridPoints
		if n > 1024 {
			grid = n
		}
	}
	grid = core.NextPowerOfTwo(grid)
	if 2*grid < n {
		return nil, fmt.Errorf("fir: fir2: %d grid points for %d taps: %w", grid, n, core.ErrShapeMismatch)
	}
	ramp := grid / 20
	if cfg.ramp {
		ramp = cfg.rampWidth
	}
	if ramp < 0 {
		return nil, fmt.Errorf("fir: fir2: ramp width %d: %w", ramp, core.ErrShapeMismatch)
	}

	f, m := freq, mag
	if ramp > 0 {
		f, m = applyRamps(freq, mag, float64(ramp)/float64(grid))
	}
	amp := interpolate(f, m, grid)

	// Centre the response on (n−1)/2 with a linear phase term and keep the
	// spectrum Hermitian so the transform is real.
	size := 2 * grid
	centre := float64(n-1) / 2
	spec := make([]complex128, size)
	for k := 0; k < grid; k++ {
		spec[k] = complex(amp[k], 0) * cmplx.Exp(complex(0, -math.Pi*float64(k)*centre/float64(grid)))
		if k > 0 {
			spec[size-k] = cmplx.Conj(spec[k])
		}
	}
	spec[grid] = complex(amp[grid]*math.Cos(math.Pi*centre), 0)
	fft.Inverse(spec)

	h := make([]float64, n)
	for i := range h {
		h[i] = real(spec[i])
	}

	w := cfg.coeffs
	if w == nil {
		w = cfg.window(n)
		if len(w) != n {
			return nil, fmt.Errorf("fir: fir2: window returned %d values for %d taps: %w", len(w), n, core.ErrShapeMismatch)
		}
	}
	vecmath.MulBlockInPlace(h, w)
	return h, nil
}

// applyRamps splits every repeated frequency into a linear transition of
// the given width centred on the step. The step point itself keeps the
// mean of both magnitudes.
func applyRamps(freq, mag []float64, width float64) ([]float64, []float64) {
	f := make([]float64, 0, len(freq)+len(freq)/2)
	m := make([]float64, 0, cap(f))
	for i := 0; i < len(freq); i++ {
		if i+1 < len(freq) && freq[i] == freq[i+1] {
			step := freq[i]
			lo := math.Max(step-width/2, 0)
			hi := math.Min(step+width/2, 1)
			// Clamp against the neighbouring breakpoints so the
			// sequence stays monotonic.
			if len(f) > 0 {
				lo = math.Max(lo, f[len(f)-1])
			}
			if i+2 < len(freq) {
				hi = math.Min(hi, freq[i+2])
			}
			f = append(f, lo, step, hi)
			m = append(m,
				at(freq, mag, i, lo),
				(mag[i]+mag[i+1])/2,
				at(freq, mag, i+1, hi))
			i++
			continue
		}
		f = append(f, freq[i])
		m = append(m, mag[i])
	}
	return f, m
}

// at interpolates the original breakpoints at x, taking the segment on the
// side of index i that contains x.
func at(freq, mag []float64, i int, x float64) float64 {
	switch {
	case x < freq[i] && i > 0:
		return lerp(freq[i-1], mag[i-1], freq[i], mag[i], x)
	case x > freq[i] && i+1 < len(freq):
		return lerp(freq[i], mag[i], freq[i+1], mag[i+1], x)
	default:
		return mag[i]
	}
}

func lerp(x0, y0, x1, y1, x float64) float64 {
	if x1 == x0 {
		return y0
	}
	return y0 + (y1-y0)*(x-x0)/(x1-x0)
}

// interpolate samples the piecewise-linear magnitude at k/grid for
// k = 0..grid. At a step the later breakpoint wins.
func interpolate(f, m []float64, grid int) []float64 {
	out := make([]float64, grid+1)
	seg := 0
	for k := range out {
		x := float64(k) / float64(grid)
		for seg+2 < len(f) && x >= f[seg+1] {
			seg++
		}
		out[k] = lerp(f[seg], m[seg], f[seg+1], m[seg+1], x)
	}
	return out
}
