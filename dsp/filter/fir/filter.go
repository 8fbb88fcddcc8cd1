package fir

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/floats"
)

// Filter runs a set of taps as a direct-form FIR filter. The delay line is
// stored twice so the newest n samples are always one contiguous window.
type Filter struct {
	rev   []float64 // taps, last first
	delay []float64
	pos   int
}

// New creates a filter from taps; the slice is copied.
func New(taps []float64) *Filter {
	n := len(taps)
	rev := make([]float64, n)
	for i, h := range taps {
		rev[n-1-i] = h
	}
	return &Filter{
		rev:   rev,
		delay: make([]float64, 2*n),
	}
}

// ProcessSample filters one sample:
//
//	y[n] = Σ h[k]·x[n−k]
func (f *Filter) ProcessSample(x float64) float64 {
	n := len(f.rev)
	if n == 0 {
		return 0
	}
	f.delay[f.pos] = x
	f.delay[f.pos+n] = x
	y := floats.Dot(f.rev, f.delay[f.pos+1:f.pos+1+n])
	f.pos++
	if f.pos == n {
		f.pos = 0
	}
	return y
}

// ProcessBlock filters buf in place.
func (f *Filter) ProcessBlock(buf []float64) {
	for i, x := range buf {
		buf[i] = f.ProcessSample(x)
	}
}

// ProcessBlockTo filters src into dst, which must be at least as long.
func (f *Filter) ProcessBlockTo(dst, src []float64) {
	if len(src) == 0 {
		return
	}
	_ = dst[len(src)-1]
	for i, x := range src {
		dst[i] = f.ProcessSample(x)
	}
}

// Reset clears the delay line.
func (f *Filter) Reset() {
	clear(f.delay)
	f.pos = 0
}

// Order returns len(taps) − 1.
func (f *Filter) Order() int {
	return len(f.rev) - 1
}

// Coefficients returns a copy of the taps in their original order.
func (f *Filter) Coefficients() []float64 {
	n := len(f.rev)
	c := make([]float64, n)
	for i, h := range f.rev {
		c[n-1-i] = h
	}
	return c
}

// Response returns H(e^{jω}) at freqHz for the sample rate sampleRate.
func (f *Filter) Response(freqHz, sampleRate float64) complex128 {
	z := cmplx.Exp(complex(0, -2*math.Pi*freqHz/sampleRate))
	// Horner over the reversed taps evaluates Σ h[k]·z^k.
	var h complex128
	for _, c := range f.rev {
		h = h*z + complex(c, 0)
	}
	return h
}

// MagnitudeDB returns 20·log10|H| at freqHz.
func (f *Filter) MagnitudeDB(freqHz, sampleRate float64) float64 {
	return 20 * math.Log10(cmplx.Abs(f.Response(freqHz, sampleRate)))
}
