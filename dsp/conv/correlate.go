package conv

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-lti/dsp/core"
	"github.com/cwbudde/algo-lti/dsp/fft"
	"github.com/tphakala/simd/c128"
	"github.com/tphakala/simd/f64"
)

// Scale selects the normalisation applied by Xcorr.
type Scale int

const (
	// ScaleNone returns the raw correlation sums.
	ScaleNone Scale = iota
	// ScaleBiased divides every lag by N.
	ScaleBiased
	// ScaleUnbiased divides lag k by N-|k|.
	ScaleUnbiased
	// ScaleCoeff normalises so that the autocorrelation at lag 0 is 1.
	// Cross-correlations are divided by sqrt(rxx[0]·ryy[0]).
	ScaleCoeff
)

func (s Scale) String() string {
	switch s {
	case ScaleNone:
		return "none"
	case ScaleBiased:
		return "biased"
	case ScaleUnbiased:
		return "unbiased"
	case ScaleCoeff:
		return "coeff"
	default:
		return fmt.Sprintf("Scale(%d)", int(s))
	}
}

// Xcorr computes r[k] = Σₙ x[n+k]·y[n] for k in [-L, L] with L = maxLag.
// The shorter input is zero-extended to N = max(len(x), len(y)). A negative
// maxLag selects N-1. The returned lags slice holds k for each output.
func Xcorr(x, y []float64, scale Scale, maxLag int) ([]float64, []int, error) {
	cx := make([]complex128, len(x))
	for i, v := range x {
		cx[i] = complex(v, 0)
	}
	cy := make([]complex128, len(y))
	for i, v := range y {
		cy[i] = complex(v, 0)
	}

	rc, lags, err := XcorrComplex(cx, cy, scale, maxLag)
	if err != nil {
		return nil, nil, err
	}

	r := make([]float64, len(rc))
	for i, v := range rc {
		r[i] = real(v)
	}
	return r, lags, nil
}

// XcorrComplex computes r[k] = Σₙ x[n+k]·conj(y[n]) for k in [-L, L].
// See Xcorr for the length and lag conventions.
func XcorrComplex(x, y []complex128, scale Scale, maxLag int) ([]complex128, []int, error) {
	if len(x) == 0 || len(y) == 0 {
		return nil, nil, ErrEmptyInput
	}

	n := max(len(x), len(y))
	if maxLag < 0 {
		maxLag = n - 1
	}
	if maxLag > n-1 {
		return nil, nil, fmt.Errorf("conv: xcorr max lag %d exceeds %d: %w", maxLag, n-1, core.ErrShapeMismatch)
	}

	size := core.NextPowerOfTwo(2*n - 1)
	X := complexSpectrum(x, size)
	Y := complexSpectrum(y, size)
	for i, v := range Y {
		Y[i] = complex(real(v), -imag(v))
	}
	R := make([]complex128, size)
	c128.Mul(R, X, Y)
	fft.Inverse(R)

	out := make([]complex128, 2*maxLag+1)
	lags := make([]int, 2*maxLag+1)
	for i := range out {
		k := i - maxLag
		lags[i] = k
		if k >= 0 {
			out[i] = R[k]
		} else {
			out[i] = R[size+k]
		}
	}

	switch scale {
	case ScaleBiased:
		inv := 1 / float64(n)
		for i := range out {
			out[i] *= complex(inv, 0)
		}
	case ScaleUnbiased:
		for i := range out {
			out[i] /= complex(float64(n-absInt(lags[i])), 0)
		}
	case ScaleCoeff:
		norm := math.Sqrt(energy(x) * energy(y))
		if norm > 0 {
			re := make([]float64, len(out))
			im := make([]float64, len(out))
			for i, v := range out {
				re[i], im[i] = real(v), imag(v)
			}
			f64.Scale(re, re, 1/norm)
			f64.Scale(im, im, 1/norm)
			for i := range out {
				out[i] = complex(re[i], im[i])
			}
		}
	}

	return out, lags, nil
}

// Correlate computes the full cross-correlation of a and b, of length
// len(a) + len(b) - 1. Output index i corresponds to lag i - (len(b) - 1).
func Correlate(a, b []float64) ([]float64, error) {
	if len(a) == 0 || len(b) == 0 {
		return nil, ErrEmptyInput
	}

	reversed := make([]float64, len(b))
	for i := range b {
		reversed[i] = b[len(b)-1-i]
	}

	return Convolve(a, reversed)
}

// FindPeak finds the index and value of the maximum in a correlation result.
func FindPeak(corr []float64) (index int, value float64) {
	if len(corr) == 0 {
		return -1, 0
	}

	for i, v := range corr {
		if i == 0 || v > value {
			index, value = i, v
		}
	}

	return index, value
}

// LagFromIndex converts a Correlate output index into a lag.
func LagFromIndex(index, lenB int) int {
	return index - (lenB - 1)
}

func energy(x []complex128) float64 {
	var sum float64
	for _, v := range x {
		sum += real(v)*real(v) + imag(v)*imag(v)
	}
	return sum
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
