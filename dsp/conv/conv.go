package conv

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-lti/dsp/core"
	"github.com/cwbudde/algo-lti/dsp/fft"
	vecmath "github.com/cwbudde/algo-vecmath"
	"github.com/tphakala/simd/c128"
)

// Errors returned by convolution functions. Empty operands and buffer
// mismatches also match core.ErrShapeMismatch.
var (
	ErrEmptyInput     = fmt.Errorf("conv: empty input: %w", core.ErrShapeMismatch)
	ErrEmptyKernel    = fmt.Errorf("conv: empty kernel: %w", core.ErrShapeMismatch)
	ErrLengthMismatch = fmt.Errorf("conv: buffer length mismatch: %w", core.ErrShapeMismatch)
	ErrInvalidBlock   = errors.New("conv: invalid block size")
)

// Mode specifies the output mode for convolution.
type Mode int

const (
	// ModeFull returns the full convolution result with length len(a)+len(b)-1.
	ModeFull Mode = iota

	// ModeSame returns output with the same length as the first input.
	ModeSame

	// ModeValid returns only the portion where signals fully overlap,
	// with length max(len(a), len(b)) - min(len(a), len(b)) + 1.
	ModeValid
)

// Convolve returns the linear convolution of x and h, of length
// len(x)+len(h)-1. Both inputs are zero-extended to the next power of two,
// multiplied in the frequency domain and transformed back.
func Convolve(x, h []float64) ([]float64, error) {
	if len(x) == 0 {
		return nil, ErrEmptyInput
	}
	if len(h) == 0 {
		return nil, ErrEmptyKernel
	}

	outLen := len(x) + len(h) - 1
	size := core.NextPowerOfTwo(outLen)

	X := realSpectrum(x, size)
	H := realSpectrum(h, size)
	P := make([]complex128, len(X))
	c128.Mul(P, X, H)
	fft.Inverse(P)

	out := make([]float64, outLen)
	for i := range out {
		out[i] = real(P[i])
	}
	return out, nil
}

// ConvolveComplex is the complex-valued counterpart of Convolve.
func ConvolveComplex(x, h []complex128) ([]complex128, error) {
	if len(x) == 0 {
		return nil, ErrEmptyInput
	}
	if len(h) == 0 {
		return nil, ErrEmptyKernel
	}

	outLen := len(x) + len(h) - 1
	size := core.NextPowerOfTwo(outLen)

	X := complexSpectrum(x, size)
	H := complexSpectrum(h, size)
	P := make([]complex128, len(X))
	c128.Mul(P, X, H)
	fft.Inverse(P)

	return P[:outLen:outLen], nil
}

// ConvolveMode performs convolution with the specified output mode.
func ConvolveMode(a, b []float64, mode Mode) ([]float64, error) {
	full, err := Convolve(a, b)
	if err != nil {
		return nil, err
	}

	return trimToMode(full, len(a), len(b), mode), nil
}

// Circular returns the circular convolution of x and h modulo
// n = max(len(x), len(h)). The shorter operand is zero-extended to n and
// the transform runs at length n without further padding.
func Circular(x, h []float64) ([]float64, error) {
	if len(x) == 0 {
		return nil, ErrEmptyInput
	}
	if len(h) == 0 {
		return nil, ErrEmptyKernel
	}

	n := max(len(x), len(h))
	X := realSpectrum(x, n)
	H := realSpectrum(h, n)
	P := make([]complex128, len(X))
	c128.Mul(P, X, H)
	fft.Inverse(P)

	out := make([]float64, n)
	for i := range out {
		out[i] = real(P[i])
	}
	return out, nil
}

// CircularComplex is the complex-valued counterpart of Circular.
func CircularComplex(x, h []complex128) ([]complex128, error) {
	if len(x) == 0 {
		return nil, ErrEmptyInput
	}
	if len(h) == 0 {
		return nil, ErrEmptyKernel
	}

	n := max(len(x), len(h))
	X := complexSpectrum(x, n)
	H := complexSpectrum(h, n)
	P := make([]complex128, len(X))
	c128.Mul(P, X, H)
	fft.Inverse(P)

	return P, nil
}

// Direct performs direct time-domain linear convolution of a and b.
// Returns a new slice of length len(a) + len(b) - 1.
func Direct(a, b []float64) ([]float64, error) {
	if len(a) == 0 {
		return nil, ErrEmptyInput
	}
	if len(b) == 0 {
		return nil, ErrEmptyKernel
	}

	result := make([]float64, len(a)+len(b)-1)
	DirectTo(result, a, b)
	return result, nil
}

// DirectTo performs direct convolution into dst, which must have length
// len(a) + len(b) - 1.
func DirectTo(dst, a, b []float64) {
	clear(dst)

	m := len(b)
	if m < 4 {
		for i, av := range a {
			for j, bv := range b {
				dst[i+j] += av * bv
			}
		}
		return
	}

	temp := make([]float64, m)
	for i, av := range a {
		vecmath.ScaleBlock(temp, b, av)
		vecmath.AddBlockInPlace(dst[i:i+m], temp)
	}
}

// trimToMode extracts the appropriate portion of a full convolution result.
func trimToMode(full []float64, lenA, lenB int, mode Mode) []float64 {
	switch mode {
	case ModeSame:
		start := (lenB - 1) / 2
		return full[start : start+lenA]
	case ModeValid:
		if lenA >= lenB {
			return full[lenB-1 : lenA]
		}
		return full[lenA-1 : lenB]
	default:
		return full
	}
}

// realSpectrum returns the size-point transform of x zero-extended to size.
func realSpectrum(x []float64, size int) []complex128 {
	buf := make([]complex128, size)
	for i, v := range x {
		buf[i] = complex(v, 0)
	}
	fft.Forward(buf)
	return buf
}

func complexSpectrum(x []complex128, size int) []complex128 {
	buf := make([]complex128, size)
	copy(buf, x)
	fft.Forward(buf)
	return buf
}
