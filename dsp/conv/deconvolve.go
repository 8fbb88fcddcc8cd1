package conv

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-lti/dsp/core"
	"github.com/cwbudde/algo-lti/dsp/fft"
	"github.com/cwbudde/algo-lti/dsp/poly"
)

// Deconvolution errors.
var (
	ErrDivisionByZero = fmt.Errorf("conv: division by zero in deconvolution: %w", core.ErrNumerical)
	ErrInvalidEpsilon = errors.New("conv: epsilon must be positive")
)

// spectralFloor is the relative magnitude below which a kernel spectrum bin
// is treated as a zero and spectral division is abandoned.
const spectralFloor = 1e-10

// Deconvolve returns q and r with y = conv(q, h) + r, where
// len(q) = len(y) - len(h) + 1 and r has len(y) with its first len(q)
// entries (numerically) zero. q is obtained by spectral division when the
// kernel spectrum stays above a relative floor and y is divisible by h;
// otherwise polynomial long division supplies the exact quotient.
func Deconvolve(y, h []float64) (q, r []float64, err error) {
	if len(h) == 0 {
		return nil, nil, ErrEmptyKernel
	}
	if len(y) == 0 {
		return nil, nil, ErrEmptyInput
	}
	if h[0] == 0 {
		return nil, nil, fmt.Errorf("%w: leading kernel coefficient is zero", ErrDivisionByZero)
	}

	nq := len(y) - len(h) + 1
	if nq < 0 {
		return nil, nil, fmt.Errorf("conv: deconvolve len(y)=%d < len(h)-1=%d: %w", len(y), len(h)-1, core.ErrShapeMismatch)
	}
	if nq == 0 {
		return []float64{}, append([]float64(nil), y...), nil
	}

	q, ok := spectralQuotient(y, h, nq)
	if ok {
		r = residual(y, q, h)
		if divisible(r[:nq], y) {
			return q, r, nil
		}
	}

	quo, _, err := poly.Div(poly.Poly[float64](y), poly.Poly[float64](h))
	if err != nil {
		return nil, nil, fmt.Errorf("conv: deconvolve: %w", err)
	}
	q = core.PadLeft([]float64(quo), nq)
	return q, residual(y, q, h), nil
}

// spectralQuotient divides the spectra of y and h at the next power of two
// >= len(y). ok is false when |H| drops below the relative floor.
func spectralQuotient(y, h []float64, nq int) ([]float64, bool) {
	size := core.NextPowerOfTwo(len(y))
	Y := realSpectrum(y, size)
	H := realSpectrum(h, size)

	peak := 0.0
	for _, v := range H {
		peak = math.Max(peak, cmplx.Abs(v))
	}
	for i, v := range H {
		if cmplx.Abs(v) < spectralFloor*peak {
			return nil, false
		}
		Y[i] /= v
	}
	fft.Inverse(Y)

	q := make([]float64, nq)
	for i := range q {
		q[i] = real(Y[i])
	}
	return q, true
}

func residual(y, q, h []float64) []float64 {
	full := make([]float64, len(q)+len(h)-1)
	DirectTo(full, q, h)
	r := make([]float64, len(y))
	for i := range y {
		r[i] = y[i] - full[i]
	}
	return r
}

// divisible reports whether the leading residual is negligible against y.
func divisible(head, y []float64) bool {
	scale := 0.0
	for _, v := range y {
		scale = math.Max(scale, math.Abs(v))
	}
	for _, v := range head {
		if math.Abs(v) > 1e-9*math.Max(scale, 1) {
			return false
		}
	}
	return true
}

// DeconvMethod specifies the signal deconvolution method.
type DeconvMethod int

const (
	// DeconvNaive performs plain spectral division.
	DeconvNaive DeconvMethod = iota

	// DeconvRegularized divides by |H|²+ε:
	// X = Y·conj(H) / (|H|² + ε).
	DeconvRegularized

	// DeconvWiener uses the noise-to-signal ratio as regulariser.
	DeconvWiener
)

// DeconvOptions configures DeconvolveSignal.
type DeconvOptions struct {
	Method DeconvMethod

	// Epsilon is the regularisation for DeconvRegularized.
	Epsilon float64

	// NoiseVariance and SignalVariance drive DeconvWiener. Zero values are
	// estimated from the signal (noise at 1% of the signal variance).
	NoiseVariance  float64
	SignalVariance float64
}

// DefaultDeconvOptions returns regularised deconvolution with ε = 1e-6.
func DefaultDeconvOptions() DeconvOptions {
	return DeconvOptions{
		Method:  DeconvRegularized,
		Epsilon: 1e-6,
	}
}

// DeconvolveSignal estimates x from a measured y ≈ conv(x, h) in the
// presence of noise. Unlike Deconvolve it trades exactness for stability.
// The result has length len(y)-len(h)+1, or len(y) if that is not positive.
func DeconvolveSignal(signal, kernel []float64, opts DeconvOptions) ([]float64, error) {
	if len(signal) == 0 {
		return nil, ErrEmptyInput
	}
	if len(kernel) == 0 {
		return nil, ErrEmptyKernel
	}

	outLen := len(signal) - len(kernel) + 1
	if outLen <= 0 {
		outLen = len(signal)
	}

	size := core.NextPowerOfTwo(len(signal))
	Y := realSpectrum(signal, size)
	H := realSpectrum(kernel, size)

	var reg float64
	switch opts.Method {
	case DeconvNaive:
		for i, v := range H {
			if cmplx.Abs(v) < 1e-15 {
				return nil, fmt.Errorf("%w: at frequency bin %d", ErrDivisionByZero, i)
			}
			Y[i] /= v
		}
	case DeconvWiener:
		signalVar := opts.SignalVariance
		if signalVar <= 0 {
			signalVar = variance(signal)
		}
		noiseVar := opts.NoiseVariance
		if noiseVar <= 0 {
			noiseVar = 0.01 * signalVar
		}
		reg = 1e-6
		if signalVar > 0 {
			reg = noiseVar / signalVar
		}
		regularizedDivide(Y, H, reg)
	default:
		reg = opts.Epsilon
		if reg < 0 {
			return nil, ErrInvalidEpsilon
		}
		if reg == 0 {
			reg = 1e-6
		}
		regularizedDivide(Y, H, reg)
	}

	fft.Inverse(Y)
	out := make([]float64, outLen)
	for i := range out {
		out[i] = real(Y[i])
	}
	return out, nil
}

func regularizedDivide(Y, H []complex128, reg float64) {
	for i, h := range H {
		magSq := real(h)*real(h) + imag(h)*imag(h)
		Y[i] = Y[i] * cmplx.Conj(h) / complex(magSq+reg, 0)
	}
}

// InverseFilter returns a length-sample regularised inverse of kernel:
// conv(kernel, inverse) ≈ δ.
func InverseFilter(kernel []float64, length int, epsilon float64) ([]float64, error) {
	if len(kernel) == 0 {
		return nil, ErrEmptyKernel
	}
	if length <= 0 {
		return nil, ErrInvalidBlock
	}
	if epsilon <= 0 {
		epsilon = 1e-6
	}

	size := core.NextPowerOfTwo(max(length, len(kernel)))
	H := realSpectrum(kernel, size)
	inv := make([]complex128, size)
	for i := range inv {
		inv[i] = 1
	}
	regularizedDivide(inv, H, epsilon)
	fft.Inverse(inv)

	out := make([]float64, length)
	for i := range out {
		out[i] = real(inv[i])
	}
	return out, nil
}

// SNR returns 10·log10(Σ original² / Σ (original−recovered)²) in dB.
func SNR(original, recovered []float64) float64 {
	if len(original) != len(recovered) || len(original) == 0 {
		return math.Inf(-1)
	}

	var signalPower, noisePower float64
	for i := range original {
		signalPower += original[i] * original[i]
		d := original[i] - recovered[i]
		noisePower += d * d
	}

	if noisePower == 0 {
		return math.Inf(1)
	}

	return core.LinearPowerToDB(signalPower / noisePower)
}

func variance(x []float64) float64 {
	var mean float64
	for _, v := range x {
		mean += v
	}
	mean /= float64(len(x))

	var sum float64
	for _, v := range x {
		d := v - mean
		sum += d * d
	}
	return sum / float64(len(x))
}
