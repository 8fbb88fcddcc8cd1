// Package fft implements a mixed-radix discrete Fourier transform for
// complex sequences of arbitrary length.
//
// The forward transform computes
//
//	X[k] = Σₙ x[n]·e^{-2πikn/N}
//
// and the inverse uses the positive exponent and scales by 1/N. Lengths
// are decomposed in this order: powers of two run in place with a
// bit-reversal permutation; pure powers of a prime up to 97 run in place
// with a digit-reversal permutation; other lengths split off their
// smallest small prime factor (or a divisor near √N) and recurse out of
// place; remaining primes use Bluestein's chirp-z convolution or, when
// disabled, a direct DFT.
//
// Twiddle factors are computed from cos/sin once per stage. No tables are
// cached between calls.
package fft

import "math"

const (
	forwardSign = -1.0
	inverseSign = 1.0

	// maxSmallPrime bounds the primes handled by in-place stages and
	// generic radix-p butterflies.
	maxSmallPrime = 97
)

type config struct {
	scratch   []complex128
	bluestein bool
}

// Option configures a transform call.
type Option func(*config)

// WithScratch supplies a caller-owned working buffer. Its length must equal
// the transform length; a mismatch panics. The buffer must not alias x.
func WithScratch(buf []complex128) Option {
	return func(cfg *config) {
		cfg.scratch = buf
	}
}

// WithBluestein enables or disables the chirp-z path for large primes.
// When disabled such lengths use the O(N²) direct transform. Enabled by
// default.
func WithBluestein(enabled bool) Option {
	return func(cfg *config) {
		cfg.bluestein = enabled
	}
}

func applyOptions(n int, opts []Option) config {
	cfg := config{bluestein: true}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.scratch != nil && len(cfg.scratch) != n {
		panic("fft: scratch length must equal transform length")
	}
	return cfg
}

// Forward replaces x with its discrete Fourier transform.
func Forward(x []complex128, opts ...Option) {
	cfg := applyOptions(len(x), opts)
	transform(x, cfg.scratch, forwardSign, cfg.bluestein)
}

// Inverse replaces x with its inverse discrete Fourier transform,
// including the 1/N normalisation.
func Inverse(x []complex128, opts ...Option) {
	cfg := applyOptions(len(x), opts)
	transform(x, cfg.scratch, inverseSign, cfg.bluestein)
	if n := len(x); n > 1 {
		scale := complex(1/float64(n), 0)
		for i := range x {
			x[i] *= scale
		}
	}
}

// FFT returns the forward transform of x without modifying it.
func FFT(x []complex128, opts ...Option) []complex128 {
	out := append([]complex128(nil), x...)
	Forward(out, opts...)
	return out
}

// IFFT returns the inverse transform of x without modifying it.
func IFFT(x []complex128, opts ...Option) []complex128 {
	out := append([]complex128(nil), x...)
	Inverse(out, opts...)
	return out
}

// Real returns the forward transform of a real sequence.
func Real(x []float64, opts ...Option) []complex128 {
	out := make([]complex128, len(x))
	for i, v := range x {
		out[i] = complex(v, 0)
	}
	Forward(out, opts...)
	return out
}

// transform dispatches on the factorisation of len(x). scratch may be nil;
// it is allocated only by the out-of-place paths.
func transform(x, scratch []complex128, sign float64, bluestein bool) {
	n := len(x)
	if n <= 1 {
		return
	}

	if n&(n-1) == 0 {
		radix2(x, sign)
		return
	}

	p := smallestPrimeFactor(n)
	if p <= maxSmallPrime {
		if isPowerOf(n, p) {
			radixP(x, p, sign)
			return
		}
		if scratch == nil {
			scratch = make([]complex128, n)
		}
		mixed(x, scratch, p, sign, bluestein)
		return
	}

	if d := closestDivisor(n); d > 1 {
		if scratch == nil {
			scratch = make([]complex128, n)
		}
		mixed(x, scratch, d, sign, bluestein)
		return
	}

	if bluestein {
		chirpZ(x, sign)
		return
	}

	if scratch == nil {
		scratch = make([]complex128, n)
	}
	direct(x, scratch, sign)
}

// twiddle returns e^{sign·2πi·t/n} by Euler's formula.
func twiddle(t, n int, sign float64) complex128 {
	s, c := math.Sincos(sign * 2 * math.Pi * float64(t) / float64(n))
	return complex(c, s)
}

// twiddles returns e^{sign·2πi·t/n} for t in [0, n).
func twiddles(n int, sign float64) []complex128 {
	w := make([]complex128, n)
	for t := range w {
		w[t] = twiddle(t, n, sign)
	}
	return w
}

// direct computes the O(N²) transform through scratch.
func direct(x, scratch []complex128, sign float64) {
	n := len(x)
	w := twiddles(n, sign)
	for k := range n {
		var acc complex128
		idx := 0
		for _, v := range x {
			acc += v * w[idx]
			idx += k
			if idx >= n {
				idx -= n
			}
		}
		scratch[k] = acc
	}
	copy(x, scratch)
}
