package fft

import "math"

// chirpZ computes the transform of any length as a power-of-two circular
// convolution with the chirp c[t] = e^{sign·πi·t²/N}:
//
//	X[k] = c[k] · Σⱼ (x[j]·c[j]) · conj(c[k−j])
func chirpZ(x []complex128, sign float64) {
	n := len(x)
	size := 1
	for size < 2*n-1 {
		size <<= 1
	}

	chirp := make([]complex128, n)
	twoN := 2 * n
	for t := range n {
		// t² mod 2N keeps the angle argument small.
		sq := (t * t) % twoN
		s, c := math.Sincos(sign * math.Pi * float64(sq) / float64(n))
		chirp[t] = complex(c, s)
	}

	a := make([]complex128, size)
	b := make([]complex128, size)
	for t := range n {
		a[t] = x[t] * chirp[t]
		conj := complex(real(chirp[t]), -imag(chirp[t]))
		b[t] = conj
		if t > 0 {
			b[size-t] = conj
		}
	}

	radix2(a, forwardSign)
	radix2(b, forwardSign)
	for i := range a {
		a[i] *= b[i]
	}
	radix2(a, inverseSign)

	scale := 1 / float64(size)
	for k := range n {
		x[k] = chirp[k] * a[k] * complex(scale, 0)
	}
}
