package fft

import "math"

// Closed-form butterfly constants.
var (
	sin3 = math.Sqrt(3) / 2

	cos5 = [3]float64{1, math.Cos(2 * math.Pi / 5), math.Cos(4 * math.Pi / 5)}
	sin5 = [3]float64{0, math.Sin(2 * math.Pi / 5), math.Sin(4 * math.Pi / 5)}

	cos7 = [4]float64{1, math.Cos(2 * math.Pi / 7), math.Cos(4 * math.Pi / 7), math.Cos(6 * math.Pi / 7)}
	sin7 = [4]float64{0, math.Sin(2 * math.Pi / 7), math.Sin(4 * math.Pi / 7), math.Sin(6 * math.Pi / 7)}
)

// radix2 is the in-place iterative decimation-in-time transform for
// power-of-two lengths.
func radix2(x []complex128, sign float64) {
	n := len(x)
	bitReverse(x)

	w := make([]complex128, n/2)
	for m := 2; m <= n; m <<= 1 {
		half := m >> 1
		for j := range half {
			w[j] = twiddle(j, m, sign)
		}
		for start := 0; start < n; start += m {
			for j := range half {
				a := x[start+j]
				b := x[start+j+half] * w[j]
				x[start+j] = a + b
				x[start+j+half] = a - b
			}
		}
	}
}

// radixP is the in-place iterative transform for len(x) = p^k.
func radixP(x []complex128, p int, sign float64) {
	n := len(x)
	DigitReverse(x, p)

	t := make([]complex128, p)
	out := make([]complex128, p)
	for m := p; m <= n; m *= p {
		stride := m / p
		w := twiddles(m, sign)
		for start := 0; start < n; start += m {
			for k := range stride {
				for j := range p {
					t[j] = x[start+k+j*stride]
				}
				combine(t, out, w, k, stride, sign)
				for q := range p {
					x[start+k+q*stride] = out[q]
				}
			}
		}
	}
}

// combine evaluates out[q] = Σⱼ t[j]·W_m^{j(k+q·stride)} for q < p, where
// p = len(t), m = p·stride and w holds W_m^i for i < m. The closed-form
// radices pre-twiddle and apply a p-point butterfly; other radices use
// Horner's rule on z = W_m^{k+q·stride}.
func combine(t, out, w []complex128, k, stride int, sign float64) {
	p := len(t)
	switch p {
	case 2, 3, 5, 7:
		for j := 1; j < p; j++ {
			t[j] *= w[j*k]
		}
		switch p {
		case 2:
			out[0] = t[0] + t[1]
			out[1] = t[0] - t[1]
		case 3:
			butterfly3(t, out, sign)
		case 5:
			butterfly5(t, out, sign)
		case 7:
			butterfly7(t, out, sign)
		}
	default:
		for q := range p {
			z := w[k+q*stride]
			acc := t[p-1]
			for j := p - 2; j >= 0; j-- {
				acc = acc*z + t[j]
			}
			out[q] = acc
		}
	}
}

// rot returns sign·i·v.
func rot(v complex128, sign float64) complex128 {
	return complex(-sign*imag(v), sign*real(v))
}

func butterfly3(t, out []complex128, sign float64) {
	s := t[1] + t[2]
	d := rot(t[1]-t[2], sign*sin3)
	m := t[0] - 0.5*s
	out[0] = t[0] + s
	out[1] = m + d
	out[2] = m - d
}

func butterfly5(t, out []complex128, sign float64) {
	a1, b1 := t[1]+t[4], t[1]-t[4]
	a2, b2 := t[2]+t[3], t[2]-t[3]

	r1 := t[0] + complex(cos5[1], 0)*a1 + complex(cos5[2], 0)*a2
	r2 := t[0] + complex(cos5[2], 0)*a1 + complex(cos5[1], 0)*a2
	i1 := rot(complex(sin5[1], 0)*b1+complex(sin5[2], 0)*b2, sign)
	i2 := rot(complex(sin5[2], 0)*b1-complex(sin5[1], 0)*b2, sign)

	out[0] = t[0] + a1 + a2
	out[1] = r1 + i1
	out[4] = r1 - i1
	out[2] = r2 + i2
	out[3] = r2 - i2
}

func butterfly7(t, out []complex128, sign float64) {
	var a, b [4]complex128
	for j := 1; j <= 3; j++ {
		a[j] = t[j] + t[7-j]
		b[j] = t[j] - t[7-j]
	}

	out[0] = t[0] + a[1] + a[2] + a[3]
	for q := 1; q <= 3; q++ {
		re := t[0]
		var im complex128
		for j := 1; j <= 3; j++ {
			idx := (j * q) % 7
			c, s := cos7[fold7(idx)], sin7[fold7(idx)]
			if idx > 3 {
				s = -s
			}
			re += complex(c, 0) * a[j]
			im += complex(s, 0) * b[j]
		}
		im = rot(im, sign)
		out[q] = re + im
		out[7-q] = re - im
	}
}

// fold7 maps an index in [0, 7) onto [0, 3] using cos symmetry.
func fold7(i int) int {
	if i > 3 {
		return 7 - i
	}
	return i
}
