package fft

// mixed performs one decimation-in-time step with radix r out of place:
// x is deinterleaved into r sub-sequences of length m = N/r in scratch,
// each sub-sequence is transformed recursively (using the matching segment
// of x as its scratch), and the results are combined back into x.
func mixed(x, scratch []complex128, r int, sign float64, bluestein bool) {
	n := len(x)
	m := n / r

	for j := range r {
		sub := scratch[j*m : (j+1)*m]
		for k := range m {
			sub[k] = x[k*r+j]
		}
	}

	for j := range r {
		transform(scratch[j*m:(j+1)*m], x[j*m:(j+1)*m], sign, bluestein)
	}

	w := twiddles(n, sign)
	t := make([]complex128, r)
	out := make([]complex128, r)
	for k := range m {
		for j := range r {
			t[j] = scratch[j*m+k]
		}
		combine(t, out, w, k, m, sign)
		for q := range r {
			x[k+q*m] = out[q]
		}
	}
}
