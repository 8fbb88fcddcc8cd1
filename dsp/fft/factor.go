package fft

// smallestPrimeFactor returns the smallest prime dividing n (n itself when
// prime). n must be at least 2.
func smallestPrimeFactor(n int) int {
	if n%2 == 0 {
		return 2
	}
	for p := 3; p*p <= n; p += 2 {
		if n%p == 0 {
			return p
		}
	}
	return n
}

// isPowerOf reports whether n = p^k for some k >= 1.
func isPowerOf(n, p int) bool {
	if n < p {
		return false
	}
	for n%p == 0 {
		n /= p
	}
	return n == 1
}

// closestDivisor returns the divisor of n closest to √n from below, or 0
// when n is prime.
func closestDivisor(n int) int {
	d := 1
	for i := 2; i*i <= n; i++ {
		if n%i == 0 {
			d = i
		}
	}
	if d == 1 {
		return 0
	}
	return d
}

// Factors returns the radices the transform uses for length n, outermost
// first. A prime length above 97 is reported as a single factor.
func Factors(n int) []int {
	var out []int
	for n > 1 {
		if n&(n-1) == 0 {
			for n > 1 {
				out = append(out, 2)
				n >>= 1
			}
			break
		}
		p := smallestPrimeFactor(n)
		if p > maxSmallPrime {
			if d := closestDivisor(n); d > 1 {
				p = d
			}
		}
		out = append(out, p)
		n /= p
	}
	return out
}
