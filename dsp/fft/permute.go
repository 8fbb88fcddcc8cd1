package fft

// DigitReverse permutes x in place so that index i = Σ dⱼ·pʲ moves to
// Σ dⱼ·p^{k-1-j}, where len(x) = p^k. For p = 2 this is the bit-reversal
// permutation. It panics if len(x) is not a power of p.
func DigitReverse(x []complex128, p int) {
	n := len(x)
	if n <= 1 {
		return
	}
	if p < 2 || !isPowerOf(n, p) {
		panic("fft: length is not a power of the radix")
	}

	digits := 0
	for m := n; m > 1; m /= p {
		digits++
	}

	for i := range n {
		j := reverseDigits(i, p, digits)
		if j > i {
			x[i], x[j] = x[j], x[i]
		}
	}
}

func reverseDigits(i, p, digits int) int {
	r := 0
	for range digits {
		r = r*p + i%p
		i /= p
	}
	return r
}

// bitReverse is the radix-2 specialisation of DigitReverse.
func bitReverse(x []complex128) {
	n := len(x)
	j := 0
	for i := 1; i < n; i++ {
		bit := n >> 1
		for ; j&bit != 0; bit >>= 1 {
			j ^= bit
		}
		j |= bit
		if i < j {
			x[i], x[j] = x[j], x[i]
		}
	}
}
