package core

// Sample is the element type of the buffer helpers.
type Sample interface {
	~float64 | ~complex128
}

// EnsureLen returns a slice with the requested length, reusing buf capacity if possible.
func EnsureLen[T Sample](buf []T, n int) []T {
	if n <= 0 {
		return buf[:0]
	}
	if cap(buf) >= n {
		return buf[:n]
	}
	return make([]T, n)
}

// Zero sets all values in buf to 0.
func Zero[T Sample](buf []T) {
	clear(buf)
}

// CopyInto copies src into dst and returns the number of copied elements.
func CopyInto[T Sample](dst, src []T) int {
	return copy(dst, src)
}

// PadLeft returns x preceded by zeros so that the result has length n.
// x is returned unchanged (not copied) if it is already long enough.
func PadLeft[T Sample](x []T, n int) []T {
	if len(x) >= n {
		return x
	}
	out := make([]T, n)
	copy(out[n-len(x):], x)
	return out
}

// PadRight returns x followed by zeros so that the result has length n.
// x is returned unchanged (not copied) if it is already long enough.
func PadRight[T Sample](x []T, n int) []T {
	if len(x) >= n {
		return x
	}
	out := make([]T, n)
	copy(out, x)
	return out
}
