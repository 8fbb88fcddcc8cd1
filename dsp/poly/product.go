package poly

import (
	"fmt"

	"github.com/cwbudde/algo-lti/dsp/core"
	"github.com/cwbudde/algo-lti/internal/polyroot"
)

// Product is a multiset of roots [r₁, …, rₘ] representing ∏(x − rᵢ).
// Multiplicity is by repetition; order is preserved.
type Product []complex128

// Expand multiplies out ∏(x − rᵢ) into a monic complex polynomial.
func (r Product) Expand() Poly[complex128] {
	out := Poly[complex128]{1}
	for _, root := range r {
		next := make(Poly[complex128], len(out)+1)
		for i, c := range out {
			next[i] += c
			next[i+1] -= c * root
		}
		out = next
	}
	return out
}

// ExpandReal multiplies out ∏(x − rᵢ) for a conjugate-closed root set and
// returns the real monic polynomial. Conjugate pairs are expanded as exact
// real quadratics. If the set is not conjugate-closed the imaginary parts
// of the complex expansion are discarded.
func (r Product) ExpandReal() Poly[float64] {
	pairs, reals, ok := polyroot.Split(r, polyroot.ConjugateTol)
	if !ok {
		c := r.Expand()
		out := make(Poly[float64], len(c))
		for i, v := range c {
			out[i] = real(v)
		}
		return out
	}

	out := Poly[float64]{1}
	for _, p := range pairs {
		q := polyroot.QuadFromPair(p)
		out = Mul(out, Poly[float64](q[:]))
	}
	for _, x := range reals {
		out = Mul(out, Poly[float64]{1, -x})
	}
	return out
}

// Conj returns the element-wise conjugate set.
func (r Product) Conj() Product {
	out := make(Product, len(r))
	for i, v := range r {
		out[i] = complex(real(v), -imag(v))
	}
	return out
}

// ComplexReal splits roots into conjugate pairs and real values. A root
// counts as real when |imag| ≤ tol·max(1, |r|); each remaining root must
// have a partner within tol of its conjugate. Each pair is returned as
// (upper, conj(upper)) with imag(upper) > 0.
func ComplexReal(roots []complex128, tol float64) (pairs [][2]complex128, reals []float64, err error) {
	if !(tol >= 0 && tol <= 1) {
		return nil, nil, fmt.Errorf("poly: complex/real pairing tolerance %v: %w", tol, core.ErrToleranceOutOfRange)
	}

	pairs, reals, ok := polyroot.Split(roots, tol)
	if !ok {
		return nil, nil, fmt.Errorf("poly: complex/real pairing: %w", core.ErrOddNumberComplex)
	}

	return pairs, reals, nil
}
