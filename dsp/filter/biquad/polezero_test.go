package biquad

import (
	"math/cmplx"
	"testing"
)

func TestCoefficientsRoots_SecondOrder(t *testing.T) {
	p1 := complex(0.72, 0.19)
	p2 := cmplx.Conj(p1)
	z1 := complex(0.31, 0.44)
	z2 := cmplx.Conj(z1)

	b0 := 2.3
	c := Coefficients{
		B0: b0,
		B1: -b0 * real(z1+z2),
		B2: b0 * real(z1*z2),
		A1: -real(p1 + p2),
		A2: real(p1 * p2),
	}

	if got := c.Poles(); !unorderedRootsClose(got, p1, p2, 1e-12) {
		t.Fatalf("unexpected poles: got=%v want={%v,%v}", got, p1, p2)
	}
	if got := c.Zeros(); !unorderedRootsClose(got, z1, z2, 1e-12) {
		t.Fatalf("unexpected zeros: got=%v want={%v,%v}", got, z1, z2)
	}
}

func TestCoefficientsRoots_FirstOrder(t *testing.T) {
	c := Coefficients{B0: 1, B1: -0.3, A1: -0.8}

	if got := c.Poles(); !unorderedRootsClose(got, 0.8, 0, 1e-12) {
		t.Fatalf("unexpected first-order poles: %v", got)
	}
	if got := c.Zeros(); !unorderedRootsClose(got, 0.3, 0, 1e-12) {
		t.Fatalf("unexpected first-order zeros: %v", got)
	}
}

func TestCoefficientsZeros_DelayedNumerator(t *testing.T) {
	// z⁻¹(1 - 0.5z⁻¹): one finite zero at 0.5.
	c := Coefficients{B1: 1, B2: -0.5, A1: -0.9, A2: 0.2}
	z := c.Zeros()
	if len(z) != 1 || !rootsClose(z[0], 0.5, 1e-12) {
		t.Fatalf("unexpected zeros: %v", z)
	}

	if z := (&Coefficients{}).Zeros(); len(z) != 0 {
		t.Fatalf("zero numerator should have no zeros, got %v", z)
	}
}

func TestCoefficientsPoles_WidelySpreadRoots(t *testing.T) {
	// Roots 1e-8 and 0.99: the naive quadratic formula loses the small root.
	c := Coefficients{B0: 1, A1: -(0.99 + 1e-8), A2: 0.99 * 1e-8}
	p := c.Poles()
	if !unorderedRootsClose(p, 0.99, 1e-8, 1e-14) {
		t.Fatalf("unexpected poles: %v", p)
	}
	small := p[1]
	if cmplx.Abs(p[0]) < cmplx.Abs(p[1]) {
		small = p[0]
	}
	if rel := cmplx.Abs(small-1e-8) / 1e-8; rel > 1e-10 {
		t.Fatalf("small root relative error %g", rel)
	}
}

func TestChainRoots_ConcatenateSections(t *testing.T) {
	coeffs := []Coefficients{
		{B0: 1, B1: -0.4, B2: 0.1, A1: -1.2, A2: 0.45},
		{B0: 0.9, B1: 0.2, B2: 0.05, A1: -0.3, A2: 0.08},
	}

	chain := NewChain(coeffs)
	poles := chain.Poles()
	zeros := chain.Zeros()
	if len(poles) != 4 || len(zeros) != 4 {
		t.Fatalf("got %d poles and %d zeros, want 4 each", len(poles), len(zeros))
	}

	for i := range coeffs {
		if !unorderedRootsClose(poles[2*i:2*i+2], coeffs[i].Poles()[0], coeffs[i].Poles()[1], 1e-15) {
			t.Fatalf("section %d poles differ", i)
		}
	}
}

func unorderedRootsClose(got []complex128, want1, want2 complex128, tol float64) bool {
	if len(got) != 2 {
		return false
	}
	return (rootsClose(got[0], want1, tol) && rootsClose(got[1], want2, tol)) ||
		(rootsClose(got[0], want2, tol) && rootsClose(got[1], want1, tol))
}

func rootsClose(a, b complex128, tol float64) bool {
	return cmplx.Abs(a-b) <= tol
}
