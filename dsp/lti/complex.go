package lti

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-lti/dsp/core"
	"github.com/cwbudde/algo-lti/dsp/poly"
)

// CTf is a single-output transfer function with complex coefficients,
// highest power first. It arises from frequency-shifted or analytic
// designs whose responses are not conjugate-symmetric.
type CTf struct {
	Num []complex128
	Den []complex128
}

// NewCTf returns num/den with leading zeros dropped. An identically zero
// den fails with core.ErrZeroPoles.
func NewCTf(num, den []complex128) (CTf, error) {
	d := trimLeadingComplex(den)
	if len(d) == 0 {
		return CTf{}, wrapf(core.ErrZeroPoles, "denominator is zero")
	}
	for _, v := range append(append([]complex128(nil), num...), d...) {
		if !finiteComplex(v) {
			return CTf{}, wrapf(core.ErrNumerical, "non-finite coefficient %v", v)
		}
	}
	return CTf{Num: trimLeadingComplex(num), Den: d}, nil
}

// Order returns the degree of the denominator.
func (t CTf) Order() int { return len(t.Den) - 1 }

// Eval returns num(x)/den(x).
func (t CTf) Eval(x complex128) complex128 {
	return poly.Poly[complex128](t.Num).Eval(x) / poly.Poly[complex128](t.Den).Eval(x)
}

// Normalize returns t trimmed and scaled so that Den[0] = 1.
func (t CTf) Normalize() CTf {
	den := trimLeadingComplex(t.Den)
	if len(den) == 0 {
		return CTf{Num: trimLeadingComplex(t.Num)}
	}
	inv := 1 / den[0]
	return CTf{
		Num: poly.Poly[complex128](trimLeadingComplex(t.Num)).Scale(inv),
		Den: poly.Poly[complex128](den).Scale(inv),
	}
}

// Zpk factors t into zeros, poles and the complex gain b₀/a₀.
func (t CTf) Zpk() (CZpk, error) {
	den := trimLeadingComplex(t.Den)
	if len(den) == 0 {
		return CZpk{}, wrapf(core.ErrZeroPoles, "denominator is zero")
	}
	p, err := poly.Roots(poly.Poly[complex128](den))
	if err != nil {
		return CZpk{}, wrapf(err, "denominator roots")
	}

	num := trimLeadingComplex(t.Num)
	if len(num) == 0 {
		return CZpk{P: p}, nil
	}
	z, err := poly.Roots(poly.Poly[complex128](num))
	if err != nil {
		return CZpk{}, wrapf(err, "numerator roots")
	}
	return CZpk{Z: z, P: p, K: num[0] / den[0]}, nil
}

// Real returns t as a real Tf when every imaginary part is below tol
// relative to the largest coefficient magnitude. Otherwise it fails with
// core.ErrOddNumberComplex.
func (t CTf) Real(tol float64) (Tf, error) {
	if !(tol >= 0 && tol <= 1) {
		return Tf{}, wrapf(core.ErrToleranceOutOfRange, "tolerance %v", tol)
	}
	num, err := realCoefficients(t.Num, tol)
	if err != nil {
		return Tf{}, wrapf(err, "numerator")
	}
	den, err := realCoefficients(t.Den, tol)
	if err != nil {
		return Tf{}, wrapf(err, "denominator")
	}
	return NewTf(num, den)
}

// String formats t as its coefficient vectors.
func (t CTf) String() string {
	return fmt.Sprintf("CTf{num=%v den=%v}", t.Num, t.Den)
}

// CZpk is the factored form K·∏(x − zᵢ)/∏(x − pᵢ) with a complex gain and
// roots that need not pair into conjugates.
type CZpk struct {
	Z []complex128
	P []complex128
	K complex128
}

// NewCZpk copies z and p after checking every value is finite.
func NewCZpk(z, p []complex128, k complex128) (CZpk, error) {
	if err := validateRoots(z, "zero"); err != nil {
		return CZpk{}, err
	}
	if err := validateRoots(p, "pole"); err != nil {
		return CZpk{}, err
	}
	if !finiteComplex(k) {
		return CZpk{}, wrapf(core.ErrNumerical, "non-finite gain %v", k)
	}
	return CZpk{
		Z: append([]complex128(nil), z...),
		P: append([]complex128(nil), p...),
		K: k,
	}, nil
}

// Order returns the number of poles.
func (z CZpk) Order() int { return len(z.P) }

// Eval returns K·∏(x − zᵢ)/∏(x − pᵢ).
func (z CZpk) Eval(x complex128) complex128 {
	h := z.K
	for _, r := range z.Z {
		h *= x - r
	}
	for _, p := range z.P {
		h /= x - p
	}
	return h
}

// Tf expands the roots into complex polynomials.
func (z CZpk) Tf() (CTf, error) {
	den := poly.Product(z.P).Expand()
	var num []complex128
	if z.K != 0 {
		num = poly.Product(z.Z).Expand().Scale(z.K)
	}
	return NewCTf(num, den)
}

// Real returns z as a real Zpk when the gain is real within tol and the
// roots close under conjugation. Otherwise it fails with
// core.ErrOddNumberComplex.
func (z CZpk) Real(tol float64) (Zpk, error) {
	if !(tol >= 0 && tol <= 1) {
		return Zpk{}, wrapf(core.ErrToleranceOutOfRange, "tolerance %v", tol)
	}
	if math.Abs(imag(z.K)) > tol*cmplx.Abs(z.K) {
		return Zpk{}, wrapf(core.ErrOddNumberComplex, "gain %v is not real", z.K)
	}
	if _, _, err := poly.ComplexReal(z.Z, tol); err != nil {
		return Zpk{}, wrapf(err, "zeros")
	}
	if _, _, err := poly.ComplexReal(z.P, tol); err != nil {
		return Zpk{}, wrapf(err, "poles")
	}
	return NewZpk(z.Z, z.P, real(z.K))
}

// Complex returns the single-output t with complex coefficients.
func (t Tf) Complex() (CTf, error) {
	if err := t.siso("Tf.Complex"); err != nil {
		return CTf{}, err
	}
	return NewCTf(toComplexSlice(t.Num[0]), toComplexSlice(t.Den))
}

// Complex returns z with a complex gain.
func (z Zpk) Complex() CZpk {
	return CZpk{
		Z: append([]complex128(nil), z.Z...),
		P: append([]complex128(nil), z.P...),
		K: complex(z.K, 0),
	}
}

func trimLeadingComplex(p []complex128) []complex128 {
	return append([]complex128(nil), poly.Poly[complex128](p).Trim()...)
}

func toComplexSlice(p []float64) []complex128 {
	out := make([]complex128, len(p))
	for i, v := range p {
		out[i] = complex(v, 0)
	}
	return out
}

func realCoefficients(p []complex128, tol float64) ([]float64, error) {
	var scale float64
	for _, v := range p {
		scale = math.Max(scale, cmplx.Abs(v))
	}
	out := make([]float64, len(p))
	for i, v := range p {
		if math.Abs(imag(v)) > tol*scale {
			return nil, wrapf(core.ErrOddNumberComplex, "coefficient %d is %v", i, v)
		}
		out[i] = real(v)
	}
	return out, nil
}
