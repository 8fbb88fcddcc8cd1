package lti

import (
	"fmt"

	"github.com/cwbudde/algo-lti/dsp/core"
	"github.com/cwbudde/algo-lti/dsp/poly"
)

// Tf is a transfer function: one numerator row per output over a common
// denominator, all real polynomials in the transform variable (s or z),
// highest power first. A single-row Tf is SISO.
type Tf struct {
	Num [][]float64
	Den []float64
}

// NewTf returns the SISO transfer function num/den. Leading zeros are
// dropped; an identically zero den fails with core.ErrZeroPoles.
func NewTf(num, den []float64) (Tf, error) {
	return NewTfRows([][]float64{num}, den)
}

// NewTfRows returns a single-input multi-output transfer function with one
// numerator row per output.
func NewTfRows(num [][]float64, den []float64) (Tf, error) {
	d := trimLeading(den)
	if len(d) == 0 {
		return Tf{}, wrapf(core.ErrZeroPoles, "denominator is zero")
	}
	if len(num) == 0 {
		return Tf{}, wrapf(core.ErrShapeMismatch, "no numerator rows")
	}

	rows := make([][]float64, len(num))
	for i, r := range num {
		rows[i] = trimLeading(r)
	}
	return Tf{Num: rows, Den: d}, nil
}

// NewDigitalTf builds a transfer function in z from coefficient arrays in
// z⁻¹, as used by Filter: H = (b₀ + b₁z⁻¹ + …)/(a₀ + a₁z⁻¹ + …). Both
// arrays are right-padded to equal length before being read as polynomials
// in z, so trailing delay terms keep their meaning.
func NewDigitalTf(b, a []float64) (Tf, error) {
	n := max(len(b), len(a))
	return NewTf(core.PadRight(b, n), core.PadRight(a, n))
}

// Outputs returns the number of numerator rows.
func (t Tf) Outputs() int { return len(t.Num) }

// Order returns the degree of the denominator.
func (t Tf) Order() int { return len(t.Den) - 1 }

// IsZero reports whether every numerator row is zero.
func (t Tf) IsZero() bool {
	for _, r := range t.Num {
		if !poly.Poly[float64](r).IsZero() {
			return false
		}
	}
	return true
}

// IsOne reports whether t is SISO with num = den ≠ 0.
func (t Tf) IsOne() bool {
	if len(t.Num) != 1 || poly.Poly[float64](t.Den).IsZero() {
		return false
	}
	return poly.Poly[float64](t.Num[0]).Equal(poly.Poly[float64](t.Den))
}

// IsProper reports whether no numerator exceeds the denominator degree.
func (t Tf) IsProper() bool {
	d := poly.Poly[float64](t.Den).Degree()
	for _, r := range t.Num {
		if poly.Poly[float64](r).Degree() > d {
			return false
		}
	}
	return true
}

// canonical returns t with leading zeros dropped from every polynomial.
func (t Tf) canonical() Tf {
	out := Tf{Num: make([][]float64, len(t.Num)), Den: trimLeading(t.Den)}
	for i, r := range t.Num {
		out.Num[i] = trimLeading(r)
	}
	return out
}

// Normalize returns t trimmed and scaled so that Den[0] = 1.
func (t Tf) Normalize() Tf {
	t = t.canonical()
	if len(t.Den) == 0 {
		return t
	}
	d0 := t.Den[0]
	out := Tf{Num: make([][]float64, len(t.Num))}
	out.Den = poly.Poly[float64](t.Den).Scale(1 / d0)
	for i, r := range t.Num {
		out.Num[i] = poly.Poly[float64](r).Scale(1 / d0)
	}
	return out
}

// Eval returns the first output row evaluated at x.
func (t Tf) Eval(x complex128) complex128 {
	return t.EvalRow(0, x)
}

// EvalRow evaluates output row i at x.
func (t Tf) EvalRow(i int, x complex128) complex128 {
	return poly.Poly[float64](t.Num[i]).EvalComplex(x) / poly.Poly[float64](t.Den).EvalComplex(x)
}

// DCGain returns the gain of each output at zero frequency: s = 0 for
// analog systems, z = 1 for discrete ones.
func (t Tf) DCGain(discrete bool) []float64 {
	x := complex(0, 0)
	if discrete {
		x = 1
	}
	out := make([]float64, len(t.Num))
	for i := range t.Num {
		out[i] = real(t.EvalRow(i, x))
	}
	return out
}

// DigitalCoefficients returns output row i as z⁻¹ coefficient arrays b and
// a of equal length, ready for Filter. A numerator of higher degree than
// the denominator fails with core.ErrNonCausal.
func (t Tf) DigitalCoefficients(i int) (b, a []float64, err error) {
	if i < 0 || i >= len(t.Num) {
		return nil, nil, wrapf(core.ErrShapeMismatch, "output %d of %d", i, len(t.Num))
	}
	t = t.canonical()
	if len(t.Den) == 0 {
		return nil, nil, wrapf(core.ErrZeroPoles, "denominator is zero")
	}
	num := t.Num[i]
	if len(num) > len(t.Den) {
		return nil, nil, wrapf(core.ErrNonCausal, "numerator degree %d > denominator degree %d", len(num)-1, len(t.Den)-1)
	}
	return core.PadLeft(append([]float64(nil), num...), len(t.Den)), append([]float64(nil), t.Den...), nil
}

// String formats t as rows of coefficients.
func (t Tf) String() string {
	return fmt.Sprintf("Tf{num=%v den=%v}", t.Num, t.Den)
}

func (t Tf) siso(op string) error {
	if len(t.Num) != 1 {
		return wrapf(core.ErrShapeMismatch, "%s needs a single-output transfer function, got %d outputs", op, len(t.Num))
	}
	return nil
}

// Zpk factors a SISO transfer function into zeros, poles and gain
// k = b₀/a₀ of the trimmed polynomials.
func (t Tf) Zpk() (Zpk, error) {
	if err := t.siso("Tf.Zpk"); err != nil {
		return Zpk{}, err
	}
	t = t.canonical()
	if len(t.Den) == 0 {
		return Zpk{}, wrapf(core.ErrZeroPoles, "denominator is zero")
	}

	p, err := poly.Roots(poly.Poly[float64](t.Den))
	if err != nil {
		return Zpk{}, wrapf(err, "denominator roots")
	}

	b := poly.Poly[float64](t.Num[0]).Trim()
	if len(b) == 0 {
		return Zpk{P: p, K: 0}, nil
	}
	z, err := poly.Roots(b)
	if err != nil {
		return Zpk{}, wrapf(err, "numerator roots")
	}

	return Zpk{Z: z, P: p, K: b[0] / t.Den[0]}, nil
}

// Ss realises t in controllable canonical form. With the monic denominator
// a = [1, a₁, …, aₙ] and numerator b padded to n+1 terms:
//
//	A: ones on the superdiagonal, last row [−aₙ … −a₁]
//	B: eₙ
//	C: row i holds b_{n−j} − a_{n−j}·b₀ for j = 0..n−1
//	D: b₀
//
// Each numerator row contributes one row of C and D.
func (t Tf) Ss() (Ss, error) {
	if !t.IsProper() {
		return Ss{}, wrapf(core.ErrNonCausal, "Tf.Ss")
	}

	nt := t.Normalize()
	if len(nt.Den) == 0 {
		return Ss{}, wrapf(core.ErrZeroPoles, "denominator is zero")
	}
	a := nt.Den
	n := len(a) - 1
	q := len(nt.Num)

	dData := make([]float64, q)
	cData := make([]float64, q*n)
	for i, row := range nt.Num {
		b := core.PadLeft(append([]float64(nil), row...), n+1)
		dData[i] = b[0]
		for j := range n {
			cData[i*n+j] = b[n-j] - a[n-j]*b[0]
		}
	}

	if n == 0 {
		return NewGainSs(q, 1, dData)
	}

	aData := make([]float64, n*n)
	for i := range n - 1 {
		aData[i*n+i+1] = 1
	}
	for j := range n {
		aData[(n-1)*n+j] = -a[n-j]
	}
	bData := make([]float64, n)
	bData[n-1] = 1

	return NewSsData(n, 1, q, aData, bData, cData, dData)
}

// Sos converts a SISO transfer function through its zeros and poles.
func (t Tf) Sos(opts ...ConvertOption) (Sos, error) {
	z, err := t.Zpk()
	if err != nil {
		return Sos{}, err
	}
	return z.Sos(opts...)
}
