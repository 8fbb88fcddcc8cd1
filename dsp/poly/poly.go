// Package poly implements polynomials with real or complex coefficients and
// product sequences of roots.
//
// A Poly stores coefficients highest degree first:
//
//	p(x) = p[0]·xⁿ⁻¹ + p[1]·xⁿ⁻² + … + p[n-1]
//
// Leading zeros carry no meaning and are dropped by Trim. The empty
// polynomial is the constant 0.
package poly

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-lti/dsp/core"
	"github.com/cwbudde/algo-lti/internal/polyroot"
)

// ErrDivisionByZero is returned when dividing by the zero polynomial.
var ErrDivisionByZero = errors.New("poly: division by zero polynomial")

// Scalar is the coefficient type of a polynomial.
type Scalar interface {
	float64 | complex128
}

// Poly is a polynomial with coefficients highest degree first.
type Poly[T Scalar] []T

// Trim returns p without leading zeros. The result shares p's backing array.
func (p Poly[T]) Trim() Poly[T] {
	i := 0
	for i < len(p) && p[i] == 0 {
		i++
	}
	return p[i:]
}

// Degree returns the degree of p, or -1 for the zero polynomial.
func (p Poly[T]) Degree() int {
	return len(p.Trim()) - 1
}

// IsZero reports whether p is the constant 0.
func (p Poly[T]) IsZero() bool {
	return len(p.Trim()) == 0
}

// Equal reports value equality of the trimmed coefficient sequences.
func (p Poly[T]) Equal(q Poly[T]) bool {
	a, b := p.Trim(), q.Trim()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of p.
func (p Poly[T]) Clone() Poly[T] {
	return append(Poly[T](nil), p...)
}

// Eval evaluates p at x by Horner's rule.
func (p Poly[T]) Eval(x T) T {
	var v T
	for _, c := range p {
		v = v*x + c
	}
	return v
}

// EvalComplex evaluates p at a complex point.
func (p Poly[T]) EvalComplex(z complex128) complex128 {
	var v complex128
	for _, c := range p {
		v = v*z + toComplex(c)
	}
	return v
}

// Scale returns k·p.
func (p Poly[T]) Scale(k T) Poly[T] {
	out := make(Poly[T], len(p))
	for i, c := range p {
		out[i] = k * c
	}
	return out
}

// Deriv returns the derivative of p.
func (p Poly[T]) Deriv() Poly[T] {
	n := len(p) - 1
	if n <= 0 {
		return Poly[T]{}
	}
	out := make(Poly[T], n)
	for i := range n {
		out[i] = p[i] * fromFloat[T](float64(n-i))
	}
	return out
}

// Add returns p + q.
func Add[T Scalar](p, q Poly[T]) Poly[T] {
	n := max(len(p), len(q))
	out := make(Poly[T], n)
	for i, c := range p {
		out[n-len(p)+i] += c
	}
	for i, c := range q {
		out[n-len(q)+i] += c
	}
	return out
}

// Sub returns p − q.
func Sub[T Scalar](p, q Poly[T]) Poly[T] {
	n := max(len(p), len(q))
	out := make(Poly[T], n)
	for i, c := range p {
		out[n-len(p)+i] += c
	}
	for i, c := range q {
		out[n-len(q)+i] -= c
	}
	return out
}

// Mul returns p·q. The product of anything with the empty polynomial is empty.
func Mul[T Scalar](p, q Poly[T]) Poly[T] {
	if len(p) == 0 || len(q) == 0 {
		return Poly[T]{}
	}
	out := make(Poly[T], len(p)+len(q)-1)
	for i, a := range p {
		if a == 0 {
			continue
		}
		for j, b := range q {
			out[i+j] += a * b
		}
	}
	return out
}

// Div performs polynomial long division and returns quotient and remainder
// with num = quo·den + rem and deg(rem) < deg(den).
func Div[T Scalar](num, den Poly[T]) (quo, rem Poly[T], err error) {
	d := den.Trim()
	if len(d) == 0 {
		return nil, nil, ErrDivisionByZero
	}
	n := num.Trim()
	if len(n) < len(d) {
		return Poly[T]{}, n.Clone(), nil
	}

	rem = n.Clone()
	quo = make(Poly[T], len(n)-len(d)+1)
	for i := range quo {
		coef := rem[i] / d[0]
		quo[i] = coef
		if coef == 0 {
			continue
		}
		for j := range d {
			rem[i+j] -= coef * d[j]
		}
	}
	// Leading entries are zero by construction; keep deg(rem) < deg(den).
	rem = rem[len(quo):]

	return quo, rem, nil
}

// Roots returns the roots of p. Real coefficients are solved through the
// eigenvalues of the companion matrix and yield conjugate pairs; complex
// coefficients use simultaneous iteration. A constant polynomial has no
// roots; the zero polynomial is an error.
func Roots[T Scalar](p Poly[T]) (Product, error) {
	var (
		r   []complex128
		err error
	)
	switch c := any(p).(type) {
	case Poly[float64]:
		r, err = polyroot.Real(c)
	default:
		cc := make([]complex128, len(p))
		for i, v := range p {
			cc[i] = toComplex(v)
		}
		r, err = polyroot.Complex(cc)
	}
	if err != nil {
		return nil, fmt.Errorf("poly: roots: %w: %w", core.ErrNumerical, err)
	}
	return Product(r), nil
}

func toComplex[T Scalar](v T) complex128 {
	switch x := any(v).(type) {
	case float64:
		return complex(x, 0)
	case complex128:
		return x
	}
	return 0
}

func fromFloat[T Scalar](f float64) T {
	var z T
	switch p := any(&z).(type) {
	case *float64:
		*p = f
	case *complex128:
		*p = complex(f, 0)
	}
	return z
}
