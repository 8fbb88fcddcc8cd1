// Package polyroot provides polynomial root finding and conjugate pairing
// shared by the polynomial and LTI packages.
package polyroot

import (
	"errors"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"
)

// ErrDegeneratePolynomial is returned when a polynomial has degenerate
// coefficients (all zero, non-finite, convergence failure, etc.).
var ErrDegeneratePolynomial = errors.New("polyroot: degenerate polynomial")

// Real returns the roots of a real polynomial given in descending power
// order. Leading zeros are ignored, trailing zeros contribute roots at the
// origin. The remaining roots are the eigenvalues of the companion matrix,
// refined by a few Newton steps. Complex roots come out as exact conjugate
// pairs.
func Real(coeff []float64) ([]complex128, error) {
	start := 0
	for start < len(coeff) && coeff[start] == 0 {
		start++
	}
	c := coeff[start:]
	if len(c) == 0 {
		return nil, ErrDegeneratePolynomial
	}
	for _, v := range c {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, ErrDegeneratePolynomial
		}
	}

	end := len(c)
	for end > 1 && c[end-1] == 0 {
		end--
	}
	zeros := len(c) - end
	c = c[:end]

	n := len(c) - 1
	roots := make([]complex128, 0, n+zeros)
	switch {
	case n == 1:
		roots = append(roots, complex(-c[1]/c[0], 0))
	case n > 1:
		companion := mat.NewDense(n, n, nil)
		for j := range n {
			companion.Set(0, j, -c[j+1]/c[0])
		}
		for i := 1; i < n; i++ {
			companion.Set(i, i-1, 1)
		}

		var eig mat.Eigen
		if !eig.Factorize(companion, mat.EigenNone) {
			return nil, ErrDegeneratePolynomial
		}
		values := eig.Values(nil)

		cc := make([]complex128, len(c))
		for i, v := range c {
			cc[i] = complex(v, 0)
		}
		for _, v := range values {
			roots = append(roots, polish(cc, v))
		}
	}

	for range zeros {
		roots = append(roots, 0)
	}

	return roots, nil
}

// Complex returns the roots of a complex polynomial given in descending
// power order, using Durand-Kerner iteration for the nonzero part.
func Complex(coeff []complex128) ([]complex128, error) {
	start := 0
	for start < len(coeff) && coeff[start] == 0 {
		start++
	}
	c := coeff[start:]
	if len(c) == 0 {
		return nil, ErrDegeneratePolynomial
	}

	end := len(c)
	for end > 1 && c[end-1] == 0 {
		end--
	}
	zeros := len(c) - end
	c = c[:end]

	var roots []complex128
	if len(c) > 1 {
		var err error
		roots, err = DurandKerner(c)
		if err != nil {
			return nil, err
		}
		for i, r := range roots {
			roots[i] = polish(c, r)
		}
	}

	for range zeros {
		roots = append(roots, 0)
	}

	return roots, nil
}

// polish applies Newton steps to r while they reduce the residual.
func polish(coeff []complex128, r complex128) complex128 {
	deriv := make([]complex128, len(coeff)-1)
	n := len(coeff) - 1
	for i := range deriv {
		deriv[i] = coeff[i] * complex(float64(n-i), 0)
	}

	res := cmplx.Abs(PolyEval(coeff, r))
	for range 3 {
		if res == 0 {
			break
		}
		d := PolyEval(deriv, r)
		if d == 0 {
			break
		}
		next := r - PolyEval(coeff, r)/d
		nextRes := cmplx.Abs(PolyEval(coeff, next))
		if !(nextRes < res) {
			break
		}
		r, res = next, nextRes
	}

	return r
}

// DurandKerner finds all roots of a polynomial using the Durand-Kerner
// (Weierstrass) simultaneous iteration method. Coefficients are in descending
// power order: coeff[0]*z^n + coeff[1]*z^(n-1) + ... + coeff[n].
//
//nolint:cyclop
func DurandKerner(coeff []complex128) ([]complex128, error) {
	if len(coeff) < 2 {
		return nil, ErrDegeneratePolynomial
	}

	lead := coeff[0]
	if lead == 0 {
		return nil, ErrDegeneratePolynomial
	}

	n := len(coeff) - 1

	norm := make([]complex128, len(coeff))
	for i := range coeff {
		norm[i] = coeff[i] / lead
	}

	radius := 0.0
	for i := 1; i <= n; i++ {
		if r := cmplx.Abs(norm[i]); r > radius {
			radius = r
		}
	}

	if radius < 1 {
		radius = 1
	}

	roots := make([]complex128, n)
	for i := range n {
		angle := 2*math.Pi*float64(i)/float64(n) + 0.3
		r := radius * (1 + 0.1*float64(i)/float64(n))
		roots[i] = complex(r*math.Cos(angle), r*math.Sin(angle))
	}

	const (
		maxIter = 500
		tol     = 1e-12
	)

	for range maxIter {
		maxDelta := 0.0

		for i := range n {
			den := complex(1, 0)

			for j := range n {
				if i == j {
					continue
				}

				den *= roots[i] - roots[j]
			}

			if cmplx.Abs(den) == 0 {
				roots[i] += complex(1e-10, 1e-10)
				continue
			}

			delta := PolyEval(norm, roots[i]) / den

			roots[i] -= delta
			if d := cmplx.Abs(delta); d > maxDelta {
				maxDelta = d
			}
		}

		if maxDelta < tol {
			return roots, nil
		}
	}

	maxResidual := 0.0

	for _, r := range roots {
		res := cmplx.Abs(PolyEval(norm, r))
		if res > maxResidual {
			maxResidual = res
		}
	}

	if maxResidual < 1e-6 {
		return roots, nil
	}

	return nil, ErrDegeneratePolynomial
}

// PolyEval evaluates a polynomial at x using Horner's method. Coefficients
// are in descending power order: coeff[0]*x^n + ... + coeff[n].
func PolyEval(coeff []complex128, x complex128) complex128 {
	if len(coeff) == 0 {
		return 0
	}
	v := coeff[0]
	for i := 1; i < len(coeff); i++ {
		v = v*x + coeff[i]
	}

	return v
}

// ConjugateTol is the relative tolerance for conjugate pair matching.
const ConjugateTol = 1e-7

// IsConjugate checks whether a and b are complex conjugates within tolerance.
func IsConjugate(a, b complex128, tol float64) bool {
	if math.Abs(real(a)-real(b)) > tol*math.Max(1, math.Abs(real(a))) {
		return false
	}

	if math.Abs(imag(a)+imag(b)) > tol*math.Max(1, math.Abs(imag(a))) {
		return false
	}

	return true
}

// IsReal reports whether |imag(z)| is within tol relative to |z|.
func IsReal(z complex128, tol float64) bool {
	return math.Abs(imag(z)) <= tol*math.Max(1, cmplx.Abs(z))
}

// Split separates roots into conjugate pairs and real values. Each pair has
// the positive-imaginary member first. Pairs are returned in input order of
// their first member. ok is false when some complex root has no partner.
func Split(roots []complex128, tol float64) (pairs [][2]complex128, reals []float64, ok bool) {
	used := make([]bool, len(roots))

	for i, r := range roots {
		if used[i] {
			continue
		}
		if IsReal(r, tol) {
			used[i] = true
			reals = append(reals, real(r))
			continue
		}

		conj := cmplx.Conj(r)
		best := -1
		bestDist := math.MaxFloat64
		for j := i + 1; j < len(roots); j++ {
			if used[j] || IsReal(roots[j], tol) {
				continue
			}
			if d := cmplx.Abs(roots[j] - conj); d < bestDist {
				bestDist = d
				best = j
			}
		}

		if best == -1 || !IsConjugate(r, roots[best], tol) {
			return nil, nil, false
		}

		used[i] = true
		used[best] = true
		hi := complex(0.5*(real(r)+real(roots[best])), math.Abs(0.5*(imag(r)-imag(roots[best]))))
		pairs = append(pairs, [2]complex128{hi, cmplx.Conj(hi)})
	}

	return pairs, reals, true
}

// QuadFromPair expands a conjugate root pair into the monic real quadratic
// z^2 - 2a*z + (a^2 + b^2), returned as (1, -2a, a^2+b^2).
func QuadFromPair(pair [2]complex128) [3]float64 {
	a := real(pair[0])
	b := imag(pair[0])

	return [3]float64{1, -2 * a, a*a + b*b}
}

// QuadFromReals expands (z - r1)(z - r2).
func QuadFromReals(r1, r2 float64) [3]float64 {
	return [3]float64{1, -(r1 + r2), r1 * r2}
}
