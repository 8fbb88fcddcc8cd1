package lti

import (
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-lti/dsp/core"
	"github.com/cwbudde/algo-lti/dsp/poly"
)

// residueTol is the relative distance below which two poles are treated as
// one repeated pole.
const residueTol = 1e-3

// Residue computes the partial-fraction expansion of b(x)/a(x):
//
//	b(x)/a(x) = Σ r[i]/(x − p[i])^mᵢ + k(x)
//
// A pole of multiplicity m appears m times in p, with mᵢ running 1..m over
// the repeats. k holds the direct polynomial term and is empty for strictly
// proper ratios.
//
//nolint:cyclop
func Residue(b, a []float64) (r, p []complex128, k []float64, err error) {
	den := poly.Poly[float64](a).Trim()
	if len(den) == 0 {
		return nil, nil, nil, wrapf(core.ErrZeroPoles, "Residue")
	}
	num := poly.Poly[float64](b).Trim()

	quo, rem, err := poly.Div(num, den)
	if err != nil {
		return nil, nil, nil, wrapf(err, "Residue")
	}
	if !quo.Trim().IsZero() {
		k = append([]float64(nil), quo.Trim()...)
	}
	if len(den) == 1 {
		return nil, nil, k, nil
	}

	roots, err := poly.Roots(den)
	if err != nil {
		return nil, nil, nil, wrapf(err, "Residue")
	}
	groups := groupPoles(roots)

	remC := complexPoly(rem)
	lead := complex(den[0], 0)

	for gi, g := range groups {
		// (x − p)^m · b/a = rem / q around p, q = lead·∏ other factors.
		others := make(poly.Product, 0, len(roots)-g.mult)
		for gj, o := range groups {
			if gj == gi {
				continue
			}
			for range o.mult {
				others = append(others, o.pole)
			}
		}
		q := others.Expand().Scale(lead)

		ns := taylor(remC, g.pole, g.mult)
		qs := taylor(q, g.pole, g.mult)
		cs, ok := seriesDiv(ns, qs)
		if !ok {
			return nil, nil, nil, wrapf(core.ErrNumerical, "Residue: singular cofactor at pole %v", g.pole)
		}

		for pw := 1; pw <= g.mult; pw++ {
			r = append(r, cs[g.mult-pw])
			p = append(p, g.pole)
		}
	}
	return r, p, k, nil
}

type poleGroup struct {
	pole complex128
	mult int
}

// groupPoles clusters roots closer than residueTol (relative) and replaces
// each cluster by its mean.
func groupPoles(roots []complex128) []poleGroup {
	used := make([]bool, len(roots))
	var groups []poleGroup
	for i, ri := range roots {
		if used[i] {
			continue
		}
		used[i] = true
		sum, n := ri, 1
		scale := math.Max(1, cmplx.Abs(ri))
		for j := i + 1; j < len(roots); j++ {
			if !used[j] && cmplx.Abs(roots[j]-ri) < residueTol*scale {
				used[j] = true
				sum += roots[j]
				n++
			}
		}
		groups = append(groups, poleGroup{pole: sum / complex(float64(n), 0), mult: n})
	}
	return groups
}

func complexPoly(p poly.Poly[float64]) poly.Poly[complex128] {
	out := make(poly.Poly[complex128], len(p))
	for i, v := range p {
		out[i] = complex(v, 0)
	}
	return out
}

// taylor returns the first m coefficients of p(x0 + h) in ascending powers
// of h by repeated synthetic division.
func taylor(p poly.Poly[complex128], x0 complex128, m int) []complex128 {
	work := append(poly.Poly[complex128](nil), p...)
	out := make([]complex128, m)
	for i := range m {
		if len(work) == 0 {
			break
		}
		acc := complex(0, 0)
		next := make(poly.Poly[complex128], 0, len(work))
		for j, c := range work {
			acc = acc*x0 + c
			if j < len(work)-1 {
				next = append(next, acc)
			}
		}
		out[i] = acc
		work = next
	}
	return out
}

// seriesDiv divides two power series truncated to len(n) terms.
func seriesDiv(n, d []complex128) ([]complex128, bool) {
	if len(d) == 0 || d[0] == 0 {
		return nil, false
	}
	c := make([]complex128, len(n))
	for i := range n {
		acc := n[i]
		for j := 1; j <= i && j < len(d); j++ {
			acc -= d[j] * c[i-j]
		}
		c[i] = acc / d[0]
	}
	return c, true
}

// ImpInvar converts an analog transfer function to a digital one whose
// impulse response samples the analog impulse response at rate fs:
//
//	H(z) = T·Σ rᵢ/(1 − e^{pᵢT}·z⁻¹),  T = 1/fs
//
// The analog numerator must be of lower degree than the denominator and
// every pole must be simple; a repeated pole fails with core.ErrNumerical.
// The result is in z⁻¹ form, as built by NewDigitalTf.
func ImpInvar(t Tf, fs float64) (Tf, error) {
	if err := core.ValidateSampleRate(fs); err != nil {
		return Tf{}, wrapf(err, "ImpInvar")
	}
	if err := t.siso("ImpInvar"); err != nil {
		return Tf{}, err
	}
	c := t.canonical()
	if len(c.Den) < 2 {
		return Tf{}, wrapf(core.ErrZeroPoles, "ImpInvar")
	}
	if poly.Poly[float64](c.Num[0]).Trim().Degree() >= len(c.Den)-1 {
		return Tf{}, wrapf(core.ErrNonCausal, "ImpInvar: numerator degree must be below denominator degree")
	}

	r, p, _, err := Residue(c.Num[0], c.Den)
	if err != nil {
		return Tf{}, err
	}
	if len(groupPoles(p)) != len(p) {
		return Tf{}, wrapf(core.ErrNumerical, "ImpInvar: repeated poles")
	}

	ts := 1 / fs
	zp := make(poly.Product, len(p))
	for i, pi := range p {
		zp[i] = cmplx.Exp(pi * complex(ts, 0))
	}

	num := make([]complex128, len(p))
	for i := range p {
		others := make(poly.Product, 0, len(p)-1)
		others = append(others, zp[:i]...)
		others = append(others, zp[i+1:]...)
		term := others.Expand()
		for j, v := range term {
			num[j] += complex(ts, 0) * r[i] * v
		}
	}

	b := make([]float64, len(num))
	for i, v := range num {
		b[i] = real(v)
	}
	return NewDigitalTf(b, zp.ExpandReal())
}
