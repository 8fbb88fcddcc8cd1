package lti

import (
	"github.com/cwbudde/algo-lti/dsp/core"
	"github.com/cwbudde/algo-lti/dsp/filter/biquad"
	"github.com/cwbudde/algo-lti/dsp/poly"
)

// Biquad is one second-order section in z⁻¹ form:
//
//	(B[0] + B[1]·z⁻¹ + B[2]·z⁻²) / (A[0] + A[1]·z⁻¹ + A[2]·z⁻²)
type Biquad struct {
	B [3]float64
	A [3]float64
}

// Eval returns the section response at z.
func (b Biquad) Eval(z complex128) complex128 {
	num := (complex(b.B[0], 0)*z+complex(b.B[1], 0))*z + complex(b.B[2], 0)
	den := (complex(b.A[0], 0)*z+complex(b.A[1], 0))*z + complex(b.A[2], 0)
	return num / den
}

// Sos is a cascade of biquads whose transfer function is the product of
// the sections.
type Sos struct {
	Sections []Biquad
}

// NewSos copies sections after checking every A[0] is nonzero.
func NewSos(sections []Biquad) (Sos, error) {
	if len(sections) == 0 {
		return Sos{}, wrapf(core.ErrShapeMismatch, "no sections")
	}
	for i, s := range sections {
		if s.A[0] == 0 {
			return Sos{}, wrapf(core.ErrNonCausal, "section %d has A[0] = 0", i)
		}
	}
	return Sos{Sections: append([]Biquad(nil), sections...)}, nil
}

// Order returns twice the number of sections.
func (s Sos) Order() int { return 2 * len(s.Sections) }

// Eval returns the cascade response at z.
func (s Sos) Eval(z complex128) complex128 {
	h := complex(1, 0)
	for _, b := range s.Sections {
		h *= b.Eval(z)
	}
	return h
}

// Coefficients returns the sections normalised for the biquad runtime.
func (s Sos) Coefficients() ([]biquad.Coefficients, error) {
	out := make([]biquad.Coefficients, len(s.Sections))
	for i, b := range s.Sections {
		c, err := biquad.Normalize(b.B, b.A)
		if err != nil {
			return nil, wrapf(err, "section %d", i)
		}
		out[i] = c
	}
	return out, nil
}

// Chain returns a biquad cascade with zero state that runs s.
func (s Sos) Chain() (*biquad.Chain, error) {
	c, err := s.Coefficients()
	if err != nil {
		return nil, err
	}
	return biquad.NewChain(c), nil
}

// Tf multiplies the sections out as polynomials in z and strips the
// common factors of z from numerator and denominator.
func (s Sos) Tf() (Tf, error) {
	if len(s.Sections) == 0 {
		return Tf{}, wrapf(core.ErrShapeMismatch, "no sections")
	}

	num := poly.Poly[float64]{1}
	den := poly.Poly[float64]{1}
	for _, b := range s.Sections {
		num = poly.Mul(num, poly.Poly[float64](b.B[:]))
		den = poly.Mul(den, poly.Poly[float64](b.A[:]))
	}

	if num.IsZero() {
		return NewTf(nil, den)
	}
	common := min(trailingZeros(num), trailingZeros(den))
	return NewTf(num[:len(num)-common], den[:len(den)-common])
}

func trailingZeros(p []float64) int {
	n := 0
	for i := len(p) - 1; i >= 0 && p[i] == 0; i-- {
		n++
	}
	return n
}

// Zpk collects the roots of every section. Zeros and poles at the origin
// that a section carries only as padding cancel against each other.
func (s Sos) Zpk() (Zpk, error) {
	coeffs, err := s.Coefficients()
	if err != nil {
		return Zpk{}, err
	}

	var zpk Zpk
	zpk.K = 1
	for _, c := range coeffs {
		lead := c.B0
		if lead == 0 {
			lead = c.B1
		}
		if lead == 0 {
			lead = c.B2
		}
		if lead == 0 {
			return Zpk{P: zpk.P, K: 0}, nil
		}
		zpk.K *= lead

		z := c.Zeros()
		p := c.Poles()
		z, p = cancelOrigin(z, p)
		zpk.Z = append(zpk.Z, z...)
		zpk.P = append(zpk.P, p...)
	}
	return zpk, nil
}

// cancelOrigin removes matching roots at exactly zero from z and p.
func cancelOrigin(z, p []complex128) ([]complex128, []complex128) {
	for {
		iz, ip := indexZero(z), indexZero(p)
		if iz < 0 || ip < 0 {
			return z, p
		}
		z = append(z[:iz:iz], z[iz+1:]...)
		p = append(p[:ip:ip], p[ip+1:]...)
	}
}

func indexZero(r []complex128) int {
	for i, v := range r {
		if v == 0 {
			return i
		}
	}
	return -1
}

// Ss converts through the transfer function.
func (s Sos) Ss() (Ss, error) {
	t, err := s.Tf()
	if err != nil {
		return Ss{}, err
	}
	return t.Ss()
}
