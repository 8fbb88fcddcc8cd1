package lti

import (
	"math"
	"math/cmplx"
	"sort"

	"github.com/cwbudde/algo-lti/dsp/core"
	"github.com/cwbudde/algo-lti/dsp/poly"
	"github.com/cwbudde/algo-lti/internal/polyroot"
)

// Zpk is the factored form K·∏(x − zᵢ)/∏(x − pᵢ). Complex roots of a real
// system come in conjugate pairs; the gain is real. K = 0 is the zero
// system regardless of Z and P.
type Zpk struct {
	Z []complex128
	P []complex128
	K float64
}

// NewZpk copies z and p into a Zpk after checking they are finite.
func NewZpk(z, p []complex128, k float64) (Zpk, error) {
	if err := validateRoots(z, "zero"); err != nil {
		return Zpk{}, err
	}
	if err := validateRoots(p, "pole"); err != nil {
		return Zpk{}, err
	}
	if math.IsNaN(k) || math.IsInf(k, 0) {
		return Zpk{}, wrapf(core.ErrNumerical, "non-finite gain %v", k)
	}
	return Zpk{
		Z: append([]complex128(nil), z...),
		P: append([]complex128(nil), p...),
		K: k,
	}, nil
}

// IsZero reports whether the gain is zero.
func (z Zpk) IsZero() bool { return z.K == 0 }

// Order returns the number of poles.
func (z Zpk) Order() int { return len(z.P) }

// Eval returns K·∏(x − zᵢ)/∏(x − pᵢ).
func (z Zpk) Eval(x complex128) complex128 {
	h := complex(z.K, 0)
	for _, r := range z.Z {
		h *= x - r
	}
	for _, p := range z.P {
		h /= x - p
	}
	return h
}

// Tf expands the zeros and poles into real polynomials. Roots that do not
// pair into conjugates fail with core.ErrOddNumberComplex.
func (z Zpk) Tf(opts ...ConvertOption) (Tf, error) {
	cfg := applyConvertOptions(opts)
	if _, _, err := poly.ComplexReal(z.Z, cfg.pairTol); err != nil {
		return Tf{}, wrapf(err, "zeros")
	}
	if _, _, err := poly.ComplexReal(z.P, cfg.pairTol); err != nil {
		return Tf{}, wrapf(err, "poles")
	}

	den := poly.Product(z.P).ExpandReal()
	var num []float64
	if z.K != 0 {
		num = poly.Product(z.Z).ExpandReal().Scale(z.K)
	}
	return NewTf(num, den)
}

// Ss converts through the transfer function.
func (z Zpk) Ss(opts ...ConvertOption) (Ss, error) {
	t, err := z.Tf(opts...)
	if err != nil {
		return Ss{}, err
	}
	return t.Ss()
}

// rootUnit is a real root or the upper member of a conjugate pair.
type rootUnit struct {
	r    complex128
	pair bool
}

// section groups up to two poles with the zeros assigned to them.
// capacity is 2 for a second-order section and 1 for a first-order one.
type section struct {
	poles    []rootUnit
	zeros    []rootUnit
	capacity int
	dist     float64
}

func unitCircleDist(r complex128) float64 {
	return math.Abs(1 - cmplx.Abs(r))
}

// Sos factors a discrete-time Zpk into second-order sections:
//
//  1. Conjugate pole pairs form one section each; real poles are sorted by
//     distance to the unit circle and grouped two at a time, a leftover
//     real pole forming a first-order section.
//  2. Sections are visited from the one nearest the unit circle outwards
//     and take the nearest remaining zeros, pairs only where a full
//     section is free.
//  3. The cascade is emitted in reverse visiting order so the section
//     nearest the unit circle comes last.
//
// First-order sections are padded with zero coefficients: b = [b₀ b₁ 0],
// a = [1 a₁ 0]. More zeros than poles fails with core.ErrNonCausal.
//
//nolint:cyclop
func (z Zpk) Sos(opts ...ConvertOption) (Sos, error) {
	cfg := applyConvertOptions(opts)
	if len(z.Z) > len(z.P) {
		return Sos{}, wrapf(core.ErrNonCausal, "Zpk.Sos: %d zeros > %d poles", len(z.Z), len(z.P))
	}

	zPairs, zReals, err := poly.ComplexReal(z.Z, cfg.pairTol)
	if err != nil {
		return Sos{}, wrapf(err, "Zpk.Sos zeros")
	}
	pPairs, pReals, err := poly.ComplexReal(z.P, cfg.pairTol)
	if err != nil {
		return Sos{}, wrapf(err, "Zpk.Sos poles")
	}

	if len(z.P) == 0 || z.K == 0 {
		return Sos{Sections: []Biquad{{B: [3]float64{z.K, 0, 0}, A: [3]float64{1, 0, 0}}}}, nil
	}

	var sections []section
	for _, p := range pPairs {
		sections = append(sections, section{
			poles:    []rootUnit{{r: p[0], pair: true}},
			capacity: 2,
			dist:     unitCircleDist(p[0]),
		})
	}
	sort.SliceStable(pReals, func(i, j int) bool {
		return unitCircleDist(complex(pReals[i], 0)) < unitCircleDist(complex(pReals[j], 0))
	})
	for i := 0; i < len(pReals); i += 2 {
		s := section{
			poles:    []rootUnit{{r: complex(pReals[i], 0)}},
			capacity: 1,
			dist:     unitCircleDist(complex(pReals[i], 0)),
		}
		if i+1 < len(pReals) {
			s.poles = append(s.poles, rootUnit{r: complex(pReals[i+1], 0)})
			s.capacity = 2
		}
		sections = append(sections, s)
	}
	sort.SliceStable(sections, func(i, j int) bool { return sections[i].dist < sections[j].dist })

	zeros := make([]rootUnit, 0, len(zPairs)+len(zReals))
	for _, p := range zPairs {
		zeros = append(zeros, rootUnit{r: p[0], pair: true})
	}
	for _, r := range zReals {
		zeros = append(zeros, rootUnit{r: complex(r, 0)})
	}
	pairsLeft := len(zPairs)

	for si := range sections {
		s := &sections[si]
		fullAfter := 0
		for _, o := range sections[si+1:] {
			if o.capacity == 2 {
				fullAfter++
			}
		}

		anchor := s.poles[0].r
		free := s.capacity
		for free > 0 && len(zeros) > 0 {
			mustPair := free == 2 && pairsLeft > fullAfter
			best := -1
			bestDist := math.Inf(1)
			for i, u := range zeros {
				if u.pair && free < 2 {
					continue
				}
				if mustPair && !u.pair {
					continue
				}
				if d := cmplx.Abs(u.r - anchor); d < bestDist {
					best, bestDist = i, d
				}
			}
			if best < 0 {
				break
			}

			u := zeros[best]
			zeros = append(zeros[:best], zeros[best+1:]...)
			s.zeros = append(s.zeros, u)
			if u.pair {
				free -= 2
				pairsLeft--
			} else {
				free--
			}
		}
	}
	if len(zeros) > 0 {
		return Sos{}, wrapf(core.ErrNumerical, "Zpk.Sos: %d zeros left unassigned", len(zeros))
	}

	out := make([]Biquad, len(sections))
	for si, s := range sections {
		out[len(sections)-1-si] = s.biquad()
	}

	applyGain(out, z.K, cfg.gain)
	return Sos{Sections: out}, nil
}

// biquad expands a section's roots into z⁻¹ coefficient arrays.
func (s section) biquad() Biquad {
	var bq Biquad

	switch {
	case s.poles[0].pair:
		bq.A = polyroot.QuadFromPair([2]complex128{s.poles[0].r, cmplx.Conj(s.poles[0].r)})
	case len(s.poles) == 2:
		bq.A = polyroot.QuadFromReals(real(s.poles[0].r), real(s.poles[1].r))
	default:
		bq.A = [3]float64{1, -real(s.poles[0].r), 0}
	}

	var num []float64
	switch {
	case len(s.zeros) == 0:
		num = []float64{1}
	case s.zeros[0].pair:
		q := polyroot.QuadFromPair([2]complex128{s.zeros[0].r, cmplx.Conj(s.zeros[0].r)})
		num = q[:]
	case len(s.zeros) == 2:
		q := polyroot.QuadFromReals(real(s.zeros[0].r), real(s.zeros[1].r))
		num = q[:]
	default:
		num = []float64{1, -real(s.zeros[0].r)}
	}

	if s.capacity == 1 {
		// (z − z₁)/(z − p₁) = (z² − z₁z)/(z² − p₁z)
		num = append(num, 0)
	}
	copy(bq.B[3-len(num):], num)
	return bq
}

func applyGain(sections []Biquad, k float64, placement GainPlacement) {
	if placement == GainDistributed && len(sections) > 1 {
		g := math.Pow(math.Abs(k), 1/float64(len(sections)))
		for i := range sections {
			s := g
			if i == 0 && k < 0 {
				s = -g
			}
			for j := range sections[i].B {
				sections[i].B[j] *= s
			}
		}
		return
	}
	for j := range sections[0].B {
		sections[0].B[j] *= k
	}
}
