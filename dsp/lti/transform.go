package lti

import (
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-lti/dsp/core"
)

// Buttap returns the analog Butterworth low-pass prototype of order n with
// cutoff 1 rad/s: no zeros, poles exp(jπ(2k+n−1)/(2n)) for k = 1..n, gain 1.
func Buttap(n int) (Zpk, error) {
	if n < 1 {
		return Zpk{}, wrapf(core.ErrShapeMismatch, "Buttap order %d", n)
	}

	p := make([]complex128, 0, n)
	for k := 1; k <= n; k++ {
		theta := math.Pi * float64(2*k+n-1) / float64(2*n)
		sin, cos := math.Sincos(theta)
		if 2*k-1 == n {
			sin, cos = 0, -1
		}
		p = append(p, complex(cos, sin))
	}
	return Zpk{P: p, K: 1}, nil
}

// Sftrans maps an analog low-pass prototype with cutoff wo onto the band
// edges w. One edge selects low-pass (stop false) or high-pass (stop true),
// two edges [fl, fh] select band-pass or band-stop:
//
//	low-pass   s → wo·s/fc
//	high-pass  s → wo·fc/s
//	band-pass  s → wo·(s² + fl·fh)/((fh − fl)·s)
//	band-stop  s → wo·(fh − fl)·s/(s² + fl·fh)
//
// Zeros at infinity of the prototype land at the origin for high-pass and
// band-pass and at ±j√(fl·fh) for band-stop. Prototype roots at the origin
// cannot be mapped by high-pass or band-stop and fail with core.ErrNumerical.
//
//nolint:cyclop
func Sftrans(zpk Zpk, wo float64, w []float64, stop bool) (Zpk, error) {
	nz, np := len(zpk.Z), len(zpk.P)
	switch {
	case np == 0:
		return Zpk{}, wrapf(core.ErrZeroPoles, "Sftrans")
	case nz > np:
		return Zpk{}, wrapf(core.ErrNonCausal, "Sftrans: %d zeros > %d poles", nz, np)
	case len(w) != 1 && len(w) != 2:
		return Zpk{}, wrapf(core.ErrShapeMismatch, "Sftrans needs 1 or 2 edges, got %d", len(w))
	case !(wo > 0) || math.IsInf(wo, 0):
		return Zpk{}, wrapf(core.ErrEdgesOutOfRange, "prototype cutoff %v", wo)
	}
	for _, e := range w {
		if !(e > 0) || math.IsInf(e, 0) {
			return Zpk{}, wrapf(core.ErrEdgesOutOfRange, "edge %v", e)
		}
	}
	if len(w) == 2 && w[1] < w[0] {
		return Zpk{}, wrapf(core.ErrEdgesNotNondecreasing, "edges %v", w)
	}

	if stop {
		for _, r := range append(append([]complex128(nil), zpk.Z...), zpk.P...) {
			if r == 0 {
				return Zpk{}, wrapf(core.ErrNumerical, "Sftrans: root at the origin maps to infinity")
			}
		}
	}

	c := complex(wo, 0)
	out := Zpk{K: zpk.K}

	if len(w) == 1 {
		fc := complex(w[0], 0)
		if !stop {
			out.K *= math.Pow(wo/w[0], float64(nz-np))
			out.P = mapRoots(zpk.P, func(r complex128) complex128 { return fc * r / c })
			out.Z = mapRoots(zpk.Z, func(r complex128) complex128 { return fc * r / c })
			return out, nil
		}

		out.K *= real(prodNeg(zpk.Z) / prodNeg(zpk.P))
		out.P = mapRoots(zpk.P, func(r complex128) complex128 { return c * fc / r })
		out.Z = mapRoots(zpk.Z, func(r complex128) complex128 { return c * fc / r })
		out.Z = append(out.Z, make([]complex128, np-nz)...)
		return out, nil
	}

	fl, fh := w[0], w[1]
	bw := complex(fh-fl, 0)
	prod := complex(fl*fh, 0)

	if !stop {
		out.K *= math.Pow(wo/(fh-fl), float64(nz-np))
		scale := bw / (2 * c)
		out.P = splitRoots(zpk.P, func(r complex128) complex128 { return r * scale }, prod)
		out.Z = splitRoots(zpk.Z, func(r complex128) complex128 { return r * scale }, prod)
		out.Z = append(out.Z, make([]complex128, np-nz)...)
		return out, nil
	}

	out.K *= real(prodNeg(zpk.Z) / prodNeg(zpk.P))
	half := c * bw / 2
	out.P = splitRoots(zpk.P, func(r complex128) complex128 { return half / r }, prod)
	out.Z = splitRoots(zpk.Z, func(r complex128) complex128 { return half / r }, prod)
	centre := complex(0, math.Sqrt(fl*fh))
	for range np - nz {
		out.Z = append(out.Z, centre, -centre)
	}
	return out, nil
}

func mapRoots(r []complex128, f func(complex128) complex128) []complex128 {
	out := make([]complex128, len(r))
	for i, v := range r {
		out[i] = f(v)
	}
	return out
}

// splitRoots replaces every root r by the two roots b ± √(b² − prod) with
// b = half(r). Roots of each conjugate pair stay conjugate.
func splitRoots(r []complex128, half func(complex128) complex128, prod complex128) []complex128 {
	out := make([]complex128, 0, 2*len(r))
	for _, v := range r {
		b := half(v)
		d := cmplx.Sqrt(b*b - prod)
		out = append(out, b+d, b-d)
	}
	return out
}

func prodNeg(r []complex128) complex128 {
	p := complex(1, 0)
	for _, v := range r {
		p *= -v
	}
	return p
}

// Bilinear maps an analog Zpk to discrete time with s → 2·fs·(z−1)/(z+1):
//
//	zᵢ' = (2fs + zᵢ)/(2fs − zᵢ),  pᵢ' = (2fs + pᵢ)/(2fs − pᵢ)
//	k'  = k·∏(2fs − zᵢ)/∏(2fs − pᵢ)
//
// Zeros at infinity map to z = −1, so the result has as many zeros as
// poles. Pre-warp the analog edges when a specific frequency must match.
func Bilinear(zpk Zpk, fs float64) (Zpk, error) {
	if err := core.ValidateSampleRate(fs); err != nil {
		return Zpk{}, wrapf(err, "Bilinear")
	}
	if len(zpk.Z) > len(zpk.P) {
		return Zpk{}, wrapf(core.ErrNonCausal, "Bilinear: %d zeros > %d poles", len(zpk.Z), len(zpk.P))
	}

	fs2 := complex(2*fs, 0)
	gain := complex(zpk.K, 0)
	for _, z := range zpk.Z {
		gain *= fs2 - z
	}
	for _, p := range zpk.P {
		gain /= fs2 - p
	}

	out := Zpk{K: real(gain)}
	out.Z = mapRoots(zpk.Z, func(r complex128) complex128 { return (fs2 + r) / (fs2 - r) })
	out.P = mapRoots(zpk.P, func(r complex128) complex128 { return (fs2 + r) / (fs2 - r) })
	for range len(zpk.P) - len(zpk.Z) {
		out.Z = append(out.Z, -1)
	}
	if err := validateRoots(out.P, "pole"); err != nil {
		return Zpk{}, err
	}
	return out, nil
}

// BilinearTf applies Bilinear to an analog transfer function and expands
// the result back into a transfer function in z.
func BilinearTf(t Tf, fs float64) (Tf, error) {
	if !t.IsProper() {
		return Tf{}, wrapf(core.ErrNonCausal, "BilinearTf")
	}
	z, err := t.Zpk()
	if err != nil {
		return Tf{}, err
	}
	d, err := Bilinear(z, fs)
	if err != nil {
		return Tf{}, err
	}
	return d.Tf()
}

// bilinearUnitTol is the distance to z = −1 below which a zero is treated
// as the image of a zero at infinity.
const bilinearUnitTol = 1e-9

// BilinearInverse maps a discrete Zpk back to continuous time with
// s = 2·fs·(z−1)/(z+1). Zeros at z = −1 go back to infinity and are
// dropped; every missing discrete zero becomes an analog zero at s = 2fs.
// A pole at z = −1 has no finite image and fails with core.ErrNumerical.
func BilinearInverse(zpk Zpk, fs float64) (Zpk, error) {
	if err := core.ValidateSampleRate(fs); err != nil {
		return Zpk{}, wrapf(err, "BilinearInverse")
	}
	if len(zpk.Z) > len(zpk.P) {
		return Zpk{}, wrapf(core.ErrNonCausal, "BilinearInverse: %d zeros > %d poles", len(zpk.Z), len(zpk.P))
	}

	fs2 := complex(2*fs, 0)
	gain := complex(zpk.K, 0)
	out := Zpk{}

	for _, p := range zpk.P {
		if cmplx.Abs(p+1) < bilinearUnitTol {
			return Zpk{}, wrapf(core.ErrNumerical, "BilinearInverse: pole at z = -1")
		}
		out.P = append(out.P, fs2*(p-1)/(p+1))
		gain /= 1 + p
	}
	for _, z := range zpk.Z {
		if cmplx.Abs(z+1) < bilinearUnitTol {
			gain *= 2 * fs2
			continue
		}
		out.Z = append(out.Z, fs2*(z-1)/(z+1))
		gain *= 1 + z
	}
	for range len(zpk.P) - len(zpk.Z) {
		out.Z = append(out.Z, fs2)
		gain = -gain
	}

	out.K = real(gain)
	return out, nil
}
