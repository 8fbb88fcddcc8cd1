package lti

import (
	"math"

	"github.com/cwbudde/algo-lti/dsp/core"
	"github.com/cwbudde/algo-lti/dsp/poly"
	"gonum.org/v1/gonum/mat"
)

const (
	impzPrecision = 1e-6
	impzMax       = 1 << 16
	impzPeriodic  = 30
)

// Impz returns the impulse response of the z⁻¹ coefficient arrays b/a and
// its time axis (samples, or seconds with core.WithSampleRate). For n ≤ 0
// the length is chosen from the largest pole radius: long enough for a
// stable response to decay by 120 dB, or to grow by 120 dB when unstable.
func Impz(b, a []float64, n int, opts ...core.AnalysisOption) (h, t []float64, err error) {
	nb, na, err := normalizeDifference(b, a)
	if err != nil {
		return nil, nil, err
	}
	if n <= 0 {
		n, err = impzLength(b, a)
		if err != nil {
			return nil, nil, err
		}
	}

	x := make([]float64, n)
	x[0] = 1
	h = make([]float64, n)
	filterDF2T(nb, na, x, h, make([]float64, len(nb)-1))

	cfg := core.ApplyAnalysisOptions(opts...)
	t = make([]float64, n)
	for k := range t {
		t[k] = float64(k)
		if cfg.SampleRate > 0 {
			t[k] /= cfg.SampleRate
		}
	}
	return h, t, nil
}

func impzLength(b, a []float64) (int, error) {
	n := max(len(b), 1)
	den := poly.Poly[float64](a).Trim()
	if len(den) <= 1 {
		return n, nil
	}
	roots, err := poly.Roots(den)
	if err != nil {
		return 0, wrapf(err, "Impz")
	}
	var maxPole float64
	for _, r := range roots {
		maxPole = math.Max(maxPole, math.Hypot(real(r), imag(r)))
	}

	var m int
	switch {
	case maxPole == 0:
		m = len(den)
	case maxPole > 1+impzPrecision:
		m = int(math.Floor(6 / math.Log10(maxPole)))
	case maxPole < 1-impzPrecision:
		m = int(math.Floor(-6 / math.Log10(maxPole)))
	default:
		m = impzPeriodic * len(den)
	}
	return min(max(n, m, len(den)), impzMax), nil
}

// uniformStep returns the spacing of t and checks that t is increasing and
// uniform to within a relative 1e-9.
func uniformStep(t []float64) (float64, error) {
	if len(t) < 2 {
		return 1, nil
	}
	dt := t[1] - t[0]
	if !(dt > 0) {
		return 0, wrapf(core.ErrShapeMismatch, "time vector must be increasing")
	}
	for k := 2; k < len(t); k++ {
		if math.Abs(t[k]-t[k-1]-dt) > 1e-9*math.Max(dt, math.Abs(t[k])) {
			return 0, wrapf(core.ErrShapeMismatch, "time vector must be uniformly spaced")
		}
	}
	return dt, nil
}

// discretize returns Φ = e^{A·T} and Γ = ∫₀ᵀ e^{Aτ}dτ·B from the
// exponential of the block matrix [[A B] [0 0]]·T.
func discretize(s Ss, ts float64) (phi, gamma *mat.Dense) {
	n, p, _ := s.Dims()
	m := mat.NewDense(n+p, n+p, nil)
	m.Slice(0, n, 0, n).(*mat.Dense).Scale(ts, s.A)
	m.Slice(0, n, n, n+p).(*mat.Dense).Scale(ts, s.B)

	var e mat.Dense
	e.Exp(m)
	phi = mat.DenseCopyOf(e.Slice(0, n, 0, n))
	gamma = mat.DenseCopyOf(e.Slice(0, n, n, n+p))
	return phi, gamma
}

// C2d discretizes a continuous system at sample rate fs with a zero-order
// hold on the inputs:
//
//	x[k+1] = e^{A·T}·x[k] + ∫₀ᵀ e^{Aτ}dτ·B·u[k],  T = 1/fs
//
// C and D are unchanged.
func C2d(s Ss, fs float64) (Ss, error) {
	if err := core.ValidateSampleRate(fs); err != nil {
		return Ss{}, wrapf(err, "C2d")
	}
	n, _, _ := s.Dims()
	if n == 0 {
		return Ss{D: mat.DenseCopyOf(s.D)}, nil
	}
	phi, gamma := discretize(s, 1/fs)
	return Ss{A: phi, B: gamma, C: mat.DenseCopyOf(s.C), D: mat.DenseCopyOf(s.D)}, nil
}

// Impulse returns the response of a single-input continuous system to a
// unit impulse at t = 0, sampled at the uniformly spaced times t ≥ 0. The
// result has one row per output; the direct term D does not contribute.
func Impulse(s Ss, t []float64) ([][]float64, error) {
	n, p, q := s.Dims()
	if p != 1 {
		return nil, wrapf(core.ErrShapeMismatch, "Impulse needs one input, got %d", p)
	}
	dt, err := uniformStep(t)
	if err != nil {
		return nil, err
	}
	y := outputs(q, len(t))
	if n == 0 || len(t) == 0 {
		return y, nil
	}

	var start, e mat.Dense
	start.Scale(t[0], s.A)
	e.Exp(&start)
	x := mat.NewVecDense(n, nil)
	x.MulVec(&e, s.B.ColView(0))

	phi, _ := discretize(s, dt)
	next := mat.NewVecDense(n, nil)
	var out mat.VecDense
	for k := range t {
		out.MulVec(s.C, x)
		for i := range q {
			y[i][k] = out.AtVec(i)
		}
		next.MulVec(phi, x)
		x, next = next, x
	}
	return y, nil
}

// Step returns the response of a single-input continuous system to a unit
// step applied at t[0], from zero initial state.
func Step(s Ss, t []float64) ([][]float64, error) {
	_, p, _ := s.Dims()
	if p != 1 {
		return nil, wrapf(core.ErrShapeMismatch, "Step needs one input, got %d", p)
	}
	u := make([]float64, len(t))
	for k := range u {
		u[k] = 1
	}
	return Lsim(s, [][]float64{u}, t, nil)
}

// Lsim simulates a continuous system driven by u, one row per input sampled
// at the uniformly spaced times t, holding each input sample constant until
// the next. x0 is the initial state; nil means zero. The result has one
// row per output.
//
//nolint:cyclop
func Lsim(s Ss, u [][]float64, t []float64, x0 []float64) ([][]float64, error) {
	n, p, q := s.Dims()
	if len(u) != p {
		return nil, wrapf(core.ErrShapeMismatch, "Lsim: %d input rows, want %d", len(u), p)
	}
	for j, row := range u {
		if len(row) != len(t) {
			return nil, wrapf(core.ErrShapeMismatch, "Lsim: input %d has %d samples for %d times", j, len(row), len(t))
		}
	}
	if x0 != nil && len(x0) != n {
		return nil, wrapf(core.ErrShapeMismatch, "Lsim: initial state of length %d, want %d", len(x0), n)
	}
	dt, err := uniformStep(t)
	if err != nil {
		return nil, err
	}

	y := outputs(q, len(t))
	if len(t) == 0 {
		return y, nil
	}

	var (
		phi, gamma *mat.Dense
		x          *mat.VecDense
	)
	if n > 0 {
		phi, gamma = discretize(s, dt)
		x = mat.NewVecDense(n, nil)
		if x0 != nil {
			x = mat.NewVecDense(n, append([]float64(nil), x0...))
		}
	}

	uk := mat.NewVecDense(p, nil)
	var cx, du, next, gu mat.VecDense
	for k := range t {
		for j := range p {
			uk.SetVec(j, u[j][k])
		}
		du.MulVec(s.D, uk)
		if n > 0 {
			cx.MulVec(s.C, x)
			du.AddVec(&du, &cx)
		}
		for i := range q {
			y[i][k] = du.AtVec(i)
		}
		if n > 0 {
			next.MulVec(phi, x)
			gu.MulVec(gamma, uk)
			next.AddVec(&next, &gu)
			x.CopyVec(&next)
		}
	}
	return y, nil
}

func outputs(q, length int) [][]float64 {
	y := make([][]float64, q)
	for i := range y {
		y[i] = make([]float64, length)
	}
	return y
}
