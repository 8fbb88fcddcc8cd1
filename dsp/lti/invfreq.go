package lti

import (
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-lti/dsp/core"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// FitMethod selects the solver used by Invfreqz and Invfreqs.
type FitMethod int

const (
	// MethodLS solves the normal equations.
	MethodLS FitMethod = iota
	// MethodTLS takes the total least-squares solution from the smallest
	// right singular vector of the augmented system.
	MethodTLS
	// MethodMLS equilibrates the columns before a QR solve.
	MethodMLS
	// MethodQR solves the least-squares problem by QR factorisation.
	MethodQR
)

// String returns the method name.
func (m FitMethod) String() string {
	switch m {
	case MethodLS:
		return "LS"
	case MethodTLS:
		return "TLS"
	case MethodMLS:
		return "MLS"
	case MethodQR:
		return "QR"
	default:
		return "unknown"
	}
}

type fitConfig struct {
	weights []float64
	method  FitMethod
}

// FitOption configures Invfreqz and Invfreqs.
type FitOption func(*fitConfig)

// WithWeights weights each frequency sample; the length must match the
// samples.
func WithWeights(w []float64) FitOption {
	return func(c *fitConfig) { c.weights = w }
}

// WithMethod selects the solver. Default MethodLS.
func WithMethod(m FitMethod) FitOption {
	return func(c *fitConfig) { c.method = m }
}

// Invfreqz fits a discrete transfer function b/a in z⁻¹ with nb+1
// numerator and na+1 denominator coefficients (a[0] = 1) to the complex
// response samples h at frequencies w (radians per sample). It minimises
//
//	Σ W(k)·|B(e^{−jωₖ}) − H(k)·A(e^{−jωₖ})|²
//
// over the real and imaginary parts of every sample.
func Invfreqz(h []complex128, w []float64, nb, na int, opts ...FitOption) (b, a []float64, err error) {
	basis := func(wk float64, order int) []complex128 {
		out := make([]complex128, order+1)
		for i := range out {
			out[i] = cmplx.Exp(complex(0, -wk*float64(i)))
		}
		return out
	}
	return invfreq(h, w, nb, na, basis, opts)
}

// Invfreqs fits a continuous transfer function b/a in s, highest power
// first, with a monic denominator of degree na and a numerator of degree
// nb, to the samples h at frequencies w (rad/s).
func Invfreqs(h []complex128, w []float64, nb, na int, opts ...FitOption) (b, a []float64, err error) {
	basis := func(wk float64, order int) []complex128 {
		s := complex(0, wk)
		out := make([]complex128, order+1)
		p := complex(1, 0)
		for i := order; i >= 0; i-- {
			out[i] = p
			p *= s
		}
		return out
	}
	return invfreq(h, w, nb, na, basis, opts)
}

// invfreq assembles the linearised system. basis(ω, m) returns the m+1
// powers of the transform variable in coefficient order; the term of the
// fixed a[0] = 1 moves to the right-hand side.
//
//nolint:cyclop
func invfreq(
	h []complex128, w []float64, nb, na int,
	basis func(float64, int) []complex128, opts []FitOption,
) ([]float64, []float64, error) {
	cfg := fitConfig{method: MethodLS}
	for _, o := range opts {
		if o != nil {
			o(&cfg)
		}
	}

	k := len(h)
	unknowns := nb + 1 + na
	switch {
	case nb < 0 || na < 0:
		return nil, nil, wrapf(core.ErrShapeMismatch, "invfreq orders nb=%d na=%d", nb, na)
	case len(w) != k:
		return nil, nil, wrapf(core.ErrShapeMismatch, "invfreq: %d samples at %d frequencies", k, len(w))
	case cfg.weights != nil && len(cfg.weights) != k:
		return nil, nil, wrapf(core.ErrShapeMismatch, "invfreq: %d weights for %d samples", len(cfg.weights), k)
	case 2*k < unknowns:
		return nil, nil, wrapf(core.ErrShapeMismatch, "invfreq: %d samples cannot fit %d coefficients", k, unknowns)
	}

	m := mat.NewDense(2*k, unknowns, nil)
	rhs := mat.NewDense(2*k, 1, nil)
	for i := range k {
		sw := 1.0
		if cfg.weights != nil {
			if cfg.weights[i] < 0 {
				return nil, nil, wrapf(core.ErrShapeMismatch, "invfreq: negative weight at %d", i)
			}
			sw = math.Sqrt(cfg.weights[i])
		}

		bz := basis(w[i], nb)
		az := basis(w[i], na)
		row := make([]complex128, unknowns)
		copy(row, bz)
		for j := 1; j <= na; j++ {
			row[nb+j] = -h[i] * az[j]
		}
		// az[0] is the fixed coefficient a[0] = 1: s^na or z⁰.
		r := h[i] * az[0]

		for j, v := range row {
			m.Set(2*i, j, sw*real(v))
			m.Set(2*i+1, j, sw*imag(v))
		}
		rhs.Set(2*i, 0, sw*real(r))
		rhs.Set(2*i+1, 0, sw*imag(r))
	}

	x, err := solveFit(m, rhs, cfg.method)
	if err != nil {
		return nil, nil, err
	}

	b := append([]float64(nil), x[:nb+1]...)
	a := make([]float64, na+1)
	a[0] = 1
	copy(a[1:], x[nb+1:])
	return b, a, nil
}

func solveFit(m, rhs *mat.Dense, method FitMethod) ([]float64, error) {
	_, cols := m.Dims()
	var x mat.Dense

	switch method {
	case MethodLS:
		var ata, atb mat.Dense
		ata.Mul(m.T(), m)
		atb.Mul(m.T(), rhs)
		if err := x.Solve(&ata, &atb); err != nil {
			return nil, wrapf(core.ErrNumerical, "invfreq LS: %v", err)
		}

	case MethodQR:
		var qr mat.QR
		qr.Factorize(m)
		if err := qr.SolveTo(&x, false, rhs); err != nil {
			return nil, wrapf(core.ErrNumerical, "invfreq QR: %v", err)
		}

	case MethodMLS:
		rows, _ := m.Dims()
		scaled := mat.DenseCopyOf(m)
		norms := make([]float64, cols)
		col := make([]float64, rows)
		for j := range cols {
			mat.Col(col, j, m)
			norms[j] = floats.Norm(col, 2)
			if norms[j] == 0 {
				norms[j] = 1
			}
			floats.Scale(1/norms[j], col)
			scaled.SetCol(j, col)
		}
		var qr mat.QR
		qr.Factorize(scaled)
		if err := qr.SolveTo(&x, false, rhs); err != nil {
			return nil, wrapf(core.ErrNumerical, "invfreq MLS: %v", err)
		}
		for j := range cols {
			x.Set(j, 0, x.At(j, 0)/norms[j])
		}

	case MethodTLS:
		rows, _ := m.Dims()
		aug := mat.NewDense(rows, cols+1, nil)
		aug.Slice(0, rows, 0, cols).(*mat.Dense).Copy(m)
		aug.Slice(0, rows, cols, cols+1).(*mat.Dense).Copy(rhs)

		var svd mat.SVD
		if !svd.Factorize(aug, mat.SVDFullV) {
			return nil, wrapf(core.ErrNumerical, "invfreq TLS: SVD failed")
		}
		var v mat.Dense
		svd.VTo(&v)
		last := v.At(cols, cols)
		if math.Abs(last) < epsilon {
			return nil, wrapf(core.ErrNumerical, "invfreq TLS: degenerate solution")
		}
		x.ReuseAs(cols, 1)
		for j := range cols {
			x.Set(j, 0, -v.At(j, cols)/last)
		}

	default:
		return nil, wrapf(core.ErrShapeMismatch, "invfreq: unknown method %d", int(method))
	}

	return mat.Col(nil, 0, &x), nil
}
