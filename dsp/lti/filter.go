package lti

import (
	"github.com/cwbudde/algo-lti/dsp/core"
	"github.com/cwbudde/algo-lti/dsp/filter/biquad"
	"github.com/cwbudde/algo-lti/dsp/poly"
	"gonum.org/v1/gonum/mat"
)

// Filter runs x through the difference equation
//
//	a₀·y[n] = Σ b[k]·x[n−k] − Σ_{k≥1} a[k]·y[n−k]
//
// with coefficient arrays in z⁻¹, starting from zero state. Empty a fails
// with core.ErrZeroPoles and a[0] = 0 with core.ErrNonCausal.
func Filter(b, a, x []float64) ([]float64, error) {
	nb, na, err := normalizeDifference(b, a)
	if err != nil {
		return nil, err
	}
	y := make([]float64, len(x))
	filterDF2T(nb, na, x, y, make([]float64, len(nb)-1))
	return y, nil
}

// FilterComplex is Filter for complex coefficients and signals.
func FilterComplex(b, a, x []complex128) ([]complex128, error) {
	nb, na, err := normalizeDifference(b, a)
	if err != nil {
		return nil, err
	}
	y := make([]complex128, len(x))
	filterDF2T(nb, na, x, y, make([]complex128, len(nb)-1))
	return y, nil
}

// normalizeDifference scales b and a by 1/a[0] and pads both to a common
// length.
func normalizeDifference[T poly.Scalar](b, a []T) ([]T, []T, error) {
	if len(a) == 0 {
		return nil, nil, wrapf(core.ErrZeroPoles, "filter: empty denominator")
	}
	if a[0] == 0 {
		return nil, nil, wrapf(core.ErrNonCausal, "filter: a[0] = 0")
	}
	n := max(len(a), len(b), 1)
	nb := make([]T, n)
	na := make([]T, n)
	for i, v := range b {
		nb[i] = v / a[0]
	}
	for i, v := range a {
		na[i] = v / a[0]
	}
	return nb, na, nil
}

// filterDF2T is the transposed direct form II kernel. b and a are normalised
// and have equal length; z holds len(b)−1 delays and is updated in place.
func filterDF2T[T poly.Scalar](b, a, x, y, z []T) {
	n := len(z)
	for i, xi := range x {
		if n == 0 {
			y[i] = b[0] * xi
			continue
		}
		yi := b[0]*xi + z[0]
		for k := 1; k < n; k++ {
			z[k-1] = b[k]*xi + z[k] - a[k]*yi
		}
		z[n-1] = b[n]*xi - a[n]*yi
		y[i] = yi
	}
}

// FiltFilt filters x forward and then backward, giving zero phase and the
// squared magnitude response of b/a. The ends are extended by odd
// reflection over 3·(max(len(a), len(b))−1) samples and both passes start
// from the steady state of a unit step, which keeps start-up transients
// out of the result. x must be longer than the extension.
func FiltFilt(b, a, x []float64) ([]float64, error) {
	nb, na, err := normalizeDifference(b, a)
	if err != nil {
		return nil, err
	}
	order := len(nb) - 1
	pad := 3 * order
	if len(x) <= pad {
		return nil, wrapf(core.ErrShapeMismatch, "FiltFilt: input length %d must exceed %d", len(x), pad)
	}
	zi, err := stepState(nb, na)
	if err != nil {
		return nil, err
	}

	ext := oddExtend(x, pad)
	y := make([]float64, len(ext))
	z := make([]float64, order)

	for i, v := range zi {
		z[i] = v * ext[0]
	}
	filterDF2T(nb, na, ext, y, z)

	reverse(y)
	for i, v := range zi {
		z[i] = v * y[0]
	}
	out := make([]float64, len(y))
	filterDF2T(nb, na, y, out, z)
	reverse(out)

	return out[pad : pad+len(x)], nil
}

// stepState returns the DF-II-T delays that a unit step settles into:
// (I − Cᵀ)·zi = b[1:] − a[1:]·b[0] with C the companion matrix of a.
func stepState(b, a []float64) ([]float64, error) {
	n := len(a) - 1
	if n == 0 {
		return nil, nil
	}

	m := mat.NewDense(n, n, nil)
	for i := range n {
		m.Set(i, 0, a[i+1])
		m.Set(i, i, m.At(i, i)+1)
		if i+1 < n {
			m.Set(i, i+1, -1)
		}
	}
	rhs := mat.NewVecDense(n, nil)
	for i := range n {
		rhs.SetVec(i, b[i+1]-a[i+1]*b[0])
	}

	var zi mat.VecDense
	if err := zi.SolveVec(m, rhs); err != nil {
		return nil, wrapf(core.ErrNumerical, "FiltFilt: steady state: %v", err)
	}
	return zi.RawVector().Data, nil
}

func oddExtend(x []float64, pad int) []float64 {
	n := len(x)
	out := make([]float64, 0, n+2*pad)
	for i := pad; i >= 1; i-- {
		out = append(out, 2*x[0]-x[i])
	}
	out = append(out, x...)
	for i := n - 2; i >= n-1-pad; i-- {
		out = append(out, 2*x[n-1]-x[i])
	}
	return out
}

func reverse(x []float64) {
	for i, j := 0, len(x)-1; i < j; i, j = i+1, j-1 {
		x[i], x[j] = x[j], x[i]
	}
}

type rtfKind int

const (
	rtfTf rtfKind = iota
	rtfSos
	rtfSs
)

// Rtf runs a system sample by sample and keeps its delay state between
// calls, so consecutive blocks filter as one signal. The state is created
// on first use. An Rtf is not safe for concurrent use.
type Rtf struct {
	kind rtfKind

	// transfer function rows as normalised z⁻¹ arrays
	num [][]float64
	den []float64
	tfZ [][]float64

	sos   Sos
	chain *biquad.Chain

	// state space in row-major order
	n, p, q    int
	a, b, c, d []float64
	x, xNext   []float64
}

// NewRtfTf returns a runtime filter for a discrete transfer function in z.
// Every numerator row must be proper; row i feeds output i.
func NewRtfTf(t Tf) (*Rtf, error) {
	if len(t.Num) == 0 {
		return nil, wrapf(core.ErrShapeMismatch, "Rtf: no numerator rows")
	}
	c := t.canonical()
	if len(c.Den) == 0 {
		return nil, wrapf(core.ErrZeroPoles, "Rtf")
	}
	if !c.IsProper() {
		return nil, wrapf(core.ErrNonCausal, "Rtf")
	}

	a0 := c.Den[0]
	den := make([]float64, len(c.Den))
	for i, v := range c.Den {
		den[i] = v / a0
	}
	num := make([][]float64, len(c.Num))
	for i, r := range c.Num {
		row := core.PadLeft(append([]float64(nil), r...), len(den))
		for k := range row {
			row[k] /= a0
		}
		num[i] = row
	}
	return &Rtf{kind: rtfTf, num: num, den: den}, nil
}

// NewRtfSos returns a runtime filter backed by a biquad chain.
func NewRtfSos(s Sos) (*Rtf, error) {
	if len(s.Sections) == 0 {
		return nil, wrapf(core.ErrShapeMismatch, "Rtf: no sections")
	}
	if _, err := s.Coefficients(); err != nil {
		return nil, err
	}
	return &Rtf{kind: rtfSos, sos: s}, nil
}

// NewRtfSs returns a runtime filter iterating x[k+1] = A·x[k] + B·u[k],
// y[k] = C·x[k] + D·u[k].
func NewRtfSs(s Ss) (*Rtf, error) {
	n, p, q := s.Dims()
	if s.D == nil {
		return nil, wrapf(core.ErrShapeMismatch, "Rtf: D is required")
	}
	r := &Rtf{kind: rtfSs, n: n, p: p, q: q, d: rowMajor(s.D)}
	if n > 0 {
		r.a, r.b, r.c = rowMajor(s.A), rowMajor(s.B), rowMajor(s.C)
	}
	return r, nil
}

func rowMajor(m *mat.Dense) []float64 {
	r, c := m.Dims()
	out := make([]float64, 0, r*c)
	for i := range r {
		out = append(out, m.RawRowView(i)...)
	}
	return out
}

// Inputs returns the number of input channels.
func (r *Rtf) Inputs() int {
	if r.kind == rtfSs {
		return r.p
	}
	return 1
}

// Outputs returns the number of output channels.
func (r *Rtf) Outputs() int {
	switch r.kind {
	case rtfTf:
		return len(r.num)
	case rtfSs:
		return r.q
	default:
		return 1
	}
}

func (r *Rtf) ensureState() error {
	switch r.kind {
	case rtfTf:
		if r.tfZ == nil {
			r.tfZ = make([][]float64, len(r.num))
			for i := range r.tfZ {
				r.tfZ[i] = make([]float64, len(r.den)-1)
			}
		}
	case rtfSos:
		if r.chain == nil {
			c, err := r.sos.Chain()
			if err != nil {
				return err
			}
			r.chain = c
		}
	case rtfSs:
		if r.x == nil {
			r.x = make([]float64, r.n)
			r.xNext = make([]float64, r.n)
		}
	}
	return nil
}

// Filter runs a single-input single-output system over x.
func (r *Rtf) Filter(x []float64) ([]float64, error) {
	if r.Inputs() != 1 || r.Outputs() != 1 {
		return nil, wrapf(core.ErrShapeMismatch, "Rtf.Filter needs one input and one output, have %d and %d",
			r.Inputs(), r.Outputs())
	}
	y, err := r.FilterMIMO([][]float64{x})
	if err != nil {
		return nil, err
	}
	return y[0], nil
}

// FilterMIMO runs the system over one sequence per input and returns one
// sequence per output. All input sequences must have the same length.
func (r *Rtf) FilterMIMO(u [][]float64) ([][]float64, error) {
	if len(u) != r.Inputs() {
		return nil, wrapf(core.ErrShapeMismatch, "Rtf: %d input sequences, want %d", len(u), r.Inputs())
	}
	length := len(u[0])
	for j, s := range u {
		if len(s) != length {
			return nil, wrapf(core.ErrShapeMismatch, "Rtf: input %d has length %d, want %d", j, len(s), length)
		}
	}
	if err := r.ensureState(); err != nil {
		return nil, err
	}

	y := make([][]float64, r.Outputs())
	for i := range y {
		y[i] = make([]float64, length)
	}

	switch r.kind {
	case rtfTf:
		for i, row := range r.num {
			filterDF2T(row, r.den, u[0], y[i], r.tfZ[i])
		}
	case rtfSos:
		r.chain.ProcessBlockTo(y[0], u[0])
	case rtfSs:
		r.stepSs(u, y)
	}
	return y, nil
}

func (r *Rtf) stepSs(u, y [][]float64) {
	n, p, q := r.n, r.p, r.q
	uk := make([]float64, p)
	for k := range u[0] {
		for j := range p {
			uk[j] = u[j][k]
		}
		for i := range q {
			var acc float64
			for s := range n {
				acc += r.c[i*n+s] * r.x[s]
			}
			for j := range p {
				acc += r.d[i*p+j] * uk[j]
			}
			y[i][k] = acc
		}
		for i := range n {
			var acc float64
			for s := range n {
				acc += r.a[i*n+s] * r.x[s]
			}
			for j := range p {
				acc += r.b[i*p+j] * uk[j]
			}
			r.xNext[i] = acc
		}
		r.x, r.xNext = r.xNext, r.x
	}
}

// Reset clears the delay state.
func (r *Rtf) Reset() {
	for _, z := range r.tfZ {
		clear(z)
	}
	if r.chain != nil {
		r.chain.Reset()
	}
	clear(r.x)
}

// State returns a copy of the delay state, flattened: the delays of each
// transfer-function row in turn, the two delays of each section, or the
// state vector. It is empty before the first call to Filter.
func (r *Rtf) State() []float64 {
	var out []float64
	switch r.kind {
	case rtfTf:
		for _, z := range r.tfZ {
			out = append(out, z...)
		}
	case rtfSos:
		if r.chain != nil {
			for _, s := range r.chain.State() {
				out = append(out, s[0], s[1])
			}
		}
	case rtfSs:
		out = append(out, r.x...)
	}
	return out
}
