package lti

import (
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-lti/dsp/core"
	"github.com/cwbudde/algo-lti/dsp/poly"
	"gonum.org/v1/gonum/mat"
)

// Ss is a state-space system
//
//	x' = A·x + B·u
//	y  = C·x + D·u
//
// with A n×n, B n×p, C q×n and D q×p. A pure gain (n = 0) keeps A, B and C
// nil and stores only D.
type Ss struct {
	A, B, C, D *mat.Dense
}

// NewSs checks the shapes of a, b, c and d and returns a system holding
// copies of them. Pass nil a, b and c for a pure gain.
func NewSs(a, b, c, d *mat.Dense) (Ss, error) {
	if d == nil {
		return Ss{}, wrapf(core.ErrShapeMismatch, "D is required")
	}
	q, p := d.Dims()

	if a == nil {
		if b != nil || c != nil {
			return Ss{}, wrapf(core.ErrShapeMismatch, "B and C must be nil without A")
		}
		return Ss{D: mat.DenseCopyOf(d)}, nil
	}
	if b == nil || c == nil {
		return Ss{}, wrapf(core.ErrShapeMismatch, "B and C are required with A")
	}

	ar, ac := a.Dims()
	br, bc := b.Dims()
	cr, cc := c.Dims()
	switch {
	case ar != ac:
		return Ss{}, wrapf(core.ErrShapeMismatch, "A is %d×%d", ar, ac)
	case br != ar || bc != p:
		return Ss{}, wrapf(core.ErrShapeMismatch, "B is %d×%d, want %d×%d", br, bc, ar, p)
	case cr != q || cc != ar:
		return Ss{}, wrapf(core.ErrShapeMismatch, "C is %d×%d, want %d×%d", cr, cc, q, ar)
	}

	return Ss{
		A: mat.DenseCopyOf(a),
		B: mat.DenseCopyOf(b),
		C: mat.DenseCopyOf(c),
		D: mat.DenseCopyOf(d),
	}, nil
}

// NewSsData builds a system from row-major slices with n states, p inputs
// and q outputs.
func NewSsData(n, p, q int, a, b, c, d []float64) (Ss, error) {
	if n == 0 {
		return NewGainSs(q, p, d)
	}
	if n < 0 || p <= 0 || q <= 0 || len(a) != n*n || len(b) != n*p || len(c) != q*n || len(d) != q*p {
		return Ss{}, wrapf(core.ErrShapeMismatch, "data lengths do not match n=%d p=%d q=%d", n, p, q)
	}
	return Ss{
		A: mat.NewDense(n, n, append([]float64(nil), a...)),
		B: mat.NewDense(n, p, append([]float64(nil), b...)),
		C: mat.NewDense(q, n, append([]float64(nil), c...)),
		D: mat.NewDense(q, p, append([]float64(nil), d...)),
	}, nil
}

// NewGainSs returns the static system y = D·u with D given row-major.
func NewGainSs(q, p int, d []float64) (Ss, error) {
	if p <= 0 || q <= 0 || len(d) != q*p {
		return Ss{}, wrapf(core.ErrShapeMismatch, "gain of %d values for %d×%d", len(d), q, p)
	}
	return Ss{D: mat.NewDense(q, p, append([]float64(nil), d...))}, nil
}

// Dims returns the state, input and output dimensions.
func (s Ss) Dims() (n, p, q int) {
	q, p = s.D.Dims()
	if s.A != nil {
		n, _ = s.A.Dims()
	}
	return n, p, q
}

// Poles returns the eigenvalues of A.
func (s Ss) Poles() ([]complex128, error) {
	if s.A == nil {
		return nil, nil
	}
	return eigenvalues(s.A)
}

// Input returns the single-input system driven by input column j.
func (s Ss) Input(j int) (Ss, error) {
	n, p, q := s.Dims()
	if j < 0 || j >= p {
		return Ss{}, wrapf(core.ErrShapeMismatch, "input %d of %d", j, p)
	}

	d := mat.NewDense(q, 1, mat.Col(nil, j, s.D))
	if n == 0 {
		return Ss{D: d}, nil
	}
	return Ss{
		A: mat.DenseCopyOf(s.A),
		B: mat.NewDense(n, 1, mat.Col(nil, j, s.B)),
		C: mat.DenseCopyOf(s.C),
		D: d,
	}, nil
}

// Tf converts a single-input system; use TfInput for the others.
func (s Ss) Tf() (Tf, error) {
	if _, p, _ := s.Dims(); p != 1 {
		return Tf{}, wrapf(core.ErrShapeMismatch, "Ss.Tf needs one input, got %d", p)
	}
	return s.TfInput(0)
}

// TfInput returns the transfer function from input j to every output:
//
//	H(s) = C·(sI − A)⁻¹·B_j + D_j
//
// The denominator is the characteristic polynomial of A from its
// eigenvalues; numerator row i is det(sI − (A − B_j·C_i)) plus
// (D_ij − 1)·det(sI − A). When the eigenvalue problem fails the
// Faddeev–LeVerrier recursion provides the adjugate instead.
func (s Ss) TfInput(j int) (Tf, error) {
	sub, err := s.Input(j)
	if err != nil {
		return Tf{}, err
	}
	n, _, q := sub.Dims()

	if n == 0 {
		rows := make([][]float64, q)
		for i := range q {
			rows[i] = []float64{sub.D.At(i, 0)}
		}
		return NewTfRows(rows, []float64{1})
	}

	den, ok := charPoly(sub.A)
	if !ok {
		return sub.tfFaddeev()
	}

	rows := make([][]float64, q)
	bc := mat.NewVecDense(n, mat.Col(nil, 0, sub.B))
	for i := range q {
		ci := mat.NewVecDense(n, mat.Row(nil, i, sub.C))
		var outer, m mat.Dense
		outer.Outer(1, bc, ci)
		m.Sub(sub.A, &outer)

		pm, ok := charPoly(&m)
		if !ok {
			return sub.tfFaddeev()
		}
		dij := sub.D.At(i, 0)
		row := make([]float64, n+1)
		for k := range row {
			row[k] = pm[k] + (dij-1)*den[k]
		}
		rows[i] = dropCancelled(row, pm, den)
	}

	return NewTfRows(rows, den)
}

// dropCancelled zeroes leading numerator terms that are rounding residue of
// the subtraction pm − den, so they do not turn into spurious roots.
func dropCancelled(row, pm, den []float64) []float64 {
	scale := 0.0
	for k := range row {
		scale = max(scale, math.Abs(pm[k]), math.Abs(den[k]))
	}
	tol := 64 * epsilon * scale
	for k := range row {
		if math.Abs(row[k]) > tol {
			break
		}
		row[k] = 0
	}
	return row
}

// tfFaddeev computes the transfer function of a single-input system with
// the Faddeev–LeVerrier recursion
//
//	M₁ = I,  c_{n−1} = −tr(A)
//	M_k = A·M_{k−1} + c_{n−k+1}·I,  c_{n−k} = −tr(A·M_k)/k
//
// which yields adj(sI − A) = Σ M_k·s^{n−k} and det(sI − A) alongside.
func (s Ss) tfFaddeev() (Tf, error) {
	n, _, q := s.Dims()
	coeffs, adj := faddeevLeVerrier(s.A)

	rows := make([][]float64, q)
	for i := range q {
		dij := s.D.At(i, 0)
		row := make([]float64, n+1)
		row[0] = dij
		for k := 1; k <= n; k++ {
			var cm mat.Dense
			cm.Mul(s.C.Slice(i, i+1, 0, n), adj[k-1])
			var cmb mat.Dense
			cmb.Mul(&cm, s.B)
			row[k] = cmb.At(0, 0) + dij*coeffs[k]
		}
		rows[i] = row
	}
	return NewTfRows(rows, coeffs)
}

// faddeevLeVerrier returns the monic characteristic polynomial of a
// (highest power first) and the adjugate coefficient matrices M₁…Mₙ.
func faddeevLeVerrier(a *mat.Dense) ([]float64, []*mat.Dense) {
	n, _ := a.Dims()
	coeffs := make([]float64, n+1)
	coeffs[0] = 1

	eye := identity(n)
	adj := make([]*mat.Dense, n)
	m := mat.DenseCopyOf(eye)
	for k := 1; k <= n; k++ {
		if k > 1 {
			var next mat.Dense
			next.Mul(a, m)
			var shift mat.Dense
			shift.Scale(coeffs[k-1], eye)
			next.Add(&next, &shift)
			m = &next
		}
		adj[k-1] = mat.DenseCopyOf(m)

		var am mat.Dense
		am.Mul(a, m)
		coeffs[k] = -mat.Trace(&am) / float64(k)
	}
	return coeffs, adj
}

func identity(n int) *mat.Dense {
	eye := mat.NewDense(n, n, nil)
	for i := range n {
		eye.Set(i, i, 1)
	}
	return eye
}

// charPoly returns det(sI − a) from the eigenvalues of a.
func charPoly(a *mat.Dense) ([]float64, bool) {
	eig, err := eigenvalues(a)
	if err != nil {
		return nil, false
	}
	return poly.Product(eig).ExpandReal(), true
}

func eigenvalues(a *mat.Dense) ([]complex128, error) {
	var e mat.Eigen
	if !e.Factorize(a, mat.EigenNone) {
		return nil, wrapf(core.ErrNumerical, "eigenvalue decomposition failed")
	}
	return e.Values(nil), nil
}

// Zpk converts a single-input single-output system through its transfer
// function.
func (s Ss) Zpk() (Zpk, error) {
	t, err := s.Tf()
	if err != nil {
		return Zpk{}, err
	}
	return t.Zpk()
}

// Sos converts a single-input single-output system through its transfer
// function.
func (s Ss) Sos(opts ...ConvertOption) (Sos, error) {
	t, err := s.Tf()
	if err != nil {
		return Sos{}, err
	}
	return t.Sos(opts...)
}

// Eval returns the response from input 0 to output 0 at x,
// C₀·(xI − A)⁻¹·B₀ + D₀₀.
func (s Ss) Eval(x complex128) complex128 {
	n, _, _ := s.Dims()
	d := complex(s.D.At(0, 0), 0)
	if n == 0 {
		return d
	}

	m := make([][]complex128, n)
	rhs := make([]complex128, n)
	for i := range n {
		m[i] = make([]complex128, n)
		for k := range n {
			m[i][k] = complex(-s.A.At(i, k), 0)
		}
		m[i][i] += x
		rhs[i] = complex(s.B.At(i, 0), 0)
	}
	v, ok := solveComplex(m, rhs)
	if !ok {
		return cmplx.Inf()
	}

	h := d
	for k := range n {
		h += complex(s.C.At(0, k), 0) * v[k]
	}
	return h
}

// solveComplex solves m·v = rhs by Gaussian elimination with partial
// pivoting. m and rhs are overwritten.
func solveComplex(m [][]complex128, rhs []complex128) ([]complex128, bool) {
	n := len(rhs)
	for col := range n {
		piv := col
		for r := col + 1; r < n; r++ {
			if cmplx.Abs(m[r][col]) > cmplx.Abs(m[piv][col]) {
				piv = r
			}
		}
		if m[piv][col] == 0 {
			return nil, false
		}
		m[col], m[piv] = m[piv], m[col]
		rhs[col], rhs[piv] = rhs[piv], rhs[col]

		for r := col + 1; r < n; r++ {
			f := m[r][col] / m[col][col]
			if f == 0 {
				continue
			}
			for c := col; c < n; c++ {
				m[r][c] -= f * m[col][c]
			}
			rhs[r] -= f * rhs[col]
		}
	}

	v := make([]complex128, n)
	for r := n - 1; r >= 0; r-- {
		sum := rhs[r]
		for c := r + 1; c < n; c++ {
			sum -= m[r][c] * v[c]
		}
		v[r] = sum / m[r][r]
	}
	return v, true
}
