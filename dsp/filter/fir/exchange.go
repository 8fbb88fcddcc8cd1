package fir

import (
	"fmt"
	"math"
	"slices"

	"github.com/cwbudde/algo-lti/dsp/core"
)

// grid is the dense frequency grid of a Remez design. d and w hold the
// desired amplitude and weight after division by the trigonometric factor
// of the filter type, so the approximation is a pure cosine polynomial.
type grid struct {
	n        int
	r        int
	negative bool
	freq     []float64
	d        []float64
	w        []float64
}

//nolint:cyclop
func newGrid(n int, edges, des, weights []float64, class Class, density int) *grid {
	g := &grid{n: n, negative: class != Symmetric}
	g.r = n / 2
	if n%2 == 1 && !g.negative {
		g.r++
	}

	delf := 0.5 / float64(density*g.r)
	nb := len(edges) / 2
	band := make([]int, 0, density*(g.r+1))
	for b := range nb {
		lo, hi := edges[2*b], edges[2*b+1]
		// Antisymmetric responses vanish at DC.
		if b == 0 && g.negative && lo < delf {
			lo = delf
		}
		k := int((hi-lo)/delf + 0.5)
		if k < 1 {
			continue
		}
		for i := range k {
			g.freq = append(g.freq, lo+float64(i)*delf)
			g.w = append(g.w, weights[b])
			band = append(band, b)
		}
		if last := len(g.freq) - 1; hi > g.freq[last-k+1] {
			g.freq[last] = hi
		}
	}

	// Type II and III responses vanish at Nyquist.
	last := len(g.freq) - 1
	if g.negative == (n%2 == 1) && last >= 0 && g.freq[last] > 0.5-delf {
		g.freq[last] = 0.5 - delf
	}

	// Desired values ramp linearly between the band edges.
	g.d = make([]float64, len(g.freq))
	for i, f := range g.freq {
		b := band[i]
		lo, hi := edges[2*b], edges[2*b+1]
		g.d[i] = des[2*b]
		if hi > lo {
			g.d[i] += (f - lo) / (hi - lo) * (des[2*b+1] - des[2*b])
		}
	}

	if class == Differentiator {
		for i, f := range g.freq {
			if g.d[i] > 1e-4 && f > 0 {
				g.w[i] /= f
			}
		}
	}

	for i, f := range g.freq {
		c := g.trig(f)
		if c == 1 {
			continue
		}
		g.d[i] /= c
		g.w[i] *= c
	}
	return g
}

// trig returns the factor Q(f) with H(f) = Q(f)·A(f), A a cosine
// polynomial: 1, cos(πf), sin(2πf) or sin(πf) for types I to IV.
func (g *grid) trig(f float64) float64 {
	switch {
	case !g.negative && g.n%2 == 1:
		return 1
	case !g.negative:
		return math.Cos(math.Pi * f)
	case g.n%2 == 1:
		return math.Sin(2 * math.Pi * f)
	default:
		return math.Sin(math.Pi * f)
	}
}

// exchange is the state of the Remez iteration: the current and previous
// extremal sets, the step count and the equiripple deviation.
type exchange struct {
	g       *grid
	ext     []int
	prevExt []int
	iter    int
	delta   float64

	x, y, ad []float64
	err      []float64
}

func newExchange(g *grid) *exchange {
	r := g.r
	ex := &exchange{
		g:   g,
		ext: make([]int, r+1),
		x:   make([]float64, r+1),
		y:   make([]float64, r+1),
		ad:  make([]float64, r+1),
		err: make([]float64, len(g.freq)),
	}
	last := len(g.freq) - 1
	for i := range ex.ext {
		ex.ext[i] = i * last / r
	}
	return ex
}

// solve computes the barycentric weights, δ and the interpolation values
// on the current extremal set.
func (ex *exchange) solve() {
	r := ex.g.r
	for i, e := range ex.ext {
		ex.x[i] = math.Cos(2 * math.Pi * ex.g.freq[e])
	}

	// Striding through the product keeps it in range for large r.
	ld := (r-1)/15 + 1
	for i := range ex.ext {
		denom := 1.0
		xi := ex.x[i]
		for j := range ld {
			for k := j; k <= r; k += ld {
				if k != i {
					denom *= 2 * (xi - ex.x[k])
				}
			}
		}
		if math.Abs(denom) < 1e-5 {
			denom = 1e-5
		}
		ex.ad[i] = 1 / denom
	}

	var num, den float64
	sign := 1.0
	for i, e := range ex.ext {
		num += ex.ad[i] * ex.g.d[e]
		den += sign * ex.ad[i] / ex.g.w[e]
		sign = -sign
	}
	ex.delta = num / den

	sign = 1
	for i, e := range ex.ext {
		ex.y[i] = ex.g.d[e] - sign*ex.delta/ex.g.w[e]
		sign = -sign
	}
}

// amplitude evaluates the interpolating cosine polynomial at f.
func (ex *exchange) amplitude(f float64) float64 {
	xc := math.Cos(2 * math.Pi * f)
	var num, den float64
	for i := range ex.x {
		c := xc - ex.x[i]
		if math.Abs(c) < 1e-7 {
			return ex.y[i]
		}
		c = ex.ad[i] / c
		den += c
		num += c * ex.y[i]
	}
	return num / den
}

func (ex *exchange) evalError() {
	for i, f := range ex.g.freq {
		ex.err[i] = ex.g.w[i] * (ex.g.d[i] - ex.amplitude(f))
	}
}

// search replaces the extremal set by r+1 local extrema of the weighted
// error that alternate in sign.
func (ex *exchange) search() error {
	e := ex.err
	r := ex.g.r
	last := len(e) - 1
	found := make([]int, 0, 2*r)

	if (e[0] > 0 && e[0] > e[1]) || (e[0] < 0 && e[0] < e[1]) {
		found = append(found, 0)
	}
	for i := 1; i < last; i++ {
		if (e[i] >= e[i-1] && e[i] > e[i+1] && e[i] > 0) ||
			(e[i] <= e[i-1] && e[i] < e[i+1] && e[i] < 0) {
			found = append(found, i)
		}
	}
	if (e[last] > 0 && e[last] > e[last-1]) || (e[last] < 0 && e[last] < e[last-1]) {
		found = append(found, last)
	}

	found = mergeRuns(e, found)
	switch {
	case len(found) < r+1:
		return fmt.Errorf("fir: remez: %d extrema, need %d, at iteration %d: %w", len(found), r+1, ex.iter+1, core.ErrTooFewPeaks)
	case len(found) > 2*r:
		return fmt.Errorf("fir: remez: %d alternating extrema, at most %d, at iteration %d: %w", len(found), 2*r, ex.iter+1, core.ErrTooManyPeaks)
	}
	found = trimAlternating(e, found, r+1)

	ex.prevExt = append(ex.prevExt[:0], ex.ext...)
	copy(ex.ext, found)
	return nil
}

// mergeRuns keeps the largest |e| of every run of same-sign extrema, so
// the result alternates in sign.
func mergeRuns(e []float64, found []int) []int {
	out := found[:0]
	for _, i := range found {
		if n := len(out); n > 0 && (e[out[n-1]] > 0) == (e[i] > 0) {
			if math.Abs(e[i]) > math.Abs(e[out[n-1]]) {
				out[n-1] = i
			}
			continue
		}
		out = append(out, i)
	}
	return out
}

// trimAlternating shrinks an alternating set to want members. An interior
// minimum goes together with the smaller of its neighbours, which then
// share a sign; a single surplus member is taken from an end.
func trimAlternating(e []float64, found []int, want int) []int {
	for len(found) > want {
		end := len(found) - 1
		if len(found)-want == 1 {
			if math.Abs(e[found[end]]) < math.Abs(e[found[0]]) {
				return found[:end]
			}
			return found[1:]
		}

		j := 0
		for k := 1; k <= end; k++ {
			if math.Abs(e[found[k]]) < math.Abs(e[found[j]]) {
				j = k
			}
		}
		if j == 0 || j == end {
			found = slices.Delete(found, j, j+1)
			continue
		}
		// Drop j and the smaller of j−1 and j+1.
		lo := j - 1
		if math.Abs(e[found[j+1]]) < math.Abs(e[found[j-1]]) {
			lo = j
		}
		found = slices.Delete(found, lo, lo+2)
	}
	return found
}

// spread is the relative spread of |E| over the extremal set.
func (ex *exchange) spread() float64 {
	lo := math.Abs(ex.err[ex.ext[0]])
	hi := lo
	for _, i := range ex.ext[1:] {
		v := math.Abs(ex.err[i])
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi == 0 {
		return 0
	}
	return (hi - lo) / hi
}

// taps samples the final amplitude at f = k/n and recovers the impulse
// response by an inverse DFT with the symmetry of the filter type.
func (ex *exchange) taps() []float64 {
	n := ex.g.n
	a := make([]float64, n/2+1)
	for k := range a {
		f := float64(k) / float64(n)
		a[k] = ex.amplitude(f) * ex.g.trig(f)
	}

	h := make([]float64, n)
	m := float64(n-1) / 2
	half := n / 2
	if n%2 == 0 {
		half--
	}
	for i := range h {
		x := 2 * math.Pi * (float64(i) - m) / float64(n)
		var v float64
		if ex.g.negative {
			if n%2 == 0 {
				v = a[n/2] * math.Sin(math.Pi*(float64(i)-m))
			}
			for k := 1; k <= half; k++ {
				v += 2 * a[k] * math.Sin(x*float64(k))
			}
		} else {
			v = a[0]
			for k := 1; k <= half; k++ {
				v += 2 * a[k] * math.Cos(x*float64(k))
			}
		}
		h[i] = v / float64(n)
	}
	return h
}
