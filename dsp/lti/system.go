package lti

import (
	"github.com/cwbudde/algo-lti/dsp/core"
	"github.com/cwbudde/algo-lti/dsp/poly"
)

// Evaluator is a single-input single-output system that can be evaluated
// at a point of its transform variable. Tf, Zpk, Sos and Ss implement it.
type Evaluator interface {
	Eval(x complex128) complex128
}

// GainPlacement selects how Zpk.Sos spreads the overall gain.
type GainPlacement int

const (
	// GainFirst puts the whole gain into the first section's numerator.
	GainFirst GainPlacement = iota
	// GainDistributed spreads |k|^(1/n) over all n sections; the sign of k
	// stays on the first section.
	GainDistributed
)

type convertConfig struct {
	pairTol float64
	gain    GainPlacement
}

// ConvertOption configures conversions that factor or pair roots.
type ConvertOption func(*convertConfig)

// WithPairTolerance sets the relative tolerance used to classify roots as
// real and to pair complex conjugates. Values outside [0, 1] make the
// conversion fail with core.ErrToleranceOutOfRange. Default 1e-7.
func WithPairTolerance(tol float64) ConvertOption {
	return func(c *convertConfig) { c.pairTol = tol }
}

// WithGainPlacement selects where Zpk.Sos puts the gain. Default GainFirst.
func WithGainPlacement(g GainPlacement) ConvertOption {
	return func(c *convertConfig) { c.gain = g }
}

func applyConvertOptions(opts []ConvertOption) convertConfig {
	cfg := convertConfig{pairTol: defaultPairTol}
	for _, o := range opts {
		if o != nil {
			o(&cfg)
		}
	}
	return cfg
}

const defaultPairTol = 1e-7

// trimLeading drops leading zeros and returns a copy.
func trimLeading(p []float64) []float64 {
	return append([]float64(nil), poly.Poly[float64](p).Trim()...)
}

func realPoly(p poly.Poly[complex128]) []float64 {
	out := make([]float64, len(p))
	for i, v := range p {
		out[i] = real(v)
	}
	return out
}

func validateRoots(roots []complex128, what string) error {
	for _, r := range roots {
		if !finiteComplex(r) {
			return wrapf(core.ErrNumerical, "non-finite %s %v", what, r)
		}
	}
	return nil
}
