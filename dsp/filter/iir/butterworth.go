package iir

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-lti/dsp/core"
	"github.com/cwbudde/algo-lti/dsp/lti"
)

// Kind selects the band shape of a design.
type Kind int

const (
	Lowpass Kind = iota
	Highpass
	Bandpass
	Bandstop
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Lowpass:
		return "lowpass"
	case Highpass:
		return "highpass"
	case Bandpass:
		return "bandpass"
	case Bandstop:
		return "bandstop"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

func (k Kind) edges() int {
	if k == Bandpass || k == Bandstop {
		return 2
	}
	return 1
}

type config struct {
	sampleRate float64
}

// Option configures a design.
type Option func(*config)

// WithSampleRate gives edges in Hz instead of fractions of Nyquist.
func WithSampleRate(fs float64) Option {
	return func(c *config) { c.sampleRate = fs }
}

// Butterworth designs a digital Butterworth filter of the given order.
// Lowpass and highpass take one edge, bandpass and bandstop two; band
// designs have twice the order. Edges are fractions of Nyquist in (0, 1)
// unless WithSampleRate is given. The response is −3 dB at every edge.
func Butterworth(order int, edges []float64, kind Kind, opts ...Option) (lti.Zpk, error) {
	var cfg config
	for _, o := range opts {
		if o != nil {
			o(&cfg)
		}
	}

	if order < 1 {
		return lti.Zpk{}, fmt.Errorf("iir: butterworth order %d: %w", order, core.ErrShapeMismatch)
	}
	if kind < Lowpass || kind > Bandstop {
		return lti.Zpk{}, fmt.Errorf("iir: unknown kind %d: %w", int(kind), core.ErrShapeMismatch)
	}
	if len(edges) != kind.edges() {
		return lti.Zpk{}, fmt.Errorf("iir: %s needs %d edges, got %d: %w", kind, kind.edges(), len(edges), core.ErrShapeMismatch)
	}

	scale := 1.0
	if cfg.sampleRate != 0 {
		if err := core.ValidateSampleRate(cfg.sampleRate); err != nil {
			return lti.Zpk{}, fmt.Errorf("iir: %w", err)
		}
		scale = 2 / cfg.sampleRate
	}

	// Prewarp for the bilinear transform with fs = 1/2.
	warped := make([]float64, len(edges))
	for i, e := range edges {
		w := e * scale
		if !(w > 0 && w < 1) {
			return lti.Zpk{}, fmt.Errorf("iir: edge %v outside (0, Nyquist): %w", e, core.ErrEdgesOutOfRange)
		}
		warped[i] = math.Tan(math.Pi * w / 2)
	}

	proto, err := lti.Buttap(order)
	if err != nil {
		return lti.Zpk{}, fmt.Errorf("iir: %w", err)
	}
	analog, err := lti.Sftrans(proto, 1, warped, kind == Highpass || kind == Bandstop)
	if err != nil {
		return lti.Zpk{}, fmt.Errorf("iir: %w", err)
	}
	digital, err := lti.Bilinear(analog, 0.5)
	if err != nil {
		return lti.Zpk{}, fmt.Errorf("iir: %w", err)
	}
	return digital, nil
}

// ButterworthSos designs as Butterworth and factors the result into
// second-order sections.
func ButterworthSos(order int, edges []float64, kind Kind, opts ...Option) (lti.Sos, error) {
	zpk, err := Butterworth(order, edges, kind, opts...)
	if err != nil {
		return lti.Sos{}, err
	}
	sos, err := zpk.Sos()
	if err != nil {
		return lti.Sos{}, fmt.Errorf("iir: %w", err)
	}
	return sos, nil
}

// ButterworthTf designs as Butterworth and expands the result into z⁻¹
// coefficient arrays for lti.Filter.
func ButterworthTf(order int, edges []float64, kind Kind, opts ...Option) (b, a []float64, err error) {
	zpk, err := Butterworth(order, edges, kind, opts...)
	if err != nil {
		return nil, nil, err
	}
	tf, err := zpk.Tf()
	if err != nil {
		return nil, nil, fmt.Errorf("iir: %w", err)
	}
	b, a, err = tf.DigitalCoefficients(0)
	if err != nil {
		return nil, nil, fmt.Errorf("iir: %w", err)
	}
	return b, a, nil
}
