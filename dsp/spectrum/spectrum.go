package spectrum

import (
	"fmt"
	"math"
	"math/cmplx"
	"sync"

	vecmath "github.com/cwbudde/algo-vecmath"
	"github.com/cwbudde/algo-lti/dsp/core"
)

// parts holds pooled scratch for splitting complex bins into real and
// imaginary halves.
type parts struct {
	data []float64
}

var partsPool = sync.Pool{
	New: func() any { return &parts{} },
}

func split(in []complex128) (re, im []float64, p *parts) {
	p = partsPool.Get().(*parts)
	n := len(in)
	p.data = core.EnsureLen(p.data, 2*n)
	re, im = p.data[:n], p.data[n:2*n]
	for i, c := range in {
		re[i] = real(c)
		im[i] = imag(c)
	}
	return re, im, p
}

// Magnitude returns |X[k]| for every bin.
func Magnitude(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}
	out := make([]float64, len(in))
	re, im, p := split(in)
	vecmath.Magnitude(out, re, im)
	partsPool.Put(p)
	return out
}

// Power returns |X[k]|² for every bin.
func Power(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}
	out := make([]float64, len(in))
	accumulatePower(out, in)
	return out
}

// accumulatePower adds |X[k]|² to dst.
func accumulatePower(dst []float64, in []complex128) {
	re, im, p := split(in)
	// re is free once the power is formed; reuse it as the sum operand.
	vecmath.Power(re, re, im)
	vecmath.AddBlockInPlace(dst, re)
	partsPool.Put(p)
}

// Phase returns arg(X[k]) in radians.
func Phase(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}
	out := make([]float64, len(in))
	for i, c := range in {
		out[i] = cmplx.Phase(c)
	}
	return out
}

// UnwrapPhase removes jumps larger than π between neighbouring values.
func UnwrapPhase(phase []float64) []float64 {
	if len(phase) == 0 {
		return nil
	}
	out := make([]float64, len(phase))
	out[0] = phase[0]
	offset := 0.0
	for i := 1; i < len(phase); i++ {
		d := phase[i] - phase[i-1]
		switch {
		case d > math.Pi:
			offset -= 2 * math.Pi
		case d < -math.Pi:
			offset += 2 * math.Pi
		}
		out[i] = phase[i] + offset
	}
	return out
}

// GroupDelayFromPhase returns −dφ/dω in samples for unwrapped phase sampled
// on the bins of an fftSize-point transform. Interior bins use a centred
// difference.
func GroupDelayFromPhase(unwrapped []float64, fftSize int) ([]float64, error) {
	if len(unwrapped) < 2 {
		return nil, fmt.Errorf("spectrum: group delay needs at least 2 phase points, got %d: %w", len(unwrapped), core.ErrShapeMismatch)
	}
	if fftSize <= 0 {
		return nil, fmt.Errorf("spectrum: group delay transform size %d: %w", fftSize, core.ErrShapeMismatch)
	}
	dw := 2 * math.Pi / float64(fftSize)
	out := make([]float64, len(unwrapped))
	last := len(unwrapped) - 1
	for i := range unwrapped {
		var dphi float64
		switch i {
		case 0:
			dphi = unwrapped[1] - unwrapped[0]
		case last:
			dphi = unwrapped[i] - unwrapped[i-1]
		default:
			dphi = (unwrapped[i+1] - unwrapped[i-1]) / 2
		}
		out[i] = -dphi / dw
	}
	return out, nil
}
