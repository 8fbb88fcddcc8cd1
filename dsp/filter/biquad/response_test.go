package biquad

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/cwbudde/algo-lti/internal/testutil"
	"github.com/stretchr/testify/require"
)

func responseCases(t *testing.T) map[string]Coefficients {
	t.Helper()
	firstOrder, err := Normalize([3]float64{1, 1, 0}, [3]float64{2, -1, 0})
	require.NoError(t, err)
	return map[string]Coefficients{
		"resonator":   resonator(t),
		"first order": firstOrder,
		"fir":         {B0: 0.25, B1: 0.5, B2: 0.25},
		"notch":       {B0: 1, B1: -2 * math.Cos(1), B2: 1, A1: -1.9 * math.Cos(1), A2: 0.9025},
	}
}

// polyRatio evaluates (B0z² + B1z + B2)/(z² + A1z + A2) at z = e^{jw}.
func polyRatio(c Coefficients, w float64) complex128 {
	z := cmplx.Exp(complex(0, w))
	num := (complex(c.B0, 0)*z+complex(c.B1, 0))*z + complex(c.B2, 0)
	den := (z+complex(c.A1, 0))*z + complex(c.A2, 0)
	return num / den
}

func TestResponseMatchesPolynomialRatio(t *testing.T) {
	const fs = 48000.0
	for name, c := range responseCases(t) {
		t.Run(name, func(t *testing.T) {
			for k := range 33 {
				f := float64(k) * fs / 64
				w := 2 * math.Pi * f / fs
				want := polyRatio(c, w)

				got := c.Response(f, fs)
				require.InDelta(t, 0, cmplx.Abs(got-want), 1e-12*(1+cmplx.Abs(want)), "f=%v", f)
				require.Equal(t, got, c.ResponseAt(w))

				mag2 := cmplx.Abs(want) * cmplx.Abs(want)
				require.InDelta(t, mag2, c.MagnitudeSquared(f, fs), 1e-11*(1+mag2), "f=%v", f)
				require.InDelta(t, cmplx.Phase(got), c.Phase(f, fs), 1e-12)
			}
		})
	}
}

func TestMagnitudeDBAtNotch(t *testing.T) {
	c := responseCases(t)["notch"]
	fs := 2 * math.Pi
	require.InDelta(t, 0, c.MagnitudeSquared(1, fs), 1e-10)
	require.Less(t, cmplx.Abs(c.ResponseAt(1)), 1e-12)
	// Near unity gain away from the notch frequency.
	require.InDelta(t, 0, c.MagnitudeDB(0.5*fs, fs), 1)
}

func TestAllpassSectionHasUnitMagnitude(t *testing.T) {
	a1, a2 := -1.2, 0.6
	c := Coefficients{B0: a2, B1: a1, B2: 1, A1: a1, A2: a2}
	for k := range 50 {
		f := float64(k) / 100
		require.InDelta(t, 1, c.MagnitudeSquared(f, 1), 1e-12)
		require.InDelta(t, 0, c.MagnitudeDB(f, 1), 1e-10)
	}
}

func TestImpulseResponseSpectrum(t *testing.T) {
	c := resonator(t)
	s := NewSection(c)
	const n = 256
	h := s.ImpulseResponse(n)

	// The resonator has decayed to 0.9^256 by the end, so the DFT of the
	// truncated response samples H(e^{jw}).
	x := make([]complex128, n)
	for i, v := range h {
		x[i] = complex(v, 0)
	}
	dft := testutil.NaiveDFT(x)
	for k := 0; k < n/2; k += 7 {
		want := c.ResponseAt(2 * math.Pi * float64(k) / n)
		require.InDelta(t, 0, cmplx.Abs(dft[k]-want), 1e-9, "bin %d", k)
	}
}

func TestSectionImpulseResponseKeepsState(t *testing.T) {
	c := resonator(t)
	s := NewSection(c)
	s.ProcessBlock(testutil.DeterministicNoise(2, 1, 17))
	before := s.State()

	h := s.ImpulseResponse(32)
	require.Equal(t, before, s.State())
	testutil.RequireSliceNearlyEqual(t, h, differenceEquation(c, testutil.Impulse(32, 0)), 1e-12)

	require.Nil(t, s.ImpulseResponse(0))
	require.Nil(t, s.ImpulseResponse(-3))
}
