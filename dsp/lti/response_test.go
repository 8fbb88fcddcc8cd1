package lti

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/cwbudde/algo-lti/dsp/core"
	"github.com/cwbudde/algo-lti/internal/testutil"
	"github.com/stretchr/testify/require"
)

func TestFreqzMatchesDirectEvaluation(t *testing.T) {
	b := []float64{0.2, 0.4, 0.2}
	a := []float64{1, -0.3, 0.1}
	tf, err := NewDigitalTf(b, a)
	require.NoError(t, err)

	h, w, err := Freqz(b, a, 16)
	require.NoError(t, err)
	require.Len(t, h, 16)
	require.InDelta(t, 0, w[0], 0)
	require.InDelta(t, math.Pi*15/16, w[15], 1e-15)
	testutil.RequireComplexSliceNearlyEqual(t, h, FreqzAt(tf, w), 1e-12)

	h, w, err = Freqz(b, a, 16, core.WithWhole(true))
	require.NoError(t, err)
	require.InDelta(t, 2*math.Pi*15/16, w[15], 1e-15)
	testutil.RequireComplexSliceNearlyEqual(t, h, FreqzAt(tf, w), 1e-12)
}

func TestFreqzFoldsLongFilters(t *testing.T) {
	b := []float64{1, 2, 3, 4, 5, 6, 7}
	h, w, err := Freqz(b, []float64{1}, 2, core.WithWhole(true))
	require.NoError(t, err)
	require.Equal(t, []float64{0, math.Pi}, w)
	require.InDelta(t, 28, real(h[0]), 1e-12)
	require.InDelta(t, 1-2+3-4+5-6+7, real(h[1]), 1e-12)
}

func TestFreqzSampleRateAxis(t *testing.T) {
	_, w, err := Freqz([]float64{1}, []float64{1}, 4, core.WithSampleRate(8000))
	require.NoError(t, err)
	testutil.RequireSliceNearlyEqual(t, w, []float64{0, 1000, 2000, 3000}, 1e-9)

	tf, err := NewDigitalTf([]float64{1, 1}, []float64{1})
	require.NoError(t, err)
	h := FreqzAt(tf, []float64{4000}, core.WithSampleRate(8000))
	require.InDelta(t, 0, cmplx.Abs(h[0]), 1e-15)

	_, _, err = Freqz([]float64{1}, nil, 4)
	require.ErrorIs(t, err, core.ErrZeroPoles)
}

func TestFreqs(t *testing.T) {
	proto, err := Buttap(4)
	require.NoError(t, err)
	h := Freqs(proto, []float64{0, 1, 10})
	require.InDelta(t, 1, cmplx.Abs(h[0]), 1e-12)
	require.InDelta(t, math.Sqrt2/2, cmplx.Abs(h[1]), 1e-12)
	require.InDelta(t, 1/math.Sqrt(1+1e8), cmplx.Abs(h[2]), 1e-12)
}
