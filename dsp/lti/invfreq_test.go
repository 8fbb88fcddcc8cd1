package lti

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-lti/dsp/core"
	"github.com/cwbudde/algo-lti/internal/testutil"
	"github.com/stretchr/testify/require"
)

var fitMethods = []FitMethod{MethodLS, MethodTLS, MethodMLS, MethodQR}

func TestInvfreqzRecoversSystem(t *testing.T) {
	b := []float64{0.2, 0.3}
	a := []float64{1, -0.5, 0.25}
	tf, err := NewDigitalTf(b, a)
	require.NoError(t, err)

	w := make([]float64, 32)
	for i := range w {
		w[i] = math.Pi * float64(i) / float64(len(w))
	}
	h := FreqzAt(tf, w)

	for _, m := range fitMethods {
		t.Run(m.String(), func(t *testing.T) {
			gb, ga, err := Invfreqz(h, w, 1, 2, WithMethod(m))
			require.NoError(t, err)
			testutil.RequireSliceNearlyEqual(t, gb, b, 1e-9)
			testutil.RequireSliceNearlyEqual(t, ga, a, 1e-9)
		})
	}
}

func TestInvfreqsRecoversSystem(t *testing.T) {
	b := []float64{1, 2}
	a := []float64{1, 3, 5}
	tf, err := NewTf(b, a)
	require.NoError(t, err)

	w := make([]float64, 40)
	weights := make([]float64, len(w))
	for i := range w {
		w[i] = 0.1 + 0.25*float64(i)
		weights[i] = 1 / (1 + w[i])
	}
	h := Freqs(tf, w)

	for _, m := range fitMethods {
		t.Run(m.String(), func(t *testing.T) {
			gb, ga, err := Invfreqs(h, w, 1, 2, WithMethod(m), WithWeights(weights))
			require.NoError(t, err)
			testutil.RequireSliceNearlyEqual(t, gb, b, 1e-6)
			testutil.RequireSliceNearlyEqual(t, ga, a, 1e-6)
		})
	}
}

func TestInvfreqErrors(t *testing.T) {
	h := []complex128{1, 1}
	w := []float64{0, 1}

	_, _, err := Invfreqz(h, w[:1], 0, 0)
	require.ErrorIs(t, err, core.ErrShapeMismatch)

	_, _, err = Invfreqz(h, w, 3, 3)
	require.ErrorIs(t, err, core.ErrShapeMismatch)

	_, _, err = Invfreqz(h, w, 0, 0, WithWeights([]float64{1}))
	require.ErrorIs(t, err, core.ErrShapeMismatch)

	_, _, err = Invfreqz(h, w, -1, 0)
	require.ErrorIs(t, err, core.ErrShapeMismatch)

	_, _, err = Invfreqz(h, w, 0, 0, WithMethod(FitMethod(9)))
	require.ErrorIs(t, err, core.ErrShapeMismatch)
}
