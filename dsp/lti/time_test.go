package lti

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-lti/dsp/core"
	"github.com/stretchr/testify/require"
)

func timeAxis(n int, dt float64) []float64 {
	t := make([]float64, n)
	for k := range t {
		t[k] = float64(k) * dt
	}
	return t
}

func firstOrderSs(t *testing.T) Ss {
	t.Helper()
	tf, err := NewTf([]float64{1}, []float64{1, 1})
	require.NoError(t, err)
	ss, err := tf.Ss()
	require.NoError(t, err)
	return ss
}

func TestImpz(t *testing.T) {
	h, tt, err := Impz([]float64{1}, []float64{1, -0.5}, 0)
	require.NoError(t, err)
	require.Len(t, h, 19)
	for k, v := range h {
		require.InDelta(t, math.Pow(0.5, float64(k)), v, 1e-15)
		require.InDelta(t, float64(k), tt[k], 0)
	}

	h, _, err = Impz([]float64{1, 2, 3}, []float64{1}, 0)
	require.NoError(t, err)
	require.Equal(t, []float64{1, 2, 3}, h)

	_, tt, err = Impz([]float64{1}, []float64{1}, 4, core.WithSampleRate(2))
	require.NoError(t, err)
	require.Equal(t, []float64{0, 0.5, 1, 1.5}, tt)
}

func TestC2dFirstOrder(t *testing.T) {
	d, err := C2d(firstOrderSs(t), 10)
	require.NoError(t, err)
	require.InDelta(t, math.Exp(-0.1), d.A.At(0, 0), 1e-14)
	require.InDelta(t, 1-math.Exp(-0.1), d.B.At(0, 0), 1e-14)

	_, err = C2d(firstOrderSs(t), 0)
	require.ErrorIs(t, err, core.ErrInvalidSamplingFrequency)
}

func TestStepAndImpulse(t *testing.T) {
	ts := timeAxis(50, 0.1)

	y, err := Step(firstOrderSs(t), ts)
	require.NoError(t, err)
	for k, tk := range ts {
		require.InDelta(t, 1-math.Exp(-tk), y[0][k], 1e-12)
	}

	tf, err := NewTf([]float64{1}, []float64{1, 3, 2})
	require.NoError(t, err)
	ss, err := tf.Ss()
	require.NoError(t, err)
	y, err = Impulse(ss, ts)
	require.NoError(t, err)
	for k, tk := range ts {
		require.InDelta(t, math.Exp(-tk)-math.Exp(-2*tk), y[0][k], 1e-12)
	}
}

func TestLsim(t *testing.T) {
	ts := timeAxis(20, 0.05)
	u := [][]float64{make([]float64, len(ts))}

	y, err := Lsim(firstOrderSs(t), u, ts, []float64{2})
	require.NoError(t, err)
	for k, tk := range ts {
		require.InDelta(t, 2*math.Exp(-tk), y[0][k], 1e-12)
	}

	gain, err := NewGainSs(1, 1, []float64{3})
	require.NoError(t, err)
	y, err = Lsim(gain, [][]float64{{1, 2, 3}}, []float64{0, 1, 2}, nil)
	require.NoError(t, err)
	require.Equal(t, []float64{3, 6, 9}, y[0])
}

func TestLsimErrors(t *testing.T) {
	ss := firstOrderSs(t)

	_, err := Lsim(ss, [][]float64{{1, 2}}, []float64{0, 1, 3}, nil)
	require.ErrorIs(t, err, core.ErrShapeMismatch)

	_, err = Lsim(ss, [][]float64{{1, 2, 3}}, []float64{0, 1, 3}, nil)
	require.ErrorIs(t, err, core.ErrShapeMismatch)

	_, err = Lsim(ss, [][]float64{{1, 2}}, []float64{0, 1}, []float64{1, 2})
	require.ErrorIs(t, err, core.ErrShapeMismatch)

	_, err = Lsim(ss, nil, []float64{0, 1}, nil)
	require.ErrorIs(t, err, core.ErrShapeMismatch)
}
