package lti

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-lti/dsp/conv"
	"github.com/cwbudde/algo-lti/dsp/core"
	"github.com/cwbudde/algo-lti/dsp/poly"
	"github.com/cwbudde/algo-lti/internal/testutil"
	"github.com/stretchr/testify/require"
)

func TestNewTf(t *testing.T) {
	tf, err := NewTf([]float64{0, 0, 1, 2}, []float64{0, 1, 3, 2})
	require.NoError(t, err)
	require.Equal(t, [][]float64{{1, 2}}, tf.Num)
	require.Equal(t, []float64{1, 3, 2}, tf.Den)
	require.Equal(t, 2, tf.Order())
	require.True(t, tf.IsProper())

	_, err = NewTf([]float64{1}, []float64{0, 0})
	require.ErrorIs(t, err, core.ErrZeroPoles)

	_, err = NewTfRows(nil, []float64{1})
	require.ErrorIs(t, err, core.ErrShapeMismatch)
}

func TestNewDigitalTfPadsRight(t *testing.T) {
	// 1/(1 − 0.5z⁻¹) = z/(z − 0.5)
	tf, err := NewDigitalTf([]float64{1}, []float64{1, -0.5})
	require.NoError(t, err)
	require.Equal(t, []float64{1, 0}, tf.Num[0])
	require.Equal(t, []float64{1, -0.5}, tf.Den)

	b, a, err := tf.DigitalCoefficients(0)
	require.NoError(t, err)
	require.Equal(t, []float64{1, 0}, b)
	require.Equal(t, []float64{1, -0.5}, a)
}

func TestTfPredicates(t *testing.T) {
	one, err := NewTf([]float64{2, 4}, []float64{2, 4})
	require.NoError(t, err)
	require.True(t, one.IsOne())
	require.False(t, one.IsZero())

	zero, err := NewTf(nil, []float64{1, 1})
	require.NoError(t, err)
	require.True(t, zero.IsZero())

	improper := Tf{Num: [][]float64{{1, 0, 0}}, Den: []float64{0, 1, 1}}
	require.False(t, improper.IsProper())
	_, err = improper.Ss()
	require.ErrorIs(t, err, core.ErrNonCausal)
}

func TestTfNormalizeAndDCGain(t *testing.T) {
	tf, err := NewTf([]float64{2, 4}, []float64{2, 2, 8})
	require.NoError(t, err)

	n := tf.Normalize()
	require.Equal(t, []float64{1, 1, 4}, []float64(n.Den))
	require.Equal(t, []float64{1, 2}, []float64(n.Num[0]))

	require.InDelta(t, 0.5, tf.DCGain(false)[0], 1e-15)
	require.InDelta(t, 0.5, tf.DCGain(true)[0], 1e-15)
}

func TestTfZpk(t *testing.T) {
	// 2(s + 1)/((s + 2)(s + 3))
	tf, err := NewTf([]float64{2, 2}, []float64{1, 5, 6})
	require.NoError(t, err)

	z, err := tf.Zpk()
	require.NoError(t, err)
	require.InDelta(t, 2, z.K, 1e-15)
	testutil.RequireRootsMatch(t, z.Z, []complex128{-1}, 1e-12)
	testutil.RequireRootsMatch(t, z.P, []complex128{-2, -3}, 1e-12)

	multi := Tf{Num: [][]float64{{1}, {2}}, Den: []float64{1, 1}}
	_, err = multi.Zpk()
	require.ErrorIs(t, err, core.ErrShapeMismatch)
}

func TestTfSsCanonicalForm(t *testing.T) {
	// (s² + 3s + 5)/(s² + 2s + 4) = 1 + (s + 1)/(s² + 2s + 4)
	tf, err := NewTf([]float64{1, 3, 5}, []float64{1, 2, 4})
	require.NoError(t, err)

	ss, err := tf.Ss()
	require.NoError(t, err)
	n, p, q := ss.Dims()
	require.Equal(t, []int{2, 1, 1}, []int{n, p, q})

	require.Equal(t, []float64{0, 1, -4, -2}, rowMajor(ss.A))
	require.Equal(t, []float64{0, 1}, rowMajor(ss.B))
	require.Equal(t, []float64{1, 1}, rowMajor(ss.C))
	require.Equal(t, []float64{1}, rowMajor(ss.D))

	back, err := ss.Tf()
	require.NoError(t, err)
	testutil.RequireSliceNearlyEqual(t, back.Den, []float64{1, 2, 4}, 1e-10)
	testutil.RequireSliceNearlyEqual(t, back.Num[0], []float64{1, 3, 5}, 1e-10)
}

func TestTfSsPureGain(t *testing.T) {
	tf, err := NewTf([]float64{6}, []float64{3})
	require.NoError(t, err)

	ss, err := tf.Ss()
	require.NoError(t, err)
	n, _, _ := ss.Dims()
	require.Zero(t, n)
	require.InDelta(t, 2, ss.D.At(0, 0), 1e-15)
}

func TestFilterMatchesConvolution(t *testing.T) {
	b := []float64{0.5, -0.25, 0.125, 1}
	x := testutil.DeterministicNoise(7, 1, 64)

	y, err := Filter(b, []float64{1}, x)
	require.NoError(t, err)

	full, err := conv.Direct(x, b)
	require.NoError(t, err)
	testutil.RequireSliceNearlyEqual(t, y, full[:len(x)], 1e-12)
}

func TestConversionChainPreservesResponse(t *testing.T) {
	tests := []struct {
		name string
		b, a []float64
	}{
		{"first order", []float64{0.2, 0.2}, []float64{1, -0.6}},
		{"resonator", []float64{1, 0, -1}, []float64{1, -1.2, 0.72}},
		{"fourth order", []float64{0.1, 0.3, 0.3, 0.1, 0.05}, []float64{1, -0.5, 0.4, -0.1, 0.02}},
		{
			"eighth order",
			fromRoots(1, -0.9, complex(0.3, 0.6), complex(0.3, -0.6), -0.2, 0.1, complex(-0.5, 0.5), complex(-0.5, -0.5)),
			fromRoots(0.5, 0.7, complex(0.6, 0.5), complex(0.6, -0.5), complex(-0.2, 0.8), complex(-0.2, -0.8), -0.4, 0.1),
		},
	}

	w := make([]float64, 64)
	for i := range w {
		w[i] = math.Pi * float64(i) / float64(len(w)-1)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tf, err := NewDigitalTf(tt.b, tt.a)
			require.NoError(t, err)

			ss, err := tf.Ss()
			require.NoError(t, err)
			zpk, err := ss.Zpk()
			require.NoError(t, err)
			back, err := zpk.Tf()
			require.NoError(t, err)

			want := FreqzAt(tf, w)
			got := FreqzAt(back, w)
			testutil.RequireComplexSliceNearlyEqual(t, got, want, 1e-8)

			sos, err := tf.Sos()
			require.NoError(t, err)
			testutil.RequireComplexSliceNearlyEqual(t, FreqzAt(sos, w), want, 1e-8)
		})
	}
}

func TestDigitalCoefficientsErrors(t *testing.T) {
	tf := Tf{Num: [][]float64{{1, 2, 3}}, Den: []float64{1, 1}}
	_, _, err := tf.DigitalCoefficients(0)
	require.True(t, errors.Is(err, core.ErrNonCausal))

	_, _, err = tf.DigitalCoefficients(3)
	require.ErrorIs(t, err, core.ErrShapeMismatch)
}

// fromRoots expands real-coefficient roots into a monic polynomial.
func fromRoots(roots ...complex128) []float64 {
	return poly.Product(roots).ExpandReal()
}
