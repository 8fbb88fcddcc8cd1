package biquad_test

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/cwbudde/algo-lti/dsp/filter/biquad"
	"github.com/cwbudde/algo-lti/dsp/filter/iir"
	"github.com/cwbudde/algo-lti/dsp/lti"
	"github.com/cwbudde/algo-lti/internal/testutil"
	"github.com/stretchr/testify/require"
)

type design struct {
	name  string
	order int
	edges []float64
	kind  iir.Kind
}

var designs = []design{
	{"lowpass 4", 4, []float64{0.2}, iir.Lowpass},
	{"highpass 5", 5, []float64{0.35}, iir.Highpass},
	{"bandpass 3", 3, []float64{0.2, 0.4}, iir.Bandpass},
	{"bandstop 2", 2, []float64{0.3, 0.5}, iir.Bandstop},
}

func designChain(t *testing.T, d design) (lti.Sos, *biquad.Chain) {
	t.Helper()
	sos, err := iir.ButterworthSos(d.order, d.edges, d.kind)
	require.NoError(t, err)
	chain, err := sos.Chain()
	require.NoError(t, err)
	return sos, chain
}

func TestChainRunsDesignedSos(t *testing.T) {
	x := testutil.DeterministicNoise(11, 1, 300)
	for _, d := range designs {
		t.Run(d.name, func(t *testing.T) {
			_, chain := designChain(t, d)
			b, a, err := iir.ButterworthTf(d.order, d.edges, d.kind)
			require.NoError(t, err)

			want, err := lti.Filter(b, a, x)
			require.NoError(t, err)

			got := make([]float64, len(x))
			chain.ProcessBlockTo(got, x)
			testutil.RequireSliceNearlyEqual(t, got, want, 1e-9)

			chain.Reset()
			for i, v := range x {
				got[i] = chain.ProcessSample(v)
			}
			testutil.RequireSliceNearlyEqual(t, got, want, 1e-9)
		})
	}
}

func TestChainResponseMatchesSos(t *testing.T) {
	for _, d := range designs {
		t.Run(d.name, func(t *testing.T) {
			sos, chain := designChain(t, d)
			for k := range 65 {
				w := math.Pi * float64(k) / 64
				want := sos.Eval(cmplx.Exp(complex(0, w)))
				got := chain.ResponseAt(w)
				require.InDelta(t, 0, cmplx.Abs(got-want), 1e-12*(1+cmplx.Abs(want)), "w=%v", w)
			}

			// -3 dB at each edge, given as a fraction of Nyquist.
			for _, e := range d.edges {
				require.InDelta(t, -3.0103, chain.MagnitudeDB(e, 2), 1e-3, "edge %v", e)
			}
		})
	}
}

func TestChainPolesMatchDesign(t *testing.T) {
	for _, d := range []design{designs[0], designs[3]} {
		t.Run(d.name, func(t *testing.T) {
			zpk, err := iir.Butterworth(d.order, d.edges, d.kind)
			require.NoError(t, err)
			_, chain := designChain(t, d)
			testutil.RequireRootsMatch(t, chain.Poles(), zpk.P, 1e-9)
		})
	}
}

func TestChainImpulseResponseMatchesImpz(t *testing.T) {
	d := designs[2]
	_, chain := designChain(t, d)
	b, a, err := iir.ButterworthTf(d.order, d.edges, d.kind)
	require.NoError(t, err)
	want, _, err := lti.Impz(b, a, 96)
	require.NoError(t, err)

	chain.ProcessBlock(testutil.DeterministicNoise(4, 1, 10))
	before := chain.State()

	testutil.RequireSliceNearlyEqual(t, chain.ImpulseResponse(96), want, 1e-10)
	require.Equal(t, before, chain.State())
	require.Nil(t, chain.ImpulseResponse(0))
}

func TestChainGainScalesOutput(t *testing.T) {
	sos, err := iir.ButterworthSos(2, []float64{0.25}, iir.Lowpass)
	require.NoError(t, err)
	coeffs, err := sos.Coefficients()
	require.NoError(t, err)

	plain := biquad.NewChain(coeffs)
	scaled := biquad.NewChain(coeffs, biquad.WithGain(0.5))
	require.Equal(t, 1.0, plain.Gain())
	require.Equal(t, 0.5, scaled.Gain())

	x := testutil.DeterministicNoise(6, 1, 64)
	y1 := make([]float64, len(x))
	y2 := make([]float64, len(x))
	plain.ProcessBlockTo(y1, x)
	scaled.ProcessBlockTo(y2, x)
	for i := range y1 {
		require.InDelta(t, 0.5*y1[i], y2[i], 1e-15)
	}

	require.InDelta(t, 0.5, cmplx.Abs(scaled.ResponseAt(0)), 1e-12)
	require.InDelta(t, 1.0, cmplx.Abs(plain.ResponseAt(0)), 1e-12)
}

func TestChainWithoutSectionsAppliesGain(t *testing.T) {
	c := biquad.NewChain(nil, biquad.WithGain(2))
	require.Equal(t, 0, c.Order())
	require.Equal(t, 6.0, c.ProcessSample(3))

	buf := []float64{1, -1, 0.5}
	c.ProcessBlock(buf)
	require.Equal(t, []float64{2, -2, 1}, buf)
	require.Empty(t, c.Poles())
}

func TestChainStateAndAccessors(t *testing.T) {
	sos, chain := designChain(t, designs[0])
	coeffs, err := sos.Coefficients()
	require.NoError(t, err)

	require.Equal(t, len(sos.Sections), chain.NumSections())
	require.Equal(t, sos.Order(), chain.Order())
	require.Equal(t, coeffs, chain.Coefficients())
	require.Equal(t, coeffs[1], chain.Section(1).Coefficients)

	x := testutil.DeterministicNoise(8, 1, 80)
	chain.ProcessBlock(append([]float64(nil), x[:40]...))
	saved := chain.State()
	require.Len(t, saved, chain.NumSections())

	first := append([]float64(nil), x[40:]...)
	chain.ProcessBlock(first)
	chain.SetState(saved)
	second := append([]float64(nil), x[40:]...)
	chain.ProcessBlock(second)
	require.Equal(t, first, second)

	// A short state slice only touches the leading sections.
	chain.Reset()
	chain.SetState(saved[:1])
	got := chain.State()
	require.Equal(t, saved[0], got[0])
	require.Equal(t, [2]float64{}, got[1])
}
