package spectrum

import (
	"testing"

	"github.com/cwbudde/algo-lti/dsp/core"
	"github.com/cwbudde/algo-lti/internal/testutil"
	"github.com/mjibson/go-dsp/spectral"
	"github.com/mjibson/go-dsp/window"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

func TestPwelchMatchesGoDSP(t *testing.T) {
	x := testutil.DeterministicNoise(11, 1, 3000)

	psd, freqs, err := Pwelch(x, WithSegment(256, 128), WithSampleRate(8000))
	require.NoError(t, err)

	want, wantFreqs := spectral.Pwelch(x, 8000, &spectral.PwelchOptions{
		NFFT:     256,
		Noverlap: 128,
		Window:   window.Hann,
	})
	require.InDeltaSlice(t, wantFreqs, freqs, 1e-9)
	require.Len(t, psd, len(want))
	for k := range want {
		require.InEpsilon(t, want[k], psd[k], 1e-9, "bin %d", k)
	}
}

func TestPwelchSinePower(t *testing.T) {
	const fs = 1000.0
	// 125 Hz falls on a bin centre for 256-point segments.
	x := testutil.DeterministicSine(125, fs, 2, 4096)

	psd, freqs, err := Pwelch(x, WithSampleRate(fs))
	require.NoError(t, err)
	require.Len(t, psd, 129)

	peak := floats.MaxIdx(psd)
	require.InDelta(t, 125, freqs[peak], 1e-9)

	// The density integrates to the mean power A²/2.
	df := freqs[1] - freqs[0]
	require.InEpsilon(t, 2.0, floats.Sum(psd)*df, 1e-2)
}

func TestPwelchTwoSided(t *testing.T) {
	x := testutil.DeterministicNoise(5, 1, 1024)

	one, _, err := Pwelch(x, WithSegment(128, 64))
	require.NoError(t, err)
	two, freqs, err := Pwelch(x, WithSegment(128, 64), WithTwoSided())
	require.NoError(t, err)
	require.Len(t, two, 128)
	require.Len(t, freqs, 128)

	require.InDelta(t, one[0], two[0], 1e-15)
	require.InDelta(t, one[64], two[64], 1e-15)
	require.InDelta(t, one[10], two[10]+two[118], 1e-12)
}

func TestPwelchDetrend(t *testing.T) {
	x := testutil.DeterministicSine(0.1, 1, 1, 512)
	for i := range x {
		x[i] += 5 + 0.01*float64(i)
	}

	raw, _, err := Pwelch(x, WithSegment(128, 0), WithWindow(window.Rectangular))
	require.NoError(t, err)
	mean, _, err := Pwelch(x, WithSegment(128, 0), WithWindow(window.Rectangular), WithDetrend(DetrendMean))
	require.NoError(t, err)
	linear, _, err := Pwelch(x, WithSegment(128, 0), WithWindow(window.Rectangular), WithDetrend(DetrendLinear))
	require.NoError(t, err)

	require.Less(t, mean[0], raw[0]*1e-3)
	require.InDelta(t, 0, linear[0], 1e-20)
}

func TestPeriodogram(t *testing.T) {
	x := []float64{1, 0, 0, 0}
	psd, freqs, err := Periodogram(x)
	require.NoError(t, err)

	// An impulse has a flat spectrum of |X|² = 1 over fs·N = 4.
	require.InDeltaSlice(t, []float64{0.25, 0.5, 0.25}, psd, 1e-15)
	require.InDeltaSlice(t, []float64{0, 0.25, 0.5}, freqs, 1e-15)

	padded, freqs, err := Periodogram(x, WithNFFT(8))
	require.NoError(t, err)
	require.Len(t, padded, 5)
	require.InDelta(t, 0.125, freqs[1], 1e-15)
}

func TestPwelchShortSignalIsPadded(t *testing.T) {
	psd, _, err := Pwelch([]float64{1, 2, 3}, WithSegment(8, 4))
	require.NoError(t, err)
	require.Len(t, psd, 5)
}

func TestSpectralErrors(t *testing.T) {
	short := func(int) []float64 { return []float64{1} }
	tests := []struct {
		name string
		x    []float64
		opts []Option
		want error
	}{
		{"empty", nil, nil, core.ErrShapeMismatch},
		{"overlap", make([]float64, 64), []Option{WithSegment(16, 16)}, core.ErrShapeMismatch},
		{"nfft", make([]float64, 64), []Option{WithSegment(16, 8), WithNFFT(8)}, core.ErrShapeMismatch},
		{"sample rate", make([]float64, 64), []Option{WithSampleRate(0)}, core.ErrInvalidSamplingFrequency},
		{"detrend", make([]float64, 64), []Option{WithDetrend(Detrend(5))}, core.ErrShapeMismatch},
		{"window", make([]float64, 64), []Option{WithWindow(short)}, core.ErrShapeMismatch},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := Pwelch(tc.x, tc.opts...)
			require.ErrorIs(t, err, tc.want)
		})
	}
}
