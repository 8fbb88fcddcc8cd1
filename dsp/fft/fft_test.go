package fft

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/cwbudde/algo-lti/internal/testutil"
)

var propertySizes = []int{1, 2, 3, 5, 7, 8, 11, 12, 64, 100, 127, 128, 1000}

func norm2(x []complex128) float64 {
	sum := 0.0
	for _, v := range x {
		sum += real(v)*real(v) + imag(v)*imag(v)
	}
	return math.Sqrt(sum)
}

func TestForwardMatchesDirectDFT(t *testing.T) {
	sizes := append([]int{4, 6, 9, 10, 13, 14, 15, 25, 27, 49, 97, 98, 121, 210, 343, 1009}, propertySizes...)
	for _, n := range sizes {
		x := testutil.DeterministicComplexNoise(int64(n), 1, n)
		want := testutil.NaiveDFT(x)
		got := FFT(x)

		diff, err := testutil.MaxAbsDiffComplex(got, want)
		if err != nil {
			t.Fatal(err)
		}
		if tol := 1e-12 * float64(n); diff > tol {
			t.Errorf("N=%d: max diff %v > %v", n, diff, tol)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	const eps = 1e-15
	for _, n := range propertySizes {
		x := testutil.DeterministicComplexNoise(int64(100+n), 1, n)
		y := append([]complex128(nil), x...)
		Forward(y)
		Inverse(y)

		diff, _ := testutil.MaxAbsDiffComplex(y, x)
		if tol := float64(n) * eps * norm2(x); diff > tol {
			t.Errorf("N=%d: round trip diff %v > %v", n, diff, tol)
		}
	}
}

func TestParseval(t *testing.T) {
	for _, n := range propertySizes {
		x := testutil.DeterministicComplexNoise(int64(200+n), 1, n)
		X := FFT(x)

		timeEnergy := norm2(x) * norm2(x)
		freqEnergy := norm2(X) * norm2(X) / float64(n)
		if math.Abs(timeEnergy-freqEnergy) > 1e-12*float64(n)*math.Max(1, timeEnergy) {
			t.Errorf("N=%d: Σ|x|²=%v, Σ|X|²/N=%v", n, timeEnergy, freqEnergy)
		}
	}
}

func TestImpulseRadixMix(t *testing.T) {
	x := make([]complex128, 12)
	x[0] = 1

	Forward(x)
	for k, v := range x {
		if cmplx.Abs(v-1) > 1e-15 {
			t.Fatalf("X[%d] = %v, want 1", k, v)
		}
	}

	Inverse(x)
	for n, v := range x {
		want := 0.0
		if n == 0 {
			want = 1
		}
		if cmplx.Abs(v-complex(want, 0)) > 1e-15 {
			t.Fatalf("x[%d] = %v, want %v", n, v, want)
		}
	}
}

func TestSingleToneBin(t *testing.T) {
	const n, bin = 30, 7
	x := make([]complex128, n)
	for i := range x {
		x[i] = twiddle(bin*i, n, inverseSign)
	}
	Forward(x)
	for k, v := range x {
		want := 0.0
		if k == bin {
			want = n
		}
		if cmplx.Abs(v-complex(want, 0)) > 1e-12 {
			t.Fatalf("X[%d] = %v, want %v", k, v, want)
		}
	}
}

func TestBluesteinToggle(t *testing.T) {
	for _, n := range []int{101, 127, 1009} {
		x := testutil.DeterministicComplexNoise(int64(n), 1, n)
		fast := FFT(x)
		slow := FFT(x, WithBluestein(false))

		diff, _ := testutil.MaxAbsDiffComplex(fast, slow)
		if diff > 1e-11*float64(n) {
			t.Errorf("N=%d: bluestein vs direct diff %v", n, diff)
		}
	}
}

func TestWithScratch(t *testing.T) {
	x := testutil.DeterministicComplexNoise(3, 1, 60)
	want := FFT(x)

	got := append([]complex128(nil), x...)
	Forward(got, WithScratch(make([]complex128, 60)))
	testutil.RequireComplexSliceNearlyEqual(t, got, want, 0)

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for mismatched scratch length")
		}
	}()
	Forward(got, WithScratch(make([]complex128, 59)))
}

func TestRealInput(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	X := Real(x)
	if cmplx.Abs(X[0]-15) > 1e-12 {
		t.Fatalf("X[0] = %v, want 15", X[0])
	}
	// Hermitian symmetry for real input.
	for k := 1; k < len(X); k++ {
		if cmplx.Abs(X[k]-cmplx.Conj(X[len(X)-k])) > 1e-12 {
			t.Fatalf("X[%d]=%v not conj of X[%d]=%v", k, X[k], len(X)-k, X[len(X)-k])
		}
	}
}

func TestDigitReverse(t *testing.T) {
	x := make([]complex128, 9)
	for i := range x {
		x[i] = complex(float64(i), 0)
	}
	DigitReverse(x, 3)
	want := []float64{0, 3, 6, 1, 4, 7, 2, 5, 8}
	for i, v := range x {
		if real(v) != want[i] {
			t.Fatalf("x = %v, want %v", x, want)
		}
	}

	y := make([]complex128, 8)
	for i := range y {
		y[i] = complex(float64(i), 0)
	}
	z := append([]complex128(nil), y...)
	DigitReverse(y, 2)
	bitReverse(z)
	testutil.RequireComplexSliceNearlyEqual(t, y, z, 0)
}

func TestFactors(t *testing.T) {
	tests := []struct {
		n    int
		want []int
	}{
		{n: 1, want: nil},
		{n: 8, want: []int{2, 2, 2}},
		{n: 12, want: []int{2, 2, 3}},
		{n: 1000, want: []int{2, 2, 2, 5, 5, 5}},
		{n: 127, want: []int{127}},
		{n: 10403, want: []int{101, 103}},
	}
	for _, tt := range tests {
		got := Factors(tt.n)
		if len(got) != len(tt.want) {
			t.Fatalf("Factors(%d) = %v, want %v", tt.n, got, tt.want)
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Fatalf("Factors(%d) = %v, want %v", tt.n, got, tt.want)
			}
		}
	}
}
