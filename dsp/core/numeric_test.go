package core

import (
	"errors"
	"math"
	"testing"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		min      float64
		max      float64
		expected float64
	}{
		{name: "inside", value: 0.5, min: 0, max: 1, expected: 0.5},
		{name: "below", value: -1, min: 0, max: 1, expected: 0},
		{name: "above", value: 2, min: 0, max: 1, expected: 1},
		{name: "swapped", value: 2, min: 1, max: 0, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clamp(tt.value, tt.min, tt.max)
			if got != tt.expected {
				t.Fatalf("Clamp() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestNearlyEqual(t *testing.T) {
	if !NearlyEqual(1.0, 1.0+1e-13, 1e-12) {
		t.Fatal("expected values to be nearly equal")
	}
	if NearlyEqual(1.0, 1.1, 1e-3) {
		t.Fatal("expected values to differ")
	}
}

func TestDBConversions(t *testing.T) {
	linear := DBToLinear(-6)
	db := LinearToDB(linear)
	if !NearlyEqual(db, -6, 1e-10) {
		t.Fatalf("LinearToDB(DBToLinear(-6)) = %v, want -6", db)
	}
	if !math.IsInf(LinearToDB(0), -1) {
		t.Fatal("expected -Inf for zero")
	}
	if !math.IsNaN(LinearToDB(-1)) {
		t.Fatal("expected NaN for negative amplitude")
	}
}

func TestDBPowerConversions(t *testing.T) {
	// 3 dB power ~ 2x linear power
	p := DBPowerToLinear(3)
	if !NearlyEqual(p, 2.0, 0.01) {
		t.Fatalf("DBPowerToLinear(3) = %v, want ~2.0", p)
	}

	// Round-trip
	db := LinearPowerToDB(p)
	if !NearlyEqual(db, 3.0, 1e-10) {
		t.Fatalf("LinearPowerToDB(DBPowerToLinear(3)) = %v, want 3", db)
	}

	if !math.IsInf(LinearPowerToDB(0), -1) {
		t.Fatal("expected -Inf for zero power")
	}
	if !math.IsNaN(LinearPowerToDB(-1)) {
		t.Fatal("expected NaN for negative power")
	}
}

func TestNearlyEqualComplex(t *testing.T) {
	if !NearlyEqualComplex(1+1i, 1+1i+1e-14i, 1e-12) {
		t.Fatal("expected values to be nearly equal")
	}
	if NearlyEqualComplex(1i, -1i, 1e-6) {
		t.Fatal("expected conjugates to differ")
	}
	if !NearlyEqualComplex(0, 0, 0) {
		t.Fatal("expected zeros to be equal")
	}
}

func TestValidateSampleRate(t *testing.T) {
	for _, fs := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if err := ValidateSampleRate(fs); !errors.Is(err, ErrInvalidSamplingFrequency) {
			t.Fatalf("ValidateSampleRate(%v) = %v, want ErrInvalidSamplingFrequency", fs, err)
		}
	}
	if err := ValidateSampleRate(48000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPowerOfTwo(t *testing.T) {
	tests := []struct {
		n      int
		next   int
		isPow2 bool
	}{
		{n: 0, next: 1, isPow2: false},
		{n: 1, next: 1, isPow2: true},
		{n: 3, next: 4, isPow2: false},
		{n: 64, next: 64, isPow2: true},
		{n: 1000, next: 1024, isPow2: false},
	}
	for _, tt := range tests {
		if got := NextPowerOfTwo(tt.n); got != tt.next {
			t.Fatalf("NextPowerOfTwo(%d) = %d, want %d", tt.n, got, tt.next)
		}
		if got := IsPowerOfTwo(tt.n); got != tt.isPow2 {
			t.Fatalf("IsPowerOfTwo(%d) = %v, want %v", tt.n, got, tt.isPow2)
		}
	}
}

func TestConvergenceErrorUnwrap(t *testing.T) {
	var err error = &ConvergenceError{Iter: 40, Dev: 0.1}
	if !errors.Is(err, ErrFailureToConverge) {
		t.Fatal("expected ConvergenceError to match ErrFailureToConverge")
	}
	var ce *ConvergenceError
	if !errors.As(err, &ce) || ce.Iter != 40 {
		t.Fatalf("errors.As = %v", ce)
	}
}
