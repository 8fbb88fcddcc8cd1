package core

import "testing"

func TestEnsureLenReusesCapacity(t *testing.T) {
	buf := make([]float64, 2, 8)
	got := EnsureLen(buf, 6)
	if len(got) != 6 || cap(got) != 8 {
		t.Fatalf("len=%d cap=%d, want 6/8", len(got), cap(got))
	}
	if &got[0] != &buf[0] {
		t.Fatal("expected backing array to be reused")
	}

	grown := EnsureLen(buf, 16)
	if len(grown) != 16 {
		t.Fatalf("len=%d, want 16", len(grown))
	}

	if got := EnsureLen(buf, -1); len(got) != 0 {
		t.Fatalf("len=%d, want 0", len(got))
	}
}

func TestZeroComplex(t *testing.T) {
	buf := []complex128{1 + 1i, 2, 3i}
	Zero(buf)
	for i, v := range buf {
		if v != 0 {
			t.Fatalf("buf[%d] = %v, want 0", i, v)
		}
	}
}

func TestPadding(t *testing.T) {
	left := PadLeft([]float64{1, 2}, 4)
	want := []float64{0, 0, 1, 2}
	for i := range want {
		if left[i] != want[i] {
			t.Fatalf("PadLeft = %v, want %v", left, want)
		}
	}

	right := PadRight([]float64{1, 2}, 4)
	want = []float64{1, 2, 0, 0}
	for i := range want {
		if right[i] != want[i] {
			t.Fatalf("PadRight = %v, want %v", right, want)
		}
	}

	x := []float64{1, 2, 3}
	if got := PadLeft(x, 2); &got[0] != &x[0] {
		t.Fatal("expected no copy when already long enough")
	}
	if n := CopyInto(make([]float64, 2), x); n != 2 {
		t.Fatalf("CopyInto copied %d, want 2", n)
	}
}
