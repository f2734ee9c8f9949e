package testutil

import (
	"math"
	"testing"
)

func TestDeterministicNoise(t *testing.T) {
	a := DeterministicNoise(42, 1.0, 64)
	b := DeterministicNoise(42, 1.0, 64)
	if len(a) != 64 {
		t.Fatalf("len = %d, want 64", len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("noise not deterministic at index %d", i)
		}
	}
}

func TestDeterministicNoiseDifferentSeeds(t *testing.T) {
	a := DeterministicNoise(1, 1.0, 16)
	b := DeterministicNoise(2, 1.0, 16)
	same := true
	for i := range a {
		if a[i] != b[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatal("different seeds produced identical noise")
	}
}

func TestDC(t *testing.T) {
	d := DC(0.5, 4)
	for i, v := range d {
		if v != 0.5 {
			t.Fatalf("DC[%d] = %v, want 0.5", i, v)
		}
	}
}

func TestLinspace(t *testing.T) {
	x := Linspace(-math.Pi, 0, 23)
	if len(x) != 23 {
		t.Fatalf("len = %d, want 23", len(x))
	}
	if x[0] != -math.Pi || x[22] != 0 {
		t.Fatalf("endpoints = %v, %v", x[0], x[22])
	}
}

func TestGaussianPeakMaximum(t *testing.T) {
	x := Linspace(0, 2, 21)
	y := GaussianPeak(x, 1, 10, 1, 0.2)
	if math.Abs(y[10]-11) > 1e-12 {
		t.Fatalf("peak value = %v, want 11", y[10])
	}
}

func TestRingSpectraShape(t *testing.T) {
	q := Linspace(2, 4, 50)
	phi := Linspace(-math.Pi, 0, 5)
	I := RingSpectra([]int{2, 3}, q, phi, []float64{3}, 0.05, func([]int, int) Harmonic {
		return Harmonic{}
	})
	shape := I.Shape()
	want := []int{2, 3, 5, 50}
	for i := range want {
		if shape[i] != want[i] {
			t.Fatalf("shape = %v, want %v", shape, want)
		}
	}
	RequireFinite(t, I.Data())
}
