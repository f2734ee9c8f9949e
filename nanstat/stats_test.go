package nanstat

import (
	"math"
	"testing"
)

func TestMeanIgnoresNaN(t *testing.T) {
	got := Mean([]float64{1, math.NaN(), 3})
	if got != 2 {
		t.Fatalf("Mean() = %v, want 2", got)
	}
}

func TestMeanAllNaN(t *testing.T) {
	if got := Mean([]float64{math.NaN(), math.NaN()}); !math.IsNaN(got) {
		t.Fatalf("Mean() = %v, want NaN", got)
	}
	if got := Mean(nil); !math.IsNaN(got) {
		t.Fatalf("Mean(nil) = %v, want NaN", got)
	}
}

func TestMeanStdPopulation(t *testing.T) {
	mean, std := MeanStd([]float64{2, 4, 4, 4, math.NaN(), 5, 5, 7, 9})
	if mean != 5 {
		t.Fatalf("mean = %v, want 5", mean)
	}
	if math.Abs(std-2) > 1e-12 {
		t.Fatalf("std = %v, want 2", std)
	}
}

func TestValidAndTake(t *testing.T) {
	x := []float64{math.NaN(), 1, math.NaN(), 2}
	v, idx := Valid(x)
	if len(v) != 2 || v[0] != 1 || v[1] != 2 {
		t.Fatalf("values = %v, want [1 2]", v)
	}
	if idx[0] != 1 || idx[1] != 3 {
		t.Fatalf("idx = %v, want [1 3]", idx)
	}
	phi := []float64{10, 11, 12, 13}
	if got := Take(phi, idx); got[0] != 11 || got[1] != 13 {
		t.Fatalf("Take() = %v, want [11 13]", got)
	}
	if Count(x) != 2 {
		t.Fatalf("Count() = %d, want 2", Count(x))
	}
}

func TestMeanAxis0(t *testing.T) {
	rows := [][]float64{
		{3.0, 4.0},
		{5.0, math.NaN()},
		{4.0, 6.0},
	}
	got := MeanAxis0(rows)
	if got[0] != 4 || got[1] != 5 {
		t.Fatalf("MeanAxis0() = %v, want [4 5]", got)
	}
}
