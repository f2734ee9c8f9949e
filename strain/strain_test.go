package strain

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-edxd/core"
	"github.com/cwbudde/algo-edxd/internal/testutil"
	"github.com/cwbudde/algo-edxd/peak"
)

func TestCalculateRoundTrip(t *testing.T) {
	def := peak.MultiPeak{Q0: []float64{3.1, 3.6}}
	eps := []float64{0, 1e-3, -2e-3, 5e-4}

	centers := core.NewArray(2, 2, 2)
	errs := core.NewArray(2, 2, 2)
	k := 0
	core.Ndindex([]int{2, 2}, func(idx []int) {
		for p, q0 := range def.Q0 {
			centers.Set(q0*(1-eps[k]), idx[0], idx[1], p)
			errs.Set(q0, idx[0], idx[1], p)
		}
		k++
	})

	f, err := Calculate(def, centers, errs)
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	k = 0
	core.Ndindex([]int{2, 2}, func(idx []int) {
		for p := range def.Q0 {
			got := f.Strain.At(idx[0], idx[1], p)
			if math.Abs(got-eps[k]) > 1e-15 {
				t.Fatalf("strain[%v,%d] = %v, want %v", idx, p, got, eps[k])
			}
			if e := f.StrainErr.At(idx[0], idx[1], p); e != 0 {
				t.Fatalf("strain_err[%v,%d] = %v, want 0", idx, p, e)
			}
		}
		k++
	})
}

func TestCalculateZeroAtQ0(t *testing.T) {
	for _, q0 := range []float64{3.1, 6.7, 49, 98, 2.87} {
		centers, _ := core.FromSlice([]float64{q0, q0, q0}, 3, 1)
		errs := core.NewArray(3, 1)

		f, err := Calculate(peak.SinglePeak{Q0: q0}, centers, errs)
		if err != nil {
			t.Fatal(err)
		}
		for i, v := range f.Strain.Data() {
			if v != 0 {
				t.Fatalf("q0=%v: strain[%d] = %v, want exactly 0", q0, i, v)
			}
		}
		for i, v := range f.StrainErr.Data() {
			if v != 1 {
				t.Fatalf("q0=%v: strain_err[%d] = %v, want 1", q0, i, v)
			}
		}
	}
}

func TestCalculateNaNPropagates(t *testing.T) {
	def := peak.MultiPeak{Q0: []float64{3.1, 3.6}}
	centers, _ := core.FromSlice([]float64{3.1, math.NaN(), math.NaN(), 3.6}, 2, 2)
	errs, _ := core.FromSlice([]float64{0.01, math.NaN(), math.NaN(), 0.01}, 2, 2)

	f, err := Calculate(def, centers, errs)
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{0, math.NaN(), math.NaN(), 0}
	testutil.RequireIdentical(t, f.Strain.Data(), want)
	if !math.IsNaN(f.StrainErr.At(0, 1)) || math.IsNaN(f.StrainErr.At(0, 0)) {
		t.Fatalf("strain_err = %v", f.StrainErr.Data())
	}
}

func TestCalculatePerDetectorUsesAveragedQ0(t *testing.T) {
	def := peak.PerDetectorPeak{Q0: [][]float64{{3.0}, {3.2}, {math.NaN()}}}
	centers, _ := core.FromSlice([]float64{3.1, 3.1, 3.1}, 3, 1)
	errs := core.NewArray(3, 1)

	f, err := Calculate(def, centers, errs)
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range f.Strain.Data() {
		if math.Abs(v) > 1e-15 {
			t.Fatalf("strain[%d] = %v, want 0 against the averaged q0", i, v)
		}
	}
}

func TestCalculateShapeMismatch(t *testing.T) {
	def := peak.MultiPeak{Q0: []float64{3.1, 3.6}}
	tests := []struct {
		name          string
		centers, errs *core.Array
	}{
		{name: "peak axis", centers: core.NewArray(4, 3), errs: core.NewArray(4, 3)},
		{name: "error shape", centers: core.NewArray(4, 2), errs: core.NewArray(2, 4)},
		{name: "scalar", centers: core.NewArray(), errs: core.NewArray()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Calculate(def, tt.centers, tt.errs); !errors.Is(err, core.ErrShapeMismatch) {
				t.Fatalf("err = %v, want ErrShapeMismatch", err)
			}
		})
	}
}

func TestCanonical(t *testing.T) {
	phi := testutil.Linspace(-math.Pi, math.Pi, 17)
	tests := []struct {
		in        []float64
		wantAmp   float64
		wantPhase float64
	}{
		{in: []float64{1, 2, 0.3}, wantAmp: 2, wantPhase: 0.3},
		{in: []float64{1, -2, 0.3}, wantAmp: 2, wantPhase: 0.3 + math.Pi/2 - math.Pi},
		{in: []float64{0, 1, math.Pi / 2}, wantAmp: 1, wantPhase: math.Pi / 2},
		{in: []float64{0, 1, -math.Pi / 2}, wantAmp: 1, wantPhase: math.Pi / 2},
		{in: []float64{0, 1, 7.0}, wantAmp: 1, wantPhase: 7.0 - 2*math.Pi},
	}
	for _, tt := range tests {
		got := Canonical(tt.in)
		if math.Abs(got[1]-tt.wantAmp) > 1e-12 || math.Abs(got[2]-tt.wantPhase) > 1e-12 {
			t.Fatalf("Canonical(%v) = %v, want amp %v phase %v", tt.in, got, tt.wantAmp, tt.wantPhase)
		}
		for _, x := range phi {
			if d := Harmonic(x, got) - Harmonic(x, tt.in); math.Abs(d) > 1e-12 {
				t.Fatalf("Canonical(%v) changes curve at %v by %v", tt.in, x, d)
			}
		}
	}
}
