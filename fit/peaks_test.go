package fit

import (
	"context"
	"errors"
	"math"
	"sync/atomic"
	"testing"

	"github.com/cwbudde/algo-edxd/core"
	"github.com/cwbudde/algo-edxd/internal/testutil"
	"github.com/cwbudde/algo-edxd/peak"
)

var (
	testQ0  = []float64{3.1, 3.6}
	testPhi = testutil.Linspace(-math.Pi, 0, 5)
)

func testHarmonic(idx []int, p int) testutil.Harmonic {
	return testutil.Harmonic{
		Offset:    1e-4 * float64(idx[0]+1),
		Amplitude: 8e-4 * float64(p+1),
		Phase:     0.1 * float64(idx[1]),
	}
}

func testGrid(t *testing.T) (q, I *core.Array) {
	t.Helper()
	qv := testutil.Linspace(2.5, 4.0, 601)
	q, err := core.FromSlice(qv, len(qv))
	if err != nil {
		t.Fatal(err)
	}
	I = testutil.RingSpectra([]int{2, 3}, qv, testPhi, testQ0, 0.02, testHarmonic)
	return q, I
}

func TestPeaksRecoversCentres(t *testing.T) {
	q, I := testGrid(t)
	windows := peak.MultiPeak{Q0: testQ0}.Windows(0.3)

	res, err := Peaks(context.Background(), q, I, windows)
	if err != nil {
		t.Fatalf("Peaks() error = %v", err)
	}

	shape := res.Centers.Shape()
	want := []int{2, 3, len(testPhi), 2}
	for i := range want {
		if shape[i] != want[i] {
			t.Fatalf("result shape = %v, want %v", shape, want)
		}
	}
	if res.Attempted != 2*3*len(testPhi)*2 {
		t.Fatalf("Attempted = %d", res.Attempted)
	}
	if res.FailureCount() != 0 {
		t.Fatalf("unexpected failures: %v", res.Failures)
	}

	core.Ndindex([]int{2, 3}, func(idx []int) {
		for d, angle := range testPhi {
			for p, q0 := range testQ0 {
				expect := q0 * (1 - testHarmonic(idx, p).At(angle))
				got := res.Centers.At(idx[0], idx[1], d, p)
				if math.Abs(got-expect) > 1e-8 {
					t.Fatalf("centre[%v,%d,%d] = %v, want %v", idx, d, p, got, expect)
				}
			}
		}
	})
	testutil.RequireFinite(t, res.FWHM.Data())
}

func TestPeaksPerDetectorAxis(t *testing.T) {
	q1, I := testGrid(t)
	n := q1.Len()
	qd := core.NewArray(len(testPhi), n)
	for d := range testPhi {
		copy(qd.Lane(d), q1.Data())
	}

	windows := peak.SinglePeak{Q0: 3.1}.Windows(0.3)
	res, err := Peaks(context.Background(), qd, I, windows, WithWorkers(2))
	if err != nil {
		t.Fatalf("Peaks() error = %v", err)
	}
	if res.FailureCount() != 0 {
		t.Fatalf("unexpected failures: %v", res.Failures)
	}
	testutil.RequireFinite(t, res.Centers.Data())
}

func TestPeaksFailedFitIsNaN(t *testing.T) {
	q, I := testGrid(t)
	dead := I.Lane(1, 2, 3)
	for i := range dead {
		dead[i] = math.NaN()
	}

	windows := peak.MultiPeak{Q0: testQ0}.Windows(0.3)
	res, err := Peaks(context.Background(), q, I, windows)
	if err != nil {
		t.Fatalf("Peaks() error = %v", err)
	}

	if res.FailureCount() != 2 {
		t.Fatalf("FailureCount() = %d, want 2", res.FailureCount())
	}
	for p, f := range res.Failures {
		if f.Peak != p {
			t.Fatalf("failure %d peak = %d, want %d", p, f.Peak, p)
		}
		if len(f.Index) != 3 || f.Index[0] != 1 || f.Index[1] != 2 || f.Index[2] != 3 {
			t.Fatalf("failure index = %v, want [1 2 3]", f.Index)
		}
		if !errors.Is(f.Err, ErrInsufficientData) {
			t.Fatalf("failure err = %v, want ErrInsufficientData", f.Err)
		}
	}
	for p := range testQ0 {
		for _, a := range []*core.Array{res.Centers, res.CenterErrs, res.FWHM, res.FWHMErrs} {
			if v := a.At(1, 2, 3, p); !math.IsNaN(v) {
				t.Fatalf("failed entry = %v, want NaN", v)
			}
		}
		if math.IsNaN(res.Centers.At(1, 2, 2, p)) {
			t.Fatal("neighbouring detector should still be fitted")
		}
	}
}

func TestPeaksOrderIndependent(t *testing.T) {
	q, I := testGrid(t)
	dead := I.Lane(0, 1, 0)
	for i := range dead {
		dead[i] = math.NaN()
	}
	windows := peak.MultiPeak{Q0: testQ0}.Windows(0.3)

	serial, err := Peaks(context.Background(), q, I, windows, WithWorkers(1))
	if err != nil {
		t.Fatal(err)
	}
	parallel, err := Peaks(context.Background(), q, I, windows, WithWorkers(7))
	if err != nil {
		t.Fatal(err)
	}

	testutil.RequireIdentical(t, parallel.Centers.Data(), serial.Centers.Data())
	testutil.RequireIdentical(t, parallel.CenterErrs.Data(), serial.CenterErrs.Data())
	testutil.RequireIdentical(t, parallel.FWHM.Data(), serial.FWHM.Data())
	testutil.RequireIdentical(t, parallel.FWHMErrs.Data(), serial.FWHMErrs.Data())

	if len(serial.Failures) != len(parallel.Failures) {
		t.Fatalf("failure counts differ: %d vs %d", len(serial.Failures), len(parallel.Failures))
	}
	for i := range serial.Failures {
		if serial.Failures[i].Peak != parallel.Failures[i].Peak {
			t.Fatalf("failure %d order differs", i)
		}
	}
}

func TestPeaksReversedWindowsPermuteResult(t *testing.T) {
	q, I := testGrid(t)
	fwd := peak.MultiPeak{Q0: testQ0}.Windows(0.3)
	rev := []peak.Window{fwd[1], fwd[0]}

	a, err := Peaks(context.Background(), q, I, fwd)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Peaks(context.Background(), q, I, rev)
	if err != nil {
		t.Fatal(err)
	}
	core.Ndindex([]int{2, 3, len(testPhi)}, func(idx []int) {
		for p := 0; p < 2; p++ {
			if a.Centers.At(idx[0], idx[1], idx[2], p) != b.Centers.At(idx[0], idx[1], idx[2], 1-p) {
				t.Fatalf("centre at %v peak %d changed with window order", idx, p)
			}
		}
	})
}

func TestPeaksShapeMismatch(t *testing.T) {
	_, I := testGrid(t)
	bad, _ := core.FromSlice(make([]float64, 10), 10)
	windows := peak.SinglePeak{Q0: 3.1}.Windows(0.3)

	if _, err := Peaks(context.Background(), bad, I, windows); !errors.Is(err, core.ErrShapeMismatch) {
		t.Fatalf("err = %v, want ErrShapeMismatch", err)
	}
	flat, _ := core.FromSlice(make([]float64, 10), 10)
	if _, err := Peaks(context.Background(), flat, flat, windows); !errors.Is(err, core.ErrShapeMismatch) {
		t.Fatalf("1-D intensity err = %v, want ErrShapeMismatch", err)
	}
}

func TestPeaksProgressAndCancel(t *testing.T) {
	q, I := testGrid(t)
	windows := peak.SinglePeak{Q0: 3.1}.Windows(0.3)

	var calls atomic.Int64
	res, err := Peaks(context.Background(), q, I, windows, WithProgress(func(done, total int) {
		calls.Add(1)
		if done > total {
			t.Errorf("done %d > total %d", done, total)
		}
	}))
	if err != nil {
		t.Fatal(err)
	}
	if int(calls.Load()) != res.Attempted {
		t.Fatalf("progress calls = %d, want %d", calls.Load(), res.Attempted)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Peaks(ctx, q, I, windows); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestPeaksIterationLimitIsUnconverged(t *testing.T) {
	q, I := testGrid(t)
	windows := peak.MultiPeak{Q0: testQ0}.Windows(0.3)

	res, err := Peaks(context.Background(), q, I, windows, WithMaxIterations(1))
	if err != nil {
		t.Fatalf("Peaks() error = %v", err)
	}
	if res.Unconverged() != res.Attempted || res.FailureCount() != res.Attempted {
		t.Fatalf("Unconverged() = %d, FailureCount() = %d, want %d",
			res.Unconverged(), res.FailureCount(), res.Attempted)
	}
	for i, v := range res.Centers.Data() {
		if !math.IsNaN(v) {
			t.Fatalf("centres[%d] = %v, want NaN", i, v)
		}
	}
}
