package fit_test

import (
	"context"
	"fmt"

	"github.com/cwbudde/algo-edxd/core"
	"github.com/cwbudde/algo-edxd/fit"
	"github.com/cwbudde/algo-edxd/internal/testutil"
	"github.com/cwbudde/algo-edxd/peak"
)

func ExampleFitWindow() {
	q := testutil.Linspace(2.5, 4.0, 601)
	y := testutil.GaussianPeak(q, 5, 100, 3.105, 0.02)

	wf, err := fit.FitWindow(q, y, peak.NewWindow(3.1, 0.3))
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("centre %.4f fwhm %.4f\n", wf.Center, wf.FWHM)
	// Output: centre 3.1050 fwhm 0.0471
}

func ExamplePeaks() {
	qv := testutil.Linspace(2.5, 4.0, 601)
	q, _ := core.FromSlice(qv, len(qv))
	phi := testutil.Linspace(-3.14159, 0, 4)
	I := testutil.RingSpectra([]int{2}, qv, phi, []float64{3.1}, 0.02, func([]int, int) testutil.Harmonic {
		return testutil.Harmonic{}
	})

	res, err := fit.Peaks(context.Background(), q, I, peak.SinglePeak{Q0: 3.1}.Windows(0.3))
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(res.Centers.Shape(), res.Attempted, res.FailureCount())
	fmt.Printf("%.4f\n", res.Centers.At(1, 2, 0))
	// Output:
	// [2 4 1] 8 0
	// 3.1000
}
