package fit

import (
	"context"
	"testing"

	"github.com/cwbudde/algo-edxd/core"
	"github.com/cwbudde/algo-edxd/internal/testutil"
	"github.com/cwbudde/algo-edxd/peak"
)

func BenchmarkPeaks(b *testing.B) {
	qv := testutil.Linspace(2.5, 4.0, 601)
	q, _ := core.FromSlice(qv, len(qv))
	phi := testutil.Linspace(-3.14159, 0, 23)
	I := testutil.RingSpectra([]int{4, 4}, qv, phi, []float64{3.1}, 0.02, func([]int, int) testutil.Harmonic {
		return testutil.Harmonic{Amplitude: 1e-3}
	})
	windows := peak.SinglePeak{Q0: 3.1}.Windows(0.3)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Peaks(context.Background(), q, I, windows); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkFitWindow(b *testing.B) {
	q := testutil.Linspace(2.5, 4.0, 601)
	y := testutil.GaussianPeak(q, 5, 100, 3.108, 0.02)
	w := peak.NewWindow(3.1, 0.3)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := FitWindow(q, y, w); err != nil {
			b.Fatal(err)
		}
	}
}
